package deploy

import (
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/cl"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/serialization"
)

// NamedArg is one runtime argument passed to a deploy item.
type NamedArg struct {
	Name  string
	Value cl.CLValue
}

// Args keeps runtime arguments in the order they were given.
type Args []NamedArg

// Get returns the value of the first argument called name.
func (a Args) Get(name string) (cl.CLValue, bool) {
	for _, arg := range a {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return cl.CLValue{}, false
}

func (a Args) write(w *serialization.Writer) {
	w.WriteUInteger(uint32(len(a)))
	for _, arg := range a {
		w.WriteString(arg.Name)
		w.WriteBytes(arg.Value.ToBytes())
	}
}

func (arg NamedArg) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{arg.Name, arg.Value})
}

func (arg *NamedArg) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil || len(pair) != 2 {
		return errors.Wrapf(sdkerr.ErrFormat, "named arg %s", data)
	}
	if err := json.Unmarshal(pair[0], &arg.Name); err != nil {
		return errors.Wrapf(sdkerr.ErrFormat, "named arg name %s", pair[0])
	}
	return errors.Wrapf(json.Unmarshal(pair[1], &arg.Value), "named arg %q", arg.Name)
}

// ItemKind is the binary discriminant of an executable deploy item.
type ItemKind byte

const (
	KindModuleBytes ItemKind = iota
	KindStoredContractByHash
	KindStoredContractByName
	KindStoredVersionedContractByHash
	KindStoredVersionedContractByName
	KindTransfer
)

var kindNames = map[ItemKind]string{
	KindModuleBytes:                   "ModuleBytes",
	KindStoredContractByHash:          "StoredContractByHash",
	KindStoredContractByName:          "StoredContractByName",
	KindStoredVersionedContractByHash: "StoredVersionedContractByHash",
	KindStoredVersionedContractByName: "StoredVersionedContractByName",
	KindTransfer:                      "Transfer",
}

func (k ItemKind) String() string { return kindNames[k] }

// ExecutableDeployItem is the payment or session code of a deploy. It is
// implemented only by the item types of this package.
type ExecutableDeployItem interface {
	Kind() ItemKind
	RuntimeArgs() Args
	writeFields(w *serialization.Writer)
}

type ModuleBytes struct {
	Module []byte
	Args   Args
}

type StoredContractByHash struct {
	Hash       Hash
	EntryPoint string
	Args       Args
}

type StoredContractByName struct {
	Name       string
	EntryPoint string
	Args       Args
}

// StoredVersionedContractByHash calls a contract package. A nil Version
// selects the latest version.
type StoredVersionedContractByHash struct {
	Hash       Hash
	Version    *uint32
	EntryPoint string
	Args       Args
}

type StoredVersionedContractByName struct {
	Name       string
	Version    *uint32
	EntryPoint string
	Args       Args
}

type Transfer struct {
	Args Args
}

func (i *ModuleBytes) Kind() ItemKind                   { return KindModuleBytes }
func (i *StoredContractByHash) Kind() ItemKind          { return KindStoredContractByHash }
func (i *StoredContractByName) Kind() ItemKind          { return KindStoredContractByName }
func (i *StoredVersionedContractByHash) Kind() ItemKind { return KindStoredVersionedContractByHash }
func (i *StoredVersionedContractByName) Kind() ItemKind { return KindStoredVersionedContractByName }
func (i *Transfer) Kind() ItemKind                      { return KindTransfer }

func (i *ModuleBytes) RuntimeArgs() Args                   { return i.Args }
func (i *StoredContractByHash) RuntimeArgs() Args          { return i.Args }
func (i *StoredContractByName) RuntimeArgs() Args          { return i.Args }
func (i *StoredVersionedContractByHash) RuntimeArgs() Args { return i.Args }
func (i *StoredVersionedContractByName) RuntimeArgs() Args { return i.Args }
func (i *Transfer) RuntimeArgs() Args                      { return i.Args }

func (i *ModuleBytes) writeFields(w *serialization.Writer) {
	w.WriteLengthPrefixed(i.Module)
}

func (i *StoredContractByHash) writeFields(w *serialization.Writer) {
	w.WriteBytes(i.Hash[:])
	w.WriteString(i.EntryPoint)
}

func (i *StoredContractByName) writeFields(w *serialization.Writer) {
	w.WriteString(i.Name)
	w.WriteString(i.EntryPoint)
}

func (i *StoredVersionedContractByHash) writeFields(w *serialization.Writer) {
	w.WriteBytes(i.Hash[:])
	writeVersion(w, i.Version)
	w.WriteString(i.EntryPoint)
}

func (i *StoredVersionedContractByName) writeFields(w *serialization.Writer) {
	w.WriteString(i.Name)
	writeVersion(w, i.Version)
	w.WriteString(i.EntryPoint)
}

func (i *Transfer) writeFields(*serialization.Writer) {}

func writeVersion(w *serialization.Writer, v *uint32) {
	if v == nil {
		w.WriteBool(false)
		return
	}
	w.WriteBool(true)
	w.WriteUInteger(*v)
}

func isNilItem(item ExecutableDeployItem) bool {
	if item == nil {
		return true
	}
	switch i := item.(type) {
	case *ModuleBytes:
		return i == nil
	case *StoredContractByHash:
		return i == nil
	case *StoredContractByName:
		return i == nil
	case *StoredVersionedContractByHash:
		return i == nil
	case *StoredVersionedContractByName:
		return i == nil
	case *Transfer:
		return i == nil
	}
	return true
}

// ItemBytes is the discriminant byte, the variant fields and the runtime
// args of item.
func ItemBytes(item ExecutableDeployItem) ([]byte, error) {
	if isNilItem(item) {
		return nil, errors.Wrap(sdkerr.ErrUnsupportedDeployItem, "item null")
	}
	w := serialization.NewWriter()
	if err := w.WriteByte(byte(item.Kind())); err != nil {
		return nil, err
	}
	item.writeFields(w)
	item.RuntimeArgs().write(w)
	return w.Bytes(), nil
}

// ------------------------------------------------------------------------------------------------------------------- //
// JSON

type moduleBytesJSON struct {
	ModuleBytes string `json:"module_bytes"`
	Args        Args   `json:"args"`
}

type byHashJSON struct {
	Hash       Hash   `json:"hash"`
	EntryPoint string `json:"entry_point"`
	Args       Args   `json:"args"`
}

type byNameJSON struct {
	Name       string `json:"name"`
	EntryPoint string `json:"entry_point"`
	Args       Args   `json:"args"`
}

type versionedByHashJSON struct {
	Hash       Hash    `json:"hash"`
	Version    *uint32 `json:"version"`
	EntryPoint string  `json:"entry_point"`
	Args       Args    `json:"args"`
}

type versionedByNameJSON struct {
	Name       string  `json:"name"`
	Version    *uint32 `json:"version"`
	EntryPoint string  `json:"entry_point"`
	Args       Args    `json:"args"`
}

type transferJSON struct {
	Args Args `json:"args"`
}

func nonNil(a Args) Args {
	if a == nil {
		return Args{}
	}
	return a
}

// MarshalItem renders item as the node's single key object, for example
// {"Transfer": {"args": [...]}}.
func MarshalItem(item ExecutableDeployItem) ([]byte, error) {
	var body interface{}
	switch i := item.(type) {
	case *ModuleBytes:
		if i == nil {
			break
		}
		body = moduleBytesJSON{ModuleBytes: hex.EncodeToString(i.Module), Args: nonNil(i.Args)}
	case *StoredContractByHash:
		if i == nil {
			break
		}
		body = byHashJSON{Hash: i.Hash, EntryPoint: i.EntryPoint, Args: nonNil(i.Args)}
	case *StoredContractByName:
		if i == nil {
			break
		}
		body = byNameJSON{Name: i.Name, EntryPoint: i.EntryPoint, Args: nonNil(i.Args)}
	case *StoredVersionedContractByHash:
		if i == nil {
			break
		}
		body = versionedByHashJSON{Hash: i.Hash, Version: i.Version, EntryPoint: i.EntryPoint, Args: nonNil(i.Args)}
	case *StoredVersionedContractByName:
		if i == nil {
			break
		}
		body = versionedByNameJSON{Name: i.Name, Version: i.Version, EntryPoint: i.EntryPoint, Args: nonNil(i.Args)}
	case *Transfer:
		if i == nil {
			break
		}
		body = transferJSON{Args: nonNil(i.Args)}
	}
	if body == nil {
		return nil, errors.Wrap(sdkerr.ErrUnsupportedDeployItem, "item null")
	}
	return json.Marshal(map[string]interface{}{item.Kind().String(): body})
}

// UnmarshalItem parses the single key object form. Unknown or empty objects
// fail with ErrUnsupportedDeployItem carrying the offending JSON.
func UnmarshalItem(data []byte) (ExecutableDeployItem, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || len(obj) != 1 {
		return nil, errors.Wrapf(sdkerr.ErrUnsupportedDeployItem, "item %s", data)
	}
	for name, body := range obj {
		switch name {
		case KindModuleBytes.String():
			var j moduleBytesJSON
			if err := json.Unmarshal(body, &j); err != nil {
				return nil, err
			}
			module, err := hex.DecodeString(j.ModuleBytes)
			if err != nil {
				return nil, errors.Wrapf(sdkerr.ErrFormat, "module bytes: %v", err)
			}
			return &ModuleBytes{Module: module, Args: j.Args}, nil
		case KindStoredContractByHash.String():
			var j byHashJSON
			if err := json.Unmarshal(body, &j); err != nil {
				return nil, err
			}
			return &StoredContractByHash{Hash: j.Hash, EntryPoint: j.EntryPoint, Args: j.Args}, nil
		case KindStoredContractByName.String():
			var j byNameJSON
			if err := json.Unmarshal(body, &j); err != nil {
				return nil, err
			}
			return &StoredContractByName{Name: j.Name, EntryPoint: j.EntryPoint, Args: j.Args}, nil
		case KindStoredVersionedContractByHash.String():
			var j versionedByHashJSON
			if err := json.Unmarshal(body, &j); err != nil {
				return nil, err
			}
			return &StoredVersionedContractByHash{Hash: j.Hash, Version: j.Version, EntryPoint: j.EntryPoint, Args: j.Args}, nil
		case KindStoredVersionedContractByName.String():
			var j versionedByNameJSON
			if err := json.Unmarshal(body, &j); err != nil {
				return nil, err
			}
			return &StoredVersionedContractByName{Name: j.Name, Version: j.Version, EntryPoint: j.EntryPoint, Args: j.Args}, nil
		case KindTransfer.String():
			var j transferJSON
			if err := json.Unmarshal(body, &j); err != nil {
				return nil, err
			}
			return &Transfer{Args: j.Args}, nil
		}
	}
	return nil, errors.Wrapf(sdkerr.ErrUnsupportedDeployItem, "item %s", data)
}
