// Package globalstate models the keys that address Casper's global state.
package globalstate

import (
	"encoding/binary"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/cep57"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/crypto"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

const HashSize = 32

// KeyIdentifier is the binary tag of a key kind.
type KeyIdentifier byte

const (
	Account KeyIdentifier = iota
	Hash
	URefKind
	Transfer
	DeployInfo
	EraInfo
	Balance
	Bid
	Withdraw
	Dictionary
)

var prefixes = map[KeyIdentifier]string{
	Account:    "account-hash-",
	Hash:       "hash-",
	URefKind:   urefPrefix,
	Transfer:   "transfer-",
	DeployInfo: "deploy-",
	EraInfo:    "era-",
	Balance:    "balance-",
	Bid:        "bid-",
	Withdraw:   "withdraw-",
	Dictionary: "dictionary-",
}

var names = map[KeyIdentifier]string{
	Account:    "Account",
	Hash:       "Hash",
	URefKind:   "URef",
	Transfer:   "Transfer",
	DeployInfo: "DeployInfo",
	EraInfo:    "EraInfo",
	Balance:    "Balance",
	Bid:        "Bid",
	Withdraw:   "Withdraw",
	Dictionary: "Dictionary",
}

// Legacy contract prefixes, longest first, all addressing a Hash key.
var legacyHashPrefixes = []string{
	"contract-package-wasm",
	"contract-wasm-",
	"contract-",
}

// Dispatch order for FromString. More specific prefixes come first.
var dispatchOrder = []KeyIdentifier{
	Account, Hash, URefKind, Transfer, DeployInfo, EraInfo, Balance, Bid, Withdraw, Dictionary,
}

func (k KeyIdentifier) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return "Unknown(" + strconv.Itoa(int(k)) + ")"
}

func (k KeyIdentifier) Prefix() string { return prefixes[k] }

// Key is one global state key. Hash holds the 32 byte address for every
// hash addressed kind, Era the era id for EraInfo and URef the reference for
// URef keys.
type Key struct {
	Kind KeyIdentifier
	Hash [HashSize]byte
	Era  uint64
	URef URef
}

func NewHashKey(kind KeyIdentifier, hash []byte) (Key, error) {
	if kind == URefKind || kind == EraInfo || kind > Dictionary {
		return Key{}, errors.Wrapf(sdkerr.ErrInvalidArgument, "%s is not a hash addressed key", kind)
	}
	if len(hash) != HashSize {
		return Key{}, errors.Wrapf(sdkerr.ErrFormat, "%s key must be %d bytes, got %d", kind, HashSize, len(hash))
	}
	k := Key{Kind: kind}
	copy(k.Hash[:], hash)
	return k, nil
}

func NewURefKey(u URef) Key { return Key{Kind: URefKind, URef: u} }

func NewEraInfoKey(era uint64) Key { return Key{Kind: EraInfo, Era: era} }

// NewAccountHashKey derives the Account key owned by pk.
func NewAccountHashKey(pk crypto.PublicKey) Key {
	return Key{Kind: Account, Hash: pk.AccountHash()}
}

// FromString parses the formatted string form of any key kind.
func FromString(s string) (Key, error) {
	for _, legacy := range legacyHashPrefixes {
		if strings.HasPrefix(s, legacy) {
			return parseHashKey(Hash, strings.TrimPrefix(s, legacy))
		}
	}
	for _, kind := range dispatchOrder {
		prefix := prefixes[kind]
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		switch kind {
		case URefKind:
			u, err := ParseURef(s)
			if err != nil {
				return Key{}, err
			}
			return NewURefKey(u), nil
		case EraInfo:
			digits := strings.TrimPrefix(s, prefix)
			if len(digits) > 1 && digits[0] == '0' {
				return Key{}, errors.Wrapf(sdkerr.ErrFormat, "era id in %q has leading zeros", s)
			}
			era, err := strconv.ParseUint(digits, 10, 64)
			if err != nil {
				return Key{}, errors.Wrapf(sdkerr.ErrFormat, "era id in %q: %v", s, err)
			}
			return NewEraInfoKey(era), nil
		default:
			return parseHashKey(kind, strings.TrimPrefix(s, prefix))
		}
	}
	return Key{}, errors.Wrapf(sdkerr.ErrInvalidArgument, "unrecognized key prefix in %q", s)
}

func parseHashKey(kind KeyIdentifier, hexValue string) (Key, error) {
	raw, err := cep57.Decode(hexValue)
	if err != nil {
		return Key{}, errors.Wrapf(err, "%s key", kind)
	}
	return NewHashKey(kind, raw)
}

func (k Key) String() string {
	switch k.Kind {
	case URefKind:
		return k.URef.String()
	case EraInfo:
		return prefixes[EraInfo] + strconv.FormatUint(k.Era, 10)
	}
	return prefixes[k.Kind] + cep57.Encode(k.Hash[:])
}

// Raw returns the identifying bytes of the key without its tag.
func (k Key) Raw() []byte {
	switch k.Kind {
	case URefKind:
		return append([]byte(nil), k.URef.Addr[:]...)
	case EraInfo:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], k.Era)
		return b[:]
	}
	return append([]byte(nil), k.Hash[:]...)
}

// Bytes is the tag byte, the raw bytes and, for URefs, the access rights.
func (k Key) Bytes() []byte {
	b := append([]byte{byte(k.Kind)}, k.Raw()...)
	if k.Kind == URefKind {
		b = append(b, byte(k.URef.Rights))
	}
	return b
}

// FromBytes reads one tagged key from the front of b.
func FromBytes(b []byte) (Key, int, error) {
	if len(b) == 0 {
		return Key{}, 0, errors.Wrap(sdkerr.ErrFormat, "empty key")
	}
	kind := KeyIdentifier(b[0])
	switch kind {
	case URefKind:
		u, n, err := URefFromBytes(b[1:])
		if err != nil {
			return Key{}, 0, err
		}
		return NewURefKey(u), 1 + n, nil
	case EraInfo:
		if len(b) < 9 {
			return Key{}, 0, errors.Wrapf(sdkerr.ErrFormat, "era key needs 8 bytes, have %d", len(b)-1)
		}
		return NewEraInfoKey(binary.LittleEndian.Uint64(b[1:9])), 9, nil
	}
	if kind > Dictionary {
		return Key{}, 0, errors.Wrapf(sdkerr.ErrInvalidArgument, "unknown key tag %d", b[0])
	}
	if len(b) < 1+HashSize {
		return Key{}, 0, errors.Wrapf(sdkerr.ErrFormat, "%s key needs %d bytes, have %d", kind, HashSize, len(b)-1)
	}
	k, err := NewHashKey(kind, b[1:1+HashSize])
	return k, 1 + HashSize, err
}

func (k Key) Equal(other Key) bool {
	return k.Kind == other.Kind && k.Hash == other.Hash && k.Era == other.Era && k.URef == other.URef
}

func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts the formatted string and the {"Kind": "string"}
// object form some node responses use.
func (k *Key) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var tagged map[string]string
		if json.Unmarshal(data, &tagged) != nil || len(tagged) != 1 {
			return errors.Wrapf(sdkerr.ErrFormat, "key json %s", data)
		}
		for _, v := range tagged {
			s = v
		}
	}
	parsed, err := FromString(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
