// Package cl implements the CLType type system and CLValues: typed values
// with a canonical binary payload and a JSON projection matching the node's
// RPC schema.
package cl

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

// Tag is the numeric CLType tag written in the type byte stream.
type Tag byte

const (
	TagBool Tag = iota
	TagI32
	TagI64
	TagU8
	TagU32
	TagU64
	TagU128
	TagU256
	TagU512
	TagUnit
	TagString
	TagKey
	TagURef
	TagOption
	TagList
	TagByteArray
	TagResult
	TagMap
	TagTuple1
	TagTuple2
	TagTuple3
	TagAny
	TagPublicKey
)

var tagNames = [...]string{
	TagBool:      "Bool",
	TagI32:       "I32",
	TagI64:       "I64",
	TagU8:        "U8",
	TagU32:       "U32",
	TagU64:       "U64",
	TagU128:      "U128",
	TagU256:      "U256",
	TagU512:      "U512",
	TagUnit:      "Unit",
	TagString:    "String",
	TagKey:       "Key",
	TagURef:      "URef",
	TagOption:    "Option",
	TagList:      "List",
	TagByteArray: "ByteArray",
	TagResult:    "Result",
	TagMap:       "Map",
	TagTuple1:    "Tuple1",
	TagTuple2:    "Tuple2",
	TagTuple3:    "Tuple3",
	TagAny:       "Any",
	TagPublicKey: "PublicKey",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", byte(t))
}

func (t Tag) primitive() bool {
	switch t {
	case TagOption, TagList, TagByteArray, TagResult, TagMap, TagTuple1, TagTuple2, TagTuple3:
		return false
	}
	return int(t) < len(tagNames)
}

// Type is a fully resolved CLType. Inner holds the element type of Option and
// List, the Ok and Err types of Result, the key and value types of Map and
// the element types of tuples. Size is the length of a ByteArray.
type Type struct {
	Tag   Tag
	Inner []Type
	Size  uint32
}

var (
	BoolType      = Type{Tag: TagBool}
	I32Type       = Type{Tag: TagI32}
	I64Type       = Type{Tag: TagI64}
	U8Type        = Type{Tag: TagU8}
	U32Type       = Type{Tag: TagU32}
	U64Type       = Type{Tag: TagU64}
	U128Type      = Type{Tag: TagU128}
	U256Type      = Type{Tag: TagU256}
	U512Type      = Type{Tag: TagU512}
	UnitType      = Type{Tag: TagUnit}
	StringType    = Type{Tag: TagString}
	KeyType       = Type{Tag: TagKey}
	URefType      = Type{Tag: TagURef}
	AnyType       = Type{Tag: TagAny}
	PublicKeyType = Type{Tag: TagPublicKey}
)

func OptionOf(t Type) Type       { return Type{Tag: TagOption, Inner: []Type{t}} }
func ListOf(t Type) Type         { return Type{Tag: TagList, Inner: []Type{t}} }
func ByteArrayOf(n uint32) Type  { return Type{Tag: TagByteArray, Size: n} }
func ResultOf(ok, err Type) Type { return Type{Tag: TagResult, Inner: []Type{ok, err}} }
func MapOf(key, value Type) Type { return Type{Tag: TagMap, Inner: []Type{key, value}} }
func Tuple1Of(a Type) Type       { return Type{Tag: TagTuple1, Inner: []Type{a}} }
func Tuple2Of(a, b Type) Type    { return Type{Tag: TagTuple2, Inner: []Type{a, b}} }
func Tuple3Of(a, b, c Type) Type { return Type{Tag: TagTuple3, Inner: []Type{a, b, c}} }

func arity(tag Tag) int {
	switch tag {
	case TagOption, TagList, TagTuple1:
		return 1
	case TagResult, TagMap, TagTuple2:
		return 2
	case TagTuple3:
		return 3
	}
	return 0
}

// Validate checks that every composite carries its resolved inner types.
func (t Type) Validate() error {
	if int(t.Tag) >= len(tagNames) {
		return errors.Wrapf(sdkerr.ErrUnsupportedType, "type tag %d", byte(t.Tag))
	}
	if len(t.Inner) != arity(t.Tag) {
		return errors.Wrapf(sdkerr.ErrUnsupportedType, "%s needs %d inner types, has %d", t.Tag, arity(t.Tag), len(t.Inner))
	}
	for _, inner := range t.Inner {
		if err := inner.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (t Type) Elem() Type  { return t.Inner[0] }
func (t Type) Ok() Type    { return t.Inner[0] }
func (t Type) Err() Type   { return t.Inner[1] }
func (t Type) Key() Type   { return t.Inner[0] }
func (t Type) Value() Type { return t.Inner[1] }

func (t Type) Equal(other Type) bool {
	if t.Tag != other.Tag || t.Size != other.Size || len(t.Inner) != len(other.Inner) {
		return false
	}
	for i := range t.Inner {
		if !t.Inner[i].Equal(other.Inner[i]) {
			return false
		}
	}
	return true
}

func (t Type) String() string {
	switch t.Tag {
	case TagByteArray:
		return fmt.Sprintf("ByteArray(%d)", t.Size)
	case TagOption, TagList, TagResult, TagMap, TagTuple1, TagTuple2, TagTuple3:
		inner := make([]string, len(t.Inner))
		for i, it := range t.Inner {
			inner[i] = it.String()
		}
		return t.Tag.String() + "(" + strings.Join(inner, ", ") + ")"
	}
	return t.Tag.String()
}

// TypeBytes is the binary type descriptor written after a value's payload.
// Option omits its inner type when parsed is None. Result and the tuples
// write only their own tag.
func TypeBytes(t Type, parsed interface{}) []byte {
	b := []byte{byte(t.Tag)}
	switch t.Tag {
	case TagOption:
		var inner interface{}
		if o, ok := parsed.(Option); ok {
			if !o.IsSome {
				return b
			}
			inner = o.Value
		}
		return append(b, TypeBytes(t.Elem(), inner)...)
	case TagList:
		return append(b, TypeBytes(t.Elem(), nil)...)
	case TagByteArray:
		var size [4]byte
		binary.LittleEndian.PutUint32(size[:], t.Size)
		return append(b, size[:]...)
	case TagMap:
		b = append(b, TypeBytes(t.Key(), nil)...)
		return append(b, TypeBytes(t.Value(), nil)...)
	}
	return b
}

type resultTypeJSON struct {
	Ok  Type `json:"Ok"`
	Err Type `json:"Err"`
}

type mapTypeJSON struct {
	Key   Type `json:"key"`
	Value Type `json:"value"`
}

func (t Type) MarshalJSON() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	var body interface{}
	switch t.Tag {
	case TagOption, TagList:
		body = t.Elem()
	case TagByteArray:
		body = t.Size
	case TagResult:
		body = resultTypeJSON{Ok: t.Ok(), Err: t.Err()}
	case TagMap:
		body = mapTypeJSON{Key: t.Key(), Value: t.Value()}
	case TagTuple1, TagTuple2, TagTuple3:
		body = t.Inner
	default:
		return json.Marshal(t.Tag.String())
	}
	return json.Marshal(map[string]interface{}{t.Tag.String(): body})
}

func (t *Type) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		tag, ok := tagByName(name)
		if !ok || !tag.primitive() {
			return errors.Wrapf(sdkerr.ErrUnsupportedType, "cl type %q", name)
		}
		*t = Type{Tag: tag}
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || len(obj) != 1 {
		return errors.Wrapf(sdkerr.ErrUnsupportedType, "cl type %s", data)
	}
	for name, body := range obj {
		parsed, err := compositeFromJSON(name, body)
		if err != nil {
			return err
		}
		*t = parsed
	}
	return nil
}

func compositeFromJSON(name string, body json.RawMessage) (Type, error) {
	tag, ok := tagByName(name)
	if !ok || tag.primitive() {
		return Type{}, errors.Wrapf(sdkerr.ErrUnsupportedType, "cl type %q", name)
	}
	switch tag {
	case TagOption, TagList:
		var inner Type
		if err := json.Unmarshal(body, &inner); err != nil {
			return Type{}, err
		}
		return Type{Tag: tag, Inner: []Type{inner}}, nil
	case TagByteArray:
		var size uint32
		if err := json.Unmarshal(body, &size); err != nil {
			return Type{}, errors.Wrapf(sdkerr.ErrFormat, "ByteArray size %s", body)
		}
		return ByteArrayOf(size), nil
	case TagResult:
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return Type{}, errors.Wrapf(sdkerr.ErrUnsupportedType, "Result type %s", body)
		}
		okType, err := typeField(fields, "Ok", "ok")
		if err != nil {
			return Type{}, err
		}
		errType, err := typeField(fields, "Err", "err")
		if err != nil {
			return Type{}, err
		}
		return ResultOf(okType, errType), nil
	case TagMap:
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return Type{}, errors.Wrapf(sdkerr.ErrUnsupportedType, "Map type %s", body)
		}
		keyType, err := typeField(fields, "key")
		if err != nil {
			return Type{}, err
		}
		valueType, err := typeField(fields, "value")
		if err != nil {
			return Type{}, err
		}
		return MapOf(keyType, valueType), nil
	}
	var inner []Type
	if err := json.Unmarshal(body, &inner); err != nil {
		return Type{}, err
	}
	t := Type{Tag: tag, Inner: inner}
	return t, t.Validate()
}

func typeField(fields map[string]json.RawMessage, names ...string) (Type, error) {
	for _, name := range names {
		if raw, ok := fields[name]; ok {
			var t Type
			err := json.Unmarshal(raw, &t)
			return t, err
		}
	}
	return Type{}, errors.Wrapf(sdkerr.ErrUnsupportedType, "composite type missing %q", names[0])
}

func tagByName(name string) (Tag, bool) {
	for i, n := range tagNames {
		if n == name {
			return Tag(i), true
		}
	}
	return 0, false
}
