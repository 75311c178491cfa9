package cl

import (
	"bytes"
	"math/big"

	"github.com/pkg/errors"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/bigint"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/crypto"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/globalstate"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/serialization"
)

// Unit is the parsed value of the Unit type.
type Unit struct{}

// Option is the parsed value of Option(T).
type Option struct {
	IsSome bool
	Value  interface{}
}

// Result is the parsed value of Result(Ok, Err).
type Result struct {
	IsOk  bool
	Value interface{}
}

// MapEntry is one pair of a parsed Map. Maps are kept sorted by key.
type MapEntry struct {
	Key   interface{}
	Value interface{}
}

// CLValue is a parsed value together with its type and canonical payload.
// Values are immutable once built, which keeps the three views consistent.
type CLValue struct {
	clType Type
	bytes  []byte
	parsed interface{}
}

// New builds a CLValue from a parsed native value. Map entries are put into
// canonical key order.
func New(t Type, parsed interface{}) (CLValue, error) {
	if err := t.Validate(); err != nil {
		return CLValue{}, err
	}
	parsed, err := canonical(t, parsed)
	if err != nil {
		return CLValue{}, err
	}
	payload, err := EncodePayload(t, parsed)
	if err != nil {
		return CLValue{}, err
	}
	return CLValue{clType: t, bytes: payload, parsed: parsed}, nil
}

// FromPayload decodes a payload under t. The stored bytes are the canonical
// re-encoding, so a top level None given as 00 is kept as the empty payload.
func FromPayload(t Type, payload []byte) (CLValue, error) {
	if err := t.Validate(); err != nil {
		return CLValue{}, err
	}
	parsed, err := DecodePayload(t, payload)
	if err != nil {
		return CLValue{}, err
	}
	canon, err := EncodePayload(t, parsed)
	if err != nil {
		return CLValue{}, err
	}
	return CLValue{clType: t, bytes: canon, parsed: parsed}, nil
}

func mustNew(t Type, parsed interface{}) CLValue {
	v, err := New(t, parsed)
	if err != nil {
		panic(err)
	}
	return v
}

func (v CLValue) Type() Type { return v.clType }

// Bytes returns the canonical payload without length prefix or type tags.
func (v CLValue) Bytes() []byte { return append([]byte(nil), v.bytes...) }

func (v CLValue) Parsed() interface{} { return v.parsed }

// ToBytes is the full binary form: u32 payload length, payload, type bytes.
func (v CLValue) ToBytes() []byte {
	w := serialization.NewWriter()
	w.WriteLengthPrefixed(v.bytes)
	w.WriteBytes(TypeBytes(v.clType, v.parsed))
	return w.Bytes()
}

// FromBytes reads one full binary CLValue of type t from the front of b and
// returns the number of bytes consumed. The trailing type bytes must match t.
func FromBytes(b []byte, t Type) (CLValue, int, error) {
	r := serialization.NewReader(b)
	payload, err := r.ReadLengthPrefixed()
	if err != nil {
		return CLValue{}, 0, err
	}
	v, err := FromPayload(t, payload)
	if err != nil {
		return CLValue{}, 0, err
	}
	want := TypeBytes(t, v.parsed)
	got, err := r.ReadBytes(len(want))
	if err != nil {
		return CLValue{}, 0, err
	}
	if !bytes.Equal(want, got) {
		return CLValue{}, 0, errors.Wrapf(sdkerr.ErrUnsupportedType, "type bytes %x do not describe %s", got, t)
	}
	return v, len(b) - r.Remaining(), nil
}

// Equal reports whether a and b have the same type and payload.
func Equal(a, b CLValue) bool {
	return a.clType.Equal(b.clType) && bytes.Equal(a.bytes, b.bytes)
}

func (v CLValue) String() string {
	return v.clType.String() + "(" + toText(v.clType, v.parsed) + ")"
}

// ------------------------------------------------------------------------------------------------------------------- //
// Constructors

func Bool(b bool) CLValue                        { return mustNew(BoolType, b) }
func I32(n int32) CLValue                        { return mustNew(I32Type, n) }
func I64(n int64) CLValue                        { return mustNew(I64Type, n) }
func U8(n uint8) CLValue                         { return mustNew(U8Type, n) }
func U32(n uint32) CLValue                       { return mustNew(U32Type, n) }
func U64(n uint64) CLValue                       { return mustNew(U64Type, n) }
func UnitValue() CLValue                         { return mustNew(UnitType, Unit{}) }
func KeyValue(k globalstate.Key) CLValue         { return mustNew(KeyType, k) }
func URefValue(u globalstate.URef) CLValue       { return mustNew(URefType, u) }
func PublicKeyValue(pk crypto.PublicKey) CLValue { return mustNew(PublicKeyType, pk) }

// String fails with ErrInvalidArgument when s is not valid UTF-8.
func String(s string) (CLValue, error) { return New(StringType, s) }

func U128(n *big.Int) (CLValue, error) { return New(U128Type, n) }
func U256(n *big.Int) (CLValue, error) { return New(U256Type, n) }
func U512(n *big.Int) (CLValue, error) { return New(U512Type, n) }

// U512FromUint64 covers the common motes amount case.
func U512FromUint64(n uint64) CLValue {
	return mustNew(U512Type, new(big.Int).SetUint64(n))
}

func U512FromString(s string) (CLValue, error) {
	n, err := bigint.ParseDecimal(s, bigint.U512)
	if err != nil {
		return CLValue{}, err
	}
	return New(U512Type, n)
}

func ByteArray(b []byte) CLValue {
	return mustNew(ByteArrayOf(uint32(len(b))), append([]byte(nil), b...))
}

// Some wraps v in an Option. Values that cannot be nested, such as Any, are
// rejected.
func Some(v CLValue) (CLValue, error) {
	return New(OptionOf(v.clType), Option{IsSome: true, Value: v.parsed})
}

func None(inner Type) (CLValue, error) {
	return New(OptionOf(inner), Option{})
}

func Ok(v CLValue, errType Type) (CLValue, error) {
	return New(ResultOf(v.clType, errType), Result{IsOk: true, Value: v.parsed})
}

func Err(okType Type, v CLValue) (CLValue, error) {
	return New(ResultOf(okType, v.clType), Result{IsOk: false, Value: v.parsed})
}

// List builds a homogeneous list. Every item must be of type elem.
func List(elem Type, items ...CLValue) (CLValue, error) {
	parsed := make([]interface{}, len(items))
	for i, item := range items {
		if !item.clType.Equal(elem) {
			return CLValue{}, errors.Wrapf(sdkerr.ErrInvalidArgument, "list item %d is %s, want %s", i, item.clType, elem)
		}
		parsed[i] = item.parsed
	}
	return New(ListOf(elem), parsed)
}

// Map builds a map from key/value pairs given in any order.
func Map(keyType, valueType Type, keys, values []CLValue) (CLValue, error) {
	if len(keys) != len(values) {
		return CLValue{}, errors.Wrapf(sdkerr.ErrInvalidArgument, "%d keys for %d values", len(keys), len(values))
	}
	entries := make([]MapEntry, len(keys))
	for i := range keys {
		if !keys[i].clType.Equal(keyType) || !values[i].clType.Equal(valueType) {
			return CLValue{}, errors.Wrapf(sdkerr.ErrInvalidArgument, "map entry %d is (%s, %s), want (%s, %s)",
				i, keys[i].clType, values[i].clType, keyType, valueType)
		}
		entries[i] = MapEntry{Key: keys[i].parsed, Value: values[i].parsed}
	}
	return New(MapOf(keyType, valueType), entries)
}

func Tuple1(a CLValue) (CLValue, error) {
	return New(Tuple1Of(a.clType), []interface{}{a.parsed})
}

func Tuple2(a, b CLValue) (CLValue, error) {
	return New(Tuple2Of(a.clType, b.clType), []interface{}{a.parsed, b.parsed})
}

func Tuple3(a, b, c CLValue) (CLValue, error) {
	return New(Tuple3Of(a.clType, b.clType, c.clType), []interface{}{a.parsed, b.parsed, c.parsed})
}

// Any wraps opaque bytes the type system does not describe.
func Any(raw []byte) CLValue {
	return mustNew(AnyType, append([]byte(nil), raw...))
}
