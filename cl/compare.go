package cl

import (
	"bytes"
	"math/big"
	"strings"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/crypto"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/globalstate"
)

// Compare orders values by type tag first and then by value. It returns -1,
// 0 or 1. Values of the same tag but different inner types fall back to
// comparing their type bytes.
func Compare(a, b CLValue) int {
	if a.clType.Tag != b.clType.Tag {
		return sign(int(a.clType.Tag) - int(b.clType.Tag))
	}
	if !a.clType.Equal(b.clType) {
		return bytes.Compare(TypeBytes(a.clType, nil), TypeBytes(b.clType, nil))
	}
	c, err := compareParsed(a.clType, a.parsed, b.parsed)
	if err != nil {
		return bytes.Compare(a.bytes, b.bytes)
	}
	return c
}

// Less reports whether a sorts before b.
func Less(a, b CLValue) bool { return Compare(a, b) < 0 }

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func compareParsed(t Type, a, b interface{}) (int, error) {
	switch t.Tag {
	case TagBool:
		x, okA := a.(bool)
		y, okB := b.(bool)
		if !okA || !okB {
			return 0, wrongValue(t, a)
		}
		if x == y {
			return 0, nil
		}
		if !x {
			return -1, nil
		}
		return 1, nil
	case TagI32:
		x, okA := a.(int32)
		y, okB := b.(int32)
		if !okA || !okB {
			return 0, wrongValue(t, a)
		}
		return cmpInt64(int64(x), int64(y)), nil
	case TagI64:
		x, okA := a.(int64)
		y, okB := b.(int64)
		if !okA || !okB {
			return 0, wrongValue(t, a)
		}
		return cmpInt64(x, y), nil
	case TagU8:
		x, okA := a.(uint8)
		y, okB := b.(uint8)
		if !okA || !okB {
			return 0, wrongValue(t, a)
		}
		return cmpUint64(uint64(x), uint64(y)), nil
	case TagU32:
		x, okA := a.(uint32)
		y, okB := b.(uint32)
		if !okA || !okB {
			return 0, wrongValue(t, a)
		}
		return cmpUint64(uint64(x), uint64(y)), nil
	case TagU64:
		x, okA := a.(uint64)
		y, okB := b.(uint64)
		if !okA || !okB {
			return 0, wrongValue(t, a)
		}
		return cmpUint64(x, y), nil
	case TagU128, TagU256, TagU512:
		x, okA := a.(*big.Int)
		y, okB := b.(*big.Int)
		if !okA || !okB {
			return 0, wrongValue(t, a)
		}
		return x.Cmp(y), nil
	case TagUnit:
		return 0, nil
	case TagString:
		x, okA := a.(string)
		y, okB := b.(string)
		if !okA || !okB {
			return 0, wrongValue(t, a)
		}
		return strings.Compare(x, y), nil
	case TagKey:
		x, okA := a.(globalstate.Key)
		y, okB := b.(globalstate.Key)
		if !okA || !okB {
			return 0, wrongValue(t, a)
		}
		return bytes.Compare(x.Bytes(), y.Bytes()), nil
	case TagURef:
		x, okA := a.(globalstate.URef)
		y, okB := b.(globalstate.URef)
		if !okA || !okB {
			return 0, wrongValue(t, a)
		}
		return bytes.Compare(x.Bytes(), y.Bytes()), nil
	case TagPublicKey:
		x, okA := a.(crypto.PublicKey)
		y, okB := b.(crypto.PublicKey)
		if !okA || !okB {
			return 0, wrongValue(t, a)
		}
		return bytes.Compare(x.Bytes(), y.Bytes()), nil
	case TagByteArray, TagAny:
		x, okA := a.([]byte)
		y, okB := b.([]byte)
		if !okA || !okB {
			return 0, wrongValue(t, a)
		}
		return bytes.Compare(x, y), nil
	case TagOption:
		x, okA := a.(Option)
		y, okB := b.(Option)
		if !okA || !okB {
			return 0, wrongValue(t, a)
		}
		switch {
		case !x.IsSome && !y.IsSome:
			return 0, nil
		case !x.IsSome:
			return -1, nil
		case !y.IsSome:
			return 1, nil
		}
		return compareParsed(t.Elem(), x.Value, y.Value)
	case TagResult:
		x, okA := a.(Result)
		y, okB := b.(Result)
		if !okA || !okB {
			return 0, wrongValue(t, a)
		}
		if x.IsOk != y.IsOk {
			if x.IsOk {
				return -1, nil
			}
			return 1, nil
		}
		if x.IsOk {
			return compareParsed(t.Ok(), x.Value, y.Value)
		}
		return compareParsed(t.Err(), x.Value, y.Value)
	case TagList:
		x, okA := a.([]interface{})
		y, okB := b.([]interface{})
		if !okA || !okB {
			return 0, wrongValue(t, a)
		}
		for i := 0; i < len(x) && i < len(y); i++ {
			if c, err := compareParsed(t.Elem(), x[i], y[i]); err != nil || c != 0 {
				return c, err
			}
		}
		return sign(len(x) - len(y)), nil
	case TagTuple1, TagTuple2, TagTuple3:
		x, okA := a.([]interface{})
		y, okB := b.([]interface{})
		if !okA || !okB || len(x) != len(t.Inner) || len(y) != len(t.Inner) {
			return 0, wrongValue(t, a)
		}
		for i, inner := range t.Inner {
			if c, err := compareParsed(inner, x[i], y[i]); err != nil || c != 0 {
				return c, err
			}
		}
		return 0, nil
	case TagMap:
		x, okA := a.([]MapEntry)
		y, okB := b.([]MapEntry)
		if !okA || !okB {
			return 0, wrongValue(t, a)
		}
		for i := 0; i < len(x) && i < len(y); i++ {
			if c, err := compareParsed(t.Key(), x[i].Key, y[i].Key); err != nil || c != 0 {
				return c, err
			}
			if c, err := compareParsed(t.Value(), x[i].Value, y[i].Value); err != nil || c != 0 {
				return c, err
			}
		}
		return sign(len(x) - len(y)), nil
	}
	return 0, wrongValue(t, a)
}

func cmpInt64(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func cmpUint64(x, y uint64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
