package cl

import (
	"math/big"
	"sort"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/bigint"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/crypto"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/globalstate"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/serialization"
)

var bigWidths = map[Tag]bigint.Width{
	TagU128: bigint.U128,
	TagU256: bigint.U256,
	TagU512: bigint.U512,
}

func wrongValue(t Type, parsed interface{}) error {
	return errors.Wrapf(sdkerr.ErrInvalidArgument, "%s cannot hold a %T", t, parsed)
}

// EncodePayload writes the canonical payload of parsed under t. A top level
// None is the empty payload; nested options carry a 00/01 discriminant.
func EncodePayload(t Type, parsed interface{}) ([]byte, error) {
	w := serialization.NewWriter()
	if err := encode(w, t, parsed, true); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func encode(w *serialization.Writer, t Type, parsed interface{}, top bool) error {
	switch t.Tag {
	case TagBool:
		v, ok := parsed.(bool)
		if !ok {
			return wrongValue(t, parsed)
		}
		w.WriteBool(v)
	case TagI32:
		v, ok := parsed.(int32)
		if !ok {
			return wrongValue(t, parsed)
		}
		w.WriteInteger(v)
	case TagI64:
		v, ok := parsed.(int64)
		if !ok {
			return wrongValue(t, parsed)
		}
		w.WriteLong(v)
	case TagU8:
		v, ok := parsed.(uint8)
		if !ok {
			return wrongValue(t, parsed)
		}
		return w.WriteByte(v)
	case TagU32:
		v, ok := parsed.(uint32)
		if !ok {
			return wrongValue(t, parsed)
		}
		w.WriteUInteger(v)
	case TagU64:
		v, ok := parsed.(uint64)
		if !ok {
			return wrongValue(t, parsed)
		}
		w.WriteULong(v)
	case TagU128, TagU256, TagU512:
		v, ok := parsed.(*big.Int)
		if !ok || v == nil {
			return wrongValue(t, parsed)
		}
		return w.WriteBigInt(v, bigWidths[t.Tag])
	case TagUnit:
		if _, ok := parsed.(Unit); !ok && parsed != nil {
			return wrongValue(t, parsed)
		}
	case TagString:
		v, ok := parsed.(string)
		if !ok {
			return wrongValue(t, parsed)
		}
		if !utf8.ValidString(v) {
			return errors.Wrapf(sdkerr.ErrInvalidArgument, "String %q is not valid utf-8", v)
		}
		w.WriteString(v)
	case TagKey:
		v, ok := parsed.(globalstate.Key)
		if !ok {
			return wrongValue(t, parsed)
		}
		w.WriteBytes(v.Bytes())
	case TagURef:
		v, ok := parsed.(globalstate.URef)
		if !ok {
			return wrongValue(t, parsed)
		}
		w.WriteBytes(v.Bytes())
	case TagPublicKey:
		v, ok := parsed.(crypto.PublicKey)
		if !ok || v.IsZero() {
			return wrongValue(t, parsed)
		}
		w.WriteBytes(v.Bytes())
	case TagOption:
		v, ok := parsed.(Option)
		if !ok {
			return wrongValue(t, parsed)
		}
		if !v.IsSome {
			if !top {
				w.WriteBool(false)
			}
			return nil
		}
		w.WriteBool(true)
		return encode(w, t.Elem(), v.Value, false)
	case TagList:
		items, ok := parsed.([]interface{})
		if !ok {
			return wrongValue(t, parsed)
		}
		w.WriteUInteger(uint32(len(items)))
		for _, item := range items {
			if err := encode(w, t.Elem(), item, false); err != nil {
				return err
			}
		}
	case TagByteArray:
		v, ok := parsed.([]byte)
		if !ok {
			return wrongValue(t, parsed)
		}
		if uint32(len(v)) != t.Size {
			return errors.Wrapf(sdkerr.ErrInvalidArgument, "%s holds %d bytes", t, len(v))
		}
		w.WriteBytes(v)
	case TagResult:
		v, ok := parsed.(Result)
		if !ok {
			return wrongValue(t, parsed)
		}
		w.WriteBool(v.IsOk)
		if v.IsOk {
			return encode(w, t.Ok(), v.Value, false)
		}
		return encode(w, t.Err(), v.Value, false)
	case TagMap:
		entries, ok := parsed.([]MapEntry)
		if !ok {
			return wrongValue(t, parsed)
		}
		w.WriteUInteger(uint32(len(entries)))
		for _, e := range entries {
			if err := encode(w, t.Key(), e.Key, false); err != nil {
				return err
			}
			if err := encode(w, t.Value(), e.Value, false); err != nil {
				return err
			}
		}
	case TagTuple1, TagTuple2, TagTuple3:
		items, ok := parsed.([]interface{})
		if !ok || len(items) != len(t.Inner) {
			return wrongValue(t, parsed)
		}
		for i, item := range items {
			if err := encode(w, t.Inner[i], item, false); err != nil {
				return err
			}
		}
	case TagAny:
		if !top {
			return errors.Wrap(sdkerr.ErrUnsupportedType, "Any cannot be nested")
		}
		v, ok := parsed.([]byte)
		if !ok {
			return wrongValue(t, parsed)
		}
		w.WriteBytes(v)
	default:
		return errors.Wrapf(sdkerr.ErrUnsupportedType, "type tag %d", byte(t.Tag))
	}
	return nil
}

// canonical copies parsed and sorts every map it contains by key.
func canonical(t Type, parsed interface{}) (interface{}, error) {
	switch t.Tag {
	case TagU128, TagU256, TagU512:
		if v, ok := parsed.(*big.Int); ok && v != nil {
			return new(big.Int).Set(v), nil
		}
	case TagUnit:
		return Unit{}, nil
	case TagByteArray, TagAny:
		if v, ok := parsed.([]byte); ok {
			return append([]byte(nil), v...), nil
		}
	case TagOption:
		if v, ok := parsed.(Option); ok && v.IsSome {
			inner, err := canonical(t.Elem(), v.Value)
			return Option{IsSome: true, Value: inner}, err
		}
	case TagResult:
		if v, ok := parsed.(Result); ok {
			branch := t.Err()
			if v.IsOk {
				branch = t.Ok()
			}
			inner, err := canonical(branch, v.Value)
			return Result{IsOk: v.IsOk, Value: inner}, err
		}
	case TagList:
		if items, ok := parsed.([]interface{}); ok {
			out := make([]interface{}, len(items))
			for i, item := range items {
				c, err := canonical(t.Elem(), item)
				if err != nil {
					return nil, err
				}
				out[i] = c
			}
			return out, nil
		}
	case TagTuple1, TagTuple2, TagTuple3:
		if items, ok := parsed.([]interface{}); ok && len(items) == len(t.Inner) {
			out := make([]interface{}, len(items))
			for i, item := range items {
				c, err := canonical(t.Inner[i], item)
				if err != nil {
					return nil, err
				}
				out[i] = c
			}
			return out, nil
		}
	case TagMap:
		if entries, ok := parsed.([]MapEntry); ok {
			return sortedEntries(t, entries)
		}
	}
	return parsed, nil
}

func sortedEntries(t Type, entries []MapEntry) ([]MapEntry, error) {
	out := make([]MapEntry, len(entries))
	for i, e := range entries {
		k, err := canonical(t.Key(), e.Key)
		if err != nil {
			return nil, err
		}
		v, err := canonical(t.Value(), e.Value)
		if err != nil {
			return nil, err
		}
		out[i] = MapEntry{Key: k, Value: v}
	}
	var cmpErr error
	sort.SliceStable(out, func(i, j int) bool {
		c, err := compareParsed(t.Key(), out[i].Key, out[j].Key)
		if err != nil && cmpErr == nil {
			cmpErr = err
		}
		return c < 0
	})
	if cmpErr != nil {
		return nil, cmpErr
	}
	for i := 1; i < len(out); i++ {
		if c, _ := compareParsed(t.Key(), out[i-1].Key, out[i].Key); c == 0 {
			return nil, errors.Wrapf(sdkerr.ErrInvalidArgument, "duplicate key in %s", t)
		}
	}
	return out, nil
}
