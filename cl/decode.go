package cl

import (
	"github.com/pkg/errors"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/crypto"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/globalstate"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/serialization"
)

// DecodePayload parses a canonical payload under t. The whole payload must
// be consumed.
func DecodePayload(t Type, payload []byte) (interface{}, error) {
	r := serialization.NewReader(payload)
	parsed, err := decode(r, t, true)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", t)
	}
	if err := r.ExpectDone(); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", t)
	}
	return parsed, nil
}

func decode(r *serialization.Reader, t Type, top bool) (interface{}, error) {
	switch t.Tag {
	case TagBool:
		return r.ReadBool()
	case TagI32:
		return r.ReadInteger()
	case TagI64:
		return r.ReadLong()
	case TagU8:
		return r.ReadByte()
	case TagU32:
		return r.ReadUInteger()
	case TagU64:
		return r.ReadULong()
	case TagU128, TagU256, TagU512:
		return r.ReadBigInt(bigWidths[t.Tag])
	case TagUnit:
		return Unit{}, nil
	case TagString:
		return r.ReadString()
	case TagKey:
		k, n, err := globalstate.FromBytes(r.Peek())
		if err != nil {
			return nil, err
		}
		_, err = r.ReadBytes(n)
		return k, err
	case TagURef:
		u, n, err := globalstate.URefFromBytes(r.Peek())
		if err != nil {
			return nil, err
		}
		_, err = r.ReadBytes(n)
		return u, err
	case TagPublicKey:
		pk, n, err := crypto.PublicKeyFromBytes(r.Peek())
		if err != nil {
			return nil, err
		}
		_, err = r.ReadBytes(n)
		return pk, err
	case TagOption:
		if top && r.Done() {
			return Option{}, nil
		}
		some, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		if !some {
			return Option{}, nil
		}
		inner, err := decode(r, t.Elem(), false)
		if err != nil {
			return nil, err
		}
		return Option{IsSome: true, Value: inner}, nil
	case TagList:
		n, err := r.ReadUInteger()
		if err != nil {
			return nil, err
		}
		if int64(n) > int64(r.Remaining()) && minSize(t.Elem()) > 0 {
			return nil, errors.Wrapf(sdkerr.ErrFormat, "list of %d items in %d bytes", n, r.Remaining())
		}
		items := make([]interface{}, 0, n)
		for i := uint32(0); i < n; i++ {
			item, err := decode(r, t.Elem(), false)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case TagByteArray:
		b, err := r.ReadBytes(int(t.Size))
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), b...), nil
	case TagResult:
		ok, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if ok > 1 {
			return nil, errors.Wrapf(sdkerr.ErrInvalidResultDiscriminant, "result discriminant %02x", ok)
		}
		branch := t.Err()
		if ok == 1 {
			branch = t.Ok()
		}
		inner, err := decode(r, branch, false)
		if err != nil {
			return nil, err
		}
		return Result{IsOk: ok == 1, Value: inner}, nil
	case TagMap:
		n, err := r.ReadUInteger()
		if err != nil {
			return nil, err
		}
		if int64(n) > int64(r.Remaining()) && minSize(t.Key()) > 0 {
			return nil, errors.Wrapf(sdkerr.ErrFormat, "map of %d pairs in %d bytes", n, r.Remaining())
		}
		entries := make([]MapEntry, 0, n)
		for i := uint32(0); i < n; i++ {
			k, err := decode(r, t.Key(), false)
			if err != nil {
				return nil, err
			}
			v, err := decode(r, t.Value(), false)
			if err != nil {
				return nil, err
			}
			if len(entries) > 0 {
				c, err := compareParsed(t.Key(), entries[len(entries)-1].Key, k)
				if err != nil {
					return nil, err
				}
				if c >= 0 {
					return nil, errors.Wrapf(sdkerr.ErrFormat, "map keys out of canonical order at pair %d", i)
				}
			}
			entries = append(entries, MapEntry{Key: k, Value: v})
		}
		return entries, nil
	case TagTuple1, TagTuple2, TagTuple3:
		items := make([]interface{}, len(t.Inner))
		for i, inner := range t.Inner {
			item, err := decode(r, inner, false)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return items, nil
	case TagAny:
		if !top {
			return nil, errors.Wrap(sdkerr.ErrUnsupportedType, "Any cannot be nested")
		}
		return append([]byte(nil), r.ReadRest()...), nil
	}
	return nil, errors.Wrapf(sdkerr.ErrUnsupportedType, "type tag %d", byte(t.Tag))
}

// minSize is a lower bound on the payload size of one value of t, used to
// reject absurd element counts before allocating.
func minSize(t Type) int {
	switch t.Tag {
	case TagBool, TagU8, TagOption, TagResult, TagU128, TagU256, TagU512:
		return 1
	case TagI32, TagU32, TagString, TagList, TagMap:
		return 4
	case TagI64, TagU64:
		return 8
	case TagKey:
		return 9
	case TagURef:
		return globalstate.URefSize
	case TagPublicKey:
		return 33
	case TagByteArray:
		return int(t.Size)
	case TagTuple1, TagTuple2, TagTuple3:
		n := 0
		for _, inner := range t.Inner {
			n += minSize(inner)
		}
		return n
	}
	return 0
}
