package cl

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"

	"github.com/pkg/errors"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/bigint"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/crypto"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/globalstate"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

type valueJSON struct {
	CLType Type            `json:"cl_type"`
	Bytes  *string         `json:"bytes,omitempty"`
	Parsed json.RawMessage `json:"parsed,omitempty"`
}

type mapEntryJSON struct {
	Key   json.RawMessage `json:"key"`
	Value json.RawMessage `json:"value"`
}

func (v CLValue) MarshalJSON() ([]byte, error) {
	parsed, err := parsedToJSON(v.clType, v.parsed)
	if err != nil {
		return nil, err
	}
	rawParsed, err := json.Marshal(parsed)
	if err != nil {
		return nil, err
	}
	payload := hex.EncodeToString(v.bytes)
	return json.Marshal(valueJSON{CLType: v.clType, Bytes: &payload, Parsed: rawParsed})
}

// UnmarshalJSON rebuilds a value from its node JSON form. When both bytes
// and parsed are present they must describe the same value. Result values
// take their Ok/Err branch from the leading byte of bytes.
func (v *CLValue) UnmarshalJSON(data []byte) error {
	var aux struct {
		CLType json.RawMessage `json:"cl_type"`
		Bytes  *string         `json:"bytes"`
		Parsed json.RawMessage `json:"parsed"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return errors.Wrapf(sdkerr.ErrFormat, "cl value json: %v", err)
	}
	if len(aux.CLType) == 0 {
		return errors.Wrap(sdkerr.ErrFormat, "cl value without cl_type")
	}
	var t Type
	if err := json.Unmarshal(aux.CLType, &t); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}

	var fromBytes *CLValue
	if aux.Bytes != nil {
		payload, err := hex.DecodeString(*aux.Bytes)
		if err != nil {
			return errors.Wrapf(sdkerr.ErrFormat, "cl value bytes %q", *aux.Bytes)
		}
		if t.Tag == TagResult && (len(payload) == 0 || payload[0] > 1) {
			return errors.Wrapf(sdkerr.ErrInvalidResultDiscriminant, "result bytes %q", *aux.Bytes)
		}
		decoded, err := FromPayload(t, payload)
		if err != nil {
			return err
		}
		fromBytes = &decoded
	} else if t.Tag == TagResult {
		return errors.Wrap(sdkerr.ErrInvalidResultDiscriminant, "result value without bytes")
	}

	if len(aux.Parsed) == 0 {
		if fromBytes == nil {
			return errors.Wrap(sdkerr.ErrFormat, "cl value has neither bytes nor parsed")
		}
		*v = *fromBytes
		return nil
	}

	var hint interface{}
	if fromBytes != nil {
		hint = fromBytes.parsed
	}
	parsed, err := parsedFromJSON(t, aux.Parsed, hint)
	if err != nil {
		return err
	}
	built, err := New(t, parsed)
	if err != nil {
		return err
	}
	if fromBytes != nil && !Equal(built, *fromBytes) {
		return errors.Wrapf(sdkerr.ErrFormat, "parsed %s does not match bytes %s", aux.Parsed, *aux.Bytes)
	}
	*v = built
	return nil
}

func parsedToJSON(t Type, parsed interface{}) (interface{}, error) {
	switch t.Tag {
	case TagU128, TagU256, TagU512:
		n, ok := parsed.(*big.Int)
		if !ok {
			return nil, wrongValue(t, parsed)
		}
		return n.String(), nil
	case TagUnit, TagAny:
		return nil, nil
	case TagPublicKey:
		pk, ok := parsed.(crypto.PublicKey)
		if !ok {
			return nil, wrongValue(t, parsed)
		}
		return pk.Hex(), nil
	case TagByteArray:
		b, ok := parsed.([]byte)
		if !ok {
			return nil, wrongValue(t, parsed)
		}
		return hex.EncodeToString(b), nil
	case TagOption:
		o, ok := parsed.(Option)
		if !ok {
			return nil, wrongValue(t, parsed)
		}
		if !o.IsSome {
			return nil, nil
		}
		return parsedToJSON(t.Elem(), o.Value)
	case TagResult:
		r, ok := parsed.(Result)
		if !ok {
			return nil, wrongValue(t, parsed)
		}
		if r.IsOk {
			return parsedToJSON(t.Ok(), r.Value)
		}
		return parsedToJSON(t.Err(), r.Value)
	case TagList:
		items, ok := parsed.([]interface{})
		if !ok {
			return nil, wrongValue(t, parsed)
		}
		out := make([]interface{}, len(items))
		for i, item := range items {
			j, err := parsedToJSON(t.Elem(), item)
			if err != nil {
				return nil, err
			}
			out[i] = j
		}
		return out, nil
	case TagTuple1, TagTuple2, TagTuple3:
		items, ok := parsed.([]interface{})
		if !ok || len(items) != len(t.Inner) {
			return nil, wrongValue(t, parsed)
		}
		out := make([]interface{}, len(items))
		for i, item := range items {
			j, err := parsedToJSON(t.Inner[i], item)
			if err != nil {
				return nil, err
			}
			out[i] = j
		}
		return out, nil
	case TagMap:
		entries, ok := parsed.([]MapEntry)
		if !ok {
			return nil, wrongValue(t, parsed)
		}
		out := make([]map[string]interface{}, len(entries))
		for i, e := range entries {
			k, err := parsedToJSON(t.Key(), e.Key)
			if err != nil {
				return nil, err
			}
			val, err := parsedToJSON(t.Value(), e.Value)
			if err != nil {
				return nil, err
			}
			out[i] = map[string]interface{}{"key": k, "value": val}
		}
		return out, nil
	}
	return parsed, nil
}

func parsedFromJSON(t Type, raw json.RawMessage, hint interface{}) (interface{}, error) {
	switch t.Tag {
	case TagBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, jsonValueError(t, raw)
		}
		return b, nil
	case TagI32:
		n, err := parseJSONInt(raw, 32)
		if err != nil {
			return nil, jsonValueError(t, raw)
		}
		return int32(n), nil
	case TagI64:
		n, err := parseJSONInt(raw, 64)
		if err != nil {
			return nil, jsonValueError(t, raw)
		}
		return n, nil
	case TagU8:
		n, err := parseJSONUint(raw, 8)
		if err != nil {
			return nil, jsonValueError(t, raw)
		}
		return uint8(n), nil
	case TagU32:
		n, err := parseJSONUint(raw, 32)
		if err != nil {
			return nil, jsonValueError(t, raw)
		}
		return uint32(n), nil
	case TagU64:
		n, err := parseJSONUint(raw, 64)
		if err != nil {
			return nil, jsonValueError(t, raw)
		}
		return n, nil
	case TagU128, TagU256, TagU512:
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			return nil, jsonValueError(t, raw)
		}
		return bigint.ParseDecimal(num.String(), bigWidths[t.Tag])
	case TagUnit:
		return Unit{}, nil
	case TagString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, jsonValueError(t, raw)
		}
		return s, nil
	case TagKey:
		var k globalstate.Key
		if err := json.Unmarshal(raw, &k); err != nil {
			return nil, err
		}
		return k, nil
	case TagURef:
		var u globalstate.URef
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil, err
		}
		return u, nil
	case TagPublicKey:
		var pk crypto.PublicKey
		if err := json.Unmarshal(raw, &pk); err != nil {
			return nil, err
		}
		return pk, nil
	case TagByteArray:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, jsonValueError(t, raw)
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, jsonValueError(t, raw)
		}
		return b, nil
	case TagAny:
		b, ok := hint.([]byte)
		if !ok {
			return nil, errors.Wrap(sdkerr.ErrFormat, "Any value needs bytes")
		}
		return b, nil
	case TagOption:
		o, hinted := hint.(Option)
		// null is None unless the bytes say Some, as for Some(Unit).
		if isNull(raw) && !(hinted && o.IsSome) {
			return Option{}, nil
		}
		var innerHint interface{}
		if hinted {
			innerHint = o.Value
		}
		inner, err := parsedFromJSON(t.Elem(), raw, innerHint)
		if err != nil {
			return nil, err
		}
		return Option{IsSome: true, Value: inner}, nil
	case TagResult:
		return resultFromJSON(t, raw, hint)
	case TagList:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, jsonValueError(t, raw)
		}
		hints, _ := hint.([]interface{})
		out := make([]interface{}, len(items))
		for i, item := range items {
			var h interface{}
			if i < len(hints) {
				h = hints[i]
			}
			v, err := parsedFromJSON(t.Elem(), item, h)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case TagTuple1, TagTuple2, TagTuple3:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil || len(items) != len(t.Inner) {
			return nil, jsonValueError(t, raw)
		}
		hints, _ := hint.([]interface{})
		out := make([]interface{}, len(items))
		for i, item := range items {
			var h interface{}
			if i < len(hints) {
				h = hints[i]
			}
			v, err := parsedFromJSON(t.Inner[i], item, h)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case TagMap:
		var items []mapEntryJSON
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, jsonValueError(t, raw)
		}
		hints, _ := hint.([]MapEntry)
		out := make([]MapEntry, len(items))
		for i, item := range items {
			var hk, hv interface{}
			if i < len(hints) {
				hk, hv = hints[i].Key, hints[i].Value
			}
			k, err := parsedFromJSON(t.Key(), item.Key, hk)
			if err != nil {
				return nil, err
			}
			v, err := parsedFromJSON(t.Value(), item.Value, hv)
			if err != nil {
				return nil, err
			}
			out[i] = MapEntry{Key: k, Value: v}
		}
		return out, nil
	}
	return nil, errors.Wrapf(sdkerr.ErrUnsupportedType, "type tag %d", byte(t.Tag))
}

// resultFromJSON accepts a bare value whose branch comes from the decoded
// bytes, or the explicit {"Ok": v} / {"Err": v} object.
func resultFromJSON(t Type, raw json.RawMessage, hint interface{}) (interface{}, error) {
	h, haveHint := hint.(Result)

	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) == nil && len(obj) == 1 {
		for name, body := range obj {
			if name != "Ok" && name != "Err" {
				break
			}
			isOk := name == "Ok"
			if haveHint && h.IsOk != isOk {
				return nil, errors.Wrapf(sdkerr.ErrInvalidResultDiscriminant, "parsed %s disagrees with bytes", name)
			}
			return resultBranch(t, isOk, body, h.Value)
		}
	}
	if !haveHint {
		return nil, errors.Wrap(sdkerr.ErrInvalidResultDiscriminant, "cannot tell Ok from Err without bytes")
	}
	return resultBranch(t, h.IsOk, raw, h.Value)
}

func resultBranch(t Type, isOk bool, raw json.RawMessage, hint interface{}) (interface{}, error) {
	branch := t.Err()
	if isOk {
		branch = t.Ok()
	}
	v, err := parsedFromJSON(branch, raw, hint)
	if err != nil {
		return nil, err
	}
	return Result{IsOk: isOk, Value: v}, nil
}

func parseJSONInt(raw json.RawMessage, bits int) (int64, error) {
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, err
	}
	return strconv.ParseInt(num.String(), 10, bits)
}

func parseJSONUint(raw json.RawMessage, bits int) (uint64, error) {
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, err
	}
	return strconv.ParseUint(num.String(), 10, bits)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func jsonValueError(t Type, raw json.RawMessage) error {
	return errors.Wrapf(sdkerr.ErrFormat, "%s value %s", t, raw)
}

func toText(t Type, parsed interface{}) string {
	j, err := parsedToJSON(t, parsed)
	if err != nil {
		return fmt.Sprint(parsed)
	}
	b, err := json.Marshal(j)
	if err != nil {
		return fmt.Sprint(parsed)
	}
	return string(b)
}
