package cl

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

func TestTypeJSON(t *testing.T) {
	cases := map[string]Type{
		`"U512"`:                                  U512Type,
		`{"Option":"Bool"}`:                       OptionOf(BoolType),
		`{"List":{"Option":"U8"}}`:                ListOf(OptionOf(U8Type)),
		`{"ByteArray":32}`:                        ByteArrayOf(32),
		`{"Result":{"Ok":"U8","Err":"String"}}`:   ResultOf(U8Type, StringType),
		`{"Map":{"key":"String","value":"U512"}}`: MapOf(StringType, U512Type),
		`{"Tuple1":["Key"]}`:                      Tuple1Of(KeyType),
		`{"Tuple2":["URef","PublicKey"]}`:         Tuple2Of(URefType, PublicKeyType),
		`{"Tuple3":["Unit","I32","Any"]}`:         Tuple3Of(UnitType, I32Type, AnyType),
	}
	for text, want := range cases {
		data, err := json.Marshal(want)
		require.NoError(t, err)
		assert.JSONEq(t, text, string(data))

		var got Type
		require.NoError(t, json.Unmarshal([]byte(text), &got), text)
		assert.True(t, want.Equal(got), text)
	}
}

func TestTypeJSONErrors(t *testing.T) {
	for _, text := range []string{
		`"Foo"`,
		`"Option"`,
		`{"Vector":"U8"}`,
		`{"Map":{"key_type":"String","value_type":"U8"}}`,
		`{"Tuple2":["U8"]}`,
		`{"Option":"Bool","List":"U8"}`,
	} {
		var got Type
		err := json.Unmarshal([]byte(text), &got)
		assert.True(t, errors.Is(err, sdkerr.ErrUnsupportedType), text)
	}
}

func TestValueJSON(t *testing.T) {
	v := U512FromUint64(1000000000)
	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"cl_type":"U512","bytes":"0400ca9a3b","parsed":"1000000000"}`, string(data))

	m, err := Map(StringType, U8Type, []CLValue{mustValue(String("b")), mustValue(String("a"))}, []CLValue{U8(2), U8(1)})
	require.NoError(t, err)
	values := []CLValue{
		v,
		I32(-10),
		mustValue(String("hello")),
		KeyValue(testKey(t)),
		URefValue(testURef(t)),
		PublicKeyValue(testPublicKey(t)),
		ByteArray([]byte{0xde, 0xad}),
		mustValue(None(U8Type)),
		mustValue(Some(U64(42))),
		mustValue(Ok(mustValue(String("yes")), U8Type)),
		mustValue(Err(StringType, U8(3))),
		m,
		mustValue(Tuple2(Bool(true), UnitValue())),
		mustList(t, U512Type, U512FromUint64(1), U512FromUint64(0)),
		Any([]byte{1, 2, 3}),
		mustValue(Some(UnitValue())),
		mustValue(Some(mustValue(None(U8Type)))),
		mustList(t, OptionOf(UnitType), mustValue(Some(UnitValue())), mustValue(None(UnitType))),
	}
	for _, v := range values {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		var back CLValue
		require.NoError(t, json.Unmarshal(data, &back), string(data))
		assert.True(t, Equal(v, back), string(data))
	}
}

func TestValueJSONParsedForms(t *testing.T) {
	var v CLValue
	err := json.Unmarshal([]byte(`{"cl_type":{"Map":{"key":"String","value":"U8"}},"parsed":[{"key":"b","value":2},{"key":"a","value":1}]}`), &v)
	require.NoError(t, err)
	entries := v.Parsed().([]MapEntry)
	assert.Equal(t, "a", entries[0].Key)

	require.NoError(t, json.Unmarshal([]byte(`{"cl_type":"U64","bytes":"2a00000000000000"}`), &v))
	assert.Equal(t, uint64(42), v.Parsed())

	require.NoError(t, json.Unmarshal([]byte(`{"cl_type":"U128","parsed":340282366920938463463374607431768211455}`), &v))
	assert.Equal(t, "340282366920938463463374607431768211455", v.Parsed().(*big.Int).String())
}

func TestValueJSONResultDiscriminant(t *testing.T) {
	resultType := `{"Result":{"Ok":"U8","Err":"String"}}`

	var v CLValue
	require.NoError(t, json.Unmarshal([]byte(`{"cl_type":`+resultType+`,"bytes":"0107","parsed":7}`), &v))
	assert.True(t, Equal(mustValue(Ok(U8(7), StringType)), v))

	require.NoError(t, json.Unmarshal([]byte(`{"cl_type":`+resultType+`,"bytes":"000100000078","parsed":"x"}`), &v))
	assert.True(t, Equal(mustValue(Err(U8Type, mustValue(String("x")))), v))

	require.NoError(t, json.Unmarshal([]byte(`{"cl_type":`+resultType+`,"bytes":"0107","parsed":{"Ok":7}}`), &v))
	assert.True(t, Equal(mustValue(Ok(U8(7), StringType)), v))

	for _, text := range []string{
		`{"cl_type":` + resultType + `,"parsed":7}`,
		`{"cl_type":` + resultType + `,"bytes":"","parsed":7}`,
		`{"cl_type":` + resultType + `,"bytes":"0207","parsed":7}`,
		`{"cl_type":` + resultType + `,"bytes":"0107","parsed":{"Err":"x"}}`,
	} {
		err := json.Unmarshal([]byte(text), &v)
		assert.True(t, errors.Is(err, sdkerr.ErrInvalidResultDiscriminant), text)
	}
}

func TestValueJSONMismatch(t *testing.T) {
	var v CLValue
	err := json.Unmarshal([]byte(`{"cl_type":"U8","bytes":"01","parsed":2}`), &v)
	assert.True(t, errors.Is(err, sdkerr.ErrFormat))

	err = json.Unmarshal([]byte(`{"cl_type":"U8","parsed":"many"}`), &v)
	assert.True(t, errors.Is(err, sdkerr.ErrFormat))

	err = json.Unmarshal([]byte(`{"cl_type":"Vector","parsed":1}`), &v)
	assert.True(t, errors.Is(err, sdkerr.ErrUnsupportedType))

	err = json.Unmarshal([]byte(`{"cl_type":"Any","parsed":null}`), &v)
	assert.True(t, errors.Is(err, sdkerr.ErrFormat))
}
