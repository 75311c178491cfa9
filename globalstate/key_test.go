package globalstate

import (
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

const (
	checksummedHash = "2c4a11c062A8A337Bfc97E27fd66291cAEB2C65865Dcb5d3eF3759c4c97efeCB"
	checksummedURef = "2F4ab10E7bD4E0e8B25cb9aF4Bea99cDa1f5e06A7cC34a6E4E3F7Ac31f6e66Fc"
)

func TestKeyStringRoundTrip(t *testing.T) {
	inputs := []string{
		"account-hash-" + checksummedHash,
		"hash-" + checksummedHash,
		"uref-" + checksummedURef + "-007",
		"uref-" + checksummedURef + "-000",
		"transfer-" + checksummedHash,
		"deploy-" + checksummedHash,
		"era-0",
		"era-18446744073709551615",
		"balance-" + checksummedHash,
		"bid-" + checksummedHash,
		"withdraw-" + checksummedHash,
		"dictionary-" + checksummedHash,
	}
	for _, s := range inputs {
		k, err := FromString(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, k.String())

		back, n, err := FromBytes(k.Bytes())
		require.NoError(t, err, s)
		assert.Equal(t, len(k.Bytes()), n)
		assert.True(t, k.Equal(back), s)
	}
}

func TestKeyKinds(t *testing.T) {
	cases := map[string]KeyIdentifier{
		"account-hash-": Account,
		"hash-":         Hash,
		"transfer-":     Transfer,
		"deploy-":       DeployInfo,
		"balance-":      Balance,
		"bid-":          Bid,
		"withdraw-":     Withdraw,
		"dictionary-":   Dictionary,
	}
	for prefix, kind := range cases {
		k, err := FromString(prefix + strings.ToLower(checksummedHash))
		require.NoError(t, err)
		assert.Equal(t, kind, k.Kind)
		assert.Equal(t, byte(kind), k.Bytes()[0])
		assert.Len(t, k.Raw(), HashSize)
	}
}

func TestLegacyContractPrefixes(t *testing.T) {
	lower := strings.ToLower(checksummedHash)
	for _, s := range []string{
		"contract-package-wasm" + lower,
		"contract-wasm-" + lower,
		"contract-" + lower,
	} {
		k, err := FromString(s)
		require.NoError(t, err, s)
		assert.Equal(t, Hash, k.Kind)
		assert.Equal(t, "hash-"+checksummedHash, k.String())
	}
}

func TestURefBytes(t *testing.T) {
	k, err := FromString("uref-" + checksummedURef + "-005")
	require.NoError(t, err)
	assert.Equal(t, URefKind, k.Kind)
	assert.Equal(t, AccessReadAdd, k.URef.Rights)
	b := k.Bytes()
	assert.Len(t, b, 1+HashSize+1)
	assert.Equal(t, byte(2), b[0])
	assert.Equal(t, byte(5), b[len(b)-1])
	assert.Equal(t, strings.ToLower(checksummedURef), hex.EncodeToString(k.Raw()))
}

func TestURefErrors(t *testing.T) {
	cases := []string{
		"uref-" + checksummedURef + "-07",
		"uref-" + checksummedURef + "-0007",
		"uref-" + checksummedURef + "-00a",
		"uref-" + checksummedURef + "-009",
		"uref-" + strings.ToLower(checksummedURef[:62]) + "-007",
		"uref-" + checksummedURef,
	}
	for _, s := range cases {
		_, err := ParseURef(s)
		assert.True(t, errors.Is(err, sdkerr.ErrFormat), s)
	}
	bad := "uref-2f" + checksummedURef[2:] + "-007"
	_, err := ParseURef(bad)
	assert.True(t, errors.Is(err, sdkerr.ErrChecksumMismatch))
}

func TestFromStringErrors(t *testing.T) {
	_, err := FromString("foo-" + checksummedHash)
	assert.True(t, errors.Is(err, sdkerr.ErrInvalidArgument))

	_, err = FromString("hash-abcd")
	assert.True(t, errors.Is(err, sdkerr.ErrFormat))

	_, err = FromString("era-x")
	assert.True(t, errors.Is(err, sdkerr.ErrFormat))

	for _, s := range []string{"era-007", "era-00", "era-"} {
		_, err = FromString(s)
		assert.True(t, errors.Is(err, sdkerr.ErrFormat), s)
	}
	k, err := FromString("era-7")
	require.NoError(t, err)
	assert.Equal(t, "era-7", k.String())

	_, _, err = FromBytes([]byte{42})
	assert.True(t, errors.Is(err, sdkerr.ErrInvalidArgument))
}

func TestKeyJSON(t *testing.T) {
	k, err := FromString("hash-" + checksummedHash)
	require.NoError(t, err)
	data, err := json.Marshal(k)
	require.NoError(t, err)
	assert.Equal(t, `"hash-`+checksummedHash+`"`, string(data))

	var back Key
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, k.Equal(back))

	var tagged Key
	require.NoError(t, json.Unmarshal([]byte(`{"Hash":"hash-`+checksummedHash+`"}`), &tagged))
	assert.True(t, k.Equal(tagged))
}

func TestEraKeyRaw(t *testing.T) {
	k := NewEraInfoKey(258)
	assert.Equal(t, []byte{2, 1, 0, 0, 0, 0, 0, 0}, k.Raw())
	assert.Equal(t, "era-258", k.String())
}
