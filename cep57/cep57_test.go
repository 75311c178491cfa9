package cep57

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

func TestEncodeVectors(t *testing.T) {
	vectors := map[string]string{
		"":             "",
		"00":           "00",
		"ff":           "ff",
		"deadbeef":     "DEadBEEF",
		"abcdefabcdef": "aBcDEFABcDEF",
		"0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20": "0102030405060708090a0b0C0d0e0f101112131415161718191A1b1c1D1E1F20",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa": "aaAaaaaaaaAAaAAaAaAAaaaaaaaAAaaAaaaaAAAaAaAaAAAaAAaAAaAAaAaaaaaA",
	}
	for in, want := range vectors {
		data, err := hex.DecodeString(in)
		require.NoError(t, err)
		assert.Equal(t, want, Encode(data), in)

		back, err := Decode(want)
		require.NoError(t, err)
		assert.Equal(t, data, back)
	}
}

func TestLargeInputIsPlain(t *testing.T) {
	data := make([]byte, SmallBytesCount+1)
	for i := range data {
		data[i] = 0xab
	}
	s := Encode(data)
	assert.Equal(t, hex.EncodeToString(data), s)
	assert.False(t, HasChecksum(s))

	// mixed case is not verified above the size limit
	back, err := Decode(strings.ToUpper(s[:2]) + s[2:])
	require.NoError(t, err)
	assert.Equal(t, data, back)
}

func TestRoundTrip(t *testing.T) {
	for size := 0; size <= SmallBytesCount; size++ {
		data := make([]byte, size)
		_, _ = rand.Read(data)
		back, err := Decode(Encode(data))
		require.NoError(t, err)
		assert.Equal(t, data, back)
	}
}

func TestHasChecksum(t *testing.T) {
	assert.True(t, HasChecksum("DEadBEEF"))
	assert.False(t, HasChecksum("deadbeef"))
	assert.False(t, HasChecksum("DEADBEEF"))
	assert.False(t, HasChecksum("0123456789"))
}

func TestChecksumMismatch(t *testing.T) {
	_, err := Decode("DeadBEEF")
	assert.True(t, errors.Is(err, sdkerr.ErrChecksumMismatch))
	assert.Contains(t, err.Error(), "DEadBEEF")

	// single case input skips verification
	data, err := Decode("deadbeef")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, data)

	_, err = Decode("xyz")
	assert.True(t, errors.Is(err, sdkerr.ErrFormat))
}

func TestDecodeFixed(t *testing.T) {
	_, err := DecodeFixed("DEadBEEF", 32)
	assert.True(t, errors.Is(err, sdkerr.ErrFormat))
	b, err := DecodeFixed("DEadBEEF", 4)
	require.NoError(t, err)
	assert.Len(t, b, 4)
}
