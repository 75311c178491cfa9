package bigint

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

func TestZeroEncoding(t *testing.T) {
	for _, w := range []Width{U128, U256, U512} {
		s, err := EncodeHex(big.NewInt(0), w)
		require.NoError(t, err)
		assert.Equal(t, "00", s, w.String())

		v, err := DecodeHex("00", w)
		require.NoError(t, err)
		assert.Equal(t, 0, v.Sign())
	}
}

func TestEncodeKnownValues(t *testing.T) {
	cases := []struct {
		value string
		width Width
		hex   string
	}{
		{"1", U512, "0101"},
		{"255", U128, "01ff"},
		{"256", U128, "020001"},
		{"1000000000", U512, "0400ca9a3b"},
		{"123456789101112131415", U512, "0957ff1ada959f4eb106"},
		{"340282366920938463463374607431768211455", U128, "10ffffffffffffffffffffffffffffffff"},
	}
	for _, c := range cases {
		v := MustParseDecimal(c.value, c.width)
		s, err := EncodeHex(v, c.width)
		require.NoError(t, err)
		assert.Equal(t, c.hex, s, c.value)

		back, err := DecodeHex(c.hex, c.width)
		require.NoError(t, err)
		assert.Equal(t, c.value, back.String())
	}
}

func TestWidthLimits(t *testing.T) {
	_, err := Encode(new(big.Int).Add(U128.Max(), big.NewInt(1)), U128)
	assert.True(t, errors.Is(err, sdkerr.ErrFormat))

	_, err = Encode(big.NewInt(-1), U256)
	assert.True(t, errors.Is(err, sdkerr.ErrFormat))

	_, err = ParseDecimal("-5", U512)
	assert.True(t, errors.Is(err, sdkerr.ErrFormat))

	b, err := Encode(U512.Max(), U512)
	require.NoError(t, err)
	assert.Len(t, b, 65)
	assert.Equal(t, byte(64), b[0])
}

func TestDecodeMalformed(t *testing.T) {
	for _, s := range []string{"", "zz", "02ff", "11" + "00000000000000000000000000000000" + "01", "0101ff"} {
		_, err := DecodeHex(s, U128)
		assert.True(t, errors.Is(err, sdkerr.ErrFormat), s)
	}
}

func TestDecodeConsumed(t *testing.T) {
	v, n, err := Decode([]byte{0x02, 0x01, 0x01, 0xaa, 0xbb}, U256)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, int64(257), v.Int64())
}
