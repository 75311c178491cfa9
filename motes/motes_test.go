package motes

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

func TestFromCSPR(t *testing.T) {
	cases := map[string]string{
		"1":           "1000000000",
		"2.5":         "2500000000",
		"0.000000001": "1",
		"0":           "0",
		"100000":      "100000000000000",
	}
	for in, want := range cases {
		got, err := FromCSPR(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.String(), in)
	}
}

func TestFromCSPRErrors(t *testing.T) {
	for _, in := range []string{"-1", "0.0000000001", "abc", ""} {
		_, err := FromCSPR(in)
		assert.True(t, errors.Is(err, sdkerr.ErrInvalidArgument), in)
	}
}

func TestToCSPR(t *testing.T) {
	assert.Equal(t, "2.5", ToCSPR(big.NewInt(2500000000)))
	assert.Equal(t, "0.000000001", ToCSPR(big.NewInt(1)))
	assert.Equal(t, "7", ToCSPR(FromCSPRInt(7)))
}
