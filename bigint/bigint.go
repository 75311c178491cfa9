// Package bigint encodes the fixed width unsigned integers U128, U256 and U512.
//
// The canonical form is one length byte holding the number of significant
// bytes, followed by those bytes in little-endian order. Zero is the single
// byte 0x00.
package bigint

import (
	"encoding/hex"
	"math/big"

	"github.com/pkg/errors"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

type Width int

const (
	U128 Width = 128
	U256 Width = 256
	U512 Width = 512
)

func (w Width) bytes() int { return int(w) / 8 }

func (w Width) String() string {
	switch w {
	case U128:
		return "U128"
	case U256:
		return "U256"
	case U512:
		return "U512"
	}
	return "U?"
}

// Max returns the largest value representable in w.
func (w Width) Max() *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), uint(w))
	return max.Sub(max, big.NewInt(1))
}

func (w Width) check(v *big.Int) error {
	if v == nil {
		return errors.Wrapf(sdkerr.ErrFormat, "nil %s", w)
	}
	if v.Sign() < 0 {
		return errors.Wrapf(sdkerr.ErrFormat, "negative %s %s", w, v)
	}
	if v.BitLen() > int(w) {
		return errors.Wrapf(sdkerr.ErrFormat, "%s overflows %s", v, w)
	}
	return nil
}

// Encode returns the length prefixed little-endian form of v.
func Encode(v *big.Int, w Width) ([]byte, error) {
	if err := w.check(v); err != nil {
		return nil, err
	}
	be := v.Bytes() // minimal big-endian, empty for zero
	out := make([]byte, 1+len(be))
	out[0] = byte(len(be))
	for i := range be {
		out[1+i] = be[len(be)-1-i]
	}
	return out, nil
}

// Decode reads one encoded integer from the front of b and returns it together
// with the number of bytes consumed.
func Decode(b []byte, w Width) (*big.Int, int, error) {
	if len(b) == 0 {
		return nil, 0, errors.Wrapf(sdkerr.ErrFormat, "missing %s length byte", w)
	}
	n := int(b[0])
	if n > w.bytes() {
		return nil, 0, errors.Wrapf(sdkerr.ErrFormat, "%s length %d exceeds %d bytes", w, n, w.bytes())
	}
	if len(b) < 1+n {
		return nil, 0, errors.Wrapf(sdkerr.ErrFormat, "%s needs %d bytes, have %d", w, n, len(b)-1)
	}
	be := make([]byte, n)
	for i := 0; i < n; i++ {
		be[i] = b[n-i]
	}
	return new(big.Int).SetBytes(be), 1 + n, nil
}

func EncodeHex(v *big.Int, w Width) (string, error) {
	b, err := Encode(v, w)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// DecodeHex parses a whole hex string holding exactly one encoded integer.
func DecodeHex(s string, w Width) (*big.Int, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(sdkerr.ErrFormat, "%s hex %q: %v", w, s, err)
	}
	v, n, err := Decode(b, w)
	if err != nil {
		return nil, err
	}
	if n != len(b) {
		return nil, errors.Wrapf(sdkerr.ErrFormat, "%d trailing bytes after %s", len(b)-n, w)
	}
	return v, nil
}

// ParseDecimal parses the decimal text form used in JSON.
func ParseDecimal(s string, w Width) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Wrapf(sdkerr.ErrFormat, "invalid %s decimal %q", w, s)
	}
	if err := w.check(v); err != nil {
		return nil, err
	}
	return v, nil
}

func MustParseDecimal(s string, w Width) *big.Int {
	v, err := ParseDecimal(s, w)
	if err != nil {
		panic(err)
	}
	return v
}

// Fits reports whether v is a valid value of width w.
func Fits(v *big.Int, w Width) bool { return w.check(v) == nil }
