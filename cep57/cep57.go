// Package cep57 implements the mixed-case checksummed hex encoding used for
// Casper hashes and keys.
//
// Each alphabetic hex character is uppercased when the next bit of the
// BLAKE2b-256 digest of the input is set. Digits pass through and consume no
// digest bit. Inputs longer than SmallBytesCount are rendered as plain
// lowercase hex.
package cep57

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

const SmallBytesCount = 75

func digestBits(data []byte) []bool {
	digest := blake2b.Sum256(data)
	bits := make([]bool, 0, len(digest)*8)
	for _, b := range digest {
		for i := uint(0); i < 8; i++ {
			bits = append(bits, (b>>i)&1 == 1)
		}
	}
	return bits
}

func Encode(data []byte) string {
	plain := hex.EncodeToString(data)
	if len(data) > SmallBytesCount {
		return plain
	}
	bits := digestBits(data)
	out := []byte(plain)
	k := 0
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		if bits[k%len(bits)] {
			out[i] = c - 'a' + 'A'
		}
		k++
	}
	return string(out)
}

// HasChecksum reports whether s mixes lowercase and uppercase hex letters.
// Single-case or all-digit strings carry no checksum signal.
func HasChecksum(s string) bool {
	var lower, upper bool
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'f':
			lower = true
		case c >= 'A' && c <= 'F':
			upper = true
		}
	}
	return lower && upper
}

func Decode(s string) ([]byte, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(sdkerr.ErrFormat, "hex %q: %v", s, err)
	}
	if len(data) > SmallBytesCount || !HasChecksum(s) {
		return data, nil
	}
	if expected := Encode(data); expected != s {
		return nil, errors.Wrapf(sdkerr.ErrChecksumMismatch, "expected %s, got %s", expected, s)
	}
	return data, nil
}

// DecodeFixed decodes s and requires exactly size bytes.
func DecodeFixed(s string, size int) ([]byte, error) {
	data, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if len(data) != size {
		return nil, errors.Wrapf(sdkerr.ErrFormat, "expected %d bytes, got %d", size, len(data))
	}
	return data, nil
}

// Normalize returns the lowercase form of a hex string, used for storage keys
// where checksum casing must not matter.
func Normalize(s string) string { return strings.ToLower(s) }
