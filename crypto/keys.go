package crypto

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/cep57"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

// Algorithm is the one byte tag that prefixes public keys and signatures.
type Algorithm byte

const (
	Ed25519   Algorithm = 0x01
	Secp256k1 Algorithm = 0x02
)

const (
	Ed25519PublicKeySize   = 32
	Secp256k1PublicKeySize = 33
	SignatureSize          = 64
)

func (a Algorithm) String() string {
	switch a {
	case Ed25519:
		return "ed25519"
	case Secp256k1:
		return "secp256k1"
	}
	return "unknown"
}

func (a Algorithm) publicKeySize() (int, error) {
	switch a {
	case Ed25519:
		return Ed25519PublicKeySize, nil
	case Secp256k1:
		return Secp256k1PublicKeySize, nil
	}
	return 0, errors.Wrapf(sdkerr.ErrInvalidArgument, "unknown key algorithm %#02x", byte(a))
}

// PublicKey is an algorithm tagged public key.
type PublicKey struct {
	Algorithm Algorithm
	Raw       []byte
}

func NewPublicKey(alg Algorithm, raw []byte) (PublicKey, error) {
	size, err := alg.publicKeySize()
	if err != nil {
		return PublicKey{}, err
	}
	if len(raw) != size {
		return PublicKey{}, errors.Wrapf(sdkerr.ErrFormat, "%s public key must be %d bytes, got %d", alg, size, len(raw))
	}
	return PublicKey{Algorithm: alg, Raw: append([]byte(nil), raw...)}, nil
}

// Bytes returns the algorithm byte followed by the raw key.
func (pk PublicKey) Bytes() []byte {
	return append([]byte{byte(pk.Algorithm)}, pk.Raw...)
}

func (pk PublicKey) Hex() string {
	return hex.EncodeToString([]byte{byte(pk.Algorithm)}) + cep57.Encode(pk.Raw)
}

func (pk PublicKey) String() string { return pk.Hex() }

func (pk PublicKey) IsZero() bool { return pk.Algorithm == 0 && len(pk.Raw) == 0 }

func (pk PublicKey) Equal(other PublicKey) bool {
	return pk.Algorithm == other.Algorithm && bytes.Equal(pk.Raw, other.Raw)
}

// AccountHash is the BLAKE2b-256 digest of the lowercase algorithm name, a
// zero separator and the raw key.
func (pk PublicKey) AccountHash() [32]byte {
	preimage := append([]byte(pk.Algorithm.String()), 0)
	return blake2b.Sum256(append(preimage, pk.Raw...))
}

// PublicKeyFromBytes reads a tagged public key from the front of b and
// returns the number of bytes consumed.
func PublicKeyFromBytes(b []byte) (PublicKey, int, error) {
	if len(b) == 0 {
		return PublicKey{}, 0, errors.Wrap(sdkerr.ErrFormat, "empty public key")
	}
	alg := Algorithm(b[0])
	size, err := alg.publicKeySize()
	if err != nil {
		return PublicKey{}, 0, err
	}
	if len(b) < 1+size {
		return PublicKey{}, 0, errors.Wrapf(sdkerr.ErrFormat, "%s public key needs %d bytes, have %d", alg, size, len(b)-1)
	}
	pk, err := NewPublicKey(alg, b[1:1+size])
	return pk, 1 + size, err
}

func ParsePublicKeyHex(s string) (PublicKey, error) {
	alg, raw, err := splitTagged(s)
	if err != nil {
		return PublicKey{}, err
	}
	return NewPublicKey(alg, raw)
}

func (pk PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(pk.Hex())
}

func (pk *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(sdkerr.ErrFormat, err.Error())
	}
	parsed, err := ParsePublicKeyHex(s)
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

// Signature is an algorithm tagged 64 byte signature.
type Signature struct {
	Algorithm Algorithm
	Raw       []byte
}

func NewSignature(alg Algorithm, raw []byte) (Signature, error) {
	if _, err := alg.publicKeySize(); err != nil {
		return Signature{}, err
	}
	if len(raw) != SignatureSize {
		return Signature{}, errors.Wrapf(sdkerr.ErrFormat, "%s signature must be %d bytes, got %d", alg, SignatureSize, len(raw))
	}
	return Signature{Algorithm: alg, Raw: append([]byte(nil), raw...)}, nil
}

func (sig Signature) Bytes() []byte {
	return append([]byte{byte(sig.Algorithm)}, sig.Raw...)
}

func (sig Signature) Hex() string {
	return hex.EncodeToString([]byte{byte(sig.Algorithm)}) + cep57.Encode(sig.Raw)
}

func (sig Signature) String() string { return sig.Hex() }

func SignatureFromBytes(b []byte) (Signature, int, error) {
	if len(b) < 1+SignatureSize {
		return Signature{}, 0, errors.Wrapf(sdkerr.ErrFormat, "signature needs %d bytes, have %d", 1+SignatureSize, len(b))
	}
	sig, err := NewSignature(Algorithm(b[0]), b[1:1+SignatureSize])
	return sig, 1 + SignatureSize, err
}

func ParseSignatureHex(s string) (Signature, error) {
	alg, raw, err := splitTagged(s)
	if err != nil {
		return Signature{}, err
	}
	return NewSignature(alg, raw)
}

func (sig Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(sig.Hex())
}

func (sig *Signature) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(sdkerr.ErrFormat, err.Error())
	}
	parsed, err := ParseSignatureHex(s)
	if err != nil {
		return err
	}
	*sig = parsed
	return nil
}

func splitTagged(s string) (Algorithm, []byte, error) {
	if len(s) < 2 {
		return 0, nil, errors.Wrapf(sdkerr.ErrFormat, "tagged hex %q too short", s)
	}
	tag, err := hex.DecodeString(s[:2])
	if err != nil {
		return 0, nil, errors.Wrapf(sdkerr.ErrFormat, "algorithm tag %q: %v", s[:2], err)
	}
	raw, err := cep57.Decode(s[2:])
	if err != nil {
		return 0, nil, err
	}
	return Algorithm(tag[0]), raw, nil
}
