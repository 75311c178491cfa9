// Package crypto holds the Ed25519 and secp256k1 primitives deploys are
// signed with, together with their tagged public key and signature forms.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

// KeyPair signs messages with a private key of one algorithm.
type KeyPair interface {
	PublicKey() PublicKey
	Sign(message []byte) (Signature, error)
}

// Verify checks sig over message against pk. Malformed keys or signatures
// verify as false.
func Verify(pk PublicKey, message []byte, sig Signature) bool {
	if pk.Algorithm != sig.Algorithm || len(sig.Raw) != SignatureSize {
		return false
	}
	switch pk.Algorithm {
	case Ed25519:
		return VerifyED(pk.Raw, message, sig.Raw)
	case Secp256k1:
		return VerifySecp(pk.Raw, message, sig.Raw)
	}
	return false
}

// ------------------------------------------------------------------------------------------------------------------- //
// ED25519

type Ed25519KeyPair struct {
	priv ed25519.PrivateKey
}

var _ KeyPair = (*Ed25519KeyPair)(nil)

func GenerateEd25519() (*Ed25519KeyPair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "generate ed25519 key")
	}
	return &Ed25519KeyPair{priv: priv}, nil
}

// NewEd25519FromSeed builds a key pair from a 32 byte private seed.
func NewEd25519FromSeed(seed []byte) (*Ed25519KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(sdkerr.ErrInvalidArgument, "ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &Ed25519KeyPair{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

func (kp *Ed25519KeyPair) PublicKey() PublicKey {
	return PublicKey{Algorithm: Ed25519, Raw: []byte(kp.priv.Public().(ed25519.PublicKey))}
}

func (kp *Ed25519KeyPair) Seed() []byte { return kp.priv.Seed() }

func (kp *Ed25519KeyPair) Sign(message []byte) (Signature, error) {
	return Signature{Algorithm: Ed25519, Raw: SignED(kp.priv, message)}, nil
}

func SignED(privKey ed25519.PrivateKey, message []byte) (signature []byte) {
	return ed25519.Sign(privKey, message)
}

func VerifyED(pubKey, message []byte, signature []byte) bool {
	if len(pubKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(pubKey, message, signature)
}

// ------------------------------------------------------------------------------------------------------------------- //
// SECP256K1

type Secp256k1KeyPair struct {
	priv *btcec.PrivateKey
}

var _ KeyPair = (*Secp256k1KeyPair)(nil)

func GenerateSecp256k1() (*Secp256k1KeyPair, error) {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, errors.Wrap(err, "generate secp256k1 key")
	}
	return &Secp256k1KeyPair{priv: priv}, nil
}

// NewSecp256k1FromBytes builds a key pair from a 32 byte private scalar.
func NewSecp256k1FromBytes(privKey []byte) (*Secp256k1KeyPair, error) {
	if len(privKey) != btcec.PrivKeyBytesLen {
		return nil, errors.Wrapf(sdkerr.ErrInvalidArgument, "secp256k1 private key must be %d bytes, got %d", btcec.PrivKeyBytesLen, len(privKey))
	}
	key, _ := btcec.PrivKeyFromBytes(btcec.S256(), privKey)
	return &Secp256k1KeyPair{priv: key}, nil
}

func (kp *Secp256k1KeyPair) PublicKey() PublicKey {
	return PublicKey{Algorithm: Secp256k1, Raw: kp.priv.PubKey().SerializeCompressed()}
}

func (kp *Secp256k1KeyPair) PrivateBytes() []byte { return kp.priv.Serialize() }

func (kp *Secp256k1KeyPair) Sign(message []byte) (Signature, error) {
	raw, err := SignSecp(kp.priv, message)
	if err != nil {
		return Signature{}, err
	}
	return Signature{Algorithm: Secp256k1, Raw: raw}, nil
}

// SignSecp signs the SHA-256 digest of message and returns the 64 byte R||S
// form. S is kept in the lower half of the group order so that byte 32 never
// has its high bit set.
func SignSecp(privKey *btcec.PrivateKey, message []byte) ([]byte, error) {
	hash := sha256.Sum256(message)
	sign, err := privKey.Sign(hash[:])
	if err != nil {
		return nil, errors.Wrap(err, "secp256k1 sign")
	}
	s := sign.S
	signature := append(math.PaddedBigBytes(sign.R, 32), math.PaddedBigBytes(s, 32)...)
	for signature[32]&0x80 != 0 {
		s = new(big.Int).Sub(btcec.S256().N, s)
		signature = append(math.PaddedBigBytes(sign.R, 32), math.PaddedBigBytes(s, 32)...)
	}
	return signature, nil
}

func VerifySecp(pubKey, message []byte, signature []byte) (signed bool) {
	if len(signature) != SignatureSize {
		return false
	}
	hash := sha256.Sum256(message)
	key, err := btcec.ParsePubKey(pubKey, btcec.S256())
	if err != nil {
		return false
	}
	sign := &btcec.Signature{
		R: new(big.Int).SetBytes(signature[:32]),
		S: new(big.Int).SetBytes(signature[32:]),
	}
	return sign.Verify(hash[:], key)
}

// CheckPubKey validates a raw key of the given algorithm.
func CheckPubKey(pk PublicKey) error {
	switch pk.Algorithm {
	case Ed25519:
		if len(pk.Raw) != ed25519.PublicKeySize {
			return errors.Wrapf(sdkerr.ErrFormat, "ed25519 public key must be %d bytes", ed25519.PublicKeySize)
		}
		return nil
	case Secp256k1:
		if _, err := btcec.ParsePubKey(pk.Raw, btcec.S256()); err != nil {
			return errors.Wrap(sdkerr.ErrFormat, err.Error())
		}
		return nil
	}
	return errors.Wrapf(sdkerr.ErrInvalidArgument, "unknown key algorithm %#02x", byte(pk.Algorithm))
}
