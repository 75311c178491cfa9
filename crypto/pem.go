package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"io/ioutil"

	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

// SEC1 "EC PRIVATE KEY" layout for secp256k1: the private scalar sits at a
// fixed offset, followed by the curve parameters.
const (
	privateKeyStart = 7
	privateKeyEnd   = 39
	publicKeyStart  = 23
)

var (
	secp256k1OID        = []byte{0x06, 0x05, 0x2b, 0x81, 0x04, 0x00, 0x0a}
	secp256k1SPKIPrefix = []byte{
		0x30, 0x56, 0x30, 0x10, 0x06, 0x07, 0x2a, 0x86, 0x48, 0xce, 0x3d, 0x02, 0x01,
		0x06, 0x05, 0x2b, 0x81, 0x04, 0x00, 0x0a, 0x03, 0x42, 0x00,
	}
)

const (
	pemPrivateKey   = "PRIVATE KEY"
	pemECPrivateKey = "EC PRIVATE KEY"
	pemPublicKey    = "PUBLIC KEY"
)

// LoadKeyPair reads a PEM encoded secret key file.
func LoadKeyPair(privKeyFile string) (KeyPair, error) {
	data, err := ioutil.ReadFile(privKeyFile)
	if err != nil {
		return nil, errors.Wrapf(sdkerr.ErrInvalidKeyFile, "read %s: %v", privKeyFile, err)
	}
	return ParseKeyPairPEM(data)
}

// ParseKeyPairPEM accepts a PKCS#8 Ed25519 key or a SEC1 secp256k1 key.
func ParseKeyPairPEM(data []byte) (KeyPair, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.Wrap(sdkerr.ErrInvalidKeyFile, "no PEM block found")
	}
	switch block.Type {
	case pemPrivateKey:
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrapf(sdkerr.ErrInvalidKeyFile, "parse pkcs8 key: %v", err)
		}
		priv, ok := key.(ed25519.PrivateKey)
		if !ok {
			return nil, errors.Wrapf(sdkerr.ErrInvalidKeyFile, "pkcs8 key is %T, not ed25519", key)
		}
		return &Ed25519KeyPair{priv: priv}, nil
	case pemECPrivateKey:
		der := block.Bytes
		if len(der) < privateKeyEnd+len(secp256k1OID)+2 || der[0] != 0x30 ||
			!bytes.Equal(der[2:5], []byte{0x02, 0x01, 0x01}) || der[5] != 0x04 || der[6] != 0x20 {
			return nil, errors.Wrap(sdkerr.ErrInvalidKeyFile, "malformed SEC1 private key")
		}
		if !bytes.Equal(der[privateKeyEnd+2:privateKeyEnd+2+len(secp256k1OID)], secp256k1OID) {
			return nil, errors.Wrap(sdkerr.ErrInvalidKeyFile, "EC private key is not on secp256k1")
		}
		return NewSecp256k1FromBytes(der[privateKeyStart:privateKeyEnd])
	}
	return nil, errors.Wrapf(sdkerr.ErrInvalidKeyFile, "unexpected PEM block %q", block.Type)
}

// LoadPublicKey reads a PEM encoded public key file.
func LoadPublicKey(pubKeyFile string) (PublicKey, error) {
	data, err := ioutil.ReadFile(pubKeyFile)
	if err != nil {
		return PublicKey{}, errors.Wrapf(sdkerr.ErrInvalidKeyFile, "read %s: %v", pubKeyFile, err)
	}
	return ParsePublicKeyPEM(data)
}

func ParsePublicKeyPEM(data []byte) (PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != pemPublicKey {
		return PublicKey{}, errors.Wrap(sdkerr.ErrInvalidKeyFile, "no PUBLIC KEY block found")
	}
	if bytes.HasPrefix(block.Bytes, secp256k1SPKIPrefix) {
		key, err := btcec.ParsePubKey(block.Bytes[publicKeyStart:], btcec.S256())
		if err != nil {
			return PublicKey{}, errors.Wrapf(sdkerr.ErrInvalidKeyFile, "parse secp256k1 public key: %v", err)
		}
		return PublicKey{Algorithm: Secp256k1, Raw: key.SerializeCompressed()}, nil
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return PublicKey{}, errors.Wrapf(sdkerr.ErrInvalidKeyFile, "parse public key: %v", err)
	}
	pub, ok := key.(ed25519.PublicKey)
	if !ok {
		return PublicKey{}, errors.Wrapf(sdkerr.ErrInvalidKeyFile, "public key is %T, not ed25519", key)
	}
	return PublicKey{Algorithm: Ed25519, Raw: []byte(pub)}, nil
}

func (kp *Ed25519KeyPair) MarshalPEM() ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(kp.priv)
	if err != nil {
		return nil, errors.Wrap(err, "marshal ed25519 key")
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemPrivateKey, Bytes: der}), nil
}

func (kp *Secp256k1KeyPair) MarshalPEM() ([]byte, error) {
	uncompressed := kp.priv.PubKey().SerializeUncompressed()
	der := []byte{0x30, 0x74, 0x02, 0x01, 0x01, 0x04, 0x20}
	der = append(der, kp.priv.Serialize()...)
	der = append(der, 0xa0, byte(len(secp256k1OID)))
	der = append(der, secp256k1OID...)
	der = append(der, 0xa1, 0x44, 0x03, 0x42, 0x00)
	der = append(der, uncompressed...)
	return pem.EncodeToMemory(&pem.Block{Type: pemECPrivateKey, Bytes: der}), nil
}

// MarshalPublicKeyPEM encodes pk as a PKIX "PUBLIC KEY" block.
func MarshalPublicKeyPEM(pk PublicKey) ([]byte, error) {
	var der []byte
	switch pk.Algorithm {
	case Ed25519:
		var err error
		der, err = x509.MarshalPKIXPublicKey(ed25519.PublicKey(pk.Raw))
		if err != nil {
			return nil, errors.Wrap(err, "marshal ed25519 public key")
		}
	case Secp256k1:
		key, err := btcec.ParsePubKey(pk.Raw, btcec.S256())
		if err != nil {
			return nil, errors.Wrap(sdkerr.ErrFormat, err.Error())
		}
		der = append(append([]byte(nil), secp256k1SPKIPrefix...), key.SerializeUncompressed()...)
	default:
		return nil, errors.Wrapf(sdkerr.ErrInvalidArgument, "unknown key algorithm %#02x", byte(pk.Algorithm))
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemPublicKey, Bytes: der}), nil
}
