// Package sdkerr holds the error kinds shared by the encoding, key and deploy
// packages. Failure sites wrap one of these so callers can test with errors.Is.
package sdkerr

import (
	"github.com/pkg/errors"
)

var (
	ErrFormat                    = errors.New("malformed input")
	ErrChecksumMismatch          = errors.New("checksum mismatch")
	ErrInvalidArgument           = errors.New("invalid argument")
	ErrUnsupportedType           = errors.New("unsupported cl type")
	ErrUnsupportedDeployItem     = errors.New("unsupported executable deploy item")
	ErrInvalidResultDiscriminant = errors.New("invalid result discriminant")
	ErrInvalidKeyFile            = errors.New("invalid key file")
	ErrHashMismatch              = errors.New("hash mismatch")
	ErrSignatureVerification     = errors.New("signature verification failed")
	ErrNotFound                  = errors.New("not found")
)
