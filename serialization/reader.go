package serialization

import (
	"encoding/binary"
	"math/big"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/bigint"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

// Reader consumes canonical bytes from the front of a slice.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader { return &Reader{data: data} }

func (r *Reader) Remaining() int { return len(r.data) - r.pos }

func (r *Reader) Done() bool { return r.Remaining() == 0 }

// ExpectDone fails when unread bytes are left over.
func (r *Reader) ExpectDone() error {
	if n := r.Remaining(); n != 0 {
		return errors.Wrapf(sdkerr.ErrFormat, "%d trailing bytes", n)
	}
	return nil
}

func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, errors.Wrapf(sdkerr.ErrFormat, "need %d bytes at offset %d, have %d", n, r.pos, r.Remaining())
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Peek returns the unread bytes without consuming them.
func (r *Reader) Peek() []byte { return r.data[r.pos:] }

// ReadRest returns every unread byte.
func (r *Reader) ReadRest() []byte {
	b := r.data[r.pos:]
	r.pos = len(r.data)
	return b
}

func (r *Reader) ReadByte() (byte, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.Wrapf(sdkerr.ErrFormat, "invalid bool byte %#x", b)
}

func (r *Reader) ReadUInteger() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadInteger() (int32, error) {
	v, err := r.ReadUInteger()
	return int32(v), err
}

func (r *Reader) ReadULong() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) ReadLong() (int64, error) {
	v, err := r.ReadULong()
	return int64(v), err
}

func (r *Reader) ReadLengthPrefixed() ([]byte, error) {
	n, err := r.ReadUInteger()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(n))
}

func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadLengthPrefixed()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.Wrap(sdkerr.ErrFormat, "string is not valid utf-8")
	}
	return string(b), nil
}

func (r *Reader) ReadBigInt(width bigint.Width) (*big.Int, error) {
	v, n, err := bigint.Decode(r.data[r.pos:], width)
	if err != nil {
		return nil, err
	}
	r.pos += n
	return v, nil
}
