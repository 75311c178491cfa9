// Package serialization provides the little-endian building blocks every
// canonical byte serializer is composed of.
package serialization

import (
	"bytes"
	"encoding/binary"
	"math/big"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/bigint"
)

// Writer accumulates canonical bytes. The zero value is ready to use.
type Writer struct {
	buf bytes.Buffer
}

func NewWriter() *Writer { return &Writer{} }

func (w *Writer) WriteByte(b byte) error {
	return w.buf.WriteByte(b)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *Writer) WriteBytes(b []byte) {
	w.buf.Write(b)
}

// WriteInteger writes a 4 byte two's complement integer.
func (w *Writer) WriteInteger(v int32) {
	w.WriteUInteger(uint32(v))
}

func (w *Writer) WriteLong(v int64) {
	w.WriteULong(uint64(v))
}

func (w *Writer) WriteUInteger(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteULong(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// WriteLengthPrefixed writes a u32 length followed by b.
func (w *Writer) WriteLengthPrefixed(b []byte) {
	w.WriteUInteger(uint32(len(b)))
	w.buf.Write(b)
}

func (w *Writer) WriteString(s string) {
	w.WriteLengthPrefixed([]byte(s))
}

func (w *Writer) WriteBigInt(v *big.Int, width bigint.Width) error {
	b, err := bigint.Encode(v, width)
	if err != nil {
		return err
	}
	w.buf.Write(b)
	return nil
}

func (w *Writer) Len() int { return w.buf.Len() }

// Bytes returns the accumulated bytes. The slice aliases the writer's buffer
// until the next write.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }
