package common

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Reader is a little-endian cursor over an in-memory buffer.
// The first failed read is sticky: later reads return zero values and
// Err reports the original failure.
type Reader struct {
	data []byte
	pos  int64
	err  error
}

// NewReader creates a reader positioned at the start of data
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first error encountered by the reader
func (r *Reader) Err() error {
	return r.err
}

// Pos returns the absolute read position
func (r *Reader) Pos() int64 {
	return r.pos
}

// Len returns the size of the underlying buffer
func (r *Reader) Len() int64 {
	return int64(len(r.data))
}

// Remaining returns the number of bytes between the position and the end of the buffer
func (r *Reader) Remaining() int64 {
	if r.pos >= int64(len(r.data)) {
		return 0
	}
	return int64(len(r.data)) - r.pos
}

// Seek moves to an absolute position. Seeking to the end of the buffer is allowed.
func (r *Reader) Seek(pos int64) error {
	if pos < 0 || pos > int64(len(r.data)) {
		return fmt.Errorf("%s: %d (buffer size %d)", ErrSeekOutOfRange, pos, len(r.data))
	}
	r.pos = pos
	return nil
}

// ForceSeek moves to pos, clamping to the buffer bounds.
// It is used to normalize the cursor after a chunk regardless of what the
// handler consumed.
func (r *Reader) ForceSeek(pos int64) {
	switch {
	case pos < 0:
		r.pos = 0
	case pos > int64(len(r.data)):
		r.pos = int64(len(r.data))
	default:
		r.pos = pos
	}
}

// take returns the next n bytes and advances, or records an error
func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 {
		r.err = fmt.Errorf("%s: %d @%d", ErrNegativeLength, n, r.pos)
		return nil
	}
	if r.pos+int64(n) > int64(len(r.data)) {
		r.err = fmt.Errorf("%s: need %d bytes @%d, have %d: %w", ErrUnexpectedEndOfData, n, r.pos, r.Remaining(), io.ErrUnexpectedEOF)
		return nil
	}
	b := r.data[r.pos : r.pos+int64(n)]
	r.pos += int64(n)
	return b
}

// Skip advances over n bytes
func (r *Reader) Skip(n int) {
	r.take(n)
}

// Bytes returns the next n bytes. The slice aliases the underlying buffer.
func (r *Reader) Bytes(n int) []byte {
	return r.take(n)
}

// U8 reads one byte
func (r *Reader) U8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// U16 reads a uint16 in little-endian format
func (r *Reader) U16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U32 reads a uint32 in little-endian format
func (r *Reader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// I32 reads an int32 in little-endian format
func (r *Reader) I32() int32 {
	return int32(r.U32())
}

// F32 reads a float32 in little-endian format
func (r *Reader) F32() float32 {
	return math.Float32frombits(r.U32())
}

// F32s reads n consecutive float32 values
func (r *Reader) F32s(n int) []float32 {
	b := r.take(n * 4)
	if b == nil {
		return nil
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

// PeekU32 reads a uint32 without advancing. ok is false if fewer than 4 bytes remain.
func (r *Reader) PeekU32() (value uint32, ok bool) {
	if r.err != nil || r.Remaining() < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(r.data[r.pos:]), true
}

// NullTerminatedString reads up to and including the next NUL byte.
// A missing terminator reads to the end of the buffer.
func (r *Reader) NullTerminatedString() string {
	if r.err != nil {
		return ""
	}
	rest := r.data[r.pos:]
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		r.pos += int64(len(rest))
		return DecodeString(rest)
	}
	r.pos += int64(end) + 1
	return DecodeString(rest[:end])
}

// FixedString reads exactly n bytes and returns the text before the first NUL
func (r *Reader) FixedString(n int) string {
	b := r.take(n)
	if b == nil {
		return ""
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return DecodeString(b)
}

// DecodeString converts Windows-1252 bytes to UTF-8. ASCII is unchanged.
func DecodeString(b []byte) string {
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "?")
	}
	return string(decoded)
}
