// Package common provides tests for the record reader
package common

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

func TestReader_Integers(t *testing.T) {
	var buffer bytes.Buffer
	buffer.WriteByte(0x7F)
	binary.Write(&buffer, binary.LittleEndian, uint16(0x1234))
	binary.Write(&buffer, binary.LittleEndian, uint32(0x80134010))
	binary.Write(&buffer, binary.LittleEndian, int32(-2))

	r := NewReader(buffer.Bytes())

	if v := r.U8(); v != 0x7F {
		t.Errorf("U8() = 0x%X, want 0x7F", v)
	}
	if v := r.U16(); v != 0x1234 {
		t.Errorf("U16() = 0x%X, want 0x1234", v)
	}
	if v := r.U32(); v != 0x80134010 {
		t.Errorf("U32() = 0x%X, want 0x80134010", v)
	}
	if v := r.I32(); v != -2 {
		t.Errorf("I32() = %d, want -2", v)
	}
	if r.Err() != nil {
		t.Fatalf("Err() = %v, want nil", r.Err())
	}
	if r.Pos() != 11 {
		t.Errorf("Pos() = %d, want 11", r.Pos())
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", r.Remaining())
	}
}

func TestReader_Floats(t *testing.T) {
	var buffer bytes.Buffer
	for _, f := range []float32{1.5, -2.25, 0, 1024} {
		binary.Write(&buffer, binary.LittleEndian, math.Float32bits(f))
	}

	r := NewReader(buffer.Bytes())
	if v := r.F32(); v != 1.5 {
		t.Errorf("F32() = %v, want 1.5", v)
	}

	rest := r.F32s(3)
	want := []float32{-2.25, 0, 1024}
	if len(rest) != len(want) {
		t.Fatalf("len(F32s(3)) = %d, want 3", len(rest))
	}
	for i := range want {
		if rest[i] != want[i] {
			t.Errorf("F32s()[%d] = %v, want %v", i, rest[i], want[i])
		}
	}
}

func TestReader_StickyError(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})

	if v := r.U32(); v != 0 {
		t.Errorf("U32() on short data = %d, want 0", v)
	}
	if !errors.Is(r.Err(), io.ErrUnexpectedEOF) {
		t.Fatalf("Err() = %v, want io.ErrUnexpectedEOF", r.Err())
	}

	// Further reads keep the first error and do not advance
	first := r.Err()
	if v := r.U8(); v != 0 {
		t.Errorf("U8() after error = %d, want 0", v)
	}
	if r.Err() != first {
		t.Errorf("Err() changed after second read: %v", r.Err())
	}
	if r.Pos() != 0 {
		t.Errorf("Pos() = %d, want 0", r.Pos())
	}
}

func TestReader_PeekU32(t *testing.T) {
	r := NewReader([]byte{0x11, 0x11, 0x11, 0x11, 0xAA})

	v, ok := r.PeekU32()
	if !ok || v != 0x11111111 {
		t.Errorf("PeekU32() = 0x%X, %v, want 0x11111111, true", v, ok)
	}
	if r.Pos() != 0 {
		t.Errorf("PeekU32() advanced to %d", r.Pos())
	}

	r.Skip(2)
	if _, ok := r.PeekU32(); ok {
		t.Error("PeekU32() with 3 bytes remaining should report !ok")
	}
}

func TestReader_Seek(t *testing.T) {
	r := NewReader(make([]byte, 16))

	if err := r.Seek(16); err != nil {
		t.Errorf("Seek(end) failed: %v", err)
	}
	if err := r.Seek(17); err == nil {
		t.Error("Seek past end should fail")
	}
	if err := r.Seek(-1); err == nil {
		t.Error("Seek(-1) should fail")
	}

	r.ForceSeek(100)
	if r.Pos() != 16 {
		t.Errorf("ForceSeek(100) = %d, want 16", r.Pos())
	}
	r.ForceSeek(4)
	if r.Pos() != 4 {
		t.Errorf("ForceSeek(4) = %d, want 4", r.Pos())
	}
}

func TestReader_NullTerminatedString(t *testing.T) {
	r := NewReader([]byte("XO_BODY\x00rest"))

	if s := r.NullTerminatedString(); s != "XO_BODY" {
		t.Errorf("NullTerminatedString() = %q, want %q", s, "XO_BODY")
	}
	if r.Pos() != 8 {
		t.Errorf("Pos() = %d, want 8 (terminator consumed)", r.Pos())
	}

	// Missing terminator reads to the end
	if s := r.NullTerminatedString(); s != "rest" {
		t.Errorf("NullTerminatedString() = %q, want %q", s, "rest")
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", r.Remaining())
	}
}

func TestReader_FixedString(t *testing.T) {
	raw := make([]byte, 0x1C)
	copy(raw, "CAR_BODY_A")
	raw[20] = 'Z' // garbage after the terminator is ignored
	raw = append(raw, 0xFF)

	r := NewReader(raw)
	if s := r.FixedString(0x1C); s != "CAR_BODY_A" {
		t.Errorf("FixedString() = %q, want %q", s, "CAR_BODY_A")
	}
	if r.Pos() != 0x1C {
		t.Errorf("Pos() = %d, want 0x1C", r.Pos())
	}
}

func TestDecodeString_Windows1252(t *testing.T) {
	// 0xE9 is 'é' in Windows-1252
	if s := DecodeString([]byte{'C', 'a', 'f', 0xE9}); s != "Café" {
		t.Errorf("DecodeString() = %q, want %q", s, "Café")
	}
}

func TestReader_NegativeLength(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	if b := r.Bytes(-1); b != nil {
		t.Errorf("Bytes(-1) = %v, want nil", b)
	}
	if r.Err() == nil {
		t.Error("Bytes(-1) should set an error")
	}
}
