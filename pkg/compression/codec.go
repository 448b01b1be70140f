// Package compression provides the block codecs used by compressed solid
// objects. Each compressed payload starts with a 4-byte magic naming its codec.
package compression

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCodec is returned when a payload's magic has no registered codec.
	ErrUnknownCodec = errors.New("unknown compression codec")
	// ErrCorruptStream is returned when a compressed stream cannot be decoded.
	ErrCorruptStream = errors.New("corrupt compressed stream")
)

// Decompressor turns one compressed payload into outSize bytes
type Decompressor interface {
	Decompress(src []byte, outSize int) ([]byte, error)
}

// DecompressorFunc adapts a function to the Decompressor interface
type DecompressorFunc func(src []byte, outSize int) ([]byte, error)

// Decompress calls f(src, outSize)
func (f DecompressorFunc) Decompress(src []byte, outSize int) ([]byte, error) {
	return f(src, outSize)
}

// Registry dispatches payloads to a codec by their leading magic
type Registry struct {
	codecs map[string]Decompressor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Decompressor)}
}

// DefaultRegistry returns a registry with the JDLZ and RAWW codecs
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(MagicJDLZ, DecompressorFunc(DecompressJDLZ))
	reg.Register(MagicRAWW, DecompressorFunc(DecompressRAWW))
	return reg
}

// Register binds a codec to a 4-byte magic, replacing any previous binding
func (reg *Registry) Register(magic string, codec Decompressor) {
	reg.codecs[magic] = codec
}

// Decompress selects a codec by the payload magic and runs it
func (reg *Registry) Decompress(src []byte, outSize int) ([]byte, error) {
	if len(src) < 4 {
		return nil, fmt.Errorf("%w: payload of %d bytes has no magic", ErrCorruptStream, len(src))
	}
	magic := string(src[:4])
	codec, ok := reg.codecs[magic]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, magic)
	}
	return codec.Decompress(src, outSize)
}
