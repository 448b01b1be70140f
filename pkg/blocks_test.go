package pkg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/hansbonini/solidtools/pkg/common"
	"github.com/hansbonini/solidtools/pkg/compression"
)

func TestReassembleBlocks(t *testing.T) {
	tests := []struct {
		name   string
		blocks [][]byte
		want   []byte
	}{
		{"none", nil, nil},
		{"single", [][]byte{[]byte("abc")}, []byte("abc")},
		{"two", [][]byte{[]byte("tail"), []byte("head-")}, []byte("head-tail")},
		{"three", [][]byte{[]byte("B"), []byte("C"), []byte("A")}, []byte("ABC")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReassembleBlocks(tt.blocks)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("ReassembleBlocks() = %q, want %q", got, tt.want)
			}
		})
	}
}

func identityCodec() compression.Decompressor {
	return compression.DecompressorFunc(func(src []byte, outSize int) ([]byte, error) {
		return src, nil
	})
}

func TestReadCompressedBlocks(t *testing.T) {
	var data []byte
	data = append(data, le(t, ListTerminatorChunk, uint32(3), uint32(compressBlockHeaderSize+3), [12]byte{})...)
	data = append(data, "one"...)
	data = append(data, le(t, ListTerminatorChunk, uint32(2), uint32(compressBlockHeaderSize+2), [12]byte{})...)
	data = append(data, "xy"...)
	data = append(data, "trailing"...)

	r := common.NewReader(data)
	blocks, err := readCompressedBlocks(r, uint32(2*compressBlockHeaderSize+5), identityCodec())
	if err != nil {
		t.Fatalf("readCompressedBlocks() failed: %v", err)
	}
	if len(blocks) != 2 || string(blocks[0]) != "one" || string(blocks[1]) != "xy" {
		t.Errorf("blocks = %q", blocks)
	}
	if r.Pos() != int64(2*compressBlockHeaderSize+5) {
		t.Errorf("Pos() = %d, want %d", r.Pos(), 2*compressBlockHeaderSize+5)
	}
}

func TestReadCompressedBlocks_BlockTooSmall(t *testing.T) {
	data := le(t, ListTerminatorChunk, uint32(0), uint32(0), [12]byte{})

	_, err := readCompressedBlocks(common.NewReader(data), 100, identityCodec())
	if !errors.Is(err, common.ErrCorruptStructure) {
		t.Errorf("readCompressedBlocks() error = %v, want ErrCorruptStructure", err)
	}
}

func TestReadCompressedBlocks_Truncated(t *testing.T) {
	data := le(t, ListTerminatorChunk, uint32(16), uint32(compressBlockHeaderSize+16), [12]byte{})
	data = append(data, 1, 2, 3)

	_, err := readCompressedBlocks(common.NewReader(data), compressBlockHeaderSize+16, identityCodec())
	if err == nil {
		t.Error("readCompressedBlocks() should fail on a truncated block")
	}
}

func TestReadCompressedObjects_ZeroSizeRecord(t *testing.T) {
	table := chunkBytes(t, CompressedTableChunk,
		le(t, uint32(0x1111), uint32(0), uint32(0), uint32(0), [8]byte{}),
	)

	list, err := NewSolidListDecoder(ProStreetProfile).Decode(table)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if len(list.Objects) != 0 {
		t.Errorf("len(Objects) = %d, want 0", len(list.Objects))
	}
}

func TestReadCompressedObjects_OnlyProStreet(t *testing.T) {
	for _, p := range []*Profile{Underground2Profile, MostWantedProfile} {
		if _, ok := p.listHandlers[CompressedTableChunk]; ok {
			t.Errorf("profile %s should not handle compressed tables", p.Name)
		}
	}
	for _, p := range []*Profile{ProStreetProfile, ProStreetTestTrackProfile} {
		if _, ok := p.listHandlers[CompressedTableChunk]; !ok {
			t.Errorf("profile %s should handle compressed tables", p.Name)
		}
	}
}
