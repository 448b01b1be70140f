package pkg

import (
	"fmt"

	"github.com/hansbonini/solidtools/pkg/common"
	"github.com/hansbonini/solidtools/pkg/compression"
)

// readCompressedObjects walks the compressed object table. Each record
// points at a run of compression blocks elsewhere in the input; the
// reader returns to the table after every record.
func (d *SolidListDecoder) readCompressedObjects(r *common.Reader, ch Chunk, list *SolidList) error {
	count := int(ch.Usable) / compressedOffsetSize
	for i := 0; i < count; i++ {
		rec := decodeCompressedOffset(r)
		if err := r.Err(); err != nil {
			return common.FormatError(common.ErrFailedToReadOffsetTable, err)
		}
		resume := r.Pos()

		common.LogDebug(common.DebugCompressedRecord, rec.ObjectHash, rec.Offset, rec.CompressedSize, rec.OutSize)
		obj, err := d.readCompressedObject(r, rec)
		if err != nil {
			return fmt.Errorf("compressed object 0x%08X: %w", rec.ObjectHash, err)
		}
		if obj != nil {
			list.Objects = append(list.Objects, obj)
		}

		if err := r.Seek(resume); err != nil {
			return err
		}
	}
	return nil
}

// readCompressedObject decompresses the blocks of one record and assembles
// the object they hold. A record without blocks yields nil.
func (d *SolidListDecoder) readCompressedObject(r *common.Reader, rec compressedOffsetRecord) (*SolidObject, error) {
	if err := r.Seek(int64(rec.Offset)); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadBlockHeader, err)
	}

	blocks, err := readCompressedBlocks(r, rec.CompressedSize, d.codec)
	if err != nil {
		return nil, err
	}
	common.LogDebug(common.DebugCompressedBlocks, rec.ObjectHash, len(blocks))
	if len(blocks) == 0 {
		return nil, nil
	}

	data := ReassembleBlocks(blocks)
	return d.assembleObject(common.NewReader(data), int64(len(data)), true)
}

// readCompressedBlocks decompresses consecutive blocks until their total
// size, headers included, covers compressedSize
func readCompressedBlocks(r *common.Reader, compressedSize uint32, codec compression.Decompressor) ([][]byte, error) {
	var blocks [][]byte
	var consumed uint32

	for consumed < compressedSize {
		start := r.Pos()
		h := decodeCompressBlockHeader(r)
		if err := r.Err(); err != nil {
			return nil, common.FormatError(common.ErrFailedToReadBlockHeader, err)
		}
		if h.TotalBlockSize < compressBlockHeaderSize {
			return nil, common.Corrupt(common.ErrBlockSizeTooSmall, "block @%d declares %d bytes", start, h.TotalBlockSize)
		}

		src := r.Bytes(int(h.TotalBlockSize - compressBlockHeaderSize))
		if err := r.Err(); err != nil {
			return nil, common.FormatError(common.ErrFailedToDecompressBlock, err)
		}
		out, err := codec.Decompress(src, int(h.OutSize))
		if err != nil {
			return nil, fmt.Errorf("%s @%d: %w", common.ErrFailedToDecompressBlock, start, err)
		}

		blocks = append(blocks, out)
		consumed += h.TotalBlockSize
	}
	return blocks, nil
}

// ReassembleBlocks joins decompressed blocks into one buffer. The last
// block holds the start of the object, so it goes first; the others
// follow in their original order.
func ReassembleBlocks(blocks [][]byte) []byte {
	switch len(blocks) {
	case 0:
		return nil
	case 1:
		return blocks[0]
	}

	total := 0
	for _, b := range blocks {
		total += len(b)
	}

	last := len(blocks) - 1
	out := make([]byte, 0, total)
	out = append(out, blocks[last]...)
	for _, b := range blocks[:last] {
		out = append(out, b...)
	}
	return out
}
