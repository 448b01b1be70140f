package pkg

import (
	"errors"

	"github.com/hansbonini/solidtools/pkg/common"
)

// chunkHeaderSize is the id + size prefix of every chunk
const chunkHeaderSize = 8

// Chunk is one decoded chunk header
type Chunk struct {
	ID uint32
	// Size is the declared payload size
	Size uint32
	// Start is the absolute offset of the chunk header
	Start int64
	// Usable is the payload size left after padding has been skipped
	Usable uint32
}

// IsContainer reports whether the chunk's payload is a chunk sequence
func (c Chunk) IsContainer() bool {
	return c.ID&ContainerFlag != 0
}

// PayloadStart returns the absolute offset of the payload
func (c Chunk) PayloadStart() int64 {
	return c.Start + chunkHeaderSize
}

// End returns the absolute offset just past the payload
func (c Chunk) End() int64 {
	return c.Start + chunkHeaderSize + int64(c.Size)
}

// errStopRange ends the current walk without reporting an error
var errStopRange = errors.New("stop chunk range")

// walkChunks visits each chunk in the size bytes starting at r.Pos().
// After every visit the reader is forced to the chunk's declared end,
// however many bytes visit consumed. A visit returning errStopRange ends
// the walk early; the reader is then left at the end of the range.
func walkChunks(r *common.Reader, size int64, visit func(ch Chunk) error) error {
	end := r.Pos() + size

	for r.Pos() < end {
		if end-r.Pos() < chunkHeaderSize {
			common.LogDebug(common.DebugTruncatedRange, end-r.Pos(), r.Pos())
			break
		}

		ch := Chunk{Start: r.Pos()}
		ch.ID = r.U32()
		ch.Size = r.U32()
		if err := r.Err(); err != nil {
			return common.FormatError(common.ErrFailedToReadChunkHeader, err)
		}
		ch.Usable = ch.Size

		err := visit(ch)
		r.ForceSeek(ch.End())

		if errors.Is(err, errStopRange) {
			break
		}
		if err != nil {
			return err
		}
	}

	r.ForceSeek(end)
	return nil
}

// skipPadding consumes leading padding words of a leaf payload and
// shrinks ch.Usable by the padding length. The scan never passes the
// chunk's declared end, so an all-padding payload yields Usable == 0.
func skipPadding(r *common.Reader, ch *Chunk) {
	var padding uint32
	for r.Pos()+4 <= ch.End() {
		word, ok := r.PeekU32()
		if !ok || word != PaddingWord {
			break
		}
		r.Skip(4)
		padding += 4
	}

	if padding > 0 {
		common.LogDebug(common.DebugPaddingSkipped, ch.ID, padding)
	}
	ch.Usable = ch.Size - padding
}
