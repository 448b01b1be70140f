package compression

import (
	"encoding/binary"
	"fmt"

	"github.com/hansbonini/solidtools/pkg/common"
)

// Codec magics
const (
	MagicJDLZ = "JDLZ"
	MagicRAWW = "RAWW"
)

// headerSize is the size of the JDLZ and RAWW stream headers
const headerSize = 16

// jdlzDecompressor keeps the cursor state of one JDLZ stream.
// Two flag bytes drive decoding: flags1 selects literal or match,
// flags2 selects the short-distance or long-distance match form.
type jdlzDecompressor struct {
	src    []byte
	srcPos int
	dst    []byte
	dstPos int
	flags1 int
	flags2 int
}

// DecompressJDLZ decodes a JDLZ stream into exactly outSize bytes.
// The header is "JDLZ", 0x02, 0x10, two reserved bytes, the output size
// and the compressed size (both u32 little-endian).
func DecompressJDLZ(src []byte, outSize int) ([]byte, error) {
	if len(src) < headerSize || string(src[:4]) != MagicJDLZ {
		return nil, fmt.Errorf("%w: missing JDLZ header", ErrCorruptStream)
	}
	declared := int(binary.LittleEndian.Uint32(src[8:12]))
	if outSize < 0 {
		outSize = declared
	}
	if declared != outSize {
		common.LogDebug("JDLZ header declares %d bytes, block header %d", declared, outSize)
	}

	d := &jdlzDecompressor{
		src:    src,
		srcPos: headerSize,
		dst:    make([]byte, outSize),
		flags1: 1,
		flags2: 1,
	}
	if err := d.decompress(); err != nil {
		return nil, err
	}
	return d.dst, nil
}

func (d *jdlzDecompressor) decompress() error {
	for d.srcPos < len(d.src) && d.dstPos < len(d.dst) {
		if d.flags1 == 1 {
			d.flags1 = int(d.src[d.srcPos]) | 0x100
			d.srcPos++
		}
		if d.flags2 == 1 {
			if d.srcPos >= len(d.src) {
				break
			}
			d.flags2 = int(d.src[d.srcPos]) | 0x100
			d.srcPos++
		}

		if d.flags1&1 == 1 {
			if err := d.copyMatch(); err != nil {
				return err
			}
			d.flags2 >>= 1
		} else if d.srcPos < len(d.src) {
			d.dst[d.dstPos] = d.src[d.srcPos]
			d.dstPos++
			d.srcPos++
		}
		d.flags1 >>= 1
	}

	if d.dstPos < len(d.dst) {
		return fmt.Errorf("%w: JDLZ produced %d of %d bytes", ErrCorruptStream, d.dstPos, len(d.dst))
	}
	return nil
}

// copyMatch expands one back-reference
func (d *jdlzDecompressor) copyMatch() error {
	if d.srcPos+1 >= len(d.src) {
		return fmt.Errorf("%w: truncated JDLZ match @%d", ErrCorruptStream, d.srcPos)
	}
	b0, b1 := int(d.src[d.srcPos]), int(d.src[d.srcPos+1])
	d.srcPos += 2

	var length, distance int
	if d.flags2&1 == 1 {
		// short distance, long run
		length = (b1 | (b0&0xF0)<<4) + 3
		distance = (b0 & 0x0F) + 1
	} else {
		// long distance, short run
		distance = (b1 | (b0&0xE0)<<3) + 17
		length = (b0 & 0x1F) + 3
	}

	if distance > d.dstPos {
		return fmt.Errorf("%w: JDLZ match distance %d before start of output (%d)", ErrCorruptStream, distance, d.dstPos)
	}
	for i := 0; i < length && d.dstPos < len(d.dst); i++ {
		d.dst[d.dstPos] = d.dst[d.dstPos-distance]
		d.dstPos++
	}
	return nil
}

// DecompressRAWW returns the stored bytes that follow a RAWW header
func DecompressRAWW(src []byte, outSize int) ([]byte, error) {
	if len(src) < headerSize || string(src[:4]) != MagicRAWW {
		return nil, fmt.Errorf("%w: missing RAWW header", ErrCorruptStream)
	}
	body := src[headerSize:]
	if outSize < 0 {
		outSize = len(body)
	}
	if len(body) < outSize {
		return nil, fmt.Errorf("%w: RAWW holds %d of %d bytes", ErrCorruptStream, len(body), outSize)
	}
	out := make([]byte, outSize)
	copy(out, body)
	return out, nil
}
