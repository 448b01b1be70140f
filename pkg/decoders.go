package pkg

import (
	"errors"
	"fmt"
	"io"

	"github.com/hansbonini/solidtools/pkg/common"
	"github.com/hansbonini/solidtools/pkg/compression"
)

// SolidListDecoder implements the SolidListReader interface for one profile
type SolidListDecoder struct {
	profile *Profile
	codec   compression.Decompressor
}

// NewSolidListDecoder creates a decoder for the given profile using the
// default block codecs
func NewSolidListDecoder(profile *Profile) *SolidListDecoder {
	return &SolidListDecoder{
		profile: profile,
		codec:   compression.DefaultRegistry(),
	}
}

// WithCodec replaces the codec used for compressed object blocks
func (d *SolidListDecoder) WithCodec(codec compression.Decompressor) *SolidListDecoder {
	d.codec = codec
	return d
}

// Profile returns the decoder's format profile
func (d *SolidListDecoder) Profile() *Profile {
	return d.profile
}

// Decode treats the whole buffer as the payload of one solid list container
func (d *SolidListDecoder) Decode(data []byte) (*SolidList, error) {
	return d.DecodeAt(common.NewReader(data), int64(len(data)))
}

// DecodeAt decodes a solid list whose payload occupies size bytes at
// r.Pos(). The reader is left at the end of that range.
func (d *SolidListDecoder) DecodeAt(r *common.Reader, size int64) (*SolidList, error) {
	list := &SolidList{}
	if err := d.readChunks(r, size, list); err != nil {
		return nil, common.FormatError(common.ErrFailedToDecodeSolidList, err)
	}

	if list.ObjectCount != len(list.Objects) {
		common.LogDebug(common.DebugObjectCountMismatch, list.ObjectCount, len(list.Objects))
	}
	common.LogInfo(common.InfoSolidListDecoded, list.ClassType, len(list.Objects), list.ObjectCount)
	return list, nil
}

// DecodeFile scans a chunked file for solid list containers, descending
// into other containers, and decodes every list it finds
func (d *SolidListDecoder) DecodeFile(data []byte) ([]*SolidList, error) {
	r := common.NewReader(data)
	var lists []*SolidList

	var scan func(size int64) error
	scan = func(size int64) error {
		return walkChunks(r, size, func(ch Chunk) error {
			switch {
			case ch.ID == SolidListChunk:
				list, err := d.DecodeAt(r, int64(ch.Size))
				if err != nil {
					return fmt.Errorf("solid list @%d: %w", ch.Start, err)
				}
				lists = append(lists, list)
			case ch.IsContainer():
				return scan(int64(ch.Size))
			}
			return nil
		})
	}

	if err := scan(int64(len(data))); err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return nil, errors.New(common.ErrNoSolidListFound)
	}
	return lists, nil
}

// WriteSolidList is the write direction, which no profile supports
func (d *SolidListDecoder) WriteSolidList(w io.Writer, list *SolidList) error {
	return common.ErrWriteUnsupported
}

// readChunks walks one range at the list level
func (d *SolidListDecoder) readChunks(r *common.Reader, size int64, list *SolidList) error {
	p := d.profile
	return walkChunks(r, size, func(ch Chunk) error {
		if p.HasTerminator && ch.ID == p.TerminatorID {
			common.LogDebug(common.DebugTerminatorReached, ch.ID, ch.Start)
			return errStopRange
		}
		if ch.IsContainer() && ch.ID != p.ObjectRootID {
			return d.readChunks(r, int64(ch.Size), list)
		}
		if !ch.IsContainer() && p.OuterPadding {
			skipPadding(r, &ch)
		}

		handler, ok := p.listHandlers[ch.ID]
		if !ok {
			common.LogDebug(common.DebugUnknownChunk, ch.ID, ch.Size, ch.Start)
			return nil
		}
		return handler(d, r, ch, list)
	})
}

func (d *SolidListDecoder) readListInfo(r *common.Reader, ch Chunk, list *SolidList) error {
	info := decodeListInfo(r)
	if err := r.Err(); err != nil {
		return common.FormatError(common.ErrFailedToReadListInfo, err)
	}

	list.ClassType = info.ClassType
	list.PipelinePath = info.PipelinePath
	list.ObjectCount = int(info.NumObjects)
	common.LogDebug(common.DebugListInfo, list.ClassType, list.PipelinePath, list.ObjectCount)
	return nil
}

func (d *SolidListDecoder) readObjectRoot(r *common.Reader, ch Chunk, list *SolidList) error {
	obj, err := d.assembleObject(r, int64(ch.Size), false)
	if err != nil {
		return fmt.Errorf("object @%d: %w", ch.Start, err)
	}
	list.Objects = append(list.Objects, obj)
	return nil
}
