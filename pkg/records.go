package pkg

import (
	"encoding/binary"

	"github.com/hansbonini/solidtools/pkg/common"
)

// Fixed record sizes
const (
	listInfoSize                  = 0x70
	underground2HeaderSize        = 164
	mostWantedHeaderSize          = 160
	proStreetHeaderSize           = 184
	underground2NameSize          = 0x1C
	underground2DescriptorSize    = 84
	mostWantedDescriptorSize      = 48
	proStreetDescriptorSize       = 56
	underground2ShadingSize       = 60
	mostWantedShadingSize         = 104
	proStreetShadingSize          = 128
	proStreetTestTrackShadingSize = 128
	compressedOffsetSize          = 0x18
	compressBlockHeaderSize       = 0x18
)

type listInfoRecord struct {
	Marker       uint32
	NumObjects   int32
	PipelinePath string
	ClassType    string
}

type objectHeaderRecord struct {
	Hash         uint32
	NumTris      uint32
	TextureCount uint8
	ShaderCount  uint8
	BoundsMin    Vector4
	BoundsMax    Vector4
	Transform    Matrix4
}

type descriptorRecord struct {
	Flags            uint32
	NumMats          uint32
	NumVertexStreams uint32
	NumIndices       uint32
	NumTris          uint32
	NumVerts         uint32
}

type shadingGroupRecord struct {
	Bounds        *BoundingBox
	Flags         uint32
	NumTris       uint32
	NumIndices    uint32
	NumVerts      uint32
	TextureIndex  int
	ShaderIndex   uint32
	StreamMarker  uint32
	SecondaryHash uint32
	// ZeroStride is set when a stride-derived vertex count had no stride
	ZeroStride bool
}

type compressedOffsetRecord struct {
	ObjectHash     uint32
	Offset         uint32
	CompressedSize uint32
	OutSize        uint32
}

type compressBlockHeader struct {
	Magic          uint32
	OutSize        uint32
	TotalBlockSize uint32
}

func readVector3(r *common.Reader) Vector3 {
	return Vector3{r.F32(), r.F32(), r.F32()}
}

func readVector4(r *common.Reader) Vector4 {
	return Vector4{r.F32(), r.F32(), r.F32(), r.F32()}
}

func readMatrix4(r *common.Reader) Matrix4 {
	var m Matrix4
	for i := range m {
		m[i] = r.F32()
	}
	return m
}

// decodeListInfo reads the list info record shared by every title
func decodeListInfo(r *common.Reader) listInfoRecord {
	var info listInfoRecord
	r.Skip(8) // reserved
	info.Marker = r.U32()
	info.NumObjects = r.I32()
	info.PipelinePath = r.FixedString(0x38)
	info.ClassType = r.FixedString(0x20)
	r.Skip(8) // reserved offset, reserved size
	return info
}

// decodeHeaderPrefix reads the fields that Underground 2 and Most Wanted share
func decodeHeaderPrefix(r *common.Reader) objectHeaderRecord {
	var h objectHeaderRecord
	r.Skip(12) // reserved
	r.Skip(4)  // reserved u32
	h.Hash = r.U32()
	h.NumTris = r.U32()
	r.Skip(1)
	h.TextureCount = r.U8()
	h.ShaderCount = r.U8()
	r.Skip(1)
	r.Skip(4)
	h.BoundsMin = readVector4(r)
	h.BoundsMax = readVector4(r)
	h.Transform = readMatrix4(r)
	r.Skip(8)  // reserved
	r.Skip(12) // two reserved u32 and one blank u32
	return h
}

func decodeUnderground2Header(r *common.Reader) objectHeaderRecord {
	h := decodeHeaderPrefix(r)
	r.Skip(16) // two reserved floats, two reserved u32
	return h
}

func decodeMostWantedHeader(r *common.Reader) objectHeaderRecord {
	h := decodeHeaderPrefix(r)
	r.Skip(12) // reserved u32, two reserved floats
	return h
}

func decodeProStreetHeader(r *common.Reader) objectHeaderRecord {
	var h objectHeaderRecord
	r.Skip(12)
	r.Skip(4)
	h.Hash = r.U32()
	h.NumTris = r.U32()
	r.Skip(4) // four reserved bytes
	r.Skip(4) // blank
	h.BoundsMin = readVector4(r)
	h.BoundsMax = readVector4(r)
	h.Transform = readMatrix4(r)
	r.Skip(32) // eight reserved u32
	r.Skip(24) // six reserved u32
	return h
}

func decodeUnderground2Descriptor(r *common.Reader) descriptorRecord {
	var d descriptorRecord
	r.Skip(12)
	d.Flags = r.U32()
	d.NumMats = r.U32()
	r.Skip(32)
	d.NumTris = r.U32()
	r.Skip(12)
	d.NumVerts = r.U32()
	r.Skip(12)

	d.NumIndices = d.NumTris * 3
	d.NumVertexStreams = 1
	return d
}

func decodeMostWantedDescriptor(r *common.Reader) descriptorRecord {
	var d descriptorRecord
	r.Skip(12)
	d.Flags = r.U32()
	d.NumMats = r.U32()
	r.Skip(4)
	d.NumVertexStreams = r.U32()
	r.Skip(16)
	d.NumIndices = r.U32()
	return d
}

func decodeProStreetDescriptor(r *common.Reader) descriptorRecord {
	var d descriptorRecord
	r.Skip(12)
	d.Flags = r.U32()
	d.NumMats = r.U32()
	r.Skip(4)
	d.NumVertexStreams = r.U32()
	r.Skip(12)
	d.NumTris = r.U32()
	d.NumIndices = r.U32()
	r.Skip(8)
	return d
}

func decodeUnderground2ShadingGroup(r *common.Reader) shadingGroupRecord {
	var sg shadingGroupRecord
	bounds := &BoundingBox{}
	bounds.Min = readVector3(r)
	sg.NumIndices = r.U32()
	bounds.Max = readVector3(r)
	sg.Bounds = bounds
	sg.TextureIndex = int(r.U32())
	sg.ShaderIndex = r.U32()
	r.Skip(16) // four reserved u32
	r.Skip(4)  // first index offset
	sg.Flags = r.U32()

	sg.NumTris = sg.NumIndices / 3
	return sg
}

func decodeMostWantedShadingGroup(r *common.Reader) shadingGroupRecord {
	var sg shadingGroupRecord
	bounds := &BoundingBox{}
	bounds.Min = readVector3(r)
	bounds.Max = readVector3(r)
	sg.Bounds = bounds

	textureIndices := r.Bytes(4)
	if textureIndices != nil {
		sg.TextureIndex = int(textureIndices[0])
	}
	r.Skip(4) // material id

	// The stream marker sits unaligned inside an otherwise reserved range
	reserved := r.Bytes(0x18)
	if reserved != nil {
		sg.StreamMarker = binary.LittleEndian.Uint32(reserved[len(reserved)-9:])
	}

	sg.Flags = r.U32()
	sg.NumVerts = r.U32()
	sg.NumTris = r.U32()
	r.Skip(0x18)
	r.Skip(4)
	r.Skip(8)

	sg.NumIndices = sg.NumTris * 3
	return sg
}

// decodeProStreetShadingGroup reads the retail layout
func decodeProStreetShadingGroup(r *common.Reader) shadingGroupRecord {
	return decodeProStreetShading(r, false)
}

// decodeProStreetTestTrackShadingGroup reads the test track layout. Its index
// count is 16 bits wide and a trailing word keeps the record at 128 bytes.
func decodeProStreetTestTrackShadingGroup(r *common.Reader) shadingGroupRecord {
	return decodeProStreetShading(r, true)
}

func decodeProStreetShading(r *common.Reader, testTrack bool) shadingGroupRecord {
	var sg shadingGroupRecord
	r.Skip(24) // first index, reserved header words

	usage := r.Bytes(8)
	if usage != nil {
		sg.TextureIndex = int(usage[4])
	}
	r.Skip(4)
	sg.SecondaryHash = r.U32()
	sg.Flags = r.U32()
	if testTrack {
		sg.NumIndices = uint32(r.U16())
		r.Skip(2)
	} else {
		sg.NumIndices = r.U32()
		r.Skip(4)
	}
	r.Skip(24)

	vertexBufferUsage := r.U32()
	flags2 := r.Bytes(4)
	r.Skip(40)
	r.Skip(4)
	if testTrack {
		r.Skip(4)
	}

	sg.NumTris = sg.NumIndices / 3
	if flags2 != nil && flags2[2] != 0 {
		sg.NumVerts = vertexBufferUsage / uint32(flags2[2])
	} else {
		sg.ZeroStride = true
	}
	return sg
}

func decodeCompressedOffset(r *common.Reader) compressedOffsetRecord {
	var rec compressedOffsetRecord
	rec.ObjectHash = r.U32()
	rec.Offset = r.U32()
	rec.CompressedSize = r.U32()
	rec.OutSize = r.U32()
	r.Skip(8) // two reserved u32
	return rec
}

func decodeCompressBlockHeader(r *common.Reader) compressBlockHeader {
	var h compressBlockHeader
	h.Magic = r.U32()
	h.OutSize = r.U32()
	h.TotalBlockSize = r.U32()
	r.Skip(12) // three reserved u32
	return h
}
