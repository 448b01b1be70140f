package pkg

import (
	"fmt"
	"io"
)

// Chunk IDs shared by every profile
const (
	SolidListChunk       uint32 = 0x80134000
	ObjectRootChunk      uint32 = 0x80134010
	ListInfoChunk        uint32 = 0x00134002
	CompressedTableChunk uint32 = 0x00134004
	ObjectHeaderChunk    uint32 = 0x00134011
	TextureTableChunk    uint32 = 0x00134012
	MeshDescriptorChunk  uint32 = 0x00134900
	VertexBufferChunk    uint32 = 0x00134B01
	ShadingGroupChunk    uint32 = 0x00134B02
	FaceBlockChunk       uint32 = 0x00134B03
	MaterialNameChunk    uint32 = 0x00134C02
	ListTerminatorChunk  uint32 = 0x55441122

	// ContainerFlag marks chunks whose payload is itself a chunk sequence
	ContainerFlag uint32 = 0x80000000
	// PaddingWord fills the start of aligned leaf payloads
	PaddingWord uint32 = 0x11111111
)

// Vector3 is an x, y, z triple
type Vector3 [3]float32

// Vector4 is an x, y, z, w quadruple. W is usually unused.
type Vector4 [4]float32

// Matrix4 is a 4×4 matrix stored row-major
type Matrix4 [16]float32

// IdentityMatrix returns the 4×4 identity
func IdentityMatrix() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Row returns row i of the matrix
func (m Matrix4) Row(i int) [4]float32 {
	return [4]float32{m[i*4], m[i*4+1], m[i*4+2], m[i*4+3]}
}

// IsZero reports whether every element is zero
func (m Matrix4) IsZero() bool {
	return m == Matrix4{}
}

// BoundingBox is an axis-aligned box
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// Face holds three vertex indices
type Face struct {
	Vtx1, Vtx2, Vtx3 uint16
}

// VertexBuffer is one raw, interleaved vertex stream.
// Attribute layout is left to consumers.
type VertexBuffer struct {
	Data []float32
}

// MeshDescriptor summarises the mesh of one object
type MeshDescriptor struct {
	Flags            uint32
	HasNormals       bool
	NumIndices       uint32
	NumMats          uint32
	NumVertexStreams uint32
	NumTris          uint32
	// NumVerts accumulates material vertex counts as shading groups are read
	NumVerts uint32
}

// Material is one decoded shading group
type Material struct {
	Flags             uint32
	NumTris           uint32
	NumIndices        uint32
	NumVerts          uint32
	Bounds            *BoundingBox
	Name              string
	TextureIndex      int
	TextureHash       uint32
	ShaderIndex       uint32
	VertexStreamIndex int
	// SecondaryHash is only carried by some profiles; zero otherwise
	SecondaryHash uint32
}

// SolidObject is one mesh unit of a solid list
type SolidObject struct {
	Name           string
	Hash           uint32
	MinPoint       Vector4
	MaxPoint       Vector4
	Transform      Matrix4
	NumTris        uint32
	NumShaders     uint32
	NumTextures    uint32
	TextureHashes  []uint32
	MeshDescriptor MeshDescriptor
	Materials      []Material
	VertexBuffers  []VertexBuffer
	Faces          []Face

	IsCompressed    bool
	EnableTransform bool
	// RotationOverride replaces the object's rotation when set
	RotationOverride *float32

	hasFaces bool
}

// NewSolidObject creates an empty object with transforms enabled
func NewSolidObject() *SolidObject {
	return &SolidObject{
		Transform:       IdentityMatrix(),
		EnableTransform: true,
	}
}

// TotalTris returns the sum of the materials' triangle counts
func (o *SolidObject) TotalTris() int {
	total := 0
	for _, m := range o.Materials {
		total += int(m.NumTris)
	}
	return total
}

// String returns a short description of the object
func (o *SolidObject) String() string {
	return fmt.Sprintf("%s (0x%08X): %d materials, %d faces, %d vertex buffers",
		o.Name, o.Hash, len(o.Materials), len(o.Faces), len(o.VertexBuffers))
}

// SolidList is a decoded solid list container
type SolidList struct {
	ClassType    string
	PipelinePath string
	// ObjectCount is the count declared by the list info chunk
	ObjectCount int
	Objects     []*SolidObject
}

// SolidListReader decodes solid lists from raw chunk data
type SolidListReader interface {
	Decode(data []byte) (*SolidList, error)
	DecodeFile(data []byte) ([]*SolidList, error)
}

// SolidListWriter is the write direction. No implementation supports it.
type SolidListWriter interface {
	WriteSolidList(w io.Writer, list *SolidList) error
}

// SolidListProcessor combines decoding and export
type SolidListProcessor interface {
	SolidListReader
	ExportYAML(list *SolidList, writer io.Writer) error
	Process(inputFile string, outputFile string) error
}
