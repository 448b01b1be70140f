package pkg

import (
	"bytes"
	"encoding/binary"
	"log"
	"os"
	"testing"
)

// le encodes values little-endian
func le(t *testing.T, values ...interface{}) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, v := range values {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("Failed to write fixture value %v: %v", v, err)
		}
	}
	return buf.Bytes()
}

// chunkBytes builds one chunk whose payload is the concatenation of parts
func chunkBytes(t *testing.T, id uint32, parts ...[]byte) []byte {
	t.Helper()
	payload := bytes.Join(parts, nil)
	return append(le(t, id, uint32(len(payload))), payload...)
}

func cString(s string) []byte {
	return append([]byte(s), 0)
}

func fixedBytes(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}

// paddingWords returns n padding words
func paddingWords(n int) []byte {
	return bytes.Repeat([]byte{0x11}, n*4)
}

// captureLog redirects the standard logger until the test ends
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func listInfoChunk(t *testing.T, classType, pipeline string, objects int32) []byte {
	t.Helper()
	payload := le(t, uint64(0), uint32(0x1A), objects)
	payload = append(payload, fixedBytes(pipeline, 0x38)...)
	payload = append(payload, fixedBytes(classType, 0x20)...)
	payload = append(payload, make([]byte, 8)...)
	return chunkBytes(t, ListInfoChunk, payload)
}

type headerFixture struct {
	Hash         uint32
	NumTris      uint32
	TextureCount uint8
	ShaderCount  uint8
	Min, Max     Vector4
	Transform    Matrix4
	Name         string
}

func isProStreet(p *Profile) bool {
	return p == ProStreetProfile || p == ProStreetTestTrackProfile
}

func objectHeaderChunk(t *testing.T, p *Profile, h headerFixture) []byte {
	t.Helper()
	var payload []byte
	if isProStreet(p) {
		payload = le(t, [16]byte{}, h.Hash, h.NumTris, [8]byte{}, h.Min, h.Max, h.Transform, [56]byte{})
	} else {
		payload = le(t, [16]byte{}, h.Hash, h.NumTris, [4]uint8{0, h.TextureCount, h.ShaderCount, 0},
			uint32(0), h.Min, h.Max, h.Transform, [20]byte{})
		if p == Underground2Profile {
			payload = append(payload, make([]byte, 16)...)
		} else {
			payload = append(payload, make([]byte, 12)...)
		}
	}

	if p.NameEncoding == NameFixedWidth {
		payload = append(payload, fixedBytes(h.Name, p.NameWidth)...)
	} else {
		payload = append(payload, cString(h.Name)...)
	}
	return chunkBytes(t, p.ObjectHeaderID, payload)
}

func textureTableChunk(t *testing.T, hashes ...uint32) []byte {
	t.Helper()
	var payload []byte
	for _, h := range hashes {
		payload = append(payload, le(t, h, uint32(0))...)
	}
	return chunkBytes(t, TextureTableChunk, payload)
}

type descriptorFixture struct {
	Flags      uint32
	NumMats    uint32
	NumStreams uint32
	NumTris    uint32
	NumIndices uint32
	NumVerts   uint32
}

func descriptorChunk(t *testing.T, p *Profile, d descriptorFixture) []byte {
	t.Helper()
	var payload []byte
	switch {
	case p == Underground2Profile:
		payload = le(t, [12]byte{}, d.Flags, d.NumMats, [32]byte{}, d.NumTris, [12]byte{}, d.NumVerts, [12]byte{})
	case p == MostWantedProfile:
		payload = le(t, [12]byte{}, d.Flags, d.NumMats, uint32(0), d.NumStreams, [16]byte{}, d.NumIndices)
	default:
		payload = le(t, [12]byte{}, d.Flags, d.NumMats, uint32(0), d.NumStreams, [12]byte{}, d.NumTris, d.NumIndices, [8]byte{})
	}
	return chunkBytes(t, MeshDescriptorChunk, payload)
}

type shadingFixture struct {
	TextureIndex  uint8
	ShaderIndex   uint32
	Flags         uint32
	NumTris       uint32
	NumVerts      uint32
	Stride        uint8
	Marker        uint32
	SecondaryHash uint32
	Min, Max      Vector3
}

func shadingRecord(t *testing.T, p *Profile, s shadingFixture) []byte {
	t.Helper()
	switch {
	case p == Underground2Profile:
		return le(t, s.Min, s.NumTris*3, s.Max, uint32(s.TextureIndex), s.ShaderIndex, [16]byte{}, uint32(0), s.Flags)
	case p == MostWantedProfile:
		reserved := make([]byte, 0x18)
		binary.LittleEndian.PutUint32(reserved[15:], s.Marker)
		return le(t, s.Min, s.Max, [4]uint8{s.TextureIndex, 0, 0, 0}, uint32(0), reserved,
			s.Flags, s.NumVerts, s.NumTris, [36]byte{})
	}

	var usage [8]uint8
	usage[4] = s.TextureIndex
	var flags2 [4]uint8
	flags2[2] = s.Stride

	record := le(t, [24]byte{}, usage, uint32(0), s.SecondaryHash, s.Flags)
	if p == ProStreetTestTrackProfile {
		record = append(record, le(t, uint16(s.NumTris*3), uint16(0))...)
	} else {
		record = append(record, le(t, s.NumTris*3, uint32(0))...)
	}
	record = append(record, le(t, [24]byte{}, s.NumVerts*uint32(s.Stride), flags2, [44]byte{})...)
	if p == ProStreetTestTrackProfile {
		record = append(record, le(t, uint32(0))...)
	}
	return record
}

func shadingChunk(t *testing.T, p *Profile, groups ...shadingFixture) []byte {
	t.Helper()
	var payload []byte
	for _, s := range groups {
		payload = append(payload, shadingRecord(t, p, s)...)
	}
	return chunkBytes(t, ShadingGroupChunk, payload)
}

func vertexBufferChunk(t *testing.T, data ...float32) []byte {
	t.Helper()
	return chunkBytes(t, VertexBufferChunk, le(t, data))
}

func faceChunk(t *testing.T, indices ...uint16) []byte {
	t.Helper()
	return chunkBytes(t, FaceBlockChunk, le(t, indices))
}

func materialNameChunk(t *testing.T, name string) []byte {
	t.Helper()
	return chunkBytes(t, MaterialNameChunk, cString(name))
}

// sequentialFaces returns n triangles indexing 0, 1, 2, 3, ...
func sequentialFaces(n int) []uint16 {
	indices := make([]uint16, n*3)
	for i := range indices {
		indices[i] = uint16(i)
	}
	return indices
}
