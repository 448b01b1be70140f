package pkg

import (
	"fmt"

	"github.com/hansbonini/solidtools/pkg/common"
)

// assembly is the state of one object under construction. It lives for a
// single object-root chunk and is threaded through nested containers.
type assembly struct {
	profile *Profile
	object  *SolidObject
	// namedMaterials is the index of the next material to receive a name
	namedMaterials int
	streams        streamInference
}

// streamInference reconstructs which vertex stream each material draws from
type streamInference struct {
	lastMarker uint32
	lastIndex  int
}

// next returns the stream index of material j of a shading group holding
// numMats records, given its stream marker and the declared stream count
func (s *streamInference) next(j int, marker uint32, numMats, declaredStreams uint32) int {
	var idx int
	switch {
	case j == 0:
		idx = 0
	case numMats == declaredStreams:
		idx = j
	case marker == s.lastMarker:
		idx = s.lastIndex
	default:
		idx = s.lastIndex + 1
	}
	s.lastMarker = marker
	s.lastIndex = idx
	return idx
}

// InferStreamIndices maps an ordered sequence of per-material stream
// markers to vertex stream indices. The first material always uses stream
// 0; when the material count equals the declared stream count material j
// uses stream j; otherwise consecutive equal markers share a stream.
func InferStreamIndices(markers []uint32, declaredStreams uint32) []int {
	var s streamInference
	indices := make([]int, len(markers))
	for j, marker := range markers {
		indices[j] = s.next(j, marker, uint32(len(markers)), declaredStreams)
	}
	return indices
}

// autoMaterialName returns the placeholder name of the j-th (0-based) material
func autoMaterialName(j int) string {
	return fmt.Sprintf("Unnamed Material #%02d", j+1)
}

// assembleObject builds one object from the size bytes at r.Pos() and
// finalizes it
func (d *SolidListDecoder) assembleObject(r *common.Reader, size int64, compressed bool) (*SolidObject, error) {
	a := &assembly{
		profile: d.profile,
		object:  NewSolidObject(),
	}
	a.object.IsCompressed = compressed
	a.object.EnableTransform = !compressed

	if err := a.walk(r, size); err != nil {
		return nil, common.FormatError(common.ErrFailedToAssembleObject, err)
	}
	if err := a.finalize(); err != nil {
		return nil, common.FormatError(common.ErrFailedToAssembleObject, err)
	}

	o := a.object
	common.LogDebug(common.DebugObjectDecoded, o.Name, o.Hash, len(o.Materials), len(o.Faces), len(o.VertexBuffers))
	return o, nil
}

// walk dispatches the chunks of one range. Nested containers continue the
// same object.
func (a *assembly) walk(r *common.Reader, size int64) error {
	return walkChunks(r, size, func(ch Chunk) error {
		if ch.IsContainer() {
			return a.walk(r, int64(ch.Size))
		}
		if a.profile.ObjectPadding {
			skipPadding(r, &ch)
		}

		handler, ok := a.profile.objectHandlers[ch.ID]
		if !ok {
			common.LogDebug(common.DebugUnknownChunk, ch.ID, ch.Size, ch.Start)
			return nil
		}
		if err := handler(a, r, ch); err != nil {
			return fmt.Errorf("chunk 0x%08X @%d: %w", ch.ID, ch.Start, err)
		}
		return nil
	})
}

func (a *assembly) readHeader(r *common.Reader, ch Chunk) error {
	a.namedMaterials = 0
	a.streams = streamInference{}

	h := a.profile.decodeHeader(r)
	var name string
	switch a.profile.NameEncoding {
	case NameFixedWidth:
		name = r.FixedString(a.profile.NameWidth)
	default:
		name = r.NullTerminatedString()
	}
	if err := r.Err(); err != nil {
		return common.FormatError(common.ErrFailedToReadObjectHeader, err)
	}

	o := a.object
	o.Name = name
	o.Hash = h.Hash
	o.MinPoint = h.BoundsMin
	o.MaxPoint = h.BoundsMax
	o.Transform = h.Transform
	o.NumTris = h.NumTris
	o.NumTextures = uint32(h.TextureCount)
	o.NumShaders = uint32(h.ShaderCount)
	return nil
}

// readTextureTable reads 8-byte records of which only the first 4 bytes
// (the hash) are kept
func (a *assembly) readTextureTable(r *common.Reader, ch Chunk) error {
	count := int(ch.Usable / 8)
	for j := 0; j < count; j++ {
		hash := r.U32()
		r.Skip(4)
		if a.profile.FilterZeroTextures && hash == 0 {
			continue
		}
		a.object.TextureHashes = append(a.object.TextureHashes, hash)
	}
	if err := r.Err(); err != nil {
		return common.FormatError(common.ErrFailedToReadTextureTable, err)
	}
	return nil
}

func (a *assembly) readDescriptor(r *common.Reader, ch Chunk) error {
	d := a.profile.decodeDescriptor(r)
	if err := r.Err(); err != nil {
		return common.FormatError(common.ErrFailedToReadDescriptor, err)
	}

	hasNormals := true
	if a.profile.NormalsFlag != 0 {
		hasNormals = d.Flags&a.profile.NormalsFlag != 0
	}

	a.object.MeshDescriptor = MeshDescriptor{
		Flags:            d.Flags,
		HasNormals:       hasNormals,
		NumIndices:       d.NumIndices,
		NumMats:          d.NumMats,
		NumVertexStreams: d.NumVertexStreams,
		NumTris:          d.NumTris,
	}
	return nil
}

func (a *assembly) readShadingGroups(r *common.Reader, ch Chunk) error {
	size := a.profile.ShadingGroupSize
	if int(ch.Usable)%size != 0 {
		return common.Corrupt(common.ErrShadingGroupSizeMismatch, "payload %d, record %d", ch.Usable, size)
	}
	numMats := int(ch.Usable) / size
	o := a.object

	for j := 0; j < numMats; j++ {
		sg := a.profile.decodeShadingGroup(r)
		if err := r.Err(); err != nil {
			return common.FormatError(common.ErrFailedToReadShadingGroup, err)
		}

		hash, err := a.resolveTexture(sg.TextureIndex)
		if err != nil {
			return fmt.Errorf("material %d: %w", j, err)
		}

		material := Material{
			Flags:         sg.Flags,
			NumTris:       sg.NumTris,
			NumIndices:    sg.NumIndices,
			NumVerts:      sg.NumVerts,
			Bounds:        sg.Bounds,
			Name:          autoMaterialName(j),
			TextureIndex:  sg.TextureIndex,
			TextureHash:   hash,
			ShaderIndex:   sg.ShaderIndex,
			SecondaryHash: sg.SecondaryHash,
		}

		switch a.profile.Streams {
		case StreamPerMaterial:
			material.VertexStreamIndex = j
		case StreamInferred:
			material.VertexStreamIndex = a.streams.next(j, sg.StreamMarker, uint32(numMats), o.MeshDescriptor.NumVertexStreams)
		default:
			material.VertexStreamIndex = 0
		}

		if sg.ZeroStride {
			common.LogWarn(common.WarnZeroVertexStride, j)
		}

		o.Materials = append(o.Materials, material)
		o.MeshDescriptor.NumVerts += sg.NumVerts
	}
	return nil
}

// resolveTexture looks up a material's texture hash in the object's table
func (a *assembly) resolveTexture(index int) (uint32, error) {
	hashes := a.object.TextureHashes
	if index >= 0 && index < len(hashes) {
		return hashes[index], nil
	}
	if a.profile.ClampTextureIndex && len(hashes) > 0 {
		common.LogDebug(common.DebugTextureIndexClamped, index, len(hashes))
		return hashes[0], nil
	}
	return 0, common.Corrupt(common.ErrTextureIndexOutOfRange, "index %d, table size %d", index, len(hashes))
}

func (a *assembly) readVertexBuffer(r *common.Reader, ch Chunk) error {
	data := r.F32s(int(ch.Usable / 4))
	if err := r.Err(); err != nil {
		return common.FormatError(common.ErrFailedToReadVertexBuffer, err)
	}
	a.object.VertexBuffers = append(a.object.VertexBuffers, VertexBuffer{Data: data})
	return nil
}

// readFaces splits the object's single index block into the materials'
// triangle runs, in material order
func (a *assembly) readFaces(r *common.Reader, ch Chunk) error {
	o := a.object
	total := o.TotalTris()
	if int64(total)*6 > int64(ch.Usable) {
		return common.Corrupt(common.ErrFaceBlockTooShort, "%d triangles need %d bytes, payload %d", total, total*6, ch.Usable)
	}

	faces := make([]Face, total)
	next := 0
	for _, m := range o.Materials {
		for k := 0; k < int(m.NumTris); k++ {
			v1 := r.U16()
			v2 := r.U16()
			v3 := r.U16()
			faces[next] = Face{Vtx1: v1, Vtx2: v2, Vtx3: v3}
			next++
		}
	}
	if err := r.Err(); err != nil {
		return common.FormatError(common.ErrFailedToReadFaces, err)
	}

	o.Faces = faces
	o.hasFaces = true
	return nil
}

// readMaterialName names the next unnamed material. Empty payloads are no-ops.
func (a *assembly) readMaterialName(r *common.Reader, ch Chunk) error {
	if ch.Usable == 0 {
		return nil
	}
	name := r.NullTerminatedString()
	if err := r.Err(); err != nil {
		return common.FormatError(common.ErrFailedToReadMaterialName, err)
	}

	if a.namedMaterials >= len(a.object.Materials) {
		common.LogWarn(common.WarnUnmatchedMaterialName, name, a.namedMaterials)
		a.namedMaterials++
		return nil
	}
	a.object.Materials[a.namedMaterials].Name = name
	a.namedMaterials++
	return nil
}

// finalize runs once per object, after every chunk has been handled.
// Naming an unnamed object after its hash and replacing a zero transform
// with identity are normalizations of this decoder, not part of the format.
func (a *assembly) finalize() error {
	o := a.object
	if o.Name == "" {
		o.Name = fmt.Sprintf("%08X", o.Hash)
	}
	if o.Transform.IsZero() {
		o.Transform = IdentityMatrix()
	}
	if o.hasFaces && len(o.Faces) != o.TotalTris() {
		return common.Corrupt(common.ErrFaceCountMismatch, "%d faces, materials hold %d triangles", len(o.Faces), o.TotalTris())
	}
	if a.profile.HasRotationOverride {
		rotation := a.profile.RotationOverride
		o.RotationOverride = &rotation
	}
	return nil
}
