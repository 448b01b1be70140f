package pkg

import (
	"fmt"
	"sort"

	"github.com/hansbonini/solidtools/pkg/common"
)

// StreamMode selects how materials are mapped to vertex streams
type StreamMode int

const (
	// StreamSingle maps every material to stream 0
	StreamSingle StreamMode = iota
	// StreamPerMaterial maps material j to stream j
	StreamPerMaterial
	// StreamInferred reconstructs the mapping from per-material stream markers
	StreamInferred
)

// NameEncoding selects how object names follow the object header
type NameEncoding int

const (
	// NameNullTerminated reads a NUL-terminated string
	NameNullTerminated NameEncoding = iota
	// NameFixedWidth reads a fixed buffer and trims NUL padding
	NameFixedWidth
)

// listHandler decodes one chunk at the solid list level
type listHandler func(d *SolidListDecoder, r *common.Reader, ch Chunk, list *SolidList) error

// objectHandler decodes one leaf chunk into the object under assembly
type objectHandler func(a *assembly, r *common.Reader, ch Chunk) error

// Profile describes one title's flavour of the solid list format
type Profile struct {
	Name        string
	Description string

	ObjectRootID   uint32
	ListInfoID     uint32
	ObjectHeaderID uint32
	TerminatorID   uint32
	HasTerminator  bool

	// OuterPadding enables padding-skip for leaves at the list level
	OuterPadding bool
	// ObjectPadding enables padding-skip for leaves inside objects
	ObjectPadding bool
	// FilterZeroTextures drops zero hashes from the texture table
	FilterZeroTextures bool
	// ClampTextureIndex substitutes index 0 for out-of-range texture indices
	ClampTextureIndex bool
	Streams           StreamMode
	NameEncoding      NameEncoding
	NameWidth         int
	// NormalsFlag is the descriptor flag bit announcing normals; 0 means always present
	NormalsFlag uint32
	// CompressedObjects disables the transform of objects read from compressed blocks
	CompressedObjects bool
	// RotationOverride is stamped on every object when HasRotationOverride is set
	RotationOverride    float32
	HasRotationOverride bool

	ShadingGroupSize   int
	decodeHeader       func(r *common.Reader) objectHeaderRecord
	decodeDescriptor   func(r *common.Reader) descriptorRecord
	decodeShadingGroup func(r *common.Reader) shadingGroupRecord

	listHandlers   map[uint32]listHandler
	objectHandlers map[uint32]objectHandler
}

// ListHandlerIDs returns the chunk IDs handled at the list level, sorted
func (p *Profile) ListHandlerIDs() []uint32 {
	return sortedKeys(p.listHandlers)
}

// ObjectHandlerIDs returns the chunk IDs handled inside objects, sorted
func (p *Profile) ObjectHandlerIDs() []uint32 {
	return sortedKeys(p.objectHandlers)
}

func sortedKeys[V any](m map[uint32]V) []uint32 {
	ids := make([]uint32, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// bindHandlers fills the ID tables from the profile's structural IDs
func (p *Profile) bindHandlers() *Profile {
	p.listHandlers = map[uint32]listHandler{
		p.ListInfoID:   (*SolidListDecoder).readListInfo,
		p.ObjectRootID: (*SolidListDecoder).readObjectRoot,
	}
	if p.CompressedObjects {
		p.listHandlers[CompressedTableChunk] = (*SolidListDecoder).readCompressedObjects
	}

	p.objectHandlers = map[uint32]objectHandler{
		p.ObjectHeaderID:    (*assembly).readHeader,
		TextureTableChunk:   (*assembly).readTextureTable,
		MeshDescriptorChunk: (*assembly).readDescriptor,
		ShadingGroupChunk:   (*assembly).readShadingGroups,
		VertexBufferChunk:   (*assembly).readVertexBuffer,
		FaceBlockChunk:      (*assembly).readFaces,
		MaterialNameChunk:   (*assembly).readMaterialName,
	}
	return p
}

// Underground2Profile is the title with fixed-width names and one vertex stream
var Underground2Profile = (&Profile{
	Name:               "ug2",
	Description:        "Need for Speed: Underground 2",
	ObjectRootID:       ObjectRootChunk,
	ListInfoID:         ListInfoChunk,
	ObjectHeaderID:     ObjectHeaderChunk,
	ObjectPadding:      true,
	Streams:            StreamSingle,
	NameEncoding:       NameFixedWidth,
	NameWidth:          underground2NameSize,
	NormalsFlag:        0x0080,
	ShadingGroupSize:   underground2ShadingSize,
	decodeHeader:       decodeUnderground2Header,
	decodeDescriptor:   decodeUnderground2Descriptor,
	decodeShadingGroup: decodeUnderground2ShadingGroup,
}).bindHandlers()

// MostWantedProfile is the title whose vertex-stream mapping must be inferred
var MostWantedProfile = (&Profile{
	Name:               "mw",
	Description:        "Need for Speed: Most Wanted",
	ObjectRootID:       ObjectRootChunk,
	ListInfoID:         ListInfoChunk,
	ObjectHeaderID:     ObjectHeaderChunk,
	ObjectPadding:      true,
	ClampTextureIndex:  true,
	Streams:            StreamInferred,
	NameEncoding:       NameNullTerminated,
	ShadingGroupSize:   mostWantedShadingSize,
	decodeHeader:       decodeMostWantedHeader,
	decodeDescriptor:   decodeMostWantedDescriptor,
	decodeShadingGroup: decodeMostWantedShadingGroup,
}).bindHandlers()

// ProStreetProfile is the title with compressed object blocks
var ProStreetProfile = (&Profile{
	Name:               "ps",
	Description:        "Need for Speed: ProStreet",
	ObjectRootID:       ObjectRootChunk,
	ListInfoID:         ListInfoChunk,
	ObjectHeaderID:     ObjectHeaderChunk,
	TerminatorID:       ListTerminatorChunk,
	HasTerminator:      true,
	OuterPadding:       true,
	ObjectPadding:      true,
	FilterZeroTextures: true,
	Streams:            StreamPerMaterial,
	NameEncoding:       NameNullTerminated,
	CompressedObjects:  true,
	ShadingGroupSize:   proStreetShadingSize,
	decodeHeader:       decodeProStreetHeader,
	decodeDescriptor:   decodeProStreetDescriptor,
	decodeShadingGroup: decodeProStreetShadingGroup,
}).bindHandlers()

// ProStreetTestTrackProfile is the ProStreet test track variant
var ProStreetTestTrackProfile = (&Profile{
	Name:                "ps-testtrack",
	Description:         "Need for Speed: ProStreet (test track)",
	ObjectRootID:        ObjectRootChunk,
	ListInfoID:          ListInfoChunk,
	ObjectHeaderID:      ObjectHeaderChunk,
	TerminatorID:        ListTerminatorChunk,
	HasTerminator:       true,
	OuterPadding:        true,
	ObjectPadding:       true,
	FilterZeroTextures:  true,
	Streams:             StreamPerMaterial,
	NameEncoding:        NameNullTerminated,
	CompressedObjects:   true,
	HasRotationOverride: true,
	ShadingGroupSize:    proStreetTestTrackShadingSize,
	decodeHeader:        decodeProStreetHeader,
	decodeDescriptor:    decodeProStreetDescriptor,
	decodeShadingGroup:  decodeProStreetTestTrackShadingGroup,
}).bindHandlers()

var profiles = map[string]*Profile{
	Underground2Profile.Name:       Underground2Profile,
	MostWantedProfile.Name:         MostWantedProfile,
	ProStreetProfile.Name:          ProStreetProfile,
	ProStreetTestTrackProfile.Name: ProStreetTestTrackProfile,
}

// ProfileByName returns the registered profile with the given name
func ProfileByName(name string) (*Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", common.ErrUnknownProfile, name, ProfileNames())
	}
	return p, nil
}

// ProfileNames returns the registered profile names, sorted
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
