// Package pkg decodes chunked solid list mesh containers and exports them.
// This file contains the YAML exporter and the file processor.
package pkg

import (
	"fmt"
	"io"
	"os"

	"github.com/hansbonini/solidtools/pkg/common"
	"gopkg.in/yaml.v3"
)

// SolidListYAML is the exported form of one solid list
type SolidListYAML struct {
	ClassType       string            `yaml:"class_type"`
	PipelinePath    string            `yaml:"pipeline_path"`
	DeclaredObjects int               `yaml:"declared_objects"`
	Objects         []SolidObjectYAML `yaml:"objects"`
}

// SolidObjectYAML is the exported form of one solid object
type SolidObjectYAML struct {
	Name             string         `yaml:"name"`
	Hash             string         `yaml:"hash"`
	Compressed       bool           `yaml:"compressed,omitempty"`
	EnableTransform  bool           `yaml:"enable_transform"`
	RotationOverride *float32       `yaml:"rotation_override,omitempty"`
	MinPoint         Vector4        `yaml:"min_point,flow"`
	MaxPoint         Vector4        `yaml:"max_point,flow"`
	Transform        [4][4]float32  `yaml:"transform,flow"`
	Flags            string         `yaml:"flags"`
	HasNormals       bool           `yaml:"has_normals"`
	NumTris          uint32         `yaml:"num_tris"`
	NumVerts         uint32         `yaml:"num_verts"`
	NumIndices       uint32         `yaml:"num_indices"`
	VertexStreams    uint32         `yaml:"vertex_streams"`
	TextureHashes    []string       `yaml:"texture_hashes,flow"`
	Materials        []MaterialYAML `yaml:"materials"`
	VertexBuffers    []int          `yaml:"vertex_buffer_floats,flow"`
	Faces            int            `yaml:"faces"`
}

// MaterialYAML is the exported form of one material
type MaterialYAML struct {
	Name          string `yaml:"name"`
	TextureIndex  int    `yaml:"texture_index"`
	TextureHash   string `yaml:"texture_hash"`
	SecondaryHash string `yaml:"secondary_hash,omitempty"`
	VertexStream  int    `yaml:"vertex_stream"`
	NumTris       uint32 `yaml:"num_tris"`
	NumVerts      uint32 `yaml:"num_verts"`
}

func hexHash(v uint32) string {
	return fmt.Sprintf("0x%08X", v)
}

// SolidListExporter converts decoded solid lists to YAML
type SolidListExporter struct{}

// NewSolidListExporter creates a new exporter instance
func NewSolidListExporter() *SolidListExporter {
	return &SolidListExporter{}
}

// ToYAML builds the exported form of a list
func (e *SolidListExporter) ToYAML(list *SolidList) SolidListYAML {
	out := SolidListYAML{
		ClassType:       list.ClassType,
		PipelinePath:    list.PipelinePath,
		DeclaredObjects: list.ObjectCount,
		Objects:         make([]SolidObjectYAML, 0, len(list.Objects)),
	}
	for _, o := range list.Objects {
		out.Objects = append(out.Objects, e.objectToYAML(o))
	}
	return out
}

func (e *SolidListExporter) objectToYAML(o *SolidObject) SolidObjectYAML {
	y := SolidObjectYAML{
		Name:             o.Name,
		Hash:             hexHash(o.Hash),
		Compressed:       o.IsCompressed,
		EnableTransform:  o.EnableTransform,
		RotationOverride: o.RotationOverride,
		MinPoint:         o.MinPoint,
		MaxPoint:         o.MaxPoint,
		Flags:            hexHash(o.MeshDescriptor.Flags),
		HasNormals:       o.MeshDescriptor.HasNormals,
		NumTris:          o.MeshDescriptor.NumTris,
		NumVerts:         o.MeshDescriptor.NumVerts,
		NumIndices:       o.MeshDescriptor.NumIndices,
		VertexStreams:    o.MeshDescriptor.NumVertexStreams,
		TextureHashes:    make([]string, 0, len(o.TextureHashes)),
		Materials:        make([]MaterialYAML, 0, len(o.Materials)),
		VertexBuffers:    make([]int, 0, len(o.VertexBuffers)),
		Faces:            len(o.Faces),
	}
	for i := range y.Transform {
		y.Transform[i] = o.Transform.Row(i)
	}
	for _, h := range o.TextureHashes {
		y.TextureHashes = append(y.TextureHashes, hexHash(h))
	}
	for _, m := range o.Materials {
		mat := MaterialYAML{
			Name:         m.Name,
			TextureIndex: m.TextureIndex,
			TextureHash:  hexHash(m.TextureHash),
			VertexStream: m.VertexStreamIndex,
			NumTris:      m.NumTris,
			NumVerts:     m.NumVerts,
		}
		if m.SecondaryHash != 0 {
			mat.SecondaryHash = hexHash(m.SecondaryHash)
		}
		y.Materials = append(y.Materials, mat)
	}
	for _, vb := range o.VertexBuffers {
		y.VertexBuffers = append(y.VertexBuffers, len(vb.Data))
	}
	return y
}

// ExportYAML writes one list as a YAML document
func (e *SolidListExporter) ExportYAML(list *SolidList, writer io.Writer) error {
	return e.ExportListsYAML([]*SolidList{list}, writer)
}

// ExportListsYAML writes each list as its own YAML document
func (e *SolidListExporter) ExportListsYAML(lists []*SolidList, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)

	for _, list := range lists {
		if err := encoder.Encode(e.ToYAML(list)); err != nil {
			return common.FormatError(common.ErrFailedToEncodeYAML, err)
		}
	}
	if err := encoder.Close(); err != nil {
		return common.FormatError(common.ErrFailedToEncodeYAML, err)
	}
	return nil
}

// ExportToFile writes the lists to a YAML file at path
func (e *SolidListExporter) ExportToFile(lists []*SolidList, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return common.FormatError(common.ErrFailedToCreateOutputFile, err)
	}
	defer file.Close()

	if err := e.ExportListsYAML(lists, file); err != nil {
		return err
	}

	objects := 0
	for _, list := range lists {
		objects += len(list.Objects)
	}
	common.LogInfo(common.InfoSolidListExported, objects, path)
	return nil
}

// SolidListFileProcessor combines decoder and exporter functionality
type SolidListFileProcessor struct {
	*SolidListDecoder
	*SolidListExporter
}

// NewSolidListProcessor creates a processor decoding with the given profile
func NewSolidListProcessor(profile *Profile) *SolidListFileProcessor {
	return &SolidListFileProcessor{
		SolidListDecoder:  NewSolidListDecoder(profile),
		SolidListExporter: NewSolidListExporter(),
	}
}

// DecodeInputFile reads a file and decodes every solid list it contains
func (p *SolidListFileProcessor) DecodeInputFile(inputFile string) ([]*SolidList, error) {
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadInputFile, err)
	}

	lists, err := p.DecodeFile(data)
	if err != nil {
		return nil, err
	}
	common.LogInfo(common.InfoSolidListsFound, len(lists), inputFile)
	return lists, nil
}

// Process decodes every solid list in inputFile and exports them to outputFile
func (p *SolidListFileProcessor) Process(inputFile, outputFile string) error {
	lists, err := p.DecodeInputFile(inputFile)
	if err != nil {
		return err
	}
	return p.ExportToFile(lists, outputFile)
}
