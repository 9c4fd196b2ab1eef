package scene

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/geometry"
	"github.com/lumen-render/lumen/pkg/material"
)

// Scene files are JSON with tagged envelopes for the polymorphic parts
// (shapes, materials). Files ending in .gz are gzip-compressed.

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type objectFile struct {
	Tag   string   `json:"tag,omitempty"`
	Shape envelope `json:"shape"`
}

type voxelMapFile struct {
	Width  int              `json:"width"`
	Height int              `json:"height"`
	Depth  int              `json:"depth"`
	Voxels []material.Voxel `json:"voxels"`
}

type sceneFile struct {
	Camera    Camera       `json:"camera"`
	Root      envelope     `json:"root"`
	Materials []envelope   `json:"materials"`
	Objects   []objectFile `json:"objects"`
}

// Save writes the scene as JSON
func (s *Scene) Save(w io.Writer) error {
	file := sceneFile{Camera: s.Camera}

	root, err := marshalMaterial(s.Materials.Root())
	if err != nil {
		return err
	}
	file.Root = root

	for i := 0; i < s.Materials.Len(); i++ {
		env, err := marshalMaterial(s.Materials.Get(core.MaterialRef(i + 1)))
		if err != nil {
			return err
		}
		file.Materials = append(file.Materials, env)
	}

	for _, object := range s.objects {
		env, err := marshalShape(object.Shape)
		if err != nil {
			return err
		}
		file.Objects = append(file.Objects, objectFile{Tag: object.Tag, Shape: env})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(&file)
}

// Load reads a scene written by Save
func Load(r io.Reader) (*Scene, error) {
	var file sceneFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("scene: decode: %w", err)
	}

	root, err := unmarshalMaterial(file.Root)
	if err != nil {
		return nil, err
	}

	s := New()
	s.Camera = file.Camera
	s.Materials = material.WithRoot(root)

	for _, env := range file.Materials {
		mat, err := unmarshalMaterial(env)
		if err != nil {
			return nil, err
		}
		s.Materials.Add(mat)
	}

	for _, object := range file.Objects {
		shape, err := unmarshalShape(object.Shape)
		if err != nil {
			return nil, err
		}
		s.Add(&Object{Tag: object.Tag, Shape: shape})
	}

	return s, nil
}

// SaveFile writes the scene to a file, gzip-compressed when the path
// ends in .gz
func (s *Scene) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".gz") {
		zw := gzip.NewWriter(f)
		if err := s.Save(zw); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("scene: %w", err)
		}
		return f.Close()
	}

	if err := s.Save(f); err != nil {
		return err
	}
	return f.Close()
}

// LoadFile reads a scene from a file, transparently decompressing .gz
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
		defer zr.Close()
		return Load(zr)
	}

	return Load(f)
}

func marshalShape(shape core.Primitive) (envelope, error) {
	var kind string
	switch shape.(type) {
	case *geometry.Sphere:
		kind = "sphere"
	case *geometry.Rect:
		kind = "rect"
	case *geometry.Cuboid:
		kind = "cuboid"
	default:
		return envelope{}, fmt.Errorf("scene: cannot serialize shape %T", shape)
	}

	data, err := json.Marshal(shape)
	if err != nil {
		return envelope{}, fmt.Errorf("scene: encode %s: %w", kind, err)
	}
	return envelope{Type: kind, Data: data}, nil
}

func unmarshalShape(env envelope) (core.Primitive, error) {
	var shape core.Primitive
	switch env.Type {
	case "sphere":
		shape = &geometry.Sphere{}
	case "rect":
		shape = &geometry.Rect{}
	case "cuboid":
		shape = &geometry.Cuboid{}
	default:
		return nil, fmt.Errorf("scene: unknown shape type %q", env.Type)
	}

	if err := json.Unmarshal(env.Data, shape); err != nil {
		return nil, fmt.Errorf("scene: decode %s: %w", env.Type, err)
	}
	return shape, nil
}

func marshalMaterial(mat material.Material) (envelope, error) {
	var kind string
	var data []byte
	var err error

	switch m := mat.(type) {
	case *material.Diffuse:
		kind = "diffuse"
		data, err = json.Marshal(m)
	case *material.Metallic:
		kind = "metallic"
		data, err = json.Marshal(m)
	case *material.Glass:
		kind = "glass"
		data, err = json.Marshal(m)
	case *material.Emissive:
		kind = "emissive"
		data, err = json.Marshal(m)
	case *material.Volume:
		kind = "volume"
		width, height, depth := m.Map.Dimensions()
		data, err = json.Marshal(&voxelMapFile{
			Width:  width,
			Height: height,
			Depth:  depth,
			Voxels: m.Map.Buffer(),
		})
	default:
		return envelope{}, fmt.Errorf("scene: cannot serialize material %T", mat)
	}

	if err != nil {
		return envelope{}, fmt.Errorf("scene: encode %s: %w", kind, err)
	}
	return envelope{Type: kind, Data: data}, nil
}

func unmarshalMaterial(env envelope) (material.Material, error) {
	var mat material.Material
	switch env.Type {
	case "diffuse":
		mat = &material.Diffuse{}
	case "metallic":
		mat = &material.Metallic{}
	case "glass":
		mat = &material.Glass{}
	case "emissive":
		mat = &material.Emissive{}
	case "volume":
		var file voxelMapFile
		if err := json.Unmarshal(env.Data, &file); err != nil {
			return nil, fmt.Errorf("scene: decode volume: %w", err)
		}
		voxelMap := material.NewVoxelMap(file.Width, file.Height, file.Depth, file.Voxels)
		return material.NewVolume(voxelMap), nil
	default:
		return nil, fmt.Errorf("scene: unknown material type %q", env.Type)
	}

	if err := json.Unmarshal(env.Data, mat); err != nil {
		return nil, fmt.Errorf("scene: decode %s: %w", env.Type, err)
	}
	return mat, nil
}
