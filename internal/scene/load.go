package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/meshkit/pkg/formats"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// loadOBJ converts each OBJ object into a mesh. Mesh vertices are unified
// per (position, normal) pair; if any corner of an object lacks a normal the
// object's normals are dropped and vertices are unified per position.
func loadOBJ(path string, _ Options) (*Scene, error) {
	obj, err := formats.ParseOBJFile(path)
	if err != nil {
		return nil, err
	}

	s := &Scene{Meshes: make([]Mesh, 0, len(obj.Objects))}
	for _, o := range obj.Objects {
		s.Meshes = append(s.Meshes, objMesh(obj, o))
	}
	return s, nil
}

type objKey struct {
	position int
	normal   int
}

func objMesh(obj *formats.OBJ, o formats.OBJObject) Mesh {
	withNormals := true
	for _, f := range o.Faces {
		for _, v := range f.Vertices {
			if v.Normal == formats.OBJNone {
				withNormals = false
			}
		}
	}

	m := Mesh{Name: o.Name, Faces: make([][]uint32, 0, len(o.Faces))}
	remap := make(map[objKey]uint32)
	for _, f := range o.Faces {
		face := make([]uint32, len(f.Vertices))
		for i, v := range f.Vertices {
			key := objKey{position: v.Position, normal: formats.OBJNone}
			if withNormals {
				key.normal = v.Normal
			}
			idx, ok := remap[key]
			if !ok {
				idx = uint32(len(m.Positions))
				remap[key] = idx
				m.Positions = append(m.Positions, obj.Positions[v.Position])
				if withNormals {
					m.Normals = append(m.Normals, obj.Normals[v.Normal])
				}
			}
			face[i] = idx
		}
		m.Faces = append(m.Faces, face)
	}
	return m
}

// readB3D decodes a B3D file through opts.B3DReader, or directly with the
// index check opts asks for.
func readB3D(path string, opts Options) (*mesh.Record, error) {
	if opts.B3DReader != nil {
		return opts.B3DReader.Import(path)
	}
	if opts.CheckIndices {
		return formats.ParseB3DFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %w", formats.ErrB3DCannotOpen, path, err)
	}
	return formats.ParseB3DUnchecked(data)
}

// loadB3D wraps a single B3D record as a one-mesh scene. Colours and
// texture coordinates are not carried over.
func loadB3D(path string, opts Options) (*Scene, error) {
	rec, err := readB3D(path, opts)
	if err != nil {
		return nil, err
	}

	m := Mesh{
		Name:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Positions: rec.Positions,
		Faces:     make([][]uint32, 0, (len(rec.Indices)+2)/3),
	}
	if rec.HasNormals {
		m.Normals = rec.Normals
	}
	for i := 0; i < len(rec.Indices); i += 3 {
		end := min(i+3, len(rec.Indices))
		m.Faces = append(m.Faces, rec.Indices[i:end:end])
	}

	if len(m.Positions) == 0 {
		return &Scene{}, nil
	}
	return &Scene{Meshes: []Mesh{m}}, nil
}

