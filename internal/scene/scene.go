// Package scene loads 3D scene files into per-mesh vertex and face arrays
// ready for MT export.
package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshkit/pkg/mesh"
)

// Scene loading errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported scene format")
	ErrIncompleteScene   = errors.New("scene contains no meshes")
)

// B3DReader decodes one B3D file. pipeline.Importer satisfies it.
type B3DReader interface {
	Import(path string) (*mesh.Record, error)
}

// Options controls how scene files are read and the post-processing
// applied afterwards.
type Options struct {
	Triangulate     bool // Fan-split polygons into triangles
	GenerateNormals bool // Compute smooth normals for meshes that lack them

	// CheckIndices rejects B3D indices that do not reference a vertex.
	// Ignored when B3DReader is set.
	CheckIndices bool

	// B3DReader replaces the built-in B3D decoding, e.g. with a logged
	// importer. Nil uses formats.ParseB3D or formats.ParseB3DUnchecked.
	B3DReader B3DReader
}

// DefaultOptions matches the realtime-quality import preset: polygons are
// triangulated and missing normals generated. B3D indices are checked.
func DefaultOptions() Options {
	return Options{
		Triangulate:     true,
		GenerateNormals: true,
		CheckIndices:    true,
	}
}

// Mesh is one mesh of a scene. Normals is either nil or has one entry per
// position. Each face lists position indices.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Faces     [][]uint32
}

// HasNormals reports whether every vertex has a normal.
func (m *Mesh) HasNormals() bool {
	return len(m.Positions) > 0 && len(m.Normals) == len(m.Positions)
}

// IndexCount returns the total number of face indices.
func (m *Mesh) IndexCount() int {
	n := 0
	for _, f := range m.Faces {
		n += len(f)
	}
	return n
}

// Scene is an ordered list of meshes. Mesh order is the file order and
// determines the mesh index used in output names.
type Scene struct {
	Meshes []Mesh
}

type loaderFunc func(path string, opts Options) (*Scene, error)

var loaders = map[string]loaderFunc{
	".obj": loadOBJ,
	".b3d": loadB3D,
}

// SupportedExtensions returns the file extensions Load accepts, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(loaders))
	for ext := range loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Load reads a scene file, choosing the reader by extension, and applies
// the requested post-processing.
func Load(path string, opts Options) (*Scene, error) {
	ext := strings.ToLower(filepath.Ext(path))
	load, ok := loaders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedFormat, ext, strings.Join(SupportedExtensions(), ", "))
	}

	s, err := load(path, opts)
	if err != nil {
		return nil, err
	}
	if len(s.Meshes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteScene, path)
	}

	for i := range s.Meshes {
		m := &s.Meshes[i]
		if opts.Triangulate {
			m.Triangulate()
		}
		if opts.GenerateNormals && !m.HasNormals() {
			m.GenerateNormals()
		}
	}
	return s, nil
}
