// Package mesh provides the in-memory mesh representation shared by the
// B3D import and MT export paths.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Record validation errors.
var (
	ErrNotTriangles     = errors.New("index count is not a multiple of 3")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrLengthMismatch   = errors.New("per-vertex array length does not match vertex count")
	ErrInvalidIndexHint = errors.New("invalid index width hint")
)

// IndexWidth is the declared storage width of indices in bytes.
type IndexWidth uint8

// Index width hints.
const (
	IndexWidth8  IndexWidth = 1
	IndexWidth16 IndexWidth = 2
	IndexWidth32 IndexWidth = 4
)

// Valid returns true for 1, 2 and 4.
func (w IndexWidth) Valid() bool {
	return w == IndexWidth8 || w == IndexWidth16 || w == IndexWidth32
}

// String returns a human-readable width name.
func (w IndexWidth) String() string {
	switch w {
	case IndexWidth8:
		return "uint8"
	case IndexWidth16:
		return "uint16"
	case IndexWidth32:
		return "uint32"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(w))
	}
}

// Record is a fully decoded mesh. Positions defines the vertex count; every
// present optional array has exactly one entry per vertex.
type Record struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Colours   []uint32   // Packed RGBA8, stored as read
	Materials []Material // Export path only
	Indices   []uint32   // Triangle list, CCW front faces

	IndexWidth IndexWidth

	HasNormals bool
	HasUVs     bool
	HasColours bool
}

// VertexCount returns the number of vertices.
func (r *Record) VertexCount() int {
	return len(r.Positions)
}

// TriangleCount returns the number of complete triangles.
func (r *Record) TriangleCount() int {
	return len(r.Indices) / 3
}

// CheckIndices returns ErrIndexOutOfRange for the first index that does not
// reference a vertex.
func (r *Record) CheckIndices() error {
	n := uint32(len(r.Positions))
	for i, idx := range r.Indices {
		if idx >= n {
			return fmt.Errorf("%w: indices[%d] = %d, vertex count %d", ErrIndexOutOfRange, i, idx, n)
		}
	}
	return nil
}

// Validate checks the record invariants: triangle list, array lengths that
// agree with the presence flags and index bounds.
func (r *Record) Validate() error {
	if !r.IndexWidth.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidIndexHint, uint8(r.IndexWidth))
	}
	if len(r.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices", ErrNotTriangles, len(r.Indices))
	}

	n := len(r.Positions)
	check := func(name string, present bool, length int) error {
		want := 0
		if present {
			want = n
		}
		if length != want {
			return fmt.Errorf("%w: %s has %d entries, want %d", ErrLengthMismatch, name, length, want)
		}
		return nil
	}
	if err := check("normals", r.HasNormals, len(r.Normals)); err != nil {
		return err
	}
	if err := check("texture UVs", r.HasUVs, len(r.TexCoords)); err != nil {
		return err
	}
	if err := check("colours", r.HasColours, len(r.Colours)); err != nil {
		return err
	}
	if len(r.Materials) != 0 && len(r.Materials) != n {
		return fmt.Errorf("%w: materials has %d entries, want %d", ErrLengthMismatch, len(r.Materials), n)
	}

	return r.CheckIndices()
}

// Bounds returns the axis-aligned bounding box of the positions.
// Both corners are zero for an empty record.
func (r *Record) Bounds() (min, max mgl32.Vec3) {
	if len(r.Positions) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}

	min = r.Positions[0]
	max = r.Positions[0]
	for _, p := range r.Positions[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return min, max
}

// UnpackRGBA splits a packed colour into its channels. The first byte in
// memory (least significant) is red.
func UnpackRGBA(c uint32) [4]uint8 {
	return [4]uint8{uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)}
}

// PackRGBA is the inverse of UnpackRGBA.
func PackRGBA(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}
