package formats

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/meshkit/pkg/mesh"
)

// MT file extensions. Development builds write .mtd so their output is never
// mistaken for production data.
const (
	MTExtension    = ".mt"
	MTDevExtension = ".mtd"
)

// Floats per vertex in each MT float section.
const (
	mtPositionFloats = 3
	mtNormalFloats   = 3
	mtUVFloats       = 2
)

// MT format errors.
var (
	ErrMTInvalidRecord = errors.New("mesh record cannot be encoded as MT")
	ErrMTSizeMismatch  = errors.New("MT data size does not match declared counts")
	ErrMTBadFileName   = errors.New("invalid MT file name")
)

// MTSize returns the exact byte size of an MT file holding vertexCount
// vertices and indexCount indices.
func MTSize(vertexCount, indexCount int) int64 {
	perVertex := int64(mtPositionFloats+mtNormalFloats+mtUVFloats+mesh.MaterialFloats) * 4
	return int64(vertexCount)*perVertex + int64(indexCount)*4
}

// checkMTRecord verifies every section the MT layout requires is sized to
// the vertex count.
func checkMTRecord(rec *mesh.Record) error {
	n := rec.VertexCount()
	if len(rec.Normals) != n {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrMTInvalidRecord, len(rec.Normals), n)
	}
	if len(rec.TexCoords) != n {
		return fmt.Errorf("%w: %d texture UVs for %d vertices", ErrMTInvalidRecord, len(rec.TexCoords), n)
	}
	if len(rec.Materials) != n {
		return fmt.Errorf("%w: %d materials for %d vertices", ErrMTInvalidRecord, len(rec.Materials), n)
	}
	if len(rec.Indices)%3 != 0 {
		return fmt.Errorf("%w: %w", ErrMTInvalidRecord, mesh.ErrNotTriangles)
	}
	return nil
}

// WriteMT writes a record to w in MT layout: positions, normals, texture
// UVs, materials, then indices, with no header and no padding.
func WriteMT(w io.Writer, rec *mesh.Record) error {
	if err := checkMTRecord(rec); err != nil {
		return err
	}

	e := newLEEncoder(w)
	e.vec3s(rec.Positions)
	e.vec3s(rec.Normals)
	e.vec2s(rec.TexCoords)

	floats := make([]float32, 0, len(rec.Materials)*mesh.MaterialFloats)
	for _, m := range rec.Materials {
		f := m.Floats()
		floats = append(floats, f[:]...)
	}
	e.float32s(floats)

	e.uint32s(rec.Indices)

	if e.err != nil {
		return fmt.Errorf("writing MT data: %w", e.err)
	}
	return nil
}

// EncodeMT serializes a record in MT layout.
func EncodeMT(rec *mesh.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(int(MTSize(rec.VertexCount(), len(rec.Indices))))
	if err := WriteMT(&buf, rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseMT decodes MT data. The format has no header, so the counts must come
// from the caller (usually the file name, see ParseMTFileName).
func ParseMT(data []byte, vertexCount, indexCount int) (*mesh.Record, error) {
	if vertexCount < 0 || indexCount < 0 {
		return nil, fmt.Errorf("%w: negative count", ErrMTSizeMismatch)
	}
	if want := MTSize(vertexCount, indexCount); int64(len(data)) != want {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrMTSizeMismatch, len(data), want)
	}

	nv := uint32(vertexCount)
	d := newLEDecoder(data)
	rec := &mesh.Record{
		IndexWidth: mesh.IndexWidth32,
		HasNormals: true,
		HasUVs:     true,
	}

	var err error
	if rec.Positions, err = d.vec3s(nv); err != nil {
		return nil, fmt.Errorf("%w: positions", ErrMTSizeMismatch)
	}
	if rec.Normals, err = d.vec3s(nv); err != nil {
		return nil, fmt.Errorf("%w: normals", ErrMTSizeMismatch)
	}
	if rec.TexCoords, err = d.vec2s(nv); err != nil {
		return nil, fmt.Errorf("%w: texture UVs", ErrMTSizeMismatch)
	}

	floats, err := d.float32s(uint64(vertexCount) * mesh.MaterialFloats)
	if err != nil {
		return nil, fmt.Errorf("%w: materials", ErrMTSizeMismatch)
	}
	rec.Materials = make([]mesh.Material, vertexCount)
	for i := range rec.Materials {
		var f [mesh.MaterialFloats]float32
		copy(f[:], floats[i*mesh.MaterialFloats:])
		rec.Materials[i] = mesh.MaterialFromFloats(f)
	}

	if rec.Indices, err = d.uint32s(uint32(indexCount)); err != nil {
		return nil, fmt.Errorf("%w: indices", ErrMTSizeMismatch)
	}

	return rec, nil
}

// MTName holds the fields encoded in an MT file name.
type MTName struct {
	Source   string // Source scene file the mesh came from
	Mesh     int    // Mesh index within the source scene
	Vertices int
	Indices  int
	Dev      bool // .mtd rather than .mt
}

// String formats the name as <source>.<mesh>.<vertices>.<indices>.mt(d).
func (n MTName) String() string {
	ext := MTExtension
	if n.Dev {
		ext = MTDevExtension
	}
	return fmt.Sprintf("%s.%d.%d.%d%s", n.Source, n.Mesh, n.Vertices, n.Indices, ext)
}

// MTFileName returns the output file name for one mesh of a source scene.
func MTFileName(source string, meshIndex, vertexCount, indexCount int, dev bool) string {
	return MTName{
		Source:   source,
		Mesh:     meshIndex,
		Vertices: vertexCount,
		Indices:  indexCount,
		Dev:      dev,
	}.String()
}

// ParseMTFileName recovers the fields of an MT file name. The source part
// may itself contain dots, so fields are taken from the end.
func ParseMTFileName(name string) (MTName, error) {
	var n MTName
	switch {
	case strings.HasSuffix(name, MTDevExtension):
		n.Dev = true
		name = strings.TrimSuffix(name, MTDevExtension)
	case strings.HasSuffix(name, MTExtension):
		name = strings.TrimSuffix(name, MTExtension)
	default:
		return MTName{}, fmt.Errorf("%w: %q has no %s or %s extension", ErrMTBadFileName, name, MTExtension, MTDevExtension)
	}

	parts := strings.Split(name, ".")
	if len(parts) < 4 {
		return MTName{}, fmt.Errorf("%w: %q needs <source>.<mesh>.<vertices>.<indices>", ErrMTBadFileName, name)
	}

	fields := parts[len(parts)-3:]
	values := make([]int, 3)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return MTName{}, fmt.Errorf("%w: field %q is not a non-negative integer", ErrMTBadFileName, f)
		}
		values[i] = v
	}

	n.Source = strings.Join(parts[:len(parts)-3], ".")
	n.Mesh = values[0]
	n.Vertices = values[1]
	n.Indices = values[2]
	return n, nil
}

// ParseMTFile reads an MT file, taking the array lengths from its name.
func ParseMTFile(path string) (*mesh.Record, MTName, error) {
	name, err := ParseMTFileName(filepath.Base(path))
	if err != nil {
		return nil, MTName{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, MTName{}, fmt.Errorf("reading MT file: %w", err)
	}

	rec, err := ParseMT(data, name.Vertices, name.Indices)
	if err != nil {
		return nil, MTName{}, err
	}
	return rec, name, nil
}
