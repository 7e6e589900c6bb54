package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// OBJ format errors.
var (
	ErrOBJSyntax          = errors.New("invalid OBJ syntax")
	ErrOBJIndexOutOfRange = errors.New("OBJ face index out of range")
)

// OBJNone marks a face vertex without a texture or normal reference.
const OBJNone = -1

// objDefaultName names faces that appear before any o or g statement.
const objDefaultName = "default"

// OBJVertex is one corner of a face. Indices are zero-based and already
// resolved (negative OBJ indices count back from the latest element).
type OBJVertex struct {
	Position int
	TexCoord int // OBJNone if absent
	Normal   int // OBJNone if absent
}

// OBJFace is a polygon with three or more corners.
type OBJFace struct {
	Vertices []OBJVertex
}

// OBJObject groups the faces that follow an o or g statement.
type OBJObject struct {
	Name  string
	Faces []OBJFace
}

// OBJ represents a parsed Wavefront OBJ file. Materials, lines, points and
// smoothing groups are skipped.
type OBJ struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Objects   []OBJObject
	Warnings  []string
}

// objParser holds the state of one ParseOBJ call.
type objParser struct {
	obj     *OBJ
	current int // index into obj.Objects, -1 before the first object
	line    int
}

// ParseOBJ parses Wavefront OBJ text. Objects without faces are dropped.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	p := &objParser{obj: &OBJ{}, current: -1}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		p.line++
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", p.line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ data: %w", err)
	}

	objects := p.obj.Objects[:0]
	for _, o := range p.obj.Objects {
		if len(o.Faces) > 0 {
			objects = append(objects, o)
		}
	}
	p.obj.Objects = objects

	return p.obj, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()
	return ParseOBJ(f)
}

func (p *objParser) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		p.obj.Positions = append(p.obj.Positions, mgl32.Vec3{v[0], v[1], v[2]})
	case "vn":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		p.obj.Normals = append(p.obj.Normals, mgl32.Vec3{v[0], v[1], v[2]})
	case "vt":
		v, err := parseFloats(fields[1:], 1)
		if err != nil {
			return err
		}
		uv := mgl32.Vec2{v[0], 0}
		if len(v) > 1 {
			uv[1] = v[1]
		}
		p.obj.TexCoords = append(p.obj.TexCoords, uv)
	case "o", "g":
		name := objDefaultName
		if len(fields) > 1 {
			name = strings.Join(fields[1:], " ")
		}
		p.startObject(name)
	case "f":
		return p.parseFace(fields[1:])
	case "mtllib", "usemtl", "s", "l", "p", "vp":
	default:
		p.obj.Warnings = append(p.obj.Warnings, fmt.Sprintf("line %d: unsupported statement %q", p.line, fields[0]))
	}
	return nil
}

func (p *objParser) startObject(name string) {
	// Reuse an object that has not received faces yet.
	if p.current >= 0 && len(p.obj.Objects[p.current].Faces) == 0 {
		p.obj.Objects[p.current].Name = name
		return
	}
	p.obj.Objects = append(p.obj.Objects, OBJObject{Name: name})
	p.current = len(p.obj.Objects) - 1
}

func (p *objParser) parseFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("%w: face has %d vertices", ErrOBJSyntax, len(fields))
	}
	if p.current < 0 {
		p.startObject(objDefaultName)
	}

	face := OBJFace{Vertices: make([]OBJVertex, len(fields))}
	for i, f := range fields {
		v, err := p.parseFaceVertex(f)
		if err != nil {
			return err
		}
		face.Vertices[i] = v
	}
	o := &p.obj.Objects[p.current]
	o.Faces = append(o.Faces, face)
	return nil
}

// parseFaceVertex parses v, v/t, v//n or v/t/n.
func (p *objParser) parseFaceVertex(s string) (OBJVertex, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return OBJVertex{}, fmt.Errorf("%w: face vertex %q", ErrOBJSyntax, s)
	}

	v := OBJVertex{TexCoord: OBJNone, Normal: OBJNone}
	var err error
	if v.Position, err = resolveOBJIndex(parts[0], len(p.obj.Positions)); err != nil {
		return OBJVertex{}, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if v.TexCoord, err = resolveOBJIndex(parts[1], len(p.obj.TexCoords)); err != nil {
			return OBJVertex{}, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if v.Normal, err = resolveOBJIndex(parts[2], len(p.obj.Normals)); err != nil {
			return OBJVertex{}, err
		}
	}
	return v, nil
}

// resolveOBJIndex converts a 1-based (or negative, relative) OBJ index into
// a zero-based index into a list of the given length.
func resolveOBJIndex(s string, length int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", ErrOBJSyntax, s)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += length
	default:
		return 0, fmt.Errorf("%w: index 0", ErrOBJSyntax)
	}
	if i < 0 || i >= length {
		return 0, fmt.Errorf("%w: %s with %d defined", ErrOBJIndexOutOfRange, s, length)
	}
	return i, nil
}

// parseFloats parses at least min float fields.
func parseFloats(fields []string, min int) ([]float32, error) {
	if len(fields) < min {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrOBJSyntax, min, len(fields))
	}
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: number %q", ErrOBJSyntax, f)
		}
		out[i] = float32(v)
	}
	return out, nil
}
