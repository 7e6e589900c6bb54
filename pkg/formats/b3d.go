package formats

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/meshkit/pkg/mesh"
)

// B3D format constants.
const (
	B3DMagic      = "B3D\n"
	B3DHeaderSize = 16
)

// B3D format errors.
var (
	ErrB3DCannotOpen        = errors.New("cannot open B3D file")
	ErrB3DTruncatedHeader   = errors.New("truncated B3D header")
	ErrB3DBadMagic          = errors.New("invalid B3D magic: expected 'B3D\\n'")
	ErrB3DBadIndexHint      = errors.New("invalid B3D index type hint")
	ErrB3DTruncatedVertices = errors.New("truncated B3D vertex data")
	ErrB3DTruncatedNormals  = errors.New("truncated B3D normal data")
	ErrB3DTruncatedUVs      = errors.New("truncated B3D texture UV data")
	ErrB3DTruncatedColours  = errors.New("truncated B3D colour data")
	ErrB3DTruncatedIndices  = errors.New("truncated B3D index data")
	ErrB3DIndexOutOfRange   = errors.New("invalid B3D index data")
	ErrB3DInvalidRecord     = errors.New("mesh record cannot be encoded as B3D")
)

// B3DHeader is the fixed 16-byte B3D file header.
type B3DHeader struct {
	Magic       [4]byte
	NumVertices uint32
	NumIndices  uint32
	HasNormals  uint8 // 1 = present
	HasUV       uint8 // 1 = present
	HasColours  uint8 // 1 = present
	IndexHint   uint8 // 1, 2 or 4
}

// Normals reports whether a normal section follows the positions.
// Any value other than 1 means absent.
func (h *B3DHeader) Normals() bool { return h.HasNormals == 1 }

// UVs reports whether a texture UV section is present.
func (h *B3DHeader) UVs() bool { return h.HasUV == 1 }

// Colours reports whether a packed colour section is present.
func (h *B3DHeader) Colours() bool { return h.HasColours == 1 }

// BodySize returns the number of bytes the header declares after itself.
func (h *B3DHeader) BodySize() uint64 {
	nv := uint64(h.NumVertices)
	size := nv * 12
	if h.Normals() {
		size += nv * 12
	}
	if h.UVs() {
		size += nv * 8
	}
	if h.Colours() {
		size += nv * 4
	}
	return size + uint64(h.NumIndices)*4
}

func encodeBool(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// ParseB3DHeader decodes and validates the 16-byte header. The magic is
// checked before the index hint.
func ParseB3DHeader(data []byte) (*B3DHeader, error) {
	if len(data) < B3DHeaderSize {
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrB3DTruncatedHeader, len(data), B3DHeaderSize)
	}

	h := &B3DHeader{}
	copy(h.Magic[:], data[0:4])
	if string(h.Magic[:]) != B3DMagic {
		return nil, fmt.Errorf("%w: got %q", ErrB3DBadMagic, h.Magic[:])
	}

	// The length check above leaves exactly 12 bytes for the decoder.
	d := newLEDecoder(data[len(B3DMagic):B3DHeaderSize])
	h.NumVertices, _ = d.uint32()
	h.NumIndices, _ = d.uint32()
	flags, _ := d.bytes(4)
	h.HasNormals = flags[0]
	h.HasUV = flags[1]
	h.HasColours = flags[2]
	h.IndexHint = flags[3]

	if !mesh.IndexWidth(h.IndexHint).Valid() {
		return nil, fmt.Errorf("%w: %d", ErrB3DBadIndexHint, h.IndexHint)
	}

	return h, nil
}

// ParseB3D parses a B3D file from raw bytes and rejects indices that do not
// reference a vertex.
func ParseB3D(data []byte) (*mesh.Record, error) {
	rec, err := ParseB3DUnchecked(data)
	if err != nil {
		return nil, err
	}
	if err := rec.CheckIndices(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrB3DIndexOutOfRange, err)
	}
	return rec, nil
}

// ParseB3DUnchecked parses a B3D file without checking index bounds.
// Indices are always stored as 4-byte values whatever the header hint says.
func ParseB3DUnchecked(data []byte) (*mesh.Record, error) {
	h, err := ParseB3DHeader(data)
	if err != nil {
		return nil, err
	}

	d := newLEDecoder(data[B3DHeaderSize:])
	rec := &mesh.Record{
		IndexWidth: mesh.IndexWidth(h.IndexHint),
		HasNormals: h.Normals(),
		HasUVs:     h.UVs(),
		HasColours: h.Colours(),
	}

	if rec.Positions, err = d.vec3s(h.NumVertices); err != nil {
		return nil, fmt.Errorf("%w: need %d bytes, have %d",
			ErrB3DTruncatedVertices, uint64(h.NumVertices)*12, d.Remaining())
	}

	if rec.HasNormals {
		if rec.Normals, err = d.vec3s(h.NumVertices); err != nil {
			return nil, fmt.Errorf("%w: need %d bytes, have %d",
				ErrB3DTruncatedNormals, uint64(h.NumVertices)*12, d.Remaining())
		}
	}

	if rec.HasUVs {
		if rec.TexCoords, err = d.vec2s(h.NumVertices); err != nil {
			return nil, fmt.Errorf("%w: need %d bytes, have %d",
				ErrB3DTruncatedUVs, uint64(h.NumVertices)*8, d.Remaining())
		}
	}

	if rec.HasColours {
		if rec.Colours, err = d.uint32s(h.NumVertices); err != nil {
			return nil, fmt.Errorf("%w: need %d bytes, have %d",
				ErrB3DTruncatedColours, uint64(h.NumVertices)*4, d.Remaining())
		}
	}

	if rec.Indices, err = d.uint32s(h.NumIndices); err != nil {
		return nil, fmt.Errorf("%w: need %d bytes, have %d",
			ErrB3DTruncatedIndices, uint64(h.NumIndices)*4, d.Remaining())
	}

	return rec, nil
}

// ParseB3DFile parses a B3D file from disk.
func ParseB3DFile(path string) (*mesh.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %w", ErrB3DCannotOpen, path, err)
	}
	return ParseB3D(data)
}

// EncodeB3D serializes a record in B3D layout. The record must be valid;
// materials are not part of the format and are dropped.
func EncodeB3D(rec *mesh.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteB3D(&buf, rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteB3D writes a record to w in B3D layout.
func WriteB3D(w io.Writer, rec *mesh.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrB3DInvalidRecord, err)
	}

	header := make([]byte, 0, B3DHeaderSize)
	header = append(header, B3DMagic...)
	header = AppendUint32LE(header, uint32(rec.VertexCount()))
	header = AppendUint32LE(header, uint32(len(rec.Indices)))
	header = append(header,
		encodeBool(rec.HasNormals),
		encodeBool(rec.HasUVs),
		encodeBool(rec.HasColours),
		uint8(rec.IndexWidth),
	)

	e := newLEEncoder(w)
	e.raw(header)
	e.vec3s(rec.Positions)
	if rec.HasNormals {
		e.vec3s(rec.Normals)
	}
	if rec.HasUVs {
		e.vec2s(rec.TexCoords)
	}
	if rec.HasColours {
		e.uint32s(rec.Colours)
	}
	e.uint32s(rec.Indices)

	if e.err != nil {
		return fmt.Errorf("writing B3D data: %w", e.err)
	}
	return nil
}
