package formats

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// errShortData is returned by leDecoder when fewer bytes remain than a read
// requires. Callers wrap it with the format's own truncation error.
var errShortData = errors.New("short data")

// Float32LE decodes a little-endian IEEE-754 float from the first 4 bytes of b.
func Float32LE(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// Uint32LE decodes a little-endian uint32 from the first 4 bytes of b.
func Uint32LE(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// AppendFloat32LE appends f to b as 4 little-endian bytes.
func AppendFloat32LE(b []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
}

// AppendUint32LE appends v to b as 4 little-endian bytes.
func AppendUint32LE(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

// leDecoder walks a byte slice decoding fixed-width little-endian values.
// Section sizes are checked against the remaining input before anything is
// allocated.
type leDecoder struct {
	data []byte
	off  int
}

func newLEDecoder(data []byte) *leDecoder {
	return &leDecoder{data: data}
}

// Remaining returns the number of undecoded bytes.
func (d *leDecoder) Remaining() int {
	return len(d.data) - d.off
}

// take returns the next n bytes or errShortData. count*size is computed in
// uint64 so a header count near 2^32 cannot overflow int on 32-bit hosts.
func (d *leDecoder) take(count uint64, size uint64) ([]byte, error) {
	n := count * size
	if n > uint64(d.Remaining()) {
		return nil, errShortData
	}
	b := d.data[d.off : d.off+int(n)]
	d.off += int(n)
	return b, nil
}

func (d *leDecoder) bytes(n int) ([]byte, error) {
	return d.take(uint64(n), 1)
}

func (d *leDecoder) uint32() (uint32, error) {
	b, err := d.take(1, 4)
	if err != nil {
		return 0, err
	}
	return Uint32LE(b), nil
}

func (d *leDecoder) vec3s(count uint32) ([]mgl32.Vec3, error) {
	b, err := d.take(uint64(count), 12)
	if err != nil {
		return nil, err
	}
	out := make([]mgl32.Vec3, count)
	for i := range out {
		p := b[i*12:]
		out[i] = mgl32.Vec3{Float32LE(p[0:]), Float32LE(p[4:]), Float32LE(p[8:])}
	}
	return out, nil
}

func (d *leDecoder) vec2s(count uint32) ([]mgl32.Vec2, error) {
	b, err := d.take(uint64(count), 8)
	if err != nil {
		return nil, err
	}
	out := make([]mgl32.Vec2, count)
	for i := range out {
		p := b[i*8:]
		out[i] = mgl32.Vec2{Float32LE(p[0:]), Float32LE(p[4:])}
	}
	return out, nil
}

func (d *leDecoder) float32s(count uint64) ([]float32, error) {
	b, err := d.take(count, 4)
	if err != nil {
		return nil, err
	}
	out := make([]float32, count)
	for i := range out {
		out[i] = Float32LE(b[i*4:])
	}
	return out, nil
}

func (d *leDecoder) uint32s(count uint32) ([]uint32, error) {
	b, err := d.take(uint64(count), 4)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = Uint32LE(b[i*4:])
	}
	return out, nil
}

// leEncoder accumulates little-endian values and flushes them to a writer
// in one call per section.
type leEncoder struct {
	w   io.Writer
	buf []byte
	n   int64
	err error
}

func newLEEncoder(w io.Writer) *leEncoder {
	return &leEncoder{w: w}
}

func (e *leEncoder) flush() {
	if e.err != nil || len(e.buf) == 0 {
		return
	}
	n, err := e.w.Write(e.buf)
	e.n += int64(n)
	e.err = err
	e.buf = e.buf[:0]
}

func (e *leEncoder) vec3s(v []mgl32.Vec3) {
	for _, p := range v {
		e.buf = AppendFloat32LE(e.buf, p[0])
		e.buf = AppendFloat32LE(e.buf, p[1])
		e.buf = AppendFloat32LE(e.buf, p[2])
	}
	e.flush()
}

func (e *leEncoder) vec2s(v []mgl32.Vec2) {
	for _, p := range v {
		e.buf = AppendFloat32LE(e.buf, p[0])
		e.buf = AppendFloat32LE(e.buf, p[1])
	}
	e.flush()
}

func (e *leEncoder) float32s(v []float32) {
	for _, f := range v {
		e.buf = AppendFloat32LE(e.buf, f)
	}
	e.flush()
}

func (e *leEncoder) uint32s(v []uint32) {
	for _, x := range v {
		e.buf = AppendUint32LE(e.buf, x)
	}
	e.flush()
}

func (e *leEncoder) raw(b []byte) {
	e.buf = append(e.buf, b...)
	e.flush()
}
