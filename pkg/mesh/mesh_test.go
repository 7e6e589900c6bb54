package mesh

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func triangleRecord() *Record {
	return &Record{
		Positions: []mgl32.Vec3{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
		},
		Indices:    []uint32{0, 1, 2},
		IndexWidth: IndexWidth32,
	}
}

func TestIndexWidth_Valid(t *testing.T) {
	tests := []struct {
		width    IndexWidth
		expected bool
	}{
		{0, false},
		{IndexWidth8, true},
		{IndexWidth16, true},
		{3, false},
		{IndexWidth32, true},
		{8, false},
	}

	for _, tc := range tests {
		if tc.width.Valid() != tc.expected {
			t.Errorf("IndexWidth(%d).Valid() = %v, expected %v", tc.width, tc.width.Valid(), tc.expected)
		}
	}
}

func TestIndexWidth_String(t *testing.T) {
	if IndexWidth16.String() != "uint16" {
		t.Errorf("expected uint16, got %s", IndexWidth16)
	}
	if IndexWidth(3).String() != "Unknown(3)" {
		t.Errorf("expected Unknown(3), got %s", IndexWidth(3))
	}
}

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(r *Record)
		wantErr error
	}{
		{
			name:    "valid",
			modify:  func(r *Record) {},
			wantErr: nil,
		},
		{
			name:    "bad hint",
			modify:  func(r *Record) { r.IndexWidth = 3 },
			wantErr: ErrInvalidIndexHint,
		},
		{
			name:    "not triangles",
			modify:  func(r *Record) { r.Indices = []uint32{0, 1} },
			wantErr: ErrNotTriangles,
		},
		{
			name:    "index out of range",
			modify:  func(r *Record) { r.Indices = []uint32{0, 1, 3} },
			wantErr: ErrIndexOutOfRange,
		},
		{
			name: "normals flag without data",
			modify: func(r *Record) {
				r.HasNormals = true
			},
			wantErr: ErrLengthMismatch,
		},
		{
			name: "uvs without flag",
			modify: func(r *Record) {
				r.TexCoords = make([]mgl32.Vec2, 3)
			},
			wantErr: ErrLengthMismatch,
		},
		{
			name: "colours present",
			modify: func(r *Record) {
				r.HasColours = true
				r.Colours = []uint32{1, 2, 3}
			},
			wantErr: nil,
		},
		{
			name: "short materials",
			modify: func(r *Record) {
				r.Materials = []Material{Gold}
			},
			wantErr: ErrLengthMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := triangleRecord()
			tt.modify(r)
			err := r.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRecord_Counts(t *testing.T) {
	r := triangleRecord()
	if r.VertexCount() != 3 {
		t.Errorf("expected 3 vertices, got %d", r.VertexCount())
	}
	if r.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", r.TriangleCount())
	}
}

func TestRecord_Bounds(t *testing.T) {
	r := &Record{
		Positions: []mgl32.Vec3{
			{1, -2, 3},
			{-4, 5, 0},
			{2, 0, -6},
		},
	}

	min, max := r.Bounds()
	if min != (mgl32.Vec3{-4, -2, -6}) {
		t.Errorf("unexpected min %v", min)
	}
	if max != (mgl32.Vec3{2, 5, 3}) {
		t.Errorf("unexpected max %v", max)
	}

	min, max = (&Record{}).Bounds()
	if min != (mgl32.Vec3{}) || max != (mgl32.Vec3{}) {
		t.Errorf("expected zero bounds for empty record, got %v %v", min, max)
	}
}

func TestPackRGBA(t *testing.T) {
	c := PackRGBA(0x11, 0x22, 0x33, 0x44)
	if c != 0x44332211 {
		t.Errorf("expected 0x44332211, got 0x%08x", c)
	}
	if got := UnpackRGBA(c); got != [4]uint8{0x11, 0x22, 0x33, 0x44} {
		t.Errorf("unexpected channels %v", got)
	}
}
