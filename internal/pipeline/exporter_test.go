package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshkit/internal/scene"
	"github.com/Faultbox/meshkit/pkg/formats"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

func testMesh() scene.Mesh {
	return scene.Mesh{
		Name:      "tri",
		Positions: []mgl32.Vec3{{0, 0.1, 0}, {1, 0.36, 0}, {0, 0.6, 1}},
		Normals:   []mgl32.Vec3{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
		Faces:     [][]uint32{{0, 1, 2}},
	}
}

func TestExporter_BuildRecord(t *testing.T) {
	m := testMesh()
	rec, err := NewExporter(nil, ExportOptions{}).BuildRecord(&m, mesh.ChoiceLandscape)
	if err != nil {
		t.Fatalf("BuildRecord failed: %v", err)
	}

	if err := rec.Validate(); err != nil {
		t.Errorf("record should be valid: %v", err)
	}
	if len(rec.TexCoords) != 3 {
		t.Fatalf("expected 3 UVs, got %d", len(rec.TexCoords))
	}
	for i, uv := range rec.TexCoords {
		if uv != (mgl32.Vec2{}) {
			t.Errorf("uv[%d] = %v, want zero", i, uv)
		}
	}

	wantDiffuse := []mgl32.Vec4{
		{0, 0.3922, 0, 1},
		{0.4196, 0.5569, 0.1373, 1},
		{1, 1, 1, 1},
	}
	for i, want := range wantDiffuse {
		if rec.Materials[i].Diffuse != want {
			t.Errorf("material[%d].Diffuse = %v, want %v", i, rec.Materials[i].Diffuse, want)
		}
	}

	if rec.IndexWidth != mesh.IndexWidth32 {
		t.Errorf("expected 32-bit indices, got %v", rec.IndexWidth)
	}
}

func TestExporter_BuildRecordPreset(t *testing.T) {
	m := testMesh()
	rec, err := NewExporter(nil, ExportOptions{}).BuildRecord(&m, mesh.ChoiceGold)
	if err != nil {
		t.Fatalf("BuildRecord failed: %v", err)
	}
	for i, mat := range rec.Materials {
		if mat != mesh.Gold {
			t.Errorf("material[%d] = %+v, want gold", i, mat)
		}
	}
}

func TestExporter_BuildRecordErrors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(m *scene.Mesh)
		wantErr error
	}{
		{"no normals", func(m *scene.Mesh) { m.Normals = nil }, ErrMissingNormals},
		{"short normals", func(m *scene.Mesh) { m.Normals = m.Normals[:2] }, ErrMissingNormals},
		{"quad", func(m *scene.Mesh) { m.Faces = [][]uint32{{0, 1, 2, 0}} }, ErrNonTriangularFace},
		{"line", func(m *scene.Mesh) { m.Faces = append(m.Faces, []uint32{0, 1}) }, ErrNonTriangularFace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testMesh()
			tt.modify(&m)
			_, err := NewExporter(nil, ExportOptions{}).BuildRecord(&m, mesh.ChoiceSilver)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExporter_ExportScene(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "hill.obj")

	second := testMesh()
	second.Positions = append(second.Positions, mgl32.Vec3{1, 1, 1})
	second.Normals = append(second.Normals, mgl32.Vec3{0, 1, 0})
	second.Faces = append(second.Faces, []uint32{1, 3, 2})

	s := &scene.Scene{Meshes: []scene.Mesh{testMesh(), second}}
	paths, err := NewExporter(nil, ExportOptions{}).ExportScene(source, s, mesh.ChoiceLandscape)
	if err != nil {
		t.Fatalf("ExportScene failed: %v", err)
	}

	expected := []string{
		source + ".0.3.3.mt",
		source + ".1.4.6.mt",
	}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d files, got %v", len(expected), paths)
	}
	for i, want := range expected {
		if paths[i] != want {
			t.Errorf("path[%d] = %s, want %s", i, paths[i], want)
		}
		info, err := os.Stat(want)
		if err != nil {
			t.Fatalf("missing output: %v", err)
		}
		nv, ni := 3+i, 3+3*i
		if info.Size() != formats.MTSize(nv, ni) {
			t.Errorf("%s has %d bytes, want %d", want, info.Size(), formats.MTSize(nv, ni))
		}
	}

	rec, name, err := formats.ParseMTFile(paths[1])
	if err != nil {
		t.Fatalf("ParseMTFile failed: %v", err)
	}
	if name.Mesh != 1 || rec.Indices[4] != 3 {
		t.Errorf("unexpected round trip: %+v, indices %v", name, rec.Indices)
	}
}

func TestExporter_OutputDirAndDev(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out", "nested")
	exp := NewExporter(nil, ExportOptions{OutputDir: out, Dev: true})

	s := &scene.Scene{Meshes: []scene.Mesh{testMesh()}}
	paths, err := exp.ExportScene("models/tri.obj", s, mesh.ChoiceJade)
	if err != nil {
		t.Fatalf("ExportScene failed: %v", err)
	}

	want := filepath.Join(out, "tri.obj.0.3.3.mtd")
	if len(paths) != 1 || paths[0] != want {
		t.Fatalf("expected %s, got %v", want, paths)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("missing output: %v", err)
	}
}

func TestExporter_MeshError(t *testing.T) {
	dir := t.TempDir()
	bad := testMesh()
	bad.Normals = nil
	s := &scene.Scene{Meshes: []scene.Mesh{testMesh(), bad}}

	paths, err := NewExporter(nil, ExportOptions{}).ExportScene(filepath.Join(dir, "s.obj"), s, mesh.ChoicePearl)

	var meshErr *MeshError
	if !errors.As(err, &meshErr) {
		t.Fatalf("expected *MeshError, got %v", err)
	}
	if meshErr.Mesh != 1 || meshErr.Stage != StageBuild {
		t.Errorf("unexpected error fields %+v", meshErr)
	}
	if !errors.Is(err, ErrMissingNormals) {
		t.Errorf("expected ErrMissingNormals in chain, got %v", err)
	}
	if len(paths) != 1 {
		t.Errorf("expected the first mesh to be written, got %v", paths)
	}
}

func TestExporter_WriteFailure(t *testing.T) {
	source := filepath.Join(t.TempDir(), "no-such-dir", "s.obj")
	s := &scene.Scene{Meshes: []scene.Mesh{testMesh()}}

	_, err := NewExporter(nil, ExportOptions{}).ExportScene(source, s, mesh.ChoiceGold)

	var meshErr *MeshError
	if !errors.As(err, &meshErr) || meshErr.Stage != StageWrite {
		t.Errorf("expected write-stage MeshError, got %v", err)
	}
}
