package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/meshkit/internal/scene"
	"github.com/Faultbox/meshkit/pkg/formats"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

const testTriangleOBJ = `o a
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
o b
v 0 0 1
f 1 2 4
`

func writeScenes(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	files := make([]string, n)
	for i := range files {
		files[i] = filepath.Join(dir, string(rune('a'+i))+".obj")
		if err := os.WriteFile(files[i], []byte(testTriangleOBJ), 0644); err != nil {
			t.Fatalf("failed to write scene: %v", err)
		}
	}
	return files
}

func newTestConverter(workers int) *Converter {
	return NewConverter(nil, NewExporter(nil, ExportOptions{}), ConverterConfig{
		Material: mesh.ChoiceLandscape,
		Scene:    scene.DefaultOptions(),
		Workers:  workers,
	})
}

func TestConverter_ConvertFiles(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		files := writeScenes(t, 5)

		results, err := newTestConverter(workers).ConvertFiles(context.Background(), files)
		if err != nil {
			t.Fatalf("workers=%d: ConvertFiles failed: %v", workers, err)
		}
		if len(results) != len(files) {
			t.Fatalf("workers=%d: expected %d results, got %d", workers, len(files), len(results))
		}
		for i, r := range results {
			if r.Source != files[i] {
				t.Errorf("workers=%d: result %d is for %s, want %s", workers, i, r.Source, files[i])
			}
			if len(r.Outputs) != 2 {
				t.Errorf("workers=%d: expected 2 outputs for %s, got %v", workers, r.Source, r.Outputs)
			}
			if len(r.Outputs) > 0 && r.Outputs[0] != files[i]+".0.3.3.mt" {
				t.Errorf("workers=%d: unexpected output %s", workers, r.Outputs[0])
			}
		}
	}
}

func TestConverter_LoadError(t *testing.T) {
	files := writeScenes(t, 2)
	bad := filepath.Join(t.TempDir(), "bad.obj")
	if err := os.WriteFile(bad, []byte("f 1 2 3\n"), 0644); err != nil {
		t.Fatalf("failed to write scene: %v", err)
	}
	files = append(files, bad)

	_, err := newTestConverter(1).ConvertFiles(context.Background(), files)

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if loadErr.Source != bad {
		t.Errorf("expected failing source %s, got %s", bad, loadErr.Source)
	}
}

func TestConverter_UnsupportedFile(t *testing.T) {
	_, err := newTestConverter(1).ConvertFile("scene.fbx")
	if !errors.Is(err, scene.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestConverter_Cancelled(t *testing.T) {
	files := writeScenes(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestConverter(1).ConvertFiles(ctx, files)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, statErr := os.Stat(files[0] + ".0.3.3.mt"); !os.IsNotExist(statErr) {
		t.Error("expected no output after cancellation")
	}
}

func writeBadIndexB3D(t *testing.T) string {
	t.Helper()
	data, err := formats.EncodeB3D(testTriangle())
	if err != nil {
		t.Fatalf("EncodeB3D failed: %v", err)
	}
	copy(data[len(data)-4:], formats.AppendUint32LE(nil, 5))
	path := filepath.Join(t.TempDir(), "bad_index.b3d")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestConverter_B3DCheckIndices(t *testing.T) {
	path := writeBadIndexB3D(t)

	checked := scene.DefaultOptions()
	conv := NewConverter(nil, NewExporter(nil, ExportOptions{}), ConverterConfig{
		Material: mesh.ChoiceGold,
		Scene:    checked,
	})
	_, err := conv.ConvertFiles(context.Background(), []string{path})
	var loadErr *LoadError
	if !errors.As(err, &loadErr) || !errors.Is(err, formats.ErrB3DIndexOutOfRange) {
		t.Fatalf("expected LoadError with ErrB3DIndexOutOfRange, got %v", err)
	}

	core, logs := observer.New(zapcore.DebugLevel)
	unchecked := scene.DefaultOptions()
	unchecked.CheckIndices = false
	conv = NewConverter(zap.New(core), NewExporter(nil, ExportOptions{}), ConverterConfig{
		Material: mesh.ChoiceGold,
		Scene:    unchecked,
	})
	results, err := conv.ConvertFiles(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("unchecked conversion failed: %v", err)
	}
	if len(results[0].Outputs) != 1 || results[0].Outputs[0] != path+".0.3.3.mt" {
		t.Errorf("unexpected outputs %v", results[0].Outputs)
	}

	// B3D sources go through the logged importer.
	if logs.FilterMessage("B3D header").Len() != 1 {
		t.Error("expected the B3D header to be logged")
	}
}
