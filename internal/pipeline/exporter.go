package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/scene"
	"github.com/Faultbox/meshkit/pkg/formats"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// Export errors.
var (
	ErrMissingNormals    = errors.New("mesh has no normals")
	ErrNonTriangularFace = errors.New("face is not a triangle")
)

// Export stages reported in MeshError.
const (
	StageBuild = "build"
	StageWrite = "write"
)

// MeshError reports a failure for one mesh of a source scene.
type MeshError struct {
	Source string
	Mesh   int
	Stage  string
	Err    error
}

func (e *MeshError) Error() string {
	return fmt.Sprintf("%s: mesh %d: %s: %v", e.Source, e.Mesh, e.Stage, e.Err)
}

func (e *MeshError) Unwrap() error {
	return e.Err
}

// ExportOptions controls where MT files are written.
type ExportOptions struct {
	OutputDir string // Empty writes next to the source file
	Dev       bool   // Use the .mtd extension
}

// Exporter converts scene meshes into MT files.
type Exporter struct {
	log  *zap.Logger
	opts ExportOptions
}

// NewExporter creates an exporter. A nil logger discards output.
func NewExporter(log *zap.Logger, opts ExportOptions) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{log: log, opts: opts}
}

// BuildRecord assembles the MT record for one mesh: positions and normals
// as-is, zero texture UVs, a material sampled per vertex and the flattened
// triangle indices.
func (e *Exporter) BuildRecord(m *scene.Mesh, choice mesh.Choice) (*mesh.Record, error) {
	if !m.HasNormals() {
		return nil, ErrMissingNormals
	}

	indices := make([]uint32, 0, m.IndexCount())
	for i, f := range m.Faces {
		if len(f) != 3 {
			return nil, fmt.Errorf("%w: face %d has %d indices", ErrNonTriangularFace, i, len(f))
		}
		indices = append(indices, f...)
	}

	materials := make([]mesh.Material, len(m.Positions))
	for i, p := range m.Positions {
		materials[i] = mesh.Sample(choice, p)
	}

	return &mesh.Record{
		Positions:  m.Positions,
		Normals:    m.Normals,
		TexCoords:  make([]mgl32.Vec2, len(m.Positions)),
		Materials:  materials,
		Indices:    indices,
		IndexWidth: mesh.IndexWidth32,
		HasNormals: true,
		HasUVs:     true,
	}, nil
}

// OutputPath returns the MT path for one mesh of source.
func (e *Exporter) OutputPath(source string, meshIndex int, rec *mesh.Record) string {
	name := source
	if e.opts.OutputDir != "" {
		name = filepath.Join(e.opts.OutputDir, filepath.Base(source))
	}
	return formats.MTFileName(name, meshIndex, rec.VertexCount(), len(rec.Indices), e.opts.Dev)
}

// ExportMesh builds and writes the MT file for one mesh.
func (e *Exporter) ExportMesh(source string, meshIndex int, m *scene.Mesh, choice mesh.Choice) (string, error) {
	rec, err := e.BuildRecord(m, choice)
	if err != nil {
		return "", &MeshError{Source: source, Mesh: meshIndex, Stage: StageBuild, Err: err}
	}

	path := e.OutputPath(source, meshIndex, rec)
	if err := writeMTFile(path, rec); err != nil {
		return "", &MeshError{Source: source, Mesh: meshIndex, Stage: StageWrite, Err: err}
	}

	e.log.Debug("mesh exported",
		zap.String("source", source),
		zap.Int("mesh", meshIndex),
		zap.String("name", m.Name),
		zap.Int("vertices", rec.VertexCount()),
		zap.Int("indices", len(rec.Indices)),
		zap.String("output", path))
	return path, nil
}

// ExportScene writes one MT file per mesh, in scene order, and returns the
// paths written. It stops at the first failing mesh.
func (e *Exporter) ExportScene(source string, s *scene.Scene, choice mesh.Choice) ([]string, error) {
	if e.opts.OutputDir != "" {
		if err := os.MkdirAll(e.opts.OutputDir, 0755); err != nil {
			return nil, &MeshError{Source: source, Mesh: 0, Stage: StageWrite, Err: err}
		}
	}

	paths := make([]string, 0, len(s.Meshes))
	for i := range s.Meshes {
		path, err := e.ExportMesh(source, i, &s.Meshes[i], choice)
		if err != nil {
			e.log.Error("mesh export failed", zap.Error(err))
			return paths, err
		}
		paths = append(paths, path)
	}

	e.log.Info("scene exported",
		zap.String("source", source),
		zap.Int("meshes", len(paths)),
		zap.Stringer("material", choice))
	return paths, nil
}

// writeMTFile writes rec to path, removing the file if writing fails.
func writeMTFile(path string, rec *mesh.Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating MT file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing MT file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	w := bufio.NewWriter(f)
	if err := formats.WriteMT(w, rec); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing MT file: %w", err)
	}
	return nil
}
