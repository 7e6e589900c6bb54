// Package pipeline wires the mesh formats into logged import, export and
// batch conversion steps.
package pipeline

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/pkg/formats"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// Importer reads B3D files and reports progress through its logger.
type Importer struct {
	log          *zap.Logger
	checkIndices bool
}

// NewImporter creates an importer. A nil logger discards output. When
// checkIndices is false, out-of-range indices are passed through.
func NewImporter(log *zap.Logger, checkIndices bool) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{log: log, checkIndices: checkIndices}
}

// b3dStages maps reader errors to the stage that produced them.
var b3dStages = []struct {
	err   error
	stage string
}{
	{formats.ErrB3DCannotOpen, "open"},
	{formats.ErrB3DTruncatedHeader, "header"},
	{formats.ErrB3DBadMagic, "header"},
	{formats.ErrB3DBadIndexHint, "header"},
	{formats.ErrB3DTruncatedVertices, "vertices"},
	{formats.ErrB3DTruncatedNormals, "normals"},
	{formats.ErrB3DTruncatedUVs, "texture uvs"},
	{formats.ErrB3DTruncatedColours, "colours"},
	{formats.ErrB3DTruncatedIndices, "indices"},
	{formats.ErrB3DIndexOutOfRange, "indices"},
}

// B3DStage names the read step an import error came from, or "" if the
// error is not a B3D reader error.
func B3DStage(err error) string {
	for _, s := range b3dStages {
		if errors.Is(err, s.err) {
			return s.stage
		}
	}
	return ""
}

// Import reads and decodes one B3D file.
func (im *Importer) Import(path string) (*mesh.Record, error) {
	log := im.log.With(zap.String("file", path))
	log.Debug("importing B3D file")

	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("%w '%s': %w", formats.ErrB3DCannotOpen, path, err)
		log.Error("B3D import failed", zap.String("stage", "open"), zap.Error(err))
		return nil, err
	}

	if h, err := formats.ParseB3DHeader(data); err == nil {
		log.Debug("B3D header",
			zap.Uint32("vertices", h.NumVertices),
			zap.Uint32("indices", h.NumIndices),
			zap.Bool("normals", h.Normals()),
			zap.Bool("uvs", h.UVs()),
			zap.Bool("colours", h.Colours()),
			zap.Stringer("indexHint", mesh.IndexWidth(h.IndexHint)),
			zap.Uint64("bodySize", h.BodySize()),
			zap.Int("fileSize", len(data)))
	}

	var rec *mesh.Record
	if im.checkIndices {
		rec, err = formats.ParseB3D(data)
	} else {
		rec, err = formats.ParseB3DUnchecked(data)
	}
	if err != nil {
		log.Error("B3D import failed", zap.String("stage", B3DStage(err)), zap.Error(err))
		return nil, err
	}

	log.Debug("B3D file imported",
		zap.Int("vertices", rec.VertexCount()),
		zap.Int("triangles", rec.TriangleCount()))
	return rec, nil
}
