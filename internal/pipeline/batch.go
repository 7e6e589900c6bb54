package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/meshkit/internal/scene"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// LoadError reports a scene file that could not be read.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Result lists the MT files written for one source.
type Result struct {
	Source  string
	Outputs []string
}

// ConverterConfig holds batch conversion settings.
type ConverterConfig struct {
	Material mesh.Choice
	Scene    scene.Options
	Workers  int // Files converted concurrently; values below 1 mean 1
}

// Converter loads scene files and exports every mesh they contain.
type Converter struct {
	log      *zap.Logger
	exporter *Exporter
	cfg      ConverterConfig
}

// NewConverter creates a converter writing through exporter. A nil logger
// discards output. B3D sources are read with a logged Importer unless
// cfg.Scene supplies its own reader.
func NewConverter(log *zap.Logger, exporter *Exporter, cfg ConverterConfig) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Scene.B3DReader == nil {
		cfg.Scene.B3DReader = NewImporter(log, cfg.Scene.CheckIndices)
	}
	return &Converter{log: log, exporter: exporter, cfg: cfg}
}

// ConvertFile loads one scene and exports its meshes.
func (c *Converter) ConvertFile(path string) (Result, error) {
	c.log.Debug("loading scene", zap.String("file", path))

	s, err := scene.Load(path, c.cfg.Scene)
	if err != nil {
		return Result{Source: path}, &LoadError{Source: path, Err: err}
	}
	c.log.Debug("scene loaded", zap.String("file", path), zap.Int("meshes", len(s.Meshes)))

	outputs, err := c.exporter.ExportScene(path, s, c.cfg.Material)
	return Result{Source: path, Outputs: outputs}, err
}

// ConvertFiles converts files with up to Workers running at once. Results
// are in input order. The first failure stops files not yet started and is
// returned; results of files that finished are kept.
func (c *Converter) ConvertFiles(ctx context.Context, files []string) ([]Result, error) {
	results := make([]Result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := c.ConvertFile(path)
			results[i] = r
			if err != nil {
				c.log.Error("conversion failed", zap.String("file", path), zap.Error(err))
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	c.log.Info("conversion finished", zap.Int("files", len(files)))
	return results, nil
}
