// meshtools converts 3D scene files into MT mesh files, one per mesh.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/config"
	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/internal/pipeline"
	"github.com/Faultbox/meshkit/internal/scene"
)

// Exit codes.
const (
	exitOK          = 0
	exitCommandLine = 1
	exitNoMaterial  = 2
	exitBadMaterial = 3
	exitNoFiles     = 4
	exitFileMissing = 5
	exitImport      = 6
	exitExport      = 7
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = printUsage
	if err := config.ParseFlags(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitCommandLine
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return exitCommandLine
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return exitCommandLine
	}
	defer logger.Sync()

	logger.Debug("config loaded", zap.Any("config", cfg))

	if path := config.SaveConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			logger.Error("cannot save config", zap.String("file", path), zap.Error(err))
			return exitCommandLine
		}
		logger.Info("config saved", zap.String("file", path))
		return exitOK
	}

	choice, err := cfg.MaterialChoice()
	switch {
	case errors.Is(err, config.ErrNoMaterial):
		logger.Error("no material specified, use -material")
		return exitNoMaterial
	case err != nil:
		logger.Error("invalid material", zap.String("material", cfg.Export.Material), zap.Error(err))
		return exitBadMaterial
	}

	files := config.Files()
	if len(files) == 0 {
		logger.Error("no input files")
		return exitNoFiles
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			logger.Error("input file not found", zap.String("file", f), zap.Error(err))
			return exitFileMissing
		}
	}

	exporter := pipeline.NewExporter(logger.Log, pipeline.ExportOptions{
		OutputDir: cfg.Export.OutputDir,
		Dev:       cfg.Export.Dev,
	})
	conv := pipeline.NewConverter(logger.Log, exporter, pipeline.ConverterConfig{
		Material: choice,
		Scene: scene.Options{
			Triangulate:     cfg.Export.Triangulate,
			GenerateNormals: cfg.Export.GenerateNormals,
			CheckIndices:    cfg.Import.CheckIndices,
		},
		Workers: cfg.Export.Workers,
	})

	results, err := conv.ConvertFiles(context.Background(), files)
	if err != nil {
		var loadErr *pipeline.LoadError
		if errors.As(err, &loadErr) {
			logger.Error("import failed", zap.String("file", loadErr.Source), zap.Error(loadErr.Err))
			return exitImport
		}
		logger.Error("export failed", zap.Error(err))
		return exitExport
	}

	for _, r := range results {
		for _, out := range r.Outputs {
			logger.Info("wrote", zap.String("source", r.Source), zap.String("output", out))
		}
	}
	return exitOK
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `meshtools - convert 3D scenes to MT mesh files

Usage:
  meshtools -material <name> [options] <file>...
  meshtools [options] -save-config <file>

Materials:
  gold, jade, pearl, silver, landscape (case-insensitive)

Each mesh of each input file is written to
  <file>.<mesh>.<vertices>.<indices>.mt
(.mtd with -dev). Supported inputs: .obj, .b3d

Options:`)
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, `
Exit codes:
  1 command line  2 no material  3 bad material  4 no files
  5 file missing  6 import failed  7 export failed`)
}
