// Package config handles mesh tool configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshkit/pkg/mesh"
)

// Configuration errors.
var (
	ErrNoMaterial  = errors.New("no material specified")
	ErrBadMaterial = errors.New("unknown material")
)

// Config holds all tool settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Import  ImportConfig  `yaml:"import"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds MT export settings.
type ExportConfig struct {
	Material        string `yaml:"material"`         // gold, jade, pearl, silver or landscape
	OutputDir       string `yaml:"output_dir"`       // Empty writes next to each source
	Dev             bool   `yaml:"dev"`              // Write .mtd instead of .mt
	Workers         int    `yaml:"workers"`          // Files converted concurrently
	Triangulate     bool   `yaml:"triangulate"`      // Fan-split polygons on import
	GenerateNormals bool   `yaml:"generate_normals"` // Compute normals a mesh lacks
}

// ImportConfig holds B3D import settings.
type ImportConfig struct {
	CheckIndices bool `yaml:"check_indices"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Material:        "",
			OutputDir:       "",
			Dev:             false,
			Workers:         1,
			Triangulate:     true,
			GenerateNormals: true,
		},
		Import: ImportConfig{
			CheckIndices: true,
		},
		Logging: LoggingConfig{
			Level:   "warning",
			LogFile: "",
		},
	}
}

// MaterialChoice parses Export.Material. It returns ErrNoMaterial when the
// material is unset and ErrBadMaterial when the name is not recognised.
func (c *Config) MaterialChoice() (mesh.Choice, error) {
	if c.Export.Material == "" {
		return 0, ErrNoMaterial
	}
	choice, err := mesh.ParseChoice(c.Export.Material)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBadMaterial, err)
	}
	return choice, nil
}
