package config

import (
	"flag"
	"os"
	"path/filepath"
)

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagMaterial = flag.String("material", "", "Material: gold, jade, pearl, silver or landscape")
	flagM        = flag.String("m", "", "Shorthand for -material")
	flagLogLevel = flag.String("log-level", "", "Log level: trace, debug, info, warning, error or fatal")
	flagL        = flag.String("l", "", "Shorthand for -log-level")
	flagLogFile  = flag.String("log-file", "", "Also write logs to this file")
	flagOut      = flag.String("out", "", "Output directory for MT files")
	flagWorkers  = flag.Int("workers", 0, "Files converted concurrently")
	flagDev      = flag.Bool("dev", false, "Write .mtd development files")

	flagSaveConfig = flag.String("save-config", "", "Write the effective config to this file and exit")
)

// ParseFlags parses command-line flags. Call this early in main(). It
// returns flag.ErrHelp for -h and -help instead of exiting.
func ParseFlags() error {
	flag.CommandLine.Init(filepath.Base(os.Args[0]), flag.ContinueOnError)
	return flag.CommandLine.Parse(os.Args[1:])
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveConfigPath returns the -save-config target, or "" if not given.
func SaveConfigPath() string {
	return *flagSaveConfig
}

// Files returns the positional arguments left after flag parsing.
func Files() []string {
	return flag.Args()
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagM != "" {
		cfg.Export.Material = *flagM
	}
	if *flagMaterial != "" {
		cfg.Export.Material = *flagMaterial
	}
	if *flagL != "" {
		cfg.Logging.Level = *flagL
	}
	if *flagLogLevel != "" {
		cfg.Logging.Level = *flagLogLevel
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagOut != "" {
		cfg.Export.OutputDir = *flagOut
	}
	if *flagWorkers > 0 {
		cfg.Export.Workers = *flagWorkers
	}
	if *flagDev {
		cfg.Export.Dev = true
	}
}
