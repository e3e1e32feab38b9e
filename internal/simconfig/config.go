// Package simconfig loads the optional run configuration file accepted
// by cmd/mapfsim's -config flag.
package simconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the run-time knobs a batch job might want to override
// without recompiling. Every field's zero value reproduces the default
// CLI behavior: horizon taken from the map file, no trace, no
// throughput file, output written alongside the task file.
type Config struct {
	HorizonOverride int    `yaml:"horizon_override"`
	Trace           bool   `yaml:"trace"`
	Throughput      bool   `yaml:"throughput"`
	OutputDir       string `yaml:"output_dir"`
}

// Load reads a config file. A missing path is not an error: callers
// pass "" when -config was not given, and get the zero-value Config.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("simconfig: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("simconfig: %w", err)
	}
	return cfg, nil
}
