// Package config loads and validates the YAML run configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied by Load when the file leaves a knob unset.
const (
	DefaultWorkers         = 4
	DefaultCheckpointEvery = 50
	DefaultOutputDir       = "result"
)

// RunConfig controls one evaluation run.
type RunConfig struct {
	Name            string           `yaml:"name"`
	Dataset         string           `yaml:"dataset"`
	OutputDir       string           `yaml:"output_dir,omitempty"`
	Concurrent      bool             `yaml:"parallel,omitempty"`
	Workers         int              `yaml:"max_workers,omitempty"`
	CheckpointEvery int              `yaml:"checkpoint_every,omitempty"`
	CheckpointDir   string           `yaml:"checkpoint_dir,omitempty"`
	Exporters       []ExporterConfig `yaml:"exporters,omitempty"`
}

// ExporterConfig selects one report output format. Options are decoded by
// the reporting package, per exporter kind.
type ExporterConfig struct {
	Kind    string         `yaml:"type"`
	Options map[string]any `yaml:"config,omitempty"`
}

// Load reads a RunConfig from a YAML file, applies defaults, and validates.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyDefaults fills unset fields with their defaults.
func (c *RunConfig) ApplyDefaults() {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.CheckpointEvery <= 0 {
		c.CheckpointEvery = DefaultCheckpointEvery
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if len(c.Exporters) == 0 {
		c.Exporters = []ExporterConfig{{Kind: "json"}, {Kind: "stats"}}
	}
}

// Validate checks that the configuration is usable.
func (c *RunConfig) Validate() error {
	if c.Dataset == "" {
		return fmt.Errorf("dataset path is required")
	}
	for _, e := range c.Exporters {
		switch e.Kind {
		case "json", "csv", "stats":
		default:
			return fmt.Errorf("unknown exporter type %q (must be json, csv, or stats)", e.Kind)
		}
	}
	return nil
}

// Save writes the configuration to a YAML file, used by the init wizard.
func (c *RunConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
