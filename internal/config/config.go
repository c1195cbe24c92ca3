// Package config holds the pipeline configuration: where source documents
// and ground-truth records live, split parameters, and quality-report
// settings. Loaded once from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"shipdocs/internal/schema"
	"shipdocs/internal/split"
)

// Config is the full shipdocs configuration.
type Config struct {
	// DataDir holds the raw source documents (never parsed, only listed).
	DataDir string `yaml:"data_dir"`

	// GroundTruthDir holds one JSON annotation record per document.
	GroundTruthDir string `yaml:"ground_truth_dir"`

	// SchemaPath optionally points at a YAML schema-definitions file
	// merged over the built-in document types.
	SchemaPath string `yaml:"schema_path,omitempty"`

	Split   SplitConfig   `yaml:"split"`
	Quality QualityConfig `yaml:"quality"`
	Logging LoggingConfig `yaml:"logging"`
}

// SplitConfig configures the train/validation/test partition.
type SplitConfig struct {
	Ratios       split.Ratios `yaml:"ratios"`
	Seed         int64        `yaml:"seed"`
	ManifestPath string       `yaml:"manifest_path"`
}

// QualityConfig configures the quality reporter.
type QualityConfig struct {
	// UniqueFields overrides, per document type, which fields are
	// treated as unique-ish for duplicate warnings. Types without an
	// entry fall back to the schema's identifier fields.
	UniqueFields map[schema.DocumentType][]string `yaml:"unique_fields,omitempty"`

	ReportPath string `yaml:"report_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:        "data/raw",
		GroundTruthDir: "data/ground_truth",

		Split: SplitConfig{
			Ratios:       split.DefaultRatios(),
			Seed:         42,
			ManifestPath: filepath.Join("data", "split_manifest.json"),
		},

		Quality: QualityConfig{
			ReportPath: filepath.Join("docs", "data_quality_report.md"),
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("SHIPDOCS_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if dir := os.Getenv("SHIPDOCS_GROUND_TRUTH_DIR"); dir != "" {
		c.GroundTruthDir = dir
	}
	if path := os.Getenv("SHIPDOCS_SCHEMA_PATH"); path != "" {
		c.SchemaPath = path
	}
	if seed := os.Getenv("SHIPDOCS_SEED"); seed != "" {
		if n, err := strconv.ParseInt(seed, 10, 64); err == nil {
			c.Split.Seed = n
		}
	}
	if path := os.Getenv("SHIPDOCS_MANIFEST_PATH"); path != "" {
		c.Split.ManifestPath = path
	}
}

// Registry builds the schema registry this configuration names: the
// built-in shipping schemas, optionally merged with SchemaPath.
func (c *Config) Registry() (*schema.Registry, error) {
	if c.SchemaPath == "" {
		return schema.Default(), nil
	}
	return schema.LoadDefinitions(c.SchemaPath)
}
