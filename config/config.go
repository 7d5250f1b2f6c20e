// Package config loads the qimen.yaml file used by the command-line tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/qimen/refdata"
)

// DefaultPath is where the CLI looks when --config is not given.
const DefaultPath = "qimen.yaml"

// Config holds all qimen configuration.
type Config struct {
	// Reference tables document; empty means the embedded default.
	ReferenceData string `yaml:"reference_data"`

	// IANA zone casting timestamps are read in; empty or "Local" means the host zone.
	Timezone string `yaml:"timezone"`

	Output  OutputConfig  `yaml:"output"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// OutputConfig selects how charts are printed.
type OutputConfig struct {
	Format string `yaml:"format"` // json, pretty, text, csv, grid
}

// BatchConfig configures range casting.
type BatchConfig struct {
	Workers int    `yaml:"workers"` // 0 = GOMAXPROCS
	Step    string `yaml:"step"`    // default range step, e.g. "2h"
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// MetricsConfig toggles the Prometheus dump after each command.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Valid option values.
var (
	ValidFormats    = []string{"json", "pretty", "text", "csv", "grid"}
	ValidLevels     = []string{"debug", "info", "warn", "error"}
	ValidLogFormats = []string{"json", "console"}
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Timezone: "Local",
		Output:   OutputConfig{Format: "text"},
		Batch:    BatchConfig{Workers: 0, Step: "2h"},
		Logging:  LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads a YAML file over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.ReferenceData != "" && !filepath.IsAbs(cfg.ReferenceData) {
		cfg.ReferenceData = filepath.Join(filepath.Dir(path), cfg.ReferenceData)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !oneOf(c.Output.Format, ValidFormats) {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Output.Format, ValidFormats)
	}
	if !oneOf(c.Logging.Level, ValidLevels) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if !oneOf(c.Logging.Format, ValidLogFormats) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Logging.Format, ValidLogFormats)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch workers must not be negative, got %d", c.Batch.Workers)
	}
	if _, err := c.GetStep(); err != nil {
		return err
	}
	if _, err := c.GetLocation(); err != nil {
		return err
	}
	return nil
}

// GetLocation resolves Timezone.
func (c *Config) GetLocation() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GetStep returns the batch range step as a duration.
func (c *Config) GetStep() (time.Duration, error) {
	d, err := time.ParseDuration(c.Batch.Step)
	if err != nil {
		return 0, fmt.Errorf("invalid batch step %q: %w", c.Batch.Step, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("batch step must be positive, got %s", d)
	}
	return d, nil
}

// LoadTables loads the configured reference document, or the embedded one.
func (c *Config) LoadTables() (*refdata.Tables, error) {
	if c.ReferenceData == "" {
		return refdata.Default()
	}
	return refdata.LoadFile(c.ReferenceData)
}

// NewLogger builds a zap logger from the logging section. verbose forces
// debug level.
func (c *Config) NewLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Logging.Format == "console" {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func oneOf(v string, valid []string) bool {
	for _, s := range valid {
		if v == s {
			return true
		}
	}
	return false
}
