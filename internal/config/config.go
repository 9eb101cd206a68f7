// Package config loads application configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	// ErrPostgresDSNRequired is returned when a command needs the source
	// database but no DSN is configured
	ErrPostgresDSNRequired = errors.New("postgres DSN is required")
	// ErrClickHouseDSNRequired is returned when a command needs the derived
	// database but no DSN is configured
	ErrClickHouseDSNRequired = errors.New("clickhouse DSN is required")
	// ErrOutputDirRequired is returned when the output directory is empty
	ErrOutputDirRequired = errors.New("output directory is required")
)

// Config represents the complete application configuration.
type Config struct {
	Logging    string           `yaml:"logging" default:"info"`
	Dataset    DatasetConfig    `yaml:"dataset"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	Output     OutputConfig     `yaml:"output"`
}

// DatasetConfig points at the CSV input relations.
type DatasetConfig struct {
	Dir string `yaml:"dir" default:"data"`
}

// PostgresConfig represents the source database connection.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// ClickHouseConfig represents the derived-relation database connection.
type ClickHouseConfig struct {
	DSN string `yaml:"dsn"`
}

// OutputConfig controls where run artifacts are written.
type OutputConfig struct {
	Dir string `yaml:"dir" default:"output"`
}

// Default returns a configuration with all defaults applied and no file read.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the YAML file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks fields every command depends on. Database DSNs are checked
// by the commands that use them, since fixture runs need neither.
func (c *Config) Validate() error {
	if c.Output.Dir == "" {
		return ErrOutputDirRequired
	}
	if _, err := logrus.ParseLevel(c.Logging); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Logging, err)
	}
	return nil
}

// LogLevel returns the configured logrus level.
// Validate must have accepted the configuration first.
func (c *Config) LogLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.Logging)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
