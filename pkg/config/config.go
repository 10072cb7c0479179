// Package config resolves builder configuration from defaults, an optional
// YAML file and VAMANA_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all builder configuration
type Config struct {
	Index   IndexConfig   `yaml:"index"`
	Dataset DatasetConfig `yaml:"dataset"`
	Logging LoggingConfig `yaml:"logging"`
}

// IndexConfig holds the Vamana construction parameters
type IndexConfig struct {
	R       int     `yaml:"r"`       // Out-degree cap per vertex (typical: 32-64)
	L       int     `yaml:"l"`       // Search-list size during construction (typical: 75-200)
	Alpha   float32 `yaml:"alpha"`   // Prune relaxation for the second pass (>= 1.0)
	Seed    int64   `yaml:"seed"`    // RNG seed; fixes the shuffle order
	Workers int     `yaml:"workers"` // Prune workers; 0 = number of CPUs
}

// DatasetConfig points at the SQLite source
type DatasetConfig struct {
	Path      string `yaml:"path"`       // Database file path
	Table     string `yaml:"table"`      // Table to scan
	Column    string `yaml:"column"`     // Vector column name
	BatchSize int    `yaml:"batch_size"` // Rows per scanned batch
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Index: IndexConfig{
			R:     32,
			L:     100,
			Alpha: 1.2,
			Seed:  42,
		},
		Dataset: DatasetConfig{
			Table:     "vectors",
			Column:    "embedding",
			BatchSize: 1024,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// LoadFile reads a YAML config file over the defaults
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv layers VAMANA_* environment variables over the configuration
func (c *Config) ApplyEnv() {
	if v := os.Getenv("VAMANA_R"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Index.R = n
		}
	}
	if v := os.Getenv("VAMANA_L"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Index.L = n
		}
	}
	if v := os.Getenv("VAMANA_ALPHA"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			c.Index.Alpha = float32(f)
		}
	}
	if v := os.Getenv("VAMANA_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Index.Seed = n
		}
	}
	if v := os.Getenv("VAMANA_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Index.Workers = n
		}
	}
	if v := os.Getenv("VAMANA_DATA_PATH"); v != "" {
		c.Dataset.Path = v
	}
	if v := os.Getenv("VAMANA_TABLE"); v != "" {
		c.Dataset.Table = v
	}
	if v := os.Getenv("VAMANA_COLUMN"); v != "" {
		c.Dataset.Column = v
	}
	if v := os.Getenv("VAMANA_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Dataset.BatchSize = n
		}
	}
	if v := os.Getenv("VAMANA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Index.R < 1 {
		return fmt.Errorf("invalid R: %d (must be >= 1)", c.Index.R)
	}
	if c.Index.L < 1 {
		return fmt.Errorf("invalid L: %d (must be >= 1)", c.Index.L)
	}
	if c.Index.Alpha < 1.0 {
		return fmt.Errorf("invalid alpha: %g (must be >= 1.0)", c.Index.Alpha)
	}
	if c.Index.Workers < 0 {
		return fmt.Errorf("invalid workers: %d (must be >= 0)", c.Index.Workers)
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset path not specified")
	}
	if c.Dataset.Table == "" {
		return fmt.Errorf("dataset table not specified")
	}
	if c.Dataset.Column == "" {
		return fmt.Errorf("vector column not specified")
	}
	if c.Dataset.BatchSize < 1 {
		return fmt.Errorf("invalid batch size: %d (must be >= 1)", c.Dataset.BatchSize)
	}
	return nil
}
