package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Index.R != 32 {
		t.Errorf("Expected R=32, got %d", cfg.Index.R)
	}
	if cfg.Index.L != 100 {
		t.Errorf("Expected L=100, got %d", cfg.Index.L)
	}
	if cfg.Index.Alpha != 1.2 {
		t.Errorf("Expected alpha=1.2, got %g", cfg.Index.Alpha)
	}
	if cfg.Dataset.Column != "embedding" {
		t.Errorf("Expected column 'embedding', got %q", cfg.Dataset.Column)
	}

	// Defaults only lack the dataset path.
	cfg.Dataset.Path = "vectors.db"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults with a path should validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
index:
  r: 48
  alpha: 1.4
dataset:
  path: /data/index.db
  column: vec
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Index.R != 48 {
		t.Errorf("Expected R=48, got %d", cfg.Index.R)
	}
	if cfg.Index.Alpha != 1.4 {
		t.Errorf("Expected alpha=1.4, got %g", cfg.Index.Alpha)
	}
	// Unset keys keep their defaults.
	if cfg.Index.L != 100 {
		t.Errorf("Expected default L=100, got %d", cfg.Index.L)
	}
	if cfg.Dataset.Path != "/data/index.db" {
		t.Errorf("Expected path from file, got %q", cfg.Dataset.Path)
	}
	if cfg.Dataset.Column != "vec" {
		t.Errorf("Expected column 'vec', got %q", cfg.Dataset.Column)
	}
	if cfg.Dataset.Table != "vectors" {
		t.Errorf("Expected default table, got %q", cfg.Dataset.Table)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("VAMANA_R", "64")
	t.Setenv("VAMANA_ALPHA", "1.3")
	t.Setenv("VAMANA_DATA_PATH", "/env/data.db")
	t.Setenv("VAMANA_LOG_LEVEL", "DEBUG")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.Index.R != 64 {
		t.Errorf("Expected R=64 from env, got %d", cfg.Index.R)
	}
	if cfg.Index.Alpha != 1.3 {
		t.Errorf("Expected alpha=1.3 from env, got %g", cfg.Index.Alpha)
	}
	if cfg.Dataset.Path != "/env/data.db" {
		t.Errorf("Expected path from env, got %q", cfg.Dataset.Path)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected DEBUG from env, got %q", cfg.Logging.Level)
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero R", func(c *Config) { c.Index.R = 0 }},
		{"zero L", func(c *Config) { c.Index.L = 0 }},
		{"alpha below one", func(c *Config) { c.Index.Alpha = 0.9 }},
		{"negative workers", func(c *Config) { c.Index.Workers = -1 }},
		{"missing path", func(c *Config) { c.Dataset.Path = "" }},
		{"missing table", func(c *Config) { c.Dataset.Table = "" }},
		{"missing column", func(c *Config) { c.Dataset.Column = "" }},
		{"zero batch size", func(c *Config) { c.Dataset.BatchSize = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Dataset.Path = "vectors.db"
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
