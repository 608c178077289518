package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte("damping: 0.9\niterations: 3\ncompression: none\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Damping != 0.9 {
		t.Errorf("Damping = %v, want 0.9", cfg.Damping)
	}
	if cfg.Iterations != 3 {
		t.Errorf("Iterations = %d, want 3", cfg.Iterations)
	}
	if cfg.Compression != "none" {
		t.Errorf("Compression = %q, want none", cfg.Compression)
	}
	if cfg.Partitions != Default().Partitions {
		t.Errorf("Partitions = %d, want default %d", cfg.Partitions, Default().Partitions)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) failed: %v", err)
	}
	if cfg.Iterations != 10 {
		t.Errorf("Iterations = %d, want 10", cfg.Iterations)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"damping_one", "damping: 1", "damping: must be less than 1"},
		{"damping_zero", "damping: 0", "damping: must be greater than 0"},
		{"no_iterations", "iterations: 0", "iterations: must be at least 1"},
		{"too_many_partitions", "partitions: 5000", "partitions: must not exceed 4096"},
		{"bad_compression", "compression: gzip", "compression: must be one of"},
		{"bad_partitioner", "partitioner: random", "partitioner: must be one of"},
		{"bad_level", "log_level: loud", "log_level: must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.yaml)
			}
			var cfgErr *Error
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error %v is not *Error", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestParseUnknownKey(t *testing.T) {
	if _, err := Parse([]byte("dampening: 0.5")); err == nil {
		t.Error("unknown key should be rejected")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(path, []byte("partitions: 8\nworkers: 2\ntop: 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Partitions != 8 || cfg.Workers != 2 || cfg.Top != 3 {
		t.Errorf("Load() = %+v", cfg)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load of missing file should fail")
	}
}
