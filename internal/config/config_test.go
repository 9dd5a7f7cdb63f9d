package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultProducesValidatableParameters(t *testing.T) {
	cfg := Default()
	if err := cfg.Parameters.Validate(); err != nil {
		t.Fatalf("Default().Parameters.Validate() = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
}

func TestLoadFillsMissingFieldsFromDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "parameters:\n  totalIterations: 0\nserver:\n  port: 0\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Parameters.Validate(); err != nil {
		t.Fatalf("Load did not fill in a valid default Parameters: %v", err)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	os.Setenv("PORT", "7777")
	defer os.Unsetenv("PORT")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Fatalf("Server.Port = %d, want 7777 from PORT env override", cfg.Server.Port)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Fatalf("expected an error loading a nonexistent file")
	}
}
