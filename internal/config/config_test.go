package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.MaxRetries != 2 || cfg.Engine.Concurrency != 4 {
		t.Fatalf("unexpected engine defaults: %+v", cfg.Engine)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected info log level, got %q", cfg.LogLevel)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deckgen.yaml")
	content := `
engine:
  max_retries: 5
  field_timeout_seconds: 10
service:
  base_url: http://text-service:8080
  timeout_seconds: 3
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.MaxRetries != 5 {
		t.Fatalf("expected max_retries 5, got %d", cfg.Engine.MaxRetries)
	}
	if cfg.Engine.FieldTimeout != 10*time.Second {
		t.Fatalf("expected 10s field timeout, got %s", cfg.Engine.FieldTimeout)
	}
	// Unset keys keep their defaults.
	if cfg.Engine.Concurrency != 4 {
		t.Fatalf("expected default concurrency, got %d", cfg.Engine.Concurrency)
	}
	if cfg.Service.BaseURL != "http://text-service:8080" || cfg.Service.Timeout != 3*time.Second {
		t.Fatalf("unexpected service config: %+v", cfg.Service)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug log level, got %q", cfg.LogLevel)
	}
}

func TestLoadEnvironmentWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deckgen.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\nservice:\n  base_url: http://from-file\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DECKGEN_LOG_LEVEL", "warn")
	t.Setenv("DECKGEN_TEXT_SERVICE_URL", "http://from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected env log level to win, got %q", cfg.LogLevel)
	}
	if cfg.Service.BaseURL != "http://from-env" {
		t.Fatalf("expected env base url to win, got %q", cfg.Service.BaseURL)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
