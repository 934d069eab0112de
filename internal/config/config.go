package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-deckgen/pkg/generate"
	"github.com/goliatone/go-deckgen/pkg/textservice"
)

// Config is the CLI's full configuration: engine tuning, text service
// location, and logging. Values resolve in order: built-in defaults, then the
// YAML file, then DECKGEN_* environment variables.
type Config struct {
	Engine   generate.Config
	Service  textservice.Config
	LogLevel string `env:"DECKGEN_LOG_LEVEL"`
}

// fileConfig is the YAML shape. Durations are plain seconds and every field
// is a pointer so an absent key never clobbers a default.
type fileConfig struct {
	Engine struct {
		MaxRetries          *int    `yaml:"max_retries"`
		FieldTimeoutSeconds *int    `yaml:"field_timeout_seconds"`
		Concurrency         *int    `yaml:"concurrency"`
		DefaultCharCeiling  *int    `yaml:"default_char_ceiling"`
		ContinuationMarker  *string `yaml:"continuation_marker"`
	} `yaml:"engine"`
	Service struct {
		BaseURL        *string `yaml:"base_url"`
		TimeoutSeconds *int    `yaml:"timeout_seconds"`
	} `yaml:"service"`
	LogLevel *string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine:   generate.DefaultConfig(),
		LogLevel: "info",
	}
}

// Load resolves the configuration. Path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		var file fileConfig
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		file.apply(&cfg)
	}

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: environment overrides: %w", err)
	}
	return cfg, nil
}

func (f fileConfig) apply(cfg *Config) {
	if f.Engine.MaxRetries != nil {
		cfg.Engine.MaxRetries = *f.Engine.MaxRetries
	}
	if f.Engine.FieldTimeoutSeconds != nil {
		cfg.Engine.FieldTimeout = time.Duration(*f.Engine.FieldTimeoutSeconds) * time.Second
	}
	if f.Engine.Concurrency != nil {
		cfg.Engine.Concurrency = *f.Engine.Concurrency
	}
	if f.Engine.DefaultCharCeiling != nil {
		cfg.Engine.DefaultCharCeiling = *f.Engine.DefaultCharCeiling
	}
	if f.Engine.ContinuationMarker != nil {
		cfg.Engine.ContinuationMarker = *f.Engine.ContinuationMarker
	}
	if f.Service.BaseURL != nil {
		cfg.Service.BaseURL = *f.Service.BaseURL
	}
	if f.Service.TimeoutSeconds != nil {
		cfg.Service.Timeout = time.Duration(*f.Service.TimeoutSeconds) * time.Second
	}
	if f.LogLevel != nil {
		cfg.LogLevel = *f.LogLevel
	}
}
