package generate

import "time"

// Config tunes the generation engine. The zero value is usable; withDefaults
// fills in anything left unset.
type Config struct {
	// MaxRetries is the number of additional attempts after the first, per
	// field. Applies to retryable failures and density misses alike.
	MaxRetries int `env:"DECKGEN_MAX_RETRIES"`
	// FieldTimeout bounds each individual generator call.
	FieldTimeout time.Duration `env:"DECKGEN_FIELD_TIMEOUT"`
	// Concurrency caps how many generator calls run at once.
	Concurrency int `env:"DECKGEN_CONCURRENCY"`
	// DefaultCharCeiling truncates generator-owned plain text that declares
	// no character capacity of its own.
	DefaultCharCeiling int `env:"DECKGEN_DEFAULT_CHAR_CEILING"`
	// ContinuationMarker, when non-empty, is appended to truncated values.
	// Truncation is silent otherwise.
	ContinuationMarker string `env:"DECKGEN_CONTINUATION_MARKER"`
}

const (
	defaultMaxRetries   = 2
	defaultFieldTimeout = 30 * time.Second
	defaultConcurrency  = 4
	defaultCharCeiling  = 600
)

func (c Config) withDefaults() Config {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.FieldTimeout <= 0 {
		c.FieldTimeout = defaultFieldTimeout
	}
	if c.Concurrency <= 0 {
		c.Concurrency = defaultConcurrency
	}
	if c.DefaultCharCeiling <= 0 {
		c.DefaultCharCeiling = defaultCharCeiling
	}
	return c
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxRetries:         defaultMaxRetries,
		FieldTimeout:       defaultFieldTimeout,
		Concurrency:        defaultConcurrency,
		DefaultCharCeiling: defaultCharCeiling,
	}
}
