package layout

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// Loader fetches layout documents from different sources (filesystem, fs.FS,
// HTTP). Implementations live under internal/layout but satisfy this contract.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// Parser interprets a loaded Document into a Layout tree.
type Parser interface {
	Parse(ctx context.Context, doc Document) (Layout, error)
}

// LoaderOptions configures how a Loader resolves sources. Loading stays
// offline-first: HTTP sources only work when explicitly enabled.
type LoaderOptions struct {
	// FileSystem enables loading from an abstract filesystem; defaults to the
	// operating system if nil.
	FileSystem fs.FS

	// HTTPClient allows callers to inject custom HTTP behaviour (timeouts,
	// proxies). Nil means HTTP sources are disabled unless AllowHTTPFallback is
	// true.
	HTTPClient *http.Client

	// AllowHTTPFallback toggles the default HTTP loader when no client is
	// supplied.
	AllowHTTPFallback bool

	// RequestTimeout caps remote fetch durations when AllowHTTPFallback is true.
	RequestTimeout time.Duration
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS implementation for relative paths.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote layout documents.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables HTTP loading using a default client and assigns an
// optional timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// NewLoaderOptions applies a set of LoaderOption values and returns the
// resulting configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// ParserOptions configures layout parsing behaviour.
type ParserOptions struct {
	// AllowEmptyLayouts permits documents whose field tree declares no
	// properties. Disabled by default so misauthored layouts fail fast.
	AllowEmptyLayouts bool
}

// ParserOption mutates ParserOptions prior to construction.
type ParserOption func(*ParserOptions)

// WithAllowEmptyLayouts tolerates layouts without field declarations.
func WithAllowEmptyLayouts() ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowEmptyLayouts = true
	}
}

// NewParserOptions applies a set of ParserOption values.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}
