package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	internalLoader "github.com/goliatone/go-deckgen/internal/layout/loader"
	internalParser "github.com/goliatone/go-deckgen/internal/layout/parser"
	"github.com/goliatone/go-deckgen/pkg/generate"
	pkglayout "github.com/goliatone/go-deckgen/pkg/layout"
	pkgspec "github.com/goliatone/go-deckgen/pkg/spec"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom layout loader.
func WithLoader(loader pkglayout.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom layout parser.
func WithParser(parser pkglayout.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithExtractor injects a custom field-spec extractor.
func WithExtractor(extractor pkgspec.Extractor) Option {
	return func(o *Orchestrator) {
		o.extractor = extractor
	}
}

// WithGenerator sets the text generator the engine calls. Required; there is
// no built-in generator.
func WithGenerator(generator generate.TextGenerator) Option {
	return func(o *Orchestrator) {
		o.generator = generator
	}
}

// WithEngineConfig overrides the default engine configuration.
func WithEngineConfig(config generate.Config) Option {
	return func(o *Orchestrator) {
		o.engineConfig = config
		o.engineConfigSet = true
	}
}

// WithLogger attaches a logger shared by the orchestrator and the engine.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the full pipeline from layout document to
// structured generation result. It applies built-in defaults for loading,
// parsing, and extraction while remaining open to dependency injection; only
// the generator has to come from the caller.
type Orchestrator struct {
	loader          pkglayout.Loader
	parser          pkglayout.Parser
	extractor       pkgspec.Extractor
	generator       generate.TextGenerator
	engine          *generate.Engine
	engineConfig    generate.Config
	engineConfigSet bool
	logger          *zap.Logger
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to generate content for one slide.
type Request struct {
	// Source identifies where the layout document lives. Optional when
	// Document is supplied.
	Source pkglayout.Source

	// Document allows callers to bypass the loader when they already have a
	// loaded payload.
	Document *pkglayout.Document

	// Deck carries the presentation-level inputs passed to the generator.
	Deck generate.DeckContext
}

// Generate executes the loader → parser → extractor → engine sequence and
// returns the structured result, complete even when individual fields failed.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (generate.StructuredResult, error) {
	if ctx == nil {
		return generate.StructuredResult{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return generate.StructuredResult{}, err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
	}
	if err := o.initialiseErr; err != nil {
		return generate.StructuredResult{}, err
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return generate.StructuredResult{}, err
	}

	layout, err := o.parser.Parse(ctx, doc)
	if err != nil {
		return generate.StructuredResult{}, fmt.Errorf("orchestrator: parse layout: %w", err)
	}

	fields, err := o.extractor.Extract(layout)
	if err != nil {
		return generate.StructuredResult{}, fmt.Errorf("orchestrator: extract field specs: %w", err)
	}

	o.logger.Debug("layout resolved",
		zap.String("layout", layout.ID),
		zap.Int("fields", len(fields)),
	)

	result, err := o.engine.Generate(ctx, fields, req.Deck)
	if err != nil {
		return generate.StructuredResult{}, fmt.Errorf("orchestrator: generate content: %w", err)
	}
	return result, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (pkglayout.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return pkglayout.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return pkglayout.Document{}, fmt.Errorf("orchestrator: load layout: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.loader == nil {
		o.loader = internalLoader.New(pkglayout.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkglayout.NewParserOptions())
	}
	if o.extractor == nil {
		o.extractor = pkgspec.NewExtractor()
	}

	if o.generator == nil {
		o.initialiseErr = errors.New("orchestrator: a text generator is required")
	} else if o.engine == nil {
		engineOptions := []generate.Option{generate.WithLogger(o.logger)}
		if o.engineConfigSet {
			engineOptions = append(engineOptions, generate.WithConfig(o.engineConfig))
		}
		engine, err := generate.New(o.generator, engineOptions...)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: build engine: %w", err)
		} else {
			o.engine = engine
		}
	}

	o.defaultsApplied = true
}
