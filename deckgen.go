package deckgen

import (
	"context"

	"github.com/goliatone/go-deckgen/pkg/generate"
	pkglayout "github.com/goliatone/go-deckgen/pkg/layout"
	"github.com/goliatone/go-deckgen/pkg/orchestrator"
	pkgspec "github.com/goliatone/go-deckgen/pkg/spec"
)

// FieldSpec aliases the typed field model exported via the root package for
// convenience.
type FieldSpec = pkgspec.FieldSpec

// CapacityLimit declares one bound on generated content.
type CapacityLimit = pkgspec.CapacityLimit

// DeckContext carries the presentation-level generation inputs.
type DeckContext = generate.DeckContext

// StructuredResult is the engine's output for one layout.
type StructuredResult = generate.StructuredResult

// GeneratedField is the outcome for one field.
type GeneratedField = generate.GeneratedField

// Warning is a non-fatal observation recorded during generation.
type Warning = generate.Warning

// TextGenerator produces text for a single field.
type TextGenerator = generate.TextGenerator

// GeneratorFunc adapts a function into a TextGenerator.
type GeneratorFunc = generate.GeneratorFunc

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateDeck loads the layout document, extracts its field specs, and runs
// structured generation against the supplied generator. It is the simplest
// entry point for callers that do not need custom wiring.
func GenerateDeck(ctx context.Context, source pkglayout.Source, deck DeckContext, generator TextGenerator, options ...orchestrator.Option) (StructuredResult, error) {
	options = append(options, orchestrator.WithGenerator(generator))
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source: source,
		Deck:   deck,
	})
}

// SourceFromFile builds a layout source backed by a file path.
func SourceFromFile(path string) pkglayout.Source {
	return pkglayout.SourceFromFile(path)
}

// SourceFromFS builds a layout source backed by an fs.FS entry; the fs.FS
// itself is supplied through layout.WithFileSystem on the loader.
func SourceFromFS(name string) pkglayout.Source {
	return pkglayout.SourceFromFS(name)
}

// SourceFromURL builds a layout source backed by an HTTP(S) URL.
func SourceFromURL(url string) pkglayout.Source {
	return pkglayout.SourceFromURL(url)
}
