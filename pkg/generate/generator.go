package generate

import (
	"context"

	"github.com/goliatone/go-deckgen/pkg/spec"
)

// DeckContext carries the presentation-level inputs a generator needs to
// produce on-topic content. The engine treats it as opaque.
type DeckContext struct {
	Topic    string
	Audience string
	Tone     string
	// Extra holds caller-defined key/value hints passed through untouched.
	Extra map[string]string
}

// Guidance tells the generator how much content to aim for. Zero values mean
// no guidance for that dimension. Targets shift between attempts as density
// feedback comes back.
type Guidance struct {
	Characters int
	Words      int
	Lines      int
}

// Request describes one field-generation attempt.
type Request struct {
	// RequestID identifies the enclosing engine run.
	RequestID string
	// Path is the dotted field path within the layout.
	Path      string
	Format    spec.FormatType
	Owner     spec.FormatOwner
	Structure string
	// Description is the field's schema description, when present.
	Description string
	Guidance    Guidance
	Deck        DeckContext
	// Attempt counts from 1.
	Attempt int
}

// Response is the raw generator output for one attempt.
type Response struct {
	Text string
}

// TextGenerator produces text for a single field. Implementations must honor
// ctx cancellation; the engine applies a per-field timeout around each call.
type TextGenerator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// GeneratorFunc adapts a function into a TextGenerator.
type GeneratorFunc func(ctx context.Context, req Request) (Response, error)

// Generate calls the underlying function.
func (fn GeneratorFunc) Generate(ctx context.Context, req Request) (Response, error) {
	return fn(ctx, req)
}
