package route

import (
	"github.com/goliatone/go-deckgen/pkg/generate"
)

const defaultCharCeiling = 600

// Option configures the router.
type Option func(*Router)

// WithCharCeiling sets the truncation ceiling for legacy plain strings.
func WithCharCeiling(ceiling int) Option {
	return func(r *Router) {
		if ceiling > 0 {
			r.charCeiling = ceiling
		}
	}
}

// WithContinuationMarker appends a marker to truncated legacy strings.
// Truncation is silent without it.
func WithContinuationMarker(marker string) Option {
	return func(r *Router) {
		r.marker = marker
	}
}

// Content is a routed payload. Exactly one of Result, Raw, or Text is
// populated, according to Class; empty payloads populate none and carry the
// typed marker instead.
type Content struct {
	Class Classification

	// Result holds a structured engine result passed through untouched.
	Result *generate.StructuredResult
	// Raw holds the decoded map form of a structured result, also untouched.
	Raw map[string]any
	// Text holds plain string content after legacy shaping.
	Text string
	// Empty is set for absent content.
	Empty *EmptyContent
}

// Router decides what, if anything, happens to a payload on its way to the
// downstream renderer. Structured results are already generated within
// capacity and routed byte-identical; only raw legacy strings get shaped.
// Routing the output of Route again yields the same Content.
type Router struct {
	charCeiling int
	marker      string
}

// NewRouter constructs a Router.
func NewRouter(options ...Option) *Router {
	router := &Router{charCeiling: defaultCharCeiling}
	for _, option := range options {
		if option != nil {
			option(router)
		}
	}
	return router
}

// Route classifies the payload and applies the class's handling. Unknown
// payload shapes are a RoutingError; nothing is ever silently coerced.
func (r *Router) Route(payload any) (Content, error) {
	if routed, ok := payload.(Content); ok {
		// Already routed; idempotent by construction.
		return routed, nil
	}

	class, ok := Classify(payload)
	if !ok {
		return Content{}, unroutableError(payload)
	}

	switch class {
	case ClassEmpty:
		return Content{Class: ClassEmpty, Empty: &EmptyContent{}}, nil

	case ClassStructured:
		switch v := payload.(type) {
		case generate.StructuredResult:
			return Content{Class: ClassStructured, Result: &v}, nil
		case *generate.StructuredResult:
			return Content{Class: ClassStructured, Result: v}, nil
		case map[string]any:
			return Content{Class: ClassStructured, Raw: v}, nil
		default:
			return Content{}, unroutableError(payload)
		}

	default:
		text := payload.(string)
		if generate.LooksMarked(text) {
			// The generator owned formatting here; pass it through as-is.
			return Content{Class: ClassPlainText, Text: text}, nil
		}
		return Content{
			Class: ClassPlainText,
			Text:  generate.Truncate(text, r.charCeiling, r.marker),
		}, nil
	}
}
