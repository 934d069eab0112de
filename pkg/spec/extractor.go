package spec

import (
	internalspec "github.com/goliatone/go-deckgen/internal/spec"
	pkglayout "github.com/goliatone/go-deckgen/pkg/layout"
)

// Extractor derives field specs from a parsed layout.
type Extractor interface {
	Extract(layout pkglayout.Layout) ([]FieldSpec, error)
}

// NewExtractor returns an Extractor backed by the internal implementation.
func NewExtractor() Extractor {
	return internalspec.NewExtractor()
}
