package spec

import internalspec "github.com/goliatone/go-deckgen/internal/spec"

// FormatType re-exports the internal FormatType enumeration.
type FormatType = internalspec.FormatType

const (
	FormatPlainText  = internalspec.FormatPlainText
	FormatMarkedText = internalspec.FormatMarkedText
)

// FormatOwner re-exports the internal FormatOwner enumeration.
type FormatOwner = internalspec.FormatOwner

const (
	OwnerExternalRenderer = internalspec.OwnerExternalRenderer
	OwnerGenerator        = internalspec.OwnerGenerator
)

// CapacityMetric re-exports the internal CapacityMetric enumeration.
type CapacityMetric = internalspec.CapacityMetric

const (
	MetricCharacters = internalspec.MetricCharacters
	MetricWords      = internalspec.MetricWords
	MetricLines      = internalspec.MetricLines
)

type CapacityLimit = internalspec.CapacityLimit
type FieldSpec = internalspec.FieldSpec
type SchemaError = internalspec.SchemaError

// ParseFormatType maps a raw metadata string to a FormatType.
func ParseFormatType(value string) (FormatType, error) {
	return internalspec.ParseFormatType(value)
}

// ParseFormatOwner maps a raw metadata string to a FormatOwner.
func ParseFormatOwner(value string) (FormatOwner, error) {
	return internalspec.ParseFormatOwner(value)
}

// ParseCapacityMetric maps a raw metadata string to a CapacityMetric.
func ParseCapacityMetric(value string) (CapacityMetric, error) {
	return internalspec.ParseCapacityMetric(value)
}
