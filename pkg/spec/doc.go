// Package spec defines the typed field model the generation engine consumes.
// Each layout field declares a format (plain or marked text), exactly one
// formatting owner, and optional capacity limits; the extractor in
// internal/spec walks a parsed layout in declaration order and enforces the
// ownership invariants, returning SchemaError for contradictory declarations
// such as a renderer-owned field carrying markup or capacity limits.
package spec
