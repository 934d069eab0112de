package spec

import "fmt"

// SchemaError reports a contradictory or malformed field declaration. It is
// always fatal for the whole layout: a layout that lies about its fields
// cannot be generated against.
type SchemaError struct {
	// Path is the dotted location of the offending field.
	Path string
	// Reason describes the contradiction.
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("field spec: %s", e.Reason)
	}
	return fmt.Sprintf("field spec: %s: %s", e.Path, e.Reason)
}

func schemaErrorf(path, format string, args ...any) *SchemaError {
	return &SchemaError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
