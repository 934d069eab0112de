package generate

import "fmt"

// GenerationError reports that a single field produced no usable content
// after every attempt. It is recorded on the field, never raised for the
// whole run.
type GenerationError struct {
	Path     string
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate: field %s failed after %d attempt(s): %v", e.Path, e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
