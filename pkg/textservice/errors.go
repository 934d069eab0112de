package textservice

import (
	"errors"
	"fmt"
)

// ErrUnreachable marks transport-level failures: DNS, refused connections,
// client-side timeouts.
var ErrUnreachable = errors.New("service unreachable")

// ErrEmptyContent marks a well-formed response carrying no content.
var ErrEmptyContent = errors.New("textservice: service returned empty content")

// ServiceError reports a non-2xx response from the service.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("textservice: service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("textservice: service returned status %d: %s", e.StatusCode, e.Body)
}
