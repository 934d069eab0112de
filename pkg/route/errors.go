package route

import "fmt"

// RoutingError reports a payload the router refuses to handle.
type RoutingError struct {
	// PayloadType is the Go type of the offending payload.
	PayloadType string
	Reason      string
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("route: %s payload: %s", e.PayloadType, e.Reason)
}

func unroutableError(payload any) *RoutingError {
	return &RoutingError{
		PayloadType: fmt.Sprintf("%T", payload),
		Reason:      "unsupported payload shape",
	}
}
