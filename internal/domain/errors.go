package domain

import (
	"errors"
	"fmt"
)

// NetworkError reports a failed search request. Requests cancelled because
// a newer one superseded them are not NetworkErrors.
type NetworkError struct {
	URL    string
	Status int // HTTP status, 0 when the transport failed
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("search request %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("search request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err is or wraps a NetworkError
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// ValidationError reports a malformed URL parameter; only that field is defaulted
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s parameter %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
