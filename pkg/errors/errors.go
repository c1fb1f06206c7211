package errors

import (
	"errors"
	"fmt"
)

// Standard error types
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrHTTPRequest       = errors.New("HTTP request error")
	ErrHTTPResponse      = errors.New("HTTP response error")
	ErrMalformedResponse = errors.New("malformed response")
	ErrInvalidFormat     = errors.New("invalid format")
	ErrPagination        = errors.New("pagination error")
	ErrValidation        = errors.New("validation error")
)

// HTTPError wraps HTTP error responses
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// WrapError wraps an error with a standard error type. Both errType and err
// stay reachable through errors.Is and errors.As.
func WrapError(err error, errType error, message string) error {
	return fmt.Errorf("%w: %s: %w", errType, message, err)
}

// Is provides a convenience wrapper around errors.Is
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As provides a convenience wrapper around errors.As
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap provides a convenience wrapper around errors.Unwrap
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
