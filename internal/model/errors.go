package model

import (
	"errors"
	"fmt"
)

// Sentinel causes carried inside the typed errors below.
var (
	ErrEmptyOrNonNumeric     = errors.New("empty or non-numeric value")
	ErrEmptyRegionSet        = errors.New("region set is empty")
	ErrEstimationUnavailable = errors.New("estimation unavailable")
)

// Domain error codes
const (
	CodeEstimationUnavailable = "estimation_unavailable"
	CodeRejected              = "rejected"
)

// ValidationError reports malformed caller input. It is never retried.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError creates a validation error for the named field
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// TransportError wraps a network failure, timeout or unreadable response
// from the estimation service. Retrying is left to the caller.
type TransportError struct {
	Op         string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: estimation service returned status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DomainError means the service understood the request but cannot answer it,
// e.g. the region is not part of its training data.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewEstimationUnavailable returns the domain error used for a degenerate
// (zero, negative or missing) predicted price.
func NewEstimationUnavailable(message string) *DomainError {
	return &DomainError{
		Code:    CodeEstimationUnavailable,
		Message: message,
		Err:     ErrEstimationUnavailable,
	}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsDomain reports whether err is (or wraps) a DomainError
func IsDomain(err error) bool {
	var d *DomainError
	return errors.As(err, &d)
}

// IsTransport reports whether err is (or wraps) a TransportError
func IsTransport(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}
