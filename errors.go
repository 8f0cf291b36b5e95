package loanbook

import "fmt"

// ValidationError reports an input rejected before any mutation took place.
type ValidationError struct {
	Field  string // Field is the name of the offending input.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown loan or transaction id.
type NotFoundError struct {
	Kind string // "loan" or "transaction"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// DeserializationError reports a stored book that cannot be decoded.
type DeserializationError struct {
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("cannot decode loans: %v", e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// ExternalServiceError reports a failed call to a third party service.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }
