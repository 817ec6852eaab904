// internal/domain/fault/fault.go

// Package fault defines the error taxonomy shared by the membership
// core, the lifecycle service, and the entity stores. Stores translate
// driver-level errors (no documents, duplicate key) into these values
// so that nothing above the store layer ever matches on driver types.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden: the actor lacks the required role for the operation
	// (e.g. a non-host resolving a join request).
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition: a state precondition was violated, including
	// lost-update races detected by a conditional write (the stored
	// status was no longer pending at commit time).
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrDuplicateRequest: a join request already exists for this
	// (activity, user) pair.
	ErrDuplicateRequest = errors.New("duplicate join request")

	// ErrNotFound: a referenced record is missing, e.g. the activity was
	// deleted mid-flow.
	ErrNotFound = errors.New("not found")

	// ErrPartialFailure: a multi-record operation committed some but not
	// all of its writes. Compensating cleanup ran before this surfaced.
	ErrPartialFailure = errors.New("partial failure")

	// ErrUnauthenticated: no identity was presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrValidation is the sentinel every *ValidationError unwraps to.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports a field constraint violation (empty or
// oversized text, malformed input). Match with
// errors.Is(err, fault.ErrValidation).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validationf builds a field validation error.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// PartialFailure wraps the underlying cause so callers can both match
// ErrPartialFailure and inspect what actually failed.
func PartialFailure(cause error) error {
	return fmt.Errorf("%w: %w", ErrPartialFailure, cause)
}
