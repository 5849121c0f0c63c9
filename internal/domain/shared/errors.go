// Package shared contains the error taxonomy used across all domain and
// orchestration packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base conditions that can be checked with errors.Is().
//
// NotFound is expected control flow, not an operational failure: store
// adapters return it when a queried entity does not exist. Unavailable means
// the underlying engine is unreachable or erroring and must be surfaced to
// operators.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict indicates a uniqueness or state violation
	// (duplicate email, already-friends).
	ErrConflict = errors.New("conflict")

	// ErrForbidden indicates an authorization precondition failed
	// (non-member posting to a group).
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a backing store is unreachable or erroring.
	ErrUnavailable = errors.New("store unavailable")

	// ErrValidation indicates invalid caller input.
	ErrValidation = errors.New("validation error")
)

// DomainError carries the context of a failed operation: which domain and
// operation failed, the base condition for errors.Is() matching, and the
// underlying engine error if any.
type DomainError struct {
	Domain  string // e.g. "user", "group", "content"
	Op      string // operation that failed, e.g. "CreateUser"
	Kind    error  // base condition for errors.Is() checking
	Message string // human-readable message
	Err     error  // underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching against both Kind and Err.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an underlying error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// IsNotFound checks if the error is a "not found" condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if the error is a conflict condition.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsForbidden checks if the error is a forbidden condition.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsUnavailable checks if the error is a store-unavailable condition.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
