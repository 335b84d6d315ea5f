// Package errs defines the failure taxonomy shared by the services and
// mapped to HTTP statuses at the boundary. Every failure is a distinct,
// inspectable kind; nothing is silently swallowed except alert emission.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals that a referenced entity is absent.
	ErrNotFound = errors.New("not_found")
	// ErrAlreadyPaid signals a duplicate settlement attempt.
	ErrAlreadyPaid = errors.New("already_paid")
	// ErrConflict signals a concurrent-write race lost on a version check.
	ErrConflict = errors.New("conflict")
)

// ValidationError reports malformed or insufficient input. Violations maps
// field names to short machine-readable reasons.
type ValidationError struct {
	Msg        string
	Violations map[string]string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "validation_failed"
}

// Invalid builds a single-field validation error.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Violations: map[string]string{field: reason}}
}

// InvalidTransitionError reports an illegal order status change.
type InvalidTransitionError struct {
	From, To string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}

// StorageError wraps an underlying persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError unless it already carries a taxonomy
// kind that must survive (not-found, conflict).
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
