package apperr

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ValidationError means the input was rejected before any persistence call.
// Never retried automatically.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// DependencyError means a collaborator (database, storage, cache) failed or
// timed out. Writes are not retried; the caller sees the failure.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *DependencyError) Unwrap() error { return e.Err }

// Dependency wraps a collaborator failure with the operation that hit it.
func Dependency(op string, err error) error {
	return &DependencyError{Op: op, Err: err}
}

// PartialFailure means the client account row was persisted but its
// association write failed. ClientAccountID lets the caller retry only the
// association step.
type PartialFailure struct {
	ClientAccountID uuid.UUID
	Err             error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("account %s saved but association failed: %v", e.ClientAccountID, e.Err)
}
func (e *PartialFailure) Unwrap() error { return e.Err }

// ConflictError means a uniqueness constraint fired under a concurrent
// check-then-act race (slug allocation).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// NotFoundError means the referenced record does not exist.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func NotFound(msg string) error { return &NotFoundError{Msg: msg} }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsDependency(err error) bool {
	var d *DependencyError
	return errors.As(err, &d)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

// AsPartialFailure extracts a PartialFailure if err carries one.
func AsPartialFailure(err error) (*PartialFailure, bool) {
	var p *PartialFailure
	if errors.As(err, &p) {
		return p, true
	}
	return nil, false
}
