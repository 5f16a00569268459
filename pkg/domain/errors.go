package domain

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Concrete errors returned by the store wrap one of
// these so callers can branch with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidationFailed  = errors.New("validation failed")
	ErrPersistenceFailed = errors.New("persistence failed")
)

// NotFoundError reports a reference to a record that does not exist.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// Unwrap returns ErrNotFound.
func (e NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError reports a record rejected before it reached the state.
type ValidationError struct {
	Entity EntityType
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s %s", e.Entity, e.Field, e.Reason)
}

// Unwrap returns ErrValidationFailed.
func (e ValidationError) Unwrap() error { return ErrValidationFailed }

// PersistenceError reports a failed snapshot read or write.
type PersistenceError struct {
	Key string
	Err error
}

func (e PersistenceError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("persist snapshot: %v", e.Err)
	}
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

// Unwrap exposes both the sentinel kind and the backend cause.
func (e PersistenceError) Unwrap() []error { return []error{ErrPersistenceFailed, e.Err} }
