package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("record not found")

// ErrClientHasOrders is returned when deleting a client that still owns
// inspection orders. The orders have to be removed first; cascading here
// would silently destroy historical inspection data.
var ErrClientHasOrders = errors.New("client has existing inspection orders")

// ValidationError reports an invalid enumerant or a missing required field.
// Raised before any storage write is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PersistenceError wraps an underlying storage failure (I/O, serialization,
// connectivity). The store never retries; callers surface the error and let
// the operator retry the whole operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
