package repo

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get, Update and Delete when no entity has the
// given id. It is never returned for driver failures; those surface as a
// StorageError.
var ErrNotFound = errors.New("entity not found")

// ValidationError wraps a filter error for criteria rejected before they
// reach storage.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid criteria: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StorageError wraps a driver failure with the operation kind and table it
// happened on. Retrying is left to the caller.
type StorageError struct {
	Op    string
	Table string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
