package repositories

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no row matches, including rows that exist
	// but belong to someone else.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint rejects a write
	ErrDuplicate = errors.New("duplicate record")
)

// Failure classifies storage errors that are not about the data itself
type Failure int

const (
	FailureUnknown Failure = iota
	FailureUnreachable
	FailureSchemaMissing
)

func (f Failure) String() string {
	switch f {
	case FailureUnreachable:
		return "unreachable"
	case FailureSchemaMissing:
		return "schema_missing"
	default:
		return "unknown"
	}
}

// StoreError wraps a driver error with its classification
type StoreError struct {
	Op      string
	Failure Failure
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// FailureOf returns the classification carried by err, if any
func FailureOf(err error) Failure {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Failure
	}
	return FailureUnknown
}
