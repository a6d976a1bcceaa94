package repository

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// StoreErrorKind classifies a Store failure so callers know whether to
// retry, log-and-proceed, or surface it.
type StoreErrorKind int

const (
	// Transient is a retriable failure (e.g. connection drop, deadlock);
	// callers retry up to the configured retry budget with backoff.
	Transient StoreErrorKind = iota
	// Conflict means a write lost a race with another writer; the
	// operation's own upsert semantics already absorbed it.
	Conflict
	// NotFound means the requested row does not exist.
	NotFound
)

func (k StoreErrorKind) String() string {
	switch k {
	case Transient:
		return "transient"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// StoreError wraps an underlying database error with a Kind the
// scheduler jobs branch on.
type StoreError struct {
	Kind StoreErrorKind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

func newStoreError(op string, kind StoreErrorKind, err error) *StoreError {
	return &StoreError{Op: op, Kind: kind, Err: pkgerrors.WithStack(err)}
}

// IsNotFound reports whether err is a StoreError of kind NotFound.
func IsNotFound(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind == NotFound
	}
	return false
}

// IsTransient reports whether err is a StoreError of kind Transient.
func IsTransient(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind == Transient
	}
	return false
}
