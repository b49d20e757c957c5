package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every not-found error, whether reported by the
// backend or detected locally for a stale ID.
var ErrNotFound = errors.New("not found")

// Kind classifies a backend failure.
type Kind int

const (
	// KindTransport is a network failure or timeout.
	KindTransport Kind = iota + 1
	// KindStatus is a non-2xx response.
	KindStatus
	// KindNotFound is a 404 or an unknown ID.
	KindNotFound
	// KindAuth is a 401/403 response.
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindNotFound:
		return "not found"
	case KindAuth:
		return "auth"
	}
	return "unknown"
}

// Error is a classified backend failure.
type Error struct {
	Kind   Kind
	Op     string // e.g. "update task"
	Status int    // HTTP status, 0 for transport errors
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: %d: %v", e.Op, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) match not-found errors.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

// KindOf returns the kind of err, or 0 if err is not a classified error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	return 0
}

// NotFound builds a not-found error for a stale or unknown ID.
func NotFound(op string, id int64) error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf("id %d: %w", id, ErrNotFound)}
}
