package domain

import (
	"context"
	"errors"
)

// Store and adapter errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidQuery    = errors.New("invalid query")
	ErrInvalidPath     = errors.New("invalid path")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Kind classifies an error at the adapter boundary.
type Kind int

const (
	KindNone Kind = iota
	KindNotFound
	KindInvalid
	KindTransient
	KindPermanent
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindInvalid:
		return "invalid"
	case KindTransient:
		return "transient"
	default:
		return "permanent"
	}
}

// transientError marks a failure worth retrying by the caller.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient wraps err so that KindOf reports KindTransient. Nil stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// KindOf reports how a caller should treat err.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var te *transientError
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, ErrInvalidPath), errors.Is(err, ErrInvalidArgument):
		return KindInvalid
	case errors.As(err, &te), errors.Is(err, context.DeadlineExceeded):
		return KindTransient
	default:
		return KindPermanent
	}
}
