package tracking

import (
	"errors"
	"fmt"
)

// Kind classifies a failed command.
type Kind string

const (
	InvalidArgument Kind = "invalid_argument"
	InvalidState    Kind = "invalid_state"
	NotFound        Kind = "not_found"
	Unauthorized    Kind = "unauthorized"
	Conflict        Kind = "conflict"
)

// Error is a structured command failure.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}
	return e.Msg
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// works regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidArgument = &Error{Kind: InvalidArgument}
	ErrInvalidState    = &Error{Kind: InvalidState}
	ErrNotFound        = &Error{Kind: NotFound}
	ErrUnauthorized    = &Error{Kind: Unauthorized}
	ErrConflict        = &Error{Kind: Conflict}
)

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or "" for errors that did not originate
// from a command check (I/O failures and the like).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
