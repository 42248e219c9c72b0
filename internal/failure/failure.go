package failure

import (
	"errors"
	"fmt"
)

// Kind classifies why a unit of work was skipped.
type Kind string

const (
	KindMissingResource Kind = "missing_resource"
	KindMalformedInput  Kind = "malformed_input"
	KindTransport       Kind = "transport"
	KindNoMatch         Kind = "no_match"
	KindPersistence     Kind = "persistence"
)

// Error is a classified stage failure for a single subject (a year, a name, a file or a table).
type Error struct {
	Kind    Kind
	Op      string
	Subject string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Op)
	if e.Subject != "" {
		msg += " " + e.Subject
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a classified error.
func New(kind Kind, op, subject string, err error) *Error {
	return &Error{Kind: kind, Op: op, Subject: subject, Err: err}
}

// MissingResource marks an input file or configured resource that does not exist.
func MissingResource(op, subject string, err error) *Error {
	return New(KindMissingResource, op, subject, err)
}

// MalformedInput marks data that exists but cannot be parsed.
func MalformedInput(op, subject string, err error) *Error {
	return New(KindMalformedInput, op, subject, err)
}

// Transport marks a network failure or an unexpected HTTP status.
func Transport(op, subject string, err error) *Error {
	return New(KindTransport, op, subject, err)
}

// NoMatch marks a lookup that returned no candidates.
func NoMatch(op, subject string) *Error {
	return New(KindNoMatch, op, subject, nil)
}

// Persistence marks a failed file write or database operation.
func Persistence(op, subject string, err error) *Error {
	return New(KindPersistence, op, subject, err)
}

// KindOf returns the kind of the first classified error in the chain.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// Reclassify keeps an already classified error and wraps anything else with the fallback kind.
func Reclassify(err error, fallback Kind, op, subject string) *Error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return New(fallback, op, subject, err)
}
