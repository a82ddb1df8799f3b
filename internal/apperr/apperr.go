// Package apperr defines the small closed error taxonomy surfaced by the
// API: validation, auth, not-found, conflict, and storage failures.
package apperr

import "errors"

// Kind classifies an error for transport-level mapping.
type Kind int

const (
	// KindStorage covers persistence and other unclassified failures.
	KindStorage Kind = iota
	// KindValidation covers malformed or missing input.
	KindValidation
	// KindAuth covers failed or missing authentication.
	KindAuth
	// KindNotFound covers lookups with no matching record.
	KindNotFound
	// KindConflict covers unique-constraint collisions.
	KindConflict
)

// Error is a kinded error carrying a client-safe message.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.err }

// Kind returns the classification of the error.
func (e *Error) Kind() Kind { return e.kind }

// Validation returns a KindValidation error with the given message.
func Validation(msg string) error {
	return &Error{kind: KindValidation, msg: msg}
}

// Auth returns a KindAuth error with the given message.
func Auth(msg string) error {
	return &Error{kind: KindAuth, msg: msg}
}

// NotFound returns a KindNotFound error with the given message.
func NotFound(msg string) error {
	return &Error{kind: KindNotFound, msg: msg}
}

// Conflict returns a KindConflict error with the given message.
func Conflict(msg string) error {
	return &Error{kind: KindConflict, msg: msg}
}

// Storage wraps an underlying persistence error with a client-safe message.
func Storage(msg string, err error) error {
	return &Error{kind: KindStorage, msg: msg, err: err}
}

// KindOf reports the kind of err, defaulting to KindStorage for errors
// outside the taxonomy.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	return KindStorage
}

// Message returns the client-safe message for err. Errors outside the
// taxonomy get a generic message so internal detail never reaches clients.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.msg
	}
	return "Something went wrong. Please try again."
}
