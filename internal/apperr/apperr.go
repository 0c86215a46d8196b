package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure.
type Kind int

const (
	// Unauthenticated means there is no valid session, or a credential
	// check failed.
	Unauthenticated Kind = iota
	// Forbidden means the caller is authenticated but lacks the admin flag.
	Forbidden
	// Validation means the payload failed its declared rules. Fields holds
	// the per-field violations.
	Validation
	// NotFound means a referenced entity does not exist.
	NotFound
	// Conflict means the mutation clashes with existing state, e.g. an
	// email that is already registered.
	Conflict
	// Upstream means the store or identity provider failed; the message is
	// passed through without retry or transformation.
	Upstream
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "upstream"
	}
}

// FieldError is a single validation violation.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error is the failure result every service operation returns. It never
// carries past a handler as a panic; handlers map Kind to an HTTP status.
type Error struct {
	Kind   Kind
	Msg    string
	Fields []FieldError
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an upstream error. A nil err returns
// nil so call sites can wrap unconditionally.
func Wrap(kind Kind, msg string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Invalid builds a validation error from collected field violations.
func Invalid(fields []FieldError) *Error {
	return &Error{Kind: Validation, Msg: "invalid payload", Fields: fields}
}

// KindOf reports the Kind of err. Errors outside the taxonomy count as
// Upstream.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Upstream
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
