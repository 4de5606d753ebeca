// Package apperr defines the application error taxonomy.
//
// Every business-rule failure in the services layer is one of these kinds.
// Controllers never inspect error strings; they hand the error to
// response.FromError which maps the kind to an HTTP status. Anything that is
// not an *Error is treated as an internal failure and surfaces as a 500.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	// InvalidInput covers missing or malformed fields and business-rule
	// violations such as insufficient stock.
	InvalidInput Kind = iota
	// Unauthorized covers a missing/invalid token or ownership mismatch.
	Unauthorized
	// Forbidden means authenticated but lacking the required role.
	Forbidden
	// NotFound means the referenced document does not exist.
	NotFound
	// Conflict covers uniqueness violations: duplicate review, existing account.
	Conflict
	// InvalidState means the requested transition is not allowed from the
	// document's current state (e.g. cancelling a shipped order).
	InvalidState
)

// Error carries a kind plus a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an *Error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the Kind of err and whether err is an *Error at all.
func KindOf(err error) (Kind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// Status maps a Kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case InvalidInput:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict, InvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
