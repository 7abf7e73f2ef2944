// Package apperr defines the typed error taxonomy used across the
// screening engine and its mapping onto the HTTP error envelope.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the taxonomy of error types from the engine's error design.
type Kind string

const (
	KindInvalidInput    Kind = "InvalidInput"
	KindNotFound        Kind = "NotFound"
	KindStillLoading    Kind = "StillLoading"
	KindUpstreamTimeout Kind = "UpstreamTimeout"
	KindInternal        Kind = "Internal"
)

// statusByKind is the single authoritative Kind -> HTTP status mapping.
var statusByKind = map[Kind]int{
	KindInvalidInput:    http.StatusBadRequest,
	KindNotFound:        http.StatusNotFound,
	KindStillLoading:    http.StatusServiceUnavailable,
	KindUpstreamTimeout: http.StatusServiceUnavailable,
	KindInternal:        http.StatusInternalServerError,
}

// Error is a typed application error carrying an HTTP status and optional
// cause and detail string.
type Error struct {
	Kind    Kind
	Message string
	Details string
	Cause   error
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// StatusCode returns the HTTP status code for this error's kind.
func (e *Error) StatusCode() int {
	if code, ok := statusByKind[e.Kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind wrapping cause.
func Wrap(cause error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Wrapf creates an Error of the given kind wrapping cause with a formatted message.
func Wrapf(cause error, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithDetails attaches a detail string and returns the same error, modified
// in place, mirroring the builder style used elsewhere in the corpus.
func (e *Error) WithDetails(details string) *Error {
	e.Details = details
	return e
}

// WithDetailsf attaches a formatted detail string.
func (e *Error) WithDetailsf(format string, args ...interface{}) *Error {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

// Invalid, NotFound, StillLoading, UpstreamTimeout, Internal are convenience
// constructors for the five documented error kinds.

func Invalid(message string) *Error        { return New(KindInvalidInput, message) }
func Invalidf(f string, a ...interface{}) *Error { return Newf(KindInvalidInput, f, a...) }
func NotFound(resource string) *Error      { return Newf(KindNotFound, "%s not found", resource) }
func StillLoading(message string) *Error   { return New(KindStillLoading, message) }
func UpstreamTimeout(message string) *Error { return New(KindUpstreamTimeout, message) }
func Internal(cause error, message string) *Error {
	return Wrap(cause, KindInternal, message)
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// AsError extracts an *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
