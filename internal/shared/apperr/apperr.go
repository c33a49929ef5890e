// Package apperr classifies failures so transport code can map them to
// status codes without inspecting messages.
package apperr

import "errors"

// Kinds. Match with errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrUnprocessable   = errors.New("unprocessable entity")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrUpstream        = errors.New("upstream error")
	ErrUnconfigured    = errors.New("unconfigured")
	ErrInternal        = errors.New("internal error")
)

// Error carries a client-safe message alongside its kind and cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Is matches the kind so callers can test errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(msg string) error   { return &Error{Kind: ErrValidation, Message: msg} }
func Unprocessable(msg string) error { return &Error{Kind: ErrUnprocessable, Message: msg} }
func Unauthenticated(msg string) error {
	return &Error{Kind: ErrUnauthenticated, Message: msg}
}
func Forbidden(msg string) error    { return &Error{Kind: ErrForbidden, Message: msg} }
func NotFound(msg string) error     { return &Error{Kind: ErrNotFound, Message: msg} }
func Conflict(msg string) error     { return &Error{Kind: ErrConflict, Message: msg} }
func Unconfigured(msg string) error { return &Error{Kind: ErrUnconfigured, Message: msg} }

// Upstream wraps a collaborator failure.
func Upstream(msg string, err error) error {
	return &Error{Kind: ErrUpstream, Message: msg, Err: err}
}

// Internal wraps a failure whose cause should never reach clients verbatim.
func Internal(msg string, err error) error {
	return &Error{Kind: ErrInternal, Message: msg, Err: err}
}

// Message returns the client-safe message for classified errors, or "" otherwise.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
