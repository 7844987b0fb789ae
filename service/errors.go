package service

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure classes a service operation can
// report. Handlers switch on the kind; the message is what the caller sees.
type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized"
	KindNotFound     ErrorKind = "not_found"
	KindInvalidState ErrorKind = "invalid_state"
	KindValidation   ErrorKind = "validation_failed"
	KindConflict     ErrorKind = "conflict"
	KindInternal     ErrorKind = "internal_error"
)

// Error is the structured failure every service operation returns. Internal
// errors keep their cause for logging but expose only an opaque message.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError builds a caller-facing error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Internal wraps an unexpected fault. The cause stays available for logs and
// errors.Is, but the message shown to the caller is generic.
func Internal(cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: "something went wrong, please try again later",
		cause:   cause,
	}
}

// KindOf extracts the error kind, defaulting to KindInternal for anything
// that did not come out of a service operation.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// MessageOf extracts the caller-facing message for an error.
func MessageOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return "something went wrong, please try again later"
}
