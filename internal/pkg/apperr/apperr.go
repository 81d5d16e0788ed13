// Package apperr defines the error kinds services return so HTTP handlers
// can map failures to status codes without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindInsufficientStock
	KindDuplicate
	KindUnauthorized
	KindForbidden
	KindUnconfigured
)

// Error carries a kind alongside a user-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// MessageOf returns the user-facing message for err. Untyped errors get a
// generic message so internal detail does not leak to clients.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

func NotFound(what string) *Error {
	return Newf(KindNotFound, "%s not found", what)
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func InsufficientStock(productName string) *Error {
	return Newf(KindInsufficientStock, "insufficient stock for %s", productName)
}

func Duplicate(message string) *Error {
	return New(KindDuplicate, message)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func Unconfigured(provider string) *Error {
	return Newf(KindUnconfigured, "%s is not configured", provider)
}

func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}
