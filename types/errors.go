package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures so handlers and callers can decide
// between user-visible rejection, retry, or abort.
type ErrorKind string

const (
	ErrConfig     ErrorKind = "config"
	ErrParse      ErrorKind = "parse"
	ErrValidation ErrorKind = "validation"
	ErrChunking   ErrorKind = "chunking"
	ErrIndex      ErrorKind = "index"
	ErrRetrieval  ErrorKind = "retrieval"
	ErrGeneration ErrorKind = "generation"
)

// Error is the single error shape used throughout the core. Message is safe
// to show to the user; Err keeps the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or "" when err carries no *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// UserMessage returns the user-facing message of err, falling back to a
// generic message for errors from outside the taxonomy.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
