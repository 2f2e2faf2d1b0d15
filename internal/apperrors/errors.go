// File path: internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies failures surfaced to the user.
type Kind string

const (
	// KindConfiguration marks missing credentials or index settings. Fatal at startup.
	KindConfiguration Kind = "configuration_error"
	// KindIndexUnavailable marks a vector index open or query failure.
	KindIndexUnavailable Kind = "index_unavailable"
	// KindGenerationFailed marks a completion endpoint or network failure.
	KindGenerationFailed Kind = "generation_failed"
	// KindParseIncomplete marks a response block missing required fields.
	KindParseIncomplete Kind = "parse_incomplete"
	// KindFileRead marks an unsupported or corrupt uploaded file.
	KindFileRead Kind = "file_read_error"
	// KindInvalidInput marks a request rejected before any external call.
	KindInvalidInput Kind = "invalid_input"
)

// Error carries the failure kind together with the operation that failed.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the human-readable part of the error, without the op prefix.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

// New creates an Error of the given kind.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap attaches a kind and operation to an underlying cause.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Wrapf attaches a kind, operation and formatted message to an underlying cause.
func Wrapf(kind Kind, op string, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: err, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in the chain, or "" when none is present.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
