package fixedwidth

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation reports a record that fails a width or required-field check.
	ErrValidation = errors.New("record validation failed")
	// ErrField reports formatting requested for a field absent from the buffer.
	ErrField = errors.New("field not set")
	// ErrIO reports a failure opening, reading, writing, or closing a stream.
	ErrIO = errors.New("fixed-width io")
	// ErrClosed reports use of a writer after Close.
	ErrClosed = errors.New("writer closed")
	// ErrLocked reports an output file held by another writer.
	ErrLocked = errors.New("output locked by another writer")
)

// Validation failure reasons.
const (
	ReasonTooLong  = "too long"
	ReasonRequired = "required"
)

// ValidationError describes the first column that failed validation.
type ValidationError struct {
	Field  string
	Reason string
	Width  int
	Length int
}

func (e *ValidationError) Error() string {
	if e.Reason == ReasonTooLong {
		return fmt.Sprintf("%s %s (limited to %d characters, got %d)", e.Field, e.Reason, e.Width, e.Length)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// FieldError names a field that has no value in the record buffer.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrField.Error(), e.Field)
}

func (e *FieldError) Unwrap() error { return ErrField }

// IOError wraps a stream failure with the operation and path involved.
// Op is one of "open source", "open target", "read", "encode", "write", "lock"
// or "close". "encode" means the text has runes the target charset lacks.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes both ErrIO and the underlying cause.
func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }
