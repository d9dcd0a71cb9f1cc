// Package errors provides the coded errors depsize returns across package
// boundaries.
//
// Each pipeline stage reports failures under a [Code], so callers branch on
// the failure category instead of matching strings. Per-package codes
// ([ErrCodePackageNotFound], [ErrCodeMetadata], [ErrCodeFileNotFound] while
// sizing) are logged and skipped by the collector; the others end the run.
//
//	err := errors.Wrap(errors.ErrCodeInterpreter, cause, "run %s", python)
//	if errors.Is(err, errors.ErrCodeInterpreter) {
//	    // suggest --site-dir
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable failure category.
type Code string

const (
	// ErrCodeInvalidInput rejects an option value (engine, seed, ...).
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	// ErrCodeInvalidConfig rejects a malformed config file or unknown key.
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// ErrCodeInterpreter means the Python interpreter could not be run or
	// its sys.path could not be read.
	ErrCodeInterpreter Code = "INTERPRETER_ERROR"
	// ErrCodePackageNotFound means no installed distribution has the name.
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"
	// ErrCodeMetadata means a distribution's metadata could not be parsed.
	ErrCodeMetadata Code = "METADATA_ERROR"
	// ErrCodeFileNotFound covers missing site directories, package
	// directories, config and Plotly files.
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// ErrCodeInternal marks a broken invariant, such as the layout engine
	// dropping a node.
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is an error with a code and optional cause.
type Error struct {
	Code    Code   // failure category
	Message string // human-readable message
	Cause   error  // underlying error (optional)
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's chain has the given code, so a
// metadata failure caused by a missing file matches both codes.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the outermost *Error's message without its code and
// cause, or err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
