// Package errors provides structured error types for sceneimport.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP inspector and the library
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The import-settings taxonomy:
//   - UNKNOWN_IDENTITY: a selection or override targets an id absent from the store
//   - UNKNOWN_OPTION: an override key is not part of the category schema
//   - AMBIGUOUS_IDENTITY: two resources collide on one id during a walk (warning)
//   - UNRESOLVABLE_IDENTITY: a node or resource has no stable id (warning)
//   - INCOMPLETE_ACTION: a structural export action lacks a target path
//
// plus the generic INVALID_*, NOT_FOUND and INTERNAL codes.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownOption, "material %q has no option %q", id, key)
//	if errors.Is(err, errors.ErrCodeUnknownOption) {
//	    // Handle schema drift
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "read scene %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Model errors
	ErrCodeUnknownIdentity      Code = "UNKNOWN_IDENTITY"
	ErrCodeUnknownOption        Code = "UNKNOWN_OPTION"
	ErrCodeAmbiguousIdentity    Code = "AMBIGUOUS_IDENTITY"
	ErrCodeUnresolvableIdentity Code = "UNRESOLVABLE_IDENTITY"
	ErrCodeIncompleteAction     Code = "INCOMPLETE_ACTION"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidValue Code = "INVALID_VALUE"
	ErrCodeInvalidKind  Code = "INVALID_KIND"
	ErrCodeInvalidPath  Code = "INVALID_PATH"
	ErrCodeInvalidScene Code = "INVALID_SCENE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
// Joined errors (see [errors.Join]) match if any member matches.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) && e.Code == code {
		return true
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			if Is(inner, code) {
				return true
			}
		}
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Join is re-exported so callers importing this package under the name
// "errors" keep access to the standard library helper.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
