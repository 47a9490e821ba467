// Package errors provides structured error types for aostar.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//
// # Error Codes
//
// Error codes follow a loose naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Missing nodes or files
//   - CYCLE_DETECTED, DEPTH_EXCEEDED: The graph cannot be searched
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "start node is required")
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Classify an error returned by andor.Search
//	coded := errors.FromSearch(err)
//	w.WriteHeader(errors.HTTPStatus(coded.Code))
package errors

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/matzehuels/aostar/pkg/andor"
	aoio "github.com/matzehuels/aostar/pkg/io"
	"github.com/matzehuels/aostar/pkg/render"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNodeNotFound Code = "NODE_NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Search errors
	ErrCodeCycleDetected   Code = "CYCLE_DETECTED"
	ErrCodeDepthExceeded   Code = "DEPTH_EXCEEDED"
	ErrCodeLimitExceeded   Code = "LIMIT_EXCEEDED"
	ErrCodeCostNotComputed Code = "COST_NOT_COMPUTED"
	ErrCodeTimeout         Code = "TIMEOUT"

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
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
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

// sentinels maps the graph, io, render and context sentinel errors to codes.
// Order matters: the first match wins.
var sentinels = []struct {
	err  error
	code Code
}{
	{andor.ErrCycleDetected, ErrCodeCycleDetected},
	{andor.ErrDepthExceeded, ErrCodeDepthExceeded},
	{andor.ErrLimitExceeded, ErrCodeLimitExceeded},
	{andor.ErrCostNotComputed, ErrCodeCostNotComputed},
	{andor.ErrNodeNotFound, ErrCodeNodeNotFound},
	{andor.ErrInvalidNodeID, ErrCodeInvalidGraph},
	{andor.ErrDuplicateNodeID, ErrCodeInvalidGraph},
	{andor.ErrInvalidNodeType, ErrCodeInvalidGraph},
	{andor.ErrUnknownSourceNode, ErrCodeInvalidGraph},
	{andor.ErrUnknownTargetNode, ErrCodeInvalidGraph},
	{aoio.ErrUnknownFormat, ErrCodeInvalidFormat},
	{render.ErrConverterMissing, ErrCodeUnsupported},
	{fs.ErrNotExist, ErrCodeFileNotFound},
	{context.DeadlineExceeded, ErrCodeTimeout},
	{context.Canceled, ErrCodeTimeout},
}

// FromSearch classifies an error returned while loading or searching a
// graph. Errors that already carry a code are returned unchanged; anything
// unrecognised becomes INTERNAL_ERROR. The message keeps the original error
// text so node IDs stay visible. FromSearch returns nil for a nil error.
func FromSearch(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return &Error{Code: s.code, Message: err.Error(), Cause: err}
		}
	}
	return &Error{Code: ErrCodeInternal, Message: err.Error(), Cause: err}
}

// HTTPStatus returns the HTTP status code used to report an error code.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidGraph, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeNodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeCycleDetected, ErrCodeDepthExceeded, ErrCodeLimitExceeded:
		return http.StatusUnprocessableEntity
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
