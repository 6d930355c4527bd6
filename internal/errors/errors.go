package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig  = "CONFIG"
	ErrProbe   = "PROBE"
	ErrChannel = "CHANNEL"
	ErrProcess = "PROCESS"
	ErrTimeout = "TIMEOUT"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered for the terminal as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrChannel code.
// Most unclassified failures in the sampler are pipe I/O failures.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrChannel,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Protocolf creates a channel error for a protocol violation. These indicate the
// supervisor and a worker disagree about the frame sequence and cannot recover.
func Protocolf(format string, args ...interface{}) *Error {
	return &Error{
		Code:    ErrChannel,
		Message: "Protocol violation: " + fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface. The rendering is the block shown on
// the Error type; cli.Execute prints it to stderr as is.
func (e *Error) Error() string {
	var b strings.Builder

	// Headline: what failed
	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	// Underlying cause, e.g. the probe or pipe error
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	// What the user can do about it
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var hsErr *Error
	if errors.As(err, &hsErr) {
		return hsErr.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost structured Error in the chain,
// or an empty string if there is none.
func CodeOf(err error) string {
	var hsErr *Error
	if errors.As(err, &hsErr) {
		return hsErr.Code
	}
	return ""
}
