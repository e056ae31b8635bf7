// Package errors provides structured error types for partsmap.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, server and library callers
//   - Machine-readable error codes for programmatic handling
//   - Enough context (phase, node type) to locate a configuration defect
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into two families:
//   - Configuration errors: fatal, raised before anything is drawn
//     (INVALID_CONFIG, UNKNOWN_NODE, EMPTY_TIER, MISSING_POSITION, MISSING_COLOR)
//   - Data errors: surfaced from collaborators such as the glyph source
//     (GLYPH_NOT_FOUND, INCOMPATIBLE_GLYPHS)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyTier, "tier %q has no children", parent).
//	    In(errors.PhaseLayout, parent)
//	if errors.Is(err, errors.ErrCodeEmptyTier) {
//	    // Handle configuration defect
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "load %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeUnknownNode     Code = "UNKNOWN_NODE"
	ErrCodeEmptyTier       Code = "EMPTY_TIER"
	ErrCodeMissingPosition Code = "MISSING_POSITION"
	ErrCodeMissingColor    Code = "MISSING_COLOR"

	// Data errors
	ErrCodeGlyphNotFound      Code = "GLYPH_NOT_FOUND"
	ErrCodeIncompatibleGlyphs Code = "INCOMPATIBLE_GLYPHS"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Phase names the pipeline stage an error was raised in.
type Phase string

// Pipeline phases.
const (
	PhaseModel   Phase = "model"
	PhaseConfig  Phase = "config"
	PhasePalette Phase = "palette"
	PhaseLayout  Phase = "layout"
	PhaseRender  Phase = "render"
	PhaseGlyph   Phase = "glyph"
	PhaseEncode  Phase = "encode"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Phase   Phase  // Stage the error was raised in (optional)
	Node    string // Node type the error concerns (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if ctx := e.context(); ctx != "" {
		b.WriteString(" [")
		b.WriteString(ctx)
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) context() string {
	switch {
	case e.Phase != "" && e.Node != "":
		return fmt.Sprintf("%s %q", e.Phase, e.Node)
	case e.Phase != "":
		return string(e.Phase)
	case e.Node != "":
		return fmt.Sprintf("%q", e.Node)
	}
	return ""
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// In attaches phase and node context and returns e for chaining.
func (e *Error) In(phase Phase, node string) *Error {
	e.Phase = phase
	e.Node = node
	return e
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
// For *Error types, returns the message with its context but without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if ctx := e.context(); ctx != "" {
			return ctx + ": " + e.Message
		}
		return e.Message
	}
	return err.Error()
}

// IsConfigError reports whether err is one of the configuration error codes.
func IsConfigError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidConfig, ErrCodeUnknownNode, ErrCodeEmptyTier,
		ErrCodeMissingPosition, ErrCodeMissingColor:
		return true
	}
	return false
}

// IsDataError reports whether err is one of the data error codes.
func IsDataError(err error) bool {
	switch GetCode(err) {
	case ErrCodeGlyphNotFound, ErrCodeIncompatibleGlyphs:
		return true
	}
	return false
}
