// Package errors provides a structured error type with category and severity
// used for classification across the CLI and build pipeline.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a docstage error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External tool integration errors
	CategoryRenderer ErrorCategory = "renderer"
	CategoryTheme    ErrorCategory = "theme"

	// Build and processing errors
	CategoryBuild      ErrorCategory = "build"
	CategoryTemplate   ErrorCategory = "template"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryDaemon   ErrorCategory = "daemon"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// ContextFields carries structured context for DocstageError
type ContextFields map[string]any

// DocstageError is a structured error with category, severity, and context
type DocstageError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// Error implements the error interface
func (e *DocstageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *DocstageError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *DocstageError) WithContext(key string, value any) *DocstageError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new DocstageError
func New(category ErrorCategory, severity ErrorSeverity, message string) *DocstageError {
	return &DocstageError{Category: category, Severity: severity, Message: message}
}

// Wrap creates a new DocstageError wrapping an underlying cause
func Wrap(category ErrorCategory, severity ErrorSeverity, message string, cause error) *DocstageError {
	return &DocstageError{Category: category, Severity: severity, Message: message, Cause: cause}
}

// CategoryOf extracts the category from an error chain; empty string when the
// chain contains no DocstageError.
func CategoryOf(err error) ErrorCategory {
	var de *DocstageError
	if errors.As(err, &de) {
		return de.Category
	}
	return ""
}

// IsFatal reports whether the error chain contains a fatal DocstageError.
func IsFatal(err error) bool {
	var de *DocstageError
	if errors.As(err, &de) {
		return de.Severity == SeverityFatal
	}
	return false
}
