// Package errors provides a lightweight structured error type (YFileError)
// for category-based classification and CLI presentation.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a yfile error for classification
type ErrorCategory string

const (
	// User-facing invocation and input errors
	CategoryUsage      ErrorCategory = "usage"
	CategoryValidation ErrorCategory = "validation"

	// Local and remote I/O errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryNetwork    ErrorCategory = "network"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// YFileError is a structured error with category, severity and context
type YFileError struct {
	Category ErrorCategory `json:"category" yaml:"category"`
	Severity ErrorSeverity `json:"severity" yaml:"severity"`
	Message  string        `json:"message" yaml:"message"`
	Cause    error         `json:"-" yaml:"-"`
	Context  ContextFields `json:"context,omitempty" yaml:"context,omitempty"`
}

// ContextFields carries structured context for YFileError
type ContextFields map[string]any

// Error implements the error interface
func (e *YFileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *YFileError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *YFileError) WithContext(key string, value any) *YFileError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new YFileError
func New(category ErrorCategory, severity ErrorSeverity, message string) *YFileError {
	return &YFileError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new YFileError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *YFileError {
	return &YFileError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As returns the first YFileError in err's chain.
func As(err error) (*YFileError, bool) {
	var yfe *YFileError
	if stdErrors.As(err, &yfe) {
		return yfe, true
	}
	return nil, false
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if yfe, ok := As(err); ok {
		return yfe.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a YFileError
func GetCategory(err error) ErrorCategory {
	if yfe, ok := As(err); ok {
		return yfe.Category
	}
	return CategoryInternal
}
