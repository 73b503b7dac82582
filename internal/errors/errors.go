// Package errors provides a lightweight structured error type (SiteError)
// for category-based classification of build failures and CLI exit codes.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a site error for classification.
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Content and navigation errors
	CategoryContent    ErrorCategory = "content"
	CategoryNavigation ErrorCategory = "navigation"
	CategoryLinks      ErrorCategory = "links"

	// Build and output errors
	CategoryRender     ErrorCategory = "render"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the build
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// ContextFields carries structured context for SiteError.
type ContextFields map[string]any

// SiteError is a structured error with category, severity and context.
type SiteError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *SiteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping.
func (e *SiteError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *SiteError) WithContext(key string, value any) *SiteError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new SiteError.
func New(category ErrorCategory, severity ErrorSeverity, message string) *SiteError {
	return &SiteError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new SiteError that wraps an existing error.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *SiteError {
	return &SiteError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As returns the first SiteError in err's chain.
func As(err error) (*SiteError, bool) {
	var se *SiteError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsCategory checks if an error (or anything it wraps) belongs to a category.
func IsCategory(err error, category ErrorCategory) bool {
	if se, ok := As(err); ok {
		return se.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if no SiteError is found in the chain.
func GetCategory(err error) ErrorCategory {
	if se, ok := As(err); ok {
		return se.Category
	}
	return CategoryInternal
}
