package errors

import (
	"fmt"
)

// CheckError indicates the probe of a resource's current state could not be
// completed. The convergence action is never attempted after one.
type CheckError struct {
	ResourceID string
	Err        error
}

// NewCheckError constructs a CheckError.
func NewCheckError(resourceID string, err error) error {
	return &CheckError{ResourceID: resourceID, Err: err}
}

func (e *CheckError) Error() string {
	if e == nil {
		return ""
	}
	if e.ResourceID != "" {
		return fmt.Sprintf("check failed for resource %s: %v", e.ResourceID, e.Err)
	}
	return fmt.Sprintf("check failed: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *CheckError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ActionError indicates a convergence action was attempted and did not
// succeed.
type ActionError struct {
	ResourceID string
	Err        error
}

// NewActionError constructs an ActionError.
func NewActionError(resourceID string, err error) error {
	return &ActionError{ResourceID: resourceID, Err: err}
}

func (e *ActionError) Error() string {
	if e == nil {
		return ""
	}
	if e.ResourceID != "" {
		return fmt.Sprintf("convergence failed for resource %s: %v", e.ResourceID, e.Err)
	}
	return fmt.Sprintf("convergence failed: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *ActionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ParseError represents a YAML manifest parsing failure with optional line
// metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures manifest validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
