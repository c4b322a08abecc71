package wordml

import (
	"errors"
	"fmt"
	"strings"
)

// RangeError reports an offset or count that falls outside the addressable
// text of a paragraph or run. Range errors are caller mistakes and are never
// silently clamped.
type RangeError struct {
	Op     string
	Offset int
	Length int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range error in %s: offset %d out of range [0, %d]", e.Op, e.Offset, e.Length)
}

// NewRangeError creates a new range error
func NewRangeError(op string, offset, length int) error {
	return &RangeError{
		Op:     op,
		Offset: offset,
		Length: length,
	}
}

// InvalidDocumentError reports a structural-consistency problem in the source
// package: a missing body, an unmatched bookmark end, a part that cannot be
// parsed. These indicate a malformed package rather than a caller mistake.
type InvalidDocumentError struct {
	Part    string
	Message string
	Cause   error
}

func (e *InvalidDocumentError) Error() string {
	if e.Part != "" && e.Cause != nil {
		return fmt.Sprintf("invalid document: %s in '%s': %v", e.Message, e.Part, e.Cause)
	} else if e.Part != "" {
		return fmt.Sprintf("invalid document: %s in '%s'", e.Message, e.Part)
	} else if e.Cause != nil {
		return fmt.Sprintf("invalid document: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid document: %s", e.Message)
}

func (e *InvalidDocumentError) Unwrap() error {
	return e.Cause
}

// NewInvalidDocumentError creates a new invalid document error
func NewInvalidDocumentError(part, message string, cause error) error {
	return &InvalidDocumentError{
		Part:    part,
		Message: message,
		Cause:   cause,
	}
}

// AuthorizationError reports a protection policy violation: removing
// protection with a wrong password, or protecting an already-protected
// document. Distinct from data corruption.
type AuthorizationError struct {
	Operation string
	Message   string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("authorization error during %s: %s", e.Operation, e.Message)
}

// NewAuthorizationError creates a new authorization error
func NewAuthorizationError(operation, message string) error {
	return &AuthorizationError{
		Operation: operation,
		Message:   message,
	}
}

// ArgumentError reports an invalid argument such as an empty search pattern
// or a nil replacement.
type ArgumentError struct {
	Argument string
	Message  string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument error: %s: %s", e.Argument, e.Message)
}

// NewArgumentError creates a new argument error
func NewArgumentError(argument, message string) error {
	return &ArgumentError{
		Argument: argument,
		Message:  message,
	}
}

// DocumentError represents an error during document operations
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// ContextError adds context to an existing error
type ContextError struct {
	Operation string
	Context   map[string]interface{}
	Cause     error
}

func (e *ContextError) Error() string {
	var contextParts []string
	for k, v := range e.Context {
		contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
	}

	if len(contextParts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(contextParts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context
func WithContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Operation: operation,
		Context:   context,
		Cause:     err,
	}
}

// IsRangeError checks if an error is a range error
func IsRangeError(err error) bool {
	var target *RangeError
	return errors.As(err, &target)
}

// IsInvalidDocumentError checks if an error is an invalid document error
func IsInvalidDocumentError(err error) bool {
	var target *InvalidDocumentError
	return errors.As(err, &target)
}

// IsAuthorizationError checks if an error is an authorization error
func IsAuthorizationError(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

// IsArgumentError checks if an error is an argument error
func IsArgumentError(err error) bool {
	var target *ArgumentError
	return errors.As(err, &target)
}

// IsDocumentError checks if an error is a document error
func IsDocumentError(err error) bool {
	var target *DocumentError
	return errors.As(err, &target)
}
