package errors

import (
	"errors"
	"fmt"
)

// Error codes reported to API clients.
const (
	CodeValidationMissingField = "VALIDATION_MISSING_FIELD"
	CodeNotFound               = "NOT_FOUND"
)

// ErrNotFound matches any NotFoundError through errors.Is.
var ErrNotFound = NewNotFoundError("resource", "")

// ValidationError represents a request missing one or more required fields.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Code returns the client-facing error code.
func (e *ValidationError) Code() string {
	return CodeValidationMissingField
}

// Extensions exposes the error code under GraphQL "extensions".
func (e *ValidationError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code()}
	if e.Field != "" {
		ext["field"] = e.Field
	}
	return ext
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Code returns the client-facing error code.
func (e *NotFoundError) Code() string {
	return CodeNotFound
}

// Extensions exposes the error code under GraphQL "extensions".
func (e *NotFoundError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code()}
}

// Is reports whether target is also a NotFoundError, so errors.Is(err, ErrNotFound) works
// for any resource.
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Coded is implemented by errors that carry a client-facing code.
type Coded interface {
	error
	Code() string
	Extensions() map[string]interface{}
}

// AsCoded returns the first Coded error in err's chain.
func AsCoded(err error) (Coded, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf, true
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
