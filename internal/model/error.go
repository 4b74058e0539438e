package model

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error codes for API responses
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// DomainError represents a business-rule failure with a stable code.
// Field is set for conflicts attributable to a single uniqueness-bearing
// field (email, name, slug).
type DomainError struct {
	Code    string
	Message string
	Field   string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewConflictError creates a conflict error attributed to a field.
func NewConflictError(field, message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeConflict,
		Message: message,
		Field:   field,
	}
}

// Common domain errors
var (
	ErrUserNotFound      = NewDomainError(ErrCodeNotFound, "User not found")
	ErrProductNotFound   = NewDomainError(ErrCodeNotFound, "Product not found")
	ErrCategoryNotFound  = NewDomainError(ErrCodeNotFound, "Category not found")
	ErrUnauthorized      = NewDomainError(ErrCodeUnauthorized, "Operation not permitted")
	ErrInvalidCredential = NewDomainError(ErrCodeUnauthorized, "Invalid email or password")
	ErrCategoryInUse     = NewConflictError("categoryId", "Category has assigned products")
)

// FieldError describes a single invalid field in a request payload.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError aggregates the invalid fields of a request payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	paths := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		paths[i] = f.Path
	}
	return fmt.Sprintf("invalid fields: %s", strings.Join(paths, ", "))
}

// IsConflict reports whether err is a conflict domain error.
func IsConflict(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrCodeConflict
}

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrCodeNotFound
}

// IsUnauthorized reports whether err is an authorization domain error.
func IsUnauthorized(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrCodeUnauthorized
}

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Field   string       `json:"field,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}
