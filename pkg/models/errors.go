package models

import (
	"errors"
	"fmt"
)

// ErrInvalidPayload is matched by every ValidationError.
var ErrInvalidPayload = errors.New("invalid payload")

// ValidationError reports an entity that does not fit the console schema.
type ValidationError struct {
	Entity  string
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: field %s %s", e.Entity, e.Field, e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidPayload
}

// NewValidationError creates a new ValidationError
func NewValidationError(entity, field, message string) *ValidationError {
	return &ValidationError{Entity: entity, Field: field, Message: message}
}
