package apperrors

import (
	"errors"
	"fmt"
)

// Request errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrPayloadTooLarge  = errors.New("payload too large")
)

// Storage errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrUploadFailed     = errors.New("upload failed")
	ErrDatabase         = errors.New("database error")
)

// NewValidationError reports a field whose value could not be coerced
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Field:   field,
	}
}

// WrapDatabase marks err as a document store failure while keeping the cause for logging
func WrapDatabase(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrDatabase, op, err)
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Field   string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}
