package dto

import (
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Error codes returned to clients. The set is closed; raw errors are only logged.
const (
	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeMalformedRequest ErrorCode = "VAL_002"

	// Upload errors
	ErrorCodePayloadTooLarge ErrorCode = "UPL_001"
	ErrorCodeUploadFailed    ErrorCode = "UPL_002"

	// Resource errors
	ErrorCodeResourceNotFound ErrorCode = "RES_001"

	// Server errors
	ErrorCodeInternalServer ErrorCode = "SRV_001"
	ErrorCodeDatabaseError  ErrorCode = "SRV_002"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

// Severity levels
const (
	ErrorSeverityWarning  ErrorSeverity = "WARNING"
	ErrorSeverityError    ErrorSeverity = "ERROR"
	ErrorSeverityCritical ErrorSeverity = "CRITICAL"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code     ErrorCode     `json:"code" example:"VAL_001"`
	Message  string        `json:"message" example:"dob must be a date (YYYY-MM-DD)"`
	Field    string        `json:"field,omitempty" example:"dob"`
	Severity ErrorSeverity `json:"severity" example:"ERROR"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Message   string       `json:"message,omitempty" example:"Error registering instructor"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: ErrorSeverityError,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithSeverity sets the severity level of the error
func (e *ErrorDetail) WithSeverity(severity ErrorSeverity) *ErrorDetail {
	e.Severity = severity
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}

// WithMessage sets the top level message shown next to the error detail
func (r *ErrorResponse) WithMessage(message string) *ErrorResponse {
	r.Message = message
	return r
}
