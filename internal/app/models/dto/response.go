package dto

import "time"

// APIResponse is the envelope returned by every endpoint
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-09-01T12:01:05.123Z"`
}

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	ErrorCodeValidationFailed      ErrorCode = "VALIDATION_FAILED"
	ErrorCodeResourceNotFound      ErrorCode = "RESOURCE_NOT_FOUND"
	ErrorCodeResourceAlreadyExists ErrorCode = "RESOURCE_ALREADY_EXISTS"
	ErrorCodeInvalidCredentials    ErrorCode = "INVALID_CREDENTIALS"
	ErrorCodeInvalidToken          ErrorCode = "INVALID_TOKEN"
	ErrorCodeExpiredToken          ErrorCode = "EXPIRED_TOKEN"
	ErrorCodeForbidden             ErrorCode = "FORBIDDEN"
	ErrorCodeInternalServer        ErrorCode = "INTERNAL_SERVER_ERROR"

	// Enrollment outcomes
	ErrorCodeNotOpenForSelection ErrorCode = "NOT_OPEN_FOR_SELECTION"
	ErrorCodeSelectionClosed     ErrorCode = "SELECTION_CLOSED"
	ErrorCodeAlreadySelected     ErrorCode = "ALREADY_SELECTED"
	ErrorCodeCreditsExceeded     ErrorCode = "CREDITS_EXCEEDED"
	ErrorCodeCourseFull          ErrorCode = "COURSE_FULL"
	ErrorCodeNotSelected         ErrorCode = "NOT_SELECTED"
	ErrorCodeDropWindowExpired   ErrorCode = "DROP_WINDOW_EXPIRED"
)

// ErrorDetail carries a machine-readable code and a human-readable message
type ErrorDetail struct {
	Code    ErrorCode   `json:"code" example:"COURSE_FULL"`
	Message string      `json:"message" example:"Offering is full"`
	Details interface{} `json:"details,omitempty"`
}

// NewErrorDetail creates an ErrorDetail with the given code and message
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:    code,
		Message: message,
	}
}

// WithDetails attaches extra context to the error detail
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// NewErrorResponse wraps an ErrorDetail in the standard envelope
func NewErrorResponse(detail *ErrorDetail) APIResponse {
	return APIResponse{
		Error:     detail,
		Timestamp: time.Now(),
	}
}

// NewDataResponse wraps payload data in the standard envelope
func NewDataResponse(data interface{}) APIResponse {
	return APIResponse{
		Data:      data,
		Timestamp: time.Now(),
	}
}
