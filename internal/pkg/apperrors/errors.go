package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Catalog errors
var (
	ErrCourseNotFound        = errors.New("course not found")
	ErrCourseAlreadyExists   = errors.New("course with this code already exists")
	ErrOfferingNotFound      = errors.New("offering not found")
	ErrTermNotFound          = errors.New("term not found")
	ErrTermAlreadyExists     = errors.New("term for this year and season already exists")
	ErrNoCurrentTerm         = errors.New("current term is not set")
	ErrOfferingHasEnrollment = errors.New("offering has active enrollments")
)

// Student errors
var (
	ErrStudentNotFound            = errors.New("student not found")
	ErrStudentNumberAlreadyExists = errors.New("student number already exists")
)

// Enrollment errors. Each one is a terminal business outcome for its
// request and leaves no partial state behind. Infrastructure failures are
// wrapped separately and must never be mapped onto these.
var (
	ErrNotOpenForSelection = errors.New("offering is not open for selection")
	ErrSelectionClosed     = errors.New("selection period has ended")
	ErrAlreadySelected     = errors.New("offering already selected")
	ErrCreditsExceeded     = errors.New("maximum credit limit exceeded")
	ErrCourseFull          = errors.New("offering is full")
	ErrNotSelected         = errors.New("offering is not selected")
	ErrDropWindowExpired   = errors.New("drop period has expired")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
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

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}
