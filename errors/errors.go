package errors

import "fmt"

// AppError is an expected failure with a client-safe message.
type AppError struct {
	Code       ErrorCode
	Message    string
	Retryable  bool
	HTTPStatus int
	Details    map[string]any
	// Cause is logged, never serialized.
	Cause error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithDetail sets one detail entry and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New builds an AppError whose status and retry flag come from code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Retryable:  code.Retryable(),
		HTTPStatus: code.HTTPStatus(),
	}
}

// Validation rejects malformed or missing input.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message)
}

// AlreadyExists reports a uniqueness conflict.
func AlreadyExists(message string) *AppError {
	return New(ErrCodeAlreadyExists, message)
}

// NotFound reports a missing resource; id is omitted from details when empty.
func NotFound(resource, id string) *AppError {
	err := New(ErrCodeNotFound, resource+" not found.").WithDetail("resource", resource)
	if id != "" {
		err.WithDetail("id", id)
	}
	return err
}

// Unauthorized rejects a request without a usable credential.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return New(ErrCodeUnauthorized, reason)
}

// InvalidCredentials is the single error for every failed login.
func InvalidCredentials() *AppError {
	return New(ErrCodeInvalidCredentials, "Invalid email or password.")
}

// Forbidden rejects an authenticated caller acting on someone else's resource.
func Forbidden(reason string) *AppError {
	if reason == "" {
		reason = "You don't have permission to perform this action."
	}
	return New(ErrCodeForbidden, reason)
}

// ServiceUnavailable reports that a bounded resource is saturated.
func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable, fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service)).
		WithDetail("service", service)
}

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	err := New(ErrCodeInternal, "Internal server error.")
	err.Cause = cause
	return err
}
