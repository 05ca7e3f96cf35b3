package errors

import "net/http"

// ErrorCode is the machine-readable code in every error body.
type ErrorCode string

const (
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodePayloadTooLarge    ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS" // unknown email and wrong password share it
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

type codeInfo struct {
	status    int
	retryable bool
}

var codeTable = map[ErrorCode]codeInfo{
	ErrCodeInvalidInput:       {http.StatusBadRequest, false},
	ErrCodePayloadTooLarge:    {http.StatusRequestEntityTooLarge, false},
	ErrCodeAlreadyExists:      {http.StatusConflict, false},
	ErrCodeNotFound:           {http.StatusNotFound, false},
	ErrCodeUnauthorized:       {http.StatusUnauthorized, false},
	ErrCodeInvalidCredentials: {http.StatusUnauthorized, false},
	ErrCodeForbidden:          {http.StatusForbidden, false},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, true},
	ErrCodeInternal:           {http.StatusInternalServerError, false},
}

// HTTPStatus is the response status for the code. Unknown codes map to 500.
func (c ErrorCode) HTTPStatus() int {
	if info, ok := codeTable[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Retryable reports whether a client may retry the same request later.
func (c ErrorCode) Retryable() bool {
	return codeTable[c].retryable
}
