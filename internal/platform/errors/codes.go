// Package errors provides structured domain errors keyed by machine-readable codes.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Record errors
	CodeNotFound   Code = "NOT_FOUND"
	CodeNotPending Code = "NOT_PENDING"

	// Input errors
	CodeInvalidInput Code = "INVALID_INPUT"

	// Session errors
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeAccessDenied       Code = "ACCESS_DENIED"
	CodeSessionExpired     Code = "SESSION_EXPIRED"

	// Backend errors
	CodeBackendUnavailable Code = "BACKEND_UNAVAILABLE"
	CodePartialFailure     Code = "PARTIAL_FAILURE"
)

// HTTPStatus maps a code to the HTTP status used when it reaches a handler.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNotPending:
		return http.StatusConflict
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeInvalidCredentials, CodeSessionExpired:
		return http.StatusUnauthorized
	case CodeAccessDenied:
		return http.StatusForbidden
	case CodeBackendUnavailable:
		return http.StatusBadGateway
	case CodePartialFailure:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
