package dto

import (
	"net/http"

	"github.com/foresy/backend/internal/domain/shared"
)

// Transport-level error codes. Domain error codes pass through the API
// unchanged; these cover failures raised by the interface layer itself.
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidJSON is used when body parsing fails
	ErrCodeInvalidJSON = "INVALID_JSON"
	// ErrCodeUnauthorized is used when authentication is missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	// ErrCodeRateLimited is used when the rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
	// ErrCodeRequestTooLarge is used when the body exceeds the size limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// kindHTTPStatus maps domain error kinds to HTTP status codes.
// Ownership failures map to 403 since the caller is authenticated but
// touching someone else's aggregate.
var kindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation:   http.StatusBadRequest,
	shared.KindNotFound:     http.StatusNotFound,
	shared.KindUnauthorized: http.StatusForbidden,
	shared.KindConflict:     http.StatusConflict,
	shared.KindInternal:     http.StatusInternalServerError,
}

// HTTPStatusForKind returns the HTTP status code for a domain error kind.
// Returns 500 for unknown kinds.
func HTTPStatusForKind(kind shared.ErrorKind) int {
	if status, ok := kindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}
