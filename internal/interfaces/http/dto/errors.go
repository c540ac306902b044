package dto

import "net/http"

// Error codes not produced by the domain layer
const (
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeUnauthorized is used when authentication is missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeNotFound is used when a resource does not exist
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeRateLimited is used when the rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
)

// ErrorCodeHTTPStatus maps error codes, including the domain layer's,
// to HTTP status codes. Anything not listed maps to 500.
var ErrorCodeHTTPStatus = map[string]int{
	// Missing resources
	"NOT_FOUND": http.StatusNotFound,

	// Malformed or invalid input
	"BAD_REQUEST":      http.StatusBadRequest,
	"VALIDATION_ERROR": http.StatusBadRequest,
	"INVALID_INPUT":    http.StatusBadRequest,
	"INVALID_QUANTITY": http.StatusBadRequest,
	"EMPTY_CART":       http.StatusBadRequest,

	// Authentication
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,

	// Authorization
	"FORBIDDEN":           http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,

	// State conflicts
	"ALREADY_EXISTS":        http.StatusConflict,
	"EMAIL_TAKEN":           http.StatusConflict,
	"INSUFFICIENT_STOCK":    http.StatusConflict,
	"INVALID_TRANSITION":    http.StatusConflict,
	"CANNOT_CANCEL_SHIPPED": http.StatusConflict,
	"OAUTH_ACCOUNT":         http.StatusConflict,

	// Rate limiting
	"RATE_LIMIT_EXCEEDED": http.StatusTooManyRequests,

	// Upstream and storage failures
	"GATEWAY_ERROR":  http.StatusBadGateway,
	"STORAGE_ERROR":  http.StatusInternalServerError,
	"INTERNAL_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 so new domain errors fail safe.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
