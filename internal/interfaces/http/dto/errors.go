package dto

import "net/http"

// Error codes surfaced by the API. Domain errors carry these codes verbatim;
// the table below fixes their HTTP status.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeUnauthorized is used when authentication is required but missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeDuplicateNumber is used when a document number collides
	ErrCodeDuplicateNumber = "DUPLICATE_NUMBER"
	// ErrCodeInsufficientStock is used when an allocation cannot be satisfied
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	// ErrCodeLifecycleViolation is used when an action is not allowed in the entity's state
	ErrCodeLifecycleViolation = "LIFECYCLE_VIOLATION"
	// ErrCodeNothingToRelease is used when an unreserve finds no outstanding reservation
	ErrCodeNothingToRelease = "NOTHING_TO_RELEASE"
	// ErrCodeInvalidState is used when counters or state forbid the operation
	ErrCodeInvalidState = "INVALID_STATE"
	// ErrCodeTimeout is used when the operation deadline expires
	ErrCodeTimeout = "TIMEOUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeDuplicateNumber:    http.StatusConflict,
	ErrCodeInsufficientStock:  http.StatusUnprocessableEntity,
	ErrCodeLifecycleViolation: http.StatusUnprocessableEntity,
	ErrCodeNothingToRelease:   http.StatusUnprocessableEntity,
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
