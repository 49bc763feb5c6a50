// Package shopify provides domain types for the Shopify Admin API
// integration: error classification and the retry policy used by the client.
package shopify

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard domain errors. A missing resource is reported as an empty result
// by the client, never as an error, so the engine can always distinguish
// "not found" from "platform unavailable".
var (
	ErrRateLimited        = errors.New("API rate limit exceeded")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrInvalidRequest     = errors.New("invalid request parameters")
	ErrServiceUnavailable = errors.New("Shopify service temporarily unavailable")
)

// APIError represents a structured failure from the Shopify Admin API.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("shopify [%d]: %s (request_id: %s)", e.StatusCode, e.Message, e.RequestID)
	}
	return fmt.Sprintf("shopify [%d]: %s", e.StatusCode, e.Message)
}

// Is implements errors.Is for APIError.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrInvalidRequest:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	case ErrServiceUnavailable:
		return e.StatusCode >= 500
	default:
		return false
	}
}

// IsRetryable returns true if this error is safe to retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// NewAPIError creates a new APIError with the given parameters.
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}

// NewAPIErrorWithRequestID creates a new APIError carrying the X-Request-Id
// returned by Shopify.
func NewAPIErrorWithRequestID(statusCode int, message, requestID string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message, RequestID: requestID}
}

// IsUnavailable reports whether err indicates the platform could not be
// reached or answered with a server-side failure, as opposed to a definitive
// answer about the requested resource.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRetryable()
	}
	// Transport-level failures (timeouts, connection refused) land here.
	return true
}
