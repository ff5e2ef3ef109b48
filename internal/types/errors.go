// Package types holds the shared domain types for ordersweep: the order
// records read from Magento, the webhook payloads sent downstream, the
// application error taxonomy, and small cross-cutting abstractions (Clock,
// SecretString, request-ID context helpers).
package types

import "fmt"

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Error code constants. All components MUST use these constants instead of
// hardcoded strings so that run failures can be classified in logs.
const (
	// Validation / data errors.
	ErrCodeValidationMissingField ErrorCode = "validation_missing_required_field"
	ErrCodeMalformedOrder         ErrorCode = "malformed_order_record"

	// Configuration errors.
	ErrCodeConfigInvalid ErrorCode = "config_invalid"

	// Upstream failures.
	ErrCodeUpstreamBackend     ErrorCode = "upstream_backend_unavailable"
	ErrCodeUpstreamTimeAPI     ErrorCode = "upstream_time_api_unavailable"
	ErrCodeUpstreamWebhook     ErrorCode = "upstream_webhook_failed"
	ErrCodeUpstreamRateLimited ErrorCode = "upstream_rate_limited"

	// Internal.
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// AppError is the standard application error type. All domain errors are
// expressed as AppError to enable consistent formatting and classification.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy of the error with the provided details merged in.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Details: merged,
	}
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
