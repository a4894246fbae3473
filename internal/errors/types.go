package errors

import (
	"fmt"
	"net/http"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	ErrorTypeMissingCredential ErrorType = "MISSING_CREDENTIAL"
	ErrorTypeInvalidRequest    ErrorType = "INVALID_REQUEST"
	ErrorTypeUnsupportedImage  ErrorType = "UNSUPPORTED_IMAGE"
	ErrorTypeQuotaExceeded     ErrorType = "QUOTA_EXCEEDED"
	ErrorTypeInvalidCredential ErrorType = "INVALID_CREDENTIAL"
	ErrorTypeRequestTimeout    ErrorType = "REQUEST_TIMEOUT"
	ErrorTypeUnparseable       ErrorType = "RESPONSE_UNPARSEABLE"
	ErrorTypeUpstream          ErrorType = "UPSTREAM_FAILURE"
)

// AppError represents a structured error for the application
type AppError struct {
	Type          ErrorType         `json:"type"`
	Message       string            `json:"message"`
	StatusCode    int               `json:"statusCode"`
	ErrorCode     string            `json:"errorCode"`
	IsOperational bool              `json:"isOperational"`
	Recovery      string            `json:"recoverySuggestion,omitempty"`
	RetryAfter    int               `json:"retryAfter,omitempty"`
	UserMessage   map[string]string `json:"userMessage,omitempty"`
	Err           error             `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns the application-specific error code
func (e *AppError) Code() string {
	return e.ErrorCode
}

// RecoverySuggestion returns the suggestion on how to recover from the error
func (e *AppError) RecoverySuggestion() string {
	return e.Recovery
}

// IsRetryable determines if the operation that caused the error should be retried
func (e *AppError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeQuotaExceeded, ErrorTypeRequestTimeout:
		return true
	case ErrorTypeUpstream:
		return e.StatusCode >= 500
	default:
		return false
	}
}

// NewMissingCredentialError creates the error returned when no API key is
// configured at all. Checked before any generation call is attempted.
func NewMissingCredentialError() *AppError {
	return &AppError{
		Type:          ErrorTypeMissingCredential,
		Message:       "generation service credential is not configured",
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     "MISSING_API_KEY",
		IsOperational: false,
		Recovery:      "Set GEMINI_API_KEY in the server environment.",
	}
}

// NewInvalidRequestError creates a new validation error (400)
func NewInvalidRequestError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeInvalidRequest,
		Message:       message,
		StatusCode:    http.StatusBadRequest,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "Send either an image file or a non-empty ingredients list.",
		Err:           err,
	}
}

// NewUnsupportedImageError creates the error for image bytes that fail to decode (400)
func NewUnsupportedImageError(err error) *AppError {
	return &AppError{
		Type:          ErrorTypeUnsupportedImage,
		Message:       "uploaded image could not be decoded",
		StatusCode:    http.StatusBadRequest,
		ErrorCode:     "UNSUPPORTED_IMAGE",
		IsOperational: true,
		Recovery:      "Upload a JPEG, PNG, GIF or WebP photo.",
		Err:           err,
	}
}

// NewQuotaExceededError creates a new quota error (429) carrying a
// machine-readable retry hint and a localized user message. The user-facing
// wording is fixed here so upstream message changes never alter it.
func NewQuotaExceededError(retryAfter int, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeQuotaExceeded,
		Message:       "generation service quota exceeded",
		StatusCode:    http.StatusTooManyRequests,
		ErrorCode:     "QUOTA_EXCEEDED",
		IsOperational: true,
		Recovery:      fmt.Sprintf("Wait at least %d seconds before retrying.", retryAfter),
		RetryAfter:    retryAfter,
		UserMessage: map[string]string{
			"ar": fmt.Sprintf("تم تجاوز الحد المسموح من الطلبات. يرجى المحاولة مرة أخرى بعد %d ثانية.", retryAfter),
			"en": fmt.Sprintf("The request limit has been reached. Please try again in %d seconds.", retryAfter),
		},
		Err: err,
	}
}

// NewInvalidCredentialError creates the error for credential-related provider
// failures. The upstream wording is deliberately replaced with a fixed message
// so no key material or configuration detail leaks through.
func NewInvalidCredentialError(err error) *AppError {
	return &AppError{
		Type:          ErrorTypeInvalidCredential,
		Message:       "generation service rejected the configured credential",
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     "INVALID_API_KEY",
		IsOperational: true,
		Recovery:      "Verify the API key is valid, not expired, and permitted for this origin.",
		Err:           err,
	}
}

// NewRequestTimeoutError creates the error for a generation call that exceeded
// its wall-clock budget (500)
func NewRequestTimeoutError(err error) *AppError {
	return &AppError{
		Type:          ErrorTypeRequestTimeout,
		Message:       "generation request timed out",
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     "GENERATION_TIMEOUT",
		IsOperational: true,
		Recovery:      "Try again with a smaller image or fewer ingredients.",
		Err:           err,
	}
}

// NewUnparseableError creates the error for provider output that survived no
// repair attempt. The raw text travels only in Err for diagnostics and is
// never part of the user-visible message.
func NewUnparseableError(err error) *AppError {
	return &AppError{
		Type:          ErrorTypeUnparseable,
		Message:       "generation service returned an unreadable recipe",
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     "RESPONSE_UNPARSEABLE",
		IsOperational: true,
		Recovery:      "Retry the request; the service occasionally returns malformed output.",
		Err:           err,
	}
}

// NewUpstreamError creates the catch-all provider error (500). The upstream
// message is passed through unmodified for operability.
func NewUpstreamError(message string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeUpstream,
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     "UPSTREAM_FAILURE",
		IsOperational: true,
		Recovery:      "Wait for the generation service to recover and try again.",
		Err:           err,
	}
}
