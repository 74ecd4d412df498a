// Package errors provides standardized error handling for the lead API.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRequest      ErrorCode = "INVALID_REQUEST"
	ErrCodeSearchFailed        ErrorCode = "SEARCH_FAILED"
	ErrCodeNoResults           ErrorCode = "NO_RESULTS"
	ErrCodeGeolocationFailed   ErrorCode = "GEOLOCATION_FAILED"
	ErrCodePlaceLookupFailed   ErrorCode = "PLACE_LOOKUP_FAILED"
	ErrCodePlaceNotFound       ErrorCode = "PLACE_NOT_FOUND"
	ErrCodeExportFormatUnknown ErrorCode = "EXPORT_FORMAT_UNKNOWN"
	ErrCodeSessionStoreFailed  ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeMapNotReady         ErrorCode = "MAP_NOT_READY"
	ErrCodeServiceUnavailable  ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError is raised before any network call is made.
func NewValidationError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError reports a malformed API request body.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchFailedError wraps a transport or provider failure. Searches are never retried automatically.
func NewSearchFailedError(message string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchFailed,
		Message:   message,
		Details:   detailsOf(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewNoResultsError is informational; it is surfaced but not logged as a failure.
func NewNoResultsError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoResults,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewGeolocationFailedError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGeolocationFailed,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewPlaceLookupFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePlaceLookupFailed,
		Message:   "Could not look up that place. Please try again.",
		Details:   detailsOf(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewPlaceNotFoundError(place string) *StandardError {
	return &StandardError{
		Code:      ErrCodePlaceNotFound,
		Message:   fmt.Sprintf("Could not find %q on the map.", place),
		Details:   fmt.Sprintf("place: %s", place),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExportFormatUnknownError(format string) *StandardError {
	return &StandardError{
		Code:      ErrCodeExportFormatUnknown,
		Message:   "Unsupported export format",
		Details:   fmt.Sprintf("format: %s", format),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSessionStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Session storage error",
		Details:   detailsOf(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewMapNotReadyError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMapNotReady,
		Message:   "Move the map before searching this area",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewServiceUnavailableError reports a failed readiness check.
func NewServiceUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeServiceUnavailable,
		Message:   "Service unavailable",
		Details:   detailsOf(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func detailsOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 3. HTTP Mapping
// ==========================

var httpStatus = map[ErrorCode]int{
	ErrCodeValidationFailed:    http.StatusUnprocessableEntity,
	ErrCodeInvalidRequest:      http.StatusBadRequest,
	ErrCodeSearchFailed:        http.StatusBadGateway,
	ErrCodeNoResults:           http.StatusOK,
	ErrCodeGeolocationFailed:   http.StatusUnprocessableEntity,
	ErrCodePlaceLookupFailed:   http.StatusBadGateway,
	ErrCodePlaceNotFound:       http.StatusNotFound,
	ErrCodeExportFormatUnknown: http.StatusNotFound,
	ErrCodeSessionStoreFailed:  http.StatusServiceUnavailable,
	ErrCodeMapNotReady:         http.StatusConflict,
	ErrCodeServiceUnavailable:  http.StatusServiceUnavailable,
}

// HTTPStatus returns the response status for an error code.
func HTTPStatus(code ErrorCode) int {
	if s, ok := httpStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// ==========================
// 4. Utility Functions
// ==========================

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   detailsOf(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// HasCode reports whether err is a StandardError carrying code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "RESULTS"):
		return "SEARCH"
	case strings.Contains(codeStr, "GEOLOCATION") || strings.Contains(codeStr, "PLACE") || strings.Contains(codeStr, "MAP"):
		return "LOCATION"
	case strings.Contains(codeStr, "EXPORT"):
		return "EXPORT"
	case strings.Contains(codeStr, "SESSION") || strings.Contains(codeStr, "UNAVAILABLE"):
		return "STORAGE"
	default:
		return "OTHER"
	}
}
