package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidURL   = "INVALID_URL"
	ErrCodeTimeout      = "NETWORK_TIMEOUT"
	ErrCodeFetchFailed  = "FETCH_FAILED"
	ErrCodeUnsupported  = "UNSUPPORTED_PAGE"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ImportError struct {
	Code    string
	Message string

	// StatusCode carries the upstream HTTP status for FETCH_FAILED.
	StatusCode int

	Err error // wrapped original error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// NewImportError creates a new ImportError.
func NewImportError(code, message string, err error) *ImportError {
	return &ImportError{Code: code, Message: message, Err: err}
}

// NewFetchFailedError creates a FETCH_FAILED error carrying the upstream status.
func NewFetchFailedError(statusCode int, url string) *ImportError {
	return &ImportError{
		Code:       ErrCodeFetchFailed,
		Message:    fmt.Sprintf("HTTP %d for %s", statusCode, url),
		StatusCode: statusCode,
	}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ImportError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
