package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Aggregation errors
	ErrCodeNoWorkspace        ErrorCode = "NO_WORKSPACE"
	ErrCodeSpecsFolderMissing ErrorCode = "SPECS_FOLDER_MISSING"
	ErrCodeUnexpectedIO       ErrorCode = "UNEXPECTED_IO"

	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Preview target errors
	ErrCodePortConflict      ErrorCode = "PORT_CONFLICT"
	ErrCodeEditorUnavailable ErrorCode = "EDITOR_UNAVAILABLE"
	ErrCodeSessionDisposed   ErrorCode = "SESSION_DISPOSED"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// PreviewError represents a structured error with context.
// Message is always the human-readable text shown to the user.
type PreviewError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *PreviewError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PreviewError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *PreviewError) WithDetail(key string, value interface{}) *PreviewError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *PreviewError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new PreviewError
func New(code ErrorCode, message string) *PreviewError {
	return &PreviewError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a PreviewError
func Wrap(err error, code ErrorCode, message string) *PreviewError {
	return &PreviewError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific PreviewError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	previewErr, ok := err.(*PreviewError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return previewErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	previewErr, ok := err.(*PreviewError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return previewErr.Code
}
