package types

import (
	"fmt"
)

// DiffErrorCode represents categorized error codes for comparison operations
type DiffErrorCode string

const (
	// Pipeline errors
	ErrCodeParseFailure      DiffErrorCode = "PARSE_FAILURE"
	ErrCodeExtractionFailure DiffErrorCode = "EXTRACTION_FAILURE"
	ErrCodeComparisonFailure DiffErrorCode = "COMPARISON_FAILURE"
	ErrCodeRenderFailure     DiffErrorCode = "RENDER_FAILURE"

	// Input and configuration errors
	ErrCodeInvalidInput DiffErrorCode = "INVALID_INPUT"
	ErrCodeConfigError  DiffErrorCode = "CONFIG_ERROR"

	// I/O errors
	ErrCodeIOError DiffErrorCode = "IO_ERROR"
)

// DiffError is a structured error type for comparison operations
type DiffError struct {
	Code    DiffErrorCode          // Error category code
	Message string                 // Human-readable message
	Cause   error                  // Underlying error (if any)
	Context map[string]interface{} // Additional context (side, unit index, table ordinal, etc.)
}

// Error implements the error interface
func (e *DiffError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DiffError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target DiffError by code
func (e *DiffError) Is(target error) bool {
	if t, ok := target.(*DiffError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error and returns the same error for chaining
func (e *DiffError) WithContext(key string, value interface{}) *DiffError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewDiffError creates a new DiffError with the given code and message
func NewDiffError(code DiffErrorCode, message string) *DiffError {
	return &DiffError{
		Code:    code,
		Message: message,
	}
}

// NewDiffErrorf creates a new DiffError with a formatted message
func NewDiffErrorf(code DiffErrorCode, format string, args ...interface{}) *DiffError {
	return &DiffError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError wraps an existing error with a DiffError
func WrapError(code DiffErrorCode, message string, cause error) *DiffError {
	return &DiffError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapErrorf wraps an existing error with a DiffError and formatted message
func WrapErrorf(code DiffErrorCode, cause error, format string, args ...interface{}) *DiffError {
	return &DiffError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Sentinel errors for use with errors.Is()
var (
	ErrParseFailure      = &DiffError{Code: ErrCodeParseFailure}
	ErrExtractionFailure = &DiffError{Code: ErrCodeExtractionFailure}
	ErrComparisonFailure = &DiffError{Code: ErrCodeComparisonFailure}
	ErrRenderFailure     = &DiffError{Code: ErrCodeRenderFailure}

	ErrInvalidInput = &DiffError{Code: ErrCodeInvalidInput}
	ErrConfigError  = &DiffError{Code: ErrCodeConfigError}

	ErrIOError = &DiffError{Code: ErrCodeIOError}
)

// IsDiffError checks if an error is a DiffError and returns it
func IsDiffError(err error) (*DiffError, bool) {
	if diffErr, ok := err.(*DiffError); ok {
		return diffErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a DiffError
func GetErrorCode(err error) (DiffErrorCode, bool) {
	if diffErr, ok := err.(*DiffError); ok {
		return diffErr.Code, true
	}
	return "", false
}

// IsFallbackCode reports whether a failure with this code replaces the whole
// comparison with the unchanged result. A render failure only costs one side
// its annotations and is not one of them.
func IsFallbackCode(code DiffErrorCode) bool {
	switch code {
	case ErrCodeParseFailure, ErrCodeExtractionFailure, ErrCodeComparisonFailure, ErrCodeInvalidInput:
		return true
	}
	return false
}

// IsPipelineError reports whether err is a DiffError carrying a fallback code
func IsPipelineError(err error) bool {
	code, ok := GetErrorCode(err)
	return ok && IsFallbackCode(code)
}
