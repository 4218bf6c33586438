// Package errors provides unified error handling across prompt-lab.
//
// SYSTEM ARCHITECTURE ROLE:
// Every surface (CLI, HTTP API, TUI) reports failures through the same AppError
// type so that the core packages (renderer, intake, vibe, export) can return one
// error shape and let the surface decide how to present it.
//
// KEY RESPONSIBILITIES:
// - Define error codes for the small taxonomy the tool has: bad input, unknown
//   catalog keys, storage/export failures, clipboard failures, command failures
// - Attach category and severity so handlers can style and map errors
// - Preserve the underlying cause for errors.Is / errors.As
//
// INTEGRATION POINTS:
// - internal/renderer: UnknownFrameworkError for ids outside the catalog
// - internal/intake: EmptyInputError when classification is attempted on blank text
// - internal/vibe: UnknownModelError / UnknownVibeError
// - internal/session: UnknownFieldError, NotFoundError for missing sessions
// - internal/validation: ValidationResult.ToAppError()
// - internal/errors/handlers.go: CLI/HTTP/TUI presentation
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeEmptyInput    ErrorCode = "EMPTY_INPUT"
	ErrCodeMissingField  ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// Catalog errors
	ErrCodeUnknownFramework ErrorCode = "UNKNOWN_FRAMEWORK"
	ErrCodeUnknownField     ErrorCode = "UNKNOWN_FIELD"
	ErrCodeUnknownModel     ErrorCode = "UNKNOWN_MODEL"
	ErrCodeUnknownVibe      ErrorCode = "UNKNOWN_VIBE"

	// Service errors
	ErrCodeInternalError  ErrorCode = "INTERNAL_ERROR"
	ErrCodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Resource errors
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// Storage errors
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Clipboard errors
	ErrCodeClipboardUnavailable ErrorCode = "CLIPBOARD_UNAVAILABLE"

	// Command errors
	ErrCodeCommandNotFound  ErrorCode = "COMMAND_NOT_FOUND"
	ErrCodeCommandFailed    ErrorCode = "COMMAND_FAILED"
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryCatalog    ErrorCategory = "catalog"
	CategoryService    ErrorCategory = "service"
	CategoryStorage    ErrorCategory = "storage"
	CategoryClipboard  ErrorCategory = "clipboard"
	CategoryCommand    ErrorCategory = "command"
	CategorySystem     ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError with the same code, so callers can
// write errors.Is(err, errors.NewAppError(errors.ErrCodeEmptyInput, "")).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeEmptyInput, ErrCodeMissingField, ErrCodeInvalidFormat:
		return CategoryValidation, SeverityWarning

	case ErrCodeUnknownFramework, ErrCodeUnknownField, ErrCodeUnknownModel, ErrCodeUnknownVibe:
		return CategoryCatalog, SeverityWarning

	case ErrCodeInternalError:
		return CategoryService, SeverityCritical
	case ErrCodeNotImplemented, ErrCodeNotFound:
		return CategoryService, SeverityInfo

	case ErrCodeStorageFailure, ErrCodeConfigInvalid:
		return CategoryStorage, SeverityError

	case ErrCodeClipboardUnavailable:
		return CategoryClipboard, SeverityWarning

	case ErrCodeCommandNotFound:
		return CategoryCommand, SeverityInfo
	case ErrCodeCommandFailed, ErrCodeMethodNotAllowed:
		return CategoryCommand, SeverityError

	default:
		return CategorySystem, SeverityError
	}
}

// IsAppError checks if an error is, or wraps, an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error, or converts it to one
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, "Internal error occurred")
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}

// Common error constructors for frequently used errors
func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func EmptyInputError() *AppError {
	return NewAppError(ErrCodeEmptyInput, "Input text is empty; describe your goal before classifying")
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func UnknownFrameworkError(id string) *AppError {
	return NewAppError(ErrCodeUnknownFramework, fmt.Sprintf("Unknown framework '%s'", id)).
		WithContext("framework_id", id)
}

func UnknownFieldError(frameworkID, key string) *AppError {
	return NewAppError(ErrCodeUnknownField, fmt.Sprintf("Framework '%s' has no field '%s'", frameworkID, key)).
		WithContext("framework_id", frameworkID).
		WithContext("field", key)
}

func UnknownModelError(model string) *AppError {
	return NewAppError(ErrCodeUnknownModel, fmt.Sprintf("Unknown model '%s'", model))
}

func UnknownVibeError(vibe string) *AppError {
	return NewAppError(ErrCodeUnknownVibe, fmt.Sprintf("Unknown vibe '%s'", vibe))
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternalError, message)
}

func StorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageFailure, fmt.Sprintf("Storage operation failed: %s", operation))
}

func ClipboardFailure(err error) *AppError {
	return Wrap(err, ErrCodeClipboardUnavailable, "Could not copy to clipboard")
}

func CommandNotFoundError(command string) *AppError {
	return NewAppError(ErrCodeCommandNotFound, fmt.Sprintf("Command '%s' not found", command))
}

func MethodNotAllowedError(method string) *AppError {
	return NewAppError(ErrCodeMethodNotAllowed, fmt.Sprintf("Method %s not allowed", method))
}
