// Package errors/handlers provides interface-specific error handling.
//
// ERROR FLOW:
// 1. Core or service code returns an AppError (or a plain error)
// 2. The surface picks its handler (CLI, HTTP, TUI)
// 3. The handler logs and formats the error for that surface
package errors

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
)

// ErrorHandler provides interface-specific error handling
type ErrorHandler interface {
	HandleError(err error) error
	FormatError(err error) string
}

// CLIErrorHandler handles errors for the command-line interface
type CLIErrorHandler struct {
	Verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler(verbose bool) *CLIErrorHandler {
	return &CLIErrorHandler{
		Verbose: verbose,
	}
}

// HandleError logs the error when verbose and returns a display-ready error
func (h *CLIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)

	if h.Verbose {
		slog.Debug("command failed",
			"severity", appErr.Severity,
			"code", appErr.Code,
			"error", appErr.Error())
		if appErr.Cause != nil {
			slog.Debug("caused by", "cause", appErr.Cause)
		}
	}

	return fmt.Errorf("%s", h.FormatError(appErr))
}

// FormatError formats an error for terminal display
func (h *CLIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	msg := appErr.Message
	if h.Verbose && appErr.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, appErr.Details)
	}

	switch appErr.Severity {
	case SeverityCritical:
		return fmt.Sprintf("❌ CRITICAL: %s", msg)
	case SeverityError:
		return fmt.Sprintf("❌ ERROR: %s", msg)
	case SeverityWarning:
		return fmt.Sprintf("⚠️  WARNING: %s", msg)
	case SeverityInfo:
		return fmt.Sprintf("ℹ️  INFO: %s", msg)
	default:
		return fmt.Sprintf("❌ %s", msg)
	}
}

// HTTPErrorHandler handles errors for the HTTP API
type HTTPErrorHandler struct {
	IncludeDetails bool
}

// NewHTTPErrorHandler creates a new HTTP error handler
func NewHTTPErrorHandler(includeDetails bool) *HTTPErrorHandler {
	return &HTTPErrorHandler{
		IncludeDetails: includeDetails,
	}
}

// HandleError logs the error and returns it as an AppError
func (h *HTTPErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)

	slog.Warn("http request failed",
		"severity", appErr.Severity,
		"code", appErr.Code,
		"error", appErr.Error())
	if appErr.Cause != nil {
		slog.Warn("caused by", "cause", appErr.Cause)
	}

	return appErr
}

// errorBody is the JSON shape of an error response
type errorBody struct {
	Success bool         `json:"success"`
	Error   errorPayload `json:"error"`
}

type errorPayload struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Category  ErrorCategory          `json:"category,omitempty"`
	Details   string                 `json:"details,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// FormatError formats an error as a JSON response body
func (h *HTTPErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	body := errorBody{
		Success: false,
		Error: errorPayload{
			Code:      appErr.Code,
			Message:   appErr.Message,
			Category:  appErr.Category,
			Timestamp: appErr.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
		},
	}

	if h.IncludeDetails {
		body.Error.Details = appErr.Details
		body.Error.Context = appErr.Context
	}

	jsonBytes, marshalErr := json.Marshal(body)
	if marshalErr != nil {
		// Context may hold values json cannot encode; drop it and retry.
		body.Error.Context = nil
		jsonBytes, _ = json.Marshal(body)
	}
	return string(jsonBytes)
}

// WriteHTTPError writes an error response
func (h *HTTPErrorHandler) WriteHTTPError(w http.ResponseWriter, err error) {
	appErr := GetAppError(err)

	h.HandleError(appErr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusCode(appErr))
	w.Write([]byte(h.FormatError(appErr)))
}

// StatusCode maps error codes to HTTP status codes
func StatusCode(err error) int {
	appErr := GetAppError(err)
	switch appErr.Code {
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeEmptyInput, ErrCodeMissingField, ErrCodeInvalidFormat,
		ErrCodeUnknownField, ErrCodeUnknownModel, ErrCodeUnknownVibe:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeUnknownFramework, ErrCodeCommandNotFound:
		return http.StatusNotFound
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrCodeNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// TUIErrorHandler handles errors for the terminal UI
type TUIErrorHandler struct {
	ShowDetails bool
	LogDir      string
}

// NewTUIErrorHandler creates a new TUI error handler. Errors are appended to
// logDir/error.log because stderr belongs to the alt screen while the TUI runs.
func NewTUIErrorHandler(showDetails bool, logDir string) *TUIErrorHandler {
	return &TUIErrorHandler{
		ShowDetails: showDetails,
		LogDir:      logDir,
	}
}

// HandleError logs the error to file and returns it as an AppError
func (h *TUIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)
	logToFile(h.LogDir, appErr)
	return appErr
}

// FormatError formats an error for the status bar
func (h *TUIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	message := appErr.Message
	if h.ShowDetails && appErr.Details != "" {
		message = fmt.Sprintf("%s\nDetails: %s", message, appErr.Details)
	}

	return message
}

// StatusType returns the status style name for the error severity
func (h *TUIErrorHandler) StatusType(err error) string {
	switch GetAppError(err).Severity {
	case SeverityCritical, SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

func logToFile(logDir string, appErr *AppError) {
	if logDir == "" {
		return
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return
	}

	file, err := os.OpenFile(filepath.Join(logDir, "error.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer file.Close()

	logger := slog.New(slog.NewTextHandler(file, nil))
	attrs := []any{
		"severity", appErr.Severity,
		"category", appErr.Category,
		"code", appErr.Code,
	}
	if appErr.Cause != nil {
		attrs = append(attrs, "cause", appErr.Cause.Error())
	}
	if appErr.Context != nil {
		if contextJSON, err := json.Marshal(appErr.Context); err == nil {
			attrs = append(attrs, "context", string(contextJSON))
		}
	}
	logger.Error(appErr.Message, attrs...)
}
