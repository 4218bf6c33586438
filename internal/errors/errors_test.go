package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		category ErrorCategory
		severity ErrorSeverity
	}{
		{ErrCodeEmptyInput, CategoryValidation, SeverityWarning},
		{ErrCodeUnknownFramework, CategoryCatalog, SeverityWarning},
		{ErrCodeInternalError, CategoryService, SeverityCritical},
		{ErrCodeStorageFailure, CategoryStorage, SeverityError},
		{ErrCodeClipboardUnavailable, CategoryClipboard, SeverityWarning},
		{ErrorCode("SOMETHING_ELSE"), CategorySystem, SeverityError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := NewAppError(tt.code, "msg")
			if err.Category != tt.category {
				t.Errorf("Category = %s, want %s", err.Category, tt.category)
			}
			if err.Severity != tt.severity {
				t.Errorf("Severity = %s, want %s", err.Severity, tt.severity)
			}
		})
	}
}

func TestGetAppErrorUnwrapsChains(t *testing.T) {
	base := UnknownFrameworkError("nope")
	wrapped := fmt.Errorf("render failed: %w", base)

	if !IsAppError(wrapped) {
		t.Fatal("expected wrapped AppError to be detected")
	}
	if got := GetAppError(wrapped); got != base {
		t.Errorf("GetAppError returned %v, want original error", got)
	}
	if !HasCode(wrapped, ErrCodeUnknownFramework) {
		t.Error("HasCode should find UNKNOWN_FRAMEWORK in chain")
	}
	if !stderrors.Is(wrapped, NewAppError(ErrCodeUnknownFramework, "")) {
		t.Error("errors.Is should match on code")
	}

	plain := stderrors.New("boom")
	if got := GetAppError(plain); got.Code != ErrCodeInternalError || got.Cause != plain {
		t.Errorf("plain error should be wrapped as INTERNAL_ERROR, got %+v", got)
	}
}

func TestStatusCode(t *testing.T) {
	tests := map[ErrorCode]int{
		ErrCodeEmptyInput:       http.StatusBadRequest,
		ErrCodeUnknownVibe:      http.StatusBadRequest,
		ErrCodeUnknownFramework: http.StatusNotFound,
		ErrCodeNotFound:         http.StatusNotFound,
		ErrCodeMethodNotAllowed: http.StatusMethodNotAllowed,
		ErrCodeStorageFailure:   http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := StatusCode(NewAppError(code, "x")); got != want {
			t.Errorf("StatusCode(%s) = %d, want %d", code, got, want)
		}
	}
}

func TestWriteHTTPError(t *testing.T) {
	h := NewHTTPErrorHandler(true)
	rec := httptest.NewRecorder()

	h.WriteHTTPError(rec, ValidationError("bad").WithDetails("text: required"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Success || body.Error.Code != string(ErrCodeValidation) || body.Error.Details != "text: required" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestCLIErrorHandlerFormat(t *testing.T) {
	h := NewCLIErrorHandler(false)
	got := h.FormatError(EmptyInputError())
	if !strings.HasPrefix(got, "⚠️  WARNING:") {
		t.Errorf("expected warning prefix, got %q", got)
	}
}

func TestTUIErrorHandlerLogsToFile(t *testing.T) {
	dir := t.TempDir()
	h := NewTUIErrorHandler(false, dir)

	h.HandleError(StorageError("write export", stderrors.New("disk full")))

	data, err := os.ReadFile(filepath.Join(dir, "error.log"))
	if err != nil {
		t.Fatalf("expected error.log to be written: %v", err)
	}
	if !strings.Contains(string(data), "STORAGE_FAILURE") || !strings.Contains(string(data), "disk full") {
		t.Errorf("log entry missing code or cause: %s", data)
	}
	if h.StatusType(StorageError("x", nil)) != "error" {
		t.Error("storage failures should use error styling")
	}
}
