package clipboard

import (
	"context"
	stderrors "errors"
	"runtime"
	"strings"
	"testing"

	"github.com/ooti/prompt-lab/internal/errors"
)

func TestClipboardError(t *testing.T) {
	err := NewClipboardError()

	if err.OS != runtime.GOOS {
		t.Errorf("Expected OS to be %s, got %s", runtime.GOOS, err.OS)
	}

	if err.Error() == "" {
		t.Error("Error message should not be empty")
	}
}

func TestGetInstallInstructions(t *testing.T) {
	instructions := GetInstallInstructions()

	if instructions == "" {
		t.Error("Install instructions should not be empty")
	}

	switch runtime.GOOS {
	case "linux":
		if !strings.Contains(instructions, "xclip") {
			t.Error("Linux instructions should mention xclip")
		}
	case "darwin":
		if !strings.Contains(instructions, "pbcopy") {
			t.Error("macOS instructions should mention pbcopy")
		}
	case "windows":
		if !strings.Contains(instructions, "clip") {
			t.Error("Windows instructions should mention clip")
		}
	}
}

func TestToolsFor(t *testing.T) {
	tests := []struct {
		goos  string
		first string
		count int
	}{
		{"darwin", "pbcopy", 1},
		{"linux", "xclip", 3},
		{"windows", "cmd", 1},
		{"plan9", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			tools := toolsFor(tt.goos)
			if len(tools) != tt.count {
				t.Fatalf("Expected %d tools, got %d", tt.count, len(tools))
			}
			if tt.count > 0 && tools[0].name != tt.first {
				t.Errorf("Expected first tool %s, got %s", tt.first, tools[0].name)
			}
		})
	}
}

func TestSystemWithoutUtilities(t *testing.T) {
	s := &System{
		goos:     "linux",
		lookPath: func(string) (string, error) { return "", stderrors.New("not found") },
	}

	if s.Available() {
		t.Error("Expected clipboard to be unavailable")
	}

	err := s.Copy(context.Background(), "text")
	var clipErr *ClipboardError
	if !stderrors.As(err, &clipErr) {
		t.Fatalf("Expected ClipboardError, got %v", err)
	}

	_, err = CopyWithFallback(context.Background(), s, "text")
	if !errors.HasCode(err, errors.ErrCodeClipboardUnavailable) {
		t.Errorf("Expected CLIPBOARD_UNAVAILABLE, got %v", err)
	}
	if appErr := errors.GetAppError(err); appErr == nil || appErr.Details == "" {
		t.Error("Expected install instructions in details")
	}
}

func TestCopyWithFallbackMemory(t *testing.T) {
	m := &Memory{}
	msg, err := CopyWithFallback(context.Background(), m, "hello")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if msg != CopiedMessage {
		t.Errorf("Expected %q, got %q", CopiedMessage, msg)
	}
	if m.Text != "hello" {
		t.Errorf("Expected clipboard to hold hello, got %q", m.Text)
	}

	m.Err = stderrors.New("permission denied")
	_, err = CopyWithFallback(context.Background(), m, "again")
	if !errors.HasCode(err, errors.ErrCodeClipboardUnavailable) {
		t.Errorf("Expected CLIPBOARD_UNAVAILABLE, got %v", err)
	}
	cause := stderrors.Unwrap(err)
	if cause == nil || !strings.Contains(cause.Error(), "failed to copy to clipboard") {
		t.Errorf("Expected wrapped cause, got %v", cause)
	}
	if !stderrors.Is(err, m.Err) {
		t.Error("Expected original error in chain")
	}
}
