package clipboard

import (
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/ooti/prompt-lab/internal/errors"
)

// CopiedMessage is the status shown after a successful copy
const CopiedMessage = "Copied to clipboard!"

// Copier puts text on a clipboard
type Copier interface {
	Copy(ctx context.Context, text string) error
}

// ClipboardError represents an error when no clipboard utility is available
type ClipboardError struct {
	OS      string
	Message string
}

func (e *ClipboardError) Error() string {
	return e.Message
}

// NewClipboardError creates a new ClipboardError with installation instructions
func NewClipboardError() *ClipboardError {
	msg := "no clipboard utility found. " + GetInstallInstructions()
	if runtime.GOOS != "linux" {
		msg = fmt.Sprintf("clipboard unavailable on %s: %s", runtime.GOOS, GetInstallInstructions())
	}
	return &ClipboardError{OS: runtime.GOOS, Message: msg}
}

// tool is one clipboard command line
type tool struct {
	name string
	args []string
}

// toolsFor lists the clipboard commands to try for goos, in order
func toolsFor(goos string) []tool {
	switch goos {
	case "darwin":
		return []tool{{name: "pbcopy"}}
	case "linux", "freebsd", "openbsd":
		return []tool{
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
			{name: "wl-copy"},
		}
	case "windows":
		return []tool{{name: "cmd", args: []string{"/c", "clip"}}}
	default:
		return nil
	}
}

// System copies through the platform clipboard utilities
type System struct {
	goos     string
	lookPath func(string) (string, error)
}

// NewSystem returns a Copier for the running platform
func NewSystem() *System {
	return &System{goos: runtime.GOOS, lookPath: exec.LookPath}
}

// Copy tries each available utility in turn. If none is installed the error
// is a *ClipboardError; if all installed ones fail the last failure is
// returned.
func (s *System) Copy(ctx context.Context, text string) error {
	var lastErr error
	for _, t := range toolsFor(s.goos) {
		if _, err := s.lookPath(t.name); err != nil {
			continue
		}
		cmd := exec.CommandContext(ctx, t.name, t.args...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err != nil {
			lastErr = fmt.Errorf("%s failed: %w", t.name, err)
			continue
		}
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("clipboard utilities available but failed: %w", lastErr)
	}
	return NewClipboardError()
}

// Available reports whether any clipboard utility is installed
func (s *System) Available() bool {
	for _, t := range toolsFor(s.goos) {
		if _, err := s.lookPath(t.name); err == nil {
			return true
		}
	}
	return false
}

// Copy copies text to the system clipboard
func Copy(text string) error {
	return NewSystem().Copy(context.Background(), text)
}

// CopyWithFallback copies text with c and returns a status message. Failures
// come back as CLIPBOARD_UNAVAILABLE app errors carrying the cause, so callers
// can show them without treating them as fatal.
func CopyWithFallback(ctx context.Context, c Copier, text string) (string, error) {
	if err := c.Copy(ctx, text); err != nil {
		var clipErr *ClipboardError
		if stderrors.As(err, &clipErr) {
			return "", errors.ClipboardFailure(err).WithDetails(GetInstallInstructions())
		}
		return "", errors.ClipboardFailure(fmt.Errorf("failed to copy to clipboard: %w", err))
	}
	return CopiedMessage, nil
}

// IsClipboardAvailable checks if clipboard functionality is available
func IsClipboardAvailable() bool {
	return NewSystem().Available()
}

// GetInstallInstructions returns installation instructions for clipboard utilities
func GetInstallInstructions() string {
	switch runtime.GOOS {
	case "linux":
		return "Install a clipboard utility:\n" +
			"  • Ubuntu/Debian: sudo apt install xclip\n" +
			"  • Fedora/RHEL: sudo dnf install xclip\n" +
			"  • Arch: sudo pacman -S xclip\n" +
			"  • For Wayland: install wl-clipboard"
	case "darwin":
		return "pbcopy should be available by default on macOS"
	case "windows":
		return "clip should be available by default on Windows"
	default:
		return fmt.Sprintf("Clipboard not supported on %s", runtime.GOOS)
	}
}

// Memory is an in-process Copier, used when no system clipboard is wanted
type Memory struct {
	Text string
	Err  error
}

// Copy stores text, or returns m.Err when set
func (m *Memory) Copy(_ context.Context, text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Text = text
	return nil
}
