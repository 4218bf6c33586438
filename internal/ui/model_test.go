package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ooti/prompt-lab/internal/clipboard"
	"github.com/ooti/prompt-lab/internal/config"
	"github.com/ooti/prompt-lab/internal/frameworks"
	"github.com/ooti/prompt-lab/internal/models"
	"github.com/ooti/prompt-lab/internal/service"
)

func newTestModel(t *testing.T) (Model, *clipboard.Memory, string) {
	t.Helper()
	t.Setenv(config.EnvDir, t.TempDir())
	t.Setenv("GLAMOUR_STYLE", "notty")

	cfg := config.DefaultConfig()
	cfg.ExportDir = t.TempDir()
	clip := &clipboard.Memory{}
	svc, err := service.NewService(cfg, service.WithCopier(clip))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	m, err := NewModel(svc)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return *m, clip, cfg.ExportDir
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, keyMsg(k))
	}
	return m
}

// runCmd executes cmd and feeds the resulting message back into the model
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m, _ = update(t, m, cmd())
	return m
}

func output(t *testing.T, m Model) string {
	t.Helper()
	out, err := m.Session().Output()
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	return out
}

func TestNewModel(t *testing.T) {
	m, _, _ := newTestModel(t)

	if m.Mode() != ViewPicker {
		t.Errorf("expected picker view, got %v", m.Mode())
	}
	if m.Session().FrameworkID != frameworks.RTF {
		t.Errorf("expected default framework rtf, got %s", m.Session().FrameworkID)
	}
	if len(m.picker.Items()) != 8 {
		t.Errorf("expected 8 frameworks in picker, got %d", len(m.picker.Items()))
	}
}

func TestPickAndEditFields(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, "down", "enter")
	if m.Mode() != ViewFields {
		t.Fatalf("expected field editor, got %v", m.Mode())
	}
	if m.Session().FrameworkID != frameworks.SOLVE {
		t.Fatalf("expected solve, got %s", m.Session().FrameworkID)
	}
	if got := m.fieldForm.FocusedKey(); got != "situation" {
		t.Errorf("expected first field focused, got %q", got)
	}

	m = press(t, m, "Team offsite", "tab", "Align on Q3", "ctrl+s")
	if m.Mode() != ViewPreview {
		t.Fatalf("expected preview after save, got %v", m.Mode())
	}

	out := output(t, m)
	for _, want := range []string{"Situation: Team offsite", "Objective: Align on Q3", "Vision: "} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFieldEditCancel(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, "enter", "Coach", "esc")
	if m.Mode() != ViewPreview {
		t.Fatalf("expected preview after cancel, got %v", m.Mode())
	}
	if v := m.Session().Values["role"]; v != "" {
		t.Errorf("cancel should discard edits, got role=%q", v)
	}
}

func TestExtrasForm(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, "esc", "e", "execs", "tab", "warm", "ctrl+s")
	if m.Mode() != ViewPreview {
		t.Fatalf("expected preview, got %v", m.Mode())
	}

	extras := m.Session().Extras
	if extras.Audience != "execs" || extras.Tone != "warm" {
		t.Errorf("unexpected extras %+v", extras)
	}
	out := output(t, m)
	if !strings.Contains(out, "- Intended audience: execs") || !strings.Contains(out, "- Tone/voice: warm") {
		t.Errorf("guidance missing from output:\n%s", out)
	}
}

func TestIntakeClassifyAndApply(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, "esc", "i", "plan a quick workshop with a tight timeline and limited budget", "enter")
	if m.Mode() != ViewIntake {
		t.Fatalf("expected intake view, got %v", m.Mode())
	}
	if m.classification == nil {
		t.Fatal("expected a classification result")
	}
	if m.classification.BestID != frameworks.SOLVE {
		t.Errorf("expected solve, got %s", m.classification.BestID)
	}
	if !strings.Contains(m.View(), "Recommended: S-O-L-V-E (solve)") {
		t.Error("intake view should show the recommendation")
	}

	m = press(t, m, "a")
	if m.Mode() != ViewPreview {
		t.Fatalf("expected preview after apply, got %v", m.Mode())
	}
	if m.Session().FrameworkID != frameworks.SOLVE {
		t.Errorf("apply should select solve, got %s", m.Session().FrameworkID)
	}
	if got := m.Session().Values["limitations"]; got != "Limited budget; Tight timeline" {
		t.Errorf("unexpected limitations pre-fill %q", got)
	}
}

func TestIntakeBlankInput(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, "esc", "i", "enter")
	if m.Mode() != ViewIntake {
		t.Fatalf("expected to stay on intake, got %v", m.Mode())
	}
	if m.classification != nil {
		t.Error("blank input should not classify")
	}
	if m.Status() == "" {
		t.Error("expected an error in the status bar")
	}

	// "a" is typed into the still-focused textarea rather than applying
	m = press(t, m, "a")
	if m.intake.Value() != "a" {
		t.Errorf("expected textarea to receive input, got %q", m.intake.Value())
	}
}

func TestVibeAndCopy(t *testing.T) {
	m, clip, _ := newTestModel(t)

	m = press(t, m, "esc", "v", "down", "down", "space", "enter")
	if m.Mode() != ViewPreview {
		t.Fatalf("expected preview after applying vibe, got %v", m.Mode())
	}
	if m.Session().VibeSnippet == "" {
		t.Fatal("expected a vibe snippet")
	}
	out := output(t, m)
	if !strings.HasPrefix(out, m.Session().VibeSnippet+"\n\n") {
		t.Errorf("snippet should be prepended:\n%s", out)
	}

	m, cmd := update(t, m, keyMsg("c"))
	m = runCmd(t, m, cmd)
	if clip.Text != out {
		t.Errorf("clipboard mismatch:\n got %q\nwant %q", clip.Text, out)
	}
	if m.Status() != clipboard.CopiedMessage {
		t.Errorf("unexpected status %q", m.Status())
	}

	m, cmd = update(t, m, keyMsg("y"))
	m = runCmd(t, m, cmd)
	if !strings.HasPrefix(clip.Text, "[") || !strings.Contains(clip.Text, `"role": "system"`) {
		t.Errorf("expected JSON messages with a system entry, got %s", clip.Text)
	}

	// Turning the vibe off clears the snippet
	m = press(t, m, "v", "space", "enter")
	if m.Session().VibeSnippet != "" {
		t.Error("expected vibe to be cleared")
	}
}

func TestVibeCycling(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "esc", "v")

	before := m.vibe
	m = press(t, m, "m", "t")
	if m.vibe.Model == before.Model || m.vibe.Vibe == before.Vibe {
		t.Errorf("expected model and vibe to change, still %+v", m.vibe)
	}
	if m.vibeOn {
		t.Error("cycling should not enable prepend")
	}
}

func TestExportAndReset(t *testing.T) {
	m, _, dir := newTestModel(t)

	m = press(t, m, "enter", "Coach", "ctrl+s", "x")
	if !strings.HasPrefix(m.Status(), "Exported to ") {
		t.Fatalf("unexpected status %q", m.Status())
	}

	data, err := os.ReadFile(filepath.Join(dir, "r-t-f-prompt.md"))
	if err != nil {
		t.Fatalf("export file: %v", err)
	}
	if !strings.HasPrefix(string(data), "# R-T-F-prompt\n\n") || !strings.Contains(string(data), "Role: Coach") {
		t.Errorf("unexpected export:\n%s", data)
	}

	m = press(t, m, "r")
	if len(m.Session().Values) != 0 {
		t.Errorf("reset should clear values, got %v", m.Session().Values)
	}
	if m.Session().FrameworkID != frameworks.RTF {
		t.Error("reset should keep the framework")
	}
}

func TestHelpAndQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "esc", "?")

	if !strings.Contains(m.View(), "Keyboard shortcuts") {
		t.Error("expected help modal")
	}
	m = press(t, m, "esc")
	if m.showHelp {
		t.Error("esc should close help")
	}

	_, cmd := update(t, m, keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestStatusClears(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "esc", "r")
	if m.Status() == "" {
		t.Fatal("expected status after reset")
	}

	for i := 0; i < 3; i++ {
		m, _ = update(t, m, tickMsg{})
	}
	if m.Status() != "" {
		t.Errorf("status should clear after ticks, got %q", m.Status())
	}
}

func TestPreviewMarkdown(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Role: a\nTask: b", "Role: a  \nTask: b"},
		{"Role: a\n\nAdditional Guidance:\n- Tone/voice: x", "Role: a\n\nAdditional Guidance:  \n- Tone/voice: x"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := previewMarkdown(tt.in); got != tt.want {
			t.Errorf("previewMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtrasFormEnterOnLastFieldSubmits(t *testing.T) {
	f := NewExtrasForm(models.Extras{Tone: "dry"}, "Brief")
	for i := 0; i < extrasFieldCount-1; i++ {
		f.Update(keyMsg("enter"))
	}
	if f.IsSubmitted() {
		t.Fatal("should not submit before the last field")
	}
	f.Update(keyMsg("enter"))
	if !f.IsSubmitted() {
		t.Error("enter on the last field should submit")
	}
	if f.Title() != "Brief" || f.Extras().Tone != "dry" {
		t.Errorf("unexpected values: title=%q extras=%+v", f.Title(), f.Extras())
	}
}
