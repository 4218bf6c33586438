package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooti/prompt-lab/internal/clipboard"
	"github.com/ooti/prompt-lab/internal/config"
	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/service"
)

type harness struct {
	clip      *clipboard.Memory
	tuiCalled bool
	config    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		clip:   &clipboard.Memory{},
		config: filepath.Join(t.TempDir(), "config.yaml"),
	}
}

func (h *harness) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(
		WithServiceOptions(service.WithCopier(h.clip)),
		WithTUI(func(*service.Service) error {
			h.tuiCalled = true
			return nil
		}),
	)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", h.config, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootRunsTUI(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run()
	require.NoError(t, err)
	assert.True(t, h.tuiCalled)
}

func TestFrameworksCommand(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("frameworks", "--format", "ids")
	require.NoError(t, err)
	assert.Equal(t, "rtf\nsolve\ntag\nrace\ndream\npact\ncare\nrise\n", out)

	out, _, err = h.run("frameworks", "--format", "table")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ID"))
	assert.Contains(t, out, "S-O-L-V-E")

	out, _, err = h.run("frameworks", "--format", "json")
	require.NoError(t, err)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Len(t, list, 8)
}

func TestFrameworksShowAndSearch(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("frameworks", "show", "rise")
	require.NoError(t, err)
	assert.Contains(t, out, "R-I-S-E (rise)")
	assert.Contains(t, out, "expectation")

	_, _, err = h.run("frameworks", "show", "nope")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnknownFramework))

	out, _, err = h.run("frameworks", "search", "solve", "--format", "ids")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "solve\n"), out)
}

func TestRenderCommand(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("render", "tag", "--set", "task=Summarise", "--set", "goal=One page", "--length", "short")
	require.NoError(t, err)
	assert.Equal(t, "Task: Summarise\nAction: \nGoal: One page\n\nAdditional Guidance:\n- Target length: short\n", out)

	_, _, err = h.run("render", "tag", "--set", "no-equals")
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))

	_, _, err = h.run("render", "ghost")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnknownFramework))
}

func TestRenderCopyAndVibe(t *testing.T) {
	h := newHarness(t)

	out, stderr, err := h.run("render", "rtf", "--set", "role=Coach", "--vibe-model", "claude", "--vibe", "friendly", "--copy")
	require.NoError(t, err)
	assert.Contains(t, out, "Role: Coach")
	assert.Equal(t, strings.TrimSuffix(out, "\n"), h.clip.Text)
	assert.Contains(t, stderr, clipboard.CopiedMessage)
	assert.Greater(t, strings.Index(out, "You are to act"), 0, "vibe snippet comes first")
}

func TestRenderExport(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	_, stderr, err := h.run("render", "race", "--set", "role=PM", "--out", dir, "--title", "Launch Brief")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Exported to")

	data, err := os.ReadFile(filepath.Join(dir, "launch-brief.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Launch Brief\n\nRole: PM\n"))
}

func TestExportCommand(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	out, stderr, err := h.run("export", "tag", "--set", "task=Summarise", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Would write t-a-g-prompt.md")
	assert.True(t, strings.HasPrefix(out, "# T-A-G-prompt\n\nTask: Summarise\n"), out)

	out, _, err = h.run("export", "care", "--set", "result=Fewer churned users", "--dir", dir, "--title", "Churn Plan")
	require.NoError(t, err)
	path := filepath.Join(dir, "churn-plan.md")
	assert.Equal(t, path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Result: Fewer churned users")

	_, _, err = h.run("export", "ghost", "--dir", dir)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnknownFramework))
}

func TestTUISubcommand(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("tui")
	require.NoError(t, err)
	assert.True(t, h.tuiCalled)
}

func TestClassifyCommand(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("classify", "We need to plan a quick workshop next month with a tight timeline and limited budget; goal is 25 signups.")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Recommended: S-O-L-V-E (solve)\n"), out)
	assert.Contains(t, out, "solve    3")

	out, _, err = h.run("classify", "--render", "plan a quick workshop with a tight timeline and limited budget")
	require.NoError(t, err)
	assert.Contains(t, out, "Limitations: Limited budget; Tight timeline")

	_, _, err = h.run("classify", "   ")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyInput))
}

func TestVibeCommand(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("vibe", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "Models:")
	assert.Contains(t, out, "creative")

	out, _, err = h.run("vibe", "--model", "gemini", "--vibe", "analytical", "--copy")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
	assert.Equal(t, strings.TrimSuffix(out, "\n"), h.clip.Text)

	_, _, err = h.run("vibe", "--model", "eliza")
	require.Error(t, err)
}

func TestVersionSkipsConfig(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(h.config, []byte("port: [not an int"), 0o644))

	out, _, err := h.run("version")
	require.NoError(t, err)
	assert.Equal(t, "prompt-lab version "+config.Version+"\n", out)

	_, _, err = h.run("frameworks")
	require.Error(t, err)
}

func TestParseAssignments(t *testing.T) {
	values, err := parseAssignments([]string{"role=a=b", " task =x", "format="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"role": "a=b", "task": "x", "format": ""}, values)

	_, err = parseAssignments([]string{"=x"})
	assert.Error(t, err)
}
