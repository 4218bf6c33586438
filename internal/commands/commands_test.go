package commands

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooti/prompt-lab/internal/clipboard"
	"github.com/ooti/prompt-lab/internal/config"
	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/export"
	"github.com/ooti/prompt-lab/internal/frameworks"
	"github.com/ooti/prompt-lab/internal/models"
	"github.com/ooti/prompt-lab/internal/service"
	"github.com/ooti/prompt-lab/internal/session"
)

func newTestExecutor(t *testing.T) *CommandExecutor {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ExportDir = t.TempDir()
	svc, err := service.NewService(cfg, service.WithCopier(&clipboard.Memory{}))
	require.NoError(t, err)
	return NewCommandExecutor(svc)
}

func run(t *testing.T, e *CommandExecutor, name string, params map[string]interface{}) *CommandResult {
	t.Helper()
	result, err := e.Execute(context.Background(), name, params)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestRegistryListsEveryCommand(t *testing.T) {
	e := newTestExecutor(t)
	names := e.Registry().List()

	assert.Len(t, names, 19)
	assert.Contains(t, names, "render")
	assert.Contains(t, names, "session-intake")
	assert.True(t, sortedStrings(names))

	result := run(t, e, "list-commands", nil)
	require.True(t, result.Success)
	infos := result.Data.([]CommandInfo)
	for _, info := range infos {
		assert.NotEmpty(t, info.Description, info.Name)
	}
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func TestUnknownCommand(t *testing.T) {
	result := run(t, newTestExecutor(t), "launch-rockets", nil)
	assert.False(t, result.Success)
	assert.Equal(t, string(errors.ErrCodeCommandNotFound), result.Error.Code)
	assert.True(t, errors.HasCode(result.Err(), errors.ErrCodeCommandNotFound))
}

func TestListFrameworks(t *testing.T) {
	e := newTestExecutor(t)

	result := run(t, e, "list-frameworks", nil)
	require.True(t, result.Success)
	assert.Len(t, result.Data.([]models.Framework), 8)

	result = run(t, e, "list-frameworks", map[string]interface{}{"format": "ids"})
	require.True(t, result.Success)
	assert.Equal(t, frameworks.IDs(), result.Data.([]models.FrameworkID))

	result = run(t, e, "list-frameworks", map[string]interface{}{"format": "xml"})
	assert.False(t, result.Success)
}

func TestGetFramework(t *testing.T) {
	e := newTestExecutor(t)

	result := run(t, e, "get-framework", map[string]interface{}{"id": "care"})
	require.True(t, result.Success)
	assert.Equal(t, "C-A-R-E", result.Data.(*models.Framework).Name)

	result = run(t, e, "get-framework", map[string]interface{}{"id": "zeta"})
	assert.False(t, result.Success)
	assert.Equal(t, string(errors.ErrCodeUnknownFramework), result.Error.Code)
}

func TestRenderCommand(t *testing.T) {
	e := newTestExecutor(t)

	result := run(t, e, "render", map[string]interface{}{
		"frameworkId": "rtf",
		"values":      map[string]interface{}{"role": "Coach"},
		"extras":      map[string]interface{}{"tone": "warm"},
	})
	require.True(t, result.Success, "%+v", result.Error)
	out := result.Data.(RenderOutput)
	assert.Equal(t, "text", out.Format)
	assert.Contains(t, out.Output, "Role: Coach")
	assert.True(t, strings.HasSuffix(out.Output, "Additional Guidance:\n- Tone/voice: warm"), out.Output)

	result = run(t, e, "render", map[string]interface{}{
		"frameworkId": "rtf",
		"format":      "json",
		"vibe":        map[string]interface{}{"model": "claude", "vibe": "coach"},
	})
	require.True(t, result.Success, "%+v", result.Error)
	assert.Contains(t, result.Data.(RenderOutput).Output, `"role": "system"`)

	result = run(t, e, "render", map[string]interface{}{
		"frameworkId": "solve",
		"values":      map[string]interface{}{"role": "Coach"},
	})
	require.True(t, result.Success, "%+v", result.Error)
	assert.NotContains(t, result.Data.(RenderOutput).Output, "Coach")

	result = run(t, e, "render", map[string]interface{}{"frameworkId": "nope"})
	assert.False(t, result.Success)
	assert.Equal(t, string(errors.ErrCodeUnknownFramework), result.Error.Code)
}

func TestClassifyCommand(t *testing.T) {
	e := newTestExecutor(t)

	result := run(t, e, "classify", map[string]interface{}{
		"text": "We need to plan a quick workshop next month with a tight timeline and limited budget; goal is 25 signups.",
	})
	require.True(t, result.Success)
	cls := result.Data.(*models.ClassificationResult)
	assert.Equal(t, frameworks.SOLVE, cls.BestID)
	assert.Equal(t, cls.Why, result.Message)

	result = run(t, e, "classify", map[string]interface{}{"text": "   "})
	assert.False(t, result.Success)
	assert.Equal(t, string(errors.ErrCodeEmptyInput), result.Error.Code)
}

func TestVibeCommands(t *testing.T) {
	e := newTestExecutor(t)

	result := run(t, e, "vibe", nil)
	require.True(t, result.Success)
	out := result.Data.(VibeOutput)
	assert.Equal(t, models.ModelKey("gpt"), out.Model)
	assert.Equal(t, models.VibeKey("neutral"), out.Vibe)
	assert.NotEmpty(t, out.Snippet)

	result = run(t, e, "vibe", map[string]interface{}{"model": "cobol"})
	assert.False(t, result.Success)

	result = run(t, e, "list-vibes", nil)
	require.True(t, result.Success)
	opts := result.Data.(VibeOptions)
	assert.Len(t, opts.Models, 4)
	assert.Len(t, opts.Vibes, 6)
}

func TestExportCommand(t *testing.T) {
	e := newTestExecutor(t)
	params := map[string]interface{}{
		"frameworkId": "solve",
		"values":      map[string]interface{}{"situation": "Launch"},
		"title":       "Voco Messaging: SOLVE Draft",
	}

	result := run(t, e, "export", params)
	require.True(t, result.Success, "%+v", result.Error)
	res := result.Data.(*export.Result)
	assert.Equal(t, "voco-messaging-solve-draft.md", res.Filename)
	assert.Empty(t, res.Path)

	params["write"] = true
	result = run(t, e, "export", params)
	require.True(t, result.Success, "%+v", result.Error)
	res = result.Data.(*export.Result)
	require.NotEmpty(t, res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, res.Content, string(data))
	assert.Contains(t, result.Message, res.Path)
}

func TestSessionLifecycle(t *testing.T) {
	e := newTestExecutor(t)

	result := run(t, e, "create-session", map[string]interface{}{"frameworkId": "care"})
	require.True(t, result.Success, "%+v", result.Error)
	id := result.Data.(*session.Session).ID

	result = run(t, e, "set-session-fields", map[string]interface{}{
		"id":     id,
		"values": map[string]interface{}{"context": "Churn is up"},
	})
	require.True(t, result.Success, "%+v", result.Error)
	assert.Equal(t, "Churn is up", result.Data.(*session.Session).Values["context"])

	result = run(t, e, "set-session-extras", map[string]interface{}{
		"id":     id,
		"extras": map[string]interface{}{"audience": "execs"},
		"title":  "Churn Review",
		"vibe":   map[string]interface{}{"model": "gemini", "vibe": "analytical"},
	})
	require.True(t, result.Success, "%+v", result.Error)
	sess := result.Data.(*session.Session)
	assert.Equal(t, "execs", sess.Extras.Audience)
	assert.Equal(t, "Churn Review", sess.Title)
	assert.NotEmpty(t, sess.VibeSnippet)

	// Title alone keeps the extras
	result = run(t, e, "set-session-extras", map[string]interface{}{"id": id, "title": "Renamed"})
	require.True(t, result.Success, "%+v", result.Error)
	assert.Equal(t, "execs", result.Data.(*session.Session).Extras.Audience)

	result = run(t, e, "session-output", map[string]interface{}{"id": id})
	require.True(t, result.Success, "%+v", result.Error)
	output := result.Data.(SessionOutput)
	assert.Equal(t, "Renamed", output.Title)
	assert.Contains(t, output.Output, "Churn is up")
	assert.Contains(t, output.Output, "- Intended audience: execs")

	result = run(t, e, "list-sessions", nil)
	require.True(t, result.Success)
	assert.Len(t, result.Data.([]*session.Session), 1)

	result = run(t, e, "reset-session", map[string]interface{}{"id": id})
	require.True(t, result.Success)
	assert.Empty(t, result.Data.(*session.Session).Values["context"])

	result = run(t, e, "delete-session", map[string]interface{}{"id": id})
	require.True(t, result.Success)

	result = run(t, e, "get-session", map[string]interface{}{"id": id})
	assert.False(t, result.Success)
	assert.Equal(t, string(errors.ErrCodeNotFound), result.Error.Code)
}

func TestSessionIntakeCommand(t *testing.T) {
	e := newTestExecutor(t)

	result := run(t, e, "create-session", nil)
	require.True(t, result.Success, "%+v", result.Error)
	id := result.Data.(*session.Session).ID

	result = run(t, e, "session-intake", map[string]interface{}{
		"id":   id,
		"text": "Research the market and brainstorm ideas",
	})
	require.True(t, result.Success, "%+v", result.Error)
	out := result.Data.(IntakeOutput)
	assert.Equal(t, out.Classification.BestID, out.Session.FrameworkID)
	assert.Equal(t, out.Classification.Why, result.Message)

	result = run(t, e, "session-intake", map[string]interface{}{"text": "plan"})
	assert.False(t, result.Success)
}

func TestHealthCheck(t *testing.T) {
	e := newTestExecutor(t)
	run(t, e, "classify", map[string]interface{}{"text": "plan a launch"})
	run(t, e, "classify", map[string]interface{}{"text": "plan a launch"})

	result := run(t, e, "health", nil)
	require.True(t, result.Success)
	status := result.Data.(HealthStatus)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, 8, status.Frameworks)
	assert.Equal(t, int64(1), status.Cache.Hits)
	assert.Equal(t, int64(1), status.Cache.Misses)
	assert.Equal(t, 1, status.Cache.Size)
}
