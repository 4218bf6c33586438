package renderer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/frameworks"
	"github.com/ooti/prompt-lab/internal/models"
)

func TestRenderEmptyValuesHasOnlyLabelLines(t *testing.T) {
	for _, fw := range frameworks.All() {
		t.Run(string(fw.ID), func(t *testing.T) {
			out, err := Render(fw.ID, nil, models.Extras{})
			require.NoError(t, err)

			assert.NotContains(t, out, GuidanceHeading)
			assert.NotContains(t, out, "undefined")
			assert.NotContains(t, out, "<nil>")

			lines := strings.Split(out, "\n")
			if fw.Intro != "" {
				require.GreaterOrEqual(t, len(lines), 2)
				assert.Equal(t, fw.Intro, lines[0])
				assert.Equal(t, "", lines[1])
				lines = lines[2:]
			}
			require.Len(t, lines, len(fw.Fields))
			for i, field := range fw.Fields {
				assert.Equal(t, field.Label+": ", lines[i])
			}
		})
	}
}

func TestRenderSolveDocument(t *testing.T) {
	values := models.Values{
		"situation":   "Workshop on Sept 20 with low signups",
		"objective":   "Aim to hit 25 signups.",
		"limitations": "Limited budget",
		"vision":      "A full room",
		"execution":   "Daily posts",
	}

	out, err := Render(frameworks.SOLVE, values, models.Extras{})
	require.NoError(t, err)

	want := "Use the SOLVE framework to respond.\n\n" +
		"Situation: Workshop on Sept 20 with low signups\n" +
		"Objective: Aim to hit 25 signups.\n" +
		"Limitations: Limited budget\n" +
		"Vision: A full room\n" +
		"Execution: Daily posts"
	assert.Equal(t, want, out)
}

func TestRenderSingleExtraAddsOneLine(t *testing.T) {
	cases := []struct {
		name   string
		extras models.Extras
		line   string
	}{
		{"audience", models.Extras{Audience: "B2B SaaS founders"}, "- Intended audience: B2B SaaS founders"},
		{"tone", models.Extras{Tone: "direct"}, "- Tone/voice: direct"},
		{"length", models.Extras{Length: "~300 words"}, "- Target length: ~300 words"},
		{"style", models.Extras{Style: "numbered steps"}, "- Style/formatting preferences: numbered steps"},
		{"constraints", models.Extras{Constraints: "avoid jargon"}, "- Additional constraints: avoid jargon"},
	}

	for _, fw := range frameworks.All() {
		for _, tc := range cases {
			t.Run(string(fw.ID)+"/"+tc.name, func(t *testing.T) {
				out, err := Render(fw.ID, models.Values{}, tc.extras)
				require.NoError(t, err)

				parts := strings.SplitN(out, "\n\n"+GuidanceHeading+"\n", 2)
				require.Len(t, parts, 2, "guidance block missing")
				assert.Equal(t, tc.line, parts[1])
			})
		}
	}
}

func TestRenderExtrasOrderAndBlankSkipping(t *testing.T) {
	extras := models.Extras{
		Constraints: "cite sources",
		Audience:    "founders",
		Tone:        "   ",
		Style:       "table",
	}

	out, err := Render(frameworks.TAG, models.Values{"task": "t"}, extras)
	require.NoError(t, err)

	want := "Task: t\nAction: \nGoal: \n\n" +
		"Additional Guidance:\n" +
		"- Intended audience: founders\n" +
		"- Style/formatting preferences: table\n" +
		"- Additional constraints: cite sources"
	assert.Equal(t, want, out)
}

func TestRenderWhitespaceOnlyExtrasOmitBlock(t *testing.T) {
	out, err := Render(frameworks.CARE, nil, models.Extras{Audience: " ", Tone: "\t", Length: "\n"})
	require.NoError(t, err)
	assert.NotContains(t, out, GuidanceHeading)
}

func TestRenderIsDeterministic(t *testing.T) {
	values := models.Values{"role": "strategist", "task": "write a brief", "format": "bullets"}
	extras := models.Extras{Tone: "concise"}

	first, err := Render(frameworks.RTF, values, extras)
	require.NoError(t, err)
	second, err := Render(frameworks.RTF, values, extras)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderUnknownFrameworkIsRejected(t *testing.T) {
	out, err := Render("nope", models.Values{"x": "y"}, models.Extras{})
	require.Error(t, err)
	assert.Empty(t, out)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnknownFramework))
}

func TestRenderJSON(t *testing.T) {
	r, err := ForID(frameworks.TAG)
	require.NoError(t, err)

	out, err := r.RenderJSON(models.Values{"task": "ship"}, models.Extras{}, "SYSTEM:\nbe brief")
	require.NoError(t, err)

	var messages []Message
	require.NoError(t, json.Unmarshal([]byte(out), &messages))
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Equal(t, "user", messages[1].Role)
	assert.Equal(t, "Task: ship\nAction: \nGoal: ", messages[1].Content)

	out, err = r.RenderJSON(nil, models.Extras{}, "")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &messages))
	assert.Len(t, messages, 1)
}
