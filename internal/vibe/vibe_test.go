package vibe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/models"
)

func TestRenderGPTNeutral(t *testing.T) {
	out, err := Render(models.ModelGPT, models.VibeNeutral)
	require.NoError(t, err)

	want := "SYSTEM:\nYou are an expert assistant. Apply this style:\n" +
		"- Be concise and unambiguous.\n" +
		"- Use plain language and short sentences.\n" +
		"- No fluff; only essential content.\n\n" +
		"Strictly follow the style unless the user opts out."
	assert.Equal(t, want, out)
}

func TestRenderEveryCombination(t *testing.T) {
	for _, m := range Models() {
		for _, v := range Vibes() {
			t.Run(string(m.Key)+"/"+string(v.Key), func(t *testing.T) {
				out, err := Render(m.Key, v.Key)
				require.NoError(t, err)

				parts := strings.Split(out, "\n\n")
				require.Len(t, parts, 2)

				lines := strings.Split(parts[0], "\n")
				bullets := lines[len(lines)-len(v.Bullets):]
				for i, b := range v.Bullets {
					assert.Equal(t, "- "+b, bullets[i])
				}
				assert.NotEmpty(t, parts[1])
			})
		}
	}
}

func TestRenderUnknownKeys(t *testing.T) {
	_, err := Render("palm", models.VibeNeutral)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnknownModel))

	_, err = Render(models.ModelClaude, "grumpy")
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnknownVibe))
}

func TestPrepend(t *testing.T) {
	assert.Equal(t, "body", Prepend("", "body"))
	assert.Equal(t, "snip\n\nbody", Prepend("snip", "body"))
}

func TestCycling(t *testing.T) {
	assert.Equal(t, models.ModelClaude, NextModel(models.ModelGPT))
	assert.Equal(t, models.ModelGPT, NextModel(models.ModelGemini))
	assert.Equal(t, DefaultModel, NextModel("unknown"))

	assert.Equal(t, models.VibeFriendly, NextVibe(models.VibeNeutral))
	assert.Equal(t, models.VibeNeutral, NextVibe(models.VibeCreative))
}

func TestListsAreCopies(t *testing.T) {
	vibes := Vibes()
	vibes[0].Bullets[0] = "changed"
	again, ok := LookupVibe(models.VibeNeutral)
	require.True(t, ok)
	assert.Equal(t, "Be concise and unambiguous.", again.Bullets[0])
	assert.Len(t, Models(), 4)
	assert.Len(t, Vibes(), 6)
}
