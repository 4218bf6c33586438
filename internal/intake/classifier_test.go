package intake

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/frameworks"
	"github.com/ooti/prompt-lab/internal/models"
)

const workshopGoal = "We need a 5-day plan with objective to hit 25 signups, but budget is limited and deadline is Sept 20"

func TestClassifyWorkshopGoal(t *testing.T) {
	result, err := Classify(workshopGoal)
	require.NoError(t, err)

	assert.Equal(t, frameworks.SOLVE, result.BestID)
	assert.Equal(t, 3, result.Scores[frameworks.SOLVE])
	for id, s := range result.Scores {
		assert.LessOrEqual(t, s, result.Scores[frameworks.SOLVE], "framework %s outscored solve", id)
	}
	assert.Equal(t, "Recommended SOLVE based on detected keywords (3 matches).", result.Why)

	solve := result.FieldsByID[frameworks.SOLVE]
	assert.Equal(t, workshopGoal, solve["situation"])
	assert.Equal(t, "Aim to hit 25 signups.", solve["objective"])
	assert.Contains(t, solve["limitations"], "Limited budget")
	assert.Contains(t, solve["limitations"], "Tight timeline")
	assert.Equal(t, "Limited budget; Tight timeline", solve["limitations"])
}

func TestClassifyRejectsBlankInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		result, err := Classify(text)
		assert.Nil(t, result)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyInput))
	}
}

func TestClassifyTieBreak(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.FrameworkID
		tied []models.FrameworkID
	}{
		{"dream over tag", "research quick", frameworks.DREAM, []models.FrameworkID{frameworks.DREAM, frameworks.TAG}},
		{"rtf over rise", "json steps", frameworks.RTF, []models.FrameworkID{frameworks.RTF, frameworks.RISE}},
		{"solve over dream and tag", "plan a quick workshop", frameworks.SOLVE, []models.FrameworkID{frameworks.SOLVE, frameworks.DREAM, frameworks.TAG}},
		{"race over care", "expect a story", frameworks.RACE, []models.FrameworkID{frameworks.RACE, frameworks.CARE}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				result, err := Classify(tt.text)
				require.NoError(t, err)
				assert.Equal(t, tt.want, result.BestID)

				first := result.Scores[tt.tied[0]]
				assert.Positive(t, first)
				for _, id := range tt.tied[1:] {
					assert.Equal(t, first, result.Scores[id], "expected %s to tie", id)
				}
			}
		})
	}
}

func TestClassifyNoSignalDefaultsToSolve(t *testing.T) {
	result, err := Classify("hello there")
	require.NoError(t, err)

	for id, s := range result.Scores {
		assert.Zero(t, s, "framework %s", id)
	}
	assert.Equal(t, frameworks.SOLVE, result.BestID)
	assert.Equal(t, "Recommended SOLVE as a sensible default for planning/structure (no strong signal detected).", result.Why)
	assert.Equal(t, DefaultObjective, result.FieldsByID[frameworks.SOLVE]["objective"])
	assert.Equal(t, DefaultLimitations, result.FieldsByID[frameworks.SOLVE]["limitations"])
}

func TestPrefillKeysMatchCatalog(t *testing.T) {
	result, err := Classify("Draft a launch brief")
	require.NoError(t, err)
	require.Len(t, result.FieldsByID, len(frameworks.All()))

	for _, fw := range frameworks.All() {
		values, ok := result.FieldsByID[fw.ID]
		require.True(t, ok, "missing pre-fill for %s", fw.ID)

		var got []string
		for k := range values {
			got = append(got, k)
		}
		want := fw.FieldKeys()
		sort.Strings(got)
		sort.Strings(want)
		assert.Equal(t, want, got, "framework %s", fw.ID)

		for k, v := range values {
			assert.NotEmpty(t, v, "framework %s field %s", fw.ID, k)
		}
	}
}

func TestPrefillRulesOnlyUseCatalogKeys(t *testing.T) {
	for id, rules := range prefill {
		fw, ok := frameworks.Get(id)
		require.True(t, ok, "unknown framework %s", id)
		for key := range rules {
			assert.True(t, fw.HasField(key), "framework %s has no field %s", id, key)
		}
	}
}

func TestRawFieldsKeepOriginalCase(t *testing.T) {
	text := "Rewrite Our ONBOARDING Emails"
	result, err := Classify(text)
	require.NoError(t, err)

	raw := map[models.FrameworkID]string{
		frameworks.RTF:   "task",
		frameworks.SOLVE: "situation",
		frameworks.DREAM: "define",
		frameworks.CARE:  "context",
		frameworks.PACT:  "problem",
		frameworks.RACE:  "context",
		frameworks.TAG:   "task",
	}
	for id, key := range raw {
		assert.Equal(t, text, result.FieldsByID[id][key], "%s.%s", id, key)
	}
	assert.Equal(t, frameworks.RTF, result.BestID)
}

func TestScoreWordBoundaries(t *testing.T) {
	// "brief" and "rewrite" only count as whole words
	assert.Equal(t, 0, score("briefly rewrites", frameworks.RTF))
	assert.Equal(t, 2, score("a brief rewrite", frameworks.RTF))
	// regex patterns match inside words
	assert.Equal(t, 1, score("limited", frameworks.SOLVE))
	assert.Equal(t, 2, score("trade-off or tradeoff", frameworks.PACT))
}
