package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/frameworks"
	"github.com/ooti/prompt-lab/internal/intake"
	"github.com/ooti/prompt-lab/internal/models"
)

func TestNewRejectsUnknownFramework(t *testing.T) {
	_, err := New("nope")
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnknownFramework))
}

func TestSetFieldAndOutput(t *testing.T) {
	s, err := New(frameworks.TAG)
	require.NoError(t, err)

	require.NoError(t, s.SetField("task", "Ship the beta"))
	err = s.SetField("role", "x")
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnknownField))

	s.SetExtras(models.Extras{Tone: "upbeat"})
	out, err := s.Output()
	require.NoError(t, err)
	assert.Equal(t, "Task: Ship the beta\nAction: \nGoal: \n\nAdditional Guidance:\n- Tone/voice: upbeat", out)

	s.SetVibe("STYLE")
	out, err = s.Output()
	require.NoError(t, err)
	assert.Equal(t, "STYLE\n\nTask: Ship the beta\nAction: \nGoal: \n\nAdditional Guidance:\n- Tone/voice: upbeat", out)
}

func TestSetFieldsIsAllOrNothing(t *testing.T) {
	s, err := New(frameworks.RTF)
	require.NoError(t, err)

	err = s.SetFields(models.Values{"role": "writer", "bogus": "x"})
	require.Error(t, err)
	assert.Empty(t, s.Values)

	require.NoError(t, s.SetFields(models.Values{"role": "writer", "format": "table"}))
	assert.Equal(t, "writer", s.Values["role"])
}

func TestReset(t *testing.T) {
	s, err := New(frameworks.RTF)
	require.NoError(t, err)
	require.NoError(t, s.SetField("role", "editor"))
	s.SetExtras(models.Extras{Audience: "execs"})
	s.SetTitle("Launch memo")

	s.Reset()

	assert.Empty(t, s.Values)
	assert.True(t, s.Extras.IsBlank())
	assert.Empty(t, s.Title)
	assert.Equal(t, frameworks.RTF, s.FrameworkID)
	assert.Equal(t, "R-T-F-prompt", s.ExportTitle())

	out, err := s.Output()
	require.NoError(t, err)
	assert.NotContains(t, out, "Additional Guidance")
}

func TestApplyIntake(t *testing.T) {
	result, err := intake.Classify("We need a plan to hit 25 signups on a small budget")
	require.NoError(t, err)

	s, err := New(frameworks.RTF)
	require.NoError(t, err)
	require.NoError(t, s.ApplyIntake(result, ""))

	assert.Equal(t, result.BestID, s.FrameworkID)
	assert.Equal(t, result.FieldsByID[result.BestID], s.Values)

	s.Values["situation"] = "edited"
	assert.NotEqual(t, "edited", result.FieldsByID[result.BestID]["situation"])

	require.NoError(t, s.ApplyIntake(result, frameworks.CARE))
	assert.Equal(t, frameworks.CARE, s.FrameworkID)

	err = s.ApplyIntake(result, "nope")
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnknownFramework))
}

func TestStoreLifecycle(t *testing.T) {
	st := NewStore()

	s, err := st.Create(frameworks.SOLVE)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)

	updated, err := st.Update(s.ID, func(s *Session) error {
		return s.SetField("objective", "grow")
	})
	require.NoError(t, err)
	assert.Equal(t, "grow", updated.Values["objective"])

	_, err = st.Update(s.ID, func(s *Session) error {
		s.Values["objective"] = "half-applied"
		return s.SetField("bogus", "x")
	})
	require.Error(t, err)

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "grow", got.Values["objective"])

	got.Values["objective"] = "mutated copy"
	again, _ := st.Get(s.ID)
	assert.Equal(t, "grow", again.Values["objective"])

	require.NoError(t, st.Delete(s.ID))
	_, err = st.Get(s.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	assert.True(t, errors.HasCode(st.Delete(s.ID), errors.ErrCodeNotFound))
}

func TestStoreConcurrentSessionsStayIndependent(t *testing.T) {
	st := NewStore()

	var wg sync.WaitGroup
	ids := make([]string, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := st.Create(frameworks.TAG)
			if err != nil {
				return
			}
			ids[i] = s.ID
			_, _ = st.Update(s.ID, func(s *Session) error {
				return s.SetField("task", fmt.Sprintf("task-%d", i))
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, st.Len())
	assert.Len(t, st.List(), 20)
	for i, id := range ids {
		s, err := st.Get(id)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("task-%d", i), s.Values["task"])
	}
}
