// Package session holds the editable state of one prompt-building session:
// the selected framework, its field values, the shared extras, the export
// title and an optional vibe snippet.
package session

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/export"
	"github.com/ooti/prompt-lab/internal/frameworks"
	"github.com/ooti/prompt-lab/internal/models"
	"github.com/ooti/prompt-lab/internal/renderer"
	"github.com/ooti/prompt-lab/internal/vibe"
)

// Session is the per-user editing state
type Session struct {
	ID          string             `json:"id"`
	FrameworkID models.FrameworkID `json:"frameworkId"`
	Values      models.Values      `json:"values"`
	Extras      models.Extras      `json:"extras"`
	Title       string             `json:"title,omitempty"`
	VibeSnippet string             `json:"vibeSnippet,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// New creates a session on framework id
func New(id models.FrameworkID) (*Session, error) {
	if !frameworks.Exists(id) {
		return nil, errors.UnknownFrameworkError(string(id))
	}
	now := time.Now()
	return &Session{
		ID:          uuid.NewString(),
		FrameworkID: id,
		Values:      make(models.Values),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Framework returns the selected catalog framework
func (s *Session) Framework() *models.Framework {
	fw, _ := frameworks.Get(s.FrameworkID)
	return fw
}

// Select switches the session to framework id. Values are kept; keys that the
// new framework does not declare are simply not rendered.
func (s *Session) Select(id models.FrameworkID) error {
	if !frameworks.Exists(id) {
		return errors.UnknownFrameworkError(string(id))
	}
	s.FrameworkID = id
	s.touch()
	return nil
}

// SetField sets one field of the selected framework
func (s *Session) SetField(key, value string) error {
	fw := s.Framework()
	if fw == nil || !fw.HasField(key) {
		return errors.UnknownFieldError(string(s.FrameworkID), key)
	}
	if s.Values == nil {
		s.Values = make(models.Values)
	}
	s.Values[key] = value
	s.touch()
	return nil
}

// SetFields sets several fields, failing without changes if any key is unknown
func (s *Session) SetFields(values models.Values) error {
	fw := s.Framework()
	for key := range values {
		if fw == nil || !fw.HasField(key) {
			return errors.UnknownFieldError(string(s.FrameworkID), key)
		}
	}
	for key, value := range values {
		if s.Values == nil {
			s.Values = make(models.Values)
		}
		s.Values[key] = value
	}
	s.touch()
	return nil
}

// SetExtras replaces the extras
func (s *Session) SetExtras(e models.Extras) {
	s.Extras = e
	s.touch()
}

// SetTitle sets the export title
func (s *Session) SetTitle(title string) {
	s.Title = strings.TrimSpace(title)
	s.touch()
}

// SetVibe stores the vibe snippet to prepend to output; "" disables it
func (s *Session) SetVibe(snippet string) {
	s.VibeSnippet = snippet
	s.touch()
}

// Reset clears values, extras and title. The framework selection and vibe
// snippet stay as they are.
func (s *Session) Reset() {
	s.Values = make(models.Values)
	s.Extras = models.Extras{}
	s.Title = ""
	s.touch()
}

// ApplyIntake selects id and replaces the values with the classifier's
// pre-fill for it
func (s *Session) ApplyIntake(result *models.ClassificationResult, id models.FrameworkID) error {
	if id == "" {
		id = result.BestID
	}
	values, ok := result.FieldsByID[id]
	if !ok {
		return errors.UnknownFrameworkError(string(id))
	}
	if err := s.Select(id); err != nil {
		return err
	}
	s.Values = values.Clone()
	return nil
}

// Output renders the session, with the vibe snippet prepended when set
func (s *Session) Output() (string, error) {
	text, err := renderer.Render(s.FrameworkID, s.Values, s.Extras)
	if err != nil {
		return "", err
	}
	return vibe.Prepend(s.VibeSnippet, text), nil
}

// ExportTitle is the title used for export, defaulting to the framework name
func (s *Session) ExportTitle() string {
	if s.Title != "" {
		return s.Title
	}
	if fw := s.Framework(); fw != nil {
		return export.DefaultTitle(fw)
	}
	return "prompt"
}

// Clone returns a deep copy
func (s *Session) Clone() *Session {
	out := *s
	out.Values = s.Values.Clone()
	return &out
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}
