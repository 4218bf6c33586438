package commands

import (
	"context"
	"fmt"

	"github.com/ooti/prompt-lab/internal/models"
	"github.com/ooti/prompt-lab/internal/service"
	"github.com/ooti/prompt-lab/internal/session"
)

// sessionCommand is embedded by commands addressing one session by "id"
type sessionCommand struct {
	serviceCommand
	ID string
}

func (c *sessionCommand) Validate() error {
	if err := c.serviceCommand.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return fmt.Errorf("session id is required")
	}
	return nil
}

// CreateSessionCommand starts a session
type CreateSessionCommand struct {
	serviceCommand
	FrameworkID models.FrameworkID
}

func (c *CreateSessionCommand) SetParameters(params map[string]interface{}) error {
	c.FrameworkID = models.FrameworkID(stringParam(params, "frameworkId"))
	return nil
}

func (c *CreateSessionCommand) GetName() string {
	return "create-session"
}

func (c *CreateSessionCommand) GetDescription() string {
	return "Start a prompt building session"
}

func (c *CreateSessionCommand) Execute(ctx context.Context) (*CommandResult, error) {
	sess, err := c.service.CreateSession(c.FrameworkID)
	if err != nil {
		return nil, err
	}
	return &CommandResult{
		Success: true,
		Data:    sess,
		Message: fmt.Sprintf("Created session %s on %s", sess.ID, sess.FrameworkID),
	}, nil
}

// GetSessionCommand returns one session
type GetSessionCommand struct {
	sessionCommand
}

func (c *GetSessionCommand) SetParameters(params map[string]interface{}) error {
	c.ID = stringParam(params, "id")
	return nil
}

func (c *GetSessionCommand) GetName() string {
	return "get-session"
}

func (c *GetSessionCommand) GetDescription() string {
	return "Get a session by id"
}

func (c *GetSessionCommand) Execute(ctx context.Context) (*CommandResult, error) {
	sess, err := c.service.GetSession(c.ID)
	if err != nil {
		return nil, err
	}
	return &CommandResult{Success: true, Data: sess}, nil
}

// ListSessionsCommand lists sessions oldest first
type ListSessionsCommand struct {
	serviceCommand
}

func (c *ListSessionsCommand) GetName() string {
	return "list-sessions"
}

func (c *ListSessionsCommand) GetDescription() string {
	return "List open sessions"
}

func (c *ListSessionsCommand) Execute(ctx context.Context) (*CommandResult, error) {
	sessions := c.service.Sessions().List()
	if sessions == nil {
		sessions = []*session.Session{}
	}
	return &CommandResult{
		Success: true,
		Data:    sessions,
		Message: fmt.Sprintf("Found %d sessions", len(sessions)),
	}, nil
}

// DeleteSessionCommand removes a session
type DeleteSessionCommand struct {
	sessionCommand
}

func (c *DeleteSessionCommand) SetParameters(params map[string]interface{}) error {
	c.ID = stringParam(params, "id")
	return nil
}

func (c *DeleteSessionCommand) GetName() string {
	return "delete-session"
}

func (c *DeleteSessionCommand) GetDescription() string {
	return "Delete a session"
}

func (c *DeleteSessionCommand) Execute(ctx context.Context) (*CommandResult, error) {
	if err := c.service.DeleteSession(c.ID); err != nil {
		return nil, err
	}
	return &CommandResult{Success: true, Message: fmt.Sprintf("Deleted session %s", c.ID)}, nil
}

// SetSessionFieldsCommand sets field values, optionally switching framework
type SetSessionFieldsCommand struct {
	sessionCommand
	FrameworkID models.FrameworkID
	Values      models.Values
}

func (c *SetSessionFieldsCommand) SetParameters(params map[string]interface{}) error {
	c.ID = stringParam(params, "id")
	c.FrameworkID = models.FrameworkID(stringParam(params, "frameworkId"))
	c.Values = valuesParam(params)
	return nil
}

func (c *SetSessionFieldsCommand) GetName() string {
	return "set-session-fields"
}

func (c *SetSessionFieldsCommand) GetDescription() string {
	return "Set field values on a session"
}

func (c *SetSessionFieldsCommand) Execute(ctx context.Context) (*CommandResult, error) {
	sess, err := c.service.SetSessionFields(c.ID, c.FrameworkID, c.Values)
	if err != nil {
		return nil, err
	}
	return &CommandResult{Success: true, Data: sess}, nil
}

// SetSessionExtrasCommand updates the extras, title and vibe of a session.
// Only the parameters present are applied.
type SetSessionExtrasCommand struct {
	sessionCommand
	Extras    *models.Extras
	Title     *string
	Vibe      *service.VibeSelection
	clearVibe bool
}

func (c *SetSessionExtrasCommand) SetParameters(params map[string]interface{}) error {
	c.ID = stringParam(params, "id")
	if _, ok := params["extras"]; ok {
		extras := extrasParam(params)
		c.Extras = &extras
	}
	if title, ok := params["title"].(string); ok {
		c.Title = &title
	}
	if v, ok := params["vibe"]; ok {
		c.Vibe = vibeParam(params)
		c.clearVibe = v == nil
	}
	return nil
}

func (c *SetSessionExtrasCommand) GetName() string {
	return "set-session-extras"
}

func (c *SetSessionExtrasCommand) GetDescription() string {
	return "Set extras, export title and vibe on a session"
}

func (c *SetSessionExtrasCommand) Execute(ctx context.Context) (*CommandResult, error) {
	sess, err := c.service.GetSession(c.ID)
	if err != nil {
		return nil, err
	}

	if c.Vibe != nil || c.clearVibe {
		if sess, err = c.service.SetSessionVibe(c.ID, c.Vibe); err != nil {
			return nil, err
		}
	}

	if c.Extras != nil || c.Title != nil {
		extras := sess.Extras
		if c.Extras != nil {
			extras = *c.Extras
		}
		if sess, err = c.service.SetSessionExtras(c.ID, extras, c.Title); err != nil {
			return nil, err
		}
	}

	return &CommandResult{Success: true, Data: sess}, nil
}

// ResetSessionCommand clears a session's inputs
type ResetSessionCommand struct {
	sessionCommand
}

func (c *ResetSessionCommand) SetParameters(params map[string]interface{}) error {
	c.ID = stringParam(params, "id")
	return nil
}

func (c *ResetSessionCommand) GetName() string {
	return "reset-session"
}

func (c *ResetSessionCommand) GetDescription() string {
	return "Clear a session's field values, extras and title"
}

func (c *ResetSessionCommand) Execute(ctx context.Context) (*CommandResult, error) {
	sess, err := c.service.ResetSession(c.ID)
	if err != nil {
		return nil, err
	}
	return &CommandResult{Success: true, Data: sess, Message: "Session reset"}, nil
}

// IntakeOutput is the data of a session intake result
type IntakeOutput struct {
	Session        *session.Session             `json:"session"`
	Classification *models.ClassificationResult `json:"classification"`
}

// SessionIntakeCommand classifies text and loads the pre-fill into a session
type SessionIntakeCommand struct {
	sessionCommand
	Text        string
	FrameworkID models.FrameworkID
}

func (c *SessionIntakeCommand) SetParameters(params map[string]interface{}) error {
	c.ID = stringParam(params, "id")
	c.Text = stringParam(params, "text")
	c.FrameworkID = models.FrameworkID(stringParam(params, "frameworkId"))
	return nil
}

func (c *SessionIntakeCommand) GetName() string {
	return "session-intake"
}

func (c *SessionIntakeCommand) GetDescription() string {
	return "Classify free text and pre-fill a session"
}

func (c *SessionIntakeCommand) Execute(ctx context.Context) (*CommandResult, error) {
	sess, result, err := c.service.ApplyIntake(c.ID, c.Text, c.FrameworkID)
	if err != nil {
		return nil, err
	}
	return &CommandResult{
		Success: true,
		Data:    IntakeOutput{Session: sess, Classification: result},
		Message: result.Why,
	}, nil
}

// SessionOutput is the data of a session output result
type SessionOutput struct {
	ID          string             `json:"id"`
	FrameworkID models.FrameworkID `json:"frameworkId"`
	Title       string             `json:"title"`
	Output      string             `json:"output"`
}

// SessionOutputCommand renders a session
type SessionOutputCommand struct {
	sessionCommand
}

func (c *SessionOutputCommand) SetParameters(params map[string]interface{}) error {
	c.ID = stringParam(params, "id")
	return nil
}

func (c *SessionOutputCommand) GetName() string {
	return "session-output"
}

func (c *SessionOutputCommand) GetDescription() string {
	return "Render a session's current output"
}

func (c *SessionOutputCommand) Execute(ctx context.Context) (*CommandResult, error) {
	sess, err := c.service.GetSession(c.ID)
	if err != nil {
		return nil, err
	}
	out, err := sess.Output()
	if err != nil {
		return nil, err
	}
	return &CommandResult{
		Success: true,
		Data: SessionOutput{
			ID:          sess.ID,
			FrameworkID: sess.FrameworkID,
			Title:       sess.ExportTitle(),
			Output:      out,
		},
	}, nil
}
