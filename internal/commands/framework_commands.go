// Package commands/framework_commands implements the catalog and prompt
// building commands.
//
// COMMAND IMPLEMENTATIONS:
// - ListFrameworksCommand: the catalog in display order
// - GetFrameworkCommand: one framework with its fields
// - SearchFrameworksCommand: fuzzy search over names, taglines and labels
// - RenderCommand: text or JSON rendering with optional vibe
// - ClassifyCommand: intake recommendation with pre-fills
// - VibeCommand / ListVibesCommand: style snippets and their options
// - ExportCommand: markdown export, built in memory or written to disk
package commands

import (
	"context"
	"fmt"

	"github.com/ooti/prompt-lab/internal/export"
	"github.com/ooti/prompt-lab/internal/models"
	"github.com/ooti/prompt-lab/internal/service"
)

// ListFrameworksCommand lists the catalog
type ListFrameworksCommand struct {
	serviceCommand
	Format string
}

func (c *ListFrameworksCommand) SetParameters(params map[string]interface{}) error {
	c.Format = stringParam(params, "format")
	return nil
}

func (c *ListFrameworksCommand) GetName() string {
	return "list-frameworks"
}

func (c *ListFrameworksCommand) GetDescription() string {
	return "List all prompt frameworks in display order"
}

func (c *ListFrameworksCommand) Execute(ctx context.Context) (*CommandResult, error) {
	all := c.service.ListFrameworks()
	if c.Format == "ids" {
		ids := make([]models.FrameworkID, len(all))
		for i, fw := range all {
			ids[i] = fw.ID
		}
		return &CommandResult{Success: true, Data: ids, Message: fmt.Sprintf("Found %d frameworks", len(ids))}, nil
	}

	return &CommandResult{
		Success: true,
		Data:    all,
		Message: fmt.Sprintf("Found %d frameworks", len(all)),
	}, nil
}

// GetFrameworkCommand returns one framework
type GetFrameworkCommand struct {
	serviceCommand
	ID string
}

func (c *GetFrameworkCommand) SetParameters(params map[string]interface{}) error {
	c.ID = stringParam(params, "id")
	return nil
}

func (c *GetFrameworkCommand) GetName() string {
	return "get-framework"
}

func (c *GetFrameworkCommand) GetDescription() string {
	return "Get a framework and its fields by id"
}

func (c *GetFrameworkCommand) Execute(ctx context.Context) (*CommandResult, error) {
	fw, err := c.service.GetFramework(models.FrameworkID(c.ID))
	if err != nil {
		return nil, err
	}
	return &CommandResult{Success: true, Data: fw}, nil
}

// SearchFrameworksCommand fuzzy-searches the catalog
type SearchFrameworksCommand struct {
	serviceCommand
	Query string
}

func (c *SearchFrameworksCommand) SetParameters(params map[string]interface{}) error {
	c.Query = stringParam(params, "query")
	return nil
}

func (c *SearchFrameworksCommand) GetName() string {
	return "search-frameworks"
}

func (c *SearchFrameworksCommand) GetDescription() string {
	return "Fuzzy search frameworks by name, tagline or field label"
}

func (c *SearchFrameworksCommand) Execute(ctx context.Context) (*CommandResult, error) {
	results := c.service.SearchFrameworks(c.Query)
	return &CommandResult{
		Success: true,
		Data:    results,
		Message: fmt.Sprintf("Found %d frameworks matching '%s'", len(results), c.Query),
	}, nil
}

// RenderOutput is the data of a render result
type RenderOutput struct {
	FrameworkID models.FrameworkID `json:"frameworkId"`
	Format      string             `json:"format"`
	Output      string             `json:"output"`
}

// RenderCommand renders a framework
type RenderCommand struct {
	serviceCommand
	Request service.RenderRequest
	Format  string
}

func (c *RenderCommand) SetParameters(params map[string]interface{}) error {
	c.Request = renderRequest(params)
	c.Format = stringParam(params, "format")
	if c.Format == "" {
		c.Format = "text"
	}
	return nil
}

func (c *RenderCommand) GetName() string {
	return "render"
}

func (c *RenderCommand) GetDescription() string {
	return "Render a framework with field values, extras and an optional vibe"
}

func (c *RenderCommand) Execute(ctx context.Context) (*CommandResult, error) {
	var (
		out string
		err error
	)
	if c.Format == "json" {
		out, err = c.service.RenderJSON(c.Request)
	} else {
		out, err = c.service.Render(c.Request)
	}
	if err != nil {
		return nil, err
	}

	return &CommandResult{
		Success: true,
		Data: RenderOutput{
			FrameworkID: c.Request.FrameworkID,
			Format:      c.Format,
			Output:      out,
		},
	}, nil
}

// ClassifyCommand recommends a framework for free text
type ClassifyCommand struct {
	serviceCommand
	Text string
}

func (c *ClassifyCommand) SetParameters(params map[string]interface{}) error {
	c.Text = stringParam(params, "text")
	return nil
}

func (c *ClassifyCommand) GetName() string {
	return "classify"
}

func (c *ClassifyCommand) GetDescription() string {
	return "Score free text against every framework and recommend one"
}

func (c *ClassifyCommand) Execute(ctx context.Context) (*CommandResult, error) {
	result, err := c.service.Classify(c.Text)
	if err != nil {
		return nil, err
	}
	return &CommandResult{Success: true, Data: result, Message: result.Why}, nil
}

// VibeOutput is the data of a vibe result
type VibeOutput struct {
	Model   models.ModelKey `json:"model"`
	Vibe    models.VibeKey  `json:"vibe"`
	Snippet string          `json:"snippet"`
}

// VibeCommand renders a style snippet
type VibeCommand struct {
	serviceCommand
	Model models.ModelKey
	Vibe  models.VibeKey
}

func (c *VibeCommand) SetParameters(params map[string]interface{}) error {
	c.Model = models.ModelKey(stringParam(params, "model"))
	c.Vibe = models.VibeKey(stringParam(params, "vibe"))
	return nil
}

func (c *VibeCommand) GetName() string {
	return "vibe"
}

func (c *VibeCommand) GetDescription() string {
	return "Render a model-specific style snippet"
}

func (c *VibeCommand) Execute(ctx context.Context) (*CommandResult, error) {
	model, tone := c.Model, c.Vibe
	if model == "" {
		model = c.service.Config().DefaultModel
	}
	if tone == "" {
		tone = c.service.Config().DefaultVibe
	}

	snippet, err := c.service.Vibe(model, tone)
	if err != nil {
		return nil, err
	}
	return &CommandResult{
		Success: true,
		Data:    VibeOutput{Model: model, Vibe: tone, Snippet: snippet},
	}, nil
}

// VibeOptions lists models and vibes
type VibeOptions struct {
	Models []models.ModelInfo `json:"models"`
	Vibes  []models.VibeInfo  `json:"vibes"`
}

// ListVibesCommand lists the vibe pickers' options
type ListVibesCommand struct {
	serviceCommand
}

func (c *ListVibesCommand) GetName() string {
	return "list-vibes"
}

func (c *ListVibesCommand) GetDescription() string {
	return "List target models and tone presets"
}

func (c *ListVibesCommand) Execute(ctx context.Context) (*CommandResult, error) {
	return &CommandResult{
		Success: true,
		Data:    VibeOptions{Models: c.service.Models(), Vibes: c.service.Vibes()},
	}, nil
}

// ExportCommand builds or writes a markdown export
type ExportCommand struct {
	serviceCommand
	Request service.ExportRequest
	Write   bool
}

func (c *ExportCommand) SetParameters(params map[string]interface{}) error {
	c.Request = service.ExportRequest{
		RenderRequest: renderRequest(params),
		Title:         stringParam(params, "title"),
	}
	c.Write = boolParam(params, "write")
	return nil
}

func (c *ExportCommand) GetName() string {
	return "export"
}

func (c *ExportCommand) GetDescription() string {
	return "Export a rendered prompt as a markdown document"
}

func (c *ExportCommand) Execute(ctx context.Context) (*CommandResult, error) {
	var (
		res *export.Result
		err error
	)
	if c.Write {
		res, err = c.service.Export(c.Request)
	} else {
		res, err = c.service.BuildExport(c.Request)
	}
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Built %s", res.Filename)
	if res.Path != "" {
		message = fmt.Sprintf("Wrote %s", res.Path)
	}
	return &CommandResult{Success: true, Data: res, Message: message}, nil
}
