package renderer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/frameworks"
	"github.com/ooti/prompt-lab/internal/models"
)

// GuidanceHeading introduces the optional extras block
const GuidanceHeading = "Additional Guidance:"

// Renderer turns filled framework fields into a prompt document
type Renderer struct {
	framework *models.Framework
}

// NewRenderer creates a renderer for one framework
func NewRenderer(fw *models.Framework) *Renderer {
	return &Renderer{framework: fw}
}

// ForID creates a renderer for a catalog framework. Unknown ids are rejected;
// there is no fallback framework.
func ForID(id models.FrameworkID) (*Renderer, error) {
	fw, ok := frameworks.Get(id)
	if !ok {
		return nil, errors.UnknownFrameworkError(string(id))
	}
	return NewRenderer(fw), nil
}

// Render renders the catalog framework id with the given values and extras
func Render(id models.FrameworkID, values models.Values, extras models.Extras) (string, error) {
	r, err := ForID(id)
	if err != nil {
		return "", err
	}
	return r.RenderText(values, extras), nil
}

// Framework returns the framework being rendered
func (r *Renderer) Framework() *models.Framework {
	return r.framework
}

// RenderText renders the prompt as plain text. Missing values render as empty
// strings, and the guidance block appears only when an extra is non-blank.
func (r *Renderer) RenderText(values models.Values, extras models.Extras) string {
	var b strings.Builder

	if r.framework.Intro != "" {
		b.WriteString(r.framework.Intro)
		b.WriteString("\n\n")
	}

	for i, field := range r.framework.Fields {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(field.Label)
		b.WriteString(": ")
		b.WriteString(values[field.Key])
	}

	b.WriteString(guidance(extras))
	return b.String()
}

// RenderJSON renders the prompt as a JSON message array for LLM APIs. A
// non-empty system string becomes a leading system message.
func (r *Renderer) RenderJSON(values models.Values, extras models.Extras, system string) (string, error) {
	var messages []Message
	if strings.TrimSpace(system) != "" {
		messages = append(messages, Message{Role: "system", Content: system})
	}
	messages = append(messages, Message{
		Role:    "user",
		Content: r.RenderText(values, extras),
	})

	jsonBytes, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}

	return string(jsonBytes), nil
}

// Message represents a chat message for LLM APIs
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// guidance returns the extras block, including its leading blank line, or ""
func guidance(e models.Extras) string {
	var lines []string
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			lines = append(lines, label+value)
		}
	}
	add("Intended audience: ", e.Audience)
	add("Tone/voice: ", e.Tone)
	add("Target length: ", e.Length)
	add("Style/formatting preferences: ", e.Style)
	add("Additional constraints: ", e.Constraints)

	if len(lines) == 0 {
		return ""
	}
	return "\n\n" + GuidanceHeading + "\n- " + strings.Join(lines, "\n- ")
}
