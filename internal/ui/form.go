package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ooti/prompt-lab/internal/models"
)

// FieldForm edits the field values of one framework, one textarea per field
type FieldForm struct {
	framework *models.Framework
	areas     []textarea.Model
	focused   int
	submitted bool
	cancelled bool
}

// NewFieldForm creates a form for fw pre-filled with values
func NewFieldForm(fw *models.Framework, values models.Values) *FieldForm {
	areas := make([]textarea.Model, len(fw.Fields))
	for i, field := range fw.Fields {
		ta := textarea.New()
		ta.Placeholder = field.Placeholder
		ta.CharLimit = 0
		ta.MaxHeight = 0
		ta.ShowLineNumbers = false
		ta.SetWidth(80)
		ta.SetHeight(3)
		ta.SetValue(values[field.Key])
		areas[i] = ta
	}

	f := &FieldForm{framework: fw, areas: areas}
	if len(areas) > 0 {
		f.areas[0].Focus()
	}
	return f
}

// Update handles form updates
func (f *FieldForm) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab":
			f.move(1)
			return nil
		case "shift+tab":
			f.move(-1)
			return nil
		case "ctrl+s":
			f.submitted = true
			return nil
		case "esc":
			f.cancelled = true
			return nil
		}
	}

	if len(f.areas) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.areas[f.focused], cmd = f.areas[f.focused].Update(msg)
	return cmd
}

func (f *FieldForm) move(delta int) {
	if len(f.areas) == 0 {
		return
	}
	f.areas[f.focused].Blur()
	f.focused = (f.focused + delta + len(f.areas)) % len(f.areas)
	f.areas[f.focused].Focus()
}

// Resize shares the available height between the field textareas
func (f *FieldForm) Resize(width, height int) {
	if len(f.areas) == 0 {
		return
	}
	per := height/len(f.areas) - 1
	if per < 1 {
		per = 1
	}
	if per > 6 {
		per = 6
	}
	for i := range f.areas {
		f.areas[i].SetWidth(width - 10)
		f.areas[i].SetHeight(per)
	}
}

// Values returns the edited text keyed by field
func (f *FieldForm) Values() models.Values {
	values := make(models.Values, len(f.areas))
	for i, field := range f.framework.Fields {
		values[field.Key] = f.areas[i].Value()
	}
	return values
}

// FocusedKey returns the key of the field being edited
func (f *FieldForm) FocusedKey() string {
	if len(f.framework.Fields) == 0 {
		return ""
	}
	return f.framework.Fields[f.focused].Key
}

func (f *FieldForm) IsSubmitted() bool { return f.submitted }
func (f *FieldForm) IsCancelled() bool { return f.cancelled }

// View renders the labels and textareas
func (f *FieldForm) View() string {
	var rows []string
	for i, field := range f.framework.Fields {
		label := StyleFormLabel.Render(field.Label)
		if i == f.focused {
			label = StyleFocused.Render("▶ " + field.Label)
		}
		rows = append(rows, label, f.areas[i].View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Extras form field indices
const (
	audienceField = iota
	toneField
	lengthField
	styleField
	constraintsField
	titleField
	extrasFieldCount
)

var extrasLabels = [extrasFieldCount]string{
	audienceField:    "Audience",
	toneField:        "Tone / voice",
	lengthField:      "Target length",
	styleField:       "Style / formatting",
	constraintsField: "Constraints",
	titleField:       "Export title",
}

var extrasPlaceholders = [extrasFieldCount]string{
	audienceField:    "e.g. busy executives",
	toneField:        "e.g. warm, direct",
	lengthField:      "e.g. under 200 words",
	styleField:       "e.g. bullet points",
	constraintsField: "e.g. no jargon",
	titleField:       "defaults to the framework name",
}

// ExtrasForm edits the shared extras and the export title
type ExtrasForm struct {
	inputs    []textinput.Model
	focused   int
	submitted bool
	cancelled bool
}

// NewExtrasForm creates the form pre-filled with extras and title
func NewExtrasForm(extras models.Extras, title string) *ExtrasForm {
	values := [extrasFieldCount]string{
		audienceField:    extras.Audience,
		toneField:        extras.Tone,
		lengthField:      extras.Length,
		styleField:       extras.Style,
		constraintsField: extras.Constraints,
		titleField:       title,
	}

	inputs := make([]textinput.Model, extrasFieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = extrasPlaceholders[i]
		inputs[i].CharLimit = 255
		inputs[i].Width = 60
		inputs[i].SetValue(values[i])
	}
	inputs[audienceField].Focus()

	return &ExtrasForm{inputs: inputs}
}

// Update handles form updates
func (f *ExtrasForm) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down":
			f.move(1)
			return nil
		case "shift+tab", "up":
			f.move(-1)
			return nil
		case "enter":
			if f.focused == len(f.inputs)-1 {
				f.submitted = true
				return nil
			}
			f.move(1)
			return nil
		case "ctrl+s":
			f.submitted = true
			return nil
		case "esc":
			f.cancelled = true
			return nil
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

func (f *ExtrasForm) move(delta int) {
	f.inputs[f.focused].Blur()
	f.focused = (f.focused + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focused].Focus()
}

// Extras returns the edited extras
func (f *ExtrasForm) Extras() models.Extras {
	return models.Extras{
		Audience:    f.inputs[audienceField].Value(),
		Tone:        f.inputs[toneField].Value(),
		Length:      f.inputs[lengthField].Value(),
		Style:       f.inputs[styleField].Value(),
		Constraints: f.inputs[constraintsField].Value(),
	}
}

// Title returns the edited export title, trimmed
func (f *ExtrasForm) Title() string {
	return strings.TrimSpace(f.inputs[titleField].Value())
}

func (f *ExtrasForm) IsSubmitted() bool { return f.submitted }
func (f *ExtrasForm) IsCancelled() bool { return f.cancelled }

// View renders the labels and inputs
func (f *ExtrasForm) View() string {
	var rows []string
	for i, input := range f.inputs {
		label := StyleFormLabel.Render(extrasLabels[i])
		if i == f.focused {
			label = StyleFocused.Render("▶ " + extrasLabels[i])
		}
		rows = append(rows, label, input.View(), "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
