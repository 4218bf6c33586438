package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ooti/prompt-lab/internal/vibe"
)

// View renders the current view
func (m Model) View() string {
	if m.showHelp {
		modal := StyleModal.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			CreateHeader("Keyboard shortcuts"),
			"",
			m.help.FullHelpView(m.keys.FullHelp()),
			"",
			StyleTextDim.Render("? or esc to close"),
		))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}

	var mainView string
	switch m.viewMode {
	case ViewPicker:
		mainView = m.renderPickerView()
	case ViewFields:
		mainView = m.renderFieldsView()
	case ViewExtras:
		mainView = m.renderExtrasView()
	case ViewIntake:
		mainView = m.renderIntakeView()
	case ViewVibe:
		mainView = m.renderVibeView()
	default:
		mainView = m.renderPreviewView()
	}

	if m.statusMsg != "" {
		mainView = lipgloss.JoinVertical(lipgloss.Left, mainView, CreateStatus(m.statusMsg, m.statusType))
	}
	return AddMainPadding(mainView)
}

func (m Model) renderPickerView() string {
	help := CreateContextualHelp(
		[]string{"enter select • / filter • esc back • q quit"},
		nil, false, m.width,
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		CreateHeader("Choose a framework"),
		m.picker.View(),
		help,
	)
}

func (m Model) renderPreviewView() string {
	fw := m.session.Framework()

	metadata := fmt.Sprintf("%s • %s", fw.ID, fw.Tagline)
	if m.session.Title != "" {
		metadata += " • Title: " + m.session.Title
	}
	if m.vibeApplied != nil {
		metadata += " • Vibe: " + m.vibeLabel()
	}

	top, bottom := CreateScrollIndicators(!m.viewport.AtTop(), !m.viewport.AtBottom(), m.viewport.Width)
	content := StyleContentContainer.Render(lipgloss.JoinVertical(lipgloss.Left, top, m.viewport.View(), bottom))

	return lipgloss.JoinVertical(lipgloss.Left,
		CreateHeader(fw.Name),
		CreateMetadata(metadata),
		content,
		m.help.View(m.keys),
	)
}

func (m Model) renderFieldsView() string {
	if m.fieldForm == nil {
		return "No framework selected"
	}
	help := CreateContextualHelp(
		[]string{"tab next field • shift+tab previous • ctrl+s save • esc cancel"},
		nil, false, m.width,
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		CreateHeader("Edit "+m.session.Framework().Name),
		"",
		m.fieldForm.View(),
		help,
	)
}

func (m Model) renderExtrasView() string {
	if m.extrasForm == nil {
		return ""
	}
	help := CreateContextualHelp(
		[]string{"tab next • enter on last field or ctrl+s save • esc cancel"},
		nil, false, m.width,
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		CreateHeader("Extras"),
		CreateMetadata("Optional guidance appended to every framework"),
		"",
		m.extrasForm.View(),
		help,
	)
}

func (m Model) renderIntakeView() string {
	elements := []string{
		CreateHeader("Intake"),
		CreateMetadata("Describe your goal and get a framework recommendation"),
		"",
		m.intake.View(),
		"",
	}

	if m.classification != nil {
		best := m.classification.BestID
		var name string
		var scores []string
		for _, fw := range m.service.ListFrameworks() {
			if fw.ID == best {
				name = fw.Name
			}
			scores = append(scores, CreateScoreLine(string(fw.ID), m.classification.Scores[fw.ID], fw.ID == best))
		}
		elements = append(elements,
			StyleSuccess.Render(fmt.Sprintf("Recommended: %s (%s)", name, best)),
			StyleText.Render(m.classification.Why),
			"",
			strings.Join(scores, "\n"),
			"",
		)
	}

	essential := []string{"enter classify • esc back"}
	if !m.intake.Focused() {
		essential = []string{"a apply pre-fill • e edit text • esc back"}
	}
	elements = append(elements, CreateContextualHelp(essential, nil, false, m.width))

	return lipgloss.JoinVertical(lipgloss.Left, elements...)
}

func (m Model) renderVibeView() string {
	model, _ := vibe.LookupModel(m.vibe.Model)
	tone, _ := vibe.LookupVibe(m.vibe.Vibe)
	prepend := "off"
	if m.vibeOn {
		prepend = "on"
	}

	rows := []string{
		CreateOption("Model", model.Label, m.vibeCursor == vibeRowModel),
		CreateOption("Vibe", tone.Label, m.vibeCursor == vibeRowTone),
		CreateOption("Prepend", prepend, m.vibeCursor == vibeRowPrepend),
	}

	elements := []string{
		CreateHeader("Vibe"),
		CreateMetadata("Model-specific style snippet placed above the prompt"),
		"",
		strings.Join(rows, "\n"),
		"",
	}
	if snippet, err := m.service.Vibe(m.vibe.Model, m.vibe.Vibe); err == nil {
		elements = append(elements, StyleContentContainer.Render(StyleTextMuted.Render(snippet)), "")
	}
	elements = append(elements, CreateContextualHelp(
		[]string{"↑/↓ row • space cycle • m model • t vibe • enter apply • esc back"},
		nil, false, m.width,
	))

	return lipgloss.JoinVertical(lipgloss.Left, elements...)
}
