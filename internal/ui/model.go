// Package ui implements the interactive terminal interface for prompt-lab.
//
// SYSTEM ARCHITECTURE ROLE:
// The TUI edits a single local session: pick a framework, fill its fields and
// extras, optionally classify a free-text goal to pre-fill them, choose a vibe
// and copy or export the rendered prompt. The preview view is the hub every
// other view returns to.
//
// INTEGRATION POINTS:
// - internal/session/session.go: Model.session holds all editable state
// - internal/service/service.go: classification, vibes, JSON rendering,
//   clipboard and export go through the service
// - internal/errors/handlers.go: TUIErrorHandler formats the status bar and
//   logs to the error file, since stderr belongs to the alt screen
// - internal/cli/cli.go: the root command calls Run
package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/ooti/prompt-lab/internal/config"
	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/models"
	"github.com/ooti/prompt-lab/internal/service"
	"github.com/ooti/prompt-lab/internal/session"
	"github.com/ooti/prompt-lab/internal/vibe"
)

// createGlamourRenderer creates a glamour renderer with adaptive styling
func createGlamourRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	switch style := os.Getenv("GLAMOUR_STYLE"); style {
	case "light", "dark", "notty":
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	profile := termenv.ColorProfile()

	var styleOption glamour.TermRendererOption
	switch profile {
	case termenv.TrueColor, termenv.ANSI256:
		if lipgloss.HasDarkBackground() {
			styleOption = glamour.WithStandardStyle("dark")
		} else {
			styleOption = glamour.WithStandardStyle("light")
		}
	default:
		styleOption = glamour.WithAutoStyle()
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(wordWrap),
	)
}

// ViewMode represents the current view in the TUI
type ViewMode int

const (
	ViewPicker ViewMode = iota
	ViewPreview
	ViewFields
	ViewExtras
	ViewIntake
	ViewVibe
)

// Vibe picker rows
const (
	vibeRowModel = iota
	vibeRowTone
	vibeRowPrepend
	vibeRowCount
)

// Model represents the application state
type Model struct {
	service    *service.Service
	session    *session.Session
	errHandler *errors.TUIErrorHandler

	viewMode ViewMode
	width    int
	height   int

	picker          list.Model
	viewport        viewport.Model
	help            help.Model
	keys            KeyMap
	showHelp        bool
	glamourRenderer *glamour.TermRenderer

	fieldForm  *FieldForm
	extrasForm *ExtrasForm

	intake         textarea.Model
	classification *models.ClassificationResult

	vibe        service.VibeSelection
	vibeOn      bool
	vibeCursor  int
	vibeApplied *service.VibeSelection

	statusMsg     string
	statusType    string
	statusTimeout int
}

// KeyMap defines key bindings for the preview hub
type KeyMap struct {
	Pick     key.Binding
	Edit     key.Binding
	Extras   key.Binding
	Intake   key.Binding
	Vibe     key.Binding
	Copy     key.Binding
	CopyJSON key.Binding
	Export   key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Copy, k.Export, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pick, k.Edit, k.Extras},
		{k.Intake, k.Vibe, k.Reset},
		{k.Copy, k.CopyJSON, k.Export},
		{k.Help, k.Quit},
	}
}

var keys = KeyMap{
	Pick: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pick framework"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter", "f"),
		key.WithHelp("enter/f", "edit fields"),
	),
	Extras: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "extras"),
	),
	Intake: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "intake"),
	),
	Vibe: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "vibe"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	CopyJSON: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy JSON"),
	),
	Export: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "export"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// NewModel creates a new TUI model on the configured default framework
func NewModel(svc *service.Service) (*Model, error) {
	initializeColors()

	cfg := svc.Config()
	sess, err := session.New(cfg.DefaultFramework)
	if err != nil {
		return nil, err
	}

	all := svc.ListFrameworks()
	items := make([]list.Item, len(all))
	selected := 0
	for i, fw := range all {
		items[i] = fw
		if fw.ID == sess.FrameworkID {
			selected = i
		}
	}

	l := list.New(items, list.NewDefaultDelegate(), 80, 20)
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	keyMap := list.DefaultKeyMap()
	keyMap.Filter = key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	)
	l.KeyMap = keyMap
	l.Select(selected)

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	ta := textarea.New()
	ta.Placeholder = "Describe what you want the prompt to achieve..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(80)
	ta.SetHeight(5)

	renderer, err := createGlamourRenderer(60)
	if err != nil {
		return nil, fmt.Errorf("failed to create glamour renderer: %w", err)
	}

	m := &Model{
		service:         svc,
		session:         sess,
		errHandler:      errors.NewTUIErrorHandler(false, config.LogDir()),
		viewMode:        ViewPicker,
		picker:          l,
		viewport:        vp,
		help:            help.New(),
		keys:            keys,
		glamourRenderer: renderer,
		intake:          ta,
		vibe:            service.VibeSelection{Model: cfg.DefaultModel, Vibe: cfg.DefaultVibe},
	}
	m.renderPreview()
	return m, nil
}

// Run starts the TUI on the alternate screen and blocks until it exits
func Run(svc *service.Service) error {
	model, err := NewModel(svc)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// tickMsg is sent to clear the status message
type tickMsg time.Time

// clearStatusCmd returns a command that clears the status message after a delay
func clearStatusCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// copiedMsg reports the outcome of a clipboard copy
type copiedMsg struct {
	message string
	err     error
}

func copyCmd(svc *service.Service, text string) tea.Cmd {
	return func() tea.Msg {
		msg, err := svc.Copy(context.Background(), text)
		return copiedMsg{message: msg, err: err}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.statusTimeout > 0 {
			m.statusTimeout--
			if m.statusTimeout == 0 {
				m.statusMsg = ""
			} else {
				return m, clearStatusCmd()
			}
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.fail(msg.err)
			return m, clearStatusCmd()
		}
		m.setStatus(msg.message, "success")
		return m, clearStatusCmd()

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showHelp {
			if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		switch m.viewMode {
		case ViewPicker:
			return m.updatePicker(msg)
		case ViewFields:
			return m.updateFields(msg)
		case ViewExtras:
			return m.updateExtras(msg)
		case ViewIntake:
			return m.updateIntake(msg)
		case ViewVibe:
			return m.updateVibe(msg)
		default:
			return m.updatePreview(msg)
		}
	}

	// Forward other messages (cursor blink and similar) to the active component
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewPicker:
		m.picker, cmd = m.picker.Update(msg)
	case ViewFields:
		if m.fieldForm != nil {
			cmd = m.fieldForm.Update(msg)
		}
	case ViewExtras:
		if m.extrasForm != nil {
			cmd = m.extrasForm.Update(msg)
		}
	case ViewIntake:
		m.intake, cmd = m.intake.Update(msg)
	case ViewPreview:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		fw, ok := m.picker.SelectedItem().(models.Framework)
		if !ok {
			return m, nil
		}
		if err := m.session.Select(fw.ID); err != nil {
			m.fail(err)
			return m, clearStatusCmd()
		}
		m.openFields()
		return m, nil
	case "esc":
		if m.picker.FilterState() == list.FilterApplied {
			m.picker.ResetFilter()
			return m, nil
		}
		m.viewMode = ViewPreview
		return m, nil
	case "q":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) openFields() {
	fw := m.session.Framework()
	m.fieldForm = NewFieldForm(fw, m.session.Values)
	m.fieldForm.Resize(m.width, m.availableHeight())
	m.viewMode = ViewFields
}

func (m Model) updateFields(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd := m.fieldForm.Update(msg)

	switch {
	case m.fieldForm.IsSubmitted():
		if err := m.session.SetFields(m.fieldForm.Values()); err != nil {
			m.fail(err)
			return m, clearStatusCmd()
		}
		m.fieldForm = nil
		m.showPreview()
		m.setStatus("Fields saved", "success")
		return m, clearStatusCmd()
	case m.fieldForm.IsCancelled():
		m.fieldForm = nil
		m.showPreview()
		return m, nil
	}
	return m, cmd
}

func (m Model) updateExtras(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd := m.extrasForm.Update(msg)

	switch {
	case m.extrasForm.IsSubmitted():
		m.session.SetExtras(m.extrasForm.Extras())
		m.session.SetTitle(m.extrasForm.Title())
		m.extrasForm = nil
		m.showPreview()
		m.setStatus("Extras saved", "success")
		return m, clearStatusCmd()
	case m.extrasForm.IsCancelled():
		m.extrasForm = nil
		m.showPreview()
		return m, nil
	}
	return m, cmd
}

func (m Model) updateIntake(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.intake.Focused() {
		switch msg.String() {
		case "enter":
			result, err := m.service.Classify(m.intake.Value())
			if err != nil {
				m.fail(err)
				return m, clearStatusCmd()
			}
			m.classification = result
			m.intake.Blur()
			return m, nil
		case "esc":
			m.intake.Blur()
			m.showPreview()
			return m, nil
		}
		var cmd tea.Cmd
		m.intake, cmd = m.intake.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "a":
		if m.classification == nil {
			return m, nil
		}
		if err := m.session.ApplyIntake(m.classification, ""); err != nil {
			m.fail(err)
			return m, clearStatusCmd()
		}
		m.picker.Select(m.frameworkIndex(m.session.FrameworkID))
		m.showPreview()
		m.setStatus("Applied "+m.session.Framework().Name+" pre-fill", "success")
		return m, clearStatusCmd()
	case "e", "tab":
		cmd := m.intake.Focus()
		return m, cmd
	case "esc", "q":
		m.showPreview()
		return m, nil
	}
	return m, nil
}

func (m Model) updateVibe(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.vibeCursor = (m.vibeCursor + vibeRowCount - 1) % vibeRowCount
	case "down", "j", "tab":
		m.vibeCursor = (m.vibeCursor + 1) % vibeRowCount
	case "m":
		m.vibe.Model = vibe.NextModel(m.vibe.Model)
	case "t":
		m.vibe.Vibe = vibe.NextVibe(m.vibe.Vibe)
	case " ", "right", "l":
		m.cycleVibeRow()
	case "enter":
		cmd := m.applyVibe()
		return m, cmd
	case "esc", "q":
		m.showPreview()
	}
	return m, nil
}

func (m *Model) cycleVibeRow() {
	switch m.vibeCursor {
	case vibeRowModel:
		m.vibe.Model = vibe.NextModel(m.vibe.Model)
	case vibeRowTone:
		m.vibe.Vibe = vibe.NextVibe(m.vibe.Vibe)
	case vibeRowPrepend:
		m.vibeOn = !m.vibeOn
	}
}

func (m *Model) applyVibe() tea.Cmd {
	if !m.vibeOn {
		m.session.SetVibe("")
		m.vibeApplied = nil
		m.showPreview()
		return m.setStatus("Vibe off", "info")
	}

	snippet, err := m.service.Vibe(m.vibe.Model, m.vibe.Vibe)
	if err != nil {
		return m.fail(err)
	}
	m.session.SetVibe(snippet)
	sel := m.vibe
	m.vibeApplied = &sel
	m.showPreview()
	return m.setStatus("Vibe on: "+m.vibeLabel(), "success")
}

func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Pick):
		m.viewMode = ViewPicker
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		m.openFields()
		return m, nil
	case key.Matches(msg, m.keys.Extras):
		m.extrasForm = NewExtrasForm(m.session.Extras, m.session.Title)
		m.viewMode = ViewExtras
		return m, nil
	case key.Matches(msg, m.keys.Intake):
		m.viewMode = ViewIntake
		cmd := m.intake.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Vibe):
		m.viewMode = ViewVibe
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		out, err := m.session.Output()
		if err != nil {
			m.fail(err)
			return m, clearStatusCmd()
		}
		return m, copyCmd(m.service, out)
	case key.Matches(msg, m.keys.CopyJSON):
		out, err := m.service.RenderJSON(m.request())
		if err != nil {
			m.fail(err)
			return m, clearStatusCmd()
		}
		return m, copyCmd(m.service, out)
	case key.Matches(msg, m.keys.Export):
		res, err := m.service.Export(service.ExportRequest{
			RenderRequest: m.request(),
			Title:         m.session.Title,
		})
		if err != nil {
			m.fail(err)
			return m, clearStatusCmd()
		}
		m.setStatus("Exported to "+res.Path, "success")
		return m, clearStatusCmd()
	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
		m.renderPreview()
		m.setStatus("Cleared fields, extras and title", "info")
		return m, clearStatusCmd()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// request builds the service request matching the current session and vibe
func (m *Model) request() service.RenderRequest {
	req := service.RenderRequest{
		FrameworkID: m.session.FrameworkID,
		Values:      m.session.Values,
		Extras:      m.session.Extras,
	}
	if m.vibeApplied != nil {
		sel := *m.vibeApplied
		req.Vibe = &sel
	}
	return req
}

func (m *Model) showPreview() {
	m.viewMode = ViewPreview
	m.renderPreview()
}

// renderPreview renders the session output into the preview viewport
func (m *Model) renderPreview() {
	out, err := m.session.Output()
	if err != nil {
		m.viewport.SetContent(err.Error())
		return
	}

	content := out
	if m.glamourRenderer != nil {
		if rendered, err := m.glamourRenderer.Render(previewMarkdown(out)); err == nil {
			content = rendered
		}
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

// previewMarkdown keeps the prompt's line structure when rendered as markdown
func previewMarkdown(out string) string {
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if line != "" && i+1 < len(lines) && lines[i+1] != "" {
			lines[i] = line + "  "
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) availableHeight() int {
	// title, metadata, help, status and margins
	const reserved = 8
	h := m.height - reserved
	if h < 5 {
		h = 5
	}
	return h
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	available := m.availableHeight()

	m.picker.SetSize(width, available)
	m.help.Width = width

	viewportWidth := width - 8
	if viewportWidth < 40 {
		viewportWidth = 40
	}
	m.viewport.Width = viewportWidth
	m.viewport.Height = available - 2
	if renderer, err := createGlamourRenderer(viewportWidth); err == nil {
		m.glamourRenderer = renderer
	}

	m.intake.SetWidth(width - 10)
	if m.fieldForm != nil {
		m.fieldForm.Resize(width, available)
	}
	m.renderPreview()
}

func (m *Model) frameworkIndex(id models.FrameworkID) int {
	for i, item := range m.picker.Items() {
		if fw, ok := item.(models.Framework); ok && fw.ID == id {
			return i
		}
	}
	return 0
}

func (m *Model) vibeLabel() string {
	model, _ := vibe.LookupModel(m.vibe.Model)
	tone, _ := vibe.LookupVibe(m.vibe.Vibe)
	return model.Label + " · " + tone.Label
}

func (m *Model) setStatus(msg, statusType string) tea.Cmd {
	m.statusMsg = msg
	m.statusType = statusType
	m.statusTimeout = 3
	return clearStatusCmd()
}

// fail logs err to the error file and shows it in the status bar
func (m *Model) fail(err error) tea.Cmd {
	appErr := m.errHandler.HandleError(err)
	return m.setStatus(m.errHandler.FormatError(appErr), m.errHandler.StatusType(appErr))
}

// Session returns the state being edited
func (m Model) Session() *session.Session {
	return m.session
}

// Mode returns the active view
func (m Model) Mode() ViewMode {
	return m.viewMode
}

// Status returns the current status bar text
func (m Model) Status() string {
	return m.statusMsg
}
