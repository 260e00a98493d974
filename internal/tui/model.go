// Package tui is a terminal front-end for the staff intake form. It follows
// The Elm Architecture via bubbletea: the Model holds all state, Update
// reacts to messages, and View renders the current step to a string.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emekaobi/staffintake/internal/intake"
	"github.com/emekaobi/staffintake/pkg/forms"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			MarginBottom(1)
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	focusStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	noticeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1)
)

// submitResultMsg carries the outcome of a background submission back into
// the update loop.
type submitResultMsg struct {
	result intake.SubmitResult
}

// Model drives one intake form in the terminal.
type Model struct {
	form      *intake.Form
	submitter intake.Submitter

	fields []forms.Field // descriptors for the current step
	focus  int           // index into fields
	input  textinput.Model
	bar    progress.Model

	notice  string
	failure string
	width   int
}

// NewModel wires a form and a submitter into a runnable bubbletea model.
func NewModel(form *intake.Form, submitter intake.Submitter) *Model {
	m := &Model{
		form:      form,
		submitter: submitter,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
	m.enterStep()
	return m
}

// enterStep reloads field descriptors for the current step and focuses the
// first field.
func (m *Model) enterStep() {
	m.fields = m.form.StepFields(m.form.Step())
	m.focus = 0
	m.loadInput()
}

// loadInput prepares the text input for the focused field.
func (m *Model) loadInput() {
	if len(m.fields) == 0 {
		return
	}
	field := m.fields[m.focus]

	ti := textinput.New()
	ti.Placeholder = field.Placeholder
	ti.SetValue(m.form.Value(field.Name))
	ti.CharLimit = 120
	ti.Width = 40
	ti.Focus()
	m.input = ti
}

func (m *Model) focusedField() *forms.Field {
	if len(m.fields) == 0 {
		return nil
	}
	return &m.fields[m.focus]
}

// commitInput writes the focused field's pending text into the form. Select
// fields are committed on every cycle, so only free-text fields need this.
func (m *Model) commitInput() {
	field := m.focusedField()
	if field == nil || field.Type == forms.FieldSelect {
		return
	}
	m.form.Set(field.Name, m.input.Value())
	// Dependent fields may have changed shape.
	m.fields = m.form.StepFields(m.form.Step())
}

// cycleOption moves a select field to its previous or next option.
func (m *Model) cycleOption(delta int) {
	field := m.focusedField()
	if field == nil || field.Type != forms.FieldSelect || len(field.Options) == 0 {
		return
	}
	current := m.form.Value(field.Name)
	idx := -1
	for i, opt := range field.Options {
		if opt.Value == current {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = len(field.Options) - 1
	}
	if idx >= len(field.Options) {
		idx = 0
	}
	m.form.Set(field.Name, field.Options[idx].Value)
	m.fields = m.form.StepFields(m.form.Step())
}

func (m *Model) moveFocus(delta int) {
	m.commitInput()
	m.focus += delta
	if m.focus < 0 {
		m.focus = len(m.fields) - 1
	}
	if m.focus >= len(m.fields) {
		m.focus = 0
	}
	m.loadInput()
}

// Init satisfies tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update reacts to key presses and submission results.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case submitResultMsg:
		m.form.EndSubmit()
		if msg.result.OK {
			m.form.Reset()
			m.notice = intake.SuccessMessage
			m.failure = ""
			m.enterStep()
		} else {
			m.failure = msg.result.Message
		}
		return m, nil

	case tea.KeyMsg:
		if m.form.Submitting() {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			m.moveFocus(1)
			return m, nil
		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil
		case "left":
			if f := m.focusedField(); f != nil && f.Type == forms.FieldSelect {
				m.cycleOption(-1)
				return m, nil
			}
		case "right":
			if f := m.focusedField(); f != nil && f.Type == forms.FieldSelect {
				m.cycleOption(1)
				return m, nil
			}
		case "enter", "pgdown":
			m.commitInput()
			if m.form.Step() == intake.StepContact {
				return m, m.submit()
			}
			if m.form.Advance() {
				m.notice = ""
				m.enterStep()
			}
			return m, nil
		case "pgup":
			m.commitInput()
			m.form.Retreat()
			m.enterStep()
			return m, nil
		case "ctrl+r":
			m.form.Reset()
			m.notice = ""
			m.failure = ""
			m.enterStep()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if f := m.focusedField(); f != nil && f.Type != forms.FieldSelect {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// submit validates the whole record and, if clean, sends it in the
// background. The result comes back as a submitResultMsg.
func (m *Model) submit() tea.Cmd {
	if m.form.Submitting() || !m.form.ValidateAll() {
		m.fields = m.form.StepFields(m.form.Step())
		return nil
	}
	payload := m.form.Payload()
	m.form.BeginSubmit()
	m.failure = ""
	return func() tea.Msg {
		return submitResultMsg{result: m.submitter.Submit(context.Background(), payload)}
	}
}

// View renders the current step.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Staff Intake"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderProgress())
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n\n")
	}
	if m.failure != "" {
		b.WriteString(errorStyle.Render(m.failure))
		b.WriteString("\n\n")
	}

	for i, field := range m.fields {
		b.WriteString(m.renderField(field, i == m.focus))
		b.WriteString("\n")
	}

	if m.form.Submitting() {
		b.WriteString(hintStyle.Render("Submitting..."))
	} else {
		b.WriteString(hintStyle.Render(m.renderHint()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderTabs() string {
	var tabs []string
	for step := 1; step <= intake.StepCount(); step++ {
		name := fmt.Sprintf("%d. %s", step, intake.StepName(step))
		if step == m.form.Step() {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, tabStyle.Render(name))
		}
	}
	return strings.Join(tabs, tabStyle.Render("  |  "))
}

func (m *Model) renderProgress() string {
	pct := m.form.Progress()
	return fmt.Sprintf("%s %d%%", m.bar.ViewAs(float64(pct)/100), pct)
}

func (m *Model) renderField(field forms.Field, focused bool) string {
	label := field.Label
	if field.Required {
		label += " *"
	}
	if focused {
		label = focusStyle.Render("> " + label)
	} else {
		label = labelStyle.Render("  " + label)
	}

	var value string
	switch {
	case field.Type == forms.FieldSelect:
		value = m.form.Value(field.Name)
		if value == "" {
			value = tabStyle.Render("(left/right to choose)")
		}
		if focused {
			value = "< " + value + " >"
		}
	case focused:
		value = m.input.View()
	default:
		value = m.form.Value(field.Name)
	}

	line := fmt.Sprintf("%s  %s", label, value)
	if errs := m.form.Errors(field.Name); len(errs) > 0 {
		line += "\n" + errorStyle.Render("      "+errs[0])
	}
	return line
}

func (m *Model) renderHint() string {
	if m.form.Step() == intake.StepContact {
		return "tab/shift+tab move · enter submit · pgup back · ctrl+r reset · esc quit"
	}
	return "tab/shift+tab move · enter next step · pgup back · ctrl+r reset · esc quit"
}
