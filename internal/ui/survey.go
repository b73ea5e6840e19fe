package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"viajeia/internal/model"
	"viajeia/internal/util"
)

const (
	fieldDestination = iota
	fieldDate
	fieldBudget
	fieldPreference
	surveyFieldCount
)

// SurveyModel is the trip survey form.
type SurveyModel struct {
	keys         FormKeyMap
	focusedField int
	inputs       []textinput.Model
	budget       int // index into model.Budgets, -1 when unset
	preference   int // index into model.Preferences, -1 when unset
	error        string
	now          func() time.Time
}

// NewSurveyModel creates the survey prefilled from profile.
func NewSurveyModel(profile model.TripProfile) *SurveyModel {
	inputs := make([]textinput.Model, 2)

	// Destination
	inputs[0] = textinput.New()
	inputs[0].Placeholder = "e.g. Buenos Aires"
	inputs[0].Focus()
	inputs[0].CharLimit = 100
	inputs[0].SetValue(profile.Destination)

	// Date
	inputs[1] = textinput.New()
	inputs[1].Placeholder = "YYYY-MM-DD"
	inputs[1].CharLimit = 20
	inputs[1].SetValue(profile.Date)

	m := &SurveyModel{
		keys:       DefaultFormKeyMap(),
		inputs:     inputs,
		budget:     -1,
		preference: -1,
		now:        time.Now,
	}
	for i, b := range model.Budgets {
		if b == profile.Budget {
			m.budget = i
		}
	}
	for i, p := range model.Preferences {
		if p == profile.Preference {
			m.preference = i
		}
	}
	return m
}

// Update handles input.
func (m SurveyModel) Update(msg tea.Msg) (SurveyModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.focusedField < len(m.inputs) {
			var cmd tea.Cmd
			m.inputs[m.focusedField], cmd = m.inputs[m.focusedField].Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		return m, func() tea.Msg {
			return model.FormCancelledMsg{}
		}
	case key.Matches(keyMsg, m.keys.Save):
		return m, m.submit()
	case key.Matches(keyMsg, m.keys.Send):
		if m.focusedField == surveyFieldCount-1 {
			return m, m.submit()
		}
		m.nextField()
		return m, nil
	case key.Matches(keyMsg, m.keys.NextField):
		m.nextField()
		return m, nil
	case key.Matches(keyMsg, m.keys.PrevField):
		m.prevField()
		return m, nil
	}

	switch m.focusedField {
	case fieldBudget:
		m.budget = cycleOption(m.budget, len(model.Budgets), keyMsg, m.keys)
		return m, nil
	case fieldPreference:
		m.preference = cycleOption(m.preference, len(model.Preferences), keyMsg, m.keys)
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focusedField], cmd = m.inputs[m.focusedField].Update(keyMsg)
	return m, cmd
}

func cycleOption(current, count int, msg tea.KeyMsg, keys FormKeyMap) int {
	switch {
	case key.Matches(msg, keys.NextOpt):
		return (current + 1) % count
	case key.Matches(msg, keys.PrevOpt):
		if current <= 0 {
			return count - 1
		}
		return current - 1
	}
	return current
}

// Profile returns the profile as currently entered, unvalidated.
func (m *SurveyModel) Profile() model.TripProfile {
	p := model.TripProfile{
		Destination: strings.TrimSpace(m.inputs[0].Value()),
		Date:        strings.TrimSpace(m.inputs[1].Value()),
	}
	if m.budget >= 0 {
		p.Budget = model.Budgets[m.budget]
	}
	if m.preference >= 0 {
		p.Preference = model.Preferences[m.preference]
	}
	return p
}

// validate checks every field; all are required.
func (m *SurveyModel) validate() (model.TripProfile, error) {
	p := m.Profile()
	if p.Destination == "" {
		return p, fmt.Errorf("destination is required")
	}
	date, err := util.ParseTripDateInput(p.Date, m.now())
	if err != nil {
		return p, err
	}
	p.Date = date
	if p.Budget == "" {
		return p, fmt.Errorf("choose a budget")
	}
	if p.Preference == "" {
		return p, fmt.Errorf("choose a travel preference")
	}
	return p, nil
}

func (m *SurveyModel) submit() tea.Cmd {
	profile, err := m.validate()
	if err != nil {
		m.error = err.Error()
		return nil
	}
	m.error = ""
	return func() tea.Msg {
		return model.SurveySubmittedMsg{Profile: profile}
	}
}

// View renders the form.
func (m *SurveyModel) View(width, height int) string {
	var fields []string

	fields = append(fields, LabelStyle.Render("Tell me about your trip"))
	fields = append(fields, renderFormField("Destination *", m.inputs[0], m.focusedField == fieldDestination))
	fields = append(fields, renderFormField("Travel date *", m.inputs[1], m.focusedField == fieldDate))
	fields = append(fields, renderOptionField("Budget *", budgetLabels(), m.budget, m.focusedField == fieldBudget))
	fields = append(fields, renderOptionField("Preference *", preferenceLabels(), m.preference, m.focusedField == fieldPreference))

	if m.error != "" {
		fields = append(fields, ErrorStyle.Render(m.error))
	}

	return PanelStyle.
		Width(width - 4).
		Height(height - 4).
		Render(strings.Join(fields, "\n"))
}

func (m *SurveyModel) nextField() {
	m.blur()
	m.focusedField = (m.focusedField + 1) % surveyFieldCount
	m.focus()
}

func (m *SurveyModel) prevField() {
	m.blur()
	m.focusedField--
	if m.focusedField < 0 {
		m.focusedField = surveyFieldCount - 1
	}
	m.focus()
}

func (m *SurveyModel) blur() {
	if m.focusedField < len(m.inputs) {
		m.inputs[m.focusedField].Blur()
	}
}

func (m *SurveyModel) focus() {
	if m.focusedField < len(m.inputs) {
		m.inputs[m.focusedField].Focus()
	}
}

func budgetLabels() []string {
	labels := make([]string, len(model.Budgets))
	for i, b := range model.Budgets {
		labels[i] = b.Label()
	}
	return labels
}

func preferenceLabels() []string {
	labels := make([]string, len(model.Preferences))
	for i, p := range model.Preferences {
		labels[i] = p.Label()
	}
	return labels
}

func renderFormField(label string, input textinput.Model, focused bool) string {
	style := BorderStyle
	if focused {
		style = ActiveBorderStyle
	}

	field := lipgloss.JoinVertical(
		lipgloss.Left,
		LabelStyle.Render(label),
		input.View(),
	)

	return style.Render(field)
}

func renderOptionField(label string, options []string, selected int, focused bool) string {
	style := BorderStyle
	if focused {
		style = ActiveBorderStyle
	}

	var opts []string
	for i, o := range options {
		if i == selected {
			opts = append(opts, SelectedRowStyle.Render(" "+o+" "))
			continue
		}
		opts = append(opts, HelpDescStyle.Render(" "+o+" "))
	}

	field := lipgloss.JoinVertical(
		lipgloss.Left,
		LabelStyle.Render(label),
		strings.Join(opts, " "),
	)
	return style.Render(field)
}
