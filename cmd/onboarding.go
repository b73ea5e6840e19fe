package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"viajeia/internal/planner"
)

type OnboardingSettings struct {
	Completed     bool   `json:"completed"`
	APIURL        string `json:"api_url,omitempty"`
	PhotoPreviews bool   `json:"photo_previews"`
}

func onboardingPath(configDir string) string {
	return filepath.Join(configDir, "onboarding.json")
}

func loadOnboardingSettings(configDir string) (OnboardingSettings, error) {
	path := onboardingPath(configDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return OnboardingSettings{PhotoPreviews: true}, nil
		}
		return OnboardingSettings{}, err
	}

	var settings OnboardingSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return OnboardingSettings{}, err
	}
	return settings, nil
}

func saveOnboardingSettings(configDir string, settings OnboardingSettings) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(onboardingPath(configDir), data, 0644)
}

func shouldRunOnboarding(settings OnboardingSettings) bool {
	if settings.Completed {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

type onboardingStep int

const (
	stepService onboardingStep = iota
	stepURL
	stepPreviews
	stepDone
)

type onboardingModel struct {
	step       onboardingStep
	useCurrent bool
	previews   bool
	currentURL string
	urlInput   textinput.Model
	settings   OnboardingSettings
	status     string
	width      int
	height     int
}

var (
	obColorMuted  = lipgloss.Color("#6B7280")
	obColorText   = lipgloss.Color("#E5E7EB")
	obColorAccent = lipgloss.Color("#3B82F6")
	obColorDanger = lipgloss.Color("#f38ba8")

	obTitleStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obHeaderStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabsStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabInactive = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 2)

	obTabActive = lipgloss.NewStyle().
			Foreground(obColorText).
			Bold(true).
			Underline(true).
			Padding(0, 2)

	obPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(obColorMuted).
			Padding(1, 2)

	obInputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(obColorAccent).
			Padding(0, 1)

	obLabelStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obMutedStyle = lipgloss.NewStyle().
			Foreground(obColorMuted)

	obOptionStyle = lipgloss.NewStyle().
			Foreground(obColorText)

	obOptionSelected = lipgloss.NewStyle().
				Foreground(obColorAccent).
				Bold(true)

	obWarnStyle = lipgloss.NewStyle().
			Foreground(obColorDanger)

	obFooterStyle = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(obColorMuted)
)

func newOnboardingModel(currentURL string) onboardingModel {
	in := textinput.New()
	in.Placeholder = planner.DefaultBaseURL
	in.CharLimit = 300
	in.Prompt = "url> "
	in.TextStyle = lipgloss.NewStyle().Foreground(obColorText)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(obColorMuted)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(obColorText).Background(obColorAccent)
	in.Focus()

	return onboardingModel{
		step:       stepService,
		useCurrent: true,
		previews:   true,
		currentURL: planner.NormalizeBaseURL(currentURL),
		urlInput:   in,
		settings: OnboardingSettings{
			Completed:     true,
			PhotoPreviews: true,
		},
	}
}

func (m onboardingModel) Init() tea.Cmd { return nil }

func (m onboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch m.step {
		case stepService:
			switch msg.String() {
			case "y", "Y":
				m.useCurrent = true
				return m.nextStep()
			case "n", "N":
				m.useCurrent = false
				return m.nextStep()
			case "up", "k", "left", "h":
				m.useCurrent = true
				return m, nil
			case "down", "j", "right", "l":
				m.useCurrent = false
				return m, nil
			case "enter":
				// Enter commits the currently selected option
				return m.nextStep()
			case "ctrl+c", "q":
				return m.cancel()
			default:
				return m, nil
			}
		case stepURL:
			switch msg.String() {
			case "enter":
				raw := strings.TrimSpace(m.urlInput.Value())
				if raw == "" {
					m.status = "No address entered, using " + m.currentURL + "."
				} else {
					m.settings.APIURL = planner.NormalizeBaseURL(raw)
					m.status = "Planning service set to " + m.settings.APIURL + "."
				}
				m.step = stepPreviews
				return m, nil
			case "esc":
				m.status = "Kept " + m.currentURL + "."
				m.step = stepPreviews
				return m, nil
			case "ctrl+c":
				return m.cancel()
			}
			var cmd tea.Cmd
			m.urlInput, cmd = m.urlInput.Update(msg)
			return m, cmd
		case stepPreviews:
			switch msg.String() {
			case "y", "Y":
				m.previews = true
				return m.finish()
			case "n", "N":
				m.previews = false
				return m.finish()
			case "up", "k", "left", "h":
				m.previews = true
				return m, nil
			case "down", "j", "right", "l":
				m.previews = false
				return m, nil
			case "enter":
				return m.finish()
			case "ctrl+c", "q":
				return m.cancel()
			}
		}
	}
	return m, nil
}

func (m onboardingModel) nextStep() (tea.Model, tea.Cmd) {
	if m.useCurrent {
		m.status = "Using " + m.currentURL + "."
		m.step = stepPreviews
		return m, nil
	}
	m.step = stepURL
	return m, textinput.Blink
}

func (m onboardingModel) finish() (tea.Model, tea.Cmd) {
	m.settings.PhotoPreviews = m.previews
	m.step = stepDone
	return m, tea.Quit
}

func (m onboardingModel) cancel() (tea.Model, tea.Cmd) {
	m.settings.APIURL = ""
	m.settings.PhotoPreviews = true
	m.status = "Setup canceled. Defaults kept."
	m.step = stepDone
	return m, tea.Quit
}

func (m onboardingModel) View() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 28
	}

	header := m.renderHeader(width)
	tabs := m.renderTabs(width)
	footer := m.renderFooter(width)

	contentHeight := max(8, height-6)
	content := m.renderContent(width, contentHeight)
	ui := lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, footer)

	return lipgloss.NewStyle().
		Foreground(obColorText).
		Width(width).
		Height(height).
		Render(ui)
}

func (m onboardingModel) renderHeader(width int) string {
	left := "  " + obTitleStyle.Render("ViajeIA") + " " + obMutedStyle.Render("› Setup")
	right := obMutedStyle.Render(time.Now().Format("Mon 02 Jan")) + "  "
	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return obHeaderStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m onboardingModel) renderTabs(width int) string {
	tabs := []struct {
		label string
		steps []onboardingStep
	}{
		{"Planning service", []onboardingStep{stepService, stepURL}},
		{"Photo previews", []onboardingStep{stepPreviews}},
	}
	rendered := []string{"  "}
	for _, tab := range tabs {
		style := obTabInactive
		for _, s := range tab.steps {
			if s == m.step {
				style = obTabActive
			}
		}
		rendered = append(rendered, style.Render(tab.label))
	}
	return obTabsStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Left, rendered...))
}

func (m onboardingModel) renderFooter(width int) string {
	switch m.step {
	case stepService, stepPreviews:
		return obFooterStyle.Width(width).Render("↑↓/jk to navigate  y/n enter to confirm  q cancel")
	case stepURL:
		return obFooterStyle.Width(width).Render("enter save  esc keep current  ctrl+c cancel")
	default:
		return obFooterStyle.Width(width).Render("Setup complete")
	}
}

func renderChoice(selected bool, yes, no string) (string, string) {
	if selected {
		return "  " + obOptionSelected.Render("→ "+yes), "    " + obOptionStyle.Render(no)
	}
	return "    " + obOptionStyle.Render(yes), "  " + obOptionSelected.Render("→ "+no)
}

func (m onboardingModel) renderContent(width, height int) string {
	cardWidth := min(92, width-6)
	if cardWidth < 40 {
		cardWidth = width - 2
	}

	var body string
	switch m.step {
	case stepService:
		yes, no := renderChoice(m.useCurrent, "Use "+m.currentURL, "Enter a different address")
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			obLabelStyle.Render("Where is the ViajeIA planning service running?"),
			"",
			yes,
			no,
			"",
			obMutedStyle.Render("Use arrow keys or j/k to navigate, y/n or Enter to confirm"),
			obMutedStyle.Render("-api-url and VIAJEIA_API_URL always take precedence."),
		)
	case stepURL:
		input := obInputStyle.Width(max(30, cardWidth-14)).Render(m.urlInput.View())
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			obLabelStyle.Render("Planning service address"),
			"",
			obMutedStyle.Render("The service answers POST /api/planificar and GET /api/info-panel."),
			obMutedStyle.Render("Example: http://localhost:8000"),
			"",
			input,
			"",
			obMutedStyle.Render("Press Enter to save, Esc to keep the current address."),
		)
	case stepPreviews:
		yes, no := renderChoice(m.previews, "Show photo previews in the chat", "Text only")
		lines := []string{
			obLabelStyle.Render("Render answer photos as terminal art?"),
			"",
			yes,
			no,
			"",
			obMutedStyle.Render("Exported PDF itineraries always include the photos."),
		}
		if m.status != "" {
			lines = append(lines, "", obMutedStyle.Render(m.status))
		}
		body = lipgloss.JoinVertical(lipgloss.Left, lines...)
	default:
		msg := obMutedStyle.Render(m.status)
		if strings.Contains(strings.ToLower(m.status), "canceled") {
			msg = obWarnStyle.Render(m.status)
		}
		body = lipgloss.JoinVertical(lipgloss.Left,
			obLabelStyle.Render("Setup Complete"), "", msg, "",
			obMutedStyle.Render("You can change this later in ~/.viajeia/onboarding.json"),
		)
	}

	card := obPanelStyle.Width(cardWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func runOnboarding(configDir string, currentURL string) (OnboardingSettings, error) {
	model := newOnboardingModel(currentURL)
	prog := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return OnboardingSettings{}, fmt.Errorf("onboarding tui failed: %w", err)
	}
	m, ok := finalModel.(onboardingModel)
	if !ok {
		return OnboardingSettings{}, fmt.Errorf("unexpected onboarding model type")
	}
	if err := saveOnboardingSettings(configDir, m.settings); err != nil {
		return OnboardingSettings{}, err
	}
	return m.settings, nil
}
