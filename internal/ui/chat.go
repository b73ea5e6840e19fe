package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"viajeia/internal/session"
	"viajeia/internal/util"
)

const welcomeMessage = `Hi! I'm ViajeIA, your personal travel assistant.

Ask me anything about your trip: where to stay, what to eat,
must-see places, local tips or what it will cost.

You can refer back to the last place we talked about,
e.g. "what's the weather like there?".`

const historyPreviewLines = 3

// ChatModel is the question box and the conversation view.
type ChatModel struct {
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	previews map[string]string
	width    int
	height   int
}

// NewChatModel creates an empty chat view.
func NewChatModel() *ChatModel {
	input := textinput.New()
	input.Placeholder = "Ask about your trip..."
	input.CharLimit = 500
	input.Prompt = "› "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &ChatModel{
		input:    input,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		previews: make(map[string]string),
	}
}

// Focus puts the cursor in the question box.
func (c *ChatModel) Focus() tea.Cmd {
	return c.input.Focus()
}

// Blur removes the cursor from the question box.
func (c *ChatModel) Blur() {
	c.input.Blur()
}

// Question returns the trimmed question text.
func (c *ChatModel) Question() string {
	return strings.TrimSpace(c.input.Value())
}

// Reset clears the question box.
func (c *ChatModel) Reset() {
	c.input.Reset()
}

// ClearPreviews drops the photo previews, e.g. when a new answer arrives.
func (c *ChatModel) ClearPreviews() {
	c.previews = make(map[string]string)
}

// SetPreview stores the terminal rendering of a photo.
func (c *ChatModel) SetPreview(url, art string) {
	c.previews[url] = art
}

// UpdateInput forwards a message to the question box.
func (c *ChatModel) UpdateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// UpdateViewport forwards a message to the conversation view.
func (c *ChatModel) UpdateViewport(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return cmd
}

// UpdateSpinner advances the loading spinner.
func (c *ChatModel) UpdateSpinner(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	c.spinner, cmd = c.spinner.Update(msg)
	return cmd
}

// Refresh re-renders the conversation into the viewport.
func (c *ChatModel) Refresh(s *session.Session, width, height int) {
	c.width, c.height = width, height
	c.viewport.Width = width
	c.viewport.Height = max(1, height-3)
	c.input.Width = max(10, width-4)
	c.viewport.SetContent(c.renderConversation(s, width))
}

// View renders the conversation and the question box.
func (c *ChatModel) View(s *session.Session) string {
	status := ""
	if s.Loading() {
		status = HelpDescStyle.Render(c.spinner.View() + " Planning your trip...")
	}
	box := BorderStyle.Padding(0, 1).Width(max(10, c.width-2)).Render(c.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, c.viewport.View(), status, box)
}

func (c *ChatModel) renderConversation(s *session.Session, width int) string {
	textStyle := NormalRowStyle.Width(max(10, width-2))

	if !s.HasContent() {
		return textStyle.Render(welcomeMessage)
	}

	var blocks []string
	if entry, ok := s.Displayed(); ok {
		question := entry.Question
		if question == "" {
			question = "Initial query"
		}
		blocks = append(blocks,
			QuestionStyle.Render(question)+"  "+TimestampStyle.Render(entry.Timestamp),
			renderAnswer(entry.Answer, textStyle),
		)
		if previews := c.renderPreviews(entry.Photos); previews != "" {
			blocks = append(blocks, previews)
		}
	}

	entries := s.Conversation().Entries()
	if len(entries) > 0 {
		blocks = append(blocks, "", LabelStyle.Render(fmt.Sprintf("Conversation history (%d)", len(entries))))
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			blocks = append(blocks, QuestionStyle.Render(fmt.Sprintf("%d. %s", i+1, e.Question))+"  "+TimestampStyle.Render(e.Timestamp))
			for _, line := range util.FirstLines(e.Answer, historyPreviewLines) {
				blocks = append(blocks, HelpDescStyle.Render("   "+util.TruncateString(line, max(10, width-6))))
			}
		}
	}
	return strings.Join(blocks, "\n")
}

func renderAnswer(answer string, style lipgloss.Style) string {
	var lines []string
	for _, line := range strings.Split(answer, "\n") {
		trimmed := strings.TrimSpace(line)
		if isSectionLine(trimmed) {
			lines = append(lines, "", SectionStyle.Render(trimmed))
			continue
		}
		lines = append(lines, style.Render(line))
	}
	return strings.Join(lines, "\n")
}

var sectionPrefixes = []string{
	"LODGING:", "LOCAL FOOD:", "MUST-SEE PLACES:", "LOCAL TIPS:", "COST ESTIMATE:",
	"ALOJAMIENTO:", "COMIDA LOCAL:", "LUGARES IMPERDIBLES:", "CONSEJOS LOCALES:", "ESTIMACIÓN DE COSTOS:",
}

func isSectionLine(line string) bool {
	upper := strings.ToUpper(line)
	for _, p := range sectionPrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

func (c *ChatModel) renderPreviews(photos []string) string {
	var tiles []string
	for _, url := range firstN(photos, previewCount) {
		if art, ok := c.previews[url]; ok && art != "" {
			tiles = append(tiles, art)
		}
	}
	if len(tiles) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// displayedPhotos returns the photos of the answer on screen.
func displayedPhotos(s *session.Session) []string {
	entry, ok := s.Displayed()
	if !ok {
		return nil
	}
	return entry.Photos
}
