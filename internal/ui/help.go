package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"viajeia/internal/model"
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(screen model.Screen, mode model.Mode, width int) string {
	switch {
	case screen == model.ScreenSurvey:
		return renderFormHelp(width)
	case mode == model.ModeInsert:
		return renderAskHelp(width)
	}

	switch screen {
	case model.ScreenChat:
		return renderChatHelp(width)
	case model.ScreenFavorites:
		return renderFavoritesHelp(width)
	case model.ScreenFavoriteDetail:
		return renderFavoriteDetailHelp(width)
	default:
		return renderDefaultHelp(width)
	}
}

func renderChatHelp(width int) string {
	keys := []string{
		helpKey("i", "ask"),
		helpKey("j/k", "scroll"),
		helpKey("s", "save favorite"),
		helpKey("p", "export PDF"),
		helpKey("x", "clear history"),
		helpKey("f", "favorites"),
		helpKey("e", "edit trip"),
		helpKey("u/ctrl+r", "undo/redo"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func renderFavoritesHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("tab", "next col"),
		helpKey("s/S", "sort"),
		helpKey("n/N", "filter"),
		helpKey("enter", "details"),
		helpKey("d", "delete"),
		helpKey("u/ctrl+r", "undo/redo"),
		helpKey("b", "back to chat"),
	}
	return renderHelpLine(keys, width)
}

func renderFavoriteDetailHelp(width int) string {
	keys := []string{
		helpKey("h/esc", "back"),
		helpKey("enter", "restore"),
		helpKey("p", "export"),
		helpKey("d", "delete"),
	}
	return renderHelpLine(keys, width)
}

func renderAskHelp(width int) string {
	keys := []string{
		helpKey("enter", "send"),
		helpKey("esc", "done typing"),
	}
	return renderHelpLine(keys, width)
}

func renderFormHelp(width int) string {
	keys := []string{
		helpKey("tab", "next field"),
		helpKey("shift+tab", "prev field"),
		helpKey("←/→", "choose"),
		helpKey("ctrl+s", "save"),
		helpKey("esc", "cancel"),
	}
	return renderHelpLine(keys, width)
}

func renderDefaultHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("h/l", "back/select"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Navigation (Nav Mode)"),
		helpSection([]helpItem{
			{"j / ↓", "Move down / scroll"},
			{"k / ↑", "Move up / scroll"},
			{"h / b / esc", "Go back"},
			{"l / enter", "Open / select"},
			{"gg", "Jump to top"},
			{"G", "Jump to bottom"},
			{"ctrl+d", "Half page down"},
			{"ctrl+u", "Half page up"},
			{"u / ctrl+r", "Undo / redo favorite changes"},
			{"q", "Quit"},
			{"?", "Toggle help"},
		}),
		titleSection("Chat Screen"),
		helpSection([]helpItem{
			{"i / a", "Type a question (enter sends, esc stops typing)"},
			{"s", "Save destination to favorites"},
			{"p", "Export itinerary as PDF"},
			{"x", "Clear conversation history"},
			{"f", "Open favorites"},
			{"e", "Edit trip details"},
		}),
		titleSection("Favorites Screen"),
		helpSection([]helpItem{
			{"tab / shift+tab", "Cycle active column"},
			{"/ then 1-9", "Jump to column"},
			{"s / S", "Sort active column asc/desc"},
			{"c / C", "Hide active column / show all"},
			{"n / N", "Filter by selected value / clear"},
			{"enter / l", "Open favorite"},
			{"d then y", "Delete favorite"},
		}),
		titleSection("Favorite Detail"),
		helpSection([]helpItem{
			{"enter / r", "Restore trip and conversation"},
			{"p", "Export saved itinerary as PDF"},
			{"d then y", "Delete favorite"},
		}),
		titleSection("Trip Survey"),
		helpSection([]helpItem{
			{"tab / ↓", "Next field"},
			{"shift+tab / ↑", "Previous field"},
			{"← / →", "Choose budget or preference"},
			{"enter", "Next field, or submit on the last one"},
			{"ctrl+s", "Submit"},
			{"esc", "Cancel"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
