package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"viajeia/internal/model"
	"viajeia/internal/util"
)

// FavoriteDetailModel represents the saved trip detail screen.
type FavoriteDetailModel struct {
	favorite   model.Favorite
	confirming bool
}

// NewFavoriteDetailModel creates a new favorite detail model.
func NewFavoriteDetailModel(fav model.Favorite) *FavoriteDetailModel {
	return &FavoriteDetailModel{favorite: fav}
}

// View renders the favorite detail.
func (m *FavoriteDetailModel) View(width, height int) string {
	shortcuts := HelpDescStyle.Render("enter restore  p export  d delete  h back")
	if m.confirming {
		shortcuts = ErrorStyle.Render(fmt.Sprintf("Delete %s? press y to confirm", m.favorite.Destination))
	}
	header := lipgloss.NewStyle().
		Width(width - 4).
		Align(lipgloss.Right).
		Render(shortcuts)

	var sections []string

	var fields []string
	fields = append(fields, renderField("Destination", m.favorite.Destination))
	fields = append(fields, renderField("Date", util.FormatDate(m.favorite.Date)))
	fields = append(fields, renderField("Budget", m.favorite.Budget.Label()))
	fields = append(fields, renderField("Preference", m.favorite.Preference.Label()))
	fields = append(fields, renderField("Saved", util.FormatSavedAt(m.favorite.SavedAt)))
	if len(m.favorite.Photos) > 0 {
		fields = append(fields, renderField("Photos", fmt.Sprintf("%d", len(m.favorite.Photos))))
	}
	sections = append(sections, strings.Join(fields, "\n"))

	divider := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Render(strings.Repeat("─", max(0, width-8)))
	sections = append(sections, divider)

	if len(m.favorite.History) == 0 {
		sections = append(sections, HelpDescStyle.Render("No saved queries."))
	} else {
		lines := []string{LabelStyle.Render(fmt.Sprintf("Queries (%d):", len(m.favorite.History)))}
		for i, e := range m.favorite.History {
			lines = append(lines, fmt.Sprintf("  %d. %s  %s", i+1,
				util.TruncateString(e.Question, max(10, width-24)),
				TimestampStyle.Render(e.Timestamp)))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	info := PanelStyle.
		Width(width - 4).
		Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(lipgloss.Left, header, info)
}

func renderField(label, value string) string {
	if strings.TrimSpace(value) == "" {
		value = "—"
	}
	return LabelStyle.Render(label+":") + " " + NormalRowStyle.Render(value)
}
