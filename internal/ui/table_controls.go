package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type tableController interface {
	NextColumn()
	PrevColumn()
	JumpToColumn(number int) bool
	SortActiveColumn(desc bool)
	HideActiveColumn() bool
	ShowAllColumns()
	FilterBySelectedValue() bool
	ClearFilter() bool
	TableMeta() string
}

const tableSeparator = " │ "

func tableSeparatorWidth() int {
	return lipgloss.Width(tableSeparator)
}

func formatHeaderLabel(label string) string {
	return strings.ToUpper(label)
}

func renderActiveHeaderLabel(label string) string {
	return "[" + label + "]"
}

// renderTableRow renders cells left aligned.
func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	aligns := make([]lipgloss.Position, len(cells))
	for i := range aligns {
		aligns[i] = lipgloss.Left
	}
	return renderTableRowWithAligns(cells, widths, aligns, style)
}

func renderTableRowWithAligns(cells []string, widths []int, aligns []lipgloss.Position, style lipgloss.Style) string {
	var parts []string
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		align := lipgloss.Left
		if i < len(aligns) {
			align = aligns[i]
		}
		parts = append(parts, style.Width(widths[i]).MaxWidth(widths[i]).Align(align).Render(cell))
	}
	return strings.Join(parts, style.Render(tableSeparator))
}

func renderTableDivider(widths []int) string {
	var parts []string
	for _, w := range widths {
		parts = append(parts, strings.Repeat("─", w))
	}
	return HelpDescStyle.Render(strings.Join(parts, "─┼─"))
}
