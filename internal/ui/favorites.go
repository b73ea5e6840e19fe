package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"viajeia/internal/model"
	"viajeia/internal/util"
)

type favoritesColumn struct {
	key    string
	label  string
	width  int
	hidden bool
}

// FavoritesModel represents the saved trips list screen.
type FavoritesModel struct {
	allEntries []model.Favorite
	entries    []model.Favorite
	cursor     int
	offset     int

	columns      []favoritesColumn
	activeColumn int
	sortKey      string
	sortDesc     bool
	filterKey    string
	filterValue  string

	// confirmID is the favorite awaiting delete confirmation.
	confirmID string
}

// NewFavoritesModel creates a new favorites list model.
func NewFavoritesModel(entries []model.Favorite) *FavoritesModel {
	return &FavoritesModel{
		allEntries: append([]model.Favorite(nil), entries...),
		entries:    append([]model.Favorite(nil), entries...),
		columns: []favoritesColumn{
			{key: "destination", label: "destination", width: 22},
			{key: "date", label: "date", width: 14},
			{key: "budget", label: "budget", width: 22},
			{key: "preference", label: "preference", width: 12},
			{key: "queries", label: "queries", width: 8},
			{key: "saved", label: "saved", width: 16},
		},
	}
}

// SetEntries replaces the rows, keeping sort, filter and cursor.
func (m *FavoritesModel) SetEntries(entries []model.Favorite) {
	m.allEntries = append([]model.Favorite(nil), entries...)
	m.rebuild()
}

func (m *FavoritesModel) ApplyPrefs(prefs TablePrefs) {
	if prefs.SortKey != "" {
		m.sortKey = prefs.SortKey
		m.sortDesc = prefs.SortDesc
	}
	hidden := make(map[string]bool, len(prefs.HiddenColumns))
	for _, c := range prefs.HiddenColumns {
		hidden[c] = true
	}
	for i := range m.columns {
		m.columns[i].hidden = hidden[m.columns[i].key]
	}
	if prefs.ActiveColumn != "" {
		for i, c := range m.columns {
			if c.key == prefs.ActiveColumn {
				m.activeColumn = i
				break
			}
		}
	}
	m.ensureVisibleActiveColumn()
	m.rebuild()
}

func (m *FavoritesModel) Prefs() TablePrefs {
	var hidden []string
	for _, c := range m.columns {
		if c.hidden {
			hidden = append(hidden, c.key)
		}
	}
	return TablePrefs{
		SortKey:       m.sortKey,
		SortDesc:      m.sortDesc,
		HiddenColumns: hidden,
		ActiveColumn:  m.columns[m.activeColumn].key,
	}
}

func (m *FavoritesModel) rebuild() {
	entries := append([]model.Favorite(nil), m.allEntries...)

	if m.filterKey != "" && m.filterValue != "" {
		filtered := make([]model.Favorite, 0, len(entries))
		target := strings.ToLower(strings.TrimSpace(m.filterValue))
		for _, r := range entries {
			if strings.EqualFold(strings.TrimSpace(m.getValue(r, m.filterKey)), target) {
				filtered = append(filtered, r)
			}
		}
		entries = filtered
	}

	if m.sortKey != "" {
		sort.SliceStable(entries, func(i, j int) bool {
			left := strings.ToLower(m.getValue(entries[i], m.sortKey))
			right := strings.ToLower(m.getValue(entries[j], m.sortKey))
			if left == right {
				return entries[i].SavedAt.After(entries[j].SavedAt)
			}
			if m.sortDesc {
				return left > right
			}
			return left < right
		})
	}

	m.entries = entries
	m.clampCursor()
}

func (m *FavoritesModel) clampCursor() {
	if len(m.entries) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
}

func (m *FavoritesModel) getValue(row model.Favorite, key string) string {
	switch key {
	case "destination":
		return row.Destination
	case "date":
		return row.Date
	case "budget":
		return string(row.Budget)
	case "preference":
		return row.Preference.Label()
	case "queries":
		return fmt.Sprintf("%04d", len(row.History))
	case "saved":
		return row.SavedAt.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

func (m *FavoritesModel) visibleColumnIndexes() []int {
	var idxs []int
	for i, c := range m.columns {
		if !c.hidden {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (m *FavoritesModel) ensureVisibleActiveColumn() {
	if !m.columns[m.activeColumn].hidden {
		return
	}
	for i := range m.columns {
		if !m.columns[i].hidden {
			m.activeColumn = i
			return
		}
	}
	m.columns[0].hidden = false
	m.activeColumn = 0
}

func (m *FavoritesModel) NextColumn() {
	start := m.activeColumn
	for {
		m.activeColumn = (m.activeColumn + 1) % len(m.columns)
		if !m.columns[m.activeColumn].hidden || m.activeColumn == start {
			return
		}
	}
}

func (m *FavoritesModel) PrevColumn() {
	start := m.activeColumn
	for {
		m.activeColumn--
		if m.activeColumn < 0 {
			m.activeColumn = len(m.columns) - 1
		}
		if !m.columns[m.activeColumn].hidden || m.activeColumn == start {
			return
		}
	}
}

func (m *FavoritesModel) JumpToColumn(number int) bool {
	if number < 1 || number > len(m.columns) {
		return false
	}
	idx := number - 1
	if m.columns[idx].hidden {
		return false
	}
	m.activeColumn = idx
	return true
}

func (m *FavoritesModel) SortActiveColumn(desc bool) {
	m.sortKey = m.columns[m.activeColumn].key
	m.sortDesc = desc
	m.rebuild()
}

func (m *FavoritesModel) HideActiveColumn() bool {
	if len(m.visibleColumnIndexes()) <= 1 {
		return false
	}
	m.columns[m.activeColumn].hidden = true
	m.ensureVisibleActiveColumn()
	return true
}

func (m *FavoritesModel) ShowAllColumns() {
	for i := range m.columns {
		m.columns[i].hidden = false
	}
}

func (m *FavoritesModel) FilterBySelectedValue() bool {
	if len(m.entries) == 0 {
		return false
	}
	key := m.columns[m.activeColumn].key
	value := strings.TrimSpace(m.getValue(m.entries[m.cursor], key))
	if value == "" {
		return false
	}
	m.filterKey = key
	m.filterValue = value
	m.rebuild()
	return true
}

func (m *FavoritesModel) ClearFilter() bool {
	if m.filterKey == "" {
		return false
	}
	m.filterKey = ""
	m.filterValue = ""
	m.rebuild()
	return true
}

func (m *FavoritesModel) TableMeta() string {
	col := strings.ToUpper(m.columns[m.activeColumn].label)
	parts := []string{fmt.Sprintf("col %s", col)}
	if m.sortKey != "" {
		order := "asc"
		if m.sortDesc {
			order = "desc"
		}
		parts = append(parts, fmt.Sprintf("sort %s %s", strings.ToUpper(m.sortKey), order))
	}
	if m.filterKey != "" {
		parts = append(parts, fmt.Sprintf("filter %s=%q", strings.ToUpper(m.filterKey), m.filterValue))
	}
	return strings.Join(parts, "  ·  ")
}

// CursorDown moves the cursor down.
func (m *FavoritesModel) CursorDown() {
	if m.cursor < len(m.entries)-1 {
		m.cursor++
		if m.cursor >= m.offset+10 {
			m.offset++
		}
	}
}

// CursorUp moves the cursor up.
func (m *FavoritesModel) CursorUp() {
	if m.cursor > 0 {
		m.cursor--
		if m.cursor < m.offset {
			m.offset--
		}
	}
}

// JumpToTop jumps to the top of the list.
func (m *FavoritesModel) JumpToTop() {
	m.cursor = 0
	m.offset = 0
}

// JumpToBottom jumps to the bottom of the list.
func (m *FavoritesModel) JumpToBottom() {
	if len(m.entries) > 0 {
		m.cursor = len(m.entries) - 1
		if m.cursor >= 10 {
			m.offset = m.cursor - 9
		}
	}
}

// SelectedEntry returns the currently selected favorite.
func (m *FavoritesModel) SelectedEntry() *model.Favorite {
	if len(m.entries) == 0 || m.cursor >= len(m.entries) {
		return nil
	}
	return &m.entries[m.cursor]
}

// RequestDelete arms the delete confirmation for the selected favorite.
func (m *FavoritesModel) RequestDelete() (model.Favorite, bool) {
	entry := m.SelectedEntry()
	if entry == nil {
		return model.Favorite{}, false
	}
	m.confirmID = entry.ID
	return *entry, true
}

// ConfirmingDelete returns the id awaiting confirmation, if any.
func (m *FavoritesModel) ConfirmingDelete() (string, bool) {
	return m.confirmID, m.confirmID != ""
}

// CancelDelete disarms the delete confirmation.
func (m *FavoritesModel) CancelDelete() {
	m.confirmID = ""
}

// View renders the favorites list.
func (m *FavoritesModel) View(width, height int) string {
	if len(m.entries) == 0 {
		emptyMsg := `    You haven't saved any destinations yet.
    Press  s  in the chat after a query to save one.`
		return EmptyStateStyle.
			Width(width).
			Height(height).
			Render(emptyMsg)
	}

	visible := m.visibleColumnIndexes()
	if len(visible) == 0 {
		return EmptyStateStyle.Width(width).Height(height).Render("No visible columns. Press C to show all columns.")
	}

	widths := make([]int, 0, len(visible))
	headers := make([]string, 0, len(visible))
	totalFixed := 0
	for _, idx := range visible {
		col := m.columns[idx]
		label := formatHeaderLabel(col.label)
		if idx == m.activeColumn {
			label = renderActiveHeaderLabel(label)
		}
		if m.sortKey == col.key {
			if m.sortDesc {
				label += " ↓"
			} else {
				label += " ↑"
			}
		}
		cellWidth := max(col.width+2, lipgloss.Width(label)+4)
		totalFixed += cellWidth
		widths = append(widths, cellWidth)
		headers = append(headers, label)
	}
	if len(widths) > 0 {
		sepTotal := (len(widths) - 1) * tableSeparatorWidth()
		extra := width - totalFixed - sepTotal - 2
		if extra > 0 {
			widths[len(widths)-1] += extra
		}
	}

	header := renderTableRow(headers, widths, TableHeaderStyle)
	divider := renderTableDivider(widths)

	visibleHeight := height - 4
	var rows []string
	for i := m.offset; i < len(m.entries) && i < m.offset+visibleHeight; i++ {
		entry := m.entries[i]
		style := NormalRowStyle
		if i == m.cursor {
			style = SelectedRowStyle
		}

		cells := make([]string, 0, len(visible))
		aligns := make([]lipgloss.Position, 0, len(visible))
		for _, idx := range visible {
			col := m.columns[idx]
			switch col.key {
			case "destination":
				cells = append(cells, util.TruncateString(entry.Destination, col.width))
				aligns = append(aligns, lipgloss.Left)
			case "date":
				cells = append(cells, util.FormatDate(entry.Date))
				aligns = append(aligns, lipgloss.Center)
			case "budget":
				budget := "—"
				if entry.Budget != "" {
					budget = entry.Budget.Label()
				}
				cells = append(cells, util.TruncateString(budget, col.width))
				aligns = append(aligns, lipgloss.Left)
			case "preference":
				pref := entry.Preference.Label()
				if pref == "" {
					pref = "—"
				}
				cells = append(cells, pref)
				aligns = append(aligns, lipgloss.Center)
			case "queries":
				cells = append(cells, fmt.Sprintf("%d", len(entry.History)))
				aligns = append(aligns, lipgloss.Right)
			case "saved":
				cells = append(cells, util.FormatSavedAt(entry.SavedAt))
				aligns = append(aligns, lipgloss.Right)
			}
		}

		rows = append(rows, renderTableRowWithAligns(cells, widths, aligns, style))
	}

	filterInfo := ""
	if m.filterKey != "" {
		filterInfo = fmt.Sprintf("  ·  filtered: %d/%d", len(m.entries), len(m.allEntries))
	}
	meta := m.TableMeta()
	if meta != "" {
		meta = "  ·  " + meta
	}
	rowPos := fmt.Sprintf("  ·  row %d/%d", m.cursor+1, len(m.entries))
	status := StatusBarStyle.Render(fmt.Sprintf("Saved trips: %d%s%s%s", len(m.allEntries), rowPos, filterInfo, meta))

	if id, ok := m.ConfirmingDelete(); ok {
		for _, e := range m.entries {
			if e.ID == id {
				status = ErrorStyle.Render(fmt.Sprintf("Delete %s? press y to confirm, any other key to cancel", e.Destination))
			}
		}
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		divider,
		strings.Join(rows, "\n"),
	)
	statusHeight := lipgloss.Height(status)
	contentHeight := lipgloss.Height(content)
	spacerHeight := max(0, height-contentHeight-statusHeight)
	spacer := lipgloss.NewStyle().Height(spacerHeight).Render("")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		spacer,
		status,
	)
}
