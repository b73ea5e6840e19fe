package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"viajeia/internal/favorites"
	"viajeia/internal/infopanel"
	"viajeia/internal/itinerary"
	"viajeia/internal/logger"
	"viajeia/internal/model"
	"viajeia/internal/session"
)

const exportTimeout = 2 * time.Minute

// Planner answers travel questions.
type Planner interface {
	Plan(ctx context.Context, question string, profile model.TripProfile, history []model.ConversationEntry) (model.Answer, error)
}

// Exporter renders itinerary documents.
type Exporter interface {
	Render(ctx context.Context, in itinerary.Input) (*itinerary.Document, error)
}

// Deps are the collaborators of the root model.
type Deps struct {
	Favorites *favorites.Store
	Planner   Planner
	Panel     PanelSource
	Photos    PhotoFetcher
	Itinerary Exporter
	ExportDir string
	// ConfigDir holds ui_prefs.json. Empty disables preference persistence.
	ConfigDir     string
	Log           *logger.Logger
	Caps          TerminalCapabilities
	PanelInterval time.Duration
}

// Model is the root Bubble Tea model.
type Model struct {
	session   *session.Session
	favorites *favorites.Store
	planner   Planner
	panelSrc  PanelSource
	photos    PhotoFetcher
	exporter  Exporter
	exportDir string
	configDir string
	log       *logger.Logger

	termCapabilities TerminalCapabilities
	panelInterval    time.Duration

	screen model.Screen
	mode   model.Mode
	gState GState

	width  int
	height int

	error       string
	info        string
	showingHelp bool
	columnJump  bool
	exporting   bool

	// cancel aborts the planning request in flight.
	cancel context.CancelFunc

	// Screen models
	survey    *SurveyModel
	chat      *ChatModel
	favList   *FavoritesModel
	favDetail *FavoriteDetailModel
	panel     *panelState

	keys      KeyMap
	formKeys  FormKeyMap
	prefs     UIPreferences
	undoStack []undoAction
	redoStack []undoAction
}

// New creates a new root model starting on the trip survey.
func New(deps Deps) Model {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	interval := deps.PanelInterval
	if interval <= 0 {
		interval = infopanel.RefreshInterval
	}

	m := Model{
		session:          session.New(),
		favorites:        deps.Favorites,
		planner:          deps.Planner,
		panelSrc:         deps.Panel,
		photos:           deps.Photos,
		exporter:         deps.Itinerary,
		exportDir:        deps.ExportDir,
		configDir:        deps.ConfigDir,
		log:              log.Named("ui"),
		termCapabilities: deps.Caps,
		panelInterval:    interval,
		screen:           model.ScreenSurvey,
		mode:             model.ModeInsert,
		gState:           GStateIdle,
		survey:           NewSurveyModel(model.TripProfile{}),
		chat:             NewChatModel(),
		panel:            &panelState{},
		keys:             DefaultKeyMap(),
		formKeys:         DefaultFormKeyMap(),
		prefs:            loadUIPreferences(deps.ConfigDir),
	}
	m.favList = NewFavoritesModel(nil)
	m.favList.ApplyPrefs(m.prefs.Favorites)
	m.reloadFavorites()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.refreshChat()
		return m, nil

	case tea.KeyMsg:
		if m.mode == model.ModeNav && m.columnJump {
			switch msg.String() {
			case "esc":
				m.columnJump = false
				m.info = ""
				return m, nil
			}
			if n, err := strconv.Atoi(msg.String()); err == nil {
				table := m.currentTable()
				if table != nil && table.JumpToColumn(n) {
					m.columnJump = false
					m.info = fmt.Sprintf("Jumped to column %d", n)
					m.persistCurrentTablePrefs()
					return m, nil
				}
				m.info = fmt.Sprintf("Column %d unavailable", n)
				return m, nil
			}
		}

		// Handle ctrl+c globally
		if msg.String() == "ctrl+c" {
			m.cancelInFlight()
			return m, tea.Quit
		}

		// Handle help toggle
		if key.Matches(msg, m.keys.Help) && m.mode == model.ModeNav {
			m.showingHelp = !m.showingHelp
			return m, nil
		}

		if m.showingHelp {
			if msg.String() == "esc" || key.Matches(msg, m.keys.Help) {
				m.showingHelp = false
			}
			return m, nil
		}

		// Route to mode-specific handlers
		if m.mode == model.ModeNav {
			return m.handleNavMode(msg)
		}
		return m.handleInsertMode(msg)

	case model.ErrorMsg:
		m.error = userMessage(msg.Err)
		return m, nil

	case model.SurveySubmittedMsg:
		m.cancelInFlight()
		m.session.SetProfile(msg.Profile)
		m.screen = model.ScreenChat
		m.mode = model.ModeInsert
		m.error = ""
		m.info = fmt.Sprintf("Trip to %s saved. Ask me anything!", msg.Profile.Destination)
		m.log.Info("trip profile set",
			zap.String("destination", msg.Profile.Destination),
			zap.String("date", msg.Profile.Date),
			zap.String("budget", string(msg.Profile.Budget)),
			zap.String("preference", string(msg.Profile.Preference)),
		)
		m.refreshChat()
		return m, tea.Batch(m.chat.Focus(), m.retargetPanel())

	case model.FormCancelledMsg:
		if !m.session.Profile().Complete() {
			if m.favorites != nil && m.favorites.Len() > 0 {
				// Nothing to go back to; offer the saved trips instead.
				m.reloadFavorites()
				m.screen = model.ScreenFavorites
				m.mode = model.ModeNav
				m.error = ""
				return m, nil
			}
			m.error = "Complete the trip survey to start planning."
			return m, nil
		}
		m.screen = model.ScreenChat
		m.mode = model.ModeNav
		m.error = ""
		return m, nil

	case model.PlanResultMsg:
		return m.applyPlanResult(msg)

	case spinner.TickMsg:
		if !m.session.Loading() {
			return m, nil
		}
		cmd := m.chat.UpdateSpinner(msg)
		m.refreshChat()
		return m, cmd

	case model.PanelTickMsg:
		return m, m.panel.tick(m.panelSrc, msg, m.panelInterval)

	case model.PanelLoadedMsg:
		if m.panel.apply(msg) && msg.Err != nil {
			m.log.Warn("info panel refresh failed", zap.String("city", msg.City), zap.Error(msg.Err))
		}
		return m, nil

	case model.PreviewLoadedMsg:
		if msg.Err != nil {
			m.log.Debug("photo preview unavailable", zap.String("url", msg.URL), zap.Error(msg.Err))
			return m, nil
		}
		m.chat.SetPreview(msg.URL, msg.Art)
		m.refreshChat()
		return m, nil

	case model.ExportDoneMsg:
		m.exporting = false
		if msg.Err != nil {
			m.error = userMessage(msg.Err)
			m.log.Error("itinerary export failed", zap.Error(msg.Err))
			return m, nil
		}
		m.error = ""
		m.info = fmt.Sprintf("Itinerary saved to %s (%d pages)", msg.Path, msg.Pages)
		return m, nil

	case undoAppliedMsg:
		return m, m.applyUndoResult(msg)

	default:
		// Pass all other messages to the focused input
		if m.mode == model.ModeInsert {
			return m.handleInsertMode(msg)
		}
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	var content string
	var breadcrumbParts []string

	contentHeight := m.contentHeight()

	switch m.screen {
	case model.ScreenSurvey:
		breadcrumbParts = []string{"Trip"}
		content = m.survey.View(m.width, contentHeight)
	case model.ScreenChat:
		breadcrumbParts = []string{"Chat"}
		if dest := m.session.Profile().Destination; dest != "" {
			breadcrumbParts = append(breadcrumbParts, dest)
		}
		content = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.chat.View(m.session),
			m.panel.View(contentHeight),
		)
	case model.ScreenFavorites:
		breadcrumbParts = []string{"Favorites"}
		content = m.favList.View(m.width, contentHeight)
	case model.ScreenFavoriteDetail:
		breadcrumbParts = []string{"Favorites", "Detail"}
		if m.favDetail != nil {
			breadcrumbParts = []string{"Favorites", m.favDetail.favorite.Destination}
			content = m.favDetail.View(m.width, contentHeight)
		}
	}

	header := renderHeader(breadcrumbParts, m.width)
	footer := RenderHelp(m.screen, m.mode, m.width)

	// Ensure content fills the available height to anchor footer at bottom
	contentStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight)
	content = contentStyle.Render(content)

	parts := []string{header}
	if m.error != "" {
		parts = append(parts, ErrorStyle.Width(m.width).Render(m.error))
	}
	if m.info != "" {
		parts = append(parts, SuccessStyle.Width(m.width).Render(m.info))
	}
	parts = append(parts, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// contentHeight is the height left after header, footer and banners.
func (m Model) contentHeight() int {
	h := m.height - 4
	if m.error != "" {
		h--
	}
	if m.info != "" {
		h--
	}
	return max(1, h)
}

func renderHeader(breadcrumbParts []string, width int) string {
	// Left side: app name + breadcrumb
	title := HeaderStyle.Render("ViajeIA")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb

	// Right side: current date
	dateStr := time.Now().Format("Mon 02 Jan")
	right := BreadcrumbStyle.Render(dateStr) + "  "

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))

	headerContent := left + strings.Repeat(" ", padding) + right
	return TitleStyle.Width(width).Render(headerContent)
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.screen == model.ScreenFavorites && m.favList != nil {
		if _, ok := m.favList.ConfirmingDelete(); ok {
			return m.handleDeleteConfirm(msg)
		}
	}
	if m.screen == model.ScreenFavoriteDetail && m.favDetail != nil && m.favDetail.confirming {
		return m.handleDeleteConfirm(msg)
	}

	if t := m.currentTable(); t != nil {
		switch {
		case key.Matches(msg, m.keys.NextColumn):
			t.NextColumn()
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.PrevColumn):
			t.PrevColumn()
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.ColumnJump):
			m.columnJump = true
			m.info = "Jump to column: press 1-9 (esc to cancel)"
			return m, nil
		case key.Matches(msg, m.keys.SortAsc):
			t.SortActiveColumn(false)
			m.info = "Sorted ascending"
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.SortDesc):
			t.SortActiveColumn(true)
			m.info = "Sorted descending"
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.HideColumn):
			if t.HideActiveColumn() {
				m.info = "Column hidden"
				m.persistCurrentTablePrefs()
			} else {
				m.info = "Cannot hide last visible column"
			}
			return m, nil
		case key.Matches(msg, m.keys.ShowColumns):
			t.ShowAllColumns()
			m.info = "All columns shown"
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.FilterValue):
			if t.FilterBySelectedValue() {
				m.info = "Filter applied from selected value"
				m.persistCurrentTablePrefs()
			} else {
				m.info = "No filterable value in selected cell"
			}
			return m, nil
		case key.Matches(msg, m.keys.ClearFilter):
			if t.ClearFilter() {
				m.info = "Filter cleared"
				m.persistCurrentTablePrefs()
			}
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Undo):
		if len(m.undoStack) == 0 {
			m.info = "Nothing to undo"
			return m, nil
		}
		return m, m.undoCmd()
	case key.Matches(msg, m.keys.Redo):
		if len(m.redoStack) == 0 {
			m.info = "Nothing to redo"
			return m, nil
		}
		return m, m.redoCmd()
	}

	// Handle "gg" state machine
	if key.Matches(msg, m.keys.Top) {
		if m.gState == GStateIdle {
			m.gState = GStateFirstG
			return m, nil
		} else if m.gState == GStateFirstG {
			m.gState = GStateIdle
			return m.handleJumpToTop()
		}
	} else if m.gState == GStateFirstG {
		// Any other key resets the state
		m.gState = GStateIdle
	}

	// Screen-specific navigation
	switch m.screen {
	case model.ScreenChat:
		return m.handleChatNav(msg)
	case model.ScreenFavorites:
		return m.handleFavoritesNav(msg)
	case model.ScreenFavoriteDetail:
		return m.handleFavoriteDetailNav(msg)
	}

	return m, nil
}

func (m *Model) currentTable() tableController {
	if m.screen == model.ScreenFavorites && m.favList != nil {
		return m.favList
	}
	return nil
}

func (m *Model) persistCurrentTablePrefs() {
	if m.screen != model.ScreenFavorites || m.favList == nil {
		return
	}
	m.prefs.Favorites = m.favList.Prefs()
	if err := saveUIPreferences(m.configDir, m.prefs); err != nil {
		m.log.Warn("failed to save ui preferences", zap.Error(err))
	}
}

// handleInsertMode handles typing in the survey or the question box.
func (m Model) handleInsertMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case model.ScreenSurvey:
		newForm, cmd := m.survey.Update(msg)
		m.survey = &newForm
		return m, cmd
	case model.ScreenChat:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(keyMsg, m.formKeys.Cancel):
				m.mode = model.ModeNav
				m.chat.Blur()
				return m, nil
			case key.Matches(keyMsg, m.formKeys.Send):
				return m.submitQuestion()
			}
		}
		return m, m.chat.UpdateInput(msg)
	}
	return m, nil
}

func (m Model) handleJumpToTop() (tea.Model, tea.Cmd) {
	switch m.screen {
	case model.ScreenChat:
		m.chat.viewport.GotoTop()
	case model.ScreenFavorites:
		m.favList.JumpToTop()
	}
	return m, nil
}

func (m Model) handleChatNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelInFlight()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Ask), msg.String() == "enter":
		m.mode = model.ModeInsert
		return m, m.chat.Focus()
	case key.Matches(msg, m.keys.EditTrip):
		return m.openSurvey()
	case key.Matches(msg, m.keys.Favorites):
		m.reloadFavorites()
		m.screen = model.ScreenFavorites
		return m, nil
	case key.Matches(msg, m.keys.SaveFavorite):
		return m.saveFavorite()
	case key.Matches(msg, m.keys.Export):
		return m.startExport(m.sessionExportInput())
	case key.Matches(msg, m.keys.ClearHistory):
		m.session.ClearHistory()
		m.info = "Conversation history cleared"
		m.refreshChat()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.chat.viewport.LineDown(1)
	case key.Matches(msg, m.keys.Up):
		m.chat.viewport.LineUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.chat.viewport.HalfViewDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.chat.viewport.HalfViewUp()
	case key.Matches(msg, m.keys.Bottom):
		m.chat.viewport.GotoBottom()
	}
	return m, nil
}

func (m Model) handleFavoritesNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelInFlight()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.screen = m.homeScreen()
		if m.screen == model.ScreenSurvey {
			m.mode = model.ModeInsert
		}
		return m, nil
	case key.Matches(msg, m.keys.Select):
		if entry := m.favList.SelectedEntry(); entry != nil {
			m.favDetail = NewFavoriteDetailModel(*entry)
			m.screen = model.ScreenFavoriteDetail
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if fav, ok := m.favList.RequestDelete(); ok {
			m.info = fmt.Sprintf("Delete %s? (y to confirm)", fav.Destination)
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.favList.CursorDown()
	case key.Matches(msg, m.keys.Up):
		m.favList.CursorUp()
	case key.Matches(msg, m.keys.Bottom):
		m.favList.JumpToBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		for i := 0; i < m.height/4; i++ {
			m.favList.CursorDown()
		}
	case key.Matches(msg, m.keys.HalfPageUp):
		for i := 0; i < m.height/4; i++ {
			m.favList.CursorUp()
		}
	}
	return m, nil
}

func (m Model) handleFavoriteDetailNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = model.ScreenFavorites
		m.favDetail = nil
		return m, nil
	case key.Matches(msg, m.keys.Select), msg.String() == "r":
		return m.restoreFavorite(m.favDetail.favorite)
	case key.Matches(msg, m.keys.Export):
		fav := m.favDetail.favorite
		return m.startExport(itinerary.Input{
			Profile:         fav.Profile(),
			LastDestination: fav.Destination,
			History:         model.CloneHistory(fav.History),
		})
	case key.Matches(msg, m.keys.Delete):
		m.favDetail.confirming = true
		return m, nil
	}
	return m, nil
}

// handleDeleteConfirm deletes the pending favorite on y and disarms on any
// other key.
func (m Model) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var id string
	if m.screen == model.ScreenFavoriteDetail {
		m.favDetail.confirming = false
		id = m.favDetail.favorite.ID
	} else {
		id, _ = m.favList.ConfirmingDelete()
		m.favList.CancelDelete()
	}

	if !key.Matches(msg, m.keys.Confirm) {
		m.info = "Delete cancelled"
		return m, nil
	}

	deleted, err := m.favorites.Remove(id)
	if err != nil {
		m.error = userMessage(err)
		m.reloadFavorites()
		return m, nil
	}
	m.pushUndoAction(m.buildFavoriteDeleteAction(deleted))
	m.error = ""
	m.info = fmt.Sprintf("%s removed from favorites (u to undo)", deleted.Destination)
	m.favDetail = nil
	m.screen = model.ScreenFavorites
	m.reloadFavorites()
	return m, nil
}

func (m Model) openSurvey() (tea.Model, tea.Cmd) {
	m.cancelInFlight()
	m.survey = NewSurveyModel(m.session.Profile())
	m.screen = model.ScreenSurvey
	m.mode = model.ModeInsert
	m.chat.Blur()
	return m, textinput.Blink
}

func (m Model) submitQuestion() (tea.Model, tea.Cmd) {
	question := m.chat.Question()
	if question == "" {
		return m, nil
	}
	if m.session.Loading() {
		m.info = "Still planning, please wait..."
		return m, nil
	}
	if !m.session.Profile().Complete() {
		m.error = "Complete the trip survey first."
		return m.openSurvey()
	}

	processed := m.session.ProcessQuestion(question)
	id := m.session.BeginRequest()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.chat.Reset()
	m.error = ""
	m.info = ""
	m.refreshChat()

	m.log.Debug("planning request",
		zap.Uint64("id", id),
		zap.String("question", question),
		zap.Bool("resolved", processed != question),
	)

	return m, tea.Batch(
		planCmd(ctx, cancel, m.planner, id, question, processed, m.session.Profile(), m.session.Conversation().Context()),
		m.chat.spinner.Tick,
	)
}

func planCmd(ctx context.Context, cancel context.CancelFunc, p Planner, id uint64, question, processed string, profile model.TripProfile, history []model.ConversationEntry) tea.Cmd {
	return func() tea.Msg {
		defer cancel()
		answer, err := p.Plan(ctx, processed, profile, history)
		return model.PlanResultMsg{ID: id, Question: question, Answer: answer, Err: err}
	}
}

func (m Model) applyPlanResult(msg model.PlanResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if !m.session.FailRequest(msg.ID) {
			m.log.Debug("dropped stale planning failure", zap.Uint64("id", msg.ID), zap.Error(msg.Err))
			return m, nil
		}
		m.cancel = nil
		m.error = userMessage(msg.Err)
		m.log.Warn("planning request failed", zap.Uint64("id", msg.ID), zap.Error(msg.Err))
		m.refreshChat()
		return m, nil
	}

	if !m.session.ApplyResponse(msg.ID, msg.Question, msg.Answer, time.Now()) {
		m.log.Debug("dropped stale planning response", zap.Uint64("id", msg.ID))
		return m, nil
	}
	m.cancel = nil
	m.error = ""
	m.chat.ClearPreviews()
	m.refreshChat()
	m.chat.viewport.GotoTop()

	return m, tea.Batch(
		loadPreviewsCmd(m.photos, m.termCapabilities, displayedPhotos(m.session)),
		m.retargetPanel(),
	)
}

func (m Model) saveFavorite() (tea.Model, tea.Cmd) {
	history, photos := m.session.FavoriteSnapshot()
	fav, err := m.favorites.Save(m.session.FavoriteDestination(), m.session.Profile(), history, photos)
	if err != nil {
		m.error = userMessage(err)
		return m, nil
	}
	m.pushUndoAction(m.buildFavoriteSaveAction(fav))
	m.error = ""
	m.info = fmt.Sprintf("%s saved to favorites (u to undo)", fav.Destination)
	m.reloadFavorites()
	return m, nil
}

func (m Model) restoreFavorite(fav model.Favorite) (tea.Model, tea.Cmd) {
	m.cancelInFlight()
	profile, history := favorites.Restore(fav)
	m.session.Restore(profile, history)
	m.chat.ClearPreviews()
	m.favDetail = nil
	m.screen = model.ScreenChat
	m.mode = model.ModeNav
	m.error = ""
	m.info = fmt.Sprintf("Restored trip to %s", fav.Destination)
	m.refreshChat()
	return m, m.retargetPanel()
}

func (m Model) sessionExportInput() itinerary.Input {
	return itinerary.Input{
		Profile:         m.session.Profile(),
		LastDestination: m.session.LastDestination(),
		Active:          m.session.ActiveExchange(),
		History:         m.session.Conversation().Snapshot(),
	}
}

func (m Model) startExport(in itinerary.Input) (tea.Model, tea.Cmd) {
	if m.exporting {
		m.info = "Export already in progress..."
		return m, nil
	}
	if m.exporter == nil {
		return m, nil
	}
	m.exporting = true
	m.error = ""
	m.info = "Generating itinerary..."
	return m, exportCmd(m.exporter, m.exportDir, in)
}

func exportCmd(exporter Exporter, dir string, in itinerary.Input) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		doc, err := exporter.Render(ctx, in)
		if err != nil {
			return model.ExportDoneMsg{Err: err}
		}
		path, err := doc.Save(dir)
		if err != nil {
			return model.ExportDoneMsg{Err: fmt.Errorf("%w: %w", model.ErrRender, err)}
		}
		return model.ExportDoneMsg{Path: path, Pages: doc.Pages}
	}
}

// cancelInFlight aborts and fences the outstanding planning request.
func (m *Model) cancelInFlight() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.session.Loading() {
		m.session.CancelRequest()
	}
}

func (m *Model) retargetPanel() tea.Cmd {
	return m.panel.retarget(m.panelSrc, m.session.PanelCity(), m.panelInterval)
}

// homeScreen is where back navigation from favorites lands.
func (m *Model) homeScreen() model.Screen {
	if m.session.Profile().Complete() {
		return model.ScreenChat
	}
	return model.ScreenSurvey
}

func (m *Model) reloadFavorites() {
	if m.favorites == nil || m.favList == nil {
		return
	}
	m.favList.SetEntries(m.favorites.List())
}

func (m *Model) refreshChat() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.chat.Refresh(m.session, max(20, m.width-panelWidth-2), m.contentHeight())
}
