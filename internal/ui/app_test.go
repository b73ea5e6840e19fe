package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viajeia/internal/db"
	"viajeia/internal/favorites"
	"viajeia/internal/itinerary"
	"viajeia/internal/logger"
	"viajeia/internal/model"
	"viajeia/internal/planner"
)

type memStorage struct {
	data []byte
}

func (s *memStorage) Read() ([]byte, error) {
	if s.data == nil {
		return nil, db.ErrSlotEmpty
	}
	return s.data, nil
}

func (s *memStorage) Write(b []byte) error {
	s.data = append([]byte(nil), b...)
	return nil
}

type fakePlanner struct {
	questions []string
	histories [][]model.ConversationEntry
	answer    func(question string) (model.Answer, error)
}

func (f *fakePlanner) Plan(_ context.Context, question string, _ model.TripProfile, history []model.ConversationEntry) (model.Answer, error) {
	f.questions = append(f.questions, question)
	f.histories = append(f.histories, history)
	if f.answer != nil {
		return f.answer(question)
	}
	return model.Answer{Text: "LODGING:\nStay in Shinjuku.", Photos: []string{}}, nil
}

type fakePanel struct{}

func (fakePanel) Fetch(_ context.Context, city string) (model.PanelInfo, error) {
	return model.PanelInfo{City: &city}, nil
}

type fakeExporter struct {
	inputs []itinerary.Input
}

func (f *fakeExporter) Render(_ context.Context, in itinerary.Input) (*itinerary.Document, error) {
	f.inputs = append(f.inputs, in)
	return &itinerary.Document{Filename: "Itinerary_Tokyo_2026-10-19.pdf", Pages: 2}, nil
}

var tokyoTrip = model.TripProfile{
	Destination: "Tokyo",
	Date:        "2026-11-02",
	Budget:      model.BudgetMedium,
	Preference:  model.PreferenceCulture,
}

type harness struct {
	planner  *fakePlanner
	exporter *fakeExporter
	store    *favorites.Store
	exportTo string
}

func newHarness(t *testing.T) (*harness, Model) {
	t.Helper()
	store := favorites.NewStore(&memStorage{}, logger.Nop())
	require.NoError(t, store.Load())

	h := &harness{
		planner:  &fakePlanner{},
		exporter: &fakeExporter{},
		store:    store,
		exportTo: t.TempDir(),
	}
	m := New(Deps{
		Favorites:     store,
		Planner:       h.planner,
		Panel:         fakePanel{},
		Itinerary:     h.exporter,
		ExportDir:     h.exportTo,
		Log:           logger.Nop(),
		PanelInterval: time.Millisecond,
	})
	m, _ = step(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return h, m
}

func step(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	redoKey  = tea.KeyMsg{Type: tea.KeyCtrlR}
)

// collect runs cmd and any batched commands it returns.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func find[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// ask types question, submits it and returns the planning result message.
func ask(t *testing.T, m Model, question string) (Model, model.PlanResultMsg) {
	t.Helper()
	m, _ = step(m, runes(question))
	m, cmd := step(m, enterKey)
	require.True(t, m.session.Loading())
	result, ok := find[model.PlanResultMsg](collect(cmd))
	require.True(t, ok)
	return m, result
}

func startTrip(m Model) Model {
	m, _ = step(m, model.SurveySubmittedMsg{Profile: tokyoTrip})
	return m
}

func TestSurveySubmitted_opensChat(t *testing.T) {
	_, m := newHarness(t)
	assert.Equal(t, model.ScreenSurvey, m.screen)

	m, cmd := step(m, model.SurveySubmittedMsg{Profile: tokyoTrip})
	assert.Equal(t, model.ScreenChat, m.screen)
	assert.Equal(t, model.ModeInsert, m.mode)
	assert.Equal(t, tokyoTrip, m.session.Profile())
	assert.Equal(t, "Tokyo", m.panel.city)
	assert.NotNil(t, cmd)
}

func TestFormCancelled_withoutProfileStaysOnSurvey(t *testing.T) {
	_, m := newHarness(t)
	m, _ = step(m, model.FormCancelledMsg{})
	assert.Equal(t, model.ScreenSurvey, m.screen)
	assert.NotEmpty(t, m.error)
}

func TestAsk_appliesAnswerAndResolvesReferences(t *testing.T) {
	h, m := newHarness(t)
	m = startTrip(m)

	m, result := ask(t, m, "Things to do in Kyoto")
	m, _ = step(m, result)
	require.Equal(t, 1, m.session.Conversation().Len())
	assert.False(t, m.session.Loading())
	assert.Equal(t, "Kyoto", m.session.LastDestination())
	assert.Equal(t, "Kyoto", m.panel.city)

	m, result = ask(t, m, "how's the food there?")
	m, _ = step(m, result)

	require.Len(t, h.planner.questions, 2)
	assert.Equal(t, "how's the food in Kyoto?", h.planner.questions[1])
	assert.Len(t, h.planner.histories[1], 1)

	entries := m.session.Conversation().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "how's the food there?", entries[1].Question)
}

func TestAsk_supersededResponseIsDropped(t *testing.T) {
	_, m := newHarness(t)
	m = startTrip(m)

	m, result := ask(t, m, "best museums")

	// Reopening the survey cancels the request in flight.
	m, _ = step(m, escKey)
	m, _ = step(m, runes("e"))
	require.Equal(t, model.ScreenSurvey, m.screen)
	assert.False(t, m.session.Loading())

	m, _ = step(m, result)
	assert.Equal(t, 0, m.session.Conversation().Len())
	_, shown := m.session.Displayed()
	assert.False(t, shown)
}

func TestAsk_failureShowsBanner(t *testing.T) {
	h, m := newHarness(t)
	h.planner.answer = func(string) (model.Answer, error) {
		return model.Answer{}, planner.Connectivity(errors.New("connection refused"))
	}
	m = startTrip(m)

	m, result := ask(t, m, "best museums")
	m, _ = step(m, result)

	assert.False(t, m.session.Loading())
	assert.Equal(t, 0, m.session.Conversation().Len())
	assert.Equal(t, "Could not connect to the server. Check that the planning service is running.", m.error)
}

func TestAsk_oneRequestAtATime(t *testing.T) {
	h, m := newHarness(t)
	m = startTrip(m)

	m, _ = ask(t, m, "best museums")
	m, _ = step(m, runes("and parks?"))
	m, cmd := step(m, enterKey)

	assert.Nil(t, cmd)
	assert.Len(t, h.planner.questions, 1)
	assert.NotEmpty(t, m.info)
}

func TestSaveFavorite_undoRedo(t *testing.T) {
	h, m := newHarness(t)
	m = startTrip(m)
	m, result := ask(t, m, "Things to do in Kyoto")
	m, _ = step(m, result)

	m, _ = step(m, escKey)
	m, _ = step(m, runes("s"))
	require.Equal(t, 1, h.store.Len())
	assert.Equal(t, "Kyoto", h.store.List()[0].Destination)
	assert.Len(t, h.store.List()[0].History, 1)

	m, _ = step(m, runes("s"))
	assert.Equal(t, "This destination is already in your favorites.", m.error)
	assert.Equal(t, 1, h.store.Len())

	m, cmd := step(m, runes("u"))
	require.NotNil(t, cmd)
	m, _ = step(m, cmd())
	assert.Equal(t, 0, h.store.Len())
	assert.Contains(t, m.info, "Undid")

	m, cmd = step(m, redoKey)
	require.NotNil(t, cmd)
	m, _ = step(m, cmd())
	assert.Equal(t, 1, h.store.Len())
	assert.Contains(t, m.info, "Redid")
}

func TestDeleteFavorite_requiresConfirmation(t *testing.T) {
	h, m := newHarness(t)
	_, err := h.store.Save("Lisbon", tokyoTrip, nil, nil)
	require.NoError(t, err)
	m = startTrip(m)

	m, _ = step(m, escKey)
	m, _ = step(m, runes("f"))
	require.Equal(t, model.ScreenFavorites, m.screen)

	m, _ = step(m, runes("d"))
	m, _ = step(m, runes("n"))
	assert.Equal(t, 1, h.store.Len())

	m, _ = step(m, runes("d"))
	m, _ = step(m, runes("y"))
	assert.Equal(t, 0, h.store.Len())
	assert.Nil(t, m.favList.SelectedEntry())

	m, cmd := step(m, runes("u"))
	require.NotNil(t, cmd)
	m, _ = step(m, cmd())
	assert.Equal(t, 1, h.store.Len())
	require.NotNil(t, m.favList.SelectedEntry())
	assert.Equal(t, "Lisbon", m.favList.SelectedEntry().Destination)
}

func TestFavorites_tableKeysPersistPrefs(t *testing.T) {
	h, m := newHarness(t)
	m.configDir = t.TempDir()
	for _, dest := range []string{"Cusco", "Lisbon", "Kyoto"} {
		_, err := h.store.Save(dest, tokyoTrip, nil, nil)
		require.NoError(t, err)
	}
	m = startTrip(m)
	m, _ = step(m, escKey)
	m, _ = step(m, runes("f"))
	require.Equal(t, model.ScreenFavorites, m.screen)

	m, _ = step(m, runes("S"))
	assert.Equal(t, "Sorted descending", m.info)
	assert.Equal(t, "Lisbon", m.favList.SelectedEntry().Destination)

	m, _ = step(m, runes("/"))
	m, _ = step(m, runes("2"))
	m, _ = step(m, runes("c"))
	assert.Equal(t, "Column hidden", m.info)

	prefs := loadUIPreferences(m.configDir).Favorites
	assert.Equal(t, "destination", prefs.SortKey)
	assert.True(t, prefs.SortDesc)
	assert.Equal(t, []string{"date"}, prefs.HiddenColumns)
}

func TestRestoreFavorite(t *testing.T) {
	h, m := newHarness(t)
	history := []model.ConversationEntry{
		{Question: "Where to eat in Lisbon", Answer: "Try pasteis.", Timestamp: "10:00:00"},
		{Question: "Museums?", Answer: "Gulbenkian.", Photos: []string{}, Timestamp: "10:05:00"},
	}
	lisbon := model.TripProfile{Destination: "Lisbon", Date: "2026-12-01", Budget: model.BudgetHigh, Preference: model.PreferenceRelaxation}
	_, err := h.store.Save("Lisbon", lisbon, history, nil)
	require.NoError(t, err)

	// With no profile yet, cancelling the survey offers the saved trips.
	m, _ = step(m, model.FormCancelledMsg{})
	require.Equal(t, model.ScreenFavorites, m.screen)

	m, _ = step(m, enterKey)
	require.Equal(t, model.ScreenFavoriteDetail, m.screen)
	m, cmd := step(m, enterKey)

	assert.Equal(t, model.ScreenChat, m.screen)
	assert.Equal(t, lisbon, m.session.Profile())
	assert.Equal(t, history, m.session.Conversation().Entries())
	assert.Equal(t, "Lisbon", m.session.LastDestination())
	assert.Equal(t, "Lisbon", m.panel.city)
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, h.store.Len())
}

func TestExport_usesSessionSnapshot(t *testing.T) {
	h, m := newHarness(t)
	m = startTrip(m)
	m, result := ask(t, m, "Things to do in Kyoto")
	m, _ = step(m, result)
	m, _ = step(m, escKey)

	m, cmd := step(m, runes("p"))
	require.NotNil(t, cmd)
	assert.True(t, m.exporting)
	done, ok := cmd().(model.ExportDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Equal(t, filepath.Join(h.exportTo, "Itinerary_Tokyo_2026-10-19.pdf"), done.Path)
	assert.FileExists(t, done.Path)

	m, _ = step(m, done)
	assert.False(t, m.exporting)
	assert.Contains(t, m.info, done.Path)

	require.Len(t, h.exporter.inputs, 1)
	first := h.exporter.inputs[0]
	assert.Nil(t, first.Active)
	assert.Len(t, first.History, 1)
	assert.Equal(t, "Kyoto", first.LastDestination)

	// After clearing, the answer on screen is exported on its own.
	m, _ = step(m, runes("x"))
	_, cmd = step(m, runes("p"))
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, h.exporter.inputs, 2)
	second := h.exporter.inputs[1]
	require.NotNil(t, second.Active)
	assert.Equal(t, "Things to do in Kyoto", second.Active.Question)
	assert.Empty(t, second.History)
}

func TestExportDone_errorBanner(t *testing.T) {
	_, m := newHarness(t)
	m.exporting = true
	m, _ = step(m, model.ExportDoneMsg{Err: errors.New("boom")})
	assert.False(t, m.exporting)
	assert.Equal(t, "Error: boom", m.error)
}

func TestPanel_generationFence(t *testing.T) {
	p := &panelState{}
	src := fakePanel{}

	assert.Nil(t, p.retarget(src, "", time.Minute))
	require.NotNil(t, p.retarget(src, "Tokyo", time.Minute))
	first := p.generation
	assert.Nil(t, p.retarget(src, "tokyo", time.Minute))
	require.NotNil(t, p.retarget(src, "Paris", time.Minute))

	city := "Tokyo"
	assert.False(t, p.apply(model.PanelLoadedMsg{Generation: first, City: "Tokyo", Info: model.PanelInfo{City: &city}}))
	assert.Nil(t, p.info)
	assert.Nil(t, p.tick(src, model.PanelTickMsg{Generation: first}, time.Minute))

	paris := "Paris"
	assert.True(t, p.apply(model.PanelLoadedMsg{Generation: p.generation, City: "Paris", Info: model.PanelInfo{City: &paris}}))
	require.NotNil(t, p.info)
	assert.Equal(t, "Paris", *p.info.City)
	assert.False(t, p.loading)
	assert.NotNil(t, p.tick(src, model.PanelTickMsg{Generation: p.generation}, time.Minute))
}

func TestPanel_failureKeepsLastData(t *testing.T) {
	p := &panelState{}
	p.retarget(fakePanel{}, "Rome", time.Minute)
	temp := 18.0
	p.apply(model.PanelLoadedMsg{Generation: p.generation, Info: model.PanelInfo{Temperature: &temp}})

	p.apply(model.PanelLoadedMsg{Generation: p.generation, Err: &planner.ServiceError{Status: 502, Detail: "weather down"}})
	require.NotNil(t, p.info)
	assert.Equal(t, "Server error: weather down", p.err)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"connectivity", planner.Connectivity(context.DeadlineExceeded), "Could not connect to the server. Check that the planning service is running."},
		{"service", &planner.ServiceError{Status: 500, Detail: "model overloaded"}, "Server error: model overloaded"},
		{"duplicate", model.ErrDuplicate, "This destination is already in your favorites."},
		{"not found", model.ErrNotFound, "That favorite no longer exists."},
		{"render", model.ErrRender, "There was an error generating the PDF. Please try again."},
		{"validation", fmt.Errorf("nothing to export yet: %w", model.ErrValidation), "Nothing to export yet."},
		{"other", errors.New("disk full"), "Error: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, userMessage(tt.err))
		})
	}
	assert.Empty(t, userMessage(nil))
}
