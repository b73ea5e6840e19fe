package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viajeia/internal/model"
	"viajeia/internal/session"
)

var at = time.Date(2026, 3, 1, 14, 30, 5, 0, time.UTC)

func profile() model.TripProfile {
	return model.TripProfile{
		Destination: "Tokyo",
		Date:        "2026-05-01",
		Budget:      model.BudgetMedium,
		Preference:  model.PreferenceCulture,
	}
}

func TestSession_ApplyResponse(t *testing.T) {
	s := session.New()
	s.SetProfile(profile())

	id := s.BeginRequest()
	require.True(t, s.Loading())

	ok := s.ApplyResponse(id, "What to see in Kyoto?", model.Answer{Text: "Temples", Photos: []string{"p1"}}, at)

	require.True(t, ok)
	assert.False(t, s.Loading())
	assert.Equal(t, 1, s.Conversation().Len())
	assert.Equal(t, "Kyoto", s.LastDestination())
	shown, ok := s.Displayed()
	require.True(t, ok)
	assert.Equal(t, "14:30:05", shown.Timestamp)
	assert.Nil(t, s.ActiveExchange(), "committed answer is not exported twice")
}

func TestSession_LastDestinationFallsBackToProfile(t *testing.T) {
	s := session.New()
	s.SetProfile(profile())

	id := s.BeginRequest()
	s.ApplyResponse(id, "any tips?", model.Answer{Text: "yes"}, at)

	assert.Equal(t, "Tokyo", s.LastDestination())
	assert.Equal(t, "how's the food in Tokyo?", s.ProcessQuestion("how's the food there?"))
}

func TestSession_StaleResponseIsDiscarded(t *testing.T) {
	s := session.New()
	s.SetProfile(profile())

	first := s.BeginRequest()
	s.CancelRequest()
	second := s.BeginRequest()

	assert.False(t, s.ApplyResponse(first, "old", model.Answer{Text: "old"}, at))
	assert.Equal(t, 0, s.Conversation().Len())

	assert.True(t, s.ApplyResponse(second, "new", model.Answer{Text: "new"}, at))
	assert.Equal(t, 1, s.Conversation().Len())
}

func TestSession_SetProfileCancelsRequest(t *testing.T) {
	s := session.New()
	id := s.BeginRequest()

	s.SetProfile(profile())

	assert.False(t, s.Loading())
	assert.False(t, s.FailRequest(id))
	assert.False(t, s.ApplyResponse(id, "q", model.Answer{Text: "a"}, at))
}

func TestSession_ClearHistoryKeepsDisplayedAnswer(t *testing.T) {
	s := session.New()
	s.SetProfile(profile())
	id := s.BeginRequest()
	s.ApplyResponse(id, "q", model.Answer{Text: "a", Photos: []string{"p"}}, at)

	s.ClearHistory()

	assert.Equal(t, 0, s.Conversation().Len())
	active := s.ActiveExchange()
	require.NotNil(t, active)
	assert.Equal(t, "a", active.Answer)
	assert.True(t, s.HasContent())

	history, photos := s.FavoriteSnapshot()
	require.Len(t, history, 1)
	assert.Equal(t, []string{"p"}, photos)
}

func TestSession_FavoriteSnapshotPhotosFromLastEntry(t *testing.T) {
	s := session.New()
	s.Restore(profile(), []model.ConversationEntry{
		{Question: "q1", Answer: "a1", Photos: []string{"x"}},
		{Question: "q2", Answer: "a2", Photos: []string{"y", "z"}},
	})

	history, photos := s.FavoriteSnapshot()

	assert.Len(t, history, 2)
	assert.Equal(t, []string{"y", "z"}, photos)
}

func TestSession_Restore(t *testing.T) {
	s := session.New()
	s.SetProfile(model.TripProfile{Destination: "Lima"})
	id := s.BeginRequest()

	history := []model.ConversationEntry{{Question: "q", Answer: "a", Photos: []string{"p"}}}
	s.Restore(profile(), history)

	assert.Equal(t, profile(), s.Profile())
	assert.Equal(t, history, s.Conversation().Entries())
	assert.Equal(t, "Tokyo", s.LastDestination())
	assert.False(t, s.Current(id))
	_, shown := s.Displayed()
	assert.False(t, shown)

	history[0].Question = "mutated"
	assert.Equal(t, "q", s.Conversation().Entries()[0].Question)
}

func TestSession_PanelCity(t *testing.T) {
	s := session.New()
	assert.Equal(t, "", s.PanelCity())

	s.SetProfile(model.TripProfile{Destination: "Quito"})
	assert.Equal(t, "Quito", s.PanelCity())

	id := s.BeginRequest()
	s.ApplyResponse(id, "Weekend in Cusco?", model.Answer{Text: "sure"}, at)
	assert.Equal(t, "Cusco", s.PanelCity())
}

func TestSession_FavoriteDestination(t *testing.T) {
	s := session.New()
	assert.Equal(t, "", s.FavoriteDestination())

	s.SetProfile(profile())
	assert.Equal(t, "Tokyo", s.FavoriteDestination())
}
