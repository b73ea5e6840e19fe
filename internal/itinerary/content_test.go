package itinerary

import (
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"

	"viajeia/internal/model"
)

func TestParseAnswer(t *testing.T) {
	answer := "Here is your plan.\n\n  lodging:\n- Hotel Sakura\n* Ryokan Aoi\n\nEstimación de costos: 1200 USD\n• Trains"

	assert.Equal(t, []answerLine{
		{lineBody, "Here is your plan."},
		{lineSection, "LODGING:"},
		{lineBody, "• Hotel Sakura"},
		{lineBody, "• Ryokan Aoi"},
		{lineSection, "ESTIMACIÓN DE COSTOS:"},
		{lineBody, "1200 USD"},
		{lineBody, "• Trains"},
	}, parseAnswer(answer))
}

func TestParseAnswer_headingNeedsColon(t *testing.T) {
	assert.Equal(t, []answerLine{{lineBody, "Local tips are below"}}, parseAnswer("Local tips are below"))
}

func TestCollect_activeFirst(t *testing.T) {
	in := Input{
		Active:  &model.ConversationEntry{Answer: "Welcome"},
		History: []model.ConversationEntry{{Question: "First?", Answer: "Yes"}},
	}
	exchanges, _ := collect(in)
	assert.Equal(t, []exchange{
		{question: "Initial query", answer: "Welcome"},
		{question: "First?", answer: "Yes"},
	}, exchanges)
}

func TestProfileRows_fallbacks(t *testing.T) {
	rows := profileRows(Input{LastDestination: "Cusco", Profile: model.TripProfile{Preference: "surf"}})
	assert.Equal(t, []profileRow{
		{"Destination:", "Cusco"},
		{"Date:", "Not specified"},
		{"Budget:", "Not specified"},
		{"Preference:", "Not specified"},
	}, rows)

	rows = profileRows(Input{Profile: model.TripProfile{Preference: model.PreferenceRelaxation}})
	assert.Equal(t, "Not specified", rows[0].value)
	assert.Equal(t, "Relaxation", rows[3].value)
}

func TestLayout_breaksAtThresholds(t *testing.T) {
	l := newLayout()
	l.advance(pageHeight - reserveHeading - bodyStartY) // exactly at the threshold
	l.place(reserveHeading, 0, headingAdvance, func(_ *fpdf.Fpdf, _ float64) {})
	assert.Equal(t, 1, l.pages())

	l.place(reserveHeading, 0, headingAdvance, nil)
	assert.Equal(t, 2, l.pages())
	assert.Equal(t, topMargin+headingAdvance, l.y)

	l.place(reserveSubheading, subheadingLead, subheadingAdvance, func(_ *fpdf.Fpdf, _ float64) {})
	last := l.ops[len(l.ops)-1]
	assert.Equal(t, 2, last.page)
	assert.Equal(t, topMargin+headingAdvance+subheadingLead, last.y)
}

func TestFilename(t *testing.T) {
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Itinerary_New_York_2026-06-01.pdf", Filename("  New   York ", day))
	assert.Equal(t, "Itinerary_Trip_2026-06-01.pdf", Filename(" ", day))
	assert.Equal(t, "Itinerary_A-B_2026-06-01.pdf", Filename("A/B", day))
}
