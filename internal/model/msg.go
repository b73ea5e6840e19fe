package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// SurveySubmittedMsg is sent when the trip survey validates.
type SurveySubmittedMsg struct {
	Profile TripProfile
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// PlanResultMsg carries the outcome of planning request ID.
type PlanResultMsg struct {
	ID       uint64
	Question string
	Answer   Answer
	Err      error
}

// PanelTickMsg fires when the info panel is due for a refresh.
type PanelTickMsg struct {
	Generation int
}

// PanelLoadedMsg carries info panel data fetched for a generation.
type PanelLoadedMsg struct {
	Generation int
	City       string
	Info       PanelInfo
	Err        error
}

// PreviewLoadedMsg carries the terminal rendering of a photo.
type PreviewLoadedMsg struct {
	URL string
	Art string
	Err error
}

// ExportDoneMsg is sent when the itinerary export finishes.
type ExportDoneMsg struct {
	Path  string
	Pages int
	Err   error
}

// Screen represents different app screens.
type Screen int

const (
	ScreenSurvey Screen = iota
	ScreenChat
	ScreenFavorites
	ScreenFavoriteDetail
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
)
