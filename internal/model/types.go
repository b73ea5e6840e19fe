package model

import (
	"strings"
	"time"
)

// Budget is the spending range chosen in the survey.
// Values are the ones the planning service expects on the wire.
type Budget string

const (
	BudgetEconomic Budget = "economico"
	BudgetMedium   Budget = "medio"
	BudgetHigh     Budget = "alto"
	BudgetPremium  Budget = "premium"
)

// Budgets lists the survey options in display order.
var Budgets = []Budget{BudgetEconomic, BudgetMedium, BudgetHigh, BudgetPremium}

// Label returns the human readable budget range.
func (b Budget) Label() string {
	switch b {
	case BudgetEconomic:
		return "Economic (under $500)"
	case BudgetMedium:
		return "Medium ($500 - $1,500)"
	case BudgetHigh:
		return "High ($1,500 - $3,000)"
	case BudgetPremium:
		return "Premium (over $3,000)"
	default:
		return string(b)
	}
}

// Preference is the kind of trip experience the traveller wants.
type Preference string

const (
	PreferenceAdventure  Preference = "aventura"
	PreferenceRelaxation Preference = "relajacion"
	PreferenceCulture    Preference = "cultura"
)

// Preferences lists the survey options in display order.
var Preferences = []Preference{PreferenceAdventure, PreferenceRelaxation, PreferenceCulture}

// Label maps a preference through the fixed three-way label table.
// Unknown or empty values map to "".
func (p Preference) Label() string {
	switch p {
	case PreferenceAdventure:
		return "Adventure"
	case PreferenceRelaxation:
		return "Relaxation"
	case PreferenceCulture:
		return "Culture"
	default:
		return ""
	}
}

// TripProfile holds the survey answers sent with every planning request.
type TripProfile struct {
	Destination string     `json:"destino"`
	Date        string     `json:"fecha"` // ISO 8601 date (YYYY-MM-DD)
	Budget      Budget     `json:"presupuesto"`
	Preference  Preference `json:"preferencia"`
}

// Complete reports whether every field is filled in.
func (p TripProfile) Complete() bool {
	return strings.TrimSpace(p.Destination) != "" &&
		strings.TrimSpace(p.Date) != "" &&
		p.Budget != "" &&
		p.Preference != ""
}

// ConversationEntry is one answered question.
type ConversationEntry struct {
	Question  string   `json:"pregunta"`
	Answer    string   `json:"respuesta"`
	Photos    []string `json:"fotos"`
	Timestamp string   `json:"timestamp"`
}

// Clone returns a copy that shares no backing arrays with e.
func (e ConversationEntry) Clone() ConversationEntry {
	out := e
	if e.Photos != nil {
		out.Photos = append(make([]string, 0, len(e.Photos)), e.Photos...)
	}
	return out
}

// CloneHistory deep-copies a slice of entries.
func CloneHistory(entries []ConversationEntry) []ConversationEntry {
	if entries == nil {
		return nil
	}
	out := make([]ConversationEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

// Favorite is a saved trip together with the conversation that produced it.
type Favorite struct {
	ID          string              `json:"id"`
	Destination string              `json:"destino"`
	Date        string              `json:"fecha"`
	Budget      Budget              `json:"presupuesto"`
	Preference  Preference          `json:"preferencia"`
	SavedAt     time.Time           `json:"fechaGuardado"`
	History     []ConversationEntry `json:"historial"`
	Photos      []string            `json:"fotos"`
}

// Profile returns the trip profile stored in the favorite.
func (f Favorite) Profile() TripProfile {
	return TripProfile{
		Destination: f.Destination,
		Date:        f.Date,
		Budget:      f.Budget,
		Preference:  f.Preference,
	}
}

// Answer is a planning service reply.
type Answer struct {
	Text   string
	Photos []string
}

// PanelInfo is the ambient destination data shown next to the chat.
// Every field is optional.
type PanelInfo struct {
	Temperature        *float64 `json:"temperatura"`
	WeatherDescription *string  `json:"descripcion_clima"`
	USDRate            *float64 `json:"tipo_cambio_usd"`
	EURRate            *float64 `json:"tipo_cambio_eur"`
	TimeOffset         *string  `json:"diferencia_horaria"`
	LocalTime          *string  `json:"hora_local"`
	City               *string  `json:"ciudad"`
}
