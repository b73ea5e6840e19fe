// Package session holds the state of one planning conversation: the trip
// profile, the conversation log, the answer on screen and the last
// destination the user talked about.
package session

import (
	"strings"
	"time"

	"viajeia/internal/model"
)

// TimestampLayout is how entry timestamps are rendered.
const TimestampLayout = "15:04:05"

// Session is owned by the UI model; it is not safe for concurrent use.
type Session struct {
	profile         model.TripProfile
	lastDestination string
	conversation    *Conversation

	// displayed is the answer currently on screen. It is committed while it
	// is also part of the conversation log.
	displayed          *model.ConversationEntry
	displayedCommitted bool

	requestID uint64
	inFlight  bool
}

// New creates an empty session.
func New() *Session {
	return &Session{conversation: NewConversation(nil)}
}

// Profile returns the trip profile.
func (s *Session) Profile() model.TripProfile {
	return s.profile
}

// SetProfile replaces the trip profile from the survey form. Any request in
// flight was issued for the old profile and is cancelled.
func (s *Session) SetProfile(p model.TripProfile) {
	s.CancelRequest()
	s.profile = p
}

// LastDestination returns the most recently inferred destination, or "".
func (s *Session) LastDestination() string {
	return s.lastDestination
}

// Conversation returns the conversation log.
func (s *Session) Conversation() *Conversation {
	return s.conversation
}

// Displayed returns the answer on screen.
func (s *Session) Displayed() (model.ConversationEntry, bool) {
	if s.displayed == nil {
		return model.ConversationEntry{}, false
	}
	return *s.displayed, true
}

// HasContent reports whether there is anything to save or export.
func (s *Session) HasContent() bool {
	return s.conversation.Len() > 0 || s.displayed != nil
}

// ProcessQuestion resolves references to the last destination.
func (s *Session) ProcessQuestion(question string) string {
	return Resolve(question, s.lastDestination)
}

// BeginRequest marks a planning request as started and returns its id.
func (s *Session) BeginRequest() uint64 {
	s.requestID++
	s.inFlight = true
	return s.requestID
}

// Loading reports whether a planning request is outstanding.
func (s *Session) Loading() bool {
	return s.inFlight
}

// Current reports whether id is the outstanding request.
func (s *Session) Current(id uint64) bool {
	return s.inFlight && id == s.requestID
}

// CancelRequest invalidates the outstanding request so its result is dropped.
func (s *Session) CancelRequest() {
	s.requestID++
	s.inFlight = false
}

// FailRequest ends request id without a result. Stale ids are ignored.
func (s *Session) FailRequest(id uint64) bool {
	if !s.Current(id) {
		return false
	}
	s.inFlight = false
	return true
}

// ApplyResponse commits the answer to request id. It returns false, and
// changes nothing, when id has been superseded.
func (s *Session) ApplyResponse(id uint64, question string, answer model.Answer, at time.Time) bool {
	if !s.Current(id) {
		return false
	}
	s.inFlight = false

	entry := model.ConversationEntry{
		Question:  question,
		Answer:    answer.Text,
		Photos:    append([]string{}, answer.Photos...),
		Timestamp: at.Format(TimestampLayout),
	}
	s.conversation.Append(entry)
	s.displayed = &entry
	s.displayedCommitted = true

	if dest := InferDestination(question, s.profile.Destination); dest != "" {
		s.lastDestination = dest
	}
	return true
}

// ClearHistory empties the conversation log. The answer on screen stays and
// becomes the only exportable exchange.
func (s *Session) ClearHistory() {
	s.conversation.Clear()
	s.displayedCommitted = false
}

// ActiveExchange returns the displayed answer when it is not part of the
// committed history, so exports never include an answer twice.
func (s *Session) ActiveExchange() *model.ConversationEntry {
	if s.displayed == nil || s.displayedCommitted {
		return nil
	}
	entry := s.displayed.Clone()
	return &entry
}

// Restore rehydrates the session from a saved favorite.
func (s *Session) Restore(profile model.TripProfile, history []model.ConversationEntry) {
	s.CancelRequest()
	s.profile = profile
	s.conversation = NewConversation(history)
	s.displayed = nil
	s.displayedCommitted = false
	s.lastDestination = strings.TrimSpace(profile.Destination)
}

// FavoriteDestination is the destination a favorite would be saved under.
func (s *Session) FavoriteDestination() string {
	if s.lastDestination != "" {
		return s.lastDestination
	}
	return strings.TrimSpace(s.profile.Destination)
}

// FavoriteSnapshot returns the history and photos to embed in a favorite.
// With an empty log the displayed answer stands in for the history; photos
// come from the displayed answer, else from the newest history entry.
func (s *Session) FavoriteSnapshot() ([]model.ConversationEntry, []string) {
	history := s.conversation.Snapshot()
	if len(history) == 0 && s.displayed != nil {
		history = []model.ConversationEntry{s.displayed.Clone()}
	}

	var photos []string
	if s.displayed != nil && len(s.displayed.Photos) > 0 {
		photos = append(photos, s.displayed.Photos...)
	} else if last, ok := s.conversation.Last(); ok {
		photos = append(photos, last.Photos...)
	}
	return history, photos
}

// PanelCity is the city the info panel should show.
func (s *Session) PanelCity() string {
	if s.lastDestination != "" {
		return s.lastDestination
	}
	if dest := strings.TrimSpace(s.profile.Destination); dest != "" {
		return dest
	}
	if s.displayed != nil {
		return InferDestination(s.displayed.Answer, "")
	}
	return ""
}
