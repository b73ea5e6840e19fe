package session

import "viajeia/internal/model"

// ContextSize is how many recent entries are sent to the planning service.
const ContextSize = 5

// Conversation is the ordered, append-only log of the active session.
type Conversation struct {
	entries []model.ConversationEntry
}

// NewConversation creates a conversation seeded with history.
func NewConversation(history []model.ConversationEntry) *Conversation {
	return &Conversation{entries: model.CloneHistory(history)}
}

// Append adds an entry to the end of the log.
func (c *Conversation) Append(entry model.ConversationEntry) {
	c.entries = append(c.entries, entry.Clone())
}

// Clear empties the log.
func (c *Conversation) Clear() {
	c.entries = nil
}

// Len returns the number of entries.
func (c *Conversation) Len() int {
	return len(c.entries)
}

// Entries returns every entry, oldest first. Callers must not modify it.
func (c *Conversation) Entries() []model.ConversationEntry {
	return c.entries
}

// Last returns the newest entry.
func (c *Conversation) Last() (model.ConversationEntry, bool) {
	if len(c.entries) == 0 {
		return model.ConversationEntry{}, false
	}
	return c.entries[len(c.entries)-1], true
}

// Context returns a copy of the most recent ContextSize entries in their
// original order. Older entries stay in the log.
func (c *Conversation) Context() []model.ConversationEntry {
	start := len(c.entries) - ContextSize
	if start < 0 {
		start = 0
	}
	return model.CloneHistory(c.entries[start:])
}

// Snapshot returns an independent copy of the whole log.
func (c *Conversation) Snapshot() []model.ConversationEntry {
	return model.CloneHistory(c.entries)
}
