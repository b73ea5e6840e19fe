package session_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viajeia/internal/model"
	"viajeia/internal/session"
)

func entry(i int) model.ConversationEntry {
	return model.ConversationEntry{
		Question:  fmt.Sprintf("q%d", i),
		Answer:    fmt.Sprintf("a%d", i),
		Photos:    []string{fmt.Sprintf("https://img.example/%d.jpg", i)},
		Timestamp: "10:00:00",
	}
}

func TestConversation_ContextKeepsLastFive(t *testing.T) {
	c := session.NewConversation(nil)
	for i := 1; i <= 8; i++ {
		c.Append(entry(i))
	}

	ctx := c.Context()

	require.Len(t, ctx, session.ContextSize)
	for i, e := range ctx {
		assert.Equal(t, fmt.Sprintf("q%d", i+4), e.Question)
	}
	assert.Equal(t, 8, c.Len(), "display log keeps every entry")
	assert.Equal(t, "q1", c.Entries()[0].Question)
}

func TestConversation_ContextShortLog(t *testing.T) {
	c := session.NewConversation(nil)
	c.Append(entry(1))
	c.Append(entry(2))

	ctx := c.Context()

	require.Len(t, ctx, 2)
	assert.Equal(t, "q1", ctx[0].Question)
}

func TestConversation_SnapshotIsIndependent(t *testing.T) {
	c := session.NewConversation(nil)
	c.Append(entry(1))

	snap := c.Snapshot()
	snap[0].Photos[0] = "changed"
	snap[0].Question = "changed"

	assert.Equal(t, "q1", c.Entries()[0].Question)
	assert.Equal(t, "https://img.example/1.jpg", c.Entries()[0].Photos[0])
}

func TestConversation_Clear(t *testing.T) {
	c := session.NewConversation([]model.ConversationEntry{entry(1), entry(2)})

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Context())
	_, ok := c.Last()
	assert.False(t, ok)
}
