package itinerary

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viajeia/internal/model"
	"viajeia/internal/photos"
)

type fakeSource struct {
	broken    map[string]bool
	requested []string
}

func (f *fakeSource) FetchAll(_ context.Context, urls []string) []photos.Result {
	f.requested = append(f.requested, urls...)
	out := make([]photos.Result, len(urls))
	for i, u := range urls {
		if f.broken[u] {
			out[i] = photos.Result{URL: u, Err: photos.ErrUndecodable}
			continue
		}
		out[i] = photos.Result{URL: u, Image: image.NewRGBA(image.Rect(0, 0, 8, 8))}
	}
	return out
}

var tokyo = model.TripProfile{
	Destination: "Tokyo",
	Date:        "2026-11-02",
	Budget:      model.BudgetMedium,
	Preference:  model.PreferenceCulture,
}

func newTestRenderer(src PhotoSource) *Renderer {
	r := NewRenderer(src, nil)
	r.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local) }
	return r
}

func TestRender_nothingToExport(t *testing.T) {
	doc, err := newTestRenderer(nil).Render(context.Background(), Input{Profile: tokyo})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Nil(t, doc)
}

func TestRender_galleryIsDeduplicatedAndCapped(t *testing.T) {
	src := &fakeSource{}
	in := Input{
		Profile: tokyo,
		Active:  &model.ConversationEntry{Answer: "Welcome", Photos: []string{"a", "b"}},
		History: []model.ConversationEntry{
			{Question: "q1", Answer: "x", Photos: []string{"b", "c", "d"}},
			{Question: "q2", Answer: "y", Photos: []string{"e", "f", "g", "h", "a"}},
		},
	}

	doc, err := newTestRenderer(src).Render(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, doc.Gallery)
	assert.Equal(t, doc.Gallery, src.requested)
	assert.Equal(t, 6, doc.Embedded)
	assert.Equal(t, 0, doc.Placeholders)
	assert.Equal(t, 3, doc.Exchanges)
}

func TestRender_brokenPhotoBecomesPlaceholder(t *testing.T) {
	src := &fakeSource{broken: map[string]bool{"p3": true}}
	in := Input{
		Profile: tokyo,
		History: []model.ConversationEntry{
			{Question: "Photos?", Answer: "Here", Photos: []string{"p1", "p2", "p3", "p4", "p5", "p6"}},
		},
	}

	doc, err := newTestRenderer(src).Render(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 5, doc.Embedded)
	assert.Equal(t, 1, doc.Placeholders)
	assert.True(t, strings.HasPrefix(string(doc.Bytes()), "%PDF-"))
}

func TestRender_paginatesWithFooters(t *testing.T) {
	var answer strings.Builder
	answer.WriteString("LODGING:\n")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&answer, "- Option %d: a comfortable place close to the station with breakfast included and late check-out on request\n", i)
	}
	answer.WriteString("COST ESTIMATE: about 900 USD\n")

	in := Input{Profile: tokyo}
	for i := 0; i < 3; i++ {
		in.History = append(in.History, model.ConversationEntry{Question: fmt.Sprintf("Where to stay %d?", i), Answer: answer.String()})
	}

	doc, err := newTestRenderer(nil).Render(context.Background(), in)
	require.NoError(t, err)

	require.Greater(t, doc.Pages, 2)
	require.Len(t, doc.Footers, doc.Pages)
	for i, footer := range doc.Footers {
		assert.Equal(t, fmt.Sprintf("Page %d of %d — generated by ViajeIA", i+1, doc.Pages), footer)
	}
}

// bodyLines returns n short body lines, one layout row each.
func bodyLines(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "- stop %d\n", i)
	}
	return b.String()
}

// The trip information block leaves the cursor at 98 mm and each body line
// advances 5 mm, so n lines put the next element at a known height.
func TestRender_breakMargins(t *testing.T) {
	oneExchange := func(answer string) Input {
		return Input{Profile: tokyo, History: []model.ConversationEntry{{Question: "Day one?", Answer: answer}}}
	}
	twoExchanges := func(n int) Input {
		return Input{Profile: tokyo, History: []model.ConversationEntry{
			{Question: "Day one?", Answer: bodyLines(n)},
			{Question: "Day two?", Answer: "- rest"},
		}}
	}
	withPhotos := func(n int) Input {
		in := oneExchange(bodyLines(n))
		in.History[0].Photos = []string{"p1", "p2"}
		return in
	}

	tests := []struct {
		name  string
		in    Input
		pages int
	}{
		// Second heading at 236 mm fits under the 60 mm margin, at 241 mm it does not
		// even though a body line would still fit there.
		{"heading fits", twoExchanges(24), 1},
		{"heading breaks", twoExchanges(25), 2},
		{"sub-heading fits", oneExchange(bodyLines(30) + "LOCAL TIPS:"), 1},
		{"sub-heading breaks", oneExchange(bodyLines(31) + "LOCAL TIPS:"), 2},
		{"photo section fits", withPhotos(20), 1},
		{"photo section breaks", withPhotos(21), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := newTestRenderer(nil).Render(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.pages, doc.Pages)
			assert.Len(t, doc.Footers, tt.pages)
		})
	}
}

func TestRender_filenameUsesProfileDestination(t *testing.T) {
	in := Input{
		Profile:         model.TripProfile{Destination: "Rio de Janeiro"},
		LastDestination: "Lima",
		History:         []model.ConversationEntry{{Question: "q", Answer: "a"}},
	}
	doc, err := newTestRenderer(nil).Render(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Itinerary_Rio_de_Janeiro_2026-10-19.pdf", doc.Filename)

	in.Profile = model.TripProfile{}
	doc, err = newTestRenderer(nil).Render(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Itinerary_Trip_2026-10-19.pdf", doc.Filename)
}

func TestRender_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := Input{History: []model.ConversationEntry{{Question: "q", Answer: "a"}}}

	_, err := newTestRenderer(&fakeSource{}).Render(ctx, in)
	assert.ErrorIs(t, err, model.ErrRender)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDocument_Save(t *testing.T) {
	in := Input{Profile: tokyo, History: []model.ConversationEntry{{Question: "q", Answer: "a"}}}
	doc, err := newTestRenderer(nil).Render(context.Background(), in)
	require.NoError(t, err)

	dir := t.TempDir()
	path, err := doc.Save(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Bytes(), data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Itinerary_Tokyo_2026-10-19.pdf", entries[0].Name())
}
