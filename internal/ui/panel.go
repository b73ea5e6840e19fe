package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"viajeia/internal/infopanel"
	"viajeia/internal/model"
	"viajeia/internal/planner"
)

const panelWidth = 34

// PanelSource fetches info panel data for a city.
type PanelSource interface {
	Fetch(ctx context.Context, city string) (model.PanelInfo, error)
}

// panelState tracks the info panel. generation changes whenever the city
// does; ticks and results from older generations are dropped, which is what
// stops the previous refresh timer.
type panelState struct {
	city       string
	generation int
	info       *model.PanelInfo
	loading    bool
	err        string
}

// retarget points the panel at city and returns the commands that fetch it
// now and schedule the next refresh. It returns nil when nothing changed.
func (p *panelState) retarget(src PanelSource, city string, interval time.Duration) tea.Cmd {
	city = strings.TrimSpace(city)
	if strings.EqualFold(city, p.city) {
		return nil
	}

	p.generation++
	p.city = city
	p.info = nil
	p.err = ""
	p.loading = false
	if city == "" || src == nil {
		return nil
	}

	p.loading = true
	return tea.Batch(
		fetchPanelCmd(src, p.generation, city),
		panelTickCmd(p.generation, interval),
	)
}

// tick handles a refresh timer. Stale timers are dropped.
func (p *panelState) tick(src PanelSource, msg model.PanelTickMsg, interval time.Duration) tea.Cmd {
	if msg.Generation != p.generation || p.city == "" || src == nil {
		return nil
	}
	p.loading = true
	return tea.Batch(
		fetchPanelCmd(src, p.generation, p.city),
		panelTickCmd(p.generation, interval),
	)
}

// apply replaces the panel contents with a result. Stale results are
// dropped and it reports false.
func (p *panelState) apply(msg model.PanelLoadedMsg) bool {
	if msg.Generation != p.generation {
		return false
	}
	p.loading = false
	if msg.Err != nil {
		p.err = userMessage(msg.Err)
		return true
	}
	info := msg.Info
	p.info = &info
	p.err = ""
	return true
}

func fetchPanelCmd(src PanelSource, generation int, city string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), planner.Timeout)
		defer cancel()
		info, err := src.Fetch(ctx, city)
		return model.PanelLoadedMsg{Generation: generation, City: city, Info: info, Err: err}
	}
}

func panelTickCmd(generation int, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return model.PanelTickMsg{Generation: generation}
	})
}

// View renders the sidebar.
func (p *panelState) View(height int) string {
	var lines []string
	title := "Destination info"
	if p.city != "" {
		title = p.city
	}
	lines = append(lines, LabelStyle.Render(title), "")

	switch {
	case p.city == "":
		lines = append(lines, EmptyStateStyle.Padding(0).Width(panelWidth-4).Render(infopanel.EmptyHint))
	case p.info == nil && p.loading:
		lines = append(lines, HelpDescStyle.Render("Loading..."))
	case p.info == nil && p.err != "":
		lines = append(lines, ErrorStyle.Padding(0).Width(panelWidth-4).Render(p.err))
	case p.info != nil:
		data := infopanel.Lines(*p.info)
		if len(data) == 0 {
			lines = append(lines, HelpDescStyle.Render("No data available"))
		}
		for _, l := range data {
			lines = append(lines, NormalRowStyle.Width(panelWidth-4).Render(l))
		}
		if p.err != "" {
			lines = append(lines, "", ErrorStyle.Padding(0).Width(panelWidth-4).Render(p.err))
		}
	}

	return SidebarStyle.Width(panelWidth).Height(max(1, height)).Render(strings.Join(lines, "\n"))
}
