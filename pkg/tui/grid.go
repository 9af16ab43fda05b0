package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/eventreel/pkg/app"
	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
)

const (
	gridCardWidth  = 28
	gridCardHeight = 5
)

// gridSection is the filtered, paginated list of every event.
type gridSection struct {
	env      *env
	keys     keyMap
	all      []gallery.Event
	filter   gallery.Filter
	matches  []gallery.Event
	pager    *gallery.Pager
	selected int
	cols     int
}

func newGridSection(e *env, keys keyMap, pageSize, pageStep int) *gridSection {
	return &gridSection{
		env:   e,
		keys:  keys,
		pager: gallery.NewPager(pageSize, pageStep),
		cols:  1,
	}
}

func (g *gridSection) ID() string          { return "grid" }
func (g *gridSection) Title() string       { return "Events" }
func (g *gridSection) MinSize() (int, int) { return gridCardWidth, gridCardHeight + 2 }

func gridColumns(width int) int {
	return max((width+1)/(gridCardWidth+1), 1)
}

func gridZone(i int) string { return "grid-card-" + strconv.Itoa(i) }

// visible is the page of matches currently shown.
func (g *gridSection) visible() []gallery.Event {
	return g.pager.Page(g.matches)
}

// Selected returns the highlighted event.
func (g *gridSection) Selected() (gallery.Event, bool) {
	page := g.visible()
	if g.selected < 0 || g.selected >= len(page) {
		return gallery.Event{}, false
	}
	return page[g.selected], true
}

func (g *gridSection) apply(reset bool) {
	g.matches = g.filter.Apply(g.all)
	g.pager.SetTotal(len(g.matches))
	if reset {
		g.pager.Reset()
		g.selected = 0
	}
	g.selected = min(g.selected, max(g.pager.Visible()-1, 0))
}

func (g *gridSection) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case app.CatalogChangedMsg:
		if msg.Err == nil {
			g.all = msg.Events
			g.apply(false)
		}
	case app.FilterChangedMsg:
		g.filter = msg.Filter
		g.apply(true)
	case tea.WindowSizeMsg:
		g.cols = gridColumns(msg.Width - 2)
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return nil
		}
		for i, ev := range g.visible() {
			if g.env.zones.Get(gridZone(i)).InBounds(msg) {
				g.selected = i
				return app.OpenCmd(ev)
			}
		}
	}
	return nil
}

func (g *gridSection) move(delta int) {
	n := g.pager.Visible()
	if n == 0 {
		return
	}
	g.selected = min(max(g.selected+delta, 0), n-1)
}

func (g *gridSection) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, g.keys.Left):
		g.move(-1)
	case key.Matches(msg, g.keys.Right):
		g.move(1)
	case key.Matches(msg, g.keys.Up):
		g.move(-g.cols)
	case key.Matches(msg, g.keys.Down):
		g.move(g.cols)
	case key.Matches(msg, g.keys.More):
		g.pager.More()
	case key.Matches(msg, g.keys.Open):
		if ev, ok := g.Selected(); ok {
			return app.OpenCmd(ev)
		}
	}
	return nil
}

func (g *gridSection) View(width, height int) string {
	th := g.env.theme
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Dim))
	page := g.visible()

	header := fmt.Sprintf("Showing %d of %d events", len(page), len(g.matches))
	if !g.filter.IsZero() {
		header += fmt.Sprintf(" · %s", g.filter.Category)
		if q := strings.TrimSpace(g.filter.Query); q != "" {
			header += fmt.Sprintf(" · %q", q)
		}
	}
	if len(page) == 0 {
		return dim.Render(header) + "\n\n" + dim.Render("No events match the current filter.")
	}

	cols := gridColumns(width)
	rowsFit := max((height-2)/gridCardHeight, 1)
	selRow := g.selected / cols
	first := max(selRow-rowsFit+1, 0)

	var rows []string
	for r := first; r < first+rowsFit && r*cols < len(page); r++ {
		var cards []string
		for c := 0; c < cols && r*cols+c < len(page); c++ {
			i := r*cols + c
			cards = append(cards, g.env.zones.Mark(gridZone(i), g.renderCard(page[i], i == g.selected)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	footer := ""
	if g.pager.HasMore() {
		footer = dim.Render(fmt.Sprintf("m: show %d more", g.pager.Remaining()))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		dim.Render(header),
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		footer,
	)
}

func (g *gridSection) renderCard(ev gallery.Event, selected bool) string {
	th := g.env.theme
	inner := gridCardWidth - 2

	title := tuiHighlight(ev.Title, g.filter.Query, th)
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(th.Title)).Render(title),
		lipgloss.NewStyle().Foreground(lipgloss.Color(th.Dim)).Render(gallery.FormatDate(ev.Date)),
		strings.TrimSpace(th.Badge(ev.Category) + " " + th.FeaturedMark(ev.Featured)),
	}

	border := th.Border
	if selected {
		border = th.BorderFocus
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Width(inner).
		Height(gridCardHeight - 2).
		Render(tuiFitBlock(strings.Join(lines, "\n"), inner, gridCardHeight-2))
}
