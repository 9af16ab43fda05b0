package tui

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/eventreel/pkg/app"
	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
	"gitlab.com/tinyland/lab/eventreel/pkg/image"
	"gitlab.com/tinyland/lab/eventreel/pkg/rotation"
)

// carouselSection shows the featured events through a presentation
// mapper. Side cards are clickable and move the carousel toward them.
type carouselSection struct {
	env     *env
	keys    keyMap
	ctrl    *rotation.Controller
	mapper  rotation.Mapper
	variant string
	size    int
	items   []gallery.Event
}

func newCarouselSection(e *env, keys keyMap, variant string, size int, interval time.Duration, auto bool) *carouselSection {
	return &carouselSection{
		env:     e,
		keys:    keys,
		ctrl:    rotation.New(rotation.Config{Interval: interval, AutoAdvance: auto}),
		mapper:  rotation.MapperByName(variant),
		variant: strings.ToLower(strings.TrimSpace(variant)),
		size:    max(size, 1),
	}
}

func (c *carouselSection) ID() string          { return "carousel" }
func (c *carouselSection) Title() string       { return "Featured" }
func (c *carouselSection) MinSize() (int, int) { return 30, 8 }

// Init arms the auto-advance timer.
func (c *carouselSection) Init() tea.Cmd {
	return app.RotationCmd(c.ctrl.Init())
}

func cardZone(i int) string { return "carousel-card-" + strconv.Itoa(i) }

func (c *carouselSection) moved(s *rotation.Schedule) tea.Cmd {
	return tea.Batch(app.RotationCmd(s), c.coverCmd())
}

func (c *carouselSection) coverCmd() tea.Cmd {
	if c.ctrl.Len() == 0 {
		return nil
	}
	return c.env.requestPhoto(c.items[c.ctrl.Index()].Cover())
}

func (c *carouselSection) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case app.CatalogChangedMsg:
		if msg.Err != nil {
			return nil
		}
		items := gallery.FeaturedSlice(msg.Featured, c.size)
		same := gallery.SameEvents(items, c.items)
		c.items = items
		if same {
			return nil
		}
		return c.moved(c.ctrl.SetLen(len(c.items)))
	case rotation.Tick:
		if !c.ctrl.Owns(msg) {
			return nil
		}
		if s := c.ctrl.HandleTick(msg); s != nil {
			return c.moved(s)
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return nil
		}
		for i := range c.items {
			if c.env.zones.Get(cardZone(i)).InBounds(msg) {
				return c.click(i)
			}
		}
	}
	return nil
}

// click reacts to a card being clicked: side cards step toward
// themselves, far cards jump, the center card opens.
func (c *carouselSection) click(i int) tea.Cmd {
	if i < 0 || i >= c.ctrl.Len() {
		return nil
	}
	switch c.mapper.Map(i, c.ctrl.Index(), c.ctrl.Len()).Role {
	case rotation.RoleCenter:
		return app.OpenCmd(c.items[i])
	case rotation.RoleAdjacentLeft:
		return c.moved(c.ctrl.Previous())
	case rotation.RoleAdjacentRight:
		return c.moved(c.ctrl.Next())
	default:
		s, _ := c.ctrl.GoTo(i)
		return c.moved(s)
	}
}

func (c *carouselSection) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, c.keys.Left):
		return c.moved(c.ctrl.Previous())
	case key.Matches(msg, c.keys.Right):
		return c.moved(c.ctrl.Next())
	case key.Matches(msg, c.keys.Toggle):
		return c.moved(c.ctrl.ToggleAutoAdvance())
	case key.Matches(msg, c.keys.Jump):
		if s, ok := c.ctrl.GoTo(int(msg.Runes[0] - '1')); ok {
			return c.moved(s)
		}
	case key.Matches(msg, c.keys.Open):
		if c.ctrl.Len() > 0 {
			return app.OpenCmd(c.items[c.ctrl.Index()])
		}
	}
	return nil
}

type placedCard struct {
	index int
	t     rotation.Transform
	width int
}

// placeCards picks the visible cards that fit in width, highest Z first,
// and orders them left to right by offset.
func (c *carouselSection) placeCards(width int) []placedCard {
	base := min(max(width/3-1, 14), 36)
	var cards []placedCard
	for i, t := range c.ctrl.Transforms(c.mapper) {
		if t.Role.Visible() {
			w := max(int(math.Round(float64(base)*t.Scale)), 8)
			cards = append(cards, placedCard{index: i, t: t, width: min(w, width)})
		}
	}
	slices.SortStableFunc(cards, func(a, b placedCard) int { return cmp.Compare(b.t.Z, a.t.Z) })

	var kept []placedCard
	used := 0
	for _, pc := range cards {
		if len(kept) > 0 && used+pc.width+1 > width {
			continue
		}
		kept = append(kept, pc)
		used += pc.width + 1
	}
	slices.SortStableFunc(kept, func(a, b placedCard) int { return cmp.Compare(a.t.Offset, b.t.Offset) })
	return kept
}

func (c *carouselSection) View(width, height int) string {
	th := c.env.theme
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Dim))
	if len(c.items) == 0 {
		return dim.Render("No featured events")
	}

	cardH := max(height-1, 3)
	var row []string
	for k, pc := range c.placeCards(width) {
		if k > 0 {
			row = append(row, " ")
		}
		h := min(max(int(math.Round(float64(cardH)*pc.t.Scale)), 3), cardH)
		row = append(row, c.env.zones.Mark(cardZone(pc.index), c.renderCard(pc, h)))
	}
	cards := lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Center, row...))
	cards = lipgloss.PlaceVertical(cardH, lipgloss.Center, cards)
	return cards + "\n" + c.indicator(width)
}

func (c *carouselSection) renderCard(pc placedCard, height int) string {
	th := c.env.theme
	ev := c.items[pc.index]
	inner := max(pc.width-2, 1)
	center := pc.t.Role == rotation.RoleCenter

	lines := []string{
		lipgloss.NewStyle().Bold(center).Foreground(lipgloss.Color(th.Title)).Render(ev.Title),
		gallery.FormatDate(ev.Date),
		strings.TrimSpace(th.Badge(ev.Category) + " " + th.FeaturedMark(ev.Featured)),
	}
	if center && height-2 > len(lines)+2 {
		if p := c.env.photo(ev.Cover(), inner, height-2-len(lines), image.Cover); p != "" {
			lines = append([]string{p}, lines...)
		}
	}

	border := th.Border
	if center {
		border = th.BorderFocus
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Width(inner).
		Height(height - 2)
	if pc.t.Opacity < 0.9 {
		style = style.Faint(true)
	}
	return style.Render(tuiFitBlock(strings.Join(lines, "\n"), inner, height-2))
}

func (c *carouselSection) indicator(width int) string {
	th := c.env.theme
	state := "▶ auto"
	if !c.ctrl.AutoAdvance() {
		state = "‖ paused"
	}
	arrow := "→"
	if c.ctrl.Direction() == rotation.Backward {
		arrow = "←"
	}
	info := fmt.Sprintf("%d/%d %s  %s  %s", c.ctrl.Index()+1, c.ctrl.Len(), arrow, state, c.variant)
	line := strings.TrimSpace(tuiDots(c.ctrl.Index(), c.ctrl.Len(), th) + "  " +
		lipgloss.NewStyle().Foreground(lipgloss.Color(th.Dim)).Render(info))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, line)
}
