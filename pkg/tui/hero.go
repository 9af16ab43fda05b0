package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/eventreel/pkg/app"
	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
	"gitlab.com/tinyland/lab/eventreel/pkg/image"
	"gitlab.com/tinyland/lab/eventreel/pkg/rotation"
)

// heroSection is the fading slider at the top of the screen. A progress
// bar shows how much of the current slide's interval has elapsed.
type heroSection struct {
	env    *env
	keys   keyMap
	ctrl   *rotation.Controller
	slides []gallery.Event
	count  int

	bar     progress.Model
	step    time.Duration
	started time.Time
	now     time.Time
}

func newHeroSection(e *env, keys keyMap, count int, interval, step time.Duration) *heroSection {
	if step <= 0 {
		step = 50 * time.Millisecond
	}
	bar := progress.New(
		progress.WithSolidFill(e.theme.ProgressFull),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = e.theme.ProgressEmpty
	now := e.now()
	return &heroSection{
		env:     e,
		keys:    keys,
		ctrl:    rotation.New(rotation.Config{Interval: interval, AutoAdvance: true}),
		count:   max(count, 1),
		bar:     bar,
		step:    step,
		started: now,
		now:     now,
	}
}

func (h *heroSection) ID() string          { return "hero" }
func (h *heroSection) Title() string       { return "Highlights" }
func (h *heroSection) MinSize() (int, int) { return 30, 6 }

// Init arms the slide timer and the progress ticker.
func (h *heroSection) Init() tea.Cmd {
	return tea.Batch(app.RotationCmd(h.ctrl.Init()), app.ProgressCmd(h.step))
}

// Progress is the elapsed fraction of the current slide, in [0, 1].
func (h *heroSection) Progress() float64 {
	if !h.ctrl.AutoAdvance() || h.ctrl.Len() == 0 {
		return 0
	}
	elapsed := h.now.Sub(h.started)
	if elapsed <= 0 {
		return 0
	}
	return min(float64(elapsed)/float64(h.ctrl.Interval()), 1)
}

// restarted resets the progress bar after any slide change and arms s.
func (h *heroSection) restarted(s *rotation.Schedule) tea.Cmd {
	h.started = h.env.now()
	h.now = h.started
	return tea.Batch(app.RotationCmd(s), h.coverCmd())
}

func (h *heroSection) coverCmd() tea.Cmd {
	if h.ctrl.Len() == 0 {
		return nil
	}
	return h.env.requestPhoto(h.slides[h.ctrl.Index()].Cover())
}

func (h *heroSection) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case app.CatalogChangedMsg:
		if msg.Err != nil {
			return nil
		}
		slides := gallery.HeroSlides(msg.Events, h.count)
		same := gallery.SameEvents(slides, h.slides)
		h.slides = slides
		if same {
			// A re-poll of the same slides keeps the pending tick.
			return nil
		}
		return h.restarted(h.ctrl.SetLen(len(h.slides)))
	case rotation.Tick:
		if !h.ctrl.Owns(msg) {
			return nil
		}
		if s := h.ctrl.HandleTick(msg); s != nil {
			return h.restarted(s)
		}
	case app.ProgressTickMsg:
		h.now = msg.Time
		return app.ProgressCmd(h.step)
	}
	return nil
}

func (h *heroSection) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, h.keys.Left):
		return h.restarted(h.ctrl.Previous())
	case key.Matches(msg, h.keys.Right):
		return h.restarted(h.ctrl.Next())
	case key.Matches(msg, h.keys.Toggle):
		return h.restarted(h.ctrl.ToggleAutoAdvance())
	case key.Matches(msg, h.keys.Jump):
		if s, ok := h.ctrl.GoTo(int(msg.Runes[0] - '1')); ok {
			return h.restarted(s)
		}
	case key.Matches(msg, h.keys.Open):
		if h.ctrl.Len() > 0 {
			return app.OpenCmd(h.slides[h.ctrl.Index()])
		}
	}
	return nil
}

// current is the slide the fade mapper shows fully opaque.
func (h *heroSection) current() (gallery.Event, bool) {
	for i, t := range h.ctrl.Transforms(rotation.Fade) {
		if t.Role == rotation.RoleCenter {
			return h.slides[i], true
		}
	}
	return gallery.Event{}, false
}

func (h *heroSection) View(width, height int) string {
	th := h.env.theme
	ev, ok := h.current()
	if !ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(th.Dim)).Render("No events yet")
	}

	textW := width
	photo := ""
	if width >= 60 {
		cols := width / 3
		if photo = h.env.photo(ev.Cover(), cols, height-1, image.Cover); photo != "" {
			textW = width - cols - 2
		}
	}

	title := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Title)).Bold(true).Render(ev.Title)
	meta := strings.Join(nonEmpty(gallery.FormatDate(ev.Date), th.Badge(ev.Category), th.FeaturedMark(ev.Featured)), " · ")
	desc := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.Foreground)).
		Width(textW).
		MaxHeight(max(height-3, 0)).
		Render(ev.Description)

	dots := tuiDots(h.ctrl.Index(), h.ctrl.Len(), th)
	bar := h.bar
	bar.Width = max(textW-lipgloss.Width(dots)-1, 4)
	footer := strings.TrimSpace(dots + " " + bar.ViewAs(h.Progress()))

	text := lipgloss.JoinVertical(lipgloss.Left, title, meta, desc)
	text = lipgloss.PlaceVertical(height-1, lipgloss.Top, text)
	text = lipgloss.JoinVertical(lipgloss.Left, tuiFitBlock(text, textW, height-1), footer)
	if photo == "" {
		return text
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, text, "  ", photo)
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
