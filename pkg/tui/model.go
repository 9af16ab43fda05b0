// Package tui is the interactive terminal gallery: a hero slider, the
// featured carousel, search and a paginated grid, with a lightbox overlay
// for an event's photos.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/eventreel/pkg/app"
	"gitlab.com/tinyland/lab/eventreel/pkg/config"
	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
	"gitlab.com/tinyland/lab/eventreel/pkg/image"
	"gitlab.com/tinyland/lab/eventreel/pkg/theme"
)

// Options carries the collaborators of the gallery. Everything is
// optional: without a Loader the catalog never loads, without a Fetcher
// and Renderer photos are described instead of drawn.
type Options struct {
	Context  context.Context
	Loader   *app.Loader
	Fetcher  *image.Fetcher
	Renderer *image.Renderer
	Theme    theme.Theme
	Logger   *slog.Logger
	// Refresh re-polls the catalog. Zero disables polling.
	Refresh time.Duration
	Now     func() time.Time
}

// Model is the root bubbletea model.
type Model struct {
	env     *env
	loader  *app.Loader
	refresh time.Duration
	widgets []app.Widget
	focus   app.Focus
	keys    keyMap
	help    help.Model

	lightbox  gallery.Lightbox
	lbLoading bool

	events  int
	status  string
	offline bool
	stored  time.Time

	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates a model over the given sections, focused on the first.
func New(opts Options, widgets ...app.Widget) Model {
	h := help.New()
	return Model{
		env:     newEnv(opts),
		loader:  opts.Loader,
		refresh: opts.Refresh,
		widgets: widgets,
		focus:   app.NewFocus(len(widgets)),
		keys:    defaultKeyMap(),
		help:    h,
	}
}

// NewGallery creates the standard screen configured by cfg.
func NewGallery(cfg *config.Config, opts Options) Model {
	if opts.Refresh == 0 {
		opts.Refresh = cfg.Client.RefreshInterval.Duration
	}
	m := New(opts)
	m.widgets = []app.Widget{
		newHeroSection(m.env, m.keys, cfg.Hero.Slides, cfg.Hero.Interval.Duration, cfg.Hero.ProgressStep.Duration),
		newCarouselSection(m.env, m.keys, cfg.Carousel.Variant, cfg.Carousel.Size,
			cfg.Carousel.Interval.Duration, cfg.Carousel.AutoAdvance),
		newSearchSection(m.env, m.keys),
		newGridSection(m.env, m.keys, cfg.Gallery.PageSize, cfg.Gallery.PageStep),
	}
	m.focus = app.NewFocus(len(m.widgets))
	return m
}

// Init starts the section timers and the first catalog load.
func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.widgets)+1)
	for _, w := range m.widgets {
		if in, ok := w.(interface{ Init() tea.Cmd }); ok {
			cmds = append(cmds, in.Init())
		}
	}
	if m.loader != nil {
		cmds = append(cmds, app.LoadCatalogCmd(m.env.ctx, m.loader))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.help.Width = msg.Width
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.lightbox.IsOpen() {
			return m, nil
		}
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			for i, w := range m.widgets {
				if m.env.zones.Get(w.ID()).InBounds(msg) {
					m.focus.Set(i)
				}
			}
		}
		return m, m.broadcast(msg)

	case app.CatalogChangedMsg:
		m.applyCatalog(msg)
		return m, tea.Batch(m.broadcast(msg), app.RefreshCmd(m.refresh))

	case app.RefreshMsg:
		if m.loader == nil {
			return m, nil
		}
		return m, app.LoadCatalogCmd(m.env.ctx, m.loader)

	case app.OpenEventMsg:
		return m.openEvent(msg.Event)

	case app.EventLoadedMsg:
		return m.eventLoaded(msg)

	case app.PhotoLoadedMsg:
		m.env.storePhoto(msg)
		return m, nil

	case app.StatusMsg:
		m.status = msg.Text
		return m, nil
	}

	return m, m.broadcast(msg)
}

func (m *Model) applyCatalog(msg app.CatalogChangedMsg) {
	switch {
	case msg.Err != nil:
		m.status = "Catalog unavailable: " + msg.Err.Error()
		m.env.logger.Error("catalog load failed", "error", msg.Err)
	case msg.Offline:
		m.offline, m.stored = true, msg.Stored
		m.events = len(msg.Events)
		m.status = ""
	default:
		m.offline, m.stored = false, time.Time{}
		m.events = len(msg.Events)
		m.status = ""
	}
}

// broadcast hands msg to every section.
func (m Model) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.widgets))
	for _, w := range m.widgets {
		cmds = append(cmds, w.Update(msg))
	}
	return tea.Batch(cmds...)
}

func (m Model) focusedWidget() app.Widget {
	if len(m.widgets) == 0 {
		return nil
	}
	return m.widgets[m.focus.Index()]
}

func (m Model) capturing() bool {
	c, ok := m.focusedWidget().(app.Capturer)
	return ok && c.Capturing()
}

// activator finds the section brought up by the search key.
func (m Model) activator() (int, app.Widget) {
	for i, w := range m.widgets {
		if _, ok := w.(app.Activator); ok {
			return i, w
		}
	}
	return -1, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.lightbox.IsOpen() {
		return m.handleLightboxKey(msg)
	}
	if m.capturing() {
		return m, m.focusedWidget().HandleKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.FocusNext):
		m.focus.Forward()
		return m, nil
	case key.Matches(msg, m.keys.FocusPrev):
		m.focus.Backward()
		return m, nil
	case key.Matches(msg, m.keys.Search):
		i, w := m.activator()
		if w == nil {
			return m, nil
		}
		m.focus.Set(i)
		return m, w.(app.Activator).Activate()
	case key.Matches(msg, m.keys.Category):
		// Category cycling works from any section.
		if _, w := m.activator(); w != nil {
			return m, w.HandleKey(msg)
		}
	}

	if w := m.focusedWidget(); w != nil {
		return m, w.HandleKey(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.env.zones.Close()
	return m, tea.Quit
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading events..."
	}

	footer := m.renderFooter()
	bodyH := max(m.height-lipgloss.Height(footer), 1)

	var body string
	if m.lightbox.IsOpen() {
		body = m.renderLightbox(m.width, bodyH)
	} else {
		cells := tuiLayout(m.widgets, m.focus.Index(), m.width, bodyH)
		body = tuiRenderStack(cells, m.env.theme, m.env.zones.Mark)
	}
	return m.env.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, body, footer))
}

func (m Model) renderFooter() string {
	msg := m.status
	if msg == "" {
		msg = fmt.Sprintf("eventreel · %d events", m.events)
		if m.offline {
			msg += fmt.Sprintf(" · offline, cached %s", m.stored.Format("Jan 2 15:04"))
		}
	}
	right := ""
	if w := m.focusedWidget(); w != nil && !m.lightbox.IsOpen() {
		right = w.Title()
	}
	return tuiRenderStatusBar(msg, right, m.width, m.env.theme) + "\n" + m.help.View(m.keys)
}

// Width returns the terminal width.
func (m Model) Width() int { return m.width }

// Height returns the terminal height.
func (m Model) Height() int { return m.height }

// Ready reports whether the first WindowSizeMsg has arrived.
func (m Model) Ready() bool { return m.ready }

// Focused returns the index of the focused section.
func (m Model) Focused() int { return m.focus.Index() }

// ShowHelp reports whether the full help is shown.
func (m Model) ShowHelp() bool { return m.help.ShowAll }

// Quitting reports whether quit was requested.
func (m Model) Quitting() bool { return m.quitting }

// Status returns the status bar message.
func (m Model) Status() string { return m.status }

// Offline reports whether the catalog came from the offline cache.
func (m Model) Offline() bool { return m.offline }

// Lightbox returns the lightbox state.
func (m Model) Lightbox() gallery.Lightbox { return m.lightbox }

// Filter returns the active search filter.
func (m Model) Filter() gallery.Filter {
	for _, w := range m.widgets {
		if s, ok := w.(*searchSection); ok {
			return s.Filter()
		}
	}
	return gallery.Filter{}
}
