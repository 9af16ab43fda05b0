package tui

import (
	"context"
	stdimage "image"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/eventreel/pkg/app"
	"gitlab.com/tinyland/lab/eventreel/pkg/image"
	"gitlab.com/tinyland/lab/eventreel/pkg/theme"
)

// photoEdge bounds decoded photos kept in memory.
const photoEdge = 640

// env is what every section shares: palette, click zones and the photo
// pipeline.
type env struct {
	ctx      context.Context
	theme    theme.Theme
	zones    *zone.Manager
	fetcher  *image.Fetcher
	renderer *image.Renderer
	logger   *slog.Logger
	now      func() time.Time

	photos  map[string]stdimage.Image
	pending map[string]bool

	// md renders event descriptions; it is rebuilt when the width changes.
	md      *glamour.TermRenderer
	mdWidth int
}

func newEnv(opts Options) *env {
	e := &env{
		ctx:     opts.Context,
		theme:   opts.Theme,
		zones:   zone.New(),
		fetcher: opts.Fetcher,
		logger:  opts.Logger,
		now:     opts.Now,
		photos:  make(map[string]stdimage.Image),
		pending: make(map[string]bool),
	}
	if e.ctx == nil {
		e.ctx = context.Background()
	}
	if e.theme.Name == "" {
		e.theme = theme.Current
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if opts.Renderer != nil {
		// Sections are composed from text, so graphics protocols would
		// scribble over neighbouring frames.
		e.renderer = opts.Renderer.Inline()
	}
	return e
}

// requestPhoto starts a download for url unless it is loaded or in flight.
func (e *env) requestPhoto(url string) tea.Cmd {
	if e.fetcher == nil || e.renderer == nil || url == "" {
		return nil
	}
	if _, ok := e.photos[url]; ok || e.pending[url] {
		return nil
	}
	e.pending[url] = true
	return app.PhotoCmd(e.ctx, e.fetcher, url)
}

// storePhoto records a finished download. Failures are remembered as nil
// so they are not retried on every redraw.
func (e *env) storePhoto(msg app.PhotoLoadedMsg) {
	delete(e.pending, msg.URL)
	if msg.Err != nil {
		e.logger.Warn("photo load failed", "url", msg.URL, "error", msg.Err)
		e.photos[msg.URL] = nil
		return
	}
	e.photos[msg.URL] = image.Scale(msg.Image, photoEdge, photoEdge, image.Contain)
}

// photo renders the photo at url into a cols x rows box, or "" when it is
// not available.
func (e *env) photo(url string, cols, rows int, fit image.Fit) string {
	if e.renderer == nil || cols < 2 || rows < 1 {
		return ""
	}
	img := e.photos[url]
	if img == nil {
		return ""
	}
	out, err := e.renderer.Render(url, img, cols, rows, fit)
	if err != nil {
		e.logger.Debug("photo render failed", "url", url, "error", err)
		return ""
	}
	return out
}

// markdown renders an event description wrapped to width. Descriptions
// that fail to render are returned as they are.
func (e *env) markdown(text string, width int) string {
	text = strings.TrimSpace(text)
	if text == "" || width < 8 {
		return text
	}
	if e.md == nil || e.mdWidth != width {
		style := "light"
		if e.theme.Dark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width-4),
		)
		if err != nil {
			e.logger.Debug("markdown renderer unavailable", "error", err)
			return text
		}
		e.md, e.mdWidth = r, width
	}
	out, err := e.md.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
