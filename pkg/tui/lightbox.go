package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/eventreel/pkg/app"
	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
	"gitlab.com/tinyland/lab/eventreel/pkg/image"
)

// openEvent shows ev in the lightbox. List responses carry no photos, so
// the full event is fetched when a loader is available.
func (m Model) openEvent(ev gallery.Event) (tea.Model, tea.Cmd) {
	m.lightbox.Open(ev)
	if len(ev.Photos) > 0 || m.loader == nil {
		m.lbLoading = false
		return m, m.lightboxPhotoCmd()
	}
	m.lbLoading = true
	return m, app.LoadEventCmd(m.env.ctx, m.loader.Source(), ev.ID)
}

func (m Model) eventLoaded(msg app.EventLoadedMsg) (tea.Model, tea.Cmd) {
	// The user may have closed or switched events while loading.
	if !m.lbLoading || !m.lightbox.IsOpen() || msg.ID != m.lightbox.Event().ID {
		return m, nil
	}
	m.lbLoading = false
	if msg.Err != nil {
		m.status = fmt.Sprintf("Could not load photos: %v", msg.Err)
		return m, nil
	}
	m.lightbox.Open(msg.Event)
	return m, m.lightboxPhotoCmd()
}

func (m Model) lightboxPhotoCmd() tea.Cmd {
	p, ok := m.lightbox.Photo()
	if !ok {
		return nil
	}
	return m.env.requestPhoto(p.URL)
}

func (m Model) handleLightboxKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Quit):
		m.lightbox.Close()
		m.lbLoading = false
		return m, nil
	case key.Matches(msg, m.keys.Left):
		m.lightbox.Previous()
	case key.Matches(msg, m.keys.Right), msg.Type == tea.KeySpace:
		m.lightbox.Next()
	case key.Matches(msg, m.keys.Jump):
		m.lightbox.GoTo(int(msg.Runes[0] - '1'))
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	default:
		return m, nil
	}
	return m, m.lightboxPhotoCmd()
}

func (m Model) renderLightbox(width, height int) string {
	th := m.env.theme
	ev := m.lightbox.Event()
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Dim))
	innerW, innerH := max(width-2, 1), max(height-2, 1)

	header := strings.Join(nonEmpty(
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(th.Title)).Render(ev.Title),
		gallery.FormatDate(ev.Date),
		th.Badge(ev.Category),
		th.FeaturedMark(ev.Featured),
	), " · ")

	desc := m.env.markdown(ev.Description, innerW)
	bodyH := max(innerH-2-lipgloss.Height(desc), 1)

	var body, caption string
	switch p, ok := m.lightbox.Photo(); {
	case m.lbLoading:
		body = dim.Render("Loading photos…")
	case !ok:
		body = dim.Render("This event has no photos.")
	default:
		caption = fmt.Sprintf("%d / %d", m.lightbox.Index()+1, m.lightbox.Len())
		if dots := tuiDots(m.lightbox.Index(), m.lightbox.Len(), th); dots != "" {
			caption = dots + "  " + dim.Render(caption)
		}
		body = m.env.photo(p.URL, innerW, max(bodyH-1, 1), image.Contain)
		if body == "" {
			body = dim.Render(p.URL)
		}
	}

	body = lipgloss.Place(innerW, bodyH, lipgloss.Center, lipgloss.Center, body)
	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		desc,
		body,
		lipgloss.PlaceHorizontal(innerW, lipgloss.Center, caption),
	)
	return tuiRenderFrame("Photos", content, width, height,
		lipgloss.Color(th.BorderFocus), lipgloss.Color(th.Title))
}
