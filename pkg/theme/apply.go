package theme

import (
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
)

// CategoryColor returns the badge color for an event category. Unknown
// categories use the accent.
func (t Theme) CategoryColor(c gallery.Category) lipgloss.Color {
	switch c {
	case gallery.Cultural:
		return lipgloss.Color(t.Cultural)
	case gallery.Technical:
		return lipgloss.Color(t.Technical)
	case gallery.Sports:
		return lipgloss.Color(t.Sports)
	case gallery.Academic:
		return lipgloss.Color(t.Academic)
	default:
		return lipgloss.Color(t.Accent)
	}
}

// Badge renders a category label in its color.
func (t Theme) Badge(c gallery.Category) string {
	return lipgloss.NewStyle().
		Foreground(t.CategoryColor(c)).
		Bold(true).
		Render(string(c))
}

// FeaturedMark renders the star shown next to featured events, or "" for
// regular ones.
func (t Theme) FeaturedMark(featured bool) string {
	if !featured {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Featured)).Render("★")
}

// Highlight renders the part of s matched by a search query.
func (t Theme) Highlight(s string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.SearchHighlight)).
		Underline(true).
		Render(s)
}
