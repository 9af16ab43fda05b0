package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/eventreel/pkg/app"
	"gitlab.com/tinyland/lab/eventreel/pkg/theme"
)

// tuiCell is one section placed on screen.
type tuiCell struct {
	Widget  app.Widget
	Y, W, H int
	Focused bool
}

// tuiLayout stacks widgets top to bottom. Every section gets its minimum
// height plus the frame; the last one absorbs the remaining rows. Sections
// that no longer fit are dropped.
func tuiLayout(widgets []app.Widget, focused, width, height int) []tuiCell {
	if len(widgets) == 0 || width <= 0 || height <= 0 {
		return nil
	}
	cells := make([]tuiCell, 0, len(widgets))
	y := 0
	for i, w := range widgets {
		_, minH := w.MinSize()
		h := minH + 2
		if i == len(widgets)-1 {
			h = max(h, height-y)
		}
		if y+h > height {
			h = height - y
			if h < 3 {
				break
			}
		}
		cells = append(cells, tuiCell{Widget: w, Y: y, W: width, H: h, Focused: i == focused})
		y += h
	}
	return cells
}

// tuiRenderStack renders every cell in its frame, focused frames in the
// focus color.
func tuiRenderStack(cells []tuiCell, th theme.Theme, mark func(id, s string) string) string {
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		color := th.Border
		if c.Focused {
			color = th.BorderFocus
		}
		innerW, innerH := max(c.W-2, 1), max(c.H-2, 1)
		content := c.Widget.View(innerW, innerH)
		frame := tuiRenderFrame(c.Widget.Title(), content, c.W, c.H, lipgloss.Color(color), lipgloss.Color(th.Title))
		parts = append(parts, mark(c.Widget.ID(), frame))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// tuiRenderFrame draws content in a rounded border with the title set into
// the top edge.
func tuiRenderFrame(title, content string, width, height int, border, titleColor lipgloss.Color) string {
	if width < 4 || height < 2 {
		return ""
	}
	innerW, innerH := width-2, height-2

	bs := lipgloss.NewStyle().Foreground(border)
	top := tuiTitleBar(title, innerW, bs, lipgloss.NewStyle().Foreground(titleColor).Bold(true))

	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderTop(false).
		BorderForeground(border).
		Width(innerW).
		Height(innerH).
		Render(tuiFitBlock(content, innerW, innerH))
	return top + "\n" + body
}

func tuiTitleBar(title string, innerW int, bs, ts lipgloss.Style) string {
	b := lipgloss.RoundedBorder()
	if title == "" || innerW < 6 {
		return bs.Render(b.TopLeft + strings.Repeat(b.Top, innerW) + b.TopRight)
	}
	title = ansi.Truncate(title, innerW-4, "…")
	fill := innerW - ansi.StringWidth(title) - 3
	return bs.Render(b.TopLeft+b.Top+" ") +
		ts.Render(title) +
		bs.Render(" "+strings.Repeat(b.Top, max(fill, 0))+b.TopRight)
}

// tuiFitBlock clips s to at most width columns and height lines so the
// frame never wraps.
func tuiFitBlock(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		if ansi.StringWidth(l) > width {
			lines[i] = ansi.Truncate(l, width, "")
		}
	}
	return strings.Join(lines, "\n")
}

// tuiRenderStatusBar renders the one-line status bar, padded or truncated
// to exactly width columns.
func tuiRenderStatusBar(msg, right string, width int, th theme.Theme) string {
	if width <= 0 {
		return ""
	}
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Dim))
	gap := width - ansi.StringWidth(msg) - ansi.StringWidth(right)
	if gap < 1 {
		return dim.Render(ansi.Truncate(msg, width, "…"))
	}
	return dim.Render(msg + strings.Repeat(" ", gap) + right)
}

// tuiHighlight marks the first case-insensitive match of query in s.
func tuiHighlight(s, query string, th theme.Theme) string {
	q := strings.TrimSpace(query)
	if q == "" {
		return s
	}
	i := strings.Index(strings.ToLower(s), strings.ToLower(q))
	if i < 0 || i+len(q) > len(s) {
		return s
	}
	return s[:i] + th.Highlight(s[i:i+len(q)]) + s[i+len(q):]
}

// tuiDots renders a position indicator, or "" for long collections.
func tuiDots(index, n int, th theme.Theme) string {
	if n < 2 || n > 12 {
		return ""
	}
	on := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Accent))
	off := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Dim))
	var sb strings.Builder
	for i := range n {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i == index {
			sb.WriteString(on.Render("●"))
		} else {
			sb.WriteString(off.Render("○"))
		}
	}
	return sb.String()
}
