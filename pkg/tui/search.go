package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/eventreel/pkg/app"
	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
	"gitlab.com/tinyland/lab/eventreel/pkg/rotation"
)

// searchSection holds the category tabs and the title search field.
type searchSection struct {
	env      *env
	keys     keyMap
	input    textinput.Model
	category int
}

func newSearchSection(e *env, keys keyMap) *searchSection {
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "search titles"
	in.CharLimit = 64
	in.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(e.theme.Accent))
	return &searchSection{env: e, keys: keys, input: in}
}

func (s *searchSection) ID() string          { return "search" }
func (s *searchSection) Title() string       { return "Search" }
func (s *searchSection) MinSize() (int, int) { return 30, 2 }

// Capturing reports whether the search field has the keyboard.
func (s *searchSection) Capturing() bool { return s.input.Focused() }

// Activate focuses the search field.
func (s *searchSection) Activate() tea.Cmd { return s.input.Focus() }

// Filter is the current category and query.
func (s *searchSection) Filter() gallery.Filter {
	return gallery.Filter{
		Category: gallery.Categories[s.category],
		Query:    strings.TrimSpace(s.input.Value()),
	}
}

func catZone(i int) string { return "search-cat-" + strconv.Itoa(i) }

// cycle moves the category selection by delta, wrapping.
func (s *searchSection) cycle(delta int) tea.Cmd {
	s.category = rotation.Wrap(s.category+delta, len(gallery.Categories))
	return app.FilterCmd(s.Filter())
}

func (s *searchSection) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return nil
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return nil
		}
		for i := range gallery.Categories {
			if s.env.zones.Get(catZone(i)).InBounds(msg) {
				return s.cycle(i - s.category)
			}
		}
		return nil
	}
	// Cursor blink and other textinput internals.
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *searchSection) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if s.input.Focused() {
		switch msg.Type {
		case tea.KeyEsc:
			s.input.Blur()
			if s.input.Value() == "" {
				return nil
			}
			s.input.Reset()
			return app.FilterCmd(s.Filter())
		case tea.KeyEnter, tea.KeyTab, tea.KeyShiftTab:
			s.input.Blur()
			return nil
		}
		before := s.input.Value()
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		if s.input.Value() != before {
			return tea.Batch(cmd, app.FilterCmd(s.Filter()))
		}
		return cmd
	}

	switch {
	case key.Matches(msg, s.keys.Search), key.Matches(msg, s.keys.Open):
		return s.Activate()
	case msg.String() == "C":
		return s.cycle(-1)
	case key.Matches(msg, s.keys.Category), key.Matches(msg, s.keys.Right):
		return s.cycle(1)
	case key.Matches(msg, s.keys.Left):
		return s.cycle(-1)
	case key.Matches(msg, s.keys.Close):
		if s.input.Value() != "" || s.category != 0 {
			s.input.Reset()
			s.category = 0
			return app.FilterCmd(s.Filter())
		}
	}
	return nil
}

func (s *searchSection) View(width, height int) string {
	th := s.env.theme
	tabs := make([]string, len(gallery.Categories))
	for i, c := range gallery.Categories {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color(th.Dim))
		if i == s.category {
			style = style.Bold(true).
				Foreground(lipgloss.Color(th.Background)).
				Background(th.CategoryColor(c))
		}
		tabs[i] = s.env.zones.Mark(catZone(i), style.Render(string(c)))
	}
	in := s.input
	in.Width = max(width-len(in.Prompt)-1, 1)
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n" + in.View()
}
