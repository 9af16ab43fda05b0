package app

import tea "github.com/charmbracelet/bubbletea"

// Widget is one section of the gallery screen.
type Widget interface {
	// ID is a stable identifier, also used as the bubblezone mark.
	ID() string
	// Title is drawn in the section frame.
	Title() string
	// Update receives every message the root model does not consume.
	Update(msg tea.Msg) tea.Cmd
	// View renders the content area of the section.
	View(width, height int) string
	// MinSize is the smallest content area the section can use.
	MinSize() (int, int)
	// HandleKey receives key presses while the section is focused.
	HandleKey(key tea.KeyMsg) tea.Cmd
}

// Capturer is implemented by widgets that take raw text input. While
// Capturing is true the root model forwards every key to the widget.
type Capturer interface {
	Capturing() bool
}

// Activator is implemented by widgets that can be brought up from anywhere
// by a global key, such as the search field on "/".
type Activator interface {
	Activate() tea.Cmd
}
