// Package terminal works out what the attached terminal can show: which
// emulator it is, which inline image protocol to use, how many colors it
// renders and how large its cells are.
//
// Detection only inspects environment variables and ioctls. It never writes
// query sequences, so it is safe to run before the TUI takes the screen.
package terminal

import (
	"os"
	"strings"
)

// Terminal identifies the terminal emulator in use.
type Terminal int

const (
	TermUnknown   Terminal = iota
	TermGhostty            // kitty graphics, true color
	TermKitty              // kitty graphics
	TermWezTerm            // kitty graphics, sixel, iterm2 images
	TermITerm2             // iterm2 images
	TermVSCode             // iterm2 images since 1.80
	TermAlacritty          // true color, no graphics
	TermGNOME              // VTE based, true color
	TermTmux               // multiplexer, inner terminal unknown
	TermScreen             // multiplexer, inner terminal unknown
	TermGeneric            // anything else
)

var terminalNames = [...]string{
	TermUnknown:   "unknown",
	TermGhostty:   "ghostty",
	TermKitty:     "kitty",
	TermWezTerm:   "wezterm",
	TermITerm2:    "iterm2",
	TermVSCode:    "vscode",
	TermAlacritty: "alacritty",
	TermGNOME:     "gnome-terminal",
	TermTmux:      "tmux",
	TermScreen:    "screen",
	TermGeneric:   "generic",
}

// String returns the human-readable name of the terminal.
func (t Terminal) String() string {
	if t >= 0 && int(t) < len(terminalNames) {
		return terminalNames[t]
	}
	return "unknown"
}

// SupportsTrueColor reports whether the terminal renders 24-bit color.
func (t Terminal) SupportsTrueColor() bool {
	switch t {
	case TermGhostty, TermKitty, TermWezTerm, TermITerm2,
		TermVSCode, TermAlacritty, TermGNOME:
		return true
	default:
		return false
	}
}

// envProbe maps one environment signal onto a terminal.
type envProbe struct {
	name  string
	match func(v string) bool
	term  Terminal
}

func equalFold(want string) func(string) bool {
	return func(v string) bool { return strings.EqualFold(v, want) }
}

func nonEmpty(v string) bool { return v != "" }

// probes are checked in order; the first hit wins. TERM_PROGRAM comes first
// because most emulators set it, multiplexers come last so an inner
// terminal that leaks its identity is still recognized.
var probes = []envProbe{
	{"TERM_PROGRAM", equalFold("ghostty"), TermGhostty},
	{"TERM_PROGRAM", equalFold("kitty"), TermKitty},
	{"TERM_PROGRAM", equalFold("wezterm"), TermWezTerm},
	{"TERM_PROGRAM", equalFold("iterm.app"), TermITerm2},
	{"TERM_PROGRAM", equalFold("vscode"), TermVSCode},
	{"TERM_PROGRAM", equalFold("alacritty"), TermAlacritty},
	{"TERM", equalFold("xterm-ghostty"), TermGhostty},
	{"TERM", equalFold("xterm-kitty"), TermKitty},
	{"TERM", func(v string) bool { return strings.HasPrefix(v, "alacritty") }, TermAlacritty},
	{"KITTY_WINDOW_ID", nonEmpty, TermKitty},
	{"WEZTERM_EXECUTABLE", nonEmpty, TermWezTerm},
	{"ITERM_SESSION_ID", nonEmpty, TermITerm2},
	{"LC_TERMINAL", equalFold("iTerm2"), TermITerm2},
	{"VTE_VERSION", nonEmpty, TermGNOME},
	{"TMUX", nonEmpty, TermTmux},
	{"STY", nonEmpty, TermScreen},
}

// Detect identifies the terminal emulator from the process environment.
func Detect() Terminal {
	return DetectEnv(os.Getenv)
}

// DetectEnv is Detect with an explicit environment lookup.
func DetectEnv(getenv func(string) string) Terminal {
	for _, p := range probes {
		if v := getenv(p.name); p.match(v) {
			return p.term
		}
	}
	return TermGeneric
}

// isSSH reports whether the session runs over SSH.
func isSSH(getenv func(string) string) bool {
	return getenv("SSH_TTY") != "" ||
		getenv("SSH_CONNECTION") != "" ||
		getenv("SSH_CLIENT") != ""
}
