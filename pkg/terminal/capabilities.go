package terminal

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Capabilities summarizes what the current session can display.
type Capabilities struct {
	Term     Terminal
	Protocol Protocol
	Size     Size
	Profile  termenv.Profile
	// Interactive is true when stdout is a terminal.
	Interactive bool
	SSH         bool
	// Mux is true inside tmux or screen.
	Mux bool
}

// TrueColor reports whether 24-bit color escapes will render.
func (c Capabilities) TrueColor() bool {
	return c.Profile == termenv.TrueColor
}

// String is a one-line summary for logs and `eventreel version`.
func (c Capabilities) String() string {
	return fmt.Sprintf("term=%s protocol=%s size=%dx%d profile=%s ssh=%t mux=%t",
		c.Term, c.Protocol, c.Size.Cols, c.Size.Rows, profileName(c.Profile), c.SSH, c.Mux)
}

// Probe inspects the running process. override is the configured image
// protocol; "auto" selects from the detected terminal. Photos are disabled
// when stdout is not a terminal.
func Probe(override string) (Capabilities, error) {
	proto, auto, err := ParseProtocol(override)
	if err != nil {
		return Capabilities{}, err
	}
	fd := os.Stdout.Fd()
	c := probeEnv(os.Getenv, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	c.Size = GetSize()
	c.Profile = termenv.NewOutput(os.Stdout).EnvColorProfile()
	if !auto {
		c.Protocol = proto
	}
	if !c.Interactive {
		c.Protocol = ProtocolNone
	}
	return c, nil
}

// probeEnv is the environment-only part of Probe.
func probeEnv(getenv func(string) string, interactive bool) Capabilities {
	term := DetectEnv(getenv)
	ssh := isSSH(getenv)
	return Capabilities{
		Term:        term,
		Protocol:    SelectProtocol(term, ssh),
		Size:        sizeFromEnv(getenv),
		Profile:     termenv.Ascii,
		Interactive: interactive,
		SSH:         ssh,
		Mux:         getenv("TMUX") != "" || getenv("STY") != "",
	}
}

func profileName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "truecolor"
	case termenv.ANSI256:
		return "ansi256"
	case termenv.ANSI:
		return "ansi"
	default:
		return "ascii"
	}
}
