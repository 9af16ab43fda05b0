package terminal

import (
	"fmt"
	"strings"
)

// Protocol identifies how photos are drawn into the terminal.
type Protocol int

const (
	ProtocolNone       Protocol = iota // no photos, text only
	ProtocolKitty                      // kitty graphics protocol
	ProtocolITerm2                     // iTerm2 inline images
	ProtocolSixel                      // DEC sixel
	ProtocolHalfblocks                 // U+2580 cells with true color
)

var protocolNames = [...]string{
	ProtocolNone:       "none",
	ProtocolKitty:      "kitty",
	ProtocolITerm2:     "iterm2",
	ProtocolSixel:      "sixel",
	ProtocolHalfblocks: "halfblocks",
}

// String returns the configuration name of the protocol.
func (p Protocol) String() string {
	if p >= 0 && int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return "unknown"
}

// Inline reports whether the protocol emits plain text cells that can be
// composed with other text. Graphics escapes cannot.
func (p Protocol) Inline() bool {
	return p == ProtocolHalfblocks || p == ProtocolNone
}

// ParseProtocol resolves a configured protocol name. "auto" and the empty
// string report auto=true.
func ParseProtocol(s string) (p Protocol, auto bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ProtocolNone, true, nil
	case "kitty":
		return ProtocolKitty, false, nil
	case "iterm2":
		return ProtocolITerm2, false, nil
	case "sixel":
		return ProtocolSixel, false, nil
	case "halfblocks":
		return ProtocolHalfblocks, false, nil
	case "none":
		return ProtocolNone, false, nil
	}
	return ProtocolNone, false, fmt.Errorf("unknown image protocol %q", s)
}

// SelectProtocol picks the protocol for term. SSH sessions fall back to
// halfblocks since graphics escapes are unreliable through most relays.
func SelectProtocol(term Terminal, ssh bool) Protocol {
	if ssh {
		return ProtocolHalfblocks
	}
	switch term {
	case TermGhostty, TermKitty, TermWezTerm:
		return ProtocolKitty
	case TermITerm2, TermVSCode:
		return ProtocolITerm2
	default:
		return ProtocolHalfblocks
	}
}
