// Package theme provides the named color palettes of the terminal gallery.
package theme

import (
	"sort"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

// Theme defines the complete color palette of the gallery.
type Theme struct {
	Name string
	// Dark marks palettes meant for dark terminal backgrounds.
	Dark bool

	// Base colors
	Background string // hex color e.g. "#1a1b26"
	Foreground string
	Dim        string
	Accent     string

	// Frames around sections and cards
	Border      string
	BorderFocus string
	Title       string

	// Category badges
	Cultural  string
	Technical string
	Sports    string
	Academic  string

	// Hero progress bar
	ProgressFull  string
	ProgressEmpty string

	// Special
	Featured        string
	Error           string
	SearchHighlight string
	HelpKey         string
	HelpDesc        string
}

// thField names one color slot of a Theme.
type thField struct {
	key     string
	section string
	ptr     *string
}

// thFields lists every color slot of t in TOML order.
func thFields(t *Theme) []thField {
	return []thField{
		{"background", "base", &t.Background},
		{"foreground", "base", &t.Foreground},
		{"dim", "base", &t.Dim},
		{"accent", "base", &t.Accent},
		{"border", "frame", &t.Border},
		{"border_focus", "frame", &t.BorderFocus},
		{"title", "frame", &t.Title},
		{"cultural", "category", &t.Cultural},
		{"technical", "category", &t.Technical},
		{"sports", "category", &t.Sports},
		{"academic", "category", &t.Academic},
		{"full", "progress", &t.ProgressFull},
		{"empty", "progress", &t.ProgressEmpty},
		{"featured", "special", &t.Featured},
		{"error", "special", &t.Error},
		{"search_highlight", "special", &t.SearchHighlight},
		{"help_key", "special", &t.HelpKey},
		{"help_desc", "special", &t.HelpDesc},
	}
}

// Auto is the pseudo-theme name that picks dark or light from the terminal
// background.
const Auto = "auto"

// Current holds the active theme (set via SetCurrent).
var Current Theme

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}

	// hasDarkBackground is swapped in tests.
	hasDarkBackground = termenv.HasDarkBackground
)

func init() {
	thRegisterBuiltins()
	Current = thDarkTheme()
}

// Get returns a named theme, falling back to "dark" if not found. "auto"
// resolves against the terminal background.
func Get(name string) Theme {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == Auto || name == "" {
		if hasDarkBackground() {
			name = "dark"
		} else {
			name = "light"
		}
	}

	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[name]; ok {
		return t
	}
	return registry["dark"]
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetCurrent sets the active theme by name.
func SetCurrent(name string) {
	Current = Get(name)
}

// Register adds or replaces a theme under its lowercase name.
func Register(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}
