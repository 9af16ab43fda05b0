package theme

import (
	"strconv"

	"github.com/muesli/termenv"
)

// Adapt downsamples every hex color in t to what profile can display.
// TrueColor leaves the theme unchanged, ANSI256 and ANSI yield palette
// indices as decimal strings (which lipgloss accepts), and Ascii clears the
// colors.
func Adapt(t Theme, profile termenv.Profile) Theme {
	if profile == termenv.TrueColor {
		return t
	}
	for _, f := range thFields(&t) {
		*f.ptr = thDownsample(*f.ptr, profile)
	}
	return t
}

// thDownsample converts one color. Unparseable input is returned as is.
func thDownsample(hex string, profile termenv.Profile) string {
	switch c := profile.Color(hex).(type) {
	case termenv.ANSI256Color:
		return strconv.Itoa(int(c))
	case termenv.ANSIColor:
		return strconv.Itoa(int(c))
	case termenv.NoColor:
		return ""
	case nil:
		return hex
	default:
		return hex
	}
}
