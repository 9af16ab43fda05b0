//go:build !unix

package terminal

import "github.com/charmbracelet/x/term"

// sizeOf reports cell dimensions only; pixel sizes are unavailable here.
func sizeOf(fd uintptr) (Size, bool) {
	w, h, err := term.GetSize(fd)
	if err != nil || w == 0 || h == 0 {
		return Size{}, false
	}
	return Size{Cols: w, Rows: h}, true
}
