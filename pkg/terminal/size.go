package terminal

import (
	"os"
	"strconv"
)

// Fallback cell size in pixels when the terminal does not report one.
const (
	DefaultCellW = 8
	DefaultCellH = 16
)

// Size represents terminal dimensions in cells and, when known, pixels.
type Size struct {
	Cols   int
	Rows   int
	PixelW int // 0 if unknown
	PixelH int // 0 if unknown
}

// Cell returns the pixel size of one cell, falling back to
// DefaultCellW x DefaultCellH.
func (s Size) Cell() (w, h int) {
	w, h = DefaultCellW, DefaultCellH
	if s.PixelW > 0 && s.Cols > 0 {
		w = s.PixelW / s.Cols
	}
	if s.PixelH > 0 && s.Rows > 0 {
		h = s.PixelH / s.Rows
	}
	return max(w, 1), max(h, 1)
}

// GetSize returns the current terminal dimensions, trying stdout, then
// stderr, then COLUMNS/LINES, then 80x24.
func GetSize() Size {
	for _, f := range []*os.File{os.Stdout, os.Stderr} {
		if s, ok := sizeOf(f.Fd()); ok {
			return s
		}
	}
	return sizeFromEnv(os.Getenv)
}

func sizeFromEnv(getenv func(string) string) Size {
	return Size{Cols: envInt(getenv, "COLUMNS", 80), Rows: envInt(getenv, "LINES", 24)}
}

// envInt reads a positive integer, returning fallback when the variable is
// unset or invalid.
func envInt(getenv func(string) string, name string, fallback int) int {
	n, err := strconv.Atoi(getenv(name))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
