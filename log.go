package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/eventreel/pkg/config"
)

// newLogger builds the process logger. toFile sends output to the log
// file instead of stderr, for modes that own the terminal. Stderr gets a
// text handler when it is a terminal and JSON otherwise.
func newLogger(c *config.Config, verbose, toFile bool) (*slog.Logger, io.Closer, error) {
	level, err := config.ParseLevel(c.General.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if toFile {
		path := c.LogPath()
		if err := ensureLogDir(path); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return slog.New(slog.NewTextHandler(f, opts)), f, nil
	}

	return slog.New(stderrHandler(os.Stderr, opts)), nil, nil
}

func stderrHandler(f *os.File, opts *slog.HandlerOptions) slog.Handler {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return slog.NewTextHandler(f, opts)
	}
	return slog.NewJSONHandler(f, opts)
}

// ensureLogDir creates the parent directory of path.
func ensureLogDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
