// eventreel is an event-photo gallery.
//
// One binary serves the event catalog over a JSON API, browses it in an
// interactive terminal gallery, or cycles the featured events as a
// line-oriented slideshow.
//
// Usage:
//
//	eventreel serve      [--addr host:port] [--catalog events.yaml] [--watch]
//	eventreel browse     [--api url] [--theme name]
//	eventreel slideshow  [--interval 3s] [--count n] [--photos]
//	eventreel version
//
// Global flags:
//
//	--config string   Path to config.toml (default: $XDG_CONFIG_HOME/eventreel/config.toml)
//	--verbose         Enable debug logging
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/eventreel/pkg/config"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg       *config.Config
	logger    = slog.Default()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "eventreel",
	Short: "Event-photo gallery: JSON API, terminal browser and slideshow",
	Long: `eventreel serves an event catalog over a read-only JSON API and
browses it from the terminal.

Run "eventreel serve" in one shell and "eventreel browse" in another.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}
		logger, logCloser, err = newLogger(cfg, verbose, cmd.Name() == "browse")
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and terminal capabilities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "eventreel %s (%s) built %s\n", version, commit, date)
		caps, err := probeTerminal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, caps)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, browseCmd, slideshowCmd, versionCmd)
}

// loadConfig reads path, or the standard locations when path is empty,
// and validates the result.
func loadConfig(path string) (*config.Config, error) {
	var (
		c   *config.Config
		err error
	)
	if path != "" {
		c, err = config.LoadFromFile(path)
	} else {
		c, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

func main() {
	// Setup context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("received shutdown signal")
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
