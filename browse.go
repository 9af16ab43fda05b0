package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/eventreel/pkg/app"
	"gitlab.com/tinyland/lab/eventreel/pkg/cache"
	"gitlab.com/tinyland/lab/eventreel/pkg/client"
	"gitlab.com/tinyland/lab/eventreel/pkg/config"
	"gitlab.com/tinyland/lab/eventreel/pkg/image"
	"gitlab.com/tinyland/lab/eventreel/pkg/terminal"
	"gitlab.com/tinyland/lab/eventreel/pkg/theme"
	"gitlab.com/tinyland/lab/eventreel/pkg/tui"
)

var (
	browseAPI   string
	browseTheme string
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse events in the interactive terminal gallery",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if browseAPI != "" {
			cfg.Client.BaseURL = browseAPI
		}
		if browseTheme != "" {
			cfg.Theme.Name = browseTheme
		}
		return runBrowse(cmd.Context(), cfg)
	},
}

func init() {
	browseCmd.Flags().StringVar(&browseAPI, "api", "", "API base URL (overrides client.base_url)")
	browseCmd.Flags().StringVar(&browseTheme, "theme", "", "theme name (overrides theme.name)")
}

func probeTerminal(c *config.Config) (terminal.Capabilities, error) {
	proto := c.Image.Protocol
	if c.Image.Disabled {
		proto = terminal.ProtocolNone.String()
	}
	caps, err := terminal.Probe(proto)
	if err != nil {
		return terminal.Capabilities{}, fmt.Errorf("probe terminal: %w", err)
	}
	return caps, nil
}

// resolveTheme registers custom themes and returns the configured one,
// downsampled to what the terminal can show.
func resolveTheme(c *config.Config, caps terminal.Capabilities) theme.Theme {
	loaded, err := theme.LoadDir(config.ThemeDir())
	if err != nil {
		logger.Warn("some custom themes failed to load", "error", err)
	}
	if len(loaded) > 0 {
		logger.Debug("custom themes loaded", "names", loaded)
	}
	theme.SetCurrent(c.Theme.Name)
	return theme.Adapt(theme.Current, caps.Profile)
}

// openCache opens a store under the cache dir. Failures are logged and
// yield nil; every caller works without a cache.
func openCache(c *config.Config, name string, maxMB int, base cache.Config) *cache.Store {
	base.Dir = filepath.Join(c.General.CacheDir, name)
	base.MaxSizeMB = maxMB
	s, err := cache.Open(base)
	if err != nil {
		logger.Warn("cache unavailable", "name", name, "error", err)
		return nil
	}
	return s
}

// newLoader connects to the API, keeping an offline copy of the catalog
// when client.offline_ttl is set.
func newLoader(c *config.Config) (*app.Loader, error) {
	hc := &http.Client{Timeout: c.Client.Timeout.Duration}
	api, err := client.New(c.Client.BaseURL, client.WithHTTPClient(hc))
	if err != nil {
		return nil, err
	}
	var store *cache.Store
	if ttl := c.Client.OfflineTTL.Duration; ttl > 0 {
		store = openCache(c, "catalog", 0, cache.Config{TTL: ttl})
	}
	return app.NewLoader(api, store, logger), nil
}

// newPhotoPipeline returns the fetcher and renderer for caps, or nils when
// photos are off.
func newPhotoPipeline(c *config.Config, caps terminal.Capabilities) (*image.Fetcher, *image.Renderer) {
	if c.Image.Disabled || caps.Protocol == terminal.ProtocolNone {
		return nil, nil
	}
	opts := []image.FetcherOption{image.WithLogger(logger)}
	if s := openCache(c, "photos", c.Image.MaxCacheSizeMB, cache.Config{}); s != nil {
		opts = append(opts, image.WithStore(s))
	}
	return image.NewFetcher(opts...), image.NewRenderer(caps, c.Image.MaxCacheSizeMB)
}

func runBrowse(ctx context.Context, c *config.Config) error {
	caps, err := probeTerminal(c)
	if err != nil {
		return err
	}
	logger.Info("starting browse", "api", c.Client.BaseURL, "caps", caps.String())

	loader, err := newLoader(c)
	if err != nil {
		return err
	}
	fetcher, renderer := newPhotoPipeline(c, caps)

	model := tui.NewGallery(c, tui.Options{
		Context:  ctx,
		Loader:   loader,
		Fetcher:  fetcher,
		Renderer: renderer,
		Theme:    resolveTheme(c, caps),
		Logger:   logger,
	})
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
