package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gitlab.com/tinyland/lab/eventreel/pkg/catalog"
	"gitlab.com/tinyland/lab/eventreel/pkg/config"
	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
	"gitlab.com/tinyland/lab/eventreel/pkg/server"
)

var (
	serveAddr    string
	serveCatalog string
	serveWatch   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the event catalog over the JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		if serveCatalog != "" {
			cfg.Server.CatalogFile = serveCatalog
		}
		if cmd.Flags().Changed("watch") {
			cfg.Server.WatchCatalog = serveWatch
		}
		return runServe(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", "", "YAML catalog file (overrides server.catalog_file)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the catalog file when it changes")
}

// loadCatalog returns the configured catalog file, or the built-in sample
// catalog when none is set.
func loadCatalog(c *config.Config) ([]gallery.Event, error) {
	if c.Server.CatalogFile == "" {
		logger.Info("using built-in catalog")
		return catalog.Default(), nil
	}
	events, err := catalog.LoadFile(c.Server.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded", "path", c.Server.CatalogFile, "events", len(events))
	return events, nil
}

func runServe(ctx context.Context, c *config.Config) error {
	events, err := loadCatalog(c)
	if err != nil {
		return err
	}
	store := catalog.NewMemStore(events)

	srv := server.New(store, server.Options{
		Addr:            c.Server.Addr,
		RateLimit:       c.Server.RateLimit,
		RateBurst:       c.Server.RateBurst,
		ShutdownTimeout: c.Server.ShutdownTimeout.Duration,
		Logger:          logger,
		Counter:         store,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	if c.Server.WatchCatalog && c.Server.CatalogFile != "" {
		w := catalog.NewWatcher(c.Server.CatalogFile, store, catalog.WithLogger(logger))
		w.Subscribe(func(events []gallery.Event) {
			logger.Debug("catalog swapped", "events", len(events), "version", store.Version())
		})
		g.Go(func() error { return w.Run(ctx) })
	}
	return g.Wait()
}
