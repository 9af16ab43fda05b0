package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"gitlab.com/tinyland/lab/eventreel/pkg/cache"
	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
)

// Source is the read side of the events API.
type Source interface {
	Events(ctx context.Context, category gallery.Category, search string) ([]gallery.Event, error)
	Featured(ctx context.Context) ([]gallery.Event, error)
	EventWithPhotos(ctx context.Context, id int) (gallery.Event, error)
}

const (
	eventsKey   = "catalog/events"
	featuredKey = "catalog/featured"
)

// Loader fetches the catalog from a Source. With a Store it keeps the last
// good response on disk and falls back to it when the Source fails.
type Loader struct {
	src    Source
	store  *cache.Store
	logger *slog.Logger
}

// NewLoader creates a Loader. store may be nil to disable the offline copy.
func NewLoader(src Source, store *cache.Store, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{src: src, store: store, logger: logger}
}

// Source returns the underlying API.
func (l *Loader) Source() Source { return l.src }

// Catalog loads every event and the featured list concurrently.
func (l *Loader) Catalog(ctx context.Context) CatalogChangedMsg {
	var (
		events, featured []gallery.Event
		g, gctx          = errgroup.WithContext(ctx)
	)
	g.Go(func() error {
		var err error
		events, err = l.src.Events(gctx, gallery.All, "")
		return err
	})
	g.Go(func() error {
		var err error
		featured, err = l.src.Featured(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return l.offline(fmt.Errorf("load catalog: %w", err))
	}

	if l.store != nil {
		if err := errors.Join(
			cache.PutTyped(l.store, eventsKey, events),
			cache.PutTyped(l.store, featuredKey, featured),
		); err != nil {
			l.logger.Warn("offline catalog write failed", "error", err)
		}
	}
	return CatalogChangedMsg{Events: events, Featured: featured}
}

func (l *Loader) offline(cause error) CatalogChangedMsg {
	if l.store == nil {
		return CatalogChangedMsg{Err: cause}
	}
	events, evStored, ok := cache.GetTyped[[]gallery.Event](l.store, eventsKey)
	if !ok {
		return CatalogChangedMsg{Err: cause}
	}
	featured, ftStored, ok := cache.GetTyped[[]gallery.Event](l.store, featuredKey)
	if !ok {
		featured = gallery.FeaturedOnly(events)
		ftStored = evStored
	}

	stored := evStored
	if ftStored.Before(stored) {
		stored = ftStored
	}
	l.logger.Warn("serving offline catalog", "error", cause, "stored", stored)
	return CatalogChangedMsg{
		Events:   events,
		Featured: featured,
		Offline:  true,
		Stored:   stored,
	}
}
