// Package catalog holds the event collection served by the API: the Store
// interface, an in-memory implementation seeded from YAML, and a file
// watcher that hot-reloads the catalog.
package catalog

import (
	"context"
	"errors"
	"slices"
	"sync"

	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
)

var (
	// ErrNotFound is returned when an event id does not exist.
	ErrNotFound = errors.New("event not found")

	// ErrInvalidCatalog wraps every validation failure of a catalog file.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Store is the read side of the catalog.
type Store interface {
	// Events lists events without photos, filtered, in id order.
	Events(ctx context.Context, f gallery.Filter) ([]gallery.Event, error)
	// Event returns one event without photos.
	Event(ctx context.Context, id int) (gallery.Event, error)
	// Featured lists featured events without photos.
	Featured(ctx context.Context) ([]gallery.Event, error)
	// Photos returns the photos of one event.
	Photos(ctx context.Context, id int) ([]gallery.Photo, error)
	// Categories lists the category names, All first.
	Categories(ctx context.Context) ([]gallery.Category, error)
}

// MemStore is a Store over an in-memory slice. Replace swaps the whole
// collection at once so readers never observe a partial update.
type MemStore struct {
	mu      sync.RWMutex
	events  []gallery.Event
	byID    map[int]int
	version uint64
}

// NewMemStore returns a store holding events. The slice is copied and sorted
// by id.
func NewMemStore(events []gallery.Event) *MemStore {
	s := &MemStore{}
	s.Replace(events)
	return s
}

// Replace swaps in a new collection and bumps the version.
func (s *MemStore) Replace(events []gallery.Event) {
	evs := make([]gallery.Event, len(events))
	for i, e := range events {
		e.Photos = slices.Clone(e.Photos)
		for j := range e.Photos {
			e.Photos[j].EventID = e.ID
		}
		evs[i] = e
	}
	slices.SortStableFunc(evs, func(a, b gallery.Event) int { return a.ID - b.ID })

	byID := make(map[int]int, len(evs))
	for i, e := range evs {
		byID[e.ID] = i
	}

	s.mu.Lock()
	s.events = evs
	s.byID = byID
	s.version++
	s.mu.Unlock()
}

// Version increases on every Replace.
func (s *MemStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Len returns the number of events.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

func (s *MemStore) Events(ctx context.Context, f gallery.Filter) ([]gallery.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]gallery.Event, 0, len(s.events))
	for _, e := range s.events {
		if f.Match(e) {
			out = append(out, e.WithoutPhotos())
		}
	}
	return out, nil
}

func (s *MemStore) Event(ctx context.Context, id int) (gallery.Event, error) {
	if err := ctx.Err(); err != nil {
		return gallery.Event{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return gallery.Event{}, ErrNotFound
	}
	return s.events[i].WithoutPhotos(), nil
}

func (s *MemStore) Featured(ctx context.Context) ([]gallery.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]gallery.Event, 0)
	for _, e := range s.events {
		if e.Featured {
			out = append(out, e.WithoutPhotos())
		}
	}
	return out, nil
}

func (s *MemStore) Photos(ctx context.Context, id int) ([]gallery.Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := slices.Clone(s.events[i].Photos)
	if out == nil {
		out = []gallery.Photo{}
	}
	return out, nil
}

func (s *MemStore) Categories(ctx context.Context) ([]gallery.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(gallery.Categories), nil
}
