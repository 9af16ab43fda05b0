package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
	"gitlab.com/tinyland/lab/eventreel/pkg/image"
	"gitlab.com/tinyland/lab/eventreel/pkg/rotation"
)

// RotationCmd arms a rotation schedule as a bubbletea tick. The delivered
// message is the schedule's rotation.Tick stamped with the fire time, so
// the owning controller can drop it when it has gone stale. A nil schedule
// yields a nil command.
func RotationCmd(s *rotation.Schedule) tea.Cmd {
	if s == nil {
		return nil
	}
	tick := s.Tick
	return tea.Tick(s.Delay, func(t time.Time) tea.Msg {
		tick.Time = t
		return tick
	})
}

// ProgressCmd sends a ProgressTickMsg after d.
func ProgressCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return ProgressTickMsg{Time: t}
	})
}

// RefreshCmd sends a RefreshMsg after d. A non-positive d disables polling.
func RefreshCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return RefreshMsg{Time: t}
	})
}

// LoadCatalogCmd loads the catalog in a goroutine and delivers it as a
// CatalogChangedMsg.
func LoadCatalogCmd(ctx context.Context, l *Loader) tea.Cmd {
	return func() tea.Msg {
		return l.Catalog(ctx)
	}
}

// LoadEventCmd fetches one event with its photos.
func LoadEventCmd(ctx context.Context, src Source, id int) tea.Cmd {
	return func() tea.Msg {
		ev, err := src.EventWithPhotos(ctx, id)
		return EventLoadedMsg{ID: id, Event: ev, Err: err}
	}
}

// PhotoCmd downloads and decodes the photo at url.
func PhotoCmd(ctx context.Context, f *image.Fetcher, url string) tea.Cmd {
	if f == nil || url == "" {
		return nil
	}
	return func() tea.Msg {
		img, err := f.Fetch(ctx, url)
		return PhotoLoadedMsg{URL: url, Image: img, Err: err}
	}
}

// FilterCmd wraps a filter change as a message.
func FilterCmd(f gallery.Filter) tea.Cmd {
	return func() tea.Msg { return FilterChangedMsg{Filter: f} }
}

// OpenCmd wraps a lightbox request as a message.
func OpenCmd(ev gallery.Event) tea.Cmd {
	return func() tea.Msg { return OpenEventMsg{Event: ev} }
}
