// Package app holds the messages, commands and focus model shared by the
// terminal gallery. Everything that crosses into the bubbletea update loop
// is defined here so sections and the root model agree on one vocabulary.
package app

import (
	"image"
	"time"

	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
)

// CatalogChangedMsg carries a freshly loaded catalog into the update loop.
// Receivers call SetLen on their rotation controllers when their slice of
// events changed, so running timers restart against the new length. An
// unchanged re-poll leaves pending ticks alone.
type CatalogChangedMsg struct {
	Events   []gallery.Event
	Featured []gallery.Event

	// Offline is set when the API was unreachable and the catalog came from
	// the on-disk cache. Stored is when that copy was written.
	Offline bool
	Stored  time.Time

	// Err is non-nil when nothing could be loaded. Events and Featured are
	// empty in that case and receivers keep what they have.
	Err error
}

// FilterChangedMsg is emitted by the search section whenever the category
// or query changes.
type FilterChangedMsg struct {
	Filter gallery.Filter
}

// OpenEventMsg asks the root model to open the lightbox for an event.
type OpenEventMsg struct {
	Event gallery.Event
}

// EventLoadedMsg delivers an event with its photos for the lightbox.
type EventLoadedMsg struct {
	ID    int
	Event gallery.Event
	Err   error
}

// PhotoLoadedMsg delivers a decoded photo.
type PhotoLoadedMsg struct {
	URL   string
	Image image.Image
	Err   error
}

// ProgressTickMsg drives the hero progress bar.
type ProgressTickMsg struct {
	Time time.Time
}

// RefreshMsg triggers a catalog reload.
type RefreshMsg struct {
	Time time.Time
}

// StatusMsg shows a transient message in the status bar.
type StatusMsg struct {
	Text string
}
