package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
)

const twoEvents = `
events:
  - id: 2
    title: Spring Music Festival
    date: 2023-04-15
    category: cultural
    featured: true
    photos:
      - id: 3
        url: https://example.com/3.jpg
  - id: 1
    title: Graduation Ceremony
    date: 2023-06-20
    category: Academic
`

func TestDefaultCatalog(t *testing.T) {
	events := Default()
	if len(events) != 9 {
		t.Fatalf("default catalog has %d events, want 9", len(events))
	}

	featured := 0
	for _, e := range events {
		if e.Featured {
			featured++
		}
		if len(e.Photos) != 2 {
			t.Errorf("event %d has %d photos, want 2", e.ID, len(e.Photos))
		}
		for _, p := range e.Photos {
			if p.EventID != e.ID {
				t.Errorf("photo %d belongs to %d, listed under %d", p.ID, p.EventID, e.ID)
			}
		}
	}
	if featured != 5 {
		t.Errorf("featured = %d, want 5", featured)
	}
}

func TestDecodeValid(t *testing.T) {
	events, err := Decode(strings.NewReader(twoEvents))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []gallery.Event{
		{
			ID:       2,
			Title:    "Spring Music Festival",
			Date:     time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC),
			Category: gallery.Cultural,
			Featured: true,
			Photos:   []gallery.Photo{{ID: 3, URL: "https://example.com/3.jpg", EventID: 2}},
		},
		{
			ID:       1,
			Title:    "Graduation Ceremony",
			Date:     time.Date(2023, 6, 20, 0, 0, 0, 0, time.UTC),
			Category: gallery.Academic,
			Photos:   []gallery.Photo{},
		},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad yaml", "events: [", ""},
		{"unknown field", "events:\n  - id: 1\n    name: x\n", "name"},
		{"missing title", "events:\n  - id: 1\n    date: 2023-01-01\n    category: Sports\n", "title is required"},
		{"bad category", "events:\n  - id: 1\n    title: x\n    date: 2023-01-01\n    category: All\n", "invalid category"},
		{"bad date", "events:\n  - id: 1\n    title: x\n    date: June\n    category: Sports\n", "invalid date"},
		{"duplicate id", "events:\n  - {id: 1, title: a, date: 2023-01-01, category: Sports}\n  - {id: 1, title: b, date: 2023-01-01, category: Sports}\n", "duplicate event id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("err = %v, want ErrInvalidCatalog", err)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	events, err := Decode(strings.NewReader(""))
	if err != nil || len(events) != 0 {
		t.Errorf("empty document: events=%v err=%v", events, err)
	}
}

func TestMemStoreQueries(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(Default())

	all, err := s.Events(ctx, gallery.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 9 || all[0].ID != 1 || all[8].ID != 9 {
		t.Fatalf("Events: %d events, first=%d", len(all), all[0].ID)
	}
	if len(all[0].Photos) != 0 {
		t.Error("list results should not carry photos")
	}

	sports, _ := s.Events(ctx, gallery.Filter{Category: gallery.Sports, Query: "champ"})
	var got []int
	for _, e := range sports {
		got = append(got, e.ID)
	}
	if diff := cmp.Diff([]int{4, 9}, got); diff != "" {
		t.Errorf("sports filter (-want +got):\n%s", diff)
	}

	featured, _ := s.Featured(ctx)
	if len(featured) != 5 {
		t.Errorf("Featured = %d events, want 5", len(featured))
	}

	ev, err := s.Event(ctx, 3)
	if err != nil || ev.Title != "Tech Hackathon" {
		t.Errorf("Event(3) = %q, %v", ev.Title, err)
	}
	if _, err := s.Event(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Event(42) err = %v, want ErrNotFound", err)
	}

	photos, err := s.Photos(ctx, 3)
	if err != nil || len(photos) != 2 || photos[0].ID != 5 {
		t.Errorf("Photos(3) = %+v, %v", photos, err)
	}
	if _, err := s.Photos(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Photos(42) err = %v, want ErrNotFound", err)
	}

	cats, _ := s.Categories(ctx)
	if cats[0] != gallery.All || len(cats) != 5 {
		t.Errorf("Categories = %v", cats)
	}
}

func TestMemStoreReplace(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(Default())
	v := s.Version()

	events, err := Decode(strings.NewReader(twoEvents))
	if err != nil {
		t.Fatal(err)
	}
	s.Replace(events)

	if s.Version() != v+1 || s.Len() != 2 {
		t.Errorf("version=%d len=%d", s.Version(), s.Len())
	}
	all, _ := s.Events(ctx, gallery.Filter{})
	if all[0].ID != 1 {
		t.Errorf("Replace should re-sort by id, first = %d", all[0].ID)
	}
	if _, err := s.Event(ctx, 5); !errors.Is(err, ErrNotFound) {
		t.Error("old events should be gone after Replace")
	}
}

func TestMemStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemStore(nil).Events(ctx, gallery.Filter{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestWatcherReloads(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, []byte(twoEvents), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewMemStore(Default())
	w := NewWatcher(path, store, WithDebounce(20*time.Millisecond))
	reloaded := make(chan int, 4)
	w.Subscribe(func(events []gallery.Event) {
		select {
		case reloaded <- len(events):
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run: %v", err)
		}
	}()

	// Keep rewriting until the watch is established and a reload lands.
	waitReload(t, path, reloaded)
	if store.Len() != 2 {
		t.Fatalf("store has %d events after reload, want 2", store.Len())
	}

	if err := os.WriteFile(path, []byte("events: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { _, f := w.Stats(); return f > 0 })
	if store.Len() != 2 {
		t.Errorf("invalid file replaced the catalog: len=%d", store.Len())
	}
}

func waitReload(t *testing.T, path string, reloaded <-chan int) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-reloaded:
			return
		case <-tick.C:
			if err := os.WriteFile(path, []byte(twoEvents), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
