package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"gitlab.com/tinyland/lab/eventreel/pkg/cache"
	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
	"gitlab.com/tinyland/lab/eventreel/pkg/rotation"
)

// fakeSource serves fixed events, or err when set.
type fakeSource struct {
	events   []gallery.Event
	featured []gallery.Event
	err      error
	calls    int
}

func (s *fakeSource) Events(_ context.Context, _ gallery.Category, _ string) ([]gallery.Event, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

func (s *fakeSource) Featured(_ context.Context) ([]gallery.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.featured, nil
}

func (s *fakeSource) EventWithPhotos(_ context.Context, id int) (gallery.Event, error) {
	if s.err != nil {
		return gallery.Event{}, s.err
	}
	for _, e := range s.events {
		if e.ID == id {
			return e, nil
		}
	}
	return gallery.Event{}, errors.New("not found")
}

func testEvents() []gallery.Event {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	return []gallery.Event{
		{ID: 1, Title: "Spring Concert", Date: day, Category: gallery.Cultural, Featured: true},
		{ID: 2, Title: "Hackathon", Date: day.AddDate(0, 1, 0), Category: gallery.Technical},
		{ID: 3, Title: "Relay Finals", Date: day.AddDate(0, 2, 0), Category: gallery.Sports, Featured: true},
	}
}

func newTestStore(t *testing.T) *cache.Store {
	t.Helper()
	s, err := cache.Open(cache.Config{Dir: t.TempDir(), TTL: time.Hour})
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	return s
}

func TestFocusCyclesForward(t *testing.T) {
	f := NewFocus(3)
	var got []int
	for range 4 {
		f.Forward()
		got = append(got, f.Index())
	}
	if diff := cmp.Diff([]int{1, 2, 0, 1}, got); diff != "" {
		t.Errorf("forward order (-want +got):\n%s", diff)
	}
}

func TestFocusCyclesBackward(t *testing.T) {
	f := NewFocus(3)
	f.Backward()
	if f.Index() != 2 {
		t.Errorf("Backward from 0 = %d, want 2", f.Index())
	}
	f.Backward()
	if f.Index() != 1 {
		t.Errorf("second Backward = %d, want 1", f.Index())
	}
}

func TestFocusSetAndEmpty(t *testing.T) {
	f := NewFocus(4)
	if !f.Set(3) || f.Index() != 3 {
		t.Errorf("Set(3) did not focus 3, index=%d", f.Index())
	}
	if f.Set(4) || f.Set(-1) {
		t.Error("out-of-range Set should be rejected")
	}
	if f.Index() != 3 {
		t.Errorf("rejected Set moved focus to %d", f.Index())
	}

	empty := NewFocus(0)
	empty.Forward()
	empty.Backward()
	if empty.Index() != 0 {
		t.Errorf("empty ring moved to %d", empty.Index())
	}
}

func TestRotationCmdNilSchedule(t *testing.T) {
	if RotationCmd(nil) != nil {
		t.Error("nil schedule should produce a nil command")
	}
}

func TestRotationCmdDeliversTick(t *testing.T) {
	ctrl := rotation.New(rotation.Config{Len: 3, Interval: time.Millisecond, AutoAdvance: true})
	s := ctrl.Init()
	cmd := RotationCmd(s)
	if cmd == nil {
		t.Fatal("expected a command for a live schedule")
	}
	tick, ok := cmd().(rotation.Tick)
	if !ok {
		t.Fatalf("command produced %T, want rotation.Tick", cmd())
	}
	if tick.ID != s.Tick.ID || tick.Gen != s.Tick.Gen {
		t.Errorf("tick = %+v, want id=%d gen=%d", tick, s.Tick.ID, s.Tick.Gen)
	}
	if tick.Time.IsZero() {
		t.Error("tick should carry its fire time")
	}
	if ctrl.HandleTick(tick) == nil {
		t.Error("controller should accept its own current tick")
	}
	if ctrl.Index() != 1 {
		t.Errorf("index after tick = %d, want 1", ctrl.Index())
	}
}

func TestRefreshCmdDisabled(t *testing.T) {
	if RefreshCmd(0) != nil {
		t.Error("zero interval should disable refresh")
	}
	if _, ok := RefreshCmd(time.Millisecond)().(RefreshMsg); !ok {
		t.Error("refresh command should deliver RefreshMsg")
	}
}

func TestProgressCmd(t *testing.T) {
	msg := ProgressCmd(time.Millisecond)()
	if _, ok := msg.(ProgressTickMsg); !ok {
		t.Errorf("got %T, want ProgressTickMsg", msg)
	}
}

func TestPhotoCmdNeedsFetcherAndURL(t *testing.T) {
	if PhotoCmd(context.Background(), nil, "http://x/a.png") != nil {
		t.Error("nil fetcher should produce a nil command")
	}
}

func TestLoaderOnline(t *testing.T) {
	src := &fakeSource{events: testEvents(), featured: gallery.FeaturedOnly(testEvents())}
	l := NewLoader(src, newTestStore(t), nil)

	msg := l.Catalog(context.Background())
	if msg.Err != nil {
		t.Fatalf("Catalog: %v", msg.Err)
	}
	if msg.Offline {
		t.Error("online load should not be marked offline")
	}
	if diff := cmp.Diff(testEvents(), msg.Events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
	if len(msg.Featured) != 2 {
		t.Errorf("featured = %d, want 2", len(msg.Featured))
	}
}

func TestLoaderFallsBackToOfflineCopy(t *testing.T) {
	store := newTestStore(t)
	src := &fakeSource{events: testEvents(), featured: gallery.FeaturedOnly(testEvents())}
	l := NewLoader(src, store, nil)
	if msg := l.Catalog(context.Background()); msg.Err != nil {
		t.Fatalf("priming load: %v", msg.Err)
	}

	src.err = errors.New("connection refused")
	msg := l.Catalog(context.Background())
	if msg.Err != nil {
		t.Fatalf("offline load should succeed, got %v", msg.Err)
	}
	if !msg.Offline {
		t.Error("expected Offline=true")
	}
	if msg.Stored.IsZero() {
		t.Error("expected Stored timestamp")
	}
	if diff := cmp.Diff(testEvents(), msg.Events); diff != "" {
		t.Errorf("offline events (-want +got):\n%s", diff)
	}
	if !msg.Events[0].Featured {
		t.Error("featured flag lost in offline copy")
	}
}

func TestLoaderErrorWithoutOfflineCopy(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}

	for name, store := range map[string]*cache.Store{
		"no store":    nil,
		"empty store": newTestStore(t),
	} {
		t.Run(name, func(t *testing.T) {
			msg := NewLoader(src, store, nil).Catalog(context.Background())
			if msg.Err == nil {
				t.Fatal("expected an error")
			}
			if len(msg.Events) != 0 {
				t.Errorf("events = %d, want none", len(msg.Events))
			}
		})
	}
}

func TestLoadCatalogCmd(t *testing.T) {
	src := &fakeSource{events: testEvents()}
	msg := LoadCatalogCmd(context.Background(), NewLoader(src, nil, nil))()
	got, ok := msg.(CatalogChangedMsg)
	if !ok {
		t.Fatalf("got %T, want CatalogChangedMsg", msg)
	}
	if len(got.Events) != 3 || src.calls != 1 {
		t.Errorf("events=%d calls=%d", len(got.Events), src.calls)
	}
}

func TestLoadEventCmd(t *testing.T) {
	src := &fakeSource{events: testEvents()}
	msg := LoadEventCmd(context.Background(), src, 2)().(EventLoadedMsg)
	if msg.Err != nil || msg.Event.Title != "Hackathon" {
		t.Errorf("got %+v", msg)
	}
	msg = LoadEventCmd(context.Background(), src, 99)().(EventLoadedMsg)
	if msg.Err == nil {
		t.Error("unknown id should fail")
	}
}
