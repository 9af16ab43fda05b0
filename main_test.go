package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"gitlab.com/tinyland/lab/eventreel/pkg/config"
	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
	"gitlab.com/tinyland/lab/eventreel/pkg/rotation"
)

// syncBuffer is written by the slideshow goroutines and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Split(strings.TrimRight(b.buf.String(), "\n"), "\n")
}

func testSlides() []gallery.Event {
	day := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	return []gallery.Event{
		{ID: 1, Title: "Spring Gala", Date: day, Category: gallery.Cultural, Featured: true},
		{ID: 2, Title: "Robotics Demo", Date: day.AddDate(0, 1, 0), Category: gallery.Technical, Featured: true},
		{ID: 3, Title: "Alumni Panel", Date: day.AddDate(0, 2, 0), Category: gallery.Academic, Featured: true},
	}
}

func TestFormatSlide(t *testing.T) {
	ev := testSlides()[0]

	got := formatSlide(ev, rotation.Snapshot{Index: 1, Len: 5, AutoAdvance: true})
	want := "[2/5] ▶ Spring Gala · March 14, 2024 · Cultural ★"
	if got != want {
		t.Errorf("formatSlide() = %q, want %q", got, want)
	}

	ev.Featured = false
	got = formatSlide(ev, rotation.Snapshot{Index: 0, Len: 1})
	if !strings.HasPrefix(got, "[1/1] ‖ ") || strings.HasSuffix(got, "★") {
		t.Errorf("paused, unfeatured slide = %q", got)
	}
}

func TestSlideshowAutoAdvance(t *testing.T) {
	defer goleak.VerifyNone(t)

	var out syncBuffer
	show := &slideshow{slides: testSlides(), out: &out, count: 3, logger: slog.Default()}
	ctrl := rotation.New(rotation.Config{Len: 3, Interval: 10 * time.Millisecond, AutoAdvance: true})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := show.Run(ctx, ctrl, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	lines := out.Lines()
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	for i, prefix := range []string{"[1/3] ▶ Spring Gala", "[2/3] ▶ Robotics Demo", "[3/3] ▶ Alumni Panel"} {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], prefix)
		}
	}
}

func TestSlideshowCommands(t *testing.T) {
	defer goleak.VerifyNone(t)

	var out syncBuffer
	show := &slideshow{slides: testSlides(), out: &out, count: 4, logger: slog.Default()}
	ctrl := rotation.New(rotation.Config{Len: 3, Interval: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	in := strings.NewReader("p\n2\nt\n")
	if err := show.Run(ctx, ctrl, in); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{
		"[1/3] ‖ Spring Gala",
		"[3/3] ‖ Alumni Panel",
		"[2/3] ‖ Robotics Demo",
		"[2/3] ▶ Robotics Demo",
	}
	lines := out.Lines()
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), strings.Join(lines, "\n"))
	}
	for i := range want {
		if !strings.HasPrefix(lines[i], want[i]) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], want[i])
		}
	}
}

func TestSlideshowQuit(t *testing.T) {
	defer goleak.VerifyNone(t)

	var out syncBuffer
	show := &slideshow{slides: testSlides(), out: &out, logger: slog.Default()}
	ctrl := rotation.New(rotation.Config{Len: 3, Interval: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := show.Run(ctx, ctrl, strings.NewReader("n\nq\nn\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("quit did not stop the slideshow")
	}
}

func TestSlideshowEmpty(t *testing.T) {
	show := &slideshow{out: &syncBuffer{}, logger: slog.Default()}
	err := show.Run(context.Background(), rotation.New(rotation.Config{}), nil)
	if err == nil || !strings.Contains(err.Error(), "no featured events") {
		t.Errorf("Run with no slides = %v, want no featured events error", err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.toml")
	if err := os.WriteFile(good, []byte("[carousel]\nvariant = \"ring\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := loadConfig(good)
	if err != nil {
		t.Fatalf("loadConfig(good): %v", err)
	}
	if c.Carousel.Variant != "ring" {
		t.Errorf("variant = %q, want ring", c.Carousel.Variant)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[hero]\nslides = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(bad); err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("loadConfig(bad) = %v, want invalid config error", err)
	}
}

func TestNewLoggerToFile(t *testing.T) {
	c := config.DefaultConfig()
	c.General.LogFile = filepath.Join(t.TempDir(), "logs", "eventreel.log")

	l, closer, err := newLogger(c, true, true)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	l.Debug("hello", "k", "v")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(c.General.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "msg=hello") || !strings.Contains(string(data), "k=v") {
		t.Errorf("log file = %q", data)
	}
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	c := config.DefaultConfig()
	c.General.LogLevel = "loud"
	if _, _, err := newLogger(c, false, false); err == nil {
		t.Error("expected an error for an unknown log level")
	}
}

func TestLoadCatalogDefault(t *testing.T) {
	c := config.DefaultConfig()
	events, err := loadCatalog(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) == 0 {
		t.Error("built-in catalog is empty")
	}

	c.Server.CatalogFile = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := loadCatalog(c); err == nil {
		t.Error("expected an error for a missing catalog file")
	}
}

func TestVersionCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("version: %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "eventreel "+version) || !strings.Contains(got, "protocol=") {
		t.Errorf("version output = %q", got)
	}
}
