package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gitlab.com/tinyland/lab/eventreel/pkg/app"
	"gitlab.com/tinyland/lab/eventreel/pkg/config"
	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
	"gitlab.com/tinyland/lab/eventreel/pkg/image"
	"gitlab.com/tinyland/lab/eventreel/pkg/rotation"
)

var (
	slideInterval time.Duration
	slideCount    int
	slidePhotos   bool
	slidePaused   bool
)

var slideshowCmd = &cobra.Command{
	Use:   "slideshow",
	Short: "Cycle the featured events, one line per slide",
	Long: `slideshow prints the featured events one at a time, advancing on a
timer. Commands are read from stdin, one per line:

  n, <enter>   next slide
  p            previous slide
  1-9          jump to a slide
  t            pause or resume
  q            quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if slideInterval > 0 {
			cfg.Carousel.Interval = config.D(slideInterval)
		}
		if slidePaused {
			cfg.Carousel.AutoAdvance = false
		}
		return runSlideshow(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	slideshowCmd.Flags().DurationVar(&slideInterval, "interval", 0, "time per slide (overrides carousel.interval)")
	slideshowCmd.Flags().IntVar(&slideCount, "count", 0, "stop after this many slides (0 runs until interrupted)")
	slideshowCmd.Flags().BoolVar(&slidePhotos, "photos", false, "draw each event's cover photo")
	slideshowCmd.Flags().BoolVar(&slidePaused, "paused", false, "start with auto-advance off")
}

func runSlideshow(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) error {
	loader, err := newLoader(c)
	if err != nil {
		return err
	}
	cat := loader.Catalog(ctx)
	if cat.Err != nil {
		return fmt.Errorf("load featured events: %w", cat.Err)
	}
	if cat.Offline {
		logger.Warn("API unreachable, showing cached catalog", "stored", cat.Stored)
	}

	show := &slideshow{
		slides: cat.Featured,
		out:    out,
		count:  slideCount,
		logger: logger,
	}
	if slidePhotos {
		caps, err := probeTerminal(c)
		if err != nil {
			return err
		}
		show.fetcher, show.renderer = newPhotoPipeline(c, caps)
		show.cols, show.rows = caps.Size.Cols, max(caps.Size.Rows/2, 4)
		show.slides = withPhotos(ctx, loader.Source(), show.slides)
	}

	ctrl := rotation.New(rotation.Config{
		Len:         len(show.slides),
		Interval:    c.Carousel.Interval.Duration,
		AutoAdvance: c.Carousel.AutoAdvance,
	})
	return show.Run(ctx, ctrl, in)
}

// withPhotos swaps each list entry for the full event. Events whose photos
// cannot be loaded are kept as they are.
func withPhotos(ctx context.Context, src app.Source, events []gallery.Event) []gallery.Event {
	out := make([]gallery.Event, len(events))
	for i, ev := range events {
		full, err := src.EventWithPhotos(ctx, ev.ID)
		if err != nil {
			logger.Warn("could not load photos", "event", ev.ID, "error", err)
			out[i] = ev
			continue
		}
		out[i] = full
	}
	return out
}

// slideshow prints one line per rotation change, plus the cover photo when
// a renderer is set.
type slideshow struct {
	slides []gallery.Event
	out    io.Writer
	// count stops the show after that many slides; zero never stops.
	count  int
	logger *slog.Logger

	fetcher    *image.Fetcher
	renderer   *image.Renderer
	cols, rows int

	opts []rotation.DriverOption
}

// Run drives ctrl until ctx is cancelled, count slides were shown, or a
// quit command is read from in. in may be nil.
func (s *slideshow) Run(ctx context.Context, ctrl *rotation.Controller, in io.Reader) error {
	if len(s.slides) == 0 {
		return errors.New("no featured events to show")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	snaps := make(chan rotation.Snapshot)
	observe := func(snap rotation.Snapshot) {
		select {
		case snaps <- snap:
		case <-ctx.Done():
		}
	}
	driver := rotation.NewDriver(ctrl, append(s.opts, rotation.WithObserver(observe))...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := driver.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		shown := 0
		for {
			select {
			case <-gctx.Done():
				return nil
			case snap := <-snaps:
				s.print(gctx, snap)
				shown++
				if s.count > 0 && shown >= s.count {
					cancel()
					return nil
				}
			}
		}
	})
	if s.fetcher != nil {
		g.Go(func() error {
			if err := s.fetcher.Prefetch(gctx, covers(s.slides), 4); err != nil {
				s.logger.Debug("prefetch incomplete", "error", err)
			}
			return nil
		})
	}
	if in != nil {
		lines := readLines(gctx, in)
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case line, ok := <-lines:
					if !ok {
						return nil
					}
					if quit := s.command(gctx, driver, line); quit {
						cancel()
						return nil
					}
				}
			}
		})
	}
	return g.Wait()
}

// readLines scans r on its own goroutine. The goroutine ends at EOF or
// when ctx is done; a blocked terminal read lasts until the process exits.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case ch <- strings.TrimSpace(sc.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// command applies one stdin command and reports whether it was quit.
func (s *slideshow) command(ctx context.Context, d *rotation.Driver, line string) bool {
	var err error
	switch line {
	case "q", "quit":
		return true
	case "", "n", "next":
		err = d.Next(ctx)
	case "p", "prev":
		err = d.Previous(ctx)
	case "t", "toggle":
		err = d.ToggleAutoAdvance(ctx)
	default:
		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 1 || n > len(s.slides) {
			fmt.Fprintf(s.out, "unknown command %q\n", line)
			return false
		}
		err = d.GoTo(ctx, n-1)
	}
	if err != nil && !errors.Is(err, rotation.ErrDriverStopped) && !errors.Is(err, context.Canceled) {
		s.logger.Warn("slideshow command failed", "command", line, "error", err)
	}
	return false
}

func (s *slideshow) print(ctx context.Context, snap rotation.Snapshot) {
	if snap.Len == 0 || snap.Index >= len(s.slides) {
		return
	}
	ev := s.slides[snap.Index]
	fmt.Fprintln(s.out, formatSlide(ev, snap))

	if s.renderer == nil || s.fetcher == nil || ev.Cover() == "" {
		return
	}
	img, err := s.fetcher.Fetch(ctx, ev.Cover())
	if err != nil {
		s.logger.Warn("photo load failed", "url", ev.Cover(), "error", err)
		return
	}
	out, err := s.renderer.Render(ev.Cover(), img, s.cols, s.rows, image.Contain)
	if err != nil {
		s.logger.Debug("photo render failed", "url", ev.Cover(), "error", err)
		return
	}
	fmt.Fprintln(s.out, out)
}

// formatSlide is the one-line form of a slide, e.g.
//
//	[2/5] ▶ Spring Gala · March 14, 2024 · Cultural ★
func formatSlide(ev gallery.Event, snap rotation.Snapshot) string {
	state := "‖"
	if snap.AutoAdvance {
		state = "▶"
	}
	parts := []string{ev.Title, gallery.FormatDate(ev.Date), string(ev.Category)}
	line := fmt.Sprintf("[%d/%d] %s %s", snap.Index+1, snap.Len, state, strings.Join(parts, " · "))
	if ev.Featured {
		line += " ★"
	}
	return ansi.Truncate(line, 160, "…")
}

func covers(events []gallery.Event) []string {
	var urls []string
	for _, ev := range events {
		if u := ev.Cover(); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
