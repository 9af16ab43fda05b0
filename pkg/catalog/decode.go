package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
)

//go:embed default.yaml
var defaultYAML []byte

// dateLayout is the on-disk date format.
const dateLayout = "2006-01-02"

// fileCatalog is the YAML document shape.
type fileCatalog struct {
	Events []fileEvent `yaml:"events"`
}

type fileEvent struct {
	ID          int         `yaml:"id"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Date        string      `yaml:"date"`
	Category    string      `yaml:"category"`
	Featured    bool        `yaml:"featured"`
	Photos      []filePhoto `yaml:"photos"`
}

type filePhoto struct {
	ID  int    `yaml:"id"`
	URL string `yaml:"url"`
}

// Default returns the built-in seed catalog.
func Default() []gallery.Event {
	events, err := Decode(bytes.NewReader(defaultYAML))
	if err != nil {
		panic("catalog: embedded default is invalid: " + err.Error())
	}
	return events
}

// LoadFile reads and validates a YAML catalog file.
func LoadFile(path string) ([]gallery.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	events, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

// Decode parses a YAML catalog. Every problem found is reported, joined,
// and wrapped in ErrInvalidCatalog.
func Decode(r io.Reader) ([]gallery.Event, error) {
	var doc fileCatalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	var (
		errs     []error
		events   = make([]gallery.Event, 0, len(doc.Events))
		eventIDs = make(map[int]bool)
		photoIDs = make(map[int]bool)
	)
	for i, fe := range doc.Events {
		ev, err := fe.toEvent()
		if err != nil {
			errs = append(errs, fmt.Errorf("events[%d]: %w", i, err))
			continue
		}
		if eventIDs[ev.ID] {
			errs = append(errs, fmt.Errorf("events[%d]: duplicate event id %d", i, ev.ID))
			continue
		}
		eventIDs[ev.ID] = true
		for _, p := range ev.Photos {
			if photoIDs[p.ID] {
				errs = append(errs, fmt.Errorf("events[%d]: duplicate photo id %d", i, p.ID))
			}
			photoIDs[p.ID] = true
		}
		events = append(events, ev)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return events, nil
}

func (fe fileEvent) toEvent() (gallery.Event, error) {
	if fe.ID <= 0 {
		return gallery.Event{}, fmt.Errorf("id must be positive, got %d", fe.ID)
	}
	title := strings.TrimSpace(fe.Title)
	if title == "" {
		return gallery.Event{}, fmt.Errorf("event %d: title is required", fe.ID)
	}
	cat, err := gallery.ParseCategory(fe.Category)
	if err != nil || !cat.Valid() {
		return gallery.Event{}, fmt.Errorf("event %d: invalid category %q", fe.ID, fe.Category)
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(fe.Date))
	if err != nil {
		return gallery.Event{}, fmt.Errorf("event %d: invalid date %q", fe.ID, fe.Date)
	}

	ev := gallery.Event{
		ID:          fe.ID,
		Title:       title,
		Description: strings.TrimSpace(fe.Description),
		Date:        date,
		Category:    cat,
		Featured:    fe.Featured,
		Photos:      make([]gallery.Photo, 0, len(fe.Photos)),
	}
	for _, p := range fe.Photos {
		if p.ID <= 0 || strings.TrimSpace(p.URL) == "" {
			return gallery.Event{}, fmt.Errorf("event %d: photo %d needs a positive id and a url", fe.ID, p.ID)
		}
		ev.Photos = append(ev.Photos, gallery.Photo{ID: p.ID, URL: p.URL, EventID: fe.ID})
	}
	return ev, nil
}
