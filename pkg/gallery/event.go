// Package gallery defines the event-photo domain shared by the API server,
// the HTTP client and the terminal browser: events, photos, categories,
// filtering, paging and the lightbox viewer.
package gallery

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Category groups events. All is a filter sentinel and is never stored on an
// event.
type Category string

const (
	All       Category = "All"
	Cultural  Category = "Cultural"
	Technical Category = "Technical"
	Sports    Category = "Sports"
	Academic  Category = "Academic"
)

// Categories lists every category in display order, All first.
var Categories = []Category{All, Cultural, Technical, Sports, Academic}

// ParseCategory resolves a category name case-insensitively. The empty
// string maps to All.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return All, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Valid reports whether c may be stored on an event.
func (c Category) Valid() bool {
	switch c {
	case Cultural, Technical, Sports, Academic:
		return true
	}
	return false
}

// Photo is one image attached to an event.
type Photo struct {
	ID      int    `json:"id"`
	URL     string `json:"url"`
	EventID int    `json:"eventId"`
}

// Event is a single gallery entry.
type Event struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Category    Category  `json:"category"`
	Featured    bool      `json:"-"`
	Photos      []Photo   `json:"photos,omitempty"`
}

// eventJSON is the wire form: isFeatured travels as 0/1.
type eventJSON struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Category    Category  `json:"category"`
	IsFeatured  int       `json:"isFeatured"`
	Photos      []Photo   `json:"photos,omitempty"`
}

// MarshalJSON encodes Featured as isFeatured 0 or 1.
func (e Event) MarshalJSON() ([]byte, error) {
	w := eventJSON{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Category:    e.Category,
		Photos:      e.Photos,
	}
	if e.Featured {
		w.IsFeatured = 1
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts isFeatured as a number or a boolean.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w struct {
		eventJSON
		IsFeatured json.RawMessage `json:"isFeatured"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Event{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Date:        w.Date,
		Category:    w.Category,
		Photos:      w.Photos,
	}
	switch strings.TrimSpace(string(w.IsFeatured)) {
	case "", "null", "0", "false":
	case "1", "true":
		e.Featured = true
	default:
		return fmt.Errorf("event %d: invalid isFeatured %s", w.ID, w.IsFeatured)
	}
	return nil
}

// Cover returns the first photo URL, or "" when the event has none.
func (e Event) Cover() string {
	if len(e.Photos) == 0 {
		return ""
	}
	return e.Photos[0].URL
}

// WithoutPhotos returns a copy of e with Photos cleared, the shape the list
// endpoints return.
func (e Event) WithoutPhotos() Event {
	e.Photos = nil
	return e
}

// SameEvents reports whether a and b list the same events in the same
// order, compared by ID.
func SameEvents(a, b []Event) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// FormatDate renders t the way event cards show it, e.g. "June 20, 2023".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}
