package gallery

import "strings"

// Filter narrows a list of events by category and title search.
type Filter struct {
	Category Category
	Query    string
}

// Match reports whether e passes the filter. An empty category means All;
// the query is a case-insensitive substring match on the title.
func (f Filter) Match(e Event) bool {
	if f.Category != "" && f.Category != All && e.Category != f.Category {
		return false
	}
	q := strings.TrimSpace(f.Query)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), strings.ToLower(q))
}

// Apply returns the matching events, preserving order.
func (f Filter) Apply(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return (f.Category == "" || f.Category == All) && strings.TrimSpace(f.Query) == ""
}

// FeaturedOnly returns the featured events, preserving order.
func FeaturedOnly(events []Event) []Event {
	var out []Event
	for _, e := range events {
		if e.Featured {
			out = append(out, e)
		}
	}
	return out
}

// HeroSlides returns the first n events for the hero slider.
func HeroSlides(events []Event, n int) []Event {
	return head(events, n)
}

// FeaturedSlice returns the first n events for the featured carousel.
func FeaturedSlice(events []Event, n int) []Event {
	return head(events, n)
}

func head(events []Event, n int) []Event {
	if n < 0 {
		n = 0
	}
	if n > len(events) {
		n = len(events)
	}
	out := make([]Event, n)
	copy(out, events[:n])
	return out
}
