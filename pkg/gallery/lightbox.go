package gallery

import "gitlab.com/tinyland/lab/eventreel/pkg/rotation"

// Lightbox is the full-screen photo viewer for one event. Navigation wraps
// over the event's photos; it has no timer.
type Lightbox struct {
	open  bool
	event Event
	state rotation.State
}

// Open shows ev starting at its first photo. An event without photos is a
// valid open lightbox whose navigation does nothing.
func (l *Lightbox) Open(ev Event) {
	l.open = true
	l.event = ev
	l.state = rotation.NewState(len(ev.Photos))
}

// Close hides the lightbox and resets it.
func (l *Lightbox) Close() {
	*l = Lightbox{}
}

// IsOpen reports whether the lightbox is showing.
func (l Lightbox) IsOpen() bool { return l.open }

// Event returns the event being viewed.
func (l Lightbox) Event() Event { return l.event }

// Index returns the current photo index.
func (l Lightbox) Index() int { return l.state.Index() }

// Len returns the number of photos.
func (l Lightbox) Len() int { return l.state.Len() }

// Direction returns the direction of the last move.
func (l Lightbox) Direction() rotation.Direction { return l.state.Direction() }

// Photo returns the current photo.
func (l Lightbox) Photo() (Photo, bool) {
	if !l.open || l.state.Empty() {
		return Photo{}, false
	}
	return l.event.Photos[l.state.Index()], true
}

// Next moves to the following photo, wrapping to the first.
func (l *Lightbox) Next() {
	if l.open {
		l.state.Step(1)
	}
}

// Previous moves to the preceding photo, wrapping to the last.
func (l *Lightbox) Previous() {
	if l.open {
		l.state.Step(-1)
	}
}

// GoTo jumps to photo i. Out-of-range indices are ignored and reported.
func (l *Lightbox) GoTo(i int) bool {
	if !l.open || i < 0 || i >= l.state.Len() {
		return false
	}
	l.state.Step(i - l.state.Index())
	return true
}
