// Package rotation holds the carousel core shared by every rotating view in
// eventreel: a circular index over a fixed-length collection, a
// generation-tagged auto-advance timer, the navigation controller that ties
// the two together, and the presentation mappers that turn an index into
// per-item transforms.
//
// Nothing in this package blocks or spawns goroutines except Driver. A
// Controller is mutated from exactly one event loop (the Bubbletea Update
// loop, or the Driver loop) and is not safe for concurrent use.
package rotation

// Direction records which way the last navigation moved, so the rendering
// layer can pick a directional transition.
type Direction int

const (
	// Forward is movement toward higher indices (next).
	Forward Direction = iota
	// Backward is movement toward lower indices (previous).
	Backward
)

// String returns "forward" or "backward".
func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Wrap maps i onto [0, n) with circular wraparound in both directions.
// Go's % keeps the sign of the dividend, so the second modulo is required
// for negative inputs. Returns 0 when n <= 0.
func Wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// State is the circular position over a collection of n items.
// The zero value is a valid empty state.
type State struct {
	index int
	n     int
	dir   Direction
	auto  bool
}

// NewState returns a state positioned at index 0 over n items. Negative n
// is treated as 0.
func NewState(n int) State {
	if n < 0 {
		n = 0
	}
	return State{n: n}
}

// Index returns the current index. It is always in [0, Len()) when the
// state is not empty, and 0 when it is.
func (s State) Index() int { return s.index }

// Len returns the collection length.
func (s State) Len() int { return s.n }

// Empty reports whether the collection has no items.
func (s State) Empty() bool { return s.n == 0 }

// Direction returns the direction of the last navigation.
func (s State) Direction() Direction { return s.dir }

// AutoAdvance reports whether periodic advancing is enabled.
func (s State) AutoAdvance() bool { return s.auto }

// Advance moves the index by delta with circular wraparound. It is a no-op
// on an empty state and a fixed point when Len() == 1. Direction is left
// untouched; callers that navigate set it explicitly.
func (s *State) Advance(delta int) {
	if s.n == 0 {
		return
	}
	s.index = Wrap(s.index+delta, s.n)
}

// Step is Advance that also records the direction: forward for positive
// delta, backward otherwise.
func (s *State) Step(delta int) {
	if delta > 0 {
		s.dir = Forward
	} else {
		s.dir = Backward
	}
	s.Advance(delta)
}

// SetLen replaces the collection length. When the collection shrinks below
// the current index, the index is clamped to the new last item.
func (s *State) SetLen(n int) {
	if n < 0 {
		n = 0
	}
	s.n = n
	switch {
	case n == 0:
		s.index = 0
	case s.index >= n:
		s.index = n - 1
	}
}
