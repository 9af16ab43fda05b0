package app

import "gitlab.com/tinyland/lab/eventreel/pkg/rotation"

// Focus is a circular focus ring over n sections.
type Focus struct {
	index, n int
}

// NewFocus returns a ring over n sections focused on the first.
func NewFocus(n int) Focus {
	return Focus{n: max(n, 0)}
}

// Index returns the focused section.
func (f Focus) Index() int { return f.index }

// Len returns the number of sections.
func (f Focus) Len() int { return f.n }

// Forward moves focus to the next section, wrapping after the last.
func (f *Focus) Forward() {
	if f.n > 0 {
		f.index = rotation.Wrap(f.index+1, f.n)
	}
}

// Backward moves focus to the previous section, wrapping before the first.
func (f *Focus) Backward() {
	if f.n > 0 {
		f.index = rotation.Wrap(f.index-1, f.n)
	}
}

// Set focuses section i. Out-of-range indices are ignored.
func (f *Focus) Set(i int) bool {
	if i < 0 || i >= f.n {
		return false
	}
	f.index = i
	return true
}
