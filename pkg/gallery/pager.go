package gallery

// Default page sizes of the gallery grid.
const (
	DefaultPageSize = 8
	DefaultPageStep = 4
)

// Pager tracks how many grid items are revealed.
type Pager struct {
	size    int
	step    int
	visible int
	total   int
}

// NewPager returns a pager showing size items at first and revealing step
// more on each More. Non-positive values use the defaults.
func NewPager(size, step int) *Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	if step <= 0 {
		step = DefaultPageStep
	}
	return &Pager{size: size, step: step, visible: size}
}

// SetTotal records the filtered length.
func (p *Pager) SetTotal(n int) {
	if n < 0 {
		n = 0
	}
	p.total = n
}

// Total returns the filtered length.
func (p *Pager) Total() int { return p.total }

// Visible returns how many items are shown, never more than Total.
func (p *Pager) Visible() int {
	return min(p.visible, p.total)
}

// Remaining is how many items the next More reveals.
func (p *Pager) Remaining() int {
	return max(min(p.step, p.total-p.visible), 0)
}

// HasMore reports whether More would reveal anything.
func (p *Pager) HasMore() bool { return p.visible < p.total }

// More reveals the next step of items.
func (p *Pager) More() {
	if p.HasMore() {
		p.visible += p.step
	}
}

// Reset goes back to the first page, as on a filter change.
func (p *Pager) Reset() { p.visible = p.size }

// Page slices events down to the visible window.
func (p *Pager) Page(events []Event) []Event {
	n := min(p.visible, len(events))
	return events[:n]
}
