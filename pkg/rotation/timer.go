package rotation

import (
	"sync/atomic"
	"time"
)

// DefaultInterval is the auto-advance period used when a non-positive
// interval is configured.
const DefaultInterval = 3 * time.Second

// lastID hands out process-unique timer IDs so ticks can be routed to the
// controller that scheduled them.
var lastID atomic.Int64

func nextID() int {
	return int(lastID.Add(1))
}

// Tick is the message delivered when a scheduled interval elapses. Time is
// filled in by whoever delivers it (tea.Tick or a Clock).
type Tick struct {
	ID   int
	Gen  uint64
	Time time.Time
}

// Schedule asks the hosting event loop to deliver Tick after Delay. A nil
// *Schedule means nothing needs to be scheduled.
type Schedule struct {
	Tick  Tick
	Delay time.Duration
}

// Timer is the auto-advance timer. It never owns a goroutine: it issues
// Schedule requests and judges incoming Ticks. Every Start and Stop bumps
// the generation, so a tick issued before a restart is recognized as stale
// and dropped. That keeps at most one live schedule per timer even though
// an already-issued delayed message cannot be recalled.
type Timer struct {
	id       int
	interval time.Duration
	gen      uint64
	live     bool
}

// NewTimer returns a stopped timer. A non-positive interval falls back to
// DefaultInterval.
func NewTimer(interval time.Duration) *Timer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Timer{id: nextID(), interval: interval}
}

// ID returns the timer's routing identifier.
func (t *Timer) ID() int { return t.id }

// Interval returns the configured period.
func (t *Timer) Interval() time.Duration { return t.interval }

// Live reports whether a schedule is outstanding.
func (t *Timer) Live() bool { return t.live }

// Generation returns the current generation counter.
func (t *Timer) Generation() uint64 { return t.gen }

// Start (re)arms the timer and returns the schedule the host must honour.
// Any previously issued tick becomes stale.
func (t *Timer) Start() *Schedule {
	t.gen++
	t.live = true
	return &Schedule{
		Tick:  Tick{ID: t.id, Gen: t.gen},
		Delay: t.interval,
	}
}

// Stop cancels the outstanding schedule, if any.
func (t *Timer) Stop() {
	t.gen++
	t.live = false
}

// Accept reports whether tick belongs to the live schedule of this timer.
// A true result consumes nothing; the caller is expected to Start again.
func (t *Timer) Accept(tick Tick) bool {
	return t.live && tick.ID == t.id && tick.Gen == t.gen
}
