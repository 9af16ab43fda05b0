package rotation

import "time"

// Config configures a Controller.
type Config struct {
	// Len is the initial collection length.
	Len int

	// Interval is the auto-advance period. Zero means DefaultInterval.
	Interval time.Duration

	// AutoAdvance enables the timer from Init.
	AutoAdvance bool
}

// Controller is the navigation surface over a State and its Timer. Every
// mutating method returns the Schedule the host event loop must arm next,
// or nil when the timer does not need (re)arming.
type Controller struct {
	state State
	timer *Timer
}

// New creates a controller positioned at index 0. Call Init to arm the
// timer when AutoAdvance is set.
func New(cfg Config) *Controller {
	st := NewState(cfg.Len)
	st.auto = cfg.AutoAdvance
	return &Controller{
		state: st,
		timer: NewTimer(cfg.Interval),
	}
}

// Init arms the timer if auto-advance is enabled.
func (c *Controller) Init() *Schedule {
	if !c.state.auto {
		return nil
	}
	return c.timer.Start()
}

// State returns a copy of the current rotation state.
func (c *Controller) State() State { return c.state }

// Index returns the current index.
func (c *Controller) Index() int { return c.state.index }

// Len returns the collection length.
func (c *Controller) Len() int { return c.state.n }

// Direction returns the direction of the last navigation.
func (c *Controller) Direction() Direction { return c.state.dir }

// AutoAdvance reports whether the timer is enabled.
func (c *Controller) AutoAdvance() bool { return c.state.auto }

// Interval returns the timer period.
func (c *Controller) Interval() time.Duration { return c.timer.interval }

// Owns reports whether tick was issued by this controller's timer,
// regardless of whether it is still current.
func (c *Controller) Owns(tick Tick) bool { return tick.ID == c.timer.id }

// Next moves forward one item. A running timer is restarted so the manual
// step resets the countdown instead of stacking with the pending tick.
func (c *Controller) Next() *Schedule {
	c.state.Advance(1)
	c.state.dir = Forward
	return c.restart()
}

// Previous moves back one item, with the same restart behaviour as Next.
func (c *Controller) Previous() *Schedule {
	c.state.Advance(-1)
	c.state.dir = Backward
	return c.restart()
}

// GoTo jumps to index. Indices outside [0, Len()) are rejected: the state
// and the timer are left untouched and ok is false.
func (c *Controller) GoTo(index int) (s *Schedule, ok bool) {
	if c.state.n == 0 || index < 0 || index >= c.state.n {
		return nil, false
	}
	if index > c.state.index {
		c.state.dir = Forward
	} else {
		c.state.dir = Backward
	}
	c.state.Advance(index - c.state.index)
	return c.restart(), true
}

// ToggleAutoAdvance flips auto-advance. Enabling arms the timer, disabling
// stops it.
func (c *Controller) ToggleAutoAdvance() *Schedule {
	return c.SetAutoAdvance(!c.state.auto)
}

// SetAutoAdvance sets auto-advance explicitly. Re-enabling an already
// enabled controller restarts its countdown.
func (c *Controller) SetAutoAdvance(on bool) *Schedule {
	c.state.auto = on
	if !on {
		c.timer.Stop()
		return nil
	}
	return c.timer.Start()
}

// SetLen swaps in a collection of a new length. The index is clamped into
// range and a running timer is restarted against the new length.
func (c *Controller) SetLen(n int) *Schedule {
	c.state.SetLen(n)
	return c.restart()
}

// HandleTick advances on a current tick and re-arms the timer. Stale or
// foreign ticks are ignored and return nil.
func (c *Controller) HandleTick(tick Tick) *Schedule {
	if !c.timer.Accept(tick) {
		return nil
	}
	c.state.Advance(1)
	c.state.dir = Forward
	return c.timer.Start()
}

// Transforms maps every item through m against the current index.
func (c *Controller) Transforms(m Mapper) []Transform {
	out := make([]Transform, c.state.n)
	for i := range out {
		out[i] = m.Map(i, c.state.index, c.state.n)
	}
	return out
}

// Close releases the timer. Ticks already in flight become stale.
func (c *Controller) Close() {
	c.timer.Stop()
}

func (c *Controller) restart() *Schedule {
	if !c.state.auto {
		return nil
	}
	return c.timer.Start()
}
