package rotation

import (
	"context"
	"errors"
	"time"
)

// ErrDriverStopped is returned by Driver commands issued after Run returned.
var ErrDriverStopped = errors.New("rotation: driver stopped")

// Stopper cancels a pending AfterFunc callback.
type Stopper interface {
	Stop() bool
}

// Clock abstracts wall time so the driver can run on a simulated clock in
// tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Stopper
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// Snapshot is the observable controller state published after every
// change.
type Snapshot struct {
	Index       int
	Len         int
	Direction   Direction
	AutoAdvance bool
	// Auto is true when the change came from a timer tick.
	Auto bool
}

func snapshotOf(c *Controller, auto bool) Snapshot {
	return Snapshot{
		Index:       c.Index(),
		Len:         c.Len(),
		Direction:   c.Direction(),
		AutoAdvance: c.AutoAdvance(),
		Auto:        auto,
	}
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithClock replaces the wall clock.
func WithClock(c Clock) DriverOption {
	return func(d *Driver) { d.clock = c }
}

// WithObserver registers a callback invoked from the driver goroutine after
// every state change. It must not call back into the driver.
func WithObserver(fn func(Snapshot)) DriverOption {
	return func(d *Driver) { d.observe = fn }
}

type command struct {
	fn   func(*Controller) *Schedule
	done chan struct{}
}

// Driver runs a Controller on its own event loop against a real (or
// simulated) clock. Timer ticks and navigation commands are serialized
// through one goroutine, so the controller is never touched concurrently.
// The driver holds at most one pending AfterFunc at a time and stops it
// whenever the controller re-arms or the loop exits.
type Driver struct {
	ctrl    *Controller
	clock   Clock
	observe func(Snapshot)

	cmds    chan command
	ticks   chan Tick
	stopped chan struct{}

	pending Stopper
}

// NewDriver wraps ctrl. The controller must not be used directly while Run
// is active.
func NewDriver(ctrl *Controller, opts ...DriverOption) *Driver {
	d := &Driver{
		ctrl:    ctrl,
		clock:   RealClock,
		cmds:    make(chan command),
		ticks:   make(chan Tick),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run processes ticks and commands until ctx is cancelled. The pending
// timer is stopped and the controller closed before Run returns.
func (d *Driver) Run(ctx context.Context) error {
	defer close(d.stopped)
	defer d.ctrl.Close()
	defer d.disarm()

	d.arm(d.ctrl.Init())
	d.publish(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case tick := <-d.ticks:
			s := d.ctrl.HandleTick(tick)
			if s == nil {
				continue
			}
			d.arm(s)
			d.publish(true)

		case cmd := <-d.cmds:
			if s := cmd.fn(d.ctrl); s != nil {
				d.arm(s)
			} else if !d.ctrl.AutoAdvance() {
				d.disarm()
			}
			d.publish(false)
			close(cmd.done)
		}
	}
}

// Do runs fn on the driver goroutine and waits for it to finish.
func (d *Driver) Do(ctx context.Context, fn func(*Controller) *Schedule) error {
	cmd := command{fn: fn, done: make(chan struct{})}
	select {
	case d.cmds <- cmd:
	case <-d.stopped:
		return ErrDriverStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-cmd.done:
		return nil
	case <-d.stopped:
		return ErrDriverStopped
	}
}

// Next steps forward.
func (d *Driver) Next(ctx context.Context) error {
	return d.Do(ctx, (*Controller).Next)
}

// Previous steps back.
func (d *Driver) Previous(ctx context.Context) error {
	return d.Do(ctx, (*Controller).Previous)
}

// GoTo jumps to index. Out-of-range indices are ignored.
func (d *Driver) GoTo(ctx context.Context, index int) error {
	return d.Do(ctx, func(c *Controller) *Schedule {
		s, _ := c.GoTo(index)
		return s
	})
}

// ToggleAutoAdvance flips the timer on or off.
func (d *Driver) ToggleAutoAdvance(ctx context.Context) error {
	return d.Do(ctx, (*Controller).ToggleAutoAdvance)
}

// SetLen swaps the collection length.
func (d *Driver) SetLen(ctx context.Context, n int) error {
	return d.Do(ctx, func(c *Controller) *Schedule { return c.SetLen(n) })
}

// arm replaces the pending callback with one for s.
func (d *Driver) arm(s *Schedule) {
	if s == nil {
		return
	}
	d.disarm()
	tick := s.Tick
	d.pending = d.clock.AfterFunc(s.Delay, func() {
		tick.Time = d.clock.Now()
		select {
		case d.ticks <- tick:
		case <-d.stopped:
		}
	})
}

func (d *Driver) disarm() {
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}

func (d *Driver) publish(auto bool) {
	if d.observe != nil {
		d.observe(snapshotOf(d.ctrl, auto))
	}
}
