package rotation

import (
	"math/rand/v2"
	"testing"
	"time"
)

// fakeHost stands in for the event loop on a simulated clock. Like
// tea.Tick, it delivers every armed tick when due, stale ones included;
// the controller is responsible for dropping those.
type fakeHost struct {
	now     time.Duration
	pending []pendingTick
}

type pendingTick struct {
	due  time.Duration
	tick Tick
}

func (h *fakeHost) arm(s *Schedule) {
	if s == nil {
		return
	}
	h.pending = append(h.pending, pendingTick{due: h.now + s.Delay, tick: s.Tick})
}

// advance moves the clock forward by d, delivering due ticks in order, and
// returns how many of them the controller accepted.
func (h *fakeHost) advance(c *Controller, d time.Duration) int {
	target := h.now + d
	accepted := 0
	for {
		idx := -1
		for i, p := range h.pending {
			if p.due <= target && (idx < 0 || p.due < h.pending[idx].due) {
				idx = i
			}
		}
		if idx < 0 {
			break
		}
		p := h.pending[idx]
		h.pending = append(h.pending[:idx], h.pending[idx+1:]...)
		h.now = p.due
		if s := c.HandleTick(p.tick); s != nil {
			accepted++
			h.arm(s)
		}
	}
	h.now = target
	return accepted
}

func TestWrap(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{5, 5, 0},
		{-1, 5, 4},
		{-6, 5, 4},
		{12, 5, 2},
		{3, 1, 0},
		{-3, 1, 0},
		{7, 0, 0},
		{-7, -2, 0},
	}
	for _, tt := range tests {
		if got := Wrap(tt.i, tt.n); got != tt.want {
			t.Errorf("Wrap(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestIndexStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for n := 1; n <= 12; n++ {
		c := New(Config{Len: n})
		for step := 0; step < 200; step++ {
			if rng.IntN(2) == 0 {
				c.Next()
			} else {
				c.Previous()
			}
			if idx := c.Index(); idx < 0 || idx >= n {
				t.Fatalf("n=%d step=%d: index %d out of range", n, step, idx)
			}
		}
	}
}

func TestAdvanceRoundTrip(t *testing.T) {
	for n := 1; n <= 9; n++ {
		for start := 0; start < n; start++ {
			s := NewState(n)
			s.Advance(start)
			s.Advance(1)
			s.Advance(-1)
			if s.Index() != start {
				t.Errorf("n=%d start=%d: round trip landed on %d", n, start, s.Index())
			}
		}
	}
}

func TestSingleItemIsFixedPoint(t *testing.T) {
	c := New(Config{Len: 1})
	for i := 0; i < 5; i++ {
		c.Next()
		if c.Index() != 0 {
			t.Fatalf("after %d next calls, index = %d", i+1, c.Index())
		}
	}
}

func TestEmptyIsNoOp(t *testing.T) {
	c := New(Config{Len: 0, AutoAdvance: true})
	var h fakeHost
	h.arm(c.Init())

	c.Next()
	c.Previous()
	if _, ok := c.GoTo(0); ok {
		t.Error("GoTo(0) on empty collection should be rejected")
	}
	h.advance(c, 10*DefaultInterval)

	if !c.State().Empty() {
		t.Error("state should stay empty")
	}
	if c.Index() != 0 {
		t.Errorf("index = %d, want 0", c.Index())
	}
}

func TestNextAndPreviousExamples(t *testing.T) {
	c := New(Config{Len: 5})
	c.GoTo(2)

	c.Next()
	if c.Index() != 3 || c.Direction() != Forward {
		t.Errorf("next from 2: got index=%d dir=%v, want 3 forward", c.Index(), c.Direction())
	}

	c.GoTo(0)
	c.Previous()
	if c.Index() != 4 {
		t.Errorf("first previous from 0: got %d, want 4", c.Index())
	}
	c.Previous()
	if c.Index() != 3 || c.Direction() != Backward {
		t.Errorf("second previous: got index=%d dir=%v, want 3 backward", c.Index(), c.Direction())
	}
}

func TestGoTo(t *testing.T) {
	tests := []struct {
		name    string
		from    int
		to      int
		wantOK  bool
		wantIdx int
		wantDir Direction
	}{
		{"forward", 1, 3, true, 3, Forward},
		{"backward", 3, 0, true, 0, Backward},
		{"same index", 2, 2, true, 2, Backward},
		{"negative rejected", 2, -1, false, 2, Forward},
		{"past end rejected", 2, 5, false, 2, Forward},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Config{Len: 5, AutoAdvance: true})
			c.Init()
			c.state.index = tt.from
			c.state.dir = Forward
			gen := c.timer.Generation()

			s, ok := c.GoTo(tt.to)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if c.Index() != tt.wantIdx {
				t.Errorf("index = %d, want %d", c.Index(), tt.wantIdx)
			}
			if c.Direction() != tt.wantDir {
				t.Errorf("direction = %v, want %v", c.Direction(), tt.wantDir)
			}
			if !ok {
				if s != nil || c.timer.Generation() != gen {
					t.Error("rejected GoTo must not restart the timer")
				}
			} else if s == nil {
				t.Error("accepted GoTo with auto-advance on should restart the timer")
			}
		})
	}
}

func TestAutoAdvanceFiresOncePerInterval(t *testing.T) {
	const interval = 3 * time.Second
	for _, k := range []int{1, 2, 5, 7, 11} {
		c := New(Config{Len: 5, Interval: interval, AutoAdvance: true})
		var h fakeHost
		h.arm(c.Init())

		got := h.advance(c, time.Duration(k)*interval)
		if got != k {
			t.Errorf("k=%d: %d ticks accepted", k, got)
		}
		if c.Index() != k%5 {
			t.Errorf("k=%d: index = %d, want %d", k, c.Index(), k%5)
		}
	}
}

func TestManualNextRestartsCountdown(t *testing.T) {
	const interval = 3 * time.Second
	c := New(Config{Len: 5, Interval: interval, AutoAdvance: true})
	var h fakeHost
	h.arm(c.Init())

	h.advance(c, 2*time.Second)
	h.arm(c.Next())
	if c.Index() != 1 {
		t.Fatalf("index after next = %d, want 1", c.Index())
	}

	// The original tick is due at 3s; it must be dropped.
	if n := h.advance(c, interval-time.Millisecond); n != 0 {
		t.Fatalf("auto tick fired %v after manual next, before a full interval", interval-time.Millisecond)
	}
	if c.Index() != 1 {
		t.Fatalf("index moved to %d before the restarted countdown elapsed", c.Index())
	}

	if n := h.advance(c, time.Millisecond); n != 1 {
		t.Fatalf("expected exactly one tick at a full interval after next, got %d", n)
	}
	if c.Index() != 2 {
		t.Errorf("index = %d, want 2", c.Index())
	}
}

func TestToggleOffOnKeepsSingleTimer(t *testing.T) {
	const interval = time.Second
	c := New(Config{Len: 4, Interval: interval, AutoAdvance: true})
	var h fakeHost
	h.arm(c.Init())

	h.arm(c.ToggleAutoAdvance())
	if c.AutoAdvance() {
		t.Fatal("auto-advance should be off")
	}
	h.arm(c.ToggleAutoAdvance())
	if !c.AutoAdvance() {
		t.Fatal("auto-advance should be on")
	}
	if c.Index() != 0 {
		t.Fatalf("toggling moved the index to %d", c.Index())
	}

	for i := 1; i <= 3; i++ {
		if n := h.advance(c, interval); n != 1 {
			t.Fatalf("interval %d: %d ticks accepted, want 1", i, n)
		}
		if c.Index() != i {
			t.Fatalf("interval %d: index = %d", i, c.Index())
		}
	}
}

func TestDisabledAutoAdvanceIgnoresTicks(t *testing.T) {
	c := New(Config{Len: 3, Interval: time.Second, AutoAdvance: true})
	var h fakeHost
	h.arm(c.Init())
	h.arm(c.ToggleAutoAdvance())

	if n := h.advance(c, 5*time.Second); n != 0 {
		t.Errorf("%d ticks accepted while disabled", n)
	}
	if s := c.Next(); s != nil {
		t.Error("Next should not arm the timer while auto-advance is off")
	}
}

func TestSetLenClampsAndRestarts(t *testing.T) {
	const interval = time.Second
	c := New(Config{Len: 8, Interval: interval, AutoAdvance: true})
	var h fakeHost
	h.arm(c.Init())
	c.GoTo(7)

	h.advance(c, interval/2)
	h.arm(c.SetLen(3))
	if c.Index() != 2 {
		t.Fatalf("index after shrink = %d, want 2", c.Index())
	}

	if n := h.advance(c, interval/2); n != 0 {
		t.Fatal("pre-swap tick should be stale")
	}
	if n := h.advance(c, interval/2); n != 1 {
		t.Fatalf("expected restarted timer to fire once, got %d", n)
	}
	if c.Index() != 0 {
		t.Errorf("index = %d, want wrap to 0", c.Index())
	}

	c.SetLen(0)
	if !c.State().Empty() || c.Index() != 0 {
		t.Errorf("SetLen(0): empty=%v index=%d", c.State().Empty(), c.Index())
	}
}

func TestTimerLifecycle(t *testing.T) {
	tm := NewTimer(0)
	if tm.Live() || tm.Interval() != DefaultInterval {
		t.Fatalf("new timer: live=%v interval=%v", tm.Live(), tm.Interval())
	}

	first := tm.Start()
	if !tm.Live() || !tm.Accept(first.Tick) {
		t.Fatal("started timer should accept its tick")
	}
	second := tm.Start()
	if tm.Accept(first.Tick) || !tm.Accept(second.Tick) {
		t.Error("restart should leave only the newest tick current")
	}

	tm.Stop()
	if tm.Live() {
		t.Error("stopped timer is still live")
	}
	if tm.Accept(second.Tick) {
		t.Error("stopped timer accepted a tick")
	}
}

func TestForeignAndClosedTicks(t *testing.T) {
	a := New(Config{Len: 3, AutoAdvance: true})
	b := New(Config{Len: 3, AutoAdvance: true})
	sa := a.Init()
	sb := b.Init()

	if a.Owns(sb.Tick) || !a.Owns(sa.Tick) {
		t.Fatal("Owns should distinguish controllers")
	}
	if s := a.HandleTick(sb.Tick); s != nil || a.Index() != 0 {
		t.Error("foreign tick should be ignored")
	}

	a.Close()
	if s := a.HandleTick(sa.Tick); s != nil || a.Index() != 0 {
		t.Error("tick after Close should be ignored")
	}
}

func TestNewTimerDefaultsInterval(t *testing.T) {
	if got := NewTimer(0).Interval(); got != DefaultInterval {
		t.Errorf("interval = %v, want %v", got, DefaultInterval)
	}
	if got := NewTimer(-time.Second).Interval(); got != DefaultInterval {
		t.Errorf("interval = %v, want %v", got, DefaultInterval)
	}
}
