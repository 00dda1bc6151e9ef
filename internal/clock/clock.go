// Package clock is the discrete, frame-driven timer source of a session.
// Timers never fire on their own: they fire from Advance, which the session
// calls once per frame, so callbacks always run at a frame boundary.
package clock

import (
	"sort"
	"time"
)

// Clock tracks simulated time and pending timers.
type Clock struct {
	now    time.Duration
	seq    uint64
	timers []*Timer
}

// New creates a clock at time zero.
func New() *Clock {
	return &Clock{}
}

// Now returns the simulated time elapsed since the clock was created.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Pending returns the number of timers waiting to fire.
func (c *Clock) Pending() int {
	n := 0
	for _, t := range c.timers {
		if t.active() {
			n++
		}
	}
	return n
}

// After schedules fn to run once d has elapsed.
func (c *Clock) After(d time.Duration, fn func()) *Timer {
	c.seq++
	t := &Timer{
		clock: c,
		due:   c.now + d,
		seq:   c.seq,
		fn:    fn,
	}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by dt and fires every timer that became due,
// ordered by due time then by scheduling order. Timers scheduled from a
// callback fire on a later Advance at the earliest.
func (c *Clock) Advance(dt time.Duration) {
	if dt > 0 {
		c.now += dt
	}

	var due, keep []*Timer
	for _, t := range c.timers {
		switch {
		case !t.active():
		case t.due <= c.now:
			due = append(due, t)
		default:
			keep = append(keep, t)
		}
	}
	c.timers = keep

	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		// An earlier callback may have stopped this one.
		if t.stopped {
			continue
		}
		t.fired = true
		if t.fn != nil {
			t.fn()
		}
	}
}

// StopAll cancels every pending timer.
func (c *Clock) StopAll() {
	for _, t := range c.timers {
		t.stopped = true
	}
	c.timers = nil
}

// Timer is a one-shot callback registered on a Clock.
type Timer struct {
	clock   *Clock
	due     time.Duration
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

// Stop cancels the timer. It reports whether the timer was still pending.
func (t *Timer) Stop() bool {
	if t == nil || !t.active() {
		return false
	}
	t.stopped = true
	return true
}

// Active reports whether the timer is still waiting to fire.
func (t *Timer) Active() bool {
	return t != nil && t.active()
}

// Remaining returns the time left before the timer fires, or zero.
func (t *Timer) Remaining() time.Duration {
	if !t.Active() {
		return 0
	}
	return t.due - t.clock.now
}

func (t *Timer) active() bool {
	return !t.stopped && !t.fired
}
