package clock

import "time"

// Group owns a set of timers so they can be cancelled together,
// e.g. every timer created by one level.
type Group struct {
	clock  *Clock
	timers []*Timer
}

// NewGroup creates an empty group on c.
func NewGroup(c *Clock) *Group {
	return &Group{clock: c}
}

// Clock returns the underlying clock.
func (g *Group) Clock() *Clock {
	return g.clock
}

// After schedules fn on the group's clock.
func (g *Group) After(d time.Duration, fn func()) *Timer {
	g.compact()
	t := g.clock.After(d, fn)
	g.timers = append(g.timers, t)
	return t
}

// StopAll cancels every pending timer of the group.
func (g *Group) StopAll() {
	for _, t := range g.timers {
		t.Stop()
	}
	g.timers = nil
}

// Pending returns the number of timers of the group still waiting to fire.
func (g *Group) Pending() int {
	g.compact()
	return len(g.timers)
}

func (g *Group) compact() {
	live := g.timers[:0]
	for _, t := range g.timers {
		if t.Active() {
			live = append(live, t)
		}
	}
	g.timers = live
}

// Slot holds at most one pending timer. Scheduling a new one cancels the
// previous, so an entity can never have two of the same timer running.
type Slot struct {
	timer *Timer
}

// Set cancels any pending timer of the slot and schedules fn after d.
func (s *Slot) Set(g *Group, d time.Duration, fn func()) {
	s.Stop()
	s.timer = g.After(d, fn)
}

// Stop cancels the pending timer, if any.
func (s *Slot) Stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Active reports whether the slot holds a pending timer.
func (s *Slot) Active() bool {
	return s.timer.Active()
}
