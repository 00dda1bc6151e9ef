package session

import "time"

// Transport turns frame time into sequencer steps at a fixed interval.
type Transport struct {
	Interval time.Duration
	acc      time.Duration
}

// Advance adds dt and returns how many steps are due.
func (t *Transport) Advance(dt time.Duration) int {
	if t.Interval <= 0 || dt <= 0 {
		return 0
	}
	t.acc += dt
	n := int(t.acc / t.Interval)
	t.acc -= time.Duration(n) * t.Interval
	return n
}

// Reset drops accumulated time.
func (t *Transport) Reset() {
	t.acc = 0
}

// Until returns the time left before the next step.
func (t *Transport) Until() time.Duration {
	return t.Interval - t.acc
}
