package entity

import (
	"time"

	"github.com/vovakirdan/beatstep/internal/core"
)

// TracePoint is one sample of the recorded player path.
type TracePoint struct {
	Pos core.Vec
	At  time.Duration // since recording started
}

// Trace records the player path during a sequencer run.
type Trace struct {
	MinDistance float64

	recording bool
	elapsed   time.Duration
	points    []TracePoint
}

// Start clears the path and begins recording.
func (t *Trace) Start() {
	t.recording = true
	t.elapsed = 0
	t.points = nil
}

// Stop ends recording and keeps the path.
func (t *Trace) Stop() {
	t.recording = false
}

// Clear drops the recorded path.
func (t *Trace) Clear() {
	t.points = nil
}

// Recording reports whether samples are being taken.
func (t *Trace) Recording() bool {
	return t.recording
}

// Points returns a copy of the recorded path.
func (t *Trace) Points() []TracePoint {
	return append([]TracePoint(nil), t.points...)
}

// sample advances the trace clock and records pos if it is far enough
// from the last point.
func (t *Trace) sample(pos core.Vec, dt time.Duration) {
	if !t.recording {
		return
	}
	t.elapsed += dt
	if n := len(t.points); n > 0 && pos.Dist(t.points[n-1].Pos) < t.MinDistance {
		return
	}
	t.points = append(t.points, TracePoint{Pos: pos, At: t.elapsed})
}
