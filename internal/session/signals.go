package session

import (
	"sync"

	"github.com/vovakirdan/beatstep/internal/sequencer"
)

// SignalKind names a session input.
type SignalKind int

const (
	SignalStarted SignalKind = iota
	SignalStopped
	SignalStep
	SignalTimeUp
	SignalPlayerDied
	SignalPlayerWon
	SignalReset
	SignalAdvance // load the next level after a win
)

func (k SignalKind) String() string {
	switch k {
	case SignalStarted:
		return "sequencer-started"
	case SignalStopped:
		return "sequencer-stopped"
	case SignalStep:
		return "sequencer-step"
	case SignalTimeUp:
		return "game-time-up"
	case SignalPlayerDied:
		return "player-died"
	case SignalPlayerWon:
		return "player-won"
	case SignalReset:
		return "reset"
	case SignalAdvance:
		return "advance"
	default:
		return "unknown"
	}
}

// Signal is one queued input. Step is set for SignalStep only.
type Signal struct {
	Kind SignalKind
	Step sequencer.StepEvent
}

// queue collects signals between frame boundaries. Posting is safe from
// any goroutine; draining happens on the frame loop.
type queue struct {
	mu      sync.Mutex
	pending []Signal
}

func (q *queue) post(s Signal) {
	q.mu.Lock()
	q.pending = append(q.pending, s)
	q.mu.Unlock()
}

func (q *queue) take() []Signal {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
