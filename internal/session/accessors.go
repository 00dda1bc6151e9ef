package session

import (
	"time"

	"github.com/vovakirdan/beatstep/internal/clock"
	"github.com/vovakirdan/beatstep/internal/level"
	"github.com/vovakirdan/beatstep/internal/sequencer"
)

// State returns the session state.
func (s *Session) State() State { return s.state }

// Frozen reports whether physics updates are suspended.
func (s *Session) Frozen() bool { return s.frozen }

// Message returns the on-screen message for the current state.
func (s *Session) Message() string { return s.message }

// Level returns the active level.
func (s *Session) Level() *level.Level { return s.level }

// LevelIndex returns the index of the active level in the pack.
func (s *Session) LevelIndex() int { return s.index }

// LevelCount returns the number of levels in the pack.
func (s *Session) LevelCount() int { return s.pack.Len() }

// Sequencer returns the active level's sequencer for read access.
func (s *Session) Sequencer() *sequencer.Sequencer { return s.seq }

// LastStep returns the most recent step event of the current run.
func (s *Session) LastStep() sequencer.StepEvent { return s.lastStep }

// Clock returns the frame clock.
func (s *Session) Clock() *clock.Clock { return s.clock }

// Hub returns the trigger hub.
func (s *Session) Hub() *Hub { return s.hub }

// Pending returns the number of queued signals.
func (s *Session) Pending() int { return s.queue.len() }

// StepInterval returns the wall time between sequencer steps.
func (s *Session) StepInterval() time.Duration { return s.transport.Interval }

// NextStepIn returns the time left before the next sequencer step.
func (s *Session) NextStepIn() time.Duration { return s.transport.Until() }

// LevelInfo describes the active level.
func (s *Session) LevelInfo() LevelInfo {
	return LevelInfo{
		Index:      s.index,
		Count:      s.pack.Len(),
		Descriptor: s.level.Descriptor(),
		Config:     s.seq.Config(),
		Preset:     s.level.Preset(),
		Warnings:   s.seq.Warnings(),
	}
}
