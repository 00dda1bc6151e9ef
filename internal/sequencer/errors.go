package sequencer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPattern reports a pattern whose shape does not fit the run.
	ErrInvalidPattern = errors.New("sequencer: invalid pattern")
	// ErrConstraintViolation reports a budget, blocked or forced violation.
	ErrConstraintViolation = errors.New("sequencer: constraint violation")
	// ErrAlreadyPlaying is returned by Start while a run is in progress.
	ErrAlreadyPlaying = errors.New("sequencer: already playing")
	// ErrInvalidConfig reports an unusable instrument configuration.
	ErrInvalidConfig = errors.New("sequencer: invalid config")
)

// InvalidPatternError describes a track of the wrong length or an
// instrument the level does not provide.
type InvalidPatternError struct {
	Instrument Instrument
	Got        int
	Want       int
	Reason     string
}

func (e *InvalidPatternError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("sequencer: invalid pattern for %q: %s", e.Instrument, e.Reason)
	}
	return fmt.Sprintf("sequencer: invalid pattern for %q: %d steps, want %d", e.Instrument, e.Got, e.Want)
}

// Is matches ErrInvalidPattern.
func (e *InvalidPatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}

// Violation reasons.
const (
	ReasonBudget      = "budget"
	ReasonBlocked     = "blocked"
	ReasonForced      = "forced"
	ReasonRange       = "range"
	ReasonUnavailable = "unavailable"
)

// ConstraintViolationError describes a rejected beat.
type ConstraintViolationError struct {
	Instrument Instrument
	Step       int
	Reason     string
	// AtStart is set when the violation was found by Start, in which case
	// the error also matches ErrInvalidPattern.
	AtStart bool
}

func (e *ConstraintViolationError) Error() string {
	switch e.Reason {
	case ReasonBudget:
		return fmt.Sprintf("sequencer: %s budget exhausted", e.Instrument)
	case ReasonBlocked:
		return fmt.Sprintf("sequencer: %s step %d is blocked", e.Instrument, e.Step+1)
	case ReasonForced:
		return fmt.Sprintf("sequencer: %s step %d is forced", e.Instrument, e.Step+1)
	case ReasonRange:
		return fmt.Sprintf("sequencer: %s step %d out of range", e.Instrument, e.Step+1)
	case ReasonUnavailable:
		return fmt.Sprintf("sequencer: %s is not available", e.Instrument)
	}
	return fmt.Sprintf("sequencer: %s step %d: %s", e.Instrument, e.Step+1, e.Reason)
}

// Is matches ErrConstraintViolation, and ErrInvalidPattern when raised by Start.
func (e *ConstraintViolationError) Is(target error) bool {
	if target == ErrConstraintViolation {
		return true
	}
	return e.AtStart && target == ErrInvalidPattern
}
