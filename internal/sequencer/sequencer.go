package sequencer

// State is the playback state of the sequencer.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StateGameOver
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// RunState is the position of the current run.
type RunState struct {
	CurrentStep int
	CurrentLoop int
	MaxLoops    int
	IsPlaying   bool
	IsGameOver  bool
}

// StepEvent is emitted each time the step clock advances.
type StepEvent struct {
	CurrentStep int
	CurrentLoop int
	MaxLoops    int
	IsGameOver  bool
	ActiveBeats map[Instrument]bool
}

// Active reports whether inst fires on this step.
func (e StepEvent) Active(inst Instrument) bool {
	return e.ActiveBeats[inst]
}

// Beats returns the active beats indexed by canonical instrument index.
func (e StepEvent) Beats() []bool {
	out := make([]bool, len(Canonical))
	for inst, on := range e.ActiveBeats {
		if idx := inst.Index(); idx >= 0 {
			out[idx] = on
		}
	}
	return out
}

// Sequencer holds the pattern of one level and runs its step clock.
// It is not safe for concurrent use; the session drives it from its frame loop.
type Sequencer struct {
	cfg      Config
	rules    rules
	warnings []string
	pattern  Pattern
	state    State
	run      RunState
}

// New creates an idle sequencer with an empty pattern that already holds
// the forced steps.
func New(cfg Config) (*Sequencer, error) {
	r, warnings, err := compile(cfg)
	if err != nil {
		return nil, err
	}
	s := &Sequencer{
		cfg:      cfg,
		rules:    r,
		warnings: warnings,
		run:      RunState{MaxLoops: cfg.MaxLoops},
	}
	s.pattern = s.base()
	return s, nil
}

// Config returns the configuration the sequencer was built from.
func (s *Sequencer) Config() Config {
	return s.cfg
}

// Warnings returns the configuration problems that were corrected.
func (s *Sequencer) Warnings() []string {
	return append([]string(nil), s.warnings...)
}

// Steps returns the pattern length.
func (s *Sequencer) Steps() int {
	return s.rules.steps
}

// Pattern returns a copy of the current pattern.
func (s *Sequencer) Pattern() Pattern {
	return s.pattern.Clone()
}

// State returns the playback state.
func (s *Sequencer) State() State {
	return s.state
}

// Run returns the current run position.
func (s *Sequencer) Run() RunState {
	return s.run
}

// IsBlocked reports whether inst may never be active at step.
func (s *Sequencer) IsBlocked(inst Instrument, step int) bool {
	return s.rules.isBlocked(inst, step)
}

// IsForced reports whether inst is always active at step.
func (s *Sequencer) IsForced(inst Instrument, step int) bool {
	return s.rules.isForced(inst, step)
}

// Remaining returns how many more steps inst may activate. unlimited is
// set when the instrument has no cap.
func (s *Sequencer) Remaining(inst Instrument) (left int, unlimited bool) {
	b := s.cfg.Budget(inst)
	if b.Unlimited {
		return 0, true
	}
	return b.Max - s.pattern.Count(inst), false
}

// Start validates pattern and begins a run at step 0, loop 0. A nil
// pattern plays the current one and maxLoops <= 0 uses the configured
// value. The returned event is the first step, which plays immediately.
// On error nothing changes.
func (s *Sequencer) Start(pattern Pattern, maxLoops int) (StepEvent, error) {
	if s.state == StatePlaying {
		return StepEvent{}, ErrAlreadyPlaying
	}
	if pattern == nil {
		pattern = s.pattern
	}
	if err := s.validate(pattern, true); err != nil {
		return StepEvent{}, err
	}
	if maxLoops <= 0 {
		maxLoops = s.cfg.MaxLoops
	}

	s.pattern = pattern.Clone()
	s.state = StatePlaying
	s.run = RunState{
		CurrentStep: 0,
		CurrentLoop: 0,
		MaxLoops:    maxLoops,
		IsPlaying:   true,
	}
	return s.event(), nil
}

// Tick advances the clock by one step. ok is false when the sequencer is
// not playing, in which case nothing changes. Completing the last loop
// ends the run: the returned event has IsGameOver set and no active beats.
func (s *Sequencer) Tick() (ev StepEvent, ok bool) {
	if s.state != StatePlaying {
		return StepEvent{}, false
	}
	s.run.CurrentStep = (s.run.CurrentStep + 1) % s.rules.steps
	if s.run.CurrentStep == 0 {
		s.run.CurrentLoop++
	}
	if s.run.CurrentLoop >= s.run.MaxLoops {
		s.state = StateGameOver
		s.run.IsPlaying = false
		s.run.IsGameOver = true
		return StepEvent{
			CurrentStep: s.run.CurrentStep,
			CurrentLoop: s.run.CurrentLoop,
			MaxLoops:    s.run.MaxLoops,
			IsGameOver:  true,
			ActiveBeats: map[Instrument]bool{},
		}, true
	}
	return s.event(), true
}

// Stop ends playback and returns to idle. The pattern is kept.
func (s *Sequencer) Stop() {
	s.state = StateIdle
	s.run.IsPlaying = false
	s.run.IsGameOver = false
	s.run.CurrentStep = 0
	s.run.CurrentLoop = 0
}

func (s *Sequencer) event() StepEvent {
	active := make(map[Instrument]bool, len(s.cfg.Instruments))
	for _, inst := range s.cfg.Instruments {
		active[inst] = s.pattern.At(inst, s.run.CurrentStep)
	}
	return StepEvent{
		CurrentStep: s.run.CurrentStep,
		CurrentLoop: s.run.CurrentLoop,
		MaxLoops:    s.run.MaxLoops,
		ActiveBeats: active,
	}
}

// base returns an empty pattern holding only the forced steps.
func (s *Sequencer) base() Pattern {
	p := NewPattern(s.cfg.Instruments, s.rules.steps)
	for inst, steps := range s.rules.forced {
		for step := range steps {
			p[inst][step] = true
		}
	}
	return p
}
