// Package session is the game session controller. It binds the sequencer
// to the player, runs the frame loop in a fixed order and moves between
// idle, running, won and game-over states.
//
// Every input (sequencer start and stop, steps, deaths, wins, timeouts)
// is queued and applied at a frame boundary, never in the middle of a
// physics step or an entity update.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/beatstep/internal/clock"
	"github.com/vovakirdan/beatstep/internal/config"
	"github.com/vovakirdan/beatstep/internal/core"
	"github.com/vovakirdan/beatstep/internal/level"
	"github.com/vovakirdan/beatstep/internal/logging"
	"github.com/vovakirdan/beatstep/internal/sequencer"
)

// maxCatchUp bounds how many fixed frames Advance runs for one call.
const maxCatchUp = 5

var (
	// ErrTransitionPending is returned while a won level waits to advance.
	ErrTransitionPending = errors.New("session: level transition pending")
	// ErrNoPreset is returned by LoadPreset for levels without one.
	ErrNoPreset = errors.New("session: level has no preset pattern")
	// ErrNoLevels is returned by New for an empty pack.
	ErrNoLevels = errors.New("session: no levels")
)

// State is the session state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateLevelWon
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateLevelWon:
		return "level won"
	case StateGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Outcome is how a sequencer run ended.
type Outcome string

const (
	OutcomeWon      Outcome = "won"
	OutcomeDied     Outcome = "died"
	OutcomeTimedOut Outcome = "timed_out"
	OutcomeStopped  Outcome = "stopped"
)

// Messages shown for terminal states.
const (
	MessageWon     = "Level complete!"
	MessageDied    = "You died!"
	MessageTimeUp  = "Time's up!"
	MessageVictory = "You beat every level!"
)

// RunResult summarizes one finished sequencer run.
type RunResult struct {
	LevelIndex int
	LevelID    string
	Outcome    Outcome
	Step       int
	Loop       int
	MaxLoops   int
	BeatsUsed  int
	Elapsed    time.Duration
	Pattern    string
}

// LevelInfo describes the level that was just loaded.
type LevelInfo struct {
	Index      int
	Count      int
	Descriptor level.Descriptor
	Config     sequencer.Config
	Preset     sequencer.Pattern
	Warnings   []string
}

// Callbacks are optional observers. They run on the frame loop.
type Callbacks struct {
	OnStep         func(sequencer.StepEvent)
	OnPlayerDied   func()
	OnPlayerWon    func()
	OnTimeUp       func()
	OnLevelChanged func(LevelInfo)
	OnRunEnded     func(RunResult)
}

// ResultSaver persists finished runs.
type ResultSaver interface {
	SaveRunResult(RunResult) error
}

// Options configure a session.
type Options struct {
	Pack       *level.Pack
	Tuning     config.GameConfig
	Logger     *log.Logger
	Callbacks  Callbacks
	Results    ResultSaver // optional
	StartLevel int
	// UsePreset loads each level's preset pattern into the sequencer.
	UsePreset bool
}

// Session owns the active level, its sequencer and the frame clock.
type Session struct {
	pack      *level.Pack
	tuning    config.GameConfig
	log       *log.Logger
	cb        Callbacks
	results   ResultSaver
	usePreset bool

	clock     *clock.Clock
	timers    *clock.Group
	winSlot   clock.Slot
	hub       *Hub
	queue     queue
	transport Transport
	frameAcc  time.Duration

	index      int
	level      *level.Level
	seq        *sequencer.Sequencer
	state      State
	frozen     bool
	message    string
	runStarted time.Duration
	lastStep   sequencer.StepEvent
	live       core.Intents
}

// New creates a session and loads opts.StartLevel.
func New(opts Options) (*Session, error) {
	if opts.Pack == nil || opts.Pack.Len() == 0 {
		return nil, ErrNoLevels
	}
	if err := opts.Tuning.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	c := clock.New()
	s := &Session{
		pack:      opts.Pack,
		tuning:    opts.Tuning,
		log:       logger,
		cb:        opts.Callbacks,
		results:   opts.Results,
		usePreset: opts.UsePreset,
		clock:     c,
		timers:    clock.NewGroup(c),
		hub:       NewHub(),
		transport: Transport{Interval: opts.Tuning.Sequencer.StepInterval()},
	}
	if err := s.LoadLevel(opts.StartLevel); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadLevel replaces the active level. On error the session is unchanged.
func (s *Session) LoadLevel(index int) error {
	desc, err := s.pack.Get(index)
	if err != nil {
		return err
	}
	lvl, err := level.New(desc, level.Deps{
		Clock:           s.clock,
		Signals:         s,
		Triggers:        s.hub,
		Tuning:          s.tuning,
		Logger:          s.log,
		SequencerActive: s.sequencerActive,
	})
	if err != nil {
		return err
	}
	seq, err := sequencer.New(lvl.SequencerConfig())
	if err != nil {
		return fmt.Errorf("session: level %q: %w", desc.ID, err)
	}
	if err := lvl.Create(); err != nil {
		return err
	}
	if s.usePreset {
		if p := lvl.Preset(); p != nil {
			if err := seq.LoadPreset(p); err != nil {
				s.log.Warn("preset rejected", "level", desc.ID, "err", err)
			}
		}
	}

	s.winSlot.Stop()
	if s.level != nil {
		s.level.Destroy()
	}
	s.queue.take()
	s.level, s.seq, s.index = lvl, seq, index
	s.state = StateIdle
	s.frozen = false
	s.message = ""
	s.lastStep = sequencer.StepEvent{}
	s.live = core.Intents{}
	s.transport.Reset()

	for _, w := range seq.Warnings() {
		s.log.Warn("level config", "level", desc.ID, "warning", w)
	}
	s.log.Info("level loaded", "index", index, "level", desc.ID, "steps", seq.Steps())
	if s.cb.OnLevelChanged != nil {
		s.cb.OnLevelChanged(s.LevelInfo())
	}
	return nil
}

// Start begins a sequencer run with the current pattern. The run state
// takes effect at the next frame boundary.
func (s *Session) Start() error {
	switch s.state {
	case StateRunning:
		return sequencer.ErrAlreadyPlaying
	case StateLevelWon:
		return ErrTransitionPending
	}
	ev, err := s.seq.Start(nil, 0)
	if err != nil {
		return err
	}
	s.queue.post(Signal{Kind: SignalStarted})
	s.queue.post(Signal{Kind: SignalStep, Step: ev})
	return nil
}

// Stop ends the current run and returns to manual mode.
func (s *Session) Stop() {
	if s.seq.State() == sequencer.StateIdle && s.state != StateRunning {
		return
	}
	s.queue.post(Signal{Kind: SignalStopped})
}

// TimeUp posts an external timeout.
func (s *Session) TimeUp() { s.queue.post(Signal{Kind: SignalTimeUp}) }

// PlayerDied posts a player death. It implements entity.Signals.
func (s *Session) PlayerDied() { s.queue.post(Signal{Kind: SignalPlayerDied}) }

// PlayerWon posts a level win. It implements entity.Signals.
func (s *Session) PlayerWon() { s.queue.post(Signal{Kind: SignalPlayerWon}) }

// Reset clears a game over and returns every entity to its spawn state.
func (s *Session) Reset() { s.queue.post(Signal{Kind: SignalReset}) }

// SetInput sets the live intents for the next frame. They only move the
// player while no run is in progress.
func (s *Session) SetInput(in core.Intents) {
	s.live = in
}

// Toggle flips one pattern cell through the sequencer's validated path.
func (s *Session) Toggle(inst sequencer.Instrument, step int) (bool, error) {
	return s.seq.Toggle(inst, step)
}

// ClearPattern resets the pattern to its forced steps.
func (s *Session) ClearPattern() {
	s.seq.Clear()
}

// LoadPreset loads the level's preset pattern.
func (s *Session) LoadPreset() error {
	p := s.level.Preset()
	if p == nil {
		return ErrNoPreset
	}
	return s.seq.LoadPreset(p)
}

// Frame runs one frame of length dt: due sequencer steps are queued,
// queued signals applied, then physics, then level objects, the player and
// the enemies, then the frame clock.
func (s *Session) Frame(dt time.Duration) {
	if s.state == StateRunning {
		for n := s.transport.Advance(dt); n > 0; n-- {
			if ev, ok := s.seq.Tick(); ok {
				s.queue.post(Signal{Kind: SignalStep, Step: ev})
			}
		}
	}
	s.drain()

	if !s.frozen && s.level != nil {
		if p := s.level.Player(); p != nil && s.state == StateIdle {
			p.SetInput(s.live)
		}
		s.level.World().Step(dt)
		s.level.Update(dt)
	}
	s.live = core.Intents{}

	s.clock.Advance(dt)
	s.drain()
}

// Advance runs as many fixed frames as elapsed covers and returns how many
// ran. Leftover time carries into the next call.
func (s *Session) Advance(elapsed time.Duration) int {
	step := s.tuning.Session.FrameDuration()
	s.frameAcc += elapsed
	if limit := maxCatchUp * step; s.frameAcc > limit {
		s.frameAcc = limit
	}
	n := 0
	for s.frameAcc >= step {
		s.Frame(step)
		s.frameAcc -= step
		n++
	}
	return n
}

// Close destroys the active level and cancels every timer.
func (s *Session) Close() {
	s.winSlot.Stop()
	s.timers.StopAll()
	if s.level != nil {
		s.level.Destroy()
	}
	s.queue.take()
}

func (s *Session) drain() {
	for {
		batch := s.queue.take()
		if len(batch) == 0 {
			return
		}
		current := s.level
		for _, sig := range batch {
			s.handle(sig)
			if s.level != current {
				// Signals raised against the previous level are stale.
				break
			}
		}
	}
}

func (s *Session) handle(sig Signal) {
	switch sig.Kind {
	case SignalStarted:
		s.onStarted()
	case SignalStopped:
		s.onStopped()
	case SignalStep:
		s.onStep(sig.Step)
	case SignalTimeUp:
		s.onTimeUp()
	case SignalPlayerDied:
		s.onPlayerDied()
	case SignalPlayerWon:
		s.onPlayerWon()
	case SignalReset:
		s.onReset()
	case SignalAdvance:
		s.onAdvance()
	}
}

func (s *Session) onStarted() {
	if s.seq.State() != sequencer.StatePlaying {
		return
	}
	s.level.ResetToInitialState()
	if p := s.level.Player(); p != nil {
		p.ClearTrace()
		p.StartTrace()
	}
	s.state = StateRunning
	s.frozen = false
	s.message = ""
	s.transport.Reset()
	s.runStarted = s.clock.Now()
	s.log.Debug("run started", "level", s.levelID(), "loops", s.seq.Run().MaxLoops)
}

func (s *Session) onStopped() {
	if s.state == StateLevelWon {
		return
	}
	if s.state == StateRunning {
		s.endRun(OutcomeStopped)
	}
	s.seq.Stop()
	s.backToIdle()
}

func (s *Session) onStep(ev sequencer.StepEvent) {
	if s.state != StateRunning {
		return
	}
	s.lastStep = ev
	if s.cb.OnStep != nil {
		s.cb.OnStep(ev)
	}
	if ev.IsGameOver {
		s.onTimeUp()
		return
	}
	if p := s.level.Player(); p != nil {
		p.ApplyBeats(ev.ActiveBeats)
	}
	for _, inst := range s.seq.Config().Instruments {
		if ev.ActiveBeats[inst] {
			s.hub.Fire(inst)
		}
	}
}

func (s *Session) onTimeUp() {
	if s.state != StateRunning {
		return
	}
	s.gameOver(OutcomeTimedOut, MessageTimeUp)
	if s.cb.OnTimeUp != nil {
		s.cb.OnTimeUp()
	}
}

func (s *Session) onPlayerDied() {
	if s.state != StateRunning {
		s.log.Debug("death ignored outside a run", "state", s.state)
		return
	}
	s.gameOver(OutcomeDied, MessageDied)
	if s.cb.OnPlayerDied != nil {
		s.cb.OnPlayerDied()
	}
}

func (s *Session) onPlayerWon() {
	if s.state == StateLevelWon || s.state == StateGameOver {
		return
	}
	if s.state == StateRunning {
		s.endRun(OutcomeWon)
	}
	s.seq.Stop()
	if p := s.level.Player(); p != nil {
		p.StopTrace()
	}
	s.state = StateLevelWon
	s.frozen = true
	s.message = MessageWon
	if s.index == s.pack.Len()-1 {
		s.message = MessageVictory
	}
	s.log.Info("level won", "level", s.levelID())
	if s.cb.OnPlayerWon != nil {
		s.cb.OnPlayerWon()
	}
	s.winSlot.Set(s.timers, s.tuning.Session.WinDelay.Duration, func() {
		s.queue.post(Signal{Kind: SignalAdvance})
	})
}

func (s *Session) onReset() {
	if s.state == StateLevelWon {
		return
	}
	if s.state == StateRunning {
		s.endRun(OutcomeStopped)
	}
	s.seq.Stop()
	s.backToIdle()
}

func (s *Session) onAdvance() {
	if s.state != StateLevelWon {
		return
	}
	next := (s.index + 1) % s.pack.Len()
	if err := s.LoadLevel(next); err != nil {
		s.log.Error("cannot load next level", "index", next, "err", err)
		s.backToIdle()
	}
}

func (s *Session) gameOver(outcome Outcome, msg string) {
	s.endRun(outcome)
	s.seq.Stop()
	if p := s.level.Player(); p != nil {
		p.StopTrace()
	}
	s.state = StateGameOver
	s.frozen = true
	s.message = msg
	s.log.Info("game over", "level", s.levelID(), "outcome", outcome)
}

func (s *Session) backToIdle() {
	s.level.ResetToInitialState()
	if p := s.level.Player(); p != nil {
		p.StopTrace()
	}
	s.state = StateIdle
	s.frozen = false
	s.message = ""
	s.transport.Reset()
}

// endRun reports the run result. It must run before the sequencer stops.
func (s *Session) endRun(outcome Outcome) {
	run := s.seq.Run()
	pattern := s.seq.Pattern()
	step, loop := run.CurrentStep, run.CurrentLoop
	if run.MaxLoops > 0 && loop >= run.MaxLoops {
		// The clock wrapped past the last loop: report the last step played.
		step, loop = s.seq.Steps()-1, run.MaxLoops-1
	}
	res := RunResult{
		LevelIndex: s.index,
		LevelID:    s.levelID(),
		Outcome:    outcome,
		Step:       step,
		Loop:       loop,
		MaxLoops:   run.MaxLoops,
		BeatsUsed:  pattern.Total(),
		Elapsed:    s.clock.Now() - s.runStarted,
		Pattern:    pattern.String(),
	}
	s.log.Info("run ended", "level", res.LevelID, "outcome", outcome,
		"loop", res.Loop, "step", res.Step, "beats", res.BeatsUsed)
	if s.results != nil {
		if err := s.results.SaveRunResult(res); err != nil {
			s.log.Warn("cannot save run", "err", err)
		}
	}
	if s.cb.OnRunEnded != nil {
		s.cb.OnRunEnded(res)
	}
}

func (s *Session) sequencerActive() bool {
	return s.state == StateRunning
}

func (s *Session) levelID() string {
	return s.level.Descriptor().ID
}
