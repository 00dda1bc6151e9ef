package entity

import (
	"time"

	"github.com/vovakirdan/beatstep/internal/config"
	"github.com/vovakirdan/beatstep/internal/core"
	"github.com/vovakirdan/beatstep/internal/physics"
	"github.com/vovakirdan/beatstep/internal/sequencer"
)

// SawState is the behavior state of a saw.
type SawState int

const (
	SawDormant SawState = iota
	SawDropping
	SawReturning
)

// String returns a human-readable name for the state.
func (s SawState) String() string {
	switch s {
	case SawDormant:
		return "dormant"
	case SawDropping:
		return "dropping"
	case SawReturning:
		return "returning"
	default:
		return "unknown"
	}
}

// TriggerInstrument wakes saws.
const TriggerInstrument = sequencer.Crash

// Saw hangs still until the trigger instrument fires, then drops fast and
// climbs back slowly. Touching it is always lethal.
type Saw struct {
	env  *Env
	cfg  config.SawConfig
	body *physics.Body

	state   SawState
	startY  float64
	targetY float64
	initial core.Vec

	overlap     *physics.Overlap
	unsubscribe func()
}

// NewSaw creates a dormant saw at spawn and subscribes it to the trigger.
func NewSaw(env *Env, spawn Spawn, player *Player) *Saw {
	s := &Saw{env: env, cfg: env.Tuning.Saw}
	drop := s.cfg.DropDistance
	if spawn.Range > 0 {
		drop = spawn.Range
	}

	pos := env.BlockCenter(spawn.BlockX, spawn.BlockY, spawn.OffsetX, spawn.OffsetY)
	s.body = env.World.NewBody(pos.X, pos.Y, s.cfg.Width, s.cfg.Height)
	s.body.AllowGravity = false
	s.body.Moves = false
	s.body.Mask = 0

	s.startY = pos.Y
	s.targetY = pos.Y + drop
	s.initial = pos

	if player != nil && player.Body() != nil {
		s.overlap = env.World.AddOverlap(player.Body(), s.body, func(_, _ *physics.Body) {
			env.died()
		})
	}
	if env.Triggers != nil {
		s.unsubscribe = env.Triggers.Subscribe(TriggerInstrument, s.onTrigger)
	}
	return s
}

// Body returns the physics body, or nil once destroyed.
func (s *Saw) Body() *physics.Body {
	if !physics.Alive(s.body) {
		return nil
	}
	return s.body
}

// State returns the behavior state.
func (s *Saw) State() SawState { return s.state }

func (s *Saw) onTrigger() {
	b := s.Body()
	if b == nil || s.state != SawDormant {
		return
	}
	s.state = SawDropping
	b.Moves = true
}

// Update moves the saw along its drop path.
func (s *Saw) Update(dt time.Duration) {
	b := s.Body()
	if b == nil {
		return
	}
	switch s.state {
	case SawDropping:
		b.Vel.Y = s.cfg.DropSpeed
		if b.Pos.Y >= s.targetY {
			s.state = SawReturning
		}
	case SawReturning:
		b.Vel.Y = -s.cfg.ReturnSpeed
		if b.Pos.Y <= s.startY {
			s.state = SawDormant
			b.SetPosition(b.Pos.X, s.startY)
			b.Vel.Y = 0
			b.Moves = false
		}
	}
}

// ResetToInitialState puts the saw back at its spawn point, dormant.
func (s *Saw) ResetToInitialState() {
	b := s.Body()
	if b == nil {
		s.env.missing(KindSaw, "reset")
		return
	}
	b.SetPosition(s.initial.X, s.initial.Y)
	b.Stop()
	b.Moves = false
	s.state = SawDormant
	s.startY = s.initial.Y
}

// Destroy unsubscribes from the trigger and releases the body.
func (s *Saw) Destroy() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	if s.overlap != nil {
		s.overlap.Remove()
		s.overlap = nil
	}
	if s.body != nil {
		s.body.Destroy()
		s.body = nil
	}
}

// Sprite implements Visible.
func (s *Saw) Sprite() (Sprite, bool) {
	b := s.Body()
	if b == nil {
		return Sprite{}, false
	}
	return Sprite{Kind: KindSaw, Bounds: b.Bounds(), State: s.state.String()}, true
}
