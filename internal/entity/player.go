package entity

import (
	"time"

	"github.com/vovakirdan/beatstep/internal/clock"
	"github.com/vovakirdan/beatstep/internal/config"
	"github.com/vovakirdan/beatstep/internal/core"
	"github.com/vovakirdan/beatstep/internal/physics"
	"github.com/vovakirdan/beatstep/internal/sequencer"
)

// Player animation states.
const (
	AnimIdle = "idle"
	AnimWalk = "walk"
	AnimJump = "jump"
	AnimDash = "dash"
)

// Player is the character moved by live input and by sequencer beats.
type Player struct {
	env  *Env
	cfg  config.PlayerConfig
	body *physics.Body

	spawn         core.Vec
	initialFacing int

	facing    int
	dashing   bool
	dashDir   int
	dashSlot  clock.Slot
	hasJumped bool

	beats core.Intents // from the latest step; jump and dash are consumed when acted on
	live  core.Intents // from the keyboard for the current frame only

	anim  string
	trace Trace
}

// NewPlayer creates the player centered on (x, y), facing right.
func NewPlayer(env *Env, x, y float64) *Player {
	p := &Player{
		env:           env,
		cfg:           env.Tuning.Player,
		spawn:         core.V(x, y),
		initialFacing: 1,
		facing:        1,
		anim:          AnimIdle,
	}
	p.trace.MinDistance = p.cfg.TraceMinDistance
	p.body = env.World.NewBody(x, y, p.cfg.Width, p.cfg.Height)
	p.body.Gravity = p.cfg.Gravity
	p.body.DragX = p.cfg.DragX
	p.body.CollideWorld = true
	p.body.Mask = physics.LayerGround | physics.LayerOneWay
	return p
}

// Body returns the physics body, or nil once destroyed.
func (p *Player) Body() *physics.Body {
	if !physics.Alive(p.body) {
		return nil
	}
	return p.body
}

// Facing returns -1 when facing left and +1 when facing right.
func (p *Player) Facing() int { return p.facing }

// IsDashing reports whether a dash is in progress.
func (p *Player) IsDashing() bool { return p.dashing }

// HasJumped reports whether the jump latch is set.
func (p *Player) HasJumped() bool { return p.hasJumped }

// Intents returns the beat intents still pending.
func (p *Player) Intents() core.Intents { return p.beats }

// Trace returns the recorded path.
func (p *Player) Trace() []TracePoint { return p.trace.Points() }

// StartTrace clears the path and begins recording.
func (p *Player) StartTrace() { p.trace.Start() }

// StopTrace ends recording and keeps the path.
func (p *Player) StopTrace() { p.trace.Stop() }

// ClearTrace drops the recorded path.
func (p *Player) ClearTrace() { p.trace.Clear() }

// SetInput sets the live intents for the next Update.
func (p *Player) SetInput(in core.Intents) {
	p.live = in
}

// ApplyBeats replaces the beat intents with the active beats of a step.
// Kick jumps, Snare dashes, Hi-Hat walks right and Open Hat walks left.
func (p *Player) ApplyBeats(active map[sequencer.Instrument]bool) {
	if p.Body() == nil {
		p.env.missing(KindPlayer, "apply beats")
		return
	}
	p.beats = core.Intents{
		Jump:  active[sequencer.Kick],
		Dash:  active[sequencer.Snare],
		Right: active[sequencer.HiHat],
		Left:  active[sequencer.OpenHat],
	}
}

// ApplyBeatIndices is ApplyBeats for beats listed by canonical index.
func (p *Player) ApplyBeatIndices(beats []bool) {
	active := make(map[sequencer.Instrument]bool, len(beats))
	for i, on := range beats {
		if i < len(sequencer.Canonical) {
			active[sequencer.Canonical[i]] = on
		}
	}
	p.ApplyBeats(active)
}

// Update applies the current intents to the body. It runs after the
// physics step so ground contact is fresh.
func (p *Player) Update(dt time.Duration) {
	b := p.Body()
	if b == nil {
		p.env.missing(KindPlayer, "update")
		return
	}
	p.move(b, p.live.Or(p.beats))
	p.live = core.Intents{}
	p.trace.sample(b.Pos, dt)
}

func (p *Player) move(b *physics.Body, in core.Intents) {
	if in.Dash && !p.dashing && !b.Touching.Down {
		if in.Left {
			p.facing = -1
		} else if in.Right {
			p.facing = 1
		}
		p.performDash()
		p.beats.Dash = false
		return
	}

	if !p.dashing {
		switch {
		case in.Left:
			b.Vel.X = -p.cfg.HorizontalSpeed
			p.facing = -1
			p.anim = AnimWalk
		case in.Right:
			b.Vel.X = p.cfg.HorizontalSpeed
			p.facing = 1
			p.anim = AnimWalk
		default:
			// drag brings the body to rest
			p.anim = AnimIdle
		}
	}

	if b.Touching.Down && !in.Jump {
		p.hasJumped = false
	}
	if in.Jump && b.Touching.Down && !p.hasJumped {
		b.Vel.Y = p.cfg.JumpVelocity
		p.anim = AnimJump
		p.hasJumped = true
		p.beats.Jump = false
	}
}

func (p *Player) performDash() {
	if p.dashing {
		return
	}
	p.dashDir = p.facing
	p.dashing = true
	p.body.Vel.X = p.cfg.DashSpeed * float64(p.dashDir)
	p.anim = AnimDash
	p.dashSlot.Set(p.env.Timers, p.cfg.DashDuration.Duration, p.endDash)
}

func (p *Player) endDash() {
	p.dashing = false
	p.dashDir = 0
	if b := p.Body(); b != nil {
		b.Vel.X *= p.cfg.DashEndFactor
	}
	p.dashSlot.Stop()
}

// ResetToInitialState puts the player back on its spawn point, idle and
// facing its initial direction. Trace recording stops but the path is kept.
func (p *Player) ResetToInitialState() {
	b := p.Body()
	if b == nil {
		p.env.missing(KindPlayer, "reset")
		return
	}
	b.SetPosition(p.spawn.X, p.spawn.Y)
	b.Stop()
	p.facing = p.initialFacing
	if p.dashing {
		p.endDash()
	}
	p.dashSlot.Stop()
	p.hasJumped = false
	p.beats = core.Intents{}
	p.live = core.Intents{}
	p.anim = AnimIdle
	p.trace.Stop()
}

// Destroy removes the body and cancels the dash timer.
func (p *Player) Destroy() {
	p.dashSlot.Stop()
	p.dashing = false
	if p.body != nil {
		p.body.Destroy()
		p.body = nil
	}
}

// Sprite implements Visible.
func (p *Player) Sprite() (Sprite, bool) {
	b := p.Body()
	if b == nil {
		return Sprite{}, false
	}
	return Sprite{Kind: KindPlayer, Bounds: b.Bounds(), Facing: p.facing, State: p.anim}, true
}
