package entity

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/beatstep/internal/core"
	"github.com/vovakirdan/beatstep/internal/sequencer"
)

func newGroundedPlayer(t *testing.T) (*fixture, *Player) {
	t.Helper()
	f := newFixture(t)
	p := NewPlayer(f.env, 400, f.floorY(f.env.Tuning.Player.Height))
	f.env.World.Step(frame)
	if !p.Body().Touching.Down {
		t.Fatal("player not on the ground after one step")
	}
	return f, p
}

func newAirbornePlayer(t *testing.T) (*fixture, *Player) {
	t.Helper()
	f := newFixture(t)
	p := NewPlayer(f.env, 400, 300)
	f.env.World.Step(frame)
	return f, p
}

func TestJumpFromGround(t *testing.T) {
	f, p := newGroundedPlayer(t)
	b := p.Body()

	p.SetInput(core.Intents{Jump: true})
	p.Update(frame)
	if b.Vel.Y != f.env.Tuning.Player.JumpVelocity {
		t.Fatalf("vy = %v, want %v", b.Vel.Y, f.env.Tuning.Player.JumpVelocity)
	}
	if !p.HasJumped() {
		t.Fatal("jump latch not set")
	}

	// Still touching and still holding jump: no second jump.
	b.Vel.Y = 0
	p.SetInput(core.Intents{Jump: true})
	p.Update(frame)
	if b.Vel.Y != 0 {
		t.Errorf("jump re-triggered while latched: vy = %v", b.Vel.Y)
	}

	// Releasing on the ground clears the latch.
	p.Update(frame)
	if p.HasJumped() {
		t.Error("latch not cleared after release on the ground")
	}
}

func TestJumpInAirIgnored(t *testing.T) {
	_, p := newAirbornePlayer(t)
	vy := p.Body().Vel.Y
	p.SetInput(core.Intents{Jump: true})
	p.Update(frame)
	if p.Body().Vel.Y != vy || p.HasJumped() {
		t.Errorf("mid-air jump changed state: vy = %v", p.Body().Vel.Y)
	}
}

func TestBeatJumpConsumedOnce(t *testing.T) {
	f, p := newGroundedPlayer(t)
	p.ApplyBeats(map[sequencer.Instrument]bool{sequencer.Kick: true})
	if !p.Intents().Jump {
		t.Fatal("kick did not set the jump intent")
	}

	jumps := 0
	for i := 0; i < 90; i++ {
		f.env.World.Step(frame)
		before := p.Body().Vel.Y
		p.Update(frame)
		if p.Body().Vel.Y == f.env.Tuning.Player.JumpVelocity && before != p.Body().Vel.Y {
			jumps++
		}
		f.clock.Advance(frame)
	}
	if jumps != 1 {
		t.Errorf("jumps = %d, want 1", jumps)
	}
	if p.Intents().Jump {
		t.Error("jump intent still pending after it was used")
	}
}

func TestBeatMapping(t *testing.T) {
	_, p := newGroundedPlayer(t)
	p.ApplyBeatIndices([]bool{false, true, true, false, true, true})
	got := p.Intents()
	want := core.Intents{Dash: true, Right: true}
	if got != want {
		t.Errorf("Intents() = %+v, want %+v", got, want)
	}

	// A new step overwrites rather than accumulates.
	p.ApplyBeats(map[sequencer.Instrument]bool{sequencer.OpenHat: true})
	if got := p.Intents(); got != (core.Intents{Left: true}) {
		t.Errorf("Intents() after second step = %+v", got)
	}
}

func TestWalking(t *testing.T) {
	f, p := newGroundedPlayer(t)
	speed := f.env.Tuning.Player.HorizontalSpeed

	p.SetInput(core.Intents{Left: true})
	p.Update(frame)
	if p.Body().Vel.X != -speed || p.Facing() != -1 {
		t.Errorf("left: vx = %v facing = %d", p.Body().Vel.X, p.Facing())
	}

	p.ApplyBeats(map[sequencer.Instrument]bool{sequencer.HiHat: true})
	p.Update(frame)
	if p.Body().Vel.X != speed || p.Facing() != 1 {
		t.Errorf("hi-hat: vx = %v facing = %d", p.Body().Vel.X, p.Facing())
	}
	// Walk intents from a beat hold for the whole step.
	p.Update(frame)
	if p.Body().Vel.X != speed {
		t.Errorf("hi-hat released early: vx = %v", p.Body().Vel.X)
	}
}

func TestDash(t *testing.T) {
	f, p := newAirbornePlayer(t)
	cfg := f.env.Tuning.Player

	p.ApplyBeats(map[sequencer.Instrument]bool{sequencer.Snare: true})
	p.Update(frame)
	if !p.IsDashing() || p.Body().Vel.X != cfg.DashSpeed {
		t.Fatalf("dashing = %v vx = %v", p.IsDashing(), p.Body().Vel.X)
	}
	if p.Intents().Dash {
		t.Error("dash intent not consumed")
	}

	// Regular movement is suppressed while dashing.
	p.SetInput(core.Intents{Left: true})
	p.Update(frame)
	if p.Body().Vel.X != cfg.DashSpeed {
		t.Errorf("walk overrode dash: vx = %v", p.Body().Vel.X)
	}

	f.clock.Advance(cfg.DashDuration.Duration)
	if p.IsDashing() {
		t.Fatal("dash did not end")
	}
	want := cfg.DashSpeed * cfg.DashEndFactor
	if math.Abs(p.Body().Vel.X-want) > 1e-9 {
		t.Errorf("vx after dash = %v, want %v", p.Body().Vel.X, want)
	}
}

func TestDashDirectionFromIntent(t *testing.T) {
	f, p := newAirbornePlayer(t)
	p.SetInput(core.Intents{Dash: true, Left: true})
	p.Update(frame)
	if p.Facing() != -1 || p.Body().Vel.X != -f.env.Tuning.Player.DashSpeed {
		t.Errorf("facing = %d vx = %v", p.Facing(), p.Body().Vel.X)
	}
}

func TestDashOnGroundIgnored(t *testing.T) {
	_, p := newGroundedPlayer(t)
	p.SetInput(core.Intents{Dash: true})
	p.Update(frame)
	if p.IsDashing() {
		t.Error("dashed while touching the ground")
	}
}

func TestDashTimerSingleSlot(t *testing.T) {
	f, p := newAirbornePlayer(t)
	cfg := f.env.Tuning.Player

	p.performDash()
	f.clock.Advance(cfg.DashDuration.Duration / 2)

	// Force a second dash while the first timer is pending.
	p.dashing = false
	p.facing = -1
	p.performDash()
	if got := f.env.Timers.Pending(); got != 1 {
		t.Fatalf("pending dash timers = %d, want 1", got)
	}

	f.clock.Advance(cfg.DashDuration.Duration / 2)
	if !p.IsDashing() {
		t.Fatal("stale timer ended the new dash")
	}
	f.clock.Advance(cfg.DashDuration.Duration)
	want := -cfg.DashSpeed * cfg.DashEndFactor
	if math.Abs(p.Body().Vel.X-want) > 1e-9 {
		t.Errorf("vx = %v, want %v (end applied exactly once)", p.Body().Vel.X, want)
	}
	if f.env.Timers.Pending() != 0 {
		t.Errorf("timers left: %d", f.env.Timers.Pending())
	}
}

type playerSnapshot struct {
	pos, vel  core.Vec
	facing    int
	dashing   bool
	hasJumped bool
	intents   core.Intents
	recording bool
	pending   int
}

func snapshot(f *fixture, p *Player) playerSnapshot {
	b := p.Body()
	return playerSnapshot{
		pos:       b.Pos,
		vel:       b.Vel,
		facing:    p.Facing(),
		dashing:   p.IsDashing(),
		hasJumped: p.HasJumped(),
		intents:   p.Intents(),
		recording: p.trace.Recording(),
		pending:   f.env.Timers.Pending(),
	}
}

func TestPlayerResetIdempotent(t *testing.T) {
	f, p := newAirbornePlayer(t)
	p.StartTrace()
	p.ApplyBeats(map[sequencer.Instrument]bool{sequencer.Snare: true, sequencer.OpenHat: true})
	f.run(5, p)
	p.hasJumped = true

	p.ResetToInitialState()
	once := snapshot(f, p)
	p.ResetToInitialState()
	twice := snapshot(f, p)

	if once != twice {
		t.Errorf("reset not idempotent:\n once %+v\ntwice %+v", once, twice)
	}
	want := playerSnapshot{pos: core.V(400, 300), facing: 1}
	if once != want {
		t.Errorf("reset state = %+v, want %+v", once, want)
	}
	if len(p.Trace()) == 0 {
		t.Error("reset dropped the recorded trace")
	}
}

func TestPlayerDestroyedIsNoop(t *testing.T) {
	f, p := newGroundedPlayer(t)
	p.performDash()
	p.Destroy()
	if f.env.Timers.Pending() != 0 {
		t.Error("destroy left the dash timer pending")
	}
	p.ApplyBeats(map[sequencer.Instrument]bool{sequencer.Kick: true})
	p.Update(frame)
	p.ResetToInitialState()
	if p.Body() != nil {
		t.Error("Body() should be nil after Destroy")
	}
	if _, ok := p.Sprite(); ok {
		t.Error("destroyed player still visible")
	}
}

func TestTraceMinDistance(t *testing.T) {
	_, p := newGroundedPlayer(t)
	p.StartTrace()
	b := p.Body()
	steps := []float64{0, 2, 4, 6, 20}
	for _, dx := range steps {
		b.SetPosition(400+dx, b.Pos.Y)
		p.Update(time.Millisecond)
	}
	got := p.Trace()
	if len(got) != 3 {
		t.Fatalf("trace points = %d, want 3: %+v", len(got), got)
	}
	if got[2].At != 5*time.Millisecond {
		t.Errorf("last sample at %v", got[2].At)
	}
	p.StopTrace()
	b.SetPosition(900, b.Pos.Y)
	p.Update(time.Millisecond)
	if len(p.Trace()) != 3 {
		t.Error("sampled after StopTrace")
	}
}
