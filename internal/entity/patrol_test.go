package entity

import (
	"testing"
	"time"

	"github.com/vovakirdan/beatstep/internal/physics"
)

func TestPatrolFlipsAtRightBound(t *testing.T) {
	f := newFixture(t)
	// Block 7 is centered on x=480; the offset puts the spawn at x=500.
	e := NewSnail(f.env, Spawn{BlockX: 7, BlockY: 1, OffsetX: 20, Range: 192}, nil)
	e.direction = 1
	e.initial.direction = 1

	left, right := e.Bounds()
	if left != 404 || right != 596 {
		t.Fatalf("Bounds() = %v, %v", left, right)
	}

	maxStep := f.env.Tuning.Snail.Speed * frame.Seconds()
	flipped := false
	for i := 0; i < 600 && !flipped; i++ {
		f.env.World.Step(frame)
		x := e.Body().Pos.X
		if x > right+maxStep+1e-9 {
			t.Fatalf("frame %d: x = %v overshoots %v", i, x, right)
		}
		wasAtBound := x >= right
		e.Update(frame)
		if wasAtBound {
			if e.Direction() != -1 || e.State() != PatrolTurning {
				t.Fatalf("at x=%v direction = %d state = %v", x, e.Direction(), e.State())
			}
			flipped = true
		} else if e.Direction() != 1 {
			t.Fatalf("flipped early at x = %v", x)
		}
	}
	if !flipped {
		t.Fatal("snail never reached its right bound")
	}
	f.run(1, e)
	if e.State() != PatrolWalking || e.Body().Vel.X >= 0 {
		t.Errorf("after turning: state = %v vx = %v", e.State(), e.Body().Vel.X)
	}
}

func TestPatrolTurnsAtWall(t *testing.T) {
	f := newFixture(t)
	f.env.World.AddStatic(f.env.BlockRect(4, 1, 0, 0), physics.LayerGround)
	e := NewSnail(f.env, Spawn{BlockX: 6, BlockY: 1, Range: 1000}, nil)
	if e.Direction() != -1 {
		t.Fatalf("snail should start walking left, got %d", e.Direction())
	}
	for i := 0; i < 600 && e.Direction() == -1; i++ {
		f.run(1, e)
	}
	if e.Direction() != 1 {
		t.Fatal("snail never turned at the wall")
	}
	wall := f.env.BlockRect(4, 1, 0, 0)
	if e.Body().Left() < wall.Right() {
		t.Errorf("snail entered the wall: left = %v", e.Body().Left())
	}
}

func TestIsStomp(t *testing.T) {
	f := newFixture(t)
	enemy := f.env.World.NewBody(500, 500, 48, 32) // top at 484
	player := f.env.World.NewBody(500, 0, 64, 80)

	tests := []struct {
		name   string
		bottom float64
		vy     float64
		want   bool
	}{
		{"falling onto top", 490, 200, true},
		{"at tolerance", 494, 200, true},
		{"below tolerance", 495, 200, false},
		{"rising", 486, -100, false},
		{"resting", 486, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player.SetPosition(500, tt.bottom-40)
			player.Vel.Y = tt.vy
			for i := 0; i < 3; i++ {
				if got := IsStomp(player, enemy, 10); got != tt.want {
					t.Fatalf("IsStomp() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSnailStompedDies(t *testing.T) {
	for i := 0; i < 3; i++ {
		f := newFixture(t)
		p := NewPlayer(f.env, 300, 100)
		e := NewSnail(f.env, Spawn{BlockX: 10, BlockY: 1}, p)

		pb, eb := p.Body(), e.Body()
		pb.SetPosition(eb.Pos.X, eb.Top()+5-pb.H/2)
		pb.Vel.Y = 300
		e.onPlayerOverlap(pb, eb)

		if f.signals.died != 0 {
			t.Fatalf("run %d: stomp killed the player", i)
		}
		if e.State() != PatrolDead || e.Body() != nil {
			t.Fatalf("run %d: snail state = %v", i, e.State())
		}
		if pb.Vel.Y != f.env.Tuning.Snail.BounceVelocity {
			t.Fatalf("run %d: player vy = %v", i, pb.Vel.Y)
		}
	}
}

func TestSideContactKills(t *testing.T) {
	f := newFixture(t)
	p := NewPlayer(f.env, 300, 100)
	e := NewSnail(f.env, Spawn{BlockX: 10, BlockY: 1}, p)
	pb, eb := p.Body(), e.Body()
	pb.AllowGravity, eb.AllowGravity = false, false
	pb.SetPosition(eb.Pos.X-40, eb.Pos.Y)

	f.env.World.Step(frame)
	if f.signals.died != 1 {
		t.Fatalf("died = %d, want 1", f.signals.died)
	}
	if e.Body() == nil {
		t.Error("side contact destroyed the snail")
	}
}

func TestDrummyLaunchesAndPauses(t *testing.T) {
	f := newFixture(t)
	p := NewPlayer(f.env, 300, 100)
	e := NewDrummy(f.env, Spawn{BlockX: 10, BlockY: 1}, p)
	cfg := f.env.Tuning.Drummy

	pb, eb := p.Body(), e.Body()
	pb.SetPosition(eb.Pos.X, eb.Top()+20-pb.H/2)
	pb.Vel.Y = 300
	e.onPlayerOverlap(pb, eb)

	if pb.Vel.Y != cfg.LaunchVelocity {
		t.Fatalf("player vy = %v, want %v", pb.Vel.Y, cfg.LaunchVelocity)
	}
	if e.State() != PatrolPaused || e.Body() == nil {
		t.Fatalf("drummy state = %v", e.State())
	}

	// Overlapping again while paused is harmless.
	pb.Vel.Y = -100
	e.onPlayerOverlap(pb, eb)
	if f.signals.died != 0 {
		t.Error("paused drummy killed the player")
	}
	pb.SetPosition(eb.Pos.X, 100)

	f.run(1, e)
	if eb.Vel.X != 0 {
		t.Errorf("paused drummy moving: vx = %v", eb.Vel.X)
	}
	f.clock.Advance(cfg.PauseDuration.Duration)
	f.run(1, e)
	if e.State() != PatrolWalking || eb.Vel.X == 0 {
		t.Errorf("after pause: state = %v vx = %v", e.State(), eb.Vel.X)
	}
}

func TestDrummyHaltsOutsideSequencer(t *testing.T) {
	f := newFixture(t)
	e := NewDrummy(f.env, Spawn{BlockX: 10, BlockY: 1}, nil)
	f.active = false
	f.run(30, e)
	if e.Body().Vel.X != 0 || e.State() != PatrolHalted {
		t.Errorf("vx = %v state = %v", e.Body().Vel.X, e.State())
	}
	f.active = true
	f.run(1, e)
	if e.Body().Vel.X != f.env.Tuning.Drummy.Speed {
		t.Errorf("vx = %v after sequencer start", e.Body().Vel.X)
	}
}

func TestPatrolResetRespawns(t *testing.T) {
	f := newFixture(t)
	p := NewPlayer(f.env, 300, 100)
	e := NewSnail(f.env, Spawn{BlockX: 10, BlockY: 1, OffsetX: 7}, p)
	start := e.Body().Pos

	f.run(120, e)
	e.die()
	e.ResetToInitialState()
	first := e.Body().Pos
	e.ResetToInitialState()

	if e.Body() == nil {
		t.Fatal("reset did not respawn the snail")
	}
	if e.Body().Pos != start || first != start {
		t.Errorf("position after reset = %+v, want %+v", e.Body().Pos, start)
	}
	if e.Direction() != -1 || e.State() != PatrolWalking {
		t.Errorf("direction = %d state = %v", e.Direction(), e.State())
	}

	// The respawned body is wired to the player again.
	pb := p.Body()
	pb.AllowGravity, e.Body().AllowGravity = false, false
	pb.SetPosition(e.Body().Pos.X+40, e.Body().Pos.Y)
	f.env.World.Step(frame)
	if f.signals.died != 1 {
		t.Errorf("respawned snail not lethal: died = %d", f.signals.died)
	}
}

func TestPatrolDestroyCancelsPause(t *testing.T) {
	f := newFixture(t)
	p := NewPlayer(f.env, 300, 100)
	e := NewDrummy(f.env, Spawn{BlockX: 10, BlockY: 1}, p)
	pb, eb := p.Body(), e.Body()
	pb.SetPosition(eb.Pos.X, eb.Top()-pb.H/2+1)
	pb.Vel.Y = 50
	e.onPlayerOverlap(pb, eb)
	if f.env.Timers.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", f.env.Timers.Pending())
	}
	e.Destroy()
	e.ResetToInitialState()
	if f.env.Timers.Pending() != 0 || e.Body() != nil {
		t.Error("destroy left state behind")
	}
	f.clock.Advance(time.Minute)
}
