package physics

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/beatstep/internal/core"
)

const frame = time.Second / 60

func newTestWorld() *World {
	return NewWorld(core.NewRect(0, 0, 2560, 1024))
}

func TestBodyLandsOnGround(t *testing.T) {
	w := newTestWorld()
	w.AddStatic(core.NewRect(0, 960, 2560, 64), LayerGround)
	b := w.NewBody(100, 800, 64, 80)
	b.Gravity = 2500

	for i := 0; i < 120; i++ {
		w.Step(frame)
	}
	if !b.Touching.Down {
		t.Fatal("body never touched the ground")
	}
	if b.Bottom() != 960 {
		t.Errorf("bottom = %v, want 960", b.Bottom())
	}
	if b.Vel.Y != 0 {
		t.Errorf("vy = %v, want 0", b.Vel.Y)
	}
}

func TestWallBlocksHorizontalMotion(t *testing.T) {
	w := newTestWorld()
	w.AddStatic(core.NewRect(200, 0, 64, 1024), LayerGround)
	b := w.NewBody(100, 500, 48, 32)
	b.AllowGravity = false
	b.Vel.X = 600

	for i := 0; i < 30; i++ {
		w.Step(frame)
	}
	if b.Vel.X != 0 {
		t.Errorf("vx = %v, want 0 after hitting the wall", b.Vel.X)
	}
	if b.Right() > 200 {
		t.Errorf("body passed through wall: right = %v", b.Right())
	}
}

func TestOneWayPlatform(t *testing.T) {
	t.Run("lands from above", func(t *testing.T) {
		w := newTestWorld()
		w.AddStatic(core.NewRect(0, 500, 200, 16), LayerOneWay)
		b := w.NewBody(100, 400, 64, 80)
		b.Gravity = 2500
		b.Mask = LayerGround | LayerOneWay
		for i := 0; i < 60; i++ {
			w.Step(frame)
		}
		if b.Bottom() != 500 || !b.Touching.Down {
			t.Errorf("bottom = %v touching = %+v", b.Bottom(), b.Touching)
		}
	})

	t.Run("passes from below", func(t *testing.T) {
		w := newTestWorld()
		w.AddStatic(core.NewRect(0, 500, 200, 16), LayerOneWay)
		b := w.NewBody(100, 600, 64, 80)
		b.Mask = LayerGround | LayerOneWay
		b.AllowGravity = false
		b.Vel.Y = -700
		for i := 0; i < 20; i++ {
			w.Step(frame)
		}
		if b.Bottom() > 500 {
			t.Errorf("body stuck under platform: bottom = %v", b.Bottom())
		}
	})

	t.Run("ignored without mask", func(t *testing.T) {
		w := newTestWorld()
		w.AddStatic(core.NewRect(0, 500, 200, 16), LayerOneWay)
		b := w.NewBody(100, 400, 48, 32)
		b.Gravity = 600
		for i := 0; i < 120; i++ {
			w.Step(frame)
		}
		if b.Bottom() <= 500 {
			t.Errorf("enemy-style body landed on one-way platform: bottom = %v", b.Bottom())
		}
	})
}

func TestWorldBoundsSetBlocked(t *testing.T) {
	w := newTestWorld()
	b := w.NewBody(30, 500, 48, 32)
	b.AllowGravity = false
	b.CollideWorld = true
	b.Vel.X = -600
	w.Step(frame)
	if !b.Blocked.Left || b.Left() != 0 {
		t.Errorf("left = %v blocked = %+v", b.Left(), b.Blocked)
	}
	if b.Touching.Left {
		t.Error("world bounds should not set touching")
	}
}

func TestDragSlowsToZero(t *testing.T) {
	w := newTestWorld()
	b := w.NewBody(500, 500, 10, 10)
	b.AllowGravity = false
	b.DragX = 1500
	b.Vel.X = 100
	w.Step(frame)
	if math.Abs(b.Vel.X-75) > 0.01 {
		t.Errorf("vx = %v, want 75", b.Vel.X)
	}
	for i := 0; i < 10; i++ {
		w.Step(frame)
	}
	if b.Vel.X != 0 {
		t.Errorf("vx = %v, want 0", b.Vel.X)
	}
}

func TestOverlapCallbacks(t *testing.T) {
	w := newTestWorld()
	a := w.NewBody(100, 100, 20, 20)
	b := w.NewBody(110, 100, 20, 20)
	a.AllowGravity, b.AllowGravity = false, false

	calls := 0
	w.AddOverlap(a, b, func(x, y *Body) {
		calls++
		if x != a || y != b {
			t.Error("overlap callback arguments out of order")
		}
	})
	w.Step(frame)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	b.Destroy()
	w.Step(frame)
	if calls != 1 {
		t.Errorf("callback ran with destroyed body")
	}
	if len(w.Bodies()) != 1 {
		t.Errorf("Bodies() = %d, want 1", len(w.Bodies()))
	}
}

func TestPausedWorldDoesNotMove(t *testing.T) {
	w := newTestWorld()
	b := w.NewBody(100, 100, 20, 20)
	b.Gravity = 1000
	w.Paused = true
	w.Step(frame)
	if b.Pos != core.V(100, 100) || b.Vel.Y != 0 {
		t.Errorf("paused world moved body: %+v %+v", b.Pos, b.Vel)
	}
}

func TestMovesFalseSkipsIntegration(t *testing.T) {
	w := newTestWorld()
	b := w.NewBody(100, 100, 20, 20)
	b.Moves = false
	b.Vel.Y = 400
	w.Step(frame)
	if b.Pos.Y != 100 {
		t.Errorf("y = %v, want 100", b.Pos.Y)
	}
}
