package entity

import (
	"testing"

	"github.com/vovakirdan/beatstep/internal/core"
)

func TestExitSignWins(t *testing.T) {
	f := newFixture(t)
	p := NewPlayer(f.env, 100, f.floorY(f.env.Tuning.Player.Height))
	exit := NewExitSign(f.env, Spawn{BlockX: 3, BlockY: 1}, p)

	f.run(10, p, exit)
	if f.signals.won != 0 {
		t.Fatal("won before reaching the exit")
	}

	center := f.env.BlockCenter(3, 1, 0, 0)
	p.Body().SetPosition(center.X, p.Body().Pos.Y)
	f.run(1, p, exit)
	if f.signals.won != 1 {
		t.Errorf("won = %d, want 1", f.signals.won)
	}

	exit.Destroy()
	f.run(1, p, exit)
	if f.signals.won != 1 {
		t.Error("destroyed exit still reports wins")
	}
}

func TestBridgeIsUpperHalf(t *testing.T) {
	f := newFixture(t)
	b := NewBridge(f.env, Spawn{BlockX: 8, BlockY: 2}, nil)
	full := f.env.BlockRect(8, 2, 0, 0)
	if got := b.Rect(); got.Top() != full.Top() || got.H != full.H/2 || got.W != full.W {
		t.Errorf("Rect() = %+v, block = %+v", got, full)
	}
	b.Destroy()
	if _, ok := b.Sprite(); ok {
		t.Error("destroyed bridge still visible")
	}
}

func TestOneWayPlatformCarriesPlayer(t *testing.T) {
	f := newFixture(t)
	plat := NewOneWayPlatform(f.env, Spawn{BlockX: 5, BlockY: 3}, nil)
	top := plat.Rect().Top()
	p := NewPlayer(f.env, plat.Rect().Center().X, top-200)

	f.run(90, p, plat)
	if got := p.Body().Bottom(); got != top {
		t.Errorf("player bottom = %v, want platform top %v", got, top)
	}
}

func TestBlockCenter(t *testing.T) {
	f := newFixture(t)
	if got := f.env.BlockCenter(0, 0, 0, 0); got != core.V(32, 992) {
		t.Errorf("BlockCenter(0,0) = %+v", got)
	}
	if got := f.env.BlockCenter(6, 1, 10, -5); got != core.V(426, 923) {
		t.Errorf("BlockCenter(6,1,+10,-5) = %+v", got)
	}
}
