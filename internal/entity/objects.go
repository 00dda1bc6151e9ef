package entity

import (
	"time"

	"github.com/vovakirdan/beatstep/internal/core"
	"github.com/vovakirdan/beatstep/internal/physics"
)

// ExitSign ends the level when the player touches it.
type ExitSign struct {
	env     *Env
	body    *physics.Body
	overlap *physics.Overlap
}

// NewExitSign places an exit sign one block in size at spawn.
func NewExitSign(env *Env, spawn Spawn, player *Player) *ExitSign {
	bs := env.Tuning.World.BlockSize
	pos := env.BlockCenter(spawn.BlockX, spawn.BlockY, spawn.OffsetX, spawn.OffsetY)
	e := &ExitSign{env: env}
	e.body = env.World.NewBody(pos.X, pos.Y, bs, bs)
	e.body.AllowGravity = false
	e.body.Moves = false
	e.body.Mask = 0
	if player != nil && player.Body() != nil {
		e.overlap = env.World.AddOverlap(player.Body(), e.body, func(_, _ *physics.Body) {
			env.won()
		})
	}
	return e
}

// Update does nothing; the exit reacts only to overlaps.
func (e *ExitSign) Update(time.Duration) {}

// ResetToInitialState does nothing; the sign never moves.
func (e *ExitSign) ResetToInitialState() {}

// Destroy releases the body.
func (e *ExitSign) Destroy() {
	if e.overlap != nil {
		e.overlap.Remove()
		e.overlap = nil
	}
	if e.body != nil {
		e.body.Destroy()
		e.body = nil
	}
}

// Sprite implements Visible.
func (e *ExitSign) Sprite() (Sprite, bool) {
	if !physics.Alive(e.body) {
		return Sprite{}, false
	}
	return Sprite{Kind: KindExit, Bounds: e.body.Bounds()}, true
}

// Platform is a static piece of level geometry: a one-way platform the
// player can jump through from below, or a bridge whose solid part is the
// upper half of its block.
type Platform struct {
	kind   Kind
	static *physics.Static
}

// NewOneWayPlatform creates a one-way platform filling one block.
func NewOneWayPlatform(env *Env, spawn Spawn, _ *Player) *Platform {
	r := env.BlockRect(spawn.BlockX, spawn.BlockY, spawn.OffsetX, spawn.OffsetY)
	return &Platform{kind: KindOneWay, static: env.World.AddStatic(r, physics.LayerOneWay)}
}

// NewBridge creates a bridge covering the upper half of one block.
func NewBridge(env *Env, spawn Spawn, _ *Player) *Platform {
	r := env.BlockRect(spawn.BlockX, spawn.BlockY, spawn.OffsetX, spawn.OffsetY)
	r.H /= 2
	return &Platform{kind: KindBridge, static: env.World.AddStatic(r, physics.LayerGround)}
}

// Rect returns the collision box.
func (p *Platform) Rect() core.Rect { return p.static.Rect }

// Update does nothing.
func (p *Platform) Update(time.Duration) {}

// ResetToInitialState does nothing.
func (p *Platform) ResetToInitialState() {}

// Destroy removes the platform from the world.
func (p *Platform) Destroy() {
	p.static.Remove()
}

// Sprite implements Visible.
func (p *Platform) Sprite() (Sprite, bool) {
	if p.static.Removed() {
		return Sprite{}, false
	}
	return Sprite{Kind: p.kind, Bounds: p.static.Rect}, true
}
