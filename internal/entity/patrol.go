package entity

import (
	"time"

	"github.com/vovakirdan/beatstep/internal/clock"
	"github.com/vovakirdan/beatstep/internal/config"
	"github.com/vovakirdan/beatstep/internal/core"
	"github.com/vovakirdan/beatstep/internal/physics"
)

// PatrolState is the behavior state of a walking enemy.
type PatrolState int

const (
	PatrolWalking PatrolState = iota
	PatrolTurning             // reversed direction during the last update
	PatrolPaused              // launcher recovering after a stomp
	PatrolHalted              // launcher waiting for the sequencer
	PatrolDead
)

// String returns a human-readable name for the state.
func (s PatrolState) String() string {
	switch s {
	case PatrolWalking:
		return "walking"
	case PatrolTurning:
		return "turning"
	case PatrolPaused:
		return "paused"
	case PatrolHalted:
		return "halted"
	case PatrolDead:
		return "dead"
	default:
		return "unknown"
	}
}

// PatrolVariant selects what a stomp does.
type PatrolVariant int

const (
	// VariantSnail dies when stomped and bounces the player.
	VariantSnail PatrolVariant = iota
	// VariantDrummy survives, launches the player and pauses.
	VariantDrummy
)

// PatrolEnemy walks back and forth within a window centered on its spawn.
type PatrolEnemy struct {
	env     *Env
	variant PatrolVariant
	cfg     config.PatrolConfig
	spawn   Spawn
	player  *Player

	body    *physics.Body
	overlap *physics.Overlap

	direction   int
	startX      float64
	patrolWidth float64
	state       PatrolState
	pauseSlot   clock.Slot

	initial struct {
		pos       core.Vec
		direction int
		startX    float64
	}
	destroyed bool
}

// NewSnail creates a snail at spawn.
func NewSnail(env *Env, spawn Spawn, player *Player) *PatrolEnemy {
	return newPatrolEnemy(env, VariantSnail, env.Tuning.Snail, spawn, player)
}

// NewDrummy creates a drummy at spawn.
func NewDrummy(env *Env, spawn Spawn, player *Player) *PatrolEnemy {
	return newPatrolEnemy(env, VariantDrummy, env.Tuning.Drummy, spawn, player)
}

func newPatrolEnemy(env *Env, variant PatrolVariant, cfg config.PatrolConfig, spawn Spawn, player *Player) *PatrolEnemy {
	e := &PatrolEnemy{
		env:         env,
		variant:     variant,
		cfg:         cfg,
		spawn:       spawn,
		player:      player,
		direction:   cfg.InitialDirection,
		patrolWidth: cfg.PatrolWidth,
	}
	if e.direction == 0 {
		e.direction = -1
	}
	if spawn.Range > 0 {
		e.patrolWidth = spawn.Range
	}
	e.createBody()
	e.startX = e.body.Pos.X
	e.initial.pos = e.body.Pos
	e.initial.direction = e.direction
	e.initial.startX = e.startX
	return e
}

func (e *PatrolEnemy) createBody() {
	pos := e.env.BlockCenter(e.spawn.BlockX, e.spawn.BlockY, e.spawn.OffsetX, e.spawn.OffsetY)
	e.body = e.env.World.NewBody(pos.X, pos.Y, e.cfg.Width, e.cfg.Height)
	e.body.Gravity = e.cfg.Gravity
	e.body.CollideWorld = true
	e.body.Mask = physics.LayerGround
	if e.player != nil && e.player.Body() != nil {
		e.overlap = e.env.World.AddOverlap(e.player.Body(), e.body, e.onPlayerOverlap)
	}
	e.state = PatrolWalking
}

// Kind returns the entity kind of the variant.
func (e *PatrolEnemy) Kind() Kind {
	if e.variant == VariantDrummy {
		return KindDrummy
	}
	return KindSnail
}

// Body returns the physics body, or nil while dead.
func (e *PatrolEnemy) Body() *physics.Body {
	if !physics.Alive(e.body) {
		return nil
	}
	return e.body
}

// State returns the behavior state.
func (e *PatrolEnemy) State() PatrolState {
	if e.Body() == nil {
		return PatrolDead
	}
	return e.state
}

// Direction returns -1 when walking left and +1 when walking right.
func (e *PatrolEnemy) Direction() int { return e.direction }

// Bounds returns the patrol window.
func (e *PatrolEnemy) Bounds() (left, right float64) {
	return e.startX - e.patrolWidth/2, e.startX + e.patrolWidth/2
}

// Update walks the enemy and turns it at the window edges or at walls.
func (e *PatrolEnemy) Update(dt time.Duration) {
	b := e.Body()
	if b == nil {
		return
	}
	if e.variant == VariantDrummy && e.cfg.HaltWhenIdle && !e.env.sequencerActive() {
		b.Vel.X = 0
		e.state = PatrolHalted
		return
	}
	if e.state == PatrolPaused {
		b.Vel.X = 0
		return
	}

	e.state = PatrolWalking
	left, right := e.Bounds()
	switch {
	case b.Pos.X <= left && e.direction == -1:
		e.turn()
	case b.Pos.X >= right && e.direction == 1:
		e.turn()
	}
	switch {
	case b.Blocked.Left && e.direction == -1:
		e.turn()
	case b.Blocked.Right && e.direction == 1:
		e.turn()
	}
	b.Vel.X = e.cfg.Speed * float64(e.direction)
}

func (e *PatrolEnemy) turn() {
	e.direction = -e.direction
	e.state = PatrolTurning
}

// IsStomp reports whether the player lands on the enemy from above: moving
// down with its bottom no lower than tolerance below the enemy's top.
func IsStomp(player, enemy *physics.Body, tolerance float64) bool {
	return player.Vel.Y > 0 && player.Bottom() <= enemy.Top()+tolerance
}

func (e *PatrolEnemy) onPlayerOverlap(playerBody, enemyBody *physics.Body) {
	// A paused launcher is harmless while the player leaves it.
	if e.state == PatrolPaused {
		return
	}
	if !IsStomp(playerBody, enemyBody, e.cfg.StompTolerance) {
		e.env.died()
		return
	}
	switch e.variant {
	case VariantDrummy:
		playerBody.Vel.Y = e.cfg.LaunchVelocity
		e.state = PatrolPaused
		enemyBody.Vel.X = 0
		e.pauseSlot.Set(e.env.Timers, e.cfg.PauseDuration.Duration, e.resume)
	default:
		playerBody.Vel.Y = e.cfg.BounceVelocity
		e.die()
	}
}

func (e *PatrolEnemy) resume() {
	if e.state == PatrolPaused {
		e.state = PatrolWalking
	}
}

func (e *PatrolEnemy) die() {
	if e.overlap != nil {
		e.overlap.Remove()
		e.overlap = nil
	}
	if e.body != nil {
		e.body.Destroy()
		e.body = nil
	}
}

// Respawn recreates the body at the spawn point if the enemy is dead.
func (e *PatrolEnemy) Respawn() {
	if e.destroyed || e.Body() != nil {
		return
	}
	e.createBody()
}

// ResetToInitialState respawns the enemy if needed and restores its
// position, direction, patrol window and pause state.
func (e *PatrolEnemy) ResetToInitialState() {
	if e.destroyed {
		e.env.missing(e.Kind(), "reset")
		return
	}
	e.Respawn()
	e.body.SetPosition(e.initial.pos.X, e.initial.pos.Y)
	e.body.Stop()
	e.direction = e.initial.direction
	e.startX = e.initial.startX
	e.pauseSlot.Stop()
	e.state = PatrolWalking
}

// Destroy releases the body and timers for good.
func (e *PatrolEnemy) Destroy() {
	e.pauseSlot.Stop()
	e.die()
	e.destroyed = true
}

// Sprite implements Visible.
func (e *PatrolEnemy) Sprite() (Sprite, bool) {
	b := e.Body()
	if b == nil {
		return Sprite{}, false
	}
	return Sprite{Kind: e.Kind(), Bounds: b.Bounds(), Facing: e.direction, State: e.state.String()}, true
}
