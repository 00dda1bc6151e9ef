// Package entity holds the behavior of everything that lives in a level:
// the player, walking and triggered enemies, and interactive level objects.
// Each owns its physics body and is driven once per frame through Update.
package entity

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/beatstep/internal/clock"
	"github.com/vovakirdan/beatstep/internal/config"
	"github.com/vovakirdan/beatstep/internal/core"
	"github.com/vovakirdan/beatstep/internal/physics"
	"github.com/vovakirdan/beatstep/internal/sequencer"
)

// ErrMissingEntity is logged when an operation targets a body that is
// already gone. It is never returned as a failure.
var ErrMissingEntity = errors.New("entity: body missing")

// Entity is the per-frame contract shared by everything a level owns.
type Entity interface {
	Update(dt time.Duration)
	ResetToInitialState()
	Destroy()
}

// Kind names an entity type.
type Kind string

const (
	KindPlayer Kind = "player"
	KindSnail  Kind = "snail"
	KindDrummy Kind = "drummy"
	KindSaw    Kind = "saw"
	KindExit   Kind = "exit"
	KindOneWay Kind = "oneway"
	KindBridge Kind = "bridge"
	KindBlock  Kind = "block"
)

// Sprite is what the renderer needs to draw an entity.
type Sprite struct {
	Kind   Kind
	Bounds core.Rect
	Facing int    // -1 left, +1 right
	State  string // animation or behavior state
}

// Visible is implemented by entities that can be drawn.
type Visible interface {
	Sprite() (Sprite, bool)
}

// Signals receives outcomes raised by entities.
type Signals interface {
	PlayerDied()
	PlayerWon()
}

// Triggers delivers "instrument fired" notifications.
type Triggers interface {
	// Subscribe registers fn for inst and returns a function that removes it.
	Subscribe(inst sequencer.Instrument, fn func()) (cancel func())
}

// Env is the session context handed to entities: the physics world, the
// level's timer group, where to send outcomes and the tuning values.
type Env struct {
	World    *physics.World
	Timers   *clock.Group
	Signals  Signals
	Triggers Triggers
	Tuning   config.GameConfig
	Logger   *log.Logger
	// SequencerActive reports whether a sequencer run is in progress.
	SequencerActive func() bool
}

// BlockCenter converts block coordinates (x from the left, y from the
// bottom row) plus a pixel offset into the center of that block.
func (e *Env) BlockCenter(bx, by int, ox, oy float64) core.Vec {
	bs := e.Tuning.World.BlockSize
	return core.V(
		float64(bx)*bs+bs/2+ox,
		e.World.Bounds.Bottom()-float64(by+1)*bs+bs/2+oy,
	)
}

// BlockRect returns the full square of a block.
func (e *Env) BlockRect(bx, by int, ox, oy float64) core.Rect {
	bs := e.Tuning.World.BlockSize
	return core.RectAround(e.BlockCenter(bx, by, ox, oy), bs, bs)
}

func (e *Env) sequencerActive() bool {
	return e.SequencerActive != nil && e.SequencerActive()
}

func (e *Env) log() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

func (e *Env) missing(kind Kind, op string) {
	e.log().Debug("skipped", "entity", kind, "op", op, "err", ErrMissingEntity)
}

func (e *Env) died() {
	if e.Signals != nil {
		e.Signals.PlayerDied()
	}
}

func (e *Env) won() {
	if e.Signals != nil {
		e.Signals.PlayerWon()
	}
}

// Spawn places an entity on the block grid.
type Spawn struct {
	BlockX, BlockY   int
	OffsetX, OffsetY float64
	// Range is the patrol width or drop distance in pixels; zero uses the tuning default.
	Range float64
}
