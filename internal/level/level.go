// Package level builds playable levels from descriptors: it owns the
// per-level physics world and timers, spawns the player, enemies and
// objects, and drives them in a fixed order every frame.
package level

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/beatstep/internal/clock"
	"github.com/vovakirdan/beatstep/internal/config"
	"github.com/vovakirdan/beatstep/internal/core"
	"github.com/vovakirdan/beatstep/internal/entity"
	"github.com/vovakirdan/beatstep/internal/physics"
	"github.com/vovakirdan/beatstep/internal/registry"
	"github.com/vovakirdan/beatstep/internal/sequencer"
)

// Deps are the session services a level is built against.
type Deps struct {
	Clock           *clock.Clock
	Signals         entity.Signals
	Triggers        entity.Triggers
	Tuning          config.GameConfig
	Logger          *log.Logger
	SequencerActive func() bool
}

// Level is one instantiated descriptor.
type Level struct {
	desc    Descriptor
	env     *entity.Env
	world   *physics.World
	timers  *clock.Group
	seqCfg  sequencer.Config
	player  *entity.Player
	enemies []entity.Entity
	objects []entity.Entity
	blocks  []*physics.Static
	created bool
}

// New prepares a level. Nothing is spawned until Create.
func New(desc Descriptor, deps Deps) (*Level, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	seqCfg, err := desc.SequencerConfig()
	if err != nil {
		return nil, descriptorError(desc.ID, "%v", err)
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	bs := deps.Tuning.World.BlockSize
	w, h := desc.Size(deps.Tuning.World)
	world := physics.NewWorld(core.NewRect(0, 0, float64(w)*bs, float64(h)*bs))
	timers := clock.NewGroup(deps.Clock)

	return &Level{
		desc:   desc,
		world:  world,
		timers: timers,
		seqCfg: seqCfg,
		env: &entity.Env{
			World:           world,
			Timers:          timers,
			Signals:         deps.Signals,
			Triggers:        deps.Triggers,
			Tuning:          deps.Tuning,
			Logger:          logger.With("level", desc.ID),
			SequencerActive: deps.SequencerActive,
		},
	}, nil
}

// Create spawns the geometry, the player, the enemies and the objects.
// Calling it twice is an error.
func (l *Level) Create() error {
	if l.created {
		return fmt.Errorf("level %q: already created", l.desc.ID)
	}
	l.created = true

	w, _ := l.desc.Size(l.env.Tuning.World)
	if !l.desc.NoFloor {
		for x := 0; x < w; x++ {
			l.addBlock(x, 0, 0, 0)
		}
	}
	for _, b := range l.desc.Blocks {
		l.addBlock(b.X, b.Y, b.OX, b.OY)
	}
	for _, wall := range l.desc.Walls {
		for _, c := range wall.Cells() {
			l.addBlock(c[0], c[1], 0, 0)
		}
	}

	px, py := l.playerStart()
	l.player = entity.NewPlayer(l.env, px, py)

	for _, o := range l.desc.Objects {
		e, role, err := registry.Create(o.Kind, l.env, o.Spawn(), l.player)
		if err != nil {
			l.Destroy()
			return fmt.Errorf("level %q: %w", l.desc.ID, err)
		}
		switch role {
		case registry.RoleEnemy:
			l.enemies = append(l.enemies, e)
		default:
			l.objects = append(l.objects, e)
		}
	}
	l.env.Logger.Debug("level created",
		"blocks", len(l.blocks), "enemies", len(l.enemies), "objects", len(l.objects))
	return nil
}

func (l *Level) addBlock(x, y int, ox, oy float64) {
	l.blocks = append(l.blocks, l.world.AddStatic(l.env.BlockRect(x, y, ox, oy), physics.LayerGround))
}

func (l *Level) playerStart() (float64, float64) {
	x := l.desc.Player.X
	if l.desc.Player.Y != nil {
		return x, *l.desc.Player.Y
	}
	t := l.env.Tuning
	return x, l.world.Bounds.Bottom() - t.World.BlockSize - t.Player.StartYOffset
}

// Update advances objects, then the player, then the enemies.
func (l *Level) Update(dt time.Duration) {
	for _, o := range l.objects {
		o.Update(dt)
	}
	if l.player != nil {
		l.player.Update(dt)
	}
	for _, e := range l.enemies {
		e.Update(dt)
	}
}

// ResetToInitialState returns every entity to its spawn state and
// cancels pending level timers.
func (l *Level) ResetToInitialState() {
	l.timers.StopAll()
	if l.player != nil {
		l.player.ResetToInitialState()
	}
	for _, e := range l.enemies {
		e.ResetToInitialState()
	}
	for _, o := range l.objects {
		o.ResetToInitialState()
	}
}

// Destroy tears down every entity, timer and body. It is safe to call
// more than once.
func (l *Level) Destroy() {
	enemies, objects := l.enemies, l.objects
	l.enemies, l.objects = nil, nil
	for _, e := range enemies {
		e.Destroy()
	}
	for _, o := range objects {
		o.Destroy()
	}
	if l.player != nil {
		l.player.Destroy()
		l.player = nil
	}
	l.timers.StopAll()
	l.blocks = nil
	l.world.Clear()
}

// Descriptor returns the source descriptor.
func (l *Level) Descriptor() Descriptor { return l.desc }

// World returns the level's physics world.
func (l *Level) World() *physics.World { return l.world }

// Player returns the player, or nil before Create or after Destroy.
func (l *Level) Player() *entity.Player { return l.player }

// Enemies returns the spawned enemies.
func (l *Level) Enemies() []entity.Entity { return l.enemies }

// Objects returns the spawned objects.
func (l *Level) Objects() []entity.Entity { return l.objects }

// Geometry returns the rectangles of the solid blocks.
func (l *Level) Geometry() []core.Rect {
	out := make([]core.Rect, 0, len(l.blocks))
	for _, s := range l.blocks {
		if !s.Removed() {
			out = append(out, s.Rect)
		}
	}
	return out
}

// Sprites returns everything drawable: objects, enemies, then the player.
func (l *Level) Sprites() []entity.Sprite {
	var out []entity.Sprite
	add := func(e any) {
		if v, ok := e.(entity.Visible); ok {
			if s, ok := v.Sprite(); ok {
				out = append(out, s)
			}
		}
	}
	for _, o := range l.objects {
		add(o)
	}
	for _, e := range l.enemies {
		add(e)
	}
	if l.player != nil {
		add(l.player)
	}
	return out
}

// SequencerConfig returns the instrument rules of the level.
func (l *Level) SequencerConfig() sequencer.Config { return l.seqCfg }

// Preset returns the demonstration pattern, or nil.
func (l *Level) Preset() sequencer.Pattern { return l.desc.PresetPattern() }
