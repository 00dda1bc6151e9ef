package entity

import (
	"testing"
	"time"

	"github.com/vovakirdan/beatstep/internal/clock"
	"github.com/vovakirdan/beatstep/internal/config"
	"github.com/vovakirdan/beatstep/internal/core"
	"github.com/vovakirdan/beatstep/internal/logging"
	"github.com/vovakirdan/beatstep/internal/physics"
	"github.com/vovakirdan/beatstep/internal/sequencer"
)

const frame = time.Second / 60

type recorder struct {
	died, won int
}

func (r *recorder) PlayerDied() { r.died++ }
func (r *recorder) PlayerWon()  { r.won++ }

type hub struct {
	next int
	subs map[sequencer.Instrument]map[int]func()
}

func (h *hub) Subscribe(inst sequencer.Instrument, fn func()) func() {
	if h.subs == nil {
		h.subs = make(map[sequencer.Instrument]map[int]func())
	}
	if h.subs[inst] == nil {
		h.subs[inst] = make(map[int]func())
	}
	h.next++
	id := h.next
	h.subs[inst][id] = fn
	return func() { delete(h.subs[inst], id) }
}

func (h *hub) fire(inst sequencer.Instrument) {
	for _, fn := range h.subs[inst] {
		fn()
	}
}

func (h *hub) count(inst sequencer.Instrument) int {
	return len(h.subs[inst])
}

type fixture struct {
	env     *Env
	clock   *clock.Clock
	signals *recorder
	hub     *hub
	active  bool
}

// newFixture builds a 40x16 block world with a solid floor on row 0.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.DefaultGameConfig()
	bs := cfg.World.BlockSize
	w := float64(cfg.World.WidthBlocks) * bs
	h := float64(cfg.World.HeightBlocks) * bs
	world := physics.NewWorld(core.NewRect(0, 0, w, h))
	world.AddStatic(core.NewRect(0, h-bs, w, bs), physics.LayerGround)

	f := &fixture{
		clock:   clock.New(),
		signals: &recorder{},
		hub:     &hub{},
		active:  true,
	}
	f.env = &Env{
		World:    world,
		Timers:   clock.NewGroup(f.clock),
		Signals:  f.signals,
		Triggers: f.hub,
		Tuning:   cfg,
		Logger:   logging.Discard(),
	}
	f.env.SequencerActive = func() bool { return f.active }
	return f
}

// floorY is the center y of a body of height h resting on the floor.
func (f *fixture) floorY(h float64) float64 {
	return f.env.World.Bounds.Bottom() - f.env.Tuning.World.BlockSize - h/2
}

// run advances n frames in session order: physics, entities, timers.
func (f *fixture) run(n int, entities ...Entity) {
	for i := 0; i < n; i++ {
		f.env.World.Step(frame)
		for _, e := range entities {
			e.Update(frame)
		}
		f.clock.Advance(frame)
	}
}
