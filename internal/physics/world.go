package physics

import (
	"time"

	"github.com/vovakirdan/beatstep/internal/core"
)

// OneWayTolerance is how far below a platform's top the previous bottom
// edge of a body may be and still land on it.
const OneWayTolerance = 5

// OneWayMinVY is the slowest upward speed that still lands on a platform.
const OneWayMinVY = -50

// OverlapFunc is called for each step in which two bodies overlap.
type OverlapFunc func(a, b *Body)

// Overlap is a registered overlap check between two bodies.
type Overlap struct {
	A, B    *Body
	fn      OverlapFunc
	removed bool
}

// Remove unregisters the overlap check.
func (o *Overlap) Remove() {
	if o != nil {
		o.removed = true
	}
}

// World owns bodies, statics and overlap checks.
type World struct {
	Bounds  core.Rect
	Gravity float64
	// Paused freezes the world: Step does nothing.
	Paused bool

	nextID   uint64
	bodies   []*Body
	statics  []*Static
	overlaps []*Overlap
	dirty    bool
}

// NewWorld creates an empty world with the given bounds.
func NewWorld(bounds core.Rect) *World {
	return &World{Bounds: bounds}
}

// NewBody creates a body centered on (x, y) and adds it to the world.
func (w *World) NewBody(x, y, width, height float64) *Body {
	w.nextID++
	b := &Body{
		Pos:          core.V(x, y),
		Prev:         core.V(x, y),
		W:            width,
		H:            height,
		AllowGravity: true,
		Moves:        true,
		Mask:         LayerGround,
		id:           w.nextID,
		world:        w,
	}
	w.bodies = append(w.bodies, b)
	return b
}

// AddStatic adds an immovable box on the given layer.
func (w *World) AddStatic(r core.Rect, layer Layer) *Static {
	s := &Static{Rect: r, Layer: layer, world: w}
	w.statics = append(w.statics, s)
	return s
}

// AddOverlap registers fn to be called while a and b overlap.
func (w *World) AddOverlap(a, b *Body, fn OverlapFunc) *Overlap {
	o := &Overlap{A: a, B: b, fn: fn}
	w.overlaps = append(w.overlaps, o)
	return o
}

// Bodies returns the live bodies in creation order.
func (w *World) Bodies() []*Body {
	out := make([]*Body, 0, len(w.bodies))
	for _, b := range w.bodies {
		if !b.destroyed {
			out = append(out, b)
		}
	}
	return out
}

// Statics returns the live statics in creation order.
func (w *World) Statics() []*Static {
	out := make([]*Static, 0, len(w.statics))
	for _, s := range w.statics {
		if !s.removed {
			out = append(out, s)
		}
	}
	return out
}

// Step advances the world by dt: integrates bodies, resolves collisions
// against statics and world bounds, then runs overlap callbacks.
func (w *World) Step(dt time.Duration) {
	if w.Paused || dt <= 0 {
		return
	}
	w.purge()
	secs := dt.Seconds()
	for _, b := range w.bodies {
		if b.destroyed {
			continue
		}
		b.Touching = Sides{}
		b.Blocked = Sides{}
		b.Prev = b.Pos
		if !b.Moves {
			continue
		}
		w.integrate(b, secs)
	}
	w.runOverlaps()
	w.purge()
}

func (w *World) integrate(b *Body, secs float64) {
	if b.AllowGravity {
		b.Vel.Y += (w.Gravity + b.Gravity) * secs
	}
	if b.DragX > 0 {
		dv := b.DragX * secs
		if abs(b.Vel.X) <= dv {
			b.Vel.X = 0
		} else {
			b.Vel.X -= core.Sign(b.Vel.X) * dv
		}
	}

	b.Pos.X += b.Vel.X * secs
	w.resolveX(b)
	b.Pos.Y += b.Vel.Y * secs
	w.resolveY(b)

	if b.CollideWorld {
		w.clampToBounds(b)
	}
}

func (w *World) resolveX(b *Body) {
	if b.Vel.X == 0 {
		return
	}
	for _, s := range w.statics {
		if s.removed || s.Layer&b.Mask == 0 || s.Layer == LayerOneWay {
			continue
		}
		if !b.Bounds().Intersects(s.Rect) {
			continue
		}
		if b.Vel.X > 0 {
			b.Pos.X = s.Rect.Left() - b.W/2
			b.Touching.Right, b.Blocked.Right = true, true
		} else {
			b.Pos.X = s.Rect.Right() + b.W/2
			b.Touching.Left, b.Blocked.Left = true, true
		}
		b.Vel.X = 0
	}
}

func (w *World) resolveY(b *Body) {
	for _, s := range w.statics {
		if s.removed || s.Layer&b.Mask == 0 {
			continue
		}
		if !b.Bounds().Intersects(s.Rect) {
			continue
		}
		if s.Layer == LayerOneWay {
			if b.PrevBottom() <= s.Rect.Top()+OneWayTolerance && b.Vel.Y >= OneWayMinVY {
				b.Pos.Y = s.Rect.Top() - b.H/2
				b.Vel.Y = 0
				b.Touching.Down, b.Blocked.Down = true, true
			}
			continue
		}
		switch {
		case b.Vel.Y > 0 || (b.Vel.Y == 0 && b.Pos.Y < s.Rect.Center().Y):
			b.Pos.Y = s.Rect.Top() - b.H/2
			b.Touching.Down, b.Blocked.Down = true, true
		default:
			b.Pos.Y = s.Rect.Bottom() + b.H/2
			b.Touching.Up, b.Blocked.Up = true, true
		}
		b.Vel.Y = 0
	}
}

func (w *World) clampToBounds(b *Body) {
	if b.Left() < w.Bounds.Left() {
		b.Pos.X = w.Bounds.Left() + b.W/2
		b.Vel.X = 0
		b.Blocked.Left = true
	}
	if b.Right() > w.Bounds.Right() {
		b.Pos.X = w.Bounds.Right() - b.W/2
		b.Vel.X = 0
		b.Blocked.Right = true
	}
	if b.Top() < w.Bounds.Top() {
		b.Pos.Y = w.Bounds.Top() + b.H/2
		b.Vel.Y = 0
		b.Blocked.Up = true
	}
	if b.Bottom() > w.Bounds.Bottom() {
		b.Pos.Y = w.Bounds.Bottom() - b.H/2
		b.Vel.Y = 0
		b.Blocked.Down = true
	}
}

func (w *World) runOverlaps() {
	// Callbacks may register or remove overlaps; iterate a snapshot.
	snapshot := append([]*Overlap(nil), w.overlaps...)
	for _, o := range snapshot {
		if o.removed {
			continue
		}
		if !Alive(o.A) || !Alive(o.B) {
			o.removed = true
			continue
		}
		if o.A.Bounds().Intersects(o.B.Bounds()) {
			o.fn(o.A, o.B)
		}
	}
	w.dirty = true
}

// purge drops destroyed bodies, removed statics and dead overlaps.
func (w *World) purge() {
	if !w.dirty {
		return
	}
	w.dirty = false

	bodies := w.bodies[:0]
	for _, b := range w.bodies {
		if !b.destroyed {
			bodies = append(bodies, b)
		}
	}
	w.bodies = bodies

	statics := w.statics[:0]
	for _, s := range w.statics {
		if !s.removed {
			statics = append(statics, s)
		}
	}
	w.statics = statics

	overlaps := w.overlaps[:0]
	for _, o := range w.overlaps {
		if !o.removed && Alive(o.A) && Alive(o.B) {
			overlaps = append(overlaps, o)
		}
	}
	w.overlaps = overlaps
}

// Clear removes everything from the world.
func (w *World) Clear() {
	for _, b := range w.bodies {
		b.destroyed = true
	}
	w.bodies = nil
	w.statics = nil
	w.overlaps = nil
	w.dirty = false
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
