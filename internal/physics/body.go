// Package physics is a small arcade-style physics world: axis-aligned
// bodies with per-body gravity and drag, static solids, one-way platforms,
// world bounds and overlap callbacks.
package physics

import "github.com/vovakirdan/beatstep/internal/core"

// Layer selects which statics a body collides with.
type Layer uint8

const (
	LayerGround Layer = 1 << iota // solid blocks, walls and bridges
	LayerOneWay                   // platforms passable from below
)

// Sides records contact on each side of a body during the last step.
type Sides struct {
	Up, Down, Left, Right bool
}

// Any reports whether any side is set.
func (s Sides) Any() bool {
	return s.Up || s.Down || s.Left || s.Right
}

// Body is a dynamic axis-aligned box. Pos is the center of the box.
type Body struct {
	Pos  core.Vec
	Prev core.Vec
	Vel  core.Vec
	W, H float64

	// Gravity is added to the world gravity for this body.
	Gravity float64
	// AllowGravity disables all gravity when false.
	AllowGravity bool
	// DragX slows horizontal velocity towards zero, in px/s².
	DragX float64
	// Moves enables velocity integration. A body with Moves off stays where
	// it is put, but still takes part in overlaps.
	Moves bool
	// CollideWorld clamps the body inside the world bounds.
	CollideWorld bool
	// Mask selects the static layers this body collides with.
	Mask Layer

	// Touching is set by contact with statics.
	Touching Sides
	// Blocked is set by contact with statics or the world bounds.
	Blocked Sides

	id        uint64
	world     *World
	destroyed bool
}

// ID returns the identifier assigned by the world.
func (b *Body) ID() uint64 { return b.id }

// Bounds returns the body's bounding box.
func (b *Body) Bounds() core.Rect {
	return core.RectAround(b.Pos, b.W, b.H)
}

// Top returns the y-coordinate of the top edge.
func (b *Body) Top() float64 { return b.Pos.Y - b.H/2 }

// Bottom returns the y-coordinate of the bottom edge.
func (b *Body) Bottom() float64 { return b.Pos.Y + b.H/2 }

// Left returns the x-coordinate of the left edge.
func (b *Body) Left() float64 { return b.Pos.X - b.W/2 }

// Right returns the x-coordinate of the right edge.
func (b *Body) Right() float64 { return b.Pos.X + b.W/2 }

// PrevBottom returns the bottom edge before the last step.
func (b *Body) PrevBottom() float64 { return b.Prev.Y + b.H/2 }

// SetPosition teleports the body; the previous position follows so the
// move is not treated as motion.
func (b *Body) SetPosition(x, y float64) {
	b.Pos = core.V(x, y)
	b.Prev = b.Pos
}

// SetVelocity sets both velocity components.
func (b *Body) SetVelocity(x, y float64) {
	b.Vel = core.V(x, y)
}

// Stop zeroes the velocity.
func (b *Body) Stop() {
	b.Vel = core.Vec{}
}

// Destroy removes the body from its world. Overlaps that reference it are
// dropped on the next step.
func (b *Body) Destroy() {
	if b == nil || b.destroyed {
		return
	}
	b.destroyed = true
	if b.world != nil {
		b.world.dirty = true
	}
}

// Destroyed reports whether the body was destroyed.
func (b *Body) Destroyed() bool {
	return b == nil || b.destroyed
}

// Alive reports whether b is non-nil and not destroyed.
func Alive(b *Body) bool {
	return b != nil && !b.destroyed
}

// Static is an immovable box in the world.
type Static struct {
	Rect    core.Rect
	Layer   Layer
	world   *World
	removed bool
}

// Remove takes the static out of the world.
func (s *Static) Remove() {
	if s == nil || s.removed {
		return
	}
	s.removed = true
	if s.world != nil {
		s.world.dirty = true
	}
}

// Removed reports whether the static was removed.
func (s *Static) Removed() bool {
	return s == nil || s.removed
}
