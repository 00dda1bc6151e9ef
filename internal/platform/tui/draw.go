package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/beatstep/internal/core"
	"github.com/vovakirdan/beatstep/internal/entity"
	"github.com/vovakirdan/beatstep/internal/level"
	"github.com/vovakirdan/beatstep/internal/sequencer"
	"github.com/vovakirdan/beatstep/internal/session"
)

// Terminal cells are about twice as tall as wide: one block spans two
// columns and one row.
const (
	cellW = 32.0
	cellH = 64.0
)

// Layout rows
const (
	hudRows    = 1
	gridHeader = 1
	nameWidth  = 9
)

// camera maps world pixels to screen cells inside a box.
type camera struct {
	box    core.Box
	origin core.Vec // world position of the box's top-left cell
}

// newCamera centers focus in the box and clamps to the world bounds.
func newCamera(box core.Box, world core.Rect, focus core.Vec) camera {
	viewW := float64(box.W) * cellW
	viewH := float64(box.H) * cellH
	x := clampView(focus.X-viewW/2, world.Left(), world.Right()-viewW)
	y := clampView(focus.Y-viewH/2, world.Top(), world.Bottom()-viewH)
	return camera{box: box, origin: core.V(x, y)}
}

// clampView keeps a view inside [lo, hi]; worlds smaller than the view
// are pinned to their bottom-right so the floor stays on screen.
func clampView(v, lo, hi float64) float64 {
	if hi < lo {
		return hi
	}
	return core.ClampF(v, lo, hi)
}

func (c camera) cell(p core.Vec) (int, int) {
	x := int(math.Floor((p.X - c.origin.X) / cellW))
	y := int(math.Floor((p.Y - c.origin.Y) / cellH))
	return c.box.X + x, c.box.Y + y
}

// cells returns the screen cells covered by r, clipped to the box.
// Every visible rect covers at least one cell.
func (c camera) cells(r core.Rect) core.Box {
	x0, y0 := c.cell(core.V(r.Left(), r.Top()))
	x1, y1 := c.cell(core.V(r.Right()-0.01, r.Bottom()-0.01))
	b := core.Box{X: x0, Y: y0, W: x1 - x0 + 1, H: y1 - y0 + 1}
	return clipBox(b, c.box)
}

func clipBox(b, clip core.Box) core.Box {
	x0, y0 := core.Max(b.X, clip.X), core.Max(b.Y, clip.Y)
	x1, y1 := core.Min(b.Right(), clip.Right()), core.Min(b.Bottom(), clip.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return core.Box{}
	}
	return core.Box{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (c camera) inside(x, y int) bool {
	return x >= c.box.X && x < c.box.Right() && y >= c.box.Y && y < c.box.Bottom()
}

type spriteStyle struct {
	fill  rune
	color core.Color
}

var spriteStyles = map[entity.Kind]spriteStyle{
	entity.KindPlayer: {'@', core.ColorBrightWhite},
	entity.KindSnail:  {'s', core.ColorYellow},
	entity.KindDrummy: {'D', core.ColorMagenta},
	entity.KindSaw:    {'*', core.ColorBrightRed},
	entity.KindExit:   {'E', core.ColorBrightGreen},
	entity.KindOneWay: {'=', core.ColorCyan},
	entity.KindBridge: {'=', core.ColorOrange},
}

// drawWorld renders geometry, the player's trace and every sprite.
func drawWorld(s *core.Screen, box core.Box, lvl *level.Level) {
	if box.W <= 0 || box.H <= 0 {
		return
	}
	focus := lvl.World().Bounds.Center()
	p := lvl.Player()
	if p != nil {
		if b := p.Body(); b != nil {
			focus = b.Pos
		}
	}
	cam := newCamera(box, lvl.World().Bounds, focus)

	for _, r := range lvl.Geometry() {
		s.DrawRect(cam.cells(r), '█', core.ColorGray)
	}
	if p != nil {
		for _, tp := range p.Trace() {
			if x, y := cam.cell(tp.Pos); cam.inside(x, y) {
				s.SetColor(x, y, '·', core.ColorGray)
			}
		}
	}
	for _, sp := range lvl.Sprites() {
		st, ok := spriteStyles[sp.Kind]
		if !ok {
			continue
		}
		fill := st.fill
		if sp.Kind == entity.KindPlayer {
			fill = playerRune(sp)
		}
		s.DrawRect(cam.cells(sp.Bounds), fill, st.color)
	}
}

func playerRune(sp entity.Sprite) rune {
	switch {
	case sp.State == entity.AnimDash && sp.Facing < 0:
		return '<'
	case sp.State == entity.AnimDash:
		return '>'
	default:
		return '@'
	}
}

// drawHUD renders the status line.
func drawHUD(s *core.Screen, y int, sess *session.Session) {
	info := sess.LevelInfo()
	run := sess.Sequencer().Run()
	status := fmt.Sprintf(" %d/%d %s ", info.Index+1, info.Count, info.Descriptor.Title())
	s.DrawTextColor(0, y, status, core.ColorBrightCyan)

	state := sess.State().String()
	if sess.State() == session.StateRunning {
		state = fmt.Sprintf("loop %d/%d  step %d/%d",
			run.CurrentLoop+1, run.MaxLoops, run.CurrentStep+1, sess.Sequencer().Steps())
	}
	s.DrawTextColor(len([]rune(status))+1, y, "│ "+state, core.ColorWhite)
}

// drawGrid renders the pattern editor: one row per instrument with its
// budget, then the steps. Blocked steps show '#', forced steps 'X'.
func drawGrid(s *core.Screen, top int, sess *session.Session, cursorInst, cursorStep int) {
	seq := sess.Sequencer()
	pattern := seq.Pattern()
	steps := seq.Steps()
	playing := -1
	if sess.State() == session.StateRunning {
		playing = seq.Run().CurrentStep
	}

	var header strings.Builder
	header.WriteString(strings.Repeat(" ", nameWidth+6))
	for step := 0; step < steps; step++ {
		if step > 0 && step%sequencer.StepsPerMeasure == 0 {
			header.WriteByte(' ')
		}
		if step%sequencer.StepsPerMeasure == 0 {
			header.WriteString(fmt.Sprint(step/sequencer.StepsPerMeasure + 1))
		} else {
			header.WriteByte(' ')
		}
	}
	s.DrawTextColor(0, top, header.String(), core.ColorGray)

	for row, inst := range seq.Config().Instruments {
		y := top + gridHeader + row
		nameColor := core.ColorWhite
		if row == cursorInst {
			nameColor = core.ColorBrightYellow
		}
		s.DrawTextColor(0, y, fmt.Sprintf("%-*s", nameWidth, inst), nameColor)
		s.DrawTextColor(nameWidth, y, budgetLabel(seq, inst), core.ColorGray)

		x := nameWidth + 6
		for step := 0; step < steps; step++ {
			if step > 0 && step%sequencer.StepsPerMeasure == 0 {
				s.SetColor(x, y, '│', core.ColorGray)
				x++
			}
			r, c := cellRune(seq, pattern, inst, step)
			switch {
			case row == cursorInst && step == cursorStep:
				c = core.ColorBrightYellow
				if r == '.' {
					r = '_'
				}
			case step == playing:
				c = core.ColorBrightCyan
			}
			s.SetColor(x, y, r, c)
			x++
		}
	}
}

func cellRune(seq *sequencer.Sequencer, p sequencer.Pattern, inst sequencer.Instrument, step int) (rune, core.Color) {
	switch {
	case seq.IsForced(inst, step):
		return 'X', core.ColorOrange
	case seq.IsBlocked(inst, step):
		return '#', core.ColorRed
	case p.At(inst, step):
		return 'x', core.ColorBrightGreen
	default:
		return '.', core.ColorGray
	}
}

func budgetLabel(seq *sequencer.Sequencer, inst sequencer.Instrument) string {
	left, unlimited := seq.Remaining(inst)
	if unlimited {
		return "  ∞  "
	}
	return fmt.Sprintf("%2d/%-2d", left, seq.Config().Budget(inst).Max)
}

// drawMessage renders a centered framed message over the world.
func drawMessage(s *core.Screen, box core.Box, msg, hint string) {
	w := core.Max(len([]rune(msg)), len([]rune(hint))) + 4
	b := core.Box{X: box.X + (box.W-w)/2, Y: box.Y + box.H/2 - 2, W: w, H: 4}
	b = clipBox(b, box)
	if b.W < 4 || b.H < 3 {
		return
	}
	s.DrawRect(b, ' ', core.ColorDefault)
	s.DrawBox(b, core.ColorBrightWhite)
	s.DrawTextColor(b.X+2, b.Y+1, msg, core.ColorBrightYellow)
	if b.H > 3 {
		s.DrawTextColor(b.X+2, b.Y+2, hint, core.ColorGray)
	}
}

// describeEditError turns a rejected edit into a short flash message.
func describeEditError(err error) string {
	var cv *sequencer.ConstraintViolationError
	if errors.As(err, &cv) {
		switch cv.Reason {
		case sequencer.ReasonBudget:
			return fmt.Sprintf("No %s beats left", cv.Instrument)
		case sequencer.ReasonBlocked:
			return fmt.Sprintf("%s is blocked on step %d", cv.Instrument, cv.Step+1)
		case sequencer.ReasonForced:
			return fmt.Sprintf("%s is forced on step %d", cv.Instrument, cv.Step+1)
		}
	}
	switch {
	case errors.Is(err, session.ErrNoPreset):
		return "This level has no preset"
	case errors.Is(err, sequencer.ErrAlreadyPlaying):
		return "Already playing"
	case errors.Is(err, session.ErrTransitionPending):
		return "Loading the next level..."
	}
	return err.Error()
}
