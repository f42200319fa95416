package popup

import (
	"math"

	"github.com/bnema/popframe/internal/domain/entity"
)

// PlacementInput is everything the placement computation looks at.
type PlacementInput struct {
	// Target is the target fragment under the spawn point.
	Target   entity.Rect
	Spawn    entity.Point
	Frame    entity.Size
	Viewport entity.Size

	// PreferSide asks for left/right placement before above/below.
	PreferSide bool

	BreathingRoomX      float64
	BreathingRoomY      float64
	BreathingRoomYTight float64
}

// Placement is the computed top-left of a frame.
type Placement struct {
	X, Y float64
	// OffToTheSide is set when the frame sits left or right of the target.
	OffToTheSide bool
	// Tight is set when the reduced vertical margin was used.
	Tight bool
}

// ComputePlacement places a frame relative to its target. Above is tried
// before below; when neither fits one retry with the tight vertical margin
// is made, after which the frame goes to the side. A placement is always
// produced, overflowing the viewport if nothing fits.
func ComputePlacement(in PlacementInput) Placement {
	if in.PreferSide {
		if p := placeAside(in); p.OffToTheSide {
			return p
		}
	}
	if p, ok := placeVertically(in, false); ok {
		return p
	}
	if p, ok := placeVertically(in, true); ok {
		return p
	}
	p := placeAside(in)
	p.Tight = true
	return p
}

func provisionalY(in PlacementInput) float64 {
	y := in.Spawn.Y
	if in.Viewport.Height > 0 {
		y -= (in.Spawn.Y / in.Viewport.Height) * in.Frame.Height
	}
	return math.Max(y, 0)
}

// placeVertically returns false when the frame fits neither above nor
// below the target with the given margin.
func placeVertically(in PlacementInput, tight bool) (Placement, bool) {
	by := in.BreathingRoomY
	if tight {
		by = in.BreathingRoomYTight
	}

	var y float64
	switch {
	case in.Target.Top()-by-in.Frame.Height >= 0:
		y = in.Target.Top() - by - in.Frame.Height
	case in.Target.Bottom()+by+in.Frame.Height <= in.Viewport.Height:
		y = in.Target.Bottom() + by
	default:
		return Placement{}, false
	}

	p := Placement{X: in.Spawn.X + in.BreathingRoomX, Y: y, Tight: tight}
	p.X = clampToRightEdge(p.X, in.Frame.Width, in.Viewport.Width)
	return p, true
}

// placeAside puts the frame right of the target, else left of it. When
// neither side fits it falls back to the spawn point.
func placeAside(in PlacementInput) Placement {
	p := Placement{Y: provisionalY(in), OffToTheSide: true}
	switch {
	case in.Target.Right()+in.BreathingRoomX+in.Frame.Width <= in.Viewport.Width:
		p.X = in.Target.Right() + in.BreathingRoomX
	case in.Target.Left()-in.BreathingRoomX-in.Frame.Width >= 0:
		p.X = in.Target.Left() - in.Frame.Width - in.BreathingRoomX
	default:
		p.OffToTheSide = false
		p.X = in.Spawn.X + in.BreathingRoomX
	}
	p.X = clampToRightEdge(p.X, in.Frame.Width, in.Viewport.Width)
	return p
}

// clampToRightEdge pulls x left so the frame ends one pixel inside the
// viewport, then keeps it off the left edge.
func clampToRightEdge(x, width, viewportWidth float64) float64 {
	if overflow := x + width - viewportWidth; overflow > 0 {
		x -= overflow + 1
	}
	return math.Max(x, 0)
}

// Position places f for spawn point at, or for the target's last known
// spawn point when at is nil. Measurement waits for the next frame; a newer
// call supersedes a pending one. Without any spawn point it does nothing.
func (m *Manager) Position(f *Frame, at *entity.Point) {
	if f == nil || f.flags.Despawned {
		return
	}
	t := f.target
	if at != nil {
		p := *at
		t.spawnPoint = &p
	}
	if t.spawnPoint == nil {
		m.log.Trace().Str("frame", f.ID).Msg("no spawn point, skipping positioning")
		return
	}
	spawn := *t.spawnPoint
	targetRect := t.Element.RectAt(spawn)

	if f.positionTask != nil {
		f.positionTask.Cancel()
	}
	f.positionTask = m.sched.NextFrame(func() {
		f.positionTask = nil
		if f.flags.Despawned {
			return
		}
		m.applyPlacement(f, targetRect, spawn)
	})
}

func (m *Manager) applyPlacement(f *Frame, targetRect entity.Rect, spawn entity.Point) {
	placement := ComputePlacement(PlacementInput{
		Target:              targetRect,
		Spawn:               spawn,
		Frame:               m.FrameRect(f).Size(),
		Viewport:            m.host.Viewport(),
		PreferSide:          m.ContainingFrame(f.target.Element) != nil || f.target.preferSide(),
		BreathingRoomX:      m.cfg.BreathingRoomX,
		BreathingRoomY:      m.cfg.BreathingRoomY,
		BreathingRoomYTight: m.cfg.BreathingRoomYTight,
	})
	pos := entity.Point{X: placement.X, Y: placement.Y}

	// A frame pinned before its first pass has no cached position yet and
	// keeps the computed one.
	switch {
	case f.flags.Zoomed:
		pos = f.zoomTo
	case !f.placed:
		f.previousPos = nil
		f.flags.Restored = false
		f.flags.Unpinned = false
	case f.flags.Restored:
		if f.previousPos != nil {
			pos = *f.previousPos
			f.previousPos = nil
		} else if f.flags.Pinned {
			pos = f.viewportRect.Origin()
		}
		f.flags.Restored = false
	case f.flags.Pinned:
		pos = f.viewportRect.Origin()
	case f.flags.Unpinned:
		pos = f.viewportRect.Origin()
		f.flags.Unpinned = false
	}

	m.setViewportRect(f, entity.Rect{X: pos.X, Y: pos.Y}, false)
	f.viewportRect = m.FrameRect(f)
	f.placed = true

	m.log.Trace().Str("frame", f.ID).
		Float64("x", pos.X).Float64("y", pos.Y).
		Bool("side", placement.OffToTheSide).Bool("tight", placement.Tight).
		Msg("popup positioned")
}

// SetViewportRect moves, and when rect has a size also resizes, f. With
// clamp the frame is kept fully on screen.
func (m *Manager) SetViewportRect(f *Frame, rect entity.Rect, clamp bool) {
	if f == nil || f.flags.Despawned {
		return
	}
	m.setViewportRect(f, rect, clamp)
	f.viewportRect = m.FrameRect(f)
}

func (m *Manager) setViewportRect(f *Frame, rect entity.Rect, clamp bool) {
	if clamp {
		vp := m.host.Viewport()
		w, h := rect.Width, rect.Height
		if w <= 0 {
			w = f.viewportRect.Width
		}
		if h <= 0 {
			h = f.viewportRect.Height
		}
		rect.X = entity.Clamp(rect.X, 0, vp.Width-w)
		rect.Y = entity.Clamp(rect.Y, 0, vp.Height-h)
	}

	if !f.flags.Pinned {
		co := m.host.ContainerOrigin()
		rect.X -= co.X
		rect.Y -= co.Y
	}

	f.style.Positioned = true
	f.style.Fixed = f.flags.Pinned
	f.style.Left = math.Round(rect.X)
	f.style.Top = math.Round(rect.Y)

	if rect.Width > 0 && rect.Height > 0 {
		f.style.MaxUnset = true
		f.style.Width = rect.Width
		f.style.Height = rect.Height
	}

	m.log.Trace().Str("frame", f.ID).
		Float64("left", f.style.Left).Float64("top", f.style.Top).
		Bool("fixed", f.style.Fixed).Msg("popup rect set")
}
