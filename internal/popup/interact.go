package popup

import (
	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/page"
)

type dragState struct {
	frame     *Frame
	start     entity.Point
	startRect entity.Rect
}

type resizeState struct {
	frame     *Frame
	edge      entity.ResizeEdge
	start     entity.Point
	startRect entity.Rect
	min       entity.Size
	viewport  entity.Size
}

// Zoom snaps f to one of the nine viewport regions. Zooming pins the frame
// and expands it first if collapsed.
func (m *Manager) Zoom(f *Frame, place entity.ZoomPlace) {
	if f == nil || f.flags.Despawned || !place.Valid() {
		return
	}

	if !f.flags.Zoomed && f.placed {
		pos := f.viewportRect.Origin()
		f.previousPos = &pos
	}
	if f.flags.Collapsed {
		m.Uncollapse(f)
	}

	f.flags.Restored = false
	f.flags.Zoomed = true
	f.flags.Place = place

	region := place.Region(m.host.Viewport())
	f.zoomTo = region.Origin()

	m.Position(f, nil)

	f.style.MaxUnset = true
	f.style.Width = region.Width
	f.style.Height = region.Height

	m.Pin(f)
	m.clearFrameTimers(f)
	m.updatePageScrollState()
	m.updateTitleBar(f)

	m.log.Debug().Str("frame", f.ID).Str("place", string(place)).Msg("popup zoomed")
}

// Restore undoes zoom and resize: f goes back to its saved position with a
// content-driven size.
func (m *Manager) Restore(f *Frame) {
	if f == nil || f.flags.Despawned {
		return
	}

	f.flags.Zoomed = false
	f.flags.Resized = false
	f.flags.Place = entity.PlaceNone
	f.flags.Restored = true

	f.style.Width = 0
	f.style.Height = 0
	f.style.MaxUnset = false

	m.Position(f, nil)

	m.clearFrameTimers(f)
	m.updatePageScrollState()
	m.updateTitleBar(f)

	m.log.Debug().Str("frame", f.ID).Msg("popup restored")
}

// Pin takes f out of hover-driven despawning. It leaves its stack and
// stops being its target's live frame.
func (m *Manager) Pin(f *Frame) {
	if f == nil || f.flags.Despawned || f.flags.Pinned {
		return
	}

	f.flags.Pinned = true
	f.flags.Unpinned = false

	m.Position(f, nil)

	if f.stack != nil {
		f.stack.remove(f)
	}
	m.detach(f)

	m.updateTitleBar(f)

	m.log.Debug().Str("frame", f.ID).Msg("popup pinned")
}

// Unpin returns f to its stack and target, so it fades like a hover frame.
func (m *Manager) Unpin(f *Frame) {
	if f == nil || f.flags.Despawned || !f.flags.Pinned {
		return
	}

	f.flags.Pinned = false
	f.flags.Unpinned = true

	m.Position(f, nil)

	if f.stack != nil && !f.stack.contains(f) {
		f.stack.push(f)
	}
	m.attach(f)

	m.updateTitleBar(f)

	m.log.Debug().Str("frame", f.ID).Msg("popup unpinned")
}

// TogglePin pins an unpinned frame and unpins a pinned one.
func (m *Manager) TogglePin(f *Frame) {
	if f == nil {
		return
	}
	if f.flags.Pinned {
		m.Unpin(f)
	} else {
		m.Pin(f)
	}
}

// Collapse shrinks f to its title bar. A collapsed frame is always pinned.
func (m *Manager) Collapse(f *Frame) {
	if f == nil || f.flags.Despawned || f.flags.Collapsed {
		return
	}

	f.flags.Collapsed = true
	if f.style.Height > 0 {
		f.previousHeight = f.style.Height
		f.style.Height = 0
	}

	m.Pin(f)
	m.clearFrameTimers(f)
	m.updateTitleBar(f)

	m.log.Debug().Str("frame", f.ID).Msg("popup collapsed")
}

// Uncollapse expands f, restoring its explicit height if it had one.
func (m *Manager) Uncollapse(f *Frame) {
	if f == nil || f.flags.Despawned || !f.flags.Collapsed {
		return
	}

	f.flags.Collapsed = false
	if f.previousHeight > 0 {
		if f.flags.Pinned {
			f.style.Height = f.previousHeight
		}
		f.previousHeight = 0
	}

	m.clearFrameTimers(f)
	m.updateTitleBar(f)

	m.log.Debug().Str("frame", f.ID).Msg("popup uncollapsed")
}

// ToggleCollapse collapses or expands f and refreshes its cached rect.
func (m *Manager) ToggleCollapse(f *Frame) {
	if f == nil || f.flags.Despawned {
		return
	}
	if f.flags.Collapsed {
		m.Uncollapse(f)
	} else {
		m.Collapse(f)
	}
	f.viewportRect = m.FrameRect(f)
}

func allowsHorizontalResize(f *Frame) bool {
	return !f.flags.NoResizeWidth
}

func allowsVerticalResize(f *Frame) bool {
	return !f.flags.NoResizeHeight && !f.flags.Collapsed
}

func resizeable(f *Frame) bool {
	return (f.flags.Pinned || f.flags.Zoomed) && (allowsHorizontalResize(f) || allowsVerticalResize(f))
}

func (m *Manager) edgeAt(f *Frame, p entity.Point) entity.ResizeEdge {
	rect := f.viewportRect
	rel := entity.Point{X: p.X - rect.X, Y: p.Y - rect.Y}
	return entity.HitTestEdge(rect.Size(), rel, f.borderWidth, allowsHorizontalResize(f), allowsVerticalResize(f))
}

// FrameMouseDown starts a border resize when el is f's own element and f
// can be resized. It reports whether a resize began.
func (m *Manager) FrameMouseDown(f *Frame, el *page.Element, p entity.Point, button MouseButton, mods Modifiers) bool {
	if f == nil || f.flags.Despawned {
		return false
	}
	if el != f.Element || button != ButtonPrimary || !resizeable(f) {
		return false
	}

	if !mods.Meta {
		m.BringToFront(f)
	}

	edge := m.edgeAt(f, p)
	if edge == entity.EdgeNone {
		return false
	}

	f.flags.Resizing = true
	if f.previousPos == nil {
		pos := f.viewportRect.Origin()
		f.previousPos = &pos
	}

	m.resize = &resizeState{
		frame:     f,
		edge:      edge,
		start:     p,
		startRect: f.viewportRect,
		min:       m.host.MinSize(f),
		viewport:  m.host.Viewport(),
	}
	m.host.SetCursor(entity.CursorForEdge(edge))

	m.log.Trace().Str("frame", f.ID).Str("edge", string(edge)).Msg("resize started")
	return true
}

// FrameMouseMove shows the resize cursor while the pointer is over a
// resizeable frame's border.
func (m *Manager) FrameMouseMove(f *Frame, el *page.Element, p entity.Point) {
	if f == nil || f.flags.Despawned || m.resize != nil || m.drag != nil {
		return
	}
	cursor := entity.CursorDefault
	if el == f.Element && resizeable(f) {
		cursor = entity.CursorForEdge(m.edgeAt(f, p))
	}
	f.Cursor = cursor
	m.host.SetCursor(cursor)
}

// FrameMouseOut resets the border cursor unless a resize is under way.
func (m *Manager) FrameMouseOut(f *Frame) {
	if f == nil || m.resize != nil || m.drag != nil {
		return
	}
	f.Cursor = entity.CursorDefault
	m.host.SetCursor(entity.CursorDefault)
}

// TitleBarDown grabs f for dragging on a primary press that is not on one
// of the title bar buttons.
func (m *Manager) TitleBarDown(f *Frame, el *page.Element, p entity.Point, button MouseButton, mods Modifiers) {
	if f == nil || f.flags.Despawned {
		return
	}
	if !mods.Meta {
		m.BringToFront(f)
	}
	if button != ButtonPrimary {
		return
	}
	if el != nil && el.ClosestFunc(func(n *page.Element) bool { return n.HasClass(titleBarButtonClass) }) != nil {
		return
	}

	f.flags.Grabbed = true
	f.Cursor = entity.CursorGrabbing
	m.host.SetCursor(entity.CursorGrabbing)
	f.clickSuppressed = true

	start := f.viewportRect
	start.Width, start.Height = 0, 0
	m.drag = &dragState{frame: f, start: p, startRect: start}

	m.log.Trace().Str("frame", f.ID).Msg("drag started")
}

// TitleBarDoubleClick collapses or expands f. With Alt every spawned frame
// follows: all expand if f is collapsed, otherwise all collapse.
func (m *Manager) TitleBarDoubleClick(f *Frame, mods Modifiers) {
	if f == nil || f.flags.Despawned {
		return
	}
	if !mods.Alt {
		m.ToggleCollapse(f)
		return
	}

	expand := f.flags.Collapsed
	for _, other := range m.AllSpawned() {
		if other.flags.Collapsed == expand {
			m.ToggleCollapse(other)
		}
	}
}

// PointerMove re-enables hover handling and feeds an active drag or resize.
func (m *Manager) PointerMove(p entity.Point) {
	m.hoverEventsActive = true

	switch {
	case m.resize != nil:
		m.applyResize(p)
	case m.drag != nil:
		m.applyDrag(p)
	}
}

func (m *Manager) applyResize(p entity.Point) {
	rs := m.resize
	f := rs.frame
	m.beingResized = f

	f.flags.Place = entity.PlaceNone
	f.flags.Resized = true

	dx, dy := p.X-rs.start.X, p.Y-rs.start.Y
	r := rs.startRect
	out := r

	if rs.edge.MovesTop() {
		out.Y = entity.Clamp(r.Y+dy, 0, r.Bottom()-rs.min.Height)
		out.Height = r.Bottom() - out.Y
	} else if rs.edge.MovesBottom() {
		out.Height = entity.Clamp(r.Height+dy, rs.min.Height, rs.viewport.Height-r.Y)
	}

	if rs.edge.MovesLeft() {
		out.X = entity.Clamp(r.X+dx, 0, r.Right()-rs.min.Width)
		out.Width = r.Right() - out.X
	} else if rs.edge.MovesRight() {
		out.Width = entity.Clamp(r.Width+dx, rs.min.Width, rs.viewport.Width-r.X)
	}

	m.setViewportRect(f, out, false)
}

func (m *Manager) applyDrag(p entity.Point) {
	d := m.drag
	f := d.frame
	m.beingDragged = f
	f.flags.Dragging = true

	rect := d.startRect.Translate(p.X-d.start.X, p.Y-d.start.Y)
	m.setViewportRect(f, rect, true)
}

// PointerUp ends an active resize or drag. el is the element under the
// pointer at release.
func (m *Manager) PointerUp(el *page.Element) {
	if m.resize != nil {
		m.finishResize()
	}
	if m.drag != nil {
		m.finishDrag(el)
	}
}

func (m *Manager) finishResize() {
	f := m.resize.frame
	m.resize, m.beingResized = nil, nil

	f.Cursor = entity.CursorDefault
	m.host.SetCursor(entity.CursorDefault)
	f.flags.Resizing = false
	if f.flags.Resized {
		m.updateTitleBar(f)
	}
	f.viewportRect = m.FrameRect(f)

	m.log.Trace().Str("frame", f.ID).Msg("resize finished")
}

func (m *Manager) finishDrag(el *page.Element) {
	f := m.drag.frame
	m.drag = nil

	f.Cursor = entity.CursorDefault
	m.host.SetCursor(entity.CursorDefault)
	f.flags.Grabbed = false

	if !f.flags.Dragging {
		f.clickSuppressed = false
		return
	}

	f.flags.Dragging = false
	m.beingDragged = nil
	f.viewportRect = m.FrameRect(f)

	m.sched.NextFrame(func() { f.clickSuppressed = false })

	if m.ContainingFrame(el) == nil && !f.flags.Pinned {
		m.fadeAncestors(f)
	}
	m.Pin(f)

	m.log.Trace().Str("frame", f.ID).Msg("drag finished")
}

// KeyUp handles a released key. It reports whether the key was used.
func (m *Manager) KeyUp(key string) bool {
	isEscape := key == "Escape" || key == "Esc"
	action, isTiling := m.tilingKeys.Action(key)
	if !isEscape && !isTiling {
		return false
	}

	if len(m.AllSpawned()) == 0 {
		return false
	}
	f := m.Focused()
	if f == nil {
		return false
	}

	if isEscape {
		if !m.ContainerVisible() {
			return false
		}
		m.Despawn(f)
		return true
	}

	switch action {
	case entity.TileTogglePin:
		m.TogglePin(f)
	case entity.TileToggleCollapse:
		m.ToggleCollapse(f)
	default:
		m.Zoom(f, action.Place())
	}
	return true
}
