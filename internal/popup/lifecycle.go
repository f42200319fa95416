package popup

import (
	"fmt"
	"slices"

	"github.com/bnema/popframe/internal/application/port"
	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/events"
	"github.com/bnema/popframe/internal/page"
)

// MouseButton identifies the pressed pointer button.
type MouseButton int

const (
	ButtonPrimary MouseButton = iota
	ButtonMiddle
	ButtonSecondary
)

// Modifiers are the keyboard modifiers held during a pointer event.
type Modifiers struct {
	// Alt applies close/pin/collapse to every spawned frame.
	Alt bool
	// Meta suppresses bring-to-front.
	Meta bool
}

// clearTimers cancels a target's spawn, fade and despawn timers and takes
// its frame out of the fading state.
func (m *Manager) clearTimers(t *Target) {
	if t == nil {
		return
	}
	if t.frame != nil {
		t.frame.flags.Fading = false
	}
	for _, slot := range []*port.Task{&t.fadeTimer, &t.despawnTimer, &t.spawnTimer} {
		if *slot != nil {
			(*slot).Cancel()
			*slot = nil
		}
	}
}

// clearFrameTimers clears the timers of f's target unless that target has
// since moved on to another frame.
func (m *Manager) clearFrameTimers(f *Frame) {
	if f == nil || f.target == nil {
		return
	}
	if t := f.target; t.frame == nil || t.frame == f {
		m.clearTimers(t)
	}
}

func (m *Manager) setSpawnTimer(t *Target, at entity.Point) {
	delay := m.cfg.TriggerDelay
	if t.TriggerDelay != nil {
		delay = t.TriggerDelay()
	}

	m.log.Trace().Str("target", t.Element.ID).Dur("delay", delay).Msg("spawn timer set")
	t.spawnTimer = m.sched.AfterFunc(delay, func() {
		t.spawnTimer = nil
		m.log.Trace().Str("target", t.Element.ID).Msg("spawn timer fired")
		m.spawn(t, at)
	})
}

func (m *Manager) setFadeTimer(t *Target) {
	t.fadeTimer = m.sched.AfterFunc(m.cfg.FadeoutDelay, func() {
		t.fadeTimer = nil
		m.log.Trace().Str("target", t.Element.ID).Msg("fade timer fired")
		m.setDespawnTimer(t)
	})
}

func (m *Manager) setDespawnTimer(t *Target) {
	if t.frame == nil {
		return
	}
	t.frame.flags.Fading = true
	t.despawnTimer = m.sched.AfterFunc(m.cfg.FadeoutDuration, func() {
		t.despawnTimer = nil
		m.log.Trace().Str("target", t.Element.ID).Msg("despawn timer fired")
		m.Despawn(t.frame)
	})
}

func (m *Manager) setWaitCursor(t *Target) {
	m.host.SetCursor(entity.CursorProgress)
	t.Element.Cursor = entity.CursorProgress
	if t.frame != nil {
		t.frame.Cursor = entity.CursorProgress
	}
}

func (m *Manager) clearWaitCursor(t *Target) {
	m.host.SetCursor(entity.CursorDefault)
	t.Element.Cursor = entity.CursorDefault
	if t.frame != nil {
		t.frame.Cursor = entity.CursorDefault
	}
}

// Spawn creates and shows a frame for a registered target at p.
// It returns nil without error when the content provider declines.
func (m *Manager) Spawn(el *page.Element, p entity.Point) (*Frame, error) {
	if m.container == nil {
		return nil, ErrNotSetUp
	}
	t, ok := m.targets[el]
	if !ok {
		return nil, fmt.Errorf("failed to spawn popup for %q: %w", el.ID, ErrUnknownTarget)
	}
	m.clearTimers(t)
	return m.spawn(t, p), nil
}

func (m *Manager) spawn(t *Target, at entity.Point) *Frame {
	if m.container == nil {
		return nil
	}

	m.setWaitCursor(t)

	if t.frame != nil {
		m.Despawn(t.frame)
	}

	// Once this frame is up, everything not pinned and not in its stack goes.
	sub := events.Subscribe(m.bus, DidSpawn, func(ev FrameEvent) {
		for _, other := range m.AllSpawned() {
			if !other.flags.Pinned && !ev.Frame.stack.contains(other) {
				m.Despawn(other)
			}
		}
	}, events.Once[FrameEvent](), events.When(func(ev FrameEvent) bool {
		return ev.Frame != nil && ev.Frame == t.frame
	}))

	t.frame = m.newFrame(t)

	var prepared *Frame
	if t.prepare != nil {
		prepared = t.prepare(t.frame)
	}
	if prepared == nil {
		m.log.Debug().Str("target", t.Element.ID).Msg("spawn aborted by content provider")
		delete(m.frames, t.frame.Element)
		t.frame = nil
		sub.Unsubscribe()
		m.clearWaitCursor(t)
		return nil
	}
	if prepared != t.frame {
		delete(m.frames, t.frame.Element)
		m.frames[prepared.Element] = prepared
		prepared.target = t
	}
	f := prepared
	t.frame = f

	events.Publish(m.bus, WillSpawn, FrameEvent{Frame: f})

	if f.TitleBar == nil && len(f.TitleBarContents) > 0 {
		m.addTitleBar(f)
	}

	if f.Element.Parent() == m.container {
		m.BringToFront(f)
	} else {
		m.inject(f)
	}

	m.Position(f, &at)

	t.Element.AddClass(ClassPopupOpen)

	m.log.Debug().Str("frame", f.ID).Str("target", t.Element.ID).
		Float64("x", at.X).Float64("y", at.Y).Msg("popup spawned")
	events.Publish(m.bus, DidSpawn, FrameEvent{Frame: f})

	m.sched.NextFrame(func() {
		if t.frame != nil {
			t.frame.flags.Rendering = false
		}
		m.clearWaitCursor(t)
	})
	return f
}

// inject adds f to its stack and the container and brings it to front.
func (m *Manager) inject(f *Frame) {
	if f.stack == nil {
		if parent := m.ContainingFrame(f.target.Element); parent != nil && parent.stack != nil {
			f.stack = parent.stack
		} else {
			f.stack = &stack{}
		}
	} else {
		f.stack.remove(f)
	}
	f.stack.push(f)

	f.flags.Rendering = true

	m.container.AppendChild(f.Element)
	m.spawned = append(m.spawned, f)
	if !m.containerVisible {
		f.flags.Hidden = true
	}

	m.BringToFront(f)

	f.borderWidth = m.host.BorderWidth(f)
}

// attach makes f its target's live frame. Any other live frame of that
// target is despawned first, keeping one live frame per target.
func (m *Manager) attach(f *Frame) {
	t := f.target
	if t.frame != nil && t.frame != f {
		m.Despawn(t.frame)
	}
	m.clearTimers(t)
	t.Element.AddClass(ClassPopupOpen)
	t.frame = f
}

// detach unbinds f from its target. Only the target's current frame can
// be detached.
func (m *Manager) detach(f *Frame) {
	t := f.target
	if t == nil || t.frame != f {
		return
	}
	m.clearTimers(t)
	t.Element.RemoveClass(ClassPopupOpen)
	t.frame = nil
}

// Despawn removes f. Despawning a despawned frame does nothing.
func (m *Manager) Despawn(f *Frame) {
	if f == nil || f.flags.Despawned || f.despawning {
		return
	}
	f.despawning = true

	events.Publish(m.bus, WillDespawn, FrameEvent{Frame: f})

	m.detach(f)

	f.Element.Remove()
	delete(m.frames, f.Element)
	if i := slices.Index(m.spawned, f); i >= 0 {
		m.spawned = slices.Delete(m.spawned, i, i+1)
	}

	if f.stack != nil {
		f.stack.remove(f)
		f.stack = nil
	}
	if f.positionTask != nil {
		f.positionTask.Cancel()
		f.positionTask = nil
	}

	f.flags.Despawned = true
	f.flags.Focused = false

	if m.beingDragged == f || (m.drag != nil && m.drag.frame == f) {
		m.drag, m.beingDragged = nil, nil
	}
	if m.beingResized == f || (m.resize != nil && m.resize.frame == f) {
		m.resize, m.beingResized = nil, nil
	}

	m.updateZOrder()
	m.updatePageScrollState()

	m.log.Debug().Str("frame", f.ID).Str("target", f.target.Element.ID).Msg("popup despawned")

	t := f.target
	m.sched.NextFrame(func() { m.clearWaitCursor(t) })
}

// TargetEnter handles the pointer entering a target at p.
func (m *Manager) TargetEnter(el *page.Element, p entity.Point) {
	if m.beingDragged != nil || !m.hoverEventsActive {
		return
	}
	t, ok := m.targets[el]
	if !ok {
		return
	}

	m.clearTimers(t)

	if t.frame == nil {
		m.setSpawnTimer(t, p)
		return
	}
	m.BringToFront(t.frame)
	m.Position(t.frame, &p)
}

// TargetLeave handles the pointer leaving a target.
func (m *Manager) TargetLeave(el *page.Element) {
	t, ok := m.targets[el]
	if !ok {
		return
	}

	m.clearTimers(t)
	if t.frame != nil {
		m.setFadeTimer(t)
	}
}

// TargetDown handles a pointer press on el or one of its descendants.
func (m *Manager) TargetDown(el *page.Element, button MouseButton) {
	if m.beingDragged != nil {
		return
	}
	if button == ButtonPrimary && el.ClosestFunc(func(n *page.Element) bool {
		return n.HasClass("popframe-ui-elements-container")
	}) != nil {
		return
	}

	t := m.closestTarget(el)
	if t == nil {
		return
	}

	m.clearTimers(t)
	if t.frame != nil {
		m.Despawn(t.frame)
	}
}

// FrameEnter handles the pointer entering f; the whole ancestor chain
// stops fading.
func (m *Manager) FrameEnter(f *Frame) {
	for _, a := range m.AncestorStack(f) {
		m.clearFrameTimers(a)
	}
}

// FrameLeave handles the pointer leaving f; the ancestor chain starts
// fading, innermost first.
func (m *Manager) FrameLeave(f *Frame) {
	if m.beingDragged != nil || !m.containerVisible {
		return
	}
	m.fadeAncestors(f)
}

func (m *Manager) fadeAncestors(f *Frame) {
	chain := m.AncestorStack(f)
	slices.Reverse(chain)
	for _, a := range chain {
		if a.target.frame != a {
			continue
		}
		m.clearTimers(a.target)
		m.setFadeTimer(a.target)
	}
}

// FrameClick handles a click in f's body.
func (m *Manager) FrameClick(f *Frame, mods Modifiers) {
	if f == nil || f.flags.Despawned || f.clickSuppressed {
		return
	}
	if !m.IsFrontmost(f) && !mods.Meta {
		m.BringToFront(f)
	}
	m.clearFrameTimers(f)
}
