package popup

import (
	"slices"
	"sort"
)

// stack is an ordered chain of frames spawned from one root target and
// its nested targets. Frames share the pointer.
type stack struct {
	frames []*Frame
}

func (s *stack) push(f *Frame) { s.frames = append(s.frames, f) }

func (s *stack) remove(f *Frame) {
	if i := slices.Index(s.frames, f); i >= 0 {
		s.frames = slices.Delete(s.frames, i, i+1)
	}
}

func (s *stack) contains(f *Frame) bool {
	return s != nil && slices.Contains(s.frames, f)
}

func (s *stack) indexOf(f *Frame) int {
	if s == nil {
		return -1
	}
	return slices.Index(s.frames, f)
}

// AncestorStack returns f's stack up to and including f. A frame that is
// not in its stack (pinned) defers to the frame containing its target.
func (m *Manager) AncestorStack(f *Frame) []*Frame {
	for f != nil {
		if i := f.stack.indexOf(f); i >= 0 {
			return slices.Clone(f.stack.frames[:i+1])
		}
		parent := m.ContainingFrame(f.target.Element)
		if parent == nil || parent.stack == nil {
			return nil
		}
		f = parent
	}
	return nil
}

// AllSpawned returns the container's frames in insertion order, minus any
// that are fading out.
func (m *Manager) AllSpawned() []*Frame {
	if m.container == nil {
		return nil
	}
	out := make([]*Frame, 0, len(m.spawned))
	for _, f := range m.spawned {
		if !f.flags.Fading {
			out = append(out, f)
		}
	}
	return out
}

// updateZOrder renumbers spawned frames 1..N keeping their relative order,
// then focuses the frontmost.
func (m *Manager) updateZOrder() {
	frames := m.AllSpawned()
	sort.SliceStable(frames, func(i, j int) bool { return frames[i].zIndex < frames[j].zIndex })
	for i, f := range frames {
		f.zIndex = i + 1
	}
	m.focus(m.Frontmost())

	m.log.Trace().Int("frames", len(frames)).Msg("popup z-order updated")
}

// IsFrontmost reports whether f has the highest z-index.
func (m *Manager) IsFrontmost(f *Frame) bool {
	return f != nil && f.zIndex == len(m.AllSpawned())
}

// Frontmost returns the frame on top, or nil.
func (m *Manager) Frontmost() *Frame {
	frames := m.AllSpawned()
	for _, f := range frames {
		if f.zIndex == len(frames) {
			return f
		}
	}
	return nil
}

// BringToFront raises f above every other spawned frame.
func (m *Manager) BringToFront(f *Frame) {
	if f == nil || f.flags.Despawned || m.IsFrontmost(f) {
		return
	}
	f.zIndex = len(m.AllSpawned()) + 1
	m.updateZOrder()
}

// Focused returns the focused frame, or nil.
func (m *Manager) Focused() *Frame {
	for _, f := range m.AllSpawned() {
		if f.flags.Focused {
			return f
		}
	}
	return nil
}

func (m *Manager) focus(f *Frame) {
	for _, other := range m.spawned {
		other.flags.Focused = false
	}
	if f != nil {
		f.flags.Focused = true
	}
}

// ContainerVisible reports whether the container is shown.
func (m *Manager) ContainerVisible() bool {
	return m.container != nil && m.containerVisible
}

// HideContainer hides the container and marks every spawned frame hidden.
// Before Setup the request waits for SetupDidComplete.
func (m *Manager) HideContainer() {
	if m.container == nil {
		m.deferUntilSetup(m.HideContainer)
		return
	}
	m.containerVisible = false
	for _, f := range m.AllSpawned() {
		f.flags.Hidden = true
	}
	m.log.Trace().Msg("popup container hidden")
}

// UnhideContainer reverses HideContainer.
func (m *Manager) UnhideContainer() {
	if m.container == nil {
		m.deferUntilSetup(m.UnhideContainer)
		return
	}
	m.containerVisible = true
	for _, f := range m.AllSpawned() {
		f.flags.Hidden = false
	}
	m.log.Trace().Msg("popup container unhidden")
}

// updatePageScrollState locks page scrolling while a frame fills the screen.
func (m *Manager) updatePageScrollState() {
	maximized := slices.ContainsFunc(m.AllSpawned(), func(f *Frame) bool {
		return f.flags.Zoomed && f.flags.Place == "full"
	})
	m.host.SetPageScrolling(!maximized)
}
