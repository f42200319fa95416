package popup

import (
	"slices"

	"github.com/google/uuid"

	"github.com/bnema/popframe/internal/application/port"
	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/page"
)

// Style is the frame's explicit layout: where it is pinned in its
// coordinate space and any size set by zoom, resize or window clamping.
// Zero Width or Height means content-driven.
type Style struct {
	Left, Top  float64
	Positioned bool
	// Fixed positions are viewport-relative, otherwise container-relative.
	Fixed bool

	Width, Height float64
	// MaxUnset lifts the stylesheet's maximum size limits.
	MaxUnset bool
}

// Frame is one pop-frame instance. A despawned frame is never reused.
type Frame struct {
	ID string

	// Element is the frame's root node inside the container.
	Element *page.Element
	// ScrollView wraps ContentView; ScrollTop is its scroll offset.
	ScrollView  *page.Element
	ContentView *page.Element
	// Body is the isolated content boundary the provider fills.
	Body *page.Element
	// UIElements holds caller-supplied chrome outside the scroll view.
	UIElements *page.Element

	// Title is shown in the title bar.
	Title string
	// TitleBarContents, when non-empty at spawn, gets a title bar built.
	TitleBarContents []*Button
	TitleBar         *TitleBar

	ScrollTop float64
	Cursor    entity.Cursor

	target *Target
	flags  entity.FrameFlags
	style  Style
	stack  *stack
	zIndex int

	viewportRect entity.Rect
	borderWidth  float64

	zoomTo         entity.Point
	previousPos    *entity.Point
	previousHeight float64

	clickSuppressed bool
	positionTask    port.Task
	// placed is set once a positioning pass has written viewportRect.
	placed bool
	// despawning guards WillDespawn handlers against re-entry.
	despawning bool
}

// Target returns the spawning target record.
func (f *Frame) Target() *Target { return f.target }

// Flags returns a copy of the frame's state flags.
func (f *Frame) Flags() entity.FrameFlags { return f.flags }

// Classes returns the class tokens a stylesheet would see.
func (f *Frame) Classes() []string { return f.flags.Classes() }

// Style returns the frame's explicit layout.
func (f *Frame) Style() Style { return f.style }

// ZIndex returns the frame's stacking position among spawned frames.
func (f *Frame) ZIndex() int { return f.zIndex }

// ViewportRect returns the rect cached after the last layout-affecting
// operation.
func (f *Frame) ViewportRect() entity.Rect { return f.viewportRect }

// IsDespawned reports whether the frame reached its terminal state.
func (f *Frame) IsDespawned() bool { return f.flags.Despawned }

// Stack returns the frames in this frame's popup stack, root first.
func (f *Frame) Stack() []*Frame {
	if f.stack == nil {
		return nil
	}
	return slices.Clone(f.stack.frames)
}

// SetContent replaces the body content. Returns false for empty content.
func (f *Frame) SetContent(children ...*page.Element) bool {
	if len(children) == 0 {
		return false
	}
	for _, c := range f.Body.Children() {
		c.Remove()
	}
	for _, c := range children {
		f.Body.AppendChild(c)
	}
	return true
}

// AddUIElements appends chrome elements outside the scroll view.
func (f *Frame) AddUIElements(elements ...*page.Element) {
	for _, e := range elements {
		f.UIElements.AppendChild(e)
	}
}

// newFrame builds a detached frame for target.
func (m *Manager) newFrame(t *Target) *Frame {
	id := uuid.NewString()

	root := page.NewElement("div", id, "popup", "popframe")
	scroll := page.NewElement("div", "", "popframe-scroll-view")
	content := page.NewElement("div", "", "popframe-content-view")
	body := page.NewElement("div", "", "popframe-body", "popup-body", "shadow-body")
	ui := page.NewElement("div", "", "popframe-ui-elements-container")

	root.AppendChild(scroll)
	scroll.AppendChild(content)
	content.AppendChild(body)
	root.AppendChild(ui)

	f := &Frame{
		ID:          id,
		Element:     root,
		ScrollView:  scroll,
		ContentView: content,
		Body:        body,
		UIElements:  ui,
		target:      t,
	}
	m.frames[root] = f

	m.log.Trace().Str("frame", id).Str("target", t.Element.ID).Msg("created pop-frame")
	return f
}

// ContainingFrame returns the frame whose tree holds el, or nil.
func (m *Manager) ContainingFrame(el *page.Element) *Frame {
	for n := el; n != nil; n = n.Parent() {
		if f, ok := m.frames[n]; ok {
			return f
		}
	}
	return nil
}

// FrameRect measures the frame's current viewport rect.
func (m *Manager) FrameRect(f *Frame) entity.Rect {
	size := m.host.IntrinsicSize(f)
	if f.style.Width > 0 {
		size.Width = f.style.Width
	}
	if f.style.Height > 0 {
		size.Height = f.style.Height
	}

	var origin entity.Point
	if f.style.Positioned {
		origin = entity.Point{X: f.style.Left, Y: f.style.Top}
		if !f.style.Fixed {
			co := m.host.ContainerOrigin()
			origin.X += co.X
			origin.Y += co.Y
		}
	}
	return entity.Rect{X: origin.X, Y: origin.Y, Width: size.Width, Height: size.Height}
}

// ScrollIntoView scrolls el's frame so el is visible. With
// alwaysRevealTopEdge the element's top edge is what must fit.
func (m *Manager) ScrollIntoView(el *page.Element, alwaysRevealTopEdge bool) {
	f := m.ContainingFrame(el)
	if f == nil {
		return
	}

	elementRect := el.BoundingRect()
	bodyRect := f.Body.BoundingRect()
	scrollRect := f.ScrollView.BoundingRect()

	top := elementRect.Top() - bodyRect.Top()
	bottom := elementRect.Bottom() - bodyRect.Top()
	if alwaysRevealTopEdge {
		bottom = top
	}
	if f.ScrollTop <= top && f.ScrollTop+scrollRect.Height >= bottom {
		return
	}

	f.ScrollTop = top
	m.log.Trace().Str("frame", f.ID).Float64("scroll_top", f.ScrollTop).Msg("scrolled element into view")
}
