package entity

// LifecycleState is the per-target state of the hover lifecycle.
type LifecycleState string

const (
	StateIdle      LifecycleState = "idle"      // No timer pending, no frame
	StateSpawning  LifecycleState = "spawning"  // Spawn timer pending
	StateSpawned   LifecycleState = "spawned"   // Frame live and attached
	StateFading    LifecycleState = "fading"    // Fade-out running, despawn timer pending
	StateDespawned LifecycleState = "despawned" // Terminal state of a frame instance
)

// ZoomPlace names one of the nine viewport regions a frame can be zoomed to.
type ZoomPlace string

const (
	PlaceNone        ZoomPlace = ""
	PlaceTopLeft     ZoomPlace = "top-left"
	PlaceTop         ZoomPlace = "top"
	PlaceTopRight    ZoomPlace = "top-right"
	PlaceLeft        ZoomPlace = "left"
	PlaceFull        ZoomPlace = "full"
	PlaceRight       ZoomPlace = "right"
	PlaceBottomLeft  ZoomPlace = "bottom-left"
	PlaceBottom      ZoomPlace = "bottom"
	PlaceBottomRight ZoomPlace = "bottom-right"
)

// ZoomPlaces lists every zoom place in submenu order.
var ZoomPlaces = []ZoomPlace{
	PlaceTopLeft, PlaceTop, PlaceTopRight,
	PlaceLeft, PlaceFull, PlaceRight,
	PlaceBottomLeft, PlaceBottom, PlaceBottomRight,
}

// Valid reports whether p is one of the nine zoom places.
func (p ZoomPlace) Valid() bool {
	for _, place := range ZoomPlaces {
		if p == place {
			return true
		}
	}
	return false
}

// Region returns the rect a frame zoomed to p occupies in a viewport of the
// given size. Origins and sizes are halves or the full viewport.
func (p ZoomPlace) Region(viewport Size) Rect {
	halfW, halfH := viewport.Width/2.0, viewport.Height/2.0

	var x, y float64
	switch p {
	case PlaceTopRight, PlaceRight:
		x = halfW
	case PlaceBottomLeft, PlaceBottom:
		y = halfH
	case PlaceBottomRight:
		x, y = halfW, halfH
	}

	w, h := viewport.Width, viewport.Height
	switch p {
	case PlaceLeft, PlaceRight:
		w = halfW
	case PlaceTop, PlaceBottom:
		h = halfH
	case PlaceTopLeft, PlaceTopRight, PlaceBottomLeft, PlaceBottomRight:
		w, h = halfW, halfH
	}

	return Rect{X: x, Y: y, Width: w, Height: h}
}

// ResizeEdge is the frame edge or corner under the pointer during a resize.
type ResizeEdge string

const (
	EdgeNone          ResizeEdge = ""
	EdgeTop           ResizeEdge = "edge-top"
	EdgeBottom        ResizeEdge = "edge-bottom"
	EdgeLeft          ResizeEdge = "edge-left"
	EdgeRight         ResizeEdge = "edge-right"
	CornerTopLeft     ResizeEdge = "corner-top-left"
	CornerTopRight    ResizeEdge = "corner-top-right"
	CornerBottomLeft  ResizeEdge = "corner-bottom-left"
	CornerBottomRight ResizeEdge = "corner-bottom-right"
)

const maxCornerHandleLength = 20.0

// MovesTop reports whether dragging this edge moves the top side.
func (e ResizeEdge) MovesTop() bool {
	return e == EdgeTop || e == CornerTopLeft || e == CornerTopRight
}

// MovesBottom reports whether dragging this edge moves the bottom side.
func (e ResizeEdge) MovesBottom() bool {
	return e == EdgeBottom || e == CornerBottomLeft || e == CornerBottomRight
}

// MovesLeft reports whether dragging this edge moves the left side.
func (e ResizeEdge) MovesLeft() bool {
	return e == EdgeLeft || e == CornerTopLeft || e == CornerBottomLeft
}

// MovesRight reports whether dragging this edge moves the right side.
func (e ResizeEdge) MovesRight() bool {
	return e == EdgeRight || e == CornerTopRight || e == CornerBottomRight
}

// HitTestEdge determines which edge or corner of a frame of the given size
// the pointer is over. rel is relative to the frame's top-left corner.
// borderWidth sizes the hit zones when only one resize axis is allowed;
// otherwise corner handles are min(20, smaller dimension / 3).
func HitTestEdge(size Size, rel Point, borderWidth float64, allowHorizontal, allowVertical bool) ResizeEdge {
	switch {
	case !allowHorizontal && !allowVertical:
		return EdgeNone
	case !allowHorizontal:
		switch {
		case rel.Y < borderWidth:
			return EdgeTop
		case rel.Y > size.Height-borderWidth:
			return EdgeBottom
		}
		return EdgeNone
	case !allowVertical:
		switch {
		case rel.X < borderWidth:
			return EdgeLeft
		case rel.X > size.Width-borderWidth:
			return EdgeRight
		}
		return EdgeNone
	}

	handle := min(maxCornerHandleLength, min(size.Width, size.Height)/3.0)
	nearLeft := rel.X < handle
	nearRight := rel.X > size.Width-handle
	nearTop := rel.Y < handle
	nearBottom := rel.Y > size.Height-handle

	switch {
	case nearLeft && nearTop:
		return CornerTopLeft
	case nearRight && nearBottom:
		return CornerBottomRight
	case nearLeft && nearBottom:
		return CornerBottomLeft
	case nearRight && nearTop:
		return CornerTopRight
	case nearLeft:
		return EdgeLeft
	case nearRight:
		return EdgeRight
	case nearTop:
		return EdgeTop
	case nearBottom:
		return EdgeBottom
	}
	return EdgeNone
}

// Cursor is a pointer cursor name as understood by CSS.
type Cursor string

const (
	CursorDefault    Cursor = ""
	CursorProgress   Cursor = "progress"
	CursorGrabbing   Cursor = "grabbing"
	CursorRowResize  Cursor = "row-resize"
	CursorColResize  Cursor = "col-resize"
	CursorNWSEResize Cursor = "nwse-resize"
	CursorNESWResize Cursor = "nesw-resize"
)

// CursorForEdge returns the resize cursor for an edge or corner.
func CursorForEdge(e ResizeEdge) Cursor {
	switch e {
	case EdgeTop, EdgeBottom:
		return CursorRowResize
	case EdgeLeft, EdgeRight:
		return CursorColResize
	case CornerTopLeft, CornerBottomRight:
		return CursorNWSEResize
	case CornerTopRight, CornerBottomLeft:
		return CursorNESWResize
	default:
		return CursorDefault
	}
}

// FrameFlags is the explicit visual/behavioral state of a pop-frame.
// Renderers derive classes from it; the engine never reads classes back.
type FrameFlags struct {
	Pinned   bool
	Unpinned bool // Set by an unpin until the next positioning pass consumes it
	Zoomed   bool
	Place    ZoomPlace
	Restored bool // Set by a restore until the next positioning pass consumes it

	Collapsed bool
	Resized   bool
	Resizing  bool
	Grabbed   bool
	Dragging  bool

	Fading    bool
	Hidden    bool
	Focused   bool
	Rendering bool
	Despawned bool

	HasTitleBar    bool
	NoResizeWidth  bool
	NoResizeHeight bool
}

// Classes renders the flags as the class tokens a stylesheet would use.
func (f FrameFlags) Classes() []string {
	classes := []string{"popup", "popframe"}
	add := func(cond bool, name string) {
		if cond {
			classes = append(classes, name)
		}
	}
	add(f.HasTitleBar, "has-title-bar")
	add(f.Pinned, "pinned")
	add(f.Unpinned, "unpinned")
	add(f.Zoomed, "zoomed")
	add(f.Zoomed && f.Place != PlaceNone, string(f.Place))
	add(f.Restored, "restored")
	add(f.Collapsed, "collapsed")
	add(f.Resized, "resized")
	add(f.Resizing, "resizing")
	add(f.Grabbed, "grabbed")
	add(f.Dragging, "dragging")
	add(f.Fading, "fading")
	add(f.Hidden, "hidden")
	add(f.Focused, "focused")
	add(f.Rendering, "rendering")
	add(f.NoResizeWidth, "no-resize-width")
	add(f.NoResizeHeight, "no-resize-height")
	return classes
}
