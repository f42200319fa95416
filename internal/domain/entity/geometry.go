// Package entity defines the pure value types shared by the pop-frame engine,
// its hosts and its persistence. Nothing here depends on infrastructure.
package entity

import "math"

// Point is a viewport coordinate.
type Point struct {
	X, Y float64
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle: top-left corner plus size.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// RectFromEdges builds a rect from its four edges.
func RectFromEdges(left, top, right, bottom float64) Rect {
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Left returns the x coordinate of the left edge.
func (r Rect) Left() float64 { return r.X }

// Top returns the y coordinate of the top edge.
func (r Rect) Top() float64 { return r.Y }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rect's size.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// IsEmpty reports whether the rect has no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies within r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Union returns the smallest rect enclosing r and all others.
// Empty rects are ignored.
func (r Rect) Union(others ...Rect) Rect {
	out := r
	for _, o := range others {
		if o.IsEmpty() {
			continue
		}
		if out.IsEmpty() {
			out = o
			continue
		}
		out = RectFromEdges(
			math.Min(out.Left(), o.Left()),
			math.Min(out.Top(), o.Top()),
			math.Max(out.Right(), o.Right()),
			math.Max(out.Bottom(), o.Bottom()),
		)
	}
	return out
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Round rounds every component to the nearest integer.
func (r Rect) Round() Rect {
	return Rect{X: math.Round(r.X), Y: math.Round(r.Y), Width: math.Round(r.Width), Height: math.Round(r.Height)}
}

// Clamp bounds v to [lo, hi]. When hi < lo, lo wins.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(math.Min(v, hi), lo)
}
