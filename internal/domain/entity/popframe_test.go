package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoomPlace_Region(t *testing.T) {
	vp := Size{Width: 1000, Height: 800}

	tests := []struct {
		place ZoomPlace
		want  Rect
	}{
		{PlaceTopLeft, Rect{X: 0, Y: 0, Width: 500, Height: 400}},
		{PlaceTop, Rect{X: 0, Y: 0, Width: 1000, Height: 400}},
		{PlaceTopRight, Rect{X: 500, Y: 0, Width: 500, Height: 400}},
		{PlaceLeft, Rect{X: 0, Y: 0, Width: 500, Height: 800}},
		{PlaceFull, Rect{X: 0, Y: 0, Width: 1000, Height: 800}},
		{PlaceRight, Rect{X: 500, Y: 0, Width: 500, Height: 800}},
		{PlaceBottomLeft, Rect{X: 0, Y: 400, Width: 500, Height: 400}},
		{PlaceBottom, Rect{X: 0, Y: 400, Width: 1000, Height: 400}},
		{PlaceBottomRight, Rect{X: 500, Y: 400, Width: 500, Height: 400}},
	}

	for _, tt := range tests {
		t.Run(string(tt.place), func(t *testing.T) {
			assert.True(t, tt.place.Valid())
			assert.Equal(t, tt.want, tt.place.Region(vp))
		})
	}

	assert.False(t, PlaceNone.Valid())
	assert.False(t, ZoomPlace("middle").Valid())
}

func TestHitTestEdge_BothAxes(t *testing.T) {
	size := Size{Width: 300, Height: 200}

	tests := []struct {
		name string
		rel  Point
		want ResizeEdge
	}{
		{"top left corner", Point{X: 5, Y: 5}, CornerTopLeft},
		{"bottom right corner", Point{X: 295, Y: 195}, CornerBottomRight},
		{"bottom left corner", Point{X: 5, Y: 195}, CornerBottomLeft},
		{"top right corner", Point{X: 295, Y: 5}, CornerTopRight},
		{"left edge", Point{X: 5, Y: 100}, EdgeLeft},
		{"right edge", Point{X: 295, Y: 100}, EdgeRight},
		{"top edge", Point{X: 150, Y: 5}, EdgeTop},
		{"bottom edge", Point{X: 150, Y: 195}, EdgeBottom},
		{"interior", Point{X: 150, Y: 100}, EdgeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HitTestEdge(size, tt.rel, 1, true, true))
		})
	}
}

func TestHitTestEdge_HandleShrinksForSmallFrames(t *testing.T) {
	// Smaller dimension 30 gives a 10px handle instead of 20px.
	size := Size{Width: 300, Height: 30}

	assert.Equal(t, EdgeNone, HitTestEdge(size, Point{X: 150, Y: 15}, 1, true, true))
	assert.Equal(t, EdgeLeft, HitTestEdge(size, Point{X: 9, Y: 15}, 1, true, true))
	assert.Equal(t, EdgeNone, HitTestEdge(size, Point{X: 12, Y: 15}, 1, true, true))
}

func TestHitTestEdge_SingleAxis(t *testing.T) {
	size := Size{Width: 300, Height: 200}

	// Vertical resize only: top/bottom borders.
	assert.Equal(t, EdgeTop, HitTestEdge(size, Point{X: 2, Y: 1}, 3, false, true))
	assert.Equal(t, EdgeBottom, HitTestEdge(size, Point{X: 150, Y: 198}, 3, false, true))
	assert.Equal(t, EdgeNone, HitTestEdge(size, Point{X: 1, Y: 100}, 3, false, true))

	// Horizontal only, as for a collapsed frame.
	assert.Equal(t, EdgeLeft, HitTestEdge(size, Point{X: 1, Y: 2}, 3, true, false))
	assert.Equal(t, EdgeRight, HitTestEdge(size, Point{X: 299, Y: 100}, 3, true, false))
	assert.Equal(t, EdgeNone, HitTestEdge(size, Point{X: 150, Y: 1}, 3, true, false))

	assert.Equal(t, EdgeNone, HitTestEdge(size, Point{X: 1, Y: 1}, 3, false, false))
}

func TestCursorForEdge(t *testing.T) {
	assert.Equal(t, CursorRowResize, CursorForEdge(EdgeTop))
	assert.Equal(t, CursorRowResize, CursorForEdge(EdgeBottom))
	assert.Equal(t, CursorColResize, CursorForEdge(EdgeLeft))
	assert.Equal(t, CursorColResize, CursorForEdge(EdgeRight))
	assert.Equal(t, CursorNWSEResize, CursorForEdge(CornerTopLeft))
	assert.Equal(t, CursorNWSEResize, CursorForEdge(CornerBottomRight))
	assert.Equal(t, CursorNESWResize, CursorForEdge(CornerTopRight))
	assert.Equal(t, CursorNESWResize, CursorForEdge(CornerBottomLeft))
	assert.Equal(t, CursorDefault, CursorForEdge(EdgeNone))
}

func TestResizeEdge_Sides(t *testing.T) {
	assert.True(t, CornerTopLeft.MovesTop())
	assert.True(t, CornerTopLeft.MovesLeft())
	assert.False(t, CornerTopLeft.MovesRight())
	assert.True(t, EdgeRight.MovesRight())
	assert.False(t, EdgeRight.MovesBottom())
	assert.True(t, CornerBottomRight.MovesBottom())
}

func TestFrameFlags_Classes(t *testing.T) {
	f := FrameFlags{Pinned: true, Zoomed: true, Place: PlaceLeft, Resized: true, HasTitleBar: true}

	classes := f.Classes()
	assert.Contains(t, classes, "popframe")
	assert.Contains(t, classes, "pinned")
	assert.Contains(t, classes, "zoomed")
	assert.Contains(t, classes, "left")
	assert.Contains(t, classes, "resized")
	assert.Contains(t, classes, "has-title-bar")
	assert.NotContains(t, classes, "collapsed")
	assert.NotContains(t, classes, "unpinned")
}
