package popup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/page"
	"github.com/bnema/popframe/internal/popup"
)

func placementInput(target entity.Rect, frame entity.Size, spawn entity.Point) popup.PlacementInput {
	cfg := popup.DefaultConfig()
	return popup.PlacementInput{
		Target:              target,
		Spawn:               spawn,
		Frame:               frame,
		Viewport:            entity.Size{Width: 1000, Height: 800},
		BreathingRoomX:      cfg.BreathingRoomX,
		BreathingRoomY:      cfg.BreathingRoomY,
		BreathingRoomYTight: cfg.BreathingRoomYTight,
	}
}

func TestComputePlacement(t *testing.T) {
	tests := []struct {
		name string
		in   popup.PlacementInput
		want popup.Placement
	}{
		{
			name: "fits above",
			in: placementInput(entity.RectFromEdges(50, 300, 150, 320),
				entity.Size{Width: 300, Height: 200}, entity.Point{X: 60, Y: 310}),
			want: popup.Placement{X: 72, Y: 92},
		},
		{
			// Target at y=100 leaves no room for 200 above, so it goes below.
			name: "short target falls below",
			in: placementInput(entity.RectFromEdges(50, 100, 150, 120),
				entity.Size{Width: 300, Height: 200}, entity.Point{X: 60, Y: 110}),
			want: popup.Placement{X: 72, Y: 128},
		},
		{
			name: "near top of viewport goes below",
			in: placementInput(entity.RectFromEdges(50, 5, 150, 15),
				entity.Size{Width: 300, Height: 600}, entity.Point{X: 60, Y: 10}),
			want: popup.Placement{X: 72, Y: 23},
		},
		{
			name: "tight retry fits above",
			in: func() popup.PlacementInput {
				in := placementInput(entity.RectFromEdges(50, 204, 150, 224),
					entity.Size{Width: 300, Height: 200}, entity.Point{X: 60, Y: 210})
				in.Viewport.Height = 400
				return in
			}(),
			want: popup.Placement{X: 72, Y: 8, Tight: true},
		},
		{
			name: "taller than viewport goes to the side",
			in: placementInput(entity.RectFromEdges(50, 100, 150, 120),
				entity.Size{Width: 300, Height: 900}, entity.Point{X: 60, Y: 110}),
			want: popup.Placement{X: 162, Y: 0, OffToTheSide: true, Tight: true},
		},
		{
			name: "side prefers left when right overflows",
			in: placementInput(entity.RectFromEdges(800, 100, 900, 120),
				entity.Size{Width: 300, Height: 900}, entity.Point{X: 810, Y: 400}),
			want: popup.Placement{X: 488, Y: 0, OffToTheSide: true, Tight: true},
		},
		{
			name: "no side fits falls back to spawn point, clamped",
			in: placementInput(entity.RectFromEdges(50, 100, 150, 120),
				entity.Size{Width: 990, Height: 900}, entity.Point{X: 60, Y: 110}),
			want: popup.Placement{X: 9, Y: 0, Tight: true},
		},
		{
			name: "right edge overflow is pulled in",
			in: placementInput(entity.RectFromEdges(880, 300, 950, 320),
				entity.Size{Width: 300, Height: 200}, entity.Point{X: 900, Y: 310}),
			want: popup.Placement{X: 699, Y: 92},
		},
		{
			name: "side preference uses provisional y",
			in: func() popup.PlacementInput {
				in := placementInput(entity.RectFromEdges(50, 400, 150, 420),
					entity.Size{Width: 300, Height: 200}, entity.Point{X: 60, Y: 400})
				in.PreferSide = true
				return in
			}(),
			want: popup.Placement{X: 162, Y: 300, OffToTheSide: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := popup.ComputePlacement(tt.in)
			assert.InDelta(t, tt.want.X, got.X, 0.001)
			assert.InDelta(t, tt.want.Y, got.Y, 0.001)
			assert.Equal(t, tt.want.OffToTheSide, got.OffToTheSide)
			assert.Equal(t, tt.want.Tight, got.Tight)
		})
	}
}

func TestComputePlacement_Deterministic(t *testing.T) {
	in := placementInput(entity.RectFromEdges(50, 100, 150, 120),
		entity.Size{Width: 300, Height: 900}, entity.Point{X: 60, Y: 110})

	first := popup.ComputePlacement(in)
	for range 10 {
		assert.Equal(t, first, popup.ComputePlacement(in))
	}
}

func TestManager_Position_PlacesAboveTarget(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	f := h.spawn(link, entity.Point{X: 60, Y: 310})

	style := f.Style()
	assert.True(t, style.Positioned)
	assert.False(t, style.Fixed)
	assert.Equal(t, 72.0, style.Left)
	assert.Equal(t, 92.0, style.Top)
	assert.Equal(t, entity.Rect{X: 72, Y: 92, Width: 300, Height: 200}, f.ViewportRect())
}

func TestManager_Position_ContainerRelativeUnlessPinned(t *testing.T) {
	h := newHarness(t)
	h.host.origin = entity.Point{X: 0, Y: -500}
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	f := h.spawn(link, entity.Point{X: 60, Y: 310})
	assert.Equal(t, 592.0, f.Style().Top)
	assert.Equal(t, 92.0, f.ViewportRect().Y)

	h.mgr.Pin(f)
	h.sched.Flush()
	assert.True(t, f.Style().Fixed)
	assert.Equal(t, 92.0, f.Style().Top)
	assert.Equal(t, 92.0, f.ViewportRect().Y)
}

func TestManager_PinBeforeFirstPass_KeepsPlacement(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	f, err := h.mgr.Spawn(link, entity.Point{X: 60, Y: 310})
	require.NoError(t, err)
	require.NotNil(t, f)

	h.mgr.Pin(f)
	h.sched.Flush()

	assert.True(t, f.Flags().Pinned)
	assert.True(t, f.Style().Fixed)
	assert.Equal(t, entity.Rect{X: 72, Y: 92, Width: 300, Height: 200}, f.ViewportRect())
}

func TestManager_ZoomBeforeFirstPass_RestoresToRegionOrigin(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	f, err := h.mgr.Spawn(link, entity.Point{X: 60, Y: 310})
	require.NoError(t, err)

	h.mgr.Zoom(f, entity.PlaceRight)
	h.sched.Flush()
	assert.Equal(t, entity.Point{X: 500, Y: 0}, f.ViewportRect().Origin())

	h.mgr.Restore(f)
	h.sched.Flush()
	assert.Equal(t, entity.Point{X: 500, Y: 0}, f.ViewportRect().Origin(), "no stale pre-zoom origin")
}

func TestManager_Spawn_RecordsSpawnPoint(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	f, err := h.mgr.Spawn(link, entity.Point{X: 60, Y: 310})
	require.NoError(t, err)
	require.NotNil(t, f)

	target, _ := h.mgr.Target(link)
	p, ok := target.SpawnPoint()
	require.True(t, ok)
	assert.Equal(t, entity.Point{X: 60, Y: 310}, p)
}

func TestManager_Position_LatestCallWins(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	f := h.spawn(link, entity.Point{X: 60, Y: 310})

	h.mgr.Position(f, &entity.Point{X: 100, Y: 310})
	h.mgr.Position(f, &entity.Point{X: 140, Y: 310})
	assert.Equal(t, 1, h.sched.PendingFrames())

	h.sched.Flush()
	assert.Equal(t, 152.0, f.Style().Left)
}

func TestManager_Position_NestedFrameGoesToTheSide(t *testing.T) {
	h := newHarness(t)
	parentLink := h.link(h.page, "parent", entity.RectFromEdges(50, 500, 150, 520))

	var nestedLink *page.Element

	h.register(h.page, func(f *popup.Frame) *popup.Frame {
		if f.Target().Element != parentLink {
			return fillBody(f)
		}
		nestedLink = h.link(f.Body, "child", entity.RectFromEdges(100, 300, 140, 320))
		h.register(f.Body, fillBody)
		return f
	})

	h.spawn(parentLink, entity.Point{X: 60, Y: 510})
	child := h.spawn(nestedLink, entity.Point{X: 110, Y: 310})

	assert.Equal(t, 152.0, child.Style().Left, "right of the nested target")
}

func TestManager_SetViewportRect_Clamps(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	f := h.spawn(link, entity.Point{X: 60, Y: 310})
	h.mgr.Pin(f)
	h.sched.Flush()

	h.mgr.SetViewportRect(f, entity.Rect{X: 900, Y: -40}, true)
	assert.Equal(t, 700.0, f.Style().Left)
	assert.Equal(t, 0.0, f.Style().Top)
	assert.Zero(t, f.Style().Width, "position-only update keeps content size")

	h.mgr.SetViewportRect(f, entity.Rect{X: 10, Y: 20, Width: 400, Height: 250}, false)
	assert.Equal(t, 400.0, f.Style().Width)
	assert.True(t, f.Style().MaxUnset)
	assert.Equal(t, entity.Rect{X: 10, Y: 20, Width: 400, Height: 250}, f.ViewportRect())
}
