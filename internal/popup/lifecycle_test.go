package popup_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/events"
	"github.com/bnema/popframe/internal/page"
	"github.com/bnema/popframe/internal/popup"
)

func TestManager_HoverLifecycle(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	spawned := counter(h.mgr.Bus(), popup.DidSpawn)
	despawning := counter(h.mgr.Bus(), popup.WillDespawn)

	h.mgr.TargetEnter(link, entity.Point{X: 60, Y: 310})
	assert.Equal(t, entity.StateSpawning, h.mgr.TargetState(link))

	h.sched.Advance(h.mgr.Config().TriggerDelay - tick)
	assert.Equal(t, entity.StateSpawning, h.mgr.TargetState(link))
	assert.Empty(t, *spawned)

	h.sched.Advance(tick)
	require.Len(t, *spawned, 1)
	f := (*spawned)[0]
	assert.Equal(t, entity.StateSpawned, h.mgr.TargetState(link))
	assert.True(t, link.HasClass(popup.ClassPopupOpen))
	assert.Same(t, h.mgr.Container(), f.Element.Parent())

	h.mgr.TargetLeave(link)
	h.sched.Advance(h.mgr.Config().FadeoutDelay)
	assert.Equal(t, entity.StateFading, h.mgr.TargetState(link))
	assert.True(t, f.Flags().Fading)
	assert.Empty(t, h.mgr.AllSpawned(), "fading frames are not counted as spawned")

	h.sched.Advance(h.mgr.Config().FadeoutDuration)
	assert.True(t, f.IsDespawned())
	assert.Equal(t, entity.StateIdle, h.mgr.TargetState(link))
	assert.False(t, link.HasClass(popup.ClassPopupOpen))
	assert.Nil(t, f.Element.Parent())
	assert.Equal(t, []*popup.Frame{f}, *despawning)
}

func TestManager_LeaveBeforeTriggerCancelsSpawn(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	h.mgr.TargetEnter(link, entity.Point{X: 60, Y: 310})
	h.sched.Advance(h.mgr.Config().TriggerDelay / 2)
	h.mgr.TargetLeave(link)
	h.sched.Advance(h.mgr.Config().TriggerDelay)

	assert.Equal(t, entity.StateIdle, h.mgr.TargetState(link))
	assert.Empty(t, h.mgr.AllSpawned())
	assert.Zero(t, h.sched.PendingTimers())
}

func TestManager_ReenteringFrameStopsFade(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	f := h.spawn(link, entity.Point{X: 60, Y: 310})

	h.mgr.TargetLeave(link)
	h.sched.Advance(h.mgr.Config().FadeoutDelay + tick)
	require.True(t, f.Flags().Fading)

	h.mgr.FrameEnter(f)
	assert.False(t, f.Flags().Fading)

	h.fadeOut()
	assert.False(t, f.IsDespawned())
	assert.Equal(t, entity.StateSpawned, h.mgr.TargetState(link))
}

func TestManager_FrameLeaveFadesFrame(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	f := h.spawn(link, entity.Point{X: 60, Y: 310})
	h.mgr.FrameEnter(f)
	h.mgr.FrameLeave(f)
	h.fadeOut()

	assert.True(t, f.IsDespawned())
}

func TestManager_PerTargetTriggerDelay(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.mgr.RegisterTargets(h.page, linkSpec, fillBody, func(tg *popup.Target) {
		tg.TriggerDelay = func() time.Duration { return 50 * time.Millisecond }
	}, nil)

	h.mgr.TargetEnter(link, entity.Point{X: 60, Y: 310})
	h.sched.Advance(50 * time.Millisecond)

	assert.Equal(t, entity.StateSpawned, h.mgr.TargetState(link))
}

func TestManager_SetConfigChangesTriggerDelay(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	cfg := h.mgr.Config()
	cfg.TriggerDelay = 20 * time.Millisecond
	h.mgr.SetConfig(cfg)

	h.mgr.TargetEnter(link, entity.Point{X: 60, Y: 310})
	h.sched.Advance(20 * time.Millisecond)

	assert.Equal(t, entity.StateSpawned, h.mgr.TargetState(link))
}

func TestManager_ProviderAbortsSpawn(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, func(*popup.Frame) *popup.Frame { return nil })

	spawned := counter(h.mgr.Bus(), popup.DidSpawn)
	before := h.mgr.Bus().Count(popup.DidSpawn.Name())

	h.mgr.TargetEnter(link, entity.Point{X: 60, Y: 310})
	h.sched.Advance(h.mgr.Config().TriggerDelay)

	assert.Empty(t, *spawned)
	assert.Equal(t, entity.StateIdle, h.mgr.TargetState(link))
	assert.Equal(t, entity.CursorDefault, h.host.cursor)
	assert.Equal(t, entity.CursorDefault, link.Cursor)
	assert.Empty(t, h.mgr.Container().Children())
	assert.Equal(t, before, h.mgr.Bus().Count(popup.DidSpawn.Name()), "cleanup subscription released")
}

func TestManager_WaitCursorUntilNextFrame(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	f, err := h.mgr.Spawn(link, entity.Point{X: 60, Y: 310})
	require.NoError(t, err)

	assert.Equal(t, entity.CursorProgress, h.host.cursor)
	assert.True(t, f.Flags().Rendering)

	h.sched.Flush()
	assert.Equal(t, entity.CursorDefault, h.host.cursor)
	assert.False(t, f.Flags().Rendering)
}

func TestManager_NewSpawnDespawnsUnrelatedFrames(t *testing.T) {
	h := newHarness(t)
	linkA := h.link(h.page, "a", entity.RectFromEdges(50, 300, 150, 320))
	linkB := h.link(h.page, "b", entity.RectFromEdges(400, 300, 500, 320))
	h.register(h.page, fillBody)

	a := h.spawn(linkA, entity.Point{X: 60, Y: 310})
	b := h.spawn(linkB, entity.Point{X: 410, Y: 310})

	assert.True(t, a.IsDespawned())
	assert.False(t, b.IsDespawned())
	assert.Equal(t, []*popup.Frame{b}, h.mgr.AllSpawned())
}

func TestManager_NewSpawnKeepsPinnedFrames(t *testing.T) {
	h := newHarness(t)
	linkA := h.link(h.page, "a", entity.RectFromEdges(50, 300, 150, 320))
	linkB := h.link(h.page, "b", entity.RectFromEdges(400, 300, 500, 320))
	h.register(h.page, fillBody)

	a := h.spawn(linkA, entity.Point{X: 60, Y: 310})
	h.mgr.Pin(a)
	b := h.spawn(linkB, entity.Point{X: 410, Y: 310})

	assert.False(t, a.IsDespawned())
	assert.ElementsMatch(t, []*popup.Frame{a, b}, h.mgr.AllSpawned())
}

func TestManager_OneLiveFramePerTarget(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	first, err := h.mgr.Spawn(link, entity.Point{X: 60, Y: 310})
	require.NoError(t, err)
	second, err := h.mgr.Spawn(link, entity.Point{X: 70, Y: 310})
	require.NoError(t, err)

	assert.True(t, first.IsDespawned())
	target, _ := h.mgr.Target(link)
	assert.Same(t, second, target.Frame())

	live := 0
	for _, f := range h.mgr.AllSpawned() {
		if f.Target() == target {
			live++
		}
	}
	assert.Equal(t, 1, live)
}

func TestManager_DespawnIsIdempotent(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	despawning := counter(h.mgr.Bus(), popup.WillDespawn)
	f := h.spawn(link, entity.Point{X: 60, Y: 310})

	h.mgr.Despawn(f)
	h.mgr.Despawn(f)
	h.mgr.Despawn(nil)

	assert.Len(t, *despawning, 1)
	assert.True(t, f.IsDespawned())
	assert.Empty(t, f.Stack())
}

func TestManager_DespawnFromWillDespawnHandler(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	var deliveries int
	events.Subscribe(h.mgr.Bus(), popup.WillDespawn, func(ev popup.FrameEvent) {
		deliveries++
		if deliveries > 5 {
			return
		}
		h.mgr.Despawn(ev.Frame)
	})
	f := h.spawn(link, entity.Point{X: 60, Y: 310})

	h.mgr.Despawn(f)

	assert.Equal(t, 1, deliveries)
	assert.True(t, f.IsDespawned())
	assert.Empty(t, h.mgr.AllSpawned())
}

func TestManager_StaleTimersAreHarmless(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	f := h.spawn(link, entity.Point{X: 60, Y: 310})
	h.mgr.TargetLeave(link)
	h.mgr.Despawn(f)

	assert.NotPanics(t, func() { h.fadeOut() })
	assert.Zero(t, h.sched.PendingTimers())
}

func TestManager_TargetDownDespawns(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	inner := page.NewElement("span", "inner")
	link.AppendChild(inner)
	h.register(h.page, fillBody)

	f := h.spawn(link, entity.Point{X: 60, Y: 310})
	h.mgr.TargetDown(inner, popup.ButtonPrimary)

	assert.True(t, f.IsDespawned())
}

func TestManager_HoverGatedUntilPointerMoves(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	h.mgr.DisableHover()
	h.mgr.TargetEnter(link, entity.Point{X: 60, Y: 310})
	assert.Equal(t, entity.StateIdle, h.mgr.TargetState(link))

	h.mgr.PointerMove(entity.Point{X: 61, Y: 310})
	h.mgr.TargetEnter(link, entity.Point{X: 61, Y: 310})
	assert.Equal(t, entity.StateSpawning, h.mgr.TargetState(link))
}

func TestManager_NestedStack(t *testing.T) {
	h := newHarness(t)
	parentLink := h.link(h.page, "parent", entity.RectFromEdges(50, 500, 150, 520))

	var childLink *page.Element
	h.register(h.page, func(f *popup.Frame) *popup.Frame {
		childLink = h.link(f.Body, "child", entity.RectFromEdges(100, 300, 140, 320))
		h.register(f.Body, fillBody)
		return f
	})

	parent := h.spawn(parentLink, entity.Point{X: 60, Y: 510})
	child := h.spawn(childLink, entity.Point{X: 110, Y: 310})

	assert.False(t, parent.IsDespawned())
	assert.Equal(t, []*popup.Frame{parent, child}, child.Stack())
	assert.Equal(t, []*popup.Frame{parent, child}, h.mgr.AncestorStack(child))
	assert.Equal(t, []*popup.Frame{parent}, h.mgr.AncestorStack(parent))

	// Leaving the child fades the whole chain.
	h.mgr.FrameLeave(child)
	h.sched.Advance(h.mgr.Config().FadeoutDelay + tick)
	assert.True(t, child.Flags().Fading)
	assert.True(t, parent.Flags().Fading)

	// Re-entering the child rescues both.
	h.mgr.FrameEnter(child)
	h.fadeOut()
	assert.False(t, child.IsDespawned())
	assert.False(t, parent.IsDespawned())
}

func TestManager_PinnedChildAncestryFollowsContainingFrame(t *testing.T) {
	h := newHarness(t)
	parentLink := h.link(h.page, "parent", entity.RectFromEdges(50, 500, 150, 520))

	var childLink *page.Element
	h.register(h.page, func(f *popup.Frame) *popup.Frame {
		childLink = h.link(f.Body, "child", entity.RectFromEdges(100, 300, 140, 320))
		h.register(f.Body, fillBody)
		return f
	})

	parent := h.spawn(parentLink, entity.Point{X: 60, Y: 510})
	child := h.spawn(childLink, entity.Point{X: 110, Y: 310})
	h.mgr.Pin(child)

	assert.Equal(t, []*popup.Frame{parent}, child.Stack())
	assert.Equal(t, []*popup.Frame{parent}, h.mgr.AncestorStack(child))
}

func TestManager_UnregisterTargetsDespawns(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, fillBody)

	f := h.spawn(link, entity.Point{X: 60, Y: 310})

	var restored []*page.Element
	n := h.mgr.UnregisterTargets(h.page, linkSpec, func(el *page.Element) { restored = append(restored, el) })

	assert.Equal(t, 1, n)
	assert.True(t, f.IsDespawned())
	assert.False(t, link.HasClass(popup.ClassSpawnsPopup))
	assert.Equal(t, []*page.Element{link}, restored)

	_, ok := h.mgr.Target(link)
	assert.False(t, ok)
}
