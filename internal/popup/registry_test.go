package popup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/page"
	"github.com/bnema/popframe/internal/popup"
)

func TestManager_RegisterTargets(t *testing.T) {
	h := newHarness(t)

	plain := h.link(h.page, "plain", entity.RectFromEdges(0, 0, 10, 10))
	excluded := h.link(h.page, "excluded", entity.RectFromEdges(0, 0, 10, 10))
	excluded.AddClass("no-preview")

	aside := page.NewElement("aside", "aside", "sidenote")
	h.page.AppendChild(aside)
	inAside := h.link(aside, "in-aside", entity.RectFromEdges(0, 0, 10, 10))

	rejected := h.link(h.page, "rejected", entity.RectFromEdges(0, 0, 10, 10))
	rejected.SetAttr("href", "https://example.com")

	spec := popup.TargetSpec{
		Targets:            page.MustCompileSelector(`tag == "a"`),
		Excluded:           page.MustCompileSelector(`"no-preview" in classes`),
		ExcludedContainers: page.MustCompileSelector(`"sidenote" in classes`),
		Test: func(el *page.Element) bool {
			href, _ := el.Attr("href")
			return href == ""
		},
	}

	var restored []*page.Element
	var prepared []*popup.Target
	n := h.mgr.RegisterTargets(h.page, spec, fillBody,
		func(tg *popup.Target) { prepared = append(prepared, tg) },
		func(el *page.Element) { restored = append(restored, el) })

	assert.Equal(t, 1, n)
	assert.True(t, plain.HasClass(popup.ClassSpawnsPopup))
	assert.True(t, excluded.HasClass(popup.ClassNoPopup))
	assert.True(t, inAside.HasClass(popup.ClassNoPopup))
	assert.True(t, rejected.HasClass(popup.ClassNoPopup))
	assert.Equal(t, []*page.Element{rejected}, restored)
	assert.Len(t, prepared, 1)
	assert.Same(t, plain, prepared[0].Element)

	// Running it again changes nothing.
	assert.Equal(t, 1, h.mgr.RegisterTargets(h.page, spec, fillBody, nil, nil))
	assert.Equal(t, []string{popup.ClassSpawnsPopup}, plain.Classes())

	_, ok := h.mgr.Target(excluded)
	assert.False(t, ok)

	h.mgr.UnregisterTargets(h.page, spec, nil)
	assert.False(t, excluded.HasClass(popup.ClassNoPopup))
	assert.False(t, plain.HasClass(popup.ClassSpawnsPopup))
	assert.Len(t, restored, 2, "registration-time restore reused")
}

func TestManager_RegisterTargets_NilContainer(t *testing.T) {
	h := newHarness(t)
	assert.Zero(t, h.mgr.RegisterTargets(nil, linkSpec, fillBody, nil, nil))
	assert.Zero(t, h.mgr.UnregisterTargets(nil, linkSpec, nil))
}

func TestFrame_Classes(t *testing.T) {
	h := newHarness(t)
	link := h.link(h.page, "ref", entity.RectFromEdges(50, 300, 150, 320))
	h.register(h.page, withTitleBar)

	f := h.spawn(link, entity.Point{X: 60, Y: 310})
	h.mgr.Zoom(f, entity.PlaceTopLeft)

	classes := f.Classes()
	for _, want := range []string{"popup", "popframe", "has-title-bar", "pinned", "zoomed", "top-left", "focused"} {
		assert.Contains(t, classes, want)
	}
	assert.NotContains(t, classes, "unpinned")
}
