package popup_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/events"
	"github.com/bnema/popframe/internal/infrastructure/scheduler"
	"github.com/bnema/popframe/internal/logging"
	"github.com/bnema/popframe/internal/page"
	"github.com/bnema/popframe/internal/popup"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

// fakeHost lays frames out at fixed sizes keyed by target id.
type fakeHost struct {
	viewport    entity.Size
	origin      entity.Point
	defaultSize entity.Size
	sizes       map[string]entity.Size
	minSize     entity.Size
	border      float64

	cursor    entity.Cursor
	scrolling bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		viewport:    entity.Size{Width: 1000, Height: 800},
		defaultSize: entity.Size{Width: 300, Height: 200},
		sizes:       make(map[string]entity.Size),
		minSize:     entity.Size{Width: 50, Height: 30},
		border:      3,
		scrolling:   true,
	}
}

func (h *fakeHost) Viewport() entity.Size { return h.viewport }
func (h *fakeHost) ContainerOrigin() entity.Point { return h.origin }
func (h *fakeHost) MinSize(*popup.Frame) entity.Size { return h.minSize }
func (h *fakeHost) BorderWidth(*popup.Frame) float64 { return h.border }
func (h *fakeHost) SetCursor(c entity.Cursor) { h.cursor = c }
func (h *fakeHost) SetPageScrolling(enabled bool) { h.scrolling = enabled }

func (h *fakeHost) IntrinsicSize(f *popup.Frame) entity.Size {
	size, ok := h.sizes[f.Target().Element.ID]
	if !ok {
		size = h.defaultSize
	}
	if f.Flags().Collapsed {
		size.Height = 20
	}
	return size
}

var linkSpec = popup.TargetSpec{
	Targets:  page.MustCompileSelector(`tag == "a"`),
	Excluded: page.MustCompileSelector(`"no-preview" in classes`),
}

type harness struct {
	t     *testing.T
	host  *fakeHost
	sched *scheduler.Manual
	mgr   *popup.Manager
	page  *page.Element
}

func newHarness(t *testing.T, opts ...popup.Option) *harness {
	t.Helper()

	h := &harness{
		t:     t,
		host:  newFakeHost(),
		sched: scheduler.NewManual(),
		page:  page.NewElement("body", "page"),
	}
	h.mgr = popup.New(testContext(), h.host, h.sched, opts...)
	require.NoError(t, h.mgr.Setup(h.page))
	return h
}

// link adds an anchor to parent with a single client rect.
func (h *harness) link(parent *page.Element, id string, rect entity.Rect) *page.Element {
	el := page.NewElement("a", id)
	el.SetClientRects(rect)
	parent.AppendChild(el)
	return el
}

func fillBody(f *popup.Frame) *popup.Frame {
	f.SetContent(page.NewElement("p", ""))
	return f
}

func withTitleBar(f *popup.Frame) *popup.Frame {
	f.TitleBarContents = []*popup.Button{
		popup.CloseButton(),
		popup.ZoomButton().EnableSubmenu(),
		popup.PinButton(),
		popup.OptionsButton(),
	}
	return fillBody(f)
}

func (h *harness) register(container *page.Element, prepare popup.PrepareFunc) {
	h.mgr.RegisterTargets(container, linkSpec, prepare, nil, nil)
}

// spawn hovers el at p and waits out the trigger delay.
func (h *harness) spawn(el *page.Element, p entity.Point) *popup.Frame {
	h.t.Helper()

	h.mgr.TargetEnter(el, p)
	h.sched.Advance(h.mgr.Config().TriggerDelay)

	target, ok := h.mgr.Target(el)
	require.True(h.t, ok)
	require.NotNil(h.t, target.Frame(), "expected %s to have spawned a frame", el.ID)
	return target.Frame()
}

func (h *harness) fadeOut() {
	cfg := h.mgr.Config()
	h.sched.Advance(cfg.FadeoutDelay + cfg.FadeoutDuration)
}

// counter tallies notifications on a topic.
func counter(bus *events.Bus, topic events.Topic[popup.FrameEvent]) *[]*popup.Frame {
	var seen []*popup.Frame
	events.Subscribe(bus, topic, func(ev popup.FrameEvent) { seen = append(seen, ev.Frame) })
	return &seen
}

func zIndices(frames []*popup.Frame) []int {
	out := make([]int, 0, len(frames))
	for _, f := range frames {
		out = append(out, f.ZIndex())
	}
	return out
}

const tick = time.Millisecond
