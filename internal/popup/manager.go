// Package popup is the pop-frame engine: hover-triggered floating panels
// anchored to page targets, with spawn/fade/despawn timing, nested stacks,
// z-ordering, viewport-aware placement, and pin/zoom/resize/drag handling.
//
// A Manager is owned by one UI loop. None of its methods are safe for
// concurrent use; hosts deliver input events and scheduler callbacks on the
// same loop.
package popup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/popframe/internal/application/port"
	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/events"
	"github.com/bnema/popframe/internal/logging"
	"github.com/bnema/popframe/internal/page"
	"github.com/bnema/popframe/internal/ui/mainloop"
)

var (
	// ErrNoContainerParent is returned by Setup when there is nowhere to
	// attach the container. The manager stays inert.
	ErrNoContainerParent = errors.New("popup container parent not found")

	// ErrNotSetUp is returned by programmatic operations before Setup.
	ErrNotSetUp = errors.New("popup manager is not set up")

	// ErrUnknownTarget is returned when spawning from an unregistered element.
	ErrUnknownTarget = errors.New("element is not a registered popup target")
)

const (
	ContainerID = "popup-container"

	windowResizeKey = "reposition-popups-on-window-resize"
)

// FrameEvent is the payload of frame lifecycle notifications.
type FrameEvent struct {
	Frame *Frame
}

// Lifecycle notifications published on the manager's bus.
var (
	WillSpawn        = events.NewTopic[FrameEvent]("Popups.popupWillSpawn")
	DidSpawn         = events.NewTopic[FrameEvent]("Popups.popupDidSpawn")
	WillDespawn      = events.NewTopic[FrameEvent]("Popups.popupWillDespawn")
	SetupDidComplete = events.NewTopic[struct{}]("Popups.setupDidComplete")
)

// Config holds placement margins and lifecycle timings.
type Config struct {
	ContainerZIndex int

	BreathingRoomX      float64
	BreathingRoomY      float64
	BreathingRoomYTight float64

	TriggerDelay    time.Duration
	FadeoutDelay    time.Duration
	FadeoutDuration time.Duration
}

// DefaultConfig returns the browser-pixel defaults.
func DefaultConfig() Config {
	return Config{
		ContainerZIndex:     10000,
		BreathingRoomX:      12.0,
		BreathingRoomY:      8.0,
		BreathingRoomYTight: -4.0,
		TriggerDelay:        750 * time.Millisecond,
		FadeoutDelay:        100 * time.Millisecond,
		FadeoutDuration:     250 * time.Millisecond,
	}
}

// Host is the rendering environment the engine measures and drives.
type Host interface {
	// Viewport returns the visible area size, excluding scroll bars.
	Viewport() entity.Size

	// ContainerOrigin returns the container's top-left in viewport
	// coordinates. It moves as the page scrolls.
	ContainerOrigin() entity.Point

	// IntrinsicSize measures a frame's laid-out size given its current
	// style, including auxiliary parts outside the main box.
	IntrinsicSize(f *Frame) entity.Size

	// MinSize returns the frame's minimum resizable size.
	MinSize(f *Frame) entity.Size

	// BorderWidth returns the frame's border thickness.
	BorderWidth(f *Frame) float64

	// SetCursor sets the document-level pointer cursor.
	SetCursor(c entity.Cursor)

	// SetPageScrolling enables or disables scrolling of the main page.
	SetPageScrolling(enabled bool)
}

// Option configures a Manager.
type Option func(*Manager)

// WithConfig overrides the default configuration.
func WithConfig(cfg Config) Option {
	return func(m *Manager) { m.cfg = cfg }
}

// WithTilingKeys binds tiling control keys.
func WithTilingKeys(keys entity.TilingKeys) Option {
	return func(m *Manager) { m.tilingKeys = keys }
}

// WithBus shares an existing notification bus.
func WithBus(bus *events.Bus) Option {
	return func(m *Manager) { m.bus = bus }
}

// Manager is the per-page pop-frame context: the shared container, target
// and frame side tables, drag state and configuration.
type Manager struct {
	ctx   context.Context
	log   *zerolog.Logger
	host  Host
	sched port.Scheduler
	bus   *events.Bus
	cfg   Config

	tilingKeys entity.TilingKeys

	container        *page.Element
	containerVisible bool
	resizeCoalescer  *mainloop.Coalescer
	subscriptions    []*events.Subscription

	targets map[*page.Element]*Target
	frames  map[*page.Element]*Frame
	// spawned lists injected frames in container order.
	spawned []*Frame

	hoverEventsActive bool

	drag         *dragState
	beingDragged *Frame
	resize       *resizeState
	beingResized *Frame
}

// New creates an inert manager. Call Setup to attach the container.
func New(ctx context.Context, host Host, sched port.Scheduler, opts ...Option) *Manager {
	ctx = logging.WithComponent(ctx, "popup")

	m := &Manager{
		ctx:               ctx,
		log:               logging.FromContext(ctx),
		host:              host,
		sched:             sched,
		cfg:               DefaultConfig(),
		targets:           make(map[*page.Element]*Target),
		frames:            make(map[*page.Element]*Frame),
		hoverEventsActive: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.bus == nil {
		m.bus = events.NewBus()
	}
	return m
}

// Bus returns the notification bus lifecycle events are published on.
func (m *Manager) Bus() *events.Bus { return m.bus }

// Config returns the active configuration.
func (m *Manager) Config() Config { return m.cfg }

// Container returns the overlay container, or nil before Setup.
func (m *Manager) Container() *page.Element { return m.container }

// SetTilingKeys replaces the tiling control key bindings.
func (m *Manager) SetTilingKeys(keys entity.TilingKeys) {
	m.tilingKeys = keys
	m.log.Debug().Str("keys", keys.String()).Bool("enabled", keys.Enabled()).Msg("tiling keys updated")
}

// TilingKeys returns the current bindings.
func (m *Manager) TilingKeys() entity.TilingKeys { return m.tilingKeys }

// SetConfig replaces margins and timings. Running timers keep their
// delays; the container z-index applies from the next Setup.
func (m *Manager) SetConfig(cfg Config) {
	m.cfg = cfg
	m.log.Debug().Dur("trigger_delay", cfg.TriggerDelay).Msg("popup config updated")
}

// Cleanup removes the container and every listener installed by Setup.
// Live frames are despawned.
func (m *Manager) Cleanup() {
	m.log.Debug().Msg("cleaning up popups")

	for _, f := range append([]*Frame(nil), m.spawned...) {
		m.Despawn(f)
	}
	for _, sub := range m.subscriptions {
		sub.Unsubscribe()
	}
	m.subscriptions = nil

	if m.resizeCoalescer != nil {
		m.resizeCoalescer.Destroy()
		m.resizeCoalescer = nil
	}
	if m.container != nil {
		m.container.Remove()
		m.container = nil
	}
	m.drag, m.beingDragged = nil, nil
	m.resize, m.beingResized = nil, nil
}

// Setup attaches a fresh container under parent. It runs Cleanup first, so
// calling it again resets the engine.
func (m *Manager) Setup(parent *page.Element) error {
	m.log.Debug().Msg("setting up popups")

	m.Cleanup()

	if parent == nil {
		m.log.Warn().Msg("popup container parent element not found, popups disabled")
		return ErrNoContainerParent
	}

	m.container = page.NewElement("div", ContainerID, "popup-container")
	m.container.SetAttr("style", fmt.Sprintf("z-index: %d;", m.cfg.ContainerZIndex))
	parent.AppendChild(m.container)
	m.containerVisible = true

	m.resizeCoalescer = mainloop.NewCoalescer(m.sched)

	m.subscriptions = append(m.subscriptions,
		events.Subscribe(m.bus, events.OverlayDidAppear, func(struct{}) { m.HideContainer() }),
		events.Subscribe(m.bus, events.OverlayDidDisappear, func(struct{}) { m.UnhideContainer() }),
	)

	events.Publish(m.bus, SetupDidComplete, struct{}{})
	return nil
}

// DisableHover gates target hover handling until the pointer next moves.
// Hosts call it for scrolls of the page and of frame scroll views.
func (m *Manager) DisableHover() {
	m.hoverEventsActive = false
}

// HoverEventsActive reports whether target enter events are honored.
func (m *Manager) HoverEventsActive() bool { return m.hoverEventsActive }

// WindowResized re-applies every spawned frame's rect clamped to the new
// viewport. Bursts are coalesced into one pass on the next frame.
func (m *Manager) WindowResized() {
	if m.resizeCoalescer == nil {
		return
	}
	m.resizeCoalescer.Post(windowResizeKey, func() {
		for _, f := range m.AllSpawned() {
			if f.flags.Zoomed && f.flags.Place != entity.PlaceNone {
				region := f.flags.Place.Region(m.host.Viewport())
				f.zoomTo = region.Origin()
				m.setViewportRect(f, region, false)
			} else {
				m.setViewportRect(f, f.viewportRect, true)
			}
			f.viewportRect = m.FrameRect(f)
		}
		m.log.Trace().Int("frames", len(m.spawned)).Msg("repositioned popups after window resize")
	})
}

// deferUntilSetup runs fn once the next Setup completes.
func (m *Manager) deferUntilSetup(fn func()) {
	m.log.Trace().Msg("popup container missing, deferring until setup")
	events.Subscribe(m.bus, SetupDidComplete, func(struct{}) { fn() }, events.Once[struct{}]())
}
