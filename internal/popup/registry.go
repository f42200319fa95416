package popup

import (
	"time"

	"github.com/bnema/popframe/internal/application/port"
	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/page"
)

// Marker classes toggled on page elements by the registry.
const (
	ClassSpawnsPopup = "spawns-popup"
	ClassNoPopup     = "no-popup"
	ClassPopupOpen   = "popup-open"
)

// TargetSpec selects spawn-capable elements within a content container.
type TargetSpec struct {
	// Targets selects candidate elements.
	Targets *page.Selector
	// Excluded elements are tagged no-popup.
	Excluded *page.Selector
	// Elements inside an ExcludedContainers match are tagged no-popup.
	ExcludedContainers *page.Selector
	// Test further qualifies candidates. Nil accepts all.
	Test func(*page.Element) bool
}

func (s TargetSpec) excluded(el *page.Element) bool {
	return s.Excluded.Match(el) || el.Closest(s.ExcludedContainers) != nil
}

func (s TargetSpec) accepts(el *page.Element) bool {
	return s.Test == nil || s.Test(el)
}

// PrepareFunc populates a freshly created frame. It returns the frame to
// show, or nil to abort the spawn.
type PrepareFunc func(f *Frame) *Frame

// Target is the engine's record for one registered page element.
type Target struct {
	Element *page.Element

	// TriggerDelay overrides the configured spawn delay when set.
	TriggerDelay func() time.Duration
	// PreferSidePositioning asks for frames to the left or right.
	PreferSidePositioning func() bool

	prepare PrepareFunc
	restore func(*page.Element)

	frame      *Frame
	spawnPoint *entity.Point

	spawnTimer   port.Task
	fadeTimer    port.Task
	despawnTimer port.Task
}

// Frame returns the target's live frame, if any.
func (t *Target) Frame() *Frame { return t.frame }

// SpawnPoint returns the last recorded pointer position for the target.
func (t *Target) SpawnPoint() (entity.Point, bool) {
	if t.spawnPoint == nil {
		return entity.Point{}, false
	}
	return *t.spawnPoint, true
}

func (t *Target) preferSide() bool {
	return t.PreferSidePositioning != nil && t.PreferSidePositioning()
}

// RegisterTargets binds every element in container matched by spec.
// Excluded or rejected elements are tagged no-popup and rejected ones
// passed to restore. Accepted elements are tagged spawns-popup and given
// to targetPrepare. Running it again over the same content is harmless.
func (m *Manager) RegisterTargets(
	container *page.Element,
	spec TargetSpec,
	prepare PrepareFunc,
	targetPrepare func(*Target),
	restore func(*page.Element),
) int {
	if container == nil {
		return 0
	}

	bound := 0
	for _, el := range container.QueryAll(spec.Targets) {
		if spec.excluded(el) {
			el.ToggleClass(ClassNoPopup, true)
			continue
		}
		if !spec.accepts(el) {
			el.ToggleClass(ClassNoPopup, true)
			if restore != nil {
				restore(el)
			}
			continue
		}

		t, ok := m.targets[el]
		if !ok {
			t = &Target{Element: el}
			m.targets[el] = t
		}
		t.prepare = prepare
		t.restore = restore

		if targetPrepare != nil {
			targetPrepare(t)
		}

		el.ToggleClass(ClassSpawnsPopup, true)
		bound++
	}

	m.log.Debug().Str("container", container.ID).Int("targets", bound).Msg("registered popup targets")
	return bound
}

// UnregisterTargets reverses RegisterTargets for the same container and
// spec. Pending timers are cleared and live frames despawned. restore
// defaults to the function given at registration.
func (m *Manager) UnregisterTargets(container *page.Element, spec TargetSpec, restore func(*page.Element)) int {
	if container == nil {
		return 0
	}

	unbound := 0
	for _, el := range container.QueryAll(spec.Targets) {
		if spec.excluded(el) || !spec.accepts(el) {
			el.ToggleClass(ClassNoPopup, false)
			continue
		}

		t, ok := m.targets[el]
		if !ok {
			continue
		}

		m.clearTimers(t)
		if t.frame != nil {
			m.Despawn(t.frame)
		}
		delete(m.targets, el)
		t.prepare = nil

		el.ToggleClass(ClassSpawnsPopup, false)

		fn := restore
		if fn == nil {
			fn = t.restore
		}
		if fn != nil {
			fn(el)
		}
		unbound++
	}

	m.log.Debug().Str("container", container.ID).Int("targets", unbound).Msg("unregistered popup targets")
	return unbound
}

// Target returns the record for a registered element.
func (m *Manager) Target(el *page.Element) (*Target, bool) {
	t, ok := m.targets[el]
	return t, ok
}

// closestTarget returns the registered target el belongs to.
func (m *Manager) closestTarget(el *page.Element) *Target {
	for n := el; n != nil; n = n.Parent() {
		if t, ok := m.targets[n]; ok {
			return t
		}
	}
	return nil
}

// TargetState reports where a target is in its hover lifecycle.
func (m *Manager) TargetState(el *page.Element) entity.LifecycleState {
	t, ok := m.targets[el]
	if !ok {
		return entity.StateIdle
	}
	switch {
	case t.frame != nil && t.frame.flags.Fading:
		return entity.StateFading
	case t.frame != nil:
		return entity.StateSpawned
	case t.spawnTimer != nil:
		return entity.StateSpawning
	default:
		return entity.StateIdle
	}
}
