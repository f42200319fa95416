package scheduler

import (
	"slices"
	"sync"
	"time"

	"github.com/bnema/popframe/internal/application/port"
)

// maxFlushRounds bounds frame callbacks that keep scheduling more frames.
const maxFlushRounds = 64

// Manual is a virtual-time scheduler. Nothing runs until the owner calls
// Advance or Flush, which makes timing-dependent behavior reproducible.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*manualTask
	frames []*manualTask
}

var _ port.Scheduler = (*Manual)(nil)

// NewManual creates a scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

type manualTask struct {
	owner    *Manual
	due      time.Duration
	seq      uint64
	fn       func()
	canceled bool
}

func (t *manualTask) Cancel() {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	t.canceled = true
}

// Now returns the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc implements port.Scheduler.
func (m *Manual) AfterFunc(d time.Duration, fn func()) port.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTask{owner: m, due: m.now + max(d, 0), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// NextFrame implements port.Scheduler.
func (m *Manual) NextFrame(fn func()) port.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTask{owner: m, due: m.now, seq: m.seq, fn: fn}
	m.frames = append(m.frames, t)
	return t
}

// PendingTimers returns the number of live timers.
func (m *Manual) PendingTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.timers {
		if !t.canceled {
			n++
		}
	}
	return n
}

// PendingFrames returns the number of live frame callbacks.
func (m *Manual) PendingFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.frames {
		if !t.canceled {
			n++
		}
	}
	return n
}

// Flush runs pending frame callbacks, including ones they schedule.
func (m *Manual) Flush() {
	for range maxFlushRounds {
		m.mu.Lock()
		batch := m.frames
		m.frames = nil
		m.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, t := range batch {
			m.fire(t)
		}
	}
}

// Advance moves virtual time forward by d, firing due timers in deadline
// order (ties in scheduling order). Frames are flushed before the first
// timer and after each one, standing in for the paint between tasks.
func (m *Manual) Advance(d time.Duration) {
	m.Flush()

	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.popDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.due
		m.mu.Unlock()

		m.fire(next)
		m.Flush()
	}
}

// popDue removes and returns the earliest live timer due by target.
// Must hold m.mu.
func (m *Manual) popDue(target time.Duration) *manualTask {
	m.timers = slices.DeleteFunc(m.timers, func(t *manualTask) bool { return t.canceled })
	if len(m.timers) == 0 {
		return nil
	}

	best := 0
	for i, t := range m.timers {
		b := m.timers[best]
		if t.due < b.due || (t.due == b.due && t.seq < b.seq) {
			best = i
		}
	}
	t := m.timers[best]
	if t.due > target {
		return nil
	}
	m.timers = slices.Delete(m.timers, best, best+1)
	return t
}

func (m *Manual) fire(t *manualTask) {
	m.mu.Lock()
	if t.canceled {
		m.mu.Unlock()
		return
	}
	t.canceled = true
	m.mu.Unlock()

	t.fn()
}
