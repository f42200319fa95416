// Package scheduler implements port.Scheduler for real UI loops and for
// deterministic virtual time.
package scheduler

import (
	"sync"
	"time"

	"github.com/bnema/popframe/internal/application/port"
)

// Loop schedules callbacks with real timers and runs them through post,
// which must hand the function to the owning UI loop.
type Loop struct {
	post func(func())
}

var _ port.Scheduler = (*Loop)(nil)

// NewLoop creates a scheduler posting onto a UI loop.
func NewLoop(post func(func())) *Loop {
	if post == nil {
		panic("scheduler.NewLoop: post function cannot be nil")
	}
	return &Loop{post: post}
}

type loopTask struct {
	mu       sync.Mutex
	timer    *time.Timer
	canceled bool
}

func (t *loopTask) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.canceled = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *loopTask) isCanceled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canceled
}

// run is posted to the loop. The cancel check happens on the loop itself,
// so a Cancel issued by a handler always wins over an in-flight timer.
func (t *loopTask) run(fn func()) func() {
	return func() {
		if t.isCanceled() {
			return
		}
		t.mu.Lock()
		t.canceled = true
		t.mu.Unlock()
		fn()
	}
}

// AfterFunc implements port.Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) port.Task {
	task := &loopTask{}
	task.mu.Lock()
	task.timer = time.AfterFunc(d, func() {
		l.post(task.run(fn))
	})
	task.mu.Unlock()
	return task
}

// NextFrame implements port.Scheduler. Posting defers fn until the loop
// has finished the current event, which includes the following render.
func (l *Loop) NextFrame(fn func()) port.Task {
	task := &loopTask{}
	l.post(task.run(fn))
	return task
}
