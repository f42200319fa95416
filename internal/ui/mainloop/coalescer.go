// Package mainloop holds helpers for work that must run on the UI loop.
package mainloop

import (
	"sync"

	"github.com/bnema/popframe/internal/application/port"
)

// Coalescer merges bursts of same-key work into one next-frame callback.
// The latest function posted for a key wins.
type Coalescer struct {
	mu        sync.Mutex
	sched     port.Scheduler
	pending   map[string]port.Task
	callbacks map[string]func()
	destroyed bool
}

// NewCoalescer creates a coalescer deferring work to the scheduler's next frame.
func NewCoalescer(sched port.Scheduler) *Coalescer {
	if sched == nil {
		panic("mainloop.NewCoalescer: scheduler cannot be nil")
	}

	return &Coalescer{
		sched:     sched,
		pending:   make(map[string]port.Task),
		callbacks: make(map[string]func()),
	}
}

// Post schedules fn under key, replacing any not-yet-run function for it.
func (c *Coalescer) Post(key string, fn func()) {
	if fn == nil || key == "" {
		return
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.callbacks[key] = fn
	if _, ok := c.pending[key]; ok {
		c.mu.Unlock()
		return
	}
	// Reserve the slot before scheduling so a re-entrant Post coalesces.
	c.pending[key] = nil
	sched := c.sched
	c.mu.Unlock()

	task := sched.NextFrame(func() { c.run(key) })

	c.mu.Lock()
	if _, ok := c.pending[key]; ok && !c.destroyed {
		c.pending[key] = task
	}
	c.mu.Unlock()
}

func (c *Coalescer) run(key string) {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	fn := c.callbacks[key]
	delete(c.pending, key)
	delete(c.callbacks, key)
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Pending reports whether work is queued for key.
func (c *Coalescer) Pending(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[key]
	return ok
}

// Destroy cancels queued work and ignores later posts.
func (c *Coalescer) Destroy() {
	c.mu.Lock()
	tasks := c.pending
	c.destroyed = true
	c.pending = map[string]port.Task{}
	c.callbacks = map[string]func(){}
	c.mu.Unlock()

	for _, task := range tasks {
		if task != nil {
			task.Cancel()
		}
	}
}
