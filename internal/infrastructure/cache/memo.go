// Package cache memoizes derived values with least-recently-used eviction.
package cache

import (
	"container/list"
	"sync"
)

// Memo caches the results of a compute function by key. Past capacity the
// least recently used result is dropped. Safe for concurrent use; compute
// runs without the lock held, so concurrent misses on one key may both
// compute.
type Memo[K comparable, V any] struct {
	capacity int
	mu       sync.Mutex
	items    map[K]*list.Element
	order    *list.List // Front = most recent, Back = least recent

	hits, misses uint64
}

type memoEntry[K comparable, V any] struct {
	key   K
	value V
}

// NewMemo creates a memo holding at most capacity results. A capacity
// below one is raised to one.
func NewMemo[K comparable, V any](capacity int) *Memo[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Memo[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached result for key, computing and storing it on a miss.
func (c *Memo[K, V]) Get(key K, compute func(K) V) V {
	if v, ok := c.lookup(key); ok {
		return v
	}
	v := compute(key)
	c.store(key, v)
	return v
}

// Peek returns a cached result without computing or touching recency.
func (c *Memo[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		return elem.Value.(*memoEntry[K, V]).value, true
	}
	var zero V
	return zero, false
}

func (c *Memo[K, V]) lookup(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.hits++
		c.order.MoveToFront(elem)
		return elem.Value.(*memoEntry[K, V]).value, true
	}
	c.misses++
	var zero V
	return zero, false
}

func (c *Memo[K, V]) store(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*memoEntry[K, V]).value = value
		return
	}
	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*memoEntry[K, V]).key)
		}
	}
	c.items[key] = c.order.PushFront(&memoEntry[K, V]{key: key, value: value})
}

// Len returns the number of cached results.
func (c *Memo[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns hit and miss counts since creation or the last Clear.
func (c *Memo[K, V]) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Clear drops every cached result and resets the counters.
func (c *Memo[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.order.Init()
	c.hits, c.misses = 0, 0
}
