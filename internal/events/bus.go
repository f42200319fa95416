// Package events is a typed publish/subscribe bus. Topics carry their
// payload type, so handlers never type-assert.
package events

import "sync"

// Topic names an event and fixes its payload type.
type Topic[P any] struct {
	name string
}

// NewTopic declares a topic.
func NewTopic[P any](name string) Topic[P] {
	return Topic[P]{name: name}
}

// Name returns the topic name.
func (t Topic[P]) Name() string { return t.name }

// Overlay notifications published by unrelated page features that cover the
// whole viewport (an image viewer, for example).
var (
	OverlayDidAppear    = NewTopic[struct{}]("Overlay.didAppear")
	OverlayDidDisappear = NewTopic[struct{}]("Overlay.didDisappear")
)

// Bus dispatches payloads to subscribers in subscription order.
type Bus struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[string][]*handler
}

type handler struct {
	id      uint64
	once    bool
	removed bool
	// deliver returns false when the subscriber's condition rejected the payload.
	deliver func(payload any) bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]*handler)}
}

// Subscription is returned by Subscribe and removes the handler on demand.
type Subscription struct {
	bus   *Bus
	topic string
	id    uint64
}

// Unsubscribe removes the handler. Safe to call more than once, and from
// inside the handler itself.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.remove(s.topic, s.id)
}

type subOptions[P any] struct {
	once      bool
	condition func(P) bool
}

// Option configures a subscription.
type Option[P any] func(*subOptions[P])

// Once removes the handler after its first delivery. Payloads rejected by a
// When condition do not count as a delivery.
func Once[P any]() Option[P] {
	return func(o *subOptions[P]) { o.once = true }
}

// When filters delivery through a predicate evaluated at publish time.
func When[P any](condition func(P) bool) Option[P] {
	return func(o *subOptions[P]) { o.condition = condition }
}

// Subscribe registers fn for topic.
func Subscribe[P any](b *Bus, topic Topic[P], fn func(P), opts ...Option[P]) *Subscription {
	var o subOptions[P]
	for _, opt := range opts {
		opt(&o)
	}

	deliver := func(payload any) bool {
		p, ok := payload.(P)
		if !ok {
			return false
		}
		if o.condition != nil && !o.condition(p) {
			return false
		}
		fn(p)
		return true
	}

	b.mu.Lock()
	b.nextID++
	h := &handler{id: b.nextID, once: o.once, deliver: deliver}
	b.handlers[topic.name] = append(b.handlers[topic.name], h)
	b.mu.Unlock()

	return &Subscription{bus: b, topic: topic.name, id: h.id}
}

// Publish delivers payload to every current subscriber of topic.
// Handlers added during delivery do not see this payload.
func Publish[P any](b *Bus, topic Topic[P], payload P) {
	b.mu.Lock()
	snapshot := append([]*handler(nil), b.handlers[topic.name]...)
	b.mu.Unlock()

	for _, h := range snapshot {
		b.mu.Lock()
		removed := h.removed
		b.mu.Unlock()
		if removed {
			continue
		}

		if h.once {
			// Mark before delivering so a re-entrant publish cannot fire it twice.
			b.mu.Lock()
			h.removed = true
			b.mu.Unlock()
			if h.deliver(payload) {
				b.remove(topic.name, h.id)
				continue
			}
			b.mu.Lock()
			h.removed = false
			b.mu.Unlock()
			continue
		}

		h.deliver(payload)
	}
}

// Count returns the number of live subscribers on a topic.
func (b *Bus) Count(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[name])
}

func (b *Bus) remove(topic string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.handlers[topic]
	for i, h := range list {
		if h.id == id {
			h.removed = true
			b.handlers[topic] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(b.handlers[topic]) == 0 {
		delete(b.handlers, topic)
	}
}
