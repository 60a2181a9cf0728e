package eventbus

import (
	"reflect"
	"sync"
)

// Handler is a function that handles an event
type Handler func(event any)

type subscription struct {
	id int
	fn Handler
}

// Bus provides in-process pub/sub keyed by event type.
// It is owned by the composition root and threaded through construction;
// nothing in this package holds package-level state.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[reflect.Type][]subscription
}

// New creates a new Bus
func New() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]subscription),
	}
}

// Subscribe registers a handler for events of the same dynamic type as
// eventType and returns a disposer. Disposing is idempotent and does not
// affect other subscribers.
func (b *Bus) Subscribe(eventType any, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(eventType)
	b.nextID++
	id := b.nextID
	b.handlers[t] = append(b.handlers[t], subscription{id: id, fn: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[t]
		for i, s := range subs {
			if s.id == id {
				b.handlers[t] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers an event synchronously to every subscriber registered for
// its type at the time of the call. Events are never buffered: a subscriber
// attached after Publish does not see past events, and publishing with no
// subscribers is a no-op.
func (b *Bus) Publish(event any) {
	b.mu.RLock()
	subs := b.handlers[reflect.TypeOf(event)]
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	b.mu.RUnlock()

	// Handlers run outside the lock so they may subscribe or dispose freely.
	for _, s := range snapshot {
		s.fn(event)
	}
}

// HasSubscribers returns true if there are subscribers for the event type
func (b *Bus) HasSubscribers(eventType any) bool {
	return b.SubscriberCount(eventType) > 0
}

// SubscriberCount returns the number of subscribers for an event type
func (b *Bus) SubscriberCount(eventType any) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.handlers[reflect.TypeOf(eventType)])
}
