package eventbus

import (
	"log/slog"
	"sync"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventResultAdded     = domain.EventResultAdded
	EventResultRemoved   = domain.EventResultRemoved
	EventResultUpdated   = domain.EventResultUpdated
	EventCollectionReset = domain.EventCollectionReset
	EventResultsChanged  = domain.EventResultsChanged
	EventSearchStarted   = domain.EventSearchStarted
	EventSearchError     = domain.EventSearchError
	EventStateChanged    = domain.EventStateChanged
	EventURLChanged      = domain.EventURLChanged
	EventViewportChanged = domain.EventViewportChanged
)

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus.
// Publish runs every handler on the caller's goroutine, in subscription
// order, before returning. A panicking handler is not recovered here.
type bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]subscription
	nextID   uint64
	logger   *slog.Logger
}

// New creates a new event bus
func New(logger *slog.Logger) EventBus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &bus{
		handlers: make(map[EventType][]subscription),
		logger:   logger,
	}
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	switch event.Type() {
	case EventResultUpdated:
		// Hover churn, too frequent to log
	default:
		b.logger.Debug("eventbus: publish", "event", event.Type())
	}

	// Copy so handlers may subscribe or unsubscribe while we iterate
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[event.Type()]))
	copy(subs, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			subs := b.handlers[eventType]
			for i, s := range subs {
				if s.id == id {
					b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Subscriptions collects unsubscribe functions so an owner can release them together
type Subscriptions []func()

// Add records an unsubscribe function
func (s *Subscriptions) Add(unsubscribe func()) {
	*s = append(*s, unsubscribe)
}

// Close releases every recorded subscription
func (s *Subscriptions) Close() {
	for _, unsubscribe := range *s {
		unsubscribe()
	}
	*s = nil
}
