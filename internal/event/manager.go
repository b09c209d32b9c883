package event

import (
	"sync"

	"github.com/bethropolis/modsed/internal/logger"
)

// Handler is called for each dispatched event. A true return stops
// delivery to later handlers.
type Handler func(e Event) bool

// Manager handles subscriptions and synchronous dispatch.
type Manager struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler // event type -> handlers in subscription order
}

// NewManager creates an empty bus.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe adds handler for eventType.
func (m *Manager) Subscribe(eventType Type, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers[eventType] = append(m.handlers[eventType], handler)
	logger.DebugTagf("event", "handler subscribed to %v", eventType)
}

// Dispatch delivers an event to the handlers of its type in subscription
// order. Handlers may subscribe or dispatch from within a handler.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	if m == nil {
		return
	}
	e := Event{Type: eventType, Data: data}

	// Copy under the read lock so handlers can subscribe while we iterate.
	m.mu.RLock()
	handlers := make([]Handler, len(m.handlers[eventType]))
	copy(handlers, m.handlers[eventType])
	m.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}
	logger.DebugTagf("event", "dispatching %v to %d handler(s)", eventType, len(handlers))
	for _, h := range handlers {
		if h(e) {
			break // consumed
		}
	}
}
