package event

import (
	"slices"
	"sync"

	"github.com/storefront/backend/internal/domain/shared"
)

// HandlerRegistry tracks which handlers want which event types. It is
// safe for concurrent use; Publish reads while Subscribe/Unsubscribe
// write.
type HandlerRegistry struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	wildcard []shared.EventHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		byType: make(map[string][]shared.EventHandler),
	}
}

// Register subscribes a handler to the given event types. With no types
// the handler becomes a wildcard and receives every event.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.wildcard = append(r.wildcard, handler)
		return
	}
	for _, eventType := range eventTypes {
		r.byType[eventType] = append(r.byType[eventType], handler)
	}
}

// Unregister drops a handler from every subscription it holds.
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	drop := func(h shared.EventHandler) bool { return h == handler }

	r.wildcard = slices.DeleteFunc(r.wildcard, drop)
	for eventType, handlers := range r.byType {
		handlers = slices.DeleteFunc(handlers, drop)
		if len(handlers) == 0 {
			delete(r.byType, eventType)
		} else {
			r.byType[eventType] = handlers
		}
	}
}

// GetHandlers returns the handlers for an event type, type-specific
// subscribers first, then wildcards. The returned slice is a copy.
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typed := r.byType[eventType]
	result := make([]shared.EventHandler, 0, len(typed)+len(r.wildcard))
	result = append(result, typed...)
	result = append(result, r.wildcard...)
	return result
}
