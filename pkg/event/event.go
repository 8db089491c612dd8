// Package event provides a small synchronous event bus.
//
// Unlike a package-global dispatcher, a Bus is an explicit dependency: each
// storefront session owns one and hands it to the components that need to
// react to each other (the cart manager listens for auth transitions).
//
//	bus := event.NewBus()
//	bus.Listen("auth.login", func(payload interface{}) { ... })
//	bus.Fire("auth.login", user)
package event

import "sync"

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

// Bus dispatches named events to registered listeners.
// The zero value is not usable; construct with NewBus.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners, in
// registration order. Handlers run on the caller's goroutine: when Fire
// returns, every listener has seen the event.
func (b *Bus) Fire(event string, payload interface{}) {
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[event]))
	copy(hs, b.handlers[event])
	b.mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// Flush removes all listeners (useful in tests).
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]Handler{}
}
