// Package eventbus implements a synchronous in-process publish/subscribe
// mediator. Producers publish named events; every handler subscribed to that
// name runs synchronously, in subscription order, before Publish returns.
// There is no replay: a late subscriber never sees earlier events.
package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// Event is anything that can travel over the bus. Concrete event types are
// closed structs, so handlers type-assert on a known payload shape instead
// of poking at untyped maps.
type Event interface {
	Name() string
}

// Handler consumes a published event. A returned error is logged and does
// not stop delivery to the remaining handlers.
type Handler func(ctx context.Context, ev Event) error

// Subscription identifies a single registration and can be passed to
// Unsubscribe. Subscribing the same handler twice yields two subscriptions
// and two deliveries per event; callers that want idempotent registration
// keep the token.
type Subscription struct {
	name string
	id   uint64
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus dispatches events to subscribers. The zero value is not usable; use New.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[string][]registration
	logger   *slog.Logger
}

// New creates an empty bus. logger may be nil, in which case slog.Default
// is used for handler failure reports.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		handlers: make(map[string][]registration),
		logger:   logger,
	}
}

// Subscribe registers handler for events with the given name and returns a
// token for Unsubscribe.
func (b *Bus) Subscribe(name string, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.handlers[name] = append(b.handlers[name], registration{id: b.nextID, handler: handler})
	return Subscription{name: name, id: b.nextID}
}

// Unsubscribe removes a previous registration. Unknown tokens are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	regs := b.handlers[sub.name]
	for i, r := range regs {
		if r.id == sub.id {
			b.handlers[sub.name] = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(b.handlers[sub.name]) == 0 {
		delete(b.handlers, sub.name)
	}
}

// Publish delivers ev to every handler subscribed to ev.Name, synchronously
// and in subscription order. A panicking or failing handler is logged and
// skipped so one broken subscriber cannot break its siblings.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	regs := make([]registration, len(b.handlers[ev.Name()]))
	copy(regs, b.handlers[ev.Name()])
	b.mu.RUnlock()

	for _, r := range regs {
		b.dispatch(ctx, r.handler, ev)
	}
}

func (b *Bus) dispatch(ctx context.Context, handler Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "event handler panicked",
				"event", ev.Name(),
				"panic", r,
			)
		}
	}()

	if err := handler(ctx, ev); err != nil {
		b.logger.ErrorContext(ctx, "event handler failed",
			"event", ev.Name(),
			"error", err,
		)
	}
}
