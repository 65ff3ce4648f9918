package eventbus

import (
	"IRCHooks/internal/core/domain"
	"IRCHooks/internal/core/ports"
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

type subscriber struct {
	handle   ports.Handle
	listener ports.Listener
}

// InMemoryBus implements ports.Dispatcher and delivers events to every
// subscriber on the dispatching goroutine, in subscription order.
// Any number of goroutines may call Dispatch at once.
type InMemoryBus struct {
	log         zerolog.Logger
	subscribers []subscriber
	mu          sync.RWMutex
}

var _ ports.Dispatcher = (*InMemoryBus)(nil) // Ensure compliance

// NewInMemoryBus creates a new, empty event bus
func NewInMemoryBus(baseLogger *zerolog.Logger) *InMemoryBus {
	return &InMemoryBus{
		log: baseLogger.With().Str("component", "in_memory_bus").Logger(),
	}
}

// Subscribe registers a listener for every event
func (b *InMemoryBus) Subscribe(listener ports.Listener) ports.Handle {
	h := ports.Handle(uuid.New())

	b.mu.Lock() // Lock for writing the list
	b.subscribers = append(b.subscribers, subscriber{handle: h, listener: listener})
	count := len(b.subscribers)
	b.mu.Unlock()

	b.log.Debug().Str("handle", h.String()).Int("listeners", count).Msg("Listener subscribed")
	return h
}

// Unsubscribe removes a listener. Only the first call for a handle succeeds.
func (b *InMemoryBus) Unsubscribe(handle ports.Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, idx, ok := lo.FindIndexOf(b.subscribers, func(s subscriber) bool {
		return s.handle == handle
	})
	if !ok {
		return false
	}

	// Copy instead of splicing in place: a Dispatch in flight may still be
	// iterating over the old slice.
	next := make([]subscriber, 0, len(b.subscribers)-1)
	next = append(next, b.subscribers[:idx]...)
	next = append(next, b.subscribers[idx+1:]...)
	b.subscribers = next

	b.log.Debug().Str("handle", handle.String()).Int("listeners", len(next)).Msg("Listener unsubscribed")
	return true
}

// Len returns the number of active listeners.
func (b *InMemoryBus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dispatch delivers event to every listener subscribed when the call starts.
func (b *InMemoryBus) Dispatch(ctx context.Context, event domain.Event) {
	b.mu.RLock() // Lock only to copy the slice header
	subs := b.subscribers
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(ctx, s, event)
	}

	b.log.Trace().
		Str("variant", event.Variant().String()).
		Int("listeners", len(subs)).
		Msg("Event dispatched")
}

// deliver calls one listener. A listener that panics is removed so it
// cannot take the connection down with it.
func (b *InMemoryBus) deliver(ctx context.Context, s subscriber, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Str("handle", s.handle.String()).
				Str("variant", event.Variant().String()).
				Str("panic", fmt.Sprint(r)).
				Msg("Listener panicked, deactivating it")
			b.Unsubscribe(s.handle)
		}
	}()

	if err := s.listener.OnEvent(ctx, event); err != nil {
		b.log.Error().Err(err).
			Str("handle", s.handle.String()).
			Str("variant", event.Variant().String()).
			Msg("Listener failed")
	}
}
