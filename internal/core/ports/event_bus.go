package ports

import (
	"IRCHooks/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// Listener receives every event the dispatcher broadcasts.
type Listener interface {
	OnEvent(ctx context.Context, event domain.Event) error
}

// ListenerFunc adapts a plain function to a Listener.
type ListenerFunc func(ctx context.Context, event domain.Event) error

// OnEvent calls f.
func (f ListenerFunc) OnEvent(ctx context.Context, event domain.Event) error {
	return f(ctx, event)
}

// Handle identifies one subscription.
type Handle uuid.UUID

// String returns the handle's UUID text.
func (h Handle) String() string {
	return uuid.UUID(h).String()
}

// Dispatcher is the subscription side of our in-process event bus.
type Dispatcher interface {
	// Subscribe registers listener and returns the handle that removes it.
	Subscribe(listener Listener) Handle

	// Unsubscribe removes the listener behind handle. It reports false
	// when the handle is unknown or was already removed.
	Unsubscribe(handle Handle) bool
}
