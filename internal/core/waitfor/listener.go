package waitfor

import (
	"IRCHooks/internal/core/domain"
	"context"
)

// queueListener is what the queue subscribes to the dispatcher. It only
// buffers: no filtering, no blocking and never an error, since the
// dispatcher may drop listeners that misbehave.
type queueListener struct {
	buf *buffer
}

func (l *queueListener) OnEvent(_ context.Context, event domain.Event) error {
	if event == nil {
		return nil
	}
	// After close the event is dropped; an unsubscribe can race with a
	// dispatch that already copied the listener list.
	l.buf.push(event)
	return nil
}
