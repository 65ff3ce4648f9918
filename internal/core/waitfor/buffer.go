package waitfor

import (
	"IRCHooks/internal/core/domain"
	"context"
	"sync"
	"time"
)

// buffer is an unbounded FIFO. Producers never block; one consumer blocks
// in pop until an item, a deadline, cancellation or close.
type buffer struct {
	mu     sync.Mutex
	items  []domain.Event
	closed bool

	ready chan struct{} // holds at most one pending wake-up
	done  chan struct{} // closed by close
}

func newBuffer() *buffer {
	return &buffer{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// push appends e. It reports false once the buffer is closed.
func (b *buffer) push(e domain.Event) bool {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return false
	}
	b.items = append(b.items, e)
	b.mu.Unlock()

	select {
	case b.ready <- struct{}{}:
	default: // a wake-up is already pending
	}
	return true
}

// pop removes the oldest item. Buffered items are returned without looking
// at ctx or expired; those are only consulted when pop has to block.
func (b *buffer) pop(ctx context.Context, expired <-chan time.Time) (domain.Event, error) {
	for {
		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			return nil, ErrClosed
		}
		if len(b.items) > 0 {
			e := b.items[0]
			b.items[0] = nil
			b.items = b.items[1:]
			b.mu.Unlock()
			return e, nil
		}
		b.mu.Unlock()

		select {
		case <-b.ready:
		case <-b.done:
			return nil, ErrClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-expired:
			return nil, ErrTimeout
		}
	}
}

// tryPop removes the oldest item without blocking.
func (b *buffer) tryPop() (domain.Event, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, false, ErrClosed
	}
	if len(b.items) == 0 {
		return nil, false, nil
	}
	e := b.items[0]
	b.items[0] = nil
	b.items = b.items[1:]
	return e, true, nil
}

// isClosed reports whether close was called.
func (b *buffer) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// len returns the number of buffered items.
func (b *buffer) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// close drops everything buffered and wakes a blocked pop. Safe to call twice.
func (b *buffer) close() (dropped int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0
	}
	dropped = len(b.items)
	b.closed = true
	b.items = nil
	close(b.done)
	return dropped
}
