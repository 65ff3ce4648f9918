// Package waitfor lets a goroutine block until the dispatcher broadcasts a
// particular kind of event.
//
// Example:
//
//	q, err := waitfor.New(bus, &log)
//	if err != nil {
//		return err
//	}
//	defer q.Close()
//	for {
//		msg, err := waitfor.Next[*domain.MessageEvent](ctx, q, domain.VariantMessage)
//		if err != nil {
//			return err
//		}
//		// process msg
//	}
package waitfor

import (
	"IRCHooks/internal/core/domain"
	"IRCHooks/internal/core/ports"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Queue buffers every event dispatched after it was created until a
// WaitFor call consumes it.
//
// A Queue supports a single consumer. Concurrent WaitFor calls on the same
// Queue are safe but split the buffered events between them in no
// particular order.
//
// Every dispatched event is retained until it is consumed, matching or
// not, so a Queue must be closed when done or it grows for as long as the
// dispatcher lives.
type Queue struct {
	log        zerolog.Logger
	dispatcher ports.Dispatcher
	handle     ports.Handle
	buf        *buffer
	closeOnce  sync.Once
}

// New subscribes a fresh queue to dispatcher. A nil baseLogger disables
// logging.
func New(dispatcher ports.Dispatcher, baseLogger *zerolog.Logger) (*Queue, error) {
	// also catches a typed nil such as (*eventbus.InMemoryBus)(nil)
	if lo.IsNil(dispatcher) {
		return nil, ErrNilDispatcher
	}
	if baseLogger == nil {
		nop := zerolog.Nop()
		baseLogger = &nop
	}

	q := &Queue{
		dispatcher: dispatcher,
		buf:        newBuffer(),
	}
	q.handle = dispatcher.Subscribe(&queueListener{buf: q.buf})
	q.log = baseLogger.With().
		Str("component", "wait_queue").
		Str("handle", q.handle.String()).
		Logger()

	q.log.Debug().Msg("Wait queue subscribed")
	return q, nil
}

// Use runs fn with a new queue and always closes it afterwards.
func Use(dispatcher ports.Dispatcher, baseLogger *zerolog.Logger, fn func(q *Queue) error) error {
	q, err := New(dispatcher, baseLogger)
	if err != nil {
		return err
	}
	defer q.Close()
	return fn(q)
}

// WaitFor blocks until an event matching variant is dequeued.
func (q *Queue) WaitFor(ctx context.Context, variant domain.Variant) (domain.Event, error) {
	return q.WaitForAny(ctx, domain.Variants(variant))
}

// WaitForAny blocks until an event matching any entry of variants is
// dequeued. Events dequeued before the match are discarded.
func (q *Queue) WaitForAny(ctx context.Context, variants domain.VariantSet) (domain.Event, error) {
	return q.wait(ctx, variants, nil)
}

// WaitForTimeout is WaitForAny bounded by timeout. The deadline is fixed
// when the call starts; discarding non-matching events does not extend it,
// and the deadline is checked after every discarded event, so a backlog of
// non-matching events cannot hold the caller past it. ErrTimeout is
// returned when the deadline passes.
//
// A timeout <= 0 never blocks: it examines the events buffered when the
// call starts and reports ErrTimeout if none of them matches.
func (q *Queue) WaitForTimeout(ctx context.Context, variants domain.VariantSet, timeout time.Duration) (domain.Event, error) {
	if timeout <= 0 {
		return q.poll(variants)
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	return q.wait(ctx, variants, timer.C)
}

func (q *Queue) wait(ctx context.Context, variants domain.VariantSet, expired <-chan time.Time) (domain.Event, error) {
	if len(variants) == 0 {
		return nil, ErrNoVariants
	}

	discarded := 0
	for {
		event, err := q.buf.pop(ctx, expired)
		if err != nil {
			q.log.Debug().Err(err).
				Stringer("variants", variants).
				Int("discarded", discarded).
				Msg("Wait ended without a match")
			return nil, err
		}

		if variants.Matches(event.Variant()) {
			q.log.Trace().
				Str("variant", event.Variant().String()).
				Int("discarded", discarded).
				Msg("Wait matched")
			return event, nil
		}
		discarded++

		// pop serves buffered events without looking at the deadline or ctx.
		select {
		case <-expired:
			q.log.Debug().Int("discarded", discarded).Msg("Wait timed out while discarding")
			return nil, ErrTimeout
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
	}
}

// poll examines at most the events buffered when it starts.
func (q *Queue) poll(variants domain.VariantSet) (domain.Event, error) {
	if len(variants) == 0 {
		return nil, ErrNoVariants
	}
	if q.buf.isClosed() {
		return nil, ErrClosed
	}

	for range q.buf.len() {
		event, ok, err := q.buf.tryPop()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if variants.Matches(event.Variant()) {
			return event, nil
		}
	}
	return nil, ErrTimeout
}

// Len returns the number of events buffered and not yet consumed.
func (q *Queue) Len() int {
	return q.buf.len()
}

// Close unsubscribes the queue and drops anything still buffered. A
// blocked WaitFor returns ErrClosed, as does every later one. Calling
// Close more than once is a no-op.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		if !q.dispatcher.Unsubscribe(q.handle) {
			q.log.Warn().Msg("Wait queue was already unsubscribed")
		}
		dropped := q.buf.close()
		q.log.Debug().Int("dropped", dropped).Msg("Wait queue closed")
	})
}

// Next waits for variant and returns the event as E.
func Next[E domain.Event](ctx context.Context, q *Queue, variant domain.Variant) (E, error) {
	return typed[E](q.WaitFor(ctx, variant))
}

// NextWithin is Next bounded by timeout, with WaitForTimeout's deadline rules.
func NextWithin[E domain.Event](ctx context.Context, q *Queue, variant domain.Variant, timeout time.Duration) (E, error) {
	return typed[E](q.WaitForTimeout(ctx, domain.Variants(variant), timeout))
}

func typed[E domain.Event](event domain.Event, err error) (E, error) {
	var zero E
	if err != nil {
		return zero, err
	}
	e, ok := event.(E)
	if !ok {
		return zero, fmt.Errorf("%w: %T for variant %s", ErrUnexpectedType, event, event.Variant())
	}
	return e, nil
}
