package eventbus

import (
	"IRCHooks/internal/core/domain"
	"IRCHooks/internal/core/ports"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus() *InMemoryBus {
	nopLogger := zerolog.Nop()
	return NewInMemoryBus(&nopLogger)
}

func ping() domain.Event {
	return domain.NewServerPingEvent(nil, "t")
}

func TestInMemoryBus_DeliversInSubscriptionOrder(t *testing.T) {
	// 1. Setup
	bus := newTestBus()
	var got []string
	for _, name := range []string{"first", "second", "third"} {
		bus.Subscribe(ports.ListenerFunc(func(context.Context, domain.Event) error {
			got = append(got, name)
			return nil
		}))
	}

	// 2. Execute
	bus.Dispatch(context.Background(), ping())

	// 3. Assert
	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestInMemoryBus_Unsubscribe(t *testing.T) {
	bus := newTestBus()
	var calls atomic.Int32
	h := bus.Subscribe(ports.ListenerFunc(func(context.Context, domain.Event) error {
		calls.Add(1)
		return nil
	}))

	bus.Dispatch(context.Background(), ping())
	require.True(t, bus.Unsubscribe(h))
	assert.False(t, bus.Unsubscribe(h), "second unsubscribe must report false")
	bus.Dispatch(context.Background(), ping())

	assert.EqualValues(t, 1, calls.Load())
	assert.Zero(t, bus.Len())
	assert.False(t, bus.Unsubscribe(ports.Handle{}), "unknown handle")
}

func TestInMemoryBus_ListenerErrorDoesNotStopDelivery(t *testing.T) {
	bus := newTestBus()
	var reached bool
	bus.Subscribe(ports.ListenerFunc(func(context.Context, domain.Event) error {
		return errors.New("boom")
	}))
	bus.Subscribe(ports.ListenerFunc(func(context.Context, domain.Event) error {
		reached = true
		return nil
	}))

	bus.Dispatch(context.Background(), ping())

	assert.True(t, reached)
	assert.Equal(t, 2, bus.Len(), "an error does not deactivate the listener")
}

func TestInMemoryBus_PanickingListenerIsDeactivated(t *testing.T) {
	bus := newTestBus()
	var after atomic.Int32
	bus.Subscribe(ports.ListenerFunc(func(context.Context, domain.Event) error {
		panic("listener bug")
	}))
	bus.Subscribe(ports.ListenerFunc(func(context.Context, domain.Event) error {
		after.Add(1)
		return nil
	}))

	assert.NotPanics(t, func() {
		bus.Dispatch(context.Background(), ping())
		bus.Dispatch(context.Background(), ping())
	})

	assert.EqualValues(t, 2, after.Load())
	assert.Equal(t, 1, bus.Len())
}

func TestInMemoryBus_UnsubscribeDuringDispatch(t *testing.T) {
	bus := newTestBus()
	var second atomic.Int32
	var h ports.Handle
	h = bus.Subscribe(ports.ListenerFunc(func(context.Context, domain.Event) error {
		bus.Unsubscribe(h)
		return nil
	}))
	bus.Subscribe(ports.ListenerFunc(func(context.Context, domain.Event) error {
		second.Add(1)
		return nil
	}))

	bus.Dispatch(context.Background(), ping())

	assert.EqualValues(t, 1, second.Load(), "the in-flight dispatch still reaches later listeners")
	assert.Equal(t, 1, bus.Len())
}

func TestInMemoryBus_ConcurrentDispatch(t *testing.T) {
	bus := newTestBus()
	var calls atomic.Int32
	bus.Subscribe(ports.ListenerFunc(func(context.Context, domain.Event) error {
		calls.Add(1)
		return nil
	}))

	const producers, perProducer = 8, 100
	var wg sync.WaitGroup
	for range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perProducer {
				bus.Dispatch(context.Background(), ping())
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, producers*perProducer, calls.Load())
}
