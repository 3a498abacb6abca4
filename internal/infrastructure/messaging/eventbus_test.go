package messaging

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/shared"
)

func newSyncBus() *InMemoryEventBus {
	return NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: false})
}

func TestInMemoryEventBus_PublishSubscribe(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var received []shared.Event
	err := bus.Subscribe(shared.EventScoreChanged, func(e shared.Event) error {
		received = append(received, e)
		return nil
	})
	require.NoError(t, err)

	event := shared.NewScoreChangedEvent("learner-1", 50, 80)
	require.NoError(t, bus.Publish(event))

	require.Len(t, received, 1)
	assert.Equal(t, shared.EventScoreChanged, received[0].EventType())
	assert.Equal(t, "learner-1", received[0].AggregateID())
}

func TestInMemoryEventBus_MultipleHandlers(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	calls := 0
	for i := 0; i < 3; i++ {
		require.NoError(t, bus.Subscribe(shared.EventScoreChanged, func(shared.Event) error {
			calls++
			return nil
		}))
	}

	require.NoError(t, bus.Publish(shared.NewScoreChangedEvent("learner-1", 0, 10)))
	assert.Equal(t, 3, calls)
}

func TestInMemoryEventBus_HandlerErrorDoesNotPropagate(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventScoreChanged, func(shared.Event) error {
		return errors.New("cache unavailable")
	}))

	// The publisher must never see subscriber failures.
	assert.NoError(t, bus.Publish(shared.NewScoreChangedEvent("learner-1", 0, 10)))

	snapshot := bus.Metrics().Snapshot()
	assert.Equal(t, int64(1), snapshot.HandlerFailures)
}

func TestInMemoryEventBus_UnsubscribedTypeIsNoop(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventFriendAdded, func(shared.Event) error {
		t.Fatal("handler for another type must not fire")
		return nil
	}))

	assert.NoError(t, bus.Publish(shared.NewScoreChangedEvent("learner-1", 0, 10)))
}

func TestInMemoryEventBus_Async(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: true, WorkerPoolSize: 4})

	var mu sync.Mutex
	received := 0
	done := make(chan struct{})

	require.NoError(t, bus.Subscribe(shared.EventScoreChanged, func(shared.Event) error {
		mu.Lock()
		received++
		if received == 5 {
			close(done)
		}
		mu.Unlock()
		return nil
	}))

	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Publish(shared.NewScoreChangedEvent("learner-1", i, i+10)))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handlers did not run in time")
	}

	require.NoError(t, bus.Close())
}

func TestInMemoryEventBus_Closed(t *testing.T) {
	bus := newSyncBus()
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(shared.NewScoreChangedEvent("learner-1", 0, 10)), ErrEventBusClosed)
	assert.ErrorIs(t, bus.Subscribe(shared.EventScoreChanged, func(shared.Event) error { return nil }), ErrEventBusClosed)

	// Closing twice is safe.
	assert.NoError(t, bus.Close())
}
