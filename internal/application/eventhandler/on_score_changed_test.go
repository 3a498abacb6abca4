package eventhandler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/shared"
	"github.com/sebasbersa/aula-digital-sub000/internal/infrastructure/messaging"
)

type fakeInvalidator struct {
	boards    []string
	overviews []string
}

func (f *fakeInvalidator) InvalidateBoard(_ context.Context, learnerID string) error {
	f.boards = append(f.boards, learnerID)
	return nil
}

func (f *fakeInvalidator) InvalidateOverview(_ context.Context, learnerID string) error {
	f.overviews = append(f.overviews, learnerID)
	return nil
}

func TestOnScoreChanged_Handle(t *testing.T) {
	invalidator := &fakeInvalidator{}
	h := NewOnScoreChanged(invalidator, nil)

	err := h.Handle(shared.NewScoreChangedEvent("learner-1", 50, 80))
	require.NoError(t, err)

	assert.Equal(t, []string{"learner-1"}, invalidator.boards)
	assert.Equal(t, []string{"learner-1"}, invalidator.overviews)
}

func TestOnScoreChanged_ThroughBus(t *testing.T) {
	invalidator := &fakeInvalidator{}
	h := NewOnScoreChanged(invalidator, nil)

	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{AsyncMode: false})
	defer bus.Close()
	require.NoError(t, h.Register(bus))

	require.NoError(t, bus.Publish(shared.NewScoreChangedEvent("learner-2", 0, 30)))
	assert.Equal(t, []string{"learner-2"}, invalidator.boards)

	// Other event types pass the subscriber by.
	require.NoError(t, bus.Publish(shared.NewFriendAddedEvent("learner-2", "x")))
	assert.Len(t, invalidator.boards, 1)
}
