// Package eventhandler contains subscribers that react to domain events.
// This is where the score sync channel terminates: views that display a
// score register here and drop their snapshots when it changes.
package eventhandler

import (
	"context"
	"fmt"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/shared"
	"github.com/sebasbersa/aula-digital-sub000/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON SCORE CHANGED
// ══════════════════════════════════════════════════════════════════════════════

// SnapshotInvalidator drops cached read models of one learner.
type SnapshotInvalidator interface {
	InvalidateBoard(ctx context.Context, learnerID string) error
	InvalidateOverview(ctx context.Context, learnerID string) error
}

// OnScoreChanged invalidates cached read models when a learner's score
// changes. Friends' boards are not touched here; their snapshots expire
// via TTL.
type OnScoreChanged struct {
	invalidator SnapshotInvalidator
	log         *logger.Logger
}

// NewOnScoreChanged creates the subscriber.
func NewOnScoreChanged(invalidator SnapshotInvalidator, log *logger.Logger) *OnScoreChanged {
	if log == nil {
		log = logger.Default()
	}
	return &OnScoreChanged{
		invalidator: invalidator,
		log:         log.With(logger.Component("on_score_changed")),
	}
}

// Register subscribes the handler on the given bus.
func (h *OnScoreChanged) Register(bus shared.EventSubscriber) error {
	return bus.Subscribe(shared.EventScoreChanged, h.Handle)
}

// Handle processes one score change event.
func (h *OnScoreChanged) Handle(event shared.Event) error {
	changed, ok := event.(shared.ScoreChangedEvent)
	if !ok {
		return fmt.Errorf("on_score_changed: unexpected event %T", event)
	}

	ctx := context.Background()

	if err := h.invalidator.InvalidateBoard(ctx, changed.LearnerID); err != nil {
		return fmt.Errorf("on_score_changed: invalidate board: %w", err)
	}
	if err := h.invalidator.InvalidateOverview(ctx, changed.LearnerID); err != nil {
		return fmt.Errorf("on_score_changed: invalidate overview: %w", err)
	}

	h.log.Debug("snapshots invalidated",
		logger.LearnerID(changed.LearnerID),
		logger.Int("new_score", changed.NewScore),
	)

	return nil
}
