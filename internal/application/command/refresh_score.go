// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/activity"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/progress"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/shared"
	"github.com/sebasbersa/aula-digital-sub000/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REFRESH SCORE COMMAND
// Full recompute of a learner's cumulative score from the guide history.
// Runs when a guide attempt lands or when a caller explicitly asks for a
// sync. There is no incremental path: recomputing from facts is what
// makes the score self-healing.
// ══════════════════════════════════════════════════════════════════════════════

// RefreshScoreCommand asks for a score recompute of one learner.
type RefreshScoreCommand struct {
	// LearnerID is the profile whose score is recomputed.
	LearnerID string
}

// Validate validates the command.
func (c RefreshScoreCommand) Validate() error {
	if c.LearnerID == "" {
		return errors.New("refresh_score: learner_id is required")
	}
	return nil
}

// RefreshScoreResult contains the outcome of a score refresh.
type RefreshScoreResult struct {
	// LearnerID is the refreshed profile.
	LearnerID string

	// OldScore is the stored score before the recompute.
	OldScore learner.Score

	// NewScore is the recomputed score.
	NewScore learner.Score

	// Changed is true when the recompute produced a different total.
	Changed bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RefreshScoreHandler handles the RefreshScoreCommand.
type RefreshScoreHandler struct {
	learnerRepo    learner.Repository
	activitySource activity.Source
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewRefreshScoreHandler creates a new RefreshScoreHandler.
func NewRefreshScoreHandler(
	learnerRepo learner.Repository,
	activitySource activity.Source,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *RefreshScoreHandler {
	if log == nil {
		log = logger.Default()
	}
	return &RefreshScoreHandler{
		learnerRepo:    learnerRepo,
		activitySource: activitySource,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("refresh_score")),
	}
}

// Handle recomputes and persists the score, then publishes the change.
// A history fetch failure aborts before any write: the stored score must
// never be replaced with a total computed from partial data.
func (h *RefreshScoreHandler) Handle(ctx context.Context, cmd RefreshScoreCommand) (*RefreshScoreResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	current, err := h.learnerRepo.GetByID(ctx, cmd.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("refresh_score: load learner: %w", err)
	}

	guides, err := h.activitySource.ListGuidesByLearner(ctx, cmd.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("refresh_score: load guide history: %w", err)
	}

	newScore := progress.ComputeScore(guides)

	result := &RefreshScoreResult{
		LearnerID: cmd.LearnerID,
		OldScore:  current.Score,
		NewScore:  newScore,
		Changed:   newScore != current.Score,
	}

	if !result.Changed {
		return result, nil
	}

	if err := h.learnerRepo.UpdateScore(ctx, cmd.LearnerID, newScore); err != nil {
		return nil, fmt.Errorf("refresh_score: persist score: %w", err)
	}

	h.log.Info("score refreshed",
		logger.LearnerID(cmd.LearnerID),
		logger.Int("old_score", int(current.Score)),
		logger.Int("new_score", int(newScore)),
	)

	event := shared.NewScoreChangedEvent(cmd.LearnerID, int(current.Score), int(newScore))
	if err := h.eventPublisher.Publish(event); err != nil {
		// The write already landed; subscribers catch up via TTLs.
		h.log.Warn("failed to publish score change",
			logger.LearnerID(cmd.LearnerID),
			logger.Err(err),
		)
	}

	return result, nil
}
