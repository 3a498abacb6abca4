package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/activity"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/progress"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/shared"
	"github.com/sebasbersa/aula-digital-sub000/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD GUIDE ATTEMPT COMMAND
// Stores a graded practice-guide submission and refreshes the learner's
// cumulative score. Ranking points are computed and frozen at write time;
// later tier changes never rewrite history.
// ══════════════════════════════════════════════════════════════════════════════

// RecordGuideAttemptCommand contains one graded guide submission.
type RecordGuideAttemptCommand struct {
	// LearnerID is the profile that submitted the guide.
	LearnerID string

	// SubjectID is the curriculum subject the guide belongs to.
	SubjectID string

	// Topic is the guide title as shown to the family.
	Topic string

	// RawScore is the grade on the 1.0-7.0 scale.
	RawScore float64

	// OccurredAt is when the submission was graded. Zero means now.
	OccurredAt time.Time
}

// Validate validates the command.
func (c RecordGuideAttemptCommand) Validate() error {
	if c.LearnerID == "" {
		return errors.New("record_guide_attempt: learner_id is required")
	}
	if c.Topic == "" {
		return errors.New("record_guide_attempt: topic is required")
	}
	if c.RawScore < 1.0 || c.RawScore > 7.0 {
		return activity.ErrScoreOutOfRange
	}
	return nil
}

// RecordGuideAttemptResult contains the stored fact and the score outcome.
type RecordGuideAttemptResult struct {
	// EventID is the ID of the stored guide fact.
	EventID string

	// RankingPoints is the tier value frozen into the fact.
	RankingPoints int

	// Score is the refresh outcome triggered by this submission.
	Score *RefreshScoreResult
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecordGuideAttemptHandler handles the RecordGuideAttemptCommand.
type RecordGuideAttemptHandler struct {
	learnerRepo    learner.Repository
	activityRepo   activity.Repository
	refreshScore   *RefreshScoreHandler
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewRecordGuideAttemptHandler creates a new RecordGuideAttemptHandler.
func NewRecordGuideAttemptHandler(
	learnerRepo learner.Repository,
	activityRepo activity.Repository,
	refreshScore *RefreshScoreHandler,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *RecordGuideAttemptHandler {
	if log == nil {
		log = logger.Default()
	}
	return &RecordGuideAttemptHandler{
		learnerRepo:    learnerRepo,
		activityRepo:   activityRepo,
		refreshScore:   refreshScore,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("record_guide_attempt")),
	}
}

// Handle stores the submission fact and recomputes the score.
func (h *RecordGuideAttemptHandler) Handle(ctx context.Context, cmd RecordGuideAttemptCommand) (*RecordGuideAttemptResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if _, err := h.learnerRepo.GetByID(ctx, cmd.LearnerID); err != nil {
		return nil, fmt.Errorf("record_guide_attempt: load learner: %w", err)
	}

	occurredAt := cmd.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	points := progress.RankingPoints(cmd.RawScore)

	event, err := activity.NewGuideEvent(activity.NewGuideEventParams{
		ID:            uuid.NewString(),
		LearnerID:     cmd.LearnerID,
		SubjectID:     cmd.SubjectID,
		Topic:         cmd.Topic,
		RawScore:      cmd.RawScore,
		RankingPoints: points,
		OccurredAt:    occurredAt,
	})
	if err != nil {
		return nil, fmt.Errorf("record_guide_attempt: %w", err)
	}

	if err := h.activityRepo.AppendGuide(ctx, event); err != nil {
		return nil, fmt.Errorf("record_guide_attempt: store fact: %w", err)
	}

	h.log.Info("guide attempt recorded",
		logger.LearnerID(cmd.LearnerID),
		logger.String("topic", event.Topic),
		logger.Int("ranking_points", points),
	)

	if err := h.eventPublisher.Publish(shared.NewGuideRecordedEvent(
		cmd.LearnerID, event.SubjectID, event.Topic, cmd.RawScore, points,
	)); err != nil {
		h.log.Warn("failed to publish guide recorded",
			logger.LearnerID(cmd.LearnerID),
			logger.Err(err),
		)
	}

	scoreResult, err := h.refreshScore.Handle(ctx, RefreshScoreCommand{LearnerID: cmd.LearnerID})
	if err != nil {
		// The fact is stored; the next refresh will pick it up.
		return nil, fmt.Errorf("record_guide_attempt: refresh score: %w", err)
	}

	return &RecordGuideAttemptResult{
		EventID:       event.ID,
		RankingPoints: points,
		Score:         scoreResult,
	}, nil
}
