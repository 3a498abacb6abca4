package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/activity"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/shared"
	"github.com/sebasbersa/aula-digital-sub000/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD TUTORING TOUCH COMMAND
// Marks that a learner saved or resumed a tutoring conversation. One
// record per conversation: a repeat touch bumps its last-touched time.
// ══════════════════════════════════════════════════════════════════════════════

// RecordTutoringTouchCommand marks tutoring activity for a learner.
type RecordTutoringTouchCommand struct {
	// LearnerID is the profile that had a tutoring session.
	LearnerID string

	// ConversationID identifies the saved conversation.
	ConversationID string

	// SubjectID is the curriculum subject of the conversation.
	SubjectID string

	// Title is the conversation title as shown to the learner.
	Title string

	// TouchedAt is when the save happened. Zero means now.
	TouchedAt time.Time
}

// Validate validates the command.
func (c RecordTutoringTouchCommand) Validate() error {
	if c.LearnerID == "" {
		return errors.New("record_tutoring_touch: learner_id is required")
	}
	if c.ConversationID == "" {
		return errors.New("record_tutoring_touch: conversation_id is required")
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecordTutoringTouchHandler handles the RecordTutoringTouchCommand.
type RecordTutoringTouchHandler struct {
	learnerRepo    learner.Repository
	activityRepo   activity.Repository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewRecordTutoringTouchHandler creates a new RecordTutoringTouchHandler.
func NewRecordTutoringTouchHandler(
	learnerRepo learner.Repository,
	activityRepo activity.Repository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *RecordTutoringTouchHandler {
	if log == nil {
		log = logger.Default()
	}
	return &RecordTutoringTouchHandler{
		learnerRepo:    learnerRepo,
		activityRepo:   activityRepo,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("record_tutoring_touch")),
	}
}

// Handle records the tutoring fact.
func (h *RecordTutoringTouchHandler) Handle(ctx context.Context, cmd RecordTutoringTouchCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if _, err := h.learnerRepo.GetByID(ctx, cmd.LearnerID); err != nil {
		return fmt.Errorf("record_tutoring_touch: load learner: %w", err)
	}

	touchedAt := cmd.TouchedAt
	if touchedAt.IsZero() {
		touchedAt = time.Now().UTC()
	}

	event, err := activity.NewTutoringEvent(activity.NewTutoringEventParams{
		ID:        cmd.ConversationID,
		LearnerID: cmd.LearnerID,
		SubjectID: cmd.SubjectID,
		Title:     cmd.Title,
		TouchedAt: touchedAt,
	})
	if err != nil {
		return fmt.Errorf("record_tutoring_touch: %w", err)
	}

	if err := h.activityRepo.UpsertTutoring(ctx, event); err != nil {
		return fmt.Errorf("record_tutoring_touch: store fact: %w", err)
	}

	h.log.Debug("tutoring touch recorded", logger.LearnerID(cmd.LearnerID))

	if err := h.eventPublisher.Publish(shared.NewTutoringTouchedEvent(cmd.LearnerID, cmd.ConversationID)); err != nil {
		h.log.Warn("failed to publish tutoring touch",
			logger.LearnerID(cmd.LearnerID),
			logger.Err(err),
		)
	}

	return nil
}
