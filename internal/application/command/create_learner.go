package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/shared"
	"github.com/sebasbersa/aula-digital-sub000/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE LEARNER COMMAND
// Registers a new learning profile under a family account. The friend
// code is NOT assigned here; it is generated lazily on first use.
// ══════════════════════════════════════════════════════════════════════════════

// CreateLearnerCommand contains the data for a new profile.
type CreateLearnerCommand struct {
	// OwnerID is the family account that owns the profile.
	OwnerID string

	// DisplayName is the name shown to the family and friends.
	DisplayName string

	// IsAdult marks adult profiles.
	IsAdult bool

	// AvatarColor is the avatar color chosen at creation.
	AvatarColor string
}

// Validate validates the command.
func (c CreateLearnerCommand) Validate() error {
	if c.OwnerID == "" {
		return errors.New("create_learner: owner_id is required")
	}
	if c.DisplayName == "" {
		return errors.New("create_learner: display_name is required")
	}
	return nil
}

// CreateLearnerResult contains the created profile.
type CreateLearnerResult struct {
	Learner *learner.Learner
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// CreateLearnerHandler handles the CreateLearnerCommand.
type CreateLearnerHandler struct {
	learnerRepo    learner.Repository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewCreateLearnerHandler creates a new CreateLearnerHandler.
func NewCreateLearnerHandler(
	learnerRepo learner.Repository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *CreateLearnerHandler {
	if log == nil {
		log = logger.Default()
	}
	return &CreateLearnerHandler{
		learnerRepo:    learnerRepo,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("create_learner")),
	}
}

// Handle creates and stores the profile.
func (h *CreateLearnerHandler) Handle(ctx context.Context, cmd CreateLearnerCommand) (*CreateLearnerResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	l, err := learner.NewLearner(learner.NewLearnerParams{
		ID:          uuid.NewString(),
		OwnerID:     learner.OwnerID(cmd.OwnerID),
		DisplayName: cmd.DisplayName,
		IsAdult:     cmd.IsAdult,
		AvatarColor: cmd.AvatarColor,
	})
	if err != nil {
		return nil, fmt.Errorf("create_learner: %w", err)
	}

	if err := h.learnerRepo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create_learner: store profile: %w", err)
	}

	h.log.Info("learner created",
		logger.LearnerID(l.ID),
		logger.OwnerID(string(l.OwnerID)),
	)

	if err := h.eventPublisher.Publish(shared.NewLearnerCreatedEvent(l.ID, string(l.OwnerID), l.DisplayName)); err != nil {
		h.log.Warn("failed to publish learner created",
			logger.LearnerID(l.ID),
			logger.Err(err),
		)
	}

	return &CreateLearnerResult{Learner: l}, nil
}
