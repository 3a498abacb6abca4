package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/shared"
	"github.com/sebasbersa/aula-digital-sub000/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REMOVE FRIEND COMMAND
// Removes a friendship edge from both profiles in one transaction.
// Removing someone who was not a friend is a quiet no-op.
// ══════════════════════════════════════════════════════════════════════════════

// RemoveFriendCommand removes a friend by profile ID.
type RemoveFriendCommand struct {
	// LearnerID is the profile removing a friend.
	LearnerID string

	// FriendID is the profile being removed.
	FriendID string
}

// Validate validates the command.
func (c RemoveFriendCommand) Validate() error {
	if c.LearnerID == "" {
		return errors.New("remove_friend: learner_id is required")
	}
	if c.FriendID == "" {
		return errors.New("remove_friend: friend_id is required")
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RemoveFriendHandler handles the RemoveFriendCommand.
type RemoveFriendHandler struct {
	learnerRepo    learner.Repository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewRemoveFriendHandler creates a new RemoveFriendHandler.
func NewRemoveFriendHandler(
	learnerRepo learner.Repository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *RemoveFriendHandler {
	if log == nil {
		log = logger.Default()
	}
	return &RemoveFriendHandler{
		learnerRepo:    learnerRepo,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("remove_friend")),
	}
}

// Handle removes the edge from both profiles.
func (h *RemoveFriendHandler) Handle(ctx context.Context, cmd RemoveFriendCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	l, err := h.learnerRepo.GetByID(ctx, cmd.LearnerID)
	if err != nil {
		return fmt.Errorf("remove_friend: load learner: %w", err)
	}

	if !l.HasFriend(cmd.FriendID) {
		return nil
	}

	if err := h.learnerRepo.RemoveFriendPair(ctx, l.ID, cmd.FriendID); err != nil {
		if errors.Is(err, learner.ErrLearnerNotFound) {
			return nil
		}
		return fmt.Errorf("remove_friend: remove edge: %w", err)
	}

	h.log.Info("friend removed",
		logger.LearnerID(l.ID),
		logger.String("friend_id", cmd.FriendID),
	)

	if err := h.eventPublisher.Publish(shared.NewFriendRemovedEvent(l.ID, cmd.FriendID)); err != nil {
		h.log.Warn("failed to publish friend removed",
			logger.LearnerID(l.ID),
			logger.Err(err),
		)
	}

	return nil
}
