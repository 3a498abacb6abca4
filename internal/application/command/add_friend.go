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
// ADD FRIEND COMMAND
// Creates a symmetric friendship edge from a shared friend code. Both
// profiles are updated in one transaction: a crash can never leave the
// edge on one side only.
// ══════════════════════════════════════════════════════════════════════════════

// Errors of the friend commands.
var (
	// ErrOwnFriendCode is returned when a profile enters its own code.
	ErrOwnFriendCode = shared.NewDomainError("social", "AddFriend", shared.ErrInvalidInput, "cannot use your own friend code")
)

// AddFriendCommand adds a friend by their shared code.
type AddFriendCommand struct {
	// LearnerID is the profile adding a friend.
	LearnerID string

	// FriendCode is the code shared by the other family.
	FriendCode string
}

// Validate validates the command.
func (c AddFriendCommand) Validate() error {
	if c.LearnerID == "" {
		return errors.New("add_friend: learner_id is required")
	}
	if !learner.FriendCode(c.FriendCode).IsValid() {
		return learner.ErrMalformedFriendCode
	}
	return nil
}

// AddFriendResult describes the created edge.
type AddFriendResult struct {
	// FriendID is the profile behind the code.
	FriendID string

	// FriendName is the display name of the new friend.
	FriendName string

	// AlreadyFriends is true when the edge existed before the call.
	AlreadyFriends bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// AddFriendHandler handles the AddFriendCommand.
type AddFriendHandler struct {
	learnerRepo    learner.Repository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewAddFriendHandler creates a new AddFriendHandler.
func NewAddFriendHandler(
	learnerRepo learner.Repository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *AddFriendHandler {
	if log == nil {
		log = logger.Default()
	}
	return &AddFriendHandler{
		learnerRepo:    learnerRepo,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("add_friend")),
	}
}

// Handle resolves the code and creates the edge on both profiles.
func (h *AddFriendHandler) Handle(ctx context.Context, cmd AddFriendCommand) (*AddFriendResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	l, err := h.learnerRepo.GetByID(ctx, cmd.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("add_friend: load learner: %w", err)
	}

	// Codes are stored lowercase; normalizing here keeps lookups
	// case-insensitive no matter how the family typed the code.
	friend, err := h.learnerRepo.GetByFriendCode(ctx, learner.FriendCode(cmd.FriendCode).Normalized())
	if err != nil {
		return nil, fmt.Errorf("add_friend: resolve code: %w", err)
	}

	if friend.ID == l.ID {
		return nil, ErrOwnFriendCode
	}

	if l.HasFriend(friend.ID) {
		return &AddFriendResult{
			FriendID:       friend.ID,
			FriendName:     friend.DisplayName,
			AlreadyFriends: true,
		}, nil
	}

	if err := h.learnerRepo.AddFriendPair(ctx, l.ID, friend.ID); err != nil {
		return nil, fmt.Errorf("add_friend: store edge: %w", err)
	}

	h.log.Info("friend added",
		logger.LearnerID(l.ID),
		logger.String("friend_id", friend.ID),
	)

	if err := h.eventPublisher.Publish(shared.NewFriendAddedEvent(l.ID, friend.ID)); err != nil {
		h.log.Warn("failed to publish friend added",
			logger.LearnerID(l.ID),
			logger.Err(err),
		)
	}

	return &AddFriendResult{FriendID: friend.ID, FriendName: friend.DisplayName}, nil
}
