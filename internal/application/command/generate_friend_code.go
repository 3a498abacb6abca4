package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/shared"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/social"
	"github.com/sebasbersa/aula-digital-sub000/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GENERATE FRIEND CODE COMMAND
// Assigns a shareable friend code on first use. Calling again for a
// profile that already holds a code returns the existing one unchanged.
// ══════════════════════════════════════════════════════════════════════════════

// GenerateFriendCodeCommand asks for a friend code for one profile.
type GenerateFriendCodeCommand struct {
	// LearnerID is the profile requesting a code.
	LearnerID string
}

// Validate validates the command.
func (c GenerateFriendCodeCommand) Validate() error {
	if c.LearnerID == "" {
		return errors.New("generate_friend_code: learner_id is required")
	}
	return nil
}

// GenerateFriendCodeResult contains the assigned code.
type GenerateFriendCodeResult struct {
	// Code is the profile's friend code.
	Code learner.FriendCode

	// Generated is false when the profile already had a code.
	Generated bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GenerateFriendCodeHandler handles the GenerateFriendCodeCommand.
type GenerateFriendCodeHandler struct {
	learnerRepo    learner.Repository
	generator      *social.Generator
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewGenerateFriendCodeHandler creates a new GenerateFriendCodeHandler.
func NewGenerateFriendCodeHandler(
	learnerRepo learner.Repository,
	generator *social.Generator,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *GenerateFriendCodeHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GenerateFriendCodeHandler{
		learnerRepo:    learnerRepo,
		generator:      generator,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("generate_friend_code")),
	}
}

// Handle assigns a unique code, retrying on suffix collisions.
func (h *GenerateFriendCodeHandler) Handle(ctx context.Context, cmd GenerateFriendCodeCommand) (*GenerateFriendCodeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	l, err := h.learnerRepo.GetByID(ctx, cmd.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("generate_friend_code: load learner: %w", err)
	}

	if l.FriendCode != "" {
		return &GenerateFriendCodeResult{Code: l.FriendCode, Generated: false}, nil
	}

	code, err := h.generator.Generate(ctx, l.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("generate_friend_code: %w", err)
	}

	if err := h.learnerRepo.SetFriendCode(ctx, cmd.LearnerID, code); err != nil {
		// A concurrent assignment may have won; the stored code stands.
		if errors.Is(err, learner.ErrFriendCodeAlreadySet) {
			stored, loadErr := h.learnerRepo.GetByID(ctx, cmd.LearnerID)
			if loadErr != nil {
				return nil, fmt.Errorf("generate_friend_code: reload learner: %w", loadErr)
			}
			return &GenerateFriendCodeResult{Code: stored.FriendCode, Generated: false}, nil
		}
		return nil, fmt.Errorf("generate_friend_code: store code: %w", err)
	}

	h.log.Info("friend code assigned",
		logger.LearnerID(cmd.LearnerID),
		logger.FriendCode(string(code)),
	)

	if err := h.eventPublisher.Publish(shared.NewFriendCodeAssignedEvent(cmd.LearnerID, string(code))); err != nil {
		h.log.Warn("failed to publish friend code assigned",
			logger.LearnerID(cmd.LearnerID),
			logger.Err(err),
		)
	}

	return &GenerateFriendCodeResult{Code: code, Generated: true}, nil
}
