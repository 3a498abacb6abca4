package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// FIND BY FRIEND CODE QUERY
// Resolves a shared friend code to a profile preview, so the family can
// confirm who they are about to add.
// ══════════════════════════════════════════════════════════════════════════════

// ErrOwnCode is returned when a profile looks up its own friend code.
var ErrOwnCode = shared.NewDomainError("social", "FindByFriendCode", shared.ErrInvalidInput, "that is your own code")

// FindByFriendCodeQuery resolves a code on behalf of a requesting profile.
type FindByFriendCodeQuery struct {
	// RequesterID is the profile performing the lookup.
	RequesterID string

	// FriendCode is the code being resolved.
	FriendCode string
}

// Validate validates the query.
func (q FindByFriendCodeQuery) Validate() error {
	if q.RequesterID == "" {
		return errors.New("find_by_friend_code: requester_id is required")
	}
	if !learner.FriendCode(q.FriendCode).IsValid() {
		return learner.ErrMalformedFriendCode
	}
	return nil
}

// FriendPreview is what the requester sees before confirming.
type FriendPreview struct {
	LearnerID   string
	DisplayName string
	AvatarColor string
	Score       learner.Score
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// FindByFriendCodeHandler handles the FindByFriendCodeQuery.
type FindByFriendCodeHandler struct {
	learnerRepo learner.Repository
}

// NewFindByFriendCodeHandler creates a new FindByFriendCodeHandler.
func NewFindByFriendCodeHandler(learnerRepo learner.Repository) *FindByFriendCodeHandler {
	return &FindByFriendCodeHandler{learnerRepo: learnerRepo}
}

// Handle resolves the code to a preview, rejecting the requester's own.
func (h *FindByFriendCodeHandler) Handle(ctx context.Context, q FindByFriendCodeQuery) (*FriendPreview, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	// Codes are stored lowercase; normalize so a shouted "PATO#0042"
	// still resolves.
	found, err := h.learnerRepo.GetByFriendCode(ctx, learner.FriendCode(q.FriendCode).Normalized())
	if err != nil {
		return nil, fmt.Errorf("find_by_friend_code: %w", err)
	}

	if found.ID == q.RequesterID {
		return nil, ErrOwnCode
	}

	return &FriendPreview{
		LearnerID:   found.ID,
		DisplayName: found.DisplayName,
		AvatarColor: found.AvatarColor,
		Score:       found.Score,
	}, nil
}
