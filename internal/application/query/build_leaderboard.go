package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/leaderboard"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/shared"
	"github.com/sebasbersa/aula-digital-sub000/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// BUILD LEADERBOARD QUERY
// Assembles the friends leaderboard for one learner: their own row plus
// one row per friend, ordered by score. Friends are fetched in bounded
// batches; friends deleted elsewhere are skipped, not errors.
// ══════════════════════════════════════════════════════════════════════════════

// BuildLeaderboardQuery asks for one learner's friends leaderboard.
type BuildLeaderboardQuery struct {
	// LearnerID is the profile requesting the board.
	LearnerID string

	// SkipCache forces a fresh read from storage.
	SkipCache bool
}

// Validate validates the query.
func (q BuildLeaderboardQuery) Validate() error {
	if q.LearnerID == "" {
		return errors.New("build_leaderboard: learner_id is required")
	}
	return nil
}

// BoardCache is the snapshot cache the handler reads through.
type BoardCache interface {
	GetBoard(ctx context.Context, learnerID string) (*leaderboard.Board, error)
	SetBoard(ctx context.Context, board *leaderboard.Board) error
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// BuildLeaderboardHandler handles the BuildLeaderboardQuery.
type BuildLeaderboardHandler struct {
	learnerRepo learner.Repository
	cache       BoardCache
	log         *logger.Logger
}

// NewBuildLeaderboardHandler creates a new BuildLeaderboardHandler.
// The cache is optional; a nil cache reads from storage every time.
func NewBuildLeaderboardHandler(learnerRepo learner.Repository, cache BoardCache, log *logger.Logger) *BuildLeaderboardHandler {
	if log == nil {
		log = logger.Default()
	}
	return &BuildLeaderboardHandler{
		learnerRepo: learnerRepo,
		cache:       cache,
		log:         log.With(logger.Component("build_leaderboard")),
	}
}

// Handle returns the leaderboard, reading through the snapshot cache.
func (h *BuildLeaderboardHandler) Handle(ctx context.Context, q BuildLeaderboardQuery) (*leaderboard.Board, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if h.cache != nil && !q.SkipCache {
		board, err := h.cache.GetBoard(ctx, q.LearnerID)
		if err == nil {
			return board, nil
		}
		if !shared.IsNotFound(err) {
			h.log.Warn("board snapshot read failed",
				logger.LearnerID(q.LearnerID),
				logger.Err(err),
			)
		}
	}

	self, err := h.learnerRepo.GetByID(ctx, q.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("build_leaderboard: load learner: %w", err)
	}

	friends, err := h.learnerRepo.GetByIDs(ctx, self.Friends)
	if err != nil {
		return nil, fmt.Errorf("build_leaderboard: load friends: %w", err)
	}

	board := leaderboard.Build(self, friends)

	if h.cache != nil {
		if err := h.cache.SetBoard(ctx, board); err != nil {
			// A failed snapshot write only costs the next read.
			h.log.Warn("failed to cache board",
				logger.LearnerID(q.LearnerID),
				logger.Err(err),
			)
		}
	}

	return board, nil
}
