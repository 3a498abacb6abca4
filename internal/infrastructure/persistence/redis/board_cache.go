package redis

import (
	"context"
	"fmt"

	"github.com/sebasbersa/aula-digital-sub000/internal/application/query"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// BOARD CACHE
// ══════════════════════════════════════════════════════════════════════════════

// BoardCache stores per-learner leaderboard snapshots. A learner's own
// board is invalidated on their score changes; boards where they appear
// as a friend expire via TTLLeaderboard.
type BoardCache struct {
	cache *Cache
}

// NewBoardCache creates a new board cache.
func NewBoardCache(cache *Cache) *BoardCache {
	return &BoardCache{cache: cache}
}

func boardKey(learnerID string) string {
	return PrefixBoard + learnerID
}

// GetBoard returns the cached board for a learner, or ErrCacheMiss.
func (bc *BoardCache) GetBoard(ctx context.Context, learnerID string) (*leaderboard.Board, error) {
	var board leaderboard.Board
	if err := bc.cache.Get(ctx, boardKey(learnerID), &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// SetBoard stores a board snapshot.
func (bc *BoardCache) SetBoard(ctx context.Context, board *leaderboard.Board) error {
	return bc.cache.Set(ctx, boardKey(board.LearnerID), board, TTLLeaderboard)
}

// InvalidateBoard drops the cached board of a learner.
func (bc *BoardCache) InvalidateBoard(ctx context.Context, learnerID string) error {
	return bc.cache.Delete(ctx, boardKey(learnerID))
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS OVERVIEW CACHE
// ══════════════════════════════════════════════════════════════════════════════

// OverviewCache stores per-learner progress overviews.
type OverviewCache struct {
	cache *Cache
}

// NewOverviewCache creates a new overview cache.
func NewOverviewCache(cache *Cache) *OverviewCache {
	return &OverviewCache{cache: cache}
}

func summaryKey(learnerID string) string {
	return PrefixSummary + learnerID
}

// GetOverview returns the cached overview for a learner, or ErrCacheMiss.
func (oc *OverviewCache) GetOverview(ctx context.Context, learnerID string) (*query.ProgressOverview, error) {
	var overview query.ProgressOverview
	if err := oc.cache.Get(ctx, summaryKey(learnerID), &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// SetOverview stores an overview snapshot.
func (oc *OverviewCache) SetOverview(ctx context.Context, overview *query.ProgressOverview) error {
	if overview == nil {
		return fmt.Errorf("overview cannot be nil")
	}
	return oc.cache.Set(ctx, summaryKey(overview.LearnerID), overview, TTLProgressSummary)
}

// InvalidateOverview drops the cached overview of a learner.
func (oc *OverviewCache) InvalidateOverview(ctx context.Context, learnerID string) error {
	return oc.cache.Delete(ctx, summaryKey(learnerID))
}

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOTS
// ══════════════════════════════════════════════════════════════════════════════

// Snapshots bundles the per-learner read model caches behind one value,
// so subscribers can invalidate everything a score change touches.
type Snapshots struct {
	Boards    *BoardCache
	Overviews *OverviewCache
}

// NewSnapshots creates the bundle over one cache client.
func NewSnapshots(cache *Cache) *Snapshots {
	return &Snapshots{
		Boards:    NewBoardCache(cache),
		Overviews: NewOverviewCache(cache),
	}
}

// InvalidateBoard drops the cached board of a learner.
func (s *Snapshots) InvalidateBoard(ctx context.Context, learnerID string) error {
	return s.Boards.InvalidateBoard(ctx, learnerID)
}

// InvalidateOverview drops the cached overview of a learner.
func (s *Snapshots) InvalidateOverview(ctx context.Context, learnerID string) error {
	return s.Overviews.InvalidateOverview(ctx, learnerID)
}
