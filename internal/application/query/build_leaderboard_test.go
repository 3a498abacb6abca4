package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/leaderboard"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
)

// fakeLearnerRepo serves profiles from a map and records batch sizes.
type fakeLearnerRepo struct {
	learners   map[string]*learner.Learner
	batchSizes []int
}

func newFakeLearnerRepo(learners ...*learner.Learner) *fakeLearnerRepo {
	repo := &fakeLearnerRepo{learners: make(map[string]*learner.Learner)}
	for _, l := range learners {
		repo.learners[l.ID] = l
	}
	return repo
}

func (r *fakeLearnerRepo) Create(context.Context, *learner.Learner) error { return nil }

func (r *fakeLearnerRepo) GetByID(_ context.Context, id string) (*learner.Learner, error) {
	l, ok := r.learners[id]
	if !ok {
		return nil, learner.ErrLearnerNotFound
	}
	return l, nil
}

func (r *fakeLearnerRepo) GetByIDs(_ context.Context, ids []string) ([]*learner.Learner, error) {
	var result []*learner.Learner
	for start := 0; start < len(ids); start += learner.BatchGetLimit {
		end := start + learner.BatchGetLimit
		if end > len(ids) {
			end = len(ids)
		}
		r.batchSizes = append(r.batchSizes, end-start)
		for _, id := range ids[start:end] {
			if l, ok := r.learners[id]; ok {
				result = append(result, l)
			}
		}
	}
	return result, nil
}

func (r *fakeLearnerRepo) GetByOwnerID(context.Context, learner.OwnerID) ([]*learner.Learner, error) {
	return nil, nil
}

func (r *fakeLearnerRepo) GetByFriendCode(_ context.Context, code learner.FriendCode) (*learner.Learner, error) {
	for _, l := range r.learners {
		if l.FriendCode == code {
			return l, nil
		}
	}
	return nil, learner.ErrLearnerNotFound
}

func (r *fakeLearnerRepo) ExistsByFriendCode(context.Context, learner.FriendCode) (bool, error) {
	return false, nil
}

func (r *fakeLearnerRepo) UpdateScore(context.Context, string, learner.Score) error { return nil }

func (r *fakeLearnerRepo) SetFriendCode(context.Context, string, learner.FriendCode) error {
	return nil
}

func (r *fakeLearnerRepo) AddFriendPair(context.Context, string, string) error    { return nil }
func (r *fakeLearnerRepo) RemoveFriendPair(context.Context, string, string) error { return nil }
func (r *fakeLearnerRepo) Update(context.Context, *learner.Learner) error         { return nil }

// memBoardCache is an in-memory BoardCache.
type memBoardCache struct {
	boards map[string]*leaderboard.Board
	hits   int
}

func newMemBoardCache() *memBoardCache {
	return &memBoardCache{boards: make(map[string]*leaderboard.Board)}
}

func (c *memBoardCache) GetBoard(_ context.Context, learnerID string) (*leaderboard.Board, error) {
	board, ok := c.boards[learnerID]
	if !ok {
		return nil, learner.ErrLearnerNotFound
	}
	c.hits++
	return board, nil
}

func (c *memBoardCache) SetBoard(_ context.Context, board *leaderboard.Board) error {
	c.boards[board.LearnerID] = board
	return nil
}

func profile(id string, score learner.Score, friends ...string) *learner.Learner {
	return &learner.Learner{ID: id, DisplayName: "Perfil " + id, Score: score, Friends: friends}
}

func TestBuildLeaderboardHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("orders with deterministic tie-break", func(t *testing.T) {
		repo := newFakeLearnerRepo(
			profile("a", 50, "b", "c"),
			profile("b", 120),
			profile("c", 120),
		)
		h := NewBuildLeaderboardHandler(repo, nil, nil)

		board, err := h.Handle(ctx, BuildLeaderboardQuery{LearnerID: "a"})
		require.NoError(t, err)

		require.Len(t, board.Entries, 3)
		assert.Equal(t, "b", board.Entries[0].LearnerID)
		assert.Equal(t, "c", board.Entries[1].LearnerID)
		assert.Equal(t, "a", board.Entries[2].LearnerID)
		assert.Equal(t, 3, board.SelfRank())
	})

	t.Run("friend list is fetched in bounded batches", func(t *testing.T) {
		self := profile("self", 10)
		all := []*learner.Learner{self}
		for i := 0; i < 23; i++ {
			id := string(rune('a'+i/10)) + string(rune('0'+i%10))
			all = append(all, profile(id, learner.Score(i)))
			self.Friends = append(self.Friends, id)
		}

		repo := newFakeLearnerRepo(all...)
		h := NewBuildLeaderboardHandler(repo, nil, nil)

		board, err := h.Handle(ctx, BuildLeaderboardQuery{LearnerID: "self"})
		require.NoError(t, err)

		assert.Len(t, board.Entries, 24)
		assert.Equal(t, []int{10, 10, 3}, repo.batchSizes)
	})

	t.Run("deleted friends are skipped", func(t *testing.T) {
		repo := newFakeLearnerRepo(
			profile("a", 50, "b", "ghost"),
			profile("b", 20),
		)
		h := NewBuildLeaderboardHandler(repo, nil, nil)

		board, err := h.Handle(ctx, BuildLeaderboardQuery{LearnerID: "a"})
		require.NoError(t, err)

		assert.Len(t, board.Entries, 2)
	})

	t.Run("cache read-through", func(t *testing.T) {
		repo := newFakeLearnerRepo(profile("a", 50, "b"), profile("b", 20))
		cache := newMemBoardCache()
		h := NewBuildLeaderboardHandler(repo, cache, nil)

		first, err := h.Handle(ctx, BuildLeaderboardQuery{LearnerID: "a"})
		require.NoError(t, err)
		assert.Zero(t, cache.hits)

		second, err := h.Handle(ctx, BuildLeaderboardQuery{LearnerID: "a"})
		require.NoError(t, err)
		assert.Equal(t, 1, cache.hits)
		assert.Equal(t, first.Entries, second.Entries)

		// SkipCache bypasses the snapshot.
		_, err = h.Handle(ctx, BuildLeaderboardQuery{LearnerID: "a", SkipCache: true})
		require.NoError(t, err)
		assert.Equal(t, 1, cache.hits)
	})

	t.Run("unknown learner", func(t *testing.T) {
		h := NewBuildLeaderboardHandler(newFakeLearnerRepo(), nil, nil)
		_, err := h.Handle(ctx, BuildLeaderboardQuery{LearnerID: "nope"})
		assert.ErrorIs(t, err, learner.ErrLearnerNotFound)
	})
}

func TestFindByFriendCodeHandlerBasic(t *testing.T) {
	ctx := context.Background()

	repo := newFakeLearnerRepo(
		&learner.Learner{ID: "a", DisplayName: "Sofía", FriendCode: "sofia#0412", Score: 80},
		&learner.Learner{ID: "b", DisplayName: "Ana", FriendCode: "ana#7001"},
	)
	h := NewFindByFriendCodeHandler(repo)

	preview, err := h.Handle(ctx, FindByFriendCodeQuery{RequesterID: "a", FriendCode: "ana#7001"})
	require.NoError(t, err)
	assert.Equal(t, "b", preview.LearnerID)
	assert.Equal(t, "Ana", preview.DisplayName)

	_, err = h.Handle(ctx, FindByFriendCodeQuery{RequesterID: "a", FriendCode: "sofia#0412"})
	assert.ErrorIs(t, err, ErrOwnCode)

	_, err = h.Handle(ctx, FindByFriendCodeQuery{RequesterID: "a", FriendCode: "nadie#0001"})
	assert.ErrorIs(t, err, learner.ErrLearnerNotFound)

	_, err = h.Handle(ctx, FindByFriendCodeQuery{RequesterID: "a", FriendCode: "bad"})
	assert.ErrorIs(t, err, learner.ErrMalformedFriendCode)
}
