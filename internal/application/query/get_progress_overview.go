package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/activity"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/progress"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/shared"
	"github.com/sebasbersa/aula-digital-sub000/pkg/logger"
	"github.com/sebasbersa/aula-digital-sub000/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROGRESS OVERVIEW QUERY
// The parent-facing dashboard: stored score, derived streak, and a
// week-by-week breakdown of recent activity against the goals.
// ══════════════════════════════════════════════════════════════════════════════

// OverviewWeeks is how many recent weeks the breakdown covers.
const OverviewWeeks = 8

// GetProgressOverviewQuery asks for one learner's overview.
type GetProgressOverviewQuery struct {
	// LearnerID is the profile being summarized.
	LearnerID string

	// Now overrides the evaluation instant. Zero means time.Now.
	Now time.Time

	// SkipCache forces a fresh read from storage.
	SkipCache bool
}

// Validate validates the query.
func (q GetProgressOverviewQuery) Validate() error {
	if q.LearnerID == "" {
		return errors.New("get_progress_overview: learner_id is required")
	}
	return nil
}

// ProgressOverview is the assembled dashboard read model.
type ProgressOverview struct {
	LearnerID   string
	DisplayName string
	Score       learner.Score
	Streak      int
	Weeks       []progress.WeekProgress
}

// OverviewCache is the snapshot cache the handler reads through.
type OverviewCache interface {
	GetOverview(ctx context.Context, learnerID string) (*ProgressOverview, error)
	SetOverview(ctx context.Context, overview *ProgressOverview) error
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetProgressOverviewHandler handles the GetProgressOverviewQuery.
type GetProgressOverviewHandler struct {
	learnerRepo    learner.Repository
	activitySource activity.Source
	cache          OverviewCache
	loc            *time.Location
	log            *logger.Logger
}

// NewGetProgressOverviewHandler creates a new GetProgressOverviewHandler.
// The cache is optional.
func NewGetProgressOverviewHandler(
	learnerRepo learner.Repository,
	activitySource activity.Source,
	cache OverviewCache,
	loc *time.Location,
	log *logger.Logger,
) *GetProgressOverviewHandler {
	if loc == nil {
		loc = timeutil.SantiagoTZ
	}
	if log == nil {
		log = logger.Default()
	}
	return &GetProgressOverviewHandler{
		learnerRepo:    learnerRepo,
		activitySource: activitySource,
		cache:          cache,
		loc:            loc,
		log:            log.With(logger.Component("get_progress_overview")),
	}
}

// Handle assembles the overview, reading through the snapshot cache.
func (h *GetProgressOverviewHandler) Handle(ctx context.Context, q GetProgressOverviewQuery) (*ProgressOverview, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if h.cache != nil && !q.SkipCache {
		overview, err := h.cache.GetOverview(ctx, q.LearnerID)
		if err == nil {
			return overview, nil
		}
		// A miss just falls through to recompute; a broken cache is
		// worth a warning but never fails the read.
		if !shared.IsNotFound(err) {
			h.log.Warn("overview snapshot read failed",
				logger.LearnerID(q.LearnerID),
				logger.Err(err),
			)
		}
	}

	l, err := h.learnerRepo.GetByID(ctx, q.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("get_progress_overview: load learner: %w", err)
	}

	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}

	lessons, guides, err := loadActivityWindow(ctx, h.activitySource, q.LearnerID, now, h.loc)
	if err != nil {
		return nil, fmt.Errorf("get_progress_overview: %w", err)
	}

	overview := &ProgressOverview{
		LearnerID:   l.ID,
		DisplayName: l.DisplayName,
		Score:       l.Score,
		Streak:      progress.ComputeStreak(lessons, guides, now, h.loc),
		Weeks:       progress.WeeklyBreakdown(lessons, guides, now, h.loc, OverviewWeeks),
	}

	if h.cache != nil {
		if err := h.cache.SetOverview(ctx, overview); err != nil {
			h.log.Warn("failed to cache overview",
				logger.LearnerID(q.LearnerID),
				logger.Err(err),
			)
		}
	}

	return overview, nil
}
