// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/activity"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/progress"
	"github.com/sebasbersa/aula-digital-sub000/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STREAK QUERY
// Computes the weekly streak on demand from the activity history. The
// streak is never stored; staleness handles itself because the value is
// derived from facts at read time.
// ══════════════════════════════════════════════════════════════════════════════

// StreakLookbackWeeks bounds how much history feeds the computation.
// A streak longer than this cannot happen within the product's lifetime
// assumptions; if it ever does, the value reads as the cap.
const StreakLookbackWeeks = 104

// GetStreakQuery asks for one learner's current streak.
type GetStreakQuery struct {
	// LearnerID is the profile whose streak is computed.
	LearnerID string

	// Now overrides the evaluation instant. Zero means time.Now.
	Now time.Time
}

// Validate validates the query.
func (q GetStreakQuery) Validate() error {
	if q.LearnerID == "" {
		return errors.New("get_streak: learner_id is required")
	}
	return nil
}

// GetStreakResult contains the computed streak.
type GetStreakResult struct {
	// LearnerID is the profile the streak belongs to.
	LearnerID string

	// Streak is the number of consecutive successful weeks.
	Streak int
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetStreakHandler handles the GetStreakQuery.
type GetStreakHandler struct {
	learnerRepo    learner.Repository
	activitySource activity.Source
	loc            *time.Location
}

// NewGetStreakHandler creates a new GetStreakHandler. The location
// decides week boundaries; nil falls back to the product default.
func NewGetStreakHandler(learnerRepo learner.Repository, activitySource activity.Source, loc *time.Location) *GetStreakHandler {
	if loc == nil {
		loc = timeutil.SantiagoTZ
	}
	return &GetStreakHandler{
		learnerRepo:    learnerRepo,
		activitySource: activitySource,
		loc:            loc,
	}
}

// Handle computes the streak from the recent activity history.
func (h *GetStreakHandler) Handle(ctx context.Context, q GetStreakQuery) (*GetStreakResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if _, err := h.learnerRepo.GetByID(ctx, q.LearnerID); err != nil {
		return nil, fmt.Errorf("get_streak: load learner: %w", err)
	}

	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}

	lessons, guides, err := loadActivityWindow(ctx, h.activitySource, q.LearnerID, now, h.loc)
	if err != nil {
		return nil, fmt.Errorf("get_streak: %w", err)
	}

	return &GetStreakResult{
		LearnerID: q.LearnerID,
		Streak:    progress.ComputeStreak(lessons, guides, now, h.loc),
	}, nil
}

// loadActivityWindow fetches lesson and guide timestamps within the
// streak lookback window.
func loadActivityWindow(ctx context.Context, source activity.Source, learnerID string, now time.Time, loc *time.Location) ([]time.Time, []time.Time, error) {
	since := timeutil.StartOfWeek(now, loc).AddDate(0, 0, -7*StreakLookbackWeeks)

	tutoring, err := source.ListTutoringByLearner(ctx, learnerID, since)
	if err != nil {
		return nil, nil, fmt.Errorf("load tutoring history: %w", err)
	}

	guideEvents, err := source.ListGuidesByLearnerSince(ctx, learnerID, since)
	if err != nil {
		return nil, nil, fmt.Errorf("load guide history: %w", err)
	}

	lessons := make([]time.Time, 0, len(tutoring))
	for _, e := range tutoring {
		lessons = append(lessons, e.LastTouchedAt)
	}

	guides := make([]time.Time, 0, len(guideEvents))
	for _, e := range guideEvents {
		guides = append(guides, e.OccurredAt)
	}

	return lessons, guides, nil
}
