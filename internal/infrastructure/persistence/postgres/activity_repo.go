package postgres

import (
	"context"
	"time"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/activity"
	"github.com/sebasbersa/aula-digital-sub000/pkg/timeutil"
)

// ActivityRepository is the PostgreSQL implementation of activity.Repository.
// Tutoring facts are keyed by conversation; guide facts are append-only.
type ActivityRepository struct {
	conn *Connection
	loc  *time.Location
}

// NewActivityRepository creates a new activity repository. The location
// is kept for callers that derive calendar buckets from the rows.
func NewActivityRepository(conn *Connection, loc *time.Location) *ActivityRepository {
	if loc == nil {
		loc = timeutil.SantiagoTZ
	}
	return &ActivityRepository{conn: conn, loc: loc}
}

// UpsertTutoring records a tutoring touch. Re-saving an existing
// conversation bumps last_touched_at and refreshes the title.
func (r *ActivityRepository) UpsertTutoring(ctx context.Context, event *activity.TutoringEvent) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO tutoring_events (id, learner_id, subject_id, title, last_touched_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			last_touched_at = EXCLUDED.last_touched_at
	`,
		event.ID,
		event.LearnerID,
		event.SubjectID,
		event.Title,
		event.LastTouchedAt,
		event.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return activity.ErrInvalidLearnerID
		}
		return storeErr("UpsertTutoring", "upsert tutoring event", err)
	}

	return nil
}

// AppendGuide stores a graded guide submission.
func (r *ActivityRepository) AppendGuide(ctx context.Context, event *activity.GuideEvent) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO guide_events (id, learner_id, subject_id, topic, raw_score, ranking_points, occurred_at, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		event.ID,
		event.LearnerID,
		event.SubjectID,
		event.Topic,
		event.RawScore,
		event.RankingPoints,
		event.OccurredAt,
		event.RecordedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return activity.ErrInvalidLearnerID
		}
		return storeErr("AppendGuide", "append guide event", err)
	}

	return nil
}

// ListTutoringByLearner returns the conversations touched since the given
// time, ordered by last touch.
func (r *ActivityRepository) ListTutoringByLearner(ctx context.Context, learnerID string, since time.Time) ([]*activity.TutoringEvent, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, learner_id, subject_id, title, last_touched_at, created_at
		FROM tutoring_events
		WHERE learner_id = $1 AND last_touched_at >= $2
		ORDER BY last_touched_at
	`, learnerID, since)
	if err != nil {
		return nil, storeErr("ListTutoringByLearner", "list tutoring events", err)
	}
	defer rows.Close()

	var events []*activity.TutoringEvent
	for rows.Next() {
		var e activity.TutoringEvent
		err := rows.Scan(
			&e.ID,
			&e.LearnerID,
			&e.SubjectID,
			&e.Title,
			&e.LastTouchedAt,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, storeErr("ListTutoringByLearner", "scan tutoring row", err)
		}
		events = append(events, &e)
	}

	return events, rows.Err()
}

// ListGuidesByLearner returns the complete guide history of a profile.
func (r *ActivityRepository) ListGuidesByLearner(ctx context.Context, learnerID string) ([]*activity.GuideEvent, error) {
	return r.listGuides(ctx, learnerID, time.Time{})
}

// ListGuidesByLearnerSince returns guide submissions since the given time.
func (r *ActivityRepository) ListGuidesByLearnerSince(ctx context.Context, learnerID string, since time.Time) ([]*activity.GuideEvent, error) {
	return r.listGuides(ctx, learnerID, since)
}

func (r *ActivityRepository) listGuides(ctx context.Context, learnerID string, since time.Time) ([]*activity.GuideEvent, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, learner_id, subject_id, topic, raw_score, ranking_points, occurred_at, recorded_at
		FROM guide_events
		WHERE learner_id = $1 AND occurred_at >= $2
		ORDER BY occurred_at
	`, learnerID, since)
	if err != nil {
		return nil, storeErr("ListGuides", "list guide events", err)
	}
	defer rows.Close()

	var events []*activity.GuideEvent
	for rows.Next() {
		var e activity.GuideEvent
		err := rows.Scan(
			&e.ID,
			&e.LearnerID,
			&e.SubjectID,
			&e.Topic,
			&e.RawScore,
			&e.RankingPoints,
			&e.OccurredAt,
			&e.RecordedAt,
		)
		if err != nil {
			return nil, storeErr("ListGuides", "scan guide row", err)
		}
		events = append(events, &e)
	}

	return events, rows.Err()
}
