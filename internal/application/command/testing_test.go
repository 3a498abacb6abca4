package command

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/activity"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/shared"
)

// memLearnerRepo is an in-memory learner.Repository for handler tests.
type memLearnerRepo struct {
	mu       sync.Mutex
	learners map[string]*learner.Learner

	failUpdateScore bool
	scoreWrites     int
}

func newMemLearnerRepo(learners ...*learner.Learner) *memLearnerRepo {
	repo := &memLearnerRepo{learners: make(map[string]*learner.Learner)}
	for _, l := range learners {
		repo.learners[l.ID] = l.Clone()
	}
	return repo
}

func (r *memLearnerRepo) Create(_ context.Context, l *learner.Learner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.learners[l.ID]; ok {
		return learner.ErrLearnerAlreadyExists
	}
	r.learners[l.ID] = l.Clone()
	return nil
}

func (r *memLearnerRepo) GetByID(_ context.Context, id string) (*learner.Learner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.learners[id]
	if !ok {
		return nil, learner.ErrLearnerNotFound
	}
	return l.Clone(), nil
}

func (r *memLearnerRepo) GetByIDs(_ context.Context, ids []string) ([]*learner.Learner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*learner.Learner
	for _, id := range ids {
		if l, ok := r.learners[id]; ok {
			result = append(result, l.Clone())
		}
	}
	return result, nil
}

func (r *memLearnerRepo) GetByOwnerID(_ context.Context, ownerID learner.OwnerID) ([]*learner.Learner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*learner.Learner
	for _, l := range r.learners {
		if l.OwnerID == ownerID {
			result = append(result, l.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *memLearnerRepo) GetByFriendCode(_ context.Context, code learner.FriendCode) (*learner.Learner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.learners {
		if l.FriendCode == code {
			return l.Clone(), nil
		}
	}
	return nil, learner.ErrLearnerNotFound
}

func (r *memLearnerRepo) ExistsByFriendCode(_ context.Context, code learner.FriendCode) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.learners {
		if l.FriendCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memLearnerRepo) UpdateScore(_ context.Context, id string, score learner.Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdateScore {
		return errors.New("storage unavailable")
	}
	l, ok := r.learners[id]
	if !ok {
		return learner.ErrLearnerNotFound
	}
	r.scoreWrites++
	l.Score = score
	return nil
}

func (r *memLearnerRepo) SetFriendCode(_ context.Context, id string, code learner.FriendCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.learners[id]
	if !ok {
		return learner.ErrLearnerNotFound
	}
	if l.FriendCode != "" {
		return learner.ErrFriendCodeAlreadySet
	}
	for _, other := range r.learners {
		if other.FriendCode == code {
			return learner.ErrFriendCodeTaken
		}
	}
	l.FriendCode = code
	return nil
}

func (r *memLearnerRepo) AddFriendPair(_ context.Context, learnerID, friendID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, okA := r.learners[learnerID]
	b, okB := r.learners[friendID]
	if !okA || !okB {
		return learner.ErrLearnerNotFound
	}
	if err := a.AddFriend(friendID); err != nil {
		return err
	}
	return b.AddFriend(learnerID)
}

func (r *memLearnerRepo) RemoveFriendPair(_ context.Context, learnerID, friendID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.learners[learnerID]; ok {
		a.RemoveFriend(friendID)
	}
	if b, ok := r.learners[friendID]; ok {
		b.RemoveFriend(learnerID)
	}
	return nil
}

func (r *memLearnerRepo) Update(_ context.Context, l *learner.Learner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.learners[l.ID]; !ok {
		return learner.ErrLearnerNotFound
	}
	r.learners[l.ID] = l.Clone()
	return nil
}

// memActivityRepo is an in-memory activity.Repository for handler tests.
type memActivityRepo struct {
	mu       sync.Mutex
	tutoring map[string][]*activity.TutoringEvent
	guides   map[string][]*activity.GuideEvent

	failList bool
}

func newMemActivityRepo() *memActivityRepo {
	return &memActivityRepo{
		tutoring: make(map[string][]*activity.TutoringEvent),
		guides:   make(map[string][]*activity.GuideEvent),
	}
}

func (r *memActivityRepo) UpsertTutoring(_ context.Context, e *activity.TutoringEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.tutoring[e.LearnerID] {
		if existing.ID == e.ID {
			r.tutoring[e.LearnerID][i] = e
			return nil
		}
	}
	r.tutoring[e.LearnerID] = append(r.tutoring[e.LearnerID], e)
	return nil
}

func (r *memActivityRepo) AppendGuide(_ context.Context, e *activity.GuideEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guides[e.LearnerID] = append(r.guides[e.LearnerID], e)
	return nil
}

func (r *memActivityRepo) ListTutoringByLearner(_ context.Context, learnerID string, since time.Time) ([]*activity.TutoringEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList {
		return nil, errors.New("activity source unavailable")
	}
	var result []*activity.TutoringEvent
	for _, e := range r.tutoring[learnerID] {
		if !e.LastTouchedAt.Before(since) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *memActivityRepo) ListGuidesByLearner(_ context.Context, learnerID string) ([]*activity.GuideEvent, error) {
	return r.ListGuidesByLearnerSince(context.Background(), learnerID, time.Time{})
}

func (r *memActivityRepo) ListGuidesByLearnerSince(_ context.Context, learnerID string, since time.Time) ([]*activity.GuideEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList {
		return nil, errors.New("activity source unavailable")
	}
	var result []*activity.GuideEvent
	for _, e := range r.guides[learnerID] {
		if !e.OccurredAt.Before(since) {
			result = append(result, e)
		}
	}
	return result, nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *recordingPublisher) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) byType(t shared.EventType) []shared.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var result []shared.Event
	for _, e := range p.events {
		if e.EventType() == t {
			result = append(result, e)
		}
	}
	return result
}
