// Package shared contains common domain types, errors, and events used
// across all domain packages.
package shared

import "time"

// EventType represents the type of domain event.
type EventType string

// Domain event types. The score-changed event is the engine's score sync
// channel: views that display a score subscribe to it and refresh.
const (
	// Learner events
	EventLearnerCreated EventType = "learner.created"

	// Progress events
	EventScoreChanged  EventType = "progress.score_changed"
	EventGuideRecorded EventType = "progress.guide_recorded"

	// Activity events
	EventTutoringTouched EventType = "activity.tutoring_touched"

	// Social events
	EventFriendAdded        EventType = "social.friend_added"
	EventFriendRemoved      EventType = "social.friend_removed"
	EventFriendCodeAssigned EventType = "social.friend_code_assigned"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string
}

// EventHandler processes a single event. Returning an error is logged by
// the bus, never propagated to the publisher.
type EventHandler func(Event) error

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(event Event) error
}

// EventSubscriber registers handlers for events.
type EventSubscriber interface {
	Subscribe(eventType EventType, handler EventHandler) error
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType implements Event.
func (e BaseEvent) EventType() EventType { return e.Type }

// OccurredAt implements Event.
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// AggregateID implements Event.
func (e BaseEvent) AggregateID() string { return e.AggregateId }

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{Type: eventType, Timestamp: time.Now().UTC(), AggregateId: aggregateID}
}

// ScoreChangedEvent is emitted after the score aggregator persists a new
// total for a learner. OldScore equals NewScore when a refresh recomputed
// the same value; subscribers may skip those.
type ScoreChangedEvent struct {
	BaseEvent
	LearnerID string `json:"learner_id"`
	OldScore  int    `json:"old_score"`
	NewScore  int    `json:"new_score"`
}

// NewScoreChangedEvent creates a new ScoreChangedEvent.
func NewScoreChangedEvent(learnerID string, oldScore, newScore int) ScoreChangedEvent {
	return ScoreChangedEvent{
		BaseEvent: NewBaseEvent(EventScoreChanged, learnerID),
		LearnerID: learnerID,
		OldScore:  oldScore,
		NewScore:  newScore,
	}
}

// GuideRecordedEvent is emitted when a practice guide attempt is appended
// to a learner's activity log.
type GuideRecordedEvent struct {
	BaseEvent
	LearnerID     string  `json:"learner_id"`
	SubjectID     string  `json:"subject_id"`
	Title         string  `json:"title"`
	RawScore      float64 `json:"raw_score"`
	RankingPoints int     `json:"ranking_points"`
}

// NewGuideRecordedEvent creates a new GuideRecordedEvent.
func NewGuideRecordedEvent(learnerID, subjectID, title string, rawScore float64, points int) GuideRecordedEvent {
	return GuideRecordedEvent{
		BaseEvent:     NewBaseEvent(EventGuideRecorded, learnerID),
		LearnerID:     learnerID,
		SubjectID:     subjectID,
		Title:         title,
		RawScore:      rawScore,
		RankingPoints: points,
	}
}

// TutoringTouchedEvent is emitted when a tutoring conversation is saved or
// resumed.
type TutoringTouchedEvent struct {
	BaseEvent
	LearnerID string `json:"learner_id"`
	SessionID string `json:"session_id"`
}

// NewTutoringTouchedEvent creates a new TutoringTouchedEvent.
func NewTutoringTouchedEvent(learnerID, sessionID string) TutoringTouchedEvent {
	return TutoringTouchedEvent{
		BaseEvent: NewBaseEvent(EventTutoringTouched, learnerID),
		LearnerID: learnerID,
		SessionID: sessionID,
	}
}

// FriendEdgeEvent is emitted when a friend edge is created or removed.
// Both learner IDs are carried because both records changed.
type FriendEdgeEvent struct {
	BaseEvent
	LearnerID string `json:"learner_id"`
	FriendID  string `json:"friend_id"`
}

// NewFriendAddedEvent creates the event for a new friend edge.
func NewFriendAddedEvent(learnerID, friendID string) FriendEdgeEvent {
	return FriendEdgeEvent{
		BaseEvent: NewBaseEvent(EventFriendAdded, learnerID),
		LearnerID: learnerID,
		FriendID:  friendID,
	}
}

// NewFriendRemovedEvent creates the event for a removed friend edge.
func NewFriendRemovedEvent(learnerID, friendID string) FriendEdgeEvent {
	return FriendEdgeEvent{
		BaseEvent: NewBaseEvent(EventFriendRemoved, learnerID),
		LearnerID: learnerID,
		FriendID:  friendID,
	}
}

// LearnerCreatedEvent is emitted when a family adds a new profile.
type LearnerCreatedEvent struct {
	BaseEvent
	LearnerID   string `json:"learner_id"`
	OwnerID     string `json:"owner_id"`
	DisplayName string `json:"display_name"`
}

// NewLearnerCreatedEvent creates a new LearnerCreatedEvent.
func NewLearnerCreatedEvent(learnerID, ownerID, displayName string) LearnerCreatedEvent {
	return LearnerCreatedEvent{
		BaseEvent:   NewBaseEvent(EventLearnerCreated, learnerID),
		LearnerID:   learnerID,
		OwnerID:     ownerID,
		DisplayName: displayName,
	}
}

// FriendCodeAssignedEvent is emitted when a learner receives their friend code.
type FriendCodeAssignedEvent struct {
	BaseEvent
	LearnerID  string `json:"learner_id"`
	FriendCode string `json:"friend_code"`
}

// NewFriendCodeAssignedEvent creates a new FriendCodeAssignedEvent.
func NewFriendCodeAssignedEvent(learnerID, code string) FriendCodeAssignedEvent {
	return FriendCodeAssignedEvent{
		BaseEvent:  NewBaseEvent(EventFriendCodeAssigned, learnerID),
		LearnerID:  learnerID,
		FriendCode: code,
	}
}
