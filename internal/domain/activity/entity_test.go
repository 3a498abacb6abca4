package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGuideEvent(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		params  NewGuideEventParams
		wantErr error
	}{
		{
			name: "valid submission",
			params: NewGuideEventParams{
				ID:            "g-1",
				LearnerID:     "learner-1",
				Topic:         "Fracciones",
				RawScore:      6.5,
				RankingPoints: 30,
				OccurredAt:    now,
			},
		},
		{
			name: "lowest passing grade",
			params: NewGuideEventParams{
				ID:         "g-2",
				LearnerID:  "learner-1",
				Topic:      "Fracciones",
				RawScore:   1.0,
				OccurredAt: now,
			},
		},
		{
			name: "score above scale",
			params: NewGuideEventParams{
				ID:         "g-3",
				LearnerID:  "learner-1",
				Topic:      "Fracciones",
				RawScore:   7.1,
				OccurredAt: now,
			},
			wantErr: ErrScoreOutOfRange,
		},
		{
			name: "score below scale",
			params: NewGuideEventParams{
				ID:         "g-4",
				LearnerID:  "learner-1",
				Topic:      "Fracciones",
				RawScore:   0.9,
				OccurredAt: now,
			},
			wantErr: ErrScoreOutOfRange,
		},
		{
			name: "blank topic",
			params: NewGuideEventParams{
				ID:         "g-5",
				LearnerID:  "learner-1",
				Topic:      "   ",
				RawScore:   5.0,
				OccurredAt: now,
			},
			wantErr: ErrInvalidTopic,
		},
		{
			name: "missing learner",
			params: NewGuideEventParams{
				ID:         "g-6",
				Topic:      "Fracciones",
				RawScore:   5.0,
				OccurredAt: now,
			},
			wantErr: ErrInvalidLearnerID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := NewGuideEvent(tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.params.LearnerID, event.LearnerID)
		})
	}
}

func TestNewGuideEvent_TrimsTopic(t *testing.T) {
	event, err := NewGuideEvent(NewGuideEventParams{
		ID:         "g-1",
		LearnerID:  "learner-1",
		Topic:      "  Fracciones  ",
		RawScore:   5.0,
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Fracciones", event.Topic)
}

func TestNewTutoringEvent(t *testing.T) {
	touched := time.Now()
	event, err := NewTutoringEvent(NewTutoringEventParams{
		ID:        "conv-1",
		LearnerID: "learner-1",
		SubjectID: "matematicas",
		Title:     "  Fracciones  ",
		TouchedAt: touched,
	})
	require.NoError(t, err)
	assert.Equal(t, "learner-1", event.LearnerID)
	assert.Equal(t, "Fracciones", event.Title)
	assert.True(t, event.LastTouchedAt.Equal(touched))

	_, err = NewTutoringEvent(NewTutoringEventParams{ID: "conv-1", TouchedAt: touched})
	assert.ErrorIs(t, err, ErrInvalidLearnerID)

	_, err = NewTutoringEvent(NewTutoringEventParams{LearnerID: "learner-1", TouchedAt: touched})
	assert.ErrorIs(t, err, ErrInvalidConversationID)
}
