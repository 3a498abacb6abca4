package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/activity"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
)

func TestRankingPoints(t *testing.T) {
	tests := []struct {
		rawScore float64
		want     int
	}{
		{7.0, 50},
		{6.99, 30},
		{6.5, 30},
		{6.0, 30},
		{5.99, 20},
		{5.0, 20},
		{4.99, 10},
		{4.0, 10},
		{3.99, 0},
		{1.0, 0},
		// Total function: out-of-scale input lands in a tier, never errors.
		{0.0, 0},
		{-1.0, 0},
		{8.0, 50},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RankingPoints(tt.rawScore), "rawScore %v", tt.rawScore)
	}
}

func TestTopicKey(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"Fracciones", "fracciones"},
		{"  Fracciones  ", "fracciones"},
		{"FRACCIONES", "fracciones"},
		{"Guía de Práctica: Fracciones", "fracciones"},
		{"guia de practica: fracciones", "fracciones"},
		{"Practice Guide: Fractions (Attempt 2)", "fractions"},
		{"practice guide: fractions", "fractions"},
		{"Fracciones (Intento 3)", "fracciones"},
		// Only the trailing parenthetical is decoration.
		{"Números (enteros) y decimales", "números (enteros) y decimales"},
		{"Números (enteros) (Intento 2)", "números (enteros)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TopicKey(tt.topic), "topic %q", tt.topic)
	}
}

func TestTopicKey_VariantsCollapse(t *testing.T) {
	variants := []string{
		"Fracciones",
		"fracciones",
		"Guía de Práctica: Fracciones",
		"Fracciones (Intento 2)",
		"  Guía de Práctica: Fracciones (Intento 5)  ",
	}

	want := TopicKey(variants[0])
	for _, v := range variants[1:] {
		assert.Equal(t, want, TopicKey(v), "variant %q", v)
	}
}

func guide(topic string, points int) *activity.GuideEvent {
	return &activity.GuideEvent{
		ID:            topic,
		LearnerID:     "learner-1",
		Topic:         topic,
		RankingPoints: points,
		OccurredAt:    time.Now(),
	}
}

func TestComputeScore(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		assert.Equal(t, learner.Score(0), ComputeScore(nil))
	})

	t.Run("sums best attempt per topic", func(t *testing.T) {
		guides := []*activity.GuideEvent{
			guide("Fracciones", 10),
			guide("Fracciones (Intento 2)", 30),
			guide("Guía de Práctica: Fracciones", 20),
			guide("Decimales", 50),
		}
		// Fracciones counts once at its best (30), not 10+30+20.
		assert.Equal(t, learner.Score(80), ComputeScore(guides))
	})

	t.Run("idempotent", func(t *testing.T) {
		guides := []*activity.GuideEvent{
			guide("Fracciones", 30),
			guide("Decimales", 20),
		}
		first := ComputeScore(guides)
		assert.Equal(t, first, ComputeScore(guides))
		assert.Equal(t, first, ComputeScore(guides))
	})

	t.Run("monotone under retries", func(t *testing.T) {
		guides := []*activity.GuideEvent{guide("Fracciones", 30)}
		before := ComputeScore(guides)

		// A worse retry never lowers the total.
		guides = append(guides, guide("Fracciones (Intento 2)", 10))
		assert.Equal(t, before, ComputeScore(guides))

		// A better retry raises it.
		guides = append(guides, guide("Fracciones (Intento 3)", 50))
		assert.Equal(t, learner.Score(50), ComputeScore(guides))
	})
}
