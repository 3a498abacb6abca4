// Package activity modela los hechos de aprendizaje que alimentan el motor:
// conversaciones de tutoría con el profesor virtual y envíos de guías de
// práctica. Los envíos de guía son de solo inserción; las conversaciones
// de tutoría actualizan su último toque al guardarse de nuevo.
package activity

import (
	"errors"
	"strings"
	"time"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORES DE DOMINIO
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidLearnerID - todo hecho pertenece a un perfil.
	ErrInvalidLearnerID = shared.NewDomainError("activity", "Validate", shared.ErrEmptyValue, "invalid learner id: must not be empty")

	// ErrInvalidConversationID - cada toque de tutoría pertenece a una
	// conversación identificable.
	ErrInvalidConversationID = shared.NewDomainError("activity", "Validate", shared.ErrEmptyValue, "invalid conversation id: must not be empty")

	// ErrInvalidTopic - una guía sin tema no se puede agrupar.
	ErrInvalidTopic = shared.NewDomainError("activity", "Validate", shared.ErrEmptyValue, "invalid topic: must not be empty")

	// ErrScoreOutOfRange - la escala de notas va de 1.0 a 7.0.
	ErrScoreOutOfRange = shared.NewDomainError("activity", "Validate", shared.ErrValueOutOfRange, "raw score out of range: must be in [1.0, 7.0]")
)

// ══════════════════════════════════════════════════════════════════════════════
// TUTORING EVENT
// ══════════════════════════════════════════════════════════════════════════════

// TutoringEvent registra una conversación de tutoría guardada. Hay un
// registro por conversación: guardar o retomar la misma conversación
// actualiza LastTouchedAt en vez de crear otro registro, así que una sola
// conversación aporta toques en varias semanas solo si se retoma en
// semanas distintas.
type TutoringEvent struct {
	ID            string
	LearnerID     string
	SubjectID     string
	Title         string
	LastTouchedAt time.Time
	CreatedAt     time.Time
}

// NewTutoringEventParams contiene los parámetros de un toque de tutoría.
type NewTutoringEventParams struct {
	ID        string
	LearnerID string
	SubjectID string
	Title     string
	TouchedAt time.Time
}

// NewTutoringEvent crea un hecho de tutoría validado.
func NewTutoringEvent(params NewTutoringEventParams) (*TutoringEvent, error) {
	if params.ID == "" {
		return nil, ErrInvalidConversationID
	}
	if params.LearnerID == "" {
		return nil, ErrInvalidLearnerID
	}
	return &TutoringEvent{
		ID:            params.ID,
		LearnerID:     params.LearnerID,
		SubjectID:     params.SubjectID,
		Title:         strings.TrimSpace(params.Title),
		LastTouchedAt: params.TouchedAt,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GUIDE EVENT
// ══════════════════════════════════════════════════════════════════════════════

// GuideEvent registra un envío calificado de una guía de práctica.
// RankingPoints se calcula y congela al momento de escribir: si la tabla
// de tramos cambia en el futuro, los hechos históricos no cambian de valor.
type GuideEvent struct {
	ID            string
	LearnerID     string
	SubjectID     string
	Topic         string
	RawScore      float64
	RankingPoints int
	OccurredAt    time.Time
	RecordedAt    time.Time
}

// NewGuideEventParams contiene los parámetros de un envío de guía.
type NewGuideEventParams struct {
	ID            string
	LearnerID     string
	SubjectID     string
	Topic         string
	RawScore      float64
	RankingPoints int
	OccurredAt    time.Time
}

// NewGuideEvent crea un hecho de guía validado.
func NewGuideEvent(params NewGuideEventParams) (*GuideEvent, error) {
	if params.ID == "" {
		return nil, errors.New("guide event id is required")
	}
	if params.LearnerID == "" {
		return nil, ErrInvalidLearnerID
	}
	if strings.TrimSpace(params.Topic) == "" {
		return nil, ErrInvalidTopic
	}
	if params.RawScore < 1.0 || params.RawScore > 7.0 {
		return nil, ErrScoreOutOfRange
	}
	if params.RankingPoints < 0 {
		return nil, errors.New("ranking points must be non-negative")
	}

	return &GuideEvent{
		ID:            params.ID,
		LearnerID:     params.LearnerID,
		SubjectID:     params.SubjectID,
		Topic:         strings.TrimSpace(params.Topic),
		RawScore:      params.RawScore,
		RankingPoints: params.RankingPoints,
		OccurredAt:    params.OccurredAt,
		RecordedAt:    time.Now().UTC(),
	}, nil
}
