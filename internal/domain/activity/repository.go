package activity

import (
	"context"
	"time"
)

// Repository define el contrato de persistencia del historial de actividad.
type Repository interface {
	// UpsertTutoring registra un toque de tutoría. La clave natural es
	// el ID de la conversación: guardarla de nuevo actualiza el título
	// y LastTouchedAt en vez de crear otro registro.
	UpsertTutoring(ctx context.Context, event *TutoringEvent) error

	// AppendGuide agrega un envío de guía al historial. Cada envío es un
	// hecho nuevo, incluso si repite el tema.
	AppendGuide(ctx context.Context, event *GuideEvent) error

	// ListTutoringByLearner devuelve las conversaciones de un perfil
	// tocadas desde la fecha dada, ordenadas por último toque.
	ListTutoringByLearner(ctx context.Context, learnerID string, since time.Time) ([]*TutoringEvent, error)

	// ListGuidesByLearner devuelve el historial completo de guías de un
	// perfil, en orden cronológico.
	ListGuidesByLearner(ctx context.Context, learnerID string) ([]*GuideEvent, error)

	// ListGuidesByLearnerSince devuelve los envíos de guía desde la
	// fecha dada, en orden cronológico.
	ListGuidesByLearnerSince(ctx context.Context, learnerID string, since time.Time) ([]*GuideEvent, error)
}

// Source es la fuente de lectura de actividad que usa el agregador de
// puntaje y el cálculo de rachas. El repositorio propio la implementa,
// pero el contrato permite conectar una fuente externa de solo lectura.
type Source interface {
	ListTutoringByLearner(ctx context.Context, learnerID string, since time.Time) ([]*TutoringEvent, error)
	ListGuidesByLearner(ctx context.Context, learnerID string) ([]*GuideEvent, error)
	ListGuidesByLearnerSince(ctx context.Context, learnerID string, since time.Time) ([]*GuideEvent, error)
}
