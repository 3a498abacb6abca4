// Package progress contiene la lógica pura de puntaje y rachas del motor.
// Todo aquí son funciones deterministas sin efectos: reciben hechos,
// devuelven números. La persistencia y los eventos viven afuera.
package progress

import (
	"strings"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/activity"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
)

// ══════════════════════════════════════════════════════════════════════════════
// TRAMOS DE PUNTAJE
// ══════════════════════════════════════════════════════════════════════════════

// Tramos de la escala de notas 1.0-7.0 hacia puntos de ranking.
// Los límites son inclusivos por abajo: una nota 6.0 exacta vale 30.
const (
	tierExcellent = 7.0
	tierGreat     = 6.0
	tierGood      = 5.0
	tierPassing   = 4.0

	pointsExcellent = 50
	pointsGreat     = 30
	pointsGood      = 20
	pointsPassing   = 10
)

// RankingPoints convierte una nota cruda en puntos de ranking.
// Es una función total: cualquier valor fuera de la escala cae en el
// tramo inferior y vale 0, nunca un error.
func RankingPoints(rawScore float64) int {
	switch {
	case rawScore >= tierExcellent:
		return pointsExcellent
	case rawScore >= tierGreat:
		return pointsGreat
	case rawScore >= tierGood:
		return pointsGood
	case rawScore >= tierPassing:
		return pointsPassing
	default:
		return 0
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// NORMALIZACIÓN DE TEMAS
// ══════════════════════════════════════════════════════════════════════════════

// topicPrefixes son los prefijos de presentación que aparecen en los
// títulos de guías y no aportan a la identidad del tema.
var topicPrefixes = []string{
	"guía de práctica:",
	"guia de practica:",
	"practice guide:",
}

// TopicKey normaliza un título de guía a su clave de agrupación: dos
// títulos con la misma clave son la misma guía para efectos de puntaje.
//
// Reglas: minúsculas, sin prefijo de presentación, sin el paréntesis
// final (número de intento u otra decoración), sin espacios en los bordes.
func TopicKey(topic string) string {
	key := strings.ToLower(strings.TrimSpace(topic))

	for _, prefix := range topicPrefixes {
		if strings.HasPrefix(key, prefix) {
			key = strings.TrimSpace(key[len(prefix):])
			break
		}
	}

	// Solo se quita un paréntesis al final del título, no los internos.
	if strings.HasSuffix(key, ")") {
		if open := strings.LastIndexByte(key, '('); open >= 0 {
			key = strings.TrimSpace(key[:open])
		}
	}

	return key
}

// ══════════════════════════════════════════════════════════════════════════════
// AGREGADOR DE PUNTAJE
// ══════════════════════════════════════════════════════════════════════════════

// ComputeScore recalcula el puntaje acumulado desde el historial completo
// de guías. Por cada tema (según TopicKey) cuenta solo el mejor intento;
// el total es la suma de esos máximos.
//
// Propiedades: determinista, idempotente, y monótona respecto a agregar
// intentos al historial. Repetir una guía nunca baja el puntaje.
func ComputeScore(guides []*activity.GuideEvent) learner.Score {
	if len(guides) == 0 {
		return 0
	}

	bestByTopic := make(map[string]int, len(guides))
	for _, guide := range guides {
		key := TopicKey(guide.Topic)
		if guide.RankingPoints > bestByTopic[key] {
			bestByTopic[key] = guide.RankingPoints
		}
	}

	total := 0
	for _, points := range bestByTopic {
		total += points
	}
	return learner.Score(total)
}
