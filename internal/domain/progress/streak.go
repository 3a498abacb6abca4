package progress

import (
	"time"

	"github.com/sebasbersa/aula-digital-sub000/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// METAS SEMANALES
// ══════════════════════════════════════════════════════════════════════════════

// Metas de una semana exitosa. La semana va de lunes a domingo en la
// zona horaria del hogar.
const (
	// LessonGoal - conversaciones de tutoría tocadas por semana. Cada
	// conversación aporta a lo más un toque (su último guardado).
	LessonGoal = 3

	// GuideGoal - envíos de guías de práctica por semana.
	GuideGoal = 3
)

// WeekProgress resume una semana para la vista de avance del apoderado.
type WeekProgress struct {
	// WeekStart - lunes de la semana, a medianoche local.
	WeekStart time.Time

	// LessonCount - conversaciones de tutoría tocadas dentro de la semana.
	LessonCount int

	// GuideCount - envíos de guías dentro de la semana.
	GuideCount int

	// Successful - true si la semana cumple ambas metas.
	Successful bool

	// Current - true si es la semana en curso.
	Current bool
}

// MeetsGoals indica si los conteos dados cumplen ambas metas semanales.
func MeetsGoals(lessonCount, guideCount int) bool {
	return lessonCount >= LessonGoal && guideCount >= GuideGoal
}

// ══════════════════════════════════════════════════════════════════════════════
// CÁLCULO DE RACHA
// ══════════════════════════════════════════════════════════════════════════════

// ComputeStreak calcula la racha de semanas exitosas consecutivas.
//
// La semana en curso nunca rompe la racha (todavía se puede completar),
// pero tampoco suma hasta que cumple ambas metas. Si ni la semana en
// curso ni la anterior son exitosas, la racha es 0: las rachas viejas
// no se exhiben como vigentes. Una semana sin actividad en medio de la
// historia corta la cadena.
func ComputeStreak(lessons, guides []time.Time, now time.Time, loc *time.Location) int {
	lessonsByWeek, guidesByWeek := bucketByWeek(lessons, guides, loc)

	currentWeek := timeutil.StartOfWeek(now, loc)

	anchor := currentWeek
	if !weekSuccessful(anchor, lessonsByWeek, guidesByWeek) {
		anchor = timeutil.PrevWeek(anchor, loc)
		if !weekSuccessful(anchor, lessonsByWeek, guidesByWeek) {
			return 0
		}
	}

	streak := 0
	for week := anchor; weekSuccessful(week, lessonsByWeek, guidesByWeek); week = timeutil.PrevWeek(week, loc) {
		streak++
	}
	return streak
}

// WeeklyBreakdown arma el resumen por semana de las últimas `weeks`
// semanas, la más reciente primero.
func WeeklyBreakdown(lessons, guides []time.Time, now time.Time, loc *time.Location, weeks int) []WeekProgress {
	lessonsByWeek, guidesByWeek := bucketByWeek(lessons, guides, loc)

	currentWeek := timeutil.StartOfWeek(now, loc)

	breakdown := make([]WeekProgress, 0, weeks)
	week := currentWeek
	for i := 0; i < weeks; i++ {
		key := timeutil.WeekKey(week, loc)
		lessonCount := lessonsByWeek[key]
		guideCount := guidesByWeek[key]
		breakdown = append(breakdown, WeekProgress{
			WeekStart:   week,
			LessonCount: lessonCount,
			GuideCount:  guideCount,
			Successful:  MeetsGoals(lessonCount, guideCount),
			Current:     i == 0,
		})
		week = timeutil.PrevWeek(week, loc)
	}
	return breakdown
}

// bucketByWeek agrupa la actividad por clave de semana. Cada marca de
// tiempo cuenta como un toque; la deduplicación por conversación ya
// viene dada porque el historial guarda solo el último toque de cada una.
func bucketByWeek(lessons, guides []time.Time, loc *time.Location) (map[string]int, map[string]int) {
	lessonsByWeek := make(map[string]int)
	for _, lesson := range lessons {
		lessonsByWeek[timeutil.WeekKey(lesson, loc)]++
	}

	guidesByWeek := make(map[string]int)
	for _, guide := range guides {
		guidesByWeek[timeutil.WeekKey(guide, loc)]++
	}

	return lessonsByWeek, guidesByWeek
}

func weekSuccessful(weekStart time.Time, lessonsByWeek, guidesByWeek map[string]int) bool {
	// weekStart ya viene a medianoche de lunes en la zona local.
	key := weekStart.Format(timeutil.FormatDate)
	return MeetsGoals(lessonsByWeek[key], guidesByWeek[key])
}
