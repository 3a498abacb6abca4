// Package social contiene la generación de códigos de amigo. El grafo de
// amistades en sí vive en el perfil (learner.Learner); aquí solo se fabrica
// el código que se comparte entre familias.
package social

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/shared"
	"github.com/sebasbersa/aula-digital-sub000/pkg/retry"
)

// MaxGenerationAttempts limita los reintentos ante colisiones de código.
const MaxGenerationAttempts = 5

// fallbackPrefix se usa cuando el nombre no deja ningún carácter útil.
const fallbackPrefix = "estudiante"

// diacriticFold mapea las letras acentuadas del español a su base ASCII.
// Así "Sofía" y "sofia" generan el mismo prefijo.
var diacriticFold = map[rune]rune{
	'á': 'a', 'é': 'e', 'í': 'i', 'ó': 'o', 'ú': 'u',
	'à': 'a', 'è': 'e', 'ì': 'i', 'ò': 'o', 'ù': 'u',
	'ä': 'a', 'ë': 'e', 'ï': 'i', 'ö': 'o', 'ü': 'u',
	'ñ': 'n', 'ç': 'c',
}

// SanitizePrefix convierte un nombre visible en el prefijo del código:
// minúsculas, diacríticos plegados, solo letras y dígitos ASCII.
func SanitizePrefix(displayName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(displayName)) {
		if folded, ok := diacriticFold[r]; ok {
			r = folded
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fallbackPrefix
	}
	return b.String()
}

// UniquenessChecker responde si un código ya está tomado por algún perfil.
type UniquenessChecker interface {
	ExistsByFriendCode(ctx context.Context, code learner.FriendCode) (bool, error)
}

// Generator fabrica códigos de amigo únicos.
type Generator struct {
	checker UniquenessChecker
	rng     *rand.Rand
}

// NewGenerator crea un generador con la fuente de aleatoriedad dada.
// Un rng nil usa la fuente global (válido en producción; los tests
// inyectan una semilla fija).
func NewGenerator(checker UniquenessChecker, rng *rand.Rand) *Generator {
	return &Generator{checker: checker, rng: rng}
}

// Generate produce un código único con el formato {prefijo}#{4 dígitos}.
// Ante colisión de sufijo reintenta hasta MaxGenerationAttempts veces y
// después devuelve error: con 10000 sufijos posibles, agotar los intentos
// indica un prefijo saturado que debe mirar un humano.
func (g *Generator) Generate(ctx context.Context, displayName string) (learner.FriendCode, error) {
	prefix := SanitizePrefix(displayName)

	var code learner.FriendCode
	err := retry.Do(ctx, retry.Config{MaxAttempts: MaxGenerationAttempts}, func(attempt int) error {
		candidate := learner.FriendCode(fmt.Sprintf("%s#%04d", prefix, g.intn(10000)))

		taken, err := g.checker.ExistsByFriendCode(ctx, candidate)
		if err != nil {
			// Un error de almacenamiento no se arregla reintentando aquí.
			return retry.Permanent(err)
		}
		if taken {
			return fmt.Errorf("friend code %q already taken", candidate)
		}

		code = candidate
		return nil
	})
	if err != nil {
		return "", shared.WrapError("social", "GenerateFriendCode", shared.ErrExhausted,
			fmt.Sprintf("could not find a unique code for prefix %q", prefix), err)
	}
	return code, nil
}

func (g *Generator) intn(n int) int {
	if g.rng != nil {
		return g.rng.Intn(n)
	}
	return rand.Intn(n)
}
