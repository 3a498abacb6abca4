// Package learner contiene el modelo de dominio del perfil de aprendizaje
// de Aula Digital. Es el núcleo de la lógica de negocio - aquí no hay
// dependencias externas.
package learner

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// OwnerID identifica la cuenta familiar (quien paga) dueña del perfil.
type OwnerID string

// IsValid verifica que el OwnerID no esté vacío.
func (o OwnerID) IsValid() bool {
	return len(strings.TrimSpace(string(o))) > 0
}

// String devuelve la representación en texto.
func (o OwnerID) String() string {
	return string(o)
}

// Score representa el puntaje acumulado del perfil. Nunca es negativo:
// se recalcula siempre desde el historial de guías, donde cada tema
// aporta como máximo su mejor intento.
type Score int

// IsValid verifica que el puntaje no sea negativo.
func (s Score) IsValid() bool {
	return s >= 0
}

// FriendCode es el código que un perfil comparte para que lo agreguen
// como amigo. Formato: prefijo alfanumérico + "#" + 4 dígitos.
// Se genera de forma diferida (al primer uso) y no cambia después.
type FriendCode string

// friendCodeSuffixLen es el largo del sufijo numérico del código.
const friendCodeSuffixLen = 4

// IsValid verifica el formato prefijo#dddd.
func (c FriendCode) IsValid() bool {
	s := string(c)
	sep := strings.LastIndexByte(s, '#')
	if sep <= 0 || len(s)-sep-1 != friendCodeSuffixLen {
		return false
	}
	for _, r := range s[:sep] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	for _, r := range s[sep+1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Normalized devuelve el código con el prefijo en minúsculas, que es la
// forma usada para búsquedas (el sufijo numérico no cambia).
func (c FriendCode) Normalized() FriendCode {
	return FriendCode(strings.ToLower(string(c)))
}

// String devuelve la representación en texto.
func (c FriendCode) String() string {
	return string(c)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORES DE DOMINIO
// ══════════════════════════════════════════════════════════════════════════════

// Centinelas del dominio, construidos sobre la taxonomía compartida para
// que los llamadores distingan validación, no-encontrado e infraestructura
// con shared.IsValidation / shared.IsNotFound / shared.IsExternalService.
var (
	// ErrLearnerNotFound - el perfil no existe.
	ErrLearnerNotFound = shared.NewDomainError("learner", "Find", shared.ErrNotFound, "learner not found")

	// ErrLearnerAlreadyExists - ya existe un perfil con ese ID.
	ErrLearnerAlreadyExists = shared.NewDomainError("learner", "Create", shared.ErrAlreadyExists, "learner already exists")

	// ErrInvalidOwnerID - la cuenta familiar es inválida.
	ErrInvalidOwnerID = shared.NewDomainError("learner", "Validate", shared.ErrEmptyValue, "invalid owner id: must not be empty")

	// ErrInvalidDisplayName - el nombre visible es inválido.
	ErrInvalidDisplayName = shared.NewDomainError("learner", "Validate", shared.ErrInvalidInput, "invalid display name: must be 1-60 chars")

	// ErrInvalidScore - un puntaje negativo nunca es válido.
	ErrInvalidScore = shared.NewDomainError("learner", "Validate", shared.ErrValueOutOfRange, "invalid score: must be non-negative")

	// ErrSelfFriend - un perfil no puede agregarse a sí mismo.
	ErrSelfFriend = shared.NewDomainError("learner", "AddFriend", shared.ErrInvalidInput, "cannot befriend yourself")

	// ErrFriendCodeAlreadySet - el código de amigo es estable de por vida.
	ErrFriendCodeAlreadySet = shared.NewDomainError("learner", "AssignFriendCode", shared.ErrInvalidState, "friend code already assigned")

	// ErrFriendCodeTaken - otro perfil ya usa ese código.
	ErrFriendCodeTaken = shared.NewDomainError("learner", "AssignFriendCode", shared.ErrAlreadyExists, "friend code taken by another profile")

	// ErrMalformedFriendCode - el código no cumple el formato prefijo#dddd.
	ErrMalformedFriendCode = shared.NewDomainError("learner", "Validate", shared.ErrInvalidFormat, "malformed friend code")
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTIDAD PRINCIPAL: LEARNER
// ══════════════════════════════════════════════════════════════════════════════

// Learner es el perfil de aprendizaje (niño o adulto) de una cuenta familiar.
//
// Reglas de mutación: Score lo escribe solo el agregador de puntaje;
// Friends lo escribe solo el administrador del grafo de amigos; el motor
// nunca elimina perfiles (eso es responsabilidad de un colaborador externo).
type Learner struct {
	// ID - identificador único interno (UUID en formato string).
	ID string

	// OwnerID - cuenta familiar a la que pertenece el perfil.
	OwnerID OwnerID

	// DisplayName - nombre visible del perfil.
	DisplayName string

	// IsAdult - true si el perfil es de un adulto de la familia.
	IsAdult bool

	// AvatarColor - color del avatar elegido al crear el perfil.
	AvatarColor string

	// Score - puntaje acumulado, derivado del historial de guías.
	Score Score

	// FriendCode - código para compartir; vacío hasta el primer uso.
	FriendCode FriendCode

	// Friends - IDs de perfiles amigos. Semántica de conjunto: sin
	// duplicados y sin el propio ID. La relación es simétrica: si B está
	// aquí, A debe estar en los amigos de B.
	Friends []string

	// CreatedAt - cuándo se creó el perfil.
	CreatedAt time.Time

	// UpdatedAt - última modificación del registro.
	UpdatedAt time.Time
}

// NewLearnerParams contiene los parámetros para crear un perfil nuevo.
type NewLearnerParams struct {
	ID          string
	OwnerID     OwnerID
	DisplayName string
	IsAdult     bool
	AvatarColor string
}

// NewLearner crea un perfil nuevo validando todos los campos.
func NewLearner(params NewLearnerParams) (*Learner, error) {
	if params.ID == "" {
		return nil, errors.New("learner id is required")
	}

	if !params.OwnerID.IsValid() {
		return nil, ErrInvalidOwnerID
	}

	displayName := strings.TrimSpace(params.DisplayName)
	if len(displayName) == 0 || len(displayName) > 60 {
		return nil, ErrInvalidDisplayName
	}

	now := time.Now().UTC()

	return &Learner{
		ID:          params.ID,
		OwnerID:     params.OwnerID,
		DisplayName: displayName,
		IsAdult:     params.IsAdult,
		AvatarColor: params.AvatarColor,
		Score:       0,
		FriendCode:  "",
		Friends:     nil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MÉTODOS DE DOMINIO
// ══════════════════════════════════════════════════════════════════════════════

// SetScore reemplaza el puntaje con el resultado de un recálculo completo.
func (l *Learner) SetScore(score Score) error {
	if !score.IsValid() {
		return ErrInvalidScore
	}
	l.Score = score
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// HasFriend indica si friendID ya está en el conjunto de amigos.
func (l *Learner) HasFriend(friendID string) bool {
	for _, id := range l.Friends {
		if id == friendID {
			return true
		}
	}
	return false
}

// AddFriend agrega friendID al conjunto de amigos. Volver a agregar un
// amigo existente no hace nada (semántica de conjunto, no de lista).
func (l *Learner) AddFriend(friendID string) error {
	if friendID == l.ID {
		return ErrSelfFriend
	}
	if friendID == "" {
		return errors.New("friend id is required")
	}
	if l.HasFriend(friendID) {
		return nil
	}
	l.Friends = append(l.Friends, friendID)
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveFriend quita friendID del conjunto de amigos. Quitar a alguien
// que no era amigo no hace nada.
func (l *Learner) RemoveFriend(friendID string) {
	for i, id := range l.Friends {
		if id == friendID {
			l.Friends = append(l.Friends[:i], l.Friends[i+1:]...)
			l.UpdatedAt = time.Now().UTC()
			return
		}
	}
}

// AssignFriendCode fija el código de amigo por primera y única vez.
func (l *Learner) AssignFriendCode(code FriendCode) error {
	if l.FriendCode != "" {
		return ErrFriendCodeAlreadySet
	}
	if !code.IsValid() {
		return ErrMalformedFriendCode
	}
	l.FriendCode = code
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// String devuelve una representación corta para logs.
func (l *Learner) String() string {
	return fmt.Sprintf("Learner{ID: %s, Name: %s, Score: %d, Friends: %d}",
		l.ID, l.DisplayName, l.Score, len(l.Friends))
}

// Clone crea una copia profunda del perfil.
func (l *Learner) Clone() *Learner {
	if l == nil {
		return nil
	}
	clone := *l
	clone.Friends = append([]string(nil), l.Friends...)
	return &clone
}
