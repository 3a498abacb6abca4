// Package leaderboard arma el ranking de amigos de un perfil.
// El orden es determinista: dos consultas sobre los mismos datos
// devuelven exactamente la misma tabla.
package leaderboard

import (
	"cmp"
	"slices"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
)

// Entry es una fila del ranking.
type Entry struct {
	// Rank - posición en la tabla, empezando en 1.
	Rank int

	// LearnerID - perfil al que pertenece la fila.
	LearnerID string

	// DisplayName - nombre visible del perfil.
	DisplayName string

	// AvatarColor - color del avatar para la vista.
	AvatarColor string

	// Score - puntaje acumulado al momento de la consulta.
	Score learner.Score

	// IsSelf - true en la fila del perfil que consulta.
	IsSelf bool
}

// Board es el ranking completo: el perfil que consulta más sus amigos.
type Board struct {
	LearnerID string
	Entries   []Entry
}

// SelfRank devuelve la posición del perfil que consulta, o 0 si no está.
func (b *Board) SelfRank() int {
	for _, entry := range b.Entries {
		if entry.IsSelf {
			return entry.Rank
		}
	}
	return 0
}

// Build arma el ranking a partir del perfil que consulta y sus amigos.
// Orden: puntaje descendente; a igual puntaje desempata el ID de perfil
// ascendente, para que el orden no dependa del orden de llegada de los
// datos. Los empatados comparten vecindad pero no posición.
func Build(self *learner.Learner, friends []*learner.Learner) *Board {
	entries := make([]Entry, 0, len(friends)+1)

	entries = append(entries, Entry{
		LearnerID:   self.ID,
		DisplayName: self.DisplayName,
		AvatarColor: self.AvatarColor,
		Score:       self.Score,
		IsSelf:      true,
	})
	for _, friend := range friends {
		entries = append(entries, Entry{
			LearnerID:   friend.ID,
			DisplayName: friend.DisplayName,
			AvatarColor: friend.AvatarColor,
			Score:       friend.Score,
		})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.LearnerID, b.LearnerID)
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return &Board{LearnerID: self.ID, Entries: entries}
}
