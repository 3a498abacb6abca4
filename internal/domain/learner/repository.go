package learner

import "context"

// BatchGetLimit es el tamaño máximo de cada lote en GetByIDs. Las listas
// más largas se consultan en varios lotes de este tamaño.
const BatchGetLimit = 10

// Repository define el contrato de persistencia de perfiles.
// La implementación vive en la capa de infraestructura.
type Repository interface {
	// Create guarda un perfil nuevo.
	// Devuelve ErrLearnerAlreadyExists si el ID ya existe.
	Create(ctx context.Context, l *Learner) error

	// GetByID busca un perfil por su ID.
	// Devuelve ErrLearnerNotFound si no existe.
	GetByID(ctx context.Context, id string) (*Learner, error)

	// GetByIDs busca varios perfiles por ID, consultando en lotes de a
	// BatchGetLimit. Los IDs inexistentes se omiten del resultado sin
	// error: un amigo borrado por otro sistema no rompe la lectura.
	GetByIDs(ctx context.Context, ids []string) ([]*Learner, error)

	// GetByOwnerID devuelve todos los perfiles de una cuenta familiar.
	GetByOwnerID(ctx context.Context, ownerID OwnerID) ([]*Learner, error)

	// GetByFriendCode busca un perfil por su código de amigo.
	// Devuelve ErrLearnerNotFound si ningún perfil tiene ese código.
	GetByFriendCode(ctx context.Context, code FriendCode) (*Learner, error)

	// ExistsByFriendCode indica si algún perfil ya usa ese código.
	ExistsByFriendCode(ctx context.Context, code FriendCode) (bool, error)

	// UpdateScore escribe el puntaje recalculado de un perfil.
	UpdateScore(ctx context.Context, id string, score Score) error

	// SetFriendCode fija el código de amigo de un perfil que aún no
	// tiene uno. La unicidad se garantiza a nivel de almacenamiento.
	SetFriendCode(ctx context.Context, id string, code FriendCode) error

	// AddFriendPair agrega la arista de amistad en ambos perfiles dentro
	// de una misma transacción: o ambos registros cambian o ninguno.
	AddFriendPair(ctx context.Context, learnerID, friendID string) error

	// RemoveFriendPair quita la arista de amistad de ambos perfiles
	// dentro de una misma transacción.
	RemoveFriendPair(ctx context.Context, learnerID, friendID string) error

	// Update guarda los campos mutables del perfil.
	Update(ctx context.Context, l *Learner) error
}
