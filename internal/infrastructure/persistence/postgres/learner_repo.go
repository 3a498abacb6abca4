package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sebasbersa/aula-digital-sub000/internal/domain/learner"
)

// LearnerRepository is the PostgreSQL implementation of learner.Repository.
type LearnerRepository struct {
	conn *Connection
}

// NewLearnerRepository creates a new learner repository.
func NewLearnerRepository(conn *Connection) *LearnerRepository {
	return &LearnerRepository{conn: conn}
}

const learnerColumns = `id, owner_id, display_name, is_adult, avatar_color, score, friend_code, friends, created_at, updated_at`

// scanLearner scans a single learner row.
func scanLearner(row pgx.Row) (*learner.Learner, error) {
	var (
		l          learner.Learner
		friendCode *string
	)

	err := row.Scan(
		&l.ID,
		(*string)(&l.OwnerID),
		&l.DisplayName,
		&l.IsAdult,
		&l.AvatarColor,
		(*int)(&l.Score),
		&friendCode,
		&l.Friends,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if friendCode != nil {
		l.FriendCode = learner.FriendCode(*friendCode)
	}

	return &l, nil
}

// nullableCode maps an empty code to NULL so the partial unique index
// only guards assigned codes.
func nullableCode(code learner.FriendCode) *string {
	if code == "" {
		return nil
	}
	s := string(code)
	return &s
}

// Create stores a new learner profile.
func (r *LearnerRepository) Create(ctx context.Context, l *learner.Learner) error {
	query := fmt.Sprintf(`
		INSERT INTO learners (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, learnerColumns)

	_, err := r.conn.Exec(ctx, query,
		l.ID,
		string(l.OwnerID),
		l.DisplayName,
		l.IsAdult,
		l.AvatarColor,
		int(l.Score),
		nullableCode(l.FriendCode),
		l.Friends,
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return learner.ErrLearnerAlreadyExists
		}
		return storeErr("Create", "create learner", err)
	}

	return nil
}

// GetByID fetches a learner profile by ID.
func (r *LearnerRepository) GetByID(ctx context.Context, id string) (*learner.Learner, error) {
	query := fmt.Sprintf(`SELECT %s FROM learners WHERE id = $1`, learnerColumns)

	l, err := scanLearner(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, learner.ErrLearnerNotFound
		}
		return nil, storeErr("GetByID", "get learner by id", err)
	}

	return l, nil
}

// GetByIDs fetches learner profiles in batches of learner.BatchGetLimit.
// Missing IDs are silently skipped.
func (r *LearnerRepository) GetByIDs(ctx context.Context, ids []string) ([]*learner.Learner, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	result := make([]*learner.Learner, 0, len(ids))
	for start := 0; start < len(ids); start += learner.BatchGetLimit {
		end := start + learner.BatchGetLimit
		if end > len(ids) {
			end = len(ids)
		}

		batch, err := r.getBatch(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		result = append(result, batch...)
	}

	return result, nil
}

func (r *LearnerRepository) getBatch(ctx context.Context, ids []string) ([]*learner.Learner, error) {
	query := fmt.Sprintf(`SELECT %s FROM learners WHERE id = ANY($1)`, learnerColumns)

	rows, err := r.conn.Query(ctx, query, ids)
	if err != nil {
		return nil, storeErr("GetByIDs", "get learners batch", err)
	}
	defer rows.Close()

	var batch []*learner.Learner
	for rows.Next() {
		l, err := scanLearner(rows)
		if err != nil {
			return nil, storeErr("GetByIDs", "scan learner row", err)
		}
		batch = append(batch, l)
	}

	return batch, rows.Err()
}

// GetByOwnerID fetches all profiles of a family account.
func (r *LearnerRepository) GetByOwnerID(ctx context.Context, ownerID learner.OwnerID) ([]*learner.Learner, error) {
	query := fmt.Sprintf(`SELECT %s FROM learners WHERE owner_id = $1 ORDER BY created_at`, learnerColumns)

	rows, err := r.conn.Query(ctx, query, string(ownerID))
	if err != nil {
		return nil, storeErr("GetByOwner", "get learners by owner", err)
	}
	defer rows.Close()

	var learners []*learner.Learner
	for rows.Next() {
		l, err := scanLearner(rows)
		if err != nil {
			return nil, storeErr("GetByOwner", "scan learner row", err)
		}
		learners = append(learners, l)
	}

	return learners, rows.Err()
}

// GetByFriendCode fetches the profile holding the given friend code.
// Stored codes are lowercase, so lowering the argument makes the lookup
// case-insensitive without losing the friend_code index.
func (r *LearnerRepository) GetByFriendCode(ctx context.Context, code learner.FriendCode) (*learner.Learner, error) {
	query := fmt.Sprintf(`SELECT %s FROM learners WHERE friend_code = LOWER($1)`, learnerColumns)

	l, err := scanLearner(r.conn.QueryRow(ctx, query, string(code)))
	if err != nil {
		if IsNoRows(err) {
			return nil, learner.ErrLearnerNotFound
		}
		return nil, storeErr("GetByFriendCode", "get learner by friend code", err)
	}

	return l, nil
}

// ExistsByFriendCode reports whether any profile already uses the code.
func (r *LearnerRepository) ExistsByFriendCode(ctx context.Context, code learner.FriendCode) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM learners WHERE friend_code = $1)`,
		string(code),
	).Scan(&exists)
	if err != nil {
		return false, storeErr("ExistsByFriendCode", "check friend code", err)
	}
	return exists, nil
}

// UpdateScore writes a recomputed score.
func (r *LearnerRepository) UpdateScore(ctx context.Context, id string, score learner.Score) error {
	tag, err := r.conn.Exec(ctx,
		`UPDATE learners SET score = $2, updated_at = NOW() WHERE id = $1`,
		id, int(score),
	)
	if err != nil {
		return storeErr("UpdateScore", "update score", err)
	}
	if tag.RowsAffected() == 0 {
		return learner.ErrLearnerNotFound
	}
	return nil
}

// SetFriendCode assigns a friend code to a profile that has none yet.
// The partial unique index rejects a code already taken elsewhere.
func (r *LearnerRepository) SetFriendCode(ctx context.Context, id string, code learner.FriendCode) error {
	tag, err := r.conn.Exec(ctx,
		`UPDATE learners SET friend_code = $2, updated_at = NOW()
		 WHERE id = $1 AND friend_code IS NULL`,
		id, string(code),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return learner.ErrFriendCodeTaken
		}
		return storeErr("SetFriendCode", "set friend code", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the profile does not exist or a code is already assigned.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return learner.ErrFriendCodeAlreadySet
	}
	return nil
}

// AddFriendPair adds the friendship edge on both profiles in one
// transaction. Re-adding an existing edge leaves both rows untouched.
func (r *LearnerRepository) AddFriendPair(ctx context.Context, learnerID, friendID string) error {
	if learnerID == friendID {
		return learner.ErrSelfFriend
	}

	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if err := addFriendEdge(ctx, tx, learnerID, friendID); err != nil {
			return err
		}
		return addFriendEdge(ctx, tx, friendID, learnerID)
	})
}

func addFriendEdge(ctx context.Context, tx pgx.Tx, ownerRow, newFriend string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE learners
		SET friends = array_append(friends, $2), updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(friends))
	`, ownerRow, newFriend)
	if err != nil {
		return storeErr("AddFriendPair", "add friend edge", err)
	}
	if tag.RowsAffected() == 0 {
		// Idempotent when the edge already exists; missing rows abort.
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM learners WHERE id = $1)`, ownerRow,
		).Scan(&exists); err != nil {
			return storeErr("AddFriendPair", "check learner exists", err)
		}
		if !exists {
			return learner.ErrLearnerNotFound
		}
	}
	return nil
}

// RemoveFriendPair removes the friendship edge from both profiles in
// one transaction. Removing a missing edge is a no-op.
func (r *LearnerRepository) RemoveFriendPair(ctx context.Context, learnerID, friendID string) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		for _, pair := range [][2]string{{learnerID, friendID}, {friendID, learnerID}} {
			_, err := tx.Exec(ctx, `
				UPDATE learners
				SET friends = array_remove(friends, $2), updated_at = NOW()
				WHERE id = $1
			`, pair[0], pair[1])
			if err != nil {
				return storeErr("RemoveFriendPair", "remove friend edge", err)
			}
		}
		return nil
	})
}

// Update stores the mutable fields of a profile.
func (r *LearnerRepository) Update(ctx context.Context, l *learner.Learner) error {
	l.UpdatedAt = time.Now().UTC()

	tag, err := r.conn.Exec(ctx, `
		UPDATE learners
		SET display_name = $2, is_adult = $3, avatar_color = $4,
		    score = $5, friend_code = $6, friends = $7, updated_at = $8
		WHERE id = $1
	`,
		l.ID,
		l.DisplayName,
		l.IsAdult,
		l.AvatarColor,
		int(l.Score),
		nullableCode(l.FriendCode),
		l.Friends,
		l.UpdatedAt,
	)
	if err != nil {
		return storeErr("Update", "update learner", err)
	}
	if tag.RowsAffected() == 0 {
		return learner.ErrLearnerNotFound
	}
	return nil
}
