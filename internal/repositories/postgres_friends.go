package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hungertracker/hungerd/internal/db"
	"github.com/hungertracker/hungerd/internal/models"
)

// PostgresFriendRepository provides PostgreSQL-backed persistence for friendships.
type PostgresFriendRepository struct {
	pool db.Pool
}

// NewPostgresFriendRepository constructs a friend repository backed by PostgreSQL.
func NewPostgresFriendRepository(pool db.Pool) *PostgresFriendRepository {
	return &PostgresFriendRepository{pool: pool}
}

// CreateRequest persists a new friend request.
func (r *PostgresFriendRepository) CreateRequest(ctx context.Context, friendship models.Friendship) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO friendships (id, sender_id, receiver_id, status, created_at, responded_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, friendship.ID, friendship.Sender, friendship.Receiver, friendship.Status, friendship.CreatedAt, friendship.RespondedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert friendship: %w", err)
	}

	return nil
}

// FindByID loads a single friendship.
func (r *PostgresFriendRepository) FindByID(ctx context.Context, id string) (models.Friendship, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Friendship{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, sender_id, receiver_id, status, created_at, responded_at
        FROM friendships
        WHERE id = $1
    `, id)

	friendship, err := scanFriendship(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Friendship{}, ErrNotFound
		}
		return models.Friendship{}, fmt.Errorf("select friendship: %w", err)
	}
	return friendship, nil
}

// ListForUser returns friendships where the user is the sender or receiver.
func (r *PostgresFriendRepository) ListForUser(ctx context.Context, userID string) ([]models.Friendship, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, sender_id, receiver_id, status, created_at, responded_at
        FROM friendships
        WHERE sender_id = $1 OR receiver_id = $1
        ORDER BY created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query friendships: %w", err)
	}
	defer rows.Close()

	var friendships []models.Friendship
	for rows.Next() {
		friendship, err := scanFriendship(rows)
		if err != nil {
			return nil, fmt.Errorf("scan friendship: %w", err)
		}
		friendships = append(friendships, friendship)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friendships: %w", err)
	}

	return friendships, nil
}

// AcceptedFriendIDs returns the ids of users connected through an accepted friendship.
func (r *PostgresFriendRepository) AcceptedFriendIDs(ctx context.Context, userID string) ([]string, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT DISTINCT
            CASE WHEN f.sender_id = $1 THEN f.receiver_id ELSE f.sender_id END
        FROM friendships f
        WHERE f.status = 'accepted'
          AND (f.sender_id = $1 OR f.receiver_id = $1)
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query accepted friends: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan friend id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accepted friends: %w", err)
	}

	return ids, nil
}

// UpdateStatus updates the status (and responded_at) for a friendship.
func (r *PostgresFriendRepository) UpdateStatus(ctx context.Context, friendshipID, status string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	respondedAt := sql.NullTime{}
	if status != models.FriendshipPending {
		respondedAt = sql.NullTime{Valid: true, Time: time.Now().UTC()}
	}

	tag, err := conn.Exec(ctx, `
        UPDATE friendships
        SET status = $2, responded_at = $3
        WHERE id = $1
    `, friendshipID, status, respondedAt)
	if err != nil {
		return fmt.Errorf("update friendship: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFriendship(row rowScanner) (models.Friendship, error) {
	var (
		friendship  models.Friendship
		respondedAt sql.NullTime
	)
	if err := row.Scan(&friendship.ID, &friendship.Sender, &friendship.Receiver, &friendship.Status, &friendship.CreatedAt, &respondedAt); err != nil {
		return models.Friendship{}, err
	}
	if respondedAt.Valid {
		t := respondedAt.Time.UTC()
		friendship.RespondedAt = &t
	}
	return friendship, nil
}

var _ FriendRepository = (*PostgresFriendRepository)(nil)
