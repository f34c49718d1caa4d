package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgxv5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hungertracker/hungerd/internal/db"
	"github.com/hungertracker/hungerd/internal/models"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, username, name, email, phone, password_hash, bio, phone_verified, created_at, updated_at`

// Create persists a new user record.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, username, name, email, phone, password_hash, bio, phone_verified, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `, user.ID, user.Username, user.Name, user.Email, user.Phone, user.Password, user.Bio, user.PhoneVerified, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// CreateWithProfile persists a new user and seeds their profile row in a
// single transaction, so a failed profile insert never leaves an account
// without a profile. Retries follow the cockroach client-side protocol.
func (r *PostgresUserRepository) CreateWithProfile(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	err = crdbpgx.ExecuteTx(ctx, conn, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
            INSERT INTO users (id, username, name, email, phone, password_hash, bio, phone_verified, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        `, user.ID, user.Username, user.Name, user.Email, user.Phone, user.Password, user.Bio, user.PhoneVerified, user.CreatedAt, user.UpdatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
            INSERT INTO profiles (user_id, image_url, is_hungry, updated_at)
            VALUES ($1, '', FALSE, now())
        `, user.ID)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("create user with profile: %w", err)
	}

	return nil
}

// FindByID fetches a user by primary key.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	return r.findBy(ctx, "id", id)
}

// FindByEmail fetches a user by their email address.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findBy(ctx, "email", email)
}

// FindByPhone fetches a user by their normalized phone number.
func (r *PostgresUserRepository) FindByPhone(ctx context.Context, phone string) (models.User, error) {
	return r.findBy(ctx, "phone", phone)
}

func (r *PostgresUserRepository) findBy(ctx context.Context, column, value string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+userColumns+`
        FROM users
        WHERE `+column+` = $1
    `, value)

	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Name, &user.Email, &user.Phone, &user.Password, &user.Bio, &user.PhoneVerified, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user by %s: %w", column, err)
	}

	return user, nil
}

// Update modifies an existing user record.
func (r *PostgresUserRepository) Update(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET username = $2, name = $3, email = $4, phone = $5, password_hash = $6, bio = $7, phone_verified = $8, updated_at = $9
        WHERE id = $1
    `, user.ID, user.Username, user.Name, user.Email, user.Phone, user.Password, user.Bio, user.PhoneVerified, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// PostgresProfileRepository provides PostgreSQL-backed persistence for profiles.
type PostgresProfileRepository struct {
	pool db.Pool
}

// NewPostgresProfileRepository constructs a profile repository backed by PostgreSQL.
func NewPostgresProfileRepository(pool db.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

// Create seeds an empty profile row for a newly registered user.
func (r *PostgresProfileRepository) Create(ctx context.Context, userID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO profiles (user_id, image_url, is_hungry, updated_at)
        VALUES ($1, '', FALSE, now())
        ON CONFLICT (user_id) DO NOTHING
    `, userID)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	return nil
}

// Get loads a profile along with its derived friend and post counts.
func (r *PostgresProfileRepository) Get(ctx context.Context, userID string) (models.Profile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Profile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT p.user_id, p.image_url, p.last_ate, p.is_hungry, p.updated_at,
               (SELECT COUNT(*) FROM friendships f
                WHERE f.status = 'accepted' AND (f.sender_id = p.user_id OR f.receiver_id = p.user_id)),
               (SELECT COUNT(*) FROM posts WHERE posts.user_id = p.user_id)
        FROM profiles p
        WHERE p.user_id = $1
    `, userID)

	var profile models.Profile
	var lastAte *time.Time
	if err := row.Scan(&profile.UserID, &profile.ImageURL, &lastAte, &profile.IsHungry, &profile.UpdatedAt, &profile.FriendCount, &profile.PostCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, fmt.Errorf("select profile: %w", err)
	}
	profile.LastAte = lastAte

	return profile, nil
}

// Update replaces the mutable profile fields.
func (r *PostgresProfileRepository) Update(ctx context.Context, profile models.Profile) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE profiles
        SET image_url = $2, is_hungry = $3, updated_at = now()
        WHERE user_id = $1
    `, profile.UserID, profile.ImageURL, profile.IsHungry)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// SetImage records the uploaded profile image location.
func (r *PostgresProfileRepository) SetImage(ctx context.Context, userID, imageURL string) error {
	return r.exec(ctx, `UPDATE profiles SET image_url = $2, updated_at = now() WHERE user_id = $1`, userID, imageURL)
}

// SetHungry flips the hungry flag.
func (r *PostgresProfileRepository) SetHungry(ctx context.Context, userID string, hungry bool) error {
	return r.exec(ctx, `UPDATE profiles SET is_hungry = $2, updated_at = now() WHERE user_id = $1`, userID, hungry)
}

// TouchLastAte stamps the most recent post time onto the profile.
func (r *PostgresProfileRepository) TouchLastAte(ctx context.Context, userID string) error {
	return r.exec(ctx, `UPDATE profiles SET last_ate = now(), updated_at = now() WHERE user_id = $1`, userID)
}

func (r *PostgresProfileRepository) exec(ctx context.Context, query string, args ...any) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
var _ ProfileRepository = (*PostgresProfileRepository)(nil)
