package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hungertracker/hungerd/internal/db"
	"github.com/hungertracker/hungerd/internal/models"
)

// PostgresLocationRepository provides PostgreSQL-backed persistence for shared locations.
type PostgresLocationRepository struct {
	pool db.Pool
}

// NewPostgresLocationRepository constructs a location repository backed by PostgreSQL.
func NewPostgresLocationRepository(pool db.Pool) *PostgresLocationRepository {
	return &PostgresLocationRepository{pool: pool}
}

// Upsert records the user's most recent coordinates, creating the share row
// with the default sharing mode on first push.
func (r *PostgresLocationRepository) Upsert(ctx context.Context, share models.LocationShare) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	mode := share.SharingMode
	if mode == "" {
		mode = models.SharingAllFriends
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO location_shares (user_id, latitude, longitude, display_name, sharing_mode, allow_list, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, now())
        ON CONFLICT (user_id)
        DO UPDATE SET latitude = EXCLUDED.latitude,
                      longitude = EXCLUDED.longitude,
                      display_name = EXCLUDED.display_name,
                      updated_at = now()
    `, share.UserID, share.Latitude, share.Longitude, share.DisplayName, mode, share.AllowList)
	if err != nil {
		return fmt.Errorf("upsert location share: %w", err)
	}

	return nil
}

// Get loads a user's location share.
func (r *PostgresLocationRepository) Get(ctx context.Context, userID string) (models.LocationShare, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.LocationShare{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT user_id, latitude, longitude, display_name, sharing_mode, allow_list, updated_at
        FROM location_shares
        WHERE user_id = $1
    `, userID)

	var share models.LocationShare
	if err := row.Scan(&share.UserID, &share.Latitude, &share.Longitude, &share.DisplayName, &share.SharingMode, &share.AllowList, &share.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.LocationShare{}, ErrNotFound
		}
		return models.LocationShare{}, fmt.Errorf("select location share: %w", err)
	}

	return share, nil
}

// SetSharing updates the visibility mode and the select-friends allow list.
func (r *PostgresLocationRepository) SetSharing(ctx context.Context, userID, mode string, allowList []string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE location_shares
        SET sharing_mode = $2, allow_list = $3, updated_at = now()
        WHERE user_id = $1
    `, userID, mode, allowList)
	if err != nil {
		return fmt.Errorf("update sharing mode: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// VisibleToUser returns friend locations the viewer is allowed to see: owners
// sharing with all friends, or owners whose allow list names the viewer.
func (r *PostgresLocationRepository) VisibleToUser(ctx context.Context, viewerID string, friendIDs []string) ([]models.LocationShare, error) {
	if len(friendIDs) == 0 {
		return nil, nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT user_id, latitude, longitude, display_name, sharing_mode, allow_list, updated_at
        FROM location_shares
        WHERE user_id = ANY($2)
          AND (sharing_mode = 'all_friends'
               OR (sharing_mode = 'select_friends' AND $1 = ANY(allow_list)))
        ORDER BY updated_at DESC
    `, viewerID, friendIDs)
	if err != nil {
		return nil, fmt.Errorf("query visible locations: %w", err)
	}
	defer rows.Close()

	var shares []models.LocationShare
	for rows.Next() {
		var share models.LocationShare
		if err := rows.Scan(&share.UserID, &share.Latitude, &share.Longitude, &share.DisplayName, &share.SharingMode, &share.AllowList, &share.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location share: %w", err)
		}
		shares = append(shares, share)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visible locations: %w", err)
	}

	return shares, nil
}

var _ LocationRepository = (*PostgresLocationRepository)(nil)
