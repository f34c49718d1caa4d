package repositories

import (
	"context"

	"github.com/hungertracker/hungerd/internal/models"
)

// LocationRepository exposes data access for shared locations.
type LocationRepository interface {
	Upsert(ctx context.Context, share models.LocationShare) error
	Get(ctx context.Context, userID string) (models.LocationShare, error)
	SetSharing(ctx context.Context, userID, mode string, allowList []string) error
	VisibleToUser(ctx context.Context, viewerID string, friendIDs []string) ([]models.LocationShare, error)
}
