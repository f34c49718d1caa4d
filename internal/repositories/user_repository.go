package repositories

import (
	"context"

	"github.com/hungertracker/hungerd/internal/models"
)

// UserRepository defines the data access contract for users and profiles.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByPhone(ctx context.Context, phone string) (models.User, error)
	Update(ctx context.Context, user models.User) error
}

// ProfileRepository defines data access for the profile state attached to users.
type ProfileRepository interface {
	Create(ctx context.Context, userID string) error
	Get(ctx context.Context, userID string) (models.Profile, error)
	Update(ctx context.Context, profile models.Profile) error
	SetImage(ctx context.Context, userID, imageURL string) error
	SetHungry(ctx context.Context, userID string, hungry bool) error
	TouchLastAte(ctx context.Context, userID string) error
}
