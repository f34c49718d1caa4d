package repositories

import (
	"context"

	"github.com/hungertracker/hungerd/internal/models"
)

// FriendRepository defines data access for friendships.
type FriendRepository interface {
	CreateRequest(ctx context.Context, friendship models.Friendship) error
	FindByID(ctx context.Context, id string) (models.Friendship, error)
	ListForUser(ctx context.Context, userID string) ([]models.Friendship, error)
	AcceptedFriendIDs(ctx context.Context, userID string) ([]string, error)
	UpdateStatus(ctx context.Context, friendshipID, status string) error
}
