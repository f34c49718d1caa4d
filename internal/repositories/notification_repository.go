package repositories

import (
	"context"

	"github.com/hungertracker/hungerd/internal/models"
)

// NotificationRepository exposes data access for user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification models.Notification) error
	ListForUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
}
