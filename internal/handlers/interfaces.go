package handlers

import (
	"context"
	"io"

	"github.com/hungertracker/hungerd/internal/models"
)

// UserStore captures the persistence operations required by the auth handlers.
type UserStore interface {
	CreateWithProfile(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByPhone(ctx context.Context, phone string) (models.User, error)
	Update(ctx context.Context, user models.User) error
}

// ProfileStore captures persistence for profile state.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (models.Profile, error)
	Update(ctx context.Context, profile models.Profile) error
	SetImage(ctx context.Context, userID, imageURL string) error
	SetHungry(ctx context.Context, userID string, hungry bool) error
	TouchLastAte(ctx context.Context, userID string) error
}

// SessionManager issues, validates, and refreshes authentication tokens.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Validate(ctx context.Context, accessToken string) (string, error)
	Revoke(ctx context.Context, refreshToken string)
}

// PhoneVerifier drives the SMS verification handshake.
type PhoneVerifier interface {
	RequestCode(ctx context.Context, phone string) error
	Confirm(ctx context.Context, phone, code string) error
	Verified(phone string) bool
	ConsumeGrant(phone string)
}

// FriendStore captures operations required by the friend handlers.
type FriendStore interface {
	CreateRequest(ctx context.Context, friendship models.Friendship) error
	FindByID(ctx context.Context, id string) (models.Friendship, error)
	ListForUser(ctx context.Context, userID string) ([]models.Friendship, error)
	AcceptedFriendIDs(ctx context.Context, userID string) ([]string, error)
	UpdateStatus(ctx context.Context, friendshipID, status string) error
}

// PostStore captures persistence for the post feed.
type PostStore interface {
	Create(ctx context.Context, post models.Post) error
	ListFeed(ctx context.Context, userID string) ([]models.Post, error)
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	AddComment(ctx context.Context, comment models.Comment) error
}

// LocationStore captures persistence for shared locations.
type LocationStore interface {
	Upsert(ctx context.Context, share models.LocationShare) error
	Get(ctx context.Context, userID string) (models.LocationShare, error)
	SetSharing(ctx context.Context, userID, mode string, allowList []string) error
	VisibleToUser(ctx context.Context, viewerID string, friendIDs []string) ([]models.LocationShare, error)
}

// NotificationStore captures persistence for the notification inbox.
type NotificationStore interface {
	ListForUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
}

// Notifier schedules background notification delivery.
type Notifier interface {
	NotifyFriends(ctx context.Context, actorID, notificationType, content string) error
	NotifyUser(ctx context.Context, userID, notificationType, content string) error
}

// ImageStore persists uploaded photos and returns their public location.
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}
