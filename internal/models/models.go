package models

import "time"

// User represents an account within the HungerTracker platform.
type User struct {
	ID            string
	Username      string
	Name          string
	Email         string
	Phone         string
	Password      string
	Bio           string
	PhoneVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Profile carries the presentation-facing state attached to a user.
type Profile struct {
	UserID      string
	ImageURL    string
	LastAte     *time.Time
	IsHungry    bool
	FriendCount int
	PostCount   int
	UpdatedAt   time.Time
}

// Friendship statuses. Transitions out of pending are receiver-driven.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipRejected = "rejected"
)

// Friendship represents a directed friend request between two users.
type Friendship struct {
	ID          string
	Sender      string
	Receiver    string
	Status      string
	CreatedAt   time.Time
	RespondedAt *time.Time
}

// Post is a photo shared to the feed.
type Post struct {
	ID        string
	UserID    string
	Username  string
	ImageURL  string
	Caption   string
	CreatedAt time.Time
}

// Comment is attached to a post.
type Comment struct {
	ID        string
	PostID    string
	UserID    string
	Username  string
	Body      string
	CreatedAt time.Time
}

// Sharing modes control who may see a user's last-known location.
const (
	SharingInvisible     = "invisible"
	SharingAllFriends    = "all_friends"
	SharingSelectFriends = "select_friends"
)

// LocationShare is a user's last pushed coordinates plus visibility settings.
type LocationShare struct {
	UserID      string
	Latitude    float64
	Longitude   float64
	DisplayName string
	SharingMode string
	AllowList   []string
	UpdatedAt   time.Time
}

// Notification types fanned out to friends.
const (
	NotificationFriendRequest  = "friend_request"
	NotificationFriendAccepted = "friend_accepted"
	NotificationHungryStatus   = "hungry_status"
	NotificationNewPost        = "new_post"
)

// Notification is an inbox entry for a single user.
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Content   string
	IsRead    bool
	CreatedAt time.Time
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
