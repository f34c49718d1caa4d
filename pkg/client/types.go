package client

import "time"

type tokenPayload struct {
	Access           string    `json:"access"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	Refresh          string    `json:"refresh"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// User is the account representation returned by the API.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Phone    string `json:"phone_number,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// Profile is the user plus presentation state from /profiles/me.
type Profile struct {
	User
	ProfileImage string     `json:"profile_image,omitempty"`
	LastAte      *time.Time `json:"last_ate,omitempty"`
	IsHungry     bool       `json:"is_hungry"`
	FriendCount  int        `json:"friend_count"`
	PostCount    int        `json:"post_count"`
}

// Friendship statuses mirror the server's values.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipRejected = "rejected"
)

// Friendship is a directed friend request between two users.
type Friendship struct {
	ID          string     `json:"id"`
	Sender      string     `json:"sender"`
	Receiver    string     `json:"receiver"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// Post is a feed entry.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Username  string    `json:"username,omitempty"`
	Image     string    `json:"image"`
	Caption   string    `json:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is attached to a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post"`
	UserID    string    `json:"user"`
	Username  string    `json:"username,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Location sharing modes mirror the server's values.
const (
	SharingInvisible     = "invisible"
	SharingAllFriends    = "all_friends"
	SharingSelectFriends = "select_friends"
)

// FriendLocation is a friend's last shared position.
type FriendLocation struct {
	UserID      string    `json:"user"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	DisplayName string    `json:"display_location,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Notification is an inbox entry.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"notification_type"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
