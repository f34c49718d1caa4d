package client

import (
	"context"
	"net/http"
)

// Friends lists the caller's friendships in every status.
func (c *Client) Friends(ctx context.Context) ([]Friendship, error) {
	var resp struct {
		Friendships []Friendship `json:"friendships"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/friends", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Friendships, nil
}

// SendFriendRequest invites another user.
func (c *Client) SendFriendRequest(ctx context.Context, receiverID string) (Friendship, error) {
	body := map[string]string{"receiver": receiverID}

	var resp struct {
		Friendship Friendship `json:"friendship"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/friends/request", body, &resp); err != nil {
		return Friendship{}, err
	}
	return resp.Friendship, nil
}

// RespondToFriendRequest accepts or rejects a pending request. Only the
// receiver may respond; action must be FriendshipAccepted or FriendshipRejected.
func (c *Client) RespondToFriendRequest(ctx context.Context, friendshipID, action string) (Friendship, error) {
	body := map[string]string{"friendshipId": friendshipID, "action": action}

	var resp struct {
		Friendship Friendship `json:"friendship"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/friends/respond", body, &resp); err != nil {
		return Friendship{}, err
	}
	return resp.Friendship, nil
}
