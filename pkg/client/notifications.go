package client

import (
	"context"
	"net/http"
	"net/url"
)

// Notifications lists the caller's notification inbox, newest first.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var resp struct {
		Notifications []Notification `json:"notifications"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/notifications", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, notificationID string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/v1/notifications/"+url.PathEscape(notificationID)+"/read", nil, nil)
}
