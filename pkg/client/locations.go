package client

import (
	"context"
	"net/http"
)

type locationUpdate struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_location,omitempty"`
}

// UpdateLocation pushes the device's current coordinates.
func (c *Client) UpdateLocation(ctx context.Context, latitude, longitude float64, displayName string) error {
	body := locationUpdate{Latitude: latitude, Longitude: longitude, DisplayName: displayName}
	return c.doJSON(ctx, http.MethodPut, "/api/v1/locations/me", body, nil)
}

type sharingUpdate struct {
	Mode      string   `json:"mode"`
	AllowList []string `json:"allow_list,omitempty"`
}

// SetSharingMode switches location visibility, then re-fetches friend
// locations so the caller's map reflects the change immediately.
func (c *Client) SetSharingMode(ctx context.Context, mode string, allowList []string) ([]FriendLocation, error) {
	body := sharingUpdate{Mode: mode, AllowList: allowList}
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/locations/me/sharing", body, nil); err != nil {
		return nil, err
	}
	return c.FriendLocations(ctx)
}

// FriendLocations returns the positions the caller is allowed to see.
func (c *Client) FriendLocations(ctx context.Context) ([]FriendLocation, error) {
	var resp struct {
		Locations []FriendLocation `json:"locations"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/locations/friends", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Locations, nil
}
