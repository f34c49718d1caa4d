package client

import (
	"context"
	"io"
	"net/http"
)

// Me fetches the caller's profile.
func (c *Client) Me(ctx context.Context) (Profile, error) {
	var profile Profile
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/profiles/me", nil, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// ProfileUpdate carries partial profile edits. Nil fields are untouched.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Username *string `json:"username,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

// UpdateProfile applies a partial profile edit and returns the new state.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (Profile, error) {
	var profile Profile
	if err := c.doJSON(ctx, http.MethodPatch, "/api/v1/profiles/me", update, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// UploadProfileImage uploads a new profile picture and returns its URL.
func (c *Client) UploadProfileImage(ctx context.Context, fileName string, image io.Reader) (string, error) {
	var resp struct {
		ProfileImage string `json:"profile_image"`
	}
	if err := c.doMultipart(ctx, http.MethodPost, "/api/v1/profiles/me/image", "image", fileName, image, nil, &resp); err != nil {
		return "", err
	}
	return resp.ProfileImage, nil
}

// ToggleHungry flips the hungry flag and returns the new value.
func (c *Client) ToggleHungry(ctx context.Context) (bool, error) {
	var resp struct {
		IsHungry bool `json:"is_hungry"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/profiles/me/hungry", nil, &resp); err != nil {
		return false, err
	}
	return resp.IsHungry, nil
}
