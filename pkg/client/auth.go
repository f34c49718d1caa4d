package client

import (
	"context"
	"net/http"
)

// Account discriminants returned by VerifyPhone.
const (
	AccountExisting = "existing"
	AccountNew      = "new"
)

type authResponse struct {
	Tokens tokenPayload `json:"tokens"`
	User   *User        `json:"user,omitempty"`
}

type verifyResponse struct {
	Account string        `json:"account"`
	Tokens  *tokenPayload `json:"tokens,omitempty"`
	User    *User         `json:"user,omitempty"`
}

// VerifyResult reports the outcome of a phone verification attempt.
type VerifyResult struct {
	// Account is "existing" when the phone belongs to a registered user
	// (in which case the client is now logged in) or "new" when the number
	// holds a registration grant.
	Account string
	User    *User
}

// Existing reports whether the verification logged in a returning user. It
// prefers the server's explicit discriminant and falls back to token
// presence for older servers.
func (r VerifyResult) Existing() bool {
	if r.Account != "" {
		return r.Account == AccountExisting
	}
	return r.User != nil
}

// RequestVerification asks the server to send an SMS code to the phone number.
func (c *Client) RequestVerification(ctx context.Context, phoneNumber string) error {
	body := map[string]string{"phone_number": phoneNumber}
	return c.doJSON(ctx, http.MethodPost, "/api/v1/auth/phone/request-verification", body, nil)
}

// VerifyPhone confirms an SMS code. For returning users the session tokens
// are stored and the client is authenticated afterwards.
func (c *Client) VerifyPhone(ctx context.Context, phoneNumber, code string) (VerifyResult, error) {
	body := map[string]string{"phone_number": phoneNumber, "code": code}

	var resp verifyResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/phone/verify", body, &resp); err != nil {
		return VerifyResult{}, err
	}

	if err := c.setTokens(resp.Tokens); err != nil {
		return VerifyResult{}, err
	}

	return VerifyResult{Account: resp.Account, User: resp.User}, nil
}

// RegisterParams carries the fields required to create an account. The phone
// number must have been verified first.
type RegisterParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Phone    string `json:"phone_number"`
}

// Register creates an account and stores the issued session tokens.
func (c *Client) Register(ctx context.Context, params RegisterParams) (*User, error) {
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/register", params, &resp); err != nil {
		return nil, err
	}
	if err := c.setTokens(&resp.Tokens); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Login exchanges email and password for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}

	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/token", body, &resp); err != nil {
		return nil, err
	}
	if err := c.setTokens(&resp.Tokens); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Refresh rotates the session using the stored refresh token.
func (c *Client) Refresh(ctx context.Context) error {
	tokens, err := c.tokens.Load()
	if err != nil {
		return err
	}
	if tokens.RefreshToken == "" {
		return ErrNoSession
	}

	body := map[string]string{"refreshToken": tokens.RefreshToken}

	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/refresh", body, &resp); err != nil {
		return err
	}
	return c.setTokens(&resp.Tokens)
}

// Logout revokes the session server-side and always clears local tokens,
// even when the revoke call fails.
func (c *Client) Logout(ctx context.Context) error {
	tokens, err := c.tokens.Load()
	if err != nil {
		c.clearTokens()
		return err
	}

	var callErr error
	if tokens.RefreshToken != "" {
		body := map[string]string{"refreshToken": tokens.RefreshToken}
		callErr = c.doJSON(ctx, http.MethodPost, "/api/v1/auth/logout", body, nil)
	}

	c.clearTokens()
	return callErr
}
