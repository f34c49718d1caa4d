// Package client is the Go SDK for the HungerTracker API. It wraps the HTTP
// surface with typed calls, persists session tokens through a TokenStore, and
// funnels every 401 through a single unauthorized hook so callers can treat
// "session died" as one global event instead of a per-call concern.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a single HungerTracker endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore

	// onUnauthorized fires after the token store has been cleared in
	// response to a 401. Set via OnUnauthorized.
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenStore sets the credential store. Defaults to an in-memory store.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.tokens = store }
}

// New constructs a Client for the given base URL (e.g. "https://api.example.com").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  &MemoryTokenStore{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnUnauthorized registers a hook invoked whenever any call receives a 401.
// The token store is cleared before the hook runs.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// Tokens exposes the current stored credentials.
func (c *Client) Tokens() (Tokens, error) {
	return c.tokens.Load()
}

func (c *Client) setTokens(payload *tokenPayload) error {
	if payload == nil {
		return nil
	}
	return c.tokens.Save(Tokens{Token: payload.Access, RefreshToken: payload.Refresh})
}

func (c *Client) clearTokens() {
	_ = c.tokens.Clear()
}

// doJSON issues a request with an optional JSON body and decodes a JSON
// response into out (when out is non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

// doMultipart issues a multipart/form-data request with a single file field
// plus optional extra form values.
func (c *Client) doMultipart(ctx context.Context, method, path, fieldName, fileName string, file io.Reader, fields url.Values, out any) error {
	body := new(bytes.Buffer)
	form := multipart.NewWriter(body)

	part, err := form.CreateFormFile(fieldName, fileName)
	if err != nil {
		return fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy upload: %w", err)
	}
	for key, values := range fields {
		for _, value := range values {
			if err := form.WriteField(key, value); err != nil {
				return fmt.Errorf("write form field %s: %w", key, err)
			}
		}
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("finish multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	tokens, err := c.tokens.Load()
	if err != nil {
		return fmt.Errorf("load tokens: %w", err)
	}
	if tokens.Token != "" {
		req.Header.Set("Authorization", "Bearer "+tokens.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.clearTokens()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrUnauthorized)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
