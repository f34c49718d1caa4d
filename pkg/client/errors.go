package client

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned whenever the server rejects the bearer token.
// The client clears its token store before returning it.
var ErrUnauthorized = errors.New("client: unauthorized")

// ErrNoSession indicates no stored credentials are available for a call that
// requires authentication.
var ErrNoSession = errors.New("client: no stored session")

// APIError carries a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("client: server returned status %d: %s", e.StatusCode, e.Message)
}
