package client

import (
	"context"
	"sync"
)

// SessionState describes where the session machine currently is.
type SessionState string

const (
	// SessionUnknown is the initial state before Bootstrap runs.
	SessionUnknown SessionState = "unknown"
	// SessionChecking means a stored token is being validated.
	SessionChecking SessionState = "checking"
	// SessionAuthenticated means calls will carry a valid bearer token.
	SessionAuthenticated SessionState = "authenticated"
	// SessionUnauthenticated means no usable credentials exist.
	SessionUnauthenticated SessionState = "unauthenticated"
)

// Session tracks authentication state on top of a Client. All transitions
// are serialized, so concurrent Login/Logout calls cannot interleave.
type Session struct {
	client *Client

	mu          sync.Mutex
	state       SessionState
	user        *User
	subscribers []func(SessionState)
}

// NewSession wraps the client and registers the global 401 hook: any
// unauthorized response from any call flips the session to unauthenticated.
func NewSession(client *Client) *Session {
	s := &Session{client: client, state: SessionUnknown}
	client.OnUnauthorized(func() {
		s.setState(SessionUnauthenticated, nil)
	})
	return s
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the authenticated user, if any.
func (s *Session) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Subscribe registers a callback fired on every state change. The callback
// runs outside the session lock.
func (s *Session) Subscribe(fn func(SessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Session) setState(state SessionState, user *User) {
	s.mu.Lock()
	changed := s.state != state
	s.state = state
	s.user = user
	subscribers := make([]func(SessionState), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range subscribers {
		fn(state)
	}
}

// Bootstrap resolves the stored token on startup: no token means
// unauthenticated; a token is validated with a profile fetch, and a rejected
// token leaves the store cleared and the session unauthenticated.
func (s *Session) Bootstrap(ctx context.Context) SessionState {
	s.setState(SessionChecking, nil)

	tokens, err := s.client.Tokens()
	if err != nil || tokens.Token == "" {
		s.setState(SessionUnauthenticated, nil)
		return SessionUnauthenticated
	}

	profile, err := s.client.Me(ctx)
	if err != nil {
		// A 401 already cleared the store through the client hook;
		// clear explicitly for transport errors too so a corrupt
		// token cannot wedge the app in checking forever.
		s.client.clearTokens()
		s.setState(SessionUnauthenticated, nil)
		return SessionUnauthenticated
	}

	user := profile.User
	s.setState(SessionAuthenticated, &user)
	return SessionAuthenticated
}

// Login authenticates with email and password.
func (s *Session) Login(ctx context.Context, email, password string) error {
	user, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.setState(SessionUnauthenticated, nil)
		return err
	}
	s.setState(SessionAuthenticated, user)
	return nil
}

// Register creates an account; success leaves the session authenticated.
func (s *Session) Register(ctx context.Context, params RegisterParams) error {
	user, err := s.client.Register(ctx, params)
	if err != nil {
		return err
	}
	s.setState(SessionAuthenticated, user)
	return nil
}

// VerifyPhone confirms an SMS code. Returning users come out authenticated.
func (s *Session) VerifyPhone(ctx context.Context, phoneNumber, code string) (VerifyResult, error) {
	result, err := s.client.VerifyPhone(ctx, phoneNumber, code)
	if err != nil {
		return VerifyResult{}, err
	}
	if result.Existing() {
		s.setState(SessionAuthenticated, result.User)
	}
	return result, nil
}

// Logout revokes the session and always ends unauthenticated, even when the
// server call fails.
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)
	s.setState(SessionUnauthenticated, nil)
	return err
}
