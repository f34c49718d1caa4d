package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hungertracker/hungerd/internal/models"
)

func seedUser(t *testing.T, store *inMemoryUserStore, email, password, phone string) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := models.User{
		ID:            "user-" + email,
		Username:      "u-" + email,
		Email:         email,
		Phone:         phone,
		Password:      string(hashed),
		PhoneVerified: true,
	}
	if err := store.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func postJSON(t *testing.T, body any) *bytes.Buffer {
	t.Helper()

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	return buf
}

func TestAuthHandlerToken(t *testing.T) {
	store := newInMemoryUserStore()
	user := seedUser(t, store, "ada@example.com", "supersafe", "+15550000001")

	handler := AuthHandler{Users: store, Sessions: newFakeSessionManager()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", postJSON(t, tokenRequest{Email: "Ada@Example.com", Password: "supersafe"}))
	rec := httptest.NewRecorder()

	handler.Token(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var resp authResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Tokens.Access == "" || resp.Tokens.Refresh == "" {
		t.Fatal("expected token pair in response")
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("expected user %q in response, got %+v", user.ID, resp.User)
	}
}

func TestAuthHandlerTokenRejectsBadPassword(t *testing.T) {
	store := newInMemoryUserStore()
	seedUser(t, store, "ada@example.com", "supersafe", "+15550000001")

	handler := AuthHandler{Users: store, Sessions: newFakeSessionManager()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", postJSON(t, tokenRequest{Email: "ada@example.com", Password: "wrong"}))
	rec := httptest.NewRecorder()

	handler.Token(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 got %d", rec.Code)
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	store := newInMemoryUserStore()
	profiles := newInMemoryProfileStore()
	store.profiles = profiles
	verifier := newFakeVerifier()
	verifier.verified["+15550000002"] = true

	handler := AuthHandler{Users: store, Sessions: newFakeSessionManager(), Verifier: verifier}

	body := registerRequest{
		Email:    "grace@example.com",
		Password: "longenough",
		Username: "grace",
		Name:     "Grace",
		Phone:    "555 000 0002",
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", postJSON(t, body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 got %d: %s", rec.Code, rec.Body.String())
	}

	var resp authResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User == nil {
		t.Fatal("expected user in response")
	}

	created, err := store.FindByPhone(context.Background(), "+15550000002")
	if err != nil {
		t.Fatalf("expected normalized phone persisted: %v", err)
	}
	if !created.PhoneVerified {
		t.Fatal("expected phone_verified to be set")
	}
	if _, err := profiles.Get(context.Background(), created.ID); err != nil {
		t.Fatalf("expected profile row seeded: %v", err)
	}
	if len(verifier.consumed) != 1 || verifier.consumed[0] != "+15550000002" {
		t.Fatalf("expected verification grant consumed, got %v", verifier.consumed)
	}
}

func TestAuthHandlerRegisterRollsBackOnProfileFailure(t *testing.T) {
	store := newInMemoryUserStore()
	store.profiles = newInMemoryProfileStore()
	store.profileErr = errors.New("profiles unavailable")
	verifier := newFakeVerifier()
	verifier.verified["+15550000002"] = true

	handler := AuthHandler{Users: store, Sessions: newFakeSessionManager(), Verifier: verifier}

	body := registerRequest{
		Email:    "grace@example.com",
		Password: "longenough",
		Username: "grace",
		Name:     "Grace",
		Phone:    "+15550000002",
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", postJSON(t, body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500 got %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := store.FindByEmail(context.Background(), "grace@example.com"); err == nil {
		t.Fatal("expected no user row after failed registration")
	}
	if len(verifier.consumed) != 0 {
		t.Fatalf("expected verification grant retained, got %v", verifier.consumed)
	}
}

func TestAuthHandlerRegisterRequiresVerifiedPhone(t *testing.T) {
	handler := AuthHandler{Users: newInMemoryUserStore(), Sessions: newFakeSessionManager(), Verifier: newFakeVerifier()}

	body := registerRequest{Email: "grace@example.com", Password: "longenough", Username: "grace", Phone: "+15550000002"}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", postJSON(t, body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestAuthHandlerRegisterValidation(t *testing.T) {
	verifier := newFakeVerifier()
	verifier.verified["+15550000002"] = true

	cases := []struct {
		name string
		body registerRequest
	}{
		{"missing email", registerRequest{Password: "longenough", Username: "grace", Phone: "+15550000002"}},
		{"bad email", registerRequest{Email: "not-an-email", Password: "longenough", Username: "grace", Phone: "+15550000002"}},
		{"short password", registerRequest{Email: "grace@example.com", Password: "short", Username: "grace", Phone: "+15550000002"}},
		{"missing username", registerRequest{Email: "grace@example.com", Password: "longenough", Phone: "+15550000002"}},
		{"missing phone", registerRequest{Email: "grace@example.com", Password: "longenough", Username: "grace"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := AuthHandler{Users: newInMemoryUserStore(), Sessions: newFakeSessionManager(), Verifier: verifier}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", postJSON(t, tc.body))
			rec := httptest.NewRecorder()

			handler.Register(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400 got %d", rec.Code)
			}
		})
	}
}

func TestAuthHandlerRegisterConflict(t *testing.T) {
	store := newInMemoryUserStore()
	seedUser(t, store, "grace@example.com", "supersafe", "+15550000002")

	verifier := newFakeVerifier()
	verifier.verified["+15550000002"] = true

	handler := AuthHandler{Users: store, Sessions: newFakeSessionManager(), Verifier: verifier}

	body := registerRequest{Email: "grace@example.com", Password: "longenough", Username: "grace", Phone: "+15550000002"}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", postJSON(t, body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409 got %d", rec.Code)
	}
}

func TestAuthHandlerRefreshAndLogout(t *testing.T) {
	manager := newFakeSessionManager()
	handler := AuthHandler{Users: newInMemoryUserStore(), Sessions: manager}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", postJSON(t, refreshRequest{RefreshToken: "refresh-1"}))
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", postJSON(t, refreshRequest{RefreshToken: "refresh-1"}))
	rec = httptest.NewRecorder()

	handler.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if len(manager.revoked) != 1 || manager.revoked[0] != "refresh-1" {
		t.Fatalf("expected refresh-1 revoked, got %v", manager.revoked)
	}
}

func TestAuthHandlerTokenRateLimited(t *testing.T) {
	handler := AuthHandler{Users: newInMemoryUserStore(), Sessions: newFakeSessionManager(), Limiter: denyAllLimiter{}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", postJSON(t, tokenRequest{Email: "a@b.c", Password: "x"}))
	rec := httptest.NewRecorder()

	handler.Token(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429 got %d", rec.Code)
	}
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }
