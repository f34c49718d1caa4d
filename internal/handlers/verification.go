package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hungertracker/hungerd/internal/logging"
	"github.com/hungertracker/hungerd/internal/repositories"
	"github.com/hungertracker/hungerd/internal/verify"
	"github.com/hungertracker/hungerd/pkg/phone"
)

// Account discriminants returned by the verify endpoint so clients never have
// to infer new-versus-returning from the shape of the response.
const (
	accountExisting = "existing"
	accountNew      = "new"
)

// VerificationHandler implements the SMS phone verification handshake.
type VerificationHandler struct {
	Users    UserStore
	Sessions SessionManager
	Verifier PhoneVerifier
	Limiter  RateLimiter
}

// RequestCode handles POST /api/v1/auth/phone/request-verification.
func (h VerificationHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Verifier == nil {
		logger.Error("verification service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "verification service unavailable"})
		return
	}

	if !allowRequest(h.Limiter, r, "phone-verify") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many verification requests"})
		return
	}

	var req phoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid verification payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	normalized := phone.Normalize(req.Phone)
	if normalized == "" {
		logger.Warn("verification missing phone")
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "phone number is required"})
		return
	}

	if err := h.Verifier.RequestCode(ctx, normalized); err != nil {
		logger.Error("failed to issue verification code", "phone", normalized, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to send verification code"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"message": "verification code sent"})
}

// VerifyCode handles POST /api/v1/auth/phone/verify. Returning users receive
// a session token pair and account "existing"; unknown numbers receive a
// verification grant and account "new", which routes the client into the
// remaining onboarding steps.
func (h VerificationHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Verifier == nil || h.Users == nil || h.Sessions == nil {
		logger.Error("verification dependencies unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "verification service unavailable"})
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid verify payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	normalized := phone.Normalize(req.Phone)
	code := strings.TrimSpace(req.Code)
	if normalized == "" || code == "" {
		logger.Warn("verify missing fields")
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "phone number and verification code are required"})
		return
	}

	if err := h.Verifier.Confirm(ctx, normalized, code); err != nil {
		if errors.Is(err, verify.ErrCodeMismatch) || errors.Is(err, verify.ErrCodeExpired) {
			logger.Warn("verification rejected", "phone", normalized, "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid verification code"})
			return
		}
		logger.Error("verification failed", "phone", normalized, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to verify phone"})
		return
	}

	user, err := h.Users.FindByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusOK, verifyResponse{Account: accountNew})
			return
		}
		logger.Error("verify user lookup failed", "phone", normalized, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to verify phone"})
		return
	}

	tokens, err := h.Sessions.Issue(ctx, user.ID)
	if err != nil {
		logger.Error("verify failed to issue session", "userId", user.ID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
		return
	}

	h.Verifier.ConsumeGrant(normalized)

	payload := newTokenPayload(tokens)
	respondJSON(ctx, w, http.StatusOK, verifyResponse{Account: accountExisting, Tokens: &payload, User: newUserPayload(user)})
}

type phoneRequest struct {
	Phone string `json:"phone_number"`
}

type verifyRequest struct {
	Phone string `json:"phone_number"`
	Code  string `json:"code"`
}

type verifyResponse struct {
	Account string        `json:"account"`
	Tokens  *tokenPayload `json:"tokens,omitempty"`
	User    *userPayload  `json:"user,omitempty"`
}
