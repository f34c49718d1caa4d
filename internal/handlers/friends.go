package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hungertracker/hungerd/internal/logging"
	"github.com/hungertracker/hungerd/internal/middleware"
	"github.com/hungertracker/hungerd/internal/models"
	"github.com/hungertracker/hungerd/internal/repositories"
)

// FriendHandler provides friend request and listing endpoints.
type FriendHandler struct {
	Friends FriendStore
	Users   UserStore
	Notify  Notifier
	NowFunc func() time.Time
}

// List handles GET /api/v1/friends requests.
func (h FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)

	if h.Friends == nil {
		logger.Error("friend store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend services unavailable"})
		return
	}

	friendships, err := h.Friends.ListForUser(ctx, userID)
	if err != nil {
		logger.Error("friend listing failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to list friends"})
		return
	}

	payload := make([]friendshipPayload, 0, len(friendships))
	for _, f := range friendships {
		payload = append(payload, newFriendshipPayload(f))
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]friendshipPayload{"friendships": payload})
}

// Request handles POST /api/v1/friends/request.
func (h FriendHandler) Request(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	senderID := middleware.UserIDFromContext(ctx)

	if h.Friends == nil {
		logger.Error("friend store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend services unavailable"})
		return
	}

	var req friendRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid friend request payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.ReceiverID = strings.TrimSpace(req.ReceiverID)
	if req.ReceiverID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "receiver is required"})
		return
	}
	if req.ReceiverID == senderID {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "cannot befriend yourself"})
		return
	}

	friendship := models.Friendship{
		ID:        uuid.NewString(),
		Sender:    senderID,
		Receiver:  req.ReceiverID,
		Status:    models.FriendshipPending,
		CreatedAt: h.now(),
	}

	if err := h.Friends.CreateRequest(ctx, friendship); err != nil {
		switch {
		case errors.Is(err, repositories.ErrConflict):
			respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "friend request already exists"})
		case errors.Is(err, repositories.ErrNotFound):
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "user not found"})
		default:
			logger.Error("friend request failed", "senderId", senderID, "error", err)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to send friend request"})
		}
		return
	}

	if h.Notify != nil && h.Users != nil {
		if sender, err := h.Users.FindByID(ctx, senderID); err == nil {
			content := fmt.Sprintf("%s sent you a friend request", sender.Username)
			if err := h.Notify.NotifyUser(ctx, req.ReceiverID, models.NotificationFriendRequest, content); err != nil {
				logger.Warn("friend request notification not queued", "error", err)
			}
		}
	}

	respondJSON(ctx, w, http.StatusCreated, friendshipResponse{Friendship: newFriendshipPayload(friendship)})
}

// Respond handles POST /api/v1/friends/respond. Only the receiver of a
// pending request may accept or reject it.
func (h FriendHandler) Respond(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)

	if h.Friends == nil {
		logger.Error("friend store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend services unavailable"})
		return
	}

	var req respondRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid respond payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.FriendshipID = strings.TrimSpace(req.FriendshipID)
	if req.FriendshipID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "friendship id is required"})
		return
	}
	if req.Action != models.FriendshipAccepted && req.Action != models.FriendshipRejected {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "action must be accepted or rejected"})
		return
	}

	friendship, err := h.Friends.FindByID(ctx, req.FriendshipID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "friend request not found"})
			return
		}
		logger.Error("friendship lookup failed", "friendshipId", req.FriendshipID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to respond to friend request"})
		return
	}

	if friendship.Receiver != userID {
		respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "only the receiver can respond to a friend request"})
		return
	}
	if friendship.Status != models.FriendshipPending {
		respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "friend request already resolved"})
		return
	}

	if err := h.Friends.UpdateStatus(ctx, friendship.ID, req.Action); err != nil {
		logger.Error("friendship update failed", "friendshipId", friendship.ID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to respond to friend request"})
		return
	}

	if req.Action == models.FriendshipAccepted && h.Notify != nil && h.Users != nil {
		if receiver, err := h.Users.FindByID(ctx, userID); err == nil {
			content := fmt.Sprintf("%s accepted your friend request!", receiver.Username)
			if err := h.Notify.NotifyUser(ctx, friendship.Sender, models.NotificationFriendAccepted, content); err != nil {
				logger.Warn("friend accept notification not queued", "error", err)
			}
		}
	}

	friendship.Status = req.Action
	now := h.now()
	friendship.RespondedAt = &now
	respondJSON(ctx, w, http.StatusOK, friendshipResponse{Friendship: newFriendshipPayload(friendship)})
}

type friendRequestBody struct {
	ReceiverID string `json:"receiver"`
}

type respondRequestBody struct {
	FriendshipID string `json:"friendshipId"`
	Action       string `json:"action"`
}

type friendshipPayload struct {
	ID          string     `json:"id"`
	Sender      string     `json:"sender"`
	Receiver    string     `json:"receiver"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

type friendshipResponse struct {
	Friendship friendshipPayload `json:"friendship"`
}

func newFriendshipPayload(f models.Friendship) friendshipPayload {
	return friendshipPayload{
		ID:          f.ID,
		Sender:      f.Sender,
		Receiver:    f.Receiver,
		Status:      f.Status,
		CreatedAt:   f.CreatedAt,
		RespondedAt: f.RespondedAt,
	}
}

func (h FriendHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
