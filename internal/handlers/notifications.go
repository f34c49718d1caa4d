package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/hungertracker/hungerd/internal/logging"
	"github.com/hungertracker/hungerd/internal/middleware"
	"github.com/hungertracker/hungerd/internal/repositories"
)

// NotificationHandler serves the notification inbox.
type NotificationHandler struct {
	Notifications NotificationStore
}

// List handles GET /api/v1/notifications.
func (h NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)

	if h.Notifications == nil {
		logger.Error("notification store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "notifications unavailable"})
		return
	}

	notifications, err := h.Notifications.ListForUser(ctx, userID)
	if err != nil {
		logger.Error("notification query failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to load notifications"})
		return
	}

	payload := make([]notificationPayload, 0, len(notifications))
	for _, n := range notifications {
		payload = append(payload, notificationPayload{
			ID:        n.ID,
			Type:      n.Type,
			Content:   n.Content,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]notificationPayload{"notifications": payload})
}

// MarkRead handles POST /api/v1/notifications/{id}/read.
func (h NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)

	if h.Notifications == nil {
		logger.Error("notification store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "notifications unavailable"})
		return
	}

	notificationID := r.PathValue("id")
	if notificationID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "notification id is required"})
		return
	}

	if err := h.Notifications.MarkRead(ctx, notificationID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "notification not found"})
			return
		}
		logger.Error("mark read failed", "notificationId", notificationID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to update notification"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "read"})
}

type notificationPayload struct {
	ID        string    `json:"id"`
	Type      string    `json:"notification_type"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
