package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hungertracker/hungerd/internal/logging"
	"github.com/hungertracker/hungerd/internal/middleware"
	"github.com/hungertracker/hungerd/internal/models"
	"github.com/hungertracker/hungerd/internal/repositories"
)

// LocationHandler implements the location sharing endpoints behind the map screen.
type LocationHandler struct {
	Locations LocationStore
	Friends   FriendStore
}

// UpdateMine handles PUT /api/v1/locations/me, recording the device's
// current coordinates.
func (h LocationHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)

	if h.Locations == nil {
		logger.Error("location store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "location services unavailable"})
		return
	}

	var req locationUpdateBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid location payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "coordinates out of range"})
		return
	}

	share := models.LocationShare{
		UserID:      userID,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		DisplayName: req.DisplayName,
	}

	if err := h.Locations.Upsert(ctx, share); err != nil {
		logger.Error("location upsert failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to update location"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "location updated"})
}

// SetSharing handles PUT /api/v1/locations/me/sharing, switching the
// visibility mode and the select-friends allow list.
func (h LocationHandler) SetSharing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)

	if h.Locations == nil {
		logger.Error("location store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "location services unavailable"})
		return
	}

	var req sharingUpdateBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid sharing payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	switch req.Mode {
	case models.SharingInvisible, models.SharingAllFriends:
		req.AllowList = nil
	case models.SharingSelectFriends:
	default:
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "unknown sharing mode"})
		return
	}

	if err := h.Locations.SetSharing(ctx, userID, req.Mode, req.AllowList); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "no location shared yet"})
			return
		}
		logger.Error("sharing update failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to update sharing mode"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "sharing mode updated", "mode": req.Mode})
}

// FriendLocations handles GET /api/v1/locations/friends, returning the
// last-known positions the viewer is allowed to see.
func (h LocationHandler) FriendLocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)

	if h.Locations == nil || h.Friends == nil {
		logger.Error("location dependencies unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "location services unavailable"})
		return
	}

	friendIDs, err := h.Friends.AcceptedFriendIDs(ctx, userID)
	if err != nil {
		logger.Error("friend resolution failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to load friend locations"})
		return
	}

	shares, err := h.Locations.VisibleToUser(ctx, userID, friendIDs)
	if err != nil {
		logger.Error("visible locations query failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to load friend locations"})
		return
	}

	payload := make([]locationPayload, 0, len(shares))
	for _, share := range shares {
		payload = append(payload, locationPayload{
			UserID:      share.UserID,
			Latitude:    share.Latitude,
			Longitude:   share.Longitude,
			DisplayName: share.DisplayName,
			UpdatedAt:   share.UpdatedAt,
		})
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]locationPayload{"locations": payload})
}

type locationUpdateBody struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_location,omitempty"`
}

type sharingUpdateBody struct {
	Mode      string   `json:"mode"`
	AllowList []string `json:"allow_list,omitempty"`
}

type locationPayload struct {
	UserID      string    `json:"user"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	DisplayName string    `json:"display_location,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
