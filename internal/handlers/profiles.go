package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hungertracker/hungerd/internal/logging"
	"github.com/hungertracker/hungerd/internal/middleware"
	"github.com/hungertracker/hungerd/internal/models"
	"github.com/hungertracker/hungerd/internal/repositories"
)

const maxImageUploadBytes = 10 << 20

// ProfileHandler serves the authenticated user's profile.
type ProfileHandler struct {
	Users    UserStore
	Profiles ProfileStore
	Images   ImageStore
	Notify   Notifier
}

// Me handles GET and PATCH /api/v1/profiles/me.
func (h ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPatch:
		h.update(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h ProfileHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)

	user, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		logger.Error("profile user lookup failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to load profile"})
		return
	}

	profile, err := h.Profiles.Get(ctx, userID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		logger.Error("profile lookup failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to load profile"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, newProfilePayload(user, profile))
}

func (h ProfileHandler) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid profile payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		logger.Error("profile user lookup failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to update profile"})
		return
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "username must not be empty"})
			return
		}
		user.Username = username
	}
	if req.Bio != nil {
		if len(*req.Bio) > 500 {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "bio must be at most 500 characters"})
			return
		}
		user.Bio = *req.Bio
	}
	user.UpdatedAt = time.Now().UTC()

	if err := h.Users.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "username already taken"})
			return
		}
		logger.Error("profile update failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to update profile"})
		return
	}

	profile, err := h.Profiles.Get(ctx, userID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		logger.Error("profile lookup failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to load profile"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, newProfilePayload(user, profile))
}

// UploadImage handles POST /api/v1/profiles/me/image, a multipart upload with
// field name "image".
func (h ProfileHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)

	if h.Images == nil {
		logger.Error("image store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "image uploads unavailable"})
		return
	}

	file, header, err := parseImageUpload(r)
	if err != nil {
		logger.Warn("invalid image upload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("profile_images/%s/%s.jpg", userID, uuid.NewString())
	url, err := h.Images.Save(ctx, key, header.Header.Get("Content-Type"), file)
	if err != nil {
		logger.Error("profile image upload failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to store image"})
		return
	}

	if err := h.Profiles.SetImage(ctx, userID, url); err != nil {
		logger.Error("profile image update failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to update profile"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"profile_image": url})
}

// ToggleHungry handles POST /api/v1/profiles/me/hungry, flipping the hungry
// flag and notifying accepted friends when it turns on.
func (h ProfileHandler) ToggleHungry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)

	profile, err := h.Profiles.Get(ctx, userID)
	if err != nil {
		logger.Error("profile lookup failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to load profile"})
		return
	}

	hungry := !profile.IsHungry
	if err := h.Profiles.SetHungry(ctx, userID, hungry); err != nil {
		logger.Error("toggle hungry failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to update profile"})
		return
	}

	if hungry && h.Notify != nil {
		user, err := h.Users.FindByID(ctx, userID)
		if err == nil {
			content := fmt.Sprintf("%s is hungry!", user.Username)
			if err := h.Notify.NotifyFriends(ctx, userID, models.NotificationHungryStatus, content); err != nil {
				logger.Warn("hungry notification not queued", "userId", userID, "error", err)
			}
		}
	}

	profile.IsHungry = hungry
	respondJSON(ctx, w, http.StatusOK, map[string]bool{"is_hungry": hungry})
}

func parseImageUpload(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		return nil, nil, errors.New("expected multipart form upload")
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, nil, errors.New("image field is required")
	}
	return file, header, nil
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
}

type profilePayload struct {
	userPayload
	ProfileImage string     `json:"profile_image,omitempty"`
	LastAte      *time.Time `json:"last_ate,omitempty"`
	IsHungry     bool       `json:"is_hungry"`
	FriendCount  int        `json:"friend_count"`
	PostCount    int        `json:"post_count"`
}

func newProfilePayload(user models.User, profile models.Profile) profilePayload {
	return profilePayload{
		userPayload:  *newUserPayload(user),
		ProfileImage: profile.ImageURL,
		LastAte:      profile.LastAte,
		IsHungry:     profile.IsHungry,
		FriendCount:  profile.FriendCount,
		PostCount:    profile.PostCount,
	}
}
