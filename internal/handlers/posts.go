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

const maxCaptionLength = 2000

// PostHandler implements the photo feed endpoints.
type PostHandler struct {
	Posts    PostStore
	Profiles ProfileStore
	Users    UserStore
	Images   ImageStore
	Notify   Notifier
	NowFunc  func() time.Time
}

// Handle serves GET and POST /api/v1/posts.
func (h PostHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.feed(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h PostHandler) feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)

	if h.Posts == nil {
		logger.Error("post store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "feed unavailable"})
		return
	}

	posts, err := h.Posts.ListFeed(ctx, userID)
	if err != nil {
		logger.Error("feed query failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to load feed"})
		return
	}

	payload := make([]postPayload, 0, len(posts))
	for _, p := range posts {
		payload = append(payload, newPostPayload(p))
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]postPayload{"posts": payload})
}

// create accepts a multipart upload: an "image" file plus a "caption" field.
func (h PostHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)

	if h.Posts == nil || h.Images == nil {
		logger.Error("post dependencies unavailable", "hasPosts", h.Posts != nil, "hasImages", h.Images != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "post services unavailable"})
		return
	}

	file, header, err := parseImageUpload(r)
	if err != nil {
		logger.Warn("invalid post upload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	defer file.Close()

	caption := strings.TrimSpace(r.FormValue("caption"))
	if len(caption) > maxCaptionLength {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "caption too long"})
		return
	}

	postID := uuid.NewString()
	key := fmt.Sprintf("posts/%s/%s.jpg", userID, postID)
	url, err := h.Images.Save(ctx, key, header.Header.Get("Content-Type"), file)
	if err != nil {
		logger.Error("post image upload failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to store image"})
		return
	}

	post := models.Post{
		ID:        postID,
		UserID:    userID,
		ImageURL:  url,
		Caption:   caption,
		CreatedAt: h.now(),
	}

	if err := h.Posts.Create(ctx, post); err != nil {
		logger.Error("post insert failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to create post"})
		return
	}

	if h.Profiles != nil {
		if err := h.Profiles.TouchLastAte(ctx, userID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			logger.Warn("last ate update failed", "userId", userID, "error", err)
		}
	}

	if h.Notify != nil && h.Users != nil {
		if user, err := h.Users.FindByID(ctx, userID); err == nil {
			post.Username = user.Username
			content := fmt.Sprintf("%s just posted a new food picture!", user.Username)
			if err := h.Notify.NotifyFriends(ctx, userID, models.NotificationNewPost, content); err != nil {
				logger.Warn("post notification not queued", "userId", userID, "error", err)
			}
		}
	}

	respondJSON(ctx, w, http.StatusCreated, postResponse{Post: newPostPayload(post)})
}

// Comments serves GET and POST /api/v1/posts/{id}/comments.
func (h PostHandler) Comments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)

	if h.Posts == nil {
		logger.Error("post store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "comments unavailable"})
		return
	}

	postID := r.PathValue("id")
	if postID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "post id is required"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		comments, err := h.Posts.ListComments(ctx, postID)
		if err != nil {
			logger.Error("comment query failed", "postId", postID, "error", err)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to load comments"})
			return
		}
		payload := make([]commentPayload, 0, len(comments))
		for _, c := range comments {
			payload = append(payload, newCommentPayload(c))
		}
		respondJSON(ctx, w, http.StatusOK, map[string][]commentPayload{"comments": payload})

	case http.MethodPost:
		var req commentRequestBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid comment payload", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		req.Body = strings.TrimSpace(req.Body)
		if req.Body == "" {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "comment body is required"})
			return
		}

		comment := models.Comment{
			ID:        uuid.NewString(),
			PostID:    postID,
			UserID:    userID,
			Body:      req.Body,
			CreatedAt: h.now(),
		}

		if err := h.Posts.AddComment(ctx, comment); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "post not found"})
				return
			}
			logger.Error("comment insert failed", "postId", postID, "error", err)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to add comment"})
			return
		}

		respondJSON(ctx, w, http.StatusCreated, map[string]commentPayload{"comment": newCommentPayload(comment)})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type commentRequestBody struct {
	Body string `json:"body"`
}

type postPayload struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Username  string    `json:"username,omitempty"`
	Image     string    `json:"image"`
	Caption   string    `json:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type postResponse struct {
	Post postPayload `json:"post"`
}

type commentPayload struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post"`
	UserID    string    `json:"user"`
	Username  string    `json:"username,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func newPostPayload(p models.Post) postPayload {
	return postPayload{
		ID:        p.ID,
		UserID:    p.UserID,
		Username:  p.Username,
		Image:     p.ImageURL,
		Caption:   p.Caption,
		CreatedAt: p.CreatedAt,
	}
}

func newCommentPayload(c models.Comment) commentPayload {
	return commentPayload{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Username:  c.Username,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

func (h PostHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
