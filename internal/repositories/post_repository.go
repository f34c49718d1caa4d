package repositories

import (
	"context"

	"github.com/hungertracker/hungerd/internal/models"
)

// PostRepository exposes data access for posts and their comments.
type PostRepository interface {
	Create(ctx context.Context, post models.Post) error
	ListFeed(ctx context.Context, userID string) ([]models.Post, error)
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	AddComment(ctx context.Context, comment models.Comment) error
}
