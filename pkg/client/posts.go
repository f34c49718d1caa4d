package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Feed returns the caller's post feed (own posts plus accepted friends').
func (c *Client) Feed(ctx context.Context) ([]Post, error) {
	var resp struct {
		Posts []Post `json:"posts"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/posts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

// CreatePost uploads a food photo with an optional caption.
func (c *Client) CreatePost(ctx context.Context, fileName string, image io.Reader, caption string) (Post, error) {
	fields := url.Values{}
	if caption != "" {
		fields.Set("caption", caption)
	}

	var resp struct {
		Post Post `json:"post"`
	}
	if err := c.doMultipart(ctx, http.MethodPost, "/api/v1/posts", "image", fileName, image, fields, &resp); err != nil {
		return Post{}, err
	}
	return resp.Post, nil
}

// Comments lists the comments on a post.
func (c *Client) Comments(ctx context.Context, postID string) ([]Comment, error) {
	var resp struct {
		Comments []Comment `json:"comments"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/posts/"+url.PathEscape(postID)+"/comments", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

// AddComment attaches a comment to a post.
func (c *Client) AddComment(ctx context.Context, postID, body string) (Comment, error) {
	payload := map[string]string{"body": body}

	var resp struct {
		Comment Comment `json:"comment"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/posts/"+url.PathEscape(postID)+"/comments", payload, &resp); err != nil {
		return Comment{}, err
	}
	return resp.Comment, nil
}
