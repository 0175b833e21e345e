package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/debemdeboas/postdeck/internal/config"
	"github.com/debemdeboas/postdeck/internal/model"
)

// PostsAPI is the remote surface the store depends on.
type PostsAPI interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	CreatePost(ctx context.Context, in model.PostInput) (model.Post, error)
	UpdatePost(ctx context.Context, id model.PostID, in model.PostInput) (model.Post, error)
	DeletePost(ctx context.Context, id model.PostID) error
}

var _ PostsAPI = (*Client)(nil)

// ListPosts issues GET /posts.
func (c *Client) ListPosts(ctx context.Context) ([]model.Post, error) {
	posts := make([]model.Post, 0)
	if err := c.do(ctx, http.MethodGet, config.PostsPath, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost issues POST /posts and returns the created post with its server id.
func (c *Client) CreatePost(ctx context.Context, in model.PostInput) (model.Post, error) {
	var post model.Post
	if err := c.do(ctx, http.MethodPost, config.PostsPath, in, &post); err != nil {
		return model.Post{}, err
	}
	return post, nil
}

// UpdatePost issues PUT /posts/{id}.
func (c *Client) UpdatePost(ctx context.Context, id model.PostID, in model.PostInput) (model.Post, error) {
	var post model.Post
	if err := c.do(ctx, http.MethodPut, postPath(id), in, &post); err != nil {
		return model.Post{}, err
	}
	// Some servers echo only the fields they changed.
	if post.ID == "" {
		post.ID = id
	}
	return post, nil
}

// DeletePost issues DELETE /posts/{id}. The response body is ignored.
func (c *Client) DeletePost(ctx context.Context, id model.PostID) error {
	return c.do(ctx, http.MethodDelete, postPath(id), nil, nil)
}

func postPath(id model.PostID) string {
	return config.PostsPrefix + url.PathEscape(string(id))
}
