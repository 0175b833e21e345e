package repository

import (
	"context"
	"slices"
	"strconv"
	"sync/atomic"

	"github.com/debemdeboas/postdeck/internal/cache"
	"github.com/debemdeboas/postdeck/internal/model"
)

// MemoryPostRepository keeps posts in process memory. Contents are lost on
// restart.
type MemoryPostRepository struct {
	posts  *cache.Cache[model.PostID, model.Post]
	nextID atomic.Int64
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{
		posts: cache.NewCache[model.PostID, model.Post](),
	}
}

func (r *MemoryPostRepository) List(_ context.Context) ([]model.Post, error) {
	posts := r.posts.Values()
	slices.SortFunc(posts, func(a, b model.Post) int {
		return compareIDs(a.ID, b.ID)
	})
	return posts, nil
}

func (r *MemoryPostRepository) Get(_ context.Context, id model.PostID) (model.Post, error) {
	post, ok := r.posts.Get(id)
	if !ok {
		return model.Post{}, ErrPostNotFound
	}
	return post, nil
}

func (r *MemoryPostRepository) Create(_ context.Context, in model.PostInput) (model.Post, error) {
	id := model.PostID(strconv.FormatInt(r.nextID.Add(1), 10))
	post := model.Post{ID: id, Title: in.Title, Body: in.Body}
	r.posts.Set(id, post)
	return post, nil
}

func (r *MemoryPostRepository) Update(_ context.Context, id model.PostID, in model.PostInput) (model.Post, error) {
	post := model.Post{ID: id, Title: in.Title, Body: in.Body}
	if !r.posts.Replace(id, post) {
		return model.Post{}, ErrPostNotFound
	}
	return post, nil
}

func (r *MemoryPostRepository) Delete(_ context.Context, id model.PostID) error {
	if !r.posts.Delete(id) {
		return ErrPostNotFound
	}
	return nil
}
