// Package repository stores the posts served by postsd.
package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/debemdeboas/postdeck/internal/model"
	"github.com/rs/zerolog"
)

var ErrPostNotFound = errors.New("post not found")

var repoLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

// PostRepository is the server-side post storage. Ids are assigned by the
// repository and never change. List returns posts in creation order.
type PostRepository interface {
	List(ctx context.Context) ([]model.Post, error)
	Get(ctx context.Context, id model.PostID) (model.Post, error)
	Create(ctx context.Context, in model.PostInput) (model.Post, error)
	Update(ctx context.Context, id model.PostID, in model.PostInput) (model.Post, error)
	Delete(ctx context.Context, id model.PostID) error
}

var (
	_ PostRepository = (*DBPostRepository)(nil)
	_ PostRepository = (*MemoryPostRepository)(nil)
	_ PostRepository = (*S3PostRepository)(nil)
)

// compareIDs orders numeric ids by value and falls back to string order.
func compareIDs(a, b model.PostID) int {
	na, errA := strconv.ParseInt(string(a), 10, 64)
	nb, errB := strconv.ParseInt(string(b), 10, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
