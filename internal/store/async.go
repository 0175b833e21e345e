package store

import (
	"context"

	"github.com/debemdeboas/postdeck/internal/model"
)

// The operations below dispatch a pending action when issued and exactly one
// fulfilled or rejected action when the API call returns. Posts change only
// on the fulfilled action.

// FetchPosts loads the whole collection.
func (s *Store) FetchPosts(ctx context.Context) error {
	s.Dispatch(FetchAllPending())

	posts, err := s.api.ListPosts(ctx)
	if err != nil {
		s.Dispatch(RejectedAction(OpFetchAll, "", err))
		return err
	}

	s.Dispatch(FetchAllFulfilled(posts))
	return nil
}

// AddPost creates a post and appends the server's copy.
func (s *Store) AddPost(ctx context.Context, in model.PostInput) (model.Post, error) {
	s.Dispatch(PendingAction(OpCreate, ""))

	post, err := s.api.CreatePost(ctx, in)
	if err != nil {
		s.Dispatch(RejectedAction(OpCreate, "", err))
		return model.Post{}, err
	}

	s.Dispatch(CreateFulfilled(post))
	return post, nil
}

// UpdatePost replaces the post with the server's updated copy.
func (s *Store) UpdatePost(ctx context.Context, id model.PostID, in model.PostInput) (model.Post, error) {
	s.Dispatch(PendingAction(OpUpdate, id))

	post, err := s.api.UpdatePost(ctx, id, in)
	if err != nil {
		s.Dispatch(RejectedAction(OpUpdate, id, err))
		return model.Post{}, err
	}

	s.Dispatch(UpdateFulfilled(post))
	return post, nil
}

// DeletePost removes the post. The store correlates the deletion by id, not
// by the response.
func (s *Store) DeletePost(ctx context.Context, id model.PostID) error {
	s.Dispatch(PendingAction(OpDelete, id))

	if err := s.api.DeletePost(ctx, id); err != nil {
		s.Dispatch(RejectedAction(OpDelete, id, err))
		return err
	}

	s.Dispatch(DeleteFulfilled(id))
	return nil
}
