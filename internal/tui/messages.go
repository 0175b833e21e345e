package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/debemdeboas/postdeck/internal/model"
	"github.com/debemdeboas/postdeck/internal/store"
)

// stateMsg carries a state published by the store.
type stateMsg store.State

// The *DoneMsg messages report the completion of an operation issued by
// the view. The store has already applied the outcome when they arrive.
type (
	fetchDoneMsg struct {
		err error
	}
	createDoneMsg struct {
		post model.Post
		err  error
	}
	updateDoneMsg struct {
		id   model.PostID
		post model.Post
		err  error
	}
	deleteDoneMsg struct {
		id  model.PostID
		err error
	}
)

// toastExpiredMsg clears the toast with the matching sequence number.
type toastExpiredMsg struct {
	seq int
}

const toastDuration = 3 * time.Second

func fetchPosts(ctx context.Context, s *store.Store) tea.Cmd {
	return func() tea.Msg {
		return fetchDoneMsg{err: s.FetchPosts(ctx)}
	}
}

func createPost(ctx context.Context, s *store.Store, in model.PostInput) tea.Cmd {
	return func() tea.Msg {
		post, err := s.AddPost(ctx, in)
		return createDoneMsg{post: post, err: err}
	}
}

func updatePost(ctx context.Context, s *store.Store, id model.PostID, in model.PostInput) tea.Cmd {
	return func() tea.Msg {
		post, err := s.UpdatePost(ctx, id, in)
		return updateDoneMsg{id: id, post: post, err: err}
	}
}

func deletePost(ctx context.Context, s *store.Store, id model.PostID) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{id: id, err: s.DeletePost(ctx, id)}
	}
}

// listenForState blocks until the store publishes a state.
func listenForState(ch <-chan store.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg(state)
	}
}

func expireToast(seq int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}
