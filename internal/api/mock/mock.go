// Package mock provides an in-memory api.PostsAPI for tests and offline demos.
package mock

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"sync"

	"github.com/debemdeboas/postdeck/internal/api"
	"github.com/debemdeboas/postdeck/internal/model"
)

// Mock stores posts in memory, assigns sequential numeric ids and can be told
// to fail the next call of an operation.
type Mock struct {
	mu     sync.Mutex
	posts  []model.Post
	nextID int

	failures map[string]error
	calls    map[string]int
}

var _ api.PostsAPI = (*Mock)(nil)

const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

func New(seed ...model.Post) *Mock {
	m := &Mock{
		nextID:   1,
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
	for _, p := range seed {
		m.posts = append(m.posts, p)
		if n, err := strconv.Atoi(string(p.ID)); err == nil && n >= m.nextID {
			m.nextID = n + 1
		}
	}
	return m
}

// FailNext makes the next call of op return err.
func (m *Mock) FailNext(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = err
}

// Calls returns how many times op was invoked.
func (m *Mock) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// Posts returns a copy of the stored posts.
func (m *Mock) Posts() []model.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.posts)
}

// enter records the call and pops an injected failure. m.mu must be held.
func (m *Mock) enter(ctx context.Context, op string) error {
	m.calls[op]++
	if err := ctx.Err(); err != nil {
		return err
	}
	if err, ok := m.failures[op]; ok {
		delete(m.failures, op)
		return err
	}
	return nil
}

func (m *Mock) ListPosts(ctx context.Context) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, OpList); err != nil {
		return nil, err
	}
	out := slices.Clone(m.posts)
	if out == nil {
		out = []model.Post{}
	}
	return out, nil
}

func (m *Mock) CreatePost(ctx context.Context, in model.PostInput) (model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, OpCreate); err != nil {
		return model.Post{}, err
	}
	p := model.Post{ID: model.PostID(strconv.Itoa(m.nextID)), Title: in.Title, Body: in.Body}
	m.nextID++
	m.posts = append(m.posts, p)
	return p, nil
}

func (m *Mock) UpdatePost(ctx context.Context, id model.PostID, in model.PostInput) (model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, OpUpdate); err != nil {
		return model.Post{}, err
	}
	i := m.index(id)
	if i == -1 {
		return model.Post{}, notFound(http.MethodPut, id)
	}
	m.posts[i] = model.Post{ID: id, Title: in.Title, Body: in.Body}
	return m.posts[i], nil
}

func (m *Mock) DeletePost(ctx context.Context, id model.PostID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, OpDelete); err != nil {
		return err
	}
	i := m.index(id)
	if i == -1 {
		return notFound(http.MethodDelete, id)
	}
	m.posts = slices.Delete(m.posts, i, i+1)
	return nil
}

func (m *Mock) index(id model.PostID) int {
	return slices.IndexFunc(m.posts, func(p model.Post) bool { return p.ID == id })
}

func notFound(method string, id model.PostID) error {
	return &api.HTTPError{
		Method:     method,
		Path:       fmt.Sprintf("/posts/%s", id),
		StatusCode: http.StatusNotFound,
		Message:    "Post not found",
	}
}

// ErrUnavailable is a convenient transport failure for FailNext.
var ErrUnavailable = errors.New("mock: service unavailable")
