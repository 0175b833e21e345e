// Package store holds the client copy of the posts collection and keeps it in
// sync with completed API operations.
package store

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/postdeck/internal/api"
	"github.com/debemdeboas/postdeck/internal/cache"
	"github.com/debemdeboas/postdeck/internal/model"
)

var storeLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	storeLogger = l
}

// Store serializes every state transition through Dispatch. It is safe for
// concurrent use; operations issued from different goroutines complete in
// any order. Subscribers receive states in the order they were produced.
type Store struct {
	api api.PostsAPI

	// dispatchMu orders reductions and their notifications together.
	dispatchMu sync.Mutex

	mu    sync.Mutex
	state State
	index *cache.Cache[model.PostID, model.Post]

	subMu       sync.Mutex
	subscribers map[int]func(State)
	nextSub     int
}

func New(postsAPI api.PostsAPI) *Store {
	return &Store{
		api:         postsAPI,
		state:       State{Posts: []model.Post{}},
		index:       cache.NewCache[model.PostID, model.Post](),
		subscribers: make(map[int]func(State)),
	}
}

// State returns the current state. Callers must not modify the returned posts.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Get looks a post up by id.
func (s *Store) Get(id model.PostID) (model.Post, bool) {
	return s.index.Get(id)
}

// Subscribe registers fn to be called with every new state. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

// Dispatch applies a to the current state and notifies subscribers before
// returning. Subscribers must not call Dispatch.
func (s *Store) Dispatch(a Action) State {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, a)
	s.state = next
	if !samePosts(prev.Posts, next.Posts) {
		s.reindex(next.Posts)
	}
	s.mu.Unlock()

	ev := storeLogger.Debug().
		Str("action", a.String()).
		Int("posts", len(next.Posts)).
		Bool("loading", next.Loading)
	if a.Arg != "" {
		ev = ev.Str("post_id", string(a.Arg))
	}
	if a.Err != nil {
		ev = ev.Err(a.Err)
	}
	ev.Msg("Dispatched")

	s.subMu.Lock()
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

func (s *Store) reindex(posts []model.Post) {
	items := make(map[model.PostID]model.Post, len(posts))
	for _, p := range posts {
		items[p.ID] = p
	}
	s.index.SetTo(items)
}

// samePosts reports whether a and b are the same backing slice. Reduce
// allocates a new slice on every change.
func samePosts(a, b []model.Post) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
