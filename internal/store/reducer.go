package store

import (
	"slices"

	"github.com/debemdeboas/postdeck/internal/model"
)

// State is the client copy of the posts collection.
type State struct {
	Posts []model.Post

	// Loading is true while a fetch-all is in flight.
	Loading bool
	// Error is true after a rejected operation until the next fulfilled one.
	Error     bool
	LastError string
}

// Reduce returns the state that follows a. It never modifies s.Posts in
// place, so states handed out earlier stay valid.
//
// Posts only change on fulfilled actions. Pending and rejected actions touch
// the flags only.
func Reduce(s State, a Action) State {
	switch a.Phase {
	case Pending:
		if a.Op == OpFetchAll {
			s.Loading = true
		}
		return s

	case Rejected:
		if a.Op == OpFetchAll {
			s.Loading = false
		}
		s.Error = true
		s.LastError = ""
		if a.Err != nil {
			s.LastError = a.Err.Error()
		}
		return s

	case Fulfilled:
		s.Error = false
		s.LastError = ""
	default:
		return s
	}

	switch a.Op {
	case OpFetchAll:
		s.Posts = slices.Clone(a.Posts)
		if s.Posts == nil {
			s.Posts = []model.Post{}
		}
		s.Loading = false

	case OpCreate:
		posts := make([]model.Post, len(s.Posts), len(s.Posts)+1)
		copy(posts, s.Posts)
		s.Posts = append(posts, a.Post)

	case OpUpdate:
		i := slices.IndexFunc(s.Posts, func(p model.Post) bool { return p.ID == a.Post.ID })
		if i == -1 {
			// The post is gone, typically deleted while the update was in flight.
			return s
		}
		posts := slices.Clone(s.Posts)
		posts[i] = a.Post
		s.Posts = posts

	case OpDelete:
		if !slices.ContainsFunc(s.Posts, func(p model.Post) bool { return p.ID == a.Arg }) {
			return s
		}
		posts := make([]model.Post, 0, len(s.Posts)-1)
		for _, p := range s.Posts {
			if p.ID != a.Arg {
				posts = append(posts, p)
			}
		}
		s.Posts = posts
	}

	return s
}
