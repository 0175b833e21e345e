package store

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/debemdeboas/postdeck/internal/model"
)

func post(id model.PostID, title string) model.Post {
	return model.Post{ID: id, Title: title, Body: strings.Repeat("b", 50)}
}

func ids(posts []model.Post) []model.PostID {
	out := make([]model.PostID, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestReduceFetchAll(t *testing.T) {
	t.Run("Replaces the whole sequence", func(t *testing.T) {
		s := State{Posts: []model.Post{post("9", "old")}}
		payload := []model.Post{post("1", "a"), post("2", "b")}

		next := Reduce(s, FetchAllFulfilled(payload))

		if !reflect.DeepEqual(next.Posts, payload) {
			t.Errorf("Expected posts %v, got %v", payload, next.Posts)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		payload := []model.Post{post("1", "a"), post("2", "b")}

		once := Reduce(State{}, FetchAllFulfilled(payload))
		twice := Reduce(once, FetchAllFulfilled(payload))

		if !reflect.DeepEqual(once, twice) {
			t.Errorf("Expected same state, got %+v and %+v", once, twice)
		}
	})

	t.Run("Does not alias the payload", func(t *testing.T) {
		payload := []model.Post{post("1", "a")}
		next := Reduce(State{}, FetchAllFulfilled(payload))

		payload[0].Title = "mutated"
		if next.Posts[0].Title != "a" {
			t.Error("Expected state to be independent of the payload slice")
		}
	})

	t.Run("Nil payload yields empty posts", func(t *testing.T) {
		next := Reduce(State{Posts: []model.Post{post("1", "a")}}, FetchAllFulfilled(nil))
		if next.Posts == nil || len(next.Posts) != 0 {
			t.Errorf("Expected empty non-nil posts, got %#v", next.Posts)
		}
	})
}

func TestReduceCreate(t *testing.T) {
	s := State{Posts: []model.Post{post("1", "a"), post("2", "b")}}
	created := post("3", "c")

	next := Reduce(s, CreateFulfilled(created))

	if len(next.Posts) != len(s.Posts)+1 {
		t.Fatalf("Expected length %d, got %d", len(s.Posts)+1, len(next.Posts))
	}
	if next.Posts[len(next.Posts)-1] != created {
		t.Errorf("Expected created post last, got %v", next.Posts[len(next.Posts)-1])
	}
	if len(s.Posts) != 2 {
		t.Error("Expected previous state to be untouched")
	}
}

func TestReduceUpdate(t *testing.T) {
	t.Run("Replaces in place", func(t *testing.T) {
		s := State{Posts: []model.Post{post("1", "a"), post("2", "b"), post("3", "c")}}
		updated := post("2", "B")

		next := Reduce(s, UpdateFulfilled(updated))

		if !reflect.DeepEqual(ids(next.Posts), []model.PostID{"1", "2", "3"}) {
			t.Errorf("Expected order preserved, got %v", ids(next.Posts))
		}
		if next.Posts[1].Title != "B" {
			t.Errorf("Expected title 'B', got %q", next.Posts[1].Title)
		}
		if next.Posts[0] != s.Posts[0] || next.Posts[2] != s.Posts[2] {
			t.Error("Expected other posts untouched")
		}
		if s.Posts[1].Title != "b" {
			t.Error("Expected previous state to be untouched")
		}
	})

	t.Run("Missing id is a no-op", func(t *testing.T) {
		s := State{Posts: []model.Post{post("1", "a")}}

		next := Reduce(s, UpdateFulfilled(post("2", "x")))

		if !reflect.DeepEqual(next.Posts, s.Posts) {
			t.Errorf("Expected posts unchanged, got %v", next.Posts)
		}
	})

	t.Run("Only the first match is replaced", func(t *testing.T) {
		// Duplicate ids violate the store invariant; the reducer still only
		// touches the first one.
		s := State{Posts: []model.Post{post("1", "a"), post("1", "dup")}}

		next := Reduce(s, UpdateFulfilled(post("1", "new")))

		if next.Posts[0].Title != "new" || next.Posts[1].Title != "dup" {
			t.Errorf("Expected only first match replaced, got %v", next.Posts)
		}
	})
}

func TestReduceDelete(t *testing.T) {
	t.Run("Removes the matching post", func(t *testing.T) {
		s := State{Posts: []model.Post{post("1", "a"), post("2", "b"), post("3", "c")}}

		next := Reduce(s, DeleteFulfilled("2"))

		if !reflect.DeepEqual(ids(next.Posts), []model.PostID{"1", "3"}) {
			t.Errorf("Expected [1 3], got %v", ids(next.Posts))
		}
		if len(s.Posts) != 3 {
			t.Error("Expected previous state to be untouched")
		}
	})

	t.Run("Missing id is a no-op", func(t *testing.T) {
		s := State{Posts: []model.Post{post("1", "a")}}

		next := Reduce(s, DeleteFulfilled("5"))

		if !reflect.DeepEqual(next.Posts, s.Posts) {
			t.Errorf("Expected posts unchanged, got %v", next.Posts)
		}
	})
}

func TestReduceScenarios(t *testing.T) {
	initial := model.Post{ID: "1", Title: strings.Repeat("A", 10), Body: strings.Repeat("B", 50)}

	t.Run("Delete twice", func(t *testing.T) {
		s := State{Posts: []model.Post{initial}}

		s = Reduce(s, DeleteFulfilled("1"))
		if len(s.Posts) != 0 {
			t.Fatalf("Expected empty posts, got %v", s.Posts)
		}

		s = Reduce(s, DeleteFulfilled("1"))
		if len(s.Posts) != 0 {
			t.Errorf("Expected empty posts after second delete, got %v", s.Posts)
		}
		if s.Error {
			t.Error("Expected no error after deleting a missing post")
		}
	})

	t.Run("Update of a missing post", func(t *testing.T) {
		s := State{Posts: []model.Post{initial}}

		s = Reduce(s, UpdateFulfilled(model.Post{ID: "2", Title: strings.Repeat("X", 10), Body: strings.Repeat("Y", 50)}))

		if !reflect.DeepEqual(s.Posts, []model.Post{initial}) {
			t.Errorf("Expected store unchanged, got %v", s.Posts)
		}
	})

	t.Run("Delete completes before update", func(t *testing.T) {
		s := State{Posts: []model.Post{initial}}

		s = Reduce(s, DeleteFulfilled("1"))
		s = Reduce(s, UpdateFulfilled(post("1", "late update")))

		if len(s.Posts) != 0 {
			t.Errorf("Expected late update to be dropped, got %v", s.Posts)
		}
	})
}

func TestReduceFlags(t *testing.T) {
	boom := errors.New("boom")

	t.Run("Fetch-all pending sets loading", func(t *testing.T) {
		s := Reduce(State{}, FetchAllPending())
		if !s.Loading {
			t.Error("Expected loading after fetch-all pending")
		}

		s = Reduce(s, FetchAllFulfilled(nil))
		if s.Loading {
			t.Error("Expected loading cleared after fetch-all fulfilled")
		}
	})

	t.Run("Fetch-all rejected clears loading and sets error", func(t *testing.T) {
		s := Reduce(State{Posts: []model.Post{post("1", "a")}}, FetchAllPending())
		s = Reduce(s, RejectedAction(OpFetchAll, "", boom))

		if s.Loading {
			t.Error("Expected loading cleared after rejection")
		}
		if !s.Error || s.LastError != "boom" {
			t.Errorf("Expected error 'boom', got %v %q", s.Error, s.LastError)
		}
		if len(s.Posts) != 1 {
			t.Error("Expected posts untouched on rejection")
		}
	})

	t.Run("Other pending actions leave state alone", func(t *testing.T) {
		s := State{Posts: []model.Post{post("1", "a")}}
		for _, op := range []Op{OpCreate, OpUpdate, OpDelete} {
			next := Reduce(s, PendingAction(op, "1"))
			if !reflect.DeepEqual(next, s) {
				t.Errorf("Expected %s pending to be a no-op, got %+v", op, next)
			}
		}
	})

	t.Run("Rejections never touch posts or loading", func(t *testing.T) {
		s := State{Posts: []model.Post{post("1", "a")}, Loading: true}
		for _, op := range []Op{OpCreate, OpUpdate, OpDelete} {
			next := Reduce(s, RejectedAction(op, "1", boom))
			if !reflect.DeepEqual(next.Posts, s.Posts) {
				t.Errorf("Expected %s rejection to keep posts, got %v", op, next.Posts)
			}
			if !next.Loading {
				t.Errorf("Expected %s rejection to keep loading", op)
			}
			if !next.Error {
				t.Errorf("Expected %s rejection to set error", op)
			}
		}
	})

	t.Run("Fulfilled clears error", func(t *testing.T) {
		s := Reduce(State{}, RejectedAction(OpCreate, "", boom))
		s = Reduce(s, CreateFulfilled(post("1", "a")))

		if s.Error || s.LastError != "" {
			t.Errorf("Expected error cleared, got %v %q", s.Error, s.LastError)
		}
	})

	t.Run("Create fulfilled leaves loading", func(t *testing.T) {
		s := Reduce(State{Loading: true}, CreateFulfilled(post("1", "a")))
		if !s.Loading {
			t.Error("Expected create fulfilled not to touch loading")
		}
	})
}

func TestActionString(t *testing.T) {
	if got := UpdateFulfilled(post("1", "a")).String(); got != "update/fulfilled" {
		t.Errorf("Expected 'update/fulfilled', got %q", got)
	}
	if got := RejectedAction(OpDelete, "1", nil).String(); got != "delete/rejected" {
		t.Errorf("Expected 'delete/rejected', got %q", got)
	}
	if got := Op(42).String(); got != "op(42)" {
		t.Errorf("Expected 'op(42)', got %q", got)
	}
}
