package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/debemdeboas/postdeck/internal/db"
	"github.com/debemdeboas/postdeck/internal/model"
)

func newSQLiteRepo(t *testing.T) PostRepository {
	t.Helper()
	database := db.NewSQLite(":memory:")
	if err := database.InitDB(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewDBPostRepository(database)
}

func newS3Repo(t *testing.T) PostRepository {
	t.Helper()
	return NewS3PostRepository(newFakeS3(), "posts", "posts/")
}

func input(title string) model.PostInput {
	return model.PostInput{Title: title, Body: strings.Repeat("body ", 12)}
}

func TestPostRepositories(t *testing.T) {
	backends := map[string]func(*testing.T) PostRepository{
		"sqlite": newSQLiteRepo,
		"memory": func(*testing.T) PostRepository { return NewMemoryPostRepository() },
		"s3":     newS3Repo,
	}

	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("Empty list", func(t *testing.T) {
				repo := newRepo(t)
				posts, err := repo.List(ctx)
				if err != nil {
					t.Fatalf("List failed: %v", err)
				}
				if len(posts) != 0 {
					t.Errorf("Expected no posts, got %d", len(posts))
				}
			})

			t.Run("Create assigns sequential ids", func(t *testing.T) {
				repo := newRepo(t)
				first, err := repo.Create(ctx, input("First post title"))
				if err != nil {
					t.Fatalf("Create failed: %v", err)
				}
				second, err := repo.Create(ctx, input("Second post title"))
				if err != nil {
					t.Fatalf("Create failed: %v", err)
				}

				if first.ID != "1" || second.ID != "2" {
					t.Errorf("Expected ids 1 and 2, got %s and %s", first.ID, second.ID)
				}

				posts, err := repo.List(ctx)
				if err != nil {
					t.Fatalf("List failed: %v", err)
				}
				if len(posts) != 2 {
					t.Fatalf("Expected 2 posts, got %d", len(posts))
				}
				if posts[0] != first || posts[1] != second {
					t.Errorf("Expected posts in creation order, got %+v", posts)
				}
			})

			t.Run("Get round-trips the body", func(t *testing.T) {
				repo := newRepo(t)
				created, err := repo.Create(ctx, input("Round trip title"))
				if err != nil {
					t.Fatalf("Create failed: %v", err)
				}

				got, err := repo.Get(ctx, created.ID)
				if err != nil {
					t.Fatalf("Get failed: %v", err)
				}
				if got != created {
					t.Errorf("Expected %+v, got %+v", created, got)
				}
			})

			t.Run("Update replaces fields", func(t *testing.T) {
				repo := newRepo(t)
				created, err := repo.Create(ctx, input("Before update title"))
				if err != nil {
					t.Fatalf("Create failed: %v", err)
				}

				updated, err := repo.Update(ctx, created.ID, input("After update title"))
				if err != nil {
					t.Fatalf("Update failed: %v", err)
				}
				if updated.ID != created.ID || updated.Title != "After update title" {
					t.Errorf("Unexpected updated post %+v", updated)
				}

				got, err := repo.Get(ctx, created.ID)
				if err != nil {
					t.Fatalf("Get failed: %v", err)
				}
				if got.Title != "After update title" {
					t.Errorf("Expected stored title to change, got %s", got.Title)
				}
			})

			t.Run("Delete removes the post", func(t *testing.T) {
				repo := newRepo(t)
				a, _ := repo.Create(ctx, input("Post to keep here"))
				b, _ := repo.Create(ctx, input("Post to delete now"))

				if err := repo.Delete(ctx, b.ID); err != nil {
					t.Fatalf("Delete failed: %v", err)
				}

				posts, err := repo.List(ctx)
				if err != nil {
					t.Fatalf("List failed: %v", err)
				}
				if len(posts) != 1 || posts[0].ID != a.ID {
					t.Errorf("Expected only post %s to remain, got %+v", a.ID, posts)
				}
			})

			t.Run("Missing ids", func(t *testing.T) {
				repo := newRepo(t)
				for _, id := range []model.PostID{"99", "not-a-number"} {
					if _, err := repo.Get(ctx, id); !errors.Is(err, ErrPostNotFound) {
						t.Errorf("Get(%s): expected ErrPostNotFound, got %v", id, err)
					}
					if _, err := repo.Update(ctx, id, input("Does not matter much")); !errors.Is(err, ErrPostNotFound) {
						t.Errorf("Update(%s): expected ErrPostNotFound, got %v", id, err)
					}
					if err := repo.Delete(ctx, id); !errors.Is(err, ErrPostNotFound) {
						t.Errorf("Delete(%s): expected ErrPostNotFound, got %v", id, err)
					}
				}
			})

			t.Run("Ids are not reused after delete", func(t *testing.T) {
				repo := newRepo(t)
				repo.Create(ctx, input("First post title"))
				second, _ := repo.Create(ctx, input("Second post title"))
				repo.Delete(ctx, second.ID)

				third, err := repo.Create(ctx, input("Third post title"))
				if err != nil {
					t.Fatalf("Create failed: %v", err)
				}
				if third.ID == second.ID {
					t.Errorf("Expected a fresh id, got reused %s", third.ID)
				}
			})
		})
	}
}

func TestDBPostRepositoryStoresCompressedBody(t *testing.T) {
	database := db.NewSQLite(":memory:")
	if err := database.InitDB(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	repo := NewDBPostRepository(database)
	body := strings.Repeat("compressible ", 20)
	if _, err := repo.Create(context.Background(), model.PostInput{Title: "Compressed body", Body: body}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var stored []byte
	var hash string
	row := database.Get().QueryRow(`SELECT body, body_hash FROM posts WHERE id = ?`, 1)
	if err := row.Scan(&stored, &hash); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if string(stored) == body {
		t.Error("Expected body to be stored compressed")
	}
	if len(hash) != 64 {
		t.Errorf("Expected sha256 hex hash, got %q", hash)
	}
}

func TestCompareIDs(t *testing.T) {
	testCases := []struct {
		a, b     model.PostID
		expected int
	}{
		{"2", "10", -1},
		{"10", "2", 1},
		{"5", "5", 0},
		{"9", "abc", -1},
		{"abc", "9", 1},
		{"abc", "abd", -1},
	}

	for _, tc := range testCases {
		if got := compareIDs(tc.a, tc.b); got != tc.expected {
			t.Errorf("compareIDs(%s, %s) = %d, expected %d", tc.a, tc.b, got, tc.expected)
		}
	}
}
