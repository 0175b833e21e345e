package repository

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/debemdeboas/postdeck/internal/model"
)

// fakeS3 is an in-memory bucket. It pages listings two keys at a time.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if token := aws.ToString(in.ContinuationToken); token != "" {
		start = sort.SearchStrings(keys, token)
	}
	end := min(start+2, len(keys))

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(keys[end])
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3PostRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Objects are keyed under the prefix", func(t *testing.T) {
		fake := newFakeS3()
		repo := NewS3PostRepository(fake, "posts", "posts/")

		if _, err := repo.Create(ctx, input("Keyed post title")); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, ok := fake.objects["posts/1.json"]; !ok {
			t.Errorf("Expected object posts/1.json, got %v", fake.objects)
		}
	})

	t.Run("Listing spans pages and skips foreign keys", func(t *testing.T) {
		fake := newFakeS3()
		fake.objects["posts/notes.txt"] = []byte("ignored")
		fake.objects["posts/nested/9.json"] = []byte("{}")
		repo := NewS3PostRepository(fake, "posts", "posts/")

		for i := 0; i < 5; i++ {
			if _, err := repo.Create(ctx, input("Paged post title")); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
		}

		posts, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(posts) != 5 {
			t.Fatalf("Expected 5 posts, got %d", len(posts))
		}
		if posts[4].ID != "5" {
			t.Errorf("Expected last id 5, got %s", posts[4].ID)
		}
	})

	t.Run("Ids continue from existing objects", func(t *testing.T) {
		fake := newFakeS3()
		fake.objects["posts/41.json"] = []byte(`{"id":41,"title":"Existing title","body":"b"}`)
		repo := NewS3PostRepository(fake, "posts", "posts/")

		post, err := repo.Create(ctx, input("Next post title"))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if post.ID != "42" {
			t.Errorf("Expected id 42, got %s", post.ID)
		}
	})

	t.Run("Ids of deleted posts are not reused", func(t *testing.T) {
		fake := newFakeS3()
		repo := NewS3PostRepository(fake, "posts", "posts/")

		for i := 0; i < 2; i++ {
			if _, err := repo.Create(ctx, input("Reused id title")); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
		}
		if err := repo.Delete(ctx, "2"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		restarted := NewS3PostRepository(fake, "posts", "posts/")
		post, err := restarted.Create(ctx, input("After restart title"))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if post.ID != "3" {
			t.Errorf("Expected id 3, got %s", post.ID)
		}
	})

	t.Run("Ids cannot leave the prefix", func(t *testing.T) {
		fake := newFakeS3()
		secret := []byte(`{"id":"secret","title":"Private title","body":"b"}`)
		fake.objects["other/secret.json"] = secret
		repo := NewS3PostRepository(fake, "posts", "posts/")

		for _, id := range []model.PostID{"../other/secret", `..\other\secret`, "..", ".", ""} {
			if _, err := repo.Get(ctx, id); !errors.Is(err, ErrPostNotFound) {
				t.Errorf("Get(%q): expected ErrPostNotFound, got %v", id, err)
			}
			if _, err := repo.Update(ctx, id, input("Overwrite title")); !errors.Is(err, ErrPostNotFound) {
				t.Errorf("Update(%q): expected ErrPostNotFound, got %v", id, err)
			}
			if err := repo.Delete(ctx, id); !errors.Is(err, ErrPostNotFound) {
				t.Errorf("Delete(%q): expected ErrPostNotFound, got %v", id, err)
			}
		}

		if got, ok := fake.objects["other/secret.json"]; !ok || !bytes.Equal(got, secret) {
			t.Errorf("Expected object outside the prefix to be untouched, got %q (present=%v)", got, ok)
		}
	})
}
