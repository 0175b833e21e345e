package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/debemdeboas/postdeck/internal/config"
	"github.com/debemdeboas/postdeck/internal/model"
)

// S3API is the subset of *s3.Client used by S3PostRepository.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3PostRepository stores one JSON object per post under a key prefix.
// The highest id handed out is kept in a marker object so ids of deleted
// posts are never reused. Id allocation assumes a single writer.
type S3PostRepository struct {
	client S3API
	bucket string
	prefix string

	mu     sync.Mutex
	nextID int64
}

// NewS3Client builds an S3 client with static credentials. An empty endpoint
// uses the AWS default; any other endpoint is addressed path-style.
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("error loading s3 config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func NewS3PostRepository(client S3API, bucket, prefix string) *S3PostRepository {
	return &S3PostRepository{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// nextIDKey names the high-water marker. It does not end in .json, so
// listings skip it.
const nextIDKey = ".next-id"

// key maps id to its object key. Ids that could leave the prefix have no
// object.
func (r *S3PostRepository) key(id model.PostID) (string, bool) {
	if !id.IsPathSegment() {
		return "", false
	}
	return path.Join(r.prefix, id.String()+".json"), true
}

func (r *S3PostRepository) ids(ctx context.Context) ([]model.PostID, error) {
	var ids []model.PostID

	paginator := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(r.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error listing posts: %w", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), r.prefix)
			name = strings.TrimPrefix(name, "/")
			if !strings.HasSuffix(name, ".json") || strings.Contains(name, "/") {
				continue
			}
			ids = append(ids, model.PostID(strings.TrimSuffix(name, ".json")))
		}
	}

	slices.SortFunc(ids, compareIDs)
	return ids, nil
}

func (r *S3PostRepository) List(ctx context.Context) ([]model.Post, error) {
	ids, err := r.ids(ctx)
	if err != nil {
		return nil, err
	}

	posts := make([]model.Post, 0, len(ids))
	for _, id := range ids {
		post, err := r.Get(ctx, id)
		if errors.Is(err, ErrPostNotFound) {
			// Deleted between list and get.
			continue
		}
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *S3PostRepository) Get(ctx context.Context, id model.PostID) (model.Post, error) {
	key, ok := r.key(id)
	if !ok {
		return model.Post{}, ErrPostNotFound
	}

	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return model.Post{}, ErrPostNotFound
		}
		return model.Post{}, fmt.Errorf("error reading post %s: %w", id, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return model.Post{}, fmt.Errorf("error reading post %s: %w", id, err)
	}

	var post model.Post
	if err := json.Unmarshal(data, &post); err != nil {
		return model.Post{}, fmt.Errorf("error decoding post %s: %w", id, err)
	}
	post.ID = id
	return post, nil
}

func (r *S3PostRepository) Create(ctx context.Context, in model.PostInput) (model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nextID == 0 {
		last, err := r.lastID(ctx)
		if err != nil {
			return model.Post{}, err
		}
		r.nextID = last
	}

	n := r.nextID + 1
	// Record the id before the post so a failed write skips it instead of
	// reusing it.
	if err := r.putObject(ctx, path.Join(r.prefix, nextIDKey), []byte(strconv.FormatInt(n, 10)), "text/plain"); err != nil {
		return model.Post{}, fmt.Errorf("error reserving post id: %w", err)
	}
	r.nextID = n

	post := model.Post{ID: model.PostID(strconv.FormatInt(n, 10)), Title: in.Title, Body: in.Body}
	if err := r.put(ctx, post); err != nil {
		return model.Post{}, err
	}

	repoLogger.Debug().Str("post_id", post.ID.String()).Str("bucket", r.bucket).Msg("Post saved")
	return post, nil
}

func (r *S3PostRepository) Update(ctx context.Context, id model.PostID, in model.PostInput) (model.Post, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return model.Post{}, err
	}

	post := model.Post{ID: id, Title: in.Title, Body: in.Body}
	if err := r.put(ctx, post); err != nil {
		return model.Post{}, err
	}
	return post, nil
}

func (r *S3PostRepository) Delete(ctx context.Context, id model.PostID) error {
	// DeleteObject succeeds on missing keys.
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}

	key, _ := r.key(id)
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("error deleting post %s: %w", id, err)
	}
	return nil
}

// lastID is the highest id ever allocated: the marker or the highest
// existing numeric id, whichever is larger.
func (r *S3PostRepository) lastID(ctx context.Context) (int64, error) {
	var last int64

	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(path.Join(r.prefix, nextIDKey)),
	})
	var noSuchKey *types.NoSuchKey
	switch {
	case errors.As(err, &noSuchKey):
	case err != nil:
		return 0, fmt.Errorf("error reading id marker: %w", err)
	default:
		data, err := io.ReadAll(out.Body)
		out.Body.Close()
		if err != nil {
			return 0, fmt.Errorf("error reading id marker: %w", err)
		}
		if n, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64); err == nil {
			last = n
		}
	}

	ids, err := r.ids(ctx)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && n > last {
			last = n
		}
	}
	return last, nil
}

func (r *S3PostRepository) put(ctx context.Context, post model.Post) error {
	key, ok := r.key(post.ID)
	if !ok {
		return ErrPostNotFound
	}

	data, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("error encoding post %s: %w", post.ID, err)
	}

	if err := r.putObject(ctx, key, data, "application/json"); err != nil {
		return fmt.Errorf("error writing post %s: %w", post.ID, err)
	}
	return nil
}

func (r *S3PostRepository) putObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}
