package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/debemdeboas/postdeck/internal/db"
	"github.com/debemdeboas/postdeck/internal/model"
	"github.com/debemdeboas/postdeck/internal/util"
	"github.com/debemdeboas/postdeck/internal/util/compression"
)

// DBPostRepository keeps posts in SQL with zstd-compressed bodies.
type DBPostRepository struct {
	db         db.DB
	compressor compression.Compressor
}

func NewDBPostRepository(db db.DB) *DBPostRepository {
	return &DBPostRepository{
		db: db,

		compressor: compression.ZstdCompressor{},
	}
}

// rowID converts a post id to the integer primary key. Ids that are not
// integers cannot exist in the table.
func rowID(id model.PostID) (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

func (r *DBPostRepository) List(ctx context.Context) ([]model.Post, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, body FROM posts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error querying posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		post, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

func (r *DBPostRepository) Get(ctx context.Context, id model.PostID) (model.Post, error) {
	n, ok := rowID(id)
	if !ok {
		return model.Post{}, ErrPostNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT id, title, body FROM posts WHERE id = ?`, n)
	post, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrPostNotFound
	}
	return post, err
}

func (r *DBPostRepository) Create(ctx context.Context, in model.PostInput) (model.Post, error) {
	compressed, hash, err := r.encodeBody(in.Body)
	if err != nil {
		return model.Post{}, err
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (title, body, body_hash, created_at, modified_at) VALUES (?, ?, ?, ?, ?)`,
		in.Title, compressed, hash, now, now,
	)
	if err != nil {
		return model.Post{}, fmt.Errorf("error saving post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, fmt.Errorf("error reading post id: %w", err)
	}

	post := model.Post{ID: model.PostID(strconv.FormatInt(id, 10)), Title: in.Title, Body: in.Body}
	repoLogger.Debug().Str("post_id", post.ID.String()).Str("body_hash", hash).Msg("Post saved")
	return post, nil
}

func (r *DBPostRepository) Update(ctx context.Context, id model.PostID, in model.PostInput) (model.Post, error) {
	n, ok := rowID(id)
	if !ok {
		return model.Post{}, ErrPostNotFound
	}

	compressed, hash, err := r.encodeBody(in.Body)
	if err != nil {
		return model.Post{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, body = ?, body_hash = ?, modified_at = ? WHERE id = ?`,
		in.Title, compressed, hash, time.Now().UTC(), n,
	)
	if err != nil {
		return model.Post{}, fmt.Errorf("error updating post: %w", err)
	}
	if err := requireRow(res); err != nil {
		return model.Post{}, err
	}

	repoLogger.Debug().Str("post_id", id.String()).Str("body_hash", hash).Msg("Post updated")
	return model.Post{ID: id, Title: in.Title, Body: in.Body}, nil
}

func (r *DBPostRepository) Delete(ctx context.Context, id model.PostID) error {
	n, ok := rowID(id)
	if !ok {
		return ErrPostNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, n)
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	repoLogger.Debug().Str("post_id", id.String()).Msg("Post deleted")
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *DBPostRepository) scan(row scanner) (model.Post, error) {
	var (
		id         int64
		post       model.Post
		compressed []byte
	)
	if err := row.Scan(&id, &post.Title, &compressed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Post{}, err
		}
		return model.Post{}, fmt.Errorf("error scanning post: %w", err)
	}

	body, err := r.compressor.Decompress(compressed)
	if err != nil {
		return model.Post{}, fmt.Errorf("error decompressing body of post %d: %w", id, err)
	}

	post.ID = model.PostID(strconv.FormatInt(id, 10))
	post.Body = string(body)
	return post, nil
}

func (r *DBPostRepository) encodeBody(body string) ([]byte, string, error) {
	compressed, err := r.compressor.Compress([]byte(body))
	if err != nil {
		return nil, "", fmt.Errorf("error compressing body: %w", err)
	}
	return compressed, util.ContentHash(compressed), nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return ErrPostNotFound
	}
	return nil
}
