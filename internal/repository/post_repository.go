package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/maheshrc27/contentflow/internal/models"
)

var ErrPostNotFound = errors.New("post not found")

// PostRepository is the persistence gateway the workflow depends on.
type PostRepository interface {
	// GetAll returns every post, or only the posts of client when it is non-empty.
	GetAll(ctx context.Context, client string) ([]*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, bool, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Post, error)
	Insert(ctx context.Context, post *models.Post) (*models.Post, error)
	// InsertMany stores every post or none of them.
	InsertMany(ctx context.Context, posts []*models.Post) error
	Write(ctx context.Context, id string, patch *models.PostPatch) error
	AppendComment(ctx context.Context, postID string, comment models.Comment) error
	Wipe(ctx context.Context, trashedOnly bool) (int64, error)
	Subscribe(onChange func()) Subscription
}

type postRepository struct {
	db   *sql.DB
	feed *ChangeFeed
}

// NewPostRepository returns a Postgres backed gateway. feed receives changes
// relayed by ListenPostChanges; commits only emit pg_notify.
func NewPostRepository(db *sql.DB, feed *ChangeFeed) PostRepository {
	return &postRepository{db: db, feed: feed}
}

const postColumns = `id, client, platform, campaign, date, caption, media_url, media_type, status, comments, history, versions, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var comments, history, versions []byte
	err := row.Scan(&post.ID, &post.Client, &post.Platform, &post.Campaign, &post.Date, &post.Caption,
		&post.MediaURL, &post.MediaType, &post.Status, &comments, &history, &versions, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(comments, &post.Comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	if err := json.Unmarshal(history, &post.History); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if err := json.Unmarshal(versions, &post.Versions); err != nil {
		return nil, fmt.Errorf("decode versions: %w", err)
	}
	return &post, nil
}

func (r *postRepository) queryPosts(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logErr("query posts", err)
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			logErr("scan post", err)
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) GetAll(ctx context.Context, client string) ([]*models.Post, error) {
	if client == "" {
		return r.queryPosts(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at`)
	}
	return r.queryPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE client = $1 ORDER BY created_at`, client)
}

func (r *postRepository) ListByStatus(ctx context.Context, status models.Status) ([]*models.Post, error) {
	return r.queryPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE status = $1`, status)
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		logErr("get post", err)
		return nil, false, err
	}
	return post, true, nil
}

// withNotify runs fn inside a transaction that also queues a change
// notification, so listeners only hear about committed writes.
func (r *postRepository) withNotify(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `SELECT pg_notify($1, '')`, PostChangesChannel); err != nil {
		return err
	}
	return tx.Commit()
}

// marshalJSON encodes v for a jsonb column. lib/pq sends []byte as bytea,
// so the value goes over the wire as text.
func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

func insertPost(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	comments, err := marshalJSON(post.Comments)
	if err != nil {
		return err
	}
	history, err := marshalJSON(post.History)
	if err != nil {
		return err
	}
	versions, err := marshalJSON(post.Versions)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO posts (` + postColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = tx.ExecContext(ctx, query, post.ID, post.Client, post.Platform, post.Campaign, post.Date,
		post.Caption, post.MediaURL, post.MediaType, post.Status, comments, history, versions,
		post.CreatedAt, post.UpdatedAt)
	return err
}

func (r *postRepository) Insert(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := r.InsertMany(ctx, []*models.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) InsertMany(ctx context.Context, posts []*models.Post) error {
	err := r.withNotify(ctx, func(tx *sql.Tx) error {
		for _, post := range posts {
			if err := insertPost(ctx, tx, post); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logErr("insert posts", err)
	}
	return err
}

// Write applies patch in a single UPDATE, so content, history and versions
// change together or not at all. New history and version entries are
// concatenated onto the stored arrays so concurrent writers keep each other's.
func (r *postRepository) Write(ctx context.Context, id string, patch *models.PostPatch) error {
	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	// history is newest first, versions oldest first
	addJSON := func(expr string, value any) error {
		b, err := marshalJSON(value)
		if err != nil {
			return err
		}
		args = append(args, b)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
		return nil
	}

	if patch.Client != nil {
		add("client", *patch.Client)
	}
	if patch.Campaign != nil {
		add("campaign", *patch.Campaign)
	}
	if patch.Date != nil {
		add("date", *patch.Date)
	}
	if patch.Caption != nil {
		add("caption", *patch.Caption)
	}
	if patch.MediaURL != nil {
		add("media_url", *patch.MediaURL)
	}
	if patch.MediaType != nil {
		add("media_type", *patch.MediaType)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.AddHistory != nil {
		if err := addJSON("history = $%d::jsonb || history", []models.HistoryEntry{*patch.AddHistory}); err != nil {
			return err
		}
	}
	if patch.AddVersion != nil {
		if err := addJSON("versions = versions || $%d::jsonb", []models.PostVersion{*patch.AddVersion}); err != nil {
			return err
		}
	}
	if patch.UpdatedAt != nil {
		add("updated_at", *patch.UpdatedAt)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE posts SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	err := r.withNotify(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrPostNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrPostNotFound) {
		logErr("write post", err)
	}
	return err
}

func (r *postRepository) AppendComment(ctx context.Context, postID string, comment models.Comment) error {
	b, err := marshalJSON([]models.Comment{comment})
	if err != nil {
		return err
	}

	query := `UPDATE posts SET comments = comments || $1::jsonb WHERE id = $2`
	err = r.withNotify(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, b, postID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrPostNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrPostNotFound) {
		logErr("append comment", err)
	}
	return err
}

func (r *postRepository) Wipe(ctx context.Context, trashedOnly bool) (int64, error) {
	var removed int64
	err := r.withNotify(ctx, func(tx *sql.Tx) error {
		var res sql.Result
		var err error
		if trashedOnly {
			res, err = tx.ExecContext(ctx, `DELETE FROM posts WHERE status = $1`, models.StatusTrashed)
		} else {
			res, err = tx.ExecContext(ctx, `DELETE FROM posts`)
		}
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		logErr("wipe posts", err)
		return 0, err
	}
	return removed, nil
}

func (r *postRepository) Subscribe(onChange func()) Subscription {
	return r.feed.Subscribe(onChange)
}
