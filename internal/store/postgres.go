package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/kheaji/board/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS posts (
    id           BIGSERIAL PRIMARY KEY,
    title        TEXT NOT NULL,
    content      TEXT NOT NULL,
    author_id    UUID NOT NULL REFERENCES users (id),
    author_email TEXT NOT NULL,
    image_url    TEXT,
    views        BIGINT NOT NULL DEFAULT 0,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC, id DESC);
`

// Postgres implements PostStore and UserStore on top of sqlx.
type Postgres struct {
	DB *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{DB: db}
}

// EnsureSchema creates the tables on startup if they do not exist yet.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	return nil
}

func (s *Postgres) List(ctx context.Context, page, size int, keyword string) ([]models.Post, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * size

	posts := []models.Post{}
	var total int

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		if err := s.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts`); err != nil {
			return nil, 0, fmt.Errorf("store: count posts: %w", err)
		}
		err := s.DB.SelectContext(ctx, &posts, `
			SELECT * FROM posts
			ORDER BY created_at DESC, id DESC
			LIMIT $1 OFFSET $2
		`, size, offset)
		if err != nil {
			return nil, 0, fmt.Errorf("store: list posts: %w", err)
		}
		return posts, total, nil
	}

	// The total reflects the filtered set so pagination matches what the
	// user actually sees while searching.
	pattern := "%" + keyword + "%"
	if err := s.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts WHERE title ILIKE $1`, pattern); err != nil {
		return nil, 0, fmt.Errorf("store: count posts: %w", err)
	}
	err := s.DB.SelectContext(ctx, &posts, `
		SELECT * FROM posts
		WHERE title ILIKE $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, pattern, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list posts: %w", err)
	}
	return posts, total, nil
}

func (s *Postgres) Get(ctx context.Context, id int64) (models.Post, error) {
	var post models.Post
	err := s.DB.GetContext(ctx, &post, `SELECT * FROM posts WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("store: get post %d: %w", id, err)
	}
	return post, nil
}

func (s *Postgres) IncrementViews(ctx context.Context, id int64) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE posts SET views = views + 1 WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("store: increment views for post %d: %w", id, err)
	}
	return nil
}

func (s *Postgres) Create(ctx context.Context, post *models.Post) error {
	err := s.DB.QueryRowxContext(ctx, `
		INSERT INTO posts (title, content, author_id, author_email, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, views, created_at
	`, post.Title, post.Content, post.AuthorID, post.AuthorEmail, post.ImageURL).
		Scan(&post.ID, &post.Views, &post.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: create post: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, id int64, title, content string, imageURL *string) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE posts
		SET title=$1, content=$2, image_url=COALESCE($3, image_url), updated_at=NOW()
		WHERE id=$4
	`, title, content, imageURL, id)
	if err != nil {
		return fmt.Errorf("store: update post %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("store: delete post %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Postgres) CreateUser(ctx context.Context, email, passwordHash string) (models.User, error) {
	var user models.User
	err := s.DB.QueryRowxContext(ctx, `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, password_hash, created_at
	`, uuid.New(), email, passwordHash).StructScan(&user)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, fmt.Errorf("user %s: %w", email, ErrDuplicate)
		}
		return models.User{}, fmt.Errorf("store: create user: %w", err)
	}
	return user, nil
}

func (s *Postgres) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.DB.GetContext(ctx, &user, `SELECT * FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("store: get user by email: %w", err)
	}
	return user, nil
}

func (s *Postgres) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	err := s.DB.GetContext(ctx, &user, `SELECT * FROM users WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("store: get user by id: %w", err)
	}
	return user, nil
}
