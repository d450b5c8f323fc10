// Package store holds the persistence layer for posts and users.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kheaji/board/internal/models"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate")
)

// PostStore is the repository for board posts. List ordering is always
// creation time descending; pages are 1-based.
type PostStore interface {
	// List returns one page of posts plus the total count of the filtered
	// set. A blank keyword means no filter; otherwise the match is a
	// case-insensitive substring search on the title.
	List(ctx context.Context, page, size int, keyword string) ([]models.Post, int, error)
	Get(ctx context.Context, id int64) (models.Post, error)
	// IncrementViews bumps the view counter atomically. Callers treat it
	// as best-effort: failures are logged, never surfaced.
	IncrementViews(ctx context.Context, id int64) error
	Create(ctx context.Context, post *models.Post) error
	// Update rewrites title and content and stamps updated_at. A nil
	// imageURL leaves the stored image_url untouched.
	Update(ctx context.Context, id int64, title, content string, imageURL *string) error
	Delete(ctx context.Context, id int64) error
}

type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (models.User, error)
}
