package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID          int64      `db:"id"`
	Title       string     `db:"title"`
	Content     string     `db:"content"`
	AuthorID    uuid.UUID  `db:"author_id"`
	AuthorEmail string     `db:"author_email"`
	ImageURL    *string    `db:"image_url"`
	Views       int64      `db:"views"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// HasImage reports whether the post references a stored image object.
func (p *Post) HasImage() bool {
	return p.ImageURL != nil && *p.ImageURL != ""
}
