package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kheaji/board/internal/models"
)

// Memory is an in-memory implementation of PostStore and UserStore,
// used by tests in place of Postgres.
type Memory struct {
	mut    sync.RWMutex
	posts  map[int64]models.Post
	users  map[uuid.UUID]models.User
	nextID int64
}

func NewMemory() *Memory {
	return &Memory{
		posts: make(map[int64]models.Post),
		users: make(map[uuid.UUID]models.User),
	}
}

func (s *Memory) List(_ context.Context, page, size int, keyword string) ([]models.Post, int, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	if page < 1 {
		page = 1
	}
	keyword = strings.ToLower(strings.TrimSpace(keyword))

	matched := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if keyword != "" && !strings.Contains(strings.ToLower(p.Title), keyword) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := (page - 1) * size
	if start >= total {
		return []models.Post{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *Memory) Get(_ context.Context, id int64) (models.Post, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return models.Post{}, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	return post, nil
}

func (s *Memory) IncrementViews(_ context.Context, id int64) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	post.Views++
	s.posts[id] = post
	return nil
}

func (s *Memory) Create(_ context.Context, post *models.Post) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	s.nextID++
	post.ID = s.nextID
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	s.posts[post.ID] = *post
	return nil
}

func (s *Memory) Update(_ context.Context, id int64, title, content string, imageURL *string) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	post.Title = title
	post.Content = content
	if imageURL != nil {
		post.ImageURL = imageURL
	}
	now := time.Now()
	post.UpdatedAt = &now
	s.posts[id] = post
	return nil
}

func (s *Memory) Delete(_ context.Context, id int64) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	if _, ok := s.posts[id]; !ok {
		return fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	delete(s.posts, id)
	return nil
}

func (s *Memory) CreateUser(_ context.Context, email, passwordHash string) (models.User, error) {
	s.mut.Lock()
	defer s.mut.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return models.User{}, fmt.Errorf("user %s: %w", email, ErrDuplicate)
		}
	}
	user := models.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  passwordHash,
		CreatedAt: time.Now(),
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *Memory) UserByEmail(_ context.Context, email string) (models.User, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
}

func (s *Memory) UserByID(_ context.Context, id uuid.UUID) (models.User, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return user, nil
}
