package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kheaji/board/internal/blob"
	"github.com/kheaji/board/internal/middleware"
	"github.com/kheaji/board/internal/render"
	"github.com/kheaji/board/internal/store"
)

type Handler struct {
	Auth  *AuthHandler
	Posts *PostHandler
}

func New(users store.UserStore, posts store.PostStore, images blob.Store, rn *render.Renderer, errorLog *log.Logger) *Handler {
	return &Handler{
		Auth:  NewAuthHandler(users, rn, errorLog),
		Posts: NewPostHandler(posts, images, rn, errorLog),
	}
}

// Routes wires the full application router; tests mount it the same way
// main does.
func (h *Handler) Routes(uploadDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Session)

	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	// Public
	r.Get("/", h.Posts.Board)
	r.Get("/post/{id}", h.Posts.View)
	r.Get("/login", h.Auth.LoginPage)
	r.Post("/login", h.Auth.Login)
	r.Post("/signup", h.Auth.Signup)
	r.Post("/logout", h.Auth.Logout)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Get("/write", h.Posts.WritePage)
		r.Post("/write", h.Posts.Create)
		r.Get("/post/{id}/edit", h.Posts.EditPage)
		r.Post("/post/{id}/edit", h.Posts.Update)
		r.Post("/post/{id}/delete", h.Posts.Delete)
	})

	return r
}
