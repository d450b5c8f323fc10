package middleware

import (
	"context"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/kheaji/board/internal/models"
	"github.com/kheaji/board/internal/utils"
)

const SessionCookie = "board_session"

// Session resolves the JWT session cookie into a request-scoped user.
// A missing or invalid cookie just means an anonymous request.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := utils.VerifyToken(c.Value, os.Getenv("SESSION_SECRET"))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		id := claims.SubjectUUID()
		if id == uuid.Nil {
			next.ServeHTTP(w, r)
			return
		}

		// push the session user into context
		user := &models.User{ID: id, Email: claims.Email}
		ctx := context.WithValue(r.Context(), utils.CtxUserKey, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser sends anonymous requests to the login page.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if utils.UserFrom(r.Context()) == nil {
			utils.SetFlash(w, "로그인이 필요한 서비스입니다.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
