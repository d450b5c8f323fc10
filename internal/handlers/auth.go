package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/kheaji/board/internal/middleware"
	"github.com/kheaji/board/internal/render"
	"github.com/kheaji/board/internal/store"
	"github.com/kheaji/board/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	Users    store.UserStore
	Renderer *render.Renderer
	errorLog *log.Logger
}

func NewAuthHandler(users store.UserStore, rn *render.Renderer, errorLog *log.Logger) *AuthHandler {
	return &AuthHandler{Users: users, Renderer: rn, errorLog: errorLog}
}

// ---------------- LOGIN PAGE ------------------

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	// Already signed in: straight back to the board.
	if utils.UserFrom(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.Renderer.Page(w, r, "login.page.html", &render.PageData{Title: "로그인"})
}

// -------------- LOGIN ------------------------

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	fail := func(msg string) {
		h.Renderer.Page(w, r, "login.page.html", &render.PageData{
			Title:     "로그인",
			FormError: msg,
			FormData:  map[string]string{"tab": "login", "email": email},
		})
	}

	if email == "" || password == "" {
		fail("이메일과 비밀번호를 입력하세요.")
		return
	}

	user, err := h.Users.UserByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.errorLog.Printf("login lookup: %v", err)
		}
		fail("로그인 실패: 이메일 또는 비밀번호가 올바르지 않습니다.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		fail("로그인 실패: 이메일 또는 비밀번호가 올바르지 않습니다.")
		return
	}

	token, _, err := utils.GenerateToken(user.ID, user.Email, os.Getenv("SESSION_SECRET"), os.Getenv("SESSION_TTL"))
	if err != nil {
		h.errorLog.Printf("login token: %v", err)
		fail("로그인 실패: " + err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	utils.SetFlash(w, "로그인 성공!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// -------------- SIGN UP ----------------------

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("password_confirm")

	fail := func(msg string) {
		h.Renderer.Page(w, r, "login.page.html", &render.PageData{
			Title:     "로그인",
			FormError: msg,
			FormData:  map[string]string{"tab": "signup", "signup_email": email},
		})
	}

	if email == "" || password == "" {
		fail("이메일과 비밀번호를 입력하세요.")
		return
	}
	if password != confirm {
		fail("비밀번호가 일치하지 않습니다.")
		return
	}
	if len(password) < 6 {
		fail("비밀번호는 최소 6자 이상이어야 합니다.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.errorLog.Printf("signup hash: %v", err)
		fail("회원가입 실패: " + err.Error())
		return
	}

	if _, err := h.Users.CreateUser(r.Context(), email, string(hash)); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			fail("이미 가입된 이메일입니다.")
			return
		}
		h.errorLog.Printf("signup create: %v", err)
		fail("회원가입 실패: " + err.Error())
		return
	}

	utils.SetFlash(w, "회원가입 성공! 로그인해주세요.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// -------------- LOGOUT -----------------------

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	utils.SetFlash(w, "로그아웃되었습니다.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
