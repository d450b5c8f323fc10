package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kheaji/board/internal/blob"
	"github.com/kheaji/board/internal/models"
	"github.com/kheaji/board/internal/render"
	"github.com/kheaji/board/internal/store"
	"github.com/kheaji/board/internal/utils"
)

const (
	postsPerPage = 10
	maxImageSize = 5 << 20
	// Request cap leaves headroom above the image limit so an oversized
	// file still reaches the size check and gets a proper message.
	maxFormSize = 8 << 20
)

type PostHandler struct {
	Posts    store.PostStore
	Images   blob.Store
	Renderer *render.Renderer
	errorLog *log.Logger
}

func NewPostHandler(posts store.PostStore, images blob.Store, rn *render.Renderer, errorLog *log.Logger) *PostHandler {
	return &PostHandler{Posts: posts, Images: images, Renderer: rn, errorLog: errorLog}
}

// ---------------------- LIST ----------------------

func (h *PostHandler) Board(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	keyword := strings.TrimSpace(r.URL.Query().Get("q"))

	data := &render.PageData{Title: "게시판", Keyword: keyword}

	posts, total, err := h.Posts.List(r.Context(), page, postsPerPage, keyword)
	if err != nil {
		h.errorLog.Printf("list posts: %v", err)
		data.FormError = "게시글을 불러오는 중 오류가 발생했습니다."
	} else {
		data.Posts = posts
		data.Pagination = render.BuildPagination(page, total, postsPerPage)
	}

	h.Renderer.Page(w, r, "board.page.html", data)
}

// ---------------------- DETAIL --------------------

func (h *PostHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SetFlash(w, "잘못된 접근입니다.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	post, err := h.Posts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.SetFlash(w, "게시글을 찾을 수 없습니다.")
		} else {
			h.errorLog.Printf("get post %d: %v", id, err)
			utils.SetFlash(w, "게시글을 불러오는 중 오류가 발생했습니다.")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// Best-effort view bump; rendering never waits on it and a failure
	// is only logged. At most once, no retry.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Posts.IncrementViews(ctx, id); err != nil {
			h.errorLog.Printf("increment views for post %d: %v", id, err)
		}
	}()

	user := utils.UserFrom(r.Context())
	h.Renderer.Page(w, r, "post.page.html", &render.PageData{
		Title:   post.Title,
		Post:    &post,
		IsOwner: user != nil && user.ID == post.AuthorID,
	})
}

// ---------------------- CREATE --------------------

func (h *PostHandler) WritePage(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Page(w, r, "write.page.html", &render.PageData{
		Title:    "글쓰기",
		FormData: map[string]string{},
	})
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := utils.UserFrom(r.Context())

	title, content, file, header, msg := h.postForm(w, r)
	renderErr := func(msg string) {
		h.Renderer.Page(w, r, "write.page.html", &render.PageData{
			Title:     "글쓰기",
			FormError: msg,
			FormData:  map[string]string{"title": title, "content": content},
		})
	}
	if msg != "" {
		renderErr(msg)
		return
	}

	var imageURL *string
	if file != nil {
		defer file.Close()
		url, err := h.Images.Save(user.ID.String(), strings.ToLower(path.Ext(header.Filename)), file)
		if err != nil {
			h.errorLog.Printf("upload image: %v", err)
			renderErr("게시글 작성 중 오류가 발생했습니다: " + err.Error())
			return
		}
		imageURL = &url
	}

	post := &models.Post{
		Title:       title,
		Content:     content,
		AuthorID:    user.ID,
		AuthorEmail: user.Email,
		ImageURL:    imageURL,
	}
	if err := h.Posts.Create(r.Context(), post); err != nil {
		// The upload already happened; drop the orphan best-effort.
		if imageURL != nil {
			if rmErr := h.Images.Remove(*imageURL); rmErr != nil {
				h.errorLog.Printf("remove orphaned image: %v", rmErr)
			}
		}
		h.errorLog.Printf("create post: %v", err)
		renderErr("게시글 작성 중 오류가 발생했습니다: " + err.Error())
		return
	}

	utils.SetFlash(w, "게시글이 작성되었습니다.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ---------------------- EDIT ----------------------

func (h *PostHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	post, ok := h.ownedPost(w, r)
	if !ok {
		return
	}
	h.Renderer.Page(w, r, "write.page.html", &render.PageData{
		Title:    "글 수정",
		Post:     &post,
		FormData: map[string]string{"title": post.Title, "content": post.Content},
	})
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := h.ownedPost(w, r)
	if !ok {
		return
	}

	title, content, file, header, msg := h.postForm(w, r)
	renderErr := func(msg string) {
		h.Renderer.Page(w, r, "write.page.html", &render.PageData{
			Title:     "글 수정",
			Post:      &post,
			FormError: msg,
			FormData:  map[string]string{"title": title, "content": content},
		})
	}
	if msg != "" {
		renderErr(msg)
		return
	}

	var imageURL *string
	if file != nil {
		defer file.Close()
		// Replacing the image: the previous object is removed
		// best-effort before the new upload.
		if post.HasImage() {
			if err := h.Images.Remove(*post.ImageURL); err != nil {
				h.errorLog.Printf("remove previous image for post %d: %v", post.ID, err)
			}
		}
		url, err := h.Images.Save(post.AuthorID.String(), strings.ToLower(path.Ext(header.Filename)), file)
		if err != nil {
			h.errorLog.Printf("upload image: %v", err)
			renderErr("게시글 수정 중 오류가 발생했습니다: " + err.Error())
			return
		}
		imageURL = &url
	}

	// imageURL stays nil when no new file was chosen, which leaves the
	// stored image_url untouched.
	if err := h.Posts.Update(r.Context(), post.ID, title, content, imageURL); err != nil {
		h.errorLog.Printf("update post %d: %v", post.ID, err)
		renderErr("게시글 수정 중 오류가 발생했습니다: " + err.Error())
		return
	}

	utils.SetFlash(w, "게시글이 수정되었습니다.")
	http.Redirect(w, r, fmt.Sprintf("/post/%d", post.ID), http.StatusSeeOther)
}

// ---------------------- DELETE --------------------

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	post, ok := h.ownedPost(w, r)
	if !ok {
		return
	}

	// Storage cleanup must never block the row delete.
	if post.HasImage() {
		if err := h.Images.Remove(*post.ImageURL); err != nil {
			h.errorLog.Printf("remove image for post %d: %v", post.ID, err)
		}
	}

	if err := h.Posts.Delete(r.Context(), post.ID); err != nil {
		h.errorLog.Printf("delete post %d: %v", post.ID, err)
		utils.SetFlash(w, "게시글 삭제 중 오류가 발생했습니다: "+err.Error())
		http.Redirect(w, r, fmt.Sprintf("/post/%d", post.ID), http.StatusSeeOther)
		return
	}

	utils.SetFlash(w, "게시글이 삭제되었습니다.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ---------------------- HELPERS -------------------

// ownedPost loads the requested post and enforces the author_id
// ownership check shared by edit and delete. On any failure the caller
// has already been redirected.
func (h *PostHandler) ownedPost(w http.ResponseWriter, r *http.Request) (models.Post, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SetFlash(w, "잘못된 접근입니다.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return models.Post{}, false
	}

	post, err := h.Posts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.SetFlash(w, "게시글을 찾을 수 없습니다.")
		} else {
			h.errorLog.Printf("get post %d: %v", id, err)
			utils.SetFlash(w, "게시글을 불러오는 중 오류가 발생했습니다.")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return models.Post{}, false
	}

	user := utils.UserFrom(r.Context())
	if user == nil || user.ID != post.AuthorID {
		utils.SetFlash(w, "권한이 없습니다.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return models.Post{}, false
	}
	return post, true
}

// postForm parses the multipart write form and validates its fields.
// A non-empty message means a validation failure to show inline; in
// that case no file is returned and nothing has touched storage.
func (h *PostHandler) postForm(w http.ResponseWriter, r *http.Request) (title, content string, file multipart.File, header *multipart.FileHeader, msg string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		return "", "", nil, nil, "요청이 너무 크거나 올바르지 않습니다."
	}

	title = strings.TrimSpace(r.FormValue("title"))
	content = strings.TrimSpace(r.FormValue("content"))
	if title == "" {
		return title, content, nil, nil, "제목을 입력하세요."
	}
	if content == "" {
		return title, content, nil, nil, "내용을 입력하세요."
	}

	f, fh, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return title, content, nil, nil, ""
	}
	if err != nil {
		return title, content, nil, nil, "이미지를 읽을 수 없습니다."
	}
	if fh.Size > maxImageSize {
		f.Close()
		return title, content, nil, nil, "이미지 크기는 5MB 이하만 가능합니다."
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		f.Close()
		return title, content, nil, nil, "이미지 파일만 업로드 가능합니다."
	}
	return title, content, f, fh, ""
}
