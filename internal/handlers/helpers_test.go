package handlers_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kheaji/board/internal/blob"
	"github.com/kheaji/board/internal/handlers"
	"github.com/kheaji/board/internal/models"
	"github.com/kheaji/board/internal/render"
	"github.com/kheaji/board/internal/store"
	"github.com/stretchr/testify/require"
)

const formURLEncoded = "application/x-www-form-urlencoded"

var ctx = context.Background()

type testApp struct {
	mem       *store.Memory
	uploadDir string
	routes    http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	uploadDir := t.TempDir()
	images, err := blob.NewDiskStore(uploadDir, "/uploads")
	require.NoError(t, err)
	return newTestAppWith(t, uploadDir, images)
}

func newTestAppWith(t *testing.T, uploadDir string, images blob.Store) *testApp {
	t.Helper()
	t.Setenv("SESSION_SECRET", "test-secret")

	discard := log.New(io.Discard, "", 0)
	rn, err := render.New(discard)
	require.NoError(t, err)

	mem := store.NewMemory()
	h := handlers.New(mem, mem, images, rn, discard)
	return &testApp{mem: mem, uploadDir: uploadDir, routes: h.Routes(uploadDir)}
}

func (app *testApp) do(t *testing.T, method, target string, body io.Reader, contentType string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.routes.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) signupAndLogin(t *testing.T, email, password string) *http.Cookie {
	t.Helper()

	form := url.Values{
		"email":            {email},
		"password":         {password},
		"password_confirm": {password},
	}
	rec := app.do(t, http.MethodPost, "/signup", strings.NewReader(form.Encode()), formURLEncoded)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	form = url.Values{"email": {email}, "password": {password}}
	rec = app.do(t, http.MethodPost, "/login", strings.NewReader(form.Encode()), formURLEncoded)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == "board_session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

// seedPost inserts directly into the store, bypassing the handlers.
func (app *testApp) seedPost(t *testing.T, post models.Post) models.Post {
	t.Helper()
	require.NoError(t, app.mem.Create(ctx, &post))
	return post
}

type upload struct {
	filename    string
	contentType string
	data        []byte
}

// writeForm builds the multipart body the write page submits.
func writeForm(t *testing.T, title, content string, file *upload) (io.Reader, string) {
	t.Helper()
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("title", title))
	require.NoError(t, mw.WriteField("content", content))
	if file != nil {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, file.filename))
		hdr.Set("Content-Type", file.contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

// flashMessage decodes the one-shot notice queued on the response.
func flashMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "board_flash" && c.MaxAge >= 0 && c.Value != "" {
			msg, err := base64.URLEncoding.DecodeString(c.Value)
			require.NoError(t, err)
			return string(msg)
		}
	}
	return ""
}

func uploadedFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func backdated(age time.Duration) time.Time {
	return time.Now().Add(-age)
}

// failingBlob simulates unreachable object storage.
type failingBlob struct{}

func (failingBlob) Save(string, string, io.Reader) (string, error) {
	return "", errors.New("storage unreachable")
}

func (failingBlob) Remove(string) error {
	return errors.New("storage unreachable")
}
