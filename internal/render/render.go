// Package render turns page data into HTML using the embedded templates.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"path"
	"time"

	"github.com/kheaji/board/internal/models"
	"github.com/kheaji/board/internal/utils"
)

//go:embed templates
var templateFS embed.FS

type PageData struct {
	Title       string
	Path        string
	Flash       string
	FormError   string
	FormData    map[string]string
	CurrentUser *models.User
	Post        *models.Post
	Posts       []models.Post
	Pagination  *Pagination
	Keyword     string
	IsOwner     bool
}

var functions = template.FuncMap{
	"listDate": func(t time.Time) string {
		return FormatListDate(t, time.Now())
	},
	"detailDate": FormatDetailDate,
	"handle":     AuthorHandle,
}

// Renderer holds one parsed template set per page, each paired with the
// base layout.
type Renderer struct {
	pages    map[string]*template.Template
	errorLog *log.Logger
}

func New(errorLog *log.Logger) (*Renderer, error) {
	pageFiles, err := fs.Glob(templateFS, "templates/*.page.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, file := range pageFiles {
		name := path.Base(file)
		ts, err := template.New(name).Funcs(functions).
			ParseFS(templateFS, "templates/base.layout.html", file)
		if err != nil {
			return nil, err
		}
		pages[name] = ts
	}
	return &Renderer{pages: pages, errorLog: errorLog}, nil
}

// Page renders the named page template inside the base layout. The
// session user and any pending flash notice are filled in here so
// handlers only supply page-specific data.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, page string, data *PageData) {
	if data == nil {
		data = &PageData{}
	}
	data.Path = r.URL.Path
	if data.Flash == "" {
		data.Flash = utils.PopFlash(w, r)
	}
	if data.CurrentUser == nil {
		data.CurrentUser = utils.UserFrom(r.Context())
	}

	ts, ok := rn.pages[page]
	if !ok {
		rn.errorLog.Printf("unknown page template %q", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		rn.errorLog.Printf("render %s: %v", page, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	buf.WriteTo(w)
}
