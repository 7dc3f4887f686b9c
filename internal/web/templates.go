package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

// renderer implements echo.Renderer over html/template. Each page file
// is parsed together with base.html so pages only define "title" and
// "content".
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	entries, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template)
	for _, page := range entries {
		if page == "templates/base.html" {
			continue
		}
		t, err := template.ParseFS(templatesFS, "templates/base.html", page)
		if err != nil {
			return nil, err
		}
		name := page[len("templates/") : len(page)-len(".html")]
		pages[name] = t
	}
	return &renderer{pages: pages}, nil
}

func (r *renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("web: unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}
