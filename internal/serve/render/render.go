// Package render produces the HTML pages from embedded templates.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/estatemarket/estate-frontend/internal/serve/auth"
	"github.com/estatemarket/estate-frontend/internal/wei"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PageData is the envelope every template receives: the signed-in account (if
// any), the flashes consumed from the session, and the page-specific payload.
type PageData struct {
	Account string
	Flashes []auth.Flash
	Data    any
}

type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	templates, err := template.New("").Funcs(template.FuncMap{
		"ether": wei.FormatEther,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{templates: templates}, nil
}

// Render writes the named page. Domain failures are always flashed and
// rendered with HTTP 200; this method is not used for transport errors.
func (r *Renderer) Render(w http.ResponseWriter, name string, data PageData) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}
	return nil
}
