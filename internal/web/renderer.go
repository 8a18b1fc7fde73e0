package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"time"

	"github.com/MattiaPT/displayer/pkg/types"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Renderer holds one parsed template set. Templates are looked up by file
// name, e.g. "index.html".
type Renderer struct {
	tmpl *template.Template
}

var templateFuncs = template.FuncMap{
	"captureTime": func(t time.Time) string {
		return t.Format(types.CaptureTimeLayout)
	},
}

// NewRenderer parses the embedded templates, or every *.html file in
// templateDir when it is set.
func NewRenderer(templateDir string) (*Renderer, error) {
	base := template.New("").Funcs(templateFuncs)

	var (
		tmpl *template.Template
		err  error
	)
	if templateDir == "" {
		tmpl, err = base.ParseFS(embeddedTemplates, "templates/*.html")
	} else {
		tmpl, err = base.ParseGlob(filepath.Join(templateDir, "*.html"))
	}
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	if r.tmpl.Lookup(name) == nil {
		return fmt.Errorf("template %q not found", name)
	}
	return r.tmpl.ExecuteTemplate(w, name, data)
}
