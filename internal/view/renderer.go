// Package view renders HTML pages from the embedded templates. Every page
// is executed through the "base" layout, which shows pending flash
// messages above the page content.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/form"
	"github.com/iliyamo/fyyur/internal/session"
)

//go:embed templates
var templatesFS embed.FS

// FlashSource supplies the flash messages shown on a page.
type FlashSource interface {
	Flashes(c echo.Context) []session.Flash
}

// Page is the root value every template receives.
type Page struct {
	Flashes []session.Flash
	Data    echo.Map
}

// Renderer implements echo.Renderer.
type Renderer struct {
	pages   map[string]*template.Template
	flashes FlashSource
}

// New parses every page under templates/{pages,forms,errors}. flashes may
// be nil.
func New(flashes FlashSource) (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}, flashes: flashes}
	shared := []string{"templates/layouts/*.html", "templates/partials/*.html"}
	for _, dir := range []string{"pages", "forms", "errors"} {
		files, err := fs.Glob(templatesFS, path.Join("templates", dir, "*.html"))
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			t, err := template.New(path.Base(f)).Funcs(funcs).ParseFS(templatesFS, append(shared, f)...)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", f, err)
			}
			r.pages[strings.TrimPrefix(f, "templates/")] = t
		}
	}
	return r, nil
}

// MustNew is New for use at startup.
func MustNew(flashes FlashSource) *Renderer {
	r, err := New(flashes)
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes page name, e.g. "pages/home.html". data must be an
// echo.Map or nil.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown template %q", name)
	}
	p := Page{}
	switch d := data.(type) {
	case nil:
		p.Data = echo.Map{}
	case echo.Map:
		p.Data = d
	case map[string]interface{}:
		p.Data = d
	default:
		return fmt.Errorf("view: data for %q must be echo.Map, got %T", name, data)
	}
	if r.flashes != nil && c != nil {
		p.Flashes = r.flashes.Flashes(c)
	}
	return t.ExecuteTemplate(w, "base", p)
}

var funcs = template.FuncMap{
	"datetime": FormatDatetime,
	"join":     strings.Join,
	"states":   func() []string { return form.States },
	"genres":   func() []string { return form.Genres },
	"errorsFor": func(errs form.Errors, field string) []string {
		if errs == nil {
			return nil
		}
		return errs[field]
	},
	"has": func(list []string, s string) bool {
		for _, v := range list {
			if v == s {
				return true
			}
		}
		return false
	},
}
