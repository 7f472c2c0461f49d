// Package views renders the HTML pages. Every page is parsed together with
// the shared layout, so header, navigation and footer live in one place.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"tastytrail/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page template names.
const (
	PageHome      = "home"
	PageLogin     = "login"
	PageSignup    = "signup"
	PageDashboard = "dashboard"
	PageDiscover  = "discover"
	PageRecipe    = "recipe"
	PageForm      = "recipe_form"
	PageProfile   = "profile"
	PageMine      = "my_recipes"
)

var pageNames = []string{PageHome, PageLogin, PageSignup, PageDashboard, PageDiscover, PageRecipe, PageForm, PageProfile, PageMine}

var funcs = template.FuncMap{
	"minutes": func(n int) string {
		if n <= 0 {
			return "n/a"
		}
		return fmt.Sprintf("%d min", n)
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"truncate": func(n int, s string) string {
		r := []rune(s)
		if len(r) <= n {
			return s
		}
		return strings.TrimSpace(string(r[:n])) + "…"
	},
	"selected": func(current, option string) bool {
		return current == option
	},
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	rv := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			path.Join("templates", name+".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		rv.pages[name] = t
	}
	return rv, nil
}

// Render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (rv *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := rv.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	metrics.PageRendersTotal.WithLabelValues(name).Inc()
	return err
}

// Static returns the embedded static assets rooted at their directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
