// Package view renders the dashboard's HTML pages from embedded templates.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

//go:embed templates/*.html
var files embed.FS

// Page names, one template file each.
const (
	PageLogin      = "login"
	PageLoading    = "loading"
	PageUsers      = "users"
	PageUserDetail = "user_detail"
	PageServices   = "services"
	PageOrders     = "orders"
	PageError      = "error"
)

var pages = []string{PageLogin, PageLoading, PageUsers, PageUserDetail, PageServices, PageOrders, PageError}

// Page is the data every template receives. Data holds the page-specific
// view model.
type Page struct {
	Title   string
	Nav     string
	CSRF    string
	User    *domain.Session
	Notices []domain.Notice
	Data    any
}

// ErrorData is the view model of PageError.
type ErrorData struct {
	Code    int
	Message string
}

// Renderer implements echo.Renderer.
type Renderer struct {
	templates map[string]*template.Template
}

var funcs = template.FuncMap{
	"date": func(ts domain.Timestamp) string {
		if ts.IsZero() {
			return "-"
		}
		return ts.Local().Format("02/01/2006 15:04")
	},
	"datePtr": func(ts *domain.Timestamp) string {
		if ts == nil || ts.IsZero() {
			return "-"
		}
		return ts.Local().Format("02/01/2006 15:04")
	},
	"expects": func(from, to domain.OrderStatus) bool { return from.Expects(to) },
	"statuses": func() []domain.OrderStatus {
		return domain.OrderStatuses
	},
}

// New parses every page together with the shared layout.
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
