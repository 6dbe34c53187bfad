package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/lostfound/lostfound/internal/client"
	webembed "github.com/lostfound/lostfound/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"statusClass": func(status string) string {
			if status == "Lost" {
				return "badge-lost"
			}
			return "badge-found"
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	// Read layout.
	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"home.html",
		"items.html",
		"item_detail.html",
		"login.html",
		"signup.html",
		"admin_login.html",
		"dashboard.html",
		"item_form.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("rendering template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates. Session is nil for
// anonymous visitors.
type PageData struct {
	Title   string
	Session *Session
	Error   string
	Success string
}

// Server holds all dependencies for page handlers. Pages never touch the
// database; everything goes through the API client.
type Server struct {
	API       *client.Client
	Templates *Templates
}

// errorMessage maps a client error to the banner text: API messages are
// surfaced verbatim, transport failures get a generic retry message.
func errorMessage(err error) string {
	if apiErr, ok := err.(*client.APIError); ok {
		return apiErr.Message
	}
	return "Network error. Please try again."
}
