package web

import (
	"net/http"

	"github.com/lostfound/lostfound/internal/client"
	webembed "github.com/lostfound/lostfound/web"
)

// NewRouter creates the frontend page router. Public pages load the session
// when present; management pages require one.
func NewRouter(api *client.Client) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		API:       api,
		Templates: templates,
	}

	mux := http.NewServeMux()

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public pages.
	mux.HandleFunc("GET /{$}", s.HomePage)
	mux.HandleFunc("GET /items", s.ItemsPage)
	mux.HandleFunc("GET /items/{id}", s.ItemDetailPage)
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("GET /signup", s.SignupPage)
	mux.HandleFunc("POST /signup", s.SignupSubmit)
	mux.HandleFunc("GET /admin", s.AdminLoginPage)
	mux.HandleFunc("POST /admin", s.AdminLoginSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Item-management pages, gated on a stored session.
	mux.Handle("GET /dashboard", RequireSession(http.HandlerFunc(s.DashboardPage)))
	mux.Handle("GET /report", RequireSession(http.HandlerFunc(s.ReportPage)))
	mux.Handle("POST /report", RequireSession(http.HandlerFunc(s.ReportSubmit)))
	mux.Handle("GET /items/{id}/edit", RequireSession(http.HandlerFunc(s.ItemEditPage)))
	mux.Handle("POST /items/{id}/edit", RequireSession(http.HandlerFunc(s.ItemEditSubmit)))
	mux.Handle("POST /items/{id}/delete", RequireSession(http.HandlerFunc(s.ItemDeleteSubmit)))

	return WithSession(mux), nil
}
