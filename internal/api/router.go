package api

import (
	"database/sql"
	"net/http"

	"github.com/lostfound/lostfound/internal/config"
)

// NewRouter creates the API router with all endpoints registered. Every
// request passes through the rate limiter before routing.
func NewRouter(db *sql.DB, cfg *config.Config, jwtSecret string, limiter *RateLimiter) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{
		DB:        db,
		JWTSecret: jwtSecret,
		AdminMail: cfg.AdminMail,
		AdminPass: cfg.AdminPass,
	}
	itemsHandler := &ItemsHandler{DB: db}

	requireAuth := RequireAuth(jwtSecret)

	// Auth: all public.
	mux.HandleFunc("POST /auth/u/signup", authHandler.Signup)
	mux.HandleFunc("POST /auth/u/login", authHandler.Login)
	mux.HandleFunc("POST /auth/admin", authHandler.AdminLogin)

	// Items: public reads, token-gated writes.
	mux.HandleFunc("GET /items", itemsHandler.List)
	mux.HandleFunc("GET /items/{id}", itemsHandler.Get)
	mux.Handle("POST /items", requireAuth(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("PUT /items/{id}", requireAuth(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /items/{id}", requireAuth(RequireAdmin(http.HandlerFunc(itemsHandler.Delete))))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		jsonMessage(w, http.StatusOK, "Welcome to the lost and found API")
	})

	return limiter.Middleware(mux)
}
