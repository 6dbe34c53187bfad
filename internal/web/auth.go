package web

import (
	"log/slog"
	"net/http"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	if GetSession(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.Templates.Render(w, "login.html", &PageData{Title: "Login"})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	if email == "" || password == "" {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Login",
			Error: "Email and password are required.",
		})
		return
	}

	token, user, err := s.API.Login(r.Context(), email, password)
	if err != nil {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Login",
			Error: errorMessage(err),
		})
		return
	}

	profile := Profile{}
	if user != nil {
		profile = Profile{ID: user.ID, Name: user.Name, Email: user.Email}
	}
	SetSessionCookies(w, token, profile)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// SignupPage handles GET /signup.
func (s *Server) SignupPage(w http.ResponseWriter, r *http.Request) {
	if GetSession(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.Templates.Render(w, "signup.html", &PageData{Title: "Sign Up"})
}

// SignupSubmit handles POST /signup. On success the visitor still has to log
// in; signup issues no token.
func (s *Server) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	email := r.FormValue("email")
	password := r.FormValue("password")

	if name == "" || email == "" || password == "" {
		s.Templates.Render(w, "signup.html", &PageData{
			Title: "Sign Up",
			Error: "All fields are required.",
		})
		return
	}

	if _, err := s.API.Signup(r.Context(), name, email, password); err != nil {
		s.Templates.Render(w, "signup.html", &PageData{
			Title: "Sign Up",
			Error: errorMessage(err),
		})
		return
	}

	s.Templates.Render(w, "login.html", &PageData{
		Title:   "Login",
		Success: "Account created. You can log in now.",
	})
}

// AdminLoginPage handles GET /admin.
func (s *Server) AdminLoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "admin_login.html", &PageData{Title: "Admin Login"})
}

// AdminLoginSubmit handles POST /admin. The admin is a separate credential
// pair; this never goes near the user signup/login flow.
func (s *Server) AdminLoginSubmit(w http.ResponseWriter, r *http.Request) {
	mail := r.FormValue("mail")
	pass := r.FormValue("pass")

	token, err := s.API.AdminLogin(r.Context(), mail, pass)
	if err != nil {
		s.Templates.Render(w, "admin_login.html", &PageData{
			Title: "Admin Login",
			Error: errorMessage(err),
		})
		return
	}

	slog.Info("admin session started")
	SetSessionCookies(w, token, Profile{Email: mail, IsAdmin: true})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout handles POST /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	ClearSessionCookies(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
