package api

import (
	"crypto/subtle"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/lostfound/lostfound/internal/auth"
	"github.com/lostfound/lostfound/internal/model"
	"github.com/lostfound/lostfound/internal/store"
)

// AuthHandler handles signup, login and admin login.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
	AdminMail string
	AdminPass string
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginRequest struct {
	Mail string `json:"mail"`
	Pass string `json:"pass"`
}

type loginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    *model.User `json:"user,omitempty"`
}

// Signup handles POST /auth/u/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, req.Name, req.Email, string(hash))
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			jsonError(w, http.StatusBadRequest, "Email already exists.")
			return
		}
		slog.Error("creating user", "error", err)
		jsonError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	slog.Info("user signed up", "user", user.Email)
	jsonResponse(w, http.StatusCreated, map[string]any{"user": user})
}

// Login handles POST /auth/u/login. Unknown emails and wrong passwords get
// the same generic answer.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), h.DB, req.Email)
	if err != nil {
		slog.Error("looking up user", "error", err)
		jsonError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	if user == nil {
		jsonError(w, http.StatusBadRequest, "Invalid credentials.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
		jsonError(w, http.StatusBadRequest, "Invalid credentials.")
		return
	}

	token, err := auth.GenerateUserToken(h.JWTSecret, user.ID, user.Email)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	slog.Info("user logged in", "user", user.Email)
	jsonResponse(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}

// AdminLogin handles POST /auth/admin. The admin is a configured credential
// pair, never a users row; unset credentials fail closed.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonMessage(w, http.StatusUnauthorized, "Invalid admin credentials")
		return
	}

	if !h.adminCredentialsMatch(req.Mail, req.Pass) {
		slog.Warn("admin login failed", "remote", r.RemoteAddr)
		jsonMessage(w, http.StatusUnauthorized, "Invalid admin credentials")
		return
	}

	token, err := auth.GenerateAdminToken(h.JWTSecret, req.Mail)
	if err != nil {
		jsonMessage(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	slog.Info("admin logged in")
	jsonResponse(w, http.StatusOK, loginResponse{
		Message: "Admin logged in successfully",
		Token:   token,
	})
}

func (h *AuthHandler) adminCredentialsMatch(mail, pass string) bool {
	if h.AdminMail == "" || h.AdminPass == "" {
		return false
	}
	mailOK := subtle.ConstantTimeCompare([]byte(mail), []byte(h.AdminMail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(h.AdminPass)) == 1
	return mailOK && passOK
}
