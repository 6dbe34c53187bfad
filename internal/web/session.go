package web

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// Profile is the user profile the frontend keeps alongside the token,
// mirroring what the login response returned.
type Profile struct {
	ID      int64  `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
}

// Session is the client-held state: the bearer token and the profile. It is
// injected explicitly into every page's data; handlers never read cookies
// themselves.
type Session struct {
	Token string
	User  Profile
}

// CanEdit reports whether the session may edit an item owned by ownerID.
// The API is the actual authority; this only drives which controls render.
func (s *Session) CanEdit(ownerID int64) bool {
	return s != nil && (s.User.IsAdmin || s.User.ID == ownerID)
}

const (
	tokenCookie = "token"
	userCookie  = "user"

	// Cookies expire with the token.
	sessionMaxAge = 3600
)

// SetSessionCookies persists the token and profile on the client.
func SetSessionCookies(w http.ResponseWriter, token string, profile Profile) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	data, err := json.Marshal(profile)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     userCookie,
		Value:    base64.URLEncoding.EncodeToString(data),
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookies removes the persisted session.
func ClearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{tokenCookie, userCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// sessionFromRequest reads the persisted session, or nil if absent or
// unreadable. The token is not verified here; only the API holds the signing
// secret and it rejects invalid tokens on every authenticated call.
func sessionFromRequest(r *http.Request) *Session {
	tc, err := r.Cookie(tokenCookie)
	if err != nil || tc.Value == "" {
		return nil
	}

	session := &Session{Token: tc.Value}
	if uc, err := r.Cookie(userCookie); err == nil {
		if data, err := base64.URLEncoding.DecodeString(uc.Value); err == nil {
			_ = json.Unmarshal(data, &session.User)
		}
	}
	return session
}

type sessionContextKey string

const sessionKey sessionContextKey = "session"

// WithSession loads the session (if any) into the request context for every
// page, so public pages can adapt their navigation.
func WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session := sessionFromRequest(r); session != nil {
			r = r.WithContext(context.WithValue(r.Context(), sessionKey, session))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession redirects anonymous visitors to the login page. It gates the
// item-management pages on the presence of a stored token.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSession(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSession retrieves the session from the context, or nil.
func GetSession(ctx context.Context) *Session {
	session, _ := ctx.Value(sessionKey).(*Session)
	return session
}
