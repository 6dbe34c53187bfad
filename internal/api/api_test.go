package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lostfound/lostfound/internal/auth"
	"github.com/lostfound/lostfound/internal/config"
	"github.com/lostfound/lostfound/internal/db"
	"github.com/lostfound/lostfound/internal/model"
)

const (
	testJWTSecret = "test-secret"
	testAdminMail = "admin@example.com"
	testAdminPass = "admin-pass"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t)
	cfg := &config.Config{AdminMail: testAdminMail, AdminPass: testAdminPass}

	// A generous budget so functional tests never trip the limiter.
	router := NewRouter(database, cfg, testJWTSecret, NewRateLimiter(100000))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodPost, url, token, body)
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func signupAndLogin(t *testing.T, serverURL, name, email, password string) (string, int64) {
	t.Helper()

	resp := postJSON(t, serverURL+"/auth/u/signup", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup failed: %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, serverURL+"/auth/u/login", "", map[string]string{
		"email": email, "password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var login struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	decodeBody(t, resp, &login)
	if login.Token == "" {
		t.Fatal("empty token from login")
	}
	return login.Token, login.User.ID
}

func adminLogin(t *testing.T, serverURL string) string {
	t.Helper()

	resp := postJSON(t, serverURL+"/auth/admin", "", map[string]string{
		"mail": testAdminMail, "pass": testAdminPass,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login failed: %d", resp.StatusCode)
	}

	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &login)
	return login.Token
}

func testItemBody() map[string]string {
	return map[string]string{
		"title":        "Black wallet",
		"category":     "accessories",
		"description":  "Leather wallet, broken zipper",
		"status":       model.StatusLost,
		"location":     "Central Station",
		"date":         "2026-08-12",
		"contact_info": "ana@example.com",
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	server := setupTestServer(t)

	body := map[string]string{"name": "Ana", "email": "ana@example.com", "password": "secret123"}
	resp := postJSON(t, server.URL+"/auth/u/signup", "", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/auth/u/signup", "", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate email, got %d", resp.StatusCode)
	}
	var errResp map[string]string
	decodeBody(t, resp, &errResp)
	if errResp["error"] != "Email already exists." {
		t.Errorf("unexpected error message: %q", errResp["error"])
	}
}

func TestLoginNoUserExistenceLeakage(t *testing.T) {
	server := setupTestServer(t)
	signupAndLogin(t, server.URL, "Ana", "ana@example.com", "secret123")

	wrongPass := postJSON(t, server.URL+"/auth/u/login", "", map[string]string{
		"email": "ana@example.com", "password": "wrong",
	})
	unknownEmail := postJSON(t, server.URL+"/auth/u/login", "", map[string]string{
		"email": "nobody@example.com", "password": "wrong",
	})

	if wrongPass.StatusCode != http.StatusBadRequest || unknownEmail.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for both failures, got %d and %d", wrongPass.StatusCode, unknownEmail.StatusCode)
	}

	var a, b map[string]string
	decodeBody(t, wrongPass, &a)
	decodeBody(t, unknownEmail, &b)
	if a["error"] != b["error"] {
		t.Errorf("wrong password and unknown email must be indistinguishable: %q vs %q", a["error"], b["error"])
	}
}

func TestAdminLoginInvalidCredentials(t *testing.T) {
	server := setupTestServer(t)

	resp := postJSON(t, server.URL+"/auth/admin", "", map[string]string{
		"mail": testAdminMail, "pass": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad admin credentials, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAdminLoginFailsClosedWhenUnconfigured(t *testing.T) {
	database := db.NewTestDB(t)
	cfg := &config.Config{} // no admin credentials
	server := httptest.NewServer(NewRouter(database, cfg, testJWTSecret, NewRateLimiter(100000)))
	t.Cleanup(server.Close)

	resp := postJSON(t, server.URL+"/auth/admin", "", map[string]string{"mail": "", "pass": ""})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 when admin credentials are unset, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestListItemsEmpty(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/items")
	if err != nil {
		t.Fatalf("GET /items: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for empty listing, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestListItemsFiltered(t *testing.T) {
	server := setupTestServer(t)
	token, _ := signupAndLogin(t, server.URL, "Ana", "ana@example.com", "secret123")

	lostKeys := testItemBody()
	lostKeys["title"] = "Lost keys"
	lostKeys["category"] = "keys"

	foundKeys := testItemBody()
	foundKeys["title"] = "Found keys"
	foundKeys["category"] = "keys"
	foundKeys["status"] = model.StatusFound

	otherLostKeys := testItemBody()
	otherLostKeys["title"] = "More lost keys"
	otherLostKeys["category"] = "keys"

	for _, body := range []map[string]string{lostKeys, foundKeys, otherLostKeys} {
		resp := postJSON(t, server.URL+"/items", token, body)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("creating item: %d", resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp, err := http.Get(server.URL + "/items?status=Lost&category=keys")
	if err != nil {
		t.Fatalf("GET /items: %v", err)
	}
	var items []model.Item
	decodeBody(t, resp, &items)

	if len(items) != 2 {
		t.Fatalf("expected 2 matching items, got %d", len(items))
	}
	for _, item := range items {
		if item.Status != model.StatusLost || item.Category != "keys" {
			t.Errorf("item %q does not match both filters", item.Title)
		}
	}
	// Newest-created first.
	if items[0].Title != "More lost keys" || items[1].Title != "Lost keys" {
		t.Errorf("expected newest-first ordering, got %q then %q", items[0].Title, items[1].Title)
	}
}

func TestCreateItemValidation(t *testing.T) {
	server := setupTestServer(t)
	token, _ := signupAndLogin(t, server.URL, "Ana", "ana@example.com", "secret123")

	body := testItemBody()
	delete(body, "location")

	resp := postJSON(t, server.URL+"/items", token, body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing field, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Nothing persisted.
	resp, _ = http.Get(server.URL + "/items")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected empty listing after rejected create, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCreateItemDefaultsImageURL(t *testing.T) {
	server := setupTestServer(t)
	token, _ := signupAndLogin(t, server.URL, "Ana", "ana@example.com", "secret123")

	resp := postJSON(t, server.URL+"/items", token, testItemBody())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created struct {
		Item model.Item `json:"item"`
	}
	decodeBody(t, resp, &created)
	if created.Item.ImageURL != model.DefaultImageURL {
		t.Errorf("expected placeholder image url, got %q", created.Item.ImageURL)
	}
}

func TestCreateItemRequiresAuth(t *testing.T) {
	server := setupTestServer(t)

	resp := postJSON(t, server.URL+"/items", "", testItemBody())
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestExpiredTokenRejected(t *testing.T) {
	server := setupTestServer(t)

	claims := auth.Claims{
		UserID: 1,
		Email:  "ana@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("signing expired token: %v", err)
	}

	resp := postJSON(t, server.URL+"/items", expired, testItemBody())
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodPut, server.URL+"/items/1", expired, testItemBody())
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token on update, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, server.URL+"/items/1", expired, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token on delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAdminTokenCannotCreate(t *testing.T) {
	server := setupTestServer(t)
	token := adminLogin(t, server.URL)

	resp := postJSON(t, server.URL+"/items", token, testItemBody())
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for admin creating an item, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestItemLifecycle(t *testing.T) {
	server := setupTestServer(t)

	// Signup and login user A.
	tokenA, userA := signupAndLogin(t, server.URL, "Ana", "ana@example.com", "secret123")

	// Create item as A; owner must come from the token.
	body := testItemBody()
	body["user_id"] = "12345" // ignored by the server
	resp := postJSON(t, server.URL+"/items", tokenA, body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created struct {
		Item model.Item `json:"item"`
	}
	decodeBody(t, resp, &created)
	if created.Item.UserID != userA {
		t.Fatalf("expected owner %d, got %d", userA, created.Item.UserID)
	}
	itemURL := server.URL + "/items/" + strconv.FormatInt(created.Item.ID, 10)

	// Update as A succeeds.
	update := testItemBody()
	update["status"] = model.StatusFound
	resp = doJSON(t, http.MethodPut, itemURL, tokenA, update)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for owner update, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Update as a different non-admin user B fails and mutates nothing.
	tokenB, _ := signupAndLogin(t, server.URL, "Bor", "bor@example.com", "secret123")
	sabotage := testItemBody()
	sabotage["title"] = "Hijacked"
	resp = doJSON(t, http.MethodPut, itemURL, tokenB, sabotage)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner update, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = http.Get(itemURL)
	var current model.Item
	decodeBody(t, resp, &current)
	if current.Title == "Hijacked" {
		t.Fatal("rejected update must not mutate the item")
	}
	if current.Status != model.StatusFound {
		t.Fatalf("expected owner's update to persist, got status %q", current.Status)
	}

	// Delete as A fails: only the admin deletes.
	resp = doJSON(t, http.MethodDelete, itemURL, tokenA, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for owner delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Admin update is allowed on any item.
	adminToken := adminLogin(t, server.URL)
	override := testItemBody()
	override["description"] = "Moderated description"
	resp = doJSON(t, http.MethodPut, itemURL, adminToken, override)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for admin update, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Delete as admin succeeds.
	resp = doJSON(t, http.MethodDelete, itemURL, adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for admin delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Item is gone.
	resp, _ = http.Get(itemURL)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Deleting again is 404.
	resp = doJSON(t, http.MethodDelete, itemURL, adminToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for repeated delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUpdateUnknownItem(t *testing.T) {
	server := setupTestServer(t)
	token, _ := signupAndLogin(t, server.URL, "Ana", "ana@example.com", "secret123")

	resp := doJSON(t, http.MethodPut, server.URL+"/items/999", token, testItemBody())
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown item, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
