// Package client is a typed HTTP client for the lost & found API. The web
// frontend is its only in-tree consumer; it never touches the database
// directly and talks to the API the same way any external caller would.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lostfound/lostfound/internal/model"
)

// APIError is a non-2xx answer from the API, carrying the server's message
// verbatim so callers can surface it unchanged.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client calls the API service. The zero value is not usable; use New.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// errorBody matches both error shapes the API uses.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do sends a request and decodes the response into out (if non-nil).
// Non-2xx responses become *APIError; transport failures are returned as-is.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		msg := eb.Error
		if msg == "" {
			msg = eb.Message
		}
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// Items fetches the full item listing. The API answers 404 for an empty
// table; that is an empty list here, not an error.
func (c *Client) Items(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := c.do(ctx, http.MethodGet, "/items", "", nil, &items)
	if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Item fetches a single item by id.
func (c *Client) Item(ctx context.Context, id int64) (*model.Item, error) {
	item := &model.Item{}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/items/%d", id), "", nil, item); err != nil {
		return nil, err
	}
	return item, nil
}

// itemEnvelope matches the {message, item} bodies of the mutating endpoints.
type itemEnvelope struct {
	Message string     `json:"message"`
	Item    model.Item `json:"item"`
}

// CreateItem submits a new report as the token's user.
func (c *Client) CreateItem(ctx context.Context, token string, item *model.Item) (*model.Item, error) {
	var env itemEnvelope
	if err := c.do(ctx, http.MethodPost, "/items", token, item, &env); err != nil {
		return nil, err
	}
	return &env.Item, nil
}

// UpdateItem replaces all fields of an existing report.
func (c *Client) UpdateItem(ctx context.Context, token string, id int64, item *model.Item) (*model.Item, error) {
	var env itemEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/items/%d", id), token, item, &env); err != nil {
		return nil, err
	}
	return &env.Item, nil
}

// DeleteItem removes a report. Admin tokens only.
func (c *Client) DeleteItem(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/items/%d", id), token, nil, nil)
}

type signupResponse struct {
	User model.User `json:"user"`
}

// Signup registers a new user.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp signupResponse
	if err := c.do(ctx, http.MethodPost, "/auth/u/signup", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

type loginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    *model.User `json:"user"`
}

// Login exchanges user credentials for a token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	body := map[string]string{"email": email, "password": password}
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/u/login", "", body, &resp); err != nil {
		return "", nil, err
	}
	return resp.Token, resp.User, nil
}

// AdminLogin exchanges the configured admin credentials for an admin token.
func (c *Client) AdminLogin(ctx context.Context, mail, pass string) (string, error) {
	body := map[string]string{"mail": mail, "pass": pass}
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/admin", "", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}
