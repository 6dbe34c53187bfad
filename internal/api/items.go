package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lostfound/lostfound/internal/model"
	"github.com/lostfound/lostfound/internal/store"
)

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

// itemRequest carries the full set of submitted fields. Creation and update
// both require every field; partial update is not supported. The owner is
// always taken from the token, never from the body.
type itemRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	ContactInfo string `json:"contact_info"`
	ImageURL    string `json:"image_url"`
}

func (req *itemRequest) toItem() *model.Item {
	item := &model.Item{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Status:      req.Status,
		Location:    req.Location,
		Date:        req.Date,
		ContactInfo: req.ContactInfo,
		ImageURL:    req.ImageURL,
	}
	if item.ImageURL == "" {
		item.ImageURL = model.DefaultImageURL
	}
	return item
}

// validationMessage keeps the canonical missing-fields wording and passes
// enum violations through as-is.
func validationMessage(err error) string {
	if errors.Is(err, model.ErrMissingFields) {
		return "All fields are required"
	}
	return err.Error()
}

// List handles GET /items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := store.ListItems(r.Context(), h.DB, q.Get("status"), q.Get("category"), q.Get("location"))
	if err != nil {
		slog.Error("listing items", "error", err)
		jsonMessage(w, http.StatusInternalServerError, "Error fetching items")
		return
	}
	if len(items) == 0 {
		jsonMessage(w, http.StatusNotFound, "No items found")
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonMessage(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("getting item", "error", err)
		jsonMessage(w, http.StatusInternalServerError, "Error fetching item")
		return
	}
	if item == nil {
		jsonMessage(w, http.StatusNotFound, fmt.Sprintf("Item with id %d not found", id))
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /items. Requires any valid user token; the report's
// owner is the token's user id.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims.UserID == 0 {
		// The admin token carries no user id, so it cannot own a report.
		jsonMessage(w, http.StatusForbidden, "A user account is required to report items")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}

	item := req.toItem()
	if err := item.Validate(); err != nil {
		jsonMessage(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	created, err := store.CreateItem(r.Context(), h.DB, item, claims.UserID)
	if err != nil {
		slog.Error("creating item", "error", err)
		jsonMessage(w, http.StatusInternalServerError, "Error adding item")
		return
	}

	slog.Info("item created", "user", claims.Email, "item", created.Title, "status", created.Status)
	jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "Item added successfully",
		"item":    created,
	})
}

// Update handles PUT /items/{id}. Only the owning user or the admin may
// update; the owner is re-read from storage at authorization time.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonMessage(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	existing, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("getting item for authorization", "error", err)
		jsonMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	if existing == nil {
		jsonMessage(w, http.StatusNotFound, "Item not found")
		return
	}
	if !claims.Admin && existing.UserID != claims.UserID {
		jsonMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}

	item := req.toItem()
	if err := item.Validate(); err != nil {
		jsonMessage(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	// The item can disappear between the owner check above and this write;
	// there is no transaction spanning the two statements.
	ok, err := store.UpdateItem(r.Context(), h.DB, id, item)
	if err != nil {
		slog.Error("updating item", "error", err)
		jsonMessage(w, http.StatusInternalServerError, "Error updating item")
		return
	}
	if !ok {
		jsonMessage(w, http.StatusNotFound, "Item not found")
		return
	}

	updated, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("getting updated item", "error", err)
		jsonMessage(w, http.StatusInternalServerError, "Error updating item")
		return
	}

	slog.Info("item updated", "user", claims.Email, "item", id)
	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Item updated successfully",
		"item":    updated,
	})
}

// Delete handles DELETE /items/{id}. Admin only (enforced by middleware).
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonMessage(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	ok, err := store.DeleteItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("deleting item", "error", err)
		jsonMessage(w, http.StatusInternalServerError, "Error deleting item")
		return
	}
	if !ok {
		jsonMessage(w, http.StatusNotFound, "Item not found")
		return
	}

	slog.Info("item deleted", "item", id)
	jsonMessage(w, http.StatusOK, "Item deleted successfully")
}
