package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lostfound/lostfound/internal/model"
)

// itemFilters are the browse filters. They are applied in-memory over the
// fetched listing, using the same predicate the API uses for its SQL filters.
type itemFilters struct {
	Status   string
	Category string
	Location string
	Query    string
}

func filtersFromRequest(r *http.Request) itemFilters {
	q := r.URL.Query()
	return itemFilters{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Location: q.Get("location"),
		Query:    q.Get("q"),
	}
}

func (f itemFilters) apply(items []model.Item) []model.Item {
	filtered := make([]model.Item, 0, len(items))
	for _, item := range items {
		if item.Matches(f.Status, f.Category, f.Location, f.Query) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// itemsPageData is shared by the browse and dashboard pages.
type itemsPageData struct {
	PageData
	Items      []model.Item
	Filters    itemFilters
	Categories []string
}

// HomePage handles GET /.
func (s *Server) HomePage(w http.ResponseWriter, r *http.Request) {
	data := &itemsPageData{
		PageData: PageData{Title: "Lost & Found", Session: GetSession(r.Context())},
	}

	items, err := s.API.Items(r.Context())
	if err != nil {
		data.Error = errorMessage(err)
	}
	if len(items) > 6 {
		items = items[:6]
	}
	data.Items = items

	s.Templates.Render(w, "home.html", data)
}

// ItemsPage handles GET /items: the public browse page. The full listing is
// fetched once; all filtering happens here over the in-memory list.
func (s *Server) ItemsPage(w http.ResponseWriter, r *http.Request) {
	filters := filtersFromRequest(r)
	data := &itemsPageData{
		PageData:   PageData{Title: "Browse Items", Session: GetSession(r.Context())},
		Filters:    filters,
		Categories: model.Categories,
	}

	items, err := s.API.Items(r.Context())
	if err != nil {
		data.Error = errorMessage(err)
	}
	data.Items = filters.apply(items)

	s.Templates.Render(w, "items.html", data)
}

// ItemDetailPage handles GET /items/{id}.
func (s *Server) ItemDetailPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := s.API.Item(r.Context(), id)
	if err != nil {
		http.Error(w, errorMessage(err), http.StatusNotFound)
		return
	}

	s.Templates.Render(w, "item_detail.html", &struct {
		PageData
		Item *model.Item
	}{
		PageData: PageData{Title: item.Title, Session: GetSession(r.Context())},
		Item:     item,
	})
}

// DashboardPage handles GET /dashboard: the management view with the same
// filters as browse, plus edit/delete controls where the session allows.
func (s *Server) DashboardPage(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	filters := filtersFromRequest(r)
	data := &itemsPageData{
		PageData:   PageData{Title: "Dashboard", Session: session},
		Filters:    filters,
		Categories: model.Categories,
	}

	if msg := r.URL.Query().Get("error"); msg != "" {
		data.Error = msg
	}
	if msg := r.URL.Query().Get("success"); msg != "" {
		data.Success = msg
	}

	items, err := s.API.Items(r.Context())
	if err != nil {
		data.Error = errorMessage(err)
	}
	data.Items = filters.apply(items)

	s.Templates.Render(w, "dashboard.html", data)
}

// itemFormData renders the report/edit form.
type itemFormData struct {
	PageData
	Item       *model.Item
	Categories []string
	Action     string
}

// ReportPage handles GET /report.
func (s *Server) ReportPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "item_form.html", &itemFormData{
		PageData:   PageData{Title: "Report Item", Session: GetSession(r.Context())},
		Item:       &model.Item{},
		Categories: model.Categories,
		Action:     "/report",
	})
}

// ReportSubmit handles POST /report.
func (s *Server) ReportSubmit(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	item := itemFromForm(r)

	created, err := s.API.CreateItem(r.Context(), session.Token, item)
	if err != nil {
		s.Templates.Render(w, "item_form.html", &itemFormData{
			PageData:   PageData{Title: "Report Item", Session: session, Error: errorMessage(err)},
			Item:       item,
			Categories: model.Categories,
			Action:     "/report",
		})
		return
	}

	slog.Info("item reported", "item", created.ID)
	http.Redirect(w, r, "/dashboard?success=Item+added+successfully", http.StatusSeeOther)
}

// ItemEditPage handles GET /items/{id}/edit.
func (s *Server) ItemEditPage(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := s.API.Item(r.Context(), id)
	if err != nil {
		http.Error(w, errorMessage(err), http.StatusNotFound)
		return
	}

	// Only a rendering hint; the API re-checks ownership on submit.
	if !session.CanEdit(item.UserID) {
		http.Redirect(w, r, "/dashboard?error=Forbidden", http.StatusSeeOther)
		return
	}

	s.Templates.Render(w, "item_form.html", &itemFormData{
		PageData:   PageData{Title: "Edit Item", Session: session},
		Item:       item,
		Categories: model.Categories,
		Action:     fmt.Sprintf("/items/%d/edit", id),
	})
}

// ItemEditSubmit handles POST /items/{id}/edit: a full replace of all fields.
func (s *Server) ItemEditSubmit(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item := itemFromForm(r)
	if _, err := s.API.UpdateItem(r.Context(), session.Token, id, item); err != nil {
		s.Templates.Render(w, "item_form.html", &itemFormData{
			PageData:   PageData{Title: "Edit Item", Session: session, Error: errorMessage(err)},
			Item:       item,
			Categories: model.Categories,
			Action:     fmt.Sprintf("/items/%d/edit", id),
		})
		return
	}

	slog.Info("item updated", "item", id)
	http.Redirect(w, r, "/dashboard?success=Item+updated+successfully", http.StatusSeeOther)
}

// ItemDeleteSubmit handles POST /items/{id}/delete. Only the admin token is
// accepted by the API; the button only renders for admin sessions.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := s.API.DeleteItem(r.Context(), session.Token, id); err != nil {
		http.Redirect(w, r, "/dashboard?error="+url.QueryEscape(errorMessage(err)), http.StatusSeeOther)
		return
	}

	slog.Info("item deleted", "item", id)
	http.Redirect(w, r, "/dashboard?success=Item+deleted+successfully", http.StatusSeeOther)
}

func itemFromForm(r *http.Request) *model.Item {
	return &model.Item{
		Title:       r.FormValue("title"),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
		Status:      r.FormValue("status"),
		Location:    r.FormValue("location"),
		Date:        r.FormValue("date"),
		ContactInfo: r.FormValue("contact_info"),
		ImageURL:    r.FormValue("image_url"),
	}
}
