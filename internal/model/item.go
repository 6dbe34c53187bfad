package model

import (
	"errors"
	"strings"
	"time"
)

// Item is a lost-or-found report. UserID is the owning user, set from the
// authenticated caller at creation time and never changed afterwards.
type Item struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	ContactInfo string    `json:"contact_info"`
	ImageURL    string    `json:"image_url"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Item statuses.
const (
	StatusLost  = "Lost"
	StatusFound = "Found"
)

// Categories is the fixed set of item categories.
var Categories = []string{
	"electronics",
	"accessories",
	"clothing",
	"bags",
	"jewelry",
	"documents",
	"keys",
	"other",
}

// DefaultImageURL is used when a report is submitted without an image link.
const DefaultImageURL = "https://media.istockphoto.com/id/1271880340/vector/lost-items-line-vector-icon-unidentified-items-outline-isolated-icon.jpg?s=612x612&w=0&k=20&c=d2kHGEmowThp_UrqIPfhxibstH6Sq5yDZJ41NetzVaA="

// ErrMissingFields is returned when a required item field is empty.
var ErrMissingFields = errors.New("all fields are required")

// ValidCategory reports whether category is one of the fixed set.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidStatus reports whether status is one of the two report statuses.
func ValidStatus(status string) bool {
	return status == StatusLost || status == StatusFound
}

// Validate checks the submitted fields of an item. Every textual field is
// required, both at creation and on full update.
func (i *Item) Validate() error {
	if i.Title == "" || i.Category == "" || i.Description == "" || i.Status == "" ||
		i.Location == "" || i.Date == "" || i.ContactInfo == "" {
		return ErrMissingFields
	}
	if !ValidCategory(i.Category) {
		return errors.New("invalid category")
	}
	if !ValidStatus(i.Status) {
		return errors.New("status must be Lost or Found")
	}
	return nil
}

// Matches reports whether the item satisfies the given filters. Status,
// category and location are equality filters; query is a case-insensitive
// substring match across title, description and category. Empty filters
// always match. The server applies the equality part at the SQL level; this
// predicate is the single definition both tiers follow.
func (i *Item) Matches(status, category, location, query string) bool {
	if status != "" && i.Status != status {
		return false
	}
	if category != "" && i.Category != category {
		return false
	}
	if location != "" && i.Location != location {
		return false
	}
	if query != "" {
		q := strings.ToLower(query)
		if !strings.Contains(strings.ToLower(i.Title), q) &&
			!strings.Contains(strings.ToLower(i.Description), q) &&
			!strings.Contains(strings.ToLower(i.Category), q) {
			return false
		}
	}
	return true
}
