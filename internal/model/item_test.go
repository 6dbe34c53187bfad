package model

import "testing"

func validItem() Item {
	return Item{
		Title:       "Black wallet",
		Category:    "accessories",
		Description: "Leather wallet with a broken zipper",
		Status:      StatusLost,
		Location:    "Central Station",
		Date:        "2026-08-12",
		ContactInfo: "finder@example.com",
	}
}

func TestValidate(t *testing.T) {
	item := validItem()
	if err := item.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Item)
	}{
		{"missing title", func(i *Item) { i.Title = "" }},
		{"missing category", func(i *Item) { i.Category = "" }},
		{"missing description", func(i *Item) { i.Description = "" }},
		{"missing status", func(i *Item) { i.Status = "" }},
		{"missing location", func(i *Item) { i.Location = "" }},
		{"missing date", func(i *Item) { i.Date = "" }},
		{"missing contact", func(i *Item) { i.ContactInfo = "" }},
		{"unknown category", func(i *Item) { i.Category = "vehicles" }},
		{"unknown status", func(i *Item) { i.Status = "Missing" }},
		{"lowercase status", func(i *Item) { i.Status = "lost" }},
	}

	for _, tt := range tests {
		item := validItem()
		tt.mutate(&item)
		if err := item.Validate(); err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		if !ValidCategory(c) {
			t.Errorf("expected %q to be a valid category", c)
		}
	}
	if ValidCategory("") || ValidCategory("Electronics") {
		t.Error("expected invalid categories to be rejected")
	}
}

func TestMatches(t *testing.T) {
	item := validItem()

	tests := []struct {
		name                              string
		status, category, location, query string
		want                              bool
	}{
		{"no filters", "", "", "", "", true},
		{"status match", StatusLost, "", "", "", true},
		{"status mismatch", StatusFound, "", "", "", false},
		{"category match", "", "accessories", "", "", true},
		{"category mismatch", "", "keys", "", "", false},
		{"location match", "", "", "Central Station", "", true},
		{"location mismatch", "", "", "Airport", "", false},
		{"query in title", "", "", "", "WALLET", true},
		{"query in description", "", "", "", "zipper", true},
		{"query in category", "", "", "", "access", true},
		{"query mismatch", "", "", "", "umbrella", false},
		{"all filters", StatusLost, "accessories", "Central Station", "wallet", true},
		{"and semantics", StatusLost, "keys", "", "", false},
	}

	for _, tt := range tests {
		if got := item.Matches(tt.status, tt.category, tt.location, tt.query); got != tt.want {
			t.Errorf("%s: Matches = %v, want %v", tt.name, got, tt.want)
		}
	}
}
