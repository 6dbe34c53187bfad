package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lostfound/lostfound/internal/model"
)

const itemColumns = `id, title, category, description, status, location, date,
	contact_info, image_url, user_id, created_at`

// CreateItem inserts a new report owned by userID and returns the stored row.
func CreateItem(ctx context.Context, db *sql.DB, item *model.Item, userID int64) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (title, category, description, status, location, date,
		     contact_info, image_url, user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Title, item.Category, item.Description, item.Status, item.Location,
		item.Date, item.ContactInfo, item.ImageURL, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	err := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Title, &item.Category, &item.Description, &item.Status,
		&item.Location, &item.Date, &item.ContactInfo, &item.ImageURL,
		&item.UserID, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns items matching the given equality filters, composed with
// AND, newest-created first. Empty filters are ignored; no filters returns
// the full listing.
func ListItems(ctx context.Context, db *sql.DB, status, category, location string) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	var conditions []string
	var args []any

	if status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, status)
	}
	if category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, category)
	}
	if location != "" {
		conditions = append(conditions, "location = ?")
		args = append(args, location)
	}

	for i, c := range conditions {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Title, &item.Category, &item.Description,
			&item.Status, &item.Location, &item.Date, &item.ContactInfo,
			&item.ImageURL, &item.UserID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem replaces all mutable fields of an item. The id, owner and
// creation timestamp never change. Returns false if no such item exists.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, item *model.Item) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET title = ?, category = ?, description = ?, status = ?,
		     location = ?, date = ?, contact_info = ?, image_url = ?
		 WHERE id = ?`,
		item.Title, item.Category, item.Description, item.Status, item.Location,
		item.Date, item.ContactInfo, item.ImageURL, id,
	)
	if err != nil {
		return false, fmt.Errorf("updating item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating item: %w", err)
	}
	return n > 0, nil
}

// DeleteItem removes an item. Returns false if no such item exists.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	return n > 0, nil
}
