package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS items (
    id           INTEGER PRIMARY KEY,
    title        TEXT NOT NULL,
    category     TEXT NOT NULL CHECK (category IN (
                     'electronics', 'accessories', 'clothing', 'bags',
                     'jewelry', 'documents', 'keys', 'other')),
    description  TEXT NOT NULL,
    status       TEXT NOT NULL CHECK (status IN ('Lost', 'Found')),
    location     TEXT NOT NULL,
    date         TEXT NOT NULL,
    contact_info TEXT NOT NULL,
    image_url    TEXT NOT NULL,
    user_id      INTEGER NOT NULL REFERENCES users(id),
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
