package store

import (
	"context"
	"errors"
	"testing"

	"github.com/lostfound/lostfound/internal/db"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "Ana", "ana@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Name != "Ana" {
		t.Errorf("expected name 'Ana', got %q", user.Name)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("expected email 'ana@example.com', got %q", user.Email)
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Error("expected to fetch created user by id")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, database, "Ana", "ana@example.com", "hash"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, err := CreateUser(ctx, database, "Other Ana", "ana@example.com", "hash2")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	// No second row must exist.
	var count int
	database.QueryRow(`SELECT COUNT(*) FROM users WHERE email = 'ana@example.com'`).Scan(&count)
	if count != 1 {
		t.Errorf("expected 1 user row, got %d", count)
	}
}

func TestGetUserByEmail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	created, _ := CreateUser(ctx, database, "Ana", "ana@example.com", "hash")

	user, err := GetUserByEmail(ctx, database, "ana@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if user == nil || user.ID != created.ID {
		t.Error("expected to fetch user by email")
	}

	missing, err := GetUserByEmail(ctx, database, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown email")
	}
}
