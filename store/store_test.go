package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"notekeep/db"
	"notekeep/models"
)

func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	database, err := db.Connect("sqlite3", filepath.Join(t.TempDir(), "notekeep_test.db"))
	if err != nil {
		t.Fatalf("Could not open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return New(database), database
}

func mustUser(t *testing.T, s *Store, username string) *models.User {
	t.Helper()
	user, err := s.CreateUser(username, username+"@example.com", "testpassword")
	if err != nil {
		t.Fatalf("Could not create user %s: %v", username, err)
	}
	return user
}

func mustNote(t *testing.T, s *Store, userID int, title, content, tags string, categoryID *int) *models.Note {
	t.Helper()
	note, err := s.CreateNote(userID, title, content, tags, categoryID)
	if err != nil {
		t.Fatalf("Could not create note %q: %v", title, err)
	}
	return note
}

// setTimes pins a note's timestamps so ordering assertions are deterministic.
func setTimes(t *testing.T, database *sql.DB, noteID int, created, updated time.Time) {
	t.Helper()
	if _, err := database.Exec("UPDATE notes SET created_at = ?, updated_at = ? WHERE id = ?", created, updated, noteID); err != nil {
		t.Fatalf("Could not set note times: %v", err)
	}
}

func TestCreateUser(t *testing.T) {
	s, _ := newTestStore(t)

	t.Run("Successful registration", func(t *testing.T) {
		user := mustUser(t, s, "alice")
		if user.ID == 0 {
			t.Error("Expected a user id to be assigned")
		}
		if user.PasswordHash == "testpassword" {
			t.Error("Password was stored in plain text")
		}
	})

	t.Run("Duplicate username", func(t *testing.T) {
		_, err := s.CreateUser("alice", "other@example.com", "testpassword")
		if !errors.Is(err, ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
	})

	t.Run("Duplicate email", func(t *testing.T) {
		_, err := s.CreateUser("alice2", "alice@example.com", "testpassword")
		if !errors.Is(err, ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
	})

	t.Run("Short password", func(t *testing.T) {
		_, err := s.CreateUser("bob", "bob@example.com", "abc")
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Expected ErrValidation, got %v", err)
		}
	})

	t.Run("Missing username", func(t *testing.T) {
		_, err := s.CreateUser("  ", "blank@example.com", "testpassword")
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Expected ErrValidation, got %v", err)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	s, _ := newTestStore(t)
	mustUser(t, s, "carol")

	t.Run("Correct password", func(t *testing.T) {
		user, err := s.Authenticate("carol", "testpassword")
		if err != nil {
			t.Fatalf("Expected successful login, got %v", err)
		}
		if user.Username != "carol" {
			t.Errorf("Expected user carol, got %s", user.Username)
		}
	})

	t.Run("Wrong password", func(t *testing.T) {
		if _, err := s.Authenticate("carol", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("Unknown user", func(t *testing.T) {
		if _, err := s.Authenticate("nobody", "testpassword"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})
}
