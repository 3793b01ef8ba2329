package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"notekeep/models"
)

const noteColumns = "id, user_id, category_id, title, content, tags, is_pinned, is_archived, created_at, updated_at"

func scanNote(row interface{ Scan(...any) error }) (*models.Note, error) {
	var note models.Note
	var categoryID sql.NullInt64
	err := row.Scan(
		&note.ID, &note.UserID, &categoryID, &note.Title, &note.Content,
		&note.Tags, &note.IsPinned, &note.IsArchived, &note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		id := int(categoryID.Int64)
		note.CategoryID = &id
	}
	return &note, nil
}

func collectNotes(rows *sql.Rows) ([]models.Note, error) {
	defer rows.Close()
	notes := []models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

// resolveCategory drops a category id that does not belong to the user, so a
// note is never attached to someone else's category.
func (s *Store) resolveCategory(userID int, categoryID *int) *int {
	if categoryID == nil {
		return nil
	}
	if !s.ownsCategory(userID, *categoryID) {
		return nil
	}
	return categoryID
}

func (s *Store) CreateNote(userID int, title, content, tags string, categoryID *int) (*models.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	categoryID = s.resolveCategory(userID, categoryID)

	now := time.Now()
	res, err := s.db.Exec(
		`INSERT INTO notes (user_id, category_id, title, content, tags, is_pinned, is_archived, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		userID, toNullInt(categoryID), title, content, tags, now, now,
	)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetNote(userID, int(id))
}

// GetNote returns ErrNotFound for both missing notes and notes owned by
// another user, so existence is never leaked.
func (s *Store) GetNote(userID, id int) (*models.Note, error) {
	note, err := scanNote(s.db.QueryRow(
		"SELECT "+noteColumns+" FROM notes WHERE id = ? AND user_id = ?", id, userID,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateNote replaces title, content, tags and category wholesale and stamps
// updated_at. An empty title rejects the edit and leaves the row untouched.
func (s *Store) UpdateNote(userID, id int, title, content, tags string, categoryID *int) (*models.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	if _, err := s.GetNote(userID, id); err != nil {
		return nil, err
	}

	categoryID = s.resolveCategory(userID, categoryID)

	_, err := s.db.Exec(
		"UPDATE notes SET title = ?, content = ?, tags = ?, category_id = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		title, content, tags, toNullInt(categoryID), time.Now(), id, userID,
	)
	if err != nil {
		return nil, err
	}
	return s.GetNote(userID, id)
}

func (s *Store) DeleteNote(userID, id int) error {
	res, err := s.db.Exec("DELETE FROM notes WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetPinned(userID, id int, pinned bool) (*models.Note, error) {
	if _, err := s.GetNote(userID, id); err != nil {
		return nil, err
	}
	_, err := s.db.Exec("UPDATE notes SET is_pinned = ? WHERE id = ? AND user_id = ?", pinned, id, userID)
	if err != nil {
		return nil, err
	}
	return s.GetNote(userID, id)
}

// SetArchived archives or unarchives a note. Archiving always clears the pin
// flag; unarchiving does not restore it.
func (s *Store) SetArchived(userID, id int, archived bool) (*models.Note, error) {
	if _, err := s.GetNote(userID, id); err != nil {
		return nil, err
	}
	var err error
	if archived {
		_, err = s.db.Exec("UPDATE notes SET is_archived = 1, is_pinned = 0 WHERE id = ? AND user_id = ?", id, userID)
	} else {
		_, err = s.db.Exec("UPDATE notes SET is_archived = 0 WHERE id = ? AND user_id = ?", id, userID)
	}
	if err != nil {
		return nil, err
	}
	return s.GetNote(userID, id)
}

func toNullInt(id *int) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}
