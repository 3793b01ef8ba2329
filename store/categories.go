package store

import (
	"database/sql"
	"fmt"
	"strings"

	"notekeep/models"
)

func (s *Store) CreateCategory(userID int, name, color string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	// Per-owner uniqueness is case-sensitive; MySQL's default collation is
	// not, so compare in Go instead of relying on a unique index.
	existing, err := s.ListCategories(userID)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if c.Name == name {
			return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
		}
	}

	res, err := s.db.Exec(
		"INSERT INTO categories (user_id, name, color) VALUES (?, ?, ?)",
		userID, name, color,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Category{ID: int(id), UserID: userID, Name: name, Color: color}, nil
}

func (s *Store) ListCategories(userID int) ([]models.Category, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, name, color FROM categories WHERE user_id = ? ORDER BY name", userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteCategory detaches the owner's notes from the category and removes the
// category row in one transaction. The notes themselves are kept.
func (s *Store) DeleteCategory(userID, id int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var owner int
	err = tx.QueryRow("SELECT user_id FROM categories WHERE id = ?", id).Scan(&owner)
	if err == sql.ErrNoRows || (err == nil && owner != userID) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec("UPDATE notes SET category_id = NULL WHERE category_id = ? AND user_id = ?", id, userID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM categories WHERE id = ?", id); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) ownsCategory(userID, id int) bool {
	var owner int
	if err := s.db.QueryRow("SELECT user_id FROM categories WHERE id = ?", id).Scan(&owner); err != nil {
		return false
	}
	return owner == userID
}
