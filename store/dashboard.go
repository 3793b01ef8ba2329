package store

import (
	"strconv"
	"strings"

	"notekeep/models"
)

// Filter describes one dashboard request. Zero values mean: no search, all
// categories, archived hidden, sort by last update.
type Filter struct {
	Search       string
	Category     string // "all", "uncategorized" or a category id
	ShowArchived bool
	SortBy       string // "updated", "created" or "title"
}

// Counts summarize the owner's full note set, independent of the filter.
type Counts struct {
	Total        int `json:"total"`
	PinnedActive int `json:"pinned_active"`
	Archived     int `json:"archived"`
}

// Dashboard returns the owner's notes matching the filter, pinned notes
// first, plus global counts. Unrecognized sort or category values fall back
// to the defaults instead of failing.
func (s *Store) Dashboard(userID int, f Filter) ([]models.Note, Counts, error) {
	where := []string{"user_id = ?"}
	args := []any{userID}

	if !f.ShowArchived {
		where = append(where, "is_archived = 0")
	}

	if q := strings.TrimSpace(f.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(tags) LIKE ?)")
		args = append(args, like, like, like)
	}

	switch f.Category {
	case "", "all":
		// no restriction
	case "uncategorized":
		where = append(where, "category_id IS NULL")
	default:
		// A category id is only honored when the category belongs to the
		// requesting user; anything else is ignored.
		if id, err := strconv.Atoi(f.Category); err == nil && s.ownsCategory(userID, id) {
			where = append(where, "category_id = ?")
			args = append(args, id)
		}
	}

	// Pinned notes always come first, whatever the primary sort is.
	order := "is_pinned DESC, "
	switch f.SortBy {
	case "created":
		order += "created_at DESC, updated_at DESC"
	case "title":
		order += "title ASC, updated_at DESC"
	default:
		order += "updated_at DESC"
	}

	query := "SELECT " + noteColumns + " FROM notes WHERE " +
		strings.Join(where, " AND ") + " ORDER BY " + order

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, Counts{}, err
	}
	notes, err := collectNotes(rows)
	if err != nil {
		return nil, Counts{}, err
	}

	counts, err := s.noteCounts(userID)
	if err != nil {
		return nil, Counts{}, err
	}
	return notes, counts, nil
}

func (s *Store) noteCounts(userID int) (Counts, error) {
	var c Counts
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN is_pinned = 1 AND is_archived = 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN is_archived = 1 THEN 1 ELSE 0 END), 0)
		 FROM notes WHERE user_id = ?`, userID,
	).Scan(&c.Total, &c.PinnedActive, &c.Archived)
	return c, err
}
