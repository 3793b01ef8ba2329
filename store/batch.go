package store

import "fmt"

// Batch actions.
const (
	ActionArchive   = "archive"
	ActionUnarchive = "unarchive"
	ActionPin       = "pin"
	ActionUnpin     = "unpin"
	ActionDelete    = "delete"
)

// BatchApply applies one action to every note in ids that the user owns, in
// a single transaction. Ids that are missing or owned by someone else are
// skipped silently. Returns how many notes the action was applied to.
func (s *Store) BatchApply(userID int, action string, ids []int) (int, error) {
	var set string
	switch action {
	case ActionArchive:
		set = "is_archived = 1, is_pinned = 0"
	case ActionUnarchive:
		set = "is_archived = 0"
	case ActionPin:
		set = "is_pinned = 1"
	case ActionUnpin:
		set = "is_pinned = 0"
	case ActionDelete:
		// handled below
	default:
		return 0, fmt.Errorf("%w: unknown batch action %q", ErrValidation, action)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// Resolve the owned subset first so the reported count reflects the
	// notes the action actually touched, not driver-specific changed-row
	// accounting.
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := tx.Query(
		"SELECT id FROM notes WHERE user_id = ? AND id IN ("+placeholders(len(ids))+")", args...,
	)
	if err != nil {
		return 0, err
	}
	var owned []any
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		owned = append(owned, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if len(owned) == 0 {
		return 0, nil
	}

	in := placeholders(len(owned))
	if action == ActionDelete {
		_, err = tx.Exec("DELETE FROM notes WHERE id IN ("+in+")", owned...)
	} else {
		_, err = tx.Exec("UPDATE notes SET "+set+" WHERE id IN ("+in+")", owned...)
	}
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(owned), nil
}
