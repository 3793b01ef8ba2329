package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"notekeep/models"
)

// TokenTTL is how long a password reset token stays valid.
const TokenTTL = 24 * time.Hour

// IssueToken creates a fresh reset token for the user. Previously issued
// tokens stay valid until they expire or get used.
func (s *Store) IssueToken(userID int) (*models.PasswordResetToken, error) {
	now := time.Now()
	token := &models.PasswordResetToken{
		UserID:    userID,
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(TokenTTL),
	}

	res, err := s.db.Exec(
		"INSERT INTO password_reset_tokens (user_id, token, created_at, expires_at, is_used) VALUES (?, ?, ?, ?, 0)",
		token.UserID, token.Token, token.CreatedAt, token.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	token.ID = int(id)
	return token, nil
}

// CheckToken returns the token record iff it exists, is unexpired and unused.
// All failure modes collapse into ErrInvalidToken.
func (s *Store) CheckToken(token string) (*models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	err := s.db.QueryRow(
		"SELECT id, user_id, token, created_at, expires_at, is_used FROM password_reset_tokens WHERE token = ?",
		token,
	).Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt, &t.ExpiresAt, &t.IsUsed)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if t.IsUsed || !time.Now().Before(t.ExpiresAt) {
		return nil, ErrInvalidToken
	}
	return &t, nil
}

// ConsumeToken sets the user's new password and marks the token used,
// atomically. A token can only ever be consumed once.
func (s *Store) ConsumeToken(token, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}

	t, err := s.CheckToken(token)
	if err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The is_used guard catches a concurrent consumer of the same token.
	res, err := tx.Exec("UPDATE password_reset_tokens SET is_used = 1 WHERE id = ? AND is_used = 0", t.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidToken
	}

	if _, err := tx.Exec("UPDATE users SET password_hash = ? WHERE id = ?", hash, t.UserID); err != nil {
		return err
	}

	return tx.Commit()
}
