package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/meltforce/gymtrack/internal/models"
)

const sessionColumns = "id, date, template_id, notes, created_at, updated_at"

// SessionPatch carries the updatable session fields; nil fields are left
// unchanged. An all-nil patch is a pure touch that only bumps updatedAt.
type SessionPatch struct {
	TemplateID *string `json:"templateId"`
	Notes      *string `json:"notes"`
}

// CreateSession starts a new workout instance with date = now. It never
// validates: the template reference is weak and may be nil or dangling.
func (s *Store) CreateSession(ctx context.Context, templateID *string, notes string) (*models.Session, error) {
	now := s.now()
	sess := models.Session{
		ID:         uuid.NewString(),
		Date:       now,
		TemplateID: templateID,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, date, template_id, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Date, sess.TemplateID, sess.Notes, sess.CreatedAt, sess.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}
	return &sess, nil
}

// GetSession returns the session with the given id, or nil if absent.
func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	err := s.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id).
		Scan(&sess.ID, &sess.Date, &sess.TemplateID, &sess.Notes, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	return &sess, nil
}

// UpdateSession applies a patch and bumps updatedAt. The date field is an
// immutable start marker and is never patchable.
func (s *Store) UpdateSession(ctx context.Context, id string, patch SessionPatch) (*models.Session, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if patch.TemplateID != nil {
		sess.TemplateID = patch.TemplateID
	}
	if patch.Notes != nil {
		sess.Notes = *patch.Notes
	}
	sess.UpdatedAt = s.now()
	_, err = s.db.ExecContext(ctx, `
		UPDATE sessions SET template_id = ?, notes = ?, updated_at = ? WHERE id = ?`,
		sess.TemplateID, sess.Notes, sess.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}
	return sess, nil
}

// DeleteSession deletes all sets owned by the session and then the session
// itself, in one transaction: orphan sets never remain.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM sets WHERE session_id = ?", id); err != nil {
			return fmt.Errorf("deleting session sets: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}
		return nil
	})
}

// ListSessionsByDateRange returns sessions with from <= date <= to, ordered
// ascending by date. Empty bounds are open ends; bounds compare as ISO-8601
// strings, matching the persisted timestamp format.
func (s *Store) ListSessionsByDateRange(ctx context.Context, from, to string) ([]models.Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions"
	var (
		where []string
		args  []any
	)
	if from != "" {
		where = append(where, "date >= ?")
		args = append(args, from)
	}
	if to != "" {
		where = append(where, "date <= ?")
		args = append(args, to)
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY date"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	out := []models.Session{}
	for rows.Next() {
		var sess models.Session
		if err := rows.Scan(&sess.ID, &sess.Date, &sess.TemplateID, &sess.Notes, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}
