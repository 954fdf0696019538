package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/meltforce/gymtrack/internal/models"
)

const setColumns = "id, session_id, exercise_id, set_index, weight, reps, rpe, felt, volume, est_1rm, created_at"

// SetInput is the caller-supplied portion of a logged set. RPE and Felt are
// alternative intensity records; by convention at most one is set.
type SetInput struct {
	SessionID  string   `json:"sessionId"`
	ExerciseID string   `json:"exerciseId"`
	Weight     float64  `json:"weight"`
	Reps       int      `json:"reps"`
	RPE        *float64 `json:"rpe"`
	Felt       *string  `json:"felt"`
}

// AddSet logs one set. The session and exercise must exist. The set's index
// is the count of prior sets for the same (session, exercise) pair plus one,
// and volume/est1RM are computed and stored at creation. The owning
// session's updatedAt is touched as part of the same transaction.
//
// The index read makes this unsafe for concurrent calls against the same
// session; callers must serialize those.
func (s *Store) AddSet(ctx context.Context, in SetInput) (*models.Set, error) {
	var set models.Set
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sessions WHERE id = ?", in.SessionID).Scan(&n); err != nil {
			return fmt.Errorf("checking session: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("session %s: %w", in.SessionID, ErrNotFound)
		}
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM exercises WHERE id = ?", in.ExerciseID).Scan(&n); err != nil {
			return fmt.Errorf("checking exercise: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("exercise %s: %w", in.ExerciseID, ErrNotFound)
		}

		var prior int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sets WHERE session_id = ? AND exercise_id = ?",
			in.SessionID, in.ExerciseID).Scan(&prior); err != nil {
			return fmt.Errorf("counting prior sets: %w", err)
		}

		now := s.now()
		set = models.Set{
			ID:         uuid.NewString(),
			SessionID:  in.SessionID,
			ExerciseID: in.ExerciseID,
			Index:      prior + 1,
			Weight:     in.Weight,
			Reps:       in.Reps,
			RPE:        in.RPE,
			Felt:       in.Felt,
			Volume:     models.Volume(in.Weight, in.Reps),
			Est1RM:     models.Epley1RM(in.Weight, in.Reps),
			CreatedAt:  now,
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sets (id, session_id, exercise_id, set_index, weight, reps, rpe, felt, volume, est_1rm, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			set.ID, set.SessionID, set.ExerciseID, set.Index, set.Weight, set.Reps,
			set.RPE, set.Felt, set.Volume, set.Est1RM, set.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting set: %w", err)
		}

		// Touch the owning session.
		if _, err := tx.ExecContext(ctx,
			"UPDATE sessions SET updated_at = ? WHERE id = ?", now, in.SessionID); err != nil {
			return fmt.Errorf("touching session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// DeleteSet removes a set by id. Sibling indices are not renumbered; gaps
// are expected after deletion.
func (s *Store) DeleteSet(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sets WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting set: %w", err)
	}
	return nil
}

// GetSet returns the set with the given id, or nil if absent.
func (s *Store) GetSet(ctx context.Context, id string) (*models.Set, error) {
	var set models.Set
	err := s.db.QueryRowContext(ctx,
		"SELECT "+setColumns+" FROM sets WHERE id = ?", id).
		Scan(&set.ID, &set.SessionID, &set.ExerciseID, &set.Index, &set.Weight, &set.Reps,
			&set.RPE, &set.Felt, &set.Volume, &set.Est1RM, &set.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning set: %w", err)
	}
	return &set, nil
}

// ListSetsBySession returns a session's sets ordered by set index, then
// creation time.
func (s *Store) ListSetsBySession(ctx context.Context, sessionID string) ([]models.Set, error) {
	return s.querySets(ctx,
		"SELECT "+setColumns+" FROM sets WHERE session_id = ? ORDER BY set_index, created_at",
		sessionID)
}

// ListSetsByExercise returns an exercise's sets ordered by creation time,
// optionally bounded by inclusive createdAt range endpoints. Bounds compare
// as ISO-8601 strings; empty bounds are open ends.
func (s *Store) ListSetsByExercise(ctx context.Context, exerciseID, from, to string) ([]models.Set, error) {
	query := "SELECT " + setColumns + " FROM sets WHERE exercise_id = ?"
	args := []any{exerciseID}
	if from != "" {
		query += " AND created_at >= ?"
		args = append(args, from)
	}
	if to != "" {
		query += " AND created_at <= ?"
		args = append(args, to)
	}
	// rowid breaks created_at ties in insertion order
	query += " ORDER BY created_at, rowid"
	return s.querySets(ctx, query, args...)
}

// GetLastSetForExercise returns the most recently created set for an
// exercise, or nil if none exist. Used to prefill the weight/reps form.
func (s *Store) GetLastSetForExercise(ctx context.Context, exerciseID string) (*models.Set, error) {
	sets, err := s.querySets(ctx,
		"SELECT "+setColumns+" FROM sets WHERE exercise_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1",
		exerciseID)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, nil
	}
	return &sets[0], nil
}

func (s *Store) querySets(ctx context.Context, query string, args ...any) ([]models.Set, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	out := []models.Set{}
	for rows.Next() {
		var set models.Set
		if err := rows.Scan(&set.ID, &set.SessionID, &set.ExerciseID, &set.Index, &set.Weight,
			&set.Reps, &set.RPE, &set.Felt, &set.Volume, &set.Est1RM, &set.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		out = append(out, set)
	}
	return out, rows.Err()
}
