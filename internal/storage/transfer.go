package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/meltforce/gymtrack/internal/models"
)

// DumpAll reads all five collections in full and returns them under a
// metadata header. Each collection is read in its own statement, so the
// snapshot is not guaranteed globally consistent if writes race it —
// acceptable for a single-user local store.
func (s *Store) DumpAll(ctx context.Context) (*models.Snapshot, error) {
	snap := &models.Snapshot{
		Meta: models.SnapshotMeta{
			DB:         StoreName,
			Version:    SchemaVersion,
			ExportedAt: s.now(),
		},
		Exercises: []models.Exercise{},
		Templates: []models.Template{},
		Sessions:  []models.Session{},
		Sets:      []models.Set{},
		Settings:  []models.Setting{},
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+exerciseColumns+" FROM exercises ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("dumping exercises: %w", err)
	}
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("dumping exercises: %w", err)
		}
		snap.Exercises = append(snap.Exercises, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dumping exercises: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		"SELECT id, name, notes, items, created_at, updated_at FROM templates ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("dumping templates: %w", err)
	}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("dumping templates: %w", err)
		}
		snap.Templates = append(snap.Templates, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dumping templates: %w", err)
	}

	sessions, err := s.ListSessionsByDateRange(ctx, "", "")
	if err != nil {
		return nil, fmt.Errorf("dumping sessions: %w", err)
	}
	snap.Sessions = sessions

	sets, err := s.querySets(ctx, "SELECT "+setColumns+" FROM sets ORDER BY created_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("dumping sets: %w", err)
	}
	snap.Sets = sets

	rows, err = s.db.QueryContext(ctx, "SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("dumping settings: %w", err)
	}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			rows.Close()
			return nil, fmt.Errorf("dumping settings: %w", err)
		}
		snap.Settings = append(snap.Settings, models.Setting{Key: key, Value: json.RawMessage(value)})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dumping settings: %w", err)
	}

	return snap, nil
}

// ImportMerge writes every record of the snapshot into its collection with
// insert-or-replace-by-primary-key semantics, in one atomic transaction.
// Any subset of the collections may be present. There is no validation and
// no name-level deduplication: conflicting primary keys overwrite silently,
// and same-named exercises under different ids pass through untouched.
func (s *Store) ImportMerge(ctx context.Context, snap *models.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("no data to import: %w", ErrValidation)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, e := range snap.Exercises {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO exercises (id, name, muscle_group, notes, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				e.ID, e.Name, e.MuscleGroup, e.Notes, e.CreatedAt, e.UpdatedAt); err != nil {
				return fmt.Errorf("importing exercise %s: %w", e.ID, err)
			}
		}
		for _, t := range snap.Templates {
			items, err := json.Marshal(t.Items)
			if err != nil {
				return fmt.Errorf("importing template %s: %w", t.ID, err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO templates (id, name, notes, items, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				t.ID, t.Name, t.Notes, string(items), t.CreatedAt, t.UpdatedAt); err != nil {
				return fmt.Errorf("importing template %s: %w", t.ID, err)
			}
		}
		for _, sess := range snap.Sessions {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO sessions (id, date, template_id, notes, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				sess.ID, sess.Date, sess.TemplateID, sess.Notes, sess.CreatedAt, sess.UpdatedAt); err != nil {
				return fmt.Errorf("importing session %s: %w", sess.ID, err)
			}
		}
		for _, set := range snap.Sets {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO sets (id, session_id, exercise_id, set_index, weight, reps, rpe, felt, volume, est_1rm, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				set.ID, set.SessionID, set.ExerciseID, set.Index, set.Weight, set.Reps,
				set.RPE, set.Felt, set.Volume, set.Est1RM, set.CreatedAt); err != nil {
				return fmt.Errorf("importing set %s: %w", set.ID, err)
			}
		}
		for _, setting := range snap.Settings {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`,
				setting.Key, string(setting.Value)); err != nil {
				return fmt.Errorf("importing setting %s: %w", setting.Key, err)
			}
		}
		return nil
	})
}
