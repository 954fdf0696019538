package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/meltforce/gymtrack/internal/models"
)

const exerciseColumns = "id, name, muscle_group, notes, created_at, updated_at"

// ExerciseInput is the caller-supplied portion of an exercise. An empty ID
// means create; a non-empty ID means update in place.
type ExerciseInput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup"`
	Notes       string `json:"notes"`
}

// ListExercises returns exercises ordered by name. search filters by
// substring match on name or muscle group (case-insensitive); group filters
// by exact muscle group.
func (s *Store) ListExercises(ctx context.Context, search, group string) ([]models.Exercise, error) {
	query := "SELECT " + exerciseColumns + " FROM exercises"
	var args []any
	if group != "" {
		query += " WHERE muscle_group = ?"
		args = append(args, group)
	}
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	out := []models.Exercise{}
	needle := strings.ToLower(search)
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Name), needle) &&
			!strings.Contains(strings.ToLower(e.MuscleGroup), needle) {
			continue
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetExercise returns the exercise with the given id, or nil if absent.
func (s *Store) GetExercise(ctx context.Context, id string) (*models.Exercise, error) {
	return s.scanExerciseRow(s.db.QueryRowContext(ctx,
		"SELECT "+exerciseColumns+" FROM exercises WHERE id = ?", id))
}

// FindExerciseByName looks an exercise up by its exact (trimmed) name via
// the unique name index. Returns nil if absent.
func (s *Store) FindExerciseByName(ctx context.Context, name string) (*models.Exercise, error) {
	return s.scanExerciseRow(s.db.QueryRowContext(ctx,
		"SELECT "+exerciseColumns+" FROM exercises WHERE name = ?", name))
}

func (s *Store) scanExerciseRow(row *sql.Row) (*models.Exercise, error) {
	var e models.Exercise
	err := row.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning exercise: %w", err)
	}
	return &e, nil
}

// UpsertExercise creates or updates an exercise. The name is trimmed and
// required; on create a duplicate name is a conflict, on update uniqueness
// is re-checked only when the name changed. No mutation occurs on error.
func (s *Store) UpsertExercise(ctx context.Context, in ExerciseInput) (*models.Exercise, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("exercise name is required: %w", ErrValidation)
	}
	now := s.now()

	if in.ID == "" {
		dup, err := s.FindExerciseByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, fmt.Errorf("exercise %q: %w", name, ErrConflict)
		}
		e := models.Exercise{
			ID:          uuid.NewString(),
			Name:        name,
			MuscleGroup: in.MuscleGroup,
			Notes:       in.Notes,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.putExercise(ctx, e); err != nil {
			return nil, err
		}
		return &e, nil
	}

	existing, err := s.GetExercise(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("exercise %s: %w", in.ID, ErrNotFound)
	}
	if existing.Name != name {
		dup, err := s.FindExerciseByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, fmt.Errorf("exercise %q: %w", name, ErrConflict)
		}
	}
	e := *existing
	e.Name = name
	e.MuscleGroup = in.MuscleGroup
	e.Notes = in.Notes
	e.UpdatedAt = now
	if err := s.putExercise(ctx, e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) putExercise(ctx context.Context, e models.Exercise) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO exercises (id, name, muscle_group, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.MuscleGroup, e.Notes, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("writing exercise: %w", err)
	}
	return nil
}

// DeleteExercise removes the exercise record, then strips matching entries
// from every template that references it, bumping updatedAt on each one it
// rewrites. Historical sets are left intact. The template fan-out is best
// effort: a failure is logged per template and neither undoes the primary
// deletion nor touches templates left unmodified.
func (s *Store) DeleteExercise(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM exercises WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}

	tpls, err := s.ListTemplates(ctx, "")
	if err != nil {
		s.log.Warn("template cleanup skipped", "exercise", id, "error", err)
		return nil
	}
	for _, t := range tpls {
		kept := make([]models.TemplateItem, 0, len(t.Items))
		for _, it := range t.Items {
			if it.ExerciseID != id {
				kept = append(kept, it)
			}
		}
		if len(kept) == len(t.Items) {
			continue
		}
		t.Items = kept
		t.UpdatedAt = s.now()
		if err := s.putTemplate(ctx, t); err != nil {
			s.log.Warn("template cleanup failed", "template", t.ID, "exercise", id, "error", err)
		}
	}
	return nil
}

// ListMuscleGroups returns the distinct non-empty muscle groups in use,
// sorted ascending.
func (s *Store) ListMuscleGroups(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT muscle_group FROM exercises WHERE muscle_group != '' ORDER BY muscle_group")
	if err != nil {
		return nil, fmt.Errorf("querying muscle groups: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scanning muscle group: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
