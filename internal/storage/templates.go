package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/meltforce/gymtrack/internal/models"
)

// TemplateInput is the caller-supplied portion of a template. An empty ID
// means create.
type TemplateInput struct {
	ID    string                `json:"id"`
	Name  string                `json:"name"`
	Notes string                `json:"notes"`
	Items []models.TemplateItem `json:"items"`
}

// ListTemplates returns templates ordered by name. search filters by
// case-insensitive substring match on the name.
func (s *Store) ListTemplates(ctx context.Context, search string) ([]models.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, notes, items, created_at, updated_at FROM templates ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	out := []models.Template{}
	needle := strings.ToLower(search)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Name), needle) {
			continue
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetTemplate returns the template with the given id, or nil if absent.
func (s *Store) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, notes, items, created_at, updated_at FROM templates WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying template: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	t, err := scanTemplate(rows)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTemplate(rows *sql.Rows) (models.Template, error) {
	var t models.Template
	var items string
	if err := rows.Scan(&t.ID, &t.Name, &t.Notes, &items, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return t, fmt.Errorf("scanning template: %w", err)
	}
	if err := json.Unmarshal([]byte(items), &t.Items); err != nil {
		return t, fmt.Errorf("decoding template items: %w", err)
	}
	if t.Items == nil {
		t.Items = []models.TemplateItem{}
	}
	return t, nil
}

// UpsertTemplate creates or updates a template. The name is trimmed and
// required. Items may reference deleted exercises; such entries are kept
// as-is and rendered as dangling by consumers.
func (s *Store) UpsertTemplate(ctx context.Context, in TemplateInput) (*models.Template, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("template name is required: %w", ErrValidation)
	}
	items := in.Items
	if items == nil {
		items = []models.TemplateItem{}
	}
	now := s.now()

	if in.ID == "" {
		t := models.Template{
			ID:        uuid.NewString(),
			Name:      name,
			Notes:     in.Notes,
			Items:     items,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.putTemplate(ctx, t); err != nil {
			return nil, err
		}
		return &t, nil
	}

	existing, err := s.GetTemplate(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("template %s: %w", in.ID, ErrNotFound)
	}
	t := *existing
	t.Name = name
	t.Notes = in.Notes
	t.Items = items
	t.UpdatedAt = now
	if err := s.putTemplate(ctx, t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) putTemplate(ctx context.Context, t models.Template) error {
	items, err := json.Marshal(t.Items)
	if err != nil {
		return fmt.Errorf("encoding template items: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO templates (id, name, notes, items, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Notes, string(items), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("writing template: %w", err)
	}
	return nil
}

// DeleteTemplate removes a template. Sessions that referenced it keep their
// dangling templateId.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM templates WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	return nil
}

// DuplicateTemplate copies a template under a fresh id, appending a copy
// marker to the name and resetting both timestamps to now.
func (s *Store) DuplicateTemplate(ctx context.Context, id string) (*models.Template, error) {
	t, err := s.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	now := s.now()
	copy := *t
	copy.ID = uuid.NewString()
	copy.Name = t.Name + " (Copy)"
	copy.CreatedAt = now
	copy.UpdatedAt = now
	if err := s.putTemplate(ctx, copy); err != nil {
		return nil, err
	}
	return &copy, nil
}
