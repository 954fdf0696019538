package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// GetSetting returns a preference value as raw JSON, or nil if unset.
func (s *Store) GetSetting(ctx context.Context, key string) (json.RawMessage, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return json.RawMessage(value), nil
}

// SetSetting stores a preference value, replacing any existing one.
func (s *Store) SetSetting(ctx context.Context, key string, value json.RawMessage) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, string(value))
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}

// AllSettings returns every preference keyed by name.
func (s *Store) AllSettings(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("querying settings: %w", err)
	}
	defer rows.Close()

	out := map[string]json.RawMessage{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		out[key] = json.RawMessage(value)
	}
	return out, rows.Err()
}

// Defaults are the preferences seeded on first run.
type Defaults struct {
	Units         string
	RestSeconds   int
	IntensityMode string
}

// EnsureDefaults writes each default preference only if the key is unset,
// so user choices survive restarts.
func (s *Store) EnsureDefaults(ctx context.Context, d Defaults) error {
	defaults := []struct {
		key   string
		value any
	}{
		{"units", d.Units},
		{"restSeconds", d.RestSeconds},
		{"intensityMode", d.IntensityMode},
	}
	for _, def := range defaults {
		existing, err := s.GetSetting(ctx, def.key)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		value, err := json.Marshal(def.value)
		if err != nil {
			return fmt.Errorf("encoding default %s: %w", def.key, err)
		}
		if err := s.SetSetting(ctx, def.key, value); err != nil {
			return err
		}
	}
	return nil
}
