// Package storage is the local data layer: an embedded SQLite store holding
// the five GymTrack collections (exercises, templates, sessions, sets,
// settings), the domain operations over them, per-date analytics folds, and
// whole-store dump/import.
//
// The store assumes a single logical writer. Operations that read before
// writing (AddSet's index computation, DeleteExercise's template fan-out,
// DeleteSession's cascade) are not protected against concurrent calls
// targeting the same session or exercise; callers that introduce real
// concurrency must serialize those themselves.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/meltforce/gymtrack/internal/models"
)

const (
	// StoreName tags exported snapshots.
	StoreName = "gymdb"
	// SchemaVersion is the migration version a fully upgraded store is at.
	SchemaVersion = 2
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a handle to one opened database file.
type Store struct {
	db   *sql.DB
	log  *slog.Logger
	path string

	// now is swappable in tests so records can land on chosen dates.
	now func() string
}

var (
	openMu sync.Mutex
	opened = map[string]*Store{}
)

// Open returns the store at path, creating the file and applying pending
// migrations as needed. Opens are memoized per path: concurrent first-time
// callers share one initialization and one handle, and a failed open caches
// nothing, so a later call re-attempts instead of replaying the failure.
// Close releases the handle and evicts the memo entry.
func Open(ctx context.Context, path string, log *slog.Logger) (*Store, error) {
	openMu.Lock()
	defer openMu.Unlock()

	if s, ok := opened[path]; ok {
		return s, nil
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging store %s: %w", path, err)
	}
	// One connection keeps SQLite writes serialized.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:   db,
		log:  log,
		path: path,
		now:  func() string { return models.Stamp(time.Now()) },
	}
	opened[path] = s
	return s, nil
}

// Close closes the database and evicts the store from the open memo so a
// subsequent Open reinitializes.
func (s *Store) Close() error {
	openMu.Lock()
	delete(opened, s.path)
	openMu.Unlock()
	return s.db.Close()
}

// runMigrations applies all pending migrations from the embedded migration
// files. Migrations are additive only; re-running against an up-to-date
// store is a no-op.
func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, StoreName, driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// withTx runs fn inside one transaction, committing when fn returns nil and
// rolling back otherwise. Multi-collection operations use this so a failure
// before commit leaves prior state untouched.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
