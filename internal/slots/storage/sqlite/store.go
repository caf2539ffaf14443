// Package sqlite provides a SQLite-backed slot registration store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/pageslots/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/pageslots/internal/slots/storage"
	"github.com/louisbranch/pageslots/internal/slots/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists slot registrations in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite registration store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutRegistration inserts or replaces the registration at (slot, position).
func (s *Store) PutRegistration(ctx context.Context, registration storage.Registration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	slot := strings.TrimSpace(registration.Slot)
	component := strings.TrimSpace(registration.Component)
	if slot == "" {
		return fmt.Errorf("slot is required")
	}
	if component == "" {
		return fmt.Errorf("component is required")
	}
	if registration.Position < 0 {
		return fmt.Errorf("position must not be negative")
	}

	props := registration.Props
	if props == nil {
		props = map[string]any{}
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("encode props: %w", err)
	}
	updatedAt := registration.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO slot_registrations (
		   slot,
		   position,
		   path,
		   component,
		   props_json,
		   exact,
		   updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slot, position) DO UPDATE SET
		   path = excluded.path,
		   component = excluded.component,
		   props_json = excluded.props_json,
		   exact = excluded.exact,
		   updated_at = excluded.updated_at`,
		slot,
		registration.Position,
		registration.Path,
		component,
		string(propsJSON),
		boolToInt(registration.Exact),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put slot registration: %w", err)
	}
	return nil
}

// DeleteRegistration removes the registration at (slot, position).
func (s *Store) DeleteRegistration(ctx context.Context, slot string, position int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM slot_registrations WHERE slot = ? AND position = ?`,
		strings.TrimSpace(slot),
		position,
	)
	if err != nil {
		return fmt.Errorf("delete slot registration: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete slot registration rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListRegistrations returns every registration ordered by slot, then position.
func (s *Store) ListRegistrations(ctx context.Context) ([]storage.Registration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT slot, position, path, component, props_json, exact, updated_at
		 FROM slot_registrations
		 ORDER BY slot ASC, position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list slot registrations: %w", err)
	}
	defer rows.Close()

	registrations := make([]storage.Registration, 0)
	for rows.Next() {
		var (
			registration storage.Registration
			propsJSON    string
			exact        int
			updatedAt    int64
		)
		if err := rows.Scan(
			&registration.Slot,
			&registration.Position,
			&registration.Path,
			&registration.Component,
			&propsJSON,
			&exact,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan slot registration: %w", err)
		}
		if err := json.Unmarshal([]byte(propsJSON), &registration.Props); err != nil {
			return nil, fmt.Errorf("decode props for slot %q position %d: %w", registration.Slot, registration.Position, err)
		}
		if len(registration.Props) == 0 {
			registration.Props = nil
		}
		registration.Exact = exact != 0
		registration.UpdatedAt = fromMillis(updatedAt)
		registrations = append(registrations, registration)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slot registrations: %w", err)
	}
	return registrations, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
