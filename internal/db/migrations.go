package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// migration is a single ordered schema or data fix.
type migration struct {
	version int
	queries []string
}

// migrations run in order; each version is applied at most once.
var migrations = []migration{
	{
		version: 1,
		queries: []string{
			`CREATE INDEX IF NOT EXISTS idx_session_events_type ON session_events(event_type)`,
		},
	},
}

// SchemaVersion returns the highest applied migration, or 0.
func (db *DB) SchemaVersion() (int, error) {
	var version sql.NullInt64
	err := db.QueryRowContext(context.Background(),
		"SELECT MAX(version) FROM schema_version").Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}

// Migrate applies pending migrations.
func (db *DB) Migrate() error {
	current, err := db.SchemaVersion()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		for _, query := range m.queries {
			if _, err := db.ExecContext(context.Background(), query); err != nil {
				return fmt.Errorf("failed to apply migration %d: %w", m.version, err)
			}
		}
		if _, err := db.ExecContext(context.Background(),
			"INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
	}

	return nil
}
