package store

import (
	"context"

	"github.com/j-veylop/study-dashboard-tui/internal/db"
)

// SQLite stores values in the kv_store table of the application database.
type SQLite struct {
	db *db.DB
}

// NewSQLite wraps an open database. The caller keeps ownership of database;
// closing the store does not close it.
func NewSQLite(database *db.DB) *SQLite {
	return &SQLite{db: database}
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	return s.db.GetValue(ctx, key)
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	return s.db.SetValue(ctx, key, value)
}

func (s *SQLite) Remove(ctx context.Context, key string) error {
	return s.db.DeleteValue(ctx, key)
}

// Backend returns "sqlite".
func (s *SQLite) Backend() string { return BackendSQLite }

// Close is a no-op; the database is closed by its owner.
func (s *SQLite) Close() error { return nil }
