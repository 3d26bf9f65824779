package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/study-dashboard-tui/internal/models"
)

// GetValue returns the stored value for key. The boolean is false when the key is absent.
func (db *DB) GetValue(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get value for %s: %w", key, err)
	}
	return value, true, nil
}

// SetValue inserts or replaces the value for key.
func (db *DB) SetValue(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, key, value, time.Now().UTC().Format(sqlTimestampLayout)); err != nil {
		return fmt.Errorf("failed to set value for %s: %w", key, err)
	}
	return nil
}

// DeleteValue removes key. Deleting an absent key is not an error.
func (db *DB) DeleteValue(ctx context.Context, key string) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM kv_store WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete value for %s: %w", key, err)
	}
	return nil
}

// InsertSessionEvent appends a row to the tracking audit log.
func (db *DB) InsertSessionEvent(ctx context.Context, event *models.SessionEvent) error {
	query := `
		INSERT INTO session_events (session_id, event_type, date, minutes, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	result, err := db.ExecContext(ctx, query,
		event.SessionID,
		string(event.Type),
		event.Date,
		event.Minutes,
		timestamp.UTC().Format(sqlTimestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session event: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		event.ID = id
	}

	return nil
}

// GetRecentSessionEvents returns the newest audit rows first.
func (db *DB) GetRecentSessionEvents(ctx context.Context, limit int) ([]models.SessionEvent, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}

	query := `
		SELECT id, session_id, event_type, date, minutes, timestamp
		FROM session_events
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query session events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []models.SessionEvent
	for rows.Next() {
		var e models.SessionEvent
		var eventType string
		if err := rows.Scan(&e.ID, &e.SessionID, &eventType, &e.Date, &e.Minutes, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan session event: %w", err)
		}
		e.Type = models.SessionEventType(eventType)
		e.Timestamp = e.Timestamp.UTC()
		events = append(events, e)
	}

	return events, rows.Err()
}

// CountSessionEvents returns per-type row counts.
func (db *DB) CountSessionEvents(ctx context.Context) ([]models.SessionEventCount, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT event_type, COUNT(*) FROM session_events GROUP BY event_type ORDER BY event_type")
	if err != nil {
		return nil, fmt.Errorf("failed to count session events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []models.SessionEventCount
	for rows.Next() {
		var c models.SessionEventCount
		var eventType string
		if err := rows.Scan(&eventType, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		c.Type = models.SessionEventType(eventType)
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// TrackedMinutesByDate sums minutes credited by the audit log for one date.
func (db *DB) TrackedMinutesByDate(ctx context.Context, date string) (int, error) {
	var total sql.NullInt64
	err := db.QueryRowContext(ctx,
		"SELECT SUM(minutes) FROM session_events WHERE date = ?", date).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum tracked minutes: %w", err)
	}
	return int(total.Int64), nil
}

// PruneSessionEvents deletes audit rows older than the cutoff.
func (db *DB) PruneSessionEvents(ctx context.Context, before time.Time) (int64, error) {
	result, err := db.ExecContext(ctx,
		"DELETE FROM session_events WHERE timestamp < ?", before.UTC().Format(sqlTimestampLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to prune session events: %w", err)
	}
	return result.RowsAffected()
}
