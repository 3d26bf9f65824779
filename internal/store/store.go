// Package store provides the durable key-value storage used by the tracker
// and the progression engine.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys persisted by the dashboard.
const (
	KeyWeeklyUsage = "weeklyUsage"
	KeyStreakData  = "streakData"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ErrUnavailable is returned by a backend that has been closed.
var ErrUnavailable = errors.New("store unavailable")

// Store is a string-keyed, string-valued durable map.
// Concurrent writers from different processes are last-writer-wins per key.
type Store interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set replaces the value for key.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Backend returns the backend name.
	Backend() string
	// Close releases backend resources.
	Close() error
}

// Change reports that keys were modified by another process.
type Change struct {
	Keys []string
}

// Notifier is implemented by backends that can observe external writes.
type Notifier interface {
	Changes() <-chan Change
}

// GetJSON decodes the value stored at key into v.
// It returns false without error when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}
