package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store. It loses its contents on exit and is used by
// tests and the status command's dry runs.
type Memory struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool

	// FailWrites makes Set and Remove return an error, for exercising
	// best-effort persistence paths.
	FailWrites bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrUnavailable
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.FailWrites {
		return ErrUnavailable
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.FailWrites {
		return ErrUnavailable
	}
	delete(m.data, key)
	return nil
}

// Backend returns "memory".
func (m *Memory) Backend() string { return BackendMemory }

// Close marks the store unavailable.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SetFailWrites toggles write failures under the store lock.
func (m *Memory) SetFailWrites(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailWrites = fail
}
