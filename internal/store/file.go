package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/study-dashboard-tui/internal/logger"
)

// errCorruptDocument marks a store file that exists but is not valid JSON.
var errCorruptDocument = errors.New("corrupt store document")

// fileDocument is the on-disk layout of the file backend.
type fileDocument struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}

// File keeps all keys in one JSON document and watches it for writes made
// by other processes sharing the same path.
type File struct {
	mu            sync.RWMutex
	data          map[string]string
	filePath      string
	watcher       *fsnotify.Watcher
	changes       chan Change
	stopChan      chan struct{}
	debounceTimer *time.Timer
	closed        bool
}

// OpenFile loads (or creates) the document at path and starts watching it.
// A corrupt document is moved aside to path+".corrupt" and replaced by an
// empty one.
func OpenFile(path string) (*File, error) {
	f := &File{
		data:     make(map[string]string),
		filePath: path,
		changes:  make(chan Change, 16),
		stopChan: make(chan struct{}),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := f.readDocument()
	switch {
	case os.IsNotExist(err):
		if err := f.writeLocked(); err != nil {
			return nil, fmt.Errorf("failed to create store file: %w", err)
		}
	case errors.Is(err, errCorruptDocument):
		logger.Warn("store file is corrupt, starting empty", "path", path, "error", err)
		if err := os.Rename(path, f.CorruptPath()); err != nil {
			logger.Warn("failed to move corrupt store file aside", "path", path, "error", err)
		}
		if err := f.writeLocked(); err != nil {
			return nil, fmt.Errorf("failed to recreate store file: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load store file: %w", err)
	default:
		f.data = data
	}

	if err := f.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return "", false, ErrUnavailable
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrUnavailable
	}

	prev, had := f.data[key]
	f.data[key] = value
	if err := f.writeLocked(); err != nil {
		// Rollback
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func (f *File) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrUnavailable
	}

	prev, had := f.data[key]
	if !had {
		return nil
	}
	delete(f.data, key)
	if err := f.writeLocked(); err != nil {
		f.data[key] = prev
		return err
	}
	return nil
}

// Backend returns "file".
func (f *File) Backend() string { return BackendFile }

// Path returns the document path.
func (f *File) Path() string { return f.filePath }

// CorruptPath is where an unparsable document is moved on open.
func (f *File) CorruptPath() string { return f.filePath + ".corrupt" }

// Changes delivers the keys modified by external writers.
func (f *File) Changes() <-chan Change {
	return f.changes
}

// readDocument parses the document from disk.
func (f *File) readDocument() (map[string]string, error) {
	raw, err := os.ReadFile(f.filePath)
	if err != nil {
		return nil, err
	}

	var doc fileDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", errCorruptDocument, err)
	}
	if doc.Values == nil {
		doc.Values = make(map[string]string)
	}
	return doc.Values, nil
}

// writeLocked saves the document atomically (must hold lock).
func (f *File) writeLocked() error {
	raw, err := json.MarshalIndent(fileDocument{Version: 1, Values: f.data}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	// Write to temp file first, then rename
	tmpFile := f.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, f.filePath); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// startWatcher starts the file system watcher.
func (f *File) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	f.watcher = watcher

	// Watch the directory so atomic renames by other writers are seen.
	if err := watcher.Add(filepath.Dir(f.filePath)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go f.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (f *File) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(f.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				f.mu.Lock()
				if f.debounceTimer != nil {
					f.debounceTimer.Stop()
				}
				f.debounceTimer = time.AfterFunc(debounceInterval, f.handleFileChange)
				f.mu.Unlock()
			}

		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("store watcher error", "path", f.filePath, "error", err)

		case <-f.stopChan:
			return
		}
	}
}

// handleFileChange reloads the document and reports keys that differ from
// the cached copy. Our own writes leave the cache equal to disk and report nothing.
// The read happens under the lock so a concurrent Set cannot be overwritten
// by an older copy of the file.
func (f *File) handleFileChange() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	data, err := f.readDocument()
	if err != nil {
		f.mu.Unlock()
		logger.Warn("failed to reload store file", "path", f.filePath, "error", err)
		return
	}
	changed := diffKeys(f.data, data)
	f.data = data
	f.mu.Unlock()

	if len(changed) > 0 {
		logger.Debug("store file changed externally", "keys", changed)
		f.sendChange(Change{Keys: changed})
	}
}

func diffKeys(old, updated map[string]string) []string {
	var keys []string
	for k, v := range updated {
		if prev, ok := old[k]; !ok || prev != v {
			keys = append(keys, k)
		}
	}
	for k := range old {
		if _, ok := updated[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// sendChange delivers a change without blocking, dropping the oldest when full.
func (f *File) sendChange(c Change) {
	select {
	case f.changes <- c:
	default:
		select {
		case <-f.changes:
		default:
		}
		select {
		case f.changes <- c:
		default:
		}
	}
}

// Close stops the watcher. Further operations return ErrUnavailable.
func (f *File) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	if f.debounceTimer != nil {
		f.debounceTimer.Stop()
	}
	f.mu.Unlock()

	close(f.stopChan)

	if f.watcher != nil {
		return f.watcher.Close()
	}
	return nil
}
