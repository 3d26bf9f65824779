package store

import (
	"fmt"

	"github.com/j-veylop/study-dashboard-tui/internal/db"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string
	FilePath string
	Redis    RedisConfig
	// Database backs the sqlite backend.
	Database *db.DB
}

// Open returns the backend named by opts.Backend. An empty name selects sqlite.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendSQLite:
		if opts.Database == nil {
			return nil, fmt.Errorf("sqlite backend requires a database")
		}
		return NewSQLite(opts.Database), nil
	case BackendFile:
		if opts.FilePath == "" {
			return nil, fmt.Errorf("file backend requires a path")
		}
		return OpenFile(opts.FilePath)
	case BackendRedis:
		return OpenRedis(opts.Redis)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
