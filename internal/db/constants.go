package db

const (
	// sqlTimestampLayout is the format written to DATETIME columns so SQLite's
	// date functions can parse it. Values are always UTC, matching
	// CURRENT_TIMESTAMP and how the driver reads them back.
	sqlTimestampLayout = "2006-01-02 15:04:05"

	// defaultEventLimit bounds GetRecentSessionEvents when no limit is given.
	defaultEventLimit = 50
)
