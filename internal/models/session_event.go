package models

import "time"

// SessionEventType identifies a tracker transition recorded in the audit log.
type SessionEventType string

const (
	SessionEventStart    SessionEventType = "start"
	SessionEventStop     SessionEventType = "stop"
	SessionEventFlush    SessionEventType = "flush"
	SessionEventRollover SessionEventType = "rollover"
	SessionEventReset    SessionEventType = "reset"
)

// SessionEvent is one row of the tracking audit log.
type SessionEvent struct {
	ID        int64
	SessionID string
	Type      SessionEventType
	Date      string
	Minutes   int
	Timestamp time.Time
}

// SessionEventCount aggregates audit rows by type.
type SessionEventCount struct {
	Type  SessionEventType
	Count int
}
