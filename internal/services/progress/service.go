package progress

import (
	"context"
	"sync"
	"time"

	"github.com/j-veylop/study-dashboard-tui/internal/logger"
	"github.com/j-veylop/study-dashboard-tui/internal/models"
	"github.com/j-veylop/study-dashboard-tui/internal/store"
)

// Event represents a progression event.
type Event struct {
	Type   EventType
	Record models.StreakData
	Update Update
}

// EventType defines the type of progression event.
type EventType int

const (
	// EventLogin is emitted when a login advanced the streak.
	EventLogin EventType = iota
	// EventLevelUp is emitted when a login advanced the level.
	EventLevelUp
	// EventReset is emitted when the record was cleared.
	EventReset
)

// Service reads and updates the persisted progression record.
type Service struct {
	mu        sync.Mutex
	store     store.Store
	now       func() time.Time
	eventChan chan Event
}

// New creates a progression service. now may be nil to use time.Now.
func New(st store.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:     st,
		now:       now,
		eventChan: make(chan Event, 16),
	}
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Current returns the persisted record without applying a login.
// Absent or unreadable data yields the default record.
func (s *Service) Current(ctx context.Context) models.StreakData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// GetAndUpdate applies today's login and persists the result. Calling it
// again on the same day returns the same record.
func (s *Service) GetAndUpdate(ctx context.Context) models.StreakData {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.loadLocked(ctx)
	updated, upd := Apply(record, models.FormatDate(s.now()))

	if err := store.SetJSON(ctx, s.store, store.KeyStreakData, updated); err != nil {
		logger.Error("failed to persist streak data", "error", err)
	}

	if upd.Applied {
		logger.Info("login recorded",
			"streak", updated.CurrentStreak,
			"points", upd.PointsEarned,
			"level", updated.Level)
		s.sendEvent(Event{Type: EventLogin, Record: updated, Update: upd})
	}
	if upd.LevelsGained > 0 {
		s.sendEvent(Event{Type: EventLevelUp, Record: updated, Update: upd})
	}

	return updated
}

// Reset removes the persisted record.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Remove(ctx, store.KeyStreakData); err != nil {
		return err
	}
	s.sendEvent(Event{Type: EventReset, Record: models.DefaultStreakData()})
	return nil
}

func (s *Service) loadLocked(ctx context.Context) models.StreakData {
	record := models.DefaultStreakData()
	ok, err := store.GetJSON(ctx, s.store, store.KeyStreakData, &record)
	if err != nil {
		logger.Warn("discarding unreadable streak data", "error", err)
		return models.DefaultStreakData()
	}
	if !ok {
		return models.DefaultStreakData()
	}
	return record
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}
