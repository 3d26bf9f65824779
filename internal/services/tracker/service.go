package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/study-dashboard-tui/internal/logger"
	"github.com/j-veylop/study-dashboard-tui/internal/models"
	"github.com/j-veylop/study-dashboard-tui/internal/store"
)

// Event represents a tracker service event.
type Event struct {
	Type            EventType
	Today           models.DailyUsage
	Minutes         int
	SessionDuration time.Duration
	Error           error
}

// EventType defines the type of tracker event.
type EventType int

const (
	EventStarted EventType = iota
	EventStopped
	EventFlushed
	EventDayRolledOver
	EventReset
	EventDurationTick
	EventError
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventFlushed:
		return "flushed"
	case EventDayRolledOver:
		return "rollover"
	case EventReset:
		return "reset"
	case EventDurationTick:
		return "tick"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// AuditLog records tracker transitions. *db.DB satisfies it.
type AuditLog interface {
	InsertSessionEvent(ctx context.Context, event *models.SessionEvent) error
}

// Config holds configuration for the tracker service.
type Config struct {
	FlushInterval           time.Duration
	DurationRefreshInterval time.Duration
	DayCheckInterval        time.Duration
	// Clock defaults to the system clock.
	Clock Clock
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		FlushInterval:           10 * time.Second,
		DurationRefreshInterval: 60 * time.Second,
		DayCheckInterval:        30 * time.Second,
	}
}

const persistTimeout = 5 * time.Second

// Service owns the process-wide accumulator, persists it after every
// change and drives the periodic flush, duration and day-change timers
// while a session is open.
type Service struct {
	mu        sync.Mutex
	acc       *Accumulator
	store     store.Store
	audit     AuditLog
	config    Config
	clock     Clock
	sessionID string
	eventChan chan Event

	// loopStop is closed to end the timer goroutine of the current session.
	loopStop chan struct{}
	loopGen  int

	closeOnce sync.Once
}

// New loads persisted usage and returns an idle service. Unreadable data is
// treated as empty. audit may be nil.
func New(st store.Store, audit AuditLog, config Config) *Service {
	defaults := DefaultConfig()
	if config.FlushInterval <= 0 {
		config.FlushInterval = defaults.FlushInterval
	}
	if config.DurationRefreshInterval <= 0 {
		config.DurationRefreshInterval = defaults.DurationRefreshInterval
	}
	if config.DayCheckInterval <= 0 {
		config.DayCheckInterval = defaults.DayCheckInterval
	}
	clock := config.Clock
	if clock == nil {
		clock = systemClock{}
	}

	s := &Service{
		store:     st,
		audit:     audit,
		config:    config,
		clock:     clock,
		eventChan: make(chan Event, 100),
	}

	s.acc = NewAccumulator(s.load())

	s.mu.Lock()
	s.apply(s.acc.Init(clock.Now()), models.SessionEventFlush)
	s.mu.Unlock()

	return s
}

// load reads the persisted usage map.
func (s *Service) load() models.WeeklyUsage {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	usage := make(models.WeeklyUsage)
	ok, err := store.GetJSON(ctx, s.store, store.KeyWeeklyUsage, &usage)
	if err != nil {
		logger.Warn("discarding unreadable usage data", "error", err)
		return make(models.WeeklyUsage)
	}
	if !ok || usage == nil {
		return make(models.WeeklyUsage)
	}
	return usage
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// StartTracking opens a session and arms the timers.
func (s *Service) StartTracking() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked(s.clock.Now())
}

// StopTracking flushes, closes the session and cancels the timers.
func (s *Service) StopTracking() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(s.clock.Now())
}

// Flush credits elapsed whole minutes to today.
func (s *Service) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked(s.clock.Now())
}

// ReconcileDayChange applies a pending calendar-day rollover.
func (s *Service) ReconcileDayChange() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcileLocked(s.clock.Now())
}

// SetVisible pauses tracking while hidden and resumes it when visible again.
func (s *Service) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	if !visible {
		s.stopLocked(now)
		return
	}
	s.reconcileLocked(now)
	s.startLocked(now)
}

// ResetAllData discards all usage without flushing, leaving a zero record
// for today. A session that was open is restarted.
func (s *Service) ResetAllData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(true)
	logger.Info("usage data reset", "tracking", s.acc.IsTracking())
}

// AdoptExternalReset picks up a reset written by another process, such as
// `sdt reset` run while this dashboard is open. When the stored map holds no
// minutes but local usage does, local usage is discarded as by ResetAllData,
// without a second audit row. It reports whether anything was discarded.
func (s *Service) AdoptExternalReset() bool {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var stored models.WeeklyUsage
	ok, err := store.GetJSON(ctx, s.store, store.KeyWeeklyUsage, &stored)
	if err != nil || !ok || stored.TotalMinutes() > 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acc.Usage().TotalMinutes() == 0 {
		return false
	}
	s.resetLocked(false)
	logger.Info("adopted usage reset from another process", "tracking", s.acc.IsTracking())
	return true
}

// resetLocked clears usage and restarts an open session (must hold lock).
func (s *Service) resetLocked(audit bool) {
	now := s.clock.Now()
	wasTracking := s.acc.IsTracking()
	s.stopLoop()

	res := s.acc.Reset(now)
	if wasTracking {
		s.sessionID = uuid.NewString()
	}
	if audit {
		s.apply(res, models.SessionEventReset)
	} else {
		s.persistLocked()
	}

	if wasTracking {
		s.startLoop()
	}
	s.sendEvent(Event{Type: EventReset, Today: s.acc.Today(now)})
}

// TodayUsage returns the record for the current day.
func (s *Service) TodayUsage() models.DailyUsage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acc.Today(s.clock.Now())
}

// WeeklyUsage returns a copy of all records.
func (s *Service) WeeklyUsage() models.WeeklyUsage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acc.Usage()
}

// IsTracking reports whether a session is open.
func (s *Service) IsTracking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acc.IsTracking()
}

// CurrentSessionStart returns the start of the uncredited interval, or the zero time.
func (s *Service) CurrentSessionStart() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acc.SessionStart()
}

// CurrentSessionDuration returns how long the open session has run.
func (s *Service) CurrentSessionDuration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acc.SessionDuration(s.clock.Now())
}

// SessionID identifies the open session in the audit log.
func (s *Service) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Close performs a best-effort final flush and stops the timers.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.stopLocked(s.clock.Now())
	})
	return nil
}

func (s *Service) startLocked(now time.Time) {
	if s.acc.IsTracking() {
		return
	}
	s.sessionID = uuid.NewString()
	res := s.acc.Start(now)
	s.apply(res, models.SessionEventRollover)
	s.recordEvent(models.SessionEventStart, models.FormatDate(now), 0, now)
	s.startLoop()
	s.sendEvent(Event{Type: EventStarted, Today: s.acc.Today(now)})
	logger.Debug("tracking started", "session", s.sessionID)
}

func (s *Service) stopLocked(now time.Time) {
	if !s.acc.IsTracking() {
		return
	}
	s.stopLoop()
	res := s.acc.Stop(now)
	s.apply(res, models.SessionEventFlush)
	s.recordEvent(models.SessionEventStop, models.FormatDate(now), 0, now)
	s.sendEvent(Event{Type: EventStopped, Today: s.acc.Today(now), Minutes: res.CreditedMinutes()})
	logger.Debug("tracking stopped", "session", s.sessionID, "minutes", res.CreditedMinutes())
}

func (s *Service) flushLocked(now time.Time) {
	res := s.acc.Flush(now)
	if !res.Dirty() {
		return
	}
	kind := models.SessionEventFlush
	if res.RolledOver {
		kind = models.SessionEventRollover
	}
	s.apply(res, kind)

	eventType := EventFlushed
	if res.RolledOver {
		eventType = EventDayRolledOver
	}
	s.sendEvent(Event{Type: eventType, Today: s.acc.Today(now), Minutes: res.CreditedMinutes()})
}

// reconcileLocked applies a pending rollover (must hold lock).
func (s *Service) reconcileLocked(now time.Time) {
	res := s.acc.ReconcileDayChange(now)
	s.apply(res, models.SessionEventRollover)
	if res.RolledOver {
		s.sendEvent(Event{Type: EventDayRolledOver, Today: s.acc.Today(now), Minutes: res.CreditedMinutes()})
	}
}

// apply persists a dirty result and records its credits (must hold lock).
func (s *Service) apply(res Result, kind models.SessionEventType) {
	if !res.Dirty() {
		return
	}
	s.persistLocked()

	now := s.clock.Now()
	if res.Reset {
		s.recordEvent(models.SessionEventReset, models.FormatDate(now), 0, now)
	}
	for _, c := range res.Credits {
		s.recordEvent(kind, c.Date, c.Minutes, now)
	}
}

// persistLocked writes the whole usage map. Failures are logged; in-memory
// state stays authoritative until the next successful write.
func (s *Service) persistLocked() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := store.SetJSON(ctx, s.store, store.KeyWeeklyUsage, s.acc.Usage()); err != nil {
		logger.Error("failed to persist usage", "error", err)
		if !errors.Is(err, store.ErrUnavailable) {
			s.sendEvent(Event{Type: EventError, Error: err})
		}
	}
}

// recordEvent appends one row to the audit log. Failures are logged and ignored.
func (s *Service) recordEvent(kind models.SessionEventType, date string, minutes int, now time.Time) {
	if s.audit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	err := s.audit.InsertSessionEvent(ctx, &models.SessionEvent{
		SessionID: s.sessionID,
		Type:      kind,
		Date:      date,
		Minutes:   minutes,
		Timestamp: now,
	})
	if err != nil {
		logger.Warn("failed to record session event", "type", kind, "error", err)
	}
}

// startLoop arms the timers for the current session (must hold lock).
func (s *Service) startLoop() {
	s.stopLoop()
	s.loopGen++
	s.loopStop = make(chan struct{})
	go s.runTimers(s.loopGen, s.loopStop)
}

// stopLoop cancels the timers (must hold lock). It does not wait for the
// goroutine; stale ticks are discarded by the generation check.
func (s *Service) stopLoop() {
	if s.loopStop != nil {
		close(s.loopStop)
		s.loopStop = nil
	}
	s.loopGen++
}

func (s *Service) runTimers(gen int, stop <-chan struct{}) {
	flush := time.NewTicker(s.config.FlushInterval)
	duration := time.NewTicker(s.config.DurationRefreshInterval)
	dayCheck := time.NewTicker(s.config.DayCheckInterval)
	defer flush.Stop()
	defer duration.Stop()
	defer dayCheck.Stop()

	for {
		select {
		case <-flush.C:
			s.onTick(gen, s.flushLocked)
		case <-dayCheck.C:
			s.onTick(gen, s.reconcileLocked)
		case <-duration.C:
			s.onTick(gen, func(now time.Time) {
				s.sendEvent(Event{
					Type:            EventDurationTick,
					Today:           s.acc.Today(now),
					SessionDuration: s.acc.SessionDuration(now),
				})
			})
		case <-stop:
			return
		}
	}
}

func (s *Service) onTick(gen int, fn func(now time.Time)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loopGen || !s.acc.IsTracking() {
		return
	}
	fn(s.clock.Now())
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
