// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/study-dashboard-tui/internal/config"
	"github.com/j-veylop/study-dashboard-tui/internal/db"
	"github.com/j-veylop/study-dashboard-tui/internal/logger"
	"github.com/j-veylop/study-dashboard-tui/internal/models"
	"github.com/j-veylop/study-dashboard-tui/internal/services/progress"
	"github.com/j-veylop/study-dashboard-tui/internal/services/tracker"
	"github.com/j-veylop/study-dashboard-tui/internal/store"
)

type (
	// UsageUpdatedEvent is emitted when tracked minutes change.
	UsageUpdatedEvent struct {
		Today  models.DailyUsage
		Weekly models.WeeklyUsage
	}

	// TrackingStateEvent is emitted when a session opens, closes or ticks.
	TrackingStateEvent struct {
		Tracking        bool
		SessionDuration time.Duration
	}

	// DayRolledOverEvent is emitted when the local calendar day changed.
	DayRolledOverEvent struct {
		Today models.DailyUsage
	}

	// StreakUpdatedEvent is emitted when the progression record changes.
	StreakUpdatedEvent struct {
		Streak models.StreakData
	}

	// LevelUpEvent is emitted when a login advanced the level.
	LevelUpEvent struct {
		Streak       models.StreakData
		LevelsGained int
	}

	// StoreChangedEvent is emitted when another process wrote to the store.
	StoreChangedEvent struct {
		Keys []string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (UsageUpdatedEvent) isServiceEvent()  {}
func (TrackingStateEvent) isServiceEvent() {}
func (DayRolledOverEvent) isServiceEvent() {}
func (StreakUpdatedEvent) isServiceEvent() {}
func (LevelUpEvent) isServiceEvent()       {}
func (StoreChangedEvent) isServiceEvent()  {}
func (ErrorEvent) isServiceEvent()         {}

// Snapshot is the state a UI needs to draw its first frame.
type Snapshot struct {
	Today           models.DailyUsage
	Weekly          models.WeeklyUsage
	Tracking        bool
	SessionDuration time.Duration
	Streak          models.StreakData
}

// Notifier delivers desktop notifications.
type Notifier func(title, body string) error

func beeepNotify(title, body string) error {
	return beeep.Notify(title, body, "")
}

const opTimeout = 5 * time.Second

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	tracker     *tracker.Service
	progress    *progress.Service
	store       store.Store
	database    *db.DB
	notify      Notifier
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	doneChan    chan struct{}
	subscribers []chan<- ServiceEvent
	retention   time.Duration
	closeOnce   sync.Once
}

// NewManager opens storage and creates the tracker and progression services.
// Tracking is not started; the caller decides when the dashboard is visible.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
		retention: cfg.EventRetention,
	}
	if cfg.Notifications {
		m.notify = beeepNotify
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.store, err = store.Open(store.Options{
		Backend:  cfg.StoreBackend,
		FilePath: cfg.StoreFilePath,
		Redis: store.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		},
		Database: m.database,
	})
	if err != nil {
		_ = m.database.Close()
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}

	m.tracker = tracker.New(m.store, m.database, tracker.Config{
		FlushInterval:           cfg.FlushInterval,
		DurationRefreshInterval: cfg.DurationRefreshInterval,
		DayCheckInterval:        cfg.DayCheckInterval,
	})
	m.progress = progress.New(m.store, nil)

	pruneCtx, cancel := context.WithTimeout(context.Background(), opTimeout)
	if _, err := m.PruneSessionEvents(pruneCtx); err != nil {
		logger.Warn("failed to prune session log", "error", err)
	}
	cancel()

	logger.Info("services started", "store", m.store.Backend(), "database", m.database.Path())

	go m.routeEvents()

	return m, nil
}

// SetNotifier replaces the desktop notifier. nil disables notifications.
func (m *Manager) SetNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notify = n
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	defer close(m.doneChan)

	var changes <-chan store.Change
	if n, ok := m.store.(store.Notifier); ok {
		changes = n.Changes()
	}

	for {
		select {
		case event := <-m.tracker.Events():
			m.handleTrackerEvent(event)

		case event := <-m.progress.Events():
			m.handleProgressEvent(event)

		case change, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			m.handleStoreChange(change)

		case <-m.stopChan:
			return
		}
	}
}

// handleTrackerEvent converts and broadcasts tracker events.
func (m *Manager) handleTrackerEvent(event tracker.Event) {
	switch event.Type {
	case tracker.EventStarted, tracker.EventStopped:
		m.broadcast(TrackingStateEvent{
			Tracking:        event.Type == tracker.EventStarted,
			SessionDuration: m.tracker.CurrentSessionDuration(),
		})
		m.broadcastUsage()

	case tracker.EventDurationTick:
		m.broadcast(TrackingStateEvent{
			Tracking:        true,
			SessionDuration: event.SessionDuration,
		})

	case tracker.EventFlushed, tracker.EventReset:
		m.broadcastUsage()

	case tracker.EventDayRolledOver:
		m.broadcast(DayRolledOverEvent{Today: event.Today})
		m.broadcastUsage()
		// A dashboard left open past midnight counts as a login on the new day.
		go m.Login(context.Background())

	case tracker.EventError:
		m.broadcast(ErrorEvent{
			Service: "tracker",
			Error:   event.Error,
		})
	}
}

func (m *Manager) handleProgressEvent(event progress.Event) {
	switch event.Type {
	case progress.EventLogin, progress.EventReset:
		m.broadcast(StreakUpdatedEvent{Streak: event.Record})
		if event.Type == progress.EventLogin && progress.IsMilestone(event.Record.CurrentStreak) {
			m.sendNotification(
				fmt.Sprintf("%d day streak!", event.Record.CurrentStreak),
				progress.StreakBenefitMessage(event.Record.CurrentStreak))
		}

	case progress.EventLevelUp:
		m.broadcast(LevelUpEvent{
			Streak:       event.Record,
			LevelsGained: event.Update.LevelsGained,
		})
		m.sendNotification(
			fmt.Sprintf("Level %d reached", event.Record.Level),
			fmt.Sprintf("%d points to the next level.", progress.PointsRemaining(event.Record)))
	}
}

// handleStoreChange reports writes made by another process. Usage stays
// owned by this process's tracker unless the write was a reset; streak data
// is re-read.
func (m *Manager) handleStoreChange(change store.Change) {
	m.broadcast(StoreChangedEvent{Keys: change.Keys})
	if slices.Contains(change.Keys, store.KeyWeeklyUsage) {
		m.tracker.AdoptExternalReset()
	}
	if slices.Contains(change.Keys, store.KeyStreakData) {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		m.broadcast(StreakUpdatedEvent{Streak: m.progress.Current(ctx)})
	}
}

func (m *Manager) broadcastUsage() {
	m.broadcast(UsageUpdatedEvent{
		Today:  m.tracker.TodayUsage(),
		Weekly: m.tracker.WeeklyUsage(),
	})
}

func (m *Manager) sendNotification(title, body string) {
	m.mu.RLock()
	notify := m.notify
	m.mu.RUnlock()
	if notify == nil {
		return
	}
	if err := notify(title, body); err != nil {
		logger.Debug("notification failed", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Login applies today's streak login and returns the updated record.
func (m *Manager) Login(ctx context.Context) models.StreakData {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return m.progress.GetAndUpdate(ctx)
}

// ResetAll discards tracked usage, and the streak record when withStreak is set.
func (m *Manager) ResetAll(ctx context.Context, withStreak bool) error {
	m.tracker.ResetAllData()
	if !withStreak {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := m.progress.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset streak data: %w", err)
	}
	return nil
}

// RecentSessionEvents returns the newest audit rows.
func (m *Manager) RecentSessionEvents(ctx context.Context, limit int) ([]models.SessionEvent, error) {
	return m.database.GetRecentSessionEvents(ctx, limit)
}

// AuditedMinutes sums the minutes the session log credited to date.
func (m *Manager) AuditedMinutes(ctx context.Context, date string) (int, error) {
	return m.database.TrackedMinutesByDate(ctx, date)
}

// PruneSessionEvents drops session log rows older than the configured
// retention and compacts the database when anything was removed.
// A non-positive retention keeps everything.
func (m *Manager) PruneSessionEvents(ctx context.Context) (int64, error) {
	if m.retention <= 0 {
		return 0, nil
	}
	removed, err := m.database.PruneSessionEvents(ctx, time.Now().Add(-m.retention))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logger.Info("pruned session log", "rows", removed, "retention", m.retention)
		if err := m.database.Vacuum(); err != nil {
			return removed, fmt.Errorf("failed to compact database: %w", err)
		}
	}
	return removed, nil
}

// SessionEventCounts returns audit row counts by type.
func (m *Manager) SessionEventCounts(ctx context.Context) ([]models.SessionEventCount, error) {
	return m.database.CountSessionEvents(ctx)
}

// Tracker returns the tracker service.
func (m *Manager) Tracker() *tracker.Service {
	return m.tracker
}

// Progress returns the progression service.
func (m *Manager) Progress() *progress.Service {
	return m.progress
}

// Store returns the key-value backend.
func (m *Manager) Store() store.Store {
	return m.store
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// InitialState returns the current state of all services for TUI initialization.
func (m *Manager) InitialState(ctx context.Context) Snapshot {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return Snapshot{
		Today:           m.tracker.TodayUsage(),
		Weekly:          m.tracker.WeeklyUsage(),
		Tracking:        m.tracker.IsTracking(),
		SessionDuration: m.tracker.CurrentSessionDuration(),
		Streak:          m.progress.Current(ctx),
	}
}

// Close flushes the open session and closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		if err := m.tracker.Close(); err != nil {
			errs = append(errs, err)
		}

		close(m.stopChan)
		<-m.doneChan

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if err := m.store.Close(); err != nil {
			errs = append(errs, err)
		}

		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	})

	return errors.Join(errs...)
}
