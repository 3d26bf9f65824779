// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/j-veylop/study-dashboard-tui/internal/models"
	"github.com/j-veylop/study-dashboard-tui/internal/services"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Usage   bool
	Streak  bool
}

// State is shared by the root model and every tab. Tabs only read it.
type State struct {
	mu sync.RWMutex

	Today  models.DailyUsage
	Weekly models.WeeklyUsage
	Streak models.StreakData

	Tracking        bool
	SessionDuration time.Duration

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState returns an empty state that is still loading.
func NewState() *State {
	return &State{
		Weekly:        make(models.WeeklyUsage),
		Streak:        models.DefaultStreakData(),
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "usage":
		s.Loading.Usage = loading
	case "streak":
		s.Loading.Streak = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial || s.Loading.Usage || s.Loading.Streak
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, "initial")
	}
	if s.Loading.Usage {
		resources = append(resources, "usage")
	}
	if s.Loading.Streak {
		resources = append(resources, "streak")
	}
	return resources
}

// ApplySnapshot replaces usage, tracking and streak data at once.
func (s *State) ApplySnapshot(snap services.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Today = snap.Today
	s.Weekly = snap.Weekly.Clone()
	s.Tracking = snap.Tracking
	s.SessionDuration = snap.SessionDuration
	s.Streak = snap.Streak
	s.LastUpdated = time.Now()
}

// SetUsage replaces today's record and the full usage map.
func (s *State) SetUsage(today models.DailyUsage, weekly models.WeeklyUsage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Today = today
	s.Weekly = weekly.Clone()
	s.LastUpdated = time.Now()
}

// GetToday returns today's usage record.
func (s *State) GetToday() models.DailyUsage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Today
}

// GetWeekly returns a copy of the usage map.
func (s *State) GetWeekly() models.WeeklyUsage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Weekly.Clone()
}

// SetTracking records whether a session is open and how long it has run.
func (s *State) SetTracking(tracking bool, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Tracking = tracking
	if !tracking {
		duration = 0
	}
	s.SessionDuration = duration
}

// IsTracking reports whether a session is open.
func (s *State) IsTracking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Tracking
}

// GetSessionDuration returns the last reported session duration.
func (s *State) GetSessionDuration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SessionDuration
}

// SetStreak replaces the progression record.
func (s *State) SetStreak(streak models.StreakData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Streak = streak
}

// GetStreak returns the progression record.
func (s *State) GetStreak() models.StreakData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Streak
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = activeNotifications(s.notifications)
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeNotifications(s.notifications)
}

func activeNotifications(all []Notification) []Notification {
	active := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// GetLastUpdated returns the last time usage data changed.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}
