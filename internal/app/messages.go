package app

import (
	"time"

	"github.com/j-veylop/study-dashboard-tui/internal/models"
	"github.com/j-veylop/study-dashboard-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// SnapshotLoadedMsg carries the full service state.
type SnapshotLoadedMsg struct {
	Snapshot services.Snapshot
}

// LoginCompletedMsg carries the progression record after today's login.
type LoginCompletedMsg struct {
	Streak models.StreakData
}

// ToggleTrackingMsg requests starting or stopping the session manually.
type ToggleTrackingMsg struct{}

// TrackingToggledMsg reports the tracking state after a toggle.
type TrackingToggledMsg struct {
	Tracking bool
}

// VisibilityChangedMsg reports that the terminal gained or lost focus.
type VisibilityChangedMsg struct {
	Visible bool
}

// ResetRequestMsg asks for tracked data to be discarded.
type ResetRequestMsg struct {
	WithStreak bool
}

// ResetResultMsg contains the result of a reset.
type ResetResultMsg struct {
	WithStreak bool
	Error      error
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
