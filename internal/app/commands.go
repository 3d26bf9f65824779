package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/study-dashboard-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadInitialData opens the session and records today's login.
func loadInitialData(mgr *services.Manager) tea.Cmd {
	return tea.Sequence(
		startTrackingCmd(mgr),
		loadSnapshotCmd(mgr),
		loginCmd(mgr),
	)
}

// startTrackingCmd opens a session for the dashboard being shown.
func startTrackingCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		mgr.Tracker().StartTracking()
		return nil
	}
}

// loadSnapshotCmd returns a command that reads the current service state.
func loadSnapshotCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return SnapshotLoadedMsg{Snapshot: mgr.InitialState(context.Background())}
	}
}

// loginCmd returns a command that applies today's streak login.
func loginCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return LoginCompletedMsg{Streak: mgr.Login(context.Background())}
	}
}

// toggleTrackingCmd starts the session when closed and stops it when open.
func toggleTrackingCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		t := mgr.Tracker()
		if t.IsTracking() {
			t.StopTracking()
		} else {
			t.StartTracking()
		}
		return TrackingToggledMsg{Tracking: t.IsTracking()}
	}
}

// setVisibleCmd forwards a focus change to the tracker.
func setVisibleCmd(mgr *services.Manager, visible bool) tea.Cmd {
	return func() tea.Msg {
		mgr.Tracker().SetVisible(visible)
		return nil
	}
}

// resetCmd discards tracked usage and optionally the streak record.
func resetCmd(mgr *services.Manager, withStreak bool) tea.Cmd {
	return func() tea.Msg {
		err := mgr.ResetAll(context.Background(), withStreak)
		return ResetResultMsg{WithStreak: withStreak, Error: err}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     t,
			Message:  message,
			Duration: d,
		}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}
