package app

import (
	"testing"
	"time"

	"github.com/j-veylop/study-dashboard-tui/internal/models"
	"github.com/j-veylop/study-dashboard-tui/internal/services"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if !s.Loading.Initial {
		t.Error("Initial loading should be true")
	}
	if s.Weekly == nil {
		t.Error("Weekly should be initialized")
	}
	if s.GetStreak().Level != 1 {
		t.Errorf("Default level = %d, want 1", s.GetStreak().Level)
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()
	s.SetLoading("initial", false)

	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}

	s.SetLoading("usage", true)
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true")
	}
	if !s.Loading.Usage {
		t.Error("Loading.Usage should be true")
	}

	s.SetLoading("streak", true)
	resources := s.GetLoadingResources()
	if len(resources) != 2 {
		t.Errorf("GetLoadingResources len = %d, want 2", len(resources))
	}

	s.SetLoading("usage", false)
	s.SetLoading("streak", false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false after clearing")
	}

	// Unknown resources are ignored
	s.SetLoading("bogus", true)
	if s.AnyLoading() {
		t.Error("Unknown resource should not affect loading")
	}
}

func TestState_ApplySnapshot(t *testing.T) {
	s := NewState()
	today := models.DailyUsage{Date: "2024-03-12"}
	today.SetTotal(95)
	weekly := models.WeeklyUsage{"2024-03-12": today}

	s.ApplySnapshot(services.Snapshot{
		Today:           today,
		Weekly:          weekly,
		Tracking:        true,
		SessionDuration: 3 * time.Minute,
		Streak:          models.StreakData{CurrentStreak: 4, Level: 2},
	})

	if got := s.GetToday().TotalMinutes; got != 95 {
		t.Errorf("Today total = %d, want 95", got)
	}
	if !s.IsTracking() {
		t.Error("Tracking should be true")
	}
	if s.GetSessionDuration() != 3*time.Minute {
		t.Errorf("SessionDuration = %v", s.GetSessionDuration())
	}
	if s.GetStreak().CurrentStreak != 4 {
		t.Error("Streak should be applied")
	}
	if s.GetLastUpdated().IsZero() {
		t.Error("LastUpdated should be set")
	}

	// The state holds its own copy of the map
	weekly["2024-03-13"] = models.NewDailyUsage("2024-03-13")
	if len(s.GetWeekly()) != 1 {
		t.Error("State should not alias the snapshot map")
	}
}

func TestState_SetUsage(t *testing.T) {
	s := NewState()
	today := models.NewDailyUsage("2024-03-12")
	today.Add(30)

	s.SetUsage(today, models.WeeklyUsage{today.Date: today})

	if s.GetToday().Format() != "30m" {
		t.Errorf("Today = %s, want 30m", s.GetToday().Format())
	}
	got := s.GetWeekly()
	got["x"] = models.DailyUsage{}
	if len(s.GetWeekly()) != 1 {
		t.Error("GetWeekly should return a copy")
	}
}

func TestState_SetTracking(t *testing.T) {
	s := NewState()

	s.SetTracking(true, time.Minute)
	if !s.IsTracking() || s.GetSessionDuration() != time.Minute {
		t.Error("Tracking state not recorded")
	}

	s.SetTracking(false, time.Minute)
	if s.IsTracking() {
		t.Error("Tracking should be false")
	}
	if s.GetSessionDuration() != 0 {
		t.Error("Duration should reset when tracking stops")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "test", time.Minute)
	if id == "" {
		t.Error("AddNotification returned empty ID")
	}

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("GetNotifications len = %d, want 1", len(notifs))
	}
	if notifs[0].Message != "test" {
		t.Errorf("Notification message = %s, want test", notifs[0].Message)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Notification should be removed")
	}
}

func TestState_NotificationLimit(t *testing.T) {
	s := NewState()
	for i := 0; i < maxNotifications+5; i++ {
		s.AddNotification(NotificationInfo, "n", 0)
	}
	if got := len(s.GetNotifications()); got != maxNotifications {
		t.Errorf("Notifications = %d, want %d", got, maxNotifications)
	}

	s.ClearAllNotifications()
	if len(s.GetNotifications()) != 0 {
		t.Error("ClearAllNotifications should empty the list")
	}
}

func TestState_ClearExpiredNotifications(t *testing.T) {
	s := NewState()

	s.notifications = append(s.notifications, Notification{
		ID:        "expired",
		CreatedAt: time.Now().Add(-2 * time.Minute),
		Duration:  time.Minute,
	})
	s.notifications = append(s.notifications, Notification{
		ID:        "active",
		CreatedAt: time.Now(),
		Duration:  time.Minute,
	})

	s.ClearExpiredNotifications()

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != "active" {
		t.Errorf("Expected active notification, got %s", notifs[0].ID)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("loading...")
	notifs := s.GetNotifications()
	if len(notifs) != 1 || notifs[0].ID != LoadingNotificationID {
		t.Fatal("Loading notification not added")
	}

	s.SetLoadingNotification("still loading")
	notifs = s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Loading notification should be replaced, got %d", len(notifs))
	}
	if notifs[0].Message != "still loading" {
		t.Errorf("Message = %s, want still loading", notifs[0].Message)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("Loading notification should be cleared")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		t    NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("NotificationType(%d).String() = %s, want %s", tt.t, got, tt.want)
		}
	}
}
