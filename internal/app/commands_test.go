package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/study-dashboard-tui/internal/services"
)

func TestTickCmd(t *testing.T) {
	if tickCmd(time.Second) == nil {
		t.Error("tickCmd returned nil")
	}
}

func TestNotifyCmds(t *testing.T) {
	tests := []struct {
		name     string
		cmd      func(string) tea.Cmd
		wantType NotificationType
		wantDur  time.Duration
	}{
		{"success", notifySuccessCmd, NotificationSuccess, DefaultNotificationDuration},
		{"error", notifyErrorCmd, NotificationError, LongNotificationDuration},
		{"info", notifyInfoCmd, NotificationInfo, QuickNotificationDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.cmd("hello")()
			add, ok := msg.(AddNotificationMsg)
			if !ok {
				t.Fatalf("Expected AddNotificationMsg, got %T", msg)
			}
			if add.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", add.Type, tt.wantType)
			}
			if add.Duration != tt.wantDur {
				t.Errorf("Duration = %v, want %v", add.Duration, tt.wantDur)
			}
			if add.Message != "hello" {
				t.Errorf("Message = %s, want hello", add.Message)
			}
		})
	}
}

func TestClearNotificationCmd(t *testing.T) {
	msg := clearNotificationCmd("id", time.Millisecond)()
	if remove, ok := msg.(RemoveNotificationMsg); !ok || remove.ID != "id" {
		t.Errorf("Expected RemoveNotificationMsg for id, got %#v", msg)
	}
}

func TestWaitForServiceEventCmd_Closed(t *testing.T) {
	ch := make(chan services.ServiceEvent)
	close(ch)
	if msg := waitForServiceEventCmd(ch)(); msg != nil {
		t.Errorf("Closed channel should yield nil, got %T", msg)
	}
}
