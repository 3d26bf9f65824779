package week

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/study-dashboard-tui/internal/app"
	"github.com/j-veylop/study-dashboard-tui/internal/models"
)

func newTestModel(t *testing.T) (*Model, *app.State) {
	t.Helper()
	state := app.NewState()
	state.SetLoading("initial", false)
	m := New(state)
	// Wednesday
	m.now = func() time.Time { return time.Date(2024, 3, 13, 15, 0, 0, 0, time.Local) }
	m.SetSize(100, 60)
	return m, state
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func usage(date string, minutes int) models.DailyUsage {
	d := models.NewDailyUsage(date)
	d.Add(minutes)
	return d
}

func TestNew(t *testing.T) {
	m := New(app.NewState())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
}

func TestModel_View(t *testing.T) {
	m, state := newTestModel(t)
	state.SetUsage(usage("2024-03-13", 30), models.WeeklyUsage{
		"2024-03-11": usage("2024-03-11", 120),
		"2024-03-12": usage("2024-03-12", 45),
		"2024-03-13": usage("2024-03-13", 30),
		"2024-03-04": usage("2024-03-04", 600), // previous week
	})

	view := m.View()

	checks := []string{
		"This Week",
		"2024-03-11 to 2024-03-17",
		"Hours studied",
		"3h 15m",      // total
		"1h 5m",       // average over Mon..Wed
		"Mon (2h 0m)", // best day
		"2024-03-13",  // table row
	}
	for _, want := range checks {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
	if strings.Contains(view, "10h") {
		t.Error("Previous week should not be counted")
	}
}

func TestModel_ViewEmpty(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	if !strings.Contains(view, "Total:") {
		t.Error("Empty week should still render the summary")
	}
	if strings.Contains(view, "Best day") {
		t.Error("Best day should be hidden when nothing was studied")
	}
}

func TestModel_ResetConfirm(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(keyRune('x'))
	if cmd != nil {
		t.Error("x should only open the confirmation")
	}
	if !m.IsConfirming() {
		t.Fatal("x should open the confirmation")
	}
	if !strings.Contains(m.View(), "Reset all tracked study time?") {
		t.Error("View should show the confirmation")
	}
	if len(m.ShortHelp()) != 2 {
		t.Error("Help should show confirm bindings")
	}

	_, cmd = m.Update(keyRune('y'))
	if m.IsConfirming() {
		t.Error("Confirmation should close after y")
	}
	if cmd == nil {
		t.Fatal("y should return a command")
	}
	msg, ok := cmd().(app.ResetRequestMsg)
	if !ok {
		t.Fatal("y should request a reset")
	}
	if msg.WithStreak {
		t.Error("Week reset must keep the streak")
	}
}

func TestModel_ResetCancel(t *testing.T) {
	m, _ := newTestModel(t)

	for _, k := range []tea.KeyMsg{keyRune('n'), {Type: tea.KeyEsc}} {
		m.Update(keyRune('x'))
		_, cmd := m.Update(k)
		if cmd != nil {
			t.Errorf("%s should not emit a command", k)
		}
		if m.IsConfirming() {
			t.Errorf("%s should cancel the confirmation", k)
		}
	}

	// Other keys leave the confirmation open
	m.Update(keyRune('x'))
	m.Update(keyRune('q'))
	if !m.IsConfirming() {
		t.Error("Unrelated keys should not close the confirmation")
	}
}

func TestModel_TableNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.table.Cursor() != 1 {
		t.Errorf("Cursor = %d, want 1", m.table.Cursor())
	}
	if len(m.table.Rows()) != 7 {
		t.Errorf("Rows = %d, want 7", len(m.table.Rows()))
	}

	// Non-key messages are ignored
	if _, cmd := m.Update(nil); cmd != nil {
		t.Error("nil message should be ignored")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp should not be empty")
	}
}
