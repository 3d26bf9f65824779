// Package week provides the tab with the Monday to Sunday study breakdown.
package week

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/study-dashboard-tui/internal/app"
	"github.com/j-veylop/study-dashboard-tui/internal/models"
	"github.com/j-veylop/study-dashboard-tui/internal/ui/styles"
)

// keyMap defines the key bindings specific to the week tab.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Reset   key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Reset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset study time"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}

// Model represents the week tab state.
type Model struct {
	state        *app.State
	table        table.Model
	keys         keyMap
	now          func() time.Time
	width        int
	height       int
	confirmReset bool
}

// New creates a new week model.
func New(state *app.State) *Model {
	columns := []table.Column{
		{Title: "Day", Width: 5},
		{Title: "Date", Width: 12},
		{Title: "Studied", Width: 10},
		{Title: "Minutes", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	t.SetStyles(table.Styles{
		Header:   styles.TableHeaderStyle,
		Cell:     styles.TableCellStyle,
		Selected: styles.TableSelectedStyle,
	})

	return &Model{
		state: state,
		table: t,
		keys:  defaultKeyMap(),
		now:   time.Now,
	}
}

// Init initializes the week tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the week tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.confirmReset {
		return m.updateResetConfirm(keyMsg)
	}

	if key.Matches(keyMsg, m.keys.Reset) {
		m.confirmReset = true
		return m, nil
	}

	m.updateTableData()
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(keyMsg)
	return m, cmd
}

// updateResetConfirm handles the reset confirmation.
func (m *Model) updateResetConfirm(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.confirmReset = false
		return m, func() tea.Msg {
			return app.ResetRequestMsg{WithStreak: false}
		}
	case key.Matches(msg, m.keys.Cancel):
		m.confirmReset = false
	}
	return m, nil
}

// IsConfirming reports whether the reset confirmation is showing.
func (m *Model) IsConfirming() bool {
	return m.confirmReset
}

// updateTableData rebuilds the rows for the current week.
func (m *Model) updateTableData() {
	days := m.state.GetWeekly().Week(m.now())
	rows := make([]table.Row, 0, len(days))
	for _, d := range days {
		day := d.Day
		if d.IsToday {
			day = "• " + day
		}
		rows = append(rows, table.Row{
			day,
			d.Date,
			models.FormatMinutes(d.Minutes),
			strconv.Itoa(d.Minutes),
		})
	}
	m.table.SetRows(rows)
}

// SetSize sets the available size for the week tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.confirmReset {
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Reset}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Reset, m.keys.Confirm, m.keys.Cancel},
	}
}
