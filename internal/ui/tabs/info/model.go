// Package info provides the info tab for the Study Dashboard TUI.
package info

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/study-dashboard-tui/internal/app"
	"github.com/j-veylop/study-dashboard-tui/internal/config"
	"github.com/j-veylop/study-dashboard-tui/internal/models"
)

const (
	countsTimeout = 3 * time.Second
	// Only the active tab receives messages, so counts are refreshed
	// lazily once they are older than this.
	countsMaxAge = 10 * time.Second
)

// EventCounter reports how many session audit rows exist per type.
type EventCounter interface {
	SessionEventCounts(ctx context.Context) ([]models.SessionEventCount, error)
}

type countsLoadedMsg struct {
	counts []models.SessionEventCount
	err    error
}

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
}

// defaultKeyMap returns the default key bindings for the info tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload counts"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the info tab state.
type Model struct {
	state     *app.State
	config    *config.Config
	events    EventCounter
	counts    []models.SessionEventCount
	countsErr error
	requested time.Time
	now       func() time.Time
	width     int
	height    int
	keys      keyMap
	viewport  viewport.Model
}

// New creates a new info model. events may be nil.
func New(state *app.State, cfg *config.Config, events EventCounter) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		events:   events,
		now:      time.Now,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init loads the audit counts.
func (m *Model) Init() tea.Cmd {
	return m.loadCountsCmd()
}

func (m *Model) loadCountsCmd() tea.Cmd {
	if m.events == nil {
		return nil
	}
	m.requested = m.now()
	events := m.events
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), countsTimeout)
		defer cancel()
		counts, err := events.SessionEventCounts(ctx)
		return countsLoadedMsg{counts: counts, err: err}
	}
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case countsLoadedMsg:
		m.counts = msg.counts
		m.countsErr = msg.err

	case app.ResetResultMsg:
		return m, m.loadCountsCmd()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Refresh) {
			return m, m.loadCountsCmd()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, tea.Batch(cmd, m.refreshIfStale())
	}

	return m, m.refreshIfStale()
}

func (m *Model) refreshIfStale() tea.Cmd {
	if m.now().Sub(m.requested) < countsMaxAge {
		return nil
	}
	return m.loadCountsCmd()
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Refresh},
	}
}
