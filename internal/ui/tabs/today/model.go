// Package today provides the tab showing today's study time and the open session.
package today

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/study-dashboard-tui/internal/app"
	"github.com/j-veylop/study-dashboard-tui/internal/services/progress"
	"github.com/j-veylop/study-dashboard-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the today tab.
type keyMap struct {
	Up   key.Binding
	Down key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the today tab state.
type Model struct {
	state    *app.State
	spinner  components.LoadingSpinner
	levelBar components.ProgressBar
	keys     keyMap
	viewport viewport.Model
	now      func() time.Time
	width    int
	height   int
}

// New creates a new today model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Loading study time..."),
		levelBar: components.NewProgressBar(),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		now:      time.Now,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case components.AnimationTickMsg:
		var cmd tea.Cmd
		m.levelBar, cmd = m.levelBar.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	// The bar follows the shared state; SetPercent is a no-op when unchanged.
	cmds = append(cmds, m.levelBar.SetPercent(float64(progress.LevelProgressPercent(m.state.GetStreak()))))

	return m, tea.Batch(cmds...)
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keys.Up, m.keys.Down}}
}
