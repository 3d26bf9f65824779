// Package streak provides the tab showing login streak, points and level.
package streak

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/study-dashboard-tui/internal/app"
	"github.com/j-veylop/study-dashboard-tui/internal/services/progress"
	"github.com/j-veylop/study-dashboard-tui/internal/ui/components"
)

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

// Model represents the streak tab state.
type Model struct {
	state    *app.State
	levelBar components.ProgressBar
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
}

// New creates a new streak model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		levelBar: components.NewProgressBar(),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the streak tab.
func (m *Model) Init() tea.Cmd {
	return m.syncLevelBar()
}

// Update handles messages for the streak tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case components.AnimationTickMsg:
		var cmd tea.Cmd
		m.levelBar, cmd = m.levelBar.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.syncLevelBar())
	return m, tea.Batch(cmds...)
}

func (m *Model) syncLevelBar() tea.Cmd {
	return m.levelBar.SetPercent(float64(progress.LevelProgressPercent(m.state.GetStreak())))
}

// SetSize sets the available size for the streak tab.
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
