package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/study-dashboard-tui/internal/ui/styles"
)

var loadingLabelStyle = lipgloss.NewStyle().Foreground(styles.TextSecondary)

// LoadingSpinner is the placeholder a tab shows until its first snapshot arrives.
type LoadingSpinner struct {
	model spinner.Model
	label string
}

// NewSpinner returns a spinner that renders label next to its frame.
func NewSpinner(label string) LoadingSpinner {
	m := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
	)
	return LoadingSpinner{model: m, label: label}
}

func (l LoadingSpinner) Init() tea.Cmd {
	return l.model.Tick
}

func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.model, cmd = l.model.Update(msg)
	return l, cmd
}

// View renders the current frame followed by the label.
func (l LoadingSpinner) View() string {
	if l.label == "" {
		return l.model.View()
	}
	return l.model.View() + " " + loadingLabelStyle.Render(l.label)
}

// Centered renders View in the middle of a width x height area.
func (l LoadingSpinner) Centered(width, height int) string {
	return styles.CenterBoth(l.View(), width, height)
}
