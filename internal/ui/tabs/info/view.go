package info

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/study-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/study-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/study-dashboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderConfigCard())
	sections = append(sections, m.renderAuditCard())
	sections = append(sections, m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 80)
}

// renderConfigCard renders the configuration card.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))

	if m.config != nil {
		rows = append(rows, m.renderConfigRow("Store", m.config.StoreBackend))
		switch m.config.StoreBackend {
		case "file":
			rows = append(rows, m.renderConfigRow("Store File", m.config.StoreFilePath))
		case "redis":
			rows = append(rows, m.renderConfigRow("Redis", fmt.Sprintf("%s db=%d prefix=%s",
				m.config.RedisAddr, m.config.RedisDB, m.config.RedisPrefix)))
		}
		rows = append(rows, m.renderConfigRow("Database", m.config.DatabasePath))
		rows = append(rows, m.renderConfigRow("Flush Every", m.config.FlushInterval.String()))
		rows = append(rows, m.renderConfigRow("Day Check", m.config.DayCheckInterval.String()))
		rows = append(rows, m.renderConfigRow("Keep Sessions", m.config.EventRetention.String()))
		rows = append(rows, m.renderConfigRow("Notifications", fmt.Sprintf("%t", m.config.Notifications)))
		rows = append(rows, m.renderConfigRow("Log File", m.config.LogPath))
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAuditCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Session Log"))

	switch {
	case m.countsErr != nil:
		rows = append(rows, styles.ErrorTextStyle.Render(fmt.Sprintf("Failed to read session log: %v", m.countsErr)))
	case len(m.counts) == 0:
		rows = append(rows, styles.HelpStyle.Render("No sessions recorded yet"))
	default:
		values := make([]float64, len(m.counts))
		labels := make([]string, len(m.counts))
		for i, c := range m.counts {
			values[i] = float64(c.Count)
			labels[i] = string(c.Type)
		}
		rows = append(rows, components.RenderBarChart(values, labels, m.cardWidth()-4, func(v float64) string {
			return fmt.Sprintf("%.0f", v)
		}))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About Study Dashboard TUI"))

	rows = append(rows, m.renderConfigRow("Version", version.GetVersion()))
	rows = append(rows, m.renderConfigRow("Build Date", version.GetDate()))
	rows = append(rows, m.renderConfigRow("Git Commit", version.GetCommit()))
	rows = append(rows, m.renderConfigRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))
	rows = append(rows, "")

	today := m.state.GetToday()
	rows = append(rows, fmt.Sprintf("Studied today: %s", styles.InfoTextStyle.Render(today.Format())))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
