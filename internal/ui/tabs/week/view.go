package week

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/study-dashboard-tui/internal/models"
	"github.com/j-veylop/study-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/study-dashboard-tui/internal/ui/styles"
)

// View renders the week tab.
func (m *Model) View() string {
	days := m.state.GetWeekly().Week(m.now())
	m.updateTableData()

	var sections []string
	sections = append(sections, m.renderTitle(days))
	if m.confirmReset {
		sections = append(sections, m.renderResetConfirm())
	}
	sections = append(sections, m.renderChart(days))
	sections = append(sections, m.renderSummary(days))
	sections = append(sections, m.renderTable())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 50)
}

func (m *Model) renderTitle(days []models.WeekDay) string {
	title := styles.TitleStyle.Render("This Week")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%s to %s", days[0].Date, days[len(days)-1].Date))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderChart(days []models.WeekDay) string {
	width := m.cardWidth()
	chart := components.RenderWeekChart(days, max(width-16, 20), 6)
	return styles.CardStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, styles.CardTitleStyle.Render("Hours studied"), chart),
	)
}

func (m *Model) renderSummary(days []models.WeekDay) string {
	total, elapsed := 0, 0
	best := days[0]
	for i, d := range days {
		total += d.Minutes
		if d.Minutes > best.Minutes {
			best = d
		}
		if d.IsToday {
			elapsed = i + 1
		}
	}
	if elapsed == 0 {
		elapsed = len(days)
	}

	rows := []string{
		fmt.Sprintf("Total:         %s", styles.InfoTextStyle.Render(models.FormatMinutes(total))),
		fmt.Sprintf("Daily average: %s", styles.InfoTextStyle.Render(models.FormatMinutes(total/elapsed))),
	}
	if best.Minutes > 0 {
		rows = append(rows, fmt.Sprintf("Best day:      %s",
			styles.SuccessTextStyle.Render(fmt.Sprintf("%s (%s)", best.Day, models.FormatMinutes(best.Minutes)))))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderTable() string {
	return styles.CardStyle.Width(m.cardWidth()).Render(m.table.View())
}

func (m *Model) renderResetConfirm() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.WarningTextStyle.Bold(true).Render("Reset all tracked study time?"),
		"",
		"Every day's total is cleared. Your streak and level are kept.",
		"",
		styles.HelpStyle.Render("Press 'y' to confirm, 'n' or Esc to cancel"),
	)
	return styles.ModalContentStyle.Render(content)
}
