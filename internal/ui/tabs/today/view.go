package today

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/study-dashboard-tui/internal/models"
	"github.com/j-veylop/study-dashboard-tui/internal/services/progress"
	"github.com/j-veylop/study-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/study-dashboard-tui/internal/ui/styles"
)

// View renders the today tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.spinner.Centered(m.width, m.height)
	}

	sections := []string{
		m.renderTitle(),
		m.renderTimeCard(),
		m.renderWeekCard(),
		m.renderProgressCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 40), 80)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Today")
	subtitle := styles.HelpStyle.Render(m.now().Format("Monday, January 2"))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderTimeCard() string {
	today := m.state.GetToday()

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Study time"))
	rows = append(rows, styles.BigNumberStyle.Render(today.Format()))
	rows = append(rows, "")
	rows = append(rows, m.renderTrackingStatus())

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderTrackingStatus() string {
	if !m.state.IsTracking() {
		return styles.TrackingPausedStyle.Render("○ Paused") +
			styles.HelpStyle.Render("  press s to resume")
	}
	session := models.FormatMinutes(int(m.state.GetSessionDuration().Minutes()))
	return styles.TrackingActiveStyle.Render("● Tracking") +
		styles.HelpStyle.Render(fmt.Sprintf("  current session %s", session))
}

func (m *Model) renderWeekCard() string {
	days := m.state.GetWeekly().Week(m.now())

	total := 0
	for _, d := range days {
		total += d.Minutes
	}

	rows := []string{
		styles.CardTitleStyle.Render("This week"),
		components.RenderWeekSparkline(days),
		"",
		fmt.Sprintf("Total: %s", styles.InfoTextStyle.Render(models.FormatMinutes(total))),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderProgressCard() string {
	streak := m.state.GetStreak()
	width := m.cardWidth()

	streakLine := styles.GetStreakStyle(streak.CurrentStreak).
		Render(fmt.Sprintf("🔥 %d day streak", streak.CurrentStreak))

	rows := []string{
		styles.CardTitleStyle.Render("Progress"),
		streakLine,
		"",
		m.levelBar.View(fmt.Sprintf("Level %d", streak.Level), width-4),
		styles.HelpStyle.Render(fmt.Sprintf("%d points to level %d", progress.PointsRemaining(streak), streak.Level+1)),
	}

	return styles.CardStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
