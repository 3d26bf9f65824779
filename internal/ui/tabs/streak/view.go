package streak

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/study-dashboard-tui/internal/models"
	"github.com/j-veylop/study-dashboard-tui/internal/services/progress"
	"github.com/j-veylop/study-dashboard-tui/internal/ui/styles"
)

// View renders the streak tab.
func (m *Model) View() string {
	record := m.state.GetStreak()

	sections := []string{
		m.renderTitle(record),
		m.renderStreakCard(record),
		m.renderLevelCard(record),
		m.renderRulesCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 80)
}

func (m *Model) renderTitle(record models.StreakData) string {
	title := styles.TitleStyle.Render("Streak & Level")
	subtitle := styles.HelpStyle.Render(progress.StreakBenefitMessage(record.CurrentStreak))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().Width(16).Foreground(styles.TextMuted)
	return labelStyle.Render(label+":") + " " + value
}

func (m *Model) renderStreakCard(record models.StreakData) string {
	current := styles.GetStreakStyle(record.CurrentStreak).
		Render(fmt.Sprintf("🔥 %d", record.CurrentStreak))

	rows := []string{
		styles.CardTitleStyle.Render("Login streak"),
		m.renderRow("Current", current),
		m.renderRow("Longest", styles.StreakStyle.Render(fmt.Sprintf("%d", record.LongestStreak))),
		m.renderRow("Last login", progress.FormatStreakDate(record.LastLoginDate)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderLevelCard(record models.StreakData) string {
	width := m.cardWidth()

	rows := []string{
		styles.CardTitleStyle.Render("Level"),
		m.renderRow("Level", styles.LevelStyle.Render(fmt.Sprintf("%d", record.Level))),
		m.renderRow("Total points", styles.LevelStyle.Render(fmt.Sprintf("%d", record.TotalPoints))),
		m.renderRow("Next level at", fmt.Sprintf("%d", progress.PointsForLevel(record.Level))),
		"",
		m.levelBar.View(fmt.Sprintf("To level %d", record.Level+1), width-4),
		styles.HelpStyle.Render(fmt.Sprintf("%d points remaining", progress.PointsRemaining(record))),
	}

	return styles.CardStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRulesCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("How it works"),
		fmt.Sprintf("• Each new day you open the dashboard earns %d × your streak in points.", progress.PointsPerStreakDay),
		fmt.Sprintf("• Every %d points raises your level.", models.PointsPerLevel),
		"• Opening the dashboard twice on the same day earns nothing extra.",
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
