// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/study-dashboard-tui/internal/models"
	"github.com/j-veylop/study-dashboard-tui/internal/ui/styles"
)

// ChartPrimaryColor is the accent used for chart bars.
var ChartPrimaryColor = lipgloss.Color("#7D56F4")

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	width = max(width, 20)
	height = max(height, 3)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Precision(1),
		asciigraph.Caption(caption),
	)
}

// RenderWeekChart plots hours studied for each day of a Monday..Sunday week.
func RenderWeekChart(days []models.WeekDay, width, height int) string {
	if len(days) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	hours := make([]float64, len(days))
	labels := make([]string, len(days))
	for i, d := range days {
		hours[i] = float64(d.Minutes) / 60
		labels[i] = d.Day
	}

	chart := RenderLineChart(hours, width, height, "hours per day")
	return lipgloss.JoinVertical(lipgloss.Left, chart, styles.HelpStyle.Render(strings.Join(labels, "  ")))
}

// RenderBarChart creates a simple horizontal bar chart. format renders each
// value; nil prints one decimal.
func RenderBarChart(values []float64, labels []string, width int, format func(float64) string) string {
	if len(values) == 0 {
		return ""
	}
	if format == nil {
		format = func(v float64) string { return fmt.Sprintf("%.1f", v) }
	}

	// Find max value for scaling
	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	barWidth := max(width-maxLabelLen-12, 10) // Leave room for label and value
	barStyle := lipgloss.NewStyle().Foreground(ChartPrimaryColor)

	var lines []string
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		barLen := max(int((v/maxVal)*float64(barWidth)), 0)
		bar := barStyle.Render(strings.Repeat("█", barLen))

		lines = append(lines, fmt.Sprintf("%*s │%s %s", maxLabelLen, label, bar, format(v)))
	}

	return strings.Join(lines, "\n")
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderWeekSparkline renders one spark per day with its label, e.g. "Mon ▃ Tue █".
func RenderWeekSparkline(days []models.WeekDay) string {
	maxVal := 0
	for _, d := range days {
		maxVal = max(maxVal, d.Minutes)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	parts := make([]string, 0, len(days))
	for _, d := range days {
		intensity := min(max(d.Minutes*(len(sparkChars)-1)/maxVal, 0), len(sparkChars)-1)
		spark := string(sparkChars[intensity])
		if d.IsToday {
			spark = styles.StreakStyle.Render(spark)
		}
		parts = append(parts, fmt.Sprintf("%s %s", d.Day, spark))
	}

	return strings.Join(parts, " ")
}
