package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/study-dashboard-tui/internal/ui/styles"
)

// AnimationTickMsg advances ProgressBar animations.
type AnimationTickMsg time.Time

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return AnimationTickMsg(t)
	})
}

// ProgressBar renders a labelled gradient bar that eases toward its target.
type ProgressBar struct {
	progress       progress.Model
	isAnimating    bool
	targetPercent  float64
	currentPercent float64
}

// NewProgressBar creates a bar with the level gradient.
func NewProgressBar() ProgressBar {
	return NewProgressBarWithWidth(30)
}

// NewProgressBarWithWidth creates a bar with a specific width.
func NewProgressBarWithWidth(width int) ProgressBar {
	p := progress.New(
		progress.WithScaledGradient("#5FAFFF", "#7D56F4"),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return ProgressBar{progress: p}
}

// Update steps the animation toward the target percentage.
func (b ProgressBar) Update(msg tea.Msg) (ProgressBar, tea.Cmd) {
	if _, ok := msg.(AnimationTickMsg); !ok || !b.isAnimating {
		return b, nil
	}

	diff := b.targetPercent - b.currentPercent
	if diff == 0 {
		b.isAnimating = false
		return b, nil
	}

	step := max(abs(diff)/10, 0.5)
	if diff > 0 {
		b.currentPercent = min(b.currentPercent+step, b.targetPercent)
	} else {
		b.currentPercent = max(b.currentPercent-step, b.targetPercent)
	}
	return b, animationTick()
}

// SetPercent sets the target percentage and starts animating toward it.
func (b *ProgressBar) SetPercent(percent float64) tea.Cmd {
	b.targetPercent = min(max(percent, 0), 100)
	if b.isAnimating || b.currentPercent == b.targetPercent {
		return nil
	}
	b.isAnimating = true
	return animationTick()
}

// Percent returns the percentage currently drawn.
func (b ProgressBar) Percent() float64 {
	return b.currentPercent
}

// Target returns the percentage the bar is moving toward.
func (b ProgressBar) Target() float64 {
	return b.targetPercent
}

// View renders the bar with a label on the left and the percentage on the right.
func (b ProgressBar) View(label string, width int) string {
	b.progress.Width = max(width-30, 10) // Reserve space for label and percentage

	bar := b.progress.ViewAs(b.currentPercent / 100)

	percentStr := styles.GetProgressStyle(b.currentPercent).
		Width(6).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", b.currentPercent))

	labelStr := styles.ProgressLabelStyle.Width(15).Render(label)

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, " ", percentStr)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
