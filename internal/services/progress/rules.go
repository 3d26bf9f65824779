// Package progress implements the login streak, points and level rules.
package progress

import (
	"fmt"
	"math"
	"time"

	"github.com/j-veylop/study-dashboard-tui/internal/models"
)

// PointsPerStreakDay is multiplied by the streak to get the points for a login.
const PointsPerStreakDay = 10

// Streak tiers used by StreakBenefitMessage.
const (
	streakTierEarning     = 2
	streakTierConsistency = 5
	streakTierMaximum     = 10
)

// Update summarizes what Apply changed.
type Update struct {
	Applied      bool
	PointsEarned int
	LevelsGained int
}

// Apply performs one login on day today. A second login on the same day
// returns the record unchanged. Levels advance while totalPoints reaches the
// next threshold, so a large award can skip several levels.
func Apply(record models.StreakData, today string) (models.StreakData, Update) {
	var upd Update
	record = sanitize(record)

	if record.LastLoginDate != today {
		record.CurrentStreak++
		upd.PointsEarned = PointsPerStreakDay * record.CurrentStreak
		record.TotalPoints += upd.PointsEarned
		if record.CurrentStreak > record.LongestStreak {
			record.LongestStreak = record.CurrentStreak
		}
		upd.Applied = true
	}
	record.LastLoginDate = today

	for record.TotalPoints >= PointsForLevel(record.Level) {
		record.Level++
		upd.LevelsGained++
	}
	record.PointsToNextLevel = PointsForLevel(record.Level)

	return record, upd
}

// sanitize fixes values no reachable state can hold.
func sanitize(record models.StreakData) models.StreakData {
	if record.Level < 1 {
		record.Level = 1
	}
	if record.CurrentStreak < 0 {
		record.CurrentStreak = 0
	}
	if record.TotalPoints < 0 {
		record.TotalPoints = 0
	}
	if record.LongestStreak < record.CurrentStreak {
		record.LongestStreak = record.CurrentStreak
	}
	return record
}

// PointsForLevel is the cumulative points threshold that ends level.
func PointsForLevel(level int) int {
	return models.PointsPerLevel * level
}

// LevelProgressPercent is how far through the current level the record is, in [0, 100].
func LevelProgressPercent(record models.StreakData) int {
	into := float64(record.TotalPoints - PointsForLevel(record.Level-1))
	pct := math.Floor(into / float64(models.PointsPerLevel) * 100)
	return int(math.Max(0, math.Min(100, pct)))
}

// PointsRemaining is the number of points still needed for the next level.
func PointsRemaining(record models.StreakData) int {
	return max(0, PointsForLevel(record.Level)-record.TotalPoints)
}

// StreakBenefitMessage describes the reward tier for a streak length.
func StreakBenefitMessage(streak int) string {
	switch {
	case streak >= streakTierMaximum:
		return "Maximum streak bonus achieved! Amazing dedication!"
	case streak >= streakTierConsistency:
		return "Achievement unlocked: Consistency King!"
	case streak >= streakTierEarning:
		return fmt.Sprintf("Earning %d points per day!", PointsPerStreakDay*streak)
	default:
		return "Sign in tomorrow to start your streak!"
	}
}

// FormatStreakDate renders a login date for display, or "Never" when empty.
func FormatStreakDate(date string) string {
	if date == "" {
		return "Never"
	}
	t, err := time.ParseInLocation(models.DateLayout, date, time.Local)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}

// IsMilestone reports whether a streak length deserves a notification.
func IsMilestone(streak int) bool {
	return streak == streakTierConsistency || (streak >= streakTierMaximum && streak%10 == 0)
}
