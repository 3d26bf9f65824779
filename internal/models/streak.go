package models

// PointsPerLevel is the width of one level in points.
const PointsPerLevel = 100

// StreakData is the persisted gamification record for the single user.
type StreakData struct {
	CurrentStreak     int    `json:"currentStreak"`
	LongestStreak     int    `json:"longestStreak"`
	LastLoginDate     string `json:"lastLoginDate"`
	TotalPoints       int    `json:"totalPoints"`
	Level             int    `json:"level"`
	PointsToNextLevel int    `json:"pointsToNextLevel"`
}

// DefaultStreakData is the record used when nothing has been persisted yet.
func DefaultStreakData() StreakData {
	return StreakData{
		Level:             1,
		PointsToNextLevel: PointsPerLevel,
	}
}

// HasLoggedIn reports whether a login has ever been recorded.
func (s StreakData) HasLoggedIn() bool {
	return s.LastLoginDate != ""
}
