package streak

import (
	"questory/internal/dates"
	"questory/internal/models"
)

// Result is the streak state after a session on a given date
type Result struct {
	StreakCount     int
	KeptStreakBonus bool
	LastReadDate    string
}

// Update advances the reading streak for a session on sessionDate (YYYY-MM-DD).
//
// Transition rules:
// 1. No previous read date: streak starts at 1, no bonus
// 2. Same calendar day as the last read: streak unchanged, no bonus
// 3. Exactly the next calendar day: streak + 1, bonus granted
// 4. Anything else (gap, earlier date): streak resets to 1, no bonus
func Update(prev models.PlayerStats, sessionDate string) Result {
	switch {
	case prev.LastReadDate == "":
		return Result{StreakCount: 1, LastReadDate: sessionDate}
	case dates.IsSameDay(prev.LastReadDate, sessionDate):
		return Result{StreakCount: prev.StreakCount, LastReadDate: sessionDate}
	case dates.IsNextDay(prev.LastReadDate, sessionDate):
		return Result{StreakCount: prev.StreakCount + 1, KeptStreakBonus: true, LastReadDate: sessionDate}
	default:
		return Result{StreakCount: 1, LastReadDate: sessionDate}
	}
}

// IsAtRisk reports whether the streak is alive but will lapse unless the
// reader logs a session today
func IsAtRisk(stats models.PlayerStats, today string) bool {
	return stats.StreakCount > 0 && stats.LastReadDate != "" && dates.IsNextDay(stats.LastReadDate, today)
}

// Current returns the streak as it should be displayed today. A streak whose
// last read is older than yesterday has lapsed and shows as 0; the stored
// value is left for the next session to reset.
func Current(stats models.PlayerStats, today string) int {
	if stats.LastReadDate == "" {
		return 0
	}
	if dates.IsSameDay(stats.LastReadDate, today) || dates.IsNextDay(stats.LastReadDate, today) {
		return stats.StreakCount
	}
	return 0
}
