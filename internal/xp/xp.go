// Package xp turns pages read into experience points and levels.
package xp

const (
	// XPPerLevelUnit scales the quadratic level curve: level L starts at 100*(L-1)^2
	XPPerLevelUnit = 100
	// CompletionBonus is awarded once when a session finishes a book
	CompletionBonus = 150
	// StreakBonus is awarded when a session extends the daily streak
	StreakBonus = 20
)

// SessionOptions carries the bonus flags for a single session
type SessionOptions struct {
	CompletedBook bool
	KeptStreak    bool
}

// LevelProgress describes where a total sits on the level curve
type LevelProgress struct {
	Level        int `json:"level"`
	TotalXP      int `json:"totalXP"`
	LevelStartXP int `json:"levelStartXP"`
	NextLevelXP  int `json:"nextLevelXP"`
	CurrentXP    int `json:"currentXP"` // XP earned inside the current level
	XPToNext     int `json:"xpToNext"`
}

// CalcLevel returns floor(sqrt(totalXP/100)) + 1.
//
// Examples:
//
//	CalcLevel(0)   => 1
//	CalcLevel(100) => 2
//	CalcLevel(400) => 3
//	CalcLevel(900) => 4
func CalcLevel(totalXP int) int {
	if totalXP <= 0 {
		return 1
	}
	// floor(sqrt(x/100)) is the largest n with 100*n*n <= x
	return isqrt(totalXP/XPPerLevelUnit) + 1
}

// NextLevelThreshold returns the XP at which level+1 begins: 100 * level^2
func NextLevelThreshold(level int) int {
	return XPPerLevelUnit * level * level
}

// CalcSessionXP returns 1 XP per page (negative clamped to 0) plus additive bonuses
func CalcSessionXP(pagesRead int, opts SessionOptions) int {
	gained := max(0, pagesRead)
	if opts.CompletedBook {
		gained += CompletionBonus
	}
	if opts.KeptStreak {
		gained += StreakBonus
	}
	return gained
}

// Progress places totalXP on the level curve
func Progress(totalXP int) LevelProgress {
	totalXP = max(0, totalXP)
	level := CalcLevel(totalXP)
	start := NextLevelThreshold(level - 1)
	next := NextLevelThreshold(level)
	return LevelProgress{
		Level:        level,
		TotalXP:      totalXP,
		LevelStartXP: start,
		NextLevelXP:  next,
		CurrentXP:    totalXP - start,
		XPToNext:     next - totalXP,
	}
}

// isqrt returns floor(sqrt(n)) for n >= 0 using Newton's method on integers
func isqrt(n int) int {
	if n < 2 {
		return n
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
