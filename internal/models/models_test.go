package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionSummary(t *testing.T) {
	testCases := []struct {
		name            string
		summary         SessionSummary
		leveledUp       bool
		streakContinued bool
	}{
		{
			name:    "nothing changed",
			summary: SessionSummary{LevelBefore: 2, LevelAfter: 2, StreakBefore: 3, StreakAfter: 3},
		},
		{
			name:            "level and streak grew",
			summary:         SessionSummary{GainedXP: 170, LevelBefore: 1, LevelAfter: 2, StreakBefore: 1, StreakAfter: 2},
			leveledUp:       true,
			streakContinued: true,
		},
		{
			name:    "streak reset",
			summary: SessionSummary{LevelBefore: 3, LevelAfter: 3, StreakBefore: 5, StreakAfter: 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.leveledUp, tc.summary.LeveledUp())
			assert.Equal(t, tc.streakContinued, tc.summary.StreakContinued())
		})
	}
}

func TestParseShelf(t *testing.T) {
	for input, want := range map[string]Shelf{
		"want":          ShelfWant,
		" Want_To_Read": ShelfWant,
		"reading":       ShelfReading,
		"DONE":          ShelfDone,
		"finished":      ShelfDone,
	} {
		got, err := ParseShelf(input)
		assert.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseShelf("shelf-of-doom")
	assert.ErrorIs(t, err, ErrInvalidShelf)
}
