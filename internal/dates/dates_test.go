package dates

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:30 UTC on the 1st is still the previous evening in New York
	instant := time.Date(2024, time.March, 1, 2, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01", Format(instant))
	assert.Equal(t, "2024-02-29", Format(instant.In(loc)))
	assert.Equal(t, "2024-01-05", Format(time.Date(2024, time.January, 5, 23, 59, 0, 0, time.UTC)))
}

func TestParse(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	d, err := Parse("2024-10-27", loc)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Hour())
	assert.Equal(t, loc, d.Location())

	_, err = Parse("2024-13-01", loc)
	assert.Error(t, err)

	_, err = Parse("yesterday", nil)
	assert.Error(t, err)
}

func TestIsNextDay(t *testing.T) {
	testCases := []struct {
		name     string
		prev     string
		next     string
		expected bool
	}{
		{name: "consecutive days", prev: "2024-05-10", next: "2024-05-11", expected: true},
		{name: "same day", prev: "2024-05-10", next: "2024-05-10", expected: false},
		{name: "two day gap", prev: "2024-05-10", next: "2024-05-12", expected: false},
		{name: "earlier date", prev: "2024-05-10", next: "2024-05-09", expected: false},
		{name: "month boundary", prev: "2024-01-31", next: "2024-02-01", expected: true},
		{name: "leap day", prev: "2024-02-28", next: "2024-02-29", expected: true},
		{name: "after leap day", prev: "2024-02-29", next: "2024-03-01", expected: true},
		{name: "non leap year february", prev: "2023-02-28", next: "2023-03-01", expected: true},
		{name: "non leap year skip", prev: "2024-02-28", next: "2024-03-01", expected: false},
		{name: "year boundary", prev: "2023-12-31", next: "2024-01-01", expected: true},
		{name: "dst spring forward in europe", prev: "2024-03-30", next: "2024-03-31", expected: true},
		{name: "dst fall back in us", prev: "2024-11-02", next: "2024-11-03", expected: true},
		{name: "malformed prev", prev: "2024/05/10", next: "2024-05-11", expected: false},
		{name: "malformed next", prev: "2024-05-10", next: "", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsNextDay(tc.prev, tc.next))
		})
	}
}

func TestIsSameDay(t *testing.T) {
	assert.True(t, IsSameDay("2024-05-10", "2024-05-10"))
	assert.False(t, IsSameDay("2024-05-10", "2024-05-11"))
	assert.False(t, IsSameDay("2024-5-10", "2024-05-10"))
}

func TestYesterday(t *testing.T) {
	assert.Equal(t, "2024-02-29", Yesterday("2024-03-01"))
	assert.Equal(t, "2023-12-31", Yesterday("2024-01-01"))
	assert.Equal(t, "", Yesterday("not-a-date"))
}
