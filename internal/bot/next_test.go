package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"questory/internal/models"
)

func TestSuggestNext(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	ub := func(id string, shelf models.Shelf, hoursAfter int) models.UserBook {
		return models.UserBook{
			Book:      models.Book{ID: id, Title: "Title " + id},
			Shelf:     shelf,
			UpdatedAt: base.Add(time.Duration(hoursAfter) * time.Hour),
		}
	}

	testCases := []struct {
		name        string
		items       []models.UserBook
		expectedID  string
		expectedOK  bool
		expectedWhy string
		description string
	}{
		{
			name:        "empty library",
			items:       nil,
			expectedOK:  false,
			description: "should suggest nothing without books",
		},
		{
			name:        "only finished books",
			items:       []models.UserBook{ub("a", models.ShelfDone, 1), ub("b", models.ShelfDone, 2)},
			expectedOK:  false,
			description: "should suggest nothing when everything is read",
		},
		{
			name: "reading beats want",
			items: []models.UserBook{
				ub("want", models.ShelfWant, 0),
				ub("reading", models.ShelfReading, 1),
			},
			expectedID:  "reading",
			expectedOK:  true,
			expectedWhy: "Keep going with Title reading",
			description: "should continue the book in progress",
		},
		{
			name: "most recent reading book",
			items: []models.UserBook{
				ub("old", models.ShelfReading, 1),
				ub("new", models.ShelfReading, 5),
			},
			expectedID:  "new",
			expectedOK:  true,
			description: "should pick the most recently updated reading book",
		},
		{
			name: "oldest want book",
			items: []models.UserBook{
				ub("recent", models.ShelfWant, 9),
				ub("waiting", models.ShelfWant, 2),
				ub("done", models.ShelfDone, 0),
			},
			expectedID:  "waiting",
			expectedOK:  true,
			expectedWhy: "Title waiting has been waiting longest on your list",
			description: "should pick the want book shelved longest ago",
		},
		{
			name: "tie keeps library order",
			items: []models.UserBook{
				ub("first", models.ShelfWant, 3),
				ub("second", models.ShelfWant, 3),
			},
			expectedID:  "first",
			expectedOK:  true,
			description: "should keep the first of equally old books",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := SuggestNext(tc.items)
			assert.Equal(t, tc.expectedOK, ok, tc.description)
			if !tc.expectedOK {
				return
			}
			assert.Equal(t, tc.expectedID, got.Book.Book.ID, tc.description)
			if tc.expectedWhy != "" {
				assert.Equal(t, tc.expectedWhy, got.Reason)
			}
		})
	}
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "▓▓▓▓▓░░░░░", progressBar(50, 100, 10))
	assert.Equal(t, "░░░░░░░░░░", progressBar(0, 100, 10))
	assert.Equal(t, "▓▓▓▓▓▓▓▓▓▓", progressBar(250, 100, 10))
	assert.Equal(t, "", progressBar(5, 0, 10))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Ліс…", truncate("Лісова пісня", 4))
}
