package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidShelf is returned when a shelf name is not one of WANT, READING, DONE
var ErrInvalidShelf = errors.New("invalid shelf")

// Shelf is the categorical status of a tracked book
type Shelf string

const (
	ShelfWant    Shelf = "WANT"
	ShelfReading Shelf = "READING"
	ShelfDone    Shelf = "DONE"
)

// Shelves lists all shelves in display order
var Shelves = []Shelf{ShelfWant, ShelfReading, ShelfDone}

// Valid reports whether s is a known shelf
func (s Shelf) Valid() bool {
	switch s {
	case ShelfWant, ShelfReading, ShelfDone:
		return true
	}
	return false
}

// Title returns the human-readable shelf name
func (s Shelf) Title() string {
	switch s {
	case ShelfWant:
		return "Want to Read"
	case ShelfReading:
		return "Reading"
	case ShelfDone:
		return "Finished"
	}
	return string(s)
}

// ParseShelf accepts shelf names case-insensitively, plus the aliases used by bot commands
func ParseShelf(s string) (Shelf, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "want", "want_to_read":
		return ShelfWant, nil
	case "reading", "read":
		return ShelfReading, nil
	case "done", "finished", "finish":
		return ShelfDone, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidShelf, s)
}

// Book represents a catalog entry
type Book struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	ThumbnailURL  string   `json:"thumbnailUrl,omitempty"`
	PageCount     int      `json:"pageCount,omitempty"`
	PublishedYear int      `json:"publishedYear,omitempty"`
	Description   string   `json:"description,omitempty"`
}

// UserBook is the user's relationship to a catalog book, identified by Book.ID
type UserBook struct {
	Book        Book       `json:"book"`
	Shelf       Shelf      `json:"shelf"`
	CurrentPage int        `json:"currentPage"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// PlayerStats holds the single local user's progression.
// Level is always derived from TotalXP; see player.Normalize.
type PlayerStats struct {
	TotalXP      int       `json:"totalXP"`
	Level        int       `json:"level"`
	StreakCount  int       `json:"streakCount"`
	LastReadDate string    `json:"lastReadDate,omitempty"` // YYYY-MM-DD
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ReadingSession is an in-memory record of one logging event
type ReadingSession struct {
	ID          string    `json:"id"`
	BookID      string    `json:"bookId"`
	Date        string    `json:"date"` // YYYY-MM-DD
	PagesRead   int       `json:"pagesRead"`
	MinutesRead int       `json:"minutesRead,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SessionSummary is the before/after view shown to the reader after a session
type SessionSummary struct {
	GainedXP     int `json:"gainedXP"`
	LevelBefore  int `json:"levelBefore"`
	LevelAfter   int `json:"levelAfter"`
	StreakBefore int `json:"streakBefore"`
	StreakAfter  int `json:"streakAfter"`
}

// LeveledUp reports whether the session raised the level
func (s SessionSummary) LeveledUp() bool {
	return s.LevelAfter > s.LevelBefore
}

// StreakContinued reports whether the session grew the streak
func (s SessionSummary) StreakContinued() bool {
	return s.StreakAfter > s.StreakBefore
}
