package bot

import (
	"questory/internal/books"
	"questory/internal/models"
)

// Suggestion is a book to pick up next and why
type Suggestion struct {
	Book   models.UserBook
	Reason string
}

// SuggestNext determines what the reader should pick up next.
//
// Rules:
// 1. The most recently updated READING book continues
// 2. With nothing in progress, the WANT book waiting longest is suggested
// 3. Ties keep library order
// 4. An empty library, or one with only finished books, suggests nothing
func SuggestNext(items []models.UserBook) (Suggestion, bool) {
	if current, ok := books.CurrentReading(items); ok {
		return Suggestion{Book: current, Reason: "Keep going with " + current.Book.Title}, true
	}

	var oldest models.UserBook
	found := false
	for _, ub := range items {
		if ub.Shelf != models.ShelfWant {
			continue
		}
		if !found || ub.UpdatedAt.Before(oldest.UpdatedAt) {
			oldest = ub
			found = true
		}
	}
	if !found {
		return Suggestion{}, false
	}
	return Suggestion{Book: oldest, Reason: oldest.Book.Title + " has been waiting longest on your list"}, true
}
