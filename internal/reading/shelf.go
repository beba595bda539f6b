package reading

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"questory/internal/books"
	"questory/internal/catalog"
	"questory/internal/models"
)

// AddToShelf starts tracking a catalog book (by id or title slug) on shelf.
// A book that is already tracked is moved instead, keeping its page.
func (s *Service) AddToShelf(ctx context.Context, query string, shelf models.Shelf) (models.UserBook, error) {
	if !shelf.Valid() {
		return models.UserBook{}, fmt.Errorf("%w: %q", models.ErrInvalidShelf, shelf)
	}
	book, ok := s.catalog.Lookup(query)
	if !ok {
		return models.UserBook{}, fmt.Errorf("%w: %q", catalog.ErrUnknownBook, query)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ub, tracked := s.books.Get(ctx, book.ID)
	if !tracked {
		ub = models.UserBook{Book: book}
	}
	applyShelf(&ub, shelf, s.now())

	if _, err := s.books.Upsert(ctx, ub); err != nil {
		return models.UserBook{}, fmt.Errorf("failed to add book %q: %w", book.ID, err)
	}
	s.logger.Info("Book shelved",
		zap.String("book_id", book.ID),
		zap.String("shelf", string(shelf)),
		zap.Bool("already_tracked", tracked),
	)

	updated, _ := s.books.Get(ctx, book.ID)
	return updated, nil
}

// MoveToShelf moves a tracked book between shelves
func (s *Service) MoveToShelf(ctx context.Context, bookID string, shelf models.Shelf) (models.UserBook, error) {
	if !shelf.Valid() {
		return models.UserBook{}, fmt.Errorf("%w: %q", models.ErrInvalidShelf, shelf)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ub, ok := s.books.Get(ctx, bookID)
	if !ok {
		return models.UserBook{}, fmt.Errorf("%w: %q", books.ErrNotTracked, bookID)
	}
	from := ub.Shelf
	applyShelf(&ub, shelf, s.now())

	if _, err := s.books.Upsert(ctx, ub); err != nil {
		return models.UserBook{}, fmt.Errorf("failed to move book %q: %w", bookID, err)
	}
	s.logger.Info("Book moved",
		zap.String("book_id", bookID),
		zap.String("from", string(from)),
		zap.String("to", string(shelf)),
	)

	updated, _ := s.books.Get(ctx, bookID)
	return updated, nil
}

// RemoveBook stops tracking a book
func (s *Service) RemoveBook(ctx context.Context, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books.Get(ctx, bookID); !ok {
		return fmt.Errorf("%w: %q", books.ErrNotTracked, bookID)
	}
	if _, err := s.books.Remove(ctx, bookID); err != nil {
		return fmt.Errorf("failed to remove book %q: %w", bookID, err)
	}
	s.logger.Info("Book removed", zap.String("book_id", bookID))
	return nil
}

// SavePage bookmarks a page without touching shelf, XP or streak
func (s *Service) SavePage(ctx context.Context, bookID string, page int) (models.UserBook, error) {
	if page < 0 {
		return models.UserBook{}, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ub, ok := s.books.Get(ctx, bookID)
	if !ok {
		return models.UserBook{}, fmt.Errorf("%w: %q", books.ErrNotTracked, bookID)
	}
	ub.CurrentPage = page
	if _, err := s.books.Upsert(ctx, ub); err != nil {
		return models.UserBook{}, fmt.Errorf("failed to save page for %q: %w", bookID, err)
	}

	updated, _ := s.books.Get(ctx, bookID)
	return updated, nil
}

// applyShelf sets the shelf and the timestamps that go with it
func applyShelf(ub *models.UserBook, shelf models.Shelf, now time.Time) {
	switch shelf {
	case models.ShelfWant:
		ub.StartedAt = nil
		ub.FinishedAt = nil
	case models.ShelfReading:
		if ub.StartedAt == nil {
			ub.StartedAt = &now
		}
		ub.FinishedAt = nil
	case models.ShelfDone:
		ub.FinishedAt = &now
	}
	ub.Shelf = shelf
}
