package books

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"

	"questory/internal/models"
	"questory/internal/storage"
)

// ErrNotTracked is returned when an operation targets a book that is on no shelf
var ErrNotTracked = errors.New("book is not on any shelf")

// Repository persists the user's shelved books as one ordered list
type Repository struct {
	db     storage.Storage
	logger *zap.Logger
	now    func() time.Time
}

// NewRepository creates a repository over db
func NewRepository(db storage.Storage, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logger, now: time.Now}
}

// WithClock overrides the timestamp source
func (r *Repository) WithClock(now func() time.Time) *Repository {
	r.now = now
	return r
}

// Load returns all tracked books, most recently updated first.
// Missing or unreadable data yields an empty list.
func (r *Repository) Load(ctx context.Context) []models.UserBook {
	items, ok, err := storage.GetJSON[[]models.UserBook](ctx, r.db, storage.UserBooksKey)
	if !ok {
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("Failed to load user books, using empty list",
				zap.String("key", storage.UserBooksKey),
				zap.Error(err),
			)
		}
		return []models.UserBook{}
	}
	SortByUpdated(items)
	return items
}

// Save writes items sorted by UpdatedAt descending; the caller's slice is not reordered
func (r *Repository) Save(ctx context.Context, items []models.UserBook) error {
	sorted := slices.Clone(items)
	if sorted == nil {
		sorted = []models.UserBook{}
	}
	SortByUpdated(sorted)
	return storage.SetJSON(ctx, r.db, storage.UserBooksKey, sorted)
}

// Get returns the tracked book with the given id
func (r *Repository) Get(ctx context.Context, bookID string) (models.UserBook, bool) {
	return Find(r.Load(ctx), bookID)
}

// Upsert stamps UpdatedAt, then inserts item or replaces the entry with the same book id
func (r *Repository) Upsert(ctx context.Context, item models.UserBook) ([]models.UserBook, error) {
	item.UpdatedAt = r.now()
	items := Put(r.Load(ctx), item)
	if err := r.Save(ctx, items); err != nil {
		return nil, err
	}
	SortByUpdated(items)
	return items, nil
}

// Remove deletes the book with the given id and returns the remaining list
func (r *Repository) Remove(ctx context.Context, bookID string) ([]models.UserBook, error) {
	items := slices.DeleteFunc(r.Load(ctx), func(b models.UserBook) bool {
		return b.Book.ID == bookID
	})
	if err := r.Save(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Find returns the entry for bookID
func Find(items []models.UserBook, bookID string) (models.UserBook, bool) {
	i := slices.IndexFunc(items, func(b models.UserBook) bool { return b.Book.ID == bookID })
	if i < 0 {
		return models.UserBook{}, false
	}
	return items[i], true
}

// Put replaces the entry with item's book id, or appends item
func Put(items []models.UserBook, item models.UserBook) []models.UserBook {
	i := slices.IndexFunc(items, func(b models.UserBook) bool { return b.Book.ID == item.Book.ID })
	if i >= 0 {
		items[i] = item
		return items
	}
	return append(items, item)
}

// SortByUpdated orders items most recently updated first
func SortByUpdated(items []models.UserBook) {
	slices.SortStableFunc(items, func(a, b models.UserBook) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
}

// ByShelf groups items by shelf, keeping their order. Every shelf has an entry.
func ByShelf(items []models.UserBook) map[models.Shelf][]models.UserBook {
	grouped := make(map[models.Shelf][]models.UserBook, len(models.Shelves))
	for _, s := range models.Shelves {
		grouped[s] = []models.UserBook{}
	}
	for _, b := range items {
		grouped[b.Shelf] = append(grouped[b.Shelf], b)
	}
	return grouped
}

// CurrentReading returns the most recently updated book on the READING shelf
func CurrentReading(items []models.UserBook) (models.UserBook, bool) {
	var (
		current models.UserBook
		found   bool
	)
	for _, b := range items {
		if b.Shelf != models.ShelfReading {
			continue
		}
		if !found || b.UpdatedAt.After(current.UpdatedAt) {
			current = b
			found = true
		}
	}
	return current, found
}
