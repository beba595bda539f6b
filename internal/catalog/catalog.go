package catalog

import (
	"errors"
	"strings"

	"github.com/gosimple/slug"

	"questory/internal/models"
)

// ErrUnknownBook is returned when an id or slug matches no catalog entry
var ErrUnknownBook = errors.New("unknown book")

// Catalog is a read-only list of books
type Catalog struct {
	books  []models.Book
	byID   map[string]int
	bySlug map[string]int
}

// New indexes books by id and by title slug. Earlier entries win slug collisions.
func New(books []models.Book) *Catalog {
	c := &Catalog{
		books:  append([]models.Book(nil), books...),
		byID:   make(map[string]int, len(books)),
		bySlug: make(map[string]int, len(books)),
	}
	for i, b := range c.books {
		c.byID[b.ID] = i
		s := slug.Make(b.Title)
		if _, taken := c.bySlug[s]; !taken {
			c.bySlug[s] = i
		}
	}
	return c
}

// All returns every book in catalog order
func (c *Catalog) All() []models.Book {
	return append([]models.Book(nil), c.books...)
}

// Find returns the book with the given id
func (c *Catalog) Find(id string) (models.Book, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Book{}, false
	}
	return c.books[i], true
}

// Lookup resolves an id first, then a title slug ("atomic-habits", "Atomic Habits")
func (c *Catalog) Lookup(query string) (models.Book, bool) {
	query = strings.TrimSpace(query)
	if b, ok := c.Find(query); ok {
		return b, true
	}
	i, ok := c.bySlug[slug.Make(query)]
	if !ok {
		return models.Book{}, false
	}
	return c.books[i], true
}

// Search matches query case-insensitively against titles and authors.
// An empty query returns the whole catalog.
func (c *Catalog) Search(query string) []models.Book {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.All()
	}

	var out []models.Book
	for _, b := range c.books {
		if strings.Contains(strings.ToLower(b.Title), q) {
			out = append(out, b)
			continue
		}
		for _, a := range b.Authors {
			if strings.Contains(strings.ToLower(a), q) {
				out = append(out, b)
				break
			}
		}
	}
	return out
}
