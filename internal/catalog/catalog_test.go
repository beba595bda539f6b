package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questory/internal/models"
)

func TestDemo(t *testing.T) {
	c := Demo()
	assert.Len(t, c.All(), 12)

	b, ok := c.Find("book-2")
	require.True(t, ok)
	assert.Equal(t, "Atomic Habits", b.Title)

	_, ok = c.Find("book-99")
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	c := Demo()

	testCases := []struct {
		name     string
		query    string
		expectID string
		found    bool
	}{
		{name: "by id", query: "book-7", expectID: "book-7", found: true},
		{name: "by slug", query: "atomic-habits", expectID: "book-2", found: true},
		{name: "by title", query: "Thinking, Fast and Slow", expectID: "book-10", found: true},
		{name: "title with padding", query: "  Circe ", expectID: "book-7", found: true},
		{name: "unknown", query: "war-and-peace", found: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, ok := c.Lookup(tc.query)
			assert.Equal(t, tc.found, ok)
			if tc.found {
				assert.Equal(t, tc.expectID, b.ID)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	c := Demo()

	assert.Len(t, c.Search(""), 12, "empty query returns everything")

	byTitle := c.Search("MONEY")
	require.Len(t, byTitle, 1)
	assert.Equal(t, "book-6", byTitle[0].ID)

	byAuthor := c.Search("weir")
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "book-5", byAuthor[0].ID)

	assert.Empty(t, c.Search("zzz-no-match"))
}

func TestNew_CopiesInput(t *testing.T) {
	books := []models.Book{{ID: "a", Title: "Alpha"}}
	c := New(books)
	books[0].Title = "Changed"

	b, ok := c.Find("a")
	require.True(t, ok)
	assert.Equal(t, "Alpha", b.Title)

	all := c.All()
	all[0].Title = "Mutated"
	b, _ = c.Find("a")
	assert.Equal(t, "Alpha", b.Title)
}

func TestNew_SlugCollisionKeepsFirst(t *testing.T) {
	c := New([]models.Book{
		{ID: "first", Title: "Dune"},
		{ID: "second", Title: "DUNE"},
	})

	b, ok := c.Lookup("dune")
	require.True(t, ok)
	assert.Equal(t, "first", b.ID)
}
