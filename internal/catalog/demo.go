package catalog

import "questory/internal/models"

// Demo returns the built-in discovery catalog
func Demo() *Catalog {
	return New(demoBooks)
}

var demoBooks = []models.Book{
	{
		ID:            "book-1",
		Title:         "The Midnight Library",
		Authors:       []string{"Matt Haig"},
		PageCount:     288,
		PublishedYear: 2020,
		Description:   "A novel about all the choices that go into a life well lived.",
		ThumbnailURL:  "https://covers.openlibrary.org/b/id/12345-M.jpg",
	},
	{
		ID:            "book-2",
		Title:         "Atomic Habits",
		Authors:       []string{"James Clear"},
		PageCount:     320,
		PublishedYear: 2018,
		Description:   "An Easy & Proven Way to Build Good Habits & Break Bad Ones.",
	},
	{
		ID:            "book-3",
		Title:         "The Seven Husbands of Evelyn Hugo",
		Authors:       []string{"Taylor Jenkins Reid"},
		PageCount:     400,
		PublishedYear: 2017,
		Description:   "A reclusive Hollywood icon reveals her secrets in this captivating novel.",
	},
	{
		ID:            "book-4",
		Title:         "Sapiens",
		Authors:       []string{"Yuval Noah Harari"},
		PageCount:     443,
		PublishedYear: 2014,
		Description:   "A Brief History of Humankind.",
		ThumbnailURL:  "https://covers.openlibrary.org/b/id/67890-M.jpg",
	},
	{
		ID:            "book-5",
		Title:         "Project Hail Mary",
		Authors:       []string{"Andy Weir"},
		PageCount:     496,
		PublishedYear: 2021,
		Description:   "A lone astronaut must save the earth in this thrilling sci-fi adventure.",
	},
	{
		ID:            "book-6",
		Title:         "The Psychology of Money",
		Authors:       []string{"Morgan Housel"},
		PublishedYear: 2020,
		Description:   "Timeless lessons on wealth, greed, and happiness.",
	},
	{
		ID:            "book-7",
		Title:         "Circe",
		Authors:       []string{"Madeline Miller"},
		PageCount:     393,
		PublishedYear: 2018,
		Description:   "A stunning reimagining of Greek mythology through the eyes of Circe.",
		ThumbnailURL:  "https://covers.openlibrary.org/b/id/11223-M.jpg",
	},
	{
		ID:            "book-8",
		Title:         "Educated",
		Authors:       []string{"Tara Westover"},
		PageCount:     334,
		PublishedYear: 2018,
		Description:   "A memoir about a survivalist family and the struggle for education.",
	},
	{
		ID:            "book-9",
		Title:         "The Silent Patient",
		Authors:       []string{"Alex Michaelides"},
		PageCount:     336,
		PublishedYear: 2019,
		Description:   "A psychotherapist becomes obsessed with treating a woman who refuses to speak.",
	},
	{
		ID:            "book-10",
		Title:         "Thinking, Fast and Slow",
		Authors:       []string{"Daniel Kahneman"},
		PageCount:     499,
		PublishedYear: 2011,
		Description:   "A groundbreaking tour of the mind and explains the two systems that drive thinking.",
	},
	{
		ID:            "book-11",
		Title:         "The Invisible Bridge",
		Authors:       []string{"Julie Orringer"},
		PublishedYear: 2010,
		Description:   "An epic novel of love, war, and family set in World War II Europe.",
	},
	{
		ID:            "book-12",
		Title:         "Digital Minimalism",
		Authors:       []string{"Cal Newport"},
		PageCount:     304,
		PublishedYear: 2019,
		Description:   "Choosing a Focused Life in a Noisy World.",
		ThumbnailURL:  "https://covers.openlibrary.org/b/id/99887-M.jpg",
	},
}
