package reading

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"questory/internal/books"
	"questory/internal/models"
	"questory/internal/streak"
	"questory/internal/xp"
)

// SessionInput describes one reading session
type SessionInput struct {
	BookID        string
	PagesRead     int
	MinutesRead   int
	CompletedBook bool
}

// SessionOutcome is the result of logging a session
type SessionOutcome struct {
	Session models.ReadingSession `json:"session"`
	Stats   models.PlayerStats    `json:"stats"`
	Summary models.SessionSummary `json:"summary"`
}

// PageInput describes a "I'm now on page N" update
type PageInput struct {
	BookID        string
	NewPage       int
	CompletedBook bool
}

// PageOutcome is the result of a page update
type PageOutcome struct {
	PagesRead     int                   `json:"pagesRead"`
	SessionLogged bool                  `json:"sessionLogged"`
	Session       models.ReadingSession `json:"session"`
	Stats         models.PlayerStats    `json:"stats"`
	Summary       models.SessionSummary `json:"summary"`
	Book          models.UserBook       `json:"book"`
}

// LogReadingSession credits a session dated today: it advances the streak,
// awards XP and persists the new stats
func (s *Service) LogReadingSession(ctx context.Context, in SessionInput) (SessionOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.logSession(ctx, in)
}

func (s *Service) logSession(ctx context.Context, in SessionInput) (SessionOutcome, error) {
	before := s.players.Load(ctx)
	today := s.Today()

	st := streak.Update(before, today)
	gained := xp.CalcSessionXP(in.PagesRead, xp.SessionOptions{
		CompletedBook: in.CompletedBook,
		KeptStreak:    st.KeptStreakBonus,
	})

	total := before.TotalXP + gained
	saved, err := s.players.Save(ctx, models.PlayerStats{
		TotalXP:      total,
		Level:        xp.CalcLevel(total),
		StreakCount:  st.StreakCount,
		LastReadDate: st.LastReadDate,
	})
	if err != nil {
		return SessionOutcome{}, fmt.Errorf("failed to save player stats: %w", err)
	}

	session := models.ReadingSession{
		ID:          s.newID(),
		BookID:      in.BookID,
		Date:        today,
		PagesRead:   max(0, in.PagesRead),
		MinutesRead: max(0, in.MinutesRead),
		CreatedAt:   s.now(),
	}

	summary := models.SessionSummary{
		GainedXP:     gained,
		LevelBefore:  before.Level,
		LevelAfter:   saved.Level,
		StreakBefore: before.StreakCount,
		StreakAfter:  saved.StreakCount,
	}

	s.logger.Info("Reading session logged",
		zap.String("book_id", in.BookID),
		zap.Int("pages_read", session.PagesRead),
		zap.Bool("completed_book", in.CompletedBook),
		zap.Bool("kept_streak", st.KeptStreakBonus),
		zap.Int("gained_xp", gained),
		zap.Int("total_xp", saved.TotalXP),
		zap.Int("level", saved.Level),
		zap.Int("streak", saved.StreakCount),
	)

	return SessionOutcome{Session: session, Stats: saved, Summary: summary}, nil
}

// LogCurrentPage records that the reader is now on NewPage of a book.
//
// Pages credited are the forward delta only; a smaller page credits nothing
// and never moves CurrentPage backwards. XP and streak change only when pages
// were credited or the book was completed. An untracked book is put on the
// READING shelf first.
func (s *Service) LogCurrentPage(ctx context.Context, in PageInput) (PageOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.books.Load(ctx)
	ub, tracked := books.Find(items, in.BookID)
	if !tracked {
		ub = s.newTrackedBook(in.BookID)
	}

	previousPage := ub.CurrentPage
	pagesRead := max(0, in.NewPage-previousPage)

	now := s.now()
	ub.CurrentPage = max(previousPage, in.NewPage)
	if in.CompletedBook {
		ub.Shelf = models.ShelfDone
		ub.FinishedAt = &now
	}
	ub.UpdatedAt = now

	// XP is credited only once the page is stored
	if err := s.books.Save(ctx, books.Put(items, ub)); err != nil {
		return PageOutcome{}, fmt.Errorf("failed to save book %q: %w", in.BookID, err)
	}

	out := PageOutcome{PagesRead: pagesRead, Book: ub}
	if pagesRead > 0 || in.CompletedBook {
		logged, err := s.logSession(ctx, SessionInput{
			BookID:        in.BookID,
			PagesRead:     pagesRead,
			CompletedBook: in.CompletedBook,
		})
		if err != nil {
			return PageOutcome{}, err
		}
		out.SessionLogged = true
		out.Session = logged.Session
		out.Stats = logged.Stats
		out.Summary = logged.Summary
	} else {
		stats := s.players.Load(ctx)
		out.Stats = stats
		// Placeholder only; nothing is credited or stored for it
		out.Session = models.ReadingSession{
			BookID:    in.BookID,
			Date:      s.Today(),
			CreatedAt: now,
		}
		out.Summary = models.SessionSummary{
			LevelBefore:  stats.Level,
			LevelAfter:   stats.Level,
			StreakBefore: stats.StreakCount,
			StreakAfter:  stats.StreakCount,
		}
	}

	return out, nil
}

// newTrackedBook builds a READING entry for an id, using catalog metadata when known
func (s *Service) newTrackedBook(bookID string) models.UserBook {
	book, ok := s.catalog.Find(bookID)
	if !ok {
		book = models.Book{ID: bookID, Title: bookID}
	}
	now := s.now()
	return models.UserBook{
		Book:      book,
		Shelf:     models.ShelfReading,
		StartedAt: &now,
		UpdatedAt: now,
	}
}
