package reading

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"questory/internal/books"
	"questory/internal/catalog"
	"questory/internal/dates"
	"questory/internal/models"
	"questory/internal/player"
	"questory/internal/storage"
	"questory/internal/streak"
	"questory/internal/xp"
)

// Service runs every read-modify-write sequence against the player and book
// records. Sequences are serialized by mu, so two updates arriving together
// (webhook goroutines, API calls) cannot lose each other's writes in-process.
type Service struct {
	mu      sync.Mutex
	books   *books.Repository
	players *player.Repository
	catalog *catalog.Catalog
	logger  *zap.Logger
	now     func() time.Time
	loc     *time.Location
	newID   func() string
}

// Option configures a Service
type Option func(*Service)

// WithClock sets the time source used for dates and timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone that defines the reader's calendar day
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithIDGenerator sets the session id source
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService creates a reading service persisting into db
func NewService(db storage.Storage, cat *catalog.Catalog, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		catalog: cat,
		logger:  logger,
		now:     time.Now,
		loc:     time.Local,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.books = books.NewRepository(db, logger).WithClock(s.now)
	s.players = player.NewRepository(db, logger).WithClock(s.now)
	return s
}

// Catalog returns the discovery catalog
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Location returns the zone defining the reader's calendar day
func (s *Service) Location() *time.Location {
	return s.loc
}

// Today returns the reader's local date as YYYY-MM-DD
func (s *Service) Today() string {
	return dates.Format(s.now().In(s.loc))
}

// Profile is the read-only view of the player's progression
type Profile struct {
	Stats     models.PlayerStats `json:"stats"`
	Progress  xp.LevelProgress   `json:"progress"`
	Streak    int                `json:"streak"` // 0 once the streak has lapsed
	ReadToday bool               `json:"readToday"`
	Today     string             `json:"today"`
}

// Stats returns the current player stats
func (s *Service) Stats(ctx context.Context) models.PlayerStats {
	return s.players.Load(ctx)
}

// Profile returns stats plus level progress and the displayed streak
func (s *Service) Profile(ctx context.Context) Profile {
	stats := s.players.Load(ctx)
	today := s.Today()
	return Profile{
		Stats:     stats,
		Progress:  xp.Progress(stats.TotalXP),
		Streak:    streak.Current(stats, today),
		ReadToday: stats.LastReadDate == today,
		Today:     today,
	}
}

// Library returns all tracked books, most recently updated first
func (s *Service) Library(ctx context.Context) []models.UserBook {
	return s.books.Load(ctx)
}

// Shelves returns tracked books grouped by shelf
func (s *Service) Shelves(ctx context.Context) map[models.Shelf][]models.UserBook {
	return books.ByShelf(s.books.Load(ctx))
}

// CurrentBook returns the most recently updated book on the READING shelf
func (s *Service) CurrentBook(ctx context.Context) (models.UserBook, bool) {
	return books.CurrentReading(s.books.Load(ctx))
}

// Book returns the tracked entry for bookID
func (s *Service) Book(ctx context.Context, bookID string) (models.UserBook, bool) {
	return s.books.Get(ctx, bookID)
}
