package player

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"questory/internal/models"
	"questory/internal/storage"
	"questory/internal/xp"
)

// Repository persists the single PlayerStats record
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

// Default returns the stats of a player who has never logged a session
func Default(now time.Time) models.PlayerStats {
	return models.PlayerStats{
		TotalXP:     0,
		Level:       1,
		StreakCount: 0,
		UpdatedAt:   now,
	}
}

// Normalize clamps counters to zero and derives the level from TotalXP.
// A stored level is never trusted.
func Normalize(stats models.PlayerStats) models.PlayerStats {
	stats.TotalXP = max(0, stats.TotalXP)
	stats.StreakCount = max(0, stats.StreakCount)
	stats.Level = xp.CalcLevel(stats.TotalXP)
	return stats
}

// Load returns the persisted stats, or defaults if none are stored or the
// record cannot be read
func (r *Repository) Load(ctx context.Context) models.PlayerStats {
	stats, ok, err := storage.GetJSON[models.PlayerStats](ctx, r.db, storage.PlayerKey)
	if !ok {
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("Failed to load player stats, using defaults",
				zap.String("key", storage.PlayerKey),
				zap.Error(err),
			)
		}
		return Default(r.now())
	}
	return Normalize(stats)
}

// Save normalizes stats, refreshes UpdatedAt and persists them.
// It returns the record as written.
func (r *Repository) Save(ctx context.Context, stats models.PlayerStats) (models.PlayerStats, error) {
	stats = Normalize(stats)
	stats.UpdatedAt = r.now()
	if err := storage.SetJSON(ctx, r.db, storage.PlayerKey, stats); err != nil {
		return models.PlayerStats{}, err
	}
	return stats, nil
}
