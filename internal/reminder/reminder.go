package reminder

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"questory/internal/models"
	"questory/internal/streak"
)

// Notifier delivers a reminder to the reader
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// StatsSource provides the player's stats and local date
type StatsSource interface {
	Stats(ctx context.Context) models.PlayerStats
	Today() string
}

// Reminder sends a daily message when the reading streak is about to lapse
type Reminder struct {
	src      StatsSource
	notifier Notifier
	logger   *zap.Logger
	loc      *time.Location
	hour     uint
	minute   uint

	scheduler gocron.Scheduler
	job       gocron.Job
}

// New creates a reminder firing daily at "HH:MM" in loc
func New(src StatsSource, notifier Notifier, at string, loc *time.Location, logger *zap.Logger) (*Reminder, error) {
	hour, minute, err := ParseClock(at)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	return &Reminder{
		src:      src,
		notifier: notifier,
		logger:   logger,
		loc:      loc,
		hour:     hour,
		minute:   minute,
	}, nil
}

// Start schedules the daily job
func (r *Reminder) Start() error {
	sched, err := gocron.NewScheduler(gocron.WithLocation(r.loc))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	job, err := sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(r.hour, r.minute, 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := r.Check(ctx); err != nil {
				r.logger.Error("Streak reminder failed", zap.Error(err))
			}
		}),
		gocron.WithName("streak-reminder"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}

	r.scheduler = sched
	r.job = job
	sched.Start()

	next, _ := job.NextRun()
	r.logger.Info("Streak reminder scheduled",
		zap.String("at", fmt.Sprintf("%02d:%02d", r.hour, r.minute)),
		zap.String("timezone", r.loc.String()),
		zap.Time("next_run", next),
	)
	return nil
}

// NextRun returns when the job fires next
func (r *Reminder) NextRun() (time.Time, error) {
	if r.job == nil {
		return time.Time{}, fmt.Errorf("reminder not started")
	}
	return r.job.NextRun()
}

// Stop shuts the scheduler down
func (r *Reminder) Stop() error {
	if r.scheduler == nil {
		return nil
	}
	return r.scheduler.Shutdown()
}

// Check notifies when the streak is at risk today and reports whether it did
func (r *Reminder) Check(ctx context.Context) (bool, error) {
	stats := r.src.Stats(ctx)
	if !streak.IsAtRisk(stats, r.src.Today()) {
		r.logger.Debug("Streak not at risk, no reminder sent",
			zap.Int("streak", stats.StreakCount),
			zap.String("last_read_date", stats.LastReadDate),
		)
		return false, nil
	}

	if err := r.notifier.Notify(ctx, Message(stats.StreakCount)); err != nil {
		return false, fmt.Errorf("failed to send reminder: %w", err)
	}
	r.logger.Info("Streak reminder sent", zap.Int("streak", stats.StreakCount))
	return true, nil
}

// Message is the reminder text for a streak of n days
func Message(n int) string {
	days := "day"
	if n != 1 {
		days = "days"
	}
	return fmt.Sprintf("🔥 Your reading streak is %d %s long and ends tonight.\nRead a page or two and log it with /page or /read to keep it going!", n, days)
}

// ParseClock parses a 24-hour "HH:MM" time of day
func ParseClock(s string) (hour, minute uint, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid reminder time %q, expected HH:MM", s)
	}
	hh, err := strconv.ParseUint(h, 10, 8)
	if err != nil || hh > 23 {
		return 0, 0, fmt.Errorf("invalid hour in reminder time %q", s)
	}
	mm, err := strconv.ParseUint(m, 10, 8)
	if err != nil || mm > 59 {
		return 0, 0, fmt.Errorf("invalid minute in reminder time %q", s)
	}
	return uint(hh), uint(mm), nil
}
