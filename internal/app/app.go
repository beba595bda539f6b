package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"questory/internal/bot"
	"questory/internal/catalog"
	"questory/internal/config"
	"questory/internal/reading"
	"questory/internal/reminder"
	"questory/internal/storage"
	"questory/internal/storage/ch"
	"questory/internal/storage/pebblekv"
	"questory/internal/storage/sqlite"
	"questory/internal/storage/stubs"
)

// App represents the application
type App struct {
	config   *config.Config
	logger   *zap.Logger
	db       storage.Storage
	svc      *reading.Service
	bot      *bot.Bot
	reminder *reminder.Reminder
	server   *http.Server
}

// New creates and initializes a new application instance
func New() (*App, error) {
	// Load .env file if it exists
	envErr := godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if envErr != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	a := &App{config: cfg, logger: logger}

	logger.Info("Starting Questory...",
		zap.String("storage_backend", cfg.StorageBackend),
		zap.String("timezone", cfg.Location.String()),
	)

	if err := a.initDatabase(); err != nil {
		return nil, err
	}

	a.svc = reading.NewService(a.db, catalog.Demo(), logger, reading.WithLocation(cfg.Location))

	if err := a.initBot(); err != nil {
		return nil, err
	}

	if err := a.initReminder(); err != nil {
		return nil, err
	}

	a.initHTTPServer()

	return a, nil
}

// NewLogger builds the production logger, or the development one for "debug"
func NewLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// OpenStorage connects to the configured backend and prepares it for use
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	var db storage.Storage
	switch cfg.StorageBackend {
	case config.BackendMemory:
		logger.Info("Using in-memory storage, nothing will be persisted")
		db = stubs.NewMockDB()
	case config.BackendSQLite:
		logger.Info("Opening SQLite storage", zap.String("path", cfg.SQLitePath))
		s, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite: %w", err)
		}
		db = s
	case config.BackendPebble:
		logger.Info("Opening Pebble storage", zap.String("dir", cfg.PebbleDir))
		s, err := pebblekv.NewStore(cfg.PebbleDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open Pebble: %w", err)
		}
		db = s
	case config.BackendClickHouse:
		logger.Info("Connecting to ClickHouse",
			zap.String("host", cfg.ClickHouseHost),
			zap.Int("port", cfg.ClickHousePort),
			zap.String("database", cfg.ClickHouseDatabase),
			zap.String("user", cfg.ClickHouseUser),
			zap.Bool("tls", cfg.ClickHouseUseTLS),
		)
		s, err := ch.NewClickHouseDB(
			cfg.ClickHouseHost,
			cfg.ClickHousePort,
			cfg.ClickHouseDatabase,
			cfg.ClickHouseUser,
			cfg.ClickHousePassword,
			cfg.ClickHouseUseTLS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		db = s
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	if err := db.Initialize(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("Database initialized successfully")
	return db, nil
}

// initDatabase initializes the database connection
func (a *App) initDatabase() error {
	db, err := OpenStorage(context.Background(), a.config, a.logger)
	if err != nil {
		return err
	}
	a.db = db
	return nil
}

// initBot initializes the Telegram bot
func (a *App) initBot() error {
	telegramBot, err := bot.NewBot(a.config.TelegramToken, a.svc, a.config.AllowedUserIDs, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	a.logger.Info("Bot created successfully",
		zap.String("username", telegramBot.GetAPI().Self.UserName),
		zap.Int64s("allowed_users", a.config.AllowedUserIDs),
	)

	a.bot = telegramBot
	return nil
}

// initReminder schedules the streak reminder when enabled
func (a *App) initReminder() error {
	if !a.config.ReminderEnabled {
		return nil
	}
	r, err := reminder.New(a.svc, a.bot, a.config.ReminderTime, a.config.Location, a.logger)
	if err != nil {
		return fmt.Errorf("failed to configure reminder: %w", err)
	}
	a.reminder = r
	return nil
}

// Handler builds the HTTP routes: health, webhook and Mini App API
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	})

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		mode := "polling"
		if a.config.WebhookMode {
			mode = "webhook"
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Questory is running (mode: %s)", mode)
	})

	// Only receives updates in webhook mode
	mux.HandleFunc("/telegram-webhook", a.bot.WebhookHandler())

	bot.NewHTTPServer(a.bot, a.config.WebhookMode).RegisterRoutes(mux)

	return mux
}

// initHTTPServer initializes the HTTP server for health checks, webhook and API
func (a *App) initHTTPServer() {
	a.server = &http.Server{
		Addr:         ":" + a.config.Port,
		Handler:      a.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		a.logger.Info("Starting HTTP server", zap.String("port", a.config.Port))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if a.reminder != nil {
		if err := a.reminder.Start(); err != nil {
			return fmt.Errorf("failed to start reminder: %w", err)
		}
	}

	if a.config.WebhookMode {
		a.logger.Info("Starting bot in WEBHOOK mode", zap.String("url", a.config.WebhookURL))
		if err := a.bot.StartWebhook(a.config.WebhookURL); err != nil {
			return fmt.Errorf("failed to setup webhook: %w", err)
		}
		a.logger.Info("Webhook configured. Bot will receive updates via HTTP endpoint /telegram-webhook")
	} else {
		go func() {
			a.logger.Info("Starting bot in POLLING mode...")
			if err := a.bot.Start(); err != nil {
				a.logger.Error("Failed to start bot", zap.Error(err))
				sigChan <- syscall.SIGTERM
			}
		}()
	}

	<-sigChan

	a.logger.Info("Shutting down...")
	return a.Shutdown()
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	defer func() { _ = a.logger.Sync() }()

	if a.reminder != nil {
		if err := a.reminder.Stop(); err != nil {
			a.logger.Warn("Reminder shutdown error", zap.Error(err))
		}
	}
	if !a.config.WebhookMode {
		a.bot.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("HTTP server shutdown error", zap.Error(err))
	}

	if err := a.db.Close(); err != nil {
		a.logger.Error("Error closing database", zap.Error(err))
		return err
	}

	a.logger.Info("Shutdown complete")
	return nil
}
