package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"questory/internal/app"
	"questory/migrations"
)

func main() {
	logger, err := app.NewLogger(os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found, using existing environment variables")
	}

	host := getEnv("CLICKHOUSE_HOST", "localhost")
	port := getEnv("CLICKHOUSE_PORT", "9000")
	database := getEnv("CLICKHOUSE_DATABASE", "default")
	user := getEnv("CLICKHOUSE_USER", "default")
	password := getEnv("CLICKHOUSE_PASSWORD", "")
	useTLS := getEnv("CLICKHOUSE_USE_TLS", "false") == "true"

	db, err := migrations.Open(host, port, database, user, password, useTLS)
	if err != nil {
		logger.Fatal("Failed to connect to ClickHouse", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Connected to ClickHouse successfully", zap.String("host", host), zap.String("database", database))

	// Get command from arguments (default to "up")
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	logger.Info("Running migrations", zap.String("command", command))
	switch command {
	case "up", "down", "status", "version", "redo":
		if err := migrations.Run(context.Background(), db, command); err != nil {
			logger.Fatal("Migration command failed", zap.Error(err))
		}
		logger.Info("Migration command completed", zap.String("command", command))
	case "create":
		if len(os.Args) < 3 {
			logger.Fatal("Usage: migrate create <migration_name>")
		}
		migrationName := os.Args[2]
		if err := goose.Create(db, "./migrations", migrationName, "sql"); err != nil {
			logger.Fatal("Failed to create migration", zap.Error(err))
		}
		logger.Info("Created migration", zap.String("name", migrationName))
	default:
		logger.Fatal("Unknown command. Available commands: up, down, status, version, redo, create",
			zap.String("command", command))
	}
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
