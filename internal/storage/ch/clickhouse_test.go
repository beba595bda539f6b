package ch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clickhouseTC "github.com/testcontainers/testcontainers-go/modules/clickhouse"

	"questory/internal/models"
	"questory/internal/storage"
)

// runMigrations manually runs ClickHouse migrations
func runMigrations(ctx context.Context, db *ClickHouseDB) error {
	_ = db.conn.Exec(ctx, "DROP TABLE IF EXISTS kv_store")

	return db.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS kv_store (
			key        String,
			value      String,
			updated_at DateTime64(6, 'UTC'),
			is_deleted Bool DEFAULT false
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY key
	`)
}

// steppingClock returns strictly increasing timestamps so versions never tie
func steppingClock() func() time.Time {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Millisecond)
	}
}

// setupTestDB creates a test ClickHouse instance using testcontainers
func setupTestDB(t *testing.T) (*ClickHouseDB, func()) {
	if testing.Short() {
		t.Skip("skipping ClickHouse container test in short mode")
	}
	ctx := context.Background()

	// Start ClickHouse container
	clickhouseContainer, err := clickhouseTC.Run(ctx,
		"clickhouse/clickhouse-server:24.3.3.102-alpine",
		clickhouseTC.WithUsername("default"),
		clickhouseTC.WithPassword(""),
		clickhouseTC.WithDatabase("default"),
	)
	require.NoError(t, err, "Failed to start ClickHouse container")

	// Get connection details
	host, err := clickhouseContainer.Host(ctx)
	require.NoError(t, err)

	port, err := clickhouseContainer.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	// Create database connection
	db, err := NewClickHouseDB(host, port.Int(), "default", "default", "", false)
	require.NoError(t, err, "Failed to connect to ClickHouse")
	db.now = steppingClock()

	// Run migrations manually (goose doesn't work well with ClickHouse)
	err = runMigrations(ctx, db)
	require.NoError(t, err, "Failed to run migrations")

	// Cleanup function
	cleanup := func() {
		db.Close()
		clickhouseContainer.Terminate(ctx)
	}

	return db, cleanup
}

// TestClickHouseDB_GetMissing tests reading an absent key
func TestClickHouseDB_GetMissing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.Get(context.Background(), "nothing-here")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

// TestClickHouseDB_SetGet tests the newest version wins
func TestClickHouseDB_SetGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, db.Set(ctx, storage.PlayerKey, []byte(`{"totalXP":10}`)))
	require.NoError(t, db.Set(ctx, storage.PlayerKey, []byte(`{"totalXP":70}`)))

	got, err := db.Get(ctx, storage.PlayerKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalXP":70}`, string(got))
}

// TestClickHouseDB_Delete tests tombstones hide older versions
func TestClickHouseDB_Delete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, db.Set(ctx, "k", []byte("v1")))
	require.NoError(t, db.Delete(ctx, "k"))

	_, err := db.Get(ctx, "k")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	// A write after the tombstone revives the key
	require.NoError(t, db.Set(ctx, "k", []byte("v2")))
	got, err := db.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))
}

// TestClickHouseDB_JSONRoundTrip tests stats persisted through the typed helpers
func TestClickHouseDB_JSONRoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	stats := models.PlayerStats{TotalXP: 120, Level: 2, StreakCount: 2, LastReadDate: "2024-01-02"}
	require.NoError(t, storage.SetJSON(ctx, db, storage.PlayerKey, stats))

	loaded, ok, err := storage.GetJSON[models.PlayerStats](ctx, db, storage.PlayerKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 120, loaded.TotalXP)
	assert.Equal(t, 2, loaded.StreakCount)
	assert.Equal(t, "2024-01-02", loaded.LastReadDate)
}
