package ch

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"questory/internal/storage"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// ClickHouseDB stores blobs in the kv_store table.
// Every write appends a row; the newest row per key wins and deletes are tombstones.
type ClickHouseDB struct {
	conn clickhouse.Conn
	now  func() time.Time
}

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(host string, port int, database, user, password string, useTLS bool) (*ClickHouseDB, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
		DialTimeout: 10 * time.Second,
	}

	// Configure TLS if enabled
	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseDB{conn: conn, now: time.Now}, nil
}

// Initialize is a no-op - tables are managed via migrations
func (db *ClickHouseDB) Initialize(ctx context.Context) error {
	// Tables are managed via migrations (see migrations/ directory)
	return nil
}

// Get returns the newest live value for key
func (db *ClickHouseDB) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		value   string
		deleted bool
	)
	err := db.conn.QueryRow(ctx,
		`SELECT value, is_deleted FROM kv_store WHERE key = ? ORDER BY updated_at DESC LIMIT 1`, key,
	).Scan(&value, &deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %q: %w", key, err)
	}
	if deleted {
		return nil, storage.ErrNotFound
	}
	return []byte(value), nil
}

// Set appends a new version of key
func (db *ClickHouseDB) Set(ctx context.Context, key string, value []byte) error {
	err := db.conn.Exec(ctx, `INSERT INTO kv_store (key, value, updated_at, is_deleted) VALUES (?, ?, ?, ?)`,
		key, string(value), db.now().UTC(), false)
	if err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

// Delete appends a tombstone for key
func (db *ClickHouseDB) Delete(ctx context.Context, key string) error {
	err := db.conn.Exec(ctx, `INSERT INTO kv_store (key, value, updated_at, is_deleted) VALUES (?, ?, ?, ?)`,
		key, "", db.now().UTC(), true)
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Close closes the database connection
func (db *ClickHouseDB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
