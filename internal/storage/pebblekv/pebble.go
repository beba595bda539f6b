package pebblekv

import (
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"questory/internal/storage"
)

// keyPrefix namespaces application keys inside the LSM
const keyPrefix = "kv:"

// Store implements the Storage interface using PebbleDB
type Store struct {
	db *pebble.DB
}

// NewStore opens (or creates) a PebbleDB at path
func NewStore(path string) (*Store, error) {
	return open(path, &pebble.Options{})
}

func open(path string, opts *pebble.Options) (*Store, error) {
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open PebbleDB: %w", err)
	}
	return &Store{db: db}, nil
}

// Initialize is a no-op; Pebble needs no schema
func (s *Store) Initialize(ctx context.Context) error {
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, closer, err := s.db.Get([]byte(keyPrefix + key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %q: %w", key, err)
	}
	defer closer.Close()

	// value is only valid until closer.Close
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.db.Set([]byte(keyPrefix+key), value, pebble.Sync); err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.db.Delete([]byte(keyPrefix+key), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
