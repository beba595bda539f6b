package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Fixed keys for the two persisted records
const (
	UserBooksKey = "questory.userBooks"
	PlayerKey    = "questory.player"
)

// ErrNotFound is returned by Get when no value is stored under the key
var ErrNotFound = errors.New("key not found")

// Storage defines the blob store the application persists into.
// A single key's write is applied as a whole; there is no atomicity across
// keys and concurrent writers resolve as last write wins.
type Storage interface {
	// Get returns the raw value stored under key or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}

// GetJSON loads and decodes the value under key.
// ok is false when the key is absent or the stored value does not decode;
// err carries the reason in either case so callers can log it.
func GetJSON[T any](ctx context.Context, s Storage, key string) (value T, ok bool, err error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return value, false, err
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		var zero T
		return zero, false, fmt.Errorf("decode %q: %w", key, err)
	}
	return value, true, nil
}

// SetJSON encodes value and stores it under key
func SetJSON[T any](ctx context.Context, s Storage, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("store %q: %w", key, err)
	}
	return nil
}
