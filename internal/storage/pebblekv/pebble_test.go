package pebblekv

import (
	"context"
	"errors"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questory/internal/storage"
)

func newMemStore(t *testing.T) *Store {
	t.Helper()
	s, err := open("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Initialize(context.Background()))
	return s
}

func TestStore_GetMissing(t *testing.T) {
	s := newMemStore(t)
	_, err := s.Get(context.Background(), storage.UserBooksKey)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestStore_SetGetDelete(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v1")))
	require.NoError(t, s.Set(ctx, "k", []byte("v2")))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestStore_ReturnedValueOutlivesRead(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("alpha")))
	got, err := s.Get(ctx, "a")
	require.NoError(t, err)

	// Further writes must not disturb a value already handed out
	require.NoError(t, s.Set(ctx, "a", []byte("omega")))
	assert.Equal(t, "alpha", string(got))
}

func TestStore_KeysAreNamespaced(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "player", []byte("x")))

	_, closer, err := s.db.Get([]byte("kv:player"))
	require.NoError(t, err)
	closer.Close()

	_, _, err = s.db.Get([]byte("player"))
	assert.True(t, errors.Is(err, pebble.ErrNotFound))
}
