package draft

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)

	values := map[string]string{"firstName": "Amina", "lastName": "Bello"}
	require.NoError(t, s.Save(ctx, "sess-1", values))

	got, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestStoreLoadMissing(t *testing.T) {
	s := NewStore(time.Hour)

	_, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)

	require.NoError(t, s.Save(ctx, "sess-1", map[string]string{"firstName": "Amina"}))
	require.NoError(t, s.Save(ctx, "sess-1", map[string]string{"firstName": "Ngozi"}))

	got, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Ngozi", got["firstName"])
	assert.Equal(t, 1, s.Len())
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewStore(10 * time.Millisecond)

	require.NoError(t, s.Save(ctx, "sess-1", map[string]string{"firstName": "Amina"}))
	time.Sleep(25 * time.Millisecond)

	_, err := s.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)

	require.NoError(t, s.Save(ctx, "sess-1", map[string]string{"firstName": "Amina"}))
	s.Delete(ctx, "sess-1")

	_, err := s.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op.
	s.Delete(ctx, "sess-1")
}

func TestStoreSweep(t *testing.T) {
	ctx := context.Background()
	s := NewStore(10 * time.Millisecond)

	require.NoError(t, s.Save(ctx, "old-1", map[string]string{"a": "1"}))
	require.NoError(t, s.Save(ctx, "old-2", map[string]string{"b": "2"}))
	time.Sleep(25 * time.Millisecond)
	require.NoError(t, s.Save(ctx, "new-1", map[string]string{"c": "3"}))

	removed := s.Sweep(ctx)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, s.Len())
}

func TestStoreClosed(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)
	require.NoError(t, s.Save(ctx, "sess-1", map[string]string{"a": "1"}))
	s.Close()

	assert.ErrorIs(t, s.Save(ctx, "sess-2", nil), ErrClosed)
	_, err := s.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrClosed)
}
