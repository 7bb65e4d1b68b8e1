package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T, ttl time.Duration) *MemoryStore {
	t.Helper()
	s := NewMemoryStore(ttl)
	t.Cleanup(s.Close)
	return s
}

func TestMemoryStore_SetGet(t *testing.T) {
	store := newMemoryStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "visitor-1", "cart", map[string]int{"1": 2}))

	var got map[string]int
	require.NoError(t, store.Get(ctx, "visitor-1", "cart", &got))
	assert.Equal(t, map[string]int{"1": 2}, got)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := newMemoryStore(t, time.Hour)

	var got map[string]int
	assert.ErrorIs(t, store.Get(context.Background(), "visitor-1", "cart", &got), ErrNoValue)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := newMemoryStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "visitor-1", "cart", map[string]int{"1": 2}))
	require.NoError(t, store.Delete(ctx, "visitor-1", "cart"))

	var got map[string]int
	assert.ErrorIs(t, store.Get(ctx, "visitor-1", "cart", &got), ErrNoValue)
}

func TestMemoryStore_ExpiredValueIsGone(t *testing.T) {
	store := newMemoryStore(t, 10*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "visitor-1", "cart", map[string]int{"1": 2}))
	time.Sleep(25 * time.Millisecond)

	var got map[string]int
	assert.ErrorIs(t, store.Get(ctx, "visitor-1", "cart", &got), ErrNoValue)
}

func TestMemoryStore_WriteRefreshesTTL(t *testing.T) {
	store := newMemoryStore(t, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "visitor-1", "cart", map[string]int{"1": 1}))
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, store.Set(ctx, "visitor-1", "cart", map[string]int{"1": 2}))
	time.Sleep(30 * time.Millisecond)

	// 60ms after the first write but only 30ms after the second: still alive.
	var got map[string]int
	require.NoError(t, store.Get(ctx, "visitor-1", "cart", &got))
	assert.Equal(t, map[string]int{"1": 2}, got)
}
