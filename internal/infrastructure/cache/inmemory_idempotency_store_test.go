package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	t.Run("first mark succeeds", func(t *testing.T) {
		created, err := store.MarkProcessed(ctx, "evt_1", time.Minute)
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("second mark is rejected", func(t *testing.T) {
		created, err := store.MarkProcessed(ctx, "evt_1", time.Minute)
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("expired entry can be marked again", func(t *testing.T) {
		created, err := store.MarkProcessed(ctx, "evt_2", time.Nanosecond)
		require.NoError(t, err)
		require.True(t, created)

		time.Sleep(5 * time.Millisecond)

		created, err = store.MarkProcessed(ctx, "evt_2", time.Minute)
		require.NoError(t, err)
		assert.True(t, created)
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	processed, err := store.IsProcessed(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "evt_1", time.Minute)
	require.NoError(t, err)

	processed, err = store.IsProcessed(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_ConcurrentMarks(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	eventID := uuid.New().String()
	const goroutines = 32

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := store.MarkProcessed(ctx, eventID, time.Minute)
			require.NoError(t, err)
			if created {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Exactly one goroutine may claim the event
	assert.Equal(t, 1, winners)
}

func TestInMemoryIdempotencyStore_Sweep(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	_, err := store.MarkProcessed(ctx, "evt_short", time.Nanosecond)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, "evt_long", time.Hour)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	store.sweep()

	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
