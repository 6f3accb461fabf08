package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "test-key", 42, time.Minute))

	value, err := cache.Get(ctx, "test-key")
	require.NoError(t, err)
	assert.Equal(t, int64(42), value)
}

func TestMemoryCache_GetMiss(t *testing.T) {
	cache := NewMemoryCache[int64]()

	_, err := cache.Get(context.Background(), "non-existent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "expire-key", 100, 50*time.Millisecond))

	value, err := cache.Get(ctx, "expire-key")
	require.NoError(t, err)
	assert.Equal(t, int64(100), value)

	time.Sleep(100 * time.Millisecond)

	_, err = cache.Get(ctx, "expire-key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_SliceValues(t *testing.T) {
	type row struct {
		ID   string
		Size int64
	}
	cache := NewMemoryCache[[]row]()
	ctx := context.Background()

	rows := []row{{ID: "a", Size: 10}, {ID: "b", Size: 20}}
	require.NoError(t, cache.Set(ctx, "app:t1", rows, time.Minute))

	got, err := cache.Get(ctx, "app:t1")
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache[string]()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, cache.Delete(ctx, "k"))

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Deleting a missing key is not an error
	assert.NoError(t, cache.Delete(ctx, "k"))
}

func TestMemoryCache_CloseAndHealth(t *testing.T) {
	cache := NewMemoryCache[string]()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))
	assert.NoError(t, cache.Health(ctx))
	require.NoError(t, cache.Close())

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache[int]()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := "key"
			if n%2 == 0 {
				_ = cache.Set(ctx, key, n, time.Minute)
			} else {
				_, _ = cache.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	_, err := cache.Get(ctx, "key")
	assert.NoError(t, err)
}

func TestMemoryCache_GetWithFetch_CacheMiss(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	var calls int32
	fetch := func(ctx context.Context, key string) (int64, error) {
		atomic.AddInt32(&calls, 1)
		return 7, nil
	}

	value, err := cache.GetWithFetch(ctx, "count", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, int64(7), value)

	value, err = cache.GetWithFetch(ctx, "count", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, int64(7), value)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second call should hit the cache")
}

func TestMemoryCache_GetWithFetch_FetchError(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()
	boom := errors.New("db down")

	_, err := cache.GetWithFetch(ctx, "count", time.Minute, func(context.Context, string) (int64, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = cache.Get(ctx, "count")
	assert.ErrorIs(t, err, ErrCacheMiss, "failed fetches must not be cached")
}
