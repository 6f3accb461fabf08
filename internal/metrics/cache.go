package metrics

import (
	"context"
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
)

// CacheWrapper provides read-through caching for gauge counts so multiple
// instances do not all hit the database on every update tick.
type CacheWrapper struct {
	store core.MetricsStore
	cache core.Cache[int64]
}

// NewCacheWrapper creates a new cache wrapper for metrics.
func NewCacheWrapper(store core.MetricsStore, cache core.Cache[int64]) *CacheWrapper {
	return &CacheWrapper{
		store: store,
		cache: cache,
	}
}

// GetActiveGrantsCount returns the number of grants holding an unexpired session
func (m *CacheWrapper) GetActiveGrantsCount(ctx context.Context, ttl time.Duration) (int64, error) {
	return m.getCountWithCache(ctx, "grants:active", ttl, m.store.CountActiveGrants)
}

// GetAttachmentsCount returns the number of attachment rows
func (m *CacheWrapper) GetAttachmentsCount(ctx context.Context, ttl time.Duration) (int64, error) {
	return m.getCountWithCache(ctx, "attachments:total", ttl, m.store.CountAttachments)
}

func (m *CacheWrapper) getCountWithCache(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func() (int64, error),
) (int64, error) {
	return m.cache.GetWithFetch(
		ctx,
		key,
		ttl,
		func(ctx context.Context, key string) (int64, error) {
			return fetchFunc()
		},
	)
}
