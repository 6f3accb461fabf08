package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/cache"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/config"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/metrics"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
)

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) metrics.Recorder {
	prometheusMetrics := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
	} else {
		log.Println("Metrics disabled (using noop implementation)")
	}
	return prometheusMetrics
}

// initializeMetricsCache initializes the gauge count cache based on configuration
func initializeMetricsCache(
	ctx context.Context,
	cfg *config.Config,
) (core.Cache[int64], func() error, error) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled {
		return nil, nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.CacheInitTimeout)
	defer cancel()

	switch cfg.MetricsCacheType {
	case config.MetricsCacheTypeRedis:
		c, err := cache.NewRueidisCache[int64](
			ctx,
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			"aiservicehub:metrics:",
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis metrics cache: %w", err)
		}
		log.Printf("Metrics cache: redis (addr=%s, db=%d)", cfg.RedisAddr, cfg.RedisDB)
		return c, c.Close, nil

	default: // memory
		c := cache.NewMemoryCache[int64]()
		log.Println("Metrics cache: memory (single instance only)")
		return c, c.Close, nil
	}
}

// initializeAttachmentCache initializes the per-target attachment list cache
// (always enabled, defaults to memory)
func initializeAttachmentCache(
	ctx context.Context,
	cfg *config.Config,
) (core.Cache[[]models.Attachment], func() error, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.CacheInitTimeout)
	defer cancel()

	switch cfg.AttachmentCacheType {
	case config.AttachmentCacheTypeRedis:
		c, err := cache.NewRueidisCache[[]models.Attachment](
			ctx,
			cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			"aiservicehub:attachments:",
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis attachment cache: %w", err)
		}
		log.Printf("Attachment cache: redis (addr=%s, db=%d, ttl=%s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.AttachmentCacheTTL)
		return c, c.Close, nil

	default: // memory
		c := cache.NewMemoryCache[[]models.Attachment]()
		log.Printf("Attachment cache: memory (ttl=%s, single instance only)", cfg.AttachmentCacheTTL)
		return c, c.Close, nil
	}
}
