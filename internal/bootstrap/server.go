package bootstrap

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/config"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/metrics"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/services"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"

	"github.com/appleboy/graceful"
)

// createHTTPServer creates the HTTP server instance. Blob bodies stream
// through the same server, so the write timeout is generous.
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, cfg *config.Config, srv *http.Server) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return err
		}

		log.Println("Server exited")
		return nil
	})
}

// addAuditServiceShutdownJob adds audit service shutdown handler
func addAuditServiceShutdownJob(
	m *graceful.Manager,
	cfg *config.Config,
	auditService *services.AuditService,
) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down audit service...")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.AuditShutdownTimeout)
		defer cancel()

		if err := auditService.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down audit service: %v", err)
			return err
		}
		return nil
	})
}

// addAuditLogCleanupJob adds periodic audit log cleanup job
func addAuditLogCleanupJob(
	m *graceful.Manager,
	cfg *config.Config,
	auditService *services.AuditService,
) {
	if !cfg.EnableAuditLogging || cfg.AuditLogRetention <= 0 {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		// Run cleanup immediately on startup
		cleanupAuditLogs(auditService, cfg.AuditLogRetention)

		for {
			select {
			case <-ticker.C:
				cleanupAuditLogs(auditService, cfg.AuditLogRetention)
			case <-ctx.Done():
				return nil
			}
		}
	})
}

func cleanupAuditLogs(auditService *services.AuditService, retention time.Duration) {
	if deleted, err := auditService.CleanupOldLogs(retention); err != nil {
		log.Printf("Failed to cleanup old audit logs: %v", err)
	} else if deleted > 0 {
		log.Printf("Cleaned up %d old audit logs", deleted)
	}
}

// addMetricsGaugeUpdateJob adds periodic metrics gauge update job
func addMetricsGaugeUpdateJob(
	m *graceful.Manager,
	cfg *config.Config,
	db *store.Store,
	prometheusMetrics metrics.Recorder,
	metricsCache core.Cache[int64],
) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled || metricsCache == nil {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(cfg.MetricsGaugeUpdateInterval)
		defer ticker.Stop()

		cacheWrapper := metrics.NewCacheWrapper(db, metricsCache)

		// Update immediately on startup
		updateGaugeMetricsWithCache(
			ctx,
			cacheWrapper,
			prometheusMetrics,
			cfg.MetricsGaugeUpdateInterval,
		)

		for {
			select {
			case <-ticker.C:
				updateGaugeMetricsWithCache(
					ctx,
					cacheWrapper,
					prometheusMetrics,
					cfg.MetricsGaugeUpdateInterval,
				)
			case <-ctx.Done():
				return nil
			}
		}
	})
}

// addCacheCleanupJob closes a cache on shutdown
func addCacheCleanupJob(m *graceful.Manager, name string, closer func() error) {
	if closer == nil {
		return
	}

	m.AddShutdownJob(func() error {
		if err := closer(); err != nil {
			log.Printf("Error closing %s: %v", name, err)
		} else {
			log.Printf("%s closed", name)
		}
		return nil
	})
}

// addDatabaseCloseJob closes the database pool on shutdown
func addDatabaseCloseJob(m *graceful.Manager, db *store.Store) {
	m.AddShutdownJob(func() error {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
			return err
		}
		log.Println("Database closed")
		return nil
	})
}

// errorLogger handles rate-limited error logging
type errorLogger struct {
	lastErrorTimes  map[string]time.Time
	rateLimitWindow time.Duration
	now             func() time.Time
}

// newErrorLogger creates a new error logger with rate limiting
func newErrorLogger() *errorLogger {
	return &errorLogger{
		lastErrorTimes:  make(map[string]time.Time),
		rateLimitWindow: 5 * time.Minute, // Log at most once per 5 minutes per operation
		now:             time.Now,
	}
}

// logIfNeeded logs an error only if rate limit allows, and reports whether it did
func (e *errorLogger) logIfNeeded(operation string, err error) bool {
	now := e.now()
	lastTime, exists := e.lastErrorTimes[operation]

	if exists && now.Sub(lastTime) < e.rateLimitWindow {
		return false
	}
	log.Printf("Database query failed for %s: %v (further errors will be suppressed for %v)",
		operation, err, e.rateLimitWindow)
	e.lastErrorTimes[operation] = now
	return true
}

var gaugeErrorLogger = newErrorLogger()

// updateGaugeMetricsWithCache refreshes the gauges from cached counts. The
// cache TTL matches the update interval so instances share one query per tick.
func updateGaugeMetricsWithCache(
	ctx context.Context,
	cacheWrapper *metrics.CacheWrapper,
	m metrics.Recorder,
	cacheTTL time.Duration,
) {
	activeGrants, err := cacheWrapper.GetActiveGrantsCount(ctx, cacheTTL)
	if err != nil {
		m.RecordDatabaseQueryError("count_active_grants")
		gaugeErrorLogger.logIfNeeded("count_active_grants", err)
	} else {
		m.SetActiveGrantsCount(int(activeGrants))
	}

	attachments, err := cacheWrapper.GetAttachmentsCount(ctx, cacheTTL)
	if err != nil {
		m.RecordDatabaseQueryError("count_attachments")
		gaugeErrorLogger.logIfNeeded("count_attachments", err)
	} else {
		m.SetAttachmentsCount(int(attachments))
	}
}
