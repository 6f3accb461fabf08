package bootstrap

import (
	"context"
	"net/http"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/config"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/metrics"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/services"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB                    *store.Store
	MetricsRecorder       metrics.Recorder
	MetricsCache          core.Cache[int64]
	MetricsCacheCloser    func() error
	AttachmentCache       core.Cache[[]models.Attachment]
	AttachmentCacheCloser func() error
	Blobs                 blobBackend

	// Services
	AuditService      *services.AuditService
	GrantService      *services.GrantService
	TargetService     *services.TargetService
	AttachmentService *services.AttachmentService
	TransferService   *services.TransferService

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application
func Run(ctx context.Context, cfg *config.Config) error {
	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}

	app.startWithGracefulShutdown()
	return nil
}

// New builds every layer without starting the server
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	if err := validateAllConfiguration(cfg); err != nil {
		return nil, err
	}

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		app.closeInfrastructure()
		return nil, err
	}

	// Phase 3: Initialize business layer
	app.initializeBusinessLayer()

	// Phase 4: Initialize HTTP layer
	app.initializeHTTPLayer()

	return app, nil
}

// initializeInfrastructure sets up database, metrics, caches and blob storage
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	// Database
	app.DB, err = initializeDatabase(ctx, app.Config)
	if err != nil {
		return err
	}

	// Metrics
	app.MetricsRecorder = initializeMetrics(app.Config)
	app.MetricsCache, app.MetricsCacheCloser, err = initializeMetricsCache(ctx, app.Config)
	if err != nil {
		return err
	}

	// Attachment list cache
	app.AttachmentCache, app.AttachmentCacheCloser, err = initializeAttachmentCache(ctx, app.Config)
	if err != nil {
		return err
	}

	// Blob signing and storage
	app.Blobs, err = initializeBlobBackend(app.Config)
	if err != nil {
		return err
	}

	return nil
}

// closeInfrastructure releases whatever initializeInfrastructure opened
func (app *Application) closeInfrastructure() {
	if app.AttachmentCacheCloser != nil {
		_ = app.AttachmentCacheCloser()
	}
	if app.MetricsCacheCloser != nil {
		_ = app.MetricsCacheCloser()
	}
	if app.DB != nil {
		_ = app.DB.Close()
	}
}

// initializeBusinessLayer sets up services
func (app *Application) initializeBusinessLayer() {
	// Audit service (required by other services)
	app.AuditService = services.NewAuditService(
		app.DB,
		app.Config.EnableAuditLogging,
		app.Config.AuditLogBufferSize,
	)

	app.GrantService,
		app.TargetService,
		app.AttachmentService,
		app.TransferService = initializeServices(
		app.Config,
		app.DB,
		app.AttachmentCache,
		app.Blobs,
		app.AuditService,
		app.MetricsRecorder,
	)
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() {
	app.HandlerSet = initializeHandlers(
		app.Config,
		app.GrantService,
		app.TargetService,
		app.TransferService,
		app.AuditService,
		app.Blobs,
		app.MetricsRecorder,
	)

	app.Router = setupRouter(app.Config, app.DB, app.HandlerSet, app.MetricsRecorder)

	app.Server = createHTTPServer(app.Config, app.Router)
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	// Add jobs
	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Config, app.Server)
	addAuditServiceShutdownJob(m, app.Config, app.AuditService)
	addAuditLogCleanupJob(m, app.Config, app.AuditService)
	addMetricsGaugeUpdateJob(m, app.Config, app.DB, app.MetricsRecorder, app.MetricsCache)
	addCacheCleanupJob(m, "Metrics cache", app.MetricsCacheCloser)
	addCacheCleanupJob(m, "Attachment cache", app.AttachmentCacheCloser)
	addDatabaseCloseJob(m, app.DB)

	// Wait for graceful shutdown
	<-m.Done()
}
