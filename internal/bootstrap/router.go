package bootstrap

import (
	"log"
	"net/http"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/config"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/gateway"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/metrics"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/middleware"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	h handlerSet,
	prometheusMetrics metrics.Recorder,
) *gin.Engine {
	// Setup Gin mode
	setupGinMode(cfg)
	r := gin.New()

	// Setup middleware
	r.Use(metrics.HTTPMetricsMiddleware(prometheusMetrics))
	r.Use(gin.Logger(), gin.Recovery())

	// Health check endpoint
	r.GET("/health", createHealthCheckHandler(db))

	// Setup metrics endpoint
	setupMetricsEndpoint(r, cfg)

	// Setup all routes
	setupAllRoutes(r, cfg, h)

	// Log server startup info
	logServerStartup(cfg, h)

	return r
}

// newGatewayAuthenticator builds the verifier for the upstream identity header
func newGatewayAuthenticator(cfg *config.Config) *gateway.Authenticator {
	auth := gateway.NewAuthenticator(cfg.GatewayAuthMode, cfg.GatewayAuthSecret)
	auth.UserIDHeader = cfg.UserIDHeader
	if cfg.GatewayAuthHeader != "" {
		auth.SecretHeader = cfg.GatewayAuthHeader
	}
	if cfg.GatewaySignatureMaxAge > 0 {
		auth.MaxAge = cfg.GatewaySignatureMaxAge
	}
	return auth
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAllRoutes configures all application routes
func setupAllRoutes(r *gin.Engine, cfg *config.Config, h handlerSet) {
	identity := middleware.IdentityMiddleware(newGatewayAuthenticator(cfg))

	// Grant holder sign-in
	access := r.Group("/access", identity)
	{
		access.POST("/login", h.access.Login)
		access.GET("/status", h.access.Status)
	}

	// Transfer mediator
	api := r.Group("/api", identity)
	{
		api.POST("/attachments/upload-ticket", h.attachment.UploadTicket)
		api.POST("/attachments/download-ticket", h.attachment.DownloadTicket)
		api.POST("/attachments", h.attachment.Record)
		api.GET("/attachments", h.attachment.List)
		api.DELETE("/attachments/:id", h.attachment.Delete)
		api.DELETE("/targets/:type/:id/attachments", h.attachment.DeleteForTarget)
	}

	// Signed URL endpoint; the signature is the credential
	if h.blob != nil {
		r.PUT("/blobs/*path", h.blob.Put)
		r.GET("/blobs/*path", h.blob.Get)
	}

	// Admin routes (require ADMIN_TOKEN)
	admin := r.Group("/admin", middleware.AdminAuthMiddleware(cfg.AdminToken))
	{
		admin.POST("/grants", h.admin.CreateGrant)
		admin.GET("/grants", h.admin.ListGrants)
		admin.GET("/grants/:id", h.admin.GetGrant)
		admin.DELETE("/grants/:id", h.admin.RevokeGrant)
		admin.PUT("/targets/:type/:id", h.admin.UpsertTarget)

		admin.GET("/audit", h.audit.ListAuditLogs)
		admin.GET("/audit/export", h.audit.ExportAuditLogs)
	}
}

// createHealthCheckHandler creates health check endpoint handler
func createHealthCheckHandler(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch err := db.Health(); err {
		case nil:
			c.JSON(http.StatusOK, gin.H{
				"status":   "healthy",
				"database": "connected",
			})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
			})
		}
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	mode := ginModeMap[cfg.IsProduction]
	gin.SetMode(mode)
	log.Printf("Gin mode: %s", ginModeLogMessage[cfg.IsProduction])
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

var ginModeLogMessage = map[bool]string{
	true:  "Release (production)",
	false: "Debug (development)",
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config, h handlerSet) {
	log.Printf("Attachment service starting on %s", cfg.ServerAddr)
	log.Printf("Identity header: %s (gateway auth: %s)", cfg.UserIDHeader, cfg.GatewayAuthMode)
	log.Printf("Blob signer mode: %s", cfg.BlobSignerMode)
	if h.blob != nil {
		log.Printf("Serving signed blob URLs at %s/blobs", cfg.BlobPublicURL)
	}
	if cfg.AdminToken == "" {
		log.Printf("Admin API disabled (ADMIN_TOKEN not set)")
	}
}
