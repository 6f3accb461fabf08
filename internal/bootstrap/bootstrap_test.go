package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testConfig returns a complete local-mode configuration backed by temp dirs
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ServerAddr:     ":0",
		BaseURL:        "http://localhost",
		DatabaseDriver: "sqlite",
		DatabaseDSN:    filepath.Join(t.TempDir(), "hub.db"),

		AdminToken:   "admin-token",
		BcryptCost:   bcrypt.MinCost,
		GrantMaxHour: 24 * 30,

		UserIDHeader:           "X-User-ID",
		GatewayAuthMode:        config.GatewayAuthModeNone,
		GatewayAuthHeader:      "X-API-Secret",
		GatewaySignatureMaxAge: 5 * time.Minute,

		BlobSignerMode:    config.BlobSignerModeLocal,
		BlobSigningSecret: "blob-secret",
		BlobStorageRoot:   t.TempDir(),
		BlobPublicURL:     "http://localhost",

		UploadURLTTL:   10 * time.Minute,
		DownloadURLTTL: 5 * time.Minute,
		MaxUploadSize:  1 << 20,

		AttachmentCacheType: config.AttachmentCacheTypeMemory,
		AttachmentCacheTTL:  time.Minute,
		MetricsCacheType:    config.MetricsCacheTypeMemory,

		EnableAuditLogging: true,
		AuditLogBufferSize: 100,

		DBInitTimeout:         10 * time.Second,
		CacheInitTimeout:      time.Second,
		ServerShutdownTimeout: time.Second,
		AuditShutdownTimeout:  5 * time.Second,
	}
}

func TestValidateAllConfiguration(t *testing.T) {
	require.NoError(t, validateAllConfiguration(testConfig(t)))

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "local signer without secret",
			mutate: func(c *config.Config) { c.BlobSigningSecret = "" },
			want:   "BLOB_SIGNING_SECRET is required",
		},
		{
			name: "http_api signer without url",
			mutate: func(c *config.Config) {
				c.BlobSignerMode = config.BlobSignerModeHTTPAPI
				c.BlobSignerAPIAuthMode = config.GatewayAuthModeNone
			},
			want: "BLOB_SIGNER_API_URL is required",
		},
		{
			name: "http_api signer with unknown auth mode",
			mutate: func(c *config.Config) {
				c.BlobSignerMode = config.BlobSignerModeHTTPAPI
				c.BlobSignerAPIURL = "http://signer.example.com"
				c.BlobSignerAPIAuthMode = "oauth"
			},
			want: "invalid BLOB_SIGNER_API_AUTH_MODE",
		},
		{
			name: "http_api signer hmac without secret",
			mutate: func(c *config.Config) {
				c.BlobSignerMode = config.BlobSignerModeHTTPAPI
				c.BlobSignerAPIURL = "http://signer.example.com"
				c.BlobSignerAPIAuthMode = config.GatewayAuthModeHMAC
			},
			want: "BLOB_SIGNER_API_AUTH_SECRET is required",
		},
		{
			name:   "gateway hmac without secret",
			mutate: func(c *config.Config) { c.GatewayAuthMode = config.GatewayAuthModeHMAC },
			want:   "GATEWAY_AUTH_SECRET is required",
		},
		{
			name:   "unknown attachment cache",
			mutate: func(c *config.Config) { c.AttachmentCacheType = "disk" },
			want:   "invalid ATTACHMENT_CACHE_TYPE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			err := validateAllConfiguration(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInitializeMetrics(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		cfg := &config.Config{MetricsEnabled: enabled}
		m := initializeMetrics(cfg)
		require.NotNil(t, m)
	}
}

func TestInitializeMetricsCacheDisabled(t *testing.T) {
	ctx := context.Background()

	// Metrics disabled - no cache
	c, closer, err := initializeMetricsCache(
		ctx,
		&config.Config{MetricsEnabled: false, MetricsGaugeUpdateEnabled: true},
	)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Nil(t, closer)

	// Gauge updates disabled - no cache
	c, closer, err = initializeMetricsCache(
		ctx,
		&config.Config{MetricsEnabled: true, MetricsGaugeUpdateEnabled: false},
	)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Nil(t, closer)
}

func TestInitializeMetricsCacheMemory(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		MetricsEnabled:            true,
		MetricsGaugeUpdateEnabled: true,
		MetricsCacheType:          config.MetricsCacheTypeMemory,
		CacheInitTimeout:          time.Second,
	}
	c, closer, err := initializeMetricsCache(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NotNil(t, closer)
	_ = closer()
}

func TestInitializeAttachmentCacheMemory(t *testing.T) {
	c, closer, err := initializeAttachmentCache(context.Background(), testConfig(t))
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NoError(t, closer())
}

func TestInitializeAttachmentCacheRedisUnreachable(t *testing.T) {
	cfg := testConfig(t)
	cfg.AttachmentCacheType = config.AttachmentCacheTypeRedis
	cfg.RedisAddr = "127.0.0.1:1"
	cfg.CacheInitTimeout = 200 * time.Millisecond

	_, _, err := initializeAttachmentCache(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis attachment cache")
}

func TestInitializeBlobBackend(t *testing.T) {
	local, err := initializeBlobBackend(testConfig(t))
	require.NoError(t, err)
	assert.True(t, local.serveBlobs())
	assert.NotNil(t, local.inspector)
	assert.Equal(t, "local", local.signer.Name())

	cfg := testConfig(t)
	cfg.BlobSignerMode = config.BlobSignerModeHTTPAPI
	cfg.BlobSignerAPIURL = "http://signer.example.com/sign"
	cfg.BlobSignerAPIAuthMode = config.GatewayAuthModeNone
	cfg.BlobSignerAPITimeout = time.Second
	remote, err := initializeBlobBackend(cfg)
	require.NoError(t, err)
	assert.False(t, remote.serveBlobs())
	assert.Nil(t, remote.inspector)
	assert.NotNil(t, remote.signer)
}

func TestNewWithoutAdminToken(t *testing.T) {
	cfg := testConfig(t)
	cfg.AdminToken = ""
	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { shutdownApp(t, app) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/grants", nil)
	req.Header.Set("Authorization", "Bearer anything")
	app.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNewHTTPAPISignerHasNoBlobRoutes(t *testing.T) {
	cfg := testConfig(t)
	cfg.BlobSignerMode = config.BlobSignerModeHTTPAPI
	cfg.BlobSignerAPIURL = "http://signer.example.com/sign"
	cfg.BlobSignerAPIAuthMode = config.GatewayAuthModeNone
	cfg.BlobSignerAPITimeout = time.Second
	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { shutdownApp(t, app) })

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blobs/app/u1/a.txt", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.BlobSignerMode = "s3"
	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestHealthCheck(t *testing.T) {
	app, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "connected")

	shutdownApp(t, app)

	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCreateHTTPServer(t *testing.T) {
	srv := createHTTPServer(
		&config.Config{ServerAddr: ":8080"},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	)
	require.NotNil(t, srv)
	assert.Equal(t, ":8080", srv.Addr)
}

func TestGinModeMap(t *testing.T) {
	assert.Equal(t, gin.ReleaseMode, ginModeMap[true])
	assert.Equal(t, gin.DebugMode, ginModeMap[false])
}

func TestErrorLogger(t *testing.T) {
	el := newErrorLogger()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	el.now = func() time.Time { return now }

	assert.True(t, el.logIfNeeded("count_attachments", assert.AnError))
	assert.False(t, el.logIfNeeded("count_attachments", assert.AnError))
	assert.True(t, el.logIfNeeded("count_active_grants", assert.AnError))

	now = now.Add(el.rateLimitWindow)
	assert.True(t, el.logIfNeeded("count_attachments", assert.AnError))
}

// shutdownApp flushes the audit buffer and closes the database
func shutdownApp(t *testing.T, app *Application) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.AuditService.Shutdown(ctx))
	app.closeInfrastructure()
}
