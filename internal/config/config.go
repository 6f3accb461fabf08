package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Blob signer mode constants
const (
	BlobSignerModeLocal   = "local"
	BlobSignerModeHTTPAPI = "http_api"
)

// Gateway auth mode constants, used to trust the upstream user id header
const (
	GatewayAuthModeNone   = "none"
	GatewayAuthModeSimple = "simple"
	GatewayAuthModeHMAC   = "hmac"
)

// Attachment cache type constants
const (
	AttachmentCacheTypeMemory = "memory"
	AttachmentCacheTypeRedis  = "redis"
)

// Metrics cache type constants
const (
	MetricsCacheTypeMemory = "memory"
	MetricsCacheTypeRedis  = "redis"
)

type Config struct {
	// Server settings
	ServerAddr   string
	BaseURL      string
	IsProduction bool

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string // Database connection string (DSN or path)

	// Administration
	AdminToken   string // Bearer token guarding /admin routes
	BcryptCost   int
	GrantMaxHour int // Upper bound for a grant's duration_hours

	// Caller identity
	UserIDHeader           string        // Header carrying the upstream-resolved user id
	GatewayAuthMode        string        // "none", "simple", or "hmac"
	GatewayAuthSecret      string        // Shared secret with the upstream gateway
	GatewayAuthHeader      string        // Header name for simple mode (default: "X-API-Secret")
	GatewaySignatureMaxAge time.Duration // Accepted clock skew for hmac mode

	// Blob signing
	BlobSignerMode    string // "local" or "http_api"
	BlobSigningSecret string // HS256 key for locally signed URLs
	BlobStorageRoot   string // Directory backing the local blob endpoint
	BlobPublicURL     string // Base URL embedded in locally signed URLs

	// HTTP API blob signer
	BlobSignerAPIURL                string
	BlobSignerAPITimeout            time.Duration
	BlobSignerAPIInsecureSkipVerify bool
	BlobSignerAPIAuthMode           string // Authentication mode: "none", "simple", or "hmac"
	BlobSignerAPIAuthSecret         string
	BlobSignerAPIAuthHeader         string
	BlobSignerAPIMaxRetries         int
	BlobSignerAPIRetryDelay         time.Duration
	BlobSignerAPIMaxRetryDelay      time.Duration

	// Transfers
	UploadURLTTL   time.Duration
	DownloadURLTTL time.Duration
	MaxUploadSize  int64

	// Attachment list cache
	AttachmentCacheType string
	AttachmentCacheTTL  time.Duration

	// Redis (attachment and metrics caches)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Metrics
	MetricsEnabled             bool
	MetricsToken               string
	MetricsGaugeUpdateEnabled  bool
	MetricsGaugeUpdateInterval time.Duration
	MetricsCacheType           string

	// Audit logging
	EnableAuditLogging bool
	AuditLogRetention  time.Duration
	AuditLogBufferSize int

	// Timeouts
	DBInitTimeout         time.Duration
	CacheInitTimeout      time.Duration
	ServerShutdownTimeout time.Duration
	AuditShutdownTimeout  time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	driver := getEnv("DATABASE_DRIVER", "sqlite")
	var dsn string
	if driver == "sqlite" {
		dsn = getEnv("DATABASE_DSN", "aiservicehub.db")
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	baseURL := getEnv("BASE_URL", "http://localhost:8080")

	return &Config{
		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
		BaseURL:        baseURL,
		IsProduction:   getEnv("ENVIRONMENT", "development") == "production",
		DatabaseDriver: driver,
		DatabaseDSN:    dsn,

		AdminToken:   getEnv("ADMIN_TOKEN", ""),
		BcryptCost:   getEnvInt("BCRYPT_COST", 10),
		GrantMaxHour: getEnvInt("GRANT_MAX_HOURS", 24*30),

		UserIDHeader:           getEnv("USER_ID_HEADER", "X-User-ID"),
		GatewayAuthMode:        getEnv("GATEWAY_AUTH_MODE", GatewayAuthModeNone),
		GatewayAuthSecret:      getEnv("GATEWAY_AUTH_SECRET", ""),
		GatewayAuthHeader:      getEnv("GATEWAY_AUTH_HEADER", "X-API-Secret"),
		GatewaySignatureMaxAge: getEnvDuration("GATEWAY_SIGNATURE_MAX_AGE", 5*time.Minute),

		BlobSignerMode:    getEnv("BLOB_SIGNER_MODE", BlobSignerModeLocal),
		BlobSigningSecret: getEnv("BLOB_SIGNING_SECRET", ""),
		BlobStorageRoot:   getEnv("BLOB_STORAGE_ROOT", "data/blobs"),
		BlobPublicURL:     getEnv("BLOB_PUBLIC_URL", baseURL),

		BlobSignerAPIURL:                getEnv("BLOB_SIGNER_API_URL", ""),
		BlobSignerAPITimeout:            getEnvDuration("BLOB_SIGNER_API_TIMEOUT", 10*time.Second),
		BlobSignerAPIInsecureSkipVerify: getEnvBool("BLOB_SIGNER_API_INSECURE_SKIP_VERIFY", false),
		BlobSignerAPIAuthMode:           getEnv("BLOB_SIGNER_API_AUTH_MODE", "none"),
		BlobSignerAPIAuthSecret:         getEnv("BLOB_SIGNER_API_AUTH_SECRET", ""),
		BlobSignerAPIAuthHeader:         getEnv("BLOB_SIGNER_API_AUTH_HEADER", "X-API-Secret"),
		// Signed-URL minting is not retried server side
		BlobSignerAPIMaxRetries:    getEnvInt("BLOB_SIGNER_API_MAX_RETRIES", 0),
		BlobSignerAPIRetryDelay:    getEnvDuration("BLOB_SIGNER_API_RETRY_DELAY", 1*time.Second),
		BlobSignerAPIMaxRetryDelay: getEnvDuration("BLOB_SIGNER_API_MAX_RETRY_DELAY", 10*time.Second),

		UploadURLTTL:   getEnvDuration("UPLOAD_URL_TTL", 10*time.Minute),
		DownloadURLTTL: getEnvDuration("DOWNLOAD_URL_TTL", 5*time.Minute),
		MaxUploadSize:  getEnvInt64("MAX_UPLOAD_SIZE", 50<<20),

		AttachmentCacheType: getEnv("ATTACHMENT_CACHE_TYPE", AttachmentCacheTypeMemory),
		AttachmentCacheTTL:  getEnvDuration("ATTACHMENT_CACHE_TTL", time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MetricsEnabled:             getEnvBool("METRICS_ENABLED", false),
		MetricsToken:               getEnv("METRICS_TOKEN", ""),
		MetricsGaugeUpdateEnabled:  getEnvBool("METRICS_GAUGE_UPDATE_ENABLED", true),
		MetricsGaugeUpdateInterval: getEnvDuration("METRICS_GAUGE_UPDATE_INTERVAL", 5*time.Minute),
		MetricsCacheType:           getEnv("METRICS_CACHE_TYPE", MetricsCacheTypeMemory),

		EnableAuditLogging: getEnvBool("ENABLE_AUDIT_LOGGING", true),
		AuditLogRetention:  getEnvDuration("AUDIT_LOG_RETENTION", 90*24*time.Hour),
		AuditLogBufferSize: getEnvInt("AUDIT_LOG_BUFFER_SIZE", 1000),

		DBInitTimeout:         getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),
		CacheInitTimeout:      getEnvDuration("CACHE_INIT_TIMEOUT", 5*time.Second),
		ServerShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		AuditShutdownTimeout:  getEnvDuration("AUDIT_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// ClientConfig is what the upload and download commands need to reach the API
type ClientConfig struct {
	APIURL            string
	UserID            string
	GrantToken        string
	UserIDHeader      string
	GatewayAuthMode   string
	GatewayAuthSecret string
	Timeout           time.Duration
	BcryptCost        int
}

// LoadClient reads the command-line client settings from the environment
func LoadClient() *ClientConfig {
	_ = godotenv.Load()

	return &ClientConfig{
		APIURL:            getEnv("AIHUB_API_URL", "http://localhost:8080"),
		UserID:            getEnv("AIHUB_USER_ID", ""),
		GrantToken:        getEnv("AIHUB_GRANT_TOKEN", ""),
		UserIDHeader:      getEnv("USER_ID_HEADER", "X-User-ID"),
		GatewayAuthMode:   getEnv("GATEWAY_AUTH_MODE", GatewayAuthModeNone),
		GatewayAuthSecret: getEnv("GATEWAY_AUTH_SECRET", ""),
		Timeout:           getEnvDuration("AIHUB_API_TIMEOUT", 30*time.Second),
		BcryptCost:        getEnvInt("BCRYPT_COST", 10),
	}
}

// Validate checks enum values and the secrets each mode depends on
func (c *Config) Validate() error {
	switch c.BlobSignerMode {
	case BlobSignerModeLocal:
		if c.BlobSigningSecret == "" {
			return errors.New("BLOB_SIGNING_SECRET is required when BLOB_SIGNER_MODE=local")
		}
	case BlobSignerModeHTTPAPI:
		if c.BlobSignerAPIURL == "" {
			return errors.New("BLOB_SIGNER_API_URL is required when BLOB_SIGNER_MODE=http_api")
		}
	default:
		return fmt.Errorf(
			"invalid BLOB_SIGNER_MODE value: %q (must be %q or %q)",
			c.BlobSignerMode, BlobSignerModeLocal, BlobSignerModeHTTPAPI,
		)
	}

	switch c.GatewayAuthMode {
	case GatewayAuthModeNone:
		if c.IsProduction {
			return errors.New(
				"GATEWAY_AUTH_MODE=none is not allowed when ENVIRONMENT=production",
			)
		}
	case GatewayAuthModeSimple, GatewayAuthModeHMAC:
		if c.GatewayAuthSecret == "" {
			return fmt.Errorf(
				"GATEWAY_AUTH_SECRET is required when GATEWAY_AUTH_MODE=%s",
				c.GatewayAuthMode,
			)
		}
	default:
		return fmt.Errorf("invalid GATEWAY_AUTH_MODE value: %q", c.GatewayAuthMode)
	}

	if c.AttachmentCacheType != AttachmentCacheTypeMemory &&
		c.AttachmentCacheType != AttachmentCacheTypeRedis {
		return fmt.Errorf("invalid ATTACHMENT_CACHE_TYPE value: %q", c.AttachmentCacheType)
	}
	if c.MetricsCacheType != MetricsCacheTypeMemory &&
		c.MetricsCacheType != MetricsCacheTypeRedis {
		return fmt.Errorf("invalid METRICS_CACHE_TYPE value: %q", c.MetricsCacheType)
	}

	if c.UploadURLTTL <= 0 || c.DownloadURLTTL <= 0 {
		return errors.New("UPLOAD_URL_TTL and DOWNLOAD_URL_TTL must be positive")
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("invalid MAX_UPLOAD_SIZE value: %d", c.MaxUploadSize)
	}
	if c.GrantMaxHour <= 0 {
		return fmt.Errorf("invalid GRANT_MAX_HOURS value: %d", c.GrantMaxHour)
	}
	if c.UserIDHeader == "" {
		return errors.New("USER_ID_HEADER must not be empty")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
