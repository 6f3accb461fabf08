package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		BlobSignerMode:      BlobSignerModeLocal,
		BlobSigningSecret:   "signing-secret",
		GatewayAuthMode:     GatewayAuthModeNone,
		AttachmentCacheType: AttachmentCacheTypeMemory,
		MetricsCacheType:    MetricsCacheTypeMemory,
		UploadURLTTL:        10 * time.Minute,
		DownloadURLTTL:      5 * time.Minute,
		MaxUploadSize:       1 << 20,
		GrantMaxHour:        720,
		UserIDHeader:        "X-User-ID",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{
			name:   "valid local signer",
			mutate: func(c *Config) {},
		},
		{
			name: "valid http api signer",
			mutate: func(c *Config) {
				c.BlobSignerMode = BlobSignerModeHTTPAPI
				c.BlobSigningSecret = ""
				c.BlobSignerAPIURL = "http://signer.example.com"
			},
		},
		{
			name:     "local signer without secret",
			mutate:   func(c *Config) { c.BlobSigningSecret = "" },
			errorMsg: "BLOB_SIGNING_SECRET is required",
		},
		{
			name: "http api signer without url",
			mutate: func(c *Config) {
				c.BlobSignerMode = BlobSignerModeHTTPAPI
			},
			errorMsg: "BLOB_SIGNER_API_URL is required",
		},
		{
			name:     "unknown signer mode",
			mutate:   func(c *Config) { c.BlobSignerMode = "s3" },
			errorMsg: `invalid BLOB_SIGNER_MODE value: "s3"`,
		},
		{
			name:     "hmac gateway without secret",
			mutate:   func(c *Config) { c.GatewayAuthMode = GatewayAuthModeHMAC },
			errorMsg: "GATEWAY_AUTH_SECRET is required when GATEWAY_AUTH_MODE=hmac",
		},
		{
			name:     "unverified gateway in production",
			mutate:   func(c *Config) { c.IsProduction = true },
			errorMsg: "GATEWAY_AUTH_MODE=none is not allowed",
		},
		{
			name: "hmac gateway in production",
			mutate: func(c *Config) {
				c.IsProduction = true
				c.GatewayAuthMode = GatewayAuthModeHMAC
				c.GatewayAuthSecret = "gateway-secret"
			},
		},
		{
			name:     "unknown gateway mode",
			mutate:   func(c *Config) { c.GatewayAuthMode = "jwt" },
			errorMsg: `invalid GATEWAY_AUTH_MODE value: "jwt"`,
		},
		{
			name:     "unknown attachment cache",
			mutate:   func(c *Config) { c.AttachmentCacheType = "reddis" },
			errorMsg: `invalid ATTACHMENT_CACHE_TYPE value: "reddis"`,
		},
		{
			name:     "unknown metrics cache",
			mutate:   func(c *Config) { c.MetricsCacheType = "memcache" },
			errorMsg: `invalid METRICS_CACHE_TYPE value: "memcache"`,
		},
		{
			name:     "zero download ttl",
			mutate:   func(c *Config) { c.DownloadURLTTL = 0 },
			errorMsg: "must be positive",
		},
		{
			name:     "negative max upload size",
			mutate:   func(c *Config) { c.MaxUploadSize = -1 },
			errorMsg: "invalid MAX_UPLOAD_SIZE value: -1",
		},
		{
			name:     "empty user id header",
			mutate:   func(c *Config) { c.UserIDHeader = "" },
			errorMsg: "USER_ID_HEADER must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BASE_URL", "https://hub.example.com")
	t.Setenv("MAX_UPLOAD_SIZE", "1024")
	t.Setenv("DOWNLOAD_URL_TTL", "2m")

	cfg := Load()

	assert.Equal(t, "https://hub.example.com", cfg.BlobPublicURL)
	assert.Equal(t, int64(1024), cfg.MaxUploadSize)
	assert.Equal(t, 2*time.Minute, cfg.DownloadURLTTL)
	assert.Equal(t, 10*time.Minute, cfg.UploadURLTTL)
	assert.Equal(t, 0, cfg.BlobSignerAPIMaxRetries)
	assert.Equal(t, "X-User-ID", cfg.UserIDHeader)
	assert.Equal(t, 5*time.Second, cfg.ServerShutdownTimeout)
}

func TestLoadClient(t *testing.T) {
	t.Setenv("AIHUB_API_URL", "https://hub.example.com")
	t.Setenv("AIHUB_GRANT_TOKEN", "tok")
	t.Setenv("AIHUB_API_TIMEOUT", "3s")

	cfg := LoadClient()

	assert.Equal(t, "https://hub.example.com", cfg.APIURL)
	assert.Equal(t, "tok", cfg.GrantToken)
	assert.Empty(t, cfg.UserID)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, GatewayAuthModeNone, cfg.GatewayAuthMode)
}
