package bootstrap

import (
	"fmt"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/config"
)

// validateAllConfiguration validates all configuration settings
func validateAllConfiguration(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validateSignerAPIConfig(cfg); err != nil {
		return fmt.Errorf("invalid blob signer configuration: %w", err)
	}
	return nil
}

// validateSignerAPIConfig checks the service auth settings of the external signer
func validateSignerAPIConfig(cfg *config.Config) error {
	if cfg.BlobSignerMode != config.BlobSignerModeHTTPAPI {
		return nil
	}

	switch cfg.BlobSignerAPIAuthMode {
	case config.GatewayAuthModeNone:
	case config.GatewayAuthModeSimple, config.GatewayAuthModeHMAC:
		if cfg.BlobSignerAPIAuthSecret == "" {
			return fmt.Errorf(
				"BLOB_SIGNER_API_AUTH_SECRET is required when BLOB_SIGNER_API_AUTH_MODE=%s",
				cfg.BlobSignerAPIAuthMode,
			)
		}
	default:
		return fmt.Errorf(
			"invalid BLOB_SIGNER_API_AUTH_MODE: %s (must be: none, simple, hmac)",
			cfg.BlobSignerAPIAuthMode,
		)
	}

	if cfg.BlobSignerAPIMaxRetries < 0 {
		return fmt.Errorf("invalid BLOB_SIGNER_API_MAX_RETRIES: %d", cfg.BlobSignerAPIMaxRetries)
	}
	return nil
}
