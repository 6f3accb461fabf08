package bootstrap

import (
	"fmt"
	"log"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/blob"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/client"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/config"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
)

// blobBackend is the signer the mediator uses plus, in local mode, the
// storage endpoint that honours its URLs
type blobBackend struct {
	signer    core.BlobSigner
	inspector core.BlobInspector // nil when signing is delegated to an external API

	local *blob.LocalSigner
	store *blob.FSStore
}

// serveBlobs reports whether this process hosts the /blobs endpoint
func (b blobBackend) serveBlobs() bool {
	return b.local != nil && b.store != nil
}

// initializeBlobBackend selects the signer for BLOB_SIGNER_MODE
func initializeBlobBackend(cfg *config.Config) (blobBackend, error) {
	switch cfg.BlobSignerMode {
	case config.BlobSignerModeHTTPAPI:
		retryClient, err := client.CreateRetryClient(
			client.AuthOptions{
				Mode:               cfg.BlobSignerAPIAuthMode,
				Secret:             cfg.BlobSignerAPIAuthSecret,
				HeaderName:         cfg.BlobSignerAPIAuthHeader,
				Timeout:            cfg.BlobSignerAPITimeout,
				InsecureSkipVerify: cfg.BlobSignerAPIInsecureSkipVerify,
			},
			client.RetryOptions{
				MaxRetries:    cfg.BlobSignerAPIMaxRetries,
				RetryDelay:    cfg.BlobSignerAPIRetryDelay,
				MaxRetryDelay: cfg.BlobSignerAPIMaxRetryDelay,
			},
		)
		if err != nil {
			return blobBackend{}, fmt.Errorf("failed to create blob signer API client: %w", err)
		}
		log.Printf("Blob signer: http_api (%s); uploads are recorded unconfirmed", cfg.BlobSignerAPIURL)
		return blobBackend{signer: blob.NewHTTPSigner(cfg.BlobSignerAPIURL, retryClient)}, nil

	default: // local
		store, err := blob.NewFSStore(cfg.BlobStorageRoot)
		if err != nil {
			return blobBackend{}, fmt.Errorf("failed to initialize blob storage: %w", err)
		}
		signer := blob.NewLocalSigner(cfg.BlobSigningSecret, cfg.BlobPublicURL)
		log.Printf("Blob signer: local (root=%s, url=%s/blobs)", cfg.BlobStorageRoot, cfg.BlobPublicURL)
		return blobBackend{signer: signer, inspector: store, local: signer, store: store}, nil
	}
}
