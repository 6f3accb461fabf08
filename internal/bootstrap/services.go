package bootstrap

import (
	"github.com/aklabs-84/AIServiceHub-sub000/internal/auth"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/config"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/metrics"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/services"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"
)

// initializeServices creates all business logic services
func initializeServices(
	cfg *config.Config,
	db *store.Store,
	attachmentCache core.Cache[[]models.Attachment],
	blobs blobBackend,
	auditService *services.AuditService,
	prometheusMetrics metrics.Recorder,
) (
	*services.GrantService,
	*services.TargetService,
	*services.AttachmentService,
	*services.TransferService,
) {
	grantService := services.NewGrantService(
		db,
		auth.NewLocalAuthProvider(db, cfg.BcryptCost),
		auditService,
		prometheusMetrics,
		cfg.GrantMaxHour,
	)
	targetService := services.NewTargetService(db, auditService)
	attachmentService := services.NewAttachmentService(
		db,
		attachmentCache,
		cfg.AttachmentCacheTTL,
		prometheusMetrics,
	)
	transferService := services.NewTransferService(
		db,
		attachmentService,
		grantService,
		blobs.signer,
		blobs.inspector,
		auditService,
		prometheusMetrics,
		services.TransferOptions{
			UploadTTL:     cfg.UploadURLTTL,
			DownloadTTL:   cfg.DownloadURLTTL,
			MaxUploadSize: cfg.MaxUploadSize,
		},
	)

	return grantService, targetService, attachmentService, transferService
}
