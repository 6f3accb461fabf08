package bootstrap

import (
	"github.com/aklabs-84/AIServiceHub-sub000/internal/config"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/handlers"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/metrics"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/services"
)

// handlerSet holds all HTTP handlers
type handlerSet struct {
	access     *handlers.AccessHandler
	attachment *handlers.AttachmentHandler
	admin      *handlers.AdminHandler
	audit      *handlers.AuditHandler
	blob       *handlers.BlobHandler // nil unless blobs are served locally
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	cfg *config.Config,
	grantService *services.GrantService,
	targetService *services.TargetService,
	transferService *services.TransferService,
	auditService *services.AuditService,
	blobs blobBackend,
	prometheusMetrics metrics.Recorder,
) handlerSet {
	h := handlerSet{
		access:     handlers.NewAccessHandler(grantService),
		attachment: handlers.NewAttachmentHandler(transferService),
		admin:      handlers.NewAdminHandler(grantService, targetService),
		audit:      handlers.NewAuditHandler(auditService),
	}
	if blobs.serveBlobs() {
		h.blob = handlers.NewBlobHandler(blobs.local, blobs.store, prometheusMetrics, cfg.MaxUploadSize)
	}
	return h
}
