package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/blob"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"

	"github.com/google/uuid"
)

// Ticket directions, used as metric labels
const (
	DirectionUpload   = "upload"
	DirectionDownload = "download"
)

// Denial reasons, used as metric labels
const (
	denyUnauthenticated = "unauthenticated"
	denyForbidden       = "forbidden"
	denyInvalid         = "invalid"
	denyStorage         = "storage"
)

var (
	extPattern    = regexp.MustCompile(`^\.[a-z0-9]{1,16}$`)
	userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_@:-][A-Za-z0-9_.@:-]{0,63}$`)
)

// GrantChecker answers whether a grant session token is currently valid
type GrantChecker interface {
	IsGrantActive(ctx context.Context, token string) bool
}

// UploadTicketRequest is the body of an upload ticket request
type UploadTicketRequest struct {
	TargetType  models.TargetType `json:"target_type"  binding:"required"`
	FileName    string            `json:"file_name"    binding:"required"`
	FileSize    int64             `json:"file_size"`
	ContentType string            `json:"content_type" binding:"required"`
}

// DownloadTicketRequest is the body of a download ticket request
type DownloadTicketRequest struct {
	StoragePath string            `json:"storage_path" binding:"required"`
	TargetType  models.TargetType `json:"target_type"  binding:"required"`
}

// UploadTicket authorizes one PUT of one file to a server-chosen path
type UploadTicket struct {
	SignedURL   string    `json:"signed_url"`
	StoragePath string    `json:"storage_path"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// DownloadTicket authorizes GETs of one blob until it expires
type DownloadTicket struct {
	SignedURL string    `json:"signed_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TransferOptions bounds the tickets the service hands out
type TransferOptions struct {
	UploadTTL     time.Duration
	DownloadTTL   time.Duration
	MaxUploadSize int64
}

// TransferService authorizes transfers and mints signed URLs. It never moves
// file bytes itself. Authorization is evaluated on every call.
type TransferService struct {
	store        *store.Store
	attachments  *AttachmentService
	grants       GrantChecker
	signer       core.BlobSigner
	inspector    core.BlobInspector
	auditService *AuditService
	metrics      core.Recorder
	opts         TransferOptions
	now          func() time.Time
}

// NewTransferService wires the mediator. inspector may be nil when the blob
// backend cannot confirm uploads.
func NewTransferService(
	s *store.Store,
	attachments *AttachmentService,
	grants GrantChecker,
	signer core.BlobSigner,
	inspector core.BlobInspector,
	auditService *AuditService,
	m core.Recorder,
	opts TransferOptions,
) *TransferService {
	return &TransferService{
		store:        s,
		attachments:  attachments,
		grants:       grants,
		signer:       signer,
		inspector:    inspector,
		auditService: auditService,
		metrics:      m,
		opts:         opts,
		now:          time.Now,
	}
}

// registeredUser extracts the user id of a caller that may write
func registeredUser(caller core.Caller) (string, error) {
	switch c := caller.(type) {
	case nil:
		return "", core.ErrUnauthenticated
	case core.RegisteredUser:
		// The id becomes a storage path segment
		if !userIDPattern.MatchString(c.UserID) {
			return "", core.ErrUnauthenticated
		}
		return c.UserID, nil
	case core.GrantHolder:
		// Grant holders may view but never write
		return "", core.ErrForbidden
	default:
		return "", core.ErrUnauthenticated
	}
}

// RequestUploadTicket reserves a fresh storage path and signs a PUT for it.
// No attachment row is written.
func (s *TransferService) RequestUploadTicket(
	ctx context.Context,
	caller core.Caller,
	targetType models.TargetType,
	fileName string,
	fileSize int64,
	contentType string,
) (*UploadTicket, error) {
	start := time.Now()

	userID, err := registeredUser(caller)
	if err != nil {
		s.deny(DirectionUpload, err)
		return nil, err
	}

	if err := s.validateUpload(targetType, fileName, fileSize, contentType); err != nil {
		s.deny(DirectionUpload, err)
		return nil, err
	}

	storagePath := NewStoragePath(targetType, userID, fileName)
	expiresAt := s.now().Add(s.opts.UploadTTL)

	signedURL, err := s.signer.SignPut(ctx, storagePath, contentType, s.opts.UploadTTL)
	if err != nil {
		log.Printf("[Transfer] %s signer failed for upload %s: %v", s.signer.Name(), storagePath, err)
		err = fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
		s.deny(DirectionUpload, err)
		return nil, err
	}

	s.metrics.RecordTicketIssued(DirectionUpload, time.Since(start))
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventUploadTicketIssued,
		ActorID:      userID,
		ResourceType: models.ResourceBlob,
		ResourceID:   storagePath,
		Action:       "Upload ticket issued",
		Details: models.AuditDetails{
			"file_name":    fileName,
			"file_size":    fileSize,
			"content_type": contentType,
		},
		Success: true,
	})

	return &UploadTicket{
		SignedURL:   signedURL,
		StoragePath: storagePath,
		ExpiresAt:   expiresAt,
	}, nil
}

// RequestDownloadTicket signs a GET for an attachment the caller may view
func (s *TransferService) RequestDownloadTicket(
	ctx context.Context,
	caller core.Caller,
	storagePath string,
	targetType models.TargetType,
) (*DownloadTicket, error) {
	start := time.Now()

	if caller == nil {
		s.deny(DirectionDownload, core.ErrUnauthenticated)
		return nil, core.ErrUnauthenticated
	}

	attachment, err := s.attachments.GetByStoragePath(ctx, storagePath)
	if err != nil {
		if errors.Is(err, core.ErrAttachmentNotFound) {
			err = core.ErrForbidden
		}
		s.denyDownload(ctx, caller, storagePath, err)
		return nil, err
	}
	if attachment.TargetType != targetType {
		s.denyDownload(ctx, caller, storagePath, core.ErrForbidden)
		return nil, core.ErrForbidden
	}

	target, err := s.lookupTarget(attachment.TargetType, attachment.TargetID)
	if err == nil {
		err = s.authorizeView(ctx, caller, target)
	}
	if err != nil {
		s.denyDownload(ctx, caller, storagePath, err)
		return nil, err
	}

	expiresAt := s.now().Add(s.opts.DownloadTTL)
	signedURL, err := s.signer.SignGet(ctx, attachment.StoragePath, s.opts.DownloadTTL)
	if err != nil {
		log.Printf("[Transfer] %s signer failed for download %s: %v", s.signer.Name(), storagePath, err)
		err = fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
		s.deny(DirectionDownload, err)
		return nil, err
	}

	s.metrics.RecordTicketIssued(DirectionDownload, time.Since(start))
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventDownloadTicketIssued,
		ActorID:      actorID(caller),
		ResourceType: models.ResourceAttachment,
		ResourceID:   attachment.ID,
		Action:       "Download ticket issued",
		Success:      true,
	})

	return &DownloadTicket{SignedURL: signedURL, ExpiresAt: expiresAt}, nil
}

// RecordUpload binds an uploaded blob to a target the caller owns
func (s *TransferService) RecordUpload(
	ctx context.Context,
	caller core.Caller,
	in RecordInput,
) (*models.Attachment, error) {
	userID, err := registeredUser(caller)
	if err != nil {
		return nil, err
	}
	if !in.TargetType.Valid() {
		return nil, fmt.Errorf("%w: unknown target type %q", core.ErrInvalidUpload, in.TargetType)
	}

	target, err := s.lookupTarget(in.TargetType, in.TargetID)
	if err != nil {
		return nil, err
	}
	if !target.IsOwnedBy(userID) {
		return nil, core.ErrForbidden
	}
	if !strings.HasPrefix(in.StoragePath, storagePrefix(in.TargetType, userID)) {
		return nil, core.ErrForbidden
	}
	if !isIssuedStoragePath(in.StoragePath, in.TargetType, userID) {
		return nil, fmt.Errorf("%w: storage_path was not issued by an upload ticket", core.ErrInvalidUpload)
	}

	blobConfirmed := false
	if s.inspector != nil {
		info, err := s.inspector.Stat(ctx, in.StoragePath)
		if err != nil {
			switch {
			case errors.Is(err, core.ErrBlobNotFound):
				return nil, core.ErrBlobNotFound
			case errors.Is(err, blob.ErrPathTraversal):
				return nil, fmt.Errorf("%w: invalid storage_path", core.ErrInvalidUpload)
			}
			return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
		}
		blobConfirmed = true
		in.Size = info.Size
		if in.ContentType == "" {
			in.ContentType = info.ContentType
		}
	}
	if s.opts.MaxUploadSize > 0 && in.Size > s.opts.MaxUploadSize {
		return nil, fmt.Errorf("%w: file exceeds maximum size", core.ErrInvalidUpload)
	}
	in.CreatedBy = userID

	attachment, err := s.attachments.Record(ctx, in)
	if err != nil {
		if blobConfirmed && errors.Is(err, core.ErrStorageUnavailable) {
			s.reportOrphan(ctx, userID, in.StoragePath, err)
		}
		return nil, err
	}

	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventAttachmentRecorded,
		ActorID:      userID,
		ResourceType: models.ResourceAttachment,
		ResourceID:   attachment.ID,
		Action:       "Attachment recorded",
		Details: models.AuditDetails{
			"target_type":  attachment.TargetType.String(),
			"target_id":    attachment.TargetID,
			"storage_path": attachment.StoragePath,
			"size":         attachment.Size,
		},
		Success: true,
	})
	return attachment, nil
}

// ListAttachments lists a target's attachments for anyone who may view it
func (s *TransferService) ListAttachments(
	ctx context.Context,
	caller core.Caller,
	targetID string,
	targetType models.TargetType,
) ([]models.Attachment, error) {
	if caller == nil {
		return nil, core.ErrUnauthenticated
	}
	if !targetType.Valid() {
		return nil, fmt.Errorf("%w: unknown target type %q", core.ErrInvalidUpload, targetType)
	}

	target, err := s.lookupTarget(targetType, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, caller, target); err != nil {
		return nil, err
	}
	return s.attachments.ListByTarget(ctx, targetID, targetType)
}

// RemoveAttachment deletes one attachment of a target the caller owns.
// The blob is removed best-effort after the row.
func (s *TransferService) RemoveAttachment(
	ctx context.Context,
	caller core.Caller,
	attachmentID string,
) error {
	userID, err := registeredUser(caller)
	if err != nil {
		return err
	}

	attachment, err := s.attachments.Get(ctx, attachmentID)
	if err != nil {
		return err
	}
	target, err := s.lookupTarget(attachment.TargetType, attachment.TargetID)
	if err != nil {
		return err
	}
	if !target.IsOwnedBy(userID) {
		return core.ErrForbidden
	}

	if _, err := s.attachments.Delete(ctx, attachmentID); err != nil {
		return err
	}
	s.removeBlob(ctx, attachment.StoragePath)

	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventAttachmentDeleted,
		ActorID:      userID,
		ResourceType: models.ResourceAttachment,
		ResourceID:   attachment.ID,
		Action:       "Attachment deleted",
		Success:      true,
	})
	return nil
}

// RemoveTargetAttachments deletes every attachment of a target the caller owns
func (s *TransferService) RemoveTargetAttachments(
	ctx context.Context,
	caller core.Caller,
	targetID string,
	targetType models.TargetType,
) (int64, error) {
	userID, err := registeredUser(caller)
	if err != nil {
		return 0, err
	}
	if !targetType.Valid() {
		return 0, fmt.Errorf("%w: unknown target type %q", core.ErrInvalidUpload, targetType)
	}

	target, err := s.lookupTarget(targetType, targetID)
	if err != nil {
		return 0, err
	}
	if !target.IsOwnedBy(userID) {
		return 0, core.ErrForbidden
	}

	rows, err := s.store.ListAttachmentsByTarget(targetID, targetType)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	n, err := s.attachments.DeleteAllForTarget(ctx, targetID, targetType)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		s.removeBlob(ctx, row.StoragePath)
	}

	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventAttachmentDeleted,
		ActorID:      userID,
		ResourceType: models.ResourceTarget,
		ResourceID:   targetType.String() + "/" + targetID,
		Action:       "All attachments of target deleted",
		Details:      models.AuditDetails{"count": n},
		Success:      true,
	})
	return n, nil
}

// authorizeView allows the owner, anyone on a public target, and holders of
// an active grant. The grant is looked up on every call.
func (s *TransferService) authorizeView(
	ctx context.Context,
	caller core.Caller,
	target *models.ContentTarget,
) error {
	switch c := caller.(type) {
	case nil:
		return core.ErrUnauthenticated
	case core.RegisteredUser:
		if target.IsOwnedBy(c.UserID) || target.IsPublic() {
			return nil
		}
	case core.GrantHolder:
		if target.IsPublic() || s.grants.IsGrantActive(ctx, c.Token) {
			return nil
		}
	}
	return core.ErrForbidden
}

// lookupTarget maps a missing target to ErrForbidden so callers cannot probe ids
func (s *TransferService) lookupTarget(
	targetType models.TargetType,
	targetID string,
) (*models.ContentTarget, error) {
	target, err := s.store.GetContentTarget(targetType, targetID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, core.ErrForbidden
		}
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return target, nil
}

func (s *TransferService) validateUpload(
	targetType models.TargetType,
	fileName string,
	fileSize int64,
	contentType string,
) error {
	switch {
	case !targetType.Valid():
		return fmt.Errorf("%w: unknown target type %q", core.ErrInvalidUpload, targetType)
	case strings.TrimSpace(fileName) == "":
		return fmt.Errorf("%w: file name is required", core.ErrInvalidUpload)
	case fileSize <= 0:
		return fmt.Errorf("%w: file size must be positive", core.ErrInvalidUpload)
	case s.opts.MaxUploadSize > 0 && fileSize > s.opts.MaxUploadSize:
		return fmt.Errorf(
			"%w: file size %d exceeds limit %d",
			core.ErrInvalidUpload, fileSize, s.opts.MaxUploadSize,
		)
	case strings.TrimSpace(contentType) == "":
		return fmt.Errorf("%w: content type is required", core.ErrInvalidUpload)
	}
	return nil
}

func (s *TransferService) reportOrphan(ctx context.Context, userID, storagePath string, cause error) {
	log.Printf("[Transfer] ORPHANED BLOB candidate %s (user %s): %v", storagePath, userID, cause)
	s.metrics.RecordOrphanedBlob()
	if err := s.auditService.LogSync(ctx, AuditLogEntry{
		EventType:    models.EventOrphanedBlob,
		Severity:     models.SeverityCritical,
		ActorID:      userID,
		ResourceType: models.ResourceBlob,
		ResourceID:   storagePath,
		Action:       "Blob stored without attachment row",
		Success:      false,
		ErrorMessage: cause.Error(),
	}); err != nil {
		log.Printf("[Transfer] Failed to audit orphaned blob %s: %v", storagePath, err)
	}
}

func (s *TransferService) removeBlob(ctx context.Context, storagePath string) {
	if s.inspector == nil {
		return
	}
	if err := s.inspector.Remove(ctx, storagePath); err != nil {
		log.Printf("[Transfer] Failed to remove blob %s: %v", storagePath, err)
	}
}

func (s *TransferService) deny(direction string, err error) {
	reason := denyStorage
	switch {
	case errors.Is(err, core.ErrUnauthenticated):
		reason = denyUnauthenticated
	case errors.Is(err, core.ErrForbidden):
		reason = denyForbidden
	case errors.Is(err, core.ErrInvalidUpload):
		reason = denyInvalid
	}
	s.metrics.RecordTicketDenied(direction, reason)
}

func (s *TransferService) denyDownload(
	ctx context.Context,
	caller core.Caller,
	storagePath string,
	err error,
) {
	s.deny(DirectionDownload, err)
	if !errors.Is(err, core.ErrForbidden) {
		return
	}
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventDownloadDenied,
		Severity:     models.SeverityWarning,
		ActorID:      actorID(caller),
		ResourceType: models.ResourceBlob,
		ResourceID:   storagePath,
		Action:       "Download ticket denied",
		Success:      false,
		ErrorMessage: err.Error(),
	})
}

// NewStoragePath returns "<type>/<userID>/<uuid><ext>". The random component
// makes every call unique, even for identical inputs.
func NewStoragePath(targetType models.TargetType, userID, fileName string) string {
	return storagePrefix(targetType, userID) + uuid.New().String() + safeExt(fileName)
}

func storagePrefix(targetType models.TargetType, userID string) string {
	return targetType.String() + "/" + userID + "/"
}

// isIssuedStoragePath reports whether p has exactly the canonical shape
// NewStoragePath produces for this target type and user, so that no two
// distinct strings can name the same blob.
func isIssuedStoragePath(p string, targetType models.TargetType, userID string) bool {
	name, ok := strings.CutPrefix(p, storagePrefix(targetType, userID))
	if !ok || strings.Contains(name, "/") {
		return false
	}
	ext := path.Ext(name)
	if ext != "" && !extPattern.MatchString(ext) {
		return false
	}
	id, err := uuid.Parse(strings.TrimSuffix(name, ext))
	return err == nil && id.String() == strings.TrimSuffix(name, ext)
}

// safeExt keeps a short alphanumeric extension and drops anything else
func safeExt(fileName string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(fileName, "\\", "/")))
	if !extPattern.MatchString(ext) {
		return ""
	}
	return ext
}

func actorID(caller core.Caller) string {
	switch c := caller.(type) {
	case core.RegisteredUser:
		return c.UserID
	case core.GrantHolder:
		return "grant-holder"
	}
	return ""
}
