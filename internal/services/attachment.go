package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"

	"github.com/google/uuid"
)

// RecordInput describes an uploaded blob to be bound to a content target
type RecordInput struct {
	TargetID    string            `json:"target_id"    binding:"required"`
	TargetType  models.TargetType `json:"target_type"  binding:"required"`
	Name        string            `json:"name"         binding:"required"`
	Size        int64             `json:"size"`
	ContentType string            `json:"content_type" binding:"required"`
	StoragePath string            `json:"storage_path" binding:"required"`
	CreatedBy   string            `json:"-"`
}

// AttachmentService owns attachment rows and the per-target list cache
type AttachmentService struct {
	store       *store.Store
	cache       core.Cache[[]models.Attachment]
	cacheTTL    time.Duration
	metrics     core.Recorder
	generations listGenerations
}

// listGenerations hands out a new number for a target list on every
// invalidation. A reader that sees the number move while it was filling the
// cache knows its snapshot may predate the write. Numbers come from one
// counter and entries are never removed, so a number is never reused.
type listGenerations struct {
	mu    sync.Mutex
	seq   uint64
	byKey map[string]uint64
}

func (g *listGenerations) current(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.byKey[key]
}

func (g *listGenerations) bump(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.byKey == nil {
		g.byKey = make(map[string]uint64)
	}
	g.seq++
	g.byKey[key] = g.seq
}

func NewAttachmentService(
	s *store.Store,
	c core.Cache[[]models.Attachment],
	cacheTTL time.Duration,
	m core.Recorder,
) *AttachmentService {
	return &AttachmentService{
		store:    s,
		cache:    c,
		cacheTTL: cacheTTL,
		metrics:  m,
	}
}

func targetCacheKey(targetID string, targetType models.TargetType) string {
	return "attachments:" + targetType.String() + ":" + targetID
}

// ListByTarget returns the target's attachments in ascending creation order
func (s *AttachmentService) ListByTarget(
	ctx context.Context,
	targetID string,
	targetType models.TargetType,
) ([]models.Attachment, error) {
	fetch := func(ctx context.Context, key string) ([]models.Attachment, error) {
		return s.store.ListAttachmentsByTarget(targetID, targetType)
	}

	var (
		rows []models.Attachment
		err  error
	)
	if s.cache != nil {
		key := targetCacheKey(targetID, targetType)
		gen := s.generations.current(key)
		rows, err = s.cache.GetWithFetch(ctx, key, s.cacheTTL, fetch)
		if err == nil && s.generations.current(key) != gen {
			// A write landed while the list was being cached
			if err := s.cache.Delete(ctx, key); err != nil {
				log.Printf("[Attachment] Failed to drop stale list for %s/%s: %v", targetType, targetID, err)
			}
			rows, err = fetch(ctx, key)
		}
	} else {
		rows, err = fetch(ctx, "")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}

	// Cached slices are shared; hand out a copy
	out := make([]models.Attachment, len(rows))
	copy(out, rows)
	return out, nil
}

// Record inserts a row for a blob that is already in storage
func (s *AttachmentService) Record(
	ctx context.Context,
	in RecordInput,
) (*models.Attachment, error) {
	if err := validateRecordInput(in); err != nil {
		return nil, err
	}

	attachment := &models.Attachment{
		ID:          uuid.New().String(),
		TargetID:    in.TargetID,
		TargetType:  in.TargetType,
		Name:        in.Name,
		Size:        in.Size,
		ContentType: in.ContentType,
		StoragePath: in.StoragePath,
		CreatedBy:   in.CreatedBy,
	}
	if err := s.store.CreateAttachment(attachment); err != nil {
		if errors.Is(err, store.ErrStoragePathConflict) {
			return nil, fmt.Errorf("%w: storage path already recorded", core.ErrInvalidUpload)
		}
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}

	s.invalidate(ctx, in.TargetID, in.TargetType)
	s.metrics.RecordAttachmentRecorded(attachment.Size)
	return attachment, nil
}

// Get returns an attachment by id
func (s *AttachmentService) Get(ctx context.Context, id string) (*models.Attachment, error) {
	attachment, err := s.store.GetAttachmentByID(id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, core.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return attachment, nil
}

// GetByStoragePath returns the attachment recorded at path
func (s *AttachmentService) GetByStoragePath(
	ctx context.Context,
	path string,
) (*models.Attachment, error) {
	attachment, err := s.store.GetAttachmentByStoragePath(path)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, core.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return attachment, nil
}

// Delete removes one attachment row and returns what was removed
func (s *AttachmentService) Delete(ctx context.Context, id string) (*models.Attachment, error) {
	attachment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteAttachment(id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, core.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}

	s.invalidate(ctx, attachment.TargetID, attachment.TargetType)
	s.metrics.RecordAttachmentDeleted(1)
	return attachment, nil
}

// DeleteAllForTarget removes every row of the target and returns the count
func (s *AttachmentService) DeleteAllForTarget(
	ctx context.Context,
	targetID string,
	targetType models.TargetType,
) (int64, error) {
	n, err := s.store.DeleteAttachmentsByTarget(targetID, targetType)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}

	s.invalidate(ctx, targetID, targetType)
	if n > 0 {
		s.metrics.RecordAttachmentDeleted(int(n))
	}
	return n, nil
}

func (s *AttachmentService) invalidate(
	ctx context.Context,
	targetID string,
	targetType models.TargetType,
) {
	if s.cache == nil {
		return
	}
	key := targetCacheKey(targetID, targetType)
	s.generations.bump(key)
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("[Attachment] Failed to invalidate cache for %s/%s: %v", targetType, targetID, err)
	}
}

func validateRecordInput(in RecordInput) error {
	switch {
	case !in.TargetType.Valid():
		return fmt.Errorf("%w: unknown target type %q", core.ErrInvalidUpload, in.TargetType)
	case strings.TrimSpace(in.TargetID) == "":
		return fmt.Errorf("%w: target_id is required", core.ErrInvalidUpload)
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", core.ErrInvalidUpload)
	case in.Size < 0:
		return fmt.Errorf("%w: size must not be negative", core.ErrInvalidUpload)
	case strings.TrimSpace(in.ContentType) == "":
		return fmt.Errorf("%w: content_type is required", core.ErrInvalidUpload)
	case in.StoragePath == "":
		return fmt.Errorf("%w: storage_path is required", core.ErrInvalidUpload)
	case in.CreatedBy == "":
		return fmt.Errorf("%w: created_by is required", core.ErrInvalidUpload)
	}
	return nil
}
