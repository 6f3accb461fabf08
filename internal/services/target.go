package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"
)

// ErrInvalidTarget indicates a malformed content target registration
var ErrInvalidTarget = errors.New("invalid content target")

// TargetService mirrors the owner and visibility of apps and prompts so
// transfers can be authorized without the content store.
type TargetService struct {
	store        *store.Store
	auditService *AuditService
}

func NewTargetService(s *store.Store, auditService *AuditService) *TargetService {
	return &TargetService{store: s, auditService: auditService}
}

// Upsert registers a target or updates its owner and visibility
func (s *TargetService) Upsert(
	ctx context.Context,
	targetType models.TargetType,
	targetID, ownerID string,
	visibility models.Visibility,
) (*models.ContentTarget, error) {
	switch {
	case !targetType.Valid():
		return nil, fmt.Errorf("%w: unknown target type %q", ErrInvalidTarget, targetType)
	case strings.TrimSpace(targetID) == "":
		return nil, fmt.Errorf("%w: target id is required", ErrInvalidTarget)
	case strings.TrimSpace(ownerID) == "":
		return nil, fmt.Errorf("%w: owner_id is required", ErrInvalidTarget)
	case !visibility.Valid():
		return nil, fmt.Errorf("%w: unknown visibility %q", ErrInvalidTarget, visibility)
	}

	target := &models.ContentTarget{
		Type:       targetType,
		ID:         targetID,
		OwnerID:    ownerID,
		Visibility: visibility,
	}
	if err := s.store.UpsertContentTarget(target); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}

	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventTargetUpserted,
		ActorID:      "admin",
		ResourceType: models.ResourceTarget,
		ResourceID:   targetType.String() + "/" + targetID,
		Action:       "Content target registered",
		Details: models.AuditDetails{
			"owner_id":   ownerID,
			"visibility": string(visibility),
		},
		Success: true,
	})
	return target, nil
}
