package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/auth"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/util"

	"github.com/google/uuid"
)

// sessionTokenBytes is the entropy of a grant session token
const sessionTokenBytes = 32

// GrantSessionResult is handed to a grant holder after a successful login.
// SessionToken is shown once; only its hash is stored.
type GrantSessionResult struct {
	GrantID          string    `json:"-"`
	SessionToken     string    `json:"session_token"`
	SessionExpiresAt time.Time `json:"session_expires_at"`
}

// GrantService manages access grants and the session each one can mint
type GrantService struct {
	store        *store.Store
	authProvider *auth.LocalAuthProvider
	auditService *AuditService
	metrics      core.Recorder
	maxHours     int
	now          func() time.Time
}

func NewGrantService(
	s *store.Store,
	authProvider *auth.LocalAuthProvider,
	auditService *AuditService,
	m core.Recorder,
	maxHours int,
) *GrantService {
	return &GrantService{
		store:        s,
		authProvider: authProvider,
		auditService: auditService,
		metrics:      m,
		maxHours:     maxHours,
		now:          time.Now,
	}
}

// Create stores a new grant around an already hashed password and returns its id
func (s *GrantService) Create(
	ctx context.Context,
	username, passwordHash string,
	durationHours int,
) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || passwordHash == "" {
		return "", fmt.Errorf("%w: username and password are required", core.ErrInvalidGrant)
	}
	if durationHours <= 0 {
		return "", fmt.Errorf("%w: duration_hours must be positive", core.ErrInvalidGrant)
	}
	if s.maxHours > 0 && durationHours > s.maxHours {
		return "", fmt.Errorf(
			"%w: duration_hours must not exceed %d",
			core.ErrInvalidGrant, s.maxHours,
		)
	}

	grant := &models.AccessGrant{
		ID:            uuid.New().String(),
		Username:      username,
		PasswordHash:  passwordHash,
		DurationHours: durationHours,
	}
	if err := s.store.CreateAccessGrant(grant); err != nil {
		if errors.Is(err, store.ErrUsernameConflict) {
			return "", core.ErrDuplicateUsername
		}
		return "", fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}

	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventGrantCreated,
		ActorID:      "admin",
		ResourceType: models.ResourceGrant,
		ResourceID:   grant.ID,
		Action:       "Access grant created",
		Details: models.AuditDetails{
			"username":       username,
			"duration_hours": durationHours,
		},
		Success: true,
	})
	return grant.ID, nil
}

// CreateWithPassword hashes password and creates the grant
func (s *GrantService) CreateWithPassword(
	ctx context.Context,
	username, password string,
	durationHours int,
) (string, error) {
	hash, err := s.authProvider.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) {
			return "", fmt.Errorf("%w: %v", core.ErrInvalidGrant, err)
		}
		return "", err
	}
	return s.Create(ctx, username, hash, durationHours)
}

// Authenticate verifies the credentials and replaces the grant's session with
// a fresh token valid for the grant's duration from now.
func (s *GrantService) Authenticate(
	ctx context.Context,
	username, password string,
) (*GrantSessionResult, error) {
	start := time.Now()

	grant, err := s.authProvider.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			s.recordAuthFailure(ctx, username, start)
			return nil, core.ErrInvalidCredentials
		}
		log.Printf("[Grant] Credential lookup failed: %v", err)
		s.metrics.RecordGrantAuthentication(false, time.Since(start))
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}

	token, err := util.RandomToken(sessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	tokenHash := util.SHA256Hex(token)
	issuedAt := s.now()
	expiresAt := issuedAt.Add(grant.Duration())

	if err := s.store.ReplaceGrantSession(grant.ID, models.GrantSession{
		TokenHash: &tokenHash,
		ExpiresAt: &expiresAt,
		IssuedAt:  &issuedAt,
	}); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			// Revoked between credential check and session write
			s.recordAuthFailure(ctx, username, start)
			return nil, core.ErrInvalidCredentials
		}
		s.metrics.RecordGrantAuthentication(false, time.Since(start))
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}

	s.metrics.RecordGrantAuthentication(true, time.Since(start))
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventGrantAuthenticated,
		ActorID:      grant.Username,
		ResourceType: models.ResourceGrant,
		ResourceID:   grant.ID,
		Action:       "Access grant session issued",
		Details: models.AuditDetails{
			"expires_at": expiresAt.UTC().Format(time.RFC3339),
		},
		Success: true,
	})

	return &GrantSessionResult{
		GrantID:          grant.ID,
		SessionToken:     token,
		SessionExpiresAt: expiresAt,
	}, nil
}

func (s *GrantService) recordAuthFailure(ctx context.Context, username string, start time.Time) {
	s.metrics.RecordGrantAuthentication(false, time.Since(start))
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventGrantAuthFailed,
		Severity:     models.SeverityWarning,
		ActorID:      username,
		ResourceType: models.ResourceGrant,
		Action:       "Access grant login failed",
		Success:      false,
		ErrorMessage: core.ErrInvalidCredentials.Error(),
	})
}

// IsGrantActive reports whether token is the current session of some grant
// and has not expired. Lookup failures count as inactive.
func (s *GrantService) IsGrantActive(ctx context.Context, token string) bool {
	if token == "" {
		s.metrics.RecordGrantCheck(false)
		return false
	}

	grant, err := s.store.GetAccessGrantByTokenHash(util.SHA256Hex(token))
	if err != nil {
		if !errors.Is(err, store.ErrRecordNotFound) {
			log.Printf("[Grant] Session lookup failed: %v", err)
		}
		s.metrics.RecordGrantCheck(false)
		return false
	}

	active := grant.Session.ActiveAt(s.now())
	s.metrics.RecordGrantCheck(active)
	return active
}

// Revoke deletes the grant; its session token stops working immediately
func (s *GrantService) Revoke(ctx context.Context, grantID string) error {
	if err := s.store.DeleteAccessGrant(grantID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return core.ErrGrantNotFound
		}
		return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}

	s.metrics.RecordGrantRevoked()
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventGrantRevoked,
		Severity:     models.SeverityWarning,
		ActorID:      "admin",
		ResourceType: models.ResourceGrant,
		ResourceID:   grantID,
		Action:       "Access grant revoked",
		Success:      true,
	})
	return nil
}

// Get returns a single grant
func (s *GrantService) Get(ctx context.Context, grantID string) (*models.AccessGrant, error) {
	grant, err := s.store.GetAccessGrantByID(grantID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, core.ErrGrantNotFound
		}
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return grant, nil
}

// List returns grants newest first
func (s *GrantService) List(
	ctx context.Context,
	params store.PaginationParams,
) ([]models.AccessGrant, store.PaginationResult, error) {
	grants, pagination, err := s.store.ListAccessGrantsPaginated(params)
	if err != nil {
		return nil, store.PaginationResult{}, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return grants, pagination, nil
}
