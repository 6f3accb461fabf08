package store

import (
	"errors"
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"

	"gorm.io/gorm"
)

// CreateAccessGrant inserts a new grant. The unique index on username decides conflicts.
func (s *Store) CreateAccessGrant(grant *models.AccessGrant) error {
	err := s.db.Create(grant).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUsernameConflict
	}
	return err
}

// GetAccessGrantByID returns the grant with the given id
func (s *Store) GetAccessGrantByID(id string) (*models.AccessGrant, error) {
	var grant models.AccessGrant
	if err := s.db.Where("id = ?", id).First(&grant).Error; err != nil {
		return nil, notFound(err)
	}
	return &grant, nil
}

// GetAccessGrantByUsername returns the grant with the exact (case-sensitive) username
func (s *Store) GetAccessGrantByUsername(username string) (*models.AccessGrant, error) {
	var grant models.AccessGrant
	if err := s.db.Where("username = ?", username).First(&grant).Error; err != nil {
		return nil, notFound(err)
	}
	return &grant, nil
}

// GetAccessGrantByTokenHash returns the grant whose session slot holds tokenHash
func (s *Store) GetAccessGrantByTokenHash(tokenHash string) (*models.AccessGrant, error) {
	var grant models.AccessGrant
	if err := s.db.Where("session_token_hash = ?", tokenHash).First(&grant).Error; err != nil {
		return nil, notFound(err)
	}
	return &grant, nil
}

// ReplaceGrantSession overwrites the session slot of grant id in a single
// UPDATE, bumping the session version and used_at. Concurrent callers race
// last-write-wins.
func (s *Store) ReplaceGrantSession(id string, session models.GrantSession) error {
	result := s.db.Model(&models.AccessGrant{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"session_token_hash": session.TokenHash,
			"session_expires_at": session.ExpiresAt,
			"session_issued_at":  session.IssuedAt,
			"used_at":            session.IssuedAt,
			"session_version":    gorm.Expr("session_version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DeleteAccessGrant removes the grant; its session token stops resolving immediately
func (s *Store) DeleteAccessGrant(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.AccessGrant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ListAccessGrantsPaginated returns grants ordered by creation, newest first
func (s *Store) ListAccessGrantsPaginated(
	params PaginationParams,
) ([]models.AccessGrant, PaginationResult, error) {
	var grants []models.AccessGrant
	var total int64

	query := s.db.Model(&models.AccessGrant{})
	if params.Search != "" {
		query = query.Where("username LIKE ?", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, PaginationResult{}, err
	}

	offset := (params.Page - 1) * params.PageSize
	if err := query.Order("created_at DESC").
		Offset(offset).
		Limit(params.PageSize).
		Find(&grants).Error; err != nil {
		return nil, PaginationResult{}, err
	}

	return grants, CalculatePagination(total, params.Page, params.PageSize), nil
}

// CountActiveGrants counts grants holding an unexpired session
func (s *Store) CountActiveGrants() (int64, error) {
	var count int64
	err := s.db.Model(&models.AccessGrant{}).
		Where("session_token_hash IS NOT NULL AND session_expires_at > ?", time.Now()).
		Count(&count).Error
	return count, err
}
