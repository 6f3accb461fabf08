package store

import (
	"errors"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"

	"gorm.io/gorm"
)

// CreateAttachment inserts an attachment row
func (s *Store) CreateAttachment(attachment *models.Attachment) error {
	err := s.db.Create(attachment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrStoragePathConflict
	}
	return err
}

// ListAttachmentsByTarget returns a target's attachments, oldest first
func (s *Store) ListAttachmentsByTarget(
	targetID string,
	targetType models.TargetType,
) ([]models.Attachment, error) {
	attachments := []models.Attachment{}
	err := s.db.Where("target_id = ? AND target_type = ?", targetID, targetType).
		Order("created_at ASC").
		Order("id ASC").
		Find(&attachments).Error
	return attachments, err
}

// GetAttachmentByID returns the attachment with the given id
func (s *Store) GetAttachmentByID(id string) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := s.db.Where("id = ?", id).First(&attachment).Error; err != nil {
		return nil, notFound(err)
	}
	return &attachment, nil
}

// GetAttachmentByStoragePath returns the attachment stored at path
func (s *Store) GetAttachmentByStoragePath(path string) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := s.db.Where("storage_path = ?", path).First(&attachment).Error; err != nil {
		return nil, notFound(err)
	}
	return &attachment, nil
}

// DeleteAttachment removes a single attachment row
func (s *Store) DeleteAttachment(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Attachment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DeleteAttachmentsByTarget removes every attachment row of a target and
// returns how many were removed
func (s *Store) DeleteAttachmentsByTarget(
	targetID string,
	targetType models.TargetType,
) (int64, error) {
	result := s.db.Where("target_id = ? AND target_type = ?", targetID, targetType).
		Delete(&models.Attachment{})
	return result.RowsAffected, result.Error
}

// CountAttachments counts all attachment rows
func (s *Store) CountAttachments() (int64, error) {
	var count int64
	err := s.db.Model(&models.Attachment{}).Count(&count).Error
	return count, err
}
