package store

import (
	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"

	"gorm.io/gorm/clause"
)

// GetContentTarget returns the target record for (targetType, id)
func (s *Store) GetContentTarget(
	targetType models.TargetType,
	id string,
) (*models.ContentTarget, error) {
	var target models.ContentTarget
	if err := s.db.Where("type = ? AND id = ?", targetType, id).First(&target).Error; err != nil {
		return nil, notFound(err)
	}
	return &target, nil
}

// UpsertContentTarget creates the target or updates its owner and visibility
func (s *Store) UpsertContentTarget(target *models.ContentTarget) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner_id", "visibility", "updated_at"}),
	}).Create(target).Error
}
