package store

import (
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
)

// CreateAuditLog inserts a single audit log entry
func (s *Store) CreateAuditLog(entry *models.AuditLog) error {
	return s.db.Create(entry).Error
}

// CreateAuditLogBatch inserts buffered audit log entries
func (s *Store) CreateAuditLogBatch(entries []*models.AuditLog) error {
	if len(entries) == 0 {
		return nil
	}
	return s.db.CreateInBatches(entries, 100).Error
}

// GetAuditLogsPaginated returns audit logs matching filters, newest first
func (s *Store) GetAuditLogsPaginated(
	params PaginationParams,
	filters AuditLogFilters,
) ([]models.AuditLog, PaginationResult, error) {
	var logs []models.AuditLog
	var total int64

	query := s.db.Model(&models.AuditLog{})
	if filters.EventType != "" {
		query = query.Where("event_type = ?", filters.EventType)
	}
	if filters.ActorID != "" {
		query = query.Where("actor_id = ?", filters.ActorID)
	}
	if filters.ResourceType != "" {
		query = query.Where("resource_type = ?", filters.ResourceType)
	}
	if filters.ResourceID != "" {
		query = query.Where("resource_id = ?", filters.ResourceID)
	}
	if filters.Severity != "" {
		query = query.Where("severity = ?", filters.Severity)
	}
	if filters.Success != nil {
		query = query.Where("success = ?", *filters.Success)
	}
	if !filters.StartTime.IsZero() {
		query = query.Where("event_time >= ?", filters.StartTime)
	}
	if !filters.EndTime.IsZero() {
		query = query.Where("event_time <= ?", filters.EndTime)
	}
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("action LIKE ? OR resource_id LIKE ? OR actor_id LIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, PaginationResult{}, err
	}

	offset := (params.Page - 1) * params.PageSize
	if err := query.Order("event_time DESC").
		Offset(offset).
		Limit(params.PageSize).
		Find(&logs).Error; err != nil {
		return nil, PaginationResult{}, err
	}

	return logs, CalculatePagination(total, params.Page, params.PageSize), nil
}

// DeleteOldAuditLogs deletes audit logs created before cutoff
func (s *Store) DeleteOldAuditLogs(cutoff time.Time) (int64, error) {
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}
