package store

import (
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
)

// AuditLogFilters contains filter criteria for querying audit logs
type AuditLogFilters struct {
	EventType    models.EventType     `json:"event_type,omitempty"`
	ActorID      string               `json:"actor_id,omitempty"`
	ResourceType models.ResourceType  `json:"resource_type,omitempty"`
	ResourceID   string               `json:"resource_id,omitempty"`
	Severity     models.EventSeverity `json:"severity,omitempty"`
	Success      *bool                `json:"success,omitempty"`
	StartTime    time.Time            `json:"start_time,omitzero"`
	EndTime      time.Time            `json:"end_time,omitzero"`
}
