package models

import (
	"time"
)

// Attachment records one uploaded file bound to exactly one content target.
// StoragePath is a key in blob storage, never a public URL.
type Attachment struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)"                      json:"id"`
	TargetID    string     `gorm:"not null;index:idx_attachment_target;type:varchar(64)" json:"target_id"`
	TargetType  TargetType `gorm:"not null;index:idx_attachment_target;type:varchar(20)" json:"target_type"`
	Name        string     `gorm:"not null;type:varchar(255)"                       json:"name"`
	Size        int64      `gorm:"not null"                                         json:"size"`
	ContentType string     `gorm:"not null;type:varchar(255)"                       json:"content_type"`
	StoragePath string     `gorm:"uniqueIndex;not null;type:varchar(512)"           json:"storage_path"`
	CreatedBy   string     `gorm:"not null;index;type:varchar(64)"                  json:"created_by"`
	CreatedAt   time.Time  `gorm:"index"                                            json:"created_at"`
}

// TableName specifies the table name for GORM
func (Attachment) TableName() string {
	return "attachments"
}
