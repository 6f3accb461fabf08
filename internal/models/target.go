package models

import (
	"fmt"
	"time"
)

// TargetType is the kind of content record an attachment or visibility check refers to.
type TargetType string

const (
	TargetApp    TargetType = "app"
	TargetPrompt TargetType = "prompt"
)

// ParseTargetType converts a raw string into a TargetType
func ParseTargetType(s string) (TargetType, error) {
	t := TargetType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown target type: %q", s)
	}
	return t, nil
}

// Valid reports whether t is one of the known target types
func (t TargetType) Valid() bool {
	switch t {
	case TargetApp, TargetPrompt:
		return true
	}
	return false
}

func (t TargetType) String() string {
	return string(t)
}

// Visibility decides who may view a content target
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is a known visibility
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// ContentTarget is the slice of an app or prompt record that authorization needs.
type ContentTarget struct {
	Type       TargetType `gorm:"primaryKey;type:varchar(20)"       json:"type"`
	ID         string     `gorm:"primaryKey;type:varchar(64)"       json:"id"`
	OwnerID    string     `gorm:"not null;index;type:varchar(64)"   json:"owner_id"`
	Visibility Visibility `gorm:"not null;type:varchar(20)"         json:"visibility"`
	CreatedAt  time.Time  `                                         json:"created_at"`
	UpdatedAt  time.Time  `                                         json:"updated_at"`
}

// IsPublic returns true if anyone may view the target
func (t *ContentTarget) IsPublic() bool {
	return t.Visibility == VisibilityPublic
}

// IsOwnedBy returns true if userID owns the target
func (t *ContentTarget) IsOwnedBy(userID string) bool {
	return userID != "" && t.OwnerID == userID
}

// TableName specifies the table name for GORM
func (ContentTarget) TableName() string {
	return "content_targets"
}
