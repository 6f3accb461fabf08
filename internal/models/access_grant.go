package models

import (
	"time"
)

// GrantSession is the single session slot of an access grant. The three
// fields are always written together, replacing whatever was there before.
type GrantSession struct {
	TokenHash *string    `gorm:"uniqueIndex" json:"-"`
	ExpiresAt *time.Time `                   json:"expires_at,omitempty"`
	IssuedAt  *time.Time `                   json:"issued_at,omitempty"`
}

// IsSet reports whether a session has ever been issued into the slot
func (s GrantSession) IsSet() bool {
	return s.TokenHash != nil && s.ExpiresAt != nil
}

// ActiveAt reports whether the slot holds a session that is still valid at now
func (s GrantSession) ActiveAt(now time.Time) bool {
	return s.IsSet() && s.ExpiresAt.After(now)
}

// AccessGrant is an administrator-issued username/password pair that mints
// time-boxed session tokens for viewing restricted content.
type AccessGrant struct {
	ID             string       `gorm:"primaryKey;type:varchar(36)"                  json:"id"`
	Username       string       `gorm:"uniqueIndex;not null;type:varchar(100)"      json:"username"`
	PasswordHash   string       `gorm:"not null"                                     json:"-"`
	DurationHours  int          `gorm:"not null"                                     json:"duration_hours"`
	Session        GrantSession `gorm:"embedded;embeddedPrefix:session_"             json:"session"`
	SessionVersion int64        `gorm:"not null;default:0"                           json:"session_version"`
	UsedAt         *time.Time   `                                                    json:"used_at,omitempty"`
	CreatedAt      time.Time    `                                                    json:"created_at"`
	UpdatedAt      time.Time    `                                                    json:"updated_at"`
}

// Duration returns how long a session minted from this grant stays valid
func (g *AccessGrant) Duration() time.Duration {
	return time.Duration(g.DurationHours) * time.Hour
}

// IsActive returns true if the grant holds an unexpired session
func (g *AccessGrant) IsActive() bool {
	return g.Session.ActiveAt(time.Now())
}

// TableName specifies the table name for GORM
func (AccessGrant) TableName() string {
	return "access_grants"
}
