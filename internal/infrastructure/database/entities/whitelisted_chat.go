package entities

import (
	"time"

	"split-server/internal/domain/whitelist"
)

// WhitelistedChat represents the database schema for whitelisted group chats.
// GroupID is unique on its own: a group is whitelisted at most once across
// all platforms.
type WhitelistedChat struct {
	ID        int       `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	GroupID      string `gorm:"type:varchar(128);uniqueIndex;not null"`
	PlatformType string `gorm:"type:varchar(20);not null"`
}

// TableName specifies the table name for WhitelistedChat.
func (WhitelistedChat) TableName() string {
	return "whitelisted_chats"
}

// EtoD converts database entity to domain model
func (w *WhitelistedChat) EtoD() *whitelist.Chat {
	return &whitelist.Chat{
		ID:        w.ID,
		GroupID:   w.GroupID,
		Platform:  whitelist.Platform(w.PlatformType),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// NewSchemaWhitelistedChat creates a database entity from domain model
func NewSchemaWhitelistedChat(c *whitelist.Chat) *WhitelistedChat {
	return &WhitelistedChat{
		ID:           c.ID,
		GroupID:      c.GroupID,
		PlatformType: string(c.Platform),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
