package entities

import (
	"time"

	"split-server/internal/domain/identity"
)

// User represents the database schema for ledger identities.
type User struct {
	ID        int       `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name             string  `gorm:"type:varchar(256);not null"`
	Email            string  `gorm:"type:varchar(320);uniqueIndex;not null"`
	TelegramUsername *string `gorm:"type:varchar(128);index"`
	WhatsappNumber   *string `gorm:"type:varchar(64);index"`
	WhatsappLID      *string `gorm:"type:varchar(64);index;column:whatsapp_lid"`
}

// TableName specifies the table name for User.
func (User) TableName() string {
	return "users"
}

// EtoD converts database entity to domain model
func (u *User) EtoD() *identity.User {
	return &identity.User{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		TelegramUsername: u.TelegramUsername,
		WhatsappNumber:   u.WhatsappNumber,
		WhatsappLID:      u.WhatsappLID,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// NewSchemaUser creates a database entity from domain model
func NewSchemaUser(u *identity.User) *User {
	return &User{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		TelegramUsername: u.TelegramUsername,
		WhatsappNumber:   u.WhatsappNumber,
		WhatsappLID:      u.WhatsappLID,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
