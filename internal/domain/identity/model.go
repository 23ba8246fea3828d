package identity

import (
	"strings"
	"time"
)

// User is a ledger-stable identity. The email is the anchor the external
// ledger knows the person by; the platform handles are how chat members
// refer to each other.
type User struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	TelegramUsername *string   `json:"telegram_username,omitempty"`
	WhatsappNumber   *string   `json:"whatsapp_number,omitempty"`
	WhatsappLID      *string   `json:"whatsapp_lid,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Handle returns the first populated platform handle, used when rendering
// the user back into conversational text.
func (u *User) Handle() string {
	switch {
	case u.TelegramUsername != nil && *u.TelegramUsername != "":
		return *u.TelegramUsername
	case u.WhatsappNumber != nil && *u.WhatsappNumber != "":
		return *u.WhatsappNumber
	case u.WhatsappLID != nil && *u.WhatsappLID != "":
		return *u.WhatsappLID
	}
	return ""
}

// CreateParams carries the fields for a new identity record.
type CreateParams struct {
	Name             string
	Email            string
	TelegramUsername string
	WhatsappNumber   string
	WhatsappLID      string
}

// Patch describes a partial update. A nil pointer leaves the column
// untouched; a pointer to the empty string clears it.
type Patch struct {
	Name             *string
	Email            *string
	TelegramUsername *string
	WhatsappNumber   *string
	WhatsappLID      *string
}

// IsEmpty reports whether the patch touches no fields.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.TelegramUsername == nil &&
		p.WhatsappNumber == nil && p.WhatsappLID == nil
}

// NormalizeEmail lowercases and trims an email before it reaches storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
