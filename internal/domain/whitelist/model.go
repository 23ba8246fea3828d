package whitelist

import (
	"strings"
	"time"
)

// Platform identifies the messaging platform a chat lives on.
type Platform string

const (
	PlatformTelegram Platform = "TELEGRAM"
	PlatformWhatsapp Platform = "WHATSAPP"
)

// ParsePlatform normalizes a raw platform string.
func ParsePlatform(raw string) (Platform, bool) {
	p := Platform(strings.ToUpper(strings.TrimSpace(raw)))
	switch p {
	case PlatformTelegram, PlatformWhatsapp:
		return p, true
	}
	return "", false
}

// Chat is a whitelisted group. The group id is globally unique across
// platforms: a group can be whitelisted at most once.
type Chat struct {
	ID        int       `json:"id"`
	GroupID   string    `json:"group_id"`
	Platform  Platform  `json:"platform_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
