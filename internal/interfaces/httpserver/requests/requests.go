package requests

// ProcessMessageRequest is the inbound chat message envelope pushed by the
// platform bridges.
type ProcessMessageRequest struct {
	Message  string  `json:"message" binding:"required"`
	GroupID  string  `json:"group_id" binding:"required"`
	Sender   string  `json:"sender" binding:"required"`
	ImageURL *string `json:"image_url"`
}

// CreateUserRequest creates a ledger identity.
type CreateUserRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required"`
	TelegramUsername string `json:"telegram_username"`
	WhatsappNumber   string `json:"whatsapp_number"`
	WhatsappLID      string `json:"whatsapp_lid"`
}

// UpdateUserRequest patches a ledger identity. Absent fields are untouched;
// fields set to the empty string clear the handle columns.
type UpdateUserRequest struct {
	Name             *string `json:"name"`
	Email            *string `json:"email"`
	TelegramUsername *string `json:"telegram_username"`
	WhatsappNumber   *string `json:"whatsapp_number"`
	WhatsappLID      *string `json:"whatsapp_lid"`
}

// UpsertUserRequest updates the identity anchored at email, creating it when
// absent.
type UpsertUserRequest struct {
	Email            string  `json:"email" binding:"required"`
	Name             *string `json:"name"`
	TelegramUsername *string `json:"telegram_username"`
	WhatsappNumber   *string `json:"whatsapp_number"`
	WhatsappLID      *string `json:"whatsapp_lid"`
}

// WhitelistChatRequest whitelists a group chat.
type WhitelistChatRequest struct {
	GroupID  string `json:"group_id" binding:"required"`
	Platform string `json:"platform_type" binding:"required"`
}
