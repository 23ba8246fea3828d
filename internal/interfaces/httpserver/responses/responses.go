package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"split-server/internal/domain/identity"
	"split-server/internal/domain/whitelist"
	"split-server/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// HandleError handles domain errors and returns appropriate HTTP responses
func HandleError(reqCtx *gin.Context, err error, message string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		statusCode := platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType())
		reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
			Error:     message,
			Message:   domainErr.Message,
			RequestID: domainErr.GetRequestID(),
		})
		return
	}
	// Non-platform errors
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:   message,
		Message: err.Error(),
	})
}

// HandleNewError creates a new typed error at the route layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string) {
	ctx := reqCtx.Request.Context()
	err := platformerrors.NewError(ctx, platformerrors.LayerRoute, errorType, message, nil)

	reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(errorType), ErrorResponse{
		Error:     message,
		Message:   message,
		RequestID: err.GetRequestID(),
	})
}

// ProcessMessageResponse is returned by the message endpoint. Exactly one of
// the fields is populated.
type ProcessMessageResponse struct {
	Response *string `json:"response"`
	Error    *string `json:"error"`
}

// UserPayload is returned to clients.
type UserPayload struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	TelegramUsername *string `json:"telegram_username,omitempty"`
	WhatsappNumber   *string `json:"whatsapp_number,omitempty"`
	WhatsappLID      *string `json:"whatsapp_lid,omitempty"`
	CreatedAt        int64   `json:"created_at"`
	UpdatedAt        int64   `json:"updated_at"`
}

// UserFromDomain maps the domain user to DTO.
func UserFromDomain(u *identity.User) UserPayload {
	return UserPayload{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		TelegramUsername: u.TelegramUsername,
		WhatsappNumber:   u.WhatsappNumber,
		WhatsappLID:      u.WhatsappLID,
		CreatedAt:        u.CreatedAt.Unix(),
		UpdatedAt:        u.UpdatedAt.Unix(),
	}
}

// UserListResponse wraps user collections.
type UserListResponse struct {
	Data []UserPayload `json:"data"`
}

// ChatPayload is returned to clients.
type ChatPayload struct {
	ID        int    `json:"id"`
	GroupID   string `json:"group_id"`
	Platform  string `json:"platform_type"`
	CreatedAt int64  `json:"created_at"`
}

// ChatFromDomain maps the domain chat to DTO.
func ChatFromDomain(c *whitelist.Chat) ChatPayload {
	return ChatPayload{
		ID:        c.ID,
		GroupID:   c.GroupID,
		Platform:  string(c.Platform),
		CreatedAt: c.CreatedAt.Unix(),
	}
}

// ChatListResponse wraps whitelist collections.
type ChatListResponse struct {
	Data []ChatPayload `json:"data"`
}
