package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"split-server/internal/domain/whitelist"
	"split-server/internal/interfaces/httpserver/requests"
	"split-server/internal/interfaces/httpserver/responses"
	"split-server/internal/utils/platformerrors"
)

// WhitelistHandler exposes admin management of the chat whitelist.
type WhitelistHandler struct {
	service *whitelist.Service
	log     zerolog.Logger
}

// NewWhitelistHandler constructs the handler.
func NewWhitelistHandler(service *whitelist.Service, log zerolog.Logger) *WhitelistHandler {
	return &WhitelistHandler{
		service: service,
		log:     log.With().Str("handler", "whitelist").Logger(),
	}
}

// Add handles POST /v1/whitelist
// @Summary Whitelist a group chat
// @Tags Whitelist
// @Accept json
// @Produce json
// @Param request body requests.WhitelistChatRequest true "Chat"
// @Success 201 {object} responses.ChatPayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/whitelist [post]
func (h *WhitelistHandler) Add(c *gin.Context) {
	var req requests.WhitelistChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error())
		return
	}

	chat, err := h.service.Add(c.Request.Context(), req.GroupID, req.Platform)
	if err != nil {
		responses.HandleError(c, err, "failed to whitelist chat")
		return
	}
	c.JSON(http.StatusCreated, responses.ChatFromDomain(chat))
}

// List handles GET /v1/whitelist
// @Summary List whitelisted chats
// @Tags Whitelist
// @Produce json
// @Success 200 {object} responses.ChatListResponse
// @Router /v1/whitelist [get]
func (h *WhitelistHandler) List(c *gin.Context) {
	chats, err := h.service.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list whitelisted chats")
		return
	}

	payload := make([]responses.ChatPayload, 0, len(chats))
	for i := range chats {
		payload = append(payload, responses.ChatFromDomain(&chats[i]))
	}
	c.JSON(http.StatusOK, responses.ChatListResponse{Data: payload})
}

// Remove handles DELETE /v1/whitelist/:group_id
// @Summary Remove a chat from the whitelist
// @Tags Whitelist
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 204 "No Content"
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/whitelist/{group_id} [delete]
func (h *WhitelistHandler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("group_id")); err != nil {
		responses.HandleError(c, err, "failed to remove whitelisted chat")
		return
	}
	c.Status(http.StatusNoContent)
}
