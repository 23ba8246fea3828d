package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"split-server/internal/domain/splitbot"
	"split-server/internal/domain/whitelist"
	"split-server/internal/infrastructure/metrics"
	"split-server/internal/infrastructure/observability"
	"split-server/internal/interfaces/httpserver/requests"
	"split-server/internal/interfaces/httpserver/responses"
	"split-server/internal/utils/platformerrors"
)

// MessageHandler exposes the message-processing entrypoint the platform
// bridges call.
type MessageHandler struct {
	bot       *splitbot.Service
	whitelist *whitelist.Service
	log       zerolog.Logger
}

// NewMessageHandler constructs the handler.
func NewMessageHandler(bot *splitbot.Service, whitelistService *whitelist.Service, log zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		bot:       bot,
		whitelist: whitelistService,
		log:       log.With().Str("handler", "message").Logger(),
	}
}

// Process handles POST /v1/messages
// @Summary Process a group chat message
// @Description Runs the split assistant over one inbound group message. The chat must be whitelisted.
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body requests.ProcessMessageRequest true "Inbound message"
// @Success 200 {object} responses.ProcessMessageResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Router /v1/messages [post]
func (h *MessageHandler) Process(c *gin.Context) {
	var req requests.ProcessMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error())
		return
	}

	chat, err := h.whitelist.Get(c.Request.Context(), req.GroupID)
	if err != nil {
		responses.HandleError(c, err, "failed to check chat whitelist")
		return
	}

	platform := "UNKNOWN"
	if chat != nil {
		platform = string(chat.Platform)
	}
	metrics.MessagesProcessedTotal.WithLabelValues(platform, fmt.Sprintf("%t", chat != nil)).Inc()

	if chat == nil {
		h.log.Warn().Str("group_id", req.GroupID).Msg("message from non-whitelisted chat rejected")
		responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "chat is not whitelisted")
		return
	}

	ctx, span := observability.StartMessageSpan(c.Request.Context(), platform, req.GroupID)
	defer span.End()

	imageURL := ""
	if req.ImageURL != nil {
		imageURL = *req.ImageURL
	}

	reply, err := h.bot.ProcessMessage(ctx, splitbot.ProcessParams{
		Sender:   req.Sender,
		GroupID:  req.GroupID,
		Text:     req.Message,
		ImageURL: imageURL,
		Platform: platform,
	})
	if err != nil {
		observability.RecordError(span, err)
		// Processing failures travel in the body so the bridge can relay
		// the text to the group.
		msg := processErrorText(err)
		c.JSON(http.StatusOK, responses.ProcessMessageResponse{Error: &msg})
		return
	}

	c.JSON(http.StatusOK, responses.ProcessMessageResponse{Response: &reply})
}

func processErrorText(err error) string {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return fmt.Sprintf("Internal server error: %v", err)
}
