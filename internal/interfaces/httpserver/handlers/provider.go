package handlers

import (
	"github.com/rs/zerolog"

	"split-server/internal/domain/identity"
	"split-server/internal/domain/splitbot"
	"split-server/internal/domain/whitelist"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Message   *MessageHandler
	User      *UserHandler
	Whitelist *WhitelistHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	bot *splitbot.Service,
	identityService *identity.Service,
	whitelistService *whitelist.Service,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Message:   NewMessageHandler(bot, whitelistService, log),
		User:      NewUserHandler(identityService, log),
		Whitelist: NewWhitelistHandler(whitelistService, log),
	}
}
