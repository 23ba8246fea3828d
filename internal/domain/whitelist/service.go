package whitelist

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"split-server/internal/utils/platformerrors"
)

// Service gates conversation processing on chat whitelisting.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService constructs the whitelist service.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("domain", "whitelist").Logger(),
	}
}

// IsWhitelisted reports whether the group may use the bot.
func (s *Service) IsWhitelisted(ctx context.Context, groupID string) (bool, error) {
	chat, err := s.Get(ctx, groupID)
	if err != nil {
		return false, err
	}
	return chat != nil, nil
}

// Get returns the whitelist entry for a group, or (nil, nil) when the group
// is not whitelisted.
func (s *Service) Get(ctx context.Context, groupID string) (*Chat, error) {
	return s.repo.GetByGroupID(ctx, strings.TrimSpace(groupID))
}

// Add whitelists a group on a platform.
func (s *Service) Add(ctx context.Context, groupID, platform string) (*Chat, error) {
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "group_id is a required field", nil)
	}
	parsed, ok := ParsePlatform(platform)
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("platform_type must be either 'WHATSAPP' or 'TELEGRAM', got '%s'", platform), nil)
	}

	chat := &Chat{GroupID: groupID, Platform: parsed}
	if err := s.repo.Create(ctx, chat); err != nil {
		return nil, err
	}

	s.log.Info().Str("group_id", groupID).Str("platform", string(parsed)).Msg("whitelisted chat")
	return chat, nil
}

// List returns every whitelisted chat.
func (s *Service) List(ctx context.Context) ([]Chat, error) {
	return s.repo.List(ctx)
}

// Remove deletes a group from the whitelist.
func (s *Service) Remove(ctx context.Context, groupID string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(groupID))
	if err != nil {
		return err
	}
	if !deleted {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, fmt.Sprintf("chat %s is not whitelisted", groupID), nil)
	}
	s.log.Info().Str("group_id", groupID).Msg("removed chat from whitelist")
	return nil
}
