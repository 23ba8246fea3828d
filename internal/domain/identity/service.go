package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"split-server/internal/utils/platformerrors"
)

// Service implements the identity directory operations on top of the
// repository.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService constructs the identity service.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("domain", "identity").Logger(),
	}
}

// FindByHandle returns every identity whose telegram username, whatsapp
// number or whatsapp LID exactly equals handle. An empty result is not an
// error; it means the participant is unknown.
func (s *Service) FindByHandle(ctx context.Context, handle string) ([]User, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, nil
	}
	return s.repo.SearchByHandle(ctx, handle)
}

// Create inserts a new identity record.
func (s *Service) Create(ctx context.Context, params CreateParams) (*User, error) {
	name := strings.TrimSpace(params.Name)
	email := NormalizeEmail(params.Email)
	if name == "" || email == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "name and email are required fields", nil)
	}

	user := &User{
		Name:             name,
		Email:            email,
		TelegramUsername: optional(params.TelegramUsername),
		WhatsappNumber:   optional(params.WhatsappNumber),
		WhatsappLID:      optional(params.WhatsappLID),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Int("id", user.ID).Str("email", user.Email).Msg("created user")
	return user, nil
}

// GetByID fetches one identity record.
func (s *Service) GetByID(ctx context.Context, id int) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, fmt.Sprintf("user %d not found", id), nil)
	}
	return user, nil
}

// GetByEmail fetches one identity record by ledger email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, fmt.Sprintf("user with email %s not found", email), nil)
	}
	return user, nil
}

// List returns identity records ordered by id.
func (s *Service) List(ctx context.Context, limit, offset int) ([]User, error) {
	return s.repo.List(ctx, limit, offset)
}

// Update applies a partial update. Nil patch fields are untouched; fields
// set to the empty string clear the column (name and email cannot be
// cleared, only replaced).
func (s *Service) Update(ctx context.Context, id int, patch Patch) (*User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, fmt.Sprintf("user %d not found", id), nil)
	}
	if patch.IsEmpty() {
		return existing, nil
	}

	fields, err := s.patchFields(ctx, patch)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("id", id).Msg("updated user")
	return updated, nil
}

// UpsertByEmail updates the record holding email, creating it when absent.
// The create path tolerates a concurrent create of the same email: the
// loser of the unique-constraint race retries once as an update instead of
// surfacing the conflict.
func (s *Service) UpsertByEmail(ctx context.Context, email string, patch Patch) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "email is a required field", nil)
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.updateExisting(ctx, existing, patch)
	}

	if patch.Name == nil || strings.TrimSpace(*patch.Name) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "name is required when creating a new user", nil)
	}

	user := &User{
		Name:             strings.TrimSpace(*patch.Name),
		Email:            email,
		TelegramUsername: clearable(patch.TelegramUsername),
		WhatsappNumber:   clearable(patch.WhatsappNumber),
		WhatsappLID:      clearable(patch.WhatsappLID),
	}
	err = s.repo.Create(ctx, user)
	if err == nil {
		s.log.Info().Int("id", user.ID).Str("email", email).Msg("created user via upsert")
		return user, nil
	}
	if !IsConflict(err) {
		return nil, err
	}

	// Lost the race: the record exists now, retry as an update.
	s.log.Debug().Str("email", email).Msg("upsert create lost unique race, retrying as update")
	existing, err = s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal,
			fmt.Sprintf("failed to retrieve user after upsert race: %s", email), nil)
	}
	return s.updateExisting(ctx, existing, patch)
}

// Delete removes an identity record.
func (s *Service) Delete(ctx context.Context, id int) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, fmt.Sprintf("user %d not found", id), nil)
	}
	s.log.Info().Int("id", id).Msg("deleted user")
	return nil
}

func (s *Service) updateExisting(ctx context.Context, existing *User, patch Patch) (*User, error) {
	if patch.IsEmpty() {
		return existing, nil
	}
	fields, err := s.patchFields(ctx, patch)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateFields(ctx, existing.ID, fields)
}

func (s *Service) patchFields(ctx context.Context, patch Patch) (map[string]any, error) {
	fields := map[string]any{"updated_at": time.Now()}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeValidation, "name cannot be cleared", nil)
		}
		fields["name"] = name
	}
	if patch.Email != nil {
		email := NormalizeEmail(*patch.Email)
		if email == "" {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeValidation, "email cannot be cleared", nil)
		}
		fields["email"] = email
	}
	if patch.TelegramUsername != nil {
		fields["telegram_username"] = nullable(*patch.TelegramUsername)
	}
	if patch.WhatsappNumber != nil {
		fields["whatsapp_number"] = nullable(*patch.WhatsappNumber)
	}
	if patch.WhatsappLID != nil {
		fields["whatsapp_lid"] = nullable(*patch.WhatsappLID)
	}
	return fields, nil
}

// IsConflict reports whether err is a unique-constraint conflict.
func IsConflict(err error) bool {
	var platformErr *platformerrors.PlatformError
	return errors.As(err, &platformErr) && platformErr.Type == platformerrors.ErrorTypeConflict
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func clearable(value *string) *string {
	if value == nil {
		return nil
	}
	return optional(*value)
}

func nullable(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return value
}
