package whitelist

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "split-server/internal/domain/whitelist"
	"split-server/internal/infrastructure/database/entities"
	"split-server/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for whitelisted chats.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a whitelist entry. The group id is globally unique, so a
// duplicate insert surfaces as a conflict.
func (r *PostgresRepository) Create(ctx context.Context, chat *domain.Chat) error {
	entity := entities.NewSchemaWhitelistedChat(chat)
	entity.ID = 0

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict,
				"chat is already whitelisted",
				err,
			)
		}
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to whitelist chat",
			err,
		)
	}

	*chat = *entity.EtoD()
	return nil
}

// GetByGroupID fetches a whitelist entry. Absence is (nil, nil).
func (r *PostgresRepository) GetByGroupID(ctx context.Context, groupID string) (*domain.Chat, error) {
	var entity entities.WhitelistedChat
	if err := r.db.WithContext(ctx).Where("group_id = ?", groupID).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find whitelisted chat",
			err,
		)
	}
	return entity.EtoD(), nil
}

// List retrieves all whitelist entries ordered by id.
func (r *PostgresRepository) List(ctx context.Context) ([]domain.Chat, error) {
	var rows []entities.WhitelistedChat
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list whitelisted chats",
			err,
		)
	}

	chats := make([]domain.Chat, 0, len(rows))
	for i := range rows {
		chats = append(chats, *rows[i].EtoD())
	}
	return chats, nil
}

// Delete removes a whitelist entry. The bool reports whether a row existed.
func (r *PostgresRepository) Delete(ctx context.Context, groupID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("group_id = ?", groupID).Delete(&entities.WhitelistedChat{})
	if result.Error != nil {
		return false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to remove whitelisted chat",
			result.Error,
		)
	}
	return result.RowsAffected > 0, nil
}
