package identity

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "split-server/internal/domain/identity"
	"split-server/internal/infrastructure/database/entities"
	"split-server/internal/infrastructure/metrics"
	"split-server/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for ledger identities.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new identity record. A unique violation on the email
// column comes back as a conflict error so the caller can retry as update.
func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	started := time.Now()
	defer func() { metrics.DBQueryDuration.WithLabelValues("user_create").Observe(time.Since(started).Seconds()) }()

	entity := entities.NewSchemaUser(user)
	entity.ID = 0

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict,
				"user with this email already exists",
				err,
			)
		}
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create user",
			err,
		)
	}

	*user = *entity.EtoD()
	metrics.UsersCreatedTotal.Inc()
	return nil
}

// GetByID fetches a user by primary key. Absence is (nil, nil).
func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	var entity entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find user",
			err,
		)
	}
	return entity.EtoD(), nil
}

// GetByEmail fetches a user by email. Absence is (nil, nil).
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var entity entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find user by email",
			err,
		)
	}
	return entity.EtoD(), nil
}

// SearchByHandle matches any record whose telegram username, whatsapp number
// or whatsapp LID exactly equals the handle.
func (r *PostgresRepository) SearchByHandle(ctx context.Context, handle string) ([]domain.User, error) {
	started := time.Now()
	defer func() { metrics.DBQueryDuration.WithLabelValues("user_search").Observe(time.Since(started).Seconds()) }()

	var rows []entities.User
	if err := r.db.WithContext(ctx).
		Where("telegram_username = ? OR whatsapp_number = ? OR whatsapp_lid = ?", handle, handle, handle).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to search users by handle",
			err,
		)
	}

	users := make([]domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, *rows[i].EtoD())
	}
	return users, nil
}

// List retrieves users ordered by id.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	query := r.db.WithContext(ctx).Model(&entities.User{}).Order("id ASC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []entities.User
	if err := query.Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list users",
			err,
		)
	}

	users := make([]domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, *rows[i].EtoD())
	}
	return users, nil
}

// UpdateFields applies the given column map to the record and returns the
// updated row.
func (r *PostgresRepository) UpdateFields(ctx context.Context, id int, fields map[string]any) (*domain.User, error) {
	started := time.Now()
	defer func() { metrics.DBQueryDuration.WithLabelValues("user_update").Observe(time.Since(started).Seconds()) }()

	result := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict,
				"user with this email already exists",
				result.Error,
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update user",
			result.Error,
		)
	}
	if result.RowsAffected == 0 {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			"user not found",
			gorm.ErrRecordNotFound,
		)
	}

	return r.GetByID(ctx, id)
}

// Delete removes a user. The bool reports whether a row existed.
func (r *PostgresRepository) Delete(ctx context.Context, id int) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.User{})
	if result.Error != nil {
		return false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete user",
			result.Error,
		)
	}
	return result.RowsAffected > 0, nil
}
