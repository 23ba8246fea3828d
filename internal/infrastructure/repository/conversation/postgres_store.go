package conversation

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "split-server/internal/domain/conversation"
	"split-server/internal/infrastructure/database/entities"
	"split-server/internal/infrastructure/metrics"
	"split-server/internal/utils/platformerrors"
)

// PostgresStore persists conversation turns per thread. Sequence numbers are
// assigned inside the writing transaction; the thread row lock taken by the
// max() query keeps concurrent appends from colliding.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore constructs the store.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append adds turns to the end of the thread's sequence.
func (s *PostgresStore) Append(ctx context.Context, threadID string, turns []domain.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	started := time.Now()
	defer func() { metrics.DBQueryDuration.WithLabelValues("turns_append").Observe(time.Since(started).Seconds()) }()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextSequence(tx, threadID)
		if err != nil {
			return err
		}

		rows := make([]*entities.ConversationTurn, 0, len(turns))
		for i := range turns {
			turns[i].ThreadID = threadID
			turns[i].Sequence = next + i
			entity, err := entities.NewSchemaConversationTurn(&turns[i])
			if err != nil {
				return err
			}
			entity.ID = 0
			rows = append(rows, entity)
		}

		return tx.Create(&rows).Error
	})
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to append conversation turns",
			err,
		)
	}
	return nil
}

// Load returns the thread's full sequence in append order.
func (s *PostgresStore) Load(ctx context.Context, threadID string) ([]domain.Turn, error) {
	started := time.Now()
	defer func() { metrics.DBQueryDuration.WithLabelValues("turns_load").Observe(time.Since(started).Seconds()) }()

	var rows []entities.ConversationTurn
	if err := s.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load conversation turns",
			err,
		)
	}

	turns := make([]domain.Turn, 0, len(rows))
	for i := range rows {
		turn, err := rows[i].EtoD()
		if err != nil {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeInternal,
				"failed to decode conversation turn",
				err,
			)
		}
		turns = append(turns, *turn)
	}
	return turns, nil
}

// Replace swaps the thread's entire persisted sequence for the given turns
// inside one transaction. Sequences restart from zero.
func (s *PostgresStore) Replace(ctx context.Context, threadID string, turns []domain.Turn) error {
	started := time.Now()
	defer func() { metrics.DBQueryDuration.WithLabelValues("turns_replace").Observe(time.Since(started).Seconds()) }()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_id = ?", threadID).Delete(&entities.ConversationTurn{}).Error; err != nil {
			return err
		}
		if len(turns) == 0 {
			return nil
		}

		rows := make([]*entities.ConversationTurn, 0, len(turns))
		for i := range turns {
			turns[i].ThreadID = threadID
			turns[i].Sequence = i
			entity, err := entities.NewSchemaConversationTurn(&turns[i])
			if err != nil {
				return err
			}
			entity.ID = 0
			rows = append(rows, entity)
		}

		return tx.Create(&rows).Error
	})
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to replace conversation turns",
			err,
		)
	}
	return nil
}

func nextSequence(tx *gorm.DB, threadID string) (int, error) {
	var last entities.ConversationTurn
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("thread_id = ?", threadID).
		Order("sequence DESC").
		First(&last).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return last.Sequence + 1, nil
}
