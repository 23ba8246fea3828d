package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"split-server/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes for the split domain.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.User{},
		&entities.WhitelistedChat{},
		&entities.ConversationTurn{},
	); err != nil {
		return err
	}

	log.Info().Msg("database schema up to date")
	return nil
}
