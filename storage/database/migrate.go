package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ikigai/internal/model"
	"ikigai/pkg/logger"
)

// Migrate runs database migrations, creating all tables.
func Migrate() error {
	db := DB()
	if db == nil {
		return gorm.ErrInvalidDB
	}

	logger.Logger.Info("Starting database migration...")

	err := db.AutoMigrate(
		&model.AuthUser{},
		&model.Profile{},
		&model.Goal{},
	)

	if err != nil {
		logger.Logger.Error("Database migration failed", zap.Error(err))
		return err
	}

	logger.Logger.Info("Database migration completed successfully")
	return nil
}
