package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/adbeam/adbeam/internal/infrastructure/persistence/models"
	"github.com/adbeam/adbeam/internal/shared/logger"
)

// GormAutoMigrateStrategy implements migration using GORM AutoMigrate
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

// NewGormAutoMigrateStrategy creates a new GORM AutoMigrate strategy
func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.auto-migrate"),
	}
}

// Migrate executes GORM AutoMigrate for the given models
func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB, migrateModels ...interface{}) error {
	if len(migrateModels) == 0 {
		migrateModels = AutoMigrateModels()
	}

	s.logger.Info("running GORM auto-migration", "models_count", len(migrateModels))

	if err := db.AutoMigrate(migrateModels...); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	return nil
}

// GetName returns the strategy name
func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}

// AutoMigrateModels returns every persistence model managed by auto-migration
func AutoMigrateModels() []interface{} {
	return models.AllModels()
}
