package migration

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	"github.com/adbeam/adbeam/internal/shared/logger"
)

// Strategy is a schema migration mechanism selected by server mode.
type Strategy interface {
	Migrate(db *gorm.DB, models ...interface{}) error
	GetName() string
}

// GolangMigrateStrategy applies versioned SQL scripts with golang-migrate.
// Release deployments use this so the schema history is explicit.
type GolangMigrateStrategy struct {
	scriptsPath string
	logger      logger.Interface
}

// NewGolangMigrateStrategy creates a script-based strategy reading from
// scriptsPath.
func NewGolangMigrateStrategy(scriptsPath string) Strategy {
	return &GolangMigrateStrategy{
		scriptsPath: scriptsPath,
		logger:      logger.NewLogger().With("component", "migration.golang-migrate"),
	}
}

func (s *GolangMigrateStrategy) GetName() string {
	return "golang_migrate"
}

// open builds a migrate instance over the gorm connection. The caller must
// Close it.
func (s *GolangMigrateStrategy) open(db *gorm.DB) (*migrate.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	driver, err := mysql.WithInstance(sqlDB, &mysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("create mysql driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+s.scriptsPath, "mysql", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

// Migrate applies all pending up migrations. It refuses to run against a
// dirty schema; the operator has to resolve that with Force first.
func (s *GolangMigrateStrategy) Migrate(db *gorm.DB, _ ...interface{}) error {
	m, err := s.open(db)
	if err != nil {
		return err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema is dirty at version %d, force a version before migrating", version)
	}

	s.logger.Info("applying migrations", "from_version", version, "scripts_path", s.scriptsPath)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	if after, _, err := m.Version(); err == nil {
		s.logger.Info("migrations applied", "version", after)
	}
	return nil
}

// MigrateDown rolls back the given number of migrations.
func (s *GolangMigrateStrategy) MigrateDown(db *gorm.DB, steps int) error {
	m, err := s.open(db)
	if err != nil {
		return err
	}
	defer m.Close()

	s.logger.Info("rolling back migrations", "steps", steps)
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("roll back migrations: %w", err)
	}
	return nil
}

// GetVersion reports the current schema version and dirty flag.
func (s *GolangMigrateStrategy) GetVersion(db *gorm.DB) (uint, bool, error) {
	m, err := s.open(db)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()
	return m.Version()
}

// Force stamps the schema version and clears the dirty flag without running
// any scripts.
func (s *GolangMigrateStrategy) Force(db *gorm.DB, version int) error {
	m, err := s.open(db)
	if err != nil {
		return err
	}
	defer m.Close()

	s.logger.Warn("forcing migration version", "version", version)
	if err := m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}
