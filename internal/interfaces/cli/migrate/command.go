// Package migrate provides database migration CLI commands.
package migrate

import (
	"errors"
	"fmt"
	"path/filepath"

	gomigrate "github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/adbeam/adbeam/internal/infrastructure/config"
	"github.com/adbeam/adbeam/internal/infrastructure/database"
	"github.com/adbeam/adbeam/internal/infrastructure/migration"
	"github.com/adbeam/adbeam/internal/shared/logger"
)

var (
	env     string
	steps   int
	version int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations: apply pending migrations, roll back, and inspect the current version.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newForceCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
	}
}

func newForceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "force",
		Short: "Force the migration version after resolving a dirty state",
		RunE:  runForce,
	}

	cmd.Flags().IntVarP(&version, "version", "v", 0, "Version to force (required)")
	cmd.MarkFlagRequired("version")

	return cmd
}

func initEnv() (*migration.GolangMigrateStrategy, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	scriptsPath, err := filepath.Abs("./internal/infrastructure/migration/scripts")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get scripts path: %w", err)
	}

	strategy, ok := migration.NewGolangMigrateStrategy(scriptsPath).(*migration.GolangMigrateStrategy)
	if !ok {
		return nil, nil, fmt.Errorf("unexpected migration strategy type")
	}

	return strategy, log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	strategy, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Info("running up migrations", "environment", env)

	if err := strategy.Migrate(database.Get()); err != nil {
		log.Error("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	strategy, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Info("running down migrations", "environment", env, "steps", steps)

	if err := strategy.MigrateDown(database.Get(), steps); err != nil {
		log.Error("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Info("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	strategy, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	current, dirty, err := strategy.GetVersion(database.Get())
	if err != nil && !errors.Is(err, gomigrate.ErrNilVersion) {
		log.Error("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Printf("\nMigration Status:\n")
	fmt.Printf("  Environment:     %s\n", env)
	fmt.Printf("  Current Version: %d\n", current)
	fmt.Printf("  Dirty:           %t\n", dirty)

	return nil
}

func runForce(cmd *cobra.Command, args []string) error {
	strategy, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Warn("forcing migration version", "version", version)

	if err := strategy.Force(database.Get(), version); err != nil {
		log.Error("failed to force migration version", "error", err)
		return fmt.Errorf("failed to force migration version: %w", err)
	}

	log.Info("migration version forced", "version", version)
	return nil
}
