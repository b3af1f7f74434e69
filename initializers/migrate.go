package initializers

import (
	"errors"
	"fmt"

	"github.com/Itish41/InnovationTracker/models"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate applies the SQL migrations under cfg.MigrationsPath.
func Migrate(db *gorm.DB, cfg DatabaseConfig, logger *zap.Logger) error {
	logger.Info("Starting database migration", zap.String("source", cfg.MigrationsPath))

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("error getting underlying *sql.DB: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{
		MigrationsTable: "schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create the postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migrations: %w", err)
	}

	logger.Info("Migration completed successfully")
	return nil
}

// SeedUserTypes makes sure every fixed role tag exists. It is idempotent.
func SeedUserTypes(db *gorm.DB) error {
	types := models.DefaultUserTypes()
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type_name"}},
		DoNothing: true,
	}).Create(&types).Error
	if err != nil {
		return fmt.Errorf("seed user types: %w", err)
	}
	return nil
}
