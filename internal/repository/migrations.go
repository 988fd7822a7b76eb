package repository

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// MigrationRunner applies the analysis_results schema migrations.
type MigrationRunner struct {
	migrate *migrate.Migrate
	log     *logrus.Logger
}

// NewMigrationRunner builds a MigrationRunner reading .sql files from
// migrationsPath against databaseURL.
func NewMigrationRunner(databaseURL, migrationsPath string, log *logrus.Logger) (*MigrationRunner, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("repository: creating migration instance: %w", err)
	}

	return &MigrationRunner{migrate: m, log: log}, nil
}

// Up applies all pending migrations.
func (mr *MigrationRunner) Up() error {
	mr.log.Info("repository: running migrations up")

	if err := mr.migrate.Up(); err != nil {
		if err == migrate.ErrNoChange {
			mr.log.Info("repository: no pending migrations")
			return nil
		}
		return fmt.Errorf("repository: running migrations up: %w", err)
	}

	version, dirty, err := mr.migrate.Version()
	if err != nil {
		mr.log.WithError(err).Warn("repository: could not read migration version after up")
	} else {
		mr.log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("repository: migrations applied")
	}

	return nil
}

// Down rolls back one migration.
func (mr *MigrationRunner) Down() error {
	mr.log.Info("repository: rolling back one migration")

	if err := mr.migrate.Steps(-1); err != nil {
		if err == migrate.ErrNoChange {
			mr.log.Info("repository: no migrations to roll back")
			return nil
		}
		return fmt.Errorf("repository: rolling back migration: %w", err)
	}

	return nil
}

// Version returns the current migration version.
func (mr *MigrationRunner) Version() (uint, bool, error) {
	return mr.migrate.Version()
}

// Close releases the migration runner's source and database handles.
func (mr *MigrationRunner) Close() error {
	sourceErr, dbErr := mr.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("repository: closing migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("repository: closing migration database: %w", dbErr)
	}
	return nil
}
