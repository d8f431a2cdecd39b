// file: db/migrate.go

package db

import (
	"errors"
	"fmt"

	"bank-clients-api/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations brings the clients table up to the latest schema version.
// It is called once at startup, before the repository is constructed.
func RunMigrations(migrationsPath, dbURL string) error {
	mig, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	logger.Log.Info("Database migrations applied successfully")
	return nil
}
