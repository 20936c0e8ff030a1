package database

import (
	"database/sql"
	"errors"
	"fmt"

	"eventplanner-backend/pkg/database/migrations"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// Migrate applies (up) or rolls back (down) every embedded migration for the configured driver.
// It uses its own connection because the migrate driver closes it when done.
func Migrate(config DatabaseConfig, direction string) error {
	m, err := newMigrator(config)
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("closing migrator")
		}
	}()

	switch direction {
	case MigrateUp:
		err = m.Up()
	case MigrateDown:
		err = m.Down()
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Str("direction", direction).Msg("📦 schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", verr)
	}
	log.Info().Str("direction", direction).Uint("version", version).Bool("dirty", dirty).Msg("📦 migrations applied")
	return nil
}

func newMigrator(config DatabaseConfig) (*migrate.Migrate, error) {
	var (
		dir      string
		name     string
		driver   migratedb.Driver
		sqlDB    *sql.DB
		err      error
		openName string
		dsn      string
	)

	switch config.Driver {
	case DriverPostgres:
		dir, name, openName, dsn = "postgres", "postgres", "postgres", config.PostgresDSN
	case DriverSQLite, "":
		if err := ensureSQLiteDir(config.SQLitePath); err != nil {
			return nil, err
		}
		dir, name, openName, dsn = "sqlite", "sqlite3", "sqlite3", SQLiteDSN(config.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}

	sqlDB, err = sql.Open(openName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s for migrations: %w", name, err)
	}

	switch name {
	case "postgres":
		driver, err = postgres.WithInstance(sqlDB, &postgres.Config{})
	default:
		driver, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	}
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("init %s migration driver: %w", name, err)
	}

	src, err := iofs.New(migrations.FS, dir)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("load embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, name, driver)
	if err != nil {
		src.Close()
		driver.Close()
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}
