// Package dbtest opens throwaway migrated SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"eventplanner-backend/pkg/database"

	"github.com/stretchr/testify/require"
)

// Config returns a SQLite DatabaseConfig pointing at a fresh file under t.TempDir()
func Config(t testing.TB) database.DatabaseConfig {
	t.Helper()
	return database.DatabaseConfig{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "eventplanner.db"),
	}
}

// NewSQLite migrates a fresh database and returns an open store closed on cleanup
func NewSQLite(t testing.TB) *database.SQLDatabase {
	t.Helper()

	cfg := Config(t)
	require.NoError(t, database.Migrate(cfg, database.MigrateUp))

	db, err := database.NewSQLiteDatabase(cfg.SQLitePath, false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
