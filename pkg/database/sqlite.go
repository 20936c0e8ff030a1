package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// SQLiteDSN builds the go-sqlite3 data source for a database file with foreign keys enforced
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}

func ensureSQLiteDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create sqlite directory: %w", err)
		}
	}
	return nil
}

// NewSQLiteDatabase 打开本地 SQLite 数据库文件（开发 / 测试用）
func NewSQLiteDatabase(path string, debug bool) (*SQLDatabase, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}

	if err := ensureSQLiteDir(path); err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite3", SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// 单写者
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	log.Debug().Str("path", path).Msg("✅ SQLite database opened")
	return newSQLDatabase(db, DriverSQLite, debug), nil
}
