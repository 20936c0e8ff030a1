package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"eventplanner-backend/pkg/database"
	"eventplanner-backend/pkg/server"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the embedded schema migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{database.MigrateUp, database.MigrateDown},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	dbCfg := server.DatabaseConfig(cfg)
	target := dbCfg.SQLitePath
	if dbCfg.Driver == database.DriverPostgres {
		target = maskPassword(dbCfg.PostgresDSN)
	}
	log.Info().Str("driver", dbCfg.Driver).Str("target", target).Msg("🔗 running migrations")

	if err := database.Migrate(dbCfg, args[0]); err != nil {
		return err
	}
	if args[0] == database.MigrateDown {
		fmt.Fprintln(cmd.OutOrStdout(), "schema rolled back")
		return nil
	}

	// 验证表是否可用
	db, err := database.NewDatabase(dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	rooms, err := db.CountRooms(context.Background())
	if err != nil {
		return fmt.Errorf("verify schema: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%d events)\n", rooms)
	return nil
}

// maskPassword 隐藏连接字符串中的密码 (URL 与 key=value 两种格式)
func maskPassword(dsn string) string {
	if strings.Contains(dsn, "://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "***"
		}
		return u.Redacted()
	}

	fields := strings.Fields(dsn)
	for i, f := range fields {
		if key, _, ok := strings.Cut(f, "="); ok && strings.EqualFold(key, "password") {
			fields[i] = key + "=xxxxx"
		}
	}
	return strings.Join(fields, " ")
}
