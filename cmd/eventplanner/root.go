package main

import (
	"fmt"
	"os"

	"eventplanner-backend/pkg/config"
	"eventplanner-backend/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "eventplanner",
	Short: "Event planner web server",
	Long: `Server-rendered event planner: users register with a shared key,
create or join events, and share tasks and comments inside them.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// loadConfig 加载并校验配置，同时初始化全局日志
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg := config.LoadConfig()
	log := logger.Setup(logger.Options{Level: cfg.LogLevel, Production: cfg.IsProduction()})
	if err := cfg.Validate(); err != nil {
		return nil, log, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, log, nil
}
