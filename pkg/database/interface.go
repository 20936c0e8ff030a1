package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"eventplanner-backend/pkg/models"

	"github.com/rs/zerolog/log"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseInterface 定义数据库访问接口
type DatabaseInterface interface {
	// 用户管理
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// Rooms
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoomByID(ctx context.Context, id int64) (*models.Room, error)
	GetRoomByName(ctx context.Context, name string) (*models.Room, error)
	ListRoomsByOwner(ctx context.Context, ownerID int64) ([]models.Room, error)
	CountRooms(ctx context.Context) (int, error)
	// DeleteRoom removes the room together with its tasks and comments in one transaction.
	DeleteRoom(ctx context.Context, id int64) error

	// Tasks
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	UpdateTaskText(ctx context.Context, id int64, text string) error
	DeleteTask(ctx context.Context, id int64) error
	ListTasksByAuthor(ctx context.Context, authorID int64) ([]models.Task, error)
	ListTasksByRoom(ctx context.Context, roomID int64) ([]models.Task, error)

	// Comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
	ListCommentsByRoom(ctx context.Context, roomID int64) ([]models.Comment, error)

	// 健康检查
	HealthCheck(ctx context.Context) error

	// Stats exposes the connection pool counters
	Stats() sql.DBStats
	// Driver is DriverPostgres or DriverSQLite
	Driver() string

	// 关闭连接
	Close() error
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver      string
	PostgresDSN string
	SQLitePath  string
	Debug       bool
}

// NewDatabase 根据环境与配置选择数据库实现
func NewDatabase(config DatabaseConfig) (DatabaseInterface, error) {
	switch config.Driver {
	case DriverPostgres:
		if config.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres driver selected but no DSN configured")
		}
		log.Info().Msg("🗄️  Using PostgreSQL database")
		return NewPostgresDatabase(config.PostgresDSN, config.Debug)

	case DriverSQLite, "":
		// 无服务器环境没有持久磁盘
		if isVercelEnvironment() {
			return nil, fmt.Errorf("sqlite is not supported in a serverless environment; set POSTGRES_DSN")
		}
		log.Info().Str("path", config.SQLitePath).Msg("📁 Using SQLite database")
		return NewSQLiteDatabase(config.SQLitePath, config.Debug)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

// isVercelEnvironment 内部检查 Vercel 环境
func isVercelEnvironment() bool {
	vercelEnv := os.Getenv("VERCEL_ENV")
	vercelURL := os.Getenv("VERCEL_URL")
	awsLambda := os.Getenv("AWS_LAMBDA_FUNCTION_NAME")
	return vercelEnv != "" || vercelURL != "" || awsLambda != ""
}
