package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultSessionSecret   = "change-me-session-secret"
	defaultRegistrationKey = "cube"
)

// Config 应用配置结构
type Config struct {
	// 环境配置
	Environment string `yaml:"environment"`
	Port        string `yaml:"port"`

	// 数据库配置
	DBDriver    string `yaml:"db_driver"`
	PostgresDSN string `yaml:"postgres_dsn"`
	SQLitePath  string `yaml:"sqlite_path"`

	// Session cookie
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	CookieSecure  bool          `yaml:"cookie_secure"`

	// Shared secret required to self-register
	RegistrationKey string `yaml:"registration_key"`

	// CORS配置
	AllowedOrigins []string `yaml:"allowed_origins"`

	// 日志 / 调试配置
	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
}

// Defaults returns the built-in configuration used before any file or env override
func Defaults() *Config {
	return &Config{
		Environment:     "development",
		Port:            "3000",
		DBDriver:        DriverSQLite,
		SQLitePath:      "./data/eventplanner.db",
		SessionSecret:   defaultSessionSecret,
		SessionTTL:      7 * 24 * time.Hour,
		RegistrationKey: defaultRegistrationKey,
		AllowedOrigins:  []string{"*"},
		LogLevel:        "info",
	}
}

// LoadConfig 加载配置: defaults -> YAML file -> .env file -> environment
func LoadConfig() *Config {
	// 根据环境加载对应的 .env 文件
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	switch env {
	case "production":
		loadEnvFile(".env.production")
	default:
		loadEnvFile(".env.local")
	}

	config := Defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := config.loadYAML(path); err != nil {
			fmt.Printf("⚠️  WARNING: ignoring config file %s: %v\n", path, err)
		}
	}

	config.applyEnv()

	// 生产环境关闭调试
	if config.Environment == "production" {
		config.Debug = false
		config.CookieSecure = getEnvBool("COOKIE_SECURE", true)
	}

	return config
}

// loadYAML overlays values from a YAML file onto c
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides c with any environment variable that is set
func (c *Config) applyEnv() {
	c.Environment = getEnvWithDefault("ENVIRONMENT", c.Environment)
	c.Port = getEnvWithDefault("PORT", c.Port)

	// Trim whitespace to avoid trailing spaces/newlines from env sources
	c.DBDriver = strings.ToLower(strings.TrimSpace(getEnvWithDefault("DB_DRIVER", c.DBDriver)))
	c.PostgresDSN = strings.TrimSpace(getEnvWithDefault("POSTGRES_DSN", c.PostgresDSN))
	c.SQLitePath = strings.TrimSpace(getEnvWithDefault("SQLITE_PATH", c.SQLitePath))

	c.SessionSecret = strings.TrimSpace(getEnvWithDefault("SESSION_SECRET", c.SessionSecret))
	c.SessionTTL = getEnvDuration("SESSION_TTL", c.SessionTTL)
	c.CookieSecure = getEnvBool("COOKIE_SECURE", c.CookieSecure)
	c.RegistrationKey = strings.TrimSpace(getEnvWithDefault("REGISTRATION_KEY", c.RegistrationKey))

	c.LogLevel = getEnvWithDefault("LOG_LEVEL", c.LogLevel)
	c.Debug = getEnvBool("DEBUG", c.Debug)

	// CORS配置
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		if origins == "*" {
			c.AllowedOrigins = []string{"*"}
		} else {
			c.AllowedOrigins = nil
			for _, o := range strings.Split(origins, ",") {
				if o = strings.TrimSpace(o); o != "" {
					c.AllowedOrigins = append(c.AllowedOrigins, o)
				}
			}
		}
	}

	// A Postgres DSN without an explicit driver selects Postgres
	if os.Getenv("DB_DRIVER") == "" && c.PostgresDSN != "" {
		c.DBDriver = DriverPostgres
	}
}

// Cached config (initialized once per cold start)
var (
	cachedConfig *Config
	configOnce   sync.Once
)

// GetCached returns the process-wide cached Config.
func GetCached() *Config {
	configOnce.Do(func() {
		cachedConfig = LoadConfig()
	})
	return cachedConfig
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.SessionSecret == defaultSessionSecret && c.IsProduction() {
		return fmt.Errorf("SESSION_SECRET must be set in production")
	}

	if c.RegistrationKey == "" {
		return fmt.Errorf("REGISTRATION_KEY must not be empty")
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	switch c.DBDriver {
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", c.DBDriver, DriverSQLite, DriverPostgres)
	}

	return nil
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// 辅助函数

// getEnvWithDefault 获取环境变量，如果不存在则使用默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool 获取布尔类型的环境变量
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// loadEnvFile 加载 .env 文件到环境变量（不覆盖已存在的变量）
func loadEnvFile(filename string) {
	if _, err := os.Stat(filename); err != nil {
		return // 文件不存在，静默返回
	}
	if err := godotenv.Load(filename); err != nil {
		fmt.Printf("⚠️  WARNING: failed to load %s: %v\n", filename, err)
	}
}
