package database

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// maxConnAge 缓存连接闲置超过该时长后在下次获取时重建
const maxConnAge = 30 * time.Minute

// cachedConn 进程内复用的数据库连接（Vercel 冷启动之间保留）
type cachedConn struct {
	db       DatabaseInterface
	config   DatabaseConfig
	lastUsed time.Time
}

var (
	poolMu sync.Mutex
	cached *cachedConn
)

// GetDatabase 获取进程内共享的数据库连接，配置变化、闲置过久或健康检查失败时重建
func GetDatabase(config DatabaseConfig) (DatabaseInterface, error) {
	poolMu.Lock()
	defer poolMu.Unlock()

	if cached != nil {
		reason := cached.staleReason(config)
		if reason == "" {
			cached.lastUsed = time.Now()
			return cached.db, nil
		}
		log.Info().Str("reason", reason).Msg("🔄 recreating database connection")
		cached.db.Close()
		cached = nil
	}

	db, err := NewDatabase(config)
	if err != nil {
		return nil, err
	}
	cached = &cachedConn{db: db, config: config, lastUsed: time.Now()}
	return db, nil
}

// staleReason 返回需要重建的原因，可复用时返回空串
func (c *cachedConn) staleReason(config DatabaseConfig) string {
	switch {
	case c.config != config:
		return "config changed"
	case time.Since(c.lastUsed) > maxConnAge:
		return "idle"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.db.HealthCheck(ctx); err != nil {
		log.Warn().Err(err).Msg("❌ cached database connection failed health check")
		return "unhealthy"
	}
	return ""
}

// GetConnectionStats 共享连接的状态与连接池计数
func GetConnectionStats() map[string]interface{} {
	poolMu.Lock()
	defer poolMu.Unlock()

	if cached == nil {
		return map[string]interface{}{"status": "no_connection"}
	}

	stats := cached.db.Stats()
	return map[string]interface{}{
		"status":    "connected",
		"driver":    cached.db.Driver(),
		"last_used": cached.lastUsed.Format(time.RFC3339),
		"idle_for":  time.Since(cached.lastUsed).String(),
		"pool": map[string]interface{}{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
			"wait_count":       stats.WaitCount,
			"wait_duration":    stats.WaitDuration.String(),
		},
	}
}

// ResetPool closes and forgets the cached connection
func ResetPool() {
	poolMu.Lock()
	defer poolMu.Unlock()

	if cached != nil {
		cached.db.Close()
		cached = nil
	}
}
