package handler

import (
	"net/http"
	"sync"

	"eventplanner-backend/pkg/config"
	"eventplanner-backend/pkg/database"
	"eventplanner-backend/pkg/logger"
	"eventplanner-backend/pkg/server"
	"eventplanner-backend/pkg/utils"
)

var (
	routerMu sync.Mutex
	routerDB database.DatabaseInterface
	router   http.Handler
)

// Handler 是Vercel函数的入口点
// 所有页面集中在一个Chi路由器中（单体路由模式）
func Handler(w http.ResponseWriter, r *http.Request) {
	// 加载配置
	cfg := config.GetCached()

	// 验证配置
	if err := cfg.Validate(); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Configuration error: "+err.Error())
		return
	}

	h, err := currentRouter(cfg)
	if err != nil {
		utils.WriteErrorResponseWithCode(w, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Service unavailable", err.Error())
		return
	}

	h.ServeHTTP(w, r)
}

// currentRouter 复用路由器，数据库连接被连接池重建时一并重建
func currentRouter(cfg *config.Config) (http.Handler, error) {
	// 获取数据库连接（连接池管理，无需手动关闭）
	db, err := database.GetDatabase(server.DatabaseConfig(cfg))
	if err != nil {
		return nil, err
	}

	routerMu.Lock()
	defer routerMu.Unlock()

	if router != nil && routerDB == db {
		return router, nil
	}

	log := logger.Setup(logger.Options{Level: cfg.LogLevel, Production: cfg.IsProduction()})
	h, err := server.NewRouter(cfg, db, log)
	if err != nil {
		return nil, err
	}
	router, routerDB = h, db
	return h, nil
}
