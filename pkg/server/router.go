// Package server wires configuration, storage, services and handlers into a chi router.
package server

import (
	"net/http"
	"time"

	"eventplanner-backend/pkg/config"
	"eventplanner-backend/pkg/database"
	"eventplanner-backend/pkg/handlers"
	customMiddleware "eventplanner-backend/pkg/middleware"
	"eventplanner-backend/pkg/services"
	"eventplanner-backend/pkg/session"
	"eventplanner-backend/pkg/views"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RequestTimeout 单个请求的处理上限（Vercel函数有时间限制，留出缓冲）
const RequestTimeout = 25 * time.Second

// idPattern 数字ID路由参数
const idPattern = "{id:[0-9]+}"

// DatabaseConfig 从应用配置构造数据库配置
func DatabaseConfig(cfg *config.Config) database.DatabaseConfig {
	return database.DatabaseConfig{
		Driver:      cfg.DBDriver,
		PostgresDSN: cfg.PostgresDSN,
		SQLitePath:  cfg.SQLitePath,
		Debug:       cfg.Debug,
	}
}

// NewRouter 创建完整的路由器
func NewRouter(cfg *config.Config, db database.DatabaseInterface, logger zerolog.Logger) (http.Handler, error) {
	renderer, err := views.New()
	if err != nil {
		return nil, err
	}

	svc := services.New(db, cfg.RegistrationKey)
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	base := handlers.NewBase(cfg, sessions, renderer, logger)

	router := chi.NewRouter()
	setupMiddleware(router, cfg, base, sessions, svc, logger)
	setupRoutes(router, cfg, base, svc, db, logger)
	return router, nil
}

// setupMiddleware 设置全局中间件
// 顺序: 会话要在日志之前解析 (日志记录当前用户)，恢复要在会话之后 (错误页需要会话)
func setupMiddleware(router *chi.Mux, cfg *config.Config, base *handlers.Base, sessions *session.Manager, svc *services.Services, logger zerolog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(customMiddleware.Normalize())
	router.Use(middleware.StripSlashes)
	router.Use(customMiddleware.CORS(cfg))
	router.Use(customMiddleware.MaxBodySize(customMiddleware.DefaultMaxBodyBytes))
	router.Use(customMiddleware.Session(sessions, svc.Accounts, svc.Rooms, logger))
	router.Use(customMiddleware.RequestLogger(logger))
	router.Use(customMiddleware.Recovery(logger, cfg.Debug, base.ErrorPage))
	router.Use(middleware.Timeout(RequestTimeout))
}

// setupRoutes 设置所有页面路由
func setupRoutes(router *chi.Mux, cfg *config.Config, base *handlers.Base, svc *services.Services, db database.DatabaseInterface, logger zerolog.Logger) {
	authHandler := handlers.NewAuthHandler(base, svc.Accounts)
	homeHandler := handlers.NewHomeHandler(base, svc.Tasks)
	eventsHandler := handlers.NewEventsHandler(base, svc.Tasks, svc.Comments)
	roomsHandler := handlers.NewRoomsHandler(base, svc.Rooms)
	tasksHandler := handlers.NewTasksHandler(base, svc.Tasks)
	healthHandler := handlers.NewHealthHandler(base, db)

	// 健康检查端点
	router.Get("/healthz", healthHandler.Health)
	if cfg.IsDevelopment() {
		router.Get("/debug/db-pool", healthHandler.PoolStats)
	}

	router.Group(func(r chi.Router) {
		r.Use(customMiddleware.CSRF(logger))

		// 公开页面
		r.Get("/", homeHandler.Index)
		r.Get("/register", authHandler.RegisterPage)
		r.With(customMiddleware.FormContentType).Post("/register", authHandler.Register)
		r.Get("/login", authHandler.LoginPage)
		r.With(customMiddleware.FormContentType).Post("/login", authHandler.Login)
		r.Get("/logout", authHandler.Logout)
		r.Get("/leaveroom", roomsHandler.Leave)

		// 需要登录
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.RequireUser(base.Forbidden))

			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", roomsHandler.List)
				r.With(customMiddleware.FormContentType).Post("/", roomsHandler.Submit)
				r.Get("/delete/"+idPattern, roomsHandler.ConfirmDelete)
				r.Get("/remove/"+idPattern, roomsHandler.Remove)
			})
			r.Get("/joinroom/"+idPattern, roomsHandler.Join)

			r.Route("/task", func(r chi.Router) {
				r.Get("/add", tasksHandler.AddPage)
				r.With(customMiddleware.FormContentType).Post("/add", tasksHandler.Add)
				r.Get("/"+idPattern+"/edit", tasksHandler.EditPage)
				r.With(customMiddleware.FormContentType).Post("/"+idPattern+"/edit", tasksHandler.Edit)
				r.Get("/"+idPattern+"/delete", tasksHandler.ConfirmDelete)
			})
			r.Get("/"+idPattern+"/annihilate", tasksHandler.Annihilate)
			r.Get("/comment/delete/"+idPattern, eventsHandler.DeleteComment)

			// 需要当前房间
			r.Group(func(r chi.Router) {
				r.Use(customMiddleware.RequireRoom(base.Forbidden))
				r.Get("/eventview", eventsHandler.EventView)
				r.With(customMiddleware.FormContentType).Post("/eventview", eventsHandler.PostComment)
			})
		})
	})

	// 404处理
	router.NotFound(base.NotFound)
	// 405处理
	router.MethodNotAllowed(base.MethodNotAllowed)
}
