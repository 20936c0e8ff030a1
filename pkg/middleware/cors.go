package middleware

import (
	"net/http"
	"slices"
	"strings"

	"eventplanner-backend/pkg/config"

	"github.com/go-chi/cors"
)

// CORS 创建CORS中间件 (只开放表单用到的方法与头)
func CORS(cfg *config.Config) func(http.Handler) http.Handler {
	// 配置CORS选项
	corsOptions := cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			CSRFHeader,
			"X-Requested-With",
			"Cache-Control",
		},
		AllowCredentials: false,
		MaxAge:           300, // 5分钟
	}

	// 通配符来源不能携带凭据
	if len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		corsOptions.AllowedOrigins = []string{"*"}
		return cors.Handler(corsOptions)
	}

	// 配置了特定来源：支持 "https://preview-*" 这样的前缀模式
	allowed := cfg.AllowedOrigins
	corsOptions.AllowedOrigins = nil
	corsOptions.AllowOriginFunc = func(r *http.Request, origin string) bool {
		return isOriginAllowed(origin, allowed)
	}
	corsOptions.AllowCredentials = true

	return cors.Handler(corsOptions)
}

// isOriginAllowed matches origin exactly or against a trailing "*" prefix pattern
func isOriginAllowed(origin string, allowedOrigins []string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range allowedOrigins {
		switch {
		case allowed == "*", allowed == origin:
			return true
		case strings.HasSuffix(allowed, "*") && strings.HasPrefix(origin, strings.TrimSuffix(allowed, "*")):
			return true
		}
	}
	return false
}
