package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"eventplanner-backend/pkg/utils"

	"github.com/rs/zerolog"
)

// Recovery 恢复中间件，处理panic并交给 onPanic 渲染错误页
// onPanic 为 nil 时返回 JSON 错误
func Recovery(logger zerolog.Logger, debugMode bool, onPanic http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				// 记录panic信息
				event := logger.Error().Str("panic", fmt.Sprint(rec)).Str("path", r.URL.Path)
				if debugMode {
					event = event.Bytes("stack", debug.Stack())
				}
				event.Msg("❌ PANIC recovered")

				if onPanic != nil {
					onPanic(w, r)
					return
				}
				utils.WriteInternalServerErrorResponse(w, "Internal server error occurred")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
