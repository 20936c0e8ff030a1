package middleware

import (
	"net/http"

	"eventplanner-backend/pkg/session"
	"eventplanner-backend/pkg/utils"

	"github.com/rs/zerolog"
)

const (
	CSRFFormField = "csrf_token"
	CSRFHeader    = "X-CSRF-Token"
)

// CSRF 拒绝令牌与会话不一致的写请求 (403)
func CSRF(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(CSRFHeader)
			if provided == "" {
				provided = r.PostFormValue(CSRFFormField)
			}

			expected := session.FromContext(r.Context()).State.CSRF
			if !utils.TokensEqual(provided, expected) {
				logger.Warn().Str("path", r.URL.Path).Msg("csrf token mismatch")
				http.Error(w, "invalid csrf token", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
