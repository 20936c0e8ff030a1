package middleware

import (
	"context"
	"errors"
	"net/http"

	"eventplanner-backend/pkg/models"
	"eventplanner-backend/pkg/services"
	"eventplanner-backend/pkg/session"

	"github.com/rs/zerolog"
)

// UserResolver 根据会话中的用户ID查找用户
type UserResolver interface {
	UserByID(ctx context.Context, id int64) (*models.User, error)
}

// RoomResolver 根据会话中的房间ID查找房间
type RoomResolver interface {
	Get(ctx context.Context, id int64) (*models.Room, error)
}

// Session 会话中间件：解析 cookie，解析当前用户与当前房间，放入 context
// 无效或过期的 cookie 视为匿名会话，不会报错
func Session(mgr *session.Manager, users UserResolver, rooms RoomResolver, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			state := mgr.Load(r)
			rc := &session.RequestContext{State: state}

			if state.Authenticated() {
				user, err := users.UserByID(ctx, state.UserID)
				switch {
				case err == nil:
					rc.User = user
				case isNotFound(err):
					// 用户已不存在
				default:
					logger.Warn().Err(err).Int64("user_id", state.UserID).Msg("failed to resolve session user")
				}
			}

			if state.HasRoom() {
				room, err := rooms.Get(ctx, state.RoomID)
				switch {
				case err == nil:
					rc.Room = room
				case isNotFound(err):
					// 房间已被删除
				default:
					logger.Warn().Err(err).Int64("room_id", state.RoomID).Msg("failed to resolve session room")
				}
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(ctx, rc)))
		})
	}
}

// RequireUser 要求已登录；匿名请求交给 onForbidden 处理
func RequireUser(onForbidden http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session.FromContext(r.Context()).User == nil {
				onForbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoom 要求已登录且已进入房间
func RequireRoom(onForbidden http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !session.FromContext(r.Context()).InRoom() {
				onForbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext 从context中获取当前用户
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user := session.FromContext(ctx).User
	return user, user != nil
}

func isNotFound(err error) bool {
	return errors.Is(err, services.ErrNotFound)
}
