package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"eventplanner-backend/pkg/config"
	"eventplanner-backend/pkg/models"
	"eventplanner-backend/pkg/services"
	"eventplanner-backend/pkg/session"
	"eventplanner-backend/pkg/views"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Flash messages shown for forbidden requests
const (
	msgLoginRequired = "You need to log in to do this."
	msgNoPermission  = "You don't have permission to do that."
)

// Base 所有页面处理器共享的渲染 / 跳转 / 错误处理
type Base struct {
	config   *config.Config
	sessions *session.Manager
	views    *views.Renderer
	logger   zerolog.Logger
}

// NewBase 创建共享处理器基础
func NewBase(cfg *config.Config, sessions *session.Manager, renderer *views.Renderer, logger zerolog.Logger) *Base {
	return &Base{
		config:   cfg,
		sessions: sessions,
		views:    renderer,
		logger:   logger,
	}
}

// saveSession writes the session cookie; must run before the status line is written
func (b *Base) saveSession(w http.ResponseWriter, rc *session.RequestContext) {
	if err := b.sessions.Save(w, rc.State); err != nil {
		b.logger.Error().Err(err).Msg("failed to save session")
	}
}

// render fills the session fields of data and writes page with status
func (b *Base) render(w http.ResponseWriter, r *http.Request, status int, page string, data views.PageData) {
	rc := session.FromContext(r.Context())
	data.User = rc.User
	data.Room = rc.Room
	data.CSRF = rc.State.CSRF
	data.Flashes = rc.State.PopFlashes()

	var buf bytes.Buffer
	if err := b.views.Render(&buf, page, data); err != nil {
		b.logger.Error().Err(err).Str("page", page).Msg("failed to render view")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	b.saveSession(w, rc)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w) //nolint:errcheck
}

// redirect queues flashes and sends a 302 to target
func (b *Base) redirect(w http.ResponseWriter, r *http.Request, target string, flashes ...string) {
	rc := session.FromContext(r.Context())
	for _, msg := range flashes {
		rc.State.AddFlash(msg)
	}
	b.saveSession(w, rc)
	http.Redirect(w, r, target, http.StatusFound)
}

// afterItemChange is where task and comment actions land
func afterItemChange(rc *session.RequestContext) string {
	if rc.InRoom() {
		return "/eventview"
	}
	return "/"
}

// Forbidden 403: flash and redirect to the event view when there is one, else home
func (b *Base) Forbidden(w http.ResponseWriter, r *http.Request) {
	rc := session.FromContext(r.Context())
	msg := msgNoPermission
	if rc.User == nil {
		msg = msgLoginRequired
	}
	b.redirect(w, r, afterItemChange(rc), msg)
}

// NotFound 404 页面
func (b *Base) NotFound(w http.ResponseWriter, r *http.Request) {
	b.render(w, r, http.StatusNotFound, views.PageNotFound, views.PageData{})
}

// MethodNotAllowed 405 reuses the not-found page
func (b *Base) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	b.render(w, r, http.StatusMethodNotAllowed, views.PageNotFound, views.PageData{})
}

// ErrorPage 500 页面 (panic 恢复后使用)
func (b *Base) ErrorPage(w http.ResponseWriter, r *http.Request) {
	b.render(w, r, http.StatusInternalServerError, views.PageError, views.PageData{})
}

// fail maps a service error onto a response
func (b *Base) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		b.Forbidden(w, r)
	case errors.Is(err, services.ErrNotFound):
		b.NotFound(w, r)
	default:
		b.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		b.ErrorPage(w, r)
	}
}

// invalid re-renders page with field errors when err is a validation error
func (b *Base) invalid(w http.ResponseWriter, r *http.Request, err error, page string, data views.PageData) bool {
	var verrs models.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	data.Form = r.PostForm
	data.Errors = verrs.Messages()
	b.render(w, r, http.StatusBadRequest, page, data)
	return true
}

// idParam reads the numeric {id} route parameter
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseForm reads the request body; a failure is answered with 400
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return false
	}
	return true
}
