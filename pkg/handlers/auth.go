package handlers

import (
	"errors"
	"net/http"

	"eventplanner-backend/pkg/models"
	"eventplanner-backend/pkg/services"
	"eventplanner-backend/pkg/session"
	"eventplanner-backend/pkg/views"
)

// AuthHandler 注册 / 登录 / 登出
type AuthHandler struct {
	*Base
	accounts *services.Accounts
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(base *Base, accounts *services.Accounts) *AuthHandler {
	return &AuthHandler{Base: base, accounts: accounts}
}

// RegisterPage GET /register
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.PageRegister, views.PageData{})
}

// Register POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	form := models.ParseRegisterForm(r.PostForm)
	if err := form.Validate(); h.invalid(w, r, err, views.PageRegister, views.PageData{}) {
		return
	}

	user, err := h.accounts.Register(r.Context(), form.Username, form.Password, form.RegisterKey)
	switch {
	case errors.Is(err, services.ErrConflict):
		h.redirect(w, r, "/login", "Users already exist. Log in")
	case errors.Is(err, services.ErrInvalidKey):
		h.redirect(w, r, "/register", "Wrong register key. You need to know this in order to register.")
	case err != nil:
		if !h.invalid(w, r, err, views.PageRegister, views.PageData{}) {
			h.fail(w, r, err)
		}
	default:
		h.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
		h.redirect(w, r, "/login", "added a account. now login")
	}
}

// LoginPage GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.PageLogin, views.PageData{})
}

// Login POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	form := models.ParseLoginForm(r.PostForm)
	if err := form.Validate(); h.invalid(w, r, err, views.PageLogin, views.PageData{}) {
		return
	}

	user, err := h.accounts.Login(r.Context(), form.Username, form.Password)
	switch {
	case errors.Is(err, services.ErrAuthFailed):
		h.redirect(w, r, "/login", "Login failed.")
	case err != nil:
		h.fail(w, r, err)
	default:
		session.FromContext(r.Context()).SetUser(user)
		h.redirect(w, r, "/", "Login success. Hello "+user.Username)
	}
}

// Logout GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session.FromContext(r.Context()).Logout()
	h.redirect(w, r, "/", "Logged out. See you soon :)")
}
