// Package session keeps the per-browser session (current user, current room,
// CSRF token and pending flash messages) in a signed cookie.
package session

import (
	"fmt"
	"net/http"
	"time"

	"eventplanner-backend/pkg/models"
	"eventplanner-backend/pkg/utils"

	"github.com/rs/zerolog/log"
)

const CookieName = "eventplanner_session"

// Flash limits keep the signed cookie well under the browser's 4 KB cap
const (
	MaxFlashRunes   = 120
	MaxFlashesQueue = 5
)

// State is the decoded session cookie. The zero value is an anonymous session with no room.
type State struct {
	UserID  int64
	RoomID  int64
	CSRF    string
	flashes []string
	dirty   bool
}

// Authenticated reports whether a user id is set
func (s *State) Authenticated() bool { return s.UserID != 0 }

// HasRoom reports whether a room id is set
func (s *State) HasRoom() bool { return s.RoomID != 0 }

// Dirty reports whether the state changed since it was loaded
func (s *State) Dirty() bool { return s.dirty }

func (s *State) SetUser(userID int64) {
	s.UserID = userID
	s.dirty = true
}

func (s *State) SetRoom(roomID int64) {
	s.RoomID = roomID
	s.dirty = true
}

// ClearRoom forgets the current room
func (s *State) ClearRoom() {
	if s.RoomID != 0 {
		s.RoomID = 0
		s.dirty = true
	}
}

// Logout forgets both the user and the room
func (s *State) Logout() {
	if s.UserID != 0 || s.RoomID != 0 {
		s.UserID, s.RoomID = 0, 0
		s.dirty = true
	}
}

// AddFlash queues a message for the next rendered page. Long messages are
// truncated and only the newest MaxFlashesQueue are kept.
func (s *State) AddFlash(msg string) {
	if r := []rune(msg); len(r) > MaxFlashRunes {
		msg = string(r[:MaxFlashRunes-1]) + "…"
	}
	s.flashes = append(s.flashes, msg)
	if len(s.flashes) > MaxFlashesQueue {
		s.flashes = s.flashes[len(s.flashes)-MaxFlashesQueue:]
	}
	s.dirty = true
}

// PopFlashes returns and clears the pending messages
func (s *State) PopFlashes() []string {
	if len(s.flashes) == 0 {
		return nil
	}
	out := s.flashes
	s.flashes = nil
	s.dirty = true
	return out
}

// Manager signs and verifies session cookies
type Manager struct {
	tokens *utils.JWTService
	ttl    time.Duration
	secure bool
}

func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		tokens: utils.NewJWTService(secret),
		ttl:    ttl,
		secure: secure,
	}
}

// Load decodes the session cookie. A missing, malformed, expired or forged cookie
// yields a fresh anonymous state. Every state carries a CSRF token.
func (m *Manager) Load(r *http.Request) *State {
	state := &State{}

	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		claims, err := m.tokens.ValidateSession(cookie.Value)
		if err != nil {
			log.Debug().Err(err).Msg("discarding invalid session cookie")
			state.dirty = true
		} else {
			state.UserID = claims.UserID
			state.RoomID = claims.RoomID
			state.CSRF = claims.CSRF
			state.flashes = claims.Flashes
		}
	}

	if state.CSRF == "" {
		token, err := utils.GenerateURLToken(utils.CSRFTokenBytes)
		if err != nil {
			// crypto/rand failing leaves the session without CSRF; every POST will be rejected
			log.Error().Err(err).Msg("failed to generate csrf token")
		}
		state.CSRF = token
		state.dirty = true
	}

	return state
}

// Save re-signs the state into the cookie, extending its expiry
func (m *Manager) Save(w http.ResponseWriter, s *State) error {
	token, err := m.tokens.SignSession(&models.SessionClaims{
		UserID:  s.UserID,
		RoomID:  s.RoomID,
		CSRF:    s.CSRF,
		Flashes: s.flashes,
	}, m.ttl)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		Expires:  time.Now().Add(m.ttl),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.dirty = false
	return nil
}
