package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventplanner-backend/pkg/config"
	"eventplanner-backend/pkg/models"
	"eventplanner-backend/pkg/services"
	"eventplanner-backend/pkg/session"
)

type stubUsers map[int64]*models.User

func (s stubUsers) UserByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("get user: %w", services.ErrNotFound)
}

type stubRooms map[int64]*models.Room

func (s stubRooms) Get(_ context.Context, id int64) (*models.Room, error) {
	if r, ok := s[id]; ok {
		return r, nil
	}
	return nil, services.ErrNotFound
}

// requestWithSession builds a request carrying a cookie for state
func requestWithSession(t *testing.T, mgr *session.Manager, method, target string, state *session.State, body url.Values) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, mgr.Save(rec, state))

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionResolvesUserAndRoom(t *testing.T) {
	mgr := session.NewManager("secret", time.Hour, false)
	users := stubUsers{1: {ID: 1, Username: "alice"}}
	rooms := stubRooms{5: {ID: 5, Name: "party", OwnerID: 1}}

	var got *session.RequestContext
	h := Session(mgr, users, rooms, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = session.FromContext(r.Context())
	}))

	t.Run("known ids", func(t *testing.T) {
		h.ServeHTTP(httptest.NewRecorder(), requestWithSession(t, mgr, http.MethodGet, "/", &session.State{UserID: 1, RoomID: 5, CSRF: "c"}, nil))
		require.NotNil(t, got.User)
		require.NotNil(t, got.Room)
		assert.Equal(t, "alice", got.User.Username)
		assert.True(t, got.InRoom())
	})

	t.Run("stale ids resolve to none", func(t *testing.T) {
		h.ServeHTTP(httptest.NewRecorder(), requestWithSession(t, mgr, http.MethodGet, "/", &session.State{UserID: 2, RoomID: 6, CSRF: "c"}, nil))
		assert.Nil(t, got.User)
		assert.Nil(t, got.Room)
	})

	t.Run("no cookie", func(t *testing.T) {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Nil(t, got.User)
		assert.NotEmpty(t, got.State.CSRF)
	})
}

func TestRequireUserAndRoom(t *testing.T) {
	forbidden := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	serve := func(mw func(http.Handler) http.Handler, rc *session.RequestContext) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(session.NewContext(req.Context(), rc))
		rec := httptest.NewRecorder()
		mw(ok).ServeHTTP(rec, req)
		return rec.Code
	}

	anon := &session.RequestContext{State: &session.State{}}
	user := &session.RequestContext{State: &session.State{}, User: &models.User{ID: 1}}
	inRoom := &session.RequestContext{State: &session.State{}, User: &models.User{ID: 1}, Room: &models.Room{ID: 2}}

	assert.Equal(t, http.StatusTeapot, serve(RequireUser(forbidden), anon))
	assert.Equal(t, http.StatusOK, serve(RequireUser(forbidden), user))
	assert.Equal(t, http.StatusTeapot, serve(RequireRoom(forbidden), user))
	assert.Equal(t, http.StatusOK, serve(RequireRoom(forbidden), inRoom))
}

func TestCSRF(t *testing.T) {
	mgr := session.NewManager("secret", time.Hour, false)
	chain := func(next http.Handler) http.Handler {
		return Session(mgr, stubUsers{}, stubRooms{}, zerolog.Nop())(CSRF(zerolog.Nop())(next))
	}
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	state := &session.State{CSRF: "token-1"}

	cases := []struct {
		name   string
		method string
		form   url.Values
		header string
		want   int
	}{
		{"get passes", http.MethodGet, nil, "", http.StatusNoContent},
		{"post with token", http.MethodPost, url.Values{"csrf_token": {"token-1"}}, "", http.StatusNoContent},
		{"post with header", http.MethodPost, url.Values{}, "token-1", http.StatusNoContent},
		{"post without token", http.MethodPost, url.Values{"name": {"x"}}, "", http.StatusForbidden},
		{"post with wrong token", http.MethodPost, url.Values{"csrf_token": {"token-2"}}, "", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := requestWithSession(t, mgr, tc.method, "/rooms", state, tc.form)
			if tc.header != "" {
				req.Header.Set(CSRFHeader, tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.RemoteAddr = "192.0.2.7:5123"
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"path":"/missing"`)
	assert.Contains(t, out, `"ip":"192.0.2.7"`, "forwarding headers are not trusted after RealIP")
	assert.Contains(t, out, `"user":"anonymous"`)
}

func TestRequestLoggerAfterRealIP(t *testing.T) {
	var buf bytes.Buffer
	h := chimw.RealIP(RequestLogger(zerolog.New(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "203.0.113.9")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"ip":"203.0.113.9"`)
}

func TestRecovery(t *testing.T) {
	boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("boom"))
	})

	t.Run("custom page", func(t *testing.T) {
		var buf bytes.Buffer
		rec := httptest.NewRecorder()
		Recovery(zerolog.New(&buf), true, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("error page"))
		})(boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "error page", rec.Body.String())
		assert.Contains(t, buf.String(), "boom")
		assert.Contains(t, buf.String(), "stack")
	})

	t.Run("json fallback", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Recovery(zerolog.Nop(), false, nil)(boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
	})
}

func TestFormContentType(t *testing.T) {
	h := FormContentType(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for ct, want := range map[string]int{
		"":                                  http.StatusBadRequest,
		"application/json":                  http.StatusUnsupportedMediaType,
		"application/x-www-form-urlencoded": http.StatusOK,
		"multipart/form-data; boundary=xyz": http.StatusOK,
	} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		if ct != "" {
			req.Header.Set("Content-Type", ct)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "content type %q", ct)
	}
}

func TestCleanPath(t *testing.T) {
	assert.Equal(t, "/", cleanPath(""))
	assert.Equal(t, "/rooms", cleanPath("  /rooms "))
	assert.Equal(t, "/rooms/", cleanPath("//rooms/"))
	assert.Equal(t, "/task/1/edit", cleanPath("/task/./1//edit"))
}

func TestIsOriginAllowed(t *testing.T) {
	allowed := []string{"https://app.example.com", "https://preview-*"}
	assert.True(t, isOriginAllowed("https://app.example.com", allowed))
	assert.False(t, isOriginAllowed("https://evil.com", allowed))
	assert.False(t, isOriginAllowed("", allowed))
	assert.True(t, isOriginAllowed("https://preview-42.example.com", allowed))
	assert.True(t, isOriginAllowed("anything", []string{"*"}))
}

func TestCORSPreflight(t *testing.T) {
	cfg := config.Defaults()
	cfg.AllowedOrigins = []string{"https://app.example.com"}
	h := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/rooms", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
