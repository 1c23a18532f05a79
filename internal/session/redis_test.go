package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
)

func newRedisManager(t *testing.T, cfg config.SessionConfig) (*RedisManager, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisManager(cfg, client), server
}

func resolveWith(m Manager, cookie *http.Cookie) (string, error) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	return m.Resolve(req)
}

func TestRedisManagerRoundTrip(t *testing.T) {
	m, server := newRedisManager(t, config.SessionConfig{})

	cookie := issueCookie(t, m, "alice")
	if _, err := uuid.Parse(cookie.Value); err != nil {
		t.Fatalf("expected an opaque session id, got %q", cookie.Value)
	}
	if stored, err := server.Get(redisKeyPrefix + cookie.Value); err != nil || stored != "alice" {
		t.Fatalf("expected username stored server-side, got %q (%v)", stored, err)
	}

	username, err := resolveWith(m, cookie)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if username != "alice" {
		t.Fatalf("expected alice, got %q", username)
	}
}

func TestRedisManagerRejectsUnknownIDs(t *testing.T) {
	m, _ := newRedisManager(t, config.SessionConfig{})

	cases := map[string]*http.Cookie{
		"plain username": {Name: "current_user", Value: "admin"},
		"unknown id":     {Name: "current_user", Value: uuid.NewString()},
		"empty":          {Name: "current_user", Value: ""},
	}
	for name, cookie := range cases {
		if _, err := resolveWith(m, cookie); !errors.Is(err, ErrNoSession) {
			t.Fatalf("%s: expected ErrNoSession, got %v", name, err)
		}
	}
}

func TestRedisManagerClearDeletesEntry(t *testing.T) {
	m, server := newRedisManager(t, config.SessionConfig{})
	cookie := issueCookie(t, m, "alice")

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	m.Clear(rec, req)

	if server.Exists(redisKeyPrefix + cookie.Value) {
		t.Fatalf("expected logout to delete the server-side entry")
	}
	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected a deletion cookie, got %+v", cleared)
	}
	if _, err := resolveWith(m, cookie); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected old cookie to be anonymous after logout, got %v", err)
	}
}

func TestRedisManagerExpiry(t *testing.T) {
	m, server := newRedisManager(t, config.SessionConfig{TTL: time.Minute})
	cookie := issueCookie(t, m, "alice")
	if cookie.MaxAge != 60 {
		t.Fatalf("expected max-age 60, got %d", cookie.MaxAge)
	}

	server.FastForward(2 * time.Minute)
	if _, err := resolveWith(m, cookie); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected expired session to be anonymous, got %v", err)
	}
}
