// Package session carries the caller's identity between requests in the
// current_user cookie. The cookie ultimately resolves to a username; which
// user that name belongs to is decided by the caller.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
)

// ErrNoSession is returned when the request carries no valid identity.
var ErrNoSession = errors.New("no session")

// Manager issues, resolves and clears identity cookies.
type Manager interface {
	Issue(ctx context.Context, w http.ResponseWriter, username string) error
	Resolve(r *http.Request) (string, error)
	Clear(w http.ResponseWriter, r *http.Request)
}

// NewManager builds the manager selected by cfg.Session.Backend. The redis
// client is only required for the redis backend.
func NewManager(cfg config.SessionConfig, client *redis.Client) (Manager, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "cookie":
		return NewCookieManager(cfg)
	case "redis":
		if client == nil {
			return nil, errors.New("redis session backend requires a redis client")
		}
		return NewRedisManager(cfg, client), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

type cookieSettings struct {
	name   string
	ttl    time.Duration
	secure bool
}

func newCookieSettings(cfg config.SessionConfig) cookieSettings {
	name := strings.TrimSpace(cfg.CookieName)
	if name == "" {
		name = "current_user"
	}
	return cookieSettings{name: name, ttl: cfg.TTL, secure: cfg.Secure}
}

func (c cookieSettings) set(w http.ResponseWriter, value string) {
	cookie := &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if c.ttl > 0 {
		cookie.Expires = time.Now().Add(c.ttl)
		cookie.MaxAge = int(c.ttl.Seconds())
	}
	http.SetCookie(w, cookie)
}

func (c cookieSettings) read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(c.name)
	if err != nil {
		return "", ErrNoSession
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", ErrNoSession
	}
	return value, nil
}

func (c cookieSettings) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
	})
}
