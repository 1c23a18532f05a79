package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
)

// CookieManager stores the username in an HS256-signed token inside the
// cookie, so a client cannot claim another identity by editing it.
type CookieManager struct {
	cookie cookieSettings
	secret []byte
}

// NewCookieManager constructs a signed-cookie manager.
func NewCookieManager(cfg config.SessionConfig) (*CookieManager, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}
	return &CookieManager{
		cookie: newCookieSettings(cfg),
		secret: []byte(secret),
	}, nil
}

func (m *CookieManager) Issue(ctx context.Context, w http.ResponseWriter, username string) error {
	token, err := issueToken(username, m.secret, m.cookie.ttl)
	if err != nil {
		return err
	}
	m.cookie.set(w, token)
	return nil
}

func (m *CookieManager) Resolve(r *http.Request) (string, error) {
	value, err := m.cookie.read(r)
	if err != nil {
		return "", err
	}
	subject, err := parseTokenSubject(value, m.secret)
	if err != nil {
		return "", ErrNoSession
	}
	return subject, nil
}

func (m *CookieManager) Clear(w http.ResponseWriter, r *http.Request) {
	m.cookie.clear(w)
}

func issueToken(username string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  username,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseTokenSubject(tokenString string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}
