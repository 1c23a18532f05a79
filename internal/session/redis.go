package session

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
)

const redisKeyPrefix = "edumanager:session:"

// RedisManager keeps the username server-side; the cookie only carries a
// random session id. Logging out deletes the server-side entry.
type RedisManager struct {
	cookie cookieSettings
	client *redis.Client
}

func NewRedisManager(cfg config.SessionConfig, client *redis.Client) *RedisManager {
	return &RedisManager{
		cookie: newCookieSettings(cfg),
		client: client,
	}
}

func sessionKey(id string) string {
	return redisKeyPrefix + id
}

func (m *RedisManager) Issue(ctx context.Context, w http.ResponseWriter, username string) error {
	id := uuid.NewString()
	if err := m.client.Set(ctx, sessionKey(id), username, m.cookie.ttl).Err(); err != nil {
		return err
	}
	m.cookie.set(w, id)
	return nil
}

func (m *RedisManager) Resolve(r *http.Request) (string, error) {
	id, err := m.cookie.read(r)
	if err != nil {
		return "", err
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrNoSession
	}

	username, err := m.client.Get(r.Context(), sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return username, nil
}

func (m *RedisManager) Clear(w http.ResponseWriter, r *http.Request) {
	if id, err := m.cookie.read(r); err == nil {
		if err := m.client.Del(r.Context(), sessionKey(id)).Err(); err != nil {
			log.Printf("session delete failed: %v", err)
		}
	}
	m.cookie.clear(w)
}
