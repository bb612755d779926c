package repo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStorage keeps the cookie sessionID -> userID mapping with
// a TTL, expired sessions simply vanish.
type RedisSessionStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRedisStorage(redisClient *redis.Client, ttl time.Duration) *RedisSessionStorage {
	return &RedisSessionStorage{
		client: redisClient,
		ttl:    ttl,
	}
}

func (r *RedisSessionStorage) GetUserIdBySession(sessionID string) (userID string, ok bool) {
	v, err := r.client.Get(context.Background(), sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false
		}
		slog.Error(err.Error())
		return "", false
	}
	return v, true
}

func (r *RedisSessionStorage) StoreSession(sessionID string, userID string) {
	r.client.Set(context.Background(), sessionID, userID, r.ttl)
}

func (r *RedisSessionStorage) DeleteSession(sessionID string) (ok bool) {
	r.client.Del(context.Background(), sessionID)
	return true
}
