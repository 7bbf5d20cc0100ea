package presence

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "presence:"

// RedisService is a redis-backed presence implementation. Heartbeats are
// keys with a TTL; expiry takes users offline without any cleanup job.
type RedisService struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisService connects to redis and verifies the connection.
func NewRedisService(ctx context.Context, addr string, ttl time.Duration) (*RedisService, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisService{rdb: rdb, ttl: ttl}, nil
}

// SetOnline records a heartbeat for the user.
func (s *RedisService) SetOnline(ctx context.Context, userID string) error {
	if err := s.rdb.Set(ctx, keyPrefix+userID, "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// SetOffline clears the user's presence immediately.
func (s *RedisService) SetOffline(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// IsOnline reports whether the user's heartbeat key still exists.
func (s *RedisService) IsOnline(ctx context.Context, userID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, keyPrefix+userID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// Close releases the redis connection.
func (s *RedisService) Close() error {
	return s.rdb.Close()
}
