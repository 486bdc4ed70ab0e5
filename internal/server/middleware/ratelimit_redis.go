package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "offsync:ratelimit:"

// RedisRateLimiter - fixed window limiter в Redis, общий для нескольких
// экземпляров сервера
type RedisRateLimiter struct {
	client *redis.Client
	now    func() time.Time
	rate   int
	window time.Duration
}

// NewRedisRateLimiter creates a limiter allowing rate requests per window
func NewRedisRateLimiter(client *redis.Client, rate int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		rate:   rate,
		window: window,
		now:    time.Now,
	}
}

// Allow увеличивает счетчик текущего окна и сравнивает его с лимитом
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowStart := l.now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, key, windowStart)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to increment rate counter: %w", err)
	}

	return incr.Val() <= int64(l.rate), nil
}

// NewRedisClient parses the URL and verifies the connection
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("error pinging redis: %w", err)
	}

	return client, nil
}
