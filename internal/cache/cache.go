// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	feedKeyPrefix  = "feed:%s"
	viewsKeyPrefix = "views:%s"
)

// FeedTTL bounds staleness of the cached feed between mutations that slip
// past invalidation (e.g. a direct DB edit).
const FeedTTL = 30 * time.Second

// Cache wraps a Redis client. A nil Cache or a Cache without a reachable
// client degrades to no-ops so the API keeps working without Redis.
type Cache struct {
	client *redis.Client
}

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// New connects to Redis at addr (host:port or redis:// URL) and returns a
// Cache. Connection failure is logged and yields a degraded no-op Cache.
func New(addr string) *Cache {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			middleware.Logger.Warn("invalid REDIS_URL, continuing without cache", "addr", addr, "error", err.Error())
			return &Cache{}
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unreachable, continuing without cache", "error", err.Error())
		return &Cache{}
	}

	middleware.Logger.Info("Redis connected successfully")
	return &Cache{client: client}
}

// Client returns the underlying Redis client, or nil when degraded.
func (c *Cache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.client
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// FeedKey is the cache key for the full feed of a content kind.
func FeedKey(kind string) string {
	return fmt.Sprintf(feedKeyPrefix, kind)
}

// GetJSON fetches key and unmarshals it into dest. Returns false on miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	s, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss it calls fetch (which must populate dest),
// then stores the result in Redis with ttl. Cache errors degrade to fetch.
func (c *Cache) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := c.GetJSON(ctx, key, dest)
	if err == nil && found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	// Store into cache (best-effort)
	_ = c.SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate drops a key. Best-effort.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c != nil && c.client != nil {
		c.client.Del(ctx, key)
	}
}

// InvalidateFeed drops the cached feed for a content kind.
func (c *Cache) InvalidateFeed(ctx context.Context, kind string) {
	c.Invalidate(ctx, FeedKey(kind))
}

// IncrDailyViews bumps the page-view counter for the given day (YYYY-MM-DD).
// Best-effort; counters expire after 48h.
func (c *Cache) IncrDailyViews(ctx context.Context, day string) {
	if c == nil || c.client == nil {
		return
	}
	key := fmt.Sprintf(viewsKeyPrefix, day)
	if cnt, err := c.client.Incr(ctx, key).Result(); err == nil && cnt == 1 {
		c.client.Expire(ctx, key, 48*time.Hour)
	}
}
