package cache

import (
	"context"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/storelens/storelens/internal/config"
	"go.uber.org/zap"
)

// ResponseCache stores rendered metric responses keyed by dataset
// fingerprint, operation and window. The fingerprint in the key makes stale
// entries unreachable after a dataset change; no explicit invalidation runs.
type ResponseCache struct {
	enabled bool
	client  *redis.Client
	ttl     time.Duration
	log     *zap.Logger
}

func NewResponseCache(cfg config.Config, log *zap.Logger) *ResponseCache {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return &ResponseCache{log: log.Named("cache")}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	return &ResponseCache{
		enabled: true,
		client:  client,
		ttl:     time.Duration(cfg.CacheTTL) * time.Second,
		log:     log.Named("cache"),
	}
}

func (c *ResponseCache) Enabled() bool {
	return c != nil && c.enabled
}

// Key builds the canonical cache key for one operation over one window.
func Key(fingerprint, operation string, parts ...string) string {
	segments := append([]string{"storelens", fingerprint, operation}, parts...)
	return strings.Join(segments, ":")
}

func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return payload, true
}

func (c *ResponseCache) Set(ctx context.Context, key string, payload []byte) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}
